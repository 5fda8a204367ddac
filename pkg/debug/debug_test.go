package debug

import (
	"errors"
	"image"
	gocolor "image/color"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func TestFrameLogFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.txt")
	frameLog, err := OpenFrameLog(path)
	if err != nil {
		t.Fatalf("打开帧日志失败: %v", err)
	}

	ts := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	frameLog.Write(ts, []string{"Match: a.png in full | conf: 0.91 (HIGH)", "Motion: 1.25%"})
	frameLog.Write(ts, nil) // 空结果不写入

	if err := frameLog.Close(); err != nil {
		t.Fatalf("关闭帧日志失败: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取帧日志失败: %v", err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "Timestamp: 2026-01-02 15:04:05.000\n") {
		t.Errorf("时间戳行不匹配: %q", content)
	}
	if !strings.Contains(content, "Motion: 1.25%\n") {
		t.Error("缺少检测条目")
	}
	if !strings.Contains(content, strings.Repeat("-", 50)) {
		t.Error("缺少分隔线")
	}
	if strings.Count(content, "Timestamp:") != 1 {
		t.Errorf("空结果不应产生日志块: %q", content)
	}
}

// makeNoiseMat 生成随机噪声图，保证感知哈希互不相同
func makeNoiseMat(t *testing.T, seed int64) gocv.Mat {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, gocolor.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		t.Fatalf("生成测试图像失败: %v", err)
	}
	return mat
}

func TestSaverRetention(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "processed")
	saver, err := NewSaver(dir, 3)
	if err != nil {
		t.Fatalf("创建保存器失败: %v", err)
	}

	ts := time.Now()
	for i := 0; i < 6; i++ {
		mat := makeNoiseMat(t, int64(i))
		saver.Save(mat, ts)
		mat.Close()
	}
	saver.Stop()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("读取输出目录失败: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("应只保留 3 张图像, 实际 %d", len(entries))
	}
}

func TestSaverSkipsDuplicateFrames(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "processed")
	saver, err := NewSaver(dir, 10)
	if err != nil {
		t.Fatalf("创建保存器失败: %v", err)
	}

	mat := makeNoiseMat(t, 42)
	defer mat.Close()

	ts := time.Now()
	saver.Save(mat, ts)
	saver.Save(mat, ts) // 完全相同的帧应被跳过
	saver.Stop()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("读取输出目录失败: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("重复帧应被跳过, 实际保存了 %d 张", len(entries))
	}
}

func TestNewSaverCleansDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "processed")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}
	stale := filepath.Join(dir, "stale.png")
	if err := os.WriteFile(stale, []byte("x"), 0644); err != nil {
		t.Fatalf("写入残留文件失败: %v", err)
	}

	saver, err := NewSaver(dir, 3)
	if err != nil {
		t.Fatalf("创建保存器失败: %v", err)
	}
	saver.Stop()

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("上次运行的残留文件应被清理")
	}
}

func TestDeleteWithRetryExhaustsAttempts(t *testing.T) {
	oldAttempts, oldDelay, oldRemove := deleteAttempts, deleteDelay, removeFile
	defer func() {
		deleteAttempts, deleteDelay, removeFile = oldAttempts, oldDelay, oldRemove
	}()
	deleteAttempts = 3
	deleteDelay = time.Millisecond

	// 持续失败的删除（文件被占用的场景）
	calls := 0
	removeFile = func(path string) error {
		calls++
		return errors.New("文件被占用")
	}

	deleteWithRetry("locked.png")

	if calls != 3 {
		t.Errorf("应在 %d 次尝试后放弃, 实际 %d 次", 3, calls)
	}
}

func TestDeleteWithRetryMissingFile(t *testing.T) {
	// 文件已不存在时应立即返回，不做重试等待
	start := time.Now()
	deleteWithRetry(filepath.Join(t.TempDir(), "gone.png"))
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("缺失文件不应触发重试等待, 耗时 %v", elapsed)
	}
}

func TestThumbnailDownscale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1024, 512))
	small := thumbnail(img)
	if small.Bounds().Dx() != thumbWidth {
		t.Errorf("缩略图宽度应为 %d, 实际 %d", thumbWidth, small.Bounds().Dx())
	}
	if small.Bounds().Dy() != 128 {
		t.Errorf("缩略图应保持宽高比, 高度期望 128, 实际 %d", small.Bounds().Dy())
	}

	// 小图不缩放
	tiny := image.NewRGBA(image.Rect(0, 0, 100, 50))
	if thumbnail(tiny).Bounds().Dx() != 100 {
		t.Error("小于缩略图宽度的图像不应缩放")
	}
}
