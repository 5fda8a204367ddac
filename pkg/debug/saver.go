package debug

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/corona10/goimagehash"
	"gocv.io/x/gocv"
	"golang.org/x/image/draw"

	"github.com/h8d13/Ceauron/internal/logger"
	"github.com/h8d13/Ceauron/pkg/vision/cv"
)

var (
	// deleteAttempts 删除重试次数
	deleteAttempts = 5
	// deleteDelay 每次重试之间的等待
	deleteDelay = time.Second
	// removeFile 删除文件的实现，测试中可替换
	removeFile = os.Remove
)

const (
	// hashDistanceMin 感知哈希距离小于等于该值视为重复帧，跳过保存
	hashDistanceMin = 2
	// thumbWidth 计算哈希前的缩略图宽度
	thumbWidth = 256
)

// Saver 调试图像保存器
// 保留最近 N 张标注帧，相邻重复帧按感知哈希去重；
// 淘汰的文件交给后台删除协程，避免阻塞 worker。
type Saver struct {
	dir string
	max int

	mu       sync.Mutex
	saved    []string
	lastHash *goimagehash.ImageHash
	seq      int

	deleteCh chan string
	done     chan struct{}
}

// NewSaver 创建保存器，清空并重建输出目录
func NewSaver(dir string, max int) (*Saver, error) {
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("清理调试目录失败: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建调试目录失败: %w", err)
	}

	s := &Saver{
		dir:      dir,
		max:      max,
		deleteCh: make(chan string, max*2),
		done:     make(chan struct{}),
	}
	go s.deleteLoop()
	return s, nil
}

// Save 保存一帧标注图像
// 与上一张保存帧感知哈希距离过近时跳过
func (s *Saver) Save(mat gocv.Mat, ts time.Time) {
	if mat.Empty() {
		return
	}

	img, err := cv.MatToImage(mat)
	if err != nil {
		logger.Warn("调试图像转换失败: %v", err)
		return
	}

	hash, err := goimagehash.PerceptionHash(thumbnail(img))
	if err != nil {
		logger.Warn("调试图像哈希计算失败: %v", err)
		hash = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if hash != nil && s.lastHash != nil {
		if dist, err := s.lastHash.Distance(hash); err == nil && dist <= hashDistanceMin {
			logger.Debug("调试图像与上一帧重复（距离 %d），跳过保存", dist)
			return
		}
	}

	s.seq++
	name := fmt.Sprintf("frame_%s_%04d.png", ts.Format("20060102_150405"), s.seq)
	path := filepath.Join(s.dir, name)
	if ok := gocv.IMWrite(path, mat); !ok {
		logger.Warn("调试图像写入失败: %s", path)
		return
	}

	s.lastHash = hash
	s.saved = append(s.saved, path)
	for len(s.saved) > s.max {
		old := s.saved[0]
		s.saved = s.saved[1:]
		select {
		case s.deleteCh <- old:
		default:
			// 删除队列已满，直接在当前协程删除
			deleteWithRetry(old)
		}
	}
}

// Stop 停止后台删除协程并处理完剩余删除任务
func (s *Saver) Stop() {
	close(s.deleteCh)
	<-s.done
}

func (s *Saver) deleteLoop() {
	defer close(s.done)
	for path := range s.deleteCh {
		deleteWithRetry(path)
	}
}

// deleteWithRetry 删除文件，失败时重试
// 文件可能被图像查看器短暂占用，重试耗尽后放弃并告警
func deleteWithRetry(path string) {
	var err error
	for i := 0; i < deleteAttempts; i++ {
		if err = removeFile(path); err == nil || os.IsNotExist(err) {
			return
		}
		time.Sleep(deleteDelay)
	}
	logger.Warn("删除调试图像 %s 失败（已重试 %d 次）: %v", path, deleteAttempts, err)
}

// thumbnail 缩小图像以降低哈希计算开销
func thumbnail(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= thumbWidth {
		return img
	}
	h := b.Dy() * thumbWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, thumbWidth, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
