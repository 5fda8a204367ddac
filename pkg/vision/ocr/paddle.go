package ocr

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	goocr "github.com/getcharzp/go-ocr"

	"github.com/h8d13/Ceauron/internal/logger"
	"github.com/h8d13/Ceauron/pkg/config"
)

// PaddleConfig PaddleOCR 引擎配置
type PaddleConfig struct {
	OnnxRuntimeLibPath string
	DetModelPath       string
	RecModelPath       string
	DictPath           string
}

// PaddleConfigFromEnv 从环境变量读取模型路径，未设置时使用 models/ 下的默认值
func PaddleConfigFromEnv() PaddleConfig {
	return PaddleConfig{
		OnnxRuntimeLibPath: envOr("CEAURON_ONNX_LIB", filepath.Join("models", "lib", "libonnxruntime.so")),
		DetModelPath:       envOr("CEAURON_DET_MODEL", filepath.Join("models", "paddle_weights", "det.onnx")),
		RecModelPath:       envOr("CEAURON_REC_MODEL", filepath.Join("models", "paddle_weights", "rec.onnx")),
		DictPath:           envOr("CEAURON_OCR_DICT", filepath.Join("models", "paddle_weights", "dict.txt")),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// PaddleEngine 基于 go-ocr (PaddleOCR + ONNX Runtime) 的识别引擎
// 模型语言在加载时固定，检查项的 Language/Config 字段由该引擎忽略
type PaddleEngine struct {
	mu     sync.Mutex
	engine goocr.Engine
}

// NewPaddleEngine 创建 PaddleOCR 引擎
func NewPaddleEngine(cfg PaddleConfig) (*PaddleEngine, error) {
	engine, err := goocr.NewPaddleOcrEngine(goocr.Config{
		OnnxRuntimeLibPath: cfg.OnnxRuntimeLibPath,
		DetModelPath:       cfg.DetModelPath,
		RecModelPath:       cfg.RecModelPath,
		DictPath:           cfg.DictPath,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 OCR 引擎失败: %w", err)
	}

	logger.Info("PaddleOCR 引擎初始化成功")
	return &PaddleEngine{engine: engine}, nil
}

// ExtractText 识别图像中的所有文字并拼接
func (p *PaddleEngine) ExtractText(img image.Image, _ config.OCRCheck) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	results, err := p.engine.RunOCR(img)
	if err != nil {
		return "", fmt.Errorf("OCR 识别失败: %w", err)
	}

	var texts []string
	for _, r := range results {
		if r.Text != "" {
			texts = append(texts, r.Text)
		}
	}
	return strings.Join(texts, " "), nil
}

// Close 释放引擎资源
func (p *PaddleEngine) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.engine != nil {
		p.engine.Destroy()
		p.engine = nil
	}
	return nil
}
