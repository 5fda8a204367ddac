package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/h8d13/Ceauron/pkg/config"
)

// TesseractEngine 基于 gosseract 的识别引擎
// 检查项的 Language 与 Config 字段直接映射到 tesseract 参数
type TesseractEngine struct{}

// NewTesseractEngine 创建 Tesseract 引擎
func NewTesseractEngine() *TesseractEngine {
	return &TesseractEngine{}
}

// ExtractText 识别图像中的文字
// 每次识别使用独立的 client，避免跨调用的状态残留
func (t *TesseractEngine) ExtractText(img image.Image, check config.OCRCheck) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("编码图像失败: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if check.Language != "" {
		if err := client.SetLanguage(check.Language); err != nil {
			return "", fmt.Errorf("设置 OCR 语言失败: %w", err)
		}
	}
	if err := applyEngineOptions(client, check.Config); err != nil {
		return "", err
	}

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("设置 OCR 图像失败: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract 识别失败: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Close Tesseract 引擎无持久资源
func (t *TesseractEngine) Close() error {
	return nil
}

// applyEngineOptions 解析 tesseract 风格的引擎参数
// 支持 "--psm N" 与 "-c key=value"，其余 token 忽略
func applyEngineOptions(client *gosseract.Client, opts string) error {
	fields := strings.Fields(opts)
	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "--psm":
			if i+1 >= len(fields) {
				return fmt.Errorf("无效的引擎参数: %q", opts)
			}
			i++
			mode, err := strconv.Atoi(fields[i])
			if err != nil {
				return fmt.Errorf("无效的 psm 值 %q: %w", fields[i], err)
			}
			if err := client.SetPageSegMode(gosseract.PageSegMode(mode)); err != nil {
				return fmt.Errorf("设置 psm 失败: %w", err)
			}
		case "-c":
			if i+1 >= len(fields) {
				return fmt.Errorf("无效的引擎参数: %q", opts)
			}
			i++
			key, value, found := strings.Cut(fields[i], "=")
			if !found {
				return fmt.Errorf("无效的变量定义: %q", fields[i])
			}
			if err := client.SetVariable(gosseract.SettableVariable(key), value); err != nil {
				return fmt.Errorf("设置变量 %s 失败: %w", key, err)
			}
		}
	}
	return nil
}
