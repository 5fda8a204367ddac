// Package config 提供全局配置与区域配置的加载
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/h8d13/Ceauron/internal/logger"
)

// Thresholds 置信度阈值
type Thresholds struct {
	High   float64 `json:"high"`
	Medium float64 `json:"medium"`
}

// Config 全局配置
type Config struct {
	// TargetWindow 目标窗口标题 (部分匹配)
	TargetWindow string `json:"target_window"`
	// CaptureInterval 采集间隔 (秒)
	CaptureInterval float64 `json:"capture_interval"`
	// TemplateDir 模板图像目录
	TemplateDir string `json:"template_dir"`
	// MetadataFile 模板元数据文件
	MetadataFile string `json:"templates_metadata"`
	// ConfidenceThresholds 匹配置信度分级阈值
	ConfidenceThresholds Thresholds `json:"confidence_thresholds"`

	// Fullscreen 全屏采集 (忽略 TargetWindow)
	Fullscreen bool `json:"fullscreen"`
	// UseCamera 使用摄像头采集 (优先于窗口/全屏)
	UseCamera    bool `json:"use_camera"`
	CameraIndex  int  `json:"camera_index"`
	CameraWidth  int  `json:"camera_width"`
	CameraHeight int  `json:"camera_height"`

	// 功能开关
	EnablePixelChecks     bool `json:"enable_pixel_checks"`
	EnableMotionDetection bool `json:"enable_motion_detection"`
	EnableOCR             bool `json:"enable_ocr"`
	SaveDebugImages       bool `json:"save_debug_images"`

	// OCREngine OCR 引擎: paddle 或 tesseract
	OCREngine string `json:"ocr_engine"`

	// StartupDelay 启动前的等待时间 (秒)
	StartupDelay float64 `json:"startup_delay"`
	// LogFile 帧日志文件路径
	LogFile string `json:"log_file"`
	// ProcessedDir 调试图像输出目录
	ProcessedDir string `json:"processed_dir"`
	// MaxSavedImages 调试图像最大保留数量
	MaxSavedImages int `json:"max_saved_images"`
}

// DefaultConfig 默认全局配置
func DefaultConfig() *Config {
	return &Config{
		TargetWindow:    "Untitled - Notepad",
		CaptureInterval: 4,
		TemplateDir:     "templates",
		MetadataFile:    "templates_metadata.json",
		ConfidenceThresholds: Thresholds{
			High:   0.8,
			Medium: 0.5,
		},
		Fullscreen:            false,
		UseCamera:             false,
		CameraIndex:           0,
		CameraWidth:           640,
		CameraHeight:          480,
		EnablePixelChecks:     true,
		EnableMotionDetection: false,
		EnableOCR:             true,
		SaveDebugImages:       true,
		OCREngine:             "paddle",
		StartupDelay:          3,
		LogFile:               "ceauron_log.txt",
		ProcessedDir:          "processed",
		MaxSavedImages:        5,
	}
}

// Load 加载全局配置
// 文件缺失或 JSON 无效时回退到默认值，不视为错误
func Load(path string) *Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("配置文件 %s 不存在，使用默认配置", path)
		return cfg
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		logger.Warn("配置文件 %s 解析失败: %v，使用默认配置", path, err)
		return DefaultConfig()
	}

	return cfg
}

// Save 保存全局配置
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}

// CaptureMode 返回采集模式描述
func (c *Config) CaptureMode() string {
	switch {
	case c.UseCamera:
		return "Camera"
	case c.Fullscreen:
		return "Fullscreen"
	default:
		return "Window"
	}
}
