// Package template 加载模板图像与元数据
package template

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"

	"github.com/h8d13/Ceauron/internal/logger"
	"github.com/h8d13/Ceauron/pkg/action"
)

// Template 模板：灰度参考图像及其元数据
// 启动时加载一次，进程生命周期内不可变
type Template struct {
	// Name 模板文件名
	Name string
	// Image 灰度参考图像
	Image gocv.Mat
	// Category 分类标签
	Category string
	// Value 整数取值
	Value int
	// Actions 命中后要执行的动作声明
	Actions []action.Spec
}

// Meta 元数据文件中单个模板的条目
type Meta struct {
	Category string        `json:"category"`
	Value    int           `json:"value"`
	Actions  []action.Spec `json:"actions"`
}

// imageExts 支持的模板图像扩展名
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Load 加载模板目录下的全部模板
// 目录缺失或没有任何有效模板属于启动错误；
// 缺失的元数据条目降级为默认值（uncategorized / 0 / 无动作）。
func Load(dir, metadataFile string) ([]*Template, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("模板目录不存在: %s: %w", dir, err)
	}

	metadata := loadMetadata(metadataFile)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("读取模板目录失败: %w", err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !imageExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		img := gocv.IMRead(path, gocv.IMReadGrayScale)
		if img.Empty() {
			logger.Warn("模板 %s 无法加载，跳过", entry.Name())
			continue
		}

		meta, ok := metadata[entry.Name()]
		if !ok {
			meta = Meta{Category: "uncategorized"}
		}
		if meta.Category == "" {
			meta.Category = "uncategorized"
		}

		templates = append(templates, &Template{
			Name:     entry.Name(),
			Image:    img,
			Category: meta.Category,
			Value:    meta.Value,
			Actions:  meta.Actions,
		})
	}

	if len(templates) == 0 {
		return nil, fmt.Errorf("模板目录 %s 中没有有效的模板图像", dir)
	}

	logger.Info("已加载 %d 个模板", len(templates))
	return templates, nil
}

// loadMetadata 读取元数据文件，缺失或无效时返回空表并告警
func loadMetadata(path string) map[string]Meta {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("元数据文件 %s 不存在，使用默认元数据", path)
		return map[string]Meta{}
	}

	var metadata map[string]Meta
	if err := json.Unmarshal(data, &metadata); err != nil {
		logger.Warn("元数据文件 %s 解析失败: %v，使用默认元数据", path, err)
		return map[string]Meta{}
	}
	return metadata
}

// CloseAll 释放所有模板图像
func CloseAll(templates []*Template) {
	for _, t := range templates {
		t.Image.Close()
	}
}
