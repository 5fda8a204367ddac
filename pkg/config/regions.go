package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Region 命名的矩形检测区域
// Width/Height 为 -1 表示从 (X,Y) 延伸到帧边缘
type Region struct {
	Name        string `json:"name"`
	Enabled     bool   `json:"enabled"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Description string `json:"description"`
}

// ColorCheck 单像素颜色检查
type ColorCheck struct {
	Name        string `json:"name"`
	Enabled     bool   `json:"enabled"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	ColorSpace  string `json:"color_space"`
	Values      []int  `json:"values"`
	Tolerance   int    `json:"tolerance"`
	Description string `json:"description"`
}

// OCRCheck 区域文字识别检查
type OCRCheck struct {
	Name        string  `json:"name"`
	Enabled     bool    `json:"enabled"`
	Language    string  `json:"language"`
	Config      string  `json:"config"`
	Preprocess  bool    `json:"preprocess"`
	Interval    float64 `json:"interval"`
	Description string  `json:"description"`
}

// RegionConfig 区域、颜色检查与 OCR 检查的配置集
type RegionConfig struct {
	Regions     map[string]Region
	ColorChecks map[string]ColorCheck
	OCRChecks   map[string]OCRCheck
}

// JSON 中间结构，缺省字段用指针承载默认值
type regionJSON struct {
	Name        *string `json:"name"`
	Enabled     *bool   `json:"enabled"`
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Width       *int    `json:"width"`
	Height      *int    `json:"height"`
	Description string  `json:"description"`
}

type colorCheckJSON struct {
	Name        *string `json:"name"`
	Enabled     *bool   `json:"enabled"`
	X           int     `json:"x"`
	Y           int     `json:"y"`
	ColorSpace  *string `json:"color_space"`
	Values      []int   `json:"values"`
	Tolerance   *int    `json:"tolerance"`
	Description string  `json:"description"`
}

type ocrCheckJSON struct {
	Name        *string  `json:"name"`
	Enabled     *bool    `json:"enabled"`
	Language    *string  `json:"language"`
	Config      string   `json:"config"`
	Preprocess  bool     `json:"preprocess"`
	Interval    *float64 `json:"interval"`
	Description string   `json:"description"`
}

type regionFileJSON struct {
	Regions     map[string]regionJSON     `json:"regions"`
	ColorChecks map[string]colorCheckJSON `json:"color_checks"`
	OCRChecks   map[string]ocrCheckJSON   `json:"ocr_checks"`
}

// LoadRegions 加载区域配置
// 该文件缺失属于启动错误，调用方应中止启动
func LoadRegions(path string) (*RegionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取区域配置失败: %w", err)
	}

	var raw regionFileJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("解析区域配置失败: %w", err)
	}

	cfg := &RegionConfig{
		Regions:     make(map[string]Region, len(raw.Regions)),
		ColorChecks: make(map[string]ColorCheck, len(raw.ColorChecks)),
		OCRChecks:   make(map[string]OCRCheck, len(raw.OCRChecks)),
	}

	for key, r := range raw.Regions {
		cfg.Regions[key] = Region{
			Name:        strOr(r.Name, key),
			Enabled:     boolOr(r.Enabled, true),
			X:           r.X,
			Y:           r.Y,
			Width:       intOr(r.Width, -1),
			Height:      intOr(r.Height, -1),
			Description: r.Description,
		}
	}

	for key, c := range raw.ColorChecks {
		values := c.Values
		if len(values) == 0 {
			values = []int{0, 0, 0}
		}
		cfg.ColorChecks[key] = ColorCheck{
			Name:        strOr(c.Name, key),
			Enabled:     boolOr(c.Enabled, true),
			X:           c.X,
			Y:           c.Y,
			ColorSpace:  strOr(c.ColorSpace, "BGR"),
			Values:      values,
			Tolerance:   intOr(c.Tolerance, 10),
			Description: c.Description,
		}
	}

	for key, o := range raw.OCRChecks {
		cfg.OCRChecks[key] = OCRCheck{
			Name:        strOr(o.Name, key),
			Enabled:     boolOr(o.Enabled, true),
			Language:    strOr(o.Language, "eng"),
			Config:      o.Config,
			Preprocess:  o.Preprocess,
			Interval:    floatOr(o.Interval, 1.0),
			Description: o.Description,
		}
	}

	return cfg, nil
}

func strOr(p *string, def string) string {
	if p != nil {
		return *p
	}
	return def
}

func boolOr(p *bool, def bool) bool {
	if p != nil {
		return *p
	}
	return def
}

func intOr(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}

func floatOr(p *float64, def float64) float64 {
	if p != nil {
		return *p
	}
	return def
}
