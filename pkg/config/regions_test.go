package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRegions(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regions.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入测试文件失败: %v", err)
	}
	return path
}

func TestLoadRegionsMissingFile(t *testing.T) {
	_, err := LoadRegions(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Error("区域配置文件缺失应返回错误")
	}
}

func TestLoadRegionsDefaults(t *testing.T) {
	path := writeRegions(t, `{
		"regions": {
			"full": {"x": 0, "y": 0}
		},
		"color_checks": {
			"pixel": {"x": 10, "y": 20, "values": [255, 255, 255]}
		},
		"ocr_checks": {
			"text": {}
		}
	}`)

	cfg, err := LoadRegions(path)
	if err != nil {
		t.Fatalf("加载区域配置失败: %v", err)
	}

	region := cfg.Regions["full"]
	if !region.Enabled {
		t.Error("区域默认应启用")
	}
	if region.Width != -1 || region.Height != -1 {
		t.Errorf("宽高默认应为 -1, 实际为 %dx%d", region.Width, region.Height)
	}
	if region.Name != "full" {
		t.Errorf("名称默认应为键名, 实际为 %s", region.Name)
	}

	check := cfg.ColorChecks["pixel"]
	if check.ColorSpace != "BGR" {
		t.Errorf("色彩空间默认应为 BGR, 实际为 %s", check.ColorSpace)
	}
	if check.Tolerance != 10 {
		t.Errorf("容差默认应为 10, 实际为 %d", check.Tolerance)
	}

	ocrCheck := cfg.OCRChecks["text"]
	if ocrCheck.Language != "eng" {
		t.Errorf("语言默认应为 eng, 实际为 %s", ocrCheck.Language)
	}
	if ocrCheck.Interval != 1.0 {
		t.Errorf("间隔默认应为 1.0, 实际为 %v", ocrCheck.Interval)
	}
}

func TestLoadRegionsExplicitValues(t *testing.T) {
	path := writeRegions(t, `{
		"regions": {
			"corner": {"name": "右下角", "enabled": false, "x": 100, "y": 200, "width": 300, "height": 400}
		}
	}`)

	cfg, err := LoadRegions(path)
	if err != nil {
		t.Fatalf("加载区域配置失败: %v", err)
	}

	region := cfg.Regions["corner"]
	if region.Enabled {
		t.Error("显式禁用的区域不应启用")
	}
	if region.Name != "右下角" {
		t.Errorf("名称不匹配: 期望 右下角, 实际 %s", region.Name)
	}
	if region.Width != 300 || region.Height != 400 {
		t.Errorf("宽高不匹配: 期望 300x400, 实际 %dx%d", region.Width, region.Height)
	}
}

func TestLoadRegionsInvalidJSON(t *testing.T) {
	path := writeRegions(t, "{broken")
	if _, err := LoadRegions(path); err == nil {
		t.Error("无效 JSON 应返回错误")
	}
}
