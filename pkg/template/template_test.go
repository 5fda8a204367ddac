package template

import (
	"os"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"
)

// writeTemplateImage 生成一张可加载的模板图像
func writeTemplateImage(t *testing.T, path string) {
	t.Helper()
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(200, 0, 0, 0), 20, 30, gocv.MatTypeCV8UC1)
	defer mat.Close()
	if ok := gocv.IMWrite(path, mat); !ok {
		t.Fatalf("写入测试图像失败: %s", path)
	}
}

func TestLoadMissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"), "meta.json")
	if err == nil {
		t.Error("模板目录缺失应返回错误")
	}
}

func TestLoadEmptyDir(t *testing.T) {
	_, err := Load(t.TempDir(), "meta.json")
	if err == nil {
		t.Error("没有任何模板时应返回错误")
	}
}

func TestLoadWithMetadata(t *testing.T) {
	dir := t.TempDir()
	writeTemplateImage(t, filepath.Join(dir, "button.png"))
	writeTemplateImage(t, filepath.Join(dir, "icon.png"))

	// 干扰文件应被忽略
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("写入干扰文件失败: %v", err)
	}

	metaPath := filepath.Join(dir, "meta.json")
	meta := `{
		"button.png": {
			"category": "ui",
			"value": 7,
			"actions": [{"action": "click_action", "action_params": {}}]
		}
	}`
	if err := os.WriteFile(metaPath, []byte(meta), 0644); err != nil {
		t.Fatalf("写入元数据失败: %v", err)
	}

	templates, err := Load(dir, metaPath)
	if err != nil {
		t.Fatalf("加载模板失败: %v", err)
	}
	defer CloseAll(templates)

	if len(templates) != 2 {
		t.Fatalf("期望 2 个模板, 实际 %d", len(templates))
	}

	byName := make(map[string]*Template, len(templates))
	for _, tpl := range templates {
		byName[tpl.Name] = tpl
	}

	button := byName["button.png"]
	if button == nil {
		t.Fatal("button.png 缺失")
	}
	if button.Category != "ui" || button.Value != 7 {
		t.Errorf("元数据不匹配: category=%s value=%d", button.Category, button.Value)
	}
	if len(button.Actions) != 1 || button.Actions[0].Action != "click_action" {
		t.Errorf("动作声明不匹配: %+v", button.Actions)
	}

	// 没有元数据条目的模板使用默认值
	icon := byName["icon.png"]
	if icon == nil {
		t.Fatal("icon.png 缺失")
	}
	if icon.Category != "uncategorized" {
		t.Errorf("默认分类应为 uncategorized, 实际 %s", icon.Category)
	}
	if len(icon.Actions) != 0 {
		t.Errorf("默认动作应为空, 实际 %+v", icon.Actions)
	}
}

func TestLoadMissingMetadataFile(t *testing.T) {
	dir := t.TempDir()
	writeTemplateImage(t, filepath.Join(dir, "a.png"))

	// 元数据文件缺失不阻止加载
	templates, err := Load(dir, filepath.Join(dir, "nope.json"))
	if err != nil {
		t.Fatalf("加载模板失败: %v", err)
	}
	defer CloseAll(templates)

	if templates[0].Category != "uncategorized" {
		t.Errorf("默认分类应为 uncategorized, 实际 %s", templates[0].Category)
	}
}
