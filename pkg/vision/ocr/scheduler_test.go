package ocr

import (
	"image"
	"sync/atomic"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/h8d13/Ceauron/pkg/config"
	"github.com/h8d13/Ceauron/pkg/vision/cv"
)

// fakeEngine 计数用的识别引擎
type fakeEngine struct {
	calls atomic.Int64
	text  string
}

func (f *fakeEngine) ExtractText(img image.Image, check config.OCRCheck) (string, error) {
	f.calls.Add(1)
	return f.text, nil
}

func (f *fakeEngine) Close() error { return nil }

func makeRegion(t *testing.T) *cv.RegionImage {
	t.Helper()
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), 40, 60, gocv.MatTypeCV8UC3)
	return &cv.RegionImage{Mat: mat}
}

func waitForCalls(t *testing.T, engine *fakeEngine, want int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for engine.calls.Load() < want && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSchedulerThrottle(t *testing.T) {
	engine := &fakeEngine{text: "识别结果"}
	checks := map[string]config.OCRCheck{
		"title": {Name: "title", Enabled: true, Interval: 5},
	}

	scheduler := NewScheduler(engine, checks)
	defer scheduler.Stop()

	region := makeRegion(t)
	defer region.Close()
	regions := map[string]*cv.RegionImage{"title": region}

	// 两次相隔 1 秒的调用落在同一个 5 秒间隔内，只应入队一次
	now := time.Now()
	scheduler.CheckAll(regions, now)
	scheduler.CheckAll(regions, now.Add(time.Second))

	waitForCalls(t, engine, 1)
	time.Sleep(50 * time.Millisecond)

	if calls := engine.calls.Load(); calls != 1 {
		t.Errorf("间隔内应只识别 1 次, 实际 %d", calls)
	}

	// 超过间隔后可再次入队
	scheduler.CheckAll(regions, now.Add(6*time.Second))
	waitForCalls(t, engine, 2)
	if calls := engine.calls.Load(); calls != 2 {
		t.Errorf("超过间隔后应识别 2 次, 实际 %d", calls)
	}
}

func TestSchedulerReturnsCachedResults(t *testing.T) {
	engine := &fakeEngine{text: "hello"}
	checks := map[string]config.OCRCheck{
		"title": {Name: "title", Enabled: true, Interval: 0},
	}

	scheduler := NewScheduler(engine, checks)
	defer scheduler.Stop()

	region := makeRegion(t)
	defer region.Close()
	regions := map[string]*cv.RegionImage{"title": region}

	scheduler.CheckAll(regions, time.Now())
	waitForCalls(t, engine, 1)

	results := scheduler.CheckAll(regions, time.Now().Add(time.Second))
	if results["title"] != "hello" {
		t.Errorf("应返回缓存结果 hello, 实际 %q", results["title"])
	}
}

func TestSchedulerSkipsUnconfiguredRegions(t *testing.T) {
	engine := &fakeEngine{text: "x"}
	scheduler := NewScheduler(engine, map[string]config.OCRCheck{
		"disabled": {Name: "disabled", Enabled: false, Interval: 0},
	})
	defer scheduler.Stop()

	region := makeRegion(t)
	defer region.Close()
	other := makeRegion(t)
	defer other.Close()

	scheduler.CheckAll(map[string]*cv.RegionImage{
		"disabled": region,
		"unknown":  other,
	}, time.Now())

	time.Sleep(100 * time.Millisecond)
	if calls := engine.calls.Load(); calls != 0 {
		t.Errorf("禁用或未配置的区域不应触发识别, 实际 %d 次", calls)
	}
}
