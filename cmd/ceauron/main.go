package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/h8d13/Ceauron/internal/logger"
	"github.com/h8d13/Ceauron/pkg/action"
	"github.com/h8d13/Ceauron/pkg/bot"
	"github.com/h8d13/Ceauron/pkg/capture"
	"github.com/h8d13/Ceauron/pkg/config"
	"github.com/h8d13/Ceauron/pkg/permissions"
	"github.com/h8d13/Ceauron/pkg/sysinfo"
	"github.com/h8d13/Ceauron/pkg/template"
	"github.com/h8d13/Ceauron/pkg/vision/ocr"
)

// 版本信息 (可通过 ldflags 注入)
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// 命令行参数
	var (
		configPath  = flag.String("config", "config.json", "全局配置文件路径")
		regionsPath = flag.String("regions", "regions_config.json", "区域配置文件路径")
		logPath     = flag.String("log", "", "运行日志文件路径 (为空时仅输出到控制台)")
		logLevel    = flag.String("log-level", "INFO", "日志级别 (DEBUG/INFO/WARN/ERROR)")
		showVersion = flag.Bool("version", false, "显示版本信息")
		showHelp    = flag.Bool("help", false, "显示帮助信息")
	)

	flag.Parse()

	// 显示版本
	if *showVersion {
		printVersion()
		return
	}

	// 显示帮助
	if *showHelp {
		printHelp()
		return
	}

	// .env 中的变量供 OCR 模型路径等使用，文件缺失不是错误
	if err := godotenv.Load(); err == nil {
		logger.Debug("已加载 .env")
	}

	logger.Default().SetLevel(logger.ParseLevel(*logLevel))
	if *logPath != "" {
		if err := logger.Default().SetFile(*logPath); err != nil {
			fmt.Printf("[WARN] 打开日志文件失败: %v\n", err)
		}
	}

	// 加载配置
	cfg := config.Load(*configPath)
	regions, err := config.LoadRegions(*regionsPath)
	if err != nil {
		logger.Error("加载区域配置失败: %v", err)
		os.Exit(1)
	}

	// 加载模板
	templates, err := template.Load(cfg.TemplateDir, cfg.MetadataFile)
	if err != nil {
		logger.Error("加载模板失败: %v", err)
		os.Exit(1)
	}
	defer template.CloseAll(templates)

	// 打印启动信息
	fmt.Println("========================================")
	fmt.Printf("  Ceauron v%s\n", Version)
	fmt.Println("========================================")
	fmt.Printf("采集模式: %s\n", cfg.CaptureMode())
	fmt.Println()

	// macOS 权限检查
	if runtime.GOOS == "darwin" {
		status := permissions.Check()
		if !status.AllGranted {
			logger.Warn("%s", status.Instructions())
		}
	}

	logger.Info("系统信息: %s", sysinfo.Collect())

	// 帧来源
	source, err := capture.NewFromConfig(cfg)
	if err != nil {
		logger.Error("初始化帧来源失败: %v", err)
		os.Exit(1)
	}

	// OCR 引擎初始化失败时降级为禁用，不阻止启动
	var engine ocr.Engine
	if cfg.EnableOCR {
		engine = newEngine(cfg.OCREngine)
	}
	if engine != nil {
		defer engine.Close()
	}

	b, err := bot.New(cfg, regions, templates, source, engine, action.NewRobotInjector())
	if err != nil {
		logger.Error("初始化失败: %v", err)
		source.Close()
		os.Exit(1)
	}

	// 给用户时间把目标窗口置于前台
	if cfg.StartupDelay > 0 {
		logger.Info("%.0f 秒后开始采集...", cfg.StartupDelay)
		time.Sleep(time.Duration(cfg.StartupDelay * float64(time.Second)))
	}

	b.Start()
	logger.Info("运行中，按 Ctrl+C 退出")

	// 等待中断信号
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("正在停止...")
	b.Stop()
	logger.Info("已退出")
}

// newEngine 按配置创建 OCR 引擎，失败时返回 nil 并告警
func newEngine(name string) ocr.Engine {
	switch name {
	case "tesseract":
		return ocr.NewTesseractEngine()
	case "", "paddle":
		engine, err := ocr.NewPaddleEngine(ocr.PaddleConfigFromEnv())
		if err != nil {
			logger.Warn("OCR 引擎初始化失败，本次运行禁用 OCR: %v", err)
			return nil
		}
		return engine
	default:
		logger.Warn("未知的 OCR 引擎 %q，本次运行禁用 OCR", name)
		return nil
	}
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("Ceauron v%s\n", Version)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}

// printHelp 打印帮助信息
func printHelp() {
	fmt.Println("Ceauron - 屏幕自动化机器人")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  ceauron [选项]")
	fmt.Println()
	fmt.Println("选项:")
	fmt.Println("  -config string    全局配置文件路径 (默认 config.json)")
	fmt.Println("  -regions string   区域配置文件路径 (默认 regions_config.json)")
	fmt.Println("  -log string       运行日志文件路径")
	fmt.Println("  -log-level string 日志级别 (默认 INFO)")
	fmt.Println("  -version          显示版本信息")
	fmt.Println("  -help             显示帮助信息")
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  # 使用默认配置运行")
	fmt.Println("  ceauron")
	fmt.Println()
	fmt.Println("  # 指定配置并输出调试日志")
	fmt.Println("  ceauron -config my_config.json -log-level DEBUG")
}
