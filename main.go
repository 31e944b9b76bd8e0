package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"logotrace/config"
	"logotrace/image2color"
	"logotrace/ocr"
	"logotrace/report"
	"logotrace/svg2json"
	"logotrace/utils"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const (
	exitError    = 1
	exitNotFound = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("logotrace", flag.ContinueOnError)
	configPath := fs.String("config", "config.yaml", "配置文件路径")
	imagePath := fs.String("image", "", "输入图像路径")
	reportPath := fs.String("report", "", "JSON 报告输出路径")
	textPath := fs.String("text", "", "文本报告输出路径")
	svgPath := fs.String("svg", "", "草稿 SVG 输出路径")
	trace := fs.Bool("trace", false, "使用 gotrace 描摹区域路径")
	maxWidth := fs.Int("width", -1, "最大宽度，0 表示不缩放")
	parallel := fs.Int("parallel", 0, "并行处理的最大协程数")
	inspect := fs.String("inspect", "", "解析 SVG 文件并输出 JSON 摘要")
	help := fs.Bool("help", false, "显示帮助信息")
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *help {
		fs.Usage()
		return 0
	}

	cfg, err := config.New(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return exitError
	}

	if err := utils.InitLogger(cfg.Log.Mode); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return exitError
	}
	defer utils.Sync()

	if *inspect != "" {
		return runInspect(*inspect, stdout)
	}

	// 命令行参数覆盖配置文件
	if *imagePath != "" {
		cfg.Image = *imagePath
	}
	if *reportPath != "" {
		cfg.Output.Report = *reportPath
	}
	if *textPath != "" {
		cfg.Output.Text = *textPath
	}
	if *svgPath != "" {
		cfg.Output.SVG = *svgPath
	}
	if *trace {
		cfg.SVG.Trace = true
	}
	if *maxWidth >= 0 {
		cfg.Analysis.MaxWidth = *maxWidth
	}
	if *parallel > 0 {
		cfg.Analysis.Parallel = *parallel
	}

	utils.Logger.Info("starting logotrace",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit))

	rec, capability := detectOCR(cfg)
	if rec != nil {
		defer rec.Close()
	}

	a, err := analyzeLogo(cfg, rec, capability)
	if err != nil {
		if errors.Is(err, image2color.ErrImageNotFound) {
			utils.Logger.Error("logo file not found", zap.String("path", cfg.Image), zap.Error(err))
			return exitNotFound
		}
		utils.Logger.Error("analysis failed", zap.Error(err))
		return exitError
	}

	fmt.Fprint(stdout, report.Text(a.Report))

	if err := writeOutputs(cfg, a); err != nil {
		utils.Logger.Error("failed to write outputs", zap.Error(err))
		return exitError
	}
	return 0
}

// detectOCR 在启动时确定一次文字识别能力
func detectOCR(cfg *config.Config) (ocr.Recognizer, ocr.Capability) {
	if !cfg.OCR.Enabled {
		return nil, ocr.Capability{Available: false, Reason: "disabled by configuration"}
	}
	rec, capability := ocr.Detect(cfg.OCR.Language)
	if capability.Available {
		utils.Logger.Info("text recognition available", zap.String("language", cfg.OCR.Language))
	}
	return rec, capability
}

func runInspect(path string, stdout io.Writer) int {
	data, err := os.ReadFile(path)
	if err != nil {
		utils.Logger.Error("failed to read svg", zap.String("path", path), zap.Error(err))
		if errors.Is(err, os.ErrNotExist) {
			return exitNotFound
		}
		return exitError
	}
	out, err := svg2json.InspectJSON(string(data))
	if err != nil {
		utils.Logger.Error("failed to inspect svg", zap.String("path", path), zap.Error(err))
		return exitError
	}
	fmt.Fprintln(stdout, string(out))
	return 0
}
