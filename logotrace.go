package main

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"

	"logotrace/color2svg"
	"logotrace/config"
	"logotrace/image2color"
	"logotrace/ocr"
	"logotrace/report"
	"logotrace/segment"
	lttypes "logotrace/type"
	"logotrace/utils"
)

// analysis 是一次运行的全部结果
type analysis struct {
	Image   lttypes.Image
	Regions []segment.Region
	Report  lttypes.Report
}

// analyzeLogo 加载图像并生成报告数据，不写任何文件
func analyzeLogo(cfg *config.Config, rec ocr.Recognizer, capability ocr.Capability) (*analysis, error) {
	log := utils.Logger

	targets, err := cfg.ColorTargets()
	if err != nil {
		return nil, err
	}
	groupRules, err := cfg.GroupRules()
	if err != nil {
		return nil, err
	}
	bandRules, err := cfg.BandRules()
	if err != nil {
		return nil, err
	}
	dark, err := cfg.DarkRule()
	if err != nil {
		return nil, err
	}

	log.Info("loading image", zap.String("path", cfg.Image))
	img, err := image2color.Load(cfg.Image)
	if err != nil {
		return nil, err
	}
	fingerprint, err := utils.FileMD5(cfg.Image)
	if err != nil {
		return nil, fmt.Errorf("fingerprint %s: %w", cfg.Image, err)
	}
	if cfg.Analysis.MaxWidth > 0 && img.Width() > cfg.Analysis.MaxWidth {
		log.Info("downscaling image", zap.Int("from", img.Width()), zap.Int("to", cfg.Analysis.MaxWidth))
		img = image2color.Downscale(img, cfg.Analysis.MaxWidth)
	}
	w, h := img.Width(), img.Height()
	total := w * h
	log.Info("image loaded", zap.Int("width", w), zap.Int("height", h))

	hist := image2color.Histogram(img)
	log.Debug("histogram built", zap.Int("unique_colors", len(hist)))

	th := segment.Thresholds{
		SolidFillRatio: cfg.Threshold.SolidFillRatio,
		AspectRatio:    cfg.Threshold.AspectRatio,
	}
	regions := segment.Segment(img, targets, th, cfg.Analysis.Parallel)
	summaries := make([]lttypes.RegionSummary, len(regions))
	for i, r := range regions {
		summaries[i] = r.Summary
		logRegion(r.Summary)
	}

	bands := segment.Bands(img, bandRules)
	for _, b := range bands {
		log.Debug("band classified", zap.String("band", b.Name), zap.String("label", b.Label))
	}

	text := segment.TextLikelihood(img, segment.TextParams{
		RowStep:        cfg.Text.RowStep,
		MinTransitions: cfg.Text.MinTransitions,
		Dark:           dark,
	})
	log.Info("text patterns", zap.Int("rows", len(text.Rows)), zap.Bool("text_likely", text.TextLikely))

	palette := image2color.Quantize(img, cfg.Analysis.PaletteSize)
	paletteHex := make([]string, len(palette))
	for i, c := range palette {
		paletteHex[i] = c.Hex()
	}

	recognition := ocr.Run(rec, capability, img.Pixels)
	if !recognition.Available {
		log.Warn("text recognition unavailable", zap.String("reason", recognition.Reason))
	}

	return &analysis{
		Image:   img,
		Regions: regions,
		Report: lttypes.Report{
			Image:           cfg.Image,
			Fingerprint:     fingerprint,
			Dimensions:      lttypes.Dimensions{Width: w, Height: h},
			TotalColors:     len(hist),
			TopColors:       image2color.TopColors(hist, total, cfg.Analysis.TopColors, targets),
			KeyPoints:       image2color.KeyPoints(img),
			ColorGroups:     image2color.Groups(hist, total, groupRules),
			Palette:         paletteHex,
			Targets:         summaries,
			Bands:           bands,
			TextPatterns:    text,
			TextRecognition: recognition,
		},
	}, nil
}

func logRegion(s lttypes.RegionSummary) {
	if s.Absent {
		utils.Logger.Info("region absent", zap.String("target", s.Name))
		return
	}
	utils.Logger.Info("region found",
		zap.String("target", s.Name),
		zap.Int("pixels", s.PixelCount),
		zap.Int("min_x", s.Box.MinX),
		zap.Int("min_y", s.Box.MinY),
		zap.Int("max_x", s.Box.MaxX),
		zap.Int("max_y", s.Box.MaxY),
		zap.Float64("fill_ratio", s.FillRatio),
		zap.String("shape", s.Shape),
		zap.String("aspect", s.Aspect))
}

// writeOutputs 写出 JSON 报告、文本报告和草稿 SVG，路径为空则跳过
func writeOutputs(cfg *config.Config, a *analysis) error {
	log := utils.Logger

	if cfg.Output.Report != "" {
		data, err := report.JSON(a.Report)
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		if err := report.WriteFile(cfg.Output.Report, data); err != nil {
			return err
		}
		log.Info("report saved", zap.String("path", cfg.Output.Report))
	}

	if cfg.Output.Text != "" {
		if err := report.WriteFile(cfg.Output.Text, []byte(report.Text(a.Report))); err != nil {
			return err
		}
		log.Info("text analysis saved", zap.String("path", cfg.Output.Text))
	}

	if cfg.Output.SVG != "" {
		var buf bytes.Buffer
		opts := color2svg.Options{Title: cfg.SVG.Title, Trace: cfg.SVG.Trace}
		if err := color2svg.WriteDraft(&buf, a.Image.Width(), a.Image.Height(), a.Regions, opts); err != nil {
			return fmt.Errorf("draft svg: %w", err)
		}
		if err := report.WriteFile(cfg.Output.SVG, buf.Bytes()); err != nil {
			return err
		}
		log.Info("draft svg saved", zap.String("path", cfg.Output.SVG), zap.Bool("traced", cfg.SVG.Trace))
	}
	return nil
}
