package color2svg

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
	"sync"

	svgo "github.com/ajstarks/svgo"
	"github.com/gotranspile/gotrace"

	"logotrace/segment"
	"logotrace/svg2json"
	lttypes "logotrace/type"
)

// Options 控制草稿 SVG 的生成
type Options struct {
	Title string
	// Trace 为 true 时用 gotrace 描摹每个区域，否则只输出占位分组
	Trace bool
}

// WriteDraft 输出草稿 SVG：背景矩形加上每个出现的非背景颜色的分组。
// 缺失的颜色不产生分组。
func WriteDraft(w io.Writer, width, height int, regions []segment.Region, opts Options) error {
	var layers map[string][]svg2json.TracedPath
	if opts.Trace {
		traced, err := TraceRegions(regions)
		if err != nil {
			return err
		}
		layers = make(map[string][]svg2json.TracedPath, len(traced))
		for _, l := range traced {
			layers[l.Name] = svg2json.ExtractPaths(l.SVGData)
		}
	}

	canvas := svgo.New(w)
	canvas.Startview(width, height, 0, 0, width, height)
	comment(canvas, opts.Title)
	comment(canvas, "text content not recovered; fill in before publishing")

	comment(canvas, "Background")
	canvas.Rect(0, 0, width, height, fmt.Sprintf(`fill="%s"`, backgroundHex(regions)))

	for _, r := range regions {
		s := r.Summary
		if s.Absent || r.Mask.Target.Background {
			continue
		}
		comment(canvas, s.Name+" elements")
		canvas.Group(fmt.Sprintf(`id="%s"`, GroupID(s.Name)), fmt.Sprintf(`fill="%s"`, s.Hex))
		comment(canvas, RegionComment(s))
		for _, p := range layers[s.Name] {
			if p.Transform != "" {
				canvas.Gtransform(p.Transform)
				canvas.Path(p.D)
				canvas.Gend()
				continue
			}
			canvas.Path(p.D)
		}
		canvas.Gend()
	}
	canvas.End()
	return nil
}

// GroupID 是颜色分组的 id，例如 "navy-elements"。
// 名称中 [a-z0-9] 以外的字符折叠为单个 "-"，保证可以直接写进属性值
func GroupID(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = "region"
	}
	return slug + "-elements"
}

// RegionComment 描述区域包围盒，与报告中的格式一致
func RegionComment(s lttypes.RegionSummary) string {
	if s.Box == nil {
		return fmt.Sprintf("%s region: absent", s.Name)
	}
	return fmt.Sprintf("%s region: x:%d-%d, y:%d-%d", s.Name, s.Box.MinX, s.Box.MaxX, s.Box.MinY, s.Box.MaxY)
}

func comment(canvas *svgo.SVG, text string) {
	if text == "" {
		return
	}
	// XML 注释里不允许出现 "--"
	for strings.Contains(text, "--") {
		text = strings.ReplaceAll(text, "--", "-")
	}
	fmt.Fprintf(canvas.Writer, "<!-- %s -->\n", text)
}

func backgroundHex(regions []segment.Region) string {
	for _, r := range regions {
		if r.Mask.Target.Background {
			return r.Mask.Target.Color.Hex()
		}
	}
	return "#ffffff"
}

// TraceRegions 使用 gotrace 把每个出现的非背景区域转成 SVG
func TraceRegions(regions []segment.Region) ([]lttypes.LayerSVG, error) {
	result := make([]lttypes.LayerSVG, len(regions))
	errs := make(chan error, len(regions))

	var wg sync.WaitGroup
	for i, r := range regions {
		if r.Summary.Absent || r.Mask.Target.Background {
			continue
		}
		wg.Add(1)
		go func(idx int, mask *lttypes.RegionMask) {
			defer wg.Done()
			svgStr, err := traceGrayToSVG(MaskToGray(mask))
			if err != nil {
				errs <- fmt.Errorf("trace %s failed: %w", mask.Target.Name, err)
				return
			}
			result[idx] = lttypes.LayerSVG{Name: mask.Target.Name, SVGData: svgStr}
		}(i, r.Mask)
	}

	wg.Wait()
	close(errs)

	// 返回第一个错误（如果有）
	for err := range errs {
		return nil, err
	}

	layers := result[:0]
	for _, l := range result {
		if l.Name != "" {
			layers = append(layers, l)
		}
	}
	return layers, nil
}

// MaskToGray 把掩码转为黑白图：黑=该颜色，白=其他
func MaskToGray(mask *lttypes.RegionMask) *image.Gray {
	gray := image.NewGray(image.Rect(0, 0, mask.Width, mask.Height))
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			v := uint8(255)
			if mask.At(x, y) {
				v = 0
			}
			gray.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return gray
}

// traceGrayToSVG 核心：使用 gotrace 将 image.Gray 转 SVG 字符串
func traceGrayToSVG(mask *image.Gray) (string, error) {
	bm := gotrace.BitmapFromGray(mask, nil)

	paths, err := gotrace.Trace(bm, nil)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	sz := mask.Bounds().Size()
	if err := gotrace.Render("svg", nil, &buf, paths, sz.X, sz.Y); err != nil {
		return "", err
	}

	return buf.String(), nil
}
