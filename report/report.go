package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lttypes "logotrace/type"
)

const rule = "============================================================"

// JSONTopColors 是 JSON 报告保留的高频颜色数，文本报告输出全部
const JSONTopColors = 10

// JSON 返回缩进后的 JSON 报告，同一输入输出逐字节相同
func JSON(r lttypes.Report) ([]byte, error) {
	if len(r.TopColors) > JSONTopColors {
		r.TopColors = r.TopColors[:JSONTopColors]
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Text 生成文本分析报告
func Text(r lttypes.Report) string {
	var out strings.Builder

	out.WriteString("LOGO STRUCTURE ANALYSIS\n")
	out.WriteString(rule + "\n\n")
	fmt.Fprintf(&out, "Image: %s\n", r.Image)
	if r.Fingerprint != "" {
		fmt.Fprintf(&out, "MD5: %s\n", r.Fingerprint)
	}
	fmt.Fprintf(&out, "Dimensions: %dx%d\n", r.Dimensions.Width, r.Dimensions.Height)
	fmt.Fprintf(&out, "Unique colors: %d\n\n", r.TotalColors)

	writeTopColors(&out, r.TopColors)
	writeGroups(&out, r.ColorGroups)
	writeKeyPoints(&out, r.KeyPoints)

	if len(r.Palette) > 0 {
		fmt.Fprintf(&out, "Quantized palette: %s\n\n", strings.Join(r.Palette, " "))
	}

	out.WriteString("Color Distribution:\n")
	for _, s := range r.Targets {
		role := ""
		if s.Absent {
			role = " [absent]"
		}
		fmt.Fprintf(&out, "  - %s (%s): %.2f%%%s\n", s.Name, s.Hex, s.Fraction*100, role)
	}
	out.WriteString("\n")

	out.WriteString("Regions:\n")
	for _, s := range r.Targets {
		writeRegion(&out, s)
	}
	out.WriteString("\n")

	writeBands(&out, r.Bands)
	writeTextPatterns(&out, r.TextPatterns)
	writeRecognition(&out, r.TextRecognition)
	writeLayout(&out, r)

	return out.String()
}

func writeTopColors(out *strings.Builder, colors []lttypes.ColorCount) {
	fmt.Fprintf(out, "Top %d Colors (by frequency):\n", len(colors))
	for i, c := range colors {
		fmt.Fprintf(out, "  %2d. %s | RGB(%d, %d, %d) | %6d px (%5.2f%%)",
			i+1, c.Hex, c.RGB.R, c.RGB.G, c.RGB.B, c.Count, c.Percentage)
		if c.Nearest != "" {
			fmt.Fprintf(out, " ~%s", c.Nearest)
		}
		out.WriteString("\n")
	}
	out.WriteString("\n")
}

func writeGroups(out *strings.Builder, groups map[string]lttypes.GroupCount) {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := groups[names[i]], groups[names[j]]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return names[i] < names[j]
	})

	out.WriteString("Dominant Color Groups:\n")
	for _, name := range names {
		g := groups[name]
		fmt.Fprintf(out, "  %-20s: %6d px (%5.2f%%)\n", name, g.Count, g.Percentage)
	}
	out.WriteString("\n")
}

func writeKeyPoints(out *strings.Builder, points map[string]string) {
	names := make([]string, 0, len(points))
	for name := range points {
		names = append(names, name)
	}
	sort.Strings(names)

	out.WriteString("Key Points:\n")
	for _, name := range names {
		fmt.Fprintf(out, "  %-15s: %s\n", name, points[name])
	}
	out.WriteString("\n")
}

func writeRegion(out *strings.Builder, s lttypes.RegionSummary) {
	if s.Absent {
		fmt.Fprintf(out, "  %s: absent (no pixels within tolerance %d)\n", s.Name, s.Tolerance)
		return
	}
	b := s.Box
	fmt.Fprintf(out, "  %s: (%d,%d) to (%d,%d)\n", s.Name, b.MinX, b.MinY, b.MaxX, b.MaxY)
	fmt.Fprintf(out, "    Size: %dx%dpx, %d px\n", b.SpanX(), b.SpanY(), s.PixelCount)
	if s.FillDefined {
		shape := "text or outlined element"
		if s.Shape == lttypes.ShapeSolid {
			shape = "solid shape/thick element"
		}
		fmt.Fprintf(out, "    Fill ratio: %.2f%% -> %s\n", s.FillRatio*100, shape)
	} else {
		out.WriteString("    Fill ratio: undefined (single row or column)\n")
	}
	fmt.Fprintf(out, "    Aspect: %s\n", s.Aspect)
}

func writeBands(out *strings.Builder, bands []lttypes.BandReport) {
	out.WriteString("Layout Bands:\n")
	for _, b := range bands {
		names := make([]string, 0, len(b.Fractions))
		for name := range b.Fractions {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = fmt.Sprintf("%s:%.1f%%", name, b.Fractions[name]*100)
		}
		fmt.Fprintf(out, "  %-15s: %-8s (%s)\n", b.Name, b.Label, strings.Join(parts, " "))
	}
	out.WriteString("\n")
}

func writeTextPatterns(out *strings.Builder, p lttypes.TextPattern) {
	out.WriteString("Text Patterns (exploratory):\n")
	if p.TextLikely {
		fmt.Fprintf(out, "  Detected %d of %d sampled rows with text-like patterns\n", len(p.Rows), p.SampledRows)
		fmt.Fprintf(out, "  Average transitions: %.1f\n", p.AvgTransitions)
		out.WriteString("  -> logo likely contains text elements\n\n")
		return
	}
	fmt.Fprintf(out, "  No text-like rows in %d sampled rows\n", p.SampledRows)
	out.WriteString("  -> logo appears to be icon/shape-based\n\n")
}

func writeRecognition(out *strings.Builder, t lttypes.TextRecognition) {
	out.WriteString("Text Recognition:\n")
	switch {
	case !t.Available:
		fmt.Fprintf(out, "  unavailable: %s\n", t.Reason)
	case t.Reason != "":
		fmt.Fprintf(out, "  %s\n", t.Reason)
	case t.Text == "":
		out.WriteString("  no text recognized\n")
	default:
		fmt.Fprintf(out, "  %q\n", t.Text)
	}
	out.WriteString("\n")
}

func writeLayout(out *strings.Builder, r lttypes.Report) {
	var primary, accent *lttypes.RegionSummary
	for i := range r.Targets {
		s := &r.Targets[i]
		if s.Absent {
			continue
		}
		if primary == nil || s.PixelCount > primary.PixelCount {
			accent = primary
			primary = s
		} else if accent == nil || s.PixelCount > accent.PixelCount {
			accent = s
		}
	}

	out.WriteString("Summary:\n")
	if primary == nil {
		out.WriteString("  -> no configured colors found\n")
		return
	}
	fmt.Fprintf(out, "  -> dominant color: %s (%s), %.0f%% of image\n", primary.Name, primary.Hex, primary.Fraction*100)
	if accent != nil {
		fmt.Fprintf(out, "  -> secondary color: %s (%s), %.0f%% of image\n", accent.Name, accent.Hex, accent.Fraction*100)
	}
	out.WriteString("  -> text content must be supplied by hand before a final SVG\n")
}

// WriteFile 写入文件，必要时创建父目录
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
