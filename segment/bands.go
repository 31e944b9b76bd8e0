package segment

import (
	"gonum.org/v1/gonum/stat"

	lttypes "logotrace/type"
)

// MixedBand 是没有任何分类达到阈值时的标签
const MixedBand = "mixed"

var bandNames = [4]string{"top_quarter", "upper_middle", "lower_middle", "bottom_quarter"}

// Bands 把图像分为四个等高水平条带，按配置顺序取第一个超过自身阈值的分类
func Bands(img lttypes.Image, classes []lttypes.NamedRule) []lttypes.BandReport {
	w, h := img.Width(), img.Height()
	edges := [5]int{0, h / 4, h / 2, h * 3 / 4, h}

	reports := make([]lttypes.BandReport, 0, len(bandNames))
	for i, name := range bandNames {
		y0, y1 := edges[i], edges[i+1]
		counts := make([]int, len(classes))
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				c := img.At(x, y)
				for ci, cls := range classes {
					if cls.Rule.Matches(c) {
						counts[ci]++
					}
				}
			}
		}

		total := (y1 - y0) * w
		band := lttypes.BandReport{
			Name:      name,
			StartY:    y0,
			EndY:      y1,
			Fractions: make(map[string]float64, len(classes)),
			Label:     MixedBand,
		}
		for ci, cls := range classes {
			frac := 0.0
			if total > 0 {
				frac = float64(counts[ci]) / float64(total)
			}
			band.Fractions[cls.Name] = frac
		}
		band.Label = LabelBand(band.Fractions, classes)
		reports = append(reports, band)
	}
	return reports
}

// LabelBand 依次检查每个分类的阈值，未命中返回 "mixed"
func LabelBand(fractions map[string]float64, classes []lttypes.NamedRule) string {
	for _, cls := range classes {
		if fractions[cls.Name] > cls.MinFraction {
			return cls.Name
		}
	}
	return MixedBand
}

// TextParams 是文本启发式的参数
type TextParams struct {
	RowStep        int
	MinTransitions int
	Dark           lttypes.ColorRule
}

// TextLikelihood 在中间一半高度内每隔 RowStep 行采样，
// 统计深浅切换次数，超过 MinTransitions 的行视为类文本。
// 这是探索性的粗略判断，不是经过验证的分类器。
func TextLikelihood(img lttypes.Image, p TextParams) lttypes.TextPattern {
	h := img.Height()
	step := max(p.RowStep, 1)

	pattern := lttypes.TextPattern{Rows: []lttypes.TextRow{}}
	var transitions []float64
	for y := h / 4; y < h*3/4; y += step {
		pattern.SampledRows++
		n := RowTransitions(img, y, p.Dark)
		if n > p.MinTransitions {
			pattern.Rows = append(pattern.Rows, lttypes.TextRow{Y: y, Transitions: n})
			transitions = append(transitions, float64(n))
		}
	}
	if len(transitions) > 0 {
		pattern.TextLikely = true
		pattern.AvgTransitions = stat.Mean(transitions, nil)
	}
	return pattern
}

// RowTransitions 统计一行内深色/非深色的切换次数
func RowTransitions(img lttypes.Image, y int, dark lttypes.ColorRule) int {
	w := img.Width()
	if w == 0 {
		return 0
	}
	n := 0
	prev := dark.Matches(img.At(0, y))
	for x := 1; x < w; x++ {
		cur := dark.Matches(img.At(x, y))
		if cur != prev {
			n++
		}
		prev = cur
	}
	return n
}
