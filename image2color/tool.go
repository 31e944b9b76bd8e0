package image2color

import (
	"sort"

	lttypes "logotrace/type"
)

// pixel 表示一个像素的 RGB 值
type pixel struct {
	R, G, B int
}

// box 表示颜色盒子
type box struct {
	Pixels     []pixel
	RMin, RMax int
	GMin, GMax int
	BMin, BMax int
}

// 计算盒子范围
func calculateBoxRange(b *box) {
	if len(b.Pixels) == 0 {
		return
	}

	b.RMin, b.RMax = 255, 0
	b.GMin, b.GMax = 255, 0
	b.BMin, b.BMax = 255, 0

	for _, p := range b.Pixels {
		b.RMin = min(b.RMin, p.R)
		b.RMax = max(b.RMax, p.R)
		b.GMin = min(b.GMin, p.G)
		b.GMax = max(b.GMax, p.G)
		b.BMin = min(b.BMin, p.B)
		b.BMax = max(b.BMax, p.B)
	}
}

// medianCutQuantize 执行中位切分颜色量化
func medianCutQuantize(img lttypes.Image, colorCount int) []lttypes.RGB {
	w, h := img.Width(), img.Height()
	pixels := make([]pixel, 0, w*h)

	// 收集所有像素
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.At(x, y)
			pixels = append(pixels, pixel{R: int(c.R), G: int(c.G), B: int(c.B)})
		}
	}
	if len(pixels) == 0 || colorCount <= 0 {
		return nil
	}

	initialBox := &box{Pixels: pixels}
	calculateBoxRange(initialBox)

	boxes := []*box{initialBox}

	// 不断分割盒子
	for len(boxes) < colorCount {
		// 找到范围最大且可分割的盒子
		var boxToSplit *box
		maxRange := 0
		for _, b := range boxes {
			rangeMax := max(b.RMax-b.RMin, b.GMax-b.GMin, b.BMax-b.BMin)
			if len(b.Pixels) > 1 && rangeMax > maxRange {
				maxRange = rangeMax
				boxToSplit = b
			}
		}
		// 所有盒子都是单色时停止
		if boxToSplit == nil {
			break
		}

		// 选择分割通道
		rRange := boxToSplit.RMax - boxToSplit.RMin
		gRange := boxToSplit.GMax - boxToSplit.GMin
		bRange := boxToSplit.BMax - boxToSplit.BMin

		var key func(p pixel) int
		switch {
		case rRange >= gRange && rRange >= bRange:
			key = func(p pixel) int { return p.R }
		case gRange >= rRange && gRange >= bRange:
			key = func(p pixel) int { return p.G }
		default:
			key = func(p pixel) int { return p.B }
		}

		// 排序像素
		ps := boxToSplit.Pixels
		sort.SliceStable(ps, func(i, j int) bool { return key(ps[i]) < key(ps[j]) })

		// 分成两半
		medianIndex := len(ps) / 2
		box1 := &box{Pixels: ps[:medianIndex]}
		box2 := &box{Pixels: ps[medianIndex:]}

		calculateBoxRange(box1)
		calculateBoxRange(box2)

		// 替换盒子
		for i, b := range boxes {
			if b == boxToSplit {
				boxes = append(boxes[:i], append([]*box{box1, box2}, boxes[i+1:]...)...)
				break
			}
		}
	}

	// 计算每个盒子的平均颜色
	result := make([]lttypes.RGB, 0, len(boxes))
	for _, b := range boxes {
		var rSum, gSum, bSum int
		for _, p := range b.Pixels {
			rSum += p.R
			gSum += p.G
			bSum += p.B
		}
		count := len(b.Pixels)
		if count == 0 {
			continue
		}
		result = append(result, lttypes.RGB{
			R: uint8(rSum / count),
			G: uint8(gSum / count),
			B: uint8(bSum / count),
		})
	}

	return result
}
