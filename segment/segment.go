// Package segment 按目标颜色把图像切分为区域并给出统计。
//
// 所有函数都是纯函数：同一输入总是得到相同输出。
package segment

import (
	"sync"

	lttypes "logotrace/type"
)

// Thresholds 是区域分类用到的可调阈值
type Thresholds struct {
	// 填充率大于该值视为实心形状
	SolidFillRatio float64
	// 一边超过另一边的该倍数即视为竖向/横向
	AspectRatio float64
}

// DefaultThresholds 0.6 / 1.5，均为经验值，未经验证
var DefaultThresholds = Thresholds{SolidFillRatio: 0.6, AspectRatio: 1.5}

// Mask 计算目标颜色的掩码，parallel 为并行处理的最大协程数
func Mask(img lttypes.Image, target lttypes.ColorTarget, parallel int) *lttypes.RegionMask {
	w, h := img.Width(), img.Height()
	mask := &lttypes.RegionMask{
		Target: target,
		Width:  w,
		Height: h,
		Bits:   make([]bool, w*h),
	}
	forEachRowChunk(h, parallel, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := mask.Bits[y*w : (y+1)*w]
			for x := range row {
				row[x] = target.Matches(img.At(x, y))
			}
		}
	})
	return mask
}

// forEachRowChunk 把 [0, h) 分块并发处理，每块只写自己的行
func forEachRowChunk(h, parallel int, fn func(y0, y1 int)) {
	if parallel <= 1 || h < 2 {
		fn(0, h)
		return
	}
	chunks := min(parallel, h)
	step := (h + chunks - 1) / chunks

	var wg sync.WaitGroup
	for y0 := 0; y0 < h; y0 += step {
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(y0, min(y0+step, h))
	}
	wg.Wait()
}

// Bounds 计算掩码的包围盒，没有命中像素时 ok 为 false
func Bounds(mask *lttypes.RegionMask) (box lttypes.BoundingBox, ok bool) {
	for y := 0; y < mask.Height; y++ {
		row := mask.Bits[y*mask.Width : (y+1)*mask.Width]
		for x, on := range row {
			if !on {
				continue
			}
			if !ok {
				box = lttypes.BoundingBox{MinX: x, MinY: y, MaxX: x, MaxY: y}
				ok = true
				continue
			}
			box.MinX = min(box.MinX, x)
			box.MaxX = max(box.MaxX, x)
			box.MinY = min(box.MinY, y)
			box.MaxY = max(box.MaxY, y)
		}
	}
	return box, ok
}

// FillRatio 是像素数与包围盒面积之比；单行或单列区域没有意义，返回 false
func FillRatio(count int, box lttypes.BoundingBox) (float64, bool) {
	if box.SpanX() == 0 || box.SpanY() == 0 || count <= 0 {
		return 0, false
	}
	return float64(count) / float64(box.Area()), true
}

// Shape 按填充率区分实心与轮廓/文字
func Shape(fill float64, th Thresholds) string {
	if fill > th.SolidFillRatio {
		return lttypes.ShapeSolid
	}
	return lttypes.ShapeOutline
}

// Aspect 按包围盒宽高比分为竖向、横向、紧凑
func Aspect(box lttypes.BoundingBox, th Thresholds) string {
	w, h := float64(box.SpanX()), float64(box.SpanY())
	switch {
	case h > w*th.AspectRatio:
		return lttypes.AspectVertical
	case w > h*th.AspectRatio:
		return lttypes.AspectHorizontal
	default:
		return lttypes.AspectCompact
	}
}

// Summarize 汇总掩码；没有命中像素时返回 Absent 结果而不是错误
func Summarize(mask *lttypes.RegionMask, th Thresholds) lttypes.RegionSummary {
	s := lttypes.RegionSummary{
		Name:      mask.Target.Name,
		Hex:       mask.Target.Color.Hex(),
		Tolerance: mask.Target.Tolerance,
	}
	box, ok := Bounds(mask)
	if !ok {
		s.Absent = true
		return s
	}
	s.PixelCount = mask.Count()
	if total := mask.Width * mask.Height; total > 0 {
		s.Fraction = float64(s.PixelCount) / float64(total)
	}
	s.Box = &box
	s.Aspect = Aspect(box, th)
	if fill, defined := FillRatio(s.PixelCount, box); defined {
		s.FillDefined = true
		s.FillRatio = fill
		s.Shape = Shape(fill, th)
	}
	return s
}

// Region 是一个目标颜色的掩码和汇总
type Region struct {
	Mask    *lttypes.RegionMask
	Summary lttypes.RegionSummary
}

// Segment 按配置顺序处理所有目标颜色
func Segment(img lttypes.Image, targets []lttypes.ColorTarget, th Thresholds, parallel int) []Region {
	regions := make([]Region, len(targets))
	for i, t := range targets {
		mask := Mask(img, t, parallel)
		regions[i] = Region{Mask: mask, Summary: Summarize(mask, th)}
	}
	return regions
}
