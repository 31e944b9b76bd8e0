package image2color

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	lttypes "logotrace/type"
)

// ErrImageNotFound 表示输入图像文件不存在
var ErrImageNotFound = errors.New("image not found")

// Load 读取并解码图像，统一转换为原点在 (0,0) 的 RGBA
func Load(path string) (lttypes.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return lttypes.Image{}, fmt.Errorf("%w: %w", ErrImageNotFound, err)
		}
		return lttypes.Image{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return lttypes.Image{}, fmt.Errorf("decode image %s failed: %w", path, err)
	}
	return FromImage(path, img), nil
}

// FromImage 将任意 image.Image 复制为 lttypes.Image
func FromImage(path string, img image.Image) lttypes.Image {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return lttypes.Image{Path: path, Pixels: rgba}
}

// Downscale 按比例缩小到 maxWidth，maxWidth<=0 或图像更窄时原样返回
func Downscale(img lttypes.Image, maxWidth int) lttypes.Image {
	w, h := img.Width(), img.Height()
	if maxWidth <= 0 || w <= maxWidth {
		return img
	}
	nh := max(h*maxWidth/w, 1)
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img.Pixels, img.Pixels.Bounds(), draw.Src, nil)
	return lttypes.Image{Path: img.Path, Pixels: dst}
}

// Histogram 统计每种颜色的像素数
func Histogram(img lttypes.Image) map[lttypes.RGB]int {
	hist := make(map[lttypes.RGB]int)
	w, h := img.Width(), img.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			hist[img.At(x, y)]++
		}
	}
	return hist
}

// TopColors 返回出现次数最多的 n 种颜色，次数相同按十六进制排序；
// 每种颜色标注 Lab 距离最近的目标颜色
func TopColors(hist map[lttypes.RGB]int, total, n int, targets []lttypes.ColorTarget) []lttypes.ColorCount {
	counts := make([]lttypes.ColorCount, 0, len(hist))
	for c, count := range hist {
		counts = append(counts, lttypes.ColorCount{Hex: c.Hex(), RGB: c, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Hex < counts[j].Hex
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	for i := range counts {
		counts[i].Percentage = percentage(counts[i].Count, total)
		counts[i].Nearest = nearestTarget(counts[i].RGB, targets)
	}
	return counts
}

func nearestTarget(c lttypes.RGB, targets []lttypes.ColorTarget) string {
	if len(targets) == 0 {
		return ""
	}
	col := toColorful(c)
	best := ""
	bestDist := 0.0
	for _, t := range targets {
		d := col.DistanceLab(toColorful(t.Color))
		if best == "" || d < bestDist {
			best, bestDist = t.Name, d
		}
	}
	return best
}

func toColorful(c lttypes.RGB) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// KeyPoints 采样中心与四个四分点的颜色
func KeyPoints(img lttypes.Image) map[string]string {
	w, h := img.Width(), img.Height()
	if w == 0 || h == 0 {
		return map[string]string{}
	}
	return map[string]string{
		"center":       img.At(w/2, h/2).Hex(),
		"top_left":     img.At(w/4, h/4).Hex(),
		"top_right":    img.At(w*3/4, h/4).Hex(),
		"bottom_left":  img.At(w/4, h*3/4).Hex(),
		"bottom_right": img.At(w*3/4, h*3/4).Hex(),
	}
}

// OtherGroup 收纳未被任何规则命中的颜色
const OtherGroup = "Other"

// Groups 按规则合并直方图，按配置顺序先命中者优先
func Groups(hist map[lttypes.RGB]int, total int, rules []lttypes.NamedRule) map[string]lttypes.GroupCount {
	sums := make(map[string]int)
	for c, count := range hist {
		group := OtherGroup
		for _, r := range rules {
			if r.Rule.Matches(c) {
				group = r.Name
				break
			}
		}
		sums[group] += count
	}
	groups := make(map[string]lttypes.GroupCount, len(sums))
	for name, count := range sums {
		groups[name] = lttypes.GroupCount{Count: count, Percentage: percentage(count, total)}
	}
	return groups
}

// Quantize 用中位切分得到 n 色调色板
func Quantize(img lttypes.Image, colorCount int) []lttypes.RGB {
	return medianCutQuantize(img, colorCount)
}

func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}
