package lttypes

import (
	"fmt"
	"image"
)

// RGB 是一个不带透明度的颜色三元组
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex 返回小写的 #rrggbb 形式
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Image 是加载后的只读图像，原点在左上角
type Image struct {
	Path   string
	Pixels *image.RGBA
}

func (im Image) Width() int  { return im.Pixels.Bounds().Dx() }
func (im Image) Height() int { return im.Pixels.Bounds().Dy() }

// At 返回 (x, y) 处的颜色，坐标相对于图像原点
func (im Image) At(x, y int) RGB {
	b := im.Pixels.Bounds()
	i := im.Pixels.PixOffset(b.Min.X+x, b.Min.Y+y)
	p := im.Pixels.Pix[i : i+3 : i+3]
	return RGB{R: p[0], G: p[1], B: p[2]}
}

// ColorTarget 是一个带容差的命名目标颜色
type ColorTarget struct {
	Name       string
	Color      RGB
	Tolerance  int
	Background bool
}

// Matches 判断三个通道是否都落在容差内
func (t ColorTarget) Matches(c RGB) bool {
	return absDiff(c.R, t.Color.R) <= t.Tolerance &&
		absDiff(c.G, t.Color.G) <= t.Tolerance &&
		absDiff(c.B, t.Color.B) <= t.Tolerance
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// ChannelRange 闭区间 [Min, Max]
type ChannelRange struct {
	Min uint8
	Max uint8
}

func (r ChannelRange) contains(v uint8) bool { return v >= r.Min && v <= r.Max }

// ColorRule 按固定通道阈值匹配像素，Compare 为可选的通道比较（例如 "b>g"）
type ColorRule struct {
	R, G, B ChannelRange
	Compare string
}

// AnyChannel 不限制该通道
var AnyChannel = ChannelRange{Min: 0, Max: 255}

// Matches 判断像素是否满足规则；Compare 需事先通过 ParseCompare 校验
func (r ColorRule) Matches(c RGB) bool {
	if !r.R.contains(c.R) || !r.G.contains(c.G) || !r.B.contains(c.B) {
		return false
	}
	if r.Compare == "" {
		return true
	}
	a, b, ok := ParseCompare(r.Compare)
	if !ok {
		return false
	}
	return channel(c, a) > channel(c, b)
}

// ParseCompare 解析 "x>y" 形式的通道比较，x、y 为 r/g/b
func ParseCompare(s string) (byte, byte, bool) {
	if len(s) != 3 || s[1] != '>' {
		return 0, 0, false
	}
	a, b := s[0], s[2]
	if !isChannel(a) || !isChannel(b) || a == b {
		return 0, 0, false
	}
	return a, b, true
}

func isChannel(c byte) bool { return c == 'r' || c == 'g' || c == 'b' }

func channel(c RGB, name byte) uint8 {
	switch name {
	case 'r':
		return c.R
	case 'g':
		return c.G
	default:
		return c.B
	}
}

// NamedRule 是带名字的规则，用于颜色分组和条带分类
type NamedRule struct {
	Name        string
	Rule        ColorRule
	MinFraction float64
}

// RegionMask 是某个目标颜色的布尔掩码，按行优先存储
type RegionMask struct {
	Target ColorTarget
	Width  int
	Height int
	Bits   []bool
}

func (m *RegionMask) At(x, y int) bool { return m.Bits[y*m.Width+x] }

// Count 返回为真的像素数
func (m *RegionMask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// BoundingBox 包含区域像素的最小轴对齐矩形，坐标为闭区间
type BoundingBox struct {
	MinX int `json:"min_x"`
	MinY int `json:"min_y"`
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`
}

// SpanX 与 SpanY 为 max-min，单行或单列时为 0
func (b BoundingBox) SpanX() int { return b.MaxX - b.MinX }
func (b BoundingBox) SpanY() int { return b.MaxY - b.MinY }

// Area 是包围盒覆盖的像素数
func (b BoundingBox) Area() int { return (b.SpanX() + 1) * (b.SpanY() + 1) }

const (
	ShapeSolid   = "solid"
	ShapeOutline = "outline"

	AspectVertical   = "vertical"
	AspectHorizontal = "horizontal"
	AspectCompact    = "compact"
)

// RegionSummary 是对掩码的只读汇总；Absent 时其余字段为零值
type RegionSummary struct {
	Name        string       `json:"name"`
	Hex         string       `json:"hex"`
	Tolerance   int          `json:"tolerance"`
	Absent      bool         `json:"absent"`
	PixelCount  int          `json:"pixel_count"`
	Fraction    float64      `json:"fraction"`
	Box         *BoundingBox `json:"bounding_box,omitempty"`
	FillDefined bool         `json:"fill_defined"`
	FillRatio   float64      `json:"fill_ratio"`
	Shape       string       `json:"shape,omitempty"`
	Aspect      string       `json:"aspect,omitempty"`
}

// BandReport 是一个水平条带的分类结果
type BandReport struct {
	Name      string             `json:"name"`
	StartY    int                `json:"start_y"`
	EndY      int                `json:"end_y"`
	Fractions map[string]float64 `json:"fractions"`
	Label     string             `json:"label"`
}

// TextRow 是被判定为类文本的采样行
type TextRow struct {
	Y           int `json:"y"`
	Transitions int `json:"transitions"`
}

// TextPattern 是文本可能性启发式的结果
type TextPattern struct {
	SampledRows    int       `json:"sampled_rows"`
	Rows           []TextRow `json:"rows"`
	AvgTransitions float64   `json:"avg_transitions"`
	TextLikely     bool      `json:"text_likely"`
}

// ColorCount 是直方图中的一种颜色
type ColorCount struct {
	Hex        string  `json:"hex"`
	RGB        RGB     `json:"rgb"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	Nearest    string  `json:"nearest,omitempty"`
}

// GroupCount 是按规则合并后的颜色组
type GroupCount struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TextRecognition 记录可选文字识别能力及结果
type TextRecognition struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	Text      string `json:"text,omitempty"`
}

// Dimensions 图像尺寸
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Report 是一次分析的完整结果
type Report struct {
	Image           string                `json:"image"`
	Fingerprint     string                `json:"fingerprint"`
	Dimensions      Dimensions            `json:"dimensions"`
	TotalColors     int                   `json:"total_colors"`
	TopColors       []ColorCount          `json:"top_colors"`
	KeyPoints       map[string]string     `json:"regions"`
	ColorGroups     map[string]GroupCount `json:"color_groups"`
	Palette         []string              `json:"palette"`
	Targets         []RegionSummary       `json:"targets"`
	Bands           []BandReport          `json:"bands"`
	TextPatterns    TextPattern           `json:"text_patterns"`
	TextRecognition TextRecognition       `json:"text_recognition"`
}

// LayerSVG 是单个颜色图层的 SVG（描摹结果）
type LayerSVG struct {
	Name    string
	SVGData string
}
