package color2svg

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logotrace/segment"
	"logotrace/svg2json"
	lttypes "logotrace/type"
)

var (
	white  = lttypes.RGB{R: 255, G: 255, B: 255}
	navy   = lttypes.RGB{R: 0, G: 29, B: 55}
	orange = lttypes.RGB{R: 255, G: 99, B: 0}
)

func targets() []lttypes.ColorTarget {
	return []lttypes.ColorTarget{
		{Name: "white", Color: white, Tolerance: 30, Background: true},
		{Name: "navy", Color: navy, Tolerance: 35},
		{Name: "orange", Color: orange, Tolerance: 30},
	}
}

// navyBlock 生成白底上一个深蓝矩形，没有橙色
func navyBlock() lttypes.Image {
	img := image.NewRGBA(image.Rect(0, 0, 60, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 60; x++ {
			c := white
			if x >= 10 && x < 50 && y >= 5 && y < 30 {
				c = navy
			}
			i := img.PixOffset(x, y)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, 255
		}
	}
	return lttypes.Image{Pixels: img}
}

func TestWriteDraft_PlaceholderGroups(t *testing.T) {
	img := navyBlock()
	regions := segment.Segment(img, targets(), segment.DefaultThresholds, 2)

	var buf bytes.Buffer
	require.NoError(t, WriteDraft(&buf, img.Width(), img.Height(), regions, Options{Title: "Logo - Vectorized"}))

	doc, err := svg2json.Inspect(buf.String())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 60, 40}, doc.ViewBox)
	assert.Equal(t, "60", doc.Width)
	assert.Contains(t, doc.Comments, "Logo - Vectorized")
	assert.Contains(t, doc.Comments, "Background")

	// 背景色不产生分组，缺失的橙色也不产生
	require.Len(t, doc.Groups, 1)
	g := doc.Groups[0]
	assert.Equal(t, "navy-elements", g.ID)
	assert.Equal(t, "#001d37", g.Fill)
	assert.Equal(t, []string{"navy region: x:10-49, y:5-29"}, g.Comments)
	assert.Zero(t, g.Paths)

	assert.Contains(t, buf.String(), `fill="#ffffff"`)
}

func TestWriteDraft_Traced(t *testing.T) {
	img := navyBlock()
	regions := segment.Segment(img, targets(), segment.DefaultThresholds, 1)

	var buf bytes.Buffer
	require.NoError(t, WriteDraft(&buf, img.Width(), img.Height(), regions, Options{Trace: true}))

	doc, err := svg2json.Inspect(buf.String())
	require.NoError(t, err)
	require.Len(t, doc.Groups, 1)
	assert.Greater(t, doc.Groups[0].Paths, 0)
}

func TestTraceRegions_SkipsAbsentAndBackground(t *testing.T) {
	regions := segment.Segment(navyBlock(), targets(), segment.DefaultThresholds, 1)
	layers, err := TraceRegions(regions)
	require.NoError(t, err)
	require.Len(t, layers, 1)
	assert.Equal(t, "navy", layers[0].Name)
	assert.True(t, strings.Contains(layers[0].SVGData, "<svg"))
}

func TestMaskToGray(t *testing.T) {
	mask := &lttypes.RegionMask{Width: 2, Height: 1, Bits: []bool{true, false}}
	gray := MaskToGray(mask)
	assert.Equal(t, uint8(0), gray.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), gray.GrayAt(1, 0).Y)
}

func TestGroupIDAndComment(t *testing.T) {
	assert.Equal(t, "dark-navy-elements", GroupID("Dark Navy"))
	assert.Equal(t, "r-d-navy-elements", GroupID(`R&D "navy"`))
	assert.Equal(t, "a-b-elements", GroupID("  A -- B  "))
	assert.Equal(t, "region-elements", GroupID("<>&"))
	box := lttypes.BoundingBox{MinX: 1, MinY: 2, MaxX: 3, MaxY: 4}
	assert.Equal(t, "orange region: x:1-3, y:2-4", RegionComment(lttypes.RegionSummary{Name: "orange", Box: &box}))
	assert.Equal(t, "orange region: absent", RegionComment(lttypes.RegionSummary{Name: "orange", Absent: true}))
}

func TestWriteDraft_NameWithMarkupCharacters(t *testing.T) {
	ts := targets()
	ts[1].Name = `R&D "navy" <main>`
	img := navyBlock()
	regions := segment.Segment(img, ts, segment.DefaultThresholds, 1)

	var buf bytes.Buffer
	require.NoError(t, WriteDraft(&buf, img.Width(), img.Height(), regions, Options{}))

	doc, err := svg2json.Inspect(buf.String())
	require.NoError(t, err)
	require.Len(t, doc.Groups, 1)
	assert.Equal(t, "r-d-navy-main-elements", doc.Groups[0].ID)
}
