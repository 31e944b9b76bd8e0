package image2color

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lttypes "logotrace/type"
)

var (
	white  = lttypes.RGB{R: 255, G: 255, B: 255}
	navy   = lttypes.RGB{R: 0, G: 29, B: 55}
	orange = lttypes.RGB{R: 255, G: 99, B: 0}
)

var testTargets = []lttypes.ColorTarget{
	{Name: "white", Color: white, Tolerance: 30, Background: true},
	{Name: "navy", Color: navy, Tolerance: 35},
	{Name: "orange", Color: orange, Tolerance: 30},
}

// splitImage 左半 left 色，右半 right 色
func splitImage(w, h int, left, right lttypes.RGB) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := left
			if x >= w/2 {
				c = right
			}
			img.Set(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
	return img
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrImageNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_UndecodableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrImageNotFound)
}

func TestLoad_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, splitImage(20, 10, navy, white)))
	require.NoError(t, f.Close())

	img, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Width())
	assert.Equal(t, 10, img.Height())
	assert.Equal(t, navy, img.At(0, 0))
	assert.Equal(t, white, img.At(19, 9))
}

func TestFromImage_RebasesOrigin(t *testing.T) {
	src := splitImage(10, 4, navy, orange).SubImage(image.Rect(5, 0, 10, 4))
	img := FromImage("sub", src)
	assert.Equal(t, 5, img.Width())
	assert.Equal(t, orange, img.At(0, 0))
}

func TestDownscale(t *testing.T) {
	img := FromImage("x", splitImage(100, 50, navy, white))

	assert.Equal(t, img, Downscale(img, 0))
	assert.Equal(t, img, Downscale(img, 200))

	small := Downscale(img, 20)
	assert.Equal(t, 20, small.Width())
	assert.Equal(t, 10, small.Height())
	assert.Equal(t, navy, small.At(0, 0))
	assert.Equal(t, white, small.At(19, 9))
}

func TestHistogramAndTopColors(t *testing.T) {
	raw := splitImage(10, 10, navy, white)
	raw.Set(9, 9, color.RGBA{R: orange.R, G: orange.G, B: orange.B, A: 255})
	img := FromImage("x", raw)

	hist := Histogram(img)
	require.Len(t, hist, 3)
	assert.Equal(t, 50, hist[navy])
	assert.Equal(t, 49, hist[white])
	assert.Equal(t, 1, hist[orange])

	top := TopColors(hist, 100, 2, testTargets)
	require.Len(t, top, 2)
	assert.Equal(t, "#001d37", top[0].Hex)
	assert.Equal(t, 50.0, top[0].Percentage)
	assert.Equal(t, "navy", top[0].Nearest)
	assert.Equal(t, "#ffffff", top[1].Hex)
	assert.Equal(t, "white", top[1].Nearest)
}

func TestTopColors_TiesOrderedByHex(t *testing.T) {
	hist := map[lttypes.RGB]int{orange: 5, navy: 5, white: 5}
	top := TopColors(hist, 15, 10, nil)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"#001d37", "#ff6300", "#ffffff"},
		[]string{top[0].Hex, top[1].Hex, top[2].Hex})
	assert.Empty(t, top[0].Nearest)
}

func TestNearestTarget_UsesPerceptualDistance(t *testing.T) {
	assert.Equal(t, "orange", nearestTarget(lttypes.RGB{R: 240, G: 110, B: 20}, testTargets))
	assert.Equal(t, "navy", nearestTarget(lttypes.RGB{R: 10, G: 20, B: 70}, testTargets))
}

func TestKeyPoints(t *testing.T) {
	img := FromImage("x", splitImage(8, 8, navy, orange))
	points := KeyPoints(img)
	assert.Equal(t, map[string]string{
		"center":       "#ff6300",
		"top_left":     "#001d37",
		"top_right":    "#ff6300",
		"bottom_left":  "#001d37",
		"bottom_right": "#ff6300",
	}, points)
}

func TestGroups_FirstMatchWins(t *testing.T) {
	all := lttypes.ColorRule{R: lttypes.AnyChannel, G: lttypes.AnyChannel, B: lttypes.AnyChannel}
	bright := lttypes.ColorRule{
		R: lttypes.ChannelRange{Min: 200, Max: 255},
		G: lttypes.AnyChannel,
		B: lttypes.AnyChannel,
	}
	hist := map[lttypes.RGB]int{white: 60, orange: 30, navy: 10}

	groups := Groups(hist, 100, []lttypes.NamedRule{{Name: "bright", Rule: bright}, {Name: "all", Rule: all}})
	assert.Equal(t, lttypes.GroupCount{Count: 90, Percentage: 90}, groups["bright"])
	assert.Equal(t, lttypes.GroupCount{Count: 10, Percentage: 10}, groups["all"])
	assert.NotContains(t, groups, OtherGroup)

	groups = Groups(hist, 100, []lttypes.NamedRule{{Name: "bright", Rule: bright}})
	assert.Equal(t, 10, groups[OtherGroup].Count)
}

func TestQuantize(t *testing.T) {
	img := FromImage("x", splitImage(10, 10, navy, white))

	assert.Equal(t, []lttypes.RGB{navy, white}, Quantize(img, 2))
	// 单色盒子不再分割
	assert.Len(t, Quantize(img, 4), 2)
	assert.Nil(t, Quantize(img, 0))
}
