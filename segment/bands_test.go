package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lttypes "logotrace/type"
)

func bandClasses() []lttypes.NamedRule {
	return []lttypes.NamedRule{
		{Name: "white", MinFraction: 0.5, Rule: lttypes.ColorRule{
			R: lttypes.ChannelRange{Min: 241, Max: 255},
			G: lttypes.ChannelRange{Min: 241, Max: 255},
			B: lttypes.ChannelRange{Min: 241, Max: 255},
		}},
		{Name: "navy", MinFraction: 0.1, Rule: lttypes.ColorRule{
			R: lttypes.ChannelRange{Min: 0, Max: 9},
			G: lttypes.AnyChannel,
			B: lttypes.ChannelRange{Min: 31, Max: 69},
		}},
		{Name: "orange", MinFraction: 0.05, Rule: lttypes.ColorRule{
			R: lttypes.ChannelRange{Min: 201, Max: 255},
			G: lttypes.ChannelRange{Min: 0, Max: 149},
			B: lttypes.ChannelRange{Min: 0, Max: 49},
		}},
	}
}

func TestLabelBand(t *testing.T) {
	classes := bandClasses()
	assert.Equal(t, "white", LabelBand(map[string]float64{"white": 0.60, "navy": 0.02, "orange": 0.01}, classes))
	assert.Equal(t, "navy", LabelBand(map[string]float64{"white": 0.40, "navy": 0.12, "orange": 0.03}, classes))
	assert.Equal(t, "orange", LabelBand(map[string]float64{"white": 0.40, "navy": 0.05, "orange": 0.06}, classes))
	assert.Equal(t, MixedBand, LabelBand(map[string]float64{"white": 0.50, "navy": 0.10, "orange": 0.05}, classes))
}

func TestBands(t *testing.T) {
	// 每个条带 10 行，每行 100 像素，按列数控制各颜色占比
	rowMix := func(set func(x, y int, c lttypes.RGB), y, nWhite, nNavy, nOrange int) {
		x := 0
		for ; x < nWhite; x++ {
			set(x, y, white)
		}
		for end := x + nNavy; x < end; x++ {
			set(x, y, navy)
		}
		for end := x + nOrange; x < end; x++ {
			set(x, y, orange)
		}
	}
	img := synthImage(100, 40, gray, func(set func(x, y int, c lttypes.RGB)) {
		for y := 0; y < 10; y++ {
			rowMix(set, y, 60, 2, 1)
		}
		for y := 10; y < 20; y++ {
			rowMix(set, y, 40, 12, 3)
		}
		for y := 30; y < 40; y++ {
			rowMix(set, y, 0, 0, 10)
		}
	})

	bands := Bands(img, bandClasses())
	require.Len(t, bands, 4)

	assert.Equal(t, "top_quarter", bands[0].Name)
	assert.Equal(t, "white", bands[0].Label)
	assert.InDelta(t, 0.60, bands[0].Fractions["white"], 1e-9)
	assert.InDelta(t, 0.02, bands[0].Fractions["navy"], 1e-9)
	assert.InDelta(t, 0.01, bands[0].Fractions["orange"], 1e-9)

	assert.Equal(t, "navy", bands[1].Label)
	assert.Equal(t, MixedBand, bands[2].Label)
	assert.Equal(t, "orange", bands[3].Label)

	assert.Equal(t, 0, bands[0].StartY)
	assert.Equal(t, 10, bands[0].EndY)
	assert.Equal(t, 40, bands[3].EndY)
}

func TestTextLikelihood(t *testing.T) {
	dark := lttypes.ColorRule{R: lttypes.ChannelRange{Min: 0, Max: 49}, G: lttypes.AnyChannel, B: lttypes.ChannelRange{Min: 21, Max: 255}}
	params := TextParams{RowStep: 10, MinTransitions: 5, Dark: dark}

	plain := TextLikelihood(synthImage(200, 200, white, nil), params)
	assert.Equal(t, 10, plain.SampledRows)
	assert.False(t, plain.TextLikely)
	assert.Empty(t, plain.Rows)

	// 中间一行出现 4 个深蓝竖条 → 8 次切换
	striped := synthImage(200, 200, white, func(set func(x, y int, c lttypes.RGB)) {
		for i := 0; i < 4; i++ {
			fillRect(set, 20+i*40, 95, 30+i*40, 125, navy)
		}
	})
	p := TextLikelihood(striped, params)
	assert.True(t, p.TextLikely)
	require.Len(t, p.Rows, 3)
	for _, r := range p.Rows {
		assert.Equal(t, 8, r.Transitions)
	}
	assert.Equal(t, []int{100, 110, 120}, []int{p.Rows[0].Y, p.Rows[1].Y, p.Rows[2].Y})
	assert.InDelta(t, 8.0, p.AvgTransitions, 1e-12)
}

func TestRowTransitions(t *testing.T) {
	dark := lttypes.ColorRule{R: lttypes.ChannelRange{Min: 0, Max: 49}, G: lttypes.AnyChannel, B: lttypes.ChannelRange{Min: 21, Max: 255}}
	img := synthImage(10, 1, white, func(set func(x, y int, c lttypes.RGB)) {
		set(0, 0, navy)
		set(5, 0, navy)
		set(6, 0, navy)
	})
	assert.Equal(t, 3, RowTransitions(img, 0, dark))
}
