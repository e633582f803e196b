package grid

import (
	"image"
	"image/color"
	"testing"

	"github.com/bodgit/mural/palette"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPalette(t *testing.T) *palette.Palette {
	p, err := palette.ParseHex("#000000", "#ffffff", "#ff0000", "#00ff00", "#0000ff")
	require.NoError(t, err)
	return p
}

func TestNew(t *testing.T) {
	g := New(3, 2)
	assert.Equal(t, 3, g.Width())
	assert.Equal(t, 2, g.Height())
	assert.Equal(t, Grid{{-1, -1, -1}, {-1, -1, -1}}, g)

	assert.Equal(t, 0, Grid(nil).Width())
}

func TestFromImage(t *testing.T) {
	p := testPalette(t)

	m := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	m.SetNRGBA(0, 0, color.NRGBA{0x00, 0x00, 0x00, 0xff})
	m.SetNRGBA(1, 0, color.NRGBA{0xf0, 0xf0, 0xf0, 0xff})
	m.SetNRGBA(2, 0, color.NRGBA{0xff, 0x00, 0x00, 24})
	m.SetNRGBA(0, 1, color.NRGBA{0x00, 0xff, 0x00, 25})
	m.SetNRGBA(1, 1, color.NRGBA{0x10, 0x10, 0xe0, 0x80})
	m.SetNRGBA(2, 1, color.NRGBA{0xff, 0x10, 0x10, 0x00})

	want := Grid{
		{0, 1, Transparent},
		{3, 4, Transparent},
	}
	if diff := cmp.Diff(want, FromImage(m, p)); diff != "" {
		t.Errorf("FromImage() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromImageOffset(t *testing.T) {
	p := testPalette(t)

	m := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range m.Pix {
		m.Pix[i] = 0xff
	}
	m.SetNRGBA(2, 2, color.NRGBA{0xff, 0x00, 0x00, 0xff})

	sub := m.SubImage(image.Rect(1, 1, 3, 3))
	assert.Equal(t, Grid{{1, 1}, {1, 2}}, FromImage(sub, p))
}

func TestLowAlphaIsTransparent(t *testing.T) {
	p := testPalette(t)

	m := image.NewNRGBA(image.Rect(0, 0, 256, 1))
	for a := 0; a < 256; a++ {
		m.SetNRGBA(a, 0, color.NRGBA{0xff, 0xff, 0xff, uint8(a)})
	}

	g := FromImage(m, p)
	for a := 0; a < 256; a++ {
		if a < LowAlpha {
			assert.Equal(t, Transparent, g[0][a], "alpha %d", a)
		} else {
			assert.Equal(t, 1, g[0][a], "alpha %d", a)
		}
	}
}

func TestToImage(t *testing.T) {
	p := testPalette(t)

	g := Grid{
		{2, Transparent},
		{Transparent, 4},
		{1, 1},
	}

	m, painted, err := ToImage(g, p, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, painted)
	assert.Equal(t, image.Rect(0, 0, 2, 3), m.Bounds())
	assert.Equal(t, color.NRGBA{0xff, 0x00, 0x00, 0xff}, m.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{}, m.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{0x00, 0x00, 0xff, 0xff}, m.NRGBAAt(1, 1))
}

func TestToImagePixelSize(t *testing.T) {
	p := testPalette(t)

	g := Grid{
		{2, Transparent},
		{Transparent, 3},
	}

	m, painted, err := ToImage(g, p, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, painted)
	assert.Equal(t, image.Rect(0, 0, 6, 6), m.Bounds())

	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			var want color.NRGBA
			switch {
			case x < 3 && y < 3:
				want = color.NRGBA{0xff, 0x00, 0x00, 0xff}
			case x >= 3 && y >= 3:
				want = color.NRGBA{0x00, 0xff, 0x00, 0xff}
			}
			assert.Equal(t, want, m.NRGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}

	_, _, err = ToImage(g, p, 0)
	assert.Error(t, err)
}

func TestToImageUnknownColor(t *testing.T) {
	p := testPalette(t)

	for _, i := range []int{5, -2} {
		_, _, err := ToImage(Grid{{0, i}, {0, 0}}, p, 1)
		assert.ErrorIs(t, err, ErrUnknownColor)
	}
}

func TestToImageShortRow(t *testing.T) {
	p := testPalette(t)

	_, painted, err := ToImage(Grid{{0, 1, 2}, {3}}, p, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, painted)
}

func TestRoundTrip(t *testing.T) {
	p := testPalette(t)

	g := make(Grid, 7)
	for y := range g {
		g[y] = make([]int, 5)
		for x := range g[y] {
			g[y][x] = (x*3 + y) % p.Len()
		}
	}

	m, painted, err := ToImage(g, p, 1)
	require.NoError(t, err)
	assert.Equal(t, 35, painted)

	if diff := cmp.Diff(g, FromImage(m, p)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripTransparent(t *testing.T) {
	p := testPalette(t)

	g := Grid{
		{Transparent, 0, 1},
		{2, Transparent, 3},
	}

	m, _, err := ToImage(g, p, 1)
	require.NoError(t, err)
	assert.Equal(t, g, FromImage(m, p))
}
