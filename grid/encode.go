package grid

import (
	"image"

	"github.com/bodgit/mural/palette"
	"github.com/bodgit/mural/raster"
)

// FromImage returns the grid of palette indices for m. Pixels with an alpha
// below LowAlpha become Transparent, all others map to the nearest palette
// color.
func FromImage(m image.Image, p *palette.Palette) Grid {
	nm, ok := m.(*image.NRGBA)
	if !ok || nm.Rect.Min != (image.Point{}) || nm.Stride != nm.Rect.Dx()*4 {
		nm = raster.Clone(m)
	}

	width, height := nm.Rect.Dx(), nm.Rect.Dy()

	g := make(Grid, height)
	for y := range g {
		g[y] = make([]int, 0, width)
	}

	for i := 0; i+3 < len(nm.Pix); i += 4 {
		line := i / 4 / width
		if nm.Pix[i+3] < LowAlpha {
			g[line] = append(g[line], Transparent)
			continue
		}
		g[line] = append(g[line], p.Nearest(palette.RGB{R: nm.Pix[i], G: nm.Pix[i+1], B: nm.Pix[i+2]}))
	}

	return g
}
