package quantize

import (
	"image"

	"github.com/bodgit/mural/palette"
	"github.com/bodgit/mural/raster"
)

func flatten(m *image.NRGBA, p *palette.Palette) {
	for i := 0; i+3 < len(m.Pix); i += 4 {
		c := p.At(p.Nearest(palette.RGB{R: m.Pix[i], G: m.Pix[i+1], B: m.Pix[i+2]}))
		m.Pix[i+0] = c.R
		m.Pix[i+1] = c.G
		m.Pix[i+2] = c.B
	}
}

// FlatImage returns a copy of m with the color of every pixel replaced by the
// nearest palette color. Alpha is left unchanged.
func FlatImage(m image.Image, p *palette.Palette) *image.NRGBA {
	dst := raster.Clone(m)
	flatten(dst, p)
	return dst
}
