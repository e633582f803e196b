package quantize

import (
	"fmt"
	"image"
	"image/color"

	"github.com/bodgit/mural/palette"
	"github.com/makeworld-the-better-one/dither/v2"
)

// Reducer reduces an opaque raster to the colors of a palette using the
// named error diffusion kernel. It returns the reduced raster as a buffer
// of RGBA bytes in row-major order.
type Reducer interface {
	Reduce(m *image.NRGBA, p *palette.Palette, k Kernel) ([]byte, error)
}

var matrices = map[Kernel]dither.ErrorDiffusionMatrix{
	FloydSteinberg:      dither.FloydSteinberg,
	FalseFloydSteinberg: dither.FalseFloydSteinberg,
	Stucki:              dither.Stucki,
	Atkinson:            dither.Atkinson,
	Jarvis:              dither.JarvisJudiceNinke,
	Burkes:              dither.Burkes,
	Sierra:              dither.Sierra,
	TwoSierra:           dither.TwoRowSierra,
	SierraLite:          dither.SierraLite,
}

// Ditherer is a Reducer backed by the error diffusion matrices of the
// dither package.
type Ditherer struct {
	// Serpentine alternates the scan direction on each row
	Serpentine bool
}

// Reduce implements Reducer.
func (d Ditherer) Reduce(m *image.NRGBA, p *palette.Palette, k Kernel) ([]byte, error) {
	matrix, ok := matrices[k]
	if !ok {
		return nil, fmt.Errorf("quantize: no error diffusion matrix for %q", k)
	}

	dd := dither.NewDitherer(p.ColorPalette())
	if dd == nil {
		return nil, palette.ErrEmpty
	}
	dd.Matrix = matrix
	dd.Serpentine = d.Serpentine

	var out image.Image = dd.DitherCopy(m)

	return pixels(out), nil
}

func pixels(m image.Image) []byte {
	b := m.Bounds()
	buf := make([]byte, 0, b.Dx()*b.Dy()*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			buf = append(buf, c.R, c.G, c.B, c.A)
		}
	}
	return buf
}
