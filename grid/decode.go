package grid

import (
	"fmt"
	"image"

	"github.com/bodgit/mural/palette"
)

// ToImage renders g using the display colors of p, each cell becoming a
// pixelSize by pixelSize block. Transparent cells, and cells missing from
// rows shorter than the first, are left unpainted. It also returns the
// number of painted cells.
func ToImage(g Grid, p *palette.Palette, pixelSize int) (*image.NRGBA, int, error) {
	if pixelSize < 1 {
		return nil, 0, errBadPixelSize
	}

	width, height := g.Width(), g.Height()
	m := image.NewNRGBA(image.Rect(0, 0, width*pixelSize, height*pixelSize))

	var painted int
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			if x >= len(g[y]) {
				continue
			}
			i := g[y][x]
			if i == Transparent {
				continue
			}
			c, ok := p.Display(i)
			if !ok {
				return nil, 0, fmt.Errorf("%w at %d,%d: %d", ErrUnknownColor, x, y, i)
			}
			painted++

			for dy := 0; dy < pixelSize; dy++ {
				for dx := 0; dx < pixelSize; dx++ {
					m.SetNRGBA(x*pixelSize+dx, y*pixelSize+dy, c)
				}
			}
		}
	}

	return m, painted, nil
}
