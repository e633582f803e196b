package palette

import (
	"errors"
	"image"
	"image/color"

	"github.com/ericpauley/go-quantize/quantize"
)

// uniqueColors returns the distinct non-transparent colors of m in scan
// order, giving up once more than max have been seen
func uniqueColors(m image.Image, max int) ([]RGB, bool) {
	b := m.Bounds()
	seen := make(map[RGB]struct{})
	var colors []RGB
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			rgb := RGB{c.R, c.G, c.B}
			if _, ok := seen[rgb]; ok {
				continue
			}
			if len(colors) == max {
				return nil, false
			}
			seen[rgb] = struct{}{}
			colors = append(colors, rgb)
		}
	}
	return colors, true
}

// FromImage derives a palette of at most max colors from m. An image with
// few enough distinct colors, such as a screenshot of a palette bar, yields
// those colors exactly in scan order, anything else is reduced using median
// cut.
func FromImage(m image.Image, max int) (*Palette, error) {
	if max < 1 {
		return nil, errors.New("palette: maximum colors must be positive")
	}

	if colors, ok := uniqueColors(m, max); ok {
		return New(colors)
	}

	q := quantize.MedianCutQuantizer{}
	cp := q.Quantize(make(color.Palette, 0, max), m)

	colors := make([]RGB, 0, len(cp))
	for _, c := range cp {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		colors = append(colors, RGB{n.R, n.G, n.B})
	}
	return New(colors)
}
