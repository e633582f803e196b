/*
Package palette implements the fixed, ordered color palette supported by a
canvas. Indices into a palette are stable and every quantization, encoding
and rendering call takes the palette explicitly.

Nearest color matching uses the Manhattan distance in RGB space with ties
resolved to the lowest index. Murals are persisted using exactly this
mapping so it must not be changed to a perceptual metric.
*/
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var (
	// ErrEmpty is returned when constructing a palette with no colors
	ErrEmpty = errors.New("palette: no colors")

	errBadHex = errors.New("palette: invalid hex color")
)

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color formatted as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBA implements color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{c.R, c.G, c.B, 0xff}.RGBA()
}

func absDiff(x, y uint8) int {
	if x > y {
		return int(x - y)
	}
	return int(y - x)
}

// Distance returns the sum of the absolute per-channel differences.
func Distance(c1, c2 RGB) int {
	return absDiff(c1.R, c2.R) + absDiff(c1.G, c2.G) + absDiff(c1.B, c2.B)
}

// Palette is an ordered list of colors together with the parallel list of
// hex strings used for display. A Palette is immutable once created.
type Palette struct {
	colors  []RGB
	hex     []string
	display []color.NRGBA
}

// New returns a palette containing a copy of colors.
func New(colors []RGB) (*Palette, error) {
	if len(colors) == 0 {
		return nil, ErrEmpty
	}
	p := &Palette{
		colors:  make([]RGB, len(colors)),
		hex:     make([]string, len(colors)),
		display: make([]color.NRGBA, len(colors)),
	}
	copy(p.colors, colors)
	for i, c := range p.colors {
		p.hex[i] = c.Hex()
		p.display[i] = color.NRGBA{c.R, c.G, c.B, 0xff}
	}
	return p, nil
}

func parseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return RGB{}, errBadHex
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, errBadHex
	}
	return RGB{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// ParseHex returns a palette from a list of #rgb or #rrggbb strings.
func ParseHex(hex ...string) (*Palette, error) {
	colors := make([]RGB, len(hex))
	for i, s := range hex {
		c, err := parseHex(s)
		if err != nil {
			return nil, fmt.Errorf("%w at %d: %q", err, i, s)
		}
		colors[i] = c
	}
	return New(colors)
}

// Len returns the number of colors.
func (p *Palette) Len() int {
	return len(p.colors)
}

// Colors returns a copy of the palette colors.
func (p *Palette) Colors() []RGB {
	return append([]RGB(nil), p.colors...)
}

// At returns the color at index i, which must be in range.
func (p *Palette) At(i int) RGB {
	return p.colors[i]
}

// Hex returns a copy of the display colors.
func (p *Palette) Hex() []string {
	return append([]string(nil), p.hex...)
}

// Display returns the display color for index i.
func (p *Palette) Display(i int) (color.NRGBA, bool) {
	if i < 0 || i >= len(p.display) {
		return color.NRGBA{}, false
	}
	return p.display[i], true
}

// Nearest returns the index of the palette color closest to c. Ties
// resolve to the lowest index. It panics if the palette is empty.
func (p *Palette) Nearest(c RGB) int {
	if p == nil || len(p.colors) == 0 {
		panic("palette: nearest color of empty palette")
	}
	best, bestScore := 0, Distance(c, p.colors[0])
	for i := 1; i < len(p.colors) && bestScore > 0; i++ {
		if score := Distance(c, p.colors[i]); score < bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// ColorPalette returns the palette as a color.Palette of opaque colors.
func (p *Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, len(p.colors))
	for i, c := range p.colors {
		cp[i] = color.RGBA{c.R, c.G, c.B, 0xff}
	}
	return cp
}
