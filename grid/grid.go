/*
Package grid implements the indexed pixel grid used to store murals and the
conversion between it and RGBA rasters.

A grid is row-major. Each cell is either an index into the palette the grid
was encoded with or Transparent. Pixels are transparent when their alpha is
below LowAlpha; there is no partial transparency in a grid.
*/
package grid

import "errors"

const (
	// Transparent marks a cell with no color
	Transparent = -1

	// LowAlpha is the alpha value below which a pixel is transparent
	LowAlpha = 25
)

var (
	// ErrUnknownColor is returned when a cell refers to a color that is not
	// in the palette
	ErrUnknownColor = errors.New("grid: unknown color")

	errBadPixelSize = errors.New("grid: invalid pixel size")
)

// Grid is a two dimensional array of palette indices.
type Grid [][]int

// New returns a width by height grid with every cell transparent.
func New(width, height int) Grid {
	g := make(Grid, height)
	for y := range g {
		g[y] = make([]int, width)
		for x := range g[y] {
			g[y][x] = Transparent
		}
	}
	return g
}

// Height returns the number of rows.
func (g Grid) Height() int {
	return len(g)
}

// Width returns the length of the first row.
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}
