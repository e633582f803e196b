package mural

import (
	"encoding/json"
	"image/png"
	"io"

	"github.com/bodgit/mural/grid"
	"github.com/bodgit/mural/palette"
)

// ExportJSON writes m to w in the same form that ImportMural reads.
func ExportJSON(w io.Writer, m *Mural) error {
	return json.NewEncoder(w).Encode(m)
}

// ExportPNG renders m with p and writes it to w as a PNG, with every cell
// drawn as a scale by scale block.
func ExportPNG(w io.Writer, m *Mural, p *palette.Palette, scale int) error {
	img, _, err := grid.ToImage(m.Pixels, p, scale)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
