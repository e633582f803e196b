package palette

import (
	_ "embed"
	"encoding/json"
	"io"
	"io/ioutil"
)

//go:embed default.json
var defaultPalette []byte

// Default returns the built-in 32 color palette.
func Default() *Palette {
	var p Palette
	if err := json.Unmarshal(defaultPalette, &p); err != nil {
		panic(err)
	}
	return &p
}

// Load reads a palette file, a JSON array of hex colors in index order.
func Load(r io.Reader) (*Palette, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var p Palette
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// MarshalJSON encodes the palette as a JSON array of hex colors.
func (p *Palette) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.hex)
}

// UnmarshalJSON decodes a JSON array of hex colors.
func (p *Palette) UnmarshalJSON(b []byte) error {
	var hex []string
	if err := json.Unmarshal(b, &hex); err != nil {
		return err
	}
	np, err := ParseHex(hex...)
	if err != nil {
		return err
	}
	*p = *np
	return nil
}
