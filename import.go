package mural

import (
	"errors"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/mural/grid"
	"github.com/bodgit/mural/quantize"
	"github.com/bodgit/mural/raster"
)

// ErrNothingSelected is returned when the selector declines every
// candidate.
var ErrNothingSelected = errors.New("mural: no candidate selected")

// TextFormats lists the file extensions read as mural JSON rather than as
// an image.
var TextFormats = []string{"muraljson", "json"}

// ImportOptions control how an image is turned into a mural.
type ImportOptions struct {
	Name string
	X, Y int

	// Width and Height are the size to scale the image to. If one is zero
	// it is computed from the other, if both are zero the image is used
	// as is.
	Width, Height int
	NoShrinking   bool

	// Kernel is the strategy to quantize with, quantize.ShowAll offers a
	// candidate from every strategy.
	Kernel quantize.Kernel
}

// Selector picks one of the candidates produced for an image. Returning a
// nil result cancels the import.
type Selector func([]quantize.Result) (*quantize.Result, error)

func isTextFormat(file string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file)), ".")
	for _, f := range TextFormats {
		if ext == f {
			return true
		}
	}
	return false
}

func stem(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ImportFile imports file as either a mural or an image depending on its
// extension. A non-empty opts.Name names the mural, otherwise a mural file
// keeps its own name and anything else is named after the file.
func (m *Manager) ImportFile(file string, opts ImportOptions, sel Selector) (*Mural, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := opts.Name
	if name == "" {
		name = stem(file)
	}

	if isTextFormat(file) {
		mural, err := readMural(f, name)
		if err != nil {
			return nil, err
		}
		if opts.Name != "" {
			mural.Name = opts.Name
		}
		return m.addMural(mural)
	}

	opts.Name = name
	return m.ImportImage(f, opts, sel)
}

func readMural(r io.Reader, name string) (*Mural, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(b, name)
}

// ImportMural reads a mural in JSON form from r and adds it to the store.
// A missing or empty name is replaced with name.
func (m *Manager) ImportMural(r io.Reader, name string) (*Mural, error) {
	mural, err := readMural(r, name)
	if err != nil {
		return nil, err
	}
	return m.addMural(mural)
}

func (m *Manager) addMural(mural *Mural) (*Mural, error) {
	if err := m.store.Add(mural); err != nil {
		return nil, err
	}
	m.logger.Printf("Imported \"%s\", %dx%d at %d,%d\n", mural.Name, mural.Width(), mural.Height(), mural.X, mural.Y)

	return mural, nil
}

// Candidates decodes the image in r, scales it according to opts and
// quantizes it with opts.Kernel, or every strategy if that is
// quantize.ShowAll. Strategies that fail are logged and left out.
func (m *Manager) Candidates(r io.Reader, opts ImportOptions) ([]quantize.Result, error) {
	src, format, err := raster.Decode(r)
	if err != nil {
		return nil, err
	}
	m.logger.Printf("Decoded %s image, %dx%d\n", format, src.Rect.Dx(), src.Rect.Dy())

	if !opts.NoShrinking && (opts.Width > 0 || opts.Height > 0) {
		if src, err = raster.Resize(src, opts.Width, opts.Height); err != nil {
			return nil, err
		}
		m.logger.Printf("Resized to %dx%d\n", src.Rect.Dx(), src.Rect.Dy())
	}

	if err := validateSize(src.Rect.Dy(), src.Rect.Dx()); err != nil {
		return nil, err
	}

	if opts.Kernel == "" {
		opts.Kernel = quantize.Flat
	}

	if opts.Kernel != quantize.ShowAll {
		result, err := m.quantizer.One(src, opts.Kernel)
		if err != nil {
			return nil, err
		}
		return []quantize.Result{*result}, nil
	}

	results, err := m.quantizer.All(src)
	if len(results) == 0 {
		return nil, err
	}
	if err != nil {
		m.logger.Printf("Skipped %d candidates: %v\n", len(quantize.Strategies())-len(results), err)
	}

	return results, nil
}

// ImportImage quantizes the image in r, asks sel to pick a candidate and
// adds the result to the store. If sel is nil the first candidate is used.
func (m *Manager) ImportImage(r io.Reader, opts ImportOptions, sel Selector) (*Mural, error) {
	results, err := m.Candidates(r, opts)
	if err != nil {
		return nil, err
	}

	result := &results[0]
	if sel != nil {
		if result, err = sel(results); err != nil {
			return nil, err
		}
		if result == nil {
			return nil, ErrNothingSelected
		}
	}

	mural := &Mural{
		Name:   opts.Name,
		Pixels: grid.FromImage(quantize.FlatImage(result.Image, m.Palette()), m.Palette()),
		X:      opts.X,
		Y:      opts.Y,
	}

	if err := m.store.Add(mural); err != nil {
		return nil, err
	}
	m.logger.Printf("Imported \"%s\" using %s, %dx%d at %d,%d\n", mural.Name, result.Kernel.Name(), mural.Width(), mural.Height(), mural.X, mural.Y)

	return mural, nil
}
