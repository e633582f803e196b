/*
Package quantize reduces arbitrary rasters to the colors of a fixed palette.

Each strategy produces a candidate Result holding the rendered raster and
its grid. The Flat strategy maps every pixel to its nearest palette color.
The error diffusion kernels delegate to a Reducer and then apply a hard
alpha cutoff: pixels whose alpha is above grid.LowAlpha become fully opaque
and take the reduced color, all others keep their original values. Every
candidate finishes with a flat pass so that each pixel is exactly a palette
color before it is indexed.
*/
package quantize

import (
	"errors"
	"fmt"
	"image"

	"github.com/bodgit/mural/grid"
	"github.com/bodgit/mural/palette"
	"github.com/bodgit/mural/raster"
)

var errEmptyRaster = errors.New("quantize: empty raster")

// IntegrityError is returned when a Reducer returns a buffer of the wrong
// size. Only the candidate for Kernel is affected.
type IntegrityError struct {
	Kernel Kernel
	Got    int
	Want   int
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("quantize: %s returned %d bytes, expected %d", e.Kernel, e.Got, e.Want)
}

// Result is a candidate produced by one strategy.
type Result struct {
	Kernel Kernel
	Image  *image.NRGBA
	Grid   grid.Grid
}

// Quantizer runs quantization strategies against a palette.
type Quantizer struct {
	palette *palette.Palette
	reducer Reducer
}

// New returns a Quantizer for p. If r is nil a Ditherer is used.
func New(p *palette.Palette, r Reducer) (*Quantizer, error) {
	if p == nil || p.Len() == 0 {
		return nil, palette.ErrEmpty
	}
	if r == nil {
		r = Ditherer{}
	}
	return &Quantizer{
		palette: p,
		reducer: r,
	}, nil
}

// Palette returns the palette used by q.
func (q *Quantizer) Palette() *palette.Palette {
	return q.palette
}

func (q *Quantizer) flat(m *image.NRGBA, k Kernel) *Result {
	flatten(m, q.palette)
	return &Result{
		Kernel: k,
		Image:  m,
		Grid:   grid.FromImage(m, q.palette),
	}
}

// diffuse replaces the colors of m in place with the reduced colors
func (q *Quantizer) diffuse(m *image.NRGBA, k Kernel) error {
	buf, err := q.reducer.Reduce(raster.Opaque(m), q.palette, k)
	if err != nil {
		return fmt.Errorf("quantize: %s: %w", k, err)
	}

	if len(buf) != len(m.Pix) {
		return &IntegrityError{
			Kernel: k,
			Got:    len(buf),
			Want:   len(m.Pix),
		}
	}

	for i := 0; i+3 < len(m.Pix); i += 4 {
		if m.Pix[i+3] > grid.LowAlpha {
			copy(m.Pix[i:i+3], buf[i:i+3])
			m.Pix[i+3] = 0xff
		}
	}

	return nil
}

func isKernel(k Kernel) bool {
	for _, kernel := range Kernels {
		if k == kernel {
			return true
		}
	}
	return false
}

// One quantizes a copy of m using the single strategy k.
func (q *Quantizer) One(m image.Image, k Kernel) (*Result, error) {
	src := raster.Clone(m)
	if src.Rect.Empty() {
		return nil, errEmptyRaster
	}

	switch {
	case k == Flat:
	case isKernel(k):
		if err := q.diffuse(src, k); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("quantize: unknown kernel %q", k)
	}

	return q.flat(src, k), nil
}

func (q *Quantizer) worker(m *image.NRGBA, k Kernel, out **Result) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		r, err := q.One(m, k)
		if err != nil {
			errc <- err
			return
		}
		*out = r
	}()
	return errc
}

// All quantizes m with every strategy concurrently and returns the
// candidates in the order of Strategies. Candidates that fail are left out
// and their errors are joined into the returned error.
func (q *Quantizer) All(m image.Image) ([]Result, error) {
	src := raster.Clone(m)
	if src.Rect.Empty() {
		return nil, errEmptyRaster
	}

	strategies := Strategies()
	candidates := make([]*Result, len(strategies))

	var errcList []<-chan error
	for i, k := range strategies {
		errcList = append(errcList, q.worker(src, k, &candidates[i]))
	}

	err := waitForPipeline(errcList...)

	results := make([]Result, 0, len(candidates))
	for _, r := range candidates {
		if r != nil {
			results = append(results, *r)
		}
	}

	return results, err
}
