/*
Package raster supplies the RGBA rasters consumed by the quantizers. Every
raster is a *image.NRGBA with its origin at (0, 0) and a stride of exactly
four bytes per pixel so the pixel buffer can be walked in RGBA strides.
*/
package raster

import (
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var errBadSize = errors.New("raster: invalid size")

// Clone returns a copy of m as a non-premultiplied raster with its origin
// at (0, 0). Pixels of a *image.NRGBA source are copied verbatim.
func Clone(m image.Image) *image.NRGBA {
	b := m.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	if src, ok := m.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], src.Pix[i:i+b.Dx()*4])
		}
		return dst
	}

	draw.Draw(dst, dst.Bounds(), m, b.Min, draw.Src)
	return dst
}

// Opaque returns a copy of m with every pixel made fully opaque. The color
// channels are left as they are.
func Opaque(m *image.NRGBA) *image.NRGBA {
	dst := Clone(m)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// Resize scales m to width by height pixels using nearest neighbour
// sampling so that no new colors are introduced. A zero width or height is
// computed from the other dimension keeping the aspect ratio.
func Resize(m image.Image, width, height int) (*image.NRGBA, error) {
	b := m.Bounds()
	if b.Empty() || width < 0 || height < 0 || (width == 0 && height == 0) {
		return nil, errBadSize
	}

	switch {
	case width == 0:
		width = (b.Dx()*height + b.Dy()/2) / b.Dy()
	case height == 0:
		height = (b.Dy()*width + b.Dx()/2) / b.Dx()
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), m, b, draw.Src, nil)
	return dst, nil
}

// Decode reads a PNG, JPEG, GIF, BMP or WebP image from r and returns it
// as a raster along with the format name.
func Decode(r io.Reader) (*image.NRGBA, string, error) {
	m, format, err := image.Decode(r)
	if err != nil {
		return nil, "", err
	}
	return Clone(m), format, nil
}
