// Package transform normalizes decoded photos for JPEG output: orientation
// correction, palette expansion, bounded downscaling and flattening onto
// an opaque white background.
package transform

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Bound is the maximum permitted width and height.
type Bound struct {
	Width  int
	Height int
}

func (b Bound) String() string {
	return fmt.Sprintf("%dx%d", b.Width, b.Height)
}

// Contains reports whether a w x h image already fits.
func (b Bound) Contains(w, h int) bool {
	return w <= b.Width && h <= b.Height
}

// Options controls one Process call.
type Options struct {
	Bound   Bound
	Quality int
}

// Output is a finished JPEG held in memory.
type Output struct {
	Data        []byte
	Width       int
	Height      int
	Orientation int
}

// Process decodes data, normalizes it and encodes the result. Nothing is
// written anywhere; callers persist Output.Data once it is complete.
func Process(data []byte, opts Options) (Output, error) {
	img, kind, err := Decode(data)
	if err != nil {
		return Output{}, err
	}

	orientation := ReadOrientation(data, kind)
	norm := Normalize(img, orientation, opts.Bound)

	encoded, err := EncodeJPEG(norm, opts.Quality)
	if err != nil {
		return Output{}, err
	}

	b := norm.Bounds()
	return Output{
		Data:        encoded,
		Width:       b.Dx(),
		Height:      b.Dy(),
		Orientation: orientation,
	}, nil
}

// Normalize applies the orientation, expands indexed colour, fits the image
// inside bound without upscaling and flattens any transparency onto white.
func Normalize(img image.Image, orientation int, bound Bound) *image.RGBA {
	img = ApplyOrientation(img, orientation)

	if _, ok := img.(*image.Paletted); ok {
		img = imaging.Clone(img)
	}

	b := img.Bounds()
	var fitted *image.NRGBA
	if bound.Contains(b.Dx(), b.Dy()) {
		fitted = imaging.Clone(img)
	} else {
		fitted = imaging.Fit(img, bound.Width, bound.Height, imaging.Lanczos)
	}

	return flatten(fitted)
}

// flatten composites src over opaque white. Opaque sources are copied as is.
func flatten(src *image.NRGBA) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	if src.Opaque() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}

	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}

// EncodeJPEG encodes img at the given quality.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
