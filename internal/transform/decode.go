package transform

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"photoprep/pkg/imgutil"
)

// ErrUnsupportedFormat is returned for bytes that are not a known image container.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Decode sniffs and decodes an in-memory image. GIFs yield their first frame.
func Decode(data []byte) (image.Image, imgutil.Kind, error) {
	kind := imgutil.SniffBytes(data)
	if kind == imgutil.KindUnknown {
		return nil, kind, ErrUnsupportedFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, kind, fmt.Errorf("decode %s: %w", kind, err)
	}
	return img, kind, nil
}
