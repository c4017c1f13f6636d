package transform

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	"photoprep/pkg/imgutil"
)

// OrientationNormal is the EXIF value for an upright image.
const OrientationNormal = 1

// ReadOrientation returns the EXIF orientation (1..8) of an encoded image,
// or OrientationNormal when the tag is absent or unreadable.
func ReadOrientation(data []byte, kind imgutil.Kind) (orientation int) {
	defer func() {
		if recover() != nil {
			orientation = OrientationNormal
		}
	}()

	switch kind {
	case imgutil.KindJPEG, imgutil.KindTIFF:
		return jpegOrientation(data)
	case imgutil.KindPNG, imgutil.KindWebP:
		return embeddedOrientation(data)
	default:
		return OrientationNormal
	}
}

func jpegOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return OrientationNormal
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return OrientationNormal
	}
	v, err := tag.Int(0)
	if err != nil {
		return OrientationNormal
	}
	return validOrientation(v)
}

// embeddedOrientation covers containers goexif does not parse (PNG eXIf
// chunks, WebP EXIF chunks).
func embeddedOrientation(data []byte) int {
	tags, err := imgutil.ExifTags(bytes.NewReader(data))
	if err != nil {
		return OrientationNormal
	}
	tag, found := imgutil.FindExifTag(tags, "Orientation", "IFD")
	if !found {
		return OrientationNormal
	}
	if vals, ok := tag.Value.([]uint16); ok && len(vals) > 0 {
		return validOrientation(int(vals[0]))
	}
	return OrientationNormal
}

func validOrientation(v int) int {
	if v < 1 || v > 8 {
		return OrientationNormal
	}
	return v
}

// ApplyOrientation rotates and flips img so that it displays upright.
func ApplyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
