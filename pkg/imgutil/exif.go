package imgutil

import (
	"io"

	exif "github.com/dsoprea/go-exif/v3"
)

// ExifTags locates the EXIF block inside an encoded image and returns its
// tags flattened across IFDs. The block is found by its TIFF byte-order
// header, which covers JPEG APP1 segments, PNG eXIf chunks, WebP EXIF
// chunks and bare TIFF files alike.
func ExifTags(r io.Reader) ([]exif.ExifTag, error) {
	raw, err := exif.SearchAndExtractExifWithReader(r)
	if err != nil {
		return nil, err
	}

	tags, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// FindExifTag returns the first tag called name. An empty ifdPath matches
// any IFD; otherwise only tags from that IFD ("IFD", "IFD/Exif", ...) match.
func FindExifTag(tags []exif.ExifTag, name, ifdPath string) (exif.ExifTag, bool) {
	for _, tag := range tags {
		if tag.TagName != name {
			continue
		}
		if ifdPath != "" && tag.IfdPath != ifdPath {
			continue
		}
		return tag, true
	}
	return exif.ExifTag{}, false
}
