// Package testutil builds synthetic photos for tests: plain encoded
// images plus hand-assembled EXIF blocks spliced into JPEG files.
package testutil

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Exif describes the tags BuildExifTIFF emits. Zero fields are omitted.
type Exif struct {
	Orientation      int
	DateTimeOriginal string
}

// BuildExifTIFF assembles a little-endian TIFF block holding IFD0 (with an
// optional Orientation tag) and an Exif sub-IFD with DateTimeOriginal.
func BuildExifTIFF(e Exif) []byte {
	type entry struct {
		tag, typ uint16
		count    uint32
		value    uint32
	}

	var ifd0 []entry
	if e.Orientation != 0 {
		ifd0 = append(ifd0, entry{tag: 0x0112, typ: 3, count: 1, value: uint32(e.Orientation)})
	}
	hasSub := e.DateTimeOriginal != ""
	if hasSub {
		ifd0 = append(ifd0, entry{tag: 0x8769, typ: 4, count: 1})
	}

	ifd0Size := uint32(2 + 12*len(ifd0) + 4)
	subOffset := 8 + ifd0Size
	strOffset := subOffset + 2 + 12 + 4
	if hasSub {
		ifd0[len(ifd0)-1].value = subOffset
	}

	var buf bytes.Buffer
	buf.Write([]byte{0x49, 0x49, 0x2a, 0x00})
	_ = binary.Write(&buf, binary.LittleEndian, uint32(8))

	_ = binary.Write(&buf, binary.LittleEndian, uint16(len(ifd0)))
	for _, en := range ifd0 {
		_ = binary.Write(&buf, binary.LittleEndian, en.tag)
		_ = binary.Write(&buf, binary.LittleEndian, en.typ)
		_ = binary.Write(&buf, binary.LittleEndian, en.count)
		if en.typ == 3 {
			_ = binary.Write(&buf, binary.LittleEndian, uint16(en.value))
			_ = binary.Write(&buf, binary.LittleEndian, uint16(0))
		} else {
			_ = binary.Write(&buf, binary.LittleEndian, en.value)
		}
	}
	_ = binary.Write(&buf, binary.LittleEndian, uint32(0))

	if hasSub {
		str := append([]byte(e.DateTimeOriginal), 0)
		_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
		_ = binary.Write(&buf, binary.LittleEndian, uint16(0x9003))
		_ = binary.Write(&buf, binary.LittleEndian, uint16(2))
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(str)))
		_ = binary.Write(&buf, binary.LittleEndian, strOffset)
		_ = binary.Write(&buf, binary.LittleEndian, uint32(0))
		buf.Write(str)
	}

	return buf.Bytes()
}

// SpliceExif inserts an APP1 Exif segment directly after the SOI marker
// of an encoded JPEG.
func SpliceExif(jpg []byte, tiff []byte) []byte {
	payload := append([]byte("Exif\x00\x00"), tiff...)

	var buf bytes.Buffer
	buf.Write(jpg[:2])
	buf.Write([]byte{0xff, 0xe1})
	_ = binary.Write(&buf, binary.BigEndian, uint16(len(payload)+2))
	buf.Write(payload)
	buf.Write(jpg[2:])
	return buf.Bytes()
}

// SplicePNGExif inserts an eXIf chunk holding tiff right after the IHDR
// chunk of an encoded PNG.
func SplicePNGExif(pngData []byte, tiff []byte) []byte {
	// 8-byte signature, then IHDR: length, type, 13 data bytes, crc.
	const afterIHDR = 8 + 4 + 4 + 13 + 4

	var chunk bytes.Buffer
	_ = binary.Write(&chunk, binary.BigEndian, uint32(len(tiff)))
	body := append([]byte("eXIf"), tiff...)
	chunk.Write(body)
	_ = binary.Write(&chunk, binary.BigEndian, crc32.ChecksumIEEE(body))

	var buf bytes.Buffer
	buf.Write(pngData[:afterIHDR])
	buf.Write(chunk.Bytes())
	buf.Write(pngData[afterIHDR:])
	return buf.Bytes()
}

// WebPWithExif builds a RIFF/WEBP container whose only chunk is EXIF. It
// carries no bitstream and is only good for metadata readers.
func WebPWithExif(tiff []byte) []byte {
	payload := append([]byte(nil), tiff...)
	size := len(payload)
	if size%2 == 1 {
		payload = append(payload, 0)
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(4+8+len(payload)))
	buf.WriteString("WEBP")
	buf.WriteString("EXIF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(size))
	buf.Write(payload)
	return buf.Bytes()
}

// Gradient returns an opaque w x h image whose pixels vary with position.
func Gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x * 255) / max(w-1, 1)),
				G: uint8((y * 255) / max(h-1, 1)),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

// EncodeJPEG encodes img at quality 95.
func EncodeJPEG(img image.Image) []byte {
	var buf bytes.Buffer
	_ = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95})
	return buf.Bytes()
}

// EncodePNG encodes img losslessly.
func EncodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// WriteFile writes data under dir/rel, creating parents, and optionally
// pins the modification time when mtime is non-zero.
func WriteFile(dir, rel string, data []byte, mtime time.Time) (string, error) {
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	if !mtime.IsZero() {
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			return "", err
		}
	}
	return path, nil
}
