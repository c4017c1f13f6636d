package imgutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectHeader(t *testing.T) {
	cases := []struct {
		name   string
		header []byte
		want   Kind
	}{
		{"jpeg", pad([]byte{0xff, 0xd8, 0xff, 0xe0}), KindJPEG},
		{"png", pad([]byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}), KindPNG},
		{"gif89", pad([]byte("GIF89a")), KindGIF},
		{"gif87", pad([]byte("GIF87a")), KindGIF},
		{"bmp", pad([]byte("BM")), KindBMP},
		{"tiff-le", pad([]byte{0x49, 0x49, 0x2a, 0x00}), KindTIFF},
		{"tiff-be", pad([]byte{0x4d, 0x4d, 0x00, 0x2a}), KindTIFF},
		{"webp", []byte("RIFF\x10\x00\x00\x00WEBP"), KindWebP},
		{"riff-not-webp", []byte("RIFF\x10\x00\x00\x00WAVE"), KindUnknown},
		{"text", []byte("hello, world"), KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectHeader(tc.header)
			if err != nil {
				t.Fatalf("detect: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestDetectHeaderShort(t *testing.T) {
	if _, err := DetectHeader([]byte{0xff, 0xd8}); err == nil {
		t.Fatalf("expected error for short header")
	}
}

func TestSniffFileShortIsUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.jpg")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	kind, err := SniffFile(path)
	if err != nil {
		t.Fatalf("sniff: %v", err)
	}
	if kind != KindUnknown {
		t.Fatalf("got %s, want unknown", kind)
	}
}

func TestCarriesExif(t *testing.T) {
	if !KindJPEG.CarriesExif() || !KindTIFF.CarriesExif() {
		t.Fatalf("jpeg and tiff should carry exif")
	}
	if KindGIF.CarriesExif() || KindBMP.CarriesExif() || KindUnknown.CarriesExif() {
		t.Fatalf("gif, bmp and unknown should not carry exif")
	}
}

func pad(prefix []byte) []byte {
	out := make([]byte, HeaderSize)
	copy(out, prefix)
	return out
}
