package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func testImage(t *testing.T, w, h int) image.Image {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	return img
}

func TestDecodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(t, 12, 8)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 8 {
		t.Fatalf("bounds = %v, want 12x8", b)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not an image")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestResizeLetterboxDimensions(t *testing.T) {
	// A portrait source must come out at exactly the display size,
	// padded rather than cropped.
	out := Resize(testImage(t, 300, 600), DisplayWidth, DisplayHeight, false)
	if b := out.Bounds(); b.Dx() != DisplayWidth || b.Dy() != DisplayHeight {
		t.Fatalf("bounds = %v, want %dx%d", b, DisplayWidth, DisplayHeight)
	}
	// The left edge is padding: black.
	r, g, b, _ := out.At(0, DisplayHeight/2).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Fatalf("letterbox padding should be black, got %d %d %d", r, g, b)
	}
}

func TestResizeThumbIsSquareCrop(t *testing.T) {
	out := Resize(testImage(t, 800, 200), ThumbSide, ThumbSide, true)
	if b := out.Bounds(); b.Dx() != ThumbSide || b.Dy() != ThumbSide {
		t.Fatalf("bounds = %v, want %dx%d", b, ThumbSide, ThumbSide)
	}
	// Crop mode fills the whole frame with source pixels, no padding.
	r, _, _, _ := out.At(0, ThumbSide/2).RGBA()
	if r == 0 {
		t.Fatalf("thumbnail edge should be source content, not padding")
	}
}

func TestEncodeJPEGRoundTrips(t *testing.T) {
	data, err := EncodeJPEG(testImage(t, 30, 20))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 30 || b.Dy() != 20 {
		t.Fatalf("bounds = %v, want 30x20", b)
	}
}
