package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// Canonical dimensions for the derived page image variants.
const (
	DisplayWidth  = 1920
	DisplayHeight = 1080
	ThumbSide     = 400
)

const jpegQuality = 100

// Decode reads any registered image format.
func Decode(raw []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Resize scales src to exactly w×h. With preserveAspect the source is
// center-cropped to the target aspect first (thumbnails); otherwise it
// is scaled to fit and letterboxed onto a w×h canvas (uniform display).
func Resize(src image.Image, w, h int, preserveAspect bool) image.Image {
	if preserveAspect {
		return cropScale(src, w, h)
	}
	return letterbox(src, w, h)
}

// EncodeJPEG writes img as a maximum-quality JPEG.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func cropScale(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()

	// Center-crop to the target aspect ratio.
	cw, ch := sw, sh
	if sw*h > sh*w {
		cw = sh * w / h
	} else {
		ch = sw * h / w
	}
	x0 := b.Min.X + (sw-cw)/2
	y0 := b.Min.Y + (sh-ch)/2

	cropRect := image.Rect(0, 0, cw, ch)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, src, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)
	return dst
}

func letterbox(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()

	// Scale to fit inside w×h.
	fw, fh := w, h
	if sw*h > sh*w {
		fh = sh * w / sw
	} else {
		fw = sw * h / sh
	}
	if fw < 1 {
		fw = 1
	}
	if fh < 1 {
		fh = 1
	}

	scaled := image.NewRGBA(image.Rect(0, 0, fw, fh))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, b, draw.Over, nil)

	dc := gg.NewContext(w, h)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.DrawImage(scaled, (w-fw)/2, (h-fh)/2)
	return dc.Image()
}
