package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // glTF core image format
	_ "image/png"  // glTF core image format

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // EXT_texture_webp
)

// MaxTextureSize bounds the longest texture edge. Larger images are
// downscaled before upload.
const MaxTextureSize = 2048

// decodeImage decodes PNG, JPEG or WebP bytes into RGBA.
func decodeImage(data []byte) (*image.RGBA, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decoding %s image: empty bounds", format)
	}
	return toRGBA(img), nil
}

// toRGBA converts img into a zero-origin RGBA, scaling it down to fit
// MaxTextureSize while keeping the aspect ratio.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > MaxTextureSize || h > MaxTextureSize {
		if w >= h {
			h = max(1, h*MaxTextureSize/w)
			w = MaxTextureSize
		} else {
			w = max(1, w*MaxTextureSize/h)
			h = MaxTextureSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst
	}

	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
