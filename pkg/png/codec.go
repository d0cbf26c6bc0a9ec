package png

import (
	"fmt"

	"github.com/jdeng/gopng/internal/png"
)

// Decode reconstructs the pixel grid of a complete PNG stream.
func Decode(data []byte) (*PixelGrid, error) {
	return png.Decode(data, png.DecoderOptions{})
}

// Encode writes g as a PNG stream. Invalid options or grid content produce
// an *EncodingError before any output is written.
func Encode(g *PixelGrid, opts EncodeOptions) ([]byte, error) {
	return png.Encode(g, opts)
}

// DecodeRGBA decodes data into non-premultiplied 8-bit RGBA, four bytes per
// pixel, row-major. 16-bit samples keep their high byte.
func DecodeRGBA(data []byte) (pix []byte, width, height int, err error) {
	g, err := Decode(data)
	if err != nil {
		return nil, 0, 0, err
	}
	pix, err = ToRGBA(g)
	if err != nil {
		return nil, 0, 0, err
	}
	return pix, g.Width(), g.Height(), nil
}

// EncodeRGBA encodes non-premultiplied 8-bit RGBA bytes as a truecolor+alpha
// PNG. opts.ColorType and opts.BitDepth are ignored.
func EncodeRGBA(pix []byte, width, height int, opts EncodeOptions) ([]byte, error) {
	if width <= 0 || height <= 0 || len(pix) != 4*width*height {
		return nil, &EncodingError{Msg: fmt.Sprintf("%d bytes of RGBA for a %dx%d image", len(pix), width, height)}
	}
	g, err := png.FromRGBA8(pix, width, height)
	if err != nil {
		return nil, err
	}
	opts.ColorType, opts.BitDepth = ColorRGBA, 8
	return png.Encode(g, opts)
}

// ToRGBA flattens g into non-premultiplied 8-bit RGBA, applying the palette
// and transparency.
func ToRGBA(g *PixelGrid) ([]byte, error) {
	return png.ToRGBA8(g)
}
