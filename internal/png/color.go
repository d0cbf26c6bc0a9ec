package png

import (
	"encoding/binary"
	"fmt"
	"image/color"
)

// ColorType is the IHDR color type byte.
type ColorType uint8

const (
	ColorGray      ColorType = 0
	ColorTruecolor ColorType = 2
	ColorIndexed   ColorType = 3
	ColorGrayAlpha ColorType = 4
	ColorRGBA      ColorType = 6
)

func (ct ColorType) String() string {
	switch ct {
	case ColorGray:
		return "Gray"
	case ColorTruecolor:
		return "Truecolor"
	case ColorIndexed:
		return "Indexed"
	case ColorGrayAlpha:
		return "GrayAlpha"
	case ColorRGBA:
		return "TruecolorAlpha"
	default:
		return fmt.Sprintf("ColorType(%d)", int(ct))
	}
}

// Valid reports whether ct is one of the five PNG color types.
func (ct ColorType) Valid() bool {
	switch ct {
	case ColorGray, ColorTruecolor, ColorIndexed, ColorGrayAlpha, ColorRGBA:
		return true
	}
	return false
}

// Channels returns the number of stored samples per pixel. Indexed pixels
// store a single palette index.
func (ct ColorType) Channels() int {
	switch ct {
	case ColorGray, ColorIndexed:
		return 1
	case ColorGrayAlpha:
		return 2
	case ColorTruecolor:
		return 3
	case ColorRGBA:
		return 4
	default:
		return 0
	}
}

// ResolvedChannels returns the channel count after palette lookup.
func (ct ColorType) ResolvedChannels() int {
	if ct == ColorIndexed {
		return 3
	}
	return ct.Channels()
}

// ValidBitDepth reports whether depth is allowed for the color type.
func (ct ColorType) ValidBitDepth(depth uint8) bool {
	switch ct {
	case ColorGray:
		return depth == 1 || depth == 2 || depth == 4 || depth == 8 || depth == 16
	case ColorIndexed:
		return depth == 1 || depth == 2 || depth == 4 || depth == 8
	case ColorTruecolor, ColorGrayAlpha, ColorRGBA:
		return depth == 8 || depth == 16
	}
	return false
}

// maxSample is the largest sample value representable at depth.
func maxSample(depth uint8) uint16 {
	return uint16(1<<depth - 1)
}

// RGB is one palette entry.
type RGB struct {
	R, G, B uint8
}

// Palette is the ordered PLTE entry list.
type Palette []RGB

const maxPaletteEntries = 256

func parsePLTE(c *Chunk, h ImageHeader) (Palette, error) {
	if h.ColorType == ColorGray || h.ColorType == ColorGrayAlpha {
		return nil, chunkErrorf(c, "not allowed for color type %s", h.ColorType)
	}
	n := len(c.Data) / 3
	if len(c.Data)%3 != 0 || n == 0 || n > maxPaletteEntries {
		return nil, chunkErrorf(c, "bad length %d", len(c.Data))
	}
	if h.ColorType == ColorIndexed && n > 1<<h.BitDepth {
		return nil, chunkErrorf(c, "%d entries exceed bit depth %d", n, h.BitDepth)
	}
	p := make(Palette, n)
	for i := range p {
		p[i] = RGB{c.Data[3*i], c.Data[3*i+1], c.Data[3*i+2]}
	}
	return p, nil
}

func (p Palette) marshal() []byte {
	b := make([]byte, 0, 3*len(p))
	for _, e := range p {
		b = append(b, e.R, e.G, e.B)
	}
	return b
}

// Transparency is the decoded tRNS chunk. Indexed images use Alphas, one
// entry per leading palette index; the other color types use Key, the exact
// sample value (1 for gray, 3 for truecolor) rendered fully transparent.
type Transparency struct {
	Alphas []uint8
	Key    []uint16
}

func parseTRNS(c *Chunk, h ImageHeader, p Palette) (*Transparency, error) {
	switch h.ColorType {
	case ColorIndexed:
		if p == nil {
			return nil, chunkErrorf(c, "tRNS before PLTE")
		}
		if len(c.Data) > len(p) {
			return nil, chunkErrorf(c, "%d alpha entries for %d palette entries", len(c.Data), len(p))
		}
		return &Transparency{Alphas: append([]uint8(nil), c.Data...)}, nil
	case ColorGray, ColorTruecolor:
		n := h.ColorType.Channels()
		if len(c.Data) != 2*n {
			return nil, chunkErrorf(c, "bad length %d", len(c.Data))
		}
		key := make([]uint16, n)
		for i := range key {
			key[i] = binary.BigEndian.Uint16(c.Data[2*i:]) & maxSample(h.BitDepth)
		}
		return &Transparency{Key: key}, nil
	default:
		return nil, chunkErrorf(c, "not allowed for color type %s", h.ColorType)
	}
}

func (t *Transparency) marshal() []byte {
	if t == nil {
		return nil
	}
	if t.Key == nil {
		return append([]byte(nil), t.Alphas...)
	}
	b := make([]byte, 2*len(t.Key))
	for i, v := range t.Key {
		binary.BigEndian.PutUint16(b[2*i:], v)
	}
	return b
}

func (t *Transparency) validate(ct ColorType, depth uint8, p Palette) error {
	if t == nil {
		return nil
	}
	switch ct {
	case ColorIndexed:
		if t.Key != nil {
			return encodingErrorf("transparency key not allowed for indexed color")
		}
		if len(t.Alphas) > len(p) {
			return encodingErrorf("%d alpha entries for %d palette entries", len(t.Alphas), len(p))
		}
	case ColorGray, ColorTruecolor:
		if t.Alphas != nil || len(t.Key) != ct.Channels() {
			return encodingErrorf("transparency for %s needs %d key samples", ct, ct.Channels())
		}
		for _, v := range t.Key {
			if v > maxSample(depth) {
				return encodingErrorf("transparency key %d exceeds bit depth %d", v, depth)
			}
		}
	default:
		return encodingErrorf("transparency not allowed for color type %s", ct)
	}
	return nil
}

// scaleTo16 widens a sample of the given depth to the full 16-bit range.
func scaleTo16(v uint16, depth uint8) uint16 {
	switch depth {
	case 16:
		return v
	case 8:
		return v * 0x101
	default:
		return uint16(uint32(v) * 0xffff / uint32(maxSample(depth)))
	}
}

// ResolveSample turns the raw samples of one pixel into a color, applying
// palette lookup and tRNS. A transparency key matches only on exact equality
// of every channel.
func ResolveSample(raw []uint16, h ImageHeader, p Palette, t *Transparency) (color.NRGBA64, error) {
	switch h.ColorType {
	case ColorIndexed:
		idx := int(raw[0])
		if idx >= len(p) {
			return color.NRGBA64{}, formatErrorf("palette index %d out of range [0,%d)", idx, len(p))
		}
		e := p[idx]
		a := uint16(0xffff)
		if t != nil && idx < len(t.Alphas) {
			a = uint16(t.Alphas[idx]) * 0x101
		}
		return color.NRGBA64{R: uint16(e.R) * 0x101, G: uint16(e.G) * 0x101, B: uint16(e.B) * 0x101, A: a}, nil
	case ColorGray:
		y := scaleTo16(raw[0], h.BitDepth)
		a := uint16(0xffff)
		if t != nil && len(t.Key) == 1 && t.Key[0] == raw[0] {
			a = 0
		}
		return color.NRGBA64{R: y, G: y, B: y, A: a}, nil
	case ColorGrayAlpha:
		y := scaleTo16(raw[0], h.BitDepth)
		return color.NRGBA64{R: y, G: y, B: y, A: scaleTo16(raw[1], h.BitDepth)}, nil
	case ColorTruecolor:
		a := uint16(0xffff)
		if t != nil && len(t.Key) == 3 && t.Key[0] == raw[0] && t.Key[1] == raw[1] && t.Key[2] == raw[2] {
			a = 0
		}
		return color.NRGBA64{
			R: scaleTo16(raw[0], h.BitDepth),
			G: scaleTo16(raw[1], h.BitDepth),
			B: scaleTo16(raw[2], h.BitDepth),
			A: a,
		}, nil
	case ColorRGBA:
		return color.NRGBA64{
			R: scaleTo16(raw[0], h.BitDepth),
			G: scaleTo16(raw[1], h.BitDepth),
			B: scaleTo16(raw[2], h.BitDepth),
			A: scaleTo16(raw[3], h.BitDepth),
		}, nil
	}
	return color.NRGBA64{}, formatErrorf("invalid color type %d", uint8(h.ColorType))
}

// to8 narrows a sample to 8 bits: 16-bit samples keep the high byte and
// sub-byte samples are scaled up.
func to8(v uint16, depth uint8) uint8 {
	switch depth {
	case 16:
		return uint8(v >> 8)
	case 8:
		return uint8(v)
	default:
		return uint8(uint32(v) * 0xff / uint32(maxSample(depth)))
	}
}

// ToRGBA8 flattens a grid into non-premultiplied 8-bit RGBA, four bytes per
// pixel, row-major. Pixels without alpha get 0xff.
func ToRGBA8(g *PixelGrid) ([]byte, error) {
	h := g.Header()
	n := h.Channels()
	out := make([]byte, 0, 4*g.width*g.height)
	for i := 0; i < len(g.samples); i += n {
		raw := g.samples[i : i+n]
		switch h.ColorType {
		case ColorIndexed:
			idx := int(raw[0])
			if idx >= len(g.palette) {
				return nil, formatErrorf("palette index %d out of range [0,%d)", idx, len(g.palette))
			}
			e := g.palette[idx]
			a := uint8(0xff)
			if g.trns != nil && idx < len(g.trns.Alphas) {
				a = g.trns.Alphas[idx]
			}
			out = append(out, e.R, e.G, e.B, a)
		case ColorGray:
			y := to8(raw[0], h.BitDepth)
			a := uint8(0xff)
			if g.trns != nil && len(g.trns.Key) == 1 && g.trns.Key[0] == raw[0] {
				a = 0
			}
			out = append(out, y, y, y, a)
		case ColorGrayAlpha:
			y := to8(raw[0], h.BitDepth)
			out = append(out, y, y, y, to8(raw[1], h.BitDepth))
		case ColorTruecolor:
			a := uint8(0xff)
			if g.trns != nil && len(g.trns.Key) == 3 && g.trns.Key[0] == raw[0] && g.trns.Key[1] == raw[1] && g.trns.Key[2] == raw[2] {
				a = 0
			}
			out = append(out, to8(raw[0], h.BitDepth), to8(raw[1], h.BitDepth), to8(raw[2], h.BitDepth), a)
		case ColorRGBA:
			out = append(out, to8(raw[0], h.BitDepth), to8(raw[1], h.BitDepth), to8(raw[2], h.BitDepth), to8(raw[3], h.BitDepth))
		}
	}
	return out, nil
}

// FromRGBA8 builds an 8-bit truecolor+alpha grid from non-premultiplied
// RGBA bytes, four per pixel, row-major.
func FromRGBA8(data []byte, w, h int) (*PixelGrid, error) {
	g, err := NewPixelGrid(w, h, ColorRGBA, 8)
	if err != nil {
		return nil, err
	}
	if len(data) != 4*w*h {
		return nil, fmt.Errorf("png: RGBA buffer has %d bytes, want %d", len(data), 4*w*h)
	}
	for i, b := range data {
		g.samples[i] = uint16(b)
	}
	return g, nil
}
