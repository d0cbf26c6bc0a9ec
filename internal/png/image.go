package png

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// maxImagePixels caps width*height for grids built by NewPixelGrid and Decode.
const maxImagePixels = 1 << 28

// PixelGrid is the decoded raster: row-major, channel-interleaved samples
// for the grid's color type and bit depth. Indexed grids store palette
// indices.
type PixelGrid struct {
	width     int
	height    int
	colorType ColorType
	bitDepth  uint8
	samples   []uint16
	palette   Palette
	trns      *Transparency
	ancillary []Chunk
}

// NewPixelGrid allocates a zeroed grid.
func NewPixelGrid(w, h int, ct ColorType, depth uint8) (*PixelGrid, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.New("png: grid dimensions must be positive")
	}
	if int64(w)*int64(h) > maxImagePixels {
		return nil, errors.New("png: image too large")
	}
	if !ct.ValidBitDepth(depth) {
		return nil, fmt.Errorf("png: bit depth %d not allowed for color type %s", depth, ct)
	}
	return &PixelGrid{
		width:     w,
		height:    h,
		colorType: ct,
		bitDepth:  depth,
		samples:   make([]uint16, w*h*ct.Channels()),
	}, nil
}

// Width returns the grid width in pixels.
func (g *PixelGrid) Width() int { return g.width }

// Height returns the grid height in pixels.
func (g *PixelGrid) Height() int { return g.height }

// ColorType returns the sample layout of the grid.
func (g *PixelGrid) ColorType() ColorType { return g.colorType }

// BitDepth returns the bits per sample.
func (g *PixelGrid) BitDepth() uint8 { return g.bitDepth }

func (g *PixelGrid) channels() int { return g.colorType.Channels() }

// Samples exposes the backing sample slice.
func (g *PixelGrid) Samples() []uint16 { return g.samples }

// Palette returns the PLTE entries, nil when absent.
func (g *PixelGrid) Palette() Palette { return g.palette }

// SetPalette replaces the palette.
func (g *PixelGrid) SetPalette(p Palette) { g.palette = p }

// Transparency returns the tRNS data, nil when absent.
func (g *PixelGrid) Transparency() *Transparency { return g.trns }

// SetTransparency replaces the tRNS data.
func (g *PixelGrid) SetTransparency(t *Transparency) { g.trns = t }

// Ancillary returns the pass-through ancillary chunks.
func (g *PixelGrid) Ancillary() []Chunk { return g.ancillary }

// SetAncillary replaces the pass-through ancillary chunks.
func (g *PixelGrid) SetAncillary(chunks []Chunk) { g.ancillary = chunks }

// Header returns the non-interlaced header describing the grid.
func (g *PixelGrid) Header() ImageHeader {
	return ImageHeader{
		Width:     uint32(g.width),
		Height:    uint32(g.height),
		BitDepth:  g.bitDepth,
		ColorType: g.colorType,
	}
}

// Pixel returns the samples of the pixel at (x, y), or nil when out of bounds.
// The slice aliases the grid.
func (g *PixelGrid) Pixel(x, y int) []uint16 {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return nil
	}
	n := g.channels()
	i := (y*g.width + x) * n
	return g.samples[i : i+n : i+n]
}

// SetPixel copies samples into the pixel at (x, y). Out-of-bounds writes are
// ignored.
func (g *PixelGrid) SetPixel(x, y int, samples ...uint16) {
	if px := g.Pixel(x, y); px != nil {
		copy(px, samples)
	}
}

// Equal reports whether both grids hold the same layout, samples, palette
// and transparency.
func (g *PixelGrid) Equal(o *PixelGrid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.width != o.width || g.height != o.height || g.colorType != o.colorType || g.bitDepth != o.bitDepth {
		return false
	}
	if len(g.samples) != len(o.samples) || len(g.palette) != len(o.palette) {
		return false
	}
	for i := range g.samples {
		if g.samples[i] != o.samples[i] {
			return false
		}
	}
	for i := range g.palette {
		if g.palette[i] != o.palette[i] {
			return false
		}
	}
	return g.trns.equal(o.trns)
}

func (t *Transparency) equal(o *Transparency) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.Alphas) != len(o.Alphas) || len(t.Key) != len(o.Key) {
		return false
	}
	for i := range t.Alphas {
		if t.Alphas[i] != o.Alphas[i] {
			return false
		}
	}
	for i := range t.Key {
		if t.Key[i] != o.Key[i] {
			return false
		}
	}
	return true
}

// ColorModel implements image.Image.
func (g *PixelGrid) ColorModel() color.Model { return color.NRGBA64Model }

// Bounds implements image.Image.
func (g *PixelGrid) Bounds() image.Rectangle { return image.Rect(0, 0, g.width, g.height) }

// At implements image.Image. Pixels that cannot be resolved, such as
// out-of-range palette indices, are transparent black.
func (g *PixelGrid) At(x, y int) color.Color {
	px := g.Pixel(x, y)
	if px == nil {
		return color.NRGBA64{}
	}
	c, err := ResolveSample(px, g.Header(), g.palette, g.trns)
	if err != nil {
		return color.NRGBA64{}
	}
	return c
}

// checkIndices reports the first palette index outside the palette.
func (g *PixelGrid) checkIndices() (int, bool) {
	for _, v := range g.samples {
		if int(v) >= len(g.palette) {
			return int(v), false
		}
	}
	return 0, true
}
