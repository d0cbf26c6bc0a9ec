package png

import (
	"fmt"

	"github.com/klauspost/compress/zlib"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// CompressionLevel selects the zlib effort for IDAT. The zero value is the
// zlib default; 1..9 are the zlib levels.
type CompressionLevel int

const (
	DefaultCompression CompressionLevel = 0
	NoCompression      CompressionLevel = -1
	BestSpeed          CompressionLevel = 1
	BestCompression    CompressionLevel = 9
)

func (l CompressionLevel) zlibLevel() (int, bool) {
	switch {
	case l == DefaultCompression:
		return zlib.DefaultCompression, true
	case l == NoCompression:
		return zlib.NoCompression, true
	case l >= BestSpeed && l <= BestCompression:
		return int(l), true
	}
	return 0, false
}

// EncodeOptions configures Encode. The zero value writes the grid's own
// color type and bit depth, non-interlaced, with adaptive filtering and
// default compression.
type EncodeOptions struct {
	// ColorType and BitDepth describe the output layout. BitDepth 0 takes
	// both from the grid; otherwise the grid's samples must already be in
	// that layout.
	ColorType ColorType
	BitDepth  uint8

	Interlace        InterlaceMethod
	CompressionLevel CompressionLevel
	Filter           FilterStrategy

	// Compressor deflates the IDAT payload. Nil selects ZlibCompressor.
	Compressor Compressor
	// Logger receives debug traces. Nil disables them.
	Logger *zerolog.Logger
}

// Encode writes g as a PNG stream. Every option and the grid content are
// validated before any output is produced.
func Encode(g *PixelGrid, opts EncodeOptions) ([]byte, error) {
	h, level, err := prepareEncode(g, &opts)
	if err != nil {
		return nil, err
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	filtered, err := filterPasses(g, h, opts.Filter)
	if err != nil {
		return nil, err
	}
	compressor := opts.Compressor
	if compressor == nil {
		compressor = ZlibCompressor{}
	}
	idat, err := compressor.Compress(filtered, level)
	if err != nil {
		return nil, &CompressionError{Err: err}
	}
	log.Debug().
		Int("filtered", len(filtered)).
		Int("compressed", len(idat)).
		Str("interlace", h.Interlace.String()).
		Msg("png: encoded image data")

	var plte []byte
	if len(g.palette) > 0 {
		plte = g.palette.marshal()
	}
	return EmitChunks(h, plte, g.trns.marshal(), idat, g.ancillary), nil
}

func prepareEncode(g *PixelGrid, opts *EncodeOptions) (ImageHeader, int, error) {
	if g == nil || g.width <= 0 || g.height <= 0 {
		return ImageHeader{}, 0, encodingErrorf("empty pixel grid")
	}
	ct, depth := opts.ColorType, opts.BitDepth
	if depth == 0 {
		ct, depth = g.colorType, g.bitDepth
	}
	if !ct.Valid() {
		return ImageHeader{}, 0, encodingErrorf("invalid color type %d", uint8(ct))
	}
	if !ct.ValidBitDepth(depth) {
		return ImageHeader{}, 0, encodingErrorf("bit depth %d not allowed for color type %s", depth, ct)
	}
	if ct.Channels() != g.channels() {
		return ImageHeader{}, 0, encodingErrorf("grid has %d channels, %s needs %d", g.channels(), ct, ct.Channels())
	}
	if len(g.samples) != g.width*g.height*ct.Channels() {
		return ImageHeader{}, 0, encodingErrorf("grid holds %d samples, want %d", len(g.samples), g.width*g.height*ct.Channels())
	}
	if opts.Interlace != InterlaceNone && opts.Interlace != InterlaceAdam7 {
		return ImageHeader{}, 0, encodingErrorf("unknown interlace method %d", uint8(opts.Interlace))
	}
	if !opts.Filter.Valid() {
		return ImageHeader{}, 0, encodingErrorf("unknown filter strategy %d", int(opts.Filter))
	}
	level, ok := opts.CompressionLevel.zlibLevel()
	if !ok {
		return ImageHeader{}, 0, encodingErrorf("compression level %d out of range", int(opts.CompressionLevel))
	}

	limit := maxSample(depth)
	for i, v := range g.samples {
		if v > limit {
			n := ct.Channels()
			return ImageHeader{}, 0, encodingErrorf("sample %d at pixel (%d,%d) exceeds bit depth %d",
				v, (i/n)%g.width, (i/n)/g.width, depth)
		}
	}

	switch {
	case len(g.palette) > maxPaletteEntries:
		return ImageHeader{}, 0, encodingErrorf("palette has %d entries, maximum is %d", len(g.palette), maxPaletteEntries)
	case ct == ColorIndexed && len(g.palette) == 0:
		return ImageHeader{}, 0, encodingErrorf("indexed color needs a palette")
	case ct == ColorIndexed && len(g.palette) > 1<<depth:
		return ImageHeader{}, 0, encodingErrorf("palette has %d entries, bit depth %d allows %d", len(g.palette), depth, 1<<depth)
	case (ct == ColorGray || ct == ColorGrayAlpha) && len(g.palette) > 0:
		return ImageHeader{}, 0, encodingErrorf("palette not allowed for color type %s", ct)
	}
	if ct == ColorIndexed {
		if idx, ok := g.checkIndices(); !ok {
			return ImageHeader{}, 0, encodingErrorf("palette index %d out of range for %d entries", idx, len(g.palette))
		}
	}
	if err := g.trns.validate(ct, depth, g.palette); err != nil {
		return ImageHeader{}, 0, err
	}
	for i := range g.ancillary {
		t := g.ancillary[i].Type
		if !t.Valid() || t.Critical() {
			return ImageHeader{}, 0, encodingErrorf("chunk %q cannot be passed through", t[:])
		}
		if t == TypeTRNS {
			return ImageHeader{}, 0, encodingErrorf("tRNS must be set through Transparency")
		}
		if len(g.ancillary[i].Data) > maxChunkLength {
			return ImageHeader{}, 0, encodingErrorf("chunk %s too large", t)
		}
	}

	h := ImageHeader{
		Width:     uint32(g.width),
		Height:    uint32(g.height),
		BitDepth:  depth,
		ColorType: ct,
		Interlace: opts.Interlace,
	}
	return h, level, nil
}

// filterPasses produces the uncompressed IDAT stream. Passes are filtered
// concurrently; each owns its rows and the results are joined in pass order.
func filterPasses(g *PixelGrid, h ImageHeader, strategy FilterStrategy) ([]byte, error) {
	passes := Passes(h)
	out := make([][]byte, len(passes))
	var eg errgroup.Group
	for i, p := range passes {
		i, p := i, p
		eg.Go(func() error {
			b, err := filterPass(g, h, p, strategy)
			if err != nil {
				return err
			}
			out[i] = b
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	filtered := make([]byte, 0, FilteredSize(h))
	for _, b := range out {
		filtered = append(filtered, b...)
	}
	return filtered, nil
}

func filterPass(g *PixelGrid, h ImageHeader, p Pass, strategy FilterStrategy) ([]byte, error) {
	depth, n := int(h.BitDepth), h.Channels()
	rowBytes := h.RowBytes(p.Width)
	fr := newFilterRow(strategy, rowBytes, h.BytesPerPixel())
	samples := make([]uint16, p.Width*n)
	prev := make([]byte, rowBytes)
	out := make([]byte, 0, p.Height*(1+rowBytes))
	for y := 0; y < p.Height; y++ {
		p.gatherRow(g, y, samples)
		cur, err := Pack(samples, depth, n, p.Width)
		if err != nil {
			return nil, &EncodingError{Msg: fmt.Sprintf("pass %d row %d: %v", p.Index, y, err)}
		}
		ft, filtered := fr.apply(cur, prev)
		out = append(out, byte(ft))
		out = append(out, filtered...)
		prev = cur
	}
	return out, nil
}
