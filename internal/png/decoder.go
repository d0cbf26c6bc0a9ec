package png

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// DecoderOptions configures PNG decoding.
type DecoderOptions struct {
	// SrcData is the complete PNG stream.
	SrcData []byte
	// Compressor inflates the IDAT payload. Nil selects ZlibCompressor.
	Compressor Compressor
	// Logger receives debug traces of chunk and pass processing. Nil disables them.
	Logger *zerolog.Logger
}

// Decoder holds the parsed chunk stream of one PNG image.
type Decoder struct {
	opts      DecoderOptions
	log       zerolog.Logger
	chunks    []Chunk
	header    ImageHeader
	palette   Palette
	trns      *Transparency
	idat      []byte
	ancillary []Chunk
}

// NewDecoder frames and validates the chunk stream. Image data is not
// inflated until DecodeAll.
func NewDecoder(opts DecoderOptions) (*Decoder, error) {
	if len(opts.SrcData) == 0 {
		return nil, &FormatError{Offset: 0, Msg: "empty source data"}
	}
	if opts.Compressor == nil {
		opts.Compressor = ZlibCompressor{}
	}
	d := &Decoder{opts: opts, log: zerolog.Nop()}
	if opts.Logger != nil {
		d.log = *opts.Logger
	}

	chunks, err := ParseChunks(opts.SrcData)
	if err != nil {
		return nil, err
	}
	d.chunks = chunks
	if err := d.readChunks(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Decoder) readChunks() error {
	idatLen := 0
	for i := range d.chunks {
		if d.chunks[i].Type == TypeIDAT {
			idatLen += len(d.chunks[i].Data)
		}
	}
	d.idat = make([]byte, 0, idatLen)

	for i := range d.chunks {
		c := &d.chunks[i]
		d.log.Debug().
			Str("chunk", c.Type.String()).
			Int("offset", c.Offset).
			Int("length", len(c.Data)).
			Msg("png: chunk")

		var err error
		switch c.Type {
		case TypeIHDR:
			d.header, err = parseIHDR(c)
			if err == nil && int64(d.header.Width)*int64(d.header.Height) > maxImagePixels {
				err = chunkErrorf(c, "image too large: %dx%d", d.header.Width, d.header.Height)
			}
		case TypePLTE:
			d.palette, err = parsePLTE(c, d.header)
		case TypeTRNS:
			d.trns, err = parseTRNS(c, d.header, d.palette)
		case TypeIDAT:
			d.idat = append(d.idat, c.Data...)
		case TypeIEND:
		default:
			// Reserved-bit chunks are listed by Chunks but cannot be re-encoded.
			if !c.Type.Reserved() {
				d.ancillary = append(d.ancillary, *c)
			}
		}
		if err != nil {
			return err
		}
	}

	if d.header.ColorType == ColorIndexed && d.palette == nil {
		return &FormatError{Chunk: TypePLTE.String(), Offset: -1, Msg: "missing palette for indexed color"}
	}
	return nil
}

// Header returns the parsed IHDR.
func (d *Decoder) Header() ImageHeader { return d.header }

// Chunks returns every chunk of the stream in order.
func (d *Decoder) Chunks() []Chunk { return d.chunks }

// DecodeAll inflates the image data and reconstructs the pixel grid.
func (d *Decoder) DecodeAll() (*PixelGrid, error) {
	h := d.header
	size := FilteredSize(h)
	raw, err := d.opts.Compressor.Decompress(d.idat, size+1)
	if err != nil {
		return nil, &CompressionError{Err: err}
	}
	if len(raw) < size {
		return nil, &FormatError{Chunk: TypeIDAT.String(), Offset: -1, Msg: "not enough pixel data"}
	}
	if len(raw) > size {
		return nil, &FormatError{Chunk: TypeIDAT.String(), Offset: -1, Msg: "too much pixel data"}
	}

	g := &PixelGrid{
		width:     int(h.Width),
		height:    int(h.Height),
		colorType: h.ColorType,
		bitDepth:  h.BitDepth,
		samples:   make([]uint16, int(h.Width)*int(h.Height)*h.Channels()),
		palette:   d.palette,
		trns:      d.trns,
		ancillary: d.ancillary,
	}

	bpp := h.BytesPerPixel()
	for _, p := range Passes(h) {
		d.log.Debug().Int("pass", p.Index).Int("width", p.Width).Int("height", p.Height).Msg("png: pass")

		rowBytes := h.RowBytes(p.Width)
		prev := make([]byte, rowBytes)
		samples := make([]uint16, p.Width*h.Channels())
		for y := 0; y < p.Height; y++ {
			ft := FilterType(raw[0])
			cur := raw[1 : 1+rowBytes]
			raw = raw[1+rowBytes:]
			if err := Unfilter(ft, cur, prev, bpp); err != nil {
				var fe *FormatError
				if errors.As(err, &fe) {
					fe.Chunk = TypeIDAT.String()
					fe.Msg = fmt.Sprintf("%s in pass %d row %d", fe.Msg, p.Index, y)
				}
				return nil, err
			}
			if err := unpackInto(samples, cur, int(h.BitDepth), h.Channels(), p.Width); err != nil {
				return nil, err
			}
			p.scatterRow(g, y, samples)
			prev = cur
		}
	}

	if h.ColorType == ColorIndexed {
		if idx, ok := g.checkIndices(); !ok {
			return nil, &FormatError{
				Chunk:  TypePLTE.String(),
				Offset: -1,
				Msg:    fmt.Sprintf("palette index %d out of range for %d entries", idx, len(g.palette)),
			}
		}
	}
	return g, nil
}

// Decode parses and reconstructs a complete PNG stream.
func Decode(data []byte, opts DecoderOptions) (*PixelGrid, error) {
	opts.SrcData = data
	d, err := NewDecoder(opts)
	if err != nil {
		return nil, err
	}
	return d.DecodeAll()
}
