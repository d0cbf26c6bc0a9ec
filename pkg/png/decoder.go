package png

import (
	"errors"

	"github.com/jdeng/gopng/internal/png"
	"github.com/rs/zerolog"
)

// Options configures PNG decoding.
type Options struct {
	// SrcData contains the complete PNG stream.
	SrcData []byte
	// Logger receives debug traces. Nil disables them.
	Logger *zerolog.Logger
}

// Decoder gives access to the chunk stream of one PNG before the image data
// is inflated.
type Decoder struct {
	decoder *png.Decoder
}

// New frames and validates the chunk stream in opts.SrcData.
func New(opts Options) (*Decoder, error) {
	if len(opts.SrcData) == 0 {
		return nil, errors.New("png: empty source data")
	}
	d, err := png.NewDecoder(png.DecoderOptions{
		SrcData: opts.SrcData,
		Logger:  opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Decoder{decoder: d}, nil
}

// Header returns the parsed IHDR.
func (d *Decoder) Header() Header {
	return d.decoder.Header()
}

// Chunks describes every chunk of the stream in order.
func (d *Decoder) Chunks() []ChunkInfo {
	chunks := d.decoder.Chunks()
	infos := make([]ChunkInfo, len(chunks))
	for i := range chunks {
		c := &chunks[i]
		infos[i] = ChunkInfo{
			Type:      c.Type.String(),
			Length:    len(c.Data),
			Offset:    c.Offset,
			CRC:       c.CRC,
			Critical:  c.Type.Critical(),
			Placement: c.Placement,
		}
	}
	return infos
}

// Decode inflates the image data and reconstructs the pixel grid.
func (d *Decoder) Decode() (*PixelGrid, error) {
	return d.decoder.DecodeAll()
}

// ChunkInfo summarizes one chunk for listings.
type ChunkInfo struct {
	Type      string
	Length    int
	Offset    int
	CRC       uint32
	Critical  bool
	Placement Placement
}

// Info is the structural summary returned by Inspect.
type Info struct {
	Header Header
	Chunks []ChunkInfo
	// FilteredSize is the inflated IDAT size the header implies.
	FilteredSize int
}

// Inspect validates the chunk stream and reports its header and chunks
// without inflating the image data.
func Inspect(data []byte) (*Info, error) {
	d, err := New(Options{SrcData: data})
	if err != nil {
		return nil, err
	}
	return &Info{
		Header:       d.Header(),
		Chunks:       d.Chunks(),
		FilteredSize: png.FilteredSize(d.Header()),
	}, nil
}
