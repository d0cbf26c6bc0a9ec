package png

import (
	"github.com/jdeng/gopng/internal/png"
)

// PixelGrid is a decoded raster. It implements image.Image.
type PixelGrid = png.PixelGrid

// Header is the parsed IHDR of a stream.
type Header = png.ImageHeader

type (
	ColorType        = png.ColorType
	InterlaceMethod  = png.InterlaceMethod
	FilterStrategy   = png.FilterStrategy
	CompressionLevel = png.CompressionLevel
	Palette          = png.Palette
	RGB              = png.RGB
	Transparency     = png.Transparency
	Chunk            = png.Chunk
	ChunkType        = png.ChunkType
	Placement        = png.Placement
)

// Errors returned by Decode and Encode. Match them with errors.As.
type (
	FormatError      = png.FormatError
	CompressionError = png.CompressionError
	EncodingError    = png.EncodingError
)

const (
	ColorGray      = png.ColorGray
	ColorTruecolor = png.ColorTruecolor
	ColorIndexed   = png.ColorIndexed
	ColorGrayAlpha = png.ColorGrayAlpha
	ColorRGBA      = png.ColorRGBA
)

const (
	InterlaceNone  = png.InterlaceNone
	InterlaceAdam7 = png.InterlaceAdam7
)

const (
	FilterAdaptive     = png.FilterAdaptive
	FilterFixedNone    = png.FilterFixedNone
	FilterFixedSub     = png.FilterFixedSub
	FilterFixedUp      = png.FilterFixedUp
	FilterFixedAverage = png.FilterFixedAverage
	FilterFixedPaeth   = png.FilterFixedPaeth
)

const (
	DefaultCompression = png.DefaultCompression
	NoCompression      = png.NoCompression
	BestSpeed          = png.BestSpeed
	BestCompression    = png.BestCompression
)

const (
	BeforePalette   = png.BeforePalette
	BeforeImageData = png.BeforeImageData
	AfterImageData  = png.AfterImageData
)

// EncodeOptions configures Encode. The zero value keeps the grid's layout,
// writes non-interlaced, filters adaptively and uses default compression.
type EncodeOptions = png.EncodeOptions

// NewPixelGrid allocates a zeroed grid.
func NewPixelGrid(w, h int, ct ColorType, depth uint8) (*PixelGrid, error) {
	return png.NewPixelGrid(w, h, ct, depth)
}

// ParseChunkType validates a four letter chunk type code.
func ParseChunkType(s string) (ChunkType, error) {
	return png.ParseChunkType(s)
}
