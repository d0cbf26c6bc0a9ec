package png

import (
	"encoding/binary"
	"fmt"
)

const (
	ihdrLength = 13

	// maxDimension matches the PNG limit of 2^31-1 for width and height.
	maxDimension = 1<<31 - 1
)

// InterlaceMethod selects the scanline ordering of the image data.
type InterlaceMethod uint8

const (
	InterlaceNone  InterlaceMethod = 0
	InterlaceAdam7 InterlaceMethod = 1
)

func (m InterlaceMethod) String() string {
	switch m {
	case InterlaceNone:
		return "None"
	case InterlaceAdam7:
		return "Adam7"
	default:
		return fmt.Sprintf("InterlaceMethod(%d)", int(m))
	}
}

// ImageHeader is the decoded IHDR payload. It is immutable once parsed.
type ImageHeader struct {
	Width             uint32
	Height            uint32
	BitDepth          uint8
	ColorType         ColorType
	CompressionMethod uint8
	FilterMethod      uint8
	Interlace         InterlaceMethod
}

// Validate checks every IHDR field against the PNG rules.
func (h ImageHeader) Validate() error {
	if h.Width == 0 || h.Height == 0 {
		return formatErrorf("zero image dimension %dx%d", h.Width, h.Height)
	}
	if h.Width > maxDimension || h.Height > maxDimension {
		return formatErrorf("image dimension %dx%d exceeds 2^31-1", h.Width, h.Height)
	}
	if !h.ColorType.Valid() {
		return formatErrorf("invalid color type %d", uint8(h.ColorType))
	}
	if !h.ColorType.ValidBitDepth(h.BitDepth) {
		return formatErrorf("bit depth %d not allowed for color type %s", h.BitDepth, h.ColorType)
	}
	if h.CompressionMethod != 0 {
		return formatErrorf("unknown compression method %d", h.CompressionMethod)
	}
	if h.FilterMethod != 0 {
		return formatErrorf("unknown filter method %d", h.FilterMethod)
	}
	if h.Interlace != InterlaceNone && h.Interlace != InterlaceAdam7 {
		return formatErrorf("unknown interlace method %d", uint8(h.Interlace))
	}
	return nil
}

// Channels returns the number of samples stored per pixel.
func (h ImageHeader) Channels() int { return h.ColorType.Channels() }

// BitsPerPixel is the bit distance between adjacent pixels in a scanline.
func (h ImageHeader) BitsPerPixel() int { return int(h.BitDepth) * h.Channels() }

// BytesPerPixel is the filter byte distance, rounded up to at least one.
func (h ImageHeader) BytesPerPixel() int { return (h.BitsPerPixel() + 7) / 8 }

// RowBytes returns the unfiltered byte width of a scanline holding width pixels.
func (h ImageHeader) RowBytes(width int) int {
	return RowBytes(int(h.BitDepth), h.Channels(), width)
}

func parseIHDR(c *Chunk) (ImageHeader, error) {
	if len(c.Data) != ihdrLength {
		return ImageHeader{}, chunkErrorf(c, "bad length %d", len(c.Data))
	}
	h := ImageHeader{
		Width:             binary.BigEndian.Uint32(c.Data[0:4]),
		Height:            binary.BigEndian.Uint32(c.Data[4:8]),
		BitDepth:          c.Data[8],
		ColorType:         ColorType(c.Data[9]),
		CompressionMethod: c.Data[10],
		FilterMethod:      c.Data[11],
		Interlace:         InterlaceMethod(c.Data[12]),
	}
	if err := h.Validate(); err != nil {
		fe := err.(*FormatError)
		fe.Chunk, fe.Offset = c.Type.String(), c.Offset
		return ImageHeader{}, fe
	}
	return h, nil
}

func (h ImageHeader) marshal() []byte {
	b := make([]byte, ihdrLength)
	binary.BigEndian.PutUint32(b[0:4], h.Width)
	binary.BigEndian.PutUint32(b[4:8], h.Height)
	b[8] = h.BitDepth
	b[9] = uint8(h.ColorType)
	b[10] = h.CompressionMethod
	b[11] = h.FilterMethod
	b[12] = uint8(h.Interlace)
	return b
}

// HeaderPrefixSize is the number of leading bytes ReadHeader needs.
const HeaderPrefixSize = 8 + chunkOverhead + ihdrLength

// ReadHeader parses the signature and IHDR from the start of a stream
// without framing the rest of it.
func ReadHeader(data []byte) (ImageHeader, error) {
	rest, err := stripSignature(data)
	if err != nil {
		return ImageHeader{}, err
	}
	if len(rest) < chunkOverhead+ihdrLength {
		return ImageHeader{}, &FormatError{Offset: len(Signature), Msg: "truncated IHDR"}
	}
	c := Chunk{Offset: len(Signature)}
	copy(c.Type[:], rest[4:8])
	if c.Type != TypeIHDR {
		return ImageHeader{}, chunkErrorf(&c, "first chunk must be IHDR")
	}
	if n := binary.BigEndian.Uint32(rest[0:4]); n != ihdrLength {
		return ImageHeader{}, chunkErrorf(&c, "bad length %d", n)
	}
	c.Data = rest[8 : 8+ihdrLength]
	c.CRC = binary.BigEndian.Uint32(rest[8+ihdrLength:])
	if got := chunkCRC(c.Type, c.Data); got != c.CRC {
		return ImageHeader{}, chunkErrorf(&c, "CRC mismatch: stored 0x%08x, computed 0x%08x", c.CRC, got)
	}
	return parseIHDR(&c)
}
