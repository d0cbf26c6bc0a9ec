package png

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageHeaderValidate(t *testing.T) {
	valid := ImageHeader{Width: 4, Height: 4, BitDepth: 8, ColorType: ColorRGBA}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		modify func(h *ImageHeader)
	}{
		{"zero width", func(h *ImageHeader) { h.Width = 0 }},
		{"zero height", func(h *ImageHeader) { h.Height = 0 }},
		{"huge width", func(h *ImageHeader) { h.Width = 1 << 31 }},
		{"color type 1", func(h *ImageHeader) { h.ColorType = 1 }},
		{"color type 7", func(h *ImageHeader) { h.ColorType = 7 }},
		{"rgba depth 4", func(h *ImageHeader) { h.BitDepth = 4 }},
		{"rgba depth 3", func(h *ImageHeader) { h.BitDepth = 3 }},
		{"indexed depth 16", func(h *ImageHeader) { h.ColorType, h.BitDepth = ColorIndexed, 16 }},
		{"compression method", func(h *ImageHeader) { h.CompressionMethod = 1 }},
		{"filter method", func(h *ImageHeader) { h.FilterMethod = 1 }},
		{"interlace method", func(h *ImageHeader) { h.Interlace = 2 }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := valid
			test.modify(&h)
			err := h.Validate()
			require.Error(t, err)
			assert.IsType(t, &FormatError{}, err)
		})
	}
}

func TestColorTypeBitDepthTable(t *testing.T) {
	allowed := map[ColorType][]uint8{
		ColorGray:      {1, 2, 4, 8, 16},
		ColorTruecolor: {8, 16},
		ColorIndexed:   {1, 2, 4, 8},
		ColorGrayAlpha: {8, 16},
		ColorRGBA:      {8, 16},
	}
	for ct, depths := range allowed {
		for _, d := range []uint8{0, 1, 2, 3, 4, 8, 12, 16, 32} {
			assert.Equal(t, contains(depths, d), ct.ValidBitDepth(d), "%s depth %d", ct, d)
		}
	}
}

func contains(list []uint8, v uint8) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func TestParseIHDRRoundTrip(t *testing.T) {
	h := ImageHeader{Width: 640, Height: 480, BitDepth: 16, ColorType: ColorTruecolor, Interlace: InterlaceAdam7}
	c := &Chunk{Type: TypeIHDR, Data: h.marshal(), Offset: 8}
	got, err := parseIHDR(c)
	require.NoError(t, err)
	assert.Equal(t, h, got)
	assert.Equal(t, 6, got.BytesPerPixel())
	assert.Equal(t, 48, got.BitsPerPixel())

	c.Data = c.Data[:12]
	_, err = parseIHDR(c)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "IHDR", fe.Chunk)
	assert.Equal(t, 8, fe.Offset)
}

func TestParseIHDRCarriesLocation(t *testing.T) {
	h := ImageHeader{Width: 1, Height: 1, BitDepth: 16, ColorType: ColorIndexed}
	_, err := parseIHDR(&Chunk{Type: TypeIHDR, Data: h.marshal(), Offset: 8})
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "IHDR", fe.Chunk)
	assert.Equal(t, 8, fe.Offset)
	assert.Contains(t, fe.Error(), "bit depth 16 not allowed")
}

func TestBytesPerPixelSubByte(t *testing.T) {
	h := ImageHeader{Width: 1, Height: 1, BitDepth: 1, ColorType: ColorGray}
	assert.Equal(t, 1, h.BytesPerPixel())
	h.BitDepth, h.ColorType = 8, ColorGrayAlpha
	assert.Equal(t, 2, h.BytesPerPixel())
}

func TestInterlaceMethodString(t *testing.T) {
	assert.Equal(t, "None", InterlaceNone.String())
	assert.Equal(t, "Adam7", InterlaceAdam7.String())
	assert.Equal(t, "InterlaceMethod(3)", InterlaceMethod(3).String())
}

func TestReadHeader(t *testing.T) {
	h := ImageHeader{Width: 640, Height: 480, BitDepth: 16, ColorType: ColorRGBA, Interlace: InterlaceAdam7}
	data := buildStream(t, h, nil, nil, make([]byte, FilteredSize(h)))

	got, err := ReadHeader(data[:HeaderPrefixSize])
	require.NoError(t, err)
	assert.Equal(t, h, got)

	_, err = ReadHeader(data[:HeaderPrefixSize-1])
	assert.Error(t, err)

	bad := append([]byte(nil), data[:HeaderPrefixSize]...)
	bad[20] ^= 0x01
	_, err = ReadHeader(bad)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Msg, "CRC mismatch")

	_, err = ReadHeader(concat(Signature, rawChunk("IDAT", make([]byte, 13))))
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Msg, "first chunk must be IHDR")
}
