package png

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromImageAutoLayout(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.Pix = []byte{7, 200}
	g, err := FromImage(gray, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, ColorGray, g.ColorType())
	assert.Equal(t, uint8(8), g.BitDepth())
	assert.Equal(t, []uint16{7, 200}, g.Samples())

	g16 := image.NewGray16(image.Rect(0, 0, 1, 1))
	g16.SetGray16(0, 0, color.Gray16{Y: 0x1234})
	g, err = FromImage(g16, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint8(16), g.BitDepth())
	assert.Equal(t, []uint16{0x1234}, g.Samples())

	nrgba := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	nrgba.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	g, err = FromImage(nrgba, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, ColorRGBA, g.ColorType())
	assert.Equal(t, []uint16{1, 2, 3, 4}, g.Samples())

	same, err := FromImage(g, 0, 0)
	require.NoError(t, err)
	assert.True(t, same == g)
}

func TestFromImagePaletted(t *testing.T) {
	pal := color.Palette{
		color.NRGBA{R: 255, A: 0},
		color.NRGBA{G: 255, A: 255},
		color.NRGBA{B: 255, A: 255},
	}
	pm := image.NewPaletted(image.Rect(0, 0, 3, 1), pal)
	pm.Pix = []byte{2, 1, 0}

	g, err := FromImage(pm, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, ColorIndexed, g.ColorType())
	assert.Equal(t, uint8(2), g.BitDepth())
	assert.Equal(t, []uint16{2, 1, 0}, g.Samples())
	assert.Equal(t, Palette{{R: 255, G: 0, B: 0}, {R: 0, G: 255, B: 0}, {R: 0, G: 0, B: 255}}, g.Palette())
	require.NotNil(t, g.Transparency())
	assert.Equal(t, []uint8{0}, g.Transparency().Alphas)

	data, err := Encode(g, EncodeOptions{})
	require.NoError(t, err)
	out, err := Decode(data)
	require.NoError(t, err)
	assert.True(t, g.Equal(out))
}

func TestFromImageConversions(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 10, 12, 11))
	src.SetNRGBA(10, 10, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	src.SetNRGBA(11, 10, color.NRGBA{R: 255, G: 0, B: 0, A: 0})

	g, err := FromImage(src, ColorGrayAlpha, 8)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Width())
	assert.Equal(t, []uint16{255, 255}, g.Pixel(0, 0))
	assert.Equal(t, uint16(0), g.Pixel(1, 0)[1])

	g, err = FromImage(src, ColorTruecolor, 16)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0xffff, 0xffff, 0xffff}, g.Pixel(0, 0))
	assert.Equal(t, []uint16{0, 0, 0}, g.Pixel(1, 0), "transparent pixels composite onto black")

	g, err = FromImage(src, ColorGray, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint16{1, 0}, g.Samples())

	g, err = FromImage(src, ColorIndexed, 8)
	require.NoError(t, err)
	assert.Len(t, g.Palette(), 216)
	_, err = Encode(g, EncodeOptions{})
	assert.NoError(t, err)

	_, err = FromImage(src, ColorIndexed, 4)
	var ee *EncodingError
	assert.ErrorAs(t, err, &ee)

	_, err = FromImage(src, ColorTruecolor, 4)
	assert.ErrorAs(t, err, &ee)
}
