package png

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"io"

	"github.com/jdeng/gopng/internal/png"
	"golang.org/x/image/draw"
)

func init() {
	image.RegisterFormat("png", string(png.Signature), DecodeImage, DecodeConfig)
}

// DecodeImage reads a complete PNG stream from r. The result is a *PixelGrid.
func DecodeImage(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	g, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// DecodeConfig reads only the signature and IHDR from r.
func DecodeConfig(r io.Reader) (image.Config, error) {
	buf := make([]byte, png.HeaderPrefixSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return image.Config{}, err
	}
	h, err := png.ReadHeader(buf[:n])
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBA64Model,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}

// FromImage converts img into a grid of the given layout. A depth of 0 picks
// the layout from img: gray and paletted images keep their form, 16-bit
// images stay 16-bit and everything else becomes 8-bit RGBA; a *PixelGrid is
// returned as is.
//
// Color types without alpha are composited onto black. Indexed output from a
// non-paletted image, or from a palette too large for depth, is dithered
// onto the web-safe palette and needs depth 8.
func FromImage(img image.Image, ct ColorType, depth uint8) (*PixelGrid, error) {
	if depth == 0 {
		if g, ok := img.(*PixelGrid); ok {
			return g, nil
		}
		ct, depth = layoutOf(img)
	}
	if !ct.ValidBitDepth(depth) {
		return nil, &EncodingError{Msg: fmt.Sprintf("bit depth %d not allowed for color type %s", depth, ct)}
	}
	b := img.Bounds()
	g, err := png.NewPixelGrid(b.Dx(), b.Dy(), ct, depth)
	if err != nil {
		return nil, err
	}

	switch ct {
	case ColorIndexed:
		if err := fillIndexed(g, img); err != nil {
			return nil, err
		}
	case ColorGray:
		fillGray(g, img)
	case ColorTruecolor:
		fillTruecolor(g, img)
	default:
		fillWithAlpha(g, img)
	}
	return g, nil
}

func layoutOf(img image.Image) (ColorType, uint8) {
	switch m := img.(type) {
	case *image.Gray:
		return ColorGray, 8
	case *image.Gray16:
		return ColorGray, 16
	case *image.Paletted:
		return ColorIndexed, indexDepth(len(m.Palette))
	case *image.RGBA64, *image.NRGBA64:
		return ColorRGBA, 16
	}
	return ColorRGBA, 8
}

func indexDepth(n int) uint8 {
	switch {
	case n <= 2:
		return 1
	case n <= 4:
		return 2
	case n <= 16:
		return 4
	}
	return 8
}

func fillGray(g *PixelGrid, img image.Image) {
	b := img.Bounds()
	dst := image.NewGray16(b)
	draw.Draw(dst, b, img, b.Min, draw.Src)

	shift := 16 - g.BitDepth()
	s, i := g.Samples(), 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			s[i] = dst.Gray16At(x, y).Y >> shift
			i++
		}
	}
}

func fillTruecolor(g *PixelGrid, img image.Image) {
	b := img.Bounds()
	dst := image.NewRGBA64(b)
	draw.Draw(dst, b, img, b.Min, draw.Src)

	shift := 16 - g.BitDepth()
	s, i := g.Samples(), 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := dst.RGBA64At(x, y)
			s[i], s[i+1], s[i+2] = c.R>>shift, c.G>>shift, c.B>>shift
			i += 3
		}
	}
}

// fillWithAlpha reads colors straight from img rather than through draw,
// whose premultiplied intermediate loses color under low alpha.
func fillWithAlpha(g *PixelGrid, img image.Image) {
	b := img.Bounds()
	shift := 16 - g.BitDepth()
	gray := g.ColorType() == ColorGrayAlpha
	s, i := g.Samples(), 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := nrgba64(img.At(x, y))
			if gray {
				// Same weights as color.Gray16Model.
				l := (19595*uint32(c.R) + 38470*uint32(c.G) + 7471*uint32(c.B) + 1<<15) >> 16
				s[i], s[i+1] = uint16(l)>>shift, c.A>>shift
				i += 2
				continue
			}
			s[i], s[i+1], s[i+2], s[i+3] = c.R>>shift, c.G>>shift, c.B>>shift, c.A>>shift
			i += 4
		}
	}
}

func nrgba64(c color.Color) color.NRGBA64 {
	switch c := c.(type) {
	case color.NRGBA64:
		return c
	case color.NRGBA:
		return color.NRGBA64{
			R: uint16(c.R) * 0x101,
			G: uint16(c.G) * 0x101,
			B: uint16(c.B) * 0x101,
			A: uint16(c.A) * 0x101,
		}
	}
	return color.NRGBA64Model.Convert(c).(color.NRGBA64)
}

func fillIndexed(g *PixelGrid, img image.Image) error {
	b := img.Bounds()
	pm, ok := img.(*image.Paletted)
	if !ok || len(pm.Palette) > 1<<g.BitDepth() {
		if g.BitDepth() != 8 {
			return &EncodingError{Msg: fmt.Sprintf("cannot quantize to %d-bit palette indices", g.BitDepth())}
		}
		q := image.NewPaletted(b, palette.WebSafe)
		draw.FloydSteinberg.Draw(q, b, img, b.Min)
		pm = q
	}

	p := make(Palette, len(pm.Palette))
	alphas := make([]uint8, len(pm.Palette))
	for i, c := range pm.Palette {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		p[i] = RGB{R: n.R, G: n.G, B: n.B}
		alphas[i] = n.A
	}
	for len(alphas) > 0 && alphas[len(alphas)-1] == 0xff {
		alphas = alphas[:len(alphas)-1]
	}
	g.SetPalette(p)
	if len(alphas) > 0 {
		g.SetTransparency(&Transparency{Alphas: alphas})
	}

	s, i := g.Samples(), 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := pm.Pix[pm.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			s[i] = uint16(row[x])
			i++
		}
	}
	return nil
}
