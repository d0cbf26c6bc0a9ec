package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jdeng/gopng/pkg/png"
)

type layout struct {
	name  string
	ct    png.ColorType
	depth uint8
}

var layouts = []layout{
	{"gray", png.ColorGray, 1},
	{"gray", png.ColorGray, 2},
	{"gray", png.ColorGray, 4},
	{"gray", png.ColorGray, 8},
	{"gray", png.ColorGray, 16},
	{"rgb", png.ColorTruecolor, 8},
	{"rgb", png.ColorTruecolor, 16},
	{"indexed", png.ColorIndexed, 1},
	{"indexed", png.ColorIndexed, 2},
	{"indexed", png.ColorIndexed, 4},
	{"indexed", png.ColorIndexed, 8},
	{"grayalpha", png.ColorGrayAlpha, 8},
	{"grayalpha", png.ColorGrayAlpha, 16},
	{"rgba", png.ColorRGBA, 8},
	{"rgba", png.ColorRGBA, 16},
}

// fixtureGrid draws a diagonal gradient over the full sample range of the
// layout. Indexed fixtures get a gray ramp palette with a transparent first
// entry.
func fixtureGrid(l layout, w, h int) (*png.PixelGrid, error) {
	g, err := png.NewPixelGrid(w, h, l.ct, l.depth)
	if err != nil {
		return nil, err
	}
	levels := 1 << l.depth
	if l.ct == png.ColorIndexed {
		p := make(png.Palette, levels)
		for i := range p {
			v := uint8(i * 255 / (levels - 1))
			p[i] = png.RGB{R: v, G: v, B: 255 - v}
		}
		g.SetPalette(p)
		g.SetTransparency(&png.Transparency{Alphas: []uint8{0}})
	}

	n := l.ct.Channels()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := g.Pixel(x, y)
			for c := 0; c < n; c++ {
				px[c] = uint16(((x+y)*(levels-1)/max(1, w+h-2) + c*levels/4) % levels)
			}
		}
	}
	return g, nil
}

// createFixtures writes every layout, plain and interlaced, plus one stream
// with a corrupted CRC.
func createFixtures(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	var written []string
	write := func(name string, data []byte) error {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	for _, l := range layouts {
		g, err := fixtureGrid(l, 32, 32)
		if err != nil {
			return nil, err
		}
		for _, il := range []png.InterlaceMethod{png.InterlaceNone, png.InterlaceAdam7} {
			data, err := png.Encode(g, png.EncodeOptions{Interlace: il})
			if err != nil {
				return nil, fmt.Errorf("%s%d: %v", l.name, l.depth, err)
			}
			name := fmt.Sprintf("%s%d.png", l.name, l.depth)
			if il == png.InterlaceAdam7 {
				name = fmt.Sprintf("%s%d-adam7.png", l.name, l.depth)
			}
			if err := write(name, data); err != nil {
				return nil, err
			}
		}
	}

	g, err := fixtureGrid(layouts[3], 8, 8)
	if err != nil {
		return nil, err
	}
	data, err := png.Encode(g, png.EncodeOptions{})
	if err != nil {
		return nil, err
	}
	// Flip one bit of the IHDR width; its CRC no longer matches.
	data[16+3] ^= 0x01
	if err := write("bad-crc.png", data); err != nil {
		return nil, err
	}
	return written, nil
}

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: create-test-png <output-dir>")
		os.Exit(1)
	}

	written, err := createFixtures(os.Args[1])
	if err != nil {
		fmt.Printf("Error creating test PNG files: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created %d test PNG files in %s\n", len(written), os.Args[1])
}
