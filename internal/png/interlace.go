package png

// passGeometry locates one interlace pass on the full raster.
type passGeometry struct {
	xStart, yStart   int
	xStride, yStride int
}

// adam7 is the Adam7 pass table, in pass order.
var adam7 = [7]passGeometry{
	{0, 0, 8, 8},
	{4, 0, 8, 8},
	{0, 4, 4, 8},
	{2, 0, 4, 4},
	{0, 2, 2, 4},
	{1, 0, 2, 2},
	{0, 1, 1, 2},
}

// progressive is the single pass of a non-interlaced image.
var progressive = passGeometry{0, 0, 1, 1}

// Pass is one non-empty sub-image of the scanline stream.
type Pass struct {
	// Index is 1..7 for Adam7 passes and 0 for a non-interlaced image.
	Index         int
	Width, Height int
	geometry      passGeometry
}

func gridCount(size, start, stride int) int {
	if size <= start {
		return 0
	}
	return (size - start + stride - 1) / stride
}

// PassDimensions returns the size of Adam7 pass (1..7) for a w×h image.
// Either value may be zero, in which case the pass carries no scanlines.
func PassDimensions(pass, w, h int) (int, int) {
	if pass < 1 || pass > len(adam7) {
		return 0, 0
	}
	g := adam7[pass-1]
	return gridCount(w, g.xStart, g.xStride), gridCount(h, g.yStart, g.yStride)
}

// Passes returns the passes that contribute scanlines, in stream order.
// Adam7 passes with zero width or height are omitted.
func Passes(h ImageHeader) []Pass {
	w, ht := int(h.Width), int(h.Height)
	if h.Interlace != InterlaceAdam7 {
		return []Pass{{Index: 0, Width: w, Height: ht, geometry: progressive}}
	}
	passes := make([]Pass, 0, len(adam7))
	for i, g := range adam7 {
		pw, ph := PassDimensions(i+1, w, ht)
		if pw == 0 || ph == 0 {
			continue
		}
		passes = append(passes, Pass{Index: i + 1, Width: pw, Height: ph, geometry: g})
	}
	return passes
}

// FilteredSize is the length of the decompressed IDAT stream: every
// contributing scanline plus its filter byte.
func FilteredSize(h ImageHeader) int {
	size := 0
	for _, p := range Passes(h) {
		size += p.Height * (1 + h.RowBytes(p.Width))
	}
	return size
}

// scatterRow writes one unpacked pass row into the full grid.
func (p Pass) scatterRow(g *PixelGrid, row int, samples []uint16) {
	n := g.channels()
	y := p.geometry.yStart + row*p.geometry.yStride
	base := y * g.width * n
	if p.geometry.xStride == 1 {
		copy(g.samples[base:base+g.width*n], samples)
		return
	}
	for i := 0; i < p.Width; i++ {
		x := p.geometry.xStart + i*p.geometry.xStride
		copy(g.samples[base+x*n:base+x*n+n], samples[i*n:i*n+n])
	}
}

// gatherRow collects one pass row from the full grid into dst.
func (p Pass) gatherRow(g *PixelGrid, row int, dst []uint16) {
	n := g.channels()
	y := p.geometry.yStart + row*p.geometry.yStride
	base := y * g.width * n
	if p.geometry.xStride == 1 {
		copy(dst, g.samples[base:base+g.width*n])
		return
	}
	for i := 0; i < p.Width; i++ {
		x := p.geometry.xStart + i*p.geometry.xStride
		copy(dst[i*n:i*n+n], g.samples[base+x*n:base+x*n+n])
	}
}
