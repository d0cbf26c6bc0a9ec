package png

import "fmt"

// FilterType is the per-scanline filter byte.
type FilterType uint8

const (
	FilterNone    FilterType = 0
	FilterSub     FilterType = 1
	FilterUp      FilterType = 2
	FilterAverage FilterType = 3
	FilterPaeth   FilterType = 4
	nFilter                  = 5
)

func (ft FilterType) String() string {
	switch ft {
	case FilterNone:
		return "None"
	case FilterSub:
		return "Sub"
	case FilterUp:
		return "Up"
	case FilterAverage:
		return "Average"
	case FilterPaeth:
		return "Paeth"
	default:
		return fmt.Sprintf("FilterType(%d)", int(ft))
	}
}

// Paeth returns whichever of a (left), b (up) and c (upper left) is closest
// to a+b-c, preferring a, then b, then c on ties.
func Paeth(a, b, c uint8) uint8 {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Unfilter reverses ft on cur in place. prev is the reconstructed previous
// scanline of the same pass, all zeros for the first row. bpp is the byte
// distance between corresponding bytes of adjacent pixels.
func Unfilter(ft FilterType, cur, prev []byte, bpp int) error {
	if len(prev) != len(cur) {
		return fmt.Errorf("png: previous row has %d bytes, current has %d", len(prev), len(cur))
	}
	switch ft {
	case FilterNone:
	case FilterSub:
		for i := bpp; i < len(cur); i++ {
			cur[i] += cur[i-bpp]
		}
	case FilterUp:
		for i, p := range prev {
			cur[i] += p
		}
	case FilterAverage:
		for i := 0; i < bpp && i < len(cur); i++ {
			cur[i] += prev[i] / 2
		}
		for i := bpp; i < len(cur); i++ {
			cur[i] += uint8((int(cur[i-bpp]) + int(prev[i])) / 2)
		}
	case FilterPaeth:
		for i := 0; i < bpp && i < len(cur); i++ {
			cur[i] += Paeth(0, prev[i], 0)
		}
		for i := bpp; i < len(cur); i++ {
			cur[i] += Paeth(cur[i-bpp], prev[i], prev[i-bpp])
		}
	default:
		return formatErrorf("bad filter type %d", uint8(ft))
	}
	return nil
}

// Filter writes the ft-filtered form of cur into dst. cur and prev are raw
// (unfiltered) scanlines and are not modified.
func Filter(ft FilterType, dst, cur, prev []byte, bpp int) {
	switch ft {
	case FilterNone:
		copy(dst, cur)
	case FilterSub:
		for i := 0; i < bpp && i < len(cur); i++ {
			dst[i] = cur[i]
		}
		for i := bpp; i < len(cur); i++ {
			dst[i] = cur[i] - cur[i-bpp]
		}
	case FilterUp:
		for i := range cur {
			dst[i] = cur[i] - prev[i]
		}
	case FilterAverage:
		for i := 0; i < bpp && i < len(cur); i++ {
			dst[i] = cur[i] - prev[i]/2
		}
		for i := bpp; i < len(cur); i++ {
			dst[i] = cur[i] - uint8((int(cur[i-bpp])+int(prev[i]))/2)
		}
	case FilterPaeth:
		for i := 0; i < bpp && i < len(cur); i++ {
			dst[i] = cur[i] - Paeth(0, prev[i], 0)
		}
		for i := bpp; i < len(cur); i++ {
			dst[i] = cur[i] - Paeth(cur[i-bpp], prev[i], prev[i-bpp])
		}
	}
}

// FilterStrategy decides the filter type of each encoded scanline.
type FilterStrategy int

const (
	// FilterAdaptive picks, per row, the filter whose output has the
	// smallest sum of absolute values when read as signed bytes. Ties go to
	// the lowest filter type.
	FilterAdaptive FilterStrategy = iota
	FilterFixedNone
	FilterFixedSub
	FilterFixedUp
	FilterFixedAverage
	FilterFixedPaeth
)

func (s FilterStrategy) String() string {
	switch s {
	case FilterAdaptive:
		return "Adaptive"
	case FilterFixedNone:
		return "None"
	case FilterFixedSub:
		return "Sub"
	case FilterFixedUp:
		return "Up"
	case FilterFixedAverage:
		return "Average"
	case FilterFixedPaeth:
		return "Paeth"
	default:
		return fmt.Sprintf("FilterStrategy(%d)", int(s))
	}
}

// Valid reports whether s is a known strategy.
func (s FilterStrategy) Valid() bool {
	return s >= FilterAdaptive && s <= FilterFixedPaeth
}

func sumAbs(b []byte) int {
	sum := 0
	for _, v := range b {
		sum += abs(int(int8(v)))
	}
	return sum
}

// filterRow is the encode-side state for one pass: a scratch buffer per
// candidate filter.
type filterRow struct {
	strategy FilterStrategy
	bpp      int
	scratch  [nFilter][]byte
}

func newFilterRow(strategy FilterStrategy, rowBytes, bpp int) *filterRow {
	fr := &filterRow{strategy: strategy, bpp: bpp}
	for i := range fr.scratch {
		fr.scratch[i] = make([]byte, rowBytes)
	}
	return fr
}

// apply filters cur against prev and returns the chosen type and the
// filtered bytes. The returned slice is reused by the next call.
func (fr *filterRow) apply(cur, prev []byte) (FilterType, []byte) {
	if fr.strategy != FilterAdaptive {
		ft := FilterType(fr.strategy - FilterFixedNone)
		Filter(ft, fr.scratch[ft], cur, prev, fr.bpp)
		return ft, fr.scratch[ft]
	}
	best, bestSum := FilterNone, -1
	for ft := FilterNone; ft < nFilter; ft++ {
		Filter(ft, fr.scratch[ft], cur, prev, fr.bpp)
		if s := sumAbs(fr.scratch[ft]); bestSum < 0 || s < bestSum {
			best, bestSum = ft, s
		}
	}
	return best, fr.scratch[best]
}
