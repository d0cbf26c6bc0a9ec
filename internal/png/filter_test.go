package png

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaeth(t *testing.T) {
	tests := []struct {
		a, b, c  uint8
		expected uint8
	}{
		{0, 0, 0, 0},
		{10, 20, 10, 20}, // p=20: b exact
		{20, 10, 10, 20}, // p=20: a exact
		{10, 10, 20, 10}, // p=0: a and b tie, a wins
		{5, 9, 7, 7},     // p=7: c exact
		{100, 200, 255, 100},
		{255, 0, 128, 128}, // p=127: pa=128 pb=127 pc=1
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, Paeth(test.a, test.b, test.c), "Paeth(%d,%d,%d)", test.a, test.b, test.c)
	}
}

func TestPaethTieBreakOrder(t *testing.T) {
	// p = 1+1-1 = 1, every distance is 0: a wins.
	assert.Equal(t, uint8(1), Paeth(1, 1, 1))
	// p = 4+6-5 = 5: pa=1 pb=1 pc=0, c is strictly closest.
	assert.Equal(t, uint8(5), Paeth(4, 6, 5))
	// p = 3+7-3 = 7: pb=0.
	assert.Equal(t, uint8(7), Paeth(3, 7, 3))
	// p = 2+6-8 = 0: pa=2 pb=6 pc=8, a wins.
	assert.Equal(t, uint8(2), Paeth(2, 6, 8))
}

func TestUnfilterKnownRows(t *testing.T) {
	prev := []byte{10, 20, 30, 40}

	cur := []byte{1, 2, 3, 4}
	require.NoError(t, Unfilter(FilterSub, cur, prev, 1))
	assert.Equal(t, []byte{1, 3, 6, 10}, cur)

	cur = []byte{1, 2, 3, 4}
	require.NoError(t, Unfilter(FilterUp, cur, prev, 1))
	assert.Equal(t, []byte{11, 22, 33, 44}, cur)

	cur = []byte{1, 2, 3, 4}
	require.NoError(t, Unfilter(FilterAverage, cur, prev, 2))
	// i0: 1+10/2=6, i1: 2+20/2=12, i2: 3+(6+30)/2=21, i3: 4+(12+40)/2=30
	assert.Equal(t, []byte{6, 12, 21, 30}, cur)

	cur = []byte{250, 10}
	require.NoError(t, Unfilter(FilterSub, cur, []byte{0, 0}, 1))
	assert.Equal(t, []byte{250, 4}, cur, "arithmetic wraps modulo 256")
}

func TestUnfilterRejectsUnknownType(t *testing.T) {
	err := Unfilter(FilterType(5), []byte{0}, []byte{0}, 1)
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe.Error(), "bad filter type 5")
}

func TestFilterRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, bpp := range []int{1, 2, 3, 4, 6, 8} {
		for _, n := range []int{1, 5, 17, 64} {
			cur := make([]byte, n)
			prev := make([]byte, n)
			rng.Read(cur)
			rng.Read(prev)
			for ft := FilterNone; ft < nFilter; ft++ {
				filtered := make([]byte, n)
				Filter(ft, filtered, cur, prev, bpp)
				require.NoError(t, Unfilter(ft, filtered, prev, bpp))
				assert.Equal(t, cur, filtered, "filter=%s bpp=%d n=%d", ft, bpp, n)
			}
		}
	}
}

func TestAdaptiveSelection(t *testing.T) {
	t.Run("ramp prefers Sub", func(t *testing.T) {
		cur := []byte{10, 20, 30, 40, 50, 60, 70, 80}
		fr := newFilterRow(FilterAdaptive, len(cur), 1)
		ft, out := fr.apply(cur, make([]byte, len(cur)))
		assert.Equal(t, FilterSub, ft)
		assert.Equal(t, []byte{10, 10, 10, 10, 10, 10, 10, 10}, out)
	})
	t.Run("repeated row prefers Up", func(t *testing.T) {
		cur := []byte{200, 3, 99, 41, 7, 180}
		fr := newFilterRow(FilterAdaptive, len(cur), 1)
		ft, _ := fr.apply(cur, append([]byte(nil), cur...))
		assert.Equal(t, FilterUp, ft)
	})
	t.Run("zero row ties to None", func(t *testing.T) {
		cur := make([]byte, 4)
		fr := newFilterRow(FilterAdaptive, len(cur), 1)
		ft, _ := fr.apply(cur, make([]byte, 4))
		assert.Equal(t, FilterNone, ft)
	})
	t.Run("fixed strategy", func(t *testing.T) {
		cur := []byte{1, 2, 3}
		fr := newFilterRow(FilterFixedPaeth, len(cur), 1)
		ft, _ := fr.apply(cur, make([]byte, 3))
		assert.Equal(t, FilterPaeth, ft)
	})
}

func TestFilterTypeString(t *testing.T) {
	assert.Equal(t, "Paeth", FilterPaeth.String())
	assert.Equal(t, "FilterType(9)", FilterType(9).String())
	assert.Equal(t, "Adaptive", FilterAdaptive.String())
	assert.Equal(t, "FilterStrategy(42)", FilterStrategy(42).String())
}
