package png

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitReaderReadNBits(t *testing.T) {
	data := []byte{0xb1} // 10110001
	br := NewBitReader(data)

	val1, err := br.ReadNBits(1)
	if err != nil {
		t.Fatalf("ReadNBits(1) failed: %v", err)
	}
	if val1 != 1 {
		t.Errorf("Expected 1, got %d", val1)
	}

	val2, err := br.ReadNBits(1)
	if err != nil {
		t.Fatalf("ReadNBits(1) failed: %v", err)
	}
	if val2 != 0 {
		t.Errorf("Expected 0, got %d", val2)
	}

	val3, err := br.ReadNBits(2)
	if err != nil {
		t.Fatalf("ReadNBits(2) failed: %v", err)
	}
	if val3 != 3 {
		t.Errorf("Expected 3, got %d", val3)
	}

	val4, err := br.ReadNBits(4)
	if err != nil {
		t.Fatalf("ReadNBits(4) failed: %v", err)
	}
	if val4 != 1 {
		t.Errorf("Expected 1, got %d", val4)
	}

	if br.InBounds() {
		t.Error("Expected reader to be exhausted")
	}
	if _, err := br.ReadNBits(1); err == nil {
		t.Error("Expected error reading past the end")
	}
}

func TestBitReaderReadSixteen(t *testing.T) {
	br := NewBitReader([]byte{0x12, 0x34, 0xab})
	v, err := br.ReadNBits(16)
	if err != nil {
		t.Fatalf("ReadNBits(16) failed: %v", err)
	}
	if v != 0x1234 {
		t.Errorf("Expected 0x1234, got 0x%04x", v)
	}
	if br.BitPos() != 16 {
		t.Errorf("Expected bit position 16, got %d", br.BitPos())
	}
	if _, err := br.ReadNBits(16); err == nil {
		t.Error("Expected error for a read crossing the end")
	}
}

func TestBitWriterPadsLowBits(t *testing.T) {
	bw := NewBitWriter(1)
	bw.WriteNBits(1, 1)
	bw.WriteNBits(0, 1)
	bw.WriteNBits(3, 2)
	assert.Equal(t, []byte{0xb0}, bw.Bytes())
}

func TestRowBytes(t *testing.T) {
	tests := []struct {
		depth, channels, width int
		expected               int
	}{
		{1, 1, 1, 1},
		{1, 1, 8, 1},
		{1, 1, 9, 2},
		{2, 1, 5, 2},
		{4, 1, 3, 2},
		{8, 3, 2, 6},
		{16, 4, 3, 24},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, RowBytes(test.depth, test.channels, test.width),
			"depth=%d channels=%d width=%d", test.depth, test.channels, test.width)
	}
}

func TestUnpackKnownRows(t *testing.T) {
	t.Run("1-bit ignores padding", func(t *testing.T) {
		samples, err := Unpack([]byte{0xa7}, 1, 1, 3) // 101 + padding 00111
		require.NoError(t, err)
		assert.Equal(t, []uint16{1, 0, 1}, samples)
	})
	t.Run("2-bit", func(t *testing.T) {
		samples, err := Unpack([]byte{0x1b}, 2, 1, 4) // 00 01 10 11
		require.NoError(t, err)
		assert.Equal(t, []uint16{0, 1, 2, 3}, samples)
	})
	t.Run("4-bit", func(t *testing.T) {
		samples, err := Unpack([]byte{0xf0, 0x50}, 4, 1, 3)
		require.NoError(t, err)
		assert.Equal(t, []uint16{15, 0, 5}, samples)
	})
	t.Run("16-bit big-endian", func(t *testing.T) {
		samples, err := Unpack([]byte{0x01, 0x02, 0xff, 0xfe}, 16, 2, 1)
		require.NoError(t, err)
		assert.Equal(t, []uint16{0x0102, 0xfffe}, samples)
	})
	t.Run("short row", func(t *testing.T) {
		_, err := Unpack([]byte{0x00}, 8, 3, 1)
		assert.Error(t, err)
	})
}

func TestPackZeroesPadding(t *testing.T) {
	row, err := Pack([]uint16{1, 1, 1}, 1, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xe0}, row)

	row, err = Pack([]uint16{3}, 2, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xc0}, row)
}

func TestPackRejectsOutOfRange(t *testing.T) {
	_, err := Pack([]uint16{4}, 2, 1, 1)
	assert.Error(t, err)
	_, err = Pack([]uint16{1, 2}, 8, 1, 1)
	assert.Error(t, err)
	_, err = Pack([]uint16{1}, 3, 1, 1)
	assert.Error(t, err)
}

func TestPackUnpackRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, depth := range []int{1, 2, 4, 8, 16} {
		for _, channels := range []int{1, 2, 3, 4} {
			for _, width := range []int{1, 3, 7, 8, 13} {
				samples := make([]uint16, width*channels)
				for i := range samples {
					samples[i] = uint16(rng.Intn(1 << depth))
				}
				row, err := Pack(samples, depth, channels, width)
				require.NoError(t, err)
				require.Len(t, row, RowBytes(depth, channels, width))

				got, err := Unpack(row, depth, channels, width)
				require.NoError(t, err)
				assert.Equal(t, samples, got, "depth=%d channels=%d width=%d", depth, channels, width)

				again, err := Pack(got, depth, channels, width)
				require.NoError(t, err)
				assert.Equal(t, row, again)
			}
		}
	}
}
