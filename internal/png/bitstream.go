package png

import (
	"errors"
	"fmt"
)

// RowBytes returns ceil(depth*channels*width/8), the packed byte width of a
// scanline without its filter byte.
func RowBytes(depth, channels, width int) int {
	return (depth*channels*width + 7) / 8
}

// BitReader reads MSB-first bit fields from a byte slice.
type BitReader struct {
	buf    []byte
	byteIx int
	bitIx  uint
}

// NewBitReader constructs a reader positioned at the first bit of data.
func NewBitReader(data []byte) *BitReader {
	return &BitReader{buf: data}
}

// InBounds reports whether at least one unread bit remains.
func (br *BitReader) InBounds() bool { return br.byteIx < len(br.buf) }

// BitPos returns the number of bits consumed so far.
func (br *BitReader) BitPos() int { return br.byteIx*8 + int(br.bitIx) }

// ReadNBits reads count bits (at most 16) and returns them right-aligned.
func (br *BitReader) ReadNBits(count uint) (uint16, error) {
	if count > 16 {
		return 0, fmt.Errorf("bitreader: cannot read %d bits at once", count)
	}
	if br.BitPos()+int(count) > len(br.buf)*8 {
		return 0, errors.New("bitreader: out of bounds")
	}
	// Byte-aligned fast paths cover depths 8 and 16.
	if br.bitIx == 0 && count%8 == 0 {
		var v uint16
		for ; count > 0; count -= 8 {
			v = v<<8 | uint16(br.buf[br.byteIx])
			br.byteIx++
		}
		return v, nil
	}
	var v uint16
	for ; count > 0; count-- {
		v = v<<1 | uint16(br.buf[br.byteIx]>>(7-br.bitIx)&0x01)
		br.advanceBit()
	}
	return v, nil
}

func (br *BitReader) advanceBit() {
	if br.bitIx == 7 {
		br.byteIx++
		br.bitIx = 0
	} else {
		br.bitIx++
	}
}

// BitWriter appends MSB-first bit fields to a byte slice. The final partial
// byte is flushed with zero low bits.
type BitWriter struct {
	buf  []byte
	cur  byte
	nbit uint
}

// NewBitWriter returns a writer whose output buffer has capacity for size bytes.
func NewBitWriter(size int) *BitWriter {
	return &BitWriter{buf: make([]byte, 0, size)}
}

// WriteNBits writes the low count bits of v, most significant first.
func (bw *BitWriter) WriteNBits(v uint16, count uint) {
	if bw.nbit == 0 && count%8 == 0 {
		for count > 0 {
			count -= 8
			bw.buf = append(bw.buf, byte(v>>count))
		}
		return
	}
	for count > 0 {
		count--
		bw.cur = bw.cur<<1 | byte(v>>count&0x01)
		bw.nbit++
		if bw.nbit == 8 {
			bw.buf = append(bw.buf, bw.cur)
			bw.cur, bw.nbit = 0, 0
		}
	}
}

// Bytes flushes any partial byte and returns the written data.
func (bw *BitWriter) Bytes() []byte {
	if bw.nbit > 0 {
		bw.buf = append(bw.buf, bw.cur<<(8-bw.nbit))
		bw.cur, bw.nbit = 0, 0
	}
	return bw.buf
}

func validSampleDepth(depth int) bool {
	return depth == 1 || depth == 2 || depth == 4 || depth == 8 || depth == 16
}

// Unpack extracts width*channels samples from one unfiltered scanline.
// Padding bits after the last sample are ignored.
func Unpack(row []byte, depth, channels, width int) ([]uint16, error) {
	out := make([]uint16, width*channels)
	return out, unpackInto(out, row, depth, channels, width)
}

func unpackInto(dst []uint16, row []byte, depth, channels, width int) error {
	if !validSampleDepth(depth) {
		return fmt.Errorf("png: unsupported sample depth %d", depth)
	}
	if need := RowBytes(depth, channels, width); len(row) < need {
		return fmt.Errorf("png: scanline has %d bytes, need %d", len(row), need)
	}
	switch depth {
	case 8:
		for i := range dst {
			dst[i] = uint16(row[i])
		}
	case 16:
		for i := range dst {
			dst[i] = uint16(row[2*i])<<8 | uint16(row[2*i+1])
		}
	default:
		br := NewBitReader(row)
		for i := range dst {
			v, err := br.ReadNBits(uint(depth))
			if err != nil {
				return err
			}
			dst[i] = v
		}
	}
	return nil
}

// Pack is the inverse of Unpack: it writes samples into a scanline of
// RowBytes(depth, channels, width) bytes with zeroed padding bits.
func Pack(samples []uint16, depth, channels, width int) ([]byte, error) {
	if !validSampleDepth(depth) {
		return nil, fmt.Errorf("png: unsupported sample depth %d", depth)
	}
	if len(samples) != width*channels {
		return nil, fmt.Errorf("png: %d samples for %d pixels of %d channels", len(samples), width, channels)
	}
	limit := maxSample(uint8(depth))
	bw := NewBitWriter(RowBytes(depth, channels, width))
	for _, v := range samples {
		if v > limit {
			return nil, fmt.Errorf("png: sample %d exceeds bit depth %d", v, depth)
		}
		bw.WriteNBits(v, uint(depth))
	}
	return bw.Bytes(), nil
}
