package png

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildStream assembles a PNG around an already-filtered scanline stream.
func buildStream(t *testing.T, h ImageHeader, plte, trns, filtered []byte) []byte {
	t.Helper()
	idat, err := ZlibCompressor{}.Compress(filtered, 6)
	require.NoError(t, err)
	return EmitChunks(h, plte, trns, idat, nil)
}

// rawChunk frames a single chunk without any validation.
func rawChunk(typ string, data []byte) []byte {
	var ct ChunkType
	copy(ct[:], typ)
	w := &chunkWriter{}
	w.writeChunk(ct, data)
	return w.buf.Bytes()
}

func gray8Header(w, h uint32) ImageHeader {
	return ImageHeader{Width: w, Height: h, BitDepth: 8, ColorType: ColorGray}
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
