package png

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Compressor is the zlib/DEFLATE collaborator used for IDAT payloads. The
// codec never interprets compressed bytes itself.
type Compressor interface {
	// Compress returns the zlib stream for src at the given level
	// (-1 for the default, 0..9 otherwise).
	Compress(src []byte, level int) ([]byte, error)
	// Decompress inflates src, returning at most limit bytes. A result of
	// exactly limit bytes means the stream may hold more.
	Decompress(src []byte, limit int) ([]byte, error)
}

// ZlibCompressor implements Compressor with github.com/klauspost/compress/zlib.
type ZlibCompressor struct{}

// Compress deflates src into a zlib stream.
func (ZlibCompressor) Compress(src []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress inflates src, reading no more than limit bytes. The output
// grows with the inflated data, so a header that declares a huge image does
// not reserve memory up front. A truncated stream is an error, not a short
// result.
func (ZlibCompressor) Decompress(src []byte, limit int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(r, int64(limit))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
