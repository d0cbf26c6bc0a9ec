package png

import "bytes"

// Signature is the 8-byte prefix of every PNG stream.
var Signature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// stripSignature checks the PNG signature and returns the chunk stream that
// follows it.
func stripSignature(data []byte) ([]byte, error) {
	if len(data) < len(Signature) {
		return nil, &FormatError{Offset: 0, Msg: "truncated signature"}
	}
	if !bytes.Equal(data[:len(Signature)], Signature) {
		return nil, &FormatError{Offset: 0, Msg: "not a PNG file"}
	}
	return data[len(Signature):], nil
}
