package png

import "fmt"

// FormatError reports a malformed PNG stream. Chunk and Offset locate the
// failure when known; Offset is -1 otherwise.
type FormatError struct {
	Chunk  string
	Offset int
	Msg    string
}

func (e *FormatError) Error() string {
	switch {
	case e.Chunk != "" && e.Offset >= 0:
		return fmt.Sprintf("png: invalid format: %s chunk at offset %d: %s", e.Chunk, e.Offset, e.Msg)
	case e.Chunk != "":
		return fmt.Sprintf("png: invalid format: %s chunk: %s", e.Chunk, e.Msg)
	case e.Offset >= 0:
		return fmt.Sprintf("png: invalid format at offset %d: %s", e.Offset, e.Msg)
	default:
		return "png: invalid format: " + e.Msg
	}
}

func formatErrorf(format string, args ...interface{}) *FormatError {
	return &FormatError{Offset: -1, Msg: fmt.Sprintf(format, args...)}
}

func chunkErrorf(c *Chunk, format string, args ...interface{}) *FormatError {
	return &FormatError{Chunk: c.Type.String(), Offset: c.Offset, Msg: fmt.Sprintf(format, args...)}
}

// CompressionError wraps a failure of the compression collaborator.
type CompressionError struct {
	Err error
}

func (e *CompressionError) Error() string {
	return "png: compression: " + e.Err.Error()
}

func (e *CompressionError) Unwrap() error { return e.Err }

// EncodingError reports encode options or input that cannot be written.
type EncodingError struct {
	Msg string
}

func (e *EncodingError) Error() string {
	return "png: cannot encode: " + e.Msg
}

func encodingErrorf(format string, args ...interface{}) *EncodingError {
	return &EncodingError{Msg: fmt.Sprintf(format, args...)}
}
