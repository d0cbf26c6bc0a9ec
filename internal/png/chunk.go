package png

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// MaxIDATSize bounds the payload of each IDAT chunk written by EmitChunks.
const MaxIDATSize = 32768

// maxChunkLength is the PNG upper bound for a chunk payload.
const maxChunkLength = 1<<31 - 1

// chunkOverhead is the length, type and CRC framing around a payload.
const chunkOverhead = 12

// ChunkType is the 4-byte chunk type code.
type ChunkType [4]byte

// Chunk type codes handled by the codec.
var (
	TypeIHDR = ChunkType{'I', 'H', 'D', 'R'}
	TypePLTE = ChunkType{'P', 'L', 'T', 'E'}
	TypeIDAT = ChunkType{'I', 'D', 'A', 'T'}
	TypeIEND = ChunkType{'I', 'E', 'N', 'D'}
	TypeTRNS = ChunkType{'t', 'R', 'N', 'S'}
)

const chunkPropertyBit = 0x20

func (t ChunkType) String() string { return string(t[:]) }

// Critical reports whether a decoder must understand the chunk.
func (t ChunkType) Critical() bool { return t[0]&chunkPropertyBit == 0 }

// Public reports whether the type is registered in the PNG standard.
func (t ChunkType) Public() bool { return t[1]&chunkPropertyBit == 0 }

// SafeToCopy reports whether editors may copy the chunk after modifying critical data.
func (t ChunkType) SafeToCopy() bool { return t[3]&chunkPropertyBit != 0 }

// Valid reports whether every byte is an ASCII letter and the reserved bit is clear.
func (t ChunkType) Valid() bool {
	return t.letters() && !t.Reserved()
}

// Reserved reports whether the reserved bit (case of the third letter) is set.
// Such chunks are readable as unknown chunks but must not be written.
func (t ChunkType) Reserved() bool { return t[2]&chunkPropertyBit != 0 }

func (t ChunkType) letters() bool {
	for _, b := range t {
		if !(b >= 'A' && b <= 'Z') && !(b >= 'a' && b <= 'z') {
			return false
		}
	}
	return true
}

// ParseChunkType converts a 4-letter string into a ChunkType.
func ParseChunkType(s string) (ChunkType, error) {
	var t ChunkType
	if len(s) != len(t) {
		return t, fmt.Errorf("png: chunk type %q must be 4 bytes", s)
	}
	copy(t[:], s)
	if !t.Valid() {
		return t, fmt.Errorf("png: invalid chunk type %q", s)
	}
	return t, nil
}

// Placement records where an ancillary chunk sits relative to the critical chunks.
type Placement uint8

const (
	// BeforePalette chunks sit between IHDR and PLTE.
	BeforePalette Placement = iota
	// BeforeImageData chunks sit between PLTE and the first IDAT.
	BeforeImageData
	// AfterImageData chunks sit between the last IDAT and IEND.
	AfterImageData
)

func (p Placement) String() string {
	switch p {
	case BeforePalette:
		return "BeforePalette"
	case BeforeImageData:
		return "BeforeImageData"
	case AfterImageData:
		return "AfterImageData"
	default:
		return fmt.Sprintf("Placement(%d)", int(p))
	}
}

// Chunk is one framed record of the PNG stream. Data aliases the parsed input.
type Chunk struct {
	Type ChunkType
	Data []byte
	CRC  uint32
	// Offset is the position of the length field from the start of the stream.
	Offset    int
	Placement Placement
}

func chunkCRC(t ChunkType, data []byte) uint32 {
	crc := crc32.NewIEEE()
	crc.Write(t[:])
	crc.Write(data)
	return crc.Sum32()
}

// Chunk ordering stages.
const (
	stageStart = iota
	stageSeenIHDR
	stageSeenPLTE
	stageInIDAT
	stageAfterIDAT
	stageSeenIEND
)

// ParseChunks checks the signature and splits the stream into chunks,
// enforcing framing, CRC and the ordering rules that do not depend on the
// color type. Placement is filled in for every chunk.
func ParseChunks(data []byte) ([]Chunk, error) {
	rest, err := stripSignature(data)
	if err != nil {
		return nil, err
	}
	offset := len(Signature)
	stage := stageStart
	seenTRNS := false
	var chunks []Chunk

	for len(rest) > 0 {
		if stage == stageSeenIEND {
			return nil, &FormatError{Offset: offset, Msg: "data after IEND"}
		}
		if len(rest) < chunkOverhead {
			return nil, &FormatError{Offset: offset, Msg: "truncated chunk header"}
		}
		length := binary.BigEndian.Uint32(rest[0:4])
		c := Chunk{Offset: offset}
		copy(c.Type[:], rest[4:8])
		if !c.Type.letters() {
			return nil, &FormatError{Offset: offset, Msg: fmt.Sprintf("invalid chunk type %q", c.Type[:])}
		}
		if length > maxChunkLength {
			return nil, chunkErrorf(&c, "length %d exceeds 2^31-1", length)
		}
		if uint64(length) > uint64(len(rest)-chunkOverhead) {
			return nil, chunkErrorf(&c, "declared length %d exceeds remaining %d bytes", length, len(rest)-chunkOverhead)
		}
		end := 8 + int(length)
		c.Data = rest[8:end]
		c.CRC = binary.BigEndian.Uint32(rest[end : end+4])
		if got := chunkCRC(c.Type, c.Data); got != c.CRC {
			return nil, chunkErrorf(&c, "CRC mismatch: stored 0x%08x, computed 0x%08x", c.CRC, got)
		}

		if stage == stageStart && c.Type != TypeIHDR {
			return nil, chunkErrorf(&c, "first chunk must be IHDR")
		}
		switch c.Type {
		case TypeIHDR:
			if stage != stageStart {
				return nil, chunkErrorf(&c, "multiple IHDR chunks")
			}
			stage = stageSeenIHDR
		case TypePLTE:
			switch stage {
			case stageSeenPLTE:
				return nil, chunkErrorf(&c, "multiple PLTE chunks")
			case stageInIDAT, stageAfterIDAT:
				return nil, chunkErrorf(&c, "PLTE after IDAT")
			}
			if seenTRNS {
				return nil, chunkErrorf(&c, "PLTE after tRNS")
			}
			stage = stageSeenPLTE
		case TypeIDAT:
			if stage == stageAfterIDAT {
				return nil, chunkErrorf(&c, "IDAT chunks are not contiguous")
			}
			stage = stageInIDAT
		case TypeIEND:
			if stage != stageInIDAT && stage != stageAfterIDAT {
				return nil, chunkErrorf(&c, "missing IDAT")
			}
			if len(c.Data) != 0 {
				return nil, chunkErrorf(&c, "non-empty IEND")
			}
			stage = stageSeenIEND
		case TypeTRNS:
			if stage == stageInIDAT || stage == stageAfterIDAT {
				return nil, chunkErrorf(&c, "tRNS after IDAT")
			}
			if seenTRNS {
				return nil, chunkErrorf(&c, "multiple tRNS chunks")
			}
			seenTRNS = true
		default:
			if c.Type.Critical() {
				return nil, chunkErrorf(&c, "unsupported critical chunk")
			}
			if stage == stageInIDAT {
				stage = stageAfterIDAT
			}
		}
		c.Placement = placementFor(stage, seenTRNS)
		chunks = append(chunks, c)

		rest = rest[end+4:]
		offset += end + 4
	}

	if stage != stageSeenIEND {
		return nil, &FormatError{Offset: offset, Msg: "missing IEND"}
	}
	return chunks, nil
}

func placementFor(stage int, seenTRNS bool) Placement {
	switch stage {
	case stageStart, stageSeenIHDR:
		if seenTRNS {
			return BeforeImageData
		}
		return BeforePalette
	case stageSeenPLTE:
		return BeforeImageData
	default:
		return AfterImageData
	}
}

type chunkWriter struct {
	buf bytes.Buffer
	tmp [8]byte
}

func (w *chunkWriter) writeChunk(t ChunkType, data []byte) {
	binary.BigEndian.PutUint32(w.tmp[0:4], uint32(len(data)))
	copy(w.tmp[4:8], t[:])
	w.buf.Write(w.tmp[:8])
	w.buf.Write(data)
	binary.BigEndian.PutUint32(w.tmp[0:4], chunkCRC(t, data))
	w.buf.Write(w.tmp[0:4])
}

func (w *chunkWriter) writeAncillary(chunks []Chunk, p Placement) {
	for i := range chunks {
		if chunks[i].Placement == p {
			w.writeChunk(chunks[i].Type, chunks[i].Data)
		}
	}
}

// EmitChunks writes a complete PNG stream. plte and trns are raw payloads
// and are omitted when empty. idat is split into chunks of at most
// MaxIDATSize bytes. Ancillary chunks are written at their Placement.
func EmitChunks(h ImageHeader, plte, trns, idat []byte, ancillary []Chunk) []byte {
	w := &chunkWriter{}
	w.buf.Grow(len(Signature) + len(idat) + (len(idat)/MaxIDATSize+5)*chunkOverhead + ihdrLength + len(plte) + len(trns))
	w.buf.Write(Signature)
	w.writeChunk(TypeIHDR, h.marshal())
	w.writeAncillary(ancillary, BeforePalette)
	if len(plte) > 0 {
		w.writeChunk(TypePLTE, plte)
	}
	if len(trns) > 0 {
		w.writeChunk(TypeTRNS, trns)
	}
	w.writeAncillary(ancillary, BeforeImageData)
	for {
		n := len(idat)
		if n > MaxIDATSize {
			n = MaxIDATSize
		}
		w.writeChunk(TypeIDAT, idat[:n])
		idat = idat[n:]
		if len(idat) == 0 {
			break
		}
	}
	w.writeAncillary(ancillary, AfterImageData)
	w.writeChunk(TypeIEND, nil)
	return w.buf.Bytes()
}
