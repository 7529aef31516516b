package bitstream

import "github.com/gopro/gpr-vc5/vc5err"

// Reader is a big-endian, bit-packed reader over a fully materialized byte
// buffer. All VC-5 components read through a Reader; none touch data
// directly, so the wire format stays centralized in this package.
type Reader struct {
	data []byte
	pos  int // absolute bit position, 0..len(data)*8
}

// NewReader wraps data for bit-level reading starting at bit 0.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadBits reads the next n (0..32) bits, most-significant bit first.
func (r *Reader) ReadBits(n int) (uint32, error) {
	if n == 0 {
		return 0, nil
	}
	if n < 0 || n > 32 {
		return 0, vc5err.New("bitstream.Reader.ReadBits", vc5err.Unexpected)
	}
	if r.pos+n > len(r.data)*8 {
		return 0, vc5err.New("bitstream.Reader.ReadBits", vc5err.EndOfStream)
	}
	var v uint32
	for i := 0; i < n; i++ {
		byteIdx := r.pos / 8
		bitIdx := 7 - uint(r.pos%8)
		bit := (r.data[byteIdx] >> bitIdx) & 1
		v = v<<1 | uint32(bit)
		r.pos++
	}
	return v, nil
}

// PeekBits returns the next n bits without advancing the position. Used by
// PeekMarker.
func (r *Reader) PeekBits(n int) (uint32, error) {
	save := r.pos
	v, err := r.ReadBits(n)
	r.pos = save
	return v, err
}

// AlignToSegment advances the bit position up to the next 32-bit boundary,
// discarding any padding bits.
func (r *Reader) AlignToSegment() {
	rem := r.pos % 32
	if rem != 0 {
		r.pos += 32 - rem
	}
}

// Aligned reports whether the current position is on a 32-bit boundary.
func (r *Reader) Aligned() bool { return r.pos%32 == 0 }

// Tell returns the current byte position. Only meaningful when Aligned (or at
// least byte-aligned); callers that need exact semantics call it right after
// AlignToSegment or GetSegment/GetChunk.
func (r *Reader) Tell() int { return r.pos / 8 }

// Seek moves the read position to the given byte offset.
func (r *Reader) Seek(bytePos int) error {
	if bytePos < 0 || bytePos > len(r.data) {
		return vc5err.New("bitstream.Reader.Seek", vc5err.EndOfStream)
	}
	r.pos = bytePos * 8
	return nil
}

// Remaining returns the number of unread bytes, rounding down any partial
// trailing bits.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos/8
}

// GetSegment reads one 32-bit tag-value segment. The stream must be
// segment-aligned; callers that need to enforce this call Aligned first.
func (r *Reader) GetSegment() (Segment, error) {
	w, err := r.ReadBits(32)
	if err != nil {
		return Segment{}, vc5err.Wrap("bitstream.Reader.GetSegment", vc5err.EndOfStream, err)
	}
	return SegmentFromWord(w), nil
}

// PeekMarker returns the chunk marker byte of the next segment without
// consuming it, letting a caller decide whether to call GetSegment or
// GetChunk.
func (r *Reader) PeekMarker() (ChunkMarker, error) {
	w, err := r.PeekBits(32)
	if err != nil {
		return 0, err
	}
	return MarkerOf(w), nil
}

// GetChunk reads one 32-bit chunk header (marker byte + 24-bit length).
func (r *Reader) GetChunk() (Chunk, error) {
	w, err := r.ReadBits(32)
	if err != nil {
		return Chunk{}, vc5err.Wrap("bitstream.Reader.GetChunk", vc5err.EndOfStream, err)
	}
	return ChunkFromWord(w), nil
}

// SkipChunkPayload advances past length segments (4 bytes each), used to skip
// an unrecognized optional chunk.
func (r *Reader) SkipChunkPayload(lengthInSegments uint32) error {
	bytesToSkip := int(lengthInSegments) * 4
	if r.pos+bytesToSkip*8 > len(r.data)*8 {
		return vc5err.New("bitstream.Reader.SkipChunkPayload", vc5err.BitstreamSyntax)
	}
	r.pos += bytesToSkip * 8
	return nil
}
