package bitstream

import (
	"github.com/gopro/gpr-vc5/vc5err"
)

// Writer is a big-endian, bit-packed writer that accumulates into a growable
// byte buffer. Mirrors Reader's bit-at-a-time semantics so the two are
// trivially testable against each other.
type Writer struct {
	buf  []byte
	acc  uint64
	nbit uint // number of valid pending bits in acc, always < 8 between calls
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteBits writes the low n (0..32) bits of value, most-significant bit
// first.
func (w *Writer) WriteBits(value uint32, n int) {
	if n <= 0 {
		return
	}
	if n > 32 {
		n = 32
	}
	mask := uint64(1)<<uint(n) - 1
	w.acc = w.acc<<uint(n) | (uint64(value) & mask)
	w.nbit += uint(n)
	for w.nbit >= 8 {
		w.nbit -= 8
		w.buf = append(w.buf, byte(w.acc>>w.nbit))
	}
}

// BitLen returns the total number of bits written so far.
func (w *Writer) BitLen() int { return len(w.buf)*8 + int(w.nbit) }

// AlignToSegment pads with zero bits up to the next 32-bit boundary.
func (w *Writer) AlignToSegment() {
	rem := w.BitLen() % 32
	if rem != 0 {
		w.WriteBits(0, 32-rem)
	}
}

// Aligned reports whether the writer is currently on a 32-bit boundary.
func (w *Writer) Aligned() bool { return w.BitLen()%32 == 0 }

// Tell returns the current byte length. Only meaningful when Aligned.
func (w *Writer) Tell() int { return len(w.buf) }

// PutSegment writes one 32-bit tag-value segment.
func (w *Writer) PutSegment(s Segment) {
	w.WriteBits(s.Word(), 32)
}

// PutChunk writes one 32-bit chunk header.
func (w *Writer) PutChunk(c Chunk) {
	w.WriteBits(c.Word(), 32)
}

// Bytes returns the bytes written so far. Panics if called while bits are
// pending (not byte-aligned) — callers must AlignToSegment (or at least pad
// to a byte) first. Every call site in this codebase only ever calls Bytes
// once the stream is back on a segment boundary (the end marker, or a
// subband's trailer padding), so a violation here is a programmer error in
// this package, not a symptom of malformed input (§7).
func (w *Writer) Bytes() []byte {
	vc5err.Assertf(w.nbit == 0, "bitstream.Writer.Bytes called with %d pending bits", w.nbit)
	return w.buf
}

// PatchUint32At overwrites the 4 bytes at byte offset pos with the big-endian
// encoding of word. Used to back-patch the channel size index once channel
// byte lengths are known (§4.6).
func (w *Writer) PatchUint32At(pos int, word uint32) error {
	if pos < 0 || pos+4 > len(w.buf) {
		return vc5err.New("bitstream.Writer.PatchUint32At", vc5err.ChannelSizeTable)
	}
	w.buf[pos] = byte(word >> 24)
	w.buf[pos+1] = byte(word >> 16)
	w.buf[pos+2] = byte(word >> 8)
	w.buf[pos+3] = byte(word)
	return nil
}

// ReserveSegments appends n zeroed 32-bit segments and returns the byte
// offset of the first one, for later patching.
func (w *Writer) ReserveSegments(n int) int {
	start := w.Tell()
	for i := 0; i < n; i++ {
		w.PutSegment(Segment{})
	}
	return start
}

// WriteRaw appends b directly to the buffer. The writer must currently be
// byte-aligned (no pending bits); used to splice in a block built by a
// separate Writer, e.g. one channel pipeline encoded on its own goroutine
// and joined back in channel order (§5's optional per-channel parallelism).
func (w *Writer) WriteRaw(b []byte) error {
	if w.nbit != 0 {
		return vc5err.New("bitstream.Writer.WriteRaw", vc5err.Misaligned)
	}
	w.buf = append(w.buf, b...)
	return nil
}
