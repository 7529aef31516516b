// Package bitstream implements the fixed-size segment reader/writer used by
// every VC-5 component: big-endian 32-bit tag-value pairs, chunk framing for
// skippable optional payloads, and bit-level access for entropy coding.
//
// Grounded on the teacher's bit-level I/O style in
// jpeg2000/t2/packet_header_bitio.go (bioReader/bioWriter) and the tag-value
// segment framing described by the GPR reference SDK's BITSTREAM/TAGVALUE
// types (original_source/source/lib/vc5_decoder/syntax.h).
package bitstream

// Tag is the 16-bit signed tag half of a segment. A non-negative Tag is
// required; a negative Tag is the bitwise complement of the required tag it
// stands in for (optional).
type Tag int16

// Segment is one 32-bit tag-value pair.
type Segment struct {
	Tag   Tag
	Value uint16
}

// IsOptional reports whether s encodes an optional tag-value pair.
func (s Segment) IsOptional() bool { return s.Tag < 0 }

// RequiredTag returns the required-tag counterpart of s.Tag, undoing the
// bitwise complement used to mark a tag optional.
func (s Segment) RequiredTag() Tag {
	if s.Tag < 0 {
		return ^s.Tag
	}
	return s.Tag
}

// Word packs the segment into its 32-bit big-endian wire representation.
func (s Segment) Word() uint32 {
	return uint32(uint16(s.Tag))<<16 | uint32(s.Value)
}

// SegmentFromWord unpacks a 32-bit word into a Segment.
func SegmentFromWord(w uint32) Segment {
	return Segment{Tag: Tag(int16(uint16(w >> 16))), Value: uint16(w)}
}

// ChunkMarker identifies a chunk-framed segment. Only values in [1,0x7F] are
// valid: the top bit must be clear ("top bit clear in the tag field") and
// zero is reserved to mean "not a chunk" (every required scalar tag in this
// codec is < 256, so its segment's word has a zero top byte; an optional,
// complemented tag sets the top bit, which MarkerOf also reports as zero).
type ChunkMarker uint8

// Chunk is a segment whose value field is reinterpreted as a 24-bit payload
// length, in 4-byte segments, letting a parser skip unknown optional content.
type Chunk struct {
	Marker ChunkMarker
	Length uint32 // payload length in segments (4-byte units), 24-bit
}

// Word packs the chunk into its 32-bit big-endian wire representation.
func (c Chunk) Word() uint32 {
	return uint32(c.Marker)<<24 | (c.Length & 0x00FFFFFF)
}

// ChunkFromWord unpacks a 32-bit word into a Chunk. Callers must already know
// (from MarkerOf or codec state) that w encodes a chunk, not a plain segment.
func ChunkFromWord(w uint32) Chunk {
	return Chunk{Marker: ChunkMarker(w >> 24), Length: w & 0x00FFFFFF}
}

// MarkerOf returns the chunk marker byte that would be produced by
// ChunkFromWord(w), without committing to either interpretation. A return
// value of 0 means w is not chunk-framed: its top byte is zero (a required
// tag) or has the top bit set (an optional, complemented tag).
func MarkerOf(w uint32) ChunkMarker {
	if w&0x80000000 != 0 {
		return 0
	}
	return ChunkMarker(w >> 24)
}
