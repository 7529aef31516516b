// Package wire collects the tag and chunk-marker constants shared by the
// header, channel, and driver layers, so the bitstream's tag space is
// defined in exactly one place (§4.9's "dispatch on tag" state machine reads
// these same constants).
package wire

import "github.com/gopro/gpr-vc5/vc5/bitstream"

// Every plain scalar tag below is kept under 256 so its segment's top byte
// is always zero, preserving the plain-segment/chunk-marker disambiguation
// bitstream.Segment and bitstream.Chunk rely on (see bitstream/segment.go).
const (
	TagStartMarker          bitstream.Tag = 0x01
	TagEndMarker            bitstream.Tag = 0x02
	TagImageWidth           bitstream.Tag = 0x10
	TagImageHeight          bitstream.Tag = 0x11
	TagChannelCount         bitstream.Tag = 0x12
	TagSubbandCount         bitstream.Tag = 0x13
	TagImageFormat          bitstream.Tag = 0x14 // optional
	TagPatternWidth         bitstream.Tag = 0x15
	TagPatternHeight        bitstream.Tag = 0x16
	TagComponentsPerSample  bitstream.Tag = 0x17
	TagMaxBitsPerComponent  bitstream.Tag = 0x18
	TagChannelHeaderIndex   bitstream.Tag = 0x20 // value = channel index
	TagChannelTrailerIndex  bitstream.Tag = 0x21 // value = channel index
	TagPrescale             bitstream.Tag = 0x22
	TagQuant                bitstream.Tag = 0x23
	TagSubbandNumber        bitstream.Tag = 0x24
)

// StartMarkerValue and EndMarkerValue are the sentinel values carried by the
// start/end marker segments, arbitrary but fixed so a decoder can validate
// them rather than trusting the tag alone.
const (
	StartMarkerValue uint16 = 0x5A5A
	EndMarkerValue   uint16 = 0xA5A5
)

// Chunk markers. Values are in [1,0x7F] (top bit clear) per the
// bitstream package's chunk-framing convention.
const (
	MarkerChannelSize  bitstream.ChunkMarker = 0x01 // channel index entry
	MarkerSubbandChunk bitstream.ChunkMarker = 0x02
)
