package vc5

import (
	"github.com/gopro/gpr-vc5/vc5/bitstream"
	"github.com/gopro/gpr-vc5/vc5/wire"
	"github.com/gopro/gpr-vc5/vc5err"
)

// Header is the fixed set of image-level parameters carried right after the
// start marker (§4.9's Header state): everything a decoder needs before it
// can allocate channel planes and wavelet workspace.
type Header struct {
	ImageWidth, ImageHeight           int
	ChannelCount                      int // always 4 (one per Bayer sample)
	SubbandCount                      int // always 10 (1 LL + 3 levels * 3 highpass)
	PatternWidth, PatternHeight       int // always 2
	ComponentsPerSample               int // always 1
	MaxBitsPerComponent               int // 12, 14, or 16
	ImageFormat                       uint16
	HasImageFormat                    bool
}

const requiredHeaderMask = 1<<0 | 1<<1 | 1<<2 | 1<<3 | 1<<4 | 1<<5 | 1<<6 | 1<<7

// WriteHeader writes the start marker followed by every header parameter as
// a plain required segment (image format, when set, as optional).
func WriteHeader(w *bitstream.Writer, h Header) {
	w.PutSegment(bitstream.Segment{Tag: wire.TagStartMarker, Value: wire.StartMarkerValue})
	w.PutSegment(bitstream.Segment{Tag: wire.TagImageWidth, Value: uint16(h.ImageWidth)})
	w.PutSegment(bitstream.Segment{Tag: wire.TagImageHeight, Value: uint16(h.ImageHeight)})
	w.PutSegment(bitstream.Segment{Tag: wire.TagChannelCount, Value: uint16(h.ChannelCount)})
	w.PutSegment(bitstream.Segment{Tag: wire.TagSubbandCount, Value: uint16(h.SubbandCount)})
	w.PutSegment(bitstream.Segment{Tag: wire.TagPatternWidth, Value: uint16(h.PatternWidth)})
	w.PutSegment(bitstream.Segment{Tag: wire.TagPatternHeight, Value: uint16(h.PatternHeight)})
	w.PutSegment(bitstream.Segment{Tag: wire.TagComponentsPerSample, Value: uint16(h.ComponentsPerSample)})
	w.PutSegment(bitstream.Segment{Tag: wire.TagMaxBitsPerComponent, Value: uint16(h.MaxBitsPerComponent)})
	if h.HasImageFormat {
		w.PutSegment(bitstream.Segment{Tag: ^wire.TagImageFormat, Value: h.ImageFormat})
	}
}

// ReadHeader consumes the start marker and every header segment, stopping
// as soon as it peeks a chunk marker (the channel index begins there) or
// reaches the end of the stream. It
// rejects a missing start marker, a header segment repeated twice, and an
// unrecognized required tag, and fails if any required parameter never
// appeared.
func ReadHeader(r *bitstream.Reader) (Header, error) {
	startSeg, err := r.GetSegment()
	if err != nil {
		return Header{}, vc5err.Wrap("vc5.ReadHeader", vc5err.MissingStartMarker, err)
	}
	if startSeg.Tag != wire.TagStartMarker || startSeg.Value != wire.StartMarkerValue {
		return Header{}, vc5err.New("vc5.ReadHeader", vc5err.MissingStartMarker)
	}

	var h Header
	var seen uint32
	for r.Remaining() > 0 {
		marker, err := r.PeekMarker()
		if err != nil {
			return Header{}, vc5err.Wrap("vc5.ReadHeader", vc5err.BitstreamSyntax, err)
		}
		if marker != 0 {
			break
		}
		seg, err := r.GetSegment()
		if err != nil {
			return Header{}, vc5err.Wrap("vc5.ReadHeader", vc5err.BitstreamSyntax, err)
		}
		bit, required := uint32(0), seg.RequiredTag()
		switch required {
		case wire.TagImageWidth:
			bit = 1 << 0
			h.ImageWidth = int(seg.Value)
		case wire.TagImageHeight:
			bit = 1 << 1
			h.ImageHeight = int(seg.Value)
		case wire.TagChannelCount:
			bit = 1 << 2
			h.ChannelCount = int(seg.Value)
		case wire.TagSubbandCount:
			bit = 1 << 3
			h.SubbandCount = int(seg.Value)
		case wire.TagPatternWidth:
			bit = 1 << 4
			h.PatternWidth = int(seg.Value)
		case wire.TagPatternHeight:
			bit = 1 << 5
			h.PatternHeight = int(seg.Value)
		case wire.TagComponentsPerSample:
			bit = 1 << 6
			h.ComponentsPerSample = int(seg.Value)
		case wire.TagMaxBitsPerComponent:
			bit = 1 << 7
			h.MaxBitsPerComponent = int(seg.Value)
		case wire.TagImageFormat:
			bit = 1 << 8 // optional: tracked for duplicates, not in requiredHeaderMask
			h.ImageFormat = seg.Value
			h.HasImageFormat = true
		default:
			return Header{}, vc5err.New("vc5.ReadHeader", vc5err.InvalidTag)
		}
		if seen&bit != 0 {
			return Header{}, vc5err.New("vc5.ReadHeader", vc5err.DuplicateHeaderParameter)
		}
		seen |= bit
	}

	if seen&requiredHeaderMask != requiredHeaderMask {
		return Header{}, vc5err.New("vc5.ReadHeader", vc5err.RequiredParameter)
	}
	return h, nil
}
