// Package channel implements the per-channel pipeline (§4.6): running the
// three-level wavelet pyramid and per-subband quantization/entropy coding
// over one de-mosaiced component plane, framed as a channel header, ten
// subband chunks, and a channel trailer.
//
// Grounded on the teacher's tile_decoder.go / tile_decoder_fixed.go in
// jpeg2000/t2: a per-tile object that walks a fixed subband ordering,
// decoding each into a pre-sized buffer and tracking a "decoded" bitmask
// before running the inverse transform — the same discipline applied here
// to the ten (sub)bands of one VC-5 channel instead of JPEG2000's variable
// per-resolution-level packet count.
package channel

import (
	"github.com/gopro/gpr-vc5/vc5/bitstream"
	"github.com/gopro/gpr-vc5/vc5/codebook"
	"github.com/gopro/gpr-vc5/vc5/quant"
	"github.com/gopro/gpr-vc5/vc5/subband"
	"github.com/gopro/gpr-vc5/vc5/wavelet"
	"github.com/gopro/gpr-vc5/vc5/wire"
	"github.com/gopro/gpr-vc5/vc5err"
)

// SubbandsPerChannel is the fixed subband count: 1 deepest LL + 3 levels *
// 3 highpass bands.
const SubbandsPerChannel = 10

// Levels is the fixed pyramid depth (MAX_WAVELET_COUNT).
const Levels = 3

// region describes where one subband's coefficients live within the
// channel's stride-width plane, and at what size.
type region struct {
	x0, y0, w, h int
}

// regions computes the ten subband regions for a width x height plane.
// width and height must each be divisible by 8 (2^Levels) so every level's
// quadrant split lands on an exact half.
func regions(width, height int) ([SubbandsPerChannel]region, error) {
	var out [SubbandsPerChannel]region
	if width%8 != 0 || height%8 != 0 {
		return out, vc5err.New("channel.regions", vc5err.ImageDimensions)
	}
	w0, h0 := width, height
	w1, h1 := w0/2, h0/2
	w2, h2 := w1/2, h1/2
	w3, h3 := w2/2, h2/2
	out[0] = region{0, 0, w3, h3} // deepest LL
	out[1] = region{w3, 0, w3, h3}
	out[2] = region{0, h3, w3, h3}
	out[3] = region{w3, h3, w3, h3}
	out[4] = region{w2, 0, w2, h2}
	out[5] = region{0, h2, w2, h2}
	out[6] = region{w2, h2, w2, h2}
	out[7] = region{w1, 0, w1, h1}
	out[8] = region{0, h1, w1, h1}
	out[9] = region{w1, h1, w1, h1}
	return out, nil
}

func extract(plane []int32, stride int, r region) []int32 {
	block := make([]int32, r.w*r.h)
	for y := 0; y < r.h; y++ {
		src := plane[(r.y0+y)*stride+r.x0 : (r.y0+y)*stride+r.x0+r.w]
		copy(block[y*r.w:(y+1)*r.w], src)
	}
	return block
}

func inject(plane []int32, stride int, r region, block []int32) {
	for y := 0; y < r.h; y++ {
		dst := plane[(r.y0+y)*stride+r.x0 : (r.y0+y)*stride+r.x0+r.w]
		copy(dst, block[y*r.w:(y+1)*r.w])
	}
}

// Corner returns a tightly packed copy of the w x h top-left corner of a
// stride-wide plane, the shape every DecodeLL result and DeepestLL result
// share once extracted from their backing array.
func Corner(plane []int32, stride, w, h int) []int32 {
	return extract(plane, stride, region{0, 0, w, h})
}

// DeepestLL runs the forward three-level pyramid over a copy of plane and
// returns the subband-0 (deepest LL) block, unquantized, plus its
// dimensions — the input the RGB thumbnail combiner needs (§4.8 step 5),
// computed independently of Encode so a caller can build a thumbnail
// without re-deriving it from the entropy-coded bitstream.
func DeepestLL(plane []int32, width, height int) (ll []int32, w3, h3 int, err error) {
	regs, err := regions(width, height)
	if err != nil {
		return nil, 0, 0, err
	}
	work := append([]int32(nil), plane...)
	wavelet.ForwardPyramid(work, width, height, Levels, nil)
	r := regs[0]
	return extract(work, width, r), r.w, r.h, nil
}

// Encode runs the forward wavelet pyramid over plane (width*height
// coefficients, row-major, untouched by the caller afterward), quantizes
// each subband per quantVector, entropy-codes it, and writes the full
// channel header/subbands/trailer framing to w.
func Encode(w *bitstream.Writer, cb *codebook.Codeset17, plane []int32, width, height, channelIndex int, quantVector [SubbandsPerChannel]int32) error {
	regs, err := regions(width, height)
	if err != nil {
		return err
	}
	work := append([]int32(nil), plane...)
	wavelet.ForwardPyramid(work, width, height, Levels, nil)

	w.PutSegment(bitstream.Segment{Tag: wire.TagChannelHeaderIndex, Value: uint16(channelIndex)})

	for idx, r := range regs {
		block := extract(work, width, r)
		quant.QuantizeSlice(block, quantVector[idx])

		chunkStart := w.ReserveSegments(1)
		w.PutSegment(bitstream.Segment{Tag: wire.TagPrescale, Value: 0})
		w.PutSegment(bitstream.Segment{Tag: wire.TagQuant, Value: uint16(quantVector[idx])})
		w.PutSegment(bitstream.Segment{Tag: wire.TagSubbandNumber, Value: uint16(idx)})
		if err := subband.Encode(w, cb, block, r.w, r.h); err != nil {
			return vc5err.Wrap("channel.Encode", vc5err.DecodingSubband, err)
		}
		payloadSegments := uint32((w.Tell() - chunkStart - 4) / 4)
		if err := w.PatchUint32At(chunkStart, bitstream.Chunk{Marker: wire.MarkerSubbandChunk, Length: payloadSegments}.Word()); err != nil {
			return vc5err.Wrap("channel.Encode", vc5err.ChannelSizeTable, err)
		}
	}

	w.PutSegment(bitstream.Segment{Tag: wire.TagChannelTrailerIndex, Value: uint16(channelIndex)})
	return nil
}

// Decode reverses Encode, reconstructing a width*height plane. maxSubband
// caps how many subbands (by index, 0..9) are actually entropy-decoded; any
// higher-indexed subband chunk is skipped via its chunk length and its
// region left zero-filled, the fast RGB path's mechanism (§4.6, §4.9). Pass
// SubbandsPerChannel-1 to decode every subband.
func Decode(r *bitstream.Reader, cb *codebook.Codeset17, width, height, channelIndex, maxSubband int) ([]int32, error) {
	plane, err := parseChannel(r, cb, width, height, channelIndex, maxSubband)
	if err != nil {
		return nil, err
	}
	wavelet.InversePyramid(plane, width, height, Levels, nil)
	return plane, nil
}

// LevelDimsAt returns the pyramid's plane dimensions after applying level
// (0..Levels) successive wavelet decompositions: level 0 is the full
// channel plane, level Levels is the deepest LL's dimensions.
func LevelDimsAt(width, height, level int) (int, int) {
	w, h := width, height
	for i := 0; i < level; i++ {
		w, h = wavelet.LevelDims(w, h)
	}
	return w, h
}

// DecodeLL decodes only the subbands needed to reconstruct the pyramid's
// resolution at targetLevel (0 = full resolution, Levels = the deepest LL
// alone) and runs only the inner (Levels-targetLevel) inverse steps,
// implementing the fast RGB thumbnail path (§4.6, §4.9): subbands beyond
// what targetLevel needs are skipped and their regions left zero, and the
// outer, un-decoded levels are never transformed at all. The returned
// plane's top-left cornerW x cornerH region holds the result; the rest of
// the backing array is unspecified.
func DecodeLL(r *bitstream.Reader, cb *codebook.Codeset17, width, height, channelIndex, targetLevel int) (plane []int32, cornerW, cornerH int, err error) {
	if targetLevel < 0 || targetLevel > Levels {
		return nil, 0, 0, vc5err.New("channel.DecodeLL", vc5err.InvalidBand)
	}
	maxSubband := 0
	switch targetLevel {
	case Levels:
		maxSubband = 0
	case Levels - 1:
		maxSubband = 3
	case Levels - 2:
		maxSubband = 6
	default:
		maxSubband = SubbandsPerChannel - 1
	}
	plane, err = parseChannel(r, cb, width, height, channelIndex, maxSubband)
	if err != nil {
		return nil, 0, 0, err
	}
	innerLevels := Levels - targetLevel
	cornerW, cornerH = LevelDimsAt(width, height, targetLevel)
	if innerLevels > 0 {
		wavelet.InversePyramid(plane, cornerW, cornerH, innerLevels, nil)
	}
	return plane, cornerW, cornerH, nil
}

// parseChannel reads the channel header, every subband chunk (decoding up
// through maxSubband, skipping the rest via their chunk length), and the
// channel trailer, returning the plane with every decoded subband's region
// filled in (un-decoded regions are left zero). No inverse wavelet runs
// here; callers choose how many levels to invert.
func parseChannel(r *bitstream.Reader, cb *codebook.Codeset17, width, height, channelIndex, maxSubband int) ([]int32, error) {
	regs, err := regions(width, height)
	if err != nil {
		return nil, err
	}

	hdrSeg, err := r.GetSegment()
	if err != nil {
		return nil, vc5err.Wrap("channel.parseChannel", vc5err.BitstreamSyntax, err)
	}
	if hdrSeg.RequiredTag() != wire.TagChannelHeaderIndex || int(hdrSeg.Value) != channelIndex {
		return nil, vc5err.New("channel.parseChannel", vc5err.InvalidTag)
	}

	plane := make([]int32, width*height)
	var decodedMask uint16

	for {
		marker, err := r.PeekMarker()
		if err != nil {
			return nil, vc5err.Wrap("channel.parseChannel", vc5err.BitstreamSyntax, err)
		}
		if marker == 0 {
			break
		}
		chunk, err := r.GetChunk()
		if err != nil {
			return nil, vc5err.Wrap("channel.parseChannel", vc5err.BitstreamSyntax, err)
		}
		if chunk.Marker != wire.MarkerSubbandChunk {
			if err := r.SkipChunkPayload(chunk.Length); err != nil {
				return nil, vc5err.Wrap("channel.parseChannel", vc5err.BitstreamSyntax, err)
			}
			continue
		}
		chunkEndByte := r.Tell() + int(chunk.Length)*4

		prescaleSeg, err := r.GetSegment()
		if err != nil {
			return nil, vc5err.Wrap("channel.parseChannel", vc5err.BitstreamSyntax, err)
		}
		if prescaleSeg.RequiredTag() != wire.TagPrescale {
			return nil, vc5err.New("channel.parseChannel", vc5err.InvalidTag)
		}
		quantSeg, err := r.GetSegment()
		if err != nil {
			return nil, vc5err.Wrap("channel.parseChannel", vc5err.BitstreamSyntax, err)
		}
		if quantSeg.RequiredTag() != wire.TagQuant {
			return nil, vc5err.New("channel.parseChannel", vc5err.InvalidTag)
		}
		subbandSeg, err := r.GetSegment()
		if err != nil {
			return nil, vc5err.Wrap("channel.parseChannel", vc5err.BitstreamSyntax, err)
		}
		if subbandSeg.RequiredTag() != wire.TagSubbandNumber {
			return nil, vc5err.New("channel.parseChannel", vc5err.InvalidTag)
		}
		idx := int(subbandSeg.Value)
		if idx < 0 || idx >= SubbandsPerChannel {
			return nil, vc5err.New("channel.parseChannel", vc5err.InvalidBand)
		}

		if idx > maxSubband {
			if err := r.Seek(chunkEndByte); err != nil {
				return nil, vc5err.Wrap("channel.parseChannel", vc5err.BitstreamSyntax, err)
			}
			continue
		}

		block, err := subband.Decode(r, cb, regs[idx].w, regs[idx].h)
		if err != nil {
			return nil, err
		}
		quant.DequantizeSlice(block, int32(quantSeg.Value))
		inject(plane, width, regs[idx], block)
		decodedMask |= 1 << uint(idx)
	}

	var wantMask uint16
	for i := 0; i <= maxSubband; i++ {
		wantMask |= 1 << uint(i)
	}
	if decodedMask != wantMask {
		return nil, vc5err.New("channel.parseChannel", vc5err.BandUnderfull)
	}

	trailerSeg, err := r.GetSegment()
	if err != nil {
		return nil, vc5err.Wrap("channel.parseChannel", vc5err.BitstreamSyntax, err)
	}
	if trailerSeg.RequiredTag() != wire.TagChannelTrailerIndex {
		return nil, vc5err.New("channel.parseChannel", vc5err.InvalidTag)
	}

	return plane, nil
}
