// Package vc5 implements the VC-5 wavelet codec's encoder and decoder
// drivers (C8, C9): the public entry points that compose the lower-level
// bitstream, codebook, quantizer, wavelet, subband, channel, and packer
// packages into a full §6 Encoder/Decoder contract.
package vc5

import (
	"log/slog"
	"sync"

	"github.com/gopro/gpr-vc5/vc5/bitstream"
	"github.com/gopro/gpr-vc5/vc5/channel"
	"github.com/gopro/gpr-vc5/vc5/codebook"
	"github.com/gopro/gpr-vc5/vc5/packer"
	"github.com/gopro/gpr-vc5/vc5/thumbnail"
	"github.com/gopro/gpr-vc5/vc5/wire"
	"github.com/gopro/gpr-vc5/vc5err"
)

// Levels is the fixed three-level pyramid depth shared by the encoder and
// decoder drivers (MAX_WAVELET_COUNT, §3).
const Levels = channel.Levels

// channelPlaneDivisor is how evenly each de-mosaiced channel plane's width
// and height must divide (2^Levels), so the three-level pyramid's subband
// regions (vc5/channel's regions()) split exactly at every level. Since a
// channel plane is half the mosaic's width and height, this constrains the
// encoder to mosaic dimensions divisible by 2*channelPlaneDivisor — a
// 16x16 mosaic (8x8 channel planes) is the smallest image this fixed
// three-level, ten-subband pipeline can frame; see the Open Questions
// entry in DESIGN.md for why an 8x8 mosaic (4x4 channel planes, one level
// short of a full pyramid) is rejected with ImageDimensions instead of
// being accommodated by a variable-depth pyramid.
const channelPlaneDivisor = 1 << Levels

// EncoderParameters configures one Encoder (§6's encoder entry inputs).
// There is no (alloc, free) pair here — Go's garbage collector replaces the
// source's caller-supplied allocator (§5); Logger is this repo's ambient
// stand-in for the source's gDNGShowTimers-style verbosity knob, threaded
// through the parameters struct instead of a process-wide flag (§9).
type EncoderParameters struct {
	Width, Height int // Bayer raster dimensions; both must be even and divisible by 2*2^Levels (16)
	Pitch         int // raw input row stride in bytes
	PixelFormat   packer.PixelFormat
	Quality       Quality

	// Thumbnail, when non-nil, requests an RGB preview alongside the VC-5
	// payload (§4.8 step 5). OutWidth/OutHeight of zero means the native
	// size, W/16 x H/16 (the deepest LL of the W/2 x H/2 channel planes), with
	// no rescale; a W/8 x H/8 preview is produced only when requested through
	// OutWidth/OutHeight.
	Thumbnail *ThumbnailRequest

	// Parallel, when true, encodes the four de-mosaiced channel pipelines
	// on separate goroutines (§5: "implementations MAY parallelize across
	// the four channels ... they are fully independent once de-mosaiced").
	// Each channel still entropy-codes its own rows sequentially (runs
	// cross row boundaries within a subband), so the parallelism is
	// strictly across channels, never within one. Output bytes are
	// identical to the sequential path; this only changes wall-clock, not
	// the bitstream. Default false.
	Parallel bool

	Logger *slog.Logger // nil = silent
}

// ThumbnailRequest carries the gain triple and optional output size for an
// encoder-produced RGB preview (§4.8 step 5, §9 supplemental gain/white
// balance feature).
type ThumbnailRequest struct {
	RGain, GGain, BGain float64
	OutWidth, OutHeight int // 0,0 = native W/16 x H/16
}

// Encoder implements the forward path (§4.8): one Encoder instance owns no
// state beyond its validated parameters and can run Encode any number of
// times (unlike the source's single-use allocator-bound instance, because
// Go's GC removes the need to track ownership across calls).
type Encoder struct {
	params EncoderParameters
}

// NewEncoder validates params and returns a ready-to-use Encoder.
func NewEncoder(params EncoderParameters) (*Encoder, error) {
	if err := validateEncoderParams(params); err != nil {
		return nil, err
	}
	return &Encoder{params: params}, nil
}

func validateEncoderParams(p EncoderParameters) error {
	if p.Width <= 0 || p.Height <= 0 || p.Pitch <= 0 {
		return vc5err.New("vc5.NewEncoder", vc5err.ImageDimensions)
	}
	if p.Width%2 != 0 || p.Height%2 != 0 {
		return vc5err.New("vc5.NewEncoder", vc5err.ImageDimensions)
	}
	if p.Width%channelPlaneDivisor2() != 0 || p.Height%channelPlaneDivisor2() != 0 {
		return vc5err.New("vc5.NewEncoder", vc5err.ImageDimensions)
	}
	bits := p.PixelFormat.BitsPerComponent()
	if bits != 12 && bits != 14 && bits != 16 {
		return vc5err.New("vc5.NewEncoder", vc5err.PixelFormat)
	}
	return nil
}

// channelPlaneDivisor2 is the mosaic-level divisibility requirement implied
// by channelPlaneDivisor (each channel plane is half the mosaic size).
func channelPlaneDivisor2() int { return 2 * channelPlaneDivisor }

// Encode runs the full forward path: de-mosaic, per-channel wavelet +
// quantize + entropy coding, bitstream framing with a back-patched channel
// index, and (if requested) an RGB thumbnail built from the unquantized
// deepest-LL planes.
func (e *Encoder) Encode(raw []byte) ([]byte, *thumbnail.Thumbnail, error) {
	samples, err := packer.UnpackSamples(raw, e.params.Width, e.params.Height, e.params.Pitch, e.params.PixelFormat)
	if err != nil {
		return nil, nil, vc5err.Wrap("vc5.Encoder.Encode", vc5err.PixelFormat, err)
	}
	planes, err := packer.Demosaic(samples, e.params.Width, e.params.Height, e.params.Width, e.params.PixelFormat)
	if err != nil {
		return nil, nil, vc5err.Wrap("vc5.Encoder.Encode", vc5err.ImageDimensions, err)
	}

	if e.params.Logger != nil {
		e.params.Logger.Debug("vc5: encoding", "width", e.params.Width, "height", e.params.Height, "quality", e.params.Quality)
	}

	var thumb *thumbnail.Thumbnail
	if e.params.Thumbnail != nil {
		thumb, err = e.buildThumbnail(planes)
		if err != nil {
			return nil, nil, err
		}
	}

	w := bitstream.NewWriter()
	hdr := Header{
		ImageWidth:          e.params.Width,
		ImageHeight:         e.params.Height,
		ChannelCount:        4,
		SubbandCount:        channel.SubbandsPerChannel,
		PatternWidth:        2,
		PatternHeight:       2,
		ComponentsPerSample: 1,
		MaxBitsPerComponent: e.params.PixelFormat.BitsPerComponent(),
	}
	WriteHeader(w, hdr)

	idxOffset := reserveChannelIndex(w, hdr.ChannelCount)
	quantVector := QuantVector(e.params.Quality)
	cw, ch := planes.Width, planes.Height

	channelBytes, err := e.encodeChannels(planes, cw, ch, quantVector)
	if err != nil {
		return nil, nil, err
	}

	sizes := make([]uint32, hdr.ChannelCount)
	for i, b := range channelBytes {
		if err := w.WriteRaw(b); err != nil {
			return nil, nil, vc5err.Wrap("vc5.Encoder.Encode", vc5err.Unexpected, err)
		}
		sizes[i] = uint32(len(b))
	}
	for i, sz := range sizes {
		if err := w.PatchUint32At(idxOffset+i*channelIndexEntrySize, sz); err != nil {
			return nil, nil, vc5err.Wrap("vc5.Encoder.Encode", vc5err.ChannelSizeTable, err)
		}
	}

	w.PutSegment(bitstream.Segment{Tag: wire.TagEndMarker, Value: wire.EndMarkerValue})
	return w.Bytes(), thumb, nil
}

// encodeChannels runs channel.Encode for each of the four planes, each into
// its own Writer so the result can be spliced into the main bitstream in
// channel order regardless of completion order. When Parallel is set, the
// four channels run on separate goroutines; the channel.Encode algorithm
// itself stays strictly sequential within one channel (entropy-coding runs
// cross row boundaries inside a subband, so only cross-channel parallelism
// is safe, per §5).
func (e *Encoder) encodeChannels(planes *packer.Planes, cw, ch int, quantVector [channel.SubbandsPerChannel]int32) ([][]byte, error) {
	n := len(planes.P)
	out := make([][]byte, n)
	errs := make([]error, n)

	run := func(i int) {
		subWriter := bitstream.NewWriter()
		cb := codebook.New()
		if err := channel.Encode(subWriter, cb, planes.P[i], cw, ch, i, quantVector); err != nil {
			errs[i] = vc5err.Wrap("vc5.Encoder.encodeChannels", vc5err.DecodingSubband, err)
			return
		}
		out[i] = subWriter.Bytes()
	}

	if e.params.Parallel {
		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func(i int) {
				defer wg.Done()
				run(i)
			}(i)
		}
		wg.Wait()
	} else {
		for i := 0; i < n; i++ {
			run(i)
		}
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// buildThumbnail derives each plane's unquantized deepest LL and combines
// them per §4.8 step 5, rescaling to the caller's requested output size.
func (e *Encoder) buildThumbnail(planes *packer.Planes) (*thumbnail.Thumbnail, error) {
	var ll [4][]int32
	var lw, lh int
	for i := 0; i < 4; i++ {
		block, w3, h3, err := channel.DeepestLL(planes.P[i], planes.Width, planes.Height)
		if err != nil {
			return nil, vc5err.Wrap("vc5.Encoder.buildThumbnail", vc5err.ImageDimensions, err)
		}
		ll[i], lw, lh = block, w3, h3
	}
	rIdx, g1Idx, g2Idx, bIdx := e.params.PixelFormat.ChannelRoles()
	req := e.params.Thumbnail
	t, err := thumbnail.Combine(ll[rIdx], ll[g1Idx], ll[g2Idx], ll[bIdx], lw, lh, e.params.PixelFormat.BitsPerComponent(), Levels,
		thumbnail.Params{RGain: req.RGain, GGain: req.GGain, BGain: req.BGain})
	if err != nil {
		return nil, vc5err.Wrap("vc5.Encoder.buildThumbnail", vc5err.ImageDimensions, err)
	}
	if req.OutWidth > 0 && req.OutHeight > 0 {
		t = thumbnail.Resize(t, req.OutWidth, req.OutHeight)
	}
	return t, nil
}
