package vc5

import (
	"log/slog"

	"github.com/gopro/gpr-vc5/vc5/bitstream"
	"github.com/gopro/gpr-vc5/vc5/channel"
	"github.com/gopro/gpr-vc5/vc5/codebook"
	"github.com/gopro/gpr-vc5/vc5/packer"
	"github.com/gopro/gpr-vc5/vc5/thumbnail"
	"github.com/gopro/gpr-vc5/vc5/wire"
	"github.com/gopro/gpr-vc5/vc5err"
)

// RGBResolution selects the decoder's fast RGB preview path (§4.9 "Fast RGB
// path"). RGBNone means decode the full mosaic raster instead.
type RGBResolution int

const (
	RGBNone      RGBResolution = iota
	RGBSixteenth               // 1/16: deepest LL only, then a further 2x box downscale
	RGBEighth                  // 1/8: deepest LL only (no downscale) — "full stop"
	RGBQuarter                 // 1/4: deepest LL plus the next highpass triple
)

// targetLevel returns the pyramid level DecodeLL must reconstruct for this
// resolution (Levels = the deepest LL alone, with no inverse step), and
// whether an extra 2x downscale is needed afterward.
func (res RGBResolution) targetLevel() (level int, extraHalf bool) {
	switch res {
	case RGBSixteenth:
		return Levels, true
	case RGBQuarter:
		return Levels - 1, false
	default: // RGBEighth
		return Levels, false
	}
}

// DecoderParameters configures one Decoder (§6's decoder entry inputs).
type DecoderParameters struct {
	PixelFormat   packer.PixelFormat // output mosaic layout, used when RGBResolution == RGBNone
	RGBResolution RGBResolution
	RGBGain       [3]float64 // R,G,B white-balance gains for the RGB path
	Logger        *slog.Logger
}

// DecodeResult holds exactly one of Raw (mosaic path) or RGB (fast RGB
// path), mirroring §6's "mutually optional" output contract.
type DecodeResult struct {
	Raw           []byte // present when RGBResolution == RGBNone
	Width, Height int    // raster dimensions of whichever output is present
	RGB           *thumbnail.Thumbnail
}

// Decoder implements the inverse path (§4.9): a state machine driven by
// successive bitstream segments, dispatching on tag.
type Decoder struct {
	params DecoderParameters
}

// NewDecoder returns a ready-to-use Decoder. Unlike the encoder, decoder
// parameters can't be fully validated until the bitstream header arrives
// (the image dimensions aren't known yet), so NewDecoder never fails on
// pixel format alone unless RGBResolution is out of range.
func NewDecoder(params DecoderParameters) (*Decoder, error) {
	if params.RGBResolution < RGBNone || params.RGBResolution > RGBQuarter {
		return nil, vc5err.New("vc5.NewDecoder", vc5err.InvalidBand)
	}
	return &Decoder{params: params}, nil
}

// Decode parses data (§4.9's Start -> Header -> ChannelHeader ->
// SubbandChunk -> ChannelTrailer -> (next channel | End) state machine) and
// reconstructs either a mosaic raster or an RGB preview.
func (d *Decoder) Decode(data []byte) (*DecodeResult, error) {
	r := bitstream.NewReader(data)
	hdr, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	if hdr.ChannelCount != 4 {
		return nil, vc5err.New("vc5.Decoder.Decode", vc5err.ImageType)
	}
	if hdr.ImageWidth%channelPlaneDivisor2() != 0 || hdr.ImageHeight%channelPlaneDivisor2() != 0 {
		return nil, vc5err.New("vc5.Decoder.Decode", vc5err.ImageDimensions)
	}

	sizes, err := readChannelIndex(r, hdr.ChannelCount)
	if err != nil {
		return nil, err
	}

	if d.params.Logger != nil {
		d.params.Logger.Debug("vc5: decoding", "width", hdr.ImageWidth, "height", hdr.ImageHeight)
	}

	cb := codebook.New()
	channelWidth, channelHeight := hdr.ImageWidth/2, hdr.ImageHeight/2

	if d.params.RGBResolution == RGBNone {
		return d.decodeMosaic(r, cb, hdr, channelWidth, channelHeight, sizes)
	}
	return d.decodeRGB(r, cb, hdr, channelWidth, channelHeight, sizes)
}

func (d *Decoder) decodeMosaic(r *bitstream.Reader, cb *codebook.Codeset17, hdr Header, cw, ch int, sizes []uint32) (*DecodeResult, error) {
	planes := &packer.Planes{Width: cw, Height: ch}
	for i := 0; i < hdr.ChannelCount; i++ {
		start := r.Tell()
		plane, err := channel.Decode(r, cb, cw, ch, i, channel.SubbandsPerChannel-1)
		if err != nil {
			return nil, err
		}
		if uint32(r.Tell()-start) != sizes[i] {
			return nil, vc5err.New("vc5.Decoder.decodeMosaic", vc5err.ChannelSizeTable)
		}
		planes.P[i] = plane
	}
	if err := d.readEndMarker(r); err != nil {
		return nil, err
	}

	samples := packer.Remosaic(planes, d.params.PixelFormat)
	raw := packer.PackSamples(samples, hdr.ImageWidth, hdr.ImageHeight, d.params.PixelFormat)
	return &DecodeResult{Raw: raw, Width: hdr.ImageWidth, Height: hdr.ImageHeight}, nil
}

func (d *Decoder) decodeRGB(r *bitstream.Reader, cb *codebook.Codeset17, hdr Header, cw, ch int, sizes []uint32) (*DecodeResult, error) {
	level, extraHalf := d.params.RGBResolution.targetLevel()

	var ll [4][]int32
	var lw, lh int
	for i := 0; i < hdr.ChannelCount; i++ {
		start := r.Tell()
		plane, w3, h3, err := channel.DecodeLL(r, cb, cw, ch, i, level)
		if err != nil {
			return nil, err
		}
		if uint32(r.Tell()-start) != sizes[i] {
			return nil, vc5err.New("vc5.Decoder.decodeRGB", vc5err.ChannelSizeTable)
		}
		ll[i] = channel.Corner(plane, cw, w3, h3)
		lw, lh = w3, h3
	}
	if err := d.readEndMarker(r); err != nil {
		return nil, err
	}

	rIdx, g1Idx, g2Idx, bIdx := d.params.PixelFormat.ChannelRoles()
	t, err := thumbnail.Combine(ll[rIdx], ll[g1Idx], ll[g2Idx], ll[bIdx], lw, lh, hdr.MaxBitsPerComponent, level,
		thumbnail.Params{RGain: d.params.RGBGain[0], GGain: d.params.RGBGain[1], BGain: d.params.RGBGain[2]})
	if err != nil {
		return nil, vc5err.Wrap("vc5.Decoder.decodeRGB", vc5err.ImageDimensions, err)
	}
	if extraHalf {
		t = thumbnail.Resize(t, lw/2, lh/2)
	}
	return &DecodeResult{RGB: t, Width: t.Width, Height: t.Height}, nil
}

func (d *Decoder) readEndMarker(r *bitstream.Reader) error {
	seg, err := r.GetSegment()
	if err != nil {
		return vc5err.Wrap("vc5.Decoder.readEndMarker", vc5err.BitstreamSyntax, err)
	}
	if seg.Tag != wire.TagEndMarker || seg.Value != wire.EndMarkerValue {
		return vc5err.New("vc5.Decoder.readEndMarker", vc5err.InvalidMarker)
	}
	return nil
}
