// Package vc5reg adapts vc5.Encoder/vc5.Decoder to the codec.Codec
// interface and self-registers under the name "gpr-vc5" so a
// registry-driven host can dispatch to GPR/VC-5 the same way the teacher's
// jpeg2000/lossy and jpeg/baseline packages register themselves (§6's
// "Codec registry integration").
//
// GPR/VC-5 has no DICOM transfer-syntax UID (it isn't a DICOM codec at
// all); UID() returns a locally-defined dotted identifier instead, which
// is all codec.Registry requires of a UID — a unique lookup key.
package vc5reg

import (
	"github.com/gopro/gpr-vc5/codec"
	"github.com/gopro/gpr-vc5/vc5"
	"github.com/gopro/gpr-vc5/vc5/packer"
	"github.com/gopro/gpr-vc5/vc5err"
)

// UID is the locally-defined identifier this codec registers under,
// alongside Name.
const UID = "gpr-vc5.codec.1"

// Name is the human-readable registry key for GPR/VC-5.
const Name = "gpr-vc5"

func init() {
	codec.Register(&Codec{})
}

// Codec adapts the VC-5 wavelet codec to codec.Codec. Its zero value is
// ready to use: Encode/Decode each construct a fresh vc5.Encoder/
// vc5.Decoder from the per-call Options, matching the stateless-per-call
// contract codec.Codec implies (one Registry entry serving many calls).
type Codec struct{}

// Options carries the GPR/VC-5-specific settings codec.EncodeParams.Options
// must hold for this codec. It embeds codec.BaseOptions so a registry host
// built around a 1-100 quality knob can drive GPR/VC-5 the same way it
// drives any other registered codec; Quality is mapped onto vc5.Quality's
// five fixed presets by presetForScore, since VC-5 has no continuous scale
// of its own (§5.2).
type Options struct {
	codec.BaseOptions
	PixelFormat packer.PixelFormat
	Pitch       int // raw row stride in bytes; 0 defaults to width * bytes-per-sample
}

// Validate satisfies codec.Options. It defers the 0-100 range check to
// BaseOptions.Validate and adds VC-5's own constraint: VC-5 has no
// arbitrary per-pixel error bound to honor a near-lossless request with
// (unlike JPEG-LS, which BaseOptions.NearLossless was named for), so a
// nonzero NearLossless is rejected rather than silently ignored.
func (o Options) Validate() error {
	if err := o.BaseOptions.Validate(); err != nil {
		return err
	}
	if o.NearLossless != 0 {
		return codec.ErrUnsupportedFormat
	}
	return nil
}

// presetForScore maps BaseOptions' 1-100 Quality scale onto vc5.Quality's
// fixed presets, picking the highest preset whose threshold score does not
// exceed score. 100 always selects QualityFS2, VC-5's exactly-lossless
// preset (§8 testable property 1).
func presetForScore(score int) vc5.Quality {
	switch {
	case score >= 100:
		return vc5.QualityFS2
	case score >= 80:
		return vc5.QualityFS1
	case score >= 60:
		return vc5.QualityHigh
	case score >= 35:
		return vc5.QualityMedium
	default:
		return vc5.QualityLow
	}
}

// Encode implements codec.Codec.
func (c *Codec) Encode(params codec.EncodeParams) ([]byte, error) {
	opts, ok := params.Options.(Options)
	if !ok {
		return nil, vc5err.New("vc5reg.Codec.Encode", vc5err.Unexpected)
	}
	pitch := opts.Pitch
	if pitch == 0 {
		pitch = params.Width * 2
		if opts.PixelFormat.IsPacked12() {
			pitch = (params.Width / 2) * 3
		}
	}
	enc, err := vc5.NewEncoder(vc5.EncoderParameters{
		Width:       params.Width,
		Height:      params.Height,
		Pitch:       pitch,
		PixelFormat: opts.PixelFormat,
		Quality:     presetForScore(opts.Quality),
	})
	if err != nil {
		return nil, err
	}
	data, _, err := enc.Encode(params.PixelData)
	return data, err
}

// Decode implements codec.Codec. codec.Codec.Decode takes no per-call
// options, so the output pixel format can't be chosen here; it defaults to
// RGGB_12 (PixelFormat's zero value). A caller that needs a specific
// output format should use vc5.NewDecoder directly instead of going
// through the registry.
func (c *Codec) Decode(data []byte) (*codec.DecodeResult, error) {
	dec, err := vc5.NewDecoder(vc5.DecoderParameters{})
	if err != nil {
		return nil, err
	}
	result, err := dec.Decode(data)
	if err != nil {
		return nil, err
	}
	return &codec.DecodeResult{
		PixelData:  result.Raw,
		Width:      result.Width,
		Height:     result.Height,
		Components: 1,
	}, nil
}

// UID implements codec.Codec.
func (c *Codec) UID() string { return UID }

// Name implements codec.Codec.
func (c *Codec) Name() string { return Name }
