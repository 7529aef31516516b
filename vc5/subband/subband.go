// Package subband implements the per-subband entropy codec (§4.5): a
// row-major scan emitting zero-run and signed-magnitude symbols through the
// codeset 17 codebook, terminated by a band-end marker and padded to a
// 32-bit boundary.
//
// Grounded on the teacher's tile_decoder.go / packet_encoder.go pairing in
// jpeg2000/t2: one object owns the "scan the coefficient plane, emit
// run/value pairs, stop on an explicit end-of-data symbol" loop, and its
// decode counterpart rebuilds the plane while checking the produced count
// against the expected W×H — the same shape reused here with the run/
// magnitude/band-end alphabet from vc5/codebook instead of JPEG2000's
// bit-plane coding passes.
package subband

import (
	"github.com/gopro/gpr-vc5/vc5/bitstream"
	"github.com/gopro/gpr-vc5/vc5/codebook"
	"github.com/gopro/gpr-vc5/vc5err"
)

// Encode writes the quantized coefficients of a W×H subband (row-major,
// coeffs[y*width+x]) as zero-run/magnitude symbols, followed by the band-end
// marker and trailer padding.
func Encode(w *bitstream.Writer, cb *codebook.Codeset17, coeffs []int32, width, height int) error {
	if len(coeffs) != width*height {
		return vc5err.New("subband.Encode", vc5err.ImageDimensions)
	}
	run := 0
	for _, c := range coeffs {
		if c == 0 {
			run++
			continue
		}
		if run > 0 {
			if err := cb.EncodeRun(w, run); err != nil {
				return vc5err.Wrap("subband.Encode", vc5err.DecodingSubband, err)
			}
			run = 0
		}
		mag := c
		neg := false
		if mag < 0 {
			mag = -mag
			neg = true
		}
		if err := cb.EncodeMagnitude(w, int(mag), neg); err != nil {
			return vc5err.Wrap("subband.Encode", vc5err.DecodingSubband, err)
		}
	}
	if run > 0 {
		if err := cb.EncodeRun(w, run); err != nil {
			return vc5err.Wrap("subband.Encode", vc5err.DecodingSubband, err)
		}
	}
	cb.EncodeBandEnd(w)
	w.AlignToSegment()
	return nil
}

// Decode reads a W×H subband's entropy-coded payload into a freshly
// allocated coefficient slice, verifying the band-end marker arrives exactly
// when width*height coefficients have been produced, then skipping the
// trailer padding to the next 32-bit boundary (the padding bits are not
// checked).
func Decode(r *bitstream.Reader, cb *codebook.Codeset17, width, height int) ([]int32, error) {
	n := width * height
	out := make([]int32, n)
	filled := 0
	for {
		sym, err := cb.Decode(r)
		if err != nil {
			return nil, vc5err.Wrap("subband.Decode", vc5err.UnknownCode, err)
		}
		switch sym.Kind {
		case codebook.KindRun:
			if filled+sym.Run > n {
				return nil, vc5err.New("subband.Decode", vc5err.BandOverfull)
			}
			filled += sym.Run // zeros already present from make()
		case codebook.KindMagnitude:
			if filled >= n {
				return nil, vc5err.New("subband.Decode", vc5err.BandOverfull)
			}
			v := int32(sym.Magnitude)
			if sym.Negative {
				v = -v
			}
			out[filled] = v
			filled++
		case codebook.KindBandEnd:
			if filled != n {
				return nil, vc5err.New("subband.Decode", vc5err.BandUnderfull)
			}
			r.AlignToSegment()
			return out, nil
		}
	}
}
