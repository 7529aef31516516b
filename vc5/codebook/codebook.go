// Package codebook implements codeset 17, the single prefix-code table this
// codec supports for entropy coding zero-run lengths and coefficient
// magnitudes (§4.2). Grounded on the teacher's bit-oriented entropy coders
// (jpegls/lossless/golomb.go's Golomb-Rice writer/reader and
// jpeg2000/t2/packet_header_bitio.go's bio reader/writer) adapted to the
// run/magnitude/band-end alphabet this spec requires instead of JPEG-LS's
// error-value alphabet.
//
// Every codeword is built from a short fixed discriminator (distinguishing
// run, magnitude, and the band-end marker) followed, for run and magnitude,
// by an Exp-Golomb (Elias gamma) suffix. Below escapeThreshold, a codeword
// including its discriminator never exceeds the codeset's stated 26-bit
// bound (Exp-Golomb(4094) is 23 bits, plus a 2-bit discriminator is 25). A
// value at or above escapeThreshold instead writes the Exp-Golomb(escapeThreshold)
// sentinel followed by a raw 32-bit field carrying the true value, so an
// escaped codeword runs well past 26 bits (around 55-58 bits including its
// discriminator and, for magnitudes, sign bit) — decode mirrors encode
// bit-for-bit either way, so round-tripping is unaffected by the escape
// path's length.
package codebook

import (
	"math/bits"

	"github.com/gopro/gpr-vc5/vc5/bitstream"
	"github.com/gopro/gpr-vc5/vc5err"
)

// Kind identifies which alphabet a decoded Symbol belongs to.
type Kind int

const (
	KindRun Kind = iota
	KindMagnitude
	KindBandEnd
)

// Symbol is one decoded codeword: a run of zeros, a signed magnitude, or the
// band-end marker.
type Symbol struct {
	Kind      Kind
	Run       int // valid when Kind == KindRun; always >= 1
	Magnitude int // valid when Kind == KindMagnitude; always >= 1
	Negative  bool
}

// escapeThreshold bounds the direct Exp-Golomb range so that even the
// 2-bit-discriminator branches (magnitude, band-end) never exceed 26 bits:
// Exp-Golomb of 4094 encodes in 23 bits, plus a 2-bit discriminator is 25.
const escapeThreshold = 4094

// Codeset17 is the only codebook this codec implements, matching the
// reference decoder's single supported decoder_codeset_17.
type Codeset17 struct{}

// New returns the codeset 17 codebook.
func New() *Codeset17 { return &Codeset17{} }

// EncodeRun writes a zero-run-length symbol, run >= 1.
func (Codeset17) EncodeRun(w *bitstream.Writer, run int) error {
	if run < 1 {
		return vc5err.New("codebook.EncodeRun", vc5err.Unexpected)
	}
	w.WriteBits(0, 1) // discriminator '0'
	writeEscapable(w, uint32(run-1))
	return nil
}

// EncodeMagnitude writes a signed nonzero coefficient magnitude (sign bit
// follows the magnitude code, per §4.2).
func (Codeset17) EncodeMagnitude(w *bitstream.Writer, magnitude int, negative bool) error {
	if magnitude < 1 {
		return vc5err.New("codebook.EncodeMagnitude", vc5err.Unexpected)
	}
	w.WriteBits(0b10, 2) // discriminator '10'
	writeEscapable(w, uint32(magnitude-1))
	if negative {
		w.WriteBits(1, 1)
	} else {
		w.WriteBits(0, 1)
	}
	return nil
}

// EncodeBandEnd writes the fixed band-end marker.
func (Codeset17) EncodeBandEnd(w *bitstream.Writer) {
	w.WriteBits(0b11, 2)
}

// Decode reads the next codeword, dispatching on the leading discriminator
// bits — a two-level lookup (1 bit, then a second bit) as recommended for a
// table-driven decode hot path, just shallow enough that no table is needed.
func (Codeset17) Decode(r *bitstream.Reader) (Symbol, error) {
	d0, err := r.ReadBits(1)
	if err != nil {
		return Symbol{}, vc5err.Wrap("codebook.Decode", vc5err.UnknownCode, err)
	}
	if d0 == 0 {
		n, err := readEscapable(r)
		if err != nil {
			return Symbol{}, vc5err.Wrap("codebook.Decode", vc5err.UnknownCode, err)
		}
		return Symbol{Kind: KindRun, Run: int(n) + 1}, nil
	}
	d1, err := r.ReadBits(1)
	if err != nil {
		return Symbol{}, vc5err.Wrap("codebook.Decode", vc5err.UnknownCode, err)
	}
	if d1 == 1 {
		return Symbol{Kind: KindBandEnd}, nil
	}
	n, err := readEscapable(r)
	if err != nil {
		return Symbol{}, vc5err.Wrap("codebook.Decode", vc5err.UnknownCode, err)
	}
	signBit, err := r.ReadBits(1)
	if err != nil {
		return Symbol{}, vc5err.Wrap("codebook.Decode", vc5err.UnknownCode, err)
	}
	return Symbol{Kind: KindMagnitude, Magnitude: int(n) + 1, Negative: signBit != 0}, nil
}

// writeEscapable writes n via Exp-Golomb if n < escapeThreshold, else writes
// the sentinel Exp-Golomb(escapeThreshold) followed by a raw 32-bit n.
func writeEscapable(w *bitstream.Writer, n uint32) {
	if n < escapeThreshold {
		writeExpGolomb(w, n)
		return
	}
	writeExpGolomb(w, escapeThreshold)
	w.WriteBits(n, 32)
}

func readEscapable(r *bitstream.Reader) (uint32, error) {
	n, err := readExpGolomb(r)
	if err != nil {
		return 0, err
	}
	if n != escapeThreshold {
		return n, nil
	}
	return r.ReadBits(32)
}

// writeExpGolomb writes n (>=0) as an Elias gamma code: L leading zeros, then
// n+1 in L+1 bits, where L = floor(log2(n+1)).
func writeExpGolomb(w *bitstream.Writer, n uint32) {
	big := n + 1
	l := bits.Len32(big) - 1
	w.WriteBits(0, l)
	w.WriteBits(big, l+1)
}

func readExpGolomb(r *bitstream.Reader) (uint32, error) {
	l := 0
	for {
		bit, err := r.ReadBits(1)
		if err != nil {
			return 0, err
		}
		if bit == 1 {
			break
		}
		l++
		if l > 31 {
			return 0, vc5err.New("codebook.readExpGolomb", vc5err.UnknownCode)
		}
	}
	suffix, err := r.ReadBits(l)
	if err != nil {
		return 0, err
	}
	big := uint32(1)<<uint(l) | suffix
	return big - 1, nil
}
