package subband

import (
	"testing"

	"github.com/gopro/gpr-vc5/vc5/bitstream"
	"github.com/gopro/gpr-vc5/vc5/codebook"
	"github.com/gopro/gpr-vc5/vc5err"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cb := codebook.New()
	cases := []struct {
		w, h   int
		coeffs []int32
	}{
		{4, 4, []int32{0, 0, 0, 1, 0, -2, 0, 0, 3, 0, 0, 0, -4, 5, 0, 0}},
		{2, 2, []int32{0, 0, 0, 0}},
		{3, 3, []int32{1, -1, 2, -2, 3, -3, 4, -4, 5}},
		{1, 1, []int32{0}},
	}
	for _, c := range cases {
		w := bitstream.NewWriter()
		if err := Encode(w, cb, c.coeffs, c.w, c.h); err != nil {
			t.Fatalf("Encode(%dx%d) failed: %v", c.w, c.h, err)
		}
		r := bitstream.NewReader(w.Bytes())
		got, err := Decode(r, cb, c.w, c.h)
		if err != nil {
			t.Fatalf("Decode(%dx%d) failed: %v", c.w, c.h, err)
		}
		if len(got) != len(c.coeffs) {
			t.Fatalf("length mismatch: got %d want %d", len(got), len(c.coeffs))
		}
		for i := range c.coeffs {
			if got[i] != c.coeffs[i] {
				t.Fatalf("index %d: got %d want %d", i, got[i], c.coeffs[i])
			}
		}
	}
}

func TestEncodeDecodeIsSegmentAlignedAfterward(t *testing.T) {
	cb := codebook.New()
	coeffs := []int32{1, 0, 0, -7, 0, 2}
	w := bitstream.NewWriter()
	if err := Encode(w, cb, coeffs, 3, 2); err != nil {
		t.Fatal(err)
	}
	if !w.Aligned() {
		t.Fatal("writer should be segment-aligned after Encode")
	}
	r := bitstream.NewReader(w.Bytes())
	if _, err := Decode(r, cb, 3, 2); err != nil {
		t.Fatal(err)
	}
	if !r.Aligned() {
		t.Fatal("reader should be segment-aligned after Decode")
	}
}

func TestDecodeRejectsWrongDimensions(t *testing.T) {
	cb := codebook.New()
	coeffs := []int32{1, 2, 3, 4}
	w := bitstream.NewWriter()
	if err := Encode(w, cb, coeffs, 2, 2); err != nil {
		t.Fatal(err)
	}
	r := bitstream.NewReader(w.Bytes())
	_, err := Decode(r, cb, 3, 3)
	if err == nil {
		t.Fatal("expected an error decoding with mismatched dimensions")
	}
	code := vc5err.CodeOf(err)
	if code != vc5err.BandOverfull && code != vc5err.BandUnderfull && code != vc5err.UnknownCode {
		t.Fatalf("unexpected error code: %v", code)
	}
}

func TestEncodeRejectsLengthMismatch(t *testing.T) {
	cb := codebook.New()
	w := bitstream.NewWriter()
	err := Encode(w, cb, []int32{1, 2, 3}, 2, 2)
	if vc5err.CodeOf(err) != vc5err.ImageDimensions {
		t.Fatalf("expected ImageDimensions, got %v", err)
	}
}
