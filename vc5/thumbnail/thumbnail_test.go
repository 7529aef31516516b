package thumbnail

import "testing"

func TestCombineDimensionMismatchRejected(t *testing.T) {
	ll := make([]int32, 4)
	short := make([]int32, 3)
	if _, err := Combine(ll, ll, ll, short, 2, 2, 12, 3, Params{}); err == nil {
		t.Fatal("expected an error for a mismatched plane length")
	}
}

func TestCombineAppliesGainAndClamps(t *testing.T) {
	// One pixel: R saturates high, G mid, B at zero. bitsPerComponent=12,
	// levels=3 gives shift=12-8+2*3=10, round=512.
	llR := []int32{1 << 20} // deliberately large, should clamp to 255
	llG1 := []int32{512}
	llG2 := []int32{512}
	llB := []int32{0}

	out, err := Combine(llR, llG1, llG2, llB, 1, 1, 12, 3, Params{RGain: 1, GGain: 1, BGain: 1})
	if err != nil {
		t.Fatal(err)
	}
	if out.Width != 1 || out.Height != 1 {
		t.Fatalf("got %dx%d, want 1x1", out.Width, out.Height)
	}
	if out.Pix[0] != 255 {
		t.Fatalf("red = %d, want clamped 255", out.Pix[0])
	}
	if out.Pix[2] != 0 {
		t.Fatalf("blue = %d, want 0", out.Pix[2])
	}
}

func TestCombineZeroGainDefaultsToUnity(t *testing.T) {
	llR := []int32{128 << 7}
	llG := []int32{0}
	llB := []int32{0}
	withZero, err := Combine(llR, llG, llG, llB, 1, 1, 12, 3, Params{})
	if err != nil {
		t.Fatal(err)
	}
	withUnity, err := Combine(llR, llG, llG, llB, 1, 1, 12, 3, Params{RGain: 1, GGain: 1, BGain: 1})
	if err != nil {
		t.Fatal(err)
	}
	if withZero.Pix[0] != withUnity.Pix[0] {
		t.Fatalf("zero gain (%d) should default to unity gain (%d)", withZero.Pix[0], withUnity.Pix[0])
	}
}

func TestResizeNoopWhenSameSize(t *testing.T) {
	t0 := &Thumbnail{Width: 2, Height: 2, Pix: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}}
	out := Resize(t0, 2, 2)
	if out != t0 {
		t.Fatal("Resize should return the same Thumbnail when the size is unchanged")
	}
}

func TestResizeChangesDimensions(t *testing.T) {
	src := &Thumbnail{Width: 2, Height: 2, Pix: []byte{
		0, 0, 0, 255, 255, 255,
		255, 255, 255, 0, 0, 0,
	}}
	out := Resize(src, 4, 4)
	if out.Width != 4 || out.Height != 4 {
		t.Fatalf("got %dx%d, want 4x4", out.Width, out.Height)
	}
	if len(out.Pix) != 4*4*3 {
		t.Fatalf("got %d bytes, want %d", len(out.Pix), 4*4*3)
	}
}
