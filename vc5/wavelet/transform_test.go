package wavelet

import "testing"

func TestInverse1DUndoesForward1D(t *testing.T) {
	rows := [][]int32{
		{1, 2, 3, 4},
		{0, 0, 0, 0},
		{-5, 10, -15, 20, 7, 3},
		{100, -100, 50, -50, 25, -25, 12, -12},
		{1, 1},
	}
	for _, row := range rows {
		want := append([]int32(nil), row...)
		work := append([]int32(nil), row...)
		Forward1D(work)
		Inverse1D(work)
		for i := range want {
			if work[i] != want[i] {
				t.Fatalf("row %v: got %v after round trip", want, work)
			}
		}
	}
}

func TestInverse1DLongerRowRoundTrip(t *testing.T) {
	// Forward1D only operates on even-length rows by construction (N/2 pairs);
	// channel code rejects plane sizes not divisible by 8 rather than padding.
	row := []int32{1, 2, 3, 4, 5, 6}
	orig := append([]int32(nil), row...)
	Forward1D(row)
	Inverse1D(row)
	for i := range orig {
		if row[i] != orig[i] {
			t.Fatalf("got %v, want %v", row, orig)
		}
	}
}

func TestForward2DInverse2DRoundTrip(t *testing.T) {
	width, height := 8, 6
	plane := make([]int32, width*height)
	for i := range plane {
		plane[i] = int32(i*37%251) - 125
	}
	orig := append([]int32(nil), plane...)

	Forward2D(plane, width, height, width)
	Inverse2D(plane, width, height, width)

	for i := range orig {
		if plane[i] != orig[i] {
			t.Fatalf("index %d: got %d want %d", i, plane[i], orig[i])
		}
	}
}

func TestForwardPyramidInversePyramidRoundTrip(t *testing.T) {
	width, height := 16, 16
	plane := make([]int32, width*height)
	for i := range plane {
		plane[i] = int32((i * 13) % 500)
	}
	orig := append([]int32(nil), plane...)

	ForwardPyramid(plane, width, height, 3, nil)
	InversePyramid(plane, width, height, 3, nil)

	for i := range orig {
		if plane[i] != orig[i] {
			t.Fatalf("index %d: got %d want %d", i, plane[i], orig[i])
		}
	}
}

func TestForwardPyramidWithPrescaleRoundTrip(t *testing.T) {
	width, height := 8, 8
	plane := make([]int32, width*height)
	for i := range plane {
		plane[i] = int32(i % 97)
	}
	orig := append([]int32(nil), plane...)
	prescale := []int32{1, 0, 2}

	ForwardPyramid(plane, width, height, 3, prescale)
	InversePyramid(plane, width, height, 3, prescale)

	for i := range orig {
		if plane[i] != orig[i] {
			t.Fatalf("index %d: got %d want %d", i, plane[i], orig[i])
		}
	}
}

func TestLevelDims(t *testing.T) {
	cases := []struct{ w, h, wantW, wantH int }{
		{16, 16, 8, 8},
		{15, 15, 8, 8},
		{2, 2, 1, 1},
	}
	for _, c := range cases {
		w, h := LevelDims(c.w, c.h)
		if w != c.wantW || h != c.wantH {
			t.Fatalf("LevelDims(%d,%d) = (%d,%d), want (%d,%d)", c.w, c.h, w, h, c.wantW, c.wantH)
		}
	}
}

func TestMirrorBoundary(t *testing.T) {
	cases := []struct{ i, n, want int }{
		{0, 5, 0},
		{-1, 5, 0},
		{-2, 5, 1},
		{5, 5, 4},
		{6, 5, 3},
	}
	for _, c := range cases {
		if got := mirror(c.i, c.n); got != c.want {
			t.Fatalf("mirror(%d,%d) = %d, want %d", c.i, c.n, got, c.want)
		}
	}
}
