package quant

import "testing"

func TestLosslessAtQ1(t *testing.T) {
	for _, c := range []int32{-100, -1, 0, 1, 12345, -32768, 32767} {
		q := Quantize(c, 1)
		d := Dequantize(q, 1)
		if d != c {
			t.Fatalf("Q=1 should be lossless: Quantize(%d)=%d Dequantize=%d", c, q, d)
		}
	}
}

func TestMidtreadBoundedError(t *testing.T) {
	qs := []int32{2, 3, 4, 7, 16, 33}
	for _, q := range qs {
		maxErr := MaxError(q)
		for c := int32(-2000); c <= 2000; c += 7 {
			qv := Quantize(c, q)
			d := Dequantize(qv, q)
			diff := d - c
			if diff < 0 {
				diff = -diff
			}
			if diff > maxErr {
				t.Fatalf("q=%d c=%d: |decode-c|=%d exceeds bound %d", q, c, diff, maxErr)
			}
		}
	}
}

func TestSignPreserved(t *testing.T) {
	if Quantize(-10, 4) >= 0 {
		t.Fatal("expected negative quantized value for negative input")
	}
	if Quantize(10, 4) <= 0 {
		t.Fatal("expected positive quantized value for positive input")
	}
	if Quantize(0, 4) != 0 {
		t.Fatal("zero must quantize to zero")
	}
}
