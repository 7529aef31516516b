package gpr_test

import (
	"math/rand"
	"testing"

	"github.com/gopro/gpr-vc5/gpr"
	"github.com/gopro/gpr-vc5/vc5"
	"github.com/gopro/gpr-vc5/vc5/packer"
)

// TestDNGWriterReaderRoundTrip exercises the collaborator injection wiring
// described in §9's Design Notes end to end: a DNGWriter compressing a tile
// through a *vc5.Encoder (satisfying gpr.TileCompressor with no import of
// vc5 from this package) and a DNGReader decompressing it back through a
// *vc5.Decoder, with no DNG container format involved.
func TestDNGWriterReaderRoundTrip(t *testing.T) {
	const width, height, bits = 64, 64, 12
	r := rand.New(rand.NewSource(7))
	plane := make([]uint16, width*height)
	for i := range plane {
		plane[i] = uint16(r.Intn(1 << bits))
	}

	enc, err := vc5.NewEncoder(vc5.EncoderParameters{
		Width: width, Height: height, Pitch: width * 2,
		PixelFormat: packer.RGGB_12, Quality: vc5.QualityFS2,
	})
	if err != nil {
		t.Fatal(err)
	}
	writer := gpr.NewDNGWriter(enc)
	if err := writer.WriteTile(0, plane, width, height, bits); err != nil {
		t.Fatal(err)
	}

	buf, err := writer.CompressedBuffer(0)
	if err != nil {
		t.Fatal(err)
	}
	count, err := writer.TileByteCount(0)
	if err != nil {
		t.Fatal(err)
	}
	if int(count) != len(buf) {
		t.Fatalf("TileByteCount %d, want %d", count, len(buf))
	}

	dec, err := vc5.NewDecoder(vc5.DecoderParameters{PixelFormat: packer.RGGB_12})
	if err != nil {
		t.Fatal(err)
	}
	reader := gpr.NewDNGReader(dec)
	got, gotW, gotH, err := reader.ReadTile(buf)
	if err != nil {
		t.Fatal(err)
	}
	if gotW != width || gotH != height {
		t.Fatalf("got %dx%d, want %dx%d", gotW, gotH, width, height)
	}
	for i := range plane {
		if got[i] != plane[i] {
			t.Fatalf("sample %d: got %d, want %d", i, got[i], plane[i])
		}
	}
}

// TestDNGWriterCompressedBufferUnknownTile confirms the "not found" error
// path (§6's compressed_buffer(ifd_index) contract) for an IFD index that
// was never written.
func TestDNGWriterCompressedBufferUnknownTile(t *testing.T) {
	enc, err := vc5.NewEncoder(vc5.EncoderParameters{
		Width: 64, Height: 64, Pitch: 128,
		PixelFormat: packer.RGGB_12, Quality: vc5.QualityFS2,
	})
	if err != nil {
		t.Fatal(err)
	}
	writer := gpr.NewDNGWriter(enc)
	if _, err := writer.CompressedBuffer(3); err == nil {
		t.Fatal("expected an error for an IFD index that was never written")
	}
}

// TestDefaultAllocator exercises the Allocator injection point (§5's
// (alloc, free)-pair stand-in).
func TestDefaultAllocator(t *testing.T) {
	buf := gpr.DefaultAllocator.Alloc(16)
	if len(buf) != 16 {
		t.Fatalf("got %d bytes, want 16", len(buf))
	}
}
