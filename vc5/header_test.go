package vc5

import (
	"testing"

	"github.com/gopro/gpr-vc5/vc5/bitstream"
	"github.com/gopro/gpr-vc5/vc5/wire"
	"github.com/gopro/gpr-vc5/vc5err"
)

func sampleHeader() Header {
	return Header{
		ImageWidth:          64,
		ImageHeight:         64,
		ChannelCount:        4,
		SubbandCount:        10,
		PatternWidth:        2,
		PatternHeight:       2,
		ComponentsPerSample: 1,
		MaxBitsPerComponent: 14,
	}
}

func TestWriteHeaderReadHeaderRoundTrip(t *testing.T) {
	w := bitstream.NewWriter()
	WriteHeader(w, sampleHeader())
	r := bitstream.NewReader(w.Bytes())
	got, err := ReadHeader(r)
	if err != nil {
		t.Fatal(err)
	}
	if got != sampleHeader() {
		t.Fatalf("got %+v, want %+v", got, sampleHeader())
	}
}

func TestReadHeaderWithOptionalImageFormat(t *testing.T) {
	h := sampleHeader()
	h.HasImageFormat = true
	h.ImageFormat = 7
	w := bitstream.NewWriter()
	WriteHeader(w, h)
	r := bitstream.NewReader(w.Bytes())
	got, err := ReadHeader(r)
	if err != nil {
		t.Fatal(err)
	}
	if !got.HasImageFormat || got.ImageFormat != 7 {
		t.Fatalf("optional image format not round-tripped: %+v", got)
	}
}

func TestReadHeaderRejectsMissingStartMarker(t *testing.T) {
	w := bitstream.NewWriter()
	w.PutSegment(bitstream.SegmentFromWord(0xDEADBEEF))
	w.PutSegment(bitstream.Segment{Tag: 0, Value: 0})
	r := bitstream.NewReader(w.Bytes())
	_, err := ReadHeader(r)
	if vc5err.CodeOf(err) != vc5err.MissingStartMarker {
		t.Fatalf("got %v, want MissingStartMarker", err)
	}
}

func TestReadHeaderRejectsDuplicateParameter(t *testing.T) {
	w := bitstream.NewWriter()
	w.PutSegment(bitstream.Segment{Tag: wire.TagStartMarker, Value: wire.StartMarkerValue})
	w.PutSegment(bitstream.Segment{Tag: wire.TagImageWidth, Value: 64})
	w.PutSegment(bitstream.Segment{Tag: wire.TagImageWidth, Value: 64})
	r := bitstream.NewReader(w.Bytes())
	_, err := ReadHeader(r)
	if vc5err.CodeOf(err) != vc5err.DuplicateHeaderParameter {
		t.Fatalf("got %v, want DuplicateHeaderParameter", err)
	}
}

func TestReadHeaderRejectsMissingRequiredParameter(t *testing.T) {
	w := bitstream.NewWriter()
	w.PutSegment(bitstream.Segment{Tag: wire.TagStartMarker, Value: wire.StartMarkerValue})
	w.PutSegment(bitstream.Segment{Tag: wire.TagImageWidth, Value: 64})
	// Followed directly by a chunk marker so ReadHeader stops here, short of
	// every required field.
	w.PutChunk(bitstream.Chunk{Marker: wire.MarkerChannelSize, Length: 4})
	r := bitstream.NewReader(w.Bytes())
	_, err := ReadHeader(r)
	if vc5err.CodeOf(err) != vc5err.RequiredParameter {
		t.Fatalf("got %v, want RequiredParameter", err)
	}
}

func TestMalformedStreamReturnsMissingStartMarker(t *testing.T) {
	// §8 scenario 5: bytes {0xDEADBEEF, 0x00000000}.
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x00, 0x00, 0x00}
	r := bitstream.NewReader(data)
	_, err := ReadHeader(r)
	if vc5err.CodeOf(err) != vc5err.MissingStartMarker {
		t.Fatalf("got %v, want MissingStartMarker", err)
	}
}
