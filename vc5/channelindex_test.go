package vc5

import (
	"testing"

	"github.com/gopro/gpr-vc5/vc5/bitstream"
)

func TestChannelIndexRoundTrip(t *testing.T) {
	w := bitstream.NewWriter()
	offset := reserveChannelIndex(w, 4)
	sizes := []uint32{100, 200, 300, 400}
	for i, sz := range sizes {
		if err := w.PatchUint32At(offset+i*channelIndexEntrySize, sz); err != nil {
			t.Fatal(err)
		}
	}
	// Something after the index so readChannelIndex has a defined end.
	w.PutSegment(bitstream.Segment{Tag: 9, Value: 9})

	r := bitstream.NewReader(w.Bytes())
	got, err := readChannelIndex(r, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i, sz := range sizes {
		if got[i] != sz {
			t.Fatalf("index %d: got %d want %d", i, got[i], sz)
		}
	}
	trailing, err := r.GetSegment()
	if err != nil || trailing.Tag != 9 {
		t.Fatalf("reader not positioned after index: %+v, %v", trailing, err)
	}
}

func TestReadChannelIndexRejectsWrongCount(t *testing.T) {
	w := bitstream.NewWriter()
	reserveChannelIndex(w, 4)
	r := bitstream.NewReader(w.Bytes())
	if _, err := readChannelIndex(r, 2); err == nil {
		t.Fatal("expected an error reading a channel index with the wrong declared count")
	}
}
