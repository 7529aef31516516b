package vc5

import (
	"github.com/gopro/gpr-vc5/vc5/bitstream"
	"github.com/gopro/gpr-vc5/vc5/wire"
	"github.com/gopro/gpr-vc5/vc5err"
)

// channelIndexEntrySize is the byte width of one channel-size entry: a
// single 32-bit raw byte count, not a tag-value segment (the index's
// payload is plain data framed by its enclosing chunk, per §4.6).
const channelIndexEntrySize = 4

// reserveChannelIndex writes the channel-index chunk header (marker +
// length, in segments) and reserves channelCount zeroed 32-bit entries
// immediately after it, returning the byte offset of the first entry so
// the caller can PatchUint32At it once each channel's byte length is
// known.
func reserveChannelIndex(w *bitstream.Writer, channelCount int) int {
	w.PutChunk(bitstream.Chunk{Marker: wire.MarkerChannelSize, Length: uint32(channelCount)})
	return w.ReserveSegments(channelCount)
}

// readChannelIndex reads the channel-index chunk and returns one byte
// count per channel. It rejects a missing or wrongly sized index.
func readChannelIndex(r *bitstream.Reader, channelCount int) ([]uint32, error) {
	chunk, err := r.GetChunk()
	if err != nil {
		return nil, vc5err.Wrap("vc5.readChannelIndex", vc5err.BitstreamSyntax, err)
	}
	if chunk.Marker != wire.MarkerChannelSize {
		return nil, vc5err.New("vc5.readChannelIndex", vc5err.ChannelSizeTable)
	}
	if int(chunk.Length) != channelCount {
		return nil, vc5err.New("vc5.readChannelIndex", vc5err.ChannelSizeTable)
	}
	sizes := make([]uint32, channelCount)
	for i := range sizes {
		seg, err := r.GetSegment()
		if err != nil {
			return nil, vc5err.Wrap("vc5.readChannelIndex", vc5err.BitstreamSyntax, err)
		}
		sizes[i] = seg.Word()
	}
	return sizes, nil
}
