// Package gpr is the DNG collaborator interface the core consumes and
// exposes but does not implement (§1, §6): "the core consumes and produces
// one opaque compressed payload plus pixel buffers; DNG read/write is a
// collaborator."
//
// §9's Design Notes call for re-expressing the source's inheritance-based
// image-writer/reader ("source uses class hierarchies to inject VC-5 into a
// DNG writer") as an injection interface instead: the DNG side depends on a
// TileCompressor/TileDecompressor trait, and vc5.Encoder/vc5.Decoder
// satisfy it directly, with no inheritance chain. DNGWriter/DNGReader below
// are a minimal, non-conformant demonstration of that wiring — enough to
// exercise compressed_buffer(ifd_index)/tile_byte_count() end to end in
// tests, never a claim of DNG/TIFF-EP conformance (explicitly out of scope
// per §1).
package gpr

import "github.com/gopro/gpr-vc5/vc5err"

// TileCompressor is the trait a DNG writer depends on to compress one tile.
// vc5.Encoder satisfies it via a thin adapter (see Encoder.CompressTile).
type TileCompressor interface {
	CompressTile(plane []uint16, width, height, bitsPerComponent int) ([]byte, error)
}

// TileDecompressor is the trait a DNG reader depends on to decompress one
// VC-5-compressed tile. vc5.Decoder satisfies it via a thin adapter.
type TileDecompressor interface {
	DecompressTile(data []byte) (plane []uint16, width, height int, err error)
}

// Allocator is the vestigial stand-in for the source's (alloc, free) pair
// (§5). No constructor or entry point in this module takes an Allocator:
// the encoder, decoder, DNGWriter and DNGReader all allocate through Go's
// built-in make, and there is no free counterpart.
type Allocator interface {
	Alloc(n int) []byte
}

type defaultAllocator struct{}

func (defaultAllocator) Alloc(n int) []byte { return make([]byte, n) }

// DefaultAllocator is a make-based Allocator.
var DefaultAllocator Allocator = defaultAllocator{}

// tileEntry is one compressed tile tracked by a DNGWriter.
type tileEntry struct {
	ifdIndex int
	data     []byte
}

// DNGWriter is a minimal collaborator demonstrating how a DNG container
// would invoke a TileCompressor per tile and later answer
// compressed_buffer(ifd_index)/tile_byte_count() (§6's "DNG writer"
// collaborator interface). It does not implement IFDs, tags, EXIF, GPS,
// opcode lists, GainMap, WarpRectilinear, or color matrices — all
// explicitly out of core scope (§1).
type DNGWriter struct {
	compressor TileCompressor
	tiles      []tileEntry
}

// NewDNGWriter returns a writer that compresses tiles through compressor
// (ordinarily a *vc5.Encoder, which satisfies TileCompressor through its
// CompressTile method).
func NewDNGWriter(compressor TileCompressor) *DNGWriter {
	return &DNGWriter{compressor: compressor}
}

// WriteTile compresses plane and records it under ifdIndex, telling the
// writer "compression = VC5" for that tile (§6).
func (w *DNGWriter) WriteTile(ifdIndex int, plane []uint16, width, height, bitsPerComponent int) error {
	data, err := w.compressor.CompressTile(plane, width, height, bitsPerComponent)
	if err != nil {
		return err
	}
	w.tiles = append(w.tiles, tileEntry{ifdIndex: ifdIndex, data: data})
	return nil
}

// CompressedBuffer returns the compressed bytes for ifdIndex.
func (w *DNGWriter) CompressedBuffer(ifdIndex int) ([]byte, error) {
	for _, t := range w.tiles {
		if t.ifdIndex == ifdIndex {
			return t.data, nil
		}
	}
	return nil, vc5err.New("gpr.DNGWriter.CompressedBuffer", vc5err.NotFound)
}

// TileByteCount returns the compressed byte length for ifdIndex.
func (w *DNGWriter) TileByteCount(ifdIndex int) (uint32, error) {
	data, err := w.CompressedBuffer(ifdIndex)
	if err != nil {
		return 0, err
	}
	return uint32(len(data)), nil
}

// DNGReader is the read-side mirror of DNGWriter: for each tile whose
// compression tag is VC5, it hands the payload to a TileDecompressor (§6).
type DNGReader struct {
	decompressor TileDecompressor
}

// NewDNGReader returns a reader that decompresses tiles through
// decompressor (ordinarily a *vc5.Decoder, which satisfies TileDecompressor
// through its DecompressTile method).
func NewDNGReader(decompressor TileDecompressor) *DNGReader {
	return &DNGReader{decompressor: decompressor}
}

// ReadTile decompresses one VC5-tagged tile's payload.
func (r *DNGReader) ReadTile(data []byte) (plane []uint16, width, height int, err error) {
	return r.decompressor.DecompressTile(data)
}
