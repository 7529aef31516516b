package vc5

import (
	"encoding/binary"

	"github.com/gopro/gpr-vc5/vc5/packer"
	"github.com/gopro/gpr-vc5/vc5err"
)

// CompressTile adapts Encoder to gpr.TileCompressor: it treats plane as one
// tightly packed Bayer tile (width*height samples) at bitsPerComponent
// precision, in the Encoder's own Bayer order (RGGB or GBRG), and returns
// its VC-5 encoding. A DNG writer that already knows
// its own tile layout would call vc5.NewEncoder directly instead; this
// method exists purely to satisfy the collaborator injection interface
// from §9's Design Notes without a DNG writer needing to import vc5/packer
// itself.
func (e *Encoder) CompressTile(plane []uint16, width, height, bitsPerComponent int) ([]byte, error) {
	format, err := formatForBits(bitsPerComponent, e.params.PixelFormat)
	if err != nil {
		return nil, err
	}
	raw := make([]byte, width*height*2)
	for i, s := range plane {
		binary.BigEndian.PutUint16(raw[2*i:2*i+2], s)
	}
	tileEncoder, err := NewEncoder(EncoderParameters{
		Width:       width,
		Height:      height,
		Pitch:       width * 2,
		PixelFormat: format,
		Quality:     e.params.Quality,
		Logger:      e.params.Logger,
	})
	if err != nil {
		return nil, err
	}
	data, _, err := tileEncoder.Encode(raw)
	return data, err
}

// DecompressTile adapts Decoder to gpr.TileDecompressor, reversing
// CompressTile: it decodes the full mosaic raster and returns it as a
// tightly packed uint16 sample array.
func (d *Decoder) DecompressTile(data []byte) (plane []uint16, width, height int, err error) {
	result, err := d.Decode(data)
	if err != nil {
		return nil, 0, 0, err
	}
	if result.Raw == nil {
		return nil, 0, 0, vc5err.New("vc5.Decoder.DecompressTile", vc5err.Unimplemented)
	}
	samples := make([]uint16, result.Width*result.Height)
	for i := range samples {
		samples[i] = binary.BigEndian.Uint16(result.Raw[2*i : 2*i+2])
	}
	return samples, result.Width, result.Height, nil
}

// formatForBits picks the non-packed RGGB/GBRG pixel format matching
// bitsPerComponent, preserving preferred's Bayer pattern (RGGB vs GBRG).
func formatForBits(bits int, preferred packer.PixelFormat) (packer.PixelFormat, error) {
	rggb := preferred == packer.RGGB_12 || preferred == packer.RGGB_14 || preferred == packer.RGGB_16 || preferred == packer.RGGB_12P
	switch bits {
	case 12:
		if rggb {
			return packer.RGGB_12, nil
		}
		return packer.GBRG_12, nil
	case 14:
		if rggb {
			return packer.RGGB_14, nil
		}
		return packer.GBRG_14, nil
	case 16:
		if rggb {
			return packer.RGGB_16, nil
		}
		return packer.GBRG_16, nil
	default:
		return 0, vc5err.New("vc5.formatForBits", vc5err.PixelFormat)
	}
}
