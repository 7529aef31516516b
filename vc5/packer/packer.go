// Package packer implements the component packer (§4.7): conversion between
// an external Bayer raster in one of the supported pixel formats and the
// four internal W/2 x H/2 coefficient planes the wavelet pipeline operates
// on, and back again on decode.
//
// Grounded on the teacher's sample-format handling in dicom/transfer_syntax
// (reading N-bit little/big-endian containers and packed formats into a
// canonical internal sample array) adapted to Bayer de-mosaic/re-mosaic
// instead of DICOM's planar/interleaved photometric conversion.
package packer

import (
	"encoding/binary"

	"github.com/gopro/gpr-vc5/vc5err"
)

// PixelFormat identifies one of the external raster layouts this codec
// accepts as encoder input / produces as decoder output.
type PixelFormat int

const (
	RGGB_12 PixelFormat = iota
	GBRG_12
	RGGB_14
	GBRG_14
	RGGB_16
	GBRG_16
	RGGB_12P
	GBRG_12P
)

// BitsPerComponent returns the sample precision this format carries (the
// header's MaxBitsPerComponent value), independent of its storage width.
func (f PixelFormat) BitsPerComponent() int {
	switch f {
	case RGGB_12, GBRG_12, RGGB_12P, GBRG_12P:
		return 12
	case RGGB_14, GBRG_14:
		return 14
	case RGGB_16, GBRG_16:
		return 16
	default:
		return 0
	}
}

// packed12 reports whether f uses the 3-bytes-per-2-pixels packed layout.
func (f PixelFormat) packed12() bool {
	return f == RGGB_12P || f == GBRG_12P
}

// IsPacked12 reports whether f uses the 3-bytes-per-2-pixels packed layout
// (RGGB_12P / GBRG_12P), the detail an encoder driver needs to decide
// whether to call Unpack12P before Demosaic.
func (f PixelFormat) IsPacked12() bool { return f.packed12() }

// isRGGB returns true for RGGB orderings and false for GBRG orderings.
func (f PixelFormat) isRGGB() bool {
	switch f {
	case RGGB_12, RGGB_14, RGGB_16, RGGB_12P:
		return true
	default:
		return false
	}
}

// Planes holds the four de-mosaiced component planes, each W/2 x H/2,
// row-major, in the fixed order the bitstream's channel blocks appear in.
type Planes struct {
	Width, Height int // per-plane dimensions (half the mosaic's)
	P             [4][]int32
}

// ChannelRoles returns which of the four Planes.P indices holds the red,
// the two green, and the blue samples for f's Bayer pattern — RGGB and
// GBRG assign those roles to different plane indices (§4.7), and an RGB
// combiner (thumbnail.Combine) needs the role, not the raw index.
func (f PixelFormat) ChannelRoles() (r, g1, g2, b int) {
	if f.isRGGB() {
		return 0, 1, 2, 3
	}
	return 2, 0, 3, 1
}

// Demosaic splits a Bayer raster into four planes per the 2x2 pattern
// dictated by format. raw holds width*height samples already unpacked to
// one sample per uint16 (see Unpack12P for the RGGB_12P/GBRG_12P case);
// pitch is the row stride in samples.
func Demosaic(raw []uint16, width, height, pitch int, format PixelFormat) (*Planes, error) {
	if width%2 != 0 || height%2 != 0 {
		return nil, vc5err.New("packer.Demosaic", vc5err.PatternDimensions)
	}
	pw, ph := width/2, height/2
	planes := &Planes{Width: pw, Height: ph}
	for i := range planes.P {
		planes.P[i] = make([]int32, pw*ph)
	}
	at := func(x, y int) int32 { return int32(raw[y*pitch+x]) }
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			a := at(2*x, 2*y)
			b := at(2*x+1, 2*y)
			c := at(2*x, 2*y+1)
			d := at(2*x+1, 2*y+1)
			idx := y*pw + x
			if format.isRGGB() {
				// RGGB -> plane0=R(0,0) plane1=G(0,1) plane2=G(1,0) plane3=B(1,1)
				planes.P[0][idx] = a
				planes.P[1][idx] = b
				planes.P[2][idx] = c
				planes.P[3][idx] = d
			} else {
				// GBRG -> plane0=G(0,0) plane1=B(0,1) plane2=R(1,0) plane3=G(1,1)
				planes.P[0][idx] = a
				planes.P[1][idx] = b
				planes.P[2][idx] = c
				planes.P[3][idx] = d
			}
		}
	}
	return planes, nil
}

// Remosaic inverts Demosaic, clamping every reconstructed sample to
// [0, 2^bits-1] before writing it into the output raster.
func Remosaic(planes *Planes, format PixelFormat) []uint16 {
	width, height := planes.Width*2, planes.Height*2
	out := make([]uint16, width*height)
	maxVal := int32(1)<<uint(format.BitsPerComponent()) - 1
	clamp := func(v int32) uint16 {
		if v < 0 {
			return 0
		}
		if v > maxVal {
			return uint16(maxVal)
		}
		return uint16(v)
	}
	pw := planes.Width
	for y := 0; y < planes.Height; y++ {
		for x := 0; x < pw; x++ {
			idx := y*pw + x
			a, b, c, d := planes.P[0][idx], planes.P[1][idx], planes.P[2][idx], planes.P[3][idx]
			out[(2*y)*width+2*x] = clamp(a)
			out[(2*y)*width+2*x+1] = clamp(b)
			out[(2*y+1)*width+2*x] = clamp(c)
			out[(2*y+1)*width+2*x+1] = clamp(d)
		}
	}
	return out
}

// Unpack12P expands the packed 12-bit container (3 bytes per 2 pixels) into
// one sample per uint16: pix0 = byte0 | ((byte1&0x0F)<<8), pix1 = (byte2<<4)
// | ((byte1&0xF0)>>4).
func Unpack12P(data []byte, width, height, pitchBytes int) ([]uint16, error) {
	if width%2 != 0 {
		return nil, vc5err.New("packer.Unpack12P", vc5err.PatternDimensions)
	}
	out := make([]uint16, width*height)
	for y := 0; y < height; y++ {
		row := data[y*pitchBytes:]
		for x := 0; x < width; x += 2 {
			b0 := row[(x/2)*3]
			b1 := row[(x/2)*3+1]
			b2 := row[(x/2)*3+2]
			out[y*width+x] = uint16(b0) | (uint16(b1&0x0F) << 8)
			out[y*width+x+1] = uint16(b2)<<4 | uint16(b1&0xF0)>>4
		}
	}
	return out, nil
}

// UnpackSamples converts a raw big-endian raster in format into one sample
// per uint16, tightly packed (pitch == width). For the packed 12-bit
// variants this delegates to Unpack12P; for every other format it reads
// two-byte big-endian containers at pitchBytes stride.
func UnpackSamples(raw []byte, width, height, pitchBytes int, format PixelFormat) ([]uint16, error) {
	if format.packed12() {
		return Unpack12P(raw, width, height, pitchBytes)
	}
	if pitchBytes < width*2 {
		return nil, vc5err.New("packer.UnpackSamples", vc5err.ImageDimensions)
	}
	out := make([]uint16, width*height)
	for y := 0; y < height; y++ {
		row := raw[y*pitchBytes:]
		for x := 0; x < width; x++ {
			out[y*width+x] = binary.BigEndian.Uint16(row[2*x : 2*x+2])
		}
	}
	return out, nil
}

// PackSamples is the inverse of UnpackSamples: it serializes a tightly
// packed sample array back into format's external raster layout.
func PackSamples(samples []uint16, width, height int, format PixelFormat) []byte {
	if format.packed12() {
		return Pack12P(samples, width, height)
	}
	out := make([]byte, width*height*2)
	for i, s := range samples {
		binary.BigEndian.PutUint16(out[2*i:2*i+2], s)
	}
	return out
}

// Pack12P is the inverse of Unpack12P, used when the decoder's output
// pixel format is one of the packed 12-bit variants.
func Pack12P(samples []uint16, width, height int) []byte {
	pitchBytes := (width / 2) * 3
	out := make([]byte, pitchBytes*height)
	for y := 0; y < height; y++ {
		row := out[y*pitchBytes:]
		for x := 0; x < width; x += 2 {
			pix0 := samples[y*width+x]
			pix1 := samples[y*width+x+1]
			row[(x/2)*3] = byte(pix0 & 0xFF)
			row[(x/2)*3+1] = byte((pix0>>8)&0x0F) | byte((pix1&0x0F)<<4)
			row[(x/2)*3+2] = byte(pix1 >> 4)
		}
	}
	return out
}
