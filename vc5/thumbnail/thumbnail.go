// Package thumbnail implements the RGB preview path described in §4.8 step
// 5 and §4.11: combining the four deepest-LL wavelet subbands (one per
// Bayer component plane) into an 8-bit RGB bitmap, with caller-supplied
// white-balance gains, and optionally rescaling it to a caller-requested
// output size.
//
// Grounded on google-wuffs's lib/handsum/handsum.go, the pack's one example
// of scaling a decoded raster with golang.org/x/image/draw
// (draw.BiLinear.Scale dst/src) — used here via draw.ApproxBiLinear, the
// lower-fidelity variant appropriate for a preview rather than a final
// image.
package thumbnail

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/gopro/gpr-vc5/vc5err"
)

// Thumbnail is an 8-bit RGB bitmap, row-major, 3 bytes per pixel.
type Thumbnail struct {
	Width, Height int
	Pix           []byte
}

// Params carries the per-channel white-balance gains applied while
// combining the four LL planes (§4.8 step 5's "caller-supplied white
// balance gains"). A zero gain is treated as 1.0 (no adjustment).
type Params struct {
	RGain, GGain, BGain float64
}

func (p Params) gains() (r, g, b float64) {
	r, g, b = p.RGain, p.GGain, p.BGain
	if r == 0 {
		r = 1
	}
	if g == 0 {
		g = 1
	}
	if b == 0 {
		b = 1
	}
	return
}

// Combine builds a width x height RGB thumbnail from the red, the two green,
// and the blue deepest-LL planes (callers pick them by
// packer.PixelFormat.ChannelRoles, since RGGB and GBRG place them at
// different plane indices), per §4.8 step 5: R=plane_R,
// G=(plane_G1+plane_G2)/2, B=plane_B.
//
// bitsPerComponent is the source mosaic's precision; an LL plane that has
// gone through levels decompositions carries 4^levels = 2^(2*levels) times
// the original sample magnitude (each level sums a 2x2 block through an
// undivided "a+b" lowpass step on rows and then on columns), so values are
// rescaled down by (bitsPerComponent-8)+2*levels bits (rounded) before gain
// is applied and the result clamped to [0,255].
func Combine(llR, llG1, llG2, llB []int32, width, height, bitsPerComponent, levels int, params Params) (*Thumbnail, error) {
	n := width * height
	if len(llR) != n || len(llG1) != n || len(llG2) != n || len(llB) != n {
		return nil, vc5err.New("thumbnail.Combine", vc5err.ImageDimensions)
	}
	rGain, gGain, bGain := params.gains()
	shift := bitsPerComponent - 8 + 2*levels
	if shift < 0 {
		shift = 0
	}
	round := int32(0)
	if shift > 0 {
		round = 1 << uint(shift-1)
	}
	toByte := func(v int32, gain float64) byte {
		scaled := (v + round) >> uint(shift)
		g := float64(scaled) * gain
		if g < 0 {
			return 0
		}
		if g > 255 {
			return 255
		}
		return byte(g + 0.5)
	}
	pix := make([]byte, n*3)
	for i := 0; i < n; i++ {
		green := (llG1[i] + llG2[i]) / 2
		pix[3*i+0] = toByte(llR[i], rGain)
		pix[3*i+1] = toByte(green, gGain)
		pix[3*i+2] = toByte(llB[i], bGain)
	}
	return &Thumbnail{Width: width, Height: height, Pix: pix}, nil
}

// Resize rescales t to outWidth x outHeight using an approximate bilinear
// filter, appropriate for a preview image rather than a final output.
// Returns t unchanged if the requested size already matches.
func Resize(t *Thumbnail, outWidth, outHeight int) *Thumbnail {
	if outWidth == t.Width && outHeight == t.Height {
		return t
	}
	src := image.NewRGBA(image.Rect(0, 0, t.Width, t.Height))
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			i := (y*t.Width + x) * 3
			src.Set(x, y, color.RGBA{R: t.Pix[i], G: t.Pix[i+1], B: t.Pix[i+2], A: 255})
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, outWidth, outHeight))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	out := &Thumbnail{Width: outWidth, Height: outHeight, Pix: make([]byte, outWidth*outHeight*3)}
	for y := 0; y < outHeight; y++ {
		for x := 0; x < outWidth; x++ {
			o := dst.RGBAAt(x, y)
			i := (y*outWidth + x) * 3
			out.Pix[i], out.Pix[i+1], out.Pix[i+2] = o.R, o.G, o.B
		}
	}
	return out
}
