// Float YCbCr plane conversion.
//
// The coefficient coder works on full-range BT.601 YCbCr planes held as
// float32. The integer converters in image/color round too coarsely for
// coefficient-domain work, so the conversion is done here in floating
// point; images that decode natively to YCbCr (JPEG) are read through
// their own planes instead of being converted twice.

package imageio

import (
	"image"
	"image/color"
)

// Planes holds one full-resolution float32 plane per YCbCr channel,
// row-major, values nominally in [0, 255].
type Planes struct {
	Y, Cb, Cr []float32
	W, H      int
}

// ExtractPlanes converts a decoded carrier into float YCbCr planes.
func ExtractPlanes(img image.Image) *Planes {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	p := &Planes{
		Y:  make([]float32, w*h),
		Cb: make([]float32, w*h),
		Cr: make([]float32, w*h),
		W:  w,
		H:  h,
	}

	if native, ok := img.(*image.YCbCr); ok {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := native.YCbCrAt(bounds.Min.X+x, bounds.Min.Y+y)
				i := y*w + x
				p.Y[i] = float32(c.Y)
				p.Cb[i] = float32(c.Cb)
				p.Cr[i] = float32(c.Cr)
			}
		}
		return p
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r16, g16, b16, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			r := float32(r16 >> 8)
			g := float32(g16 >> 8)
			b := float32(b16 >> 8)
			i := y*w + x
			p.Y[i] = 0.299*r + 0.587*g + 0.114*b
			p.Cb[i] = 128 - 0.168736*r - 0.331264*g + 0.5*b
			p.Cr[i] = 128 + 0.5*r - 0.418688*g - 0.081312*b
		}
	}
	return p
}

// Image rounds the planes back to an 8-bit 4:4:4 YCbCr image.
func (p *Planes) Image() *image.YCbCr {
	img := image.NewYCbCr(image.Rect(0, 0, p.W, p.H), image.YCbCrSubsampleRatio444)
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			i := y*p.W + x
			img.Y[y*img.YStride+x] = quantize(p.Y[i])
			img.Cb[y*img.CStride+x] = quantize(p.Cb[i])
			img.Cr[y*img.CStride+x] = quantize(p.Cr[i])
		}
	}
	return img
}

// quantize rounds a float sample to uint8 with clamping.
func quantize(v float32) uint8 {
	r := int(v + 0.5)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}

// ToNRGBA converts a decoded carrier into NRGBA form for the spatial
// coder, preserving alpha where present.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	bounds := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.Set(x-bounds.Min.X, y-bounds.Min.Y, color.NRGBAModel.Convert(img.At(x, y)))
		}
	}
	return out
}
