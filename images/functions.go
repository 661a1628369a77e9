// Package images - sample arithmetic helpers and conversion to and from the
// standard library image types.
package images

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"
)

// Clamp restricts value to [min, max].
//
// Arguments:
// - value: The value to clamp.
// - min: The lower bound.
// - max: The upper bound.
//
// Returns:
// - The clamped value.
func Clamp(value, min, max int) int {
	// Check lower bound first (common case for underflow).
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClampSample clamps a widened intermediate result into [0, maxval] and
// narrows it back to a Sample.
func ClampSample(value, maxval int) Sample {
	return Sample(Clamp(value, 0, maxval))
}

// DivRound divides n by a positive d rounding half away from zero.
func DivRound(n, d int) int {
	if n < 0 {
		return -((-n*2 + d) / (2 * d))
	}
	return (n*2 + d) / (2 * d)
}

// rescale maps v from [0, from] to [0, to] with rounding.
func rescale(v, from, to int) int {
	if from == to {
		return v
	}
	return DivRound(v*to, from)
}

// ToStdImage converts img into a standard library image so that it can be
// handed to image/draw, encoders or third-party filters.
//
// Samples are rescaled from [0, maxval] to the target depth: 8-bit types
// (*image.Gray, *image.RGBA) when maxval < 256, 16-bit types (*image.Gray16,
// *image.RGBA64) otherwise. Samples above maxval saturate.
//
// @example
// std := ToStdImage(img)
// _ = png.Encode(w, std)
func ToStdImage(img Image) image.Image {
	w, h := img.Size()
	maxval := img.MaxValue()
	rect := image.Rect(0, 0, w, h)
	wide := SampleWidth(maxval) == 2

	depth := 255
	if wide {
		depth = 65535
	}
	conv := func(s Sample) int {
		return rescale(Clamp(int(s), 0, maxval), maxval, depth)
	}

	switch m := img.(type) {
	case *Gray:
		if wide {
			dst := image.NewGray16(rect)
			for i, s := range m.Pix {
				dst.SetGray16(i%w, i/w, color.Gray16{Y: uint16(conv(s))})
			}
			return dst
		}
		dst := image.NewGray(rect)
		for i, s := range m.Pix {
			dst.Pix[(i/w)*dst.Stride+i%w] = uint8(conv(s))
		}
		return dst
	case *Color:
		if wide {
			dst := image.NewRGBA64(rect)
			for i := range m.R {
				dst.SetRGBA64(i%w, i/w, color.RGBA64{
					R: uint16(conv(m.R[i])),
					G: uint16(conv(m.G[i])),
					B: uint16(conv(m.B[i])),
					A: 0xffff,
				})
			}
			return dst
		}
		dst := image.NewRGBA(rect)
		for i := range m.R {
			off := (i/w)*dst.Stride + (i%w)*4
			dst.Pix[off+0] = uint8(conv(m.R[i]))
			dst.Pix[off+1] = uint8(conv(m.G[i]))
			dst.Pix[off+2] = uint8(conv(m.B[i]))
			dst.Pix[off+3] = 0xff
		}
		return dst
	default:
		return nil
	}
}

// FromStdImage converts a standard library image into an Image of the
// requested kind with the given maxval. Color sources are reduced to gray
// through color.Gray16Model when kind is ChannelGray.
//
// Arguments:
// - src: The source image.
// - kind: The channel kind of the result.
// - maxval: The maxval of the result, in [1, 65535].
//
// Returns:
// - The converted image.
func FromStdImage(src image.Image, kind ChannelKind, maxval int) Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := New(kind, w, h, maxval)
	to := func(v uint32) Sample {
		return ClampSample(rescale(int(v), 0xffff, maxval), maxval)
	}

	switch dst := out.(type) {
	case *Gray:
		for i := range dst.Pix {
			c := src.At(b.Min.X+i%w, b.Min.Y+i/w)
			dst.Pix[i] = to(uint32(color.Gray16Model.Convert(c).(color.Gray16).Y))
		}
	case *Color:
		for i := range dst.R {
			r, g, bb, _ := src.At(b.Min.X+i%w, b.Min.Y+i/w).RGBA()
			dst.R[i], dst.G[i], dst.B[i] = to(r), to(g), to(bb)
		}
	}
	return out
}

// Resize scales img to width x height with Lanczos3 resampling, keeping its
// channel kind and maxval.
//
// Arguments:
// - img: The source image.
// - width: The target width in pixels.
// - height: The target height in pixels.
//
// Returns:
// - The resized image. Non-positive dimensions yield a copy of img's size.
func Resize(img Image, width, height int) Image {
	w, h := img.Size()
	if width <= 0 {
		width = w
	}
	if height <= 0 {
		height = h
	}
	scaled := resize.Resize(uint(width), uint(height), ToStdImage(img), resize.Lanczos3)
	return FromStdImage(scaled, img.Kind(), img.MaxValue())
}
