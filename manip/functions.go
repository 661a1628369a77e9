package manip

import (
	"math"

	"github.com/nvr-ai/go-pnm/images"
	"github.com/nvr-ai/go-pnm/images/kernels"
)

// Standard ITU-R BT.601 luma weights.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// mapPlanes builds a new image of the same kind and size as img whose
// planes are fn applied to each source plane.
func mapPlanes(img images.Image, fn func(src []images.Sample, maxval int) []images.Sample) images.Image {
	switch m := img.(type) {
	case *images.Gray:
		return &images.Gray{
			Width:  m.Width,
			Height: m.Height,
			Maxval: m.Maxval,
			Pix:    fn(m.Pix, m.Maxval),
		}
	case *images.Color:
		return &images.Color{
			Width:  m.Width,
			Height: m.Height,
			Maxval: m.Maxval,
			R:      fn(m.R, m.Maxval),
			G:      fn(m.G, m.Maxval),
			B:      fn(m.B, m.Maxval),
		}
	default:
		return img
	}
}

// mapSamples is mapPlanes for per-sample functions.
func mapSamples(img images.Image, fn func(s, maxval int) int) images.Image {
	return mapPlanes(img, func(src []images.Sample, maxval int) []images.Sample {
		out := make([]images.Sample, len(src))
		for i, s := range src {
			out[i] = images.ClampSample(fn(int(s), maxval), maxval)
		}
		return out
	})
}

// NegateImage replaces every sample s with maxval - s.
func NegateImage(img images.Image) images.Image {
	return mapSamples(img, func(s, maxval int) int { return maxval - s })
}

// BrightenImage adds amount to every sample, saturating at 0 and maxval.
func BrightenImage(img images.Image, amount int) images.Image {
	// Bound amount so s+amount cannot overflow int.
	amount = images.Clamp(amount, -2*images.MaxSampleValue, 2*images.MaxSampleValue)
	return mapSamples(img, func(s, _ int) int { return s + amount })
}

// ContrastImage stretches each channel linearly so its minimum maps to 0
// and its maximum to maxval. Flat channels are left unchanged.
func ContrastImage(img images.Image) images.Image {
	return mapPlanes(img, func(src []images.Sample, maxval int) []images.Sample {
		out := append([]images.Sample(nil), src...)
		if len(src) == 0 {
			return out
		}
		lo, hi := int(src[0]), int(src[0])
		for _, s := range src {
			lo = min(lo, int(s))
			hi = max(hi, int(s))
		}
		if hi == lo {
			return out
		}
		for i, s := range src {
			v := images.DivRound((int(s)-lo)*maxval, hi-lo)
			out[i] = images.ClampSample(v, maxval)
		}
		return out
	})
}

// GrayscaleImage converts a color image to gray with round(0.299r +
// 0.587g + 0.114b). Gray input is returned as is.
func GrayscaleImage(img images.Image) images.Image {
	c, ok := img.(*images.Color)
	if !ok {
		return img
	}
	out := images.NewGray(c.Width, c.Height, c.Maxval)
	for i := range out.Pix {
		y := lumaR*float64(c.R[i]) + lumaG*float64(c.G[i]) + lumaB*float64(c.B[i])
		out.Pix[i] = images.ClampSample(int(math.Round(y)), c.Maxval)
	}
	return out
}

// SmoothImage applies a 3x3 box blur to every channel.
func SmoothImage(img images.Image, edge kernels.EdgeMode) images.Image {
	return convolve(img, kernels.Box(), edge)
}

// SharpenImage applies the 3x3 sharpen kernel to every channel.
func SharpenImage(img images.Image, edge kernels.EdgeMode) images.Image {
	return convolve(img, kernels.Sharpen(), edge)
}

func convolve(img images.Image, k kernels.Kernel, edge kernels.EdgeMode) images.Image {
	w, h := img.Size()
	return mapPlanes(img, func(src []images.Sample, maxval int) []images.Sample {
		return kernels.Convolve(src, w, h, k, maxval, kernels.Options{Edge: edge})
	})
}
