// Package kernels implements small integer convolutions over a single
// sample plane.
package kernels

import "github.com/nvr-ai/go-pnm/images"

// Convolve applies k to one w x h plane and returns a freshly allocated
// plane with every result clamped to [0, maxval].
//
// The source is only read and the destination only written, so the result
// does not depend on traversal order. Pixels outside the plane are sampled
// according to opt.Edge.
func Convolve(src []uint16, w, h int, k Kernel, maxval int, opt Options) []uint16 {
	dst := make([]uint16, len(src))
	if w <= 0 || h <= 0 || len(src) < w*h {
		return dst
	}
	div := k.Divisor
	if div <= 0 {
		div = 1
	}

	// Column offsets are the same for every row; resolve them once.
	cols := make([][3]int, w)
	for x := 0; x < w; x++ {
		for dx := -1; dx <= 1; dx++ {
			cols[x][dx+1] = mapCoord(x+dx, w, opt.Edge)
		}
	}

	for y := 0; y < h; y++ {
		var rows [3]int
		for dy := -1; dy <= 1; dy++ {
			rows[dy+1] = mapCoord(y+dy, h, opt.Edge) * w
		}
		for x := 0; x < w; x++ {
			sum := 0
			for ky := 0; ky < 3; ky++ {
				for kx := 0; kx < 3; kx++ {
					if wt := k.Weights[ky][kx]; wt != 0 {
						sum += wt * int(src[rows[ky]+cols[x][kx]])
					}
				}
			}
			dst[y*w+x] = images.ClampSample(images.DivRound(sum, div), maxval)
		}
	}
	return dst
}
