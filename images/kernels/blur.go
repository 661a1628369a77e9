package kernels

import "fmt"

// EdgeMode defines how sampling behaves outside the image bounds.
// - Clamp: repeats edge pixels.
// - Mirror: reflects coordinates.
// - Wrap: tiles the image.
type EdgeMode int

const (
	EdgeClamp EdgeMode = iota
	EdgeMirror
	EdgeWrap
)

// String returns the lower-case name of the mode.
func (m EdgeMode) String() string {
	switch m {
	case EdgeClamp:
		return "clamp"
	case EdgeMirror:
		return "mirror"
	case EdgeWrap:
		return "wrap"
	default:
		return fmt.Sprintf("EdgeMode(%d)", int(m))
	}
}

// ParseEdgeMode maps a name to an EdgeMode. The empty string selects Clamp.
func ParseEdgeMode(s string) (EdgeMode, error) {
	switch s {
	case "", "clamp":
		return EdgeClamp, nil
	case "mirror":
		return EdgeMirror, nil
	case "wrap":
		return EdgeWrap, nil
	default:
		return 0, fmt.Errorf("unknown edge mode %q", s)
	}
}

// Kernel is a 3x3 integer convolution matrix. The weighted sum is divided by
// Divisor (rounded half away from zero) before clamping.
type Kernel struct {
	Weights [3][3]int
	Divisor int
}

// Box returns the normalised 3x3 box blur kernel.
func Box() Kernel {
	return Kernel{
		Weights: [3][3]int{
			{1, 1, 1},
			{1, 1, 1},
			{1, 1, 1},
		},
		Divisor: 9,
	}
}

// Sharpen returns the 3x3 sharpening kernel: center 5, orthogonal
// neighbours -1, corners 0.
func Sharpen() Kernel {
	return Kernel{
		Weights: [3][3]int{
			{0, -1, 0},
			{-1, 5, -1},
			{0, -1, 0},
		},
		Divisor: 1,
	}
}

// Options configures a convolution call.
type Options struct {
	Edge EdgeMode // Edge sampling mode.
}

// mapCoord maps an index i to [0, n) according to edge mode.
// For Clamp: clamp to [0, n-1].
// For Mirror: reflect indices ... -2,-1,0,1,2, ... -> 1,0,0,1,2, ... (no duplication at edges).
// For Wrap: modulo wrap to [0, n).
func mapCoord(i, n int, mode EdgeMode) int {
	switch mode {
	case EdgeMirror:
		if n == 1 {
			return 0
		}
		for i < 0 || i >= n {
			if i < 0 {
				i = -i - 1
			} else {
				i = 2*n - i - 1
			}
		}
		return i
	case EdgeWrap:
		i %= n
		if i < 0 {
			i += n
		}
		return i
	default:
		if i < 0 {
			return 0
		}
		if i >= n {
			return n - 1
		}
		return i
	}
}
