// Package images - canonical in-memory representation of decoded Netpbm rasters.
package images

import "fmt"

// MaxSampleValue is the largest maxval a Netpbm header may declare.
const MaxSampleValue = 65535

// Sample is one channel value of one pixel. It is wide enough for 16-bit
// rasters; 8-bit rasters are widened on decode.
type Sample = uint16

// Image is the closed set of decoded image variants: *Gray and *Color.
//
// Images are treated as immutable once constructed. Operators in package
// manip always return a new Image.
type Image interface {
	// Size returns the width and height in pixels.
	Size() (width, height int)
	// MaxValue returns the declared maxval.
	MaxValue() int
	// Kind reports whether the image is gray or color.
	Kind() ChannelKind
	// Planes returns the sample planes, one for gray and R, G, B for color.
	Planes() [][]Sample

	sealed()
}

// Gray is a single-channel image (PGM).
type Gray struct {
	// Width is the number of columns.
	Width int `json:"width" yaml:"width"`
	// Height is the number of rows.
	Height int `json:"height" yaml:"height"`
	// Maxval is the largest legal sample value.
	Maxval int `json:"maxval" yaml:"maxval"`
	// Pix holds Width*Height samples in row-major order.
	Pix []Sample `json:"pix" yaml:"pix"`
}

// Color is a three-channel image (PPM).
type Color struct {
	// Width is the number of columns.
	Width int `json:"width" yaml:"width"`
	// Height is the number of rows.
	Height int `json:"height" yaml:"height"`
	// Maxval is the largest legal sample value.
	Maxval int `json:"maxval" yaml:"maxval"`
	// R, G and B each hold Width*Height samples in row-major order.
	R []Sample `json:"r" yaml:"r"`
	G []Sample `json:"g" yaml:"g"`
	B []Sample `json:"b" yaml:"b"`
}

// NewGray allocates a zeroed gray image.
func NewGray(width, height, maxval int) *Gray {
	return &Gray{
		Width:  width,
		Height: height,
		Maxval: maxval,
		Pix:    make([]Sample, width*height),
	}
}

// NewColor allocates a zeroed color image.
func NewColor(width, height, maxval int) *Color {
	n := width * height
	return &Color{
		Width:  width,
		Height: height,
		Maxval: maxval,
		R:      make([]Sample, n),
		G:      make([]Sample, n),
		B:      make([]Sample, n),
	}
}

// New allocates a zeroed image of the given kind.
func New(kind ChannelKind, width, height, maxval int) Image {
	if kind == ChannelColor {
		return NewColor(width, height, maxval)
	}
	return NewGray(width, height, maxval)
}

func (g *Gray) Size() (int, int)    { return g.Width, g.Height }
func (g *Gray) MaxValue() int       { return g.Maxval }
func (g *Gray) Kind() ChannelKind   { return ChannelGray }
func (g *Gray) Planes() [][]Sample  { return [][]Sample{g.Pix} }
func (g *Gray) sealed()             {}
func (c *Color) Size() (int, int)   { return c.Width, c.Height }
func (c *Color) MaxValue() int      { return c.Maxval }
func (c *Color) Kind() ChannelKind  { return ChannelColor }
func (c *Color) Planes() [][]Sample { return [][]Sample{c.R, c.G, c.B} }
func (c *Color) sealed()            {}

// Clone returns a deep copy of the image.
func (g *Gray) Clone() *Gray {
	out := *g
	out.Pix = append([]Sample(nil), g.Pix...)
	return &out
}

// Clone returns a deep copy of the image.
func (c *Color) Clone() *Color {
	out := *c
	out.R = append([]Sample(nil), c.R...)
	out.G = append([]Sample(nil), c.G...)
	out.B = append([]Sample(nil), c.B...)
	return &out
}

// Validate checks the structural invariants: positive dimensions, maxval
// in [1, 65535] and every plane holding exactly width*height samples.
// Sample magnitude is not checked.
func Validate(img Image) error {
	if img == nil {
		return fmt.Errorf("nil image")
	}
	w, h := img.Size()
	if w < 1 || h < 1 {
		return fmt.Errorf("invalid dimensions %dx%d", w, h)
	}
	if m := img.MaxValue(); m < 1 || m > MaxSampleValue {
		return fmt.Errorf("maxval %d outside [1, %d]", m, MaxSampleValue)
	}
	for i, p := range img.Planes() {
		if len(p) != w*h {
			return fmt.Errorf("plane %d holds %d samples, want %d", i, len(p), w*h)
		}
	}
	return nil
}

// SampleWidth returns the number of bytes per raw sample for maxval:
// 1 below 256, otherwise 2.
func SampleWidth(maxval int) int {
	if maxval < 256 {
		return 1
	}
	return 2
}
