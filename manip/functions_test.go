package manip

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-pnm/images"
	"github.com/nvr-ai/go-pnm/images/kernels"
)

func makeGrayImage() *images.Gray {
	return &images.Gray{
		Width:  3,
		Height: 4,
		Maxval: 255,
		Pix:    []images.Sample{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
	}
}

func makeColorImage() *images.Color {
	return &images.Color{
		Width:  3,
		Height: 4,
		Maxval: 255,
		R:      []images.Sample{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		G:      []images.Sample{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13},
		B:      []images.Sample{3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14},
	}
}

func randomImage(rng *rand.Rand, kind images.ChannelKind, w, h, maxval int) images.Image {
	img := images.New(kind, w, h, maxval)
	for _, p := range img.Planes() {
		for i := range p {
			p[i] = images.Sample(rng.Intn(maxval + 1))
		}
	}
	return img
}

func TestBrightenScenario(t *testing.T) {
	out := Apply(makeGrayImage(), Brighten(10)).(*images.Gray)
	assert.Equal(t, []images.Sample{11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22}, out.Pix)
	assert.Equal(t, 3, out.Width)
	assert.Equal(t, 4, out.Height)
	assert.Equal(t, 255, out.Maxval)
}

func TestBrightenClamps(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for _, amount := range []int{-1 << 40, -70000, -300, -1, 0, 1, 300, 70000, 1 << 40} {
		for _, maxval := range []int{15, 255, 65535} {
			img := randomImage(rng, images.ChannelColor, 4, 3, maxval)
			out := Apply(img, Brighten(amount))
			for _, p := range out.Planes() {
				for _, s := range p {
					require.LessOrEqual(t, int(s), maxval, "amount=%d", amount)
				}
			}
		}
	}
	out := Apply(makeGrayImage(), Brighten(-5)).(*images.Gray)
	assert.Equal(t, []images.Sample{0, 0, 0, 0, 0, 1, 2, 3, 4, 5, 6, 7}, out.Pix)
}

func TestNegateSingleRedPixel(t *testing.T) {
	red := &images.Color{Width: 1, Height: 1, Maxval: 255,
		R: []images.Sample{255}, G: []images.Sample{0}, B: []images.Sample{0}}
	out := Apply(red, Negate()).(*images.Color)
	assert.Equal(t, []images.Sample{0}, out.R)
	assert.Equal(t, []images.Sample{255}, out.G)
	assert.Equal(t, []images.Sample{255}, out.B)
}

func TestNegateIsInvolution(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for _, kind := range []images.ChannelKind{images.ChannelGray, images.ChannelColor} {
		for _, maxval := range []int{1, 15, 255, 65535} {
			img := randomImage(rng, kind, 5, 4, maxval)
			assert.Equal(t, img, Apply(Apply(img, Negate()), Negate()))
		}
	}
}

func TestGrayscaleIdentityOnGray(t *testing.T) {
	img := makeGrayImage()
	assert.Equal(t, images.Image(img), Apply(img, Grayscale()))
}

func TestGrayscaleLuma(t *testing.T) {
	img := &images.Color{Width: 4, Height: 1, Maxval: 255,
		R: []images.Sample{255, 0, 0, 10},
		G: []images.Sample{0, 255, 0, 20},
		B: []images.Sample{0, 0, 255, 30},
	}
	out, ok := Apply(img, Grayscale()).(*images.Gray)
	require.True(t, ok)
	// 0.299*255 = 76.245, 0.587*255 = 149.685, 0.114*255 = 29.07,
	// 2.99 + 11.74 + 3.42 = 18.15
	assert.Equal(t, []images.Sample{76, 150, 29, 18}, out.Pix)
	assert.Equal(t, 255, out.Maxval)
}

func TestContrastStretch(t *testing.T) {
	out := Apply(makeGrayImage(), Contrast()).(*images.Gray)
	assert.Equal(t, images.Sample(0), out.Pix[0])
	assert.Equal(t, images.Sample(255), out.Pix[11])
	// (6-1)*255/11 = 115.9
	assert.Equal(t, images.Sample(116), out.Pix[5])
}

func TestContrastPerChannelAndFlat(t *testing.T) {
	img := &images.Color{Width: 3, Height: 1, Maxval: 15,
		R: []images.Sample{2, 4, 6},
		G: []images.Sample{9, 9, 9},
		B: []images.Sample{0, 15, 5},
	}
	out := Apply(img, Contrast()).(*images.Color)
	assert.Equal(t, []images.Sample{0, 8, 15}, out.R)
	assert.Equal(t, []images.Sample{9, 9, 9}, out.G, "flat channel unchanged")
	assert.Equal(t, []images.Sample{0, 15, 5}, out.B, "already full range")
}

func TestSmoothFlatImageUnchanged(t *testing.T) {
	img := &images.Gray{Width: 3, Height: 3, Maxval: 255,
		Pix: []images.Sample{50, 50, 50, 50, 50, 50, 50, 50, 50}}
	assert.Equal(t, images.Image(img), Apply(img, Smooth()))
}

func TestSmoothEdgeClamp(t *testing.T) {
	img := &images.Gray{Width: 3, Height: 3, Maxval: 255,
		Pix: []images.Sample{
			90, 0, 0,
			0, 0, 0,
			0, 0, 0,
		}}
	out := Apply(img, Smooth()).(*images.Gray)
	// The corner is replicated into four of its nine taps.
	assert.Equal(t, images.Sample(40), out.Pix[0])
	assert.Equal(t, images.Sample(20), out.Pix[1])
	assert.Equal(t, images.Sample(10), out.Pix[4])
	assert.Equal(t, images.Sample(0), out.Pix[8])
}

func TestSharpen(t *testing.T) {
	img := &images.Gray{Width: 3, Height: 3, Maxval: 255,
		Pix: []images.Sample{
			10, 10, 10,
			10, 50, 10,
			10, 10, 10,
		}}
	out := Apply(img, Sharpen()).(*images.Gray)
	// 5*50 - 4*10 = 210
	assert.Equal(t, images.Sample(210), out.Pix[4])
	// Corner: 5*10 - (10 + 10 + 10 + 10) = 10
	assert.Equal(t, images.Sample(10), out.Pix[0])
	// Edge midpoint: 5*10 - (10 + 50 + 10 + 10) = -30, clamped.
	assert.Equal(t, images.Sample(0), out.Pix[1])
}

func TestSmoothSharpenEdgeModes(t *testing.T) {
	img := &images.Gray{Width: 3, Height: 1, Maxval: 255, Pix: []images.Sample{90, 0, 0}}
	clampOut := SmoothImage(img, kernels.EdgeClamp).(*images.Gray)
	wrapOut := SmoothImage(img, kernels.EdgeWrap).(*images.Gray)
	assert.Equal(t, []images.Sample{60, 30, 0}, clampOut.Pix)
	assert.Equal(t, []images.Sample{30, 30, 30}, wrapOut.Pix)
}

func TestOperatorsArePure(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	ops := []Op{None(), Negate(), Brighten(40), Contrast(), Grayscale(), Smooth(), Sharpen(), Resize(3, 2)}
	for _, kind := range []images.ChannelKind{images.ChannelGray, images.ChannelColor} {
		img := randomImage(rng, kind, 6, 5, 255)
		sum := images.Checksum(img)
		for _, op := range ops {
			out := Apply(img, op)
			require.NoError(t, images.Validate(out), op.String())
			assert.Equal(t, sum, images.Checksum(img), "%s mutated its input", op)
			assert.Equal(t, out, Apply(img, op), "%s is not deterministic", op)
		}
	}
}

func TestResizeKeepsKindAndMaxval(t *testing.T) {
	out := Apply(makeColorImage(), Resize(6, 8))
	w, h := out.Size()
	assert.Equal(t, 6, w)
	assert.Equal(t, 8, h)
	assert.Equal(t, images.ChannelColor, out.Kind())
	assert.Equal(t, 255, out.MaxValue())
}

func TestParseKind(t *testing.T) {
	for k, name := range kindNames {
		got, err := ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("blur")
	assert.Error(t, err)
	assert.Equal(t, "brighten(-3)", Brighten(-3).String())
	assert.Equal(t, "smooth(wrap)", Op{Kind: KindSmooth, Edge: kernels.EdgeWrap}.String())
}
