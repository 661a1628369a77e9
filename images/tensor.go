package images

import (
	"github.com/chewxy/math32"
	"gorgonia.org/tensor"
)

// ToTensor exports img as a float32 tensor of shape [C, H, W] with samples
// normalised to [0, 1] by maxval. C is 1 for gray and 3 for color.
//
// Samples above maxval saturate at 1.
//
// @example
// t := ToTensor(img)
// fmt.Println(t.Shape()) // (3, 480, 640)
func ToTensor(img Image) *tensor.Dense {
	w, h := img.Size()
	planes := img.Planes()
	scale := 1 / float32(img.MaxValue())

	data := make([]float32, 0, len(planes)*w*h)
	for _, p := range planes {
		for _, s := range p {
			data = append(data, math32.Min(float32(s)*scale, 1))
		}
	}

	return tensor.New(
		tensor.WithShape(len(planes), h, w),
		tensor.Of(tensor.Float32),
		tensor.WithBacking(data),
	)
}
