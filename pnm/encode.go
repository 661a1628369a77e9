package pnm

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/nvr-ai/go-pnm/images"
)

// Encode serialises img with the canonical header
// "P{2,3,5,6}\n{width} {height}\n{maxval}\n" followed by the raster.
//
// Samples above maxval are clamped so that raw output always respects the
// sample width implied by maxval.
func Encode(img images.Image, rk images.RasterKind) []byte {
	var buf bytes.Buffer
	w, h := img.Size()
	buf.Grow(32 + w*h*len(img.Planes())*4)
	// Writes to a bytes.Buffer cannot fail.
	_ = Write(&buf, img, rk)
	return buf.Bytes()
}

// Write streams the encoded image to w.
func Write(w io.Writer, img images.Image, rk images.RasterKind) error {
	bw := bufio.NewWriter(w)
	width, height := img.Size()
	maxval := img.MaxValue()

	if _, err := fmt.Fprintf(bw, "%s\n%d %d\n%d\n", Magic(img.Kind(), rk), width, height, maxval); err != nil {
		return err
	}

	planes := img.Planes()
	sample := func(c, i int) images.Sample {
		s := planes[c][i]
		if int(s) > maxval {
			return images.Sample(maxval)
		}
		return s
	}

	if rk == images.RasterRaw {
		wide := images.SampleWidth(maxval) == 2
		for i := 0; i < width*height; i++ {
			for c := range planes {
				s := sample(c, i)
				if wide {
					bw.WriteByte(byte(s >> 8))
				}
				bw.WriteByte(byte(s))
			}
		}
		return bw.Flush()
	}

	var num []byte
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			for c := range planes {
				if x > 0 || c > 0 {
					bw.WriteByte(' ')
				}
				num = strconv.AppendUint(num[:0], uint64(sample(c, i)), 10)
				bw.Write(num)
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
