package pnm

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/nvr-ai/go-pnm/images"
)

// Decode parses a complete P2, P3, P5 or P6 file held in memory.
//
// Samples larger than maxval are accepted and passed through unchanged.
func Decode(data []byte) (images.Image, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	return DecodeRaster(h, data[h.Offset:])
}

// DecodeRaster converts raster bytes into an image using an already parsed
// header. The raster must hold exactly the number of samples the header
// declares.
func DecodeRaster(h Header, raster []byte) (images.Image, error) {
	n, ok := sampleCount(h)
	if h.Raster == images.RasterRaw {
		sw := images.SampleWidth(h.Maxval)
		if !ok || n > math.MaxInt/sw || n*sw != len(raster) {
			expected := -1
			if ok && n <= math.MaxInt/sw {
				expected = n * sw
			}
			return nil, &FormatError{Kind: ErrSizeMismatch, Expected: expected, Actual: len(raster)}
		}
		return decodeRaw(h, raster, sw), nil
	}
	return decodeAscii(h, raster, n, ok)
}

// sampleCount returns width*height*channels, or false on overflow.
func sampleCount(h Header) (int, bool) {
	c := h.Channel.Channels()
	if h.Width <= 0 || h.Height <= 0 || h.Width > math.MaxInt/h.Height/c {
		return 0, false
	}
	return h.Width * h.Height * c, true
}

func decodeRaw(h Header, raster []byte, sw int) images.Image {
	img := images.New(h.Channel, h.Width, h.Height, h.Maxval)
	planes := img.Planes()
	c := len(planes)

	for i := 0; i < len(raster)/sw; i++ {
		var s images.Sample
		if sw == 2 {
			s = binary.BigEndian.Uint16(raster[i*2:])
		} else {
			s = images.Sample(raster[i])
		}
		planes[i%c][i/c] = s
	}
	return img
}

func decodeAscii(h Header, raster []byte, n int, ok bool) (images.Image, error) {
	if !utf8.Valid(raster) {
		return nil, &FormatError{Kind: ErrInvalidAsciiRaster, Offset: h.Offset + invalidUTF8At(raster)}
	}
	tokens := bytes.FieldsFunc(raster, isSpaceRune)
	if !ok || len(tokens) != n {
		expected := n
		if !ok {
			expected = -1
		}
		return nil, &FormatError{Kind: ErrSizeMismatch, Expected: expected, Actual: len(tokens)}
	}

	img := images.New(h.Channel, h.Width, h.Height, h.Maxval)
	planes := img.Planes()
	c := len(planes)
	for i, tok := range tokens {
		v, err := strconv.ParseUint(string(tok), 10, 16)
		if err != nil {
			return nil, &FormatError{Kind: ErrInvalidAsciiRaster, Token: string(tok), Offset: i, Err: err}
		}
		planes[i%c][i/c] = images.Sample(v)
	}
	return img, nil
}

func invalidUTF8At(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}
