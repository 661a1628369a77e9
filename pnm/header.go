// Package pnm decodes and encodes the Netpbm P2, P3, P5 and P6 formats.
package pnm

import (
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/nvr-ai/go-pnm/images"
)

// Header describes a parsed Netpbm header.
type Header struct {
	Channel images.ChannelKind
	Raster  images.RasterKind
	Width   int
	Height  int
	Maxval  int
	// Offset is the index of the first raster byte.
	Offset int
}

// Magic returns the two-byte magic sequence for a channel/raster pair.
func Magic(ch images.ChannelKind, rk images.RasterKind) string {
	switch {
	case ch == images.ChannelGray && rk == images.RasterAscii:
		return "P2"
	case ch == images.ChannelColor && rk == images.RasterAscii:
		return "P3"
	case ch == images.ChannelGray:
		return "P5"
	default:
		return "P6"
	}
}

// Classify maps the first two bytes of data to a channel and raster kind.
func Classify(data []byte) (images.ChannelKind, images.RasterKind, error) {
	if len(data) < 2 || data[0] != 'P' {
		return 0, 0, &FormatError{Kind: ErrUnrecognizedMagic, Magic: prefix(data, 2)}
	}
	switch data[1] {
	case '2':
		return images.ChannelGray, images.RasterAscii, nil
	case '3':
		return images.ChannelColor, images.RasterAscii, nil
	case '5':
		return images.ChannelGray, images.RasterRaw, nil
	case '6':
		return images.ChannelColor, images.RasterRaw, nil
	}
	return 0, 0, &FormatError{Kind: ErrUnrecognizedMagic, Magic: prefix(data, 2)}
}

func prefix(data []byte, n int) []byte {
	if len(data) < n {
		n = len(data)
	}
	return append([]byte(nil), data[:n]...)
}

// scanState is the header scanner position class.
type scanState int

const (
	stateNewline scanState = iota
	stateWhitespace
	stateComment
	stateValue
)

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// isSpaceRune is isSpace for rune-based splitting. Non-ASCII space
// characters are not separators.
func isSpaceRune(r rune) bool {
	return r < 0x80 && isSpace(byte(r))
}

// ParseHeader classifies the magic and scans width, height and maxval.
//
// Whitespace, CR, LF and CRLF line endings and '#' comments may appear
// between any two tokens. The raster starts immediately after the single
// whitespace byte that ends maxval.
func ParseHeader(data []byte) (Header, error) {
	ch, rk, err := Classify(data)
	if err != nil {
		return Header{}, err
	}

	var (
		values [3]int
		found  int
		start  int
		state  = stateNewline
	)
	for i := 2; i < len(data); i++ {
		b := data[i]
		switch state {
		case stateNewline, stateWhitespace:
			switch {
			case b == '#':
				state = stateComment
			case b == '\n' || b == '\r':
				state = stateNewline
			case isSpace(b):
				state = stateWhitespace
			default:
				start = i
				state = stateValue
			}
		case stateComment:
			if b == '\n' || b == '\r' {
				state = stateNewline
			}
		case stateValue:
			if !isSpace(b) {
				continue
			}
			v, err := parseParam(data[start:i], start, found)
			if err != nil {
				return Header{}, err
			}
			values[found] = v
			found++
			if found == len(values) {
				return Header{
					Channel: ch,
					Raster:  rk,
					Width:   values[0],
					Height:  values[1],
					Maxval:  values[2],
					Offset:  i + 1,
				}, nil
			}
			state = stateWhitespace
			if b == '\n' || b == '\r' {
				state = stateNewline
			}
		}
	}
	return Header{}, &FormatError{Kind: ErrTruncatedHeader, Offset: len(data)}
}

// parseParam decodes header token number idx (0 width, 1 height, 2 maxval).
func parseParam(tok []byte, offset, idx int) (int, error) {
	if !utf8.Valid(tok) {
		return 0, &FormatError{Kind: ErrInvalidParam, Token: string(tok), Offset: offset}
	}
	v, err := strconv.ParseUint(string(tok), 10, 64)
	if err != nil {
		return 0, &FormatError{Kind: ErrInvalidParam, Token: string(tok), Offset: offset, Err: err}
	}
	limit := uint64(math.MaxInt32)
	if idx == 2 {
		limit = images.MaxSampleValue
	}
	if v < 1 || v > limit {
		return 0, &FormatError{
			Kind:   ErrInvalidParam,
			Token:  string(tok),
			Offset: offset,
			Err:    strconv.ErrRange,
		}
	}
	return int(v), nil
}
