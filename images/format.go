package images

import "fmt"

// ChannelKind distinguishes single-channel from three-channel images.
type ChannelKind int

const (
	// ChannelGray is a single luminance channel (PGM).
	ChannelGray ChannelKind = iota
	// ChannelColor is three R, G, B channels (PPM).
	ChannelColor
)

// String returns the lower-case name of the channel kind.
func (c ChannelKind) String() string {
	switch c {
	case ChannelGray:
		return "gray"
	case ChannelColor:
		return "color"
	default:
		return fmt.Sprintf("ChannelKind(%d)", int(c))
	}
}

// Channels returns the number of sample planes for the kind.
func (c ChannelKind) Channels() int {
	if c == ChannelColor {
		return 3
	}
	return 1
}

// RasterKind selects how samples are serialised after the header.
type RasterKind int

const (
	// RasterAscii stores samples as whitespace separated decimal text (P2, P3).
	RasterAscii RasterKind = iota
	// RasterRaw stores samples as 1 or 2 byte big-endian binary (P5, P6).
	RasterRaw
)

// String returns the lower-case name of the raster kind.
func (r RasterKind) String() string {
	switch r {
	case RasterAscii:
		return "ascii"
	case RasterRaw:
		return "raw"
	default:
		return fmt.Sprintf("RasterKind(%d)", int(r))
	}
}

// ParseRasterKind maps a name to a RasterKind. "binary" is accepted as an
// alias for "raw".
func ParseRasterKind(s string) (RasterKind, error) {
	switch s {
	case "ascii", "plain":
		return RasterAscii, nil
	case "raw", "binary":
		return RasterRaw, nil
	default:
		return 0, fmt.Errorf("unknown raster kind %q", s)
	}
}
