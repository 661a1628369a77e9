package images

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
)

// Resolution is a named target size accepted wherever a resize is requested.
type Resolution struct {
	Name   string `json:"name"   yaml:"name"`
	Width  int    `json:"width"  yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// MegaPixels returns the pixel count in millions, rounded to two decimal places
// (e.g., 2.07 for 1080p).
func (r Resolution) MegaPixels() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	mp := float64(r.Width*r.Height) / 1_000_000.0
	return math.Round(mp*100) / 100
}

// String returns a human-readable summary of the resolution.
func (r Resolution) String() string {
	return fmt.Sprintf("%s (%dx%d, %.2fMP)", r.Name, r.Width, r.Height, r.MegaPixels())
}

// resolutions are the named presets, smallest first.
var resolutions = []Resolution{
	{Name: "qvga", Width: 320, Height: 240},
	{Name: "nhd", Width: 640, Height: 360},
	{Name: "vga", Width: 640, Height: 480},
	{Name: "540p", Width: 960, Height: 540},
	{Name: "720p", Width: 1280, Height: 720},
	{Name: "1080p", Width: 1920, Height: 1080},
	{Name: "1440p", Width: 2560, Height: 1440},
	{Name: "4k", Width: 3840, Height: 2160},
}

// Resolutions returns a copy of the named presets, smallest first.
func Resolutions() []Resolution {
	return append([]Resolution(nil), resolutions...)
}

// LookupResolution finds a preset by case-insensitive name.
func LookupResolution(name string) (Resolution, bool) {
	return lo.Find(resolutions, func(r Resolution) bool {
		return strings.EqualFold(r.Name, name)
	})
}

// LargestResolutionWithin returns the biggest preset that fits inside
// width x height.
func LargestResolutionWithin(width, height int) (Resolution, bool) {
	fits := lo.Filter(resolutions, func(r Resolution, _ int) bool {
		return r.Width <= width && r.Height <= height
	})
	if len(fits) == 0 {
		return Resolution{}, false
	}
	return lo.MaxBy(fits, func(a, b Resolution) bool { return a.Width*a.Height > b.Width*b.Height }), true
}
