package render

import (
	"fmt"
	"image/color"
	"strconv"
)

// gradient anchors, outside to inside
var anchorHex = [7]string{"#000000", "#05F2DB", "#05C7F2", "#3805F2", "#7C05F2", "#F205CB", "#000000"}

// anchorWavelengths are the band boundaries in nm, one for every anchor color.
var anchorWavelengths = [7]int{380, 439, 489, 509, 579, 644, 780}

var anchors = parseAnchors()

func parseAnchors() [7]color.RGBA {
	var colors [7]color.RGBA
	for i, h := range anchorHex {
		colors[i] = mustHexToRGB(h)
	}
	return colors
}

// band is an inclusive wavelength range blended between two neighbouring anchors.
type band struct {
	lo, hi int
	anchor int // index of the lower of the two anchors
}

var bands = [6]band{
	{380, 439, 0},
	{440, 489, 1},
	{490, 509, 2},
	{510, 579, 3},
	{580, 644, 4},
	{645, 780, 5},
}

// WavelengthToRGB maps a wavelength in nm onto the gradient.
// Wavelengths outside [380, 780] are black.
// It only reads package constants and is safe for concurrent use.
func WavelengthToRGB(wavelength int) color.RGBA {
	for _, b := range bands {
		if wavelength < b.lo || wavelength > b.hi {
			continue
		}
		start := float32(anchorWavelengths[b.anchor])
		end := float32(anchorWavelengths[b.anchor+1])
		return blend(start, end, float32(wavelength), anchors[b.anchor], anchors[b.anchor+1])
	}
	return color.RGBA{A: 0xFF}
}

// blend interpolates every channel linearly between c1 at start and c2 at end.
func blend(start, end, wave float32, c1, c2 color.RGBA) color.RGBA {
	return color.RGBA{
		R: lerp(c1.R, c2.R, start, end, wave),
		G: lerp(c1.G, c2.G, start, end, wave),
		B: lerp(c1.B, c2.B, start, end, wave),
		A: 0xFF,
	}
}

// lerp truncates towards zero, it does not round.
func lerp(a, b uint8, start, end, wave float32) uint8 {
	v := float32(a) + (float32(b)-float32(a))*(wave-start)/(end-start)
	return uint8(v)
}

// HexToRGB decodes a "#RRGGBB" color.
func HexToRGB(hex string) (color.RGBA, error) {
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{}, fmt.Errorf("hex color %q: want #RRGGBB", hex)
	}
	var ch [3]uint8
	for i := range ch {
		v, err := strconv.ParseUint(hex[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("hex color %q: %w", hex, err)
		}
		ch[i] = uint8(v)
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 0xFF}, nil
}

// mustHexToRGB is for color literals compiled into the binary.
// A literal that does not parse is a build defect.
func mustHexToRGB(hex string) color.RGBA {
	c, err := HexToRGB(hex)
	if err != nil {
		panic(err)
	}
	return c
}
