package julia

import (
	"errors"
	"fmt"
	"image/color"
)

// Params fixes one Julia set and the frame it is sampled into.
type Params struct {
	C       complex128 // the constant in z = z*z + c
	Width   int
	Height  int
	MaxIter int
}

// Default is the frame rendered by cmd/julia.
var Default = Params{
	C:       complex(-0.6000935097734532, -0.427862402050194),
	Width:   3840,
	Height:  2160,
	MaxIter: 100,
}

var ErrInvalidParams = errors.New("invalid params")

// Validate reports whether p describes a frame that can be rendered.
func (p Params) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: frame %dx%d", ErrInvalidParams, p.Width, p.Height)
	}
	if p.MaxIter <= 0 {
		return fmt.Errorf("%w: max iterations %d", ErrInvalidParams, p.MaxIter)
	}
	return nil
}

// Pixels returns the number of results a complete frame consists of.
func (p Params) Pixels() int {
	return p.Width * p.Height
}

// Pixel is a single computed result, carrying its own coordinates
// so results can arrive in any order.
type Pixel struct {
	X, Y  int
	Color color.RGBA
}
