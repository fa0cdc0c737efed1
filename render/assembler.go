package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/marben/julia"
	"github.com/marben/julia/internal/logging"
)

var (
	// ErrIncompleteFrame means the result channel was closed before every pixel arrived.
	ErrIncompleteFrame = errors.New("result channel closed before frame was complete")

	ErrBadPixel       = errors.New("pixel outside of frame")
	ErrDuplicatePixel = errors.New("pixel delivered twice")
)

// Assembler collects pixel results into a frame.
// The frame is only ever touched by the goroutine calling Assemble.
type Assembler struct {
	// OnRow, if set, is called from Assemble each time a row has received all its pixels.
	// row aliases the frame and must not be retained after OnRow returns.
	OnRow  func(y int, row *image.RGBA)
	Logger logging.Logger
}

// Assemble receives exactly p.Pixels() results from results and returns the filled frame.
// Results may arrive in any order.
func (a *Assembler) Assemble(results <-chan julia.Pixel, p julia.Params) (*image.RGBA, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	logger := logging.OrNoop(a.Logger)

	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	total := p.Pixels()
	seen := make([]bool, total)
	rowFill := make([]int, p.Height)

	for received := 0; received < total; received++ {
		px, ok := <-results
		if !ok {
			logger.Errorf("assembler", "channel closed after %d of %d pixels", received, total)
			return nil, fmt.Errorf("%w: got %d of %d pixels", ErrIncompleteFrame, received, total)
		}
		if px.X < 0 || px.X >= p.Width || px.Y < 0 || px.Y >= p.Height {
			return nil, fmt.Errorf("%w: (%d, %d) in %dx%d", ErrBadPixel, px.X, px.Y, p.Width, p.Height)
		}
		idx := px.Y*p.Width + px.X
		if seen[idx] {
			return nil, fmt.Errorf("%w: (%d, %d)", ErrDuplicatePixel, px.X, px.Y)
		}
		seen[idx] = true

		img.SetRGBA(px.X, px.Y, px.Color)

		rowFill[px.Y]++
		if rowFill[px.Y] == p.Width && a.OnRow != nil {
			a.OnRow(px.Y, img.SubImage(image.Rect(0, px.Y, p.Width, px.Y+1)).(*image.RGBA))
		}
	}

	logger.Infof("assembler", "frame %dx%d complete", p.Width, p.Height)
	return img, nil
}
