// Package sink holds the destinations a finished frame can be handed to.
package sink

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/marben/julia"
	"github.com/marben/julia/internal/logging"
)

// PNG encodes the frame into a PNG file at Path, replacing an existing file.
type PNG struct {
	Path   string
	Logger logging.Logger
}

var _ julia.Sink = PNG{}

func (s PNG) Save(img image.Image) error {
	logger := logging.OrNoop(s.Logger)

	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	logger.Infof("png", "frame saved to %q", s.Path)
	return nil
}
