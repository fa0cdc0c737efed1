package julia

import (
	"image"
)

// Sink receives a finished frame, e.g. to encode it into a file or put it on a screen.
type Sink interface {
	Save(img image.Image) error
}
