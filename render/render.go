// Package render computes Julia set frames on all CPUs.
//
// A frame is split into rows. Every row is a job for a fixed pool of workers (see Scheduler);
// the workers compute each pixel's escape count (Escape), color it through a wavelength
// gradient (WavelengthToRGB) and send it over one channel to a single Assembler, which is the
// only owner of the output image.
package render

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/marben/julia"
	"github.com/marben/julia/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Renderer runs a Scheduler and an Assembler side by side.
type Renderer struct {
	Workers int                          // see Scheduler.Workers
	OnRow   func(y int, row *image.RGBA) // see Assembler.OnRow
	Logger  logging.Logger
}

// Render computes the frame described by p.
// The assembler drains results while rows are still being dispatched, so the
// result channel only needs to buffer one row.
func (r *Renderer) Render(ctx context.Context, p julia.Params) (*image.RGBA, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	logger := logging.OrNoop(r.Logger)
	start := time.Now()

	results := make(chan julia.Pixel, p.Width)
	sched := Scheduler{Workers: r.Workers, Logger: logger}
	asm := Assembler{OnRow: r.OnRow, Logger: logger}

	// If the assembler fails, the group context is cancelled and the producers stop.
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sched.Run(ctx, p, results)
	})

	var img *image.RGBA
	g.Go(func() error {
		var err error
		img, err = asm.Assemble(results, p)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Infof("render", "%dx%d, %d iterations in %s", p.Width, p.Height, p.MaxIter, time.Since(start))
	return img, nil
}

// RenderTo renders p and hands the finished frame to sink.
func (r *Renderer) RenderTo(ctx context.Context, p julia.Params, sink julia.Sink) error {
	img, err := r.Render(ctx, p)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := sink.Save(img); err != nil {
		return fmt.Errorf("sink.Save: %w", err)
	}
	return nil
}
