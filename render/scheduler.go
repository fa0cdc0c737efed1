package render

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/marben/julia"
	"github.com/marben/julia/internal/logging"
	"golang.org/x/sync/errgroup"
)

// ErrConsumerGone is returned by a row job whose results can no longer be delivered.
var ErrConsumerGone = errors.New("result consumer gone")

// Scheduler computes a frame row by row on a fixed pool of workers.
type Scheduler struct {
	// Workers is the pool size; zero means one worker per logical CPU.
	Workers int
	Logger  logging.Logger
}

func (s *Scheduler) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.NumCPU()
}

// Run submits one job per row of p and sends every computed pixel to out.
// Rows are dispatched without waiting for earlier rows; at most Workers rows run at once.
// The consumer has to drain out while Run is dispatching.
//
// If ctx is cancelled, a row that cannot hand over its next pixel fails with ErrConsumerGone
// and the remaining rows are abandoned. Run closes out once every started row has returned.
func (s *Scheduler) Run(ctx context.Context, p julia.Params, out chan<- julia.Pixel) error {
	defer close(out)

	if err := p.Validate(); err != nil {
		return err
	}
	logger := logging.OrNoop(s.Logger)

	workers := s.workers()
	logger.Infof("scheduler", "dispatching %d rows on %d workers", p.Height, workers)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for y := 0; y < p.Height; y++ {
		y := y
		g.Go(func() error {
			return renderRow(ctx, p, y, out)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Errorf("scheduler", "aborted: %v", err)
		return err
	}
	logger.Infof("scheduler", "all %d rows computed", p.Height)
	return nil
}

// renderRow computes every pixel of row y.
func renderRow(ctx context.Context, p julia.Params, y int, out chan<- julia.Pixel) error {
	if ctx.Err() != nil {
		return fmt.Errorf("row %d: %w", y, ErrConsumerGone)
	}
	for x := 0; x < p.Width; x++ {
		i := Escape(p.C, x, y, p.Width, p.Height, p.MaxIter)
		px := julia.Pixel{X: x, Y: y, Color: WavelengthToRGB(Wavelength(i, p.MaxIter))}

		select {
		case out <- px:
		case <-ctx.Done():
			return fmt.Errorf("row %d: %w", y, ErrConsumerGone)
		}
	}
	return nil
}
