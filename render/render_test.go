package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"sync"
	"testing"

	"github.com/marben/julia"
	"github.com/marben/julia/internal/logging"
)

type recordingSink struct {
	img image.Image
	err error
}

func (s *recordingSink) Save(img image.Image) error {
	s.img = img
	return s.err
}

func TestRenderDeterministic(t *testing.T) {
	var first *image.RGBA
	for _, workers := range []int{1, 2, 4, 0, 1, 8} {
		r := Renderer{Workers: workers}
		img, err := r.Render(context.Background(), small)
		if err != nil {
			t.Fatalf("workers=%d: Render: %v", workers, err)
		}
		if first == nil {
			first = img
			continue
		}
		if !bytes.Equal(img.Pix, first.Pix) {
			t.Errorf("workers=%d: frame differs from first run", workers)
		}
	}

	for y := 0; y < small.Height; y++ {
		for x := 0; x < small.Width; x++ {
			if got, want := first.RGBAAt(x, y), expectedPixel(small, x, y).Color; got != want {
				t.Errorf("(%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestRenderOnRow(t *testing.T) {
	p := julia.Params{C: julia.Default.C, Width: 32, Height: 18, MaxIter: 30}

	var mu sync.Mutex
	rows := make(map[int]bool)
	r := Renderer{OnRow: func(y int, row *image.RGBA) {
		mu.Lock()
		defer mu.Unlock()
		rows[y] = true
	}}
	if _, err := r.Render(context.Background(), p); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(rows) != p.Height {
		t.Errorf("OnRow saw %d rows, want %d", len(rows), p.Height)
	}
}

func TestRenderInvalidParams(t *testing.T) {
	var r Renderer
	if _, err := r.Render(context.Background(), julia.Params{Width: -1, Height: 2, MaxIter: 1}); !errors.Is(err, julia.ErrInvalidParams) {
		t.Errorf("Render: got %v, want ErrInvalidParams", err)
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var r Renderer
	if _, err := r.Render(ctx, small); err == nil {
		t.Errorf("Render on a cancelled context succeeded")
	}
}

func TestRenderTo(t *testing.T) {
	var logs bytes.Buffer
	r := Renderer{Logger: logging.New(&logs)}
	sink := &recordingSink{}
	if err := r.RenderTo(context.Background(), small, sink); err != nil {
		t.Fatalf("RenderTo: %v", err)
	}
	if sink.img == nil || sink.img.Bounds() != image.Rect(0, 0, small.Width, small.Height) {
		t.Errorf("sink got %v", sink.img)
	}
	if logs.Len() == 0 {
		t.Errorf("nothing logged")
	}
}

func TestRenderToSinkError(t *testing.T) {
	errDisk := errors.New("disk full")
	var r Renderer
	err := r.RenderTo(context.Background(), small, &recordingSink{err: errDisk})
	if !errors.Is(err, errDisk) {
		t.Errorf("RenderTo: got %v, want %v", err, errDisk)
	}
}
