package render

import (
	"errors"
	"image"
	"math/rand"
	"testing"

	"github.com/marben/julia"
)

func framePixels(p julia.Params) []julia.Pixel {
	pixels := make([]julia.Pixel, 0, p.Pixels())
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			pixels = append(pixels, expectedPixel(p, x, y))
		}
	}
	return pixels
}

func feed(pixels []julia.Pixel) <-chan julia.Pixel {
	ch := make(chan julia.Pixel, len(pixels))
	for _, px := range pixels {
		ch <- px
	}
	close(ch)
	return ch
}

func TestAssembleAnyOrder(t *testing.T) {
	p := julia.Params{C: julia.Default.C, Width: 5, Height: 3, MaxIter: 10}
	pixels := framePixels(p)
	rand.New(rand.NewSource(1)).Shuffle(len(pixels), func(i, j int) {
		pixels[i], pixels[j] = pixels[j], pixels[i]
	})

	rows := make(map[int]int)
	a := Assembler{OnRow: func(y int, row *image.RGBA) {
		rows[y]++
		if row.Bounds() != image.Rect(0, y, p.Width, y+1) {
			t.Errorf("row %d has bounds %v", y, row.Bounds())
		}
		for x := 0; x < p.Width; x++ {
			if got, want := row.RGBAAt(x, y), expectedPixel(p, x, y).Color; got != want {
				t.Errorf("row %d pixel %d = %v, want %v", y, x, got, want)
			}
		}
	}}

	img, err := a.Assemble(feed(pixels), p)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	for _, px := range framePixels(p) {
		if got := img.RGBAAt(px.X, px.Y); got != px.Color {
			t.Errorf("(%d, %d) = %v, want %v", px.X, px.Y, got, px.Color)
		}
	}
	if len(rows) != p.Height {
		t.Errorf("OnRow saw %d rows, want %d", len(rows), p.Height)
	}
	for y, n := range rows {
		if n != 1 {
			t.Errorf("OnRow called %d times for row %d", n, y)
		}
	}
}

func TestAssembleErrors(t *testing.T) {
	p := julia.Params{C: julia.Default.C, Width: 3, Height: 2, MaxIter: 10}
	pixels := framePixels(p)

	dup := append([]julia.Pixel{}, pixels[:3]...)
	dup = append(dup, pixels[1])

	outside := append([]julia.Pixel{}, pixels[:2]...)
	outside = append(outside, julia.Pixel{X: 3, Y: 0})

	tests := []struct {
		name   string
		pixels []julia.Pixel
		want   error
	}{
		{"empty", nil, ErrIncompleteFrame},
		{"closed early", pixels[:len(pixels)-1], ErrIncompleteFrame},
		{"duplicate", dup, ErrDuplicatePixel},
		{"outside", outside, ErrBadPixel},
		{"negative", []julia.Pixel{{X: -1, Y: 0}}, ErrBadPixel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Assembler
			img, err := a.Assemble(feed(tt.pixels), p)
			if !errors.Is(err, tt.want) {
				t.Errorf("Assemble: got %v, want %v", err, tt.want)
			}
			if img != nil {
				t.Errorf("Assemble returned an image along with an error")
			}
		})
	}
}
