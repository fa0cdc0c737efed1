// julia renders the Julia set for c = -0.6000935097734532 - 0.427862402050194i
// at 3840x2160 on all CPUs and saves it as output.png in the working directory.
package main

import (
	"context"
	"log"

	"github.com/marben/julia"
	"github.com/marben/julia/render"
	"github.com/marben/julia/sink"
)

const outputPath = "output.png"

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func run() error {
	p := julia.Default
	log.Printf("rendering %dx%d, %d iterations, c = %v", p.Width, p.Height, p.MaxIter, p.C)

	r := render.Renderer{}
	if err := r.RenderTo(context.Background(), p, sink.PNG{Path: outputPath}); err != nil {
		return err
	}

	log.Printf("fully rendered file saved to %q", outputPath)
	return nil
}
