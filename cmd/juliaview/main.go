// juliaview renders the same frame as julia while streaming it to browsers,
// and can show the result on a Linux framebuffer.
//
//	juliaview -listen :8080 -fb /dev/fb0
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/gops/agent"
	"github.com/marben/julia"
	"github.com/marben/julia/internal/logging"
	"github.com/marben/julia/internal/system"
	"github.com/marben/julia/preview"
	"github.com/marben/julia/render"
	"github.com/marben/julia/sink"
)

type config struct {
	listen   string
	fbDevice string
	out      string
	debug    bool
	gops     bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.listen, "listen", ":8080", "address of the live preview; empty disables it")
	flag.StringVar(&cfg.fbDevice, "fb", "", "framebuffer device to show the finished frame on, e.g. "+sink.DefaultFramebuffer)
	flag.StringVar(&cfg.out, "out", "output.png", "file the finished frame is saved to")
	flag.BoolVar(&cfg.debug, "debug", false, "log every subsystem to stderr")
	flag.BoolVar(&cfg.gops, "gops", false, "start the gops diagnostics agent")
	flag.Parse()

	if err := run(cfg); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func run(cfg config) error {
	var logger logging.Logger = logging.Noop{}
	if cfg.debug {
		logger = logging.New(os.Stderr)
	}

	if cfg.gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			return fmt.Errorf("agent.Listen: %w", err)
		}
		defer agent.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := julia.Default
	hub := preview.NewHub(p.Width, p.Height)
	hub.Logger = logger

	var srv *http.Server
	if cfg.listen != "" {
		l, err := net.Listen("tcp", cfg.listen)
		if err != nil {
			return fmt.Errorf("net.Listen: %w", err)
		}
		srv = webServer(hub, cfg.out)
		go func() {
			if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("http server: %v", err)
			}
		}()
		defer srv.Close()
		log.Printf("live preview on http://%s", l.Addr())
	}

	r := render.Renderer{OnRow: hub.PublishRow, Logger: logger}
	img, err := r.Render(ctx, p)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if err := (sink.PNG{Path: cfg.out, Logger: logger}).Save(img); err != nil {
		return fmt.Errorf("png: %w", err)
	}
	hub.Finish()
	log.Printf("frame saved to %q", cfg.out)

	if cfg.fbDevice != "" {
		if err := system.SetGraphicsMode(); err != nil {
			logger.Errorf("tty", "graphics mode: %v", err)
		}
		defer func() {
			if err := system.RestoreTextMode(); err != nil {
				logger.Errorf("tty", "text mode: %v", err)
			}
		}()

		fbSink := &sink.Framebuffer{
			Device:  cfg.fbDevice,
			Caption: fmt.Sprintf("c = %v, %d iterations", p.C, p.MaxIter),
			Logger:  logger,
		}
		if srv != nil {
			fbSink.QRPayload = previewURL(cfg.listen)
		}
		if err := fbSink.Save(img); err != nil {
			return fmt.Errorf("framebuffer: %w", err)
		}
	}

	if srv == nil && cfg.fbDevice == "" {
		return nil
	}
	log.Printf("frame is up, interrupt to exit")
	<-ctx.Done()
	return nil
}
