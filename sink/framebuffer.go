package sink

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype/truetype"
	fb "github.com/gonutz/framebuffer"
	"github.com/marben/julia"
	"github.com/marben/julia/internal/logging"
	"github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

const DefaultFramebuffer = "/dev/fb0"

var (
	captionColor  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	captionShadow = color.RGBA{A: 0xFF}
)

// Framebuffer shows the frame on a Linux framebuffer device, scaled to fit.
// The frame keeps its aspect ratio; the rest of the screen is black.
type Framebuffer struct {
	Device string // defaults to DefaultFramebuffer

	// Caption is drawn along the bottom edge when not empty.
	Caption string

	// QRPayload, when not empty, is shown as a QR code in the bottom right corner.
	QRPayload string

	Logger logging.Logger
}

var _ julia.Sink = (*Framebuffer)(nil)

func (s *Framebuffer) Save(img image.Image) error {
	logger := logging.OrNoop(s.Logger)

	device := s.Device
	if device == "" {
		device = DefaultFramebuffer
	}
	dev, err := fb.Open(device)
	if err != nil {
		return fmt.Errorf("fb.Open %s: %w", device, err)
	}
	defer dev.Close()

	bounds := dev.Bounds()
	logger.Infof("fb", "framebuffer open, bounds=%dx%d", bounds.Dx(), bounds.Dy())

	canvas, err := Compose(bounds.Size(), img, s.Caption, s.QRPayload)
	if err != nil {
		return err
	}

	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			dev.Set(bounds.Min.X+x, bounds.Min.Y+y, canvas.RGBAAt(x, y))
		}
	}
	logger.Infof("fb", "frame shown on %s", device)
	return nil
}

// Compose lays img out on a screen of the given size, scaled to fit and centered,
// with the optional caption and QR code on top.
func Compose(screen image.Point, img image.Image, caption, qrPayload string) (*image.RGBA, error) {
	canvas := image.NewRGBA(image.Rectangle{Max: screen})
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)

	xdraw.ApproxBiLinear.Scale(canvas, fitRect(canvas.Bounds(), img.Bounds()), img, img.Bounds(), xdraw.Src, nil)

	if qrPayload != "" {
		side := min(screen.X, screen.Y) / 4
		qr, err := qrCodeImage(qrPayload, side)
		if err != nil {
			return nil, fmt.Errorf("qr code: %w", err)
		}
		margin := side / 10
		at := image.Rect(screen.X-side-margin, screen.Y-side-margin, screen.X-margin, screen.Y-margin)
		draw.Draw(canvas, at, qr, qr.Bounds().Min, draw.Src)
	}

	if caption != "" {
		drawCaption(canvas, caption, captionFace(screen.Y/30))
	}
	return canvas, nil
}

// fitRect returns the largest rectangle with the aspect ratio of src that fits centered into dst.
func fitRect(dst, src image.Rectangle) image.Rectangle {
	dw, dh := dst.Dx(), dst.Dy()
	sw, sh := src.Dx(), src.Dy()
	if sw == 0 || sh == 0 {
		return image.Rectangle{}
	}

	w, h := dw, sh*dw/sw
	if h > dh {
		w, h = sw*dh/sh, dh
	}
	x0 := dst.Min.X + (dw-w)/2
	y0 := dst.Min.Y + (dh-h)/2
	return image.Rect(x0, y0, x0+w, y0+h)
}

func qrCodeImage(payload string, sizePx int) (image.Image, error) {
	qr, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return qr.Image(sizePx), nil
}

// captionFace returns a Go Regular face of the given pixel size.
// Too small sizes fall back to the fixed 7x13 face.
func captionFace(size int) font.Face {
	if size < 10 {
		return basicfont.Face7x13
	}
	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return basicfont.Face7x13
	}
	return truetype.NewFace(ttf, &truetype.Options{Size: float64(size), DPI: 72, Hinting: font.HintingFull})
}

// drawCaption draws text centered over the bottom edge of img, with a one pixel shadow.
func drawCaption(img *image.RGBA, text string, face font.Face) {
	bounds := img.Bounds()
	descent := face.Metrics().Descent.Ceil()
	baseline := bounds.Max.Y - descent - bounds.Dy()/40

	drawer := &font.Drawer{Dst: img, Face: face}
	textWidth := drawer.MeasureString(text).Ceil()
	x := bounds.Min.X + (bounds.Dx()-textWidth)/2

	for _, pass := range []struct {
		c      color.Color
		offset int
	}{{captionShadow, 1}, {captionColor, 0}} {
		drawer.Src = image.NewUniform(pass.c)
		drawer.Dot = fixed.P(x+pass.offset, baseline+pass.offset)
		drawer.DrawString(text)
	}
}
