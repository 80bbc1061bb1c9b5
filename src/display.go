package main

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/image/draw"
)

// frame is a finished framebuffer copy on its way to the presenter
type frame struct {
	Image *image.RGBA
	At    time.Time
}

// Presenter turns frames into PNGs: optionally upscaled, written to disk and
// kept in memory for the HTTP server.
type Presenter struct {
	Path  string
	Scale int

	log  zerolog.Logger
	last atomic.Pointer[[]byte]
}

func NewPresenter(path string, scale int, log zerolog.Logger) *Presenter {
	if scale < 1 {
		scale = 1
	}
	return &Presenter{
		Path:  path,
		Scale: scale,
		log:   log.With().Str("component", "presenter").Logger(),
	}
}

// Present encodes one frame
func (p *Presenter) Present(fb *image.RGBA) error {
	var img image.Image = fb
	if p.Scale > 1 {
		b := fb.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*p.Scale, b.Dy()*p.Scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), fb, b, draw.Src, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	data := buf.Bytes()
	p.last.Store(&data)

	if p.Path == "" {
		return nil
	}
	return writeFileAtomic(p.Path, data)
}

// LastFrame returns the most recent PNG, or nil before the first frame
func (p *Presenter) LastFrame() []byte {
	if data := p.last.Load(); data != nil {
		return *data
	}
	return nil
}

// Run presents frames until the channel is closed
func (p *Presenter) Run(frames <-chan frame) {
	for f := range frames {
		start := time.Now()
		if err := p.Present(f.Image); err != nil {
			p.log.Warn().Err(err).Msg("Failed to present frame")
			continue
		}
		p.log.Debug().
			Time("frame_time", f.At).
			Dur("took", time.Since(start)).
			Msg("Frame presented")
	}
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".frame-*.png")
	if err != nil {
		return fmt.Errorf("failed to create frame file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write frame file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write frame file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// drawCurrentScreen renders the face for now and queues it for presentation
func (app *PartialFace) drawCurrentScreen() {
	wedge := RenderFrame(app.Surface, app.Clock, app.Render)

	app.Log.Debug().
		Float64("x1", wedge.Diameter1.X).
		Float64("y1", wedge.Diameter1.Y).
		Bool("filled", !wedge.Degenerate()).
		Msg("Frame drawn")

	app.triggerRefresh(frame{Image: app.Surface.Snapshot(), At: time.Now()})
}

// triggerRefresh queues a frame for the presenter. Non-blocking: a frame
// still waiting in the channel is stale and gets replaced.
func (app *PartialFace) triggerRefresh(f frame) {
	select {
	case <-app.RefreshChan:
	default:
	}
	select {
	case app.RefreshChan <- f:
	default:
	}
}

// requestRedraw signals the main loop to call drawCurrentScreen on the next iteration.
// Safe to call from any goroutine. Non-blocking.
func (app *PartialFace) requestRedraw() {
	select {
	case app.RedrawChan <- struct{}{}:
	default:
	}
}
