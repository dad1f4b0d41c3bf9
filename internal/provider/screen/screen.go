// Package screen provides the screen-capture action provider.
// Capture itself is delegated to a Capturer so tests and headless hosts
// can substitute a fake display.
package screen

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"

	"github.com/kbinani/screenshot"

	"github.com/rigpilot/rigpilot/internal/domain/tool"
)

// Capturer abstracts the host display stack.
type Capturer interface {
	NumDisplays() int
	Bounds(display int) image.Rectangle
	Capture(bounds image.Rectangle) (image.Image, error)
}

// hostCapturer captures from the real displays.
type hostCapturer struct{}

func (hostCapturer) NumDisplays() int                  { return screenshot.NumActiveDisplays() }
func (hostCapturer) Bounds(d int) image.Rectangle      { return screenshot.GetDisplayBounds(d) }
func (hostCapturer) Capture(b image.Rectangle) (image.Image, error) {
	return screenshot.CaptureRect(b)
}

// Provider implements the screenshot and get_screen_size tools.
type Provider struct {
	cap Capturer
}

// New returns a Provider backed by the host displays.
func New() *Provider {
	return &Provider{cap: hostCapturer{}}
}

// NewWithCapturer returns a Provider using the given Capturer.
func NewWithCapturer(c Capturer) *Provider {
	return &Provider{cap: c}
}

// Screenshot captures one display and returns a base64-encoded PNG.
// monitor selects the display; a negative value means the primary.
func (p *Provider) Screenshot(monitor int) (map[string]any, error) {
	display, err := p.resolveDisplay(monitor)
	if err != nil {
		return nil, err
	}

	bounds := p.cap.Bounds(display)
	img, err := p.cap.Capture(bounds)
	if err != nil {
		return nil, &tool.ExecutionError{Reason: "screen capture failed", Err: err}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, &tool.ExecutionError{Reason: "encode png", Err: err}
	}

	return tool.Ok(map[string]any{
		"image":  base64.StdEncoding.EncodeToString(buf.Bytes()),
		"width":  bounds.Dx(),
		"height": bounds.Dy(),
		"format": "png",
	}), nil
}

// ScreenSize returns the dimensions of one display, or of the primary
// display plus the display count when monitor is negative.
func (p *Provider) ScreenSize(monitor int) (map[string]any, error) {
	display, err := p.resolveDisplay(monitor)
	if err != nil {
		return nil, err
	}
	bounds := p.cap.Bounds(display)
	result := tool.Ok(map[string]any{
		"width":  bounds.Dx(),
		"height": bounds.Dy(),
	})
	if monitor < 0 {
		result["monitors"] = p.cap.NumDisplays()
	}
	return result, nil
}

func (p *Provider) resolveDisplay(monitor int) (int, error) {
	n := p.cap.NumDisplays()
	if n == 0 {
		return 0, tool.Execf("no active displays")
	}
	if monitor < 0 {
		return 0, nil
	}
	if monitor >= n {
		return 0, tool.Execf("invalid monitor index: %d", monitor)
	}
	return monitor, nil
}
