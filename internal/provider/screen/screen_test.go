package screen

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"
)

// fakeCapturer serves two 4x3 and 8x6 displays from memory.
type fakeCapturer struct {
	displays []image.Rectangle
	fail     bool
}

func (f *fakeCapturer) NumDisplays() int { return len(f.displays) }

func (f *fakeCapturer) Bounds(d int) image.Rectangle { return f.displays[d] }

func (f *fakeCapturer) Capture(b image.Rectangle) (image.Image, error) {
	if f.fail {
		return nil, errCapture
	}
	return image.NewRGBA(b), nil
}

var errCapture = &captureError{}

type captureError struct{}

func (*captureError) Error() string { return "capture failed" }

func twoDisplays() *fakeCapturer {
	return &fakeCapturer{displays: []image.Rectangle{
		image.Rect(0, 0, 4, 3),
		image.Rect(4, 0, 12, 6),
	}}
}

func TestScreenshotPrimary(t *testing.T) {
	p := NewWithCapturer(twoDisplays())

	res, err := p.Screenshot(-1)
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if res["width"] != 4 || res["height"] != 3 {
		t.Errorf("dimensions = %vx%v, want 4x3", res["width"], res["height"])
	}
	if res["format"] != "png" {
		t.Errorf("format = %v", res["format"])
	}

	raw, err := base64.StdEncoding.DecodeString(res["image"].(string))
	if err != nil {
		t.Fatalf("image is not base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("image is not png: %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Errorf("decoded width = %d", img.Bounds().Dx())
	}
}

func TestScreenshotSecondMonitor(t *testing.T) {
	p := NewWithCapturer(twoDisplays())
	res, err := p.Screenshot(1)
	if err != nil {
		t.Fatalf("Screenshot(1): %v", err)
	}
	if res["width"] != 8 || res["height"] != 6 {
		t.Errorf("dimensions = %vx%v, want 8x6", res["width"], res["height"])
	}
}

func TestScreenshotInvalidMonitor(t *testing.T) {
	p := NewWithCapturer(twoDisplays())
	if _, err := p.Screenshot(5); err == nil {
		t.Error("out-of-range monitor accepted")
	}
}

func TestScreenshotNoDisplays(t *testing.T) {
	p := NewWithCapturer(&fakeCapturer{})
	if _, err := p.Screenshot(-1); err == nil {
		t.Error("headless host did not error")
	}
}

func TestScreenshotCaptureFailure(t *testing.T) {
	cap := twoDisplays()
	cap.fail = true
	p := NewWithCapturer(cap)
	if _, err := p.Screenshot(-1); err == nil {
		t.Error("capture failure not surfaced")
	}
}

func TestScreenSize(t *testing.T) {
	p := NewWithCapturer(twoDisplays())

	res, err := p.ScreenSize(-1)
	if err != nil {
		t.Fatalf("ScreenSize: %v", err)
	}
	if res["width"] != 4 || res["height"] != 3 {
		t.Errorf("primary size = %vx%v", res["width"], res["height"])
	}
	if res["monitors"] != 2 {
		t.Errorf("monitors = %v, want 2", res["monitors"])
	}

	res, err = p.ScreenSize(1)
	if err != nil {
		t.Fatalf("ScreenSize(1): %v", err)
	}
	if res["width"] != 8 {
		t.Errorf("second monitor width = %v", res["width"])
	}
	if _, present := res["monitors"]; present {
		t.Error("monitor count reported for explicit monitor query")
	}
}
