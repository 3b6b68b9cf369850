//go:build darwin

package darwin

import (
	"fmt"
	"image"

	robotgo "github.com/go-vgo/robotgo"

	"github.com/autoapprove/claude-auto-approve/internal/platform"
)

// DarwinCapturer implements platform.Capturer using robotgo screen capture.
type DarwinCapturer struct{}

// NewCapturer creates a new macOS capturer.
func NewCapturer() *DarwinCapturer {
	return &DarwinCapturer{}
}

// CaptureWindow captures the pixels of a screen region. The capture is of the
// composited screen, so content covered by other windows is not visible.
func (c *DarwinCapturer) CaptureWindow(opts platform.CaptureOptions) (image.Image, error) {
	region := opts.Region
	if region.Width <= 0 || region.Height <= 0 {
		w, h := robotgo.GetScreenSize()
		region = platform.Bounds{X: 0, Y: 0, Width: w, Height: h}
	}

	bitmap := robotgo.CaptureScreen(region.X, region.Y, region.Width, region.Height)
	if bitmap == nil {
		return nil, fmt.Errorf("screen capture failed (check Screen Recording permission in System Settings > Privacy & Security > Screen Recording)")
	}
	defer robotgo.FreeBitmap(bitmap)

	img := robotgo.ToImage(bitmap)
	if img == nil {
		return nil, fmt.Errorf("failed to convert captured bitmap to image")
	}
	return img, nil
}
