package platform

import (
	"errors"
	"image"

	"github.com/autoapprove/claude-auto-approve/internal/model"
)

// ErrUnavailable indicates an OS capability is missing or permission was
// denied, as opposed to a per-tick "nothing found" condition. Callers can
// react differently: surface a one-time warning and fall back to the other
// detection strategy instead of retrying silently.
var ErrUnavailable = errors.New("capability unavailable")

// Reader reads windows and UI element trees from the OS accessibility layer.
type Reader interface {
	// ListWindows returns all on-screen windows, optionally filtered.
	ListWindows(opts ListOptions) ([]model.Window, error)

	// ReadElements returns the accessibility element tree for a process.
	// Returns an error wrapping ErrUnavailable when accessibility permission
	// is denied.
	ReadElements(opts ReadOptions) ([]model.Element, error)
}

// Presser performs the accessibility press action on a UI element identified
// by its sequential ID within the given read scope.
type Presser interface {
	PressElement(opts ReadOptions, elementID int) error
}

// WindowManager manages foreground focus.
type WindowManager interface {
	// FrontmostApp returns the application currently holding foreground focus.
	FrontmostApp() (AppInfo, error)

	// ActivateApp brings an application to the foreground by PID.
	ActivateApp(pid int) error
}

// Inputter synthesizes mouse input at screen coordinates.
type Inputter interface {
	Click(x, y int) error
}

// Capturer captures on-screen pixel content. Captured pixels reflect
// occlusion: a covered window yields degraded matches.
type Capturer interface {
	CaptureWindow(opts CaptureOptions) (image.Image, error)
}

// Recognizer extracts text from an image region. Returns an error wrapping
// ErrUnavailable when no OCR engine is installed.
type Recognizer interface {
	RecognizeText(img image.Image) (string, error)
}
