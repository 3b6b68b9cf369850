package detect

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/autoapprove/claude-auto-approve/internal/model"
	"github.com/autoapprove/claude-auto-approve/internal/platform"
)

type fakeCapturer struct {
	img  image.Image
	err  error
	opts platform.CaptureOptions
}

func (f *fakeCapturer) CaptureWindow(opts platform.CaptureOptions) (image.Image, error) {
	f.opts = opts
	return f.img, f.err
}

type fakeRecognizer struct {
	text   string
	err    error
	called bool
}

func (f *fakeRecognizer) RecognizeText(img image.Image) (string, error) {
	f.called = true
	return f.text, f.err
}

// writeTemplate encodes a gray image as a PNG under dir and returns its path.
func writeTemplate(t *testing.T, dir, name string, img *image.Gray) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

// visualFixture builds a dialog template containing a button template, a
// screen capture with the dialog embedded at (32, 48), and a matcher wired
// to fakes. Offsets are multiples of the coarse matching scale so the
// synthetic embed survives downsampling exactly.
func visualFixture(t *testing.T, rec *fakeRecognizer) (*Matcher, *fakeCapturer) {
	t.Helper()

	button := image.NewGray(image.Rect(0, 0, 16, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			button.SetGray(x, y, color.Gray{Y: uint8((x*41 + y*23 + x*y*5 + 3) % 256)})
		}
	}

	dialog := image.NewGray(image.Rect(0, 0, 80, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 80; x++ {
			dialog.SetGray(x, y, color.Gray{Y: uint8((x*17 + y*89 + x*y*3 + 11) % 256)})
		}
	}
	embed(dialog, button, 40, 28)

	screen := noiseGray(160, 120)
	embed(screen, dialog, 32, 48)

	dir := t.TempDir()
	dialogPath := writeTemplate(t, dir, "dialog.png", dialog)
	buttonPath := writeTemplate(t, dir, "button.png", button)

	capt := &fakeCapturer{img: screen}
	m, err := NewMatcher(capt, rec, dialogPath, buttonPath, 0.9, 0.9, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return m, capt
}

func TestMatcher_FindsDialogAndButton(t *testing.T) {
	rec := &fakeRecognizer{text: "codemcp wants to run: ls"}
	m, capt := visualFixture(t, rec)

	win := model.Window{App: "Claude", PID: 42, Bounds: [4]int{100, 200, 160, 120}}
	res := m.Detect(win)
	if res.Status != StatusFound {
		t.Fatalf("expected StatusFound, got %v", res.Status)
	}

	c := res.Candidate
	if c.Source != model.SourceVisual {
		t.Errorf("expected visual source, got %s", c.Source)
	}
	// Dialog embedded at (32, 48) in a capture of the window at (100, 200).
	if c.DialogBounds != [4]int{132, 248, 80, 60} {
		t.Errorf("unexpected dialog bounds %v", c.DialogBounds)
	}
	if c.ButtonBounds == nil {
		t.Fatal("expected button bounds")
	}
	if *c.ButtonBounds != [4]int{172, 276, 16, 12} {
		t.Errorf("unexpected button bounds %v", *c.ButtonBounds)
	}
	if c.Text != "codemcp wants to run: ls" {
		t.Errorf("unexpected text %q", c.Text)
	}
	if c.Confidence < 0.9 {
		t.Errorf("expected confidence at or above threshold, got %v", c.Confidence)
	}
	if capt.opts.Region != (platform.Bounds{X: 100, Y: 200, Width: 160, Height: 120}) {
		t.Errorf("expected capture of the window region, got %+v", capt.opts.Region)
	}
}

func TestMatcher_NoDialogShortCircuits(t *testing.T) {
	rec := &fakeRecognizer{text: "should never be read"}
	m, capt := visualFixture(t, rec)

	// Uniform capture: nothing correlates, OCR must not run.
	capt.img = image.NewGray(image.Rect(0, 0, 160, 120))

	win := model.Window{Bounds: [4]int{0, 0, 160, 120}}
	if res := m.Detect(win); res.Status != StatusNotFound {
		t.Fatalf("expected StatusNotFound, got %v", res.Status)
	}
	if rec.called {
		t.Error("OCR must not run when no dialog matched")
	}
}

func TestMatcher_OCRFailureDegradesToEmptyText(t *testing.T) {
	rec := &fakeRecognizer{err: fmt.Errorf("tesseract not installed")}
	m, _ := visualFixture(t, rec)

	win := model.Window{Bounds: [4]int{0, 0, 160, 120}}
	res := m.Detect(win)
	if res.Status != StatusFound {
		t.Fatalf("OCR failure must not discard the match, got %v", res.Status)
	}
	if res.Candidate.Text != "" {
		t.Errorf("expected empty text on OCR failure, got %q", res.Candidate.Text)
	}
}

func TestMatcher_OCRUnavailableWarnsOnce(t *testing.T) {
	rec := &fakeRecognizer{err: fmt.Errorf("ocr: %w", platform.ErrUnavailable)}
	m, _ := visualFixture(t, rec)
	core, logs := observer.New(zapcore.WarnLevel)
	m.log = zap.New(core)

	win := model.Window{Bounds: [4]int{0, 0, 160, 120}}
	for i := 0; i < 3; i++ {
		res := m.Detect(win)
		if res.Status != StatusFound {
			t.Fatalf("a missing OCR engine must not discard the match, got %v", res.Status)
		}
		if res.Candidate.Text != "" {
			t.Errorf("expected empty text without an OCR engine, got %q", res.Candidate.Text)
		}
	}
	if got := logs.FilterMessage("OCR engine unavailable, request text extraction disabled").Len(); got != 1 {
		t.Errorf("expected one warning for the missing OCR engine across 3 ticks, got %d", got)
	}
}

// Scores exactly at the configured confidence are accepted; anything below
// is not. The fixture's measured scores pin the boundary on both the dialog
// and the button comparison.
func TestMatcher_ThresholdBoundaryIsInclusive(t *testing.T) {
	rec := &fakeRecognizer{text: "codemcp wants to run: ls"}
	m, capt := visualFixture(t, rec)

	// Reproduce the pipeline's own matching steps to measure the scores.
	gray := ToGray(capt.img)
	dialog := MatchTemplate(gray, m.dialogTpl)
	dw := m.dialogTpl.Gray.Bounds().Dx()
	dh := m.dialogTpl.Gray.Bounds().Dy()
	button := MatchTemplate(cropGray(gray, dialog.X, dialog.Y, dw, dh), m.buttonTpl)
	if dialog.Score <= 0 || button.Score <= 0 {
		t.Fatalf("fixture must produce positive scores, got dialog=%v button=%v", dialog.Score, button.Score)
	}

	win := model.Window{Bounds: [4]int{0, 0, 160, 120}}

	m.dialogConfidence = dialog.Score
	m.buttonConfidence = button.Score
	if res := m.Detect(win); res.Status != StatusFound {
		t.Fatalf("score equal to the threshold must be accepted, got %v", res.Status)
	}

	m.dialogConfidence = math.Nextafter(dialog.Score, 2)
	if res := m.Detect(win); res.Status != StatusNotFound {
		t.Errorf("dialog score below threshold must be rejected, got %v", res.Status)
	}

	m.dialogConfidence = dialog.Score
	m.buttonConfidence = math.Nextafter(button.Score, 2)
	if res := m.Detect(win); res.Status != StatusNotFound {
		t.Errorf("button score below threshold must be rejected, got %v", res.Status)
	}
}

func TestMatcher_CaptureUnavailable(t *testing.T) {
	rec := &fakeRecognizer{}
	m, capt := visualFixture(t, rec)
	capt.img = nil
	capt.err = fmt.Errorf("screen recording: %w", platform.ErrUnavailable)

	win := model.Window{Bounds: [4]int{0, 0, 160, 120}}
	if res := m.Detect(win); res.Status != StatusUnavailable {
		t.Errorf("expected StatusUnavailable, got %v", res.Status)
	}
}

func TestMatcher_TransientCaptureError(t *testing.T) {
	rec := &fakeRecognizer{}
	m, capt := visualFixture(t, rec)
	capt.img = nil
	capt.err = fmt.Errorf("window moved during capture")

	win := model.Window{Bounds: [4]int{0, 0, 160, 120}}
	if res := m.Detect(win); res.Status != StatusNotFound {
		t.Errorf("expected StatusNotFound, got %v", res.Status)
	}
}

func TestNewMatcher_MissingTemplate(t *testing.T) {
	if _, err := NewMatcher(&fakeCapturer{}, &fakeRecognizer{},
		"/nonexistent/dialog.png", "/nonexistent/button.png",
		0.7, 0.8, zap.NewNop()); err == nil {
		t.Error("expected error for missing template files")
	}
}
