package detect

import (
	"errors"
	"image"
	"sync"

	"go.uber.org/zap"

	"github.com/autoapprove/claude-auto-approve/internal/model"
	"github.com/autoapprove/claude-auto-approve/internal/platform"
)

// Matcher is the pixel/OCR fallback strategy: template-match a dialog frame
// in a window capture, then the approval button within it, then OCR the
// dialog region for the request text.
//
// Captured pixels reflect on-screen occlusion: a covered window yields
// degraded or false-negative matches. Accepted as a platform limitation.
type Matcher struct {
	capturer   platform.Capturer
	recognizer platform.Recognizer
	dialogTpl  *Template
	buttonTpl  *Template

	// Thresholds are inclusive: a score equal to the threshold is accepted.
	dialogConfidence float64
	buttonConfidence float64

	// ocrMissing deduplicates the warning for a permanently absent OCR
	// engine, which would otherwise repeat every poll tick.
	ocrMissing sync.Once

	log *zap.Logger
}

// NewMatcher creates the visual strategy, loading both reference templates.
func NewMatcher(capturer platform.Capturer, recognizer platform.Recognizer,
	dialogPath, buttonPath string, dialogConfidence, buttonConfidence float64,
	log *zap.Logger) (*Matcher, error) {

	dialogTpl, err := LoadTemplate("dialog", dialogPath)
	if err != nil {
		return nil, err
	}
	buttonTpl, err := LoadTemplate("button", buttonPath)
	if err != nil {
		return nil, err
	}
	return &Matcher{
		capturer:         capturer,
		recognizer:       recognizer,
		dialogTpl:        dialogTpl,
		buttonTpl:        buttonTpl,
		dialogConfidence: dialogConfidence,
		buttonConfidence: buttonConfidence,
		log:              log,
	}, nil
}

func (m *Matcher) Name() string { return "visual" }

// Detect captures the window region and runs the three-step visual pipeline.
// A dialog match below threshold short-circuits before button matching and
// OCR: cheaper, and avoids extracting text from non-dialogs.
func (m *Matcher) Detect(win model.Window) Result {
	region := platform.Bounds{
		X:      win.Bounds[0],
		Y:      win.Bounds[1],
		Width:  win.Bounds[2],
		Height: win.Bounds[3],
	}
	capture, err := m.capturer.CaptureWindow(platform.CaptureOptions{Region: region})
	if err != nil {
		if errors.Is(err, platform.ErrUnavailable) {
			return Unavailable(err)
		}
		m.log.Debug("window capture failed", zap.Error(err))
		return NotFound()
	}

	gray := ToGray(capture)

	dialog := MatchTemplate(gray, m.dialogTpl)
	if dialog.Score < m.dialogConfidence {
		m.log.Debug("dialog template below threshold",
			zap.Float64("score", dialog.Score),
			zap.Float64("threshold", m.dialogConfidence))
		return NotFound()
	}

	dw := m.dialogTpl.Gray.Bounds().Dx()
	dh := m.dialogTpl.Gray.Bounds().Dy()
	dialogRegion := cropGray(gray, dialog.X, dialog.Y, dw, dh)

	button := MatchTemplate(dialogRegion, m.buttonTpl)
	if button.Score < m.buttonConfidence {
		m.log.Debug("button template below threshold",
			zap.Float64("score", button.Score),
			zap.Float64("threshold", m.buttonConfidence))
		return NotFound()
	}

	text := m.recognize(dialogRegion)

	bw := m.buttonTpl.Gray.Bounds().Dx()
	bh := m.buttonTpl.Gray.Bounds().Dy()
	buttonBounds := [4]int{
		region.X + dialog.X + button.X,
		region.Y + dialog.Y + button.Y,
		bw,
		bh,
	}
	return Found(model.Candidate{
		Source:       model.SourceVisual,
		DialogBounds: [4]int{region.X + dialog.X, region.Y + dialog.Y, dw, dh},
		ButtonBounds: &buttonBounds,
		Text:         text,
		Confidence:   button.Score,
	})
}

// recognize runs OCR over the dialog region. OCR failure degrades to empty
// text, which the policy engine treats as uncertain (never auto-approved).
// A missing OCR engine is a capability gap, not a transient failure, and is
// reported once at warning level.
func (m *Matcher) recognize(region *image.Gray) string {
	text, err := m.recognizer.RecognizeText(region)
	if err != nil {
		if errors.Is(err, platform.ErrUnavailable) {
			m.ocrMissing.Do(func() {
				m.log.Warn("OCR engine unavailable, request text extraction disabled", zap.Error(err))
			})
		} else {
			m.log.Debug("OCR failed", zap.Error(err))
		}
		return ""
	}
	return text
}

// cropGray returns a copy of a w×h subregion of img at (x, y), clipped to
// the image bounds.
func cropGray(img *image.Gray, x, y, w, h int) *image.Gray {
	r := image.Rect(x, y, x+w, y+h).Intersect(img.Bounds())
	out := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	for row := 0; row < r.Dy(); row++ {
		src := img.PixOffset(r.Min.X, r.Min.Y+row)
		dst := out.PixOffset(0, row)
		copy(out.Pix[dst:dst+r.Dx()], img.Pix[src:src+r.Dx()])
	}
	return out
}
