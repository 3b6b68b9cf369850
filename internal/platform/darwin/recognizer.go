//go:build darwin

package darwin

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/autoapprove/claude-auto-approve/internal/platform"
)

// DarwinRecognizer implements platform.Recognizer using the Tesseract OCR
// engine via gosseract.
type DarwinRecognizer struct{}

// NewRecognizer creates a new OCR recognizer.
func NewRecognizer() *DarwinRecognizer {
	return &DarwinRecognizer{}
}

// RecognizeText runs OCR over the given image and returns the raw recognized
// text. Output may contain recognition noise; callers normalize it.
func (r *DarwinRecognizer) RecognizeText(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("%w: tesseract rejected image: %v", platform.ErrUnavailable, err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("%w: OCR failed: %v", platform.ErrUnavailable, err)
	}
	return text, nil
}
