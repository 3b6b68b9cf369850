//go:build darwin && cgo

package darwin

import "github.com/autoapprove/claude-auto-approve/internal/platform"

func init() {
	platform.RequestPermissionsFunc = func() {
		RequestAccessibilityPermission()
	}
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		reader := NewReader()
		return &platform.Provider{
			Reader:        reader,
			Presser:       NewPresser(),
			WindowManager: NewWindowManager(),
			Inputter:      NewInputter(),
			Capturer:      NewCapturer(),
			Recognizer:    NewRecognizer(),
		}, nil
	}
}
