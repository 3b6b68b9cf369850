//go:build darwin

// Package darwin provides macOS platform support using CoreGraphics and
// Accessibility APIs, plus robotgo for screen capture and synthetic clicks
// and gosseract for OCR. All functionality requires CGo.
// When CGo is disabled, the package compiles as a no-op stub.
package darwin
