package model

import "strings"

// Window represents an on-screen application window.
type Window struct {
	App       string `json:"app"                 yaml:"app"`
	PID       int    `json:"pid"                 yaml:"pid"`
	Title     string `json:"title"               yaml:"title"`
	ID        int    `json:"id"                  yaml:"id"`
	Bounds    [4]int `json:"bounds"              yaml:"bounds"`
	Frontmost bool   `json:"frontmost,omitempty" yaml:"frontmost,omitempty"`
}

// Area returns the window's bounding area in square pixels.
func (w Window) Area() int {
	return w.Bounds[2] * w.Bounds[3]
}

// MatchWindows returns the windows whose app name or title contains
// pattern, case-insensitively. An empty pattern matches everything.
func MatchWindows(windows []Window, pattern string) []Window {
	if pattern == "" {
		return windows
	}
	p := strings.ToLower(pattern)
	var out []Window
	for _, w := range windows {
		if strings.Contains(strings.ToLower(w.App), p) ||
			strings.Contains(strings.ToLower(w.Title), p) {
			out = append(out, w)
		}
	}
	return out
}

// BestWindow picks the window to act on from a set of matches: the
// frontmost if any, otherwise the one with the largest bounding area
// (the main window is usually larger than auxiliary panels).
func BestWindow(windows []Window) (Window, bool) {
	if len(windows) == 0 {
		return Window{}, false
	}
	best := windows[0]
	for _, w := range windows[1:] {
		if w.Frontmost && !best.Frontmost {
			best = w
			continue
		}
		if !best.Frontmost && w.Area() > best.Area() {
			best = w
		}
	}
	return best, true
}
