package model

import "testing"

func TestMatchWindows(t *testing.T) {
	windows := []Window{
		{App: "Claude", PID: 100, Title: "Claude"},
		{App: "Safari", PID: 200, Title: "claude docs - Safari"},
		{App: "Finder", PID: 300, Title: "Home"},
	}

	matched := MatchWindows(windows, "claude")
	if len(matched) != 2 {
		t.Fatalf("expected 2 matches (app and title), got %d", len(matched))
	}

	if got := MatchWindows(windows, ""); len(got) != 3 {
		t.Errorf("empty pattern should match everything, got %d", len(got))
	}
	if got := MatchWindows(windows, "xcode"); got != nil {
		t.Errorf("expected nil for no matches, got %v", got)
	}
}

func TestBestWindow_FrontmostWins(t *testing.T) {
	windows := []Window{
		{App: "Claude", ID: 1, Bounds: [4]int{0, 0, 2000, 1500}},
		{App: "Claude", ID: 2, Bounds: [4]int{0, 0, 100, 100}, Frontmost: true},
	}
	best, ok := BestWindow(windows)
	if !ok {
		t.Fatal("expected a window")
	}
	if best.ID != 2 {
		t.Errorf("frontmost window should win over a larger one, got ID %d", best.ID)
	}
}

func TestBestWindow_LargestAreaFallback(t *testing.T) {
	windows := []Window{
		{App: "Claude", ID: 1, Bounds: [4]int{0, 0, 100, 100}},
		{App: "Claude", ID: 2, Bounds: [4]int{0, 0, 1200, 800}},
		{App: "Claude", ID: 3, Bounds: [4]int{0, 0, 300, 200}},
	}
	best, _ := BestWindow(windows)
	if best.ID != 2 {
		t.Errorf("expected largest window, got ID %d", best.ID)
	}
}

func TestBestWindow_Empty(t *testing.T) {
	if _, ok := BestWindow(nil); ok {
		t.Error("expected no window from empty slice")
	}
}
