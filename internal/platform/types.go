package platform

// Bounds represents a screen rectangle.
type Bounds struct {
	X, Y, Width, Height int
}

// ToArray converts Bounds to the [x, y, width, height] form used by the model.
func (b Bounds) ToArray() [4]int {
	return [4]int{b.X, b.Y, b.Width, b.Height}
}

// ListOptions controls window enumeration. Name-based filtering happens on
// the returned slice via model.MatchWindows.
type ListOptions struct {
	PID int // Filter by process ID (0 = unset)
}

// ReadOptions controls accessibility tree reads.
type ReadOptions struct {
	PID      int // Target process ID
	WindowID int // Restrict to a specific window (0 = all windows)
	Depth    int // Max traversal depth (0 = unlimited)
}

// CaptureOptions configures a screen region capture.
type CaptureOptions struct {
	Region Bounds // Screen region to capture (zero = full screen)
}

// AppInfo identifies a running application.
type AppInfo struct {
	Name     string
	BundleID string
	PID      int
}
