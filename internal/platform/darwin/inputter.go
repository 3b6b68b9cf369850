//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework Foundation
#include <CoreGraphics/CoreGraphics.h>

// Synthesize a left click at screen coordinates.
static int cg_click(float x, float y) {
    CGPoint point = CGPointMake(x, y);

    CGEventRef down = CGEventCreateMouseEvent(NULL, kCGEventLeftMouseDown, point, kCGMouseButtonLeft);
    CGEventRef up = CGEventCreateMouseEvent(NULL, kCGEventLeftMouseUp, point, kCGMouseButtonLeft);
    if (!down || !up) {
        if (down) CFRelease(down);
        if (up) CFRelease(up);
        return -1;
    }
    CGEventPost(kCGHIDEventTap, down);
    CGEventPost(kCGHIDEventTap, up);
    CFRelease(down);
    CFRelease(up);
    return 0;
}
*/
import "C"
import "fmt"

// DarwinInputter implements the platform.Inputter interface for macOS
// using CGEvent mouse synthesis.
type DarwinInputter struct{}

// NewInputter creates a new macOS inputter.
func NewInputter() *DarwinInputter {
	return &DarwinInputter{}
}

// Click performs a single left click at the given screen coordinates.
// The target point must be unoccluded and on the frontmost window for the
// click to land where intended.
func (i *DarwinInputter) Click(x, y int) error {
	if C.cg_click(C.float(x), C.float(y)) != 0 {
		return fmt.Errorf("failed to synthesize click at (%d, %d)", x, y)
	}
	return nil
}
