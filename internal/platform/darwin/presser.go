//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation -framework Foundation
#include <ApplicationServices/ApplicationServices.h>
#include <CoreFoundation/CoreFoundation.h>

extern AXError _AXUIElementGetWindow(AXUIElementRef element, CGWindowID *out);

typedef struct {
    int nextID;
    int targetID;
    int pressed;
} ax_press_ctx;

// ax_press_walk revisits the tree in the same pre-order as ax_walk so that
// sequential IDs line up with a preceding read of the same tree.
static void ax_press_walk(ax_press_ctx *ctx, AXUIElementRef el, int depth, int maxDepth) {
    if (el == NULL || ctx->pressed) return;
    if (maxDepth > 0 && depth > maxDepth) return;
    int id = ctx->nextID++;
    if (id == ctx->targetID) {
        if (AXUIElementPerformAction(el, kAXPressAction) == kAXErrorSuccess) {
            ctx->pressed = 1;
        }
        return;
    }
    CFTypeRef childrenRef = NULL;
    if (AXUIElementCopyAttributeValue(el, kAXChildrenAttribute, &childrenRef) != kAXErrorSuccess) return;
    if (childrenRef) {
        if (CFGetTypeID(childrenRef) == CFArrayGetTypeID()) {
            CFArrayRef children = (CFArrayRef)childrenRef;
            CFIndex nc = CFArrayGetCount(children);
            for (CFIndex i = 0; i < nc && !ctx->pressed; i++) {
                AXUIElementRef child = (AXUIElementRef)CFArrayGetValueAtIndex(children, i);
                ax_press_walk(ctx, child, depth + 1, maxDepth);
            }
        }
        CFRelease(childrenRef);
    }
}

static int ax_press_element(pid_t pid, int windowID, int maxDepth, int elementID) {
    AXUIElementRef app = AXUIElementCreateApplication(pid);
    if (app == NULL) return -1;
    CFTypeRef windowsRef = NULL;
    if (AXUIElementCopyAttributeValue(app, kAXWindowsAttribute, &windowsRef) != kAXErrorSuccess ||
        windowsRef == NULL || CFGetTypeID(windowsRef) != CFArrayGetTypeID()) {
        if (windowsRef) CFRelease(windowsRef);
        CFRelease(app);
        return -2;
    }
    ax_press_ctx ctx = {0, elementID, 0};
    CFArrayRef windows = (CFArrayRef)windowsRef;
    CFIndex n = CFArrayGetCount(windows);
    for (CFIndex i = 0; i < n && !ctx.pressed; i++) {
        AXUIElementRef win = (AXUIElementRef)CFArrayGetValueAtIndex(windows, i);
        if (windowID > 0) {
            CGWindowID wid = 0;
            if (_AXUIElementGetWindow(win, &wid) != kAXErrorSuccess || (int)wid != windowID) continue;
        }
        ax_press_walk(&ctx, win, 1, maxDepth);
    }
    CFRelease(windowsRef);
    CFRelease(app);
    return ctx.pressed ? 0 : -1;
}
*/
import "C"
import (
	"fmt"

	"github.com/autoapprove/claude-auto-approve/internal/platform"
)

// DarwinPresser implements platform.Presser using the AXPress action.
// Pressing via the accessibility API does not require the window to be
// frontmost or unoccluded.
type DarwinPresser struct{}

// NewPresser creates a new macOS presser.
func NewPresser() *DarwinPresser {
	return &DarwinPresser{}
}

// PressElement re-walks the tree in read order and presses the element with
// the given sequential ID. Fails if the tree changed since the read.
func (p *DarwinPresser) PressElement(opts platform.ReadOptions, elementID int) error {
	if err := CheckAccessibilityPermission(); err != nil {
		return err
	}
	if opts.PID == 0 {
		return fmt.Errorf("no target process specified")
	}

	rc := C.ax_press_element(C.pid_t(opts.PID), C.int(opts.WindowID), C.int(opts.Depth), C.int(elementID))
	switch rc {
	case 0:
		return nil
	case -2:
		return fmt.Errorf("%w: cannot read windows of PID %d", platform.ErrUnavailable, opts.PID)
	default:
		return fmt.Errorf("failed to press element %d in PID %d (element may have disappeared)", elementID, opts.PID)
	}
}
