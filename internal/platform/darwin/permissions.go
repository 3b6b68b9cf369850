//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation
#include <ApplicationServices/ApplicationServices.h>

static int ax_is_trusted() {
    return AXIsProcessTrusted();
}

static int ax_request_trust() {
    const void *keys[] = { kAXTrustedCheckOptionPrompt };
    const void *values[] = { kCFBooleanTrue };
    CFDictionaryRef options = CFDictionaryCreate(kCFAllocatorDefault,
        keys, values, 1,
        &kCFTypeDictionaryKeyCallBacks,
        &kCFTypeDictionaryValueCallBacks);
    Boolean trusted = AXIsProcessTrustedWithOptions(options);
    CFRelease(options);
    return trusted;
}
*/
import "C"
import (
	"fmt"

	"github.com/autoapprove/claude-auto-approve/internal/platform"
)

// CheckAccessibilityPermission checks if the process has macOS accessibility
// permission. The returned error wraps platform.ErrUnavailable so callers can
// distinguish a denied capability from an ordinary no-match.
func CheckAccessibilityPermission() error {
	if C.ax_is_trusted() == 0 {
		return fmt.Errorf("%w: accessibility permission required\n\n"+
			"Grant permission at: System Settings > Privacy & Security > Accessibility\n"+
			"Add your terminal app (e.g. Terminal.app, iTerm2, or the IDE running this command).\n"+
			"Then restart the terminal and try again.", platform.ErrUnavailable)
	}
	return nil
}

// IsAccessibilityTrusted returns true if the process has accessibility permission.
func IsAccessibilityTrusted() bool {
	return C.ax_is_trusted() != 0
}

// RequestAccessibilityPermission prompts the user for accessibility permission
// via the system dialog. Returns true if already granted.
func RequestAccessibilityPermission() bool {
	return C.ax_request_trust() != 0
}
