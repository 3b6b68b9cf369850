//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework AppKit -framework Foundation
#import <AppKit/AppKit.h>
#include <stdlib.h>
#include <string.h>

static int ns_get_frontmost_app(char **name, char **bundleID, pid_t *pid) {
    @autoreleasepool {
        NSRunningApplication *app = [[NSWorkspace sharedWorkspace] frontmostApplication];
        if (app == nil) return -1;
        const char *n = [app.localizedName UTF8String];
        const char *b = [app.bundleIdentifier UTF8String];
        *name = strdup(n ? n : "");
        *bundleID = strdup(b ? b : "");
        *pid = app.processIdentifier;
        return 0;
    }
}

static int ns_activate_app(pid_t pid) {
    @autoreleasepool {
        NSRunningApplication *app = [NSRunningApplication runningApplicationWithProcessIdentifier:pid];
        if (app == nil) return -1;
        if (![app activateWithOptions:NSApplicationActivateIgnoringOtherApps]) return -1;
        return 0;
    }
}
*/
import "C"
import (
	"fmt"
	"unsafe"

	"github.com/autoapprove/claude-auto-approve/internal/platform"
)

// DarwinWindowManager implements the platform.WindowManager interface for macOS.
type DarwinWindowManager struct{}

// NewWindowManager creates a new macOS window manager.
func NewWindowManager() *DarwinWindowManager {
	return &DarwinWindowManager{}
}

// FrontmostApp returns the application currently holding foreground focus.
func (wm *DarwinWindowManager) FrontmostApp() (platform.AppInfo, error) {
	var cName, cBundle *C.char
	var cPid C.pid_t

	if C.ns_get_frontmost_app(&cName, &cBundle, &cPid) != 0 {
		return platform.AppInfo{}, fmt.Errorf("failed to get frontmost app")
	}
	defer C.free(unsafe.Pointer(cName))
	defer C.free(unsafe.Pointer(cBundle))

	return platform.AppInfo{
		Name:     C.GoString(cName),
		BundleID: C.GoString(cBundle),
		PID:      int(cPid),
	}, nil
}

// ActivateApp brings an application to the foreground by PID.
func (wm *DarwinWindowManager) ActivateApp(pid int) error {
	if C.ns_activate_app(C.pid_t(pid)) != 0 {
		return fmt.Errorf("failed to activate app with PID %d", pid)
	}
	return nil
}
