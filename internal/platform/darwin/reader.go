//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation -framework ApplicationServices -framework Foundation
#include <CoreGraphics/CoreGraphics.h>
#include <CoreFoundation/CoreFoundation.h>
#include <ApplicationServices/ApplicationServices.h>
#include <stdlib.h>
#include <string.h>

typedef struct {
    int windowID;
    int pid;
    int layer;
    char *appName;
    char *title;
    float x, y, width, height;
} CGWindowInfo;

static char *cf_string_dup(CFStringRef s) {
    if (s == NULL) return strdup("");
    CFIndex len = CFStringGetMaximumSizeForEncoding(CFStringGetLength(s), kCFStringEncodingUTF8) + 1;
    char *buf = malloc(len);
    if (!CFStringGetCString(s, buf, len, kCFStringEncodingUTF8)) buf[0] = '\0';
    return buf;
}

// cg_list_windows enumerates on-screen windows front-to-back.
static int cg_list_windows(CGWindowInfo **out, int *outCount) {
    CFArrayRef list = CGWindowListCopyWindowInfo(
        kCGWindowListOptionOnScreenOnly | kCGWindowListExcludeDesktopElements,
        kCGNullWindowID);
    if (list == NULL) return -1;
    CFIndex n = CFArrayGetCount(list);
    CGWindowInfo *wins = calloc(n > 0 ? n : 1, sizeof(CGWindowInfo));
    int count = 0;
    for (CFIndex i = 0; i < n; i++) {
        CFDictionaryRef d = CFArrayGetValueAtIndex(list, i);
        CGWindowInfo *w = &wins[count];
        CFNumberRef num;
        num = CFDictionaryGetValue(d, kCGWindowNumber);
        if (num) CFNumberGetValue(num, kCFNumberIntType, &w->windowID);
        num = CFDictionaryGetValue(d, kCGWindowOwnerPID);
        if (num) CFNumberGetValue(num, kCFNumberIntType, &w->pid);
        num = CFDictionaryGetValue(d, kCGWindowLayer);
        if (num) CFNumberGetValue(num, kCFNumberIntType, &w->layer);
        w->appName = cf_string_dup(CFDictionaryGetValue(d, kCGWindowOwnerName));
        w->title = cf_string_dup(CFDictionaryGetValue(d, kCGWindowName));
        CGRect r = CGRectZero;
        CFDictionaryRef boundsDict = CFDictionaryGetValue(d, kCGWindowBounds);
        if (boundsDict) CGRectMakeWithDictionaryRepresentation(boundsDict, &r);
        w->x = r.origin.x;
        w->y = r.origin.y;
        w->width = r.size.width;
        w->height = r.size.height;
        count++;
    }
    CFRelease(list);
    *out = wins;
    *outCount = count;
    return 0;
}

static void cg_free_windows(CGWindowInfo *wins, int count) {
    for (int i = 0; i < count; i++) {
        free(wins[i].appName);
        free(wins[i].title);
    }
    free(wins);
}

typedef struct {
    int id;
    int parentID;
    char *role;
    char *title;
    char *value;
    char *desc;
    float x, y, width, height;
    int enabled;
} AXNodeInfo;

typedef struct {
    AXNodeInfo *nodes;
    int count;
    int cap;
    int nextID;
} ax_walk_ctx;

static CFTypeRef ax_attr(AXUIElementRef el, CFStringRef name) {
    CFTypeRef value = NULL;
    if (AXUIElementCopyAttributeValue(el, name, &value) != kAXErrorSuccess) return NULL;
    return value;
}

static char *ax_attr_string(AXUIElementRef el, CFStringRef name) {
    CFTypeRef v = ax_attr(el, name);
    if (v == NULL) return strdup("");
    char *s;
    if (CFGetTypeID(v) == CFStringGetTypeID()) {
        s = cf_string_dup((CFStringRef)v);
    } else {
        s = strdup("");
    }
    CFRelease(v);
    return s;
}

// ax_walk records the element and its subtree in pre-order. IDs are assigned
// sequentially, so the same tree always yields the same IDs.
static void ax_walk(ax_walk_ctx *ctx, AXUIElementRef el, int parentID, int depth, int maxDepth) {
    if (el == NULL) return;
    if (maxDepth > 0 && depth > maxDepth) return;
    if (ctx->count == ctx->cap) {
        ctx->cap = ctx->cap ? ctx->cap * 2 : 64;
        ctx->nodes = realloc(ctx->nodes, ctx->cap * sizeof(AXNodeInfo));
    }
    int id = ctx->nextID++;
    AXNodeInfo *n = &ctx->nodes[ctx->count++];
    n->id = id;
    n->parentID = parentID;
    n->role = ax_attr_string(el, kAXRoleAttribute);
    n->title = ax_attr_string(el, kAXTitleAttribute);
    n->value = ax_attr_string(el, kAXValueAttribute);
    n->desc = ax_attr_string(el, kAXDescriptionAttribute);

    n->x = n->y = n->width = n->height = 0;
    CFTypeRef posRef = ax_attr(el, kAXPositionAttribute);
    if (posRef) {
        CGPoint p;
        if (AXValueGetValue((AXValueRef)posRef, kAXValueTypeCGPoint, &p)) {
            n->x = p.x;
            n->y = p.y;
        }
        CFRelease(posRef);
    }
    CFTypeRef sizeRef = ax_attr(el, kAXSizeAttribute);
    if (sizeRef) {
        CGSize s;
        if (AXValueGetValue((AXValueRef)sizeRef, kAXValueTypeCGSize, &s)) {
            n->width = s.width;
            n->height = s.height;
        }
        CFRelease(sizeRef);
    }

    n->enabled = 1;
    CFTypeRef enRef = ax_attr(el, kAXEnabledAttribute);
    if (enRef) {
        if (CFGetTypeID(enRef) == CFBooleanGetTypeID() && !CFBooleanGetValue(enRef)) n->enabled = 0;
        CFRelease(enRef);
    }

    CFTypeRef childrenRef = ax_attr(el, kAXChildrenAttribute);
    if (childrenRef) {
        if (CFGetTypeID(childrenRef) == CFArrayGetTypeID()) {
            CFArrayRef children = (CFArrayRef)childrenRef;
            CFIndex nc = CFArrayGetCount(children);
            for (CFIndex i = 0; i < nc; i++) {
                AXUIElementRef child = (AXUIElementRef)CFArrayGetValueAtIndex(children, i);
                ax_walk(ctx, child, id, depth + 1, maxDepth);
            }
        }
        CFRelease(childrenRef);
    }
}

// _AXUIElementGetWindow resolves the CGWindowID of an AX window element.
// Private but stable; required to correlate AX windows with CGWindowList IDs.
extern AXError _AXUIElementGetWindow(AXUIElementRef element, CGWindowID *out);

static int ax_copy_tree(pid_t pid, int windowID, int maxDepth, AXNodeInfo **out, int *outCount) {
    AXUIElementRef app = AXUIElementCreateApplication(pid);
    if (app == NULL) return -1;
    CFTypeRef windowsRef = ax_attr(app, kAXWindowsAttribute);
    if (windowsRef == NULL || CFGetTypeID(windowsRef) != CFArrayGetTypeID()) {
        if (windowsRef) CFRelease(windowsRef);
        CFRelease(app);
        return -2;
    }
    ax_walk_ctx ctx = {0};
    CFArrayRef windows = (CFArrayRef)windowsRef;
    CFIndex n = CFArrayGetCount(windows);
    for (CFIndex i = 0; i < n; i++) {
        AXUIElementRef win = (AXUIElementRef)CFArrayGetValueAtIndex(windows, i);
        if (windowID > 0) {
            CGWindowID wid = 0;
            if (_AXUIElementGetWindow(win, &wid) != kAXErrorSuccess || (int)wid != windowID) continue;
        }
        ax_walk(&ctx, win, -1, 1, maxDepth);
    }
    CFRelease(windowsRef);
    CFRelease(app);
    *out = ctx.nodes;
    *outCount = ctx.count;
    return 0;
}

static void ax_free_tree(AXNodeInfo *nodes, int count) {
    for (int i = 0; i < count; i++) {
        free(nodes[i].role);
        free(nodes[i].title);
        free(nodes[i].value);
        free(nodes[i].desc);
    }
    free(nodes);
}
*/
import "C"
import (
	"fmt"
	"unsafe"

	"github.com/autoapprove/claude-auto-approve/internal/model"
	"github.com/autoapprove/claude-auto-approve/internal/platform"
)

// DarwinReader implements the platform.Reader interface for macOS.
type DarwinReader struct{}

// NewReader creates a new macOS reader.
func NewReader() *DarwinReader {
	return &DarwinReader{}
}

// ListWindows returns all on-screen windows using CGWindowListCopyWindowInfo.
// Only layer-0 (real application) windows are included. The enumeration is
// front-to-back, so the first layer-0 window is marked frontmost.
func (r *DarwinReader) ListWindows(opts platform.ListOptions) ([]model.Window, error) {
	var cWindows *C.CGWindowInfo
	var cCount C.int

	if C.cg_list_windows(&cWindows, &cCount) != 0 {
		return nil, fmt.Errorf("failed to enumerate windows")
	}
	defer C.cg_free_windows(cWindows, cCount)

	count := int(cCount)
	windows := []model.Window{}
	if count == 0 {
		return windows, nil
	}

	cSlice := unsafe.Slice(cWindows, count)
	frontAssigned := false

	for i := 0; i < count; i++ {
		cw := cSlice[i]

		// Layer 0 only: menu bar items, overlays etc. live on other layers.
		if int(cw.layer) != 0 {
			continue
		}

		pid := int(cw.pid)
		if opts.PID != 0 && pid != opts.PID {
			continue
		}

		frontmost := false
		if !frontAssigned {
			frontmost = true
			frontAssigned = true
		}

		windows = append(windows, model.Window{
			App:   C.GoString(cw.appName),
			PID:   pid,
			Title: C.GoString(cw.title),
			ID:    int(cw.windowID),
			Bounds: [4]int{
				int(cw.x),
				int(cw.y),
				int(cw.width),
				int(cw.height),
			},
			Frontmost: frontmost,
		})
	}

	return windows, nil
}

// ReadElements reads the accessibility element tree for the target process.
func (r *DarwinReader) ReadElements(opts platform.ReadOptions) ([]model.Element, error) {
	if err := CheckAccessibilityPermission(); err != nil {
		return nil, err
	}
	if opts.PID == 0 {
		return nil, fmt.Errorf("no target process specified")
	}

	var cNodes *C.AXNodeInfo
	var cCount C.int

	rc := C.ax_copy_tree(C.pid_t(opts.PID), C.int(opts.WindowID), C.int(opts.Depth), &cNodes, &cCount)
	switch rc {
	case 0:
	case -2:
		// The AXWindows attribute is unreadable when the app has no windows
		// or when accessibility access was revoked after the trust check.
		return nil, fmt.Errorf("%w: cannot read windows of PID %d", platform.ErrUnavailable, opts.PID)
	default:
		return nil, fmt.Errorf("failed to read accessibility tree for PID %d", opts.PID)
	}
	defer C.ax_free_tree(cNodes, cCount)

	return buildElementTree(cNodes, cCount), nil
}

// buildElementTree converts the flat pre-order C array into a nested tree.
// Parents always precede children, so a single forward pass suffices.
func buildElementTree(cNodes *C.AXNodeInfo, cCount C.int) []model.Element {
	count := int(cCount)
	if count == 0 {
		return []model.Element{}
	}

	cSlice := unsafe.Slice(cNodes, count)
	nodes := make(map[int]*model.Element, count)
	var rootIDs []int

	for i := 0; i < count; i++ {
		cn := cSlice[i]

		var enabled *bool
		if cn.enabled == 0 {
			f := false
			enabled = &f
		}

		el := &model.Element{
			ID:          int(cn.id),
			Role:        model.MapRole(C.GoString(cn.role)),
			Title:       C.GoString(cn.title),
			Value:       C.GoString(cn.value),
			Description: C.GoString(cn.desc),
			Bounds:      [4]int{int(cn.x), int(cn.y), int(cn.width), int(cn.height)},
			Enabled:     enabled,
		}
		nodes[el.ID] = el

		parentID := int(cn.parentID)
		if parentID < 0 {
			rootIDs = append(rootIDs, el.ID)
		} else if parent, ok := nodes[parentID]; ok {
			parent.Children = append(parent.Children, *el)
			// Keep the map pointing at the stored child so grandchildren
			// attach to the copy inside the parent.
			nodes[el.ID] = &parent.Children[len(parent.Children)-1]
		}
	}

	result := make([]model.Element, 0, len(rootIDs))
	for _, id := range rootIDs {
		result = append(result, *nodes[id])
	}
	return result
}
