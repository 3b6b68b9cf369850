package model

// RoleMap maps macOS AXRole values to compact role codes.
var RoleMap = map[string]string{
	"AXButton":     "btn",
	"AXStaticText": "txt",
	"AXSheet":      "sheet",
	"AXDialog":     "dialog",
	"AXGroup":      "group",
	"AXSplitGroup": "group",
	"AXScrollArea": "scroll",
	"AXWebArea":    "web",
	"AXWindow":     "window",
	"AXTextField":  "input",
	"AXTextArea":   "input",
	"AXLink":       "lnk",
	"AXImage":      "img",
}

// DialogRoles are the compact codes of elements that can contain a tool
// approval dialog. AXGroup is included because the target app renders its
// confirmation surface as a web view group rather than a native sheet.
var DialogRoles = []string{"sheet", "dialog", "group"}

// MapRole converts a raw accessibility role to a compact code.
func MapRole(axRole string) string {
	if short, ok := RoleMap[axRole]; ok {
		return short
	}
	return "other"
}
