// Package report writes accessibility hierarchy dumps for human inspection.
// It is a one-way diagnostic sink; nothing in the approval pipeline reads
// its output.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/autoapprove/claude-auto-approve/internal/model"
)

// WriteHierarchy renders the element trees of an application's windows into
// a timestamped text file under dir. Returns the written file's path.
func WriteHierarchy(dir, appName string, elements []model.Element) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating dump dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("accessibility-hierarchy-%s.txt",
		time.Now().Format("20060102-150405")))

	var b strings.Builder
	fmt.Fprintf(&b, "Accessibility hierarchy for %q (%s)\n\n", appName, time.Now().Format(time.RFC3339))
	renderElements(&b, elements, 0)

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing hierarchy dump: %w", err)
	}
	return path, nil
}

func renderElements(b *strings.Builder, elements []model.Element, indent int) {
	prefix := strings.Repeat("  ", indent)
	for _, el := range elements {
		fmt.Fprintf(b, "%s[%d] %s", prefix, el.ID, el.Role)
		if el.Title != "" {
			fmt.Fprintf(b, " title=%q", el.Title)
		}
		if el.Value != "" {
			fmt.Fprintf(b, " value=%q", truncate(el.Value, 120))
		}
		if el.Description != "" {
			fmt.Fprintf(b, " desc=%q", truncate(el.Description, 120))
		}
		if !el.IsEnabled() {
			b.WriteString(" disabled")
		}
		fmt.Fprintf(b, " bounds=%v\n", el.Bounds)
		renderElements(b, el.Children, indent+1)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
