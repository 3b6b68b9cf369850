package output

import (
	"os"
	"strings"
	"testing"
)

// captureStdout runs fn with stdout redirected to a pipe and returns what
// was written.
func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	if err := fn(); err != nil {
		t.Fatal(err)
	}
	w.Close()

	buf := make([]byte, 4096)
	n, _ := r.Read(buf)
	return string(buf[:n])
}

func TestPrintYAML(t *testing.T) {
	got := captureStdout(t, func() error {
		return PrintYAML(map[string]string{"outcome": "approved"})
	})
	if !strings.Contains(got, "outcome: approved") {
		t.Errorf("unexpected YAML output %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	got := captureStdout(t, func() error {
		return PrintJSON(map[string]string{"outcome": "approved"})
	})
	if strings.TrimSpace(got) != `{"outcome":"approved"}` {
		t.Errorf("unexpected JSON output %q", got)
	}
}

func TestPrint_FollowsOutputFormat(t *testing.T) {
	defer func() { OutputFormat = FormatYAML }()

	OutputFormat = FormatJSON
	got := captureStdout(t, func() error {
		return Print(map[string]int{"ticks": 3})
	})
	if strings.TrimSpace(got) != `{"ticks":3}` {
		t.Errorf("expected JSON when FormatJSON is set, got %q", got)
	}
}
