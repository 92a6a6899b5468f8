package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "debug.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLogViewer_EnterExit(t *testing.T) {
	c := newSizedChat()
	path := writeLog(t, "time=2024-01-01T00:00:00Z level=INFO msg=\"hello log\"\n")

	c.EnterLogViewerMode(path)
	if !c.IsInLogViewerMode() {
		t.Fatal("expected log viewer mode")
	}
	if !c.LogViewerFollowTail() {
		t.Error("follow should be on by default")
	}

	view := ansi.Strip(c.View())
	for _, want := range []string{"Debug Log", "hello log"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q:\n%s", want, view)
		}
	}

	c, _ = c.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if c.IsInLogViewerMode() {
		t.Error("esc should close the log viewer")
	}
}

func TestLogViewer_Keys(t *testing.T) {
	c := newSizedChat()
	path := writeLog(t, "level=INFO msg=\"one\"\n")
	c.EnterLogViewerMode(path)

	c, _ = c.Update(tea.KeyPressMsg{Code: 'f', Text: "f"})
	if c.LogViewerFollowTail() {
		t.Error("f should toggle follow off")
	}

	if err := os.WriteFile(path, []byte("level=INFO msg=\"two\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, _ = c.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if !strings.Contains(ansi.Strip(c.View()), "two") {
		t.Error("r should reload the file")
	}

	c, _ = c.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if c.IsInLogViewerMode() {
		t.Error("q should close the log viewer")
	}
}

func TestLogViewer_KeysDoNotReachInput(t *testing.T) {
	c := newSizedChat()
	c.SetFocused(true)
	c.EnterLogViewerMode(writeLog(t, ""))

	c, _ = c.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if c.GetInput() != "" {
		t.Error("typing in the log viewer should not edit the message")
	}
}

func TestLogViewer_MissingFile(t *testing.T) {
	c := newSizedChat()
	c.EnterLogViewerMode(filepath.Join(t.TempDir(), "missing.log"))

	if !strings.Contains(ansi.Strip(c.View()), "Error reading log file") {
		t.Error("missing file should show an error")
	}
}

func TestLogViewer_NoPath(t *testing.T) {
	c := newSizedChat()
	c.EnterLogViewerMode("")
	if !strings.Contains(ansi.Strip(c.View()), "Logging is not enabled") {
		t.Error("empty path should explain itself")
	}
}

func TestHighlightLogLine(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"error", `time=x level=ERROR msg="boom" error="bad"`},
		{"warn", `level=WARN msg="careful"`},
		{"info", `level=INFO msg="fine" component=api`},
		{"debug", `level=DEBUG msg=plain`},
		{"no level", `just text`},
		{"unterminated", `level=INFO msg="open`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := highlightLogLine(tt.line)
			if ansi.Strip(got) != tt.line {
				t.Errorf("highlighting changed the text: %q", ansi.Strip(got))
			}
		})
	}

	if highlightLogLine("") != "" {
		t.Error("empty line should stay empty")
	}
}
