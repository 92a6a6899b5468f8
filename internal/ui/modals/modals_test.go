package modals

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

func testSections() []HelpSection {
	return []HelpSection{
		{Title: "Chat", Shortcuts: []HelpShortcut{
			{Key: "enter", Desc: "Send message"},
			{Key: "ctrl+e", Desc: "Analyze conversation"},
		}},
		{Title: "General", Shortcuts: []HelpShortcut{
			{Key: "ctrl+c", Desc: "Quit"},
		}},
	}
}

func TestHelpState_StartsOnFirstShortcut(t *testing.T) {
	s := NewHelpStateFromSections(testSections())

	sc := s.SelectedShortcut()
	if sc == nil || sc.Key != "enter" {
		t.Fatalf("SelectedShortcut() = %+v, want enter", sc)
	}
	out := ansi.Strip(s.Render())
	for _, want := range []string{"Keyboard Shortcuts", "Chat", "Analyze conversation"} {
		if !strings.Contains(out, want) {
			t.Errorf("help should contain %q", want)
		}
	}
}

func TestHelpState_EnterTriggersShortcut(t *testing.T) {
	s := NewHelpStateFromSections(testSections())

	next, _ := s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s = next.(*HelpState)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should produce a command")
	}
	msg, ok := cmd().(HelpShortcutTriggeredMsg)
	if !ok || msg.Key != "ctrl+e" {
		t.Errorf("triggered = %+v, want ctrl+e", msg)
	}
}

func TestConfirmState(t *testing.T) {
	s := NewConfirmResetState()
	if s.Confirmed() {
		t.Fatal("confirm dialogs default to cancel")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if !s.Confirmed() {
		t.Error("down should select the confirming option")
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.SelectedIndex != 1 {
		t.Error("selection should stop at the last option")
	}
	s.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	if s.Confirmed() {
		t.Error("n should select cancel")
	}
	s.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	if !s.Confirmed() {
		t.Error("y should select confirm")
	}

	if !strings.Contains(ansi.Strip(s.Render()), "Start Over?") {
		t.Error("render should include the title")
	}
}

func TestSettingsState(t *testing.T) {
	themes := []string{"dark-purple", "nord"}
	s := NewSettingsState(themes, "nord", "http://localhost:8000", true, nil)

	if s.ThemeChanged() || s.ServerChanged() {
		t.Error("fresh settings should report no changes")
	}
	if s.SelectedTheme() != "nord" || !s.NotificationsEnabled {
		t.Errorf("initial values not bound: %q %v", s.SelectedTheme(), s.NotificationsEnabled)
	}

	s.SetServerURL("  http://example.com:9000/ ")
	if got := s.ServerURL(); got != "http://example.com:9000" {
		t.Errorf("ServerURL() = %q", got)
	}
	if !s.ServerChanged() {
		t.Error("edited server should be reported")
	}
	if s.Validate() != nil {
		t.Error("nil validator accepts everything")
	}

	if !strings.Contains(ansi.Strip(s.Render()), "Settings") {
		t.Error("render should include the title")
	}
}

func TestSettingsState_Validate(t *testing.T) {
	bad := errors.New("bad url")
	s := NewSettingsState([]string{"nord"}, "nord", "ftp://x", false, func(v string) error {
		if !strings.HasPrefix(v, "http") {
			return bad
		}
		return nil
	})

	if !errors.Is(s.Validate(), bad) {
		t.Error("validator should reject the url")
	}
	s.SetServerURL("http://ok")
	if s.Validate() != nil {
		t.Error("validator should accept the url")
	}
}

func TestSettingsState_EnterAndEscapeNotConsumed(t *testing.T) {
	s := NewSettingsState([]string{"nord"}, "nord", "http://a", false, nil)
	for _, k := range []tea.KeyPressMsg{{Code: tea.KeyEnter}, {Code: tea.KeyEscape}} {
		if _, cmd := s.Update(k); cmd != nil {
			t.Errorf("%s should be left to the app", k.String())
		}
	}
}
