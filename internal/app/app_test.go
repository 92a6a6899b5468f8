package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/moodring/internal/config"
	"github.com/zhubert/moodring/internal/conversation"
	"github.com/zhubert/moodring/internal/api"
	"github.com/zhubert/moodring/internal/keys"
	"github.com/zhubert/moodring/internal/notification"
	"github.com/zhubert/moodring/internal/ui"
	"github.com/zhubert/moodring/internal/ui/modals"
)

var errTest = errors.New("test error")

func TestNew_AppliesConfiguredTheme(t *testing.T) {
	defer ui.SetTheme(ui.DefaultTheme)

	cfg := testConfig(t)
	cfg.SetTheme("nord")
	New(cfg, func(*config.Config) Backend { return newFakeBackend() }, "test")

	if ui.CurrentThemeName() != "nord" {
		t.Errorf("theme = %q, want nord", ui.CurrentThemeName())
	}
}

func TestInit_RefreshesHistory(t *testing.T) {
	fb := newFakeBackend()
	fb.history = []conversation.HistoryEntry{{ID: "c1"}, {ID: "c2"}}
	m := testModel(t, fb)

	settle(m, m.Init())

	if fb.count("history") != 1 {
		t.Errorf("history fetched %d times, want 1", fb.count("history"))
	}
	if len(m.sidebar.Entries()) != 2 {
		t.Errorf("sidebar has %d entries, want 2", len(m.sidebar.Entries()))
	}
}

func TestView(t *testing.T) {
	m := New(testConfig(t), func(*config.Config) Backend { return newFakeBackend() }, "test")
	if got := m.RenderToString(); got != "Loading..." {
		t.Errorf("unsized view = %q, want Loading...", got)
	}

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.Update(historyLoadedMsg{seq: 0, entries: []conversation.HistoryEntry{
		{ID: "abcdef1234567890", CreatedAt: time.Now(), LastMessage: "a fine day"},
	}})
	m.session.Reset("abcdef1234567890")
	m.setActive("abcdef1234567890")

	v := m.View()
	if !v.AltScreen {
		t.Error("view should use the alt screen")
	}

	out := ansi.Strip(m.RenderToString())
	for _, want := range []string{"moodring", "History", "a fine day", "#abcdef12", "ctrl+e: analyze"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestView_ModalOverlay(t *testing.T) {
	m := testModel(t, newFakeBackend())
	sendKey(m, keys.CtrlR)

	out := ansi.Strip(m.RenderToString())
	if !strings.Contains(out, "Start Over?") {
		t.Errorf("modal not rendered:\n%s", out)
	}
}

func TestMouse_ClickSidebarOpensConversation(t *testing.T) {
	fb := newFakeBackend()
	fb.conversations["c2"] = []conversation.Message{conversation.UserMessage("stored")}
	m := testModel(t, fb)
	m.Update(historyLoadedMsg{seq: 0, entries: []conversation.HistoryEntry{{ID: "c1"}, {ID: "c2"}}})

	// Header row, then border and title, then two rows per entry
	y := ui.HeaderHeight + 1 + ui.TitleHeight + ui.SidebarEntryHeight
	_, cmd := m.Update(tea.MouseClickMsg{X: 3, Y: y, Button: tea.MouseLeft})
	settle(m, cmd)

	if m.session.ActiveID() != "c2" {
		t.Fatalf("active = %q, want c2", m.session.ActiveID())
	}
	if msgs := m.chat.Messages(); len(msgs) != 1 || msgs[0].Text != "stored" {
		t.Errorf("transcript = %+v", msgs)
	}
}

func TestMouse_ClickSidebarTitleFocusesSidebar(t *testing.T) {
	fb := newFakeBackend()
	m := testModel(t, fb)

	m.Update(tea.MouseClickMsg{X: 3, Y: ui.HeaderHeight + 1, Button: tea.MouseLeft})

	if m.FocusedPanel() != FocusSidebar {
		t.Error("clicking the sidebar should focus it")
	}
	if fb.count("conversation") != 0 {
		t.Error("clicking the title should not open anything")
	}
}

func TestMouse_IgnoredUnderModal(t *testing.T) {
	fb := newFakeBackend()
	m := testModel(t, fb)
	m.Update(historyLoadedMsg{seq: 0, entries: []conversation.HistoryEntry{{ID: "c1"}}})
	sendKey(m, keys.CtrlR)

	m.Update(tea.MouseClickMsg{X: 3, Y: ui.HeaderHeight + 2, Button: tea.MouseLeft})

	if m.session.HasActive() {
		t.Error("clicks behind a modal should be ignored")
	}
}

func TestWindowFocusTracking(t *testing.T) {
	m := testModel(t, newFakeBackend())

	m.Update(tea.BlurMsg{})
	if m.windowFocused {
		t.Error("blur should clear window focus")
	}
	m.Update(tea.FocusMsg{})
	if !m.windowFocused {
		t.Error("focus should set window focus")
	}
}

func TestNotification_OnReplyWhileUnfocused(t *testing.T) {
	sent := make(chan string, 1)
	notification.SetNotifier(func(title, message string, _ any) error {
		sent <- message
		return nil
	})
	defer notification.ResetNotifier()

	fb := newFakeBackend()
	fb.chatReply = &api.ChatReply{ConversationID: "c1", Response: "here you go"}
	m := testModel(t, fb)
	m.config.SetNotificationsEnabled(true)
	m.Update(tea.BlurMsg{})

	m.chat.SetInput("hi")
	settle(m, sendKey(m, keys.Enter))

	select {
	case msg := <-sent:
		if msg != "here you go" {
			t.Errorf("notification = %q", msg)
		}
	case <-time.After(time.Second):
		t.Error("expected a notification")
	}
}

func TestNotification_NotWhenFocused(t *testing.T) {
	sent := make(chan string, 1)
	notification.SetNotifier(func(title, message string, _ any) error {
		sent <- message
		return nil
	})
	defer notification.ResetNotifier()

	fb := newFakeBackend()
	fb.chatReply = &api.ChatReply{ConversationID: "c1", Response: "quiet"}
	m := testModel(t, fb)
	m.config.SetNotificationsEnabled(true)

	m.chat.SetInput("hi")
	settle(m, sendKey(m, keys.Enter))

	select {
	case <-sent:
		t.Error("no notification expected while the terminal is focused")
	case <-time.After(50 * time.Millisecond):
	}
}

func openSettings(t *testing.T, m *Model) *modals.SettingsState {
	t.Helper()
	m.setFocus(FocusSidebar)
	sendKey(m, ",")
	state, ok := m.modal.State.(*modals.SettingsState)
	if !ok {
		t.Fatalf("modal = %T, want settings", m.modal.State)
	}
	return state
}

func TestSettings_InvalidServerKeepsModalOpen(t *testing.T) {
	m := testModel(t, newFakeBackend())
	state := openSettings(t, m)

	state.SetServerURL("not a url")
	sendKey(m, keys.Enter)

	if !m.modal.IsVisible() {
		t.Fatal("invalid settings should keep the modal open")
	}
	if m.modal.GetError() == "" {
		t.Error("expected a validation error")
	}
	if m.config.GetServerURL() != config.DefaultServerURL {
		t.Errorf("server = %q, want unchanged", m.config.GetServerURL())
	}
}

func TestSettings_ServerChangeStartsOver(t *testing.T) {
	var built []string
	oldBackend := newFakeBackend()
	newBackend := newFakeBackend()
	newBackend.history = []conversation.HistoryEntry{{ID: "remote"}}

	cfg := testConfig(t)
	m := New(cfg, func(c *config.Config) Backend {
		built = append(built, c.GetServerURL())
		if len(built) == 1 {
			return oldBackend
		}
		return newBackend
	}, "test")
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	m.session.Reset("c1")
	m.chat.AppendMessage(conversation.UserMessage("old server"))
	oldEpoch := m.session.Epoch()

	state := openSettings(t, m)
	state.SetServerURL("https://chat.example.com/")
	settle(m, sendKey(m, keys.Enter))

	if m.modal.IsVisible() {
		t.Error("valid settings should close the modal")
	}
	if len(built) != 2 || built[1] != "https://chat.example.com" {
		t.Errorf("backends built for %v, want a second one for the new server", built)
	}
	if m.session.HasActive() || m.session.IsCurrent(oldEpoch) {
		t.Error("changing servers should clear the active conversation")
	}
	if len(m.chat.Messages()) != 0 {
		t.Error("changing servers should clear the transcript")
	}
	if newBackend.count("history") != 1 {
		t.Error("history should be fetched from the new server")
	}
	if entries := m.sidebar.Entries(); len(entries) != 1 || entries[0].ID != "remote" {
		t.Errorf("entries = %+v, want the new server's list", entries)
	}

	saved, err := config.Load(config.LoadOptions{Path: cfg.Path()})
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if saved.GetServerURL() != "https://chat.example.com" {
		t.Errorf("saved server = %q", saved.GetServerURL())
	}
}

func TestSettings_EscapeDiscards(t *testing.T) {
	m := testModel(t, newFakeBackend())
	state := openSettings(t, m)

	state.SetServerURL("https://elsewhere.example.com")
	sendKey(m, keys.Escape)

	if m.modal.IsVisible() {
		t.Error("esc should close settings")
	}
	if m.config.GetServerURL() != config.DefaultServerURL {
		t.Errorf("server = %q, want unchanged", m.config.GetServerURL())
	}
}

func TestSelectionCopiedFlash(t *testing.T) {
	m := testModel(t, newFakeBackend())

	m.Update(ui.SelectionCopiedMsg{Text: "abc"})
	if f := m.footer.Flash(); f == nil || f.Type != ui.FlashSuccess {
		t.Errorf("flash = %+v, want success", f)
	}

	m.Update(ui.ClipboardErrorMsg{Error: errTest})
	if f := m.footer.Flash(); f == nil || f.Type != ui.FlashWarning {
		t.Errorf("flash = %+v, want warning", f)
	}
}
