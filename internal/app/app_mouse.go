package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/moodring/internal/keys"
	"github.com/zhubert/moodring/internal/ui"
)

// routeScrollAndMouseEvents routes scroll keys and mouse events to the panel
// under the pointer. It reports whether the event was consumed.
func (m *Model) routeScrollAndMouseEvents(msg tea.Msg) (tea.Cmd, bool) {
	// Mouse input is ignored while a modal is open
	if m.modal.IsVisible() {
		return nil, false
	}

	// Transcript scroll keys work from the sidebar too
	if keyMsg, isKey := msg.(tea.KeyPressMsg); isKey && m.focus == FocusSidebar && !m.sidebar.IsSearchMode() {
		switch keyMsg.String() {
		case keys.PgUp, keys.PgDown:
			return m.updateChat(msg), true
		}
	}

	sidebarWidth := m.sidebar.Width()

	switch mouseMsg := msg.(type) {
	case tea.MouseWheelMsg:
		if mouseMsg.X >= sidebarWidth {
			return m.updateChat(msg), true
		}
		return nil, true

	case tea.MouseClickMsg:
		if mouseMsg.X < sidebarWidth {
			return m.handleSidebarClick(mouseMsg), true
		}
		return m.updateChat(m.adjustMouseClickMsg(mouseMsg, sidebarWidth)), true

	case tea.MouseMotionMsg:
		if mouseMsg.X >= sidebarWidth {
			return m.updateChat(m.adjustMouseMotionMsg(mouseMsg, sidebarWidth)), true
		}
		return nil, true

	case tea.MouseReleaseMsg:
		// Releases outside the chat still end a drag that started inside it
		return m.updateChat(m.adjustMouseReleaseMsg(mouseMsg, sidebarWidth)), true
	}

	return nil, false
}

func (m *Model) updateChat(msg tea.Msg) tea.Cmd {
	chat, cmd := m.chat.Update(msg)
	m.chat = chat
	return cmd
}

// handleSidebarClick opens the clicked conversation.
func (m *Model) handleSidebarClick(msg tea.MouseClickMsg) tea.Cmd {
	if msg.Button != tea.MouseLeft || m.chat.IsInLogViewerMode() {
		return nil
	}
	id := m.sidebar.SelectAt(msg.Y - ui.HeaderHeight)
	if id == "" {
		m.setFocus(FocusSidebar)
		return nil
	}
	cmd := m.selectConversation(id)
	m.setFocus(FocusChat)
	return cmd
}

// adjustMouseClickMsg adjusts mouse click coordinates for the chat panel.
// X is adjusted by subtracting sidebar width, Y by subtracting header height.
func (m *Model) adjustMouseClickMsg(msg tea.MouseClickMsg, sidebarWidth int) tea.MouseClickMsg {
	return tea.MouseClickMsg{
		X:      msg.X - sidebarWidth,
		Y:      msg.Y - ui.HeaderHeight,
		Button: msg.Button,
		Mod:    msg.Mod,
	}
}

// adjustMouseMotionMsg adjusts mouse motion coordinates for the chat panel.
func (m *Model) adjustMouseMotionMsg(msg tea.MouseMotionMsg, sidebarWidth int) tea.MouseMotionMsg {
	return tea.MouseMotionMsg{
		X:      msg.X - sidebarWidth,
		Y:      msg.Y - ui.HeaderHeight,
		Button: msg.Button,
		Mod:    msg.Mod,
	}
}

// adjustMouseReleaseMsg adjusts mouse release coordinates for the chat panel.
func (m *Model) adjustMouseReleaseMsg(msg tea.MouseReleaseMsg, sidebarWidth int) tea.MouseReleaseMsg {
	return tea.MouseReleaseMsg{
		X:      msg.X - sidebarWidth,
		Y:      msg.Y - ui.HeaderHeight,
		Button: msg.Button,
		Mod:    msg.Mod,
	}
}
