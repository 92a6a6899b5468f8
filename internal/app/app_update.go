package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/moodring/internal/keys"
	"github.com/zhubert/moodring/internal/logger"
	"github.com/zhubert/moodring/internal/ui"
	"github.com/zhubert/moodring/internal/ui/modals"
)

// Update handles messages. This is the core Bubble Tea update function that routes
// all messages to appropriate handlers.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()

	case tea.FocusMsg:
		m.windowFocused = true
		logger.WithComponent("app").Debug("window focused")

	case tea.BlurMsg:
		m.windowFocused = false
		logger.WithComponent("app").Debug("window blurred")

	case tea.KeyPressMsg:
		if result, cmd := m.handleKeyPress(msg); result != nil {
			return result, cmd
		}
		// Key not handled by handleKeyPress, let it fall through to focused panel

	case chatResultMsg:
		return m.handleChatResult(msg)

	case resetResultMsg:
		return m.handleResetResult(msg)

	case historyLoadedMsg:
		return m.handleHistoryLoaded(msg)

	case conversationLoadedMsg:
		return m.handleConversationLoaded(msg)

	case analysisResultMsg:
		return m.handleAnalysisResult(msg)

	case clipboardResultMsg:
		return m.handleClipboardResult(msg)

	case modals.HelpShortcutTriggeredMsg:
		return m.handleHelpShortcutTrigger(msg.Key)

	case ui.SelectionCopiedMsg:
		return m, m.ShowFlashSuccess("Copied selection")

	case ui.ClipboardErrorMsg:
		logger.WithComponent("clipboard").Warn("selection copy failed", "error", msg.Error)
		return m, m.ShowFlashWarning("Copied selection via terminal only")
	}

	// Update modal
	if m.modal.IsVisible() {
		modal, cmd := m.modal.Update(msg)
		m.modal = modal
		cmds = append(cmds, cmd)
	}

	// Handle tick messages - panels need these regardless of focus
	if cmd, handled := m.handleTickMessages(msg); handled {
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	// Route scroll/mouse events to appropriate panel
	if cmd, handled := m.routeScrollAndMouseEvents(msg); handled {
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	// The log viewer takes keys regardless of focus
	if m.chat.IsInLogViewerMode() {
		chat, cmd := m.chat.Update(msg)
		m.chat = chat
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	// Update focused panel for other messages
	if m.focus == FocusSidebar {
		sidebar, cmd := m.sidebar.Update(msg)
		m.sidebar = sidebar
		cmds = append(cmds, cmd)
	} else {
		chat, cmd := m.chat.Update(msg)
		m.chat = chat
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles all keyboard input.
// Returns (model, cmd) if the key was handled, or (nil, nil) if it should fall through
// to the focused panel for handling.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	logger.WithComponent("app").Debug("key press", "key", key, "focus", m.focus.String(), "modal", m.modal.IsVisible())

	// ctrl+c always quits
	if key == keys.CtrlC {
		return m, tea.Quit
	}

	if m.modal.IsVisible() {
		return m.handleModalKey(msg)
	}

	// The log viewer handles its own keys, including esc to close
	if m.chat.IsInLogViewerMode() {
		return nil, nil
	}

	if key == keys.Escape {
		if m.sidebar.IsSearchMode() {
			m.sidebar.ExitSearchMode()
			return m, nil
		}
		return nil, nil
	}

	if result, cmd, handled := m.ExecuteShortcut(key); handled {
		return result, cmd
	}

	if key == keys.Enter {
		return m.handleEnterKey()
	}

	return nil, nil
}

// handleEnterKey sends from the chat and opens the highlighted conversation
// from the sidebar. In sidebar search mode enter belongs to the filter.
func (m *Model) handleEnterKey() (tea.Model, tea.Cmd) {
	if m.focus == FocusChat {
		return m, m.sendMessage()
	}
	if m.sidebar.IsSearchMode() {
		return nil, nil
	}
	id := m.sidebar.SelectedID()
	if id == "" {
		return m, nil
	}
	cmd := m.selectConversation(id)
	m.setFocus(FocusChat)
	return m, cmd
}

// handleTickMessages handles tick messages for animations and timers.
func (m *Model) handleTickMessages(msg tea.Msg) (tea.Cmd, bool) {
	switch msg.(type) {
	case ui.StopwatchTickMsg, ui.SelectionFlashTickMsg:
		chat, cmd := m.chat.Update(msg)
		m.chat = chat
		return cmd, true
	case ui.FlashTickMsg:
		if m.footer.ClearIfExpired() {
			return nil, true
		}
		if m.footer.HasFlash() {
			return ui.FlashTick(), true
		}
		return nil, true
	}
	return nil, false
}

// applyTheme switches the palette and re-renders the panels with it.
func (m *Model) applyTheme(name string) {
	ui.SetThemeByName(name)
	m.config.SetTheme(string(ui.CurrentThemeName()))
	if m.width > 0 && m.height > 0 {
		m.updateSizes()
	}
}
