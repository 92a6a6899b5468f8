package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/moodring/internal/keys"
	"github.com/zhubert/moodring/internal/logger"
	"github.com/zhubert/moodring/internal/ui/modals"
)

// handleModalKey routes modal key events to the handler for the modal type.
// Keys never fall through to the panels while a modal is open.
func (m *Model) handleModalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch s := m.modal.State.(type) {
	case *modals.ConfirmState:
		return m.handleConfirmResetModal(key, msg, s)
	case *modals.SettingsState:
		return m.handleSettingsModal(key, msg, s)
	case *modals.HelpState:
		return m.handleHelpModal(key, msg, s)
	}

	if key == keys.Escape {
		m.modal.Hide()
		return m, nil
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

func (m *Model) handleConfirmResetModal(key string, msg tea.KeyPressMsg, state *modals.ConfirmState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		m.modal.Hide()
		if state.Confirmed() {
			return m, m.startNewConversation()
		}
		return m, nil
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

func (m *Model) handleHelpModal(key string, msg tea.KeyPressMsg, state *modals.HelpState) (tea.Model, tea.Cmd) {
	// Esc while typing a filter cancels the filter, not the modal
	if key == keys.Escape && !state.IsFiltering() {
		m.modal.Hide()
		return m, nil
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// handleHelpShortcutTrigger runs the shortcut picked in the help modal.
func (m *Model) handleHelpShortcutTrigger(display string) (tea.Model, tea.Cmd) {
	m.modal.Hide()
	key, ok := shortcutKeyForDisplay(display)
	if !ok {
		logger.WithComponent("shortcuts").Debug("help entry has no action", "key", display)
		return m, nil
	}
	result, cmd, _ := m.ExecuteShortcut(key)
	return result, cmd
}

func (m *Model) handleSettingsModal(key string, msg tea.KeyPressMsg, state *modals.SettingsState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		if err := state.Validate(); err != nil {
			m.modal.SetError(err.Error())
			return m, nil
		}
		return m.saveSettings(state)
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// saveSettings applies and persists the settings form. A new server address
// starts from a clean slate: the old conversation ids mean nothing there.
func (m *Model) saveSettings(state *modals.SettingsState) (tea.Model, tea.Cmd) {
	log := logger.WithComponent("settings")
	m.modal.Hide()

	m.config.SetNotificationsEnabled(state.NotificationsEnabled)
	if state.ThemeChanged() {
		m.applyTheme(state.SelectedTheme())
	}

	var cmds []tea.Cmd
	if state.ServerChanged() {
		m.config.SetServerURL(state.ServerURL())
		m.backend = m.newBackend(m.config)
		m.header.SetServer(m.config.GetServerURL())

		m.session.Reset("")
		m.setActive("")
		m.chat.Clear()
		m.chat.HideSummary()
		m.sidebar.SetEntries(nil)
		// Lists still in flight from the old server are dropped
		m.historyApplied = m.historySeq + 1
		cmds = append(cmds, m.refreshHistory())
		log.Info("server changed", "server", m.config.GetServerURL())
	}

	if err := m.config.Save(); err != nil {
		log.Error("failed to save settings", "error", err)
		cmds = append(cmds, m.ShowFlashError("Settings applied but not saved"))
		return m, tea.Batch(cmds...)
	}
	cmds = append(cmds, m.ShowFlashSuccess("Settings saved"))
	return m, tea.Batch(cmds...)
}
