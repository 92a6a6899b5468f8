package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/moodring/internal/clipboard"
	"github.com/zhubert/moodring/internal/logger"
	"github.com/zhubert/moodring/internal/ui"
)

// ShowFlash displays a flash message in the footer and returns a command to start the auto-dismiss timer
func (m *Model) ShowFlash(text string, flashType ui.FlashType) tea.Cmd {
	m.footer.SetFlash(text, flashType)
	return ui.FlashTick()
}

// ShowFlashError displays an error flash message
func (m *Model) ShowFlashError(text string) tea.Cmd {
	return m.ShowFlash(text, ui.FlashError)
}

// ShowFlashWarning displays a warning flash message
func (m *Model) ShowFlashWarning(text string) tea.Cmd {
	return m.ShowFlash(text, ui.FlashWarning)
}

// ShowFlashInfo displays an info flash message
func (m *Model) ShowFlashInfo(text string) tea.Cmd {
	return m.ShowFlash(text, ui.FlashInfo)
}

// ShowFlashSuccess displays a success flash message
func (m *Model) ShowFlashSuccess(text string) tea.Cmd {
	return m.ShowFlash(text, ui.FlashSuccess)
}

// copyText copies text through the terminal (OSC 52) and the native
// clipboard. what names the copied thing in the confirmation flash.
func copyText(text, what string) tea.Cmd {
	return tea.Batch(
		tea.SetClipboard(text),
		func() tea.Msg {
			return clipboardResultMsg{what: what, err: clipboard.WriteText(text)}
		},
	)
}

func (m *Model) handleClipboardResult(msg clipboardResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		logger.WithComponent("clipboard").Warn("native copy failed", "what", msg.what, "error", msg.err)
		return m, m.ShowFlashWarning("Copied " + msg.what + " via terminal only")
	}
	return m, m.ShowFlashSuccess("Copied " + msg.what)
}
