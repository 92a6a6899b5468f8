package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/moodring/internal/ui"
)

// View renders the app. This is the core Bubble Tea view function.
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.ReportFocus = true
	v.SetContent(m.RenderToString())
	return v
}

// RenderToString renders the current view as a string.
// This is useful for demos and testing.
func (m *Model) RenderToString() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	m.updateFooterBindings()

	panels := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.sidebar.View(),
		m.chat.View(),
	)

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.header.View(),
		panels,
		m.footer.View(),
	)

	// The modal view is already placed over the full screen
	if m.modal.IsVisible() {
		return m.modal.View(m.width, m.height)
	}

	return view
}

// updateFooterBindings shows the key hints that apply to the current focus.
func (m *Model) updateFooterBindings() {
	var bindings []ui.KeyBinding

	switch {
	case m.modal.IsVisible():
		bindings = []ui.KeyBinding{
			{Key: "enter", Desc: "confirm"},
			{Key: "esc", Desc: "close"},
		}
	case m.chat.IsInLogViewerMode():
		bindings = []ui.KeyBinding{
			{Key: "f", Desc: "follow"},
			{Key: "r", Desc: "refresh"},
			{Key: "esc", Desc: "close log"},
		}
	case m.sidebar.IsSearchMode():
		bindings = []ui.KeyBinding{
			{Key: "enter", Desc: "apply filter"},
			{Key: "esc", Desc: "cancel"},
		}
	case m.focus == FocusSidebar:
		bindings = []ui.KeyBinding{
			{Key: "enter", Desc: "open"},
			{Key: "/", Desc: "search"},
			{Key: "tab", Desc: "chat"},
			{Key: "ctrl+n", Desc: "new"},
			{Key: "ctrl+l", Desc: "refresh"},
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		}
	default:
		bindings = []ui.KeyBinding{
			{Key: "enter", Desc: "send"},
			{Key: "tab", Desc: "history"},
		}
		if m.session.HasActive() {
			bindings = append(bindings, ui.KeyBinding{Key: "ctrl+e", Desc: "analyze"})
		}
		bindings = append(bindings,
			ui.KeyBinding{Key: "ctrl+n", Desc: "new"},
			ui.KeyBinding{Key: "ctrl+c", Desc: "quit"},
		)
	}

	m.footer.SetBindings(bindings)
}

// updateSizes updates component sizes based on terminal dimensions
func (m *Model) updateSizes() {
	ctx := ui.GetViewContext()
	ctx.UpdateTerminalSize(m.width, m.height)

	m.header.SetWidth(ctx.TerminalWidth)
	m.footer.SetWidth(ctx.TerminalWidth)
	m.sidebar.SetSize(ctx.SidebarWidth, ctx.ContentHeight)
	m.chat.SetSize(ctx.ChatWidth, ctx.ContentHeight)
}
