package modals

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// ConfirmState asks the user to confirm an action. The app reads Confirmed
// when the user presses Enter.
type ConfirmState struct {
	title         string
	Message       string
	Options       []string
	SelectedIndex int
}

func (*ConfirmState) modalState() {}

func (s *ConfirmState) Title() string { return s.title }

func (s *ConfirmState) Help() string {
	return "↑/↓ to select, Enter to confirm, Esc to cancel"
}

func (s *ConfirmState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	message := lipgloss.NewStyle().
		Foreground(ColorText).
		Width(ModalWidth - 6).
		MarginBottom(1).
		Render(s.Message)

	var optionList string
	for i, opt := range s.Options {
		style := SidebarItemStyle
		prefix := "  "
		if i == s.SelectedIndex {
			style = SidebarSelectedStyle
			prefix = "> "
		}
		optionList += style.Render(prefix+opt) + "\n"
	}

	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, message, optionList, help)
}

func (s *ConfirmState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "up", "k":
			if s.SelectedIndex > 0 {
				s.SelectedIndex--
			}
		case "down", "j":
			if s.SelectedIndex < len(s.Options)-1 {
				s.SelectedIndex++
			}
		case "y":
			s.SelectedIndex = 1
		case "n":
			s.SelectedIndex = 0
		}
	}
	return s, nil
}

// Confirmed reports whether the confirming option is selected.
func (s *ConfirmState) Confirmed() bool {
	return s.SelectedIndex == 1
}

// NewConfirmResetState asks before discarding the current conversation.
func NewConfirmResetState() *ConfirmState {
	return &ConfirmState{
		title:   "Start Over?",
		Message: "The server will start a new conversation. The current one stays in history.",
		Options: []string{"Cancel", "Start a new conversation"},
	}
}
