package modals

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
)

// SettingsState edits the persisted client settings.
type SettingsState struct {
	// Bound form values
	selectedTheme        string
	OriginalTheme        string
	serverURL            string
	OriginalServerURL    string
	NotificationsEnabled bool

	validate func(string) error
	form     *huh.Form

	availableWidth int
}

func (*SettingsState) modalState() {}

func (s *SettingsState) PreferredWidth() int { return ModalWidthWide }

// SetSize updates the available width for rendering content.
func (s *SettingsState) SetSize(width, height int) {
	s.availableWidth = width
	s.form.WithWidth(s.contentWidth())
}

func (s *SettingsState) contentWidth() int {
	if s.availableWidth > 0 {
		return s.availableWidth - 10
	}
	return ModalWidthWide - 10
}

func (s *SettingsState) Title() string { return "Settings" }

func (s *SettingsState) Help() string {
	return "Tab: next field  Enter: save  Esc: cancel"
}

func (s *SettingsState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, s.form.View(), help)
}

func (s *SettingsState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// Validate checks the edited values before they are saved.
func (s *SettingsState) Validate() error {
	if s.validate == nil {
		return nil
	}
	return s.validate(s.ServerURL())
}

// SelectedTheme returns the selected theme key.
func (s *SettingsState) SelectedTheme() string {
	return s.selectedTheme
}

// ThemeChanged returns true if the selected theme differs from the original.
func (s *SettingsState) ThemeChanged() bool {
	return s.selectedTheme != s.OriginalTheme
}

// ServerURL returns the edited server address.
func (s *SettingsState) ServerURL() string {
	return strings.TrimRight(strings.TrimSpace(s.serverURL), "/")
}

// ServerChanged reports whether the server address was edited.
func (s *SettingsState) ServerChanged() bool {
	return s.ServerURL() != s.OriginalServerURL
}

// SetServerURL sets the server field. huh binds via pointer, so this is
// reflected in the form.
func (s *SettingsState) SetServerURL(v string) {
	s.serverURL = v
}

// NewSettingsState builds the settings form. validateURL checks the server
// field as the user types.
func NewSettingsState(themes []string, currentTheme, serverURL string,
	notificationsEnabled bool, validateURL func(string) error) *SettingsState {

	s := &SettingsState{
		selectedTheme:        currentTheme,
		OriginalTheme:        currentTheme,
		serverURL:            serverURL,
		OriginalServerURL:    serverURL,
		NotificationsEnabled: notificationsEnabled,
		validate:             validateURL,
		availableWidth:       ModalWidthWide,
	}

	themeOptions := make([]huh.Option[string], len(themes))
	for i, t := range themes {
		themeOptions[i] = huh.NewOption(t, t)
	}

	urlInput := huh.NewInput().
		Title("Server").
		Description("Address of the sentiment chat server").
		Placeholder("http://localhost:8000").
		CharLimit(256).
		Value(&s.serverURL)
	if validateURL != nil {
		urlInput = urlInput.Validate(func(v string) error {
			return validateURL(strings.TrimRight(strings.TrimSpace(v), "/"))
		})
	}

	s.form = huh.NewForm(huh.NewGroup(
		urlInput,
		huh.NewSelect[string]().
			Title("Theme").
			Options(themeOptions...).
			Value(&s.selectedTheme),
		huh.NewConfirm().
			Title("Desktop notifications").
			Description("Notify when a reply arrives while the terminal is unfocused").
			Affirmative("On").
			Negative("Off").
			Value(&s.NotificationsEnabled),
	)).
		WithTheme(ModalTheme()).
		WithShowHelp(false).
		WithWidth(s.contentWidth()).
		WithLayout(huh.LayoutStack)

	initHuhForm(s.form)
	return s
}
