package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/moodring/internal/config"
	"github.com/zhubert/moodring/internal/keys"
	"github.com/zhubert/moodring/internal/logger"
	"github.com/zhubert/moodring/internal/ui"
	"github.com/zhubert/moodring/internal/ui/modals"
)

// Shortcut represents a keyboard shortcut with its metadata and handler.
// This is the single source of truth for all shortcuts in the application.
type Shortcut struct {
	Key                  string                              // The key binding (e.g., "/", "ctrl+e")
	DisplayKey           string                              // Display name in help; defaults to Key
	Description          string                              // Human-readable description
	Category             string                              // Section for help modal grouping
	RequiresConversation bool                                // Must have an active conversation
	RequiresSidebar      bool                                // Must not be in chat focus
	Handler              func(m *Model) (tea.Model, tea.Cmd) // Action to perform
	Condition            func(m *Model) bool                 // Optional extra condition
}

// Categories for organizing shortcuts in the help modal
const (
	CategoryNavigation    = "Navigation"
	CategoryConversations = "Conversations"
	CategoryClipboard     = "Clipboard"
	CategoryConfiguration = "Configuration"
	CategoryGeneral       = "General"
)

// categoryOrder defines the display order of categories in the help modal
var categoryOrder = []string{
	CategoryNavigation,
	CategoryConversations,
	CategoryClipboard,
	CategoryConfiguration,
	CategoryGeneral,
}

// ShortcutRegistry is the central registry of all keyboard shortcuts.
// Add new shortcuts here and they will automatically appear in the help modal
// and be executable from both direct key presses and the help modal.
var ShortcutRegistry = []Shortcut{
	// Navigation
	{
		Key:         keys.Tab,
		DisplayKey:  "Tab",
		Description: "Switch between history and chat",
		Category:    CategoryNavigation,
		Handler:     shortcutToggleFocus,
	},
	{
		Key:         keys.ShiftTab,
		DisplayKey:  "Shift+Tab",
		Description: "Switch between history and chat",
		Category:    CategoryNavigation,
		Handler:     shortcutToggleFocus,
	},
	{
		Key:             "/",
		Description:     "Search conversations",
		Category:        CategoryNavigation,
		RequiresSidebar: true,
		Handler:         shortcutSearch,
		Condition:       func(m *Model) bool { return !m.sidebar.IsSearchMode() },
	},

	// Conversations
	{
		Key:         keys.CtrlN,
		DisplayKey:  "ctrl-n",
		Description: "New conversation",
		Category:    CategoryConversations,
		Handler:     shortcutNewConversation,
	},
	{
		Key:         keys.CtrlR,
		DisplayKey:  "ctrl-r",
		Description: "Start over (asks first)",
		Category:    CategoryConversations,
		Handler:     shortcutConfirmReset,
	},
	{
		Key:                  keys.CtrlE,
		DisplayKey:           "ctrl-e",
		Description:          "End conversation and analyze sentiment",
		Category:             CategoryConversations,
		RequiresConversation: true,
		Handler:              shortcutAnalyze,
	},
	{
		Key:         keys.CtrlL,
		DisplayKey:  "ctrl-l",
		Description: "Refresh history",
		Category:    CategoryConversations,
		Handler:     shortcutRefresh,
	},

	// Clipboard
	{
		Key:         keys.CtrlY,
		DisplayKey:  "ctrl-y",
		Description: "Copy last reply",
		Category:    CategoryClipboard,
		Handler:     shortcutCopyReply,
		Condition:   func(m *Model) bool { return m.chat.LastBotReply() != "" },
	},
	{
		Key:                  "y",
		Description:          "Copy conversation id",
		Category:             CategoryClipboard,
		RequiresSidebar:      true,
		RequiresConversation: true,
		Handler:              shortcutCopyID,
	},

	// Configuration
	{
		Key:         keys.CtrlT,
		DisplayKey:  "ctrl-t",
		Description: "Next theme",
		Category:    CategoryConfiguration,
		Handler:     shortcutNextTheme,
	},
	{
		Key:             ",",
		Description:     "Settings",
		Category:        CategoryConfiguration,
		RequiresSidebar: true,
		Handler:         shortcutSettings,
	},
	{
		Key:             "l",
		Description:     "View debug log",
		Category:        CategoryConfiguration,
		RequiresSidebar: true,
		Handler:         shortcutViewLog,
	},

	// General
	{
		Key:             "q",
		Description:     "Quit",
		Category:        CategoryGeneral,
		RequiresSidebar: true,
		Handler:         shortcutQuit,
	},
}

// helpShortcut sits outside ShortcutRegistry since shortcutHelp lists the
// registry; ExecuteShortcut calls shortcutHelp for it directly.
var helpShortcut = Shortcut{
	Key:             "?",
	Description:     "Show this help",
	Category:        CategoryGeneral,
	RequiresSidebar: true,
}

// DisplayOnlyShortcuts are shown in help but handled elsewhere.
var DisplayOnlyShortcuts = []Shortcut{
	{DisplayKey: "Enter", Description: "Send message (chat) / open conversation (history)", Category: CategoryNavigation},
	{DisplayKey: "↑/↓ j/k", Description: "Move through history", Category: CategoryNavigation},
	{DisplayKey: "PgUp/PgDn", Description: "Scroll transcript", Category: CategoryNavigation},
	{DisplayKey: "mouse drag", Description: "Select and copy transcript text", Category: CategoryClipboard},
	{DisplayKey: "ctrl-c", Description: "Quit", Category: CategoryGeneral},
}

// isShortcutApplicable checks if a shortcut is applicable given the current model state.
// This is used to filter which shortcuts appear in the help modal.
func (m *Model) isShortcutApplicable(s Shortcut) bool {
	if s.RequiresSidebar && m.chat.IsFocused() {
		return false
	}
	if s.RequiresConversation && !m.session.HasActive() {
		return false
	}
	if s.Condition != nil && !s.Condition(m) {
		return false
	}
	return true
}

// ExecuteShortcut finds and executes a shortcut by key.
// Returns (model, cmd, true) if the shortcut was found and its guards passed,
// (model, nil, false) otherwise so the key can fall through to the focused panel.
func (m *Model) ExecuteShortcut(key string) (tea.Model, tea.Cmd, bool) {
	log := logger.WithComponent("shortcuts")

	// Keys typed into the history filter belong to the filter
	if m.sidebar.IsSearchMode() {
		return m, nil, false
	}

	if key == helpShortcut.Key {
		if !m.isShortcutApplicable(helpShortcut) {
			return m, nil, false
		}
		result, cmd := shortcutHelp(m)
		return result, cmd, true
	}

	for _, s := range ShortcutRegistry {
		if s.Key != key {
			continue
		}
		if !m.isShortcutApplicable(s) {
			log.Debug("guard failed", "key", key, "focus", m.focus.String(), "active", m.session.HasActive())
			return m, nil, false
		}
		log.Debug("executing shortcut", "key", key)
		result, cmd := s.Handler(m)
		return result, cmd, true
	}
	return m, nil, false
}

// getApplicableHelpSections builds help modal sections from the shortcuts
// whose guards currently pass, plus the display-only entries.
func (m *Model) getApplicableHelpSections(registry []Shortcut, displayOnly []Shortcut) []modals.HelpSection {
	categories := make(map[string][]modals.HelpShortcut)

	for _, s := range registry {
		if !m.isShortcutApplicable(s) {
			continue
		}
		displayKey := s.DisplayKey
		if displayKey == "" {
			displayKey = s.Key
		}
		categories[s.Category] = append(categories[s.Category], modals.HelpShortcut{
			Key:  displayKey,
			Desc: s.Description,
		})
	}

	for _, s := range displayOnly {
		categories[s.Category] = append(categories[s.Category], modals.HelpShortcut{
			Key:  s.DisplayKey,
			Desc: s.Description,
		})
	}

	var sections []modals.HelpSection
	for _, cat := range categoryOrder {
		if shortcuts, ok := categories[cat]; ok && len(shortcuts) > 0 {
			sections = append(sections, modals.HelpSection{
				Title:     cat,
				Shortcuts: shortcuts,
			})
		}
	}
	return sections
}

// shortcutKeyForDisplay maps a help entry back to the key it executes.
func shortcutKeyForDisplay(display string) (string, bool) {
	all := append(append([]Shortcut(nil), ShortcutRegistry...), helpShortcut)
	for _, s := range all {
		if s.DisplayKey == display || (s.DisplayKey == "" && s.Key == display) {
			return s.Key, true
		}
	}
	return "", false
}

// =============================================================================
// Shortcut Handlers
// =============================================================================

func shortcutToggleFocus(m *Model) (tea.Model, tea.Cmd) {
	m.toggleFocus()
	return m, nil
}

func shortcutSearch(m *Model) (tea.Model, tea.Cmd) {
	return m, m.sidebar.EnterSearchMode()
}

func shortcutNewConversation(m *Model) (tea.Model, tea.Cmd) {
	return m, m.startNewConversation()
}

func shortcutConfirmReset(m *Model) (tea.Model, tea.Cmd) {
	m.modal.Show(modals.NewConfirmResetState())
	return m, nil
}

func shortcutAnalyze(m *Model) (tea.Model, tea.Cmd) {
	return m, m.analyzeConversation()
}

func shortcutRefresh(m *Model) (tea.Model, tea.Cmd) {
	return m, m.refreshHistory()
}

func shortcutCopyReply(m *Model) (tea.Model, tea.Cmd) {
	return m, copyText(m.chat.LastBotReply(), "last reply")
}

func shortcutCopyID(m *Model) (tea.Model, tea.Cmd) {
	return m, copyText(m.session.ActiveID(), "conversation id")
}

func shortcutNextTheme(m *Model) (tea.Model, tea.Cmd) {
	name := ui.NextTheme()
	m.applyTheme(string(name))
	if err := m.config.Save(); err != nil {
		logger.WithComponent("app").Warn("failed to save theme", "error", err)
	}
	return m, m.ShowFlashInfo(fmt.Sprintf("Theme: %s", ui.GetTheme(name).Name))
}

func shortcutSettings(m *Model) (tea.Model, tea.Cmd) {
	names := ui.ThemeNames()
	themes := make([]string, len(names))
	for i, n := range names {
		themes[i] = string(n)
	}
	m.modal.Show(modals.NewSettingsState(
		themes,
		string(ui.CurrentThemeName()),
		m.config.GetServerURL(),
		m.config.GetNotificationsEnabled(),
		config.ValidateServerURL,
	))
	return m, nil
}

func shortcutViewLog(m *Model) (tea.Model, tea.Cmd) {
	m.chat.EnterLogViewerMode(logger.Path())
	return m, nil
}

func shortcutHelp(m *Model) (tea.Model, tea.Cmd) {
	allShortcuts := append(append([]Shortcut(nil), ShortcutRegistry...), helpShortcut)
	sections := m.getApplicableHelpSections(allShortcuts, DisplayOnlyShortcuts)
	m.modal.Show(modals.NewHelpStateFromSections(sections))
	return m, nil
}

func shortcutQuit(m *Model) (tea.Model, tea.Cmd) {
	return m, tea.Quit
}
