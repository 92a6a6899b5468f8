package app

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/moodring/internal/api"
	"github.com/zhubert/moodring/internal/config"
	"github.com/zhubert/moodring/internal/conversation"
	"github.com/zhubert/moodring/internal/logger"
	"github.com/zhubert/moodring/internal/session"
	"github.com/zhubert/moodring/internal/ui"
)

// Focus represents which panel is focused
type Focus int

const (
	FocusSidebar Focus = iota
	FocusChat
)

// String returns a human-readable name for the focus
func (f Focus) String() string {
	switch f {
	case FocusSidebar:
		return "sidebar"
	case FocusChat:
		return "chat"
	default:
		return "unknown"
	}
}

// Backend is the chat server as the flows see it. *api.Client satisfies it.
type Backend interface {
	Chat(ctx context.Context, message, conversationID string) (*api.ChatReply, error)
	Analyze(ctx context.Context, conversationID string) (conversation.Verdict, error)
	Reset(ctx context.Context) (string, error)
	History(ctx context.Context) ([]conversation.HistoryEntry, error)
	Conversation(ctx context.Context, conversationID string) ([]conversation.Message, error)
}

// BackendFactory builds a Backend for the configured server. It is called
// again when the server address changes in settings.
type BackendFactory func(cfg *config.Config) Backend

// DefaultBackendFactory talks to the configured server over HTTP.
func DefaultBackendFactory(cfg *config.Config) Backend {
	return api.NewClient(cfg.GetServerURL(), cfg.GetRequestTimeout())
}

// Model is the main Bubble Tea model
type Model struct {
	config     *config.Config
	version    string
	backend    Backend
	newBackend BackendFactory

	header  *ui.Header
	footer  *ui.Footer
	sidebar *ui.Sidebar
	chat    *ui.Chat
	modal   *ui.Modal

	width  int
	height int
	focus  Focus

	session *session.State

	// History refreshes are sequenced separately from the transcript epoch:
	// the newest issued refresh wins.
	historySeq     uint64
	historyApplied uint64

	// Replies outstanding per transcript epoch
	pending map[uint64]int

	windowFocused bool
}

// New creates a new app model. A nil factory uses DefaultBackendFactory.
func New(cfg *config.Config, factory BackendFactory, version string) *Model {
	if factory == nil {
		factory = DefaultBackendFactory
	}
	if savedTheme := cfg.GetTheme(); savedTheme != "" {
		ui.SetThemeByName(savedTheme)
	}

	m := &Model{
		config:        cfg,
		version:       version,
		backend:       factory(cfg),
		newBackend:    factory,
		header:        ui.NewHeader(),
		footer:        ui.NewFooter(),
		sidebar:       ui.NewSidebar(),
		chat:          ui.NewChat(),
		modal:         ui.NewModal(),
		focus:         FocusChat,
		session:       session.New(),
		pending:       make(map[uint64]int),
		windowFocused: true,
	}

	m.header.SetServer(cfg.GetServerURL())
	m.chat.SetFocused(true)
	m.sidebar.SetLoading(true)

	return m
}

// Init loads the conversation list.
func (m *Model) Init() tea.Cmd {
	logger.WithComponent("app").Info("starting", "version", m.version, "server", m.config.GetServerURL())
	return m.refreshHistory()
}

// Session returns the session state (for tests and subcommands).
func (m *Model) Session() *session.State {
	return m.session
}

// FocusedPanel returns the panel holding keyboard focus.
func (m *Model) FocusedPanel() Focus {
	return m.focus
}

// IsWaiting reports whether a reply is outstanding for the shown transcript.
func (m *Model) IsWaiting() bool {
	return m.chat.IsWaiting()
}

// toggleFocus switches keyboard focus between the sidebar and the chat.
func (m *Model) toggleFocus() {
	if m.focus == FocusSidebar {
		m.setFocus(FocusChat)
	} else {
		m.setFocus(FocusSidebar)
	}
}

func (m *Model) setFocus(f Focus) {
	m.focus = f
	m.sidebar.SetFocused(f == FocusSidebar)
	m.chat.SetFocused(f == FocusChat)
}

// setActive mirrors the active conversation into the views that show it.
func (m *Model) setActive(id string) {
	m.header.SetConversation(id)
	m.sidebar.SetActive(id)
}
