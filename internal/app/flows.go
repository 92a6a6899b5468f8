package app

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/moodring/internal/conversation"
	"github.com/zhubert/moodring/internal/errors"
	"github.com/zhubert/moodring/internal/logger"
	"github.com/zhubert/moodring/internal/notification"
	"github.com/zhubert/moodring/internal/ui"
)

// =============================================================================
// Message dispatch
// =============================================================================

// sendMessage renders the typed turn immediately and returns the request.
// Empty input is a no-op.
func (m *Model) sendMessage() tea.Cmd {
	text := m.chat.GetInput()
	if text == "" {
		return nil
	}

	m.chat.ClearInput()
	m.chat.AppendMessage(conversation.UserMessage(text))

	epoch := m.session.Epoch()
	id := m.session.ActiveID()
	m.pending[epoch]++
	startTicking := m.pending[epoch] == 1
	m.chat.SetWaiting(m.pending[epoch])

	logger.WithConversation(id).Debug("sending message", "epoch", epoch, "length", len(text))

	backend := m.backend
	request := func() tea.Msg {
		reply, err := backend.Chat(context.Background(), text, id)
		return chatResultMsg{epoch: epoch, conversationID: id, reply: reply, err: err}
	}
	if startTicking {
		return tea.Batch(request, ui.StopwatchTick())
	}
	return request
}

// finishPending drops one outstanding reply for epoch.
func (m *Model) finishPending(epoch uint64) {
	if m.pending[epoch] > 0 {
		m.pending[epoch]--
	}
	if m.pending[epoch] == 0 {
		delete(m.pending, epoch)
	}
	if m.session.IsCurrent(epoch) {
		m.chat.SetWaiting(m.pending[epoch])
	}
}

func (m *Model) handleChatResult(msg chatResultMsg) (tea.Model, tea.Cmd) {
	m.finishPending(msg.epoch)
	log := logger.WithConversation(msg.conversationID)

	if !m.session.IsCurrent(msg.epoch) {
		log.Debug("chat result for a replaced transcript", "epoch", msg.epoch, "current", m.session.Epoch())
		return m, m.refreshHistory()
	}

	if msg.err != nil {
		log.Error("chat request failed", "kind", errors.GetKind(msg.err), "error", msg.err)
		m.chat.AppendMessage(conversation.BotMessage(conversation.Apology))
		return m, nil
	}

	var cmds []tea.Cmd
	if m.session.AdoptCreated(msg.reply.ConversationID) {
		m.setActive(msg.reply.ConversationID)
		cmds = append(cmds, m.refreshHistory())
	}
	m.chat.AttachSentiment(msg.reply.UserSentiment)
	m.chat.AppendMessage(conversation.BotMessage(msg.reply.Response))

	if !m.windowFocused && m.config.GetNotificationsEnabled() {
		go notification.ReplyReady(msg.reply.Response)
	}

	return m, tea.Batch(cmds...)
}

// =============================================================================
// Reset / new conversation
// =============================================================================

// startNewConversation asks the server for a fresh conversation.
func (m *Model) startNewConversation() tea.Cmd {
	logger.WithComponent("app").Debug("requesting new conversation", "previous", m.session.ActiveID())
	backend := m.backend
	return func() tea.Msg {
		id, err := backend.Reset(context.Background())
		return resetResultMsg{conversationID: id, err: err}
	}
}

func (m *Model) handleResetResult(msg resetResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		logger.WithComponent("app").Error("reset failed", "kind", errors.GetKind(msg.err), "error", msg.err)
		return m, nil
	}

	m.session.Reset(msg.conversationID)
	m.setActive(msg.conversationID)
	m.chat.Clear()
	m.chat.HideSummary()
	m.chat.AppendMessage(conversation.BotMessage(conversation.Greeting))

	return m, m.refreshHistory()
}

// =============================================================================
// History
// =============================================================================

// refreshHistory reloads the conversation list.
func (m *Model) refreshHistory() tea.Cmd {
	m.historySeq++
	seq := m.historySeq
	m.sidebar.SetLoading(true)

	backend := m.backend
	return func() tea.Msg {
		entries, err := backend.History(context.Background())
		return historyLoadedMsg{seq: seq, entries: entries, err: err}
	}
}

func (m *Model) handleHistoryLoaded(msg historyLoadedMsg) (tea.Model, tea.Cmd) {
	log := logger.WithComponent("history")

	if msg.seq < m.historyApplied {
		log.Debug("dropping out-of-order history", "seq", msg.seq, "applied", m.historyApplied)
		return m, nil
	}
	if msg.err != nil {
		log.Error("history refresh failed", "kind", errors.GetKind(msg.err), "error", msg.err)
		if msg.seq == m.historySeq {
			m.sidebar.SetLoading(false)
		}
		return m, nil
	}

	m.historyApplied = msg.seq
	m.sidebar.SetEntries(msg.entries)
	m.sidebar.SetActive(m.session.ActiveID())
	if msg.seq < m.historySeq {
		// A newer refresh is still outstanding
		m.sidebar.SetLoading(true)
	}
	log.Debug("history loaded", "count", len(msg.entries), "seq", msg.seq)
	return m, nil
}

// selectConversation switches the transcript to id. Selecting the active
// conversation does nothing.
func (m *Model) selectConversation(id string) tea.Cmd {
	if !m.session.Select(id) {
		return nil
	}

	m.setActive(id)
	m.chat.Clear()
	m.chat.HideSummary()

	epoch := m.session.Epoch()
	backend := m.backend
	return func() tea.Msg {
		messages, err := backend.Conversation(context.Background(), id)
		return conversationLoadedMsg{epoch: epoch, conversationID: id, messages: messages, err: err}
	}
}

func (m *Model) handleConversationLoaded(msg conversationLoadedMsg) (tea.Model, tea.Cmd) {
	log := logger.WithConversation(msg.conversationID)

	if !m.session.IsCurrent(msg.epoch) {
		log.Debug("dropping transcript for a replaced selection", "epoch", msg.epoch)
		return m, nil
	}
	if msg.err != nil {
		log.Error("loading conversation failed", "kind", errors.GetKind(msg.err), "error", msg.err)
		return m, nil
	}

	m.chat.ReplaceMessages(msg.messages)
	return m, m.refreshHistory()
}

// =============================================================================
// Sentiment summary
// =============================================================================

// analyzeConversation requests the verdict for the active conversation.
// Without one it does nothing.
func (m *Model) analyzeConversation() tea.Cmd {
	id, ok := m.session.Active()
	if !ok {
		return nil
	}

	epoch := m.session.Epoch()
	backend := m.backend
	return func() tea.Msg {
		verdict, err := backend.Analyze(context.Background(), id)
		return analysisResultMsg{epoch: epoch, conversationID: id, verdict: verdict, err: err}
	}
}

func (m *Model) handleAnalysisResult(msg analysisResultMsg) (tea.Model, tea.Cmd) {
	log := logger.WithConversation(msg.conversationID)

	if msg.err != nil {
		log.Error("analysis failed", "kind", errors.GetKind(msg.err), "error", msg.err)
		return m, nil
	}
	if !m.session.IsCurrent(msg.epoch) {
		log.Debug("dropping verdict for a replaced transcript", "epoch", msg.epoch)
		return m, nil
	}

	m.chat.ShowSummary(msg.verdict)
	return m, nil
}
