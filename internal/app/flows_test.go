package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/moodring/internal/api"
	"github.com/zhubert/moodring/internal/conversation"
	"github.com/zhubert/moodring/internal/keys"
)

func TestSend_EmptyInputIsNoop(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t "} {
		fb := newFakeBackend()
		m := testModel(t, fb)
		m.chat.SetInput(input)

		cmd := sendKey(m, keys.Enter)
		settle(m, cmd)

		if got := len(m.chat.Messages()); got != 0 {
			t.Errorf("input %q: %d messages, want 0", input, got)
		}
		if fb.count("chat") != 0 {
			t.Errorf("input %q: chat called %d times, want 0", input, fb.count("chat"))
		}
	}
}

func TestSend_RendersUserTurnBeforeResponse(t *testing.T) {
	fb := newFakeBackend()
	fb.chatReply = &api.ChatReply{ConversationID: "c1", UserSentiment: conversation.SentimentPositive, Response: "ok"}
	m := testModel(t, fb)
	m.chat.SetInput("  hello there  ")

	cmd := sendKey(m, keys.Enter)

	msgs := m.chat.Messages()
	if len(msgs) != 1 {
		t.Fatalf("got %d messages before the response, want 1", len(msgs))
	}
	if msgs[0].Sender != conversation.SenderUser || msgs[0].Text != "hello there" {
		t.Errorf("optimistic turn = %+v, want user %q", msgs[0], "hello there")
	}
	if msgs[0].HasBadge() {
		t.Error("optimistic turn should have no badge yet")
	}
	if m.chat.GetInput() != "" {
		t.Errorf("input = %q, want cleared", m.chat.GetInput())
	}
	if fb.count("chat") != 0 {
		t.Error("request should not run before the command is executed")
	}
	if !m.chat.IsWaiting() {
		t.Error("chat should show the waiting indicator")
	}

	settle(m, cmd)
	if m.chat.IsWaiting() {
		t.Error("waiting indicator should clear after the reply")
	}
}

func TestSend_NewConversationExample(t *testing.T) {
	fb := newFakeBackend()
	fb.chatReply = &api.ChatReply{ConversationID: "c1", UserSentiment: conversation.SentimentPositive, Response: "**Great!**"}
	fb.history = []conversation.HistoryEntry{{ID: "c1", CreatedAt: time.Now(), LastMessage: "I love this"}}
	m := testModel(t, fb)
	m.chat.SetInput("I love this")

	settle(m, sendKey(m, keys.Enter))

	if fb.lastChat != [2]string{"I love this", ""} {
		t.Errorf("chat request = %q, want message with no conversation id", fb.lastChat)
	}
	if got := m.session.ActiveID(); got != "c1" {
		t.Errorf("active = %q, want c1", got)
	}

	msgs := m.chat.Messages()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Text != "I love this" || msgs[0].Sentiment != conversation.SentimentPositive {
		t.Errorf("user turn = %+v, want tagged Positive", msgs[0])
	}
	if msgs[1].Sender != conversation.SenderBot || msgs[1].Text != "**Great!**" {
		t.Errorf("bot turn = %+v", msgs[1])
	}

	content := ansi.Strip(m.chat.ViewportContent())
	if !strings.Contains(content, "Great!") || strings.Contains(content, "**Great!**") {
		t.Errorf("bot markdown not rendered:\n%s", content)
	}

	if fb.count("history") != 1 {
		t.Errorf("history refreshed %d times, want 1 after creating a conversation", fb.count("history"))
	}
	if m.sidebar.ActiveID() != "c1" {
		t.Errorf("sidebar active = %q, want c1", m.sidebar.ActiveID())
	}
}

func TestSend_ExistingConversationSkipsRefresh(t *testing.T) {
	fb := newFakeBackend()
	fb.chatReply = &api.ChatReply{ConversationID: "c1", UserSentiment: conversation.SentimentNeutral, Response: "fine"}
	m := testModel(t, fb)
	m.session.Reset("c1")

	m.chat.SetInput("hello")
	settle(m, sendKey(m, keys.Enter))

	if fb.lastChat[1] != "c1" {
		t.Errorf("sent with conversation %q, want c1", fb.lastChat[1])
	}
	if fb.count("history") != 0 {
		t.Errorf("history refreshed %d times, want 0 when the id is unchanged", fb.count("history"))
	}
}

func TestSend_FailureAppendsApology(t *testing.T) {
	fb := newFakeBackend()
	fb.chatErr = errors.New("connection refused")
	m := testModel(t, fb)
	m.chat.SetInput("hello")

	settle(m, sendKey(m, keys.Enter))

	msgs := m.chat.Messages()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want user turn plus apology", len(msgs))
	}
	if msgs[0].Text != "hello" || msgs[0].HasBadge() {
		t.Errorf("user turn modified: %+v", msgs[0])
	}
	if msgs[1].Text != conversation.Apology {
		t.Errorf("bot turn = %q, want apology", msgs[1].Text)
	}
	if m.session.HasActive() {
		t.Error("a failed send must not set an active conversation")
	}
}

func TestSend_SentimentAttachedAtMostOnce(t *testing.T) {
	fb := newFakeBackend()
	m := testModel(t, fb)
	m.session.Reset("c1")
	m.chat.SetInput("hello")
	sendKey(m, keys.Enter)

	epoch := m.session.Epoch()
	first := chatResultMsg{epoch: epoch, conversationID: "c1",
		reply: &api.ChatReply{ConversationID: "c1", UserSentiment: conversation.SentimentPositive, Response: "a"}}
	second := chatResultMsg{epoch: epoch, conversationID: "c1",
		reply: &api.ChatReply{ConversationID: "c1", UserSentiment: conversation.SentimentNegative, Response: "b"}}

	m.Update(first)
	m.Update(second)

	var users []conversation.Message
	for _, msg := range m.chat.Messages() {
		if msg.IsUser() {
			users = append(users, msg)
		}
	}
	if len(users) != 1 {
		t.Fatalf("got %d user turns, want 1", len(users))
	}
	if users[0].Sentiment != conversation.SentimentPositive {
		t.Errorf("sentiment = %q, want the first label to stick", users[0].Sentiment)
	}
}

func TestSend_StaleResultOnlyRefreshesHistory(t *testing.T) {
	fb := newFakeBackend()
	fb.chatReply = &api.ChatReply{ConversationID: "c1", UserSentiment: conversation.SentimentPositive, Response: "late"}
	m := testModel(t, fb)
	m.chat.SetInput("hello")
	sendCmd := sendKey(m, keys.Enter)

	// The user starts over while the reply is in flight
	m.Update(resetResultMsg{conversationID: "c2"})

	msgs := collectMsgs(sendCmd)
	result, ok := findMsg[chatResultMsg](msgs)
	if !ok {
		t.Fatal("send produced no chatResultMsg")
	}
	_, cmd := m.Update(result)

	got := m.chat.Messages()
	if len(got) != 1 || got[0].Text != conversation.Greeting {
		t.Errorf("transcript = %+v, want only the greeting", got)
	}
	if m.session.ActiveID() != "c2" {
		t.Errorf("active = %q, want c2", m.session.ActiveID())
	}
	if m.chat.IsWaiting() {
		t.Error("the new transcript should not show a waiting indicator")
	}
	if _, ok := findMsg[historyLoadedMsg](collectMsgs(cmd)); !ok {
		t.Error("a stale reply should still refresh history")
	}
}

func TestReset_Example(t *testing.T) {
	fb := newFakeBackend()
	fb.resetID = "c1"
	fb.history = []conversation.HistoryEntry{{ID: "c1", CreatedAt: time.Now()}}
	m := testModel(t, fb)
	m.chat.AppendMessage(conversation.UserMessage("old"))
	m.chat.ShowSummary(conversation.Verdict{Label: "Positive", Score: 0.5})

	settle(m, sendKey(m, keys.CtrlN))

	msgs := m.chat.Messages()
	if len(msgs) != 1 || msgs[0].Sender != conversation.SenderBot || msgs[0].Text != conversation.Greeting {
		t.Errorf("transcript = %+v, want exactly the greeting", msgs)
	}
	if m.chat.Summary().Visible() {
		t.Error("summary should be hidden after reset")
	}
	if m.session.ActiveID() != "c1" {
		t.Errorf("active = %q, want c1", m.session.ActiveID())
	}
	entries := m.sidebar.Entries()
	if len(entries) != 1 || entries[0].ID != "c1" || entries[0].Preview() != conversation.PreviewPlaceholder {
		t.Errorf("history = %+v, want c1 with no preview", entries)
	}
}

func TestReset_FailureKeepsState(t *testing.T) {
	fb := newFakeBackend()
	fb.resetErr = errors.New("boom")
	m := testModel(t, fb)
	m.session.Reset("c1")
	m.chat.AppendMessage(conversation.UserMessage("keep me"))

	settle(m, sendKey(m, keys.CtrlN))

	if m.session.ActiveID() != "c1" {
		t.Errorf("active = %q, want c1 unchanged", m.session.ActiveID())
	}
	if len(m.chat.Messages()) != 1 {
		t.Errorf("transcript changed on a failed reset: %+v", m.chat.Messages())
	}
}

func TestSelect_ActiveConversationIsNoop(t *testing.T) {
	fb := newFakeBackend()
	m := testModel(t, fb)
	m.session.Reset("c1")
	m.chat.AppendMessage(conversation.UserMessage("still here"))
	m.chat.ShowSummary(conversation.Verdict{Label: "Neutral"})

	if cmd := m.selectConversation("c1"); cmd != nil {
		t.Error("selecting the active conversation should return no command")
	}
	if len(m.chat.Messages()) != 1 {
		t.Error("transcript should not be cleared")
	}
	if !m.chat.Summary().Visible() {
		t.Error("summary should stay visible")
	}
	if fb.count("conversation") != 0 {
		t.Error("no transcript fetch expected")
	}
}

func TestSelect_DifferentConversationReplacesTranscript(t *testing.T) {
	fb := newFakeBackend()
	fb.conversations["c2"] = []conversation.Message{
		conversation.NewMessage(conversation.SenderUser, "first", conversation.SentimentNegative),
		conversation.NewMessage(conversation.SenderBot, "reply", ""),
		conversation.NewMessage(conversation.SenderUser, "second", ""),
	}
	m := testModel(t, fb)
	m.session.Reset("c1")
	m.chat.AppendMessage(conversation.UserMessage("from c1"))
	m.chat.ShowSummary(conversation.Verdict{Label: "Positive"})

	cmd := m.selectConversation("c2")
	if cmd == nil {
		t.Fatal("expected a fetch command")
	}
	if len(m.chat.Messages()) != 0 {
		t.Error("transcript should be cleared before the fetch completes")
	}
	if m.chat.Summary().Visible() {
		t.Error("summary should be hidden before the fetch completes")
	}
	if m.sidebar.ActiveID() != "c2" {
		t.Errorf("highlight = %q, want c2", m.sidebar.ActiveID())
	}

	settle(m, cmd)

	got := m.chat.Messages()
	want := fb.conversations["c2"]
	if len(got) != len(want) {
		t.Fatalf("got %d messages, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Text != want[i].Text || got[i].Sentiment != want[i].Sentiment {
			t.Errorf("message %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if fb.count("history") != 1 {
		t.Errorf("history refreshed %d times, want 1 after a switch", fb.count("history"))
	}
}

func TestSelect_StaleTranscriptDropped(t *testing.T) {
	fb := newFakeBackend()
	m := testModel(t, fb)

	m.selectConversation("c2")
	staleEpoch := m.session.Epoch()
	m.selectConversation("c3")

	m.Update(conversationLoadedMsg{
		epoch:          staleEpoch,
		conversationID: "c2",
		messages:       []conversation.Message{conversation.UserMessage("wrong")},
	})

	if len(m.chat.Messages()) != 0 {
		t.Errorf("stale transcript rendered: %+v", m.chat.Messages())
	}
}

func TestSelect_FailureLeavesTranscriptCleared(t *testing.T) {
	fb := newFakeBackend()
	fb.conversationErr = errors.New("not found")
	m := testModel(t, fb)
	m.chat.AppendMessage(conversation.UserMessage("old"))

	settle(m, m.selectConversation("c2"))

	if len(m.chat.Messages()) != 0 {
		t.Errorf("transcript = %+v, want cleared", m.chat.Messages())
	}
	if m.session.ActiveID() != "c2" {
		t.Errorf("active = %q, want c2", m.session.ActiveID())
	}
}

func TestSelect_EnterOnSidebarEntry(t *testing.T) {
	fb := newFakeBackend()
	m := testModel(t, fb)
	m.Update(historyLoadedMsg{seq: 1, entries: []conversation.HistoryEntry{
		{ID: "c9", CreatedAt: time.Now(), LastMessage: "hi"},
		{ID: "c8", CreatedAt: time.Now(), LastMessage: "yo"},
	}})
	m.setFocus(FocusSidebar)

	sendKey(m, keys.Down)
	cmd := sendKey(m, keys.Enter)

	if m.session.ActiveID() != "c8" {
		t.Errorf("active = %q, want c8", m.session.ActiveID())
	}
	if m.focus != FocusChat {
		t.Error("opening a conversation should focus the chat")
	}
	if _, ok := findMsg[conversationLoadedMsg](collectMsgs(cmd)); !ok {
		t.Error("expected the transcript fetch")
	}
}

func TestAnalyze_NoActiveConversation(t *testing.T) {
	fb := newFakeBackend()
	m := testModel(t, fb)

	if cmd := m.analyzeConversation(); cmd != nil {
		t.Error("analyze without a conversation should return no command")
	}
	settle(m, sendKey(m, keys.CtrlE))

	if fb.count("analyze") != 0 {
		t.Errorf("analyze called %d times, want 0", fb.count("analyze"))
	}
	if m.chat.Summary().Visible() {
		t.Error("summary panel should stay hidden")
	}
}

func TestAnalyze_ShowsVerdict(t *testing.T) {
	fb := newFakeBackend()
	fb.verdict = conversation.Verdict{Label: "Negative", Score: 0.5, Summary: "Grumpy."}
	m := testModel(t, fb)
	m.session.Reset("c1")
	m.chat.AppendMessage(conversation.UserMessage("ugh"))

	settle(m, sendKey(m, keys.CtrlE))

	if !m.chat.Summary().Visible() {
		t.Fatal("summary panel should be visible")
	}
	if got := m.chat.Summary().Verdict(); got != fb.verdict {
		t.Errorf("verdict = %+v, want %+v", got, fb.verdict)
	}
	if len(m.chat.Messages()) != 1 {
		t.Error("analysis must not change the transcript")
	}
	content := ansi.Strip(m.chat.ViewportContent())
	if !strings.Contains(content, "0.5000") || !strings.Contains(content, "Grumpy.") {
		t.Errorf("verdict not rendered:\n%s", content)
	}
}

func TestAnalyze_FailureKeepsPanelHidden(t *testing.T) {
	fb := newFakeBackend()
	fb.analyzeErr = errors.New("timeout")
	m := testModel(t, fb)
	m.session.Reset("c1")

	settle(m, sendKey(m, keys.CtrlE))

	if m.chat.Summary().Visible() {
		t.Error("summary panel should stay hidden on failure")
	}
}

func TestAnalyze_StaleVerdictDropped(t *testing.T) {
	fb := newFakeBackend()
	m := testModel(t, fb)
	m.session.Reset("c1")
	epoch := m.session.Epoch()
	m.session.Reset("c2")

	m.Update(analysisResultMsg{epoch: epoch, conversationID: "c1", verdict: conversation.Verdict{Label: "Positive"}})

	if m.chat.Summary().Visible() {
		t.Error("a verdict for a replaced conversation should be dropped")
	}
}

func TestHistory_NewestRefreshWins(t *testing.T) {
	fb := newFakeBackend()
	m := testModel(t, fb)

	m.refreshHistory()
	m.refreshHistory()

	newer := historyLoadedMsg{seq: 2, entries: []conversation.HistoryEntry{{ID: "new"}}}
	older := historyLoadedMsg{seq: 1, entries: []conversation.HistoryEntry{{ID: "old"}}}
	m.Update(newer)
	m.Update(older)

	entries := m.sidebar.Entries()
	if len(entries) != 1 || entries[0].ID != "new" {
		t.Errorf("entries = %+v, want the newer list", entries)
	}
	if m.sidebar.IsLoading() {
		t.Error("sidebar should not be loading once the newest refresh landed")
	}
}

func TestHistory_KeepsServerOrderAndMarksActive(t *testing.T) {
	fb := newFakeBackend()
	fb.history = []conversation.HistoryEntry{{ID: "b"}, {ID: "c"}, {ID: "a"}}
	m := testModel(t, fb)
	m.session.Reset("c")

	settle(m, m.refreshHistory())

	var ids []string
	for _, e := range m.sidebar.Entries() {
		ids = append(ids, e.ID)
	}
	if strings.Join(ids, ",") != "b,c,a" {
		t.Errorf("order = %v, want server order b,c,a", ids)
	}
	if m.sidebar.ActiveID() != "c" {
		t.Errorf("active = %q, want c", m.sidebar.ActiveID())
	}
}

func TestHistory_FailureKeepsList(t *testing.T) {
	fb := newFakeBackend()
	m := testModel(t, fb)
	m.Update(historyLoadedMsg{seq: 0, entries: []conversation.HistoryEntry{{ID: "x"}}})

	fb.historyErr = errors.New("down")
	settle(m, m.refreshHistory())

	if len(m.sidebar.Entries()) != 1 {
		t.Errorf("entries = %+v, want the previous list kept", m.sidebar.Entries())
	}
	if m.sidebar.IsLoading() {
		t.Error("loading should end after a failed refresh")
	}
}
