package app

import (
	"github.com/zhubert/moodring/internal/api"
	"github.com/zhubert/moodring/internal/conversation"
)

// Completion messages for the request commands. Each carries the transcript
// epoch (or history sequence) it was issued under so stale results can be
// told apart from current ones.

// chatResultMsg is the server's answer to one sent turn.
type chatResultMsg struct {
	epoch          uint64
	conversationID string // id the turn was sent with, "" for a new conversation
	reply          *api.ChatReply
	err            error
}

// resetResultMsg carries the identifier of a freshly created conversation.
type resetResultMsg struct {
	conversationID string
	err            error
}

// historyLoadedMsg carries the conversation list.
type historyLoadedMsg struct {
	seq     uint64
	entries []conversation.HistoryEntry
	err     error
}

// conversationLoadedMsg carries the stored turns of a selected conversation.
type conversationLoadedMsg struct {
	epoch          uint64
	conversationID string
	messages       []conversation.Message
	err            error
}

// analysisResultMsg carries the verdict for a whole conversation.
type analysisResultMsg struct {
	epoch          uint64
	conversationID string
	verdict        conversation.Verdict
	err            error
}

// clipboardResultMsg reports a copy to the native clipboard. The OSC 52
// copy is sent alongside it and has no result.
type clipboardResultMsg struct {
	what string
	err  error
}
