package demo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zhubert/moodring/internal/api"
	"github.com/zhubert/moodring/internal/conversation"
	"github.com/zhubert/moodring/internal/errors"
)

// ScriptedReply is the server's answer to the next user turn.
type ScriptedReply struct {
	Sentiment conversation.Sentiment
	Text      string
}

// SeedConversation is a conversation that exists before the demo starts.
type SeedConversation struct {
	ID       string
	Age      time.Duration
	Messages []conversation.Message
	Verdict  *conversation.Verdict
}

// defaultReply answers user turns once the script runs out.
var defaultReply = ScriptedReply{Sentiment: conversation.SentimentNeutral, Text: "Tell me more."}

type storedConversation struct {
	createdAt time.Time
	messages  []conversation.Message
	verdict   *conversation.Verdict
}

// Server is an in-memory chat server for demos. It answers with scripted
// replies and keeps conversations the way the real server does, newest
// first. It satisfies app.Backend.
type Server struct {
	mu sync.Mutex

	order         []string
	conversations map[string]*storedConversation
	replies       []ScriptedReply
	nextID        int
	now           func() time.Time
}

// NewServer creates a server holding the seed conversations and answering
// with replies in order.
func NewServer(seed []SeedConversation, replies []ScriptedReply) *Server {
	s := &Server{
		conversations: make(map[string]*storedConversation),
		replies:       append([]ScriptedReply(nil), replies...),
		now:           time.Now,
	}
	for _, c := range seed {
		s.order = append(s.order, c.ID)
		s.conversations[c.ID] = &storedConversation{
			createdAt: s.now().Add(-c.Age),
			messages:  append([]conversation.Message(nil), c.Messages...),
			verdict:   c.Verdict,
		}
	}
	return s
}

// create starts an empty conversation. Callers must hold mu.
func (s *Server) create() string {
	s.nextID++
	id := fmt.Sprintf("demo%04d%08x", s.nextID, uint32(s.nextID)*2654435761)
	s.order = append([]string{id}, s.order...)
	s.conversations[id] = &storedConversation{createdAt: s.now()}
	return id
}

func (s *Server) lookup(op errors.Op, id string) (*storedConversation, error) {
	c, ok := s.conversations[id]
	if !ok {
		return nil, errors.E(op, errors.KindNotFound, fmt.Sprintf("conversation %s", id))
	}
	return c, nil
}

// Chat stores the user turn, labels it and answers with the next scripted
// reply. An empty id starts a new conversation.
func (s *Server) Chat(_ context.Context, message, conversationID string) (*api.ChatReply, error) {
	const op errors.Op = "demo.Chat"
	s.mu.Lock()
	defer s.mu.Unlock()

	if conversationID == "" {
		conversationID = s.create()
	}
	c, err := s.lookup(op, conversationID)
	if err != nil {
		return nil, err
	}

	reply := defaultReply
	if len(s.replies) > 0 {
		reply, s.replies = s.replies[0], s.replies[1:]
	}

	c.messages = append(c.messages,
		conversation.NewMessage(conversation.SenderUser, message, reply.Sentiment),
		conversation.BotMessage(reply.Text),
	)

	return &api.ChatReply{
		ConversationID: conversationID,
		UserSentiment:  reply.Sentiment,
		Response:       reply.Text,
	}, nil
}

// Analyze returns the seeded verdict, or one derived from the labels of
// the user turns.
func (s *Server) Analyze(_ context.Context, conversationID string) (conversation.Verdict, error) {
	const op errors.Op = "demo.Analyze"
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.lookup(op, conversationID)
	if err != nil {
		return conversation.Verdict{}, err
	}
	if c.verdict != nil {
		return *c.verdict, nil
	}
	return deriveVerdict(c.messages), nil
}

// deriveVerdict scores Positive as 1, Neutral as 0.5 and Negative as 0 and
// averages over the labelled user turns.
func deriveVerdict(messages []conversation.Message) conversation.Verdict {
	var total float64
	var n int
	for _, m := range messages {
		if !m.IsUser() || !m.HasBadge() {
			continue
		}
		switch m.Sentiment {
		case conversation.SentimentPositive:
			total++
		case conversation.SentimentNeutral:
			total += 0.5
		}
		n++
	}
	if n == 0 {
		return conversation.Verdict{Label: string(conversation.SentimentNeutral), Score: 0.5}
	}

	score := total / float64(n)
	label := conversation.SentimentNeutral
	switch {
	case score >= 0.65:
		label = conversation.SentimentPositive
	case score <= 0.35:
		label = conversation.SentimentNegative
	}
	return conversation.Verdict{
		Label:   string(label),
		Score:   score,
		Summary: fmt.Sprintf("Across %d messages the mood was mostly %s.", n, label),
	}
}

// Reset starts a new, empty conversation.
func (s *Server) Reset(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create(), nil
}

// History lists conversations newest first with their last message.
func (s *Server) History(_ context.Context) ([]conversation.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]conversation.HistoryEntry, 0, len(s.order))
	for _, id := range s.order {
		c := s.conversations[id]
		e := conversation.HistoryEntry{ID: id, CreatedAt: c.createdAt}
		if len(c.messages) > 0 {
			e.LastMessage = c.messages[len(c.messages)-1].Text
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Conversation returns the stored turns with fresh local ids.
func (s *Server) Conversation(_ context.Context, conversationID string) ([]conversation.Message, error) {
	const op errors.Op = "demo.Conversation"
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.lookup(op, conversationID)
	if err != nil {
		return nil, err
	}
	out := make([]conversation.Message, len(c.messages))
	for i, m := range c.messages {
		out[i] = conversation.NewMessage(m.Sender, m.Text, m.Sentiment)
	}
	return out, nil
}
