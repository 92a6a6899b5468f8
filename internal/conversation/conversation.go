// Package conversation defines the value types the client exchanges with the
// chat server: messages, sentiment labels, history entries and verdicts.
//
// Nothing in this package performs I/O. The api package decodes server
// payloads into these types and the ui package projects them for display.
package conversation

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Greeting is the bot turn shown after a conversation is reset.
const Greeting = "Hello! I'm ready to chat. I'll analyze our conversation sentiment when you're done."

// Apology replaces the bot reply when a send fails.
const Apology = "Sorry, something went wrong."

// PreviewPlaceholder labels a history entry that has no messages yet.
const PreviewPlaceholder = "New Conversation"

// NoSummary is shown when a verdict carries no summary text.
const NoSummary = "No summary available."

// DateLayout is how history entries show their creation date.
const DateLayout = "Jan 2, 2006"

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Sentiment is a server-assigned label. The zero value means unknown.
type Sentiment string

const (
	SentimentUnknown  Sentiment = ""
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// ParseSentiment maps a server label onto one of the three known labels.
// Any other non-empty label is treated as Neutral; an empty label stays
// unknown.
func ParseSentiment(s string) Sentiment {
	switch s {
	case "":
		return SentimentUnknown
	case string(SentimentPositive):
		return SentimentPositive
	case string(SentimentNegative):
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Known reports whether the label is set.
func (s Sentiment) Known() bool {
	return s != SentimentUnknown
}

// Message is one turn of a conversation. ID is local to this client and is
// never sent to the server.
type Message struct {
	ID        string
	Sender    Sender
	Text      string
	Sentiment Sentiment
}

// NewMessage returns a message with a fresh local id.
func NewMessage(sender Sender, text string, sentiment Sentiment) Message {
	return Message{
		ID:        uuid.New().String(),
		Sender:    sender,
		Text:      text,
		Sentiment: sentiment,
	}
}

// UserMessage returns an unlabelled user turn.
func UserMessage(text string) Message {
	return NewMessage(SenderUser, text, SentimentUnknown)
}

// BotMessage returns a bot turn.
func BotMessage(text string) Message {
	return NewMessage(SenderBot, text, SentimentUnknown)
}

// IsUser reports whether the user wrote the message.
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// HasBadge reports whether a sentiment label is attached. Only user turns
// carry badges.
func (m Message) HasBadge() bool {
	return m.IsUser() && m.Sentiment.Known()
}

// HistoryEntry is the list-view projection of a stored conversation.
type HistoryEntry struct {
	ID          string
	CreatedAt   time.Time
	LastMessage string
}

// Preview returns the last message or a placeholder for empty conversations.
func (e HistoryEntry) Preview() string {
	if e.LastMessage == "" {
		return PreviewPlaceholder
	}
	return e.LastMessage
}

// DisplayDate formats the creation date in local time.
func (e HistoryEntry) DisplayDate() string {
	if e.CreatedAt.IsZero() {
		return "Unknown date"
	}
	return e.CreatedAt.Local().Format(DateLayout)
}

// Verdict is the aggregate sentiment of a whole conversation.
type Verdict struct {
	Label   string
	Score   float64
	Summary string
}

// Sentiment returns the verdict label as a Sentiment.
func (v Verdict) Sentiment() Sentiment {
	return ParseSentiment(v.Label)
}

// FormattedScore renders the score with four decimal places.
func (v Verdict) FormattedScore() string {
	return strconv.FormatFloat(v.Score, 'f', 4, 64)
}

// SummaryText returns the summary or the placeholder.
func (v Verdict) SummaryText() string {
	if v.Summary == "" {
		return NoSummary
	}
	return v.Summary
}
