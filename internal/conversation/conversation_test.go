package conversation

import (
	"testing"
	"time"
)

func TestParseSentiment(t *testing.T) {
	tests := []struct {
		in   string
		want Sentiment
	}{
		{"Positive", SentimentPositive},
		{"Negative", SentimentNegative},
		{"Neutral", SentimentNeutral},
		{"Mixed", SentimentNeutral},
		{"positive", SentimentNeutral},
		{"", SentimentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseSentiment(tt.in); got != tt.want {
				t.Errorf("ParseSentiment(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMessage_HasBadge(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want bool
	}{
		{"unlabelled user", UserMessage("hi"), false},
		{"labelled user", NewMessage(SenderUser, "hi", SentimentPositive), true},
		{"bot never badged", NewMessage(SenderBot, "hi", SentimentPositive), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.HasBadge(); got != tt.want {
				t.Errorf("HasBadge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewMessage_UniqueIDs(t *testing.T) {
	a, b := UserMessage("same"), UserMessage("same")
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
}

func TestHistoryEntry_Preview(t *testing.T) {
	if got := (HistoryEntry{}).Preview(); got != PreviewPlaceholder {
		t.Errorf("Preview() = %q, want %q", got, PreviewPlaceholder)
	}
	if got := (HistoryEntry{LastMessage: "bye"}).Preview(); got != "bye" {
		t.Errorf("Preview() = %q, want %q", got, "bye")
	}
}

func TestHistoryEntry_DisplayDate(t *testing.T) {
	if got := (HistoryEntry{}).DisplayDate(); got != "Unknown date" {
		t.Errorf("DisplayDate() = %q, want %q", got, "Unknown date")
	}

	created := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.Local)
	if got := (HistoryEntry{CreatedAt: created}).DisplayDate(); got != "Mar 5, 2024" {
		t.Errorf("DisplayDate() = %q, want %q", got, "Mar 5, 2024")
	}
}

func TestVerdict(t *testing.T) {
	tests := []struct {
		name      string
		verdict   Verdict
		score     string
		summary   string
		sentiment Sentiment
	}{
		{"positive with summary", Verdict{"Positive", 0.87654321, "Upbeat chat."}, "0.8765", "Upbeat chat.", SentimentPositive},
		{"negative no summary", Verdict{"Negative", -0.5, ""}, "-0.5000", NoSummary, SentimentNegative},
		{"other label", Verdict{"Mixed", 0, ""}, "0.0000", NoSummary, SentimentNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.verdict.FormattedScore(); got != tt.score {
				t.Errorf("FormattedScore() = %q, want %q", got, tt.score)
			}
			if got := tt.verdict.SummaryText(); got != tt.summary {
				t.Errorf("SummaryText() = %q, want %q", got, tt.summary)
			}
			if got := tt.verdict.Sentiment(); got != tt.sentiment {
				t.Errorf("Sentiment() = %q, want %q", got, tt.sentiment)
			}
		})
	}
}
