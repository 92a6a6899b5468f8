package ui

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/zhubert/moodring/internal/conversation"
)

// SummaryPanel shows the aggregate sentiment verdict of the active
// conversation. It is hidden until Show is called.
type SummaryPanel struct {
	verdict conversation.Verdict
	visible bool
}

// NewSummaryPanel creates a hidden summary panel
func NewSummaryPanel() *SummaryPanel {
	return &SummaryPanel{}
}

// Show displays verdict, replacing any previous one.
func (s *SummaryPanel) Show(verdict conversation.Verdict) {
	s.verdict = verdict
	s.visible = true
}

// Hide hides the panel.
func (s *SummaryPanel) Hide() {
	s.visible = false
	s.verdict = conversation.Verdict{}
}

// Visible reports whether the panel is shown.
func (s *SummaryPanel) Visible() bool {
	return s.visible
}

// Verdict returns the verdict on display.
func (s *SummaryPanel) Verdict() conversation.Verdict {
	return s.verdict
}

// View renders the panel at the given outer width, or "" when hidden.
func (s *SummaryPanel) View(width int) string {
	if !s.visible {
		return ""
	}
	return RenderVerdict(s.verdict, width)
}

// RenderVerdict renders a boxed verdict: label colored by sentiment, score to
// four decimals, and the summary text.
func RenderVerdict(v conversation.Verdict, width int) string {
	labelStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(CurrentTheme().SentimentColor(v.Label)))

	label := v.Label
	if label == "" {
		label = string(conversation.SentimentNeutral)
	}

	// Box border and padding take four columns.
	inner := max(width-4, 10)

	var sb strings.Builder
	sb.WriteString(SummaryTitleStyle.Render("Conversation Sentiment"))
	sb.WriteString("\n")
	sb.WriteString(SummaryFieldStyle.Render("Overall: "))
	sb.WriteString(labelStyle.Render(Sanitize(label)))
	sb.WriteString("\n")
	sb.WriteString(SummaryFieldStyle.Render("Score:   "))
	sb.WriteString(v.FormattedScore())
	sb.WriteString("\n\n")
	sb.WriteString(wrapText(Sanitize(v.SummaryText()), inner))

	return SummaryBoxStyle.Width(width).Render(sb.String())
}
