package ui

import (
	"fmt"
	"math/rand"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// StopwatchTickMsg is sent to update the waiting indicator
type StopwatchTickMsg time.Time

// thinkingVerbs are status messages that rotate while a reply is pending
var thinkingVerbs = []string{
	"Thinking",
	"Reading the room",
	"Listening",
	"Pondering",
	"Reflecting",
	"Considering",
	"Gauging the mood",
	"Musing",
}

// randomThinkingVerb returns a random verb from the list
func randomThinkingVerb() string {
	return thinkingVerbs[rand.Intn(len(thinkingVerbs))]
}

// StopwatchTick returns a command that sends a tick message after a delay
func StopwatchTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return StopwatchTickMsg(t)
	})
}

// formatElapsed formats a duration as a stopwatch string (e.g., "1.2s", "1:23")
func formatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// renderWaiting renders the pending-reply line shown under the transcript.
func renderWaiting(verb string, since time.Time, pending int) string {
	stopwatchStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)

	s := ChatAssistantStyle.Render("Bot:") + "\n" +
		StatusLoadingStyle.Render(verb+"... ") +
		stopwatchStyle.Render(formatElapsed(time.Since(since)))
	if pending > 1 {
		s += StatusLoadingStyle.Render(fmt.Sprintf(" (%d replies pending)", pending))
	}
	return s
}
