package ui

import (
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/moodring/internal/keys"
)

// LogViewerState holds the debug log overlay shown in place of the
// transcript.
type LogViewerState struct {
	Path       string
	Viewport   viewport.Model
	FollowTail bool
}

// EnterLogViewerMode shows the log file at path over the transcript.
func (c *Chat) EnterLogViewerMode(path string) {
	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3
	vp.SoftWrap = true
	vp.SetWidth(c.viewport.Width())
	vp.SetHeight(c.viewport.Height())

	c.logViewer = &LogViewerState{
		Path:       path,
		Viewport:   vp,
		FollowTail: true,
	}
	c.updateLogViewerContent()
}

// updateLogViewerContent reloads the log file into the overlay viewport.
func (c *Chat) updateLogViewerContent() {
	if c.logViewer == nil {
		return
	}
	if c.logViewer.Path == "" {
		c.logViewer.Viewport.SetContent("Logging is not enabled")
		return
	}

	content, err := os.ReadFile(c.logViewer.Path)
	if err != nil {
		c.logViewer.Viewport.SetContent(fmt.Sprintf("Error reading log file: %v", err))
		return
	}

	c.logViewer.Viewport.SetContent(highlightLogContent(string(content)))
	if c.logViewer.FollowTail {
		c.logViewer.Viewport.GotoBottom()
	} else {
		c.logViewer.Viewport.GotoTop()
	}
}

// highlightLogContent applies syntax highlighting to log content.
func highlightLogContent(content string) string {
	var sb strings.Builder
	for line := range strings.SplitSeq(strings.TrimRight(content, "\n"), "\n") {
		sb.WriteString(highlightLogLine(line))
		sb.WriteString("\n")
	}
	return sb.String()
}

// highlightLogLine colors the level and message of a slog text line.
func highlightLogLine(line string) string {
	if line == "" {
		return line
	}

	levelStyles := []struct {
		token string
		style lipgloss.Style
	}{
		{"level=ERROR", lipgloss.NewStyle().Foreground(ColorError).Bold(true)},
		{"level=WARN", lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)},
		{"level=INFO", lipgloss.NewStyle().Foreground(ColorInfo)},
		{"level=DEBUG", lipgloss.NewStyle().Foreground(ColorTextMuted)},
	}
	for _, ls := range levelStyles {
		if strings.Contains(line, ls.token) {
			line = strings.Replace(line, ls.token, ls.style.Render(ls.token), 1)
			break
		}
	}

	keyStyle := lipgloss.NewStyle().Foreground(ColorPrimary)
	valueStyle := lipgloss.NewStyle().Foreground(ColorText)

	// Quoted msg= values get the text color
	if idx := strings.Index(line, "msg=\""); idx >= 0 {
		rest := line[idx+5:]
		if end := strings.Index(rest, "\""); end >= 0 {
			line = line[:idx] + keyStyle.Render("msg=") +
				valueStyle.Render("\""+rest[:end+1]) + rest[end+1:]
		}
	}

	return line
}

// ExitLogViewerMode closes the log overlay.
func (c *Chat) ExitLogViewerMode() {
	c.logViewer = nil
}

// IsInLogViewerMode reports whether the log overlay is showing.
func (c *Chat) IsInLogViewerMode() bool {
	return c.logViewer != nil
}

// RefreshLogViewer reloads the log file.
func (c *Chat) RefreshLogViewer() {
	c.updateLogViewerContent()
}

// ToggleLogViewerFollowTail toggles pinning the view to the end of the log.
func (c *Chat) ToggleLogViewerFollowTail() {
	if c.logViewer == nil {
		return
	}
	c.logViewer.FollowTail = !c.logViewer.FollowTail
	if c.logViewer.FollowTail {
		c.logViewer.Viewport.GotoBottom()
	}
}

// LogViewerFollowTail reports whether follow mode is on.
func (c *Chat) LogViewerFollowTail() bool {
	return c.logViewer != nil && c.logViewer.FollowTail
}

// updateLogViewer handles input while the log overlay is open.
func (c *Chat) updateLogViewer(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case keys.Escape, "q":
			c.ExitLogViewerMode()
			return nil
		case "f":
			c.ToggleLogViewerFollowTail()
			return nil
		case "r":
			c.RefreshLogViewer()
			return nil
		}
	}

	var cmd tea.Cmd
	c.logViewer.Viewport, cmd = c.logViewer.Viewport.Update(msg)
	return cmd
}

// renderLogViewerMode renders the log overlay with its title bar.
func (c *Chat) renderLogViewerMode(panelStyle lipgloss.Style) string {
	innerWidth := c.width - BorderSize
	innerHeight := c.height - InputTotalHeight - BorderSize

	navBar := c.renderLogNavBar(innerWidth)
	logHeight := max(innerHeight-1, 1)

	c.logViewer.Viewport.SetWidth(innerWidth)
	c.logViewer.Viewport.SetHeight(logHeight)

	logContent := lipgloss.NewStyle().
		MaxHeight(logHeight).
		Render(c.logViewer.Viewport.View())

	content := lipgloss.JoinVertical(lipgloss.Left, navBar, logContent)
	return panelStyle.Width(c.width).Height(c.height - InputTotalHeight).Render(content)
}

// renderLogNavBar renders "Debug Log  [Follow] [r: refresh] [esc: close]".
func (c *Chat) renderLogNavBar(width int) string {
	titleStyle := lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(ColorTextMuted)

	follow := hintStyle.Render("[f: follow]")
	if c.logViewer.FollowTail {
		follow = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true).Render("[Follow]")
	}

	bar := titleStyle.Render("Debug Log") + "  " +
		follow + " " +
		hintStyle.Render("[r: refresh]") + " " +
		hintStyle.Render("[esc: close]")

	return lipgloss.NewStyle().Width(width).MaxWidth(width).Render(bar)
}
