package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

const headerTitle = " moodring"

// shortIDLength is how much of a conversation id the header shows.
const shortIDLength = 8

// Header represents the top header bar
type Header struct {
	width          int
	conversationID string
	server         string
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetConversation sets the active conversation id to display
func (h *Header) SetConversation(id string) {
	h.conversationID = id
}

// SetServer sets the server address shown in muted text
func (h *Header) SetServer(server string) {
	h.server = server
}

// ShortID abbreviates a conversation id for display.
func ShortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

// View renders the header
func (h *Header) View() string {
	var meta string
	if h.server != "" {
		meta = h.server
	}
	var right string
	if h.conversationID != "" {
		right = "#" + ShortID(h.conversationID)
	}

	rightText := strings.TrimSpace(strings.Join([]string{right, meta}, "  "))
	if rightText != "" {
		rightText += " "
	}

	paddingLen := max(h.width-ansi.StringWidth(headerTitle)-ansi.StringWidth(rightText), 0)
	fullContent := headerTitle + strings.Repeat(" ", paddingLen) + rightText

	mutedFrom := -1
	if meta != "" {
		mutedFrom = len([]rune(fullContent)) - len([]rune(meta)) - 1
	}
	return renderGradient(fullContent, mutedFrom)
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient renders content over a background that fades from the
// theme's primary color into its base background. Runes at or past
// mutedFrom use the muted text color; a negative value mutes nothing.
func renderGradient(content string, mutedFrom int) string {
	if content == "" {
		return ""
	}

	theme := CurrentTheme()
	startR, startG, startB := parseHexColor(theme.Primary)
	endR, endG, endB := parseHexColor(theme.Bg)
	textColor := lipgloss.Color(theme.Text)
	mutedColor := lipgloss.Color(theme.TextMuted)

	runes := []rune(content)
	width := len(runes)
	titleLen := len([]rune(headerTitle))
	var result strings.Builder

	for i, r := range runes {
		t := float64(i) / float64(width)
		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)

		style := lipgloss.NewStyle().
			Background(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))).
			Bold(i < titleLen)

		if mutedFrom >= 0 && i >= mutedFrom {
			style = style.Foreground(mutedColor)
		} else {
			style = style.Foreground(textColor)
		}
		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}
