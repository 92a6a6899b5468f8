package ui

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/moodring/internal/conversation"
	"github.com/zhubert/moodring/internal/keys"
)

// Chat represents the right panel: the transcript of the active
// conversation, the summary panel below it, and the input area.
type Chat struct {
	viewport viewport.Model
	input    textarea.Model
	width    int
	height   int
	focused  bool
	messages []conversation.Message
	summary  *SummaryPanel

	pending     int       // Replies outstanding for this transcript
	waitStart   time.Time // When the oldest outstanding reply was requested
	waitingVerb string

	selection selectionState
	logViewer *LogViewerState
}

// NewChat creates a new chat panel
func NewChat() *Chat {
	ti := textarea.New()
	ti.Placeholder = "Type your message... (enter to send)"
	ti.CharLimit = 0
	ti.SetHeight(TextareaHeight)
	ti.ShowLineNumbers = false
	ti.Prompt = ""

	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	c := &Chat{
		viewport:  vp,
		input:     ti,
		summary:   NewSummaryPanel(),
		selection: newSelectionState(),
	}
	c.updateContent()
	return c
}

// SetSize sets the chat panel dimensions
func (c *Chat) SetSize(width, height int) {
	c.width = width
	c.height = height

	ctx := GetViewContext()

	chatPanelHeight := height - InputTotalHeight
	viewportHeight := max(ctx.InnerHeight(chatPanelHeight), 1)

	c.viewport.SetWidth(ctx.InnerWidth(width))
	c.viewport.SetHeight(viewportHeight)

	// Input width accounts for its own border AND padding
	c.input.SetWidth(ctx.InnerWidth(width) - InputPaddingWidth)

	c.updateContent()
}

// SetFocused sets the focus state
func (c *Chat) SetFocused(focused bool) {
	c.focused = focused
	if focused {
		c.input.Focus()
	} else {
		c.input.Blur()
	}
}

// IsFocused returns the focus state
func (c *Chat) IsFocused() bool {
	return c.focused
}

// AppendMessage adds a turn to the end of the transcript.
func (c *Chat) AppendMessage(m conversation.Message) {
	c.messages = append(c.messages, m)
	c.updateContent()
}

// AttachSentiment labels the most recent user turn in place. It does nothing
// when the label is unknown, there is no user turn, or the turn already has
// a badge, and reports whether a badge was attached.
func (c *Chat) AttachSentiment(label conversation.Sentiment) bool {
	if !label.Known() {
		return false
	}
	for i := len(c.messages) - 1; i >= 0; i-- {
		if !c.messages[i].IsUser() {
			continue
		}
		if c.messages[i].HasBadge() {
			return false
		}
		c.messages[i].Sentiment = label
		c.updateContent()
		return true
	}
	return false
}

// ReplaceMessages clears the transcript and renders messages in order.
func (c *Chat) ReplaceMessages(messages []conversation.Message) {
	c.messages = append([]conversation.Message(nil), messages...)
	c.updateContent()
}

// Clear empties the transcript and drops any waiting indicator.
func (c *Chat) Clear() {
	c.messages = nil
	c.pending = 0
	c.updateContent()
}

// Messages returns a copy of the transcript.
func (c *Chat) Messages() []conversation.Message {
	return append([]conversation.Message(nil), c.messages...)
}

// LastBotReply returns the text of the newest bot turn, or "".
func (c *Chat) LastBotReply() string {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if !c.messages[i].IsUser() {
			return c.messages[i].Text
		}
	}
	return ""
}

// ShowSummary displays the conversation verdict below the transcript.
func (c *Chat) ShowSummary(v conversation.Verdict) {
	c.summary.Show(v)
	c.updateContent()
}

// HideSummary hides the verdict panel.
func (c *Chat) HideSummary() {
	c.summary.Hide()
	c.updateContent()
}

// Summary returns the verdict panel.
func (c *Chat) Summary() *SummaryPanel {
	return c.summary
}

// SetWaiting sets how many replies are outstanding for this transcript.
func (c *Chat) SetWaiting(pending int) {
	if pending > 0 && c.pending == 0 {
		c.waitStart = time.Now()
		c.waitingVerb = randomThinkingVerb()
	}
	c.pending = max(pending, 0)
	c.updateContent()
}

// IsWaiting returns whether a reply is outstanding
func (c *Chat) IsWaiting() bool {
	return c.pending > 0
}

// GetInput returns the current input text, trimmed
func (c *Chat) GetInput() string {
	return strings.TrimSpace(c.input.Value())
}

// ClearInput clears the input field
func (c *Chat) ClearInput() {
	c.input.Reset()
}

// SetInput sets the input field value
func (c *Chat) SetInput(value string) {
	c.input.SetValue(value)
}

// ViewportContent returns the rendered transcript, for tests and printing.
func (c *Chat) ViewportContent() string {
	return c.content()
}

func (c *Chat) wrapWidth() int {
	if w := c.viewport.Width(); w > 0 {
		return w
	}
	return DefaultWrapWidth
}

func (c *Chat) content() string {
	width := c.wrapWidth()

	var sections []string
	if len(c.messages) == 0 && c.pending == 0 {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			Render("Say something to start a conversation..."))
	}
	if len(c.messages) > 0 {
		sections = append(sections, RenderTranscript(c.messages, width))
	}
	if c.pending > 0 {
		sections = append(sections, renderWaiting(c.waitingVerb, c.waitStart, c.pending))
	}
	if c.summary.Visible() {
		sections = append(sections, c.summary.View(width))
	}
	return strings.Join(sections, "\n\n")
}

// updateContent re-renders the transcript and pins the view to the newest
// content.
func (c *Chat) updateContent() {
	c.viewport.SetContent(c.content())
	c.viewport.GotoBottom()
}

// Update handles messages
func (c *Chat) Update(msg tea.Msg) (*Chat, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.(type) {
	case StopwatchTickMsg:
		if c.pending > 0 {
			c.updateContent()
			cmds = append(cmds, StopwatchTick())
		}
		return c, tea.Batch(cmds...)

	case SelectionFlashTickMsg:
		return c, c.advanceSelectionFlash()
	}

	if c.logViewer != nil {
		return c, c.updateLogViewer(msg)
	}

	switch msg := msg.(type) {
	// Mouse coordinates arrive relative to the chat panel; drop the border.
	case tea.MouseClickMsg:
		if msg.Button == tea.MouseLeft {
			return c, c.handleMouseClick(msg.X-1, msg.Y-1)
		}
		return c, nil

	case tea.MouseMotionMsg:
		c.EndSelection(msg.X-1, msg.Y-1)
		return c, nil

	case tea.MouseReleaseMsg:
		if !c.selection.Active {
			return c, nil
		}
		c.EndSelection(msg.X-1, msg.Y-1)
		c.SelectionStop()
		if c.HasTextSelection() {
			return c, c.CopySelectedText()
		}
		c.SelectionClear()
		return c, nil
	}

	if c.focused {
		if keyMsg, isKey := msg.(tea.KeyPressMsg); isKey {
			switch keyMsg.String() {
			case keys.Escape:
				if c.HasTextSelection() {
					c.SelectionClear()
					return c, nil
				}
			case keys.PgUp, keys.PgDown, keys.Home, keys.End:
				var cmd tea.Cmd
				c.viewport, cmd = c.viewport.Update(msg)
				return c, cmd
			}

			var cmd tea.Cmd
			c.input, cmd = c.input.Update(msg)
			return c, cmd
		}
	}

	// Non-key events (mouse wheel), or keys when not focused
	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return c, tea.Batch(cmds...)
}

// View renders the chat panel
func (c *Chat) View() string {
	panelStyle := PanelStyle
	inputStyle := ChatInputStyle
	if c.focused {
		panelStyle = PanelFocusedStyle
		inputStyle = ChatInputFocusedStyle
	}

	var chatPanel string
	if c.logViewer != nil {
		chatPanel = c.renderLogViewerMode(panelStyle)
	} else {
		chatPanel = panelStyle.Width(c.width).Height(c.height - InputTotalHeight).Render(c.selectionView(c.viewport.View()))
	}
	inputArea := inputStyle.Width(c.width).Render(c.input.View())

	return lipgloss.JoinVertical(lipgloss.Left, chatPanel, inputArea)
}
