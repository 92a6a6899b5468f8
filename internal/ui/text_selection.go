// Text selection in the chat transcript.
//
// Selection coordinates are relative to the transcript viewport: (0,0) is
// the first visible cell inside the panel border. The app translates
// terminal coordinates into chat-panel coordinates before routing mouse
// events here, and Chat.Update subtracts the border.
//
// Text is extracted from the viewport's rendered lines with ANSI sequences
// stripped, so columns match what the user sees.

package ui

import (
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"

	"github.com/zhubert/moodring/internal/clipboard"
	"github.com/zhubert/moodring/internal/logger"
)

// ClipboardErrorMsg is sent when the native clipboard write fails.
type ClipboardErrorMsg struct {
	Error error
}

// SelectionCopiedMsg is sent after a selection was copied.
type SelectionCopiedMsg struct {
	Text string
}

// SelectionFlashTickMsg advances the copy flash animation.
type SelectionFlashTickMsg time.Time

// SelectionFlashTick returns a command that sends a selection flash tick
func SelectionFlashTick() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(t time.Time) tea.Msg {
		return SelectionFlashTickMsg(t)
	})
}

const (
	doubleClickThreshold = 500 * time.Millisecond
	clickTolerance       = 2 // cells
	selectionFlashFrames = 2
)

// selectionState tracks the drag selection and multi-click detection.
type selectionState struct {
	StartCol, StartLine int
	EndCol, EndLine     int
	Active              bool
	FlashFrame          int // -1 when not flashing

	lastClickTime time.Time
	lastClickX    int
	lastClickY    int
	clickCount    int
}

func newSelectionState() selectionState {
	return selectionState{StartCol: -1, StartLine: -1, EndCol: -1, EndLine: -1, FlashFrame: -1}
}

// StartSelection begins a text selection at the given coordinates
func (c *Chat) StartSelection(col, line int) {
	c.selection.StartCol = col
	c.selection.StartLine = line
	c.selection.EndCol = col
	c.selection.EndLine = line
	c.selection.Active = true
}

// EndSelection updates the end position of the selection during drag
func (c *Chat) EndSelection(col, line int) {
	if !c.selection.Active {
		return
	}
	c.selection.EndCol = col
	c.selection.EndLine = line
}

// SelectionStop ends the drag but keeps the selection visible
func (c *Chat) SelectionStop() {
	c.selection.Active = false
}

// SelectionClear clears the selection entirely
func (c *Chat) SelectionClear() {
	c.selection.StartCol = -1
	c.selection.StartLine = -1
	c.selection.EndCol = -1
	c.selection.EndLine = -1
	c.selection.Active = false
}

// HasTextSelection returns true if there is an active or completed selection
func (c *Chat) HasTextSelection() bool {
	s := c.selection
	return s.StartCol >= 0 && s.StartLine >= 0 &&
		(s.EndCol != s.StartCol || s.EndLine != s.StartLine)
}

// IsSelectionFlashing reports whether the copy flash is showing.
func (c *Chat) IsSelectionFlashing() bool {
	return c.selection.FlashFrame >= 0
}

// handleMouseClick starts a selection, or selects a word on double click
// and a paragraph on triple click.
func (c *Chat) handleMouseClick(x, y int) tea.Cmd {
	now := time.Now()
	s := &c.selection

	if now.Sub(s.lastClickTime) <= doubleClickThreshold &&
		abs(x-s.lastClickX) <= clickTolerance &&
		abs(y-s.lastClickY) <= clickTolerance {
		s.clickCount++
	} else {
		s.clickCount = 1
	}
	s.lastClickTime = now
	s.lastClickX = x
	s.lastClickY = y

	switch s.clickCount {
	case 1:
		c.StartSelection(x, y)
	case 2:
		c.SelectWord(x, y)
		return c.CopySelectedText()
	case 3:
		c.SelectParagraph(x, y)
		c.selection.clickCount = 0
		return c.CopySelectedText()
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func (c *Chat) visibleLines() []string {
	return strings.Split(c.viewport.View(), "\n")
}

// SelectWord selects the word at the given position
func (c *Chat) SelectWord(col, line int) {
	lines := c.visibleLines()
	if line < 0 || line >= len(lines) {
		return
	}

	current := ansi.Strip(lines[line])
	if col < 0 || col >= len(current) {
		return
	}

	// Walk word segments until the one containing col
	start, end := 0, len(current)
	rest, pos, state := current, 0, -1
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		if col < pos+len(word) {
			start, end = pos, pos+len(word)
			break
		}
		pos += len(word)
	}

	c.selection.StartCol = start
	c.selection.StartLine = line
	c.selection.EndCol = end
	c.selection.EndLine = line
	c.selection.Active = false
}

// SelectParagraph selects the run of non-blank lines around line.
func (c *Chat) SelectParagraph(col, line int) {
	lines := c.visibleLines()
	if line < 0 || line >= len(lines) {
		return
	}

	startLine, endLine := line, line
	for startLine > 0 && strings.TrimSpace(ansi.Strip(lines[startLine-1])) != "" {
		startLine--
	}
	for endLine < len(lines)-1 && strings.TrimSpace(ansi.Strip(lines[endLine+1])) != "" {
		endLine++
	}

	c.selection.StartCol = 0
	c.selection.StartLine = startLine
	c.selection.EndCol = len(ansi.Strip(lines[endLine]))
	c.selection.EndLine = endLine
	c.selection.Active = false
}

// selectionArea returns the selection with start before end in reading
// order, whichever direction the user dragged.
func (c *Chat) selectionArea() (startCol, startLine, endCol, endLine int) {
	s := c.selection
	startCol, startLine, endCol, endLine = s.StartCol, s.StartLine, s.EndCol, s.EndLine
	if startLine > endLine || (startLine == endLine && startCol > endCol) {
		startCol, endCol = endCol, startCol
		startLine, endLine = endLine, startLine
	}
	return
}

// GetSelectedText returns the currently selected text, without styling.
func (c *Chat) GetSelectedText() string {
	if !c.HasTextSelection() {
		return ""
	}

	lines := c.visibleLines()
	startCol, startLine, endCol, endLine := c.selectionArea()

	var result strings.Builder
	for y := startLine; y <= endLine && y < len(lines); y++ {
		line := ansi.Strip(lines[y])

		lineStart, lineEnd := 0, len(line)
		if y == startLine {
			lineStart = startCol
		}
		if y == endLine {
			lineEnd = endCol
		}
		lineEnd = min(lineEnd, len(line))
		lineStart = min(max(lineStart, 0), lineEnd)

		// The viewport pads lines to its width
		result.WriteString(strings.TrimRight(line[lineStart:lineEnd], " "))
		if y < endLine {
			result.WriteString("\n")
		}
	}

	return strings.TrimSpace(result.String())
}

// CopySelectedText copies the selection to the clipboard, through OSC 52
// and the native clipboard, and starts the flash animation.
func (c *Chat) CopySelectedText() tea.Cmd {
	text := c.GetSelectedText()
	if text == "" {
		return nil
	}

	c.selection.FlashFrame = 0

	return tea.Batch(
		tea.SetClipboard(text),
		func() tea.Msg {
			if err := clipboard.WriteText(text); err != nil {
				logger.WithComponent("selection").Warn("native clipboard write failed", "error", err)
				return ClipboardErrorMsg{Error: err}
			}
			return SelectionCopiedMsg{Text: text}
		},
		SelectionFlashTick(),
	)
}

// advanceSelectionFlash steps the flash animation and clears the selection
// once it ends.
func (c *Chat) advanceSelectionFlash() tea.Cmd {
	if c.selection.FlashFrame < 0 {
		return nil
	}
	c.selection.FlashFrame++
	if c.selection.FlashFrame >= selectionFlashFrames {
		c.selection.FlashFrame = -1
		c.SelectionClear()
		return nil
	}
	return SelectionFlashTick()
}

// selectionView paints the selection highlight over the rendered viewport.
func (c *Chat) selectionView(view string) string {
	if !c.HasTextSelection() {
		return view
	}

	width := c.viewport.Width()
	height := c.viewport.Height()
	if width <= 0 || height <= 0 {
		return view
	}

	area := uv.Rect(0, 0, width, height)
	scr := uv.NewScreenBuffer(area.Dx(), area.Dy())
	uv.NewStyledString(view).Draw(scr, area)

	startCol, startLine, endCol, endLine := c.selectionArea()

	var selBg, selFg color.Color
	if c.selection.FlashFrame == 0 {
		selBg = TextSelectionFlashStyle.GetBackground()
		selFg = TextSelectionFlashStyle.GetForeground()
	} else {
		selBg = TextSelectionStyle.GetBackground()
		selFg = TextSelectionStyle.GetForeground()
	}

	for y := max(startLine, 0); y <= endLine && y < height; y++ {
		xStart, xEnd := 0, width
		if y == startLine {
			xStart = startCol
		}
		if y == endLine {
			xEnd = endCol
		}

		for x := max(xStart, 0); x < xEnd && x < width; x++ {
			cell := scr.CellAt(x, y)
			if cell == nil {
				continue
			}
			cell = cell.Clone()
			cell.Style.Bg = selBg
			cell.Style.Fg = selFg
			scr.SetCell(x, y, cell)
		}
	}

	return scr.Render()
}
