package ui

import (
	"testing"

	tea "charm.land/bubbletea/v2"
)

// newSelectionChat returns a chat whose viewport shows plain lines.
func newSelectionChat(content string) *Chat {
	c := NewChat()
	c.SetSize(80, 30)
	c.viewport.SetContent(content)
	c.viewport.GotoTop()
	return c
}

func TestSelection_InitiallyEmpty(t *testing.T) {
	c := NewChat()
	if c.HasTextSelection() {
		t.Error("new chat should have no selection")
	}
	if c.IsSelectionFlashing() {
		t.Error("new chat should not be flashing")
	}
	if c.GetSelectedText() != "" {
		t.Error("no selection means no text")
	}
}

func TestSelection_StartEndStop(t *testing.T) {
	c := newSelectionChat("hello world")

	c.StartSelection(0, 0)
	if c.HasTextSelection() {
		t.Error("a zero-width selection is not a selection")
	}
	c.EndSelection(5, 0)
	c.SelectionStop()
	if !c.HasTextSelection() {
		t.Fatal("expected a selection")
	}
	if got := c.GetSelectedText(); got != "hello" {
		t.Errorf("GetSelectedText() = %q, want %q", got, "hello")
	}

	// Motion after the drag ended is ignored
	c.EndSelection(11, 0)
	if got := c.GetSelectedText(); got != "hello" {
		t.Errorf("selection changed after stop: %q", got)
	}

	c.SelectionClear()
	if c.HasTextSelection() {
		t.Error("SelectionClear should remove the selection")
	}
}

func TestSelection_Normalization(t *testing.T) {
	tests := []struct {
		name                       string
		startCol, startLine        int
		endCol, endLine            int
		wantSC, wantSL, wantEC, wantEL int
	}{
		{"forward", 1, 0, 4, 2, 1, 0, 4, 2},
		{"backward lines", 4, 2, 1, 0, 1, 0, 4, 2},
		{"backward same line", 8, 1, 2, 1, 2, 1, 8, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChat()
			c.StartSelection(tt.startCol, tt.startLine)
			c.EndSelection(tt.endCol, tt.endLine)

			sc, sl, ec, el := c.selectionArea()
			if sc != tt.wantSC || sl != tt.wantSL || ec != tt.wantEC || el != tt.wantEL {
				t.Errorf("selectionArea() = %d,%d,%d,%d", sc, sl, ec, el)
			}
		})
	}
}

func TestSelection_MultiLine(t *testing.T) {
	c := newSelectionChat("first line\nsecond line\nthird line")
	c.StartSelection(6, 0)
	c.EndSelection(5, 2)

	want := "line\nsecond line\nthird"
	if got := c.GetSelectedText(); got != want {
		t.Errorf("GetSelectedText() = %q, want %q", got, want)
	}
}

func TestSelection_SelectWord(t *testing.T) {
	c := newSelectionChat("the quick brown fox")

	c.SelectWord(6, 0)
	if got := c.GetSelectedText(); got != "quick" {
		t.Errorf("SelectWord = %q, want %q", got, "quick")
	}

	c.SelectionClear()
	c.SelectWord(99, 0)
	if c.HasTextSelection() {
		t.Error("out of range column should select nothing")
	}
}

func TestSelection_SelectParagraph(t *testing.T) {
	c := newSelectionChat("intro\n\nalpha\nbeta\n\noutro")

	c.SelectParagraph(0, 3)
	if got := c.GetSelectedText(); got != "alpha\nbeta" {
		t.Errorf("SelectParagraph = %q", got)
	}
}

func TestSelection_CopyStartsFlash(t *testing.T) {
	c := newSelectionChat("copy me please")
	c.StartSelection(0, 0)
	c.EndSelection(7, 0)

	if cmd := c.CopySelectedText(); cmd == nil {
		t.Fatal("expected a copy command")
	}
	if !c.IsSelectionFlashing() {
		t.Fatal("copy should start the flash")
	}

	c, _ = c.Update(SelectionFlashTickMsg{})
	if !c.IsSelectionFlashing() || !c.HasTextSelection() {
		t.Error("flash should still be running after one tick")
	}
	c, _ = c.Update(SelectionFlashTickMsg{})
	if c.IsSelectionFlashing() || c.HasTextSelection() {
		t.Error("flash end should clear the selection")
	}
}

func TestSelection_CopyNothing(t *testing.T) {
	c := newSelectionChat("text")
	if cmd := c.CopySelectedText(); cmd != nil {
		t.Error("copying without a selection should do nothing")
	}
}

func TestSelection_MouseDrag(t *testing.T) {
	c := newSelectionChat("drag across this")

	// +1 for the panel border
	c, _ = c.Update(tea.MouseClickMsg{X: 1, Y: 1, Button: tea.MouseLeft})
	c, _ = c.Update(tea.MouseMotionMsg{X: 5, Y: 1, Button: tea.MouseLeft})
	c, cmd := c.Update(tea.MouseReleaseMsg{X: 5, Y: 1, Button: tea.MouseLeft})

	if got := c.GetSelectedText(); got != "drag" {
		t.Errorf("dragged text = %q, want %q", got, "drag")
	}
	if cmd == nil {
		t.Error("release over a selection should copy")
	}
}

func TestSelection_ClickWithoutDragClears(t *testing.T) {
	c := newSelectionChat("just a click")

	c, _ = c.Update(tea.MouseClickMsg{X: 3, Y: 1, Button: tea.MouseLeft})
	c, cmd := c.Update(tea.MouseReleaseMsg{X: 3, Y: 1, Button: tea.MouseLeft})
	if cmd != nil || c.HasTextSelection() {
		t.Error("a plain click should not copy or leave a selection")
	}
}

func TestSelection_EscapeClears(t *testing.T) {
	c := newSelectionChat("escape me")
	c.SetFocused(true)
	c.StartSelection(0, 0)
	c.EndSelection(6, 0)

	c, _ = c.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if c.HasTextSelection() {
		t.Error("esc should clear the selection")
	}
}

func TestSelection_ViewHighlights(t *testing.T) {
	c := newSelectionChat("highlight")
	plain := c.selectionView(c.viewport.View())

	c.StartSelection(0, 0)
	c.EndSelection(4, 0)
	if c.selectionView(c.viewport.View()) == plain {
		t.Error("selected cells should be restyled")
	}
}
