package ui

import (
	"slices"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"github.com/zhubert/moodring/internal/conversation"
	"github.com/zhubert/moodring/internal/keys"
)

const activeMarker = "●"

// historySource adapts history entries for fuzzy matching on preview text
// and conversation id.
type historySource []conversation.HistoryEntry

func (h historySource) String(i int) string {
	return h[i].Preview() + " " + h[i].ID
}

func (h historySource) Len() int {
	return len(h)
}

// Sidebar represents the left panel listing past conversations.
type Sidebar struct {
	entries      []conversation.HistoryEntry
	filtered     []conversation.HistoryEntry // nil unless a search filter is applied
	activeID     string
	selectedIdx  int
	scrollOffset int
	width        int
	height       int
	focused      bool
	loading      bool

	searchMode  bool
	searchInput textinput.Model
}

// NewSidebar creates a new sidebar
func NewSidebar() *Sidebar {
	ti := textinput.New()
	ti.Placeholder = "filter..."
	ti.CharLimit = 64
	ti.Prompt = ""

	return &Sidebar{searchInput: ti}
}

// SetSize sets the sidebar dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Width returns the sidebar width
func (s *Sidebar) Width() int {
	return s.width
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// SetLoading marks a history refresh as in flight.
func (s *Sidebar) SetLoading(loading bool) {
	s.loading = loading
}

// IsLoading reports whether a history refresh is in flight.
func (s *Sidebar) IsLoading() bool {
	return s.loading
}

// SetEntries replaces the list with entries in the order given. The cursor
// stays on the previously selected conversation when it is still listed.
func (s *Sidebar) SetEntries(entries []conversation.HistoryEntry) {
	prev := s.SelectedID()
	s.entries = append([]conversation.HistoryEntry(nil), entries...)
	s.loading = false
	if s.searchInput.Value() != "" {
		s.applyFilter(s.searchInput.Value())
	} else {
		s.filtered = nil
	}

	s.selectedIdx = 0
	if prev != "" {
		for i, e := range s.visible() {
			if e.ID == prev {
				s.selectedIdx = i
				break
			}
		}
	}
	s.clampScroll()
}

// Entries returns the full, unfiltered list.
func (s *Sidebar) Entries() []conversation.HistoryEntry {
	return append([]conversation.HistoryEntry(nil), s.entries...)
}

// SetActive marks the conversation shown in the chat panel.
func (s *Sidebar) SetActive(id string) {
	s.activeID = id
}

// ActiveID returns the conversation marked active.
func (s *Sidebar) ActiveID() string {
	return s.activeID
}

// SelectedEntry returns the entry under the cursor, or nil when the list
// is empty.
func (s *Sidebar) SelectedEntry() *conversation.HistoryEntry {
	v := s.visible()
	if s.selectedIdx < 0 || s.selectedIdx >= len(v) {
		return nil
	}
	e := v[s.selectedIdx]
	return &e
}

// SelectedID returns the id under the cursor, or "".
func (s *Sidebar) SelectedID() string {
	if e := s.SelectedEntry(); e != nil {
		return e.ID
	}
	return ""
}

// EnterSearchMode starts filtering the list.
func (s *Sidebar) EnterSearchMode() tea.Cmd {
	s.searchMode = true
	s.searchInput.SetValue("")
	s.filtered = nil
	return s.searchInput.Focus()
}

// ExitSearchMode stops filtering and shows every entry again.
func (s *Sidebar) ExitSearchMode() {
	prev := s.SelectedID()
	s.searchMode = false
	s.searchInput.Blur()
	s.searchInput.SetValue("")
	s.filtered = nil
	s.selectedIdx = 0
	for i, e := range s.entries {
		if e.ID == prev {
			s.selectedIdx = i
			break
		}
	}
	s.clampScroll()
}

// IsSearchMode reports whether the filter input has focus.
func (s *Sidebar) IsSearchMode() bool {
	return s.searchMode
}

// SearchQuery returns the current filter text.
func (s *Sidebar) SearchQuery() string {
	return s.searchInput.Value()
}

// applyFilter keeps fuzzy matches in their original list order.
func (s *Sidebar) applyFilter(query string) {
	if query == "" {
		s.filtered = nil
		s.selectedIdx = 0
		return
	}
	matches := fuzzy.FindFrom(query, historySource(s.entries))
	idx := make([]int, 0, len(matches))
	for _, m := range matches {
		idx = append(idx, m.Index)
	}
	slices.Sort(idx)

	s.filtered = make([]conversation.HistoryEntry, 0, len(idx))
	for _, i := range idx {
		s.filtered = append(s.filtered, s.entries[i])
	}
	s.selectedIdx = 0
	s.scrollOffset = 0
}

func (s *Sidebar) visible() []conversation.HistoryEntry {
	if s.filtered != nil {
		return s.filtered
	}
	return s.entries
}

// Update handles messages
func (s *Sidebar) Update(msg tea.Msg) (*Sidebar, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok || !s.focused {
		return s, nil
	}

	if s.searchMode {
		switch keyMsg.String() {
		case keys.Escape:
			s.ExitSearchMode()
			return s, nil
		case keys.Enter:
			// Keep the filter applied, hand navigation back to the list
			s.searchMode = false
			s.searchInput.Blur()
			return s, nil
		case keys.Up:
			s.move(-1)
			return s, nil
		case keys.Down:
			s.move(1)
			return s, nil
		default:
			var cmd tea.Cmd
			s.searchInput, cmd = s.searchInput.Update(msg)
			s.applyFilter(s.searchInput.Value())
			return s, cmd
		}
	}

	switch keyMsg.String() {
	case keys.Up, "k":
		s.move(-1)
	case keys.Down, "j":
		s.move(1)
	case keys.Home, "g":
		s.selectedIdx = 0
		s.clampScroll()
	case keys.End, "G":
		s.selectedIdx = max(len(s.visible())-1, 0)
		s.clampScroll()
	case keys.Escape:
		if s.filtered != nil {
			s.ExitSearchMode()
		}
	}
	return s, nil
}

// SelectAt moves the cursor to the entry drawn at row y of the panel (0 is
// the top border) and returns its id, or "" when y is not on an entry.
func (s *Sidebar) SelectAt(y int) string {
	row := y - 1 - TitleHeight
	if s.searchMode || s.filtered != nil {
		row--
	}
	if row < 0 {
		return ""
	}
	idx := s.scrollOffset + row/SidebarEntryHeight
	if row/SidebarEntryHeight >= s.visibleRows() || idx >= len(s.visible()) {
		return ""
	}
	s.selectedIdx = idx
	return s.visible()[idx].ID
}

func (s *Sidebar) move(delta int) {
	n := len(s.visible())
	if n == 0 {
		return
	}
	s.selectedIdx = min(max(s.selectedIdx+delta, 0), n-1)
	s.clampScroll()
}

// visibleRows is how many entries fit in the panel.
func (s *Sidebar) visibleRows() int {
	h := GetViewContext().InnerHeight(s.height) - TitleHeight
	if s.searchMode || s.filtered != nil {
		h--
	}
	return max(h/SidebarEntryHeight, 1)
}

// clampScroll keeps the cursor row inside the visible window.
func (s *Sidebar) clampScroll() {
	rows := s.visibleRows()
	if s.selectedIdx < s.scrollOffset {
		s.scrollOffset = s.selectedIdx
	} else if s.selectedIdx >= s.scrollOffset+rows {
		s.scrollOffset = s.selectedIdx - rows + 1
	}
	maxScroll := max(len(s.visible())-rows, 0)
	s.scrollOffset = min(max(s.scrollOffset, 0), maxScroll)
}

// View renders the sidebar
func (s *Sidebar) View() string {
	ctx := GetViewContext()

	style := PanelStyle
	if s.focused {
		style = PanelFocusedStyle
	}
	innerWidth := ctx.InnerWidth(s.width)

	lines := []string{PanelTitleStyle.Render("History")}

	if s.searchMode || s.filtered != nil {
		s.searchInput.SetWidth(max(innerWidth-3, 1))
		prompt := lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true).Render("/")
		lines = append(lines, prompt+" "+s.searchInput.View())
	}

	muted := lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true)
	entries := s.visible()
	switch {
	case s.loading && len(s.entries) == 0:
		lines = append(lines, muted.Render("Loading..."))
	case len(entries) == 0 && s.filtered != nil:
		lines = append(lines, muted.Render("No matches."))
	case len(entries) == 0:
		lines = append(lines, muted.Render("No conversations yet."))
	default:
		s.clampScroll()
		end := min(s.scrollOffset+s.visibleRows(), len(entries))
		for i := s.scrollOffset; i < end; i++ {
			lines = append(lines, s.renderEntry(entries[i], i == s.selectedIdx, innerWidth))
		}
	}

	return style.Width(s.width).Height(s.height).Render(strings.Join(lines, "\n"))
}

// renderEntry renders one history row: the date, then a one-line preview.
func (s *Sidebar) renderEntry(e conversation.HistoryEntry, selected bool, width int) string {
	// Two columns for the marker, two for item padding
	textWidth := max(width-4, 1)

	marker := "  "
	if e.ID == s.activeID {
		marker = SidebarActiveStyle.Render(activeMarker) + " "
	}
	preview := runewidth.Truncate(firstLine(Sanitize(e.Preview())), textWidth, "…")
	date := runewidth.Truncate(e.DisplayDate(), textWidth, "…")

	if selected {
		itemStyle := SidebarSelectedStyle.Width(width)
		return itemStyle.Render(marker+date) + "\n" + itemStyle.Render("  "+preview)
	}
	itemStyle := SidebarItemStyle.Width(width)
	return itemStyle.Render(marker+SidebarDateStyle.Render(date)) + "\n" + itemStyle.Render("  "+preview)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
