package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestHeader_ViewTitle(t *testing.T) {
	header := NewHeader()
	header.SetWidth(80)

	view := ansi.Strip(header.View())
	if !strings.Contains(view, "moodring") {
		t.Errorf("header should contain the title, got %q", view)
	}
	if got := ansi.StringWidth(view); got != 80 {
		t.Errorf("header width = %d, want 80", got)
	}
}

func TestHeader_ViewConversation(t *testing.T) {
	header := NewHeader()
	header.SetWidth(100)
	header.SetConversation("0b5e7a1c-3f7d-4b1e-9a0c-1234567890ab")
	header.SetServer("http://localhost:8000")

	view := ansi.Strip(header.View())
	for _, want := range []string{"#0b5e7a1c", "http://localhost:8000"} {
		if !strings.Contains(view, want) {
			t.Errorf("header should contain %q, got %q", want, view)
		}
	}
	if strings.Contains(view, "3f7d") {
		t.Errorf("header should abbreviate the id, got %q", view)
	}
}

func TestHeader_NarrowDoesNotPanic(t *testing.T) {
	header := NewHeader()
	header.SetWidth(5)
	header.SetConversation("abcdef0123456789")
	_ = header.View()
}

func TestShortID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"abc", "abc"},
		{"12345678", "12345678"},
		{"123456789", "12345678"},
	}
	for _, tt := range tests {
		if got := ShortID(tt.in); got != tt.want {
			t.Errorf("ShortID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		hex     string
		r, g, b int
	}{
		{"#7C3AED", 0x7C, 0x3A, 0xED},
		{"#000000", 0, 0, 0},
		{"bad", 0, 0, 0},
		{"#FFF", 0, 0, 0},
	}
	for _, tt := range tests {
		r, g, b := parseHexColor(tt.hex)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("parseHexColor(%q) = %d,%d,%d", tt.hex, r, g, b)
		}
	}
}
