package ui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/x/ansi"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/zhubert/moodring/internal/conversation"
)

// markdown parses bot replies. Only the parser is used; the AST is walked
// into lipgloss styles, so no HTML is ever produced or interpreted.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
)

// Sanitize removes terminal escape sequences and control characters from
// untrusted text, keeping newlines and tabs.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r == '\r':
			return -1
		case r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0):
			return -1
		}
		return r
	}, s)
}

// highlightCode applies syntax highlighting to code using chroma
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(CurrentTheme().CodeStyle)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}

	return strings.TrimRight(buf.String(), "\n")
}

// wrapText wraps text to the specified width, handling ANSI escape codes.
// Words longer than the width are broken.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Wrap(s, width, "")
}

// indentLines prefixes every line after the first with pad.
func indentLines(s, pad string) string {
	return strings.ReplaceAll(s, "\n", "\n"+pad)
}

// RenderMarkdown renders Markdown source for the terminal. Control
// sequences in the source are stripped before parsing, and raw HTML is shown
// as literal text.
func RenderMarkdown(src string, width int) string {
	if width <= 0 {
		width = DefaultWrapWidth
	}
	source := []byte(Sanitize(src))
	doc := markdown.Parser().Parse(text.NewReader(source))

	r := &mdRenderer{source: source}
	return strings.TrimRight(r.blocks(doc, width, "\n\n"), "\n")
}

type mdRenderer struct {
	source []byte
}

// blocks renders each block child of n and joins them with sep.
func (r *mdRenderer) blocks(n ast.Node, width int, sep string) string {
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if s := r.block(c, width); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

func (r *mdRenderer) block(n ast.Node, width int) string {
	switch n := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return wrapText(r.inline(n), width)

	case *ast.Heading:
		content := wrapText(r.inline(n), width)
		switch n.Level {
		case 1:
			return MarkdownH1Style.Render(content)
		case 2:
			return MarkdownH2Style.Render(content)
		case 3:
			return MarkdownH3Style.Render(content)
		default:
			return MarkdownH4Style.Render(content)
		}

	case *ast.ThematicBreak:
		return MarkdownHRStyle.Render(strings.Repeat("─", min(width, 32)))

	case *ast.FencedCodeBlock:
		return highlightCode(r.lines(n), string(n.Language(r.source)))

	case *ast.CodeBlock:
		return highlightCode(r.lines(n), "")

	case *ast.HTMLBlock:
		raw := r.lines(n)
		if n.HasClosure() {
			raw += string(n.ClosureLine.Value(r.source))
		}
		return MarkdownRawHTMLStyle.Render(wrapText(strings.TrimRight(raw, "\n"), width))

	case *ast.Blockquote:
		// Border plus padding take three columns.
		return MarkdownBlockquoteStyle.Render(r.blocks(n, width-3, "\n\n"))

	case *ast.List:
		return r.list(n, width)

	default:
		return r.blocks(n, width, "\n\n")
	}
}

func (r *mdRenderer) list(n *ast.List, width int) string {
	var items []string
	number := n.Start
	if number == 0 {
		number = 1
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		marker := "•"
		if n.IsOrdered() {
			marker = fmt.Sprintf("%d.", number)
			number++
		}
		prefix := "  " + marker + " "
		pad := strings.Repeat(" ", ansi.StringWidth(prefix))

		body := r.blocks(c, width-len(pad), "\n")
		items = append(items, "  "+MarkdownListBulletStyle.Render(marker)+" "+indentLines(body, pad))
	}
	return strings.Join(items, "\n")
}

// lines concatenates the raw source lines of a block.
func (r *mdRenderer) lines(n ast.Node) string {
	var buf strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(r.source))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// inline renders the inline children of n.
func (r *mdRenderer) inline(n ast.Node) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		sb.WriteString(r.span(c))
	}
	return sb.String()
}

// plain returns the unstyled text of n's inline children.
func (r *mdRenderer) plain(n ast.Node) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(r.source))
		case *ast.String:
			sb.Write(c.Value)
		default:
			sb.WriteString(r.plain(c))
		}
	}
	return sb.String()
}

func (r *mdRenderer) span(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Text:
		s := string(n.Segment.Value(r.source))
		switch {
		case n.HardLineBreak():
			s += "\n"
		case n.SoftLineBreak():
			s += " "
		}
		return s

	case *ast.String:
		return string(n.Value)

	case *ast.CodeSpan:
		return MarkdownInlineCodeStyle.Render(r.plain(n))

	case *ast.Emphasis:
		if n.Level >= 2 {
			return MarkdownBoldStyle.Render(r.inline(n))
		}
		return MarkdownItalicStyle.Render(r.inline(n))

	case *extast.Strikethrough:
		return MarkdownStrikeStyle.Render(r.inline(n))

	case *ast.Link:
		label := r.inline(n)
		dest := string(n.Destination)
		if label == "" || r.plain(n) == dest {
			return MarkdownLinkStyle.Render(dest)
		}
		return MarkdownLinkStyle.Render(label) + " (" + dest + ")"

	case *ast.AutoLink:
		return MarkdownLinkStyle.Render(string(n.URL(r.source)))

	case *ast.Image:
		alt := r.plain(n)
		if alt == "" {
			alt = "image"
		}
		return "[" + alt + "] (" + string(n.Destination) + ")"

	case *ast.RawHTML:
		var sb strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			sb.Write(seg.Value(r.source))
		}
		return MarkdownRawHTMLStyle.Render(sb.String())

	default:
		return r.inline(n)
	}
}

// renderUserText renders a user turn literally: no Markdown, control
// sequences stripped.
func renderUserText(s string, width int) string {
	return ChatMessageStyle.Render(wrapText(Sanitize(s), width))
}

// RenderBadge renders the sentiment tag for a known label and "" otherwise.
func RenderBadge(s conversation.Sentiment) string {
	switch s {
	case conversation.SentimentPositive:
		return BadgePositiveStyle.Render(string(s))
	case conversation.SentimentNegative:
		return BadgeNegativeStyle.Render(string(s))
	case conversation.SentimentNeutral:
		return BadgeNeutralStyle.Render(string(s))
	default:
		return ""
	}
}

// RenderMessage renders one transcript turn: a role label, the body, and for
// labelled user turns the sentiment badge after the label.
func RenderMessage(m conversation.Message, width int) string {
	var sb strings.Builder
	if m.IsUser() {
		sb.WriteString(ChatUserStyle.Render("You:"))
		if m.HasBadge() {
			sb.WriteString(" ")
			sb.WriteString(RenderBadge(m.Sentiment))
		}
		sb.WriteString("\n")
		sb.WriteString(renderUserText(strings.TrimSpace(m.Text), width))
		return sb.String()
	}

	sb.WriteString(ChatAssistantStyle.Render("Bot:"))
	sb.WriteString("\n")
	sb.WriteString(RenderMarkdown(strings.TrimSpace(m.Text), width))
	return sb.String()
}

// RenderTranscript renders messages in order, separated by blank lines.
func RenderTranscript(messages []conversation.Message, width int) string {
	parts := make([]string, len(messages))
	for i, m := range messages {
		parts[i] = RenderMessage(m, width)
	}
	return strings.Join(parts, "\n\n")
}
