// Package ui provides the visual components of the moodring TUI.
//
// # Layout
//
//	┌─────────────────────────────────────────────────────┐
//	│ Header (1 line)                                     │
//	├─────────────────┬───────────────────────────────────┤
//	│                 │   Transcript                      │
//	│   History       │   (+ waiting line, verdict)       │
//	│   (1/4 width)   ├───────────────────────────────────┤
//	│                 │   Input                           │
//	├─────────────────┴───────────────────────────────────┤
//	│ Footer (1 line)                                     │
//	└─────────────────────────────────────────────────────┘
//
// # Components
//
// ViewContext holds the terminal size and derives every panel dimension.
//
// Header shows the title, the short id of the active conversation and the
// server address over a gradient.
//
// Footer shows key bindings, or a flash message that expires on its own.
//
// Sidebar lists past conversations in the order the server returned them.
// The active conversation is marked; "/" filters the list.
//
// Chat owns the transcript viewport, the input textarea and the summary
// panel. Bot replies are rendered as Markdown with RenderMarkdown; user
// text is shown literally. Anything that came from the server passes
// through Sanitize first so it cannot emit terminal escape sequences.
//
// Modal hosts the dialogs in the modals package: help, reset confirmation
// and settings.
//
// # Styles
//
// Colors come from the active Theme. SetTheme regenerates every style in
// styles.go, including the ones the modals package uses.
package ui
