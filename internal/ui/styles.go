package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette. Every value is assigned from the active theme by
// regenerateStyles.
var (
	ColorPrimary     color.Color
	ColorSecondary   color.Color
	ColorMuted       color.Color
	ColorBorder      color.Color
	ColorBorderFocus color.Color
	ColorBg          color.Color
	ColorText        color.Color
	ColorTextMuted   color.Color
	ColorTextInverse color.Color
	ColorUser        color.Color
	ColorAssistant   color.Color
	ColorWarning     color.Color
	ColorInfo        color.Color
	ColorError       color.Color
	ColorSuccess     color.Color
	ColorPositive    color.Color
	ColorNegative    color.Color
	ColorNeutral     color.Color
)

// Header styles
var (
	HeaderStyle      lipgloss.Style
	HeaderTitleStyle lipgloss.Style
	HeaderMetaStyle  lipgloss.Style
)

// Footer styles
var (
	FooterStyle     lipgloss.Style
	FooterKeyStyle  lipgloss.Style
	FooterDescStyle lipgloss.Style
)

// Panel styles
var (
	PanelStyle        lipgloss.Style
	PanelFocusedStyle lipgloss.Style
	PanelTitleStyle   lipgloss.Style
)

// Sidebar styles
var (
	SidebarItemStyle     lipgloss.Style
	SidebarSelectedStyle lipgloss.Style // cursor row
	SidebarActiveStyle   lipgloss.Style // active conversation
	SidebarDateStyle     lipgloss.Style
)

// Chat styles
var (
	ChatUserStyle         lipgloss.Style
	ChatAssistantStyle    lipgloss.Style
	ChatMessageStyle      lipgloss.Style
	ChatInputStyle        lipgloss.Style
	ChatInputFocusedStyle lipgloss.Style
	StatusLoadingStyle    lipgloss.Style
)

// Sentiment badge styles. A user turn shows at most one of these.
var (
	BadgePositiveStyle lipgloss.Style
	BadgeNegativeStyle lipgloss.Style
	BadgeNeutralStyle  lipgloss.Style
)

// Summary panel styles
var (
	SummaryBoxStyle   lipgloss.Style
	SummaryTitleStyle lipgloss.Style
	SummaryFieldStyle lipgloss.Style
)

// Markdown rendering styles
var (
	MarkdownH1Style         lipgloss.Style
	MarkdownH2Style         lipgloss.Style
	MarkdownH3Style         lipgloss.Style
	MarkdownH4Style         lipgloss.Style
	MarkdownBoldStyle       lipgloss.Style
	MarkdownItalicStyle     lipgloss.Style
	MarkdownStrikeStyle     lipgloss.Style
	MarkdownInlineCodeStyle lipgloss.Style
	MarkdownCodeBlockStyle  lipgloss.Style
	MarkdownListBulletStyle lipgloss.Style
	MarkdownBlockquoteStyle lipgloss.Style
	MarkdownHRStyle         lipgloss.Style
	MarkdownLinkStyle       lipgloss.Style
	MarkdownRawHTMLStyle    lipgloss.Style
)

// Text selection styles
var (
	TextSelectionStyle lipgloss.Style
	// TextSelectionFlashStyle is shown briefly after a selection is copied
	TextSelectionFlashStyle lipgloss.Style
)

// Modal styles
var (
	ModalStyle       lipgloss.Style
	ModalTitleStyle  lipgloss.Style
	ModalHelpStyle   lipgloss.Style
	StatusErrorStyle lipgloss.Style
)
