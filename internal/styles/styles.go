package styles

import "github.com/charmbracelet/lipgloss"

var (
	ContentWidth = 54
)

// Styles derived from the current theme. rebuild regenerates them after a
// theme switch; package init covers the default.
var (
	TitleStyle lipgloss.Style

	UserLabelStyle lipgloss.Style
	UserMsgStyle   lipgloss.Style

	AiLabelStyle lipgloss.Style
	AiMsgStyle   lipgloss.Style

	ErrorStyle lipgloss.Style

	InputBoxStyle lipgloss.Style

	WelcomeArtStyle      lipgloss.Style
	WelcomeSubtitleStyle lipgloss.Style
	CardTitleStyle       lipgloss.Style
	CardItemStyle        lipgloss.Style

	ModalStyle         lipgloss.Style
	ModalTitleStyle    lipgloss.Style
	ModalItemStyle     lipgloss.Style
	ModalHeaderStyle   lipgloss.Style
	ModalSelectedStyle lipgloss.Style

	HintColor lipgloss.Color
)

func rebuild() {
	t := CurrentTheme

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	UserLabelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(t.Secondary).
		Bold(true).
		Padding(0, 1).
		MarginRight(1)

	UserMsgStyle = lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		PaddingLeft(2).
		BorderLeft(true).
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(t.Secondary)

	AiLabelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(t.Primary).
		Bold(true).
		Padding(0, 1).
		MarginRight(1)

	AiMsgStyle = lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		PaddingTop(1).
		BorderLeft(true).
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(t.Primary)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)

	InputBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Accent).
		Padding(0, 1)

	WelcomeArtStyle = lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Bold(true)

	WelcomeSubtitleStyle = lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Italic(true)

	CardTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.TextPrimary).
		MarginBottom(1)

	CardItemStyle = lipgloss.NewStyle().
		Foreground(t.TextSecondary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1).
		MarginBottom(1)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Accent).
		Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Width(ContentWidth).
		MarginBottom(1)

	ModalItemStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Width(ContentWidth)

	ModalHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Secondary).
		PaddingLeft(1).
		Width(ContentWidth)

	ModalSelectedStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Width(ContentWidth).
		Background(lipgloss.Color("#5C5C7A")).
		Foreground(lipgloss.Color("#FFFFFF"))

	HintColor = t.TextMuted
}

func init() {
	rebuild()
}
