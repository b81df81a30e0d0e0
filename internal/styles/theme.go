package styles

import "github.com/charmbracelet/lipgloss"

// Theme is a complete color scheme for the application.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Border lipgloss.Color
}

// DarkTheme is the default scheme.
var DarkTheme = Theme{
	Primary:   lipgloss.Color("#8B5CF6"), // Violet 500
	Secondary: lipgloss.Color("#6366F1"), // Indigo 500
	Accent:    lipgloss.Color("#A78BFA"), // Violet 400

	TextPrimary:   lipgloss.Color("#E2E8F0"), // Slate 200
	TextSecondary: lipgloss.Color("#94A3B8"), // Slate 400
	TextMuted:     lipgloss.Color("#64748B"), // Slate 500

	Success: lipgloss.Color("#34D399"), // Emerald 400
	Warning: lipgloss.Color("#FBBF24"), // Amber 400
	Error:   lipgloss.Color("#EF9A9A"), // Red 200

	Border: lipgloss.Color("#333344"),
}

// TransparentTheme is the glassy light-on-gradient scheme of the original
// app, approximated for the terminal.
var TransparentTheme = Theme{
	Primary:   lipgloss.Color("#43E97B"), // Spring green
	Secondary: lipgloss.Color("#22C1C3"), // Teal
	Accent:    lipgloss.Color("#A78BFA"), // Violet 400

	TextPrimary:   lipgloss.Color("#22223B"),
	TextSecondary: lipgloss.Color("#4A4E69"),
	TextMuted:     lipgloss.Color("#9A8C98"),

	Success: lipgloss.Color("#10B981"),
	Warning: lipgloss.Color("#F59E0B"),
	Error:   lipgloss.Color("#EF4444"),

	Border: lipgloss.Color("#C9ADA7"),
}

// CurrentTheme holds the active scheme.
var CurrentTheme = DarkTheme

// ApplyTheme switches the active scheme by settings name and rebuilds the
// derived styles. Unknown names fall back to dark.
func ApplyTheme(name string) {
	if name == "transparent" {
		CurrentTheme = TransparentTheme
	} else {
		CurrentTheme = DarkTheme
	}
	rebuild()
}
