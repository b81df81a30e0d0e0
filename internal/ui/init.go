package ui

import (
	"cortex/internal/session"
	"cortex/internal/styles"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func InitialModel(ctrl *session.Controller) Model {
	styles.ApplyTheme(ctrl.Settings().Theme)

	ti := textarea.New()
	ti.Placeholder = "Send a message..."
	ti.Prompt = "❯ "
	ti.ShowLineNumbers = false
	ti.CharLimit = 0
	ti.MaxHeight = 6
	ti.SetHeight(2)
	ti.SetWidth(80)
	ti.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(styles.CurrentTheme.Accent).Bold(true)
	ti.BlurredStyle.Prompt = lipgloss.NewStyle().Foreground(styles.CurrentTheme.Accent).Bold(true)
	ti.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(styles.CurrentTheme.TextMuted)
	ti.BlurredStyle.Placeholder = lipgloss.NewStyle().Foreground(styles.CurrentTheme.TextMuted)
	ti.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ti.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.CurrentTheme.Accent)

	vp := viewport.New(60, 15)

	m := Model{
		Controller: ctrl,
		TextInput:  ti,
		Viewport:   vp,
		Spinner:    sp,
		Messages:   []string{},
	}

	profile := ctrl.Settings().Profile
	placeholders := [4]string{"Enter your full name", "Enter your email address", "Enter your mobile number", "Enter your address"}
	values := [4]string{profile.Name, profile.Email, profile.Mobile, profile.Address}
	for i := range m.ProfileInputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 0
		in.Width = styles.ContentWidth - 12
		in.SetValue(values[i])
		m.ProfileInputs[i] = in
	}

	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.TextInput.Cursor.BlinkCmd(),
		m.Spinner.Tick,
	)
}

func NewProgram(ctrl *session.Controller) *tea.Program {
	m := InitialModel(ctrl)
	return tea.NewProgram(&m, tea.WithAltScreen())
}
