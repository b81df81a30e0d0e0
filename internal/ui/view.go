package ui

import (
	"fmt"
	"strings"

	"cortex/internal/styles"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) RenderConversationsModal() string {
	title := styles.ModalTitleStyle.Render(fmt.Sprintf("Conversations (%d)", len(m.ConversationList)))

	var body string
	if m.ConversationErr != nil {
		body = lipgloss.NewStyle().Width(styles.ContentWidth).Render(styles.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.ConversationErr)))
	} else if len(m.ConversationList) == 0 {
		body = styles.ModalItemStyle.Render(lipgloss.NewStyle().Foreground(styles.HintColor).Render("No saved conversations yet"))
	} else {
		selectedID := m.Controller.State().SelectedID
		items := make([]string, 0, len(m.ConversationList))
		for i, conv := range m.ConversationList {
			isSelected := i == m.ConversationIdx
			cursor := "  "
			if isSelected {
				cursor = "> "
			}
			marker := "  "
			if conv.ID == selectedID {
				marker = "● "
			}
			timeStr := RelativeTime(conv.CreatedAt)
			preview := ConversationPreview(conv)
			availableWidth := styles.ContentWidth - 2 - len(cursor) - 2 - 1 - len(timeStr)
			preview = TruncateRunes(preview, availableWidth)

			itemContent := fmt.Sprintf("%s%s%s %s", cursor, marker, preview, lipgloss.NewStyle().Foreground(styles.HintColor).Render(timeStr))
			if isSelected {
				items = append(items, styles.ModalSelectedStyle.Render(itemContent))
			} else {
				items = append(items, styles.ModalItemStyle.Render(itemContent))
			}
		}
		body = lipgloss.JoinVertical(lipgloss.Left, items...)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, body)
	hint := lipgloss.NewStyle().
		Foreground(styles.HintColor).
		Width(styles.ContentWidth).
		PaddingTop(1).
		Render("↑/↓: navigate • Enter: open • d: delete • Esc: close")

	return lipgloss.JoinVertical(lipgloss.Left, content, hint)
}

func (m *Model) RenderSettingsModal() string {
	title := styles.ModalTitleStyle.Render("Settings")
	cfg := m.Controller.Settings()

	rows := []struct {
		row   int
		label string
		value string
	}{
		{settingsRowTheme, "Theme", themeLabel(cfg.Theme)},
		{settingsRowModel, "Model", ModelDisplayName(cfg.ModelName)},
		{settingsRowName, "Name", m.ProfileInputs[0].View()},
		{settingsRowEmail, "Email", m.ProfileInputs[1].View()},
		{settingsRowMobile, "Mobile", m.ProfileInputs[2].View()},
		{settingsRowAddress, "Address", m.ProfileInputs[3].View()},
		{settingsRowClearAll, "Clear all conversations", ""},
	}

	labelStyle := lipgloss.NewStyle().Bold(true).Width(10)
	items := make([]string, 0, len(rows)+3)
	for _, r := range rows {
		if r.row == settingsRowName {
			items = append(items, styles.ModalHeaderStyle.Render("Profile"))
		}
		var line string
		if r.row == settingsRowClearAll {
			line = styles.ErrorStyle.Render("🗑 " + r.label)
		} else {
			line = fmt.Sprintf("%s %s", labelStyle.Render(r.label), r.value)
		}
		if r.row == m.SettingsRow {
			items = append(items, styles.ModalSelectedStyle.Render(line))
		} else {
			items = append(items, styles.ModalItemStyle.Render(line))
		}
	}

	if m.SettingsErr != nil {
		items = append(items, "", styles.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.SettingsErr)))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, items...)
	content := lipgloss.JoinVertical(lipgloss.Left, title, body)
	hint := lipgloss.NewStyle().
		Foreground(styles.HintColor).
		Width(styles.ContentWidth).
		PaddingTop(1).
		Render("↑/↓: navigate • ←/→: change • Enter: apply • Esc: save & close")

	return lipgloss.JoinVertical(lipgloss.Left, content, hint)
}

func (m *Model) RenderShortcutsModal() string {
	title := styles.ModalTitleStyle.Render("Keyboard Shortcuts")

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Ctrl+C", "Quit Application"},
		{"Ctrl+N", "New Conversation"},
		{"Ctrl+H", "Browse Conversations"},
		{"Ctrl+B", "Open Settings"},
		{"Ctrl+S", "View Shortcuts (this menu)"},
		{"Shift+Enter", "Insert Newline"},
	}

	var items []string
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.CurrentTheme.Warning).
		Bold(true).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(styles.CurrentTheme.TextPrimary)

	for _, s := range shortcuts {
		line := fmt.Sprintf("%s %s", keyStyle.Render(s.key), descStyle.Render(s.desc))
		items = append(items, styles.ModalItemStyle.Render(line))
	}

	listContent := lipgloss.JoinVertical(lipgloss.Left, items...)
	content := lipgloss.JoinVertical(lipgloss.Left, title, listContent)

	hint := lipgloss.NewStyle().
		Foreground(styles.HintColor).
		Width(styles.ContentWidth).
		PaddingTop(1).
		Render("Esc/Enter: close")

	return lipgloss.JoinVertical(lipgloss.Left, content, hint)
}

func (m *Model) RenderBottomBar() string {
	cfg := m.Controller.Settings()

	backend := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(styles.CurrentTheme.Secondary).
		Padding(0, 1).
		Render(strings.ToUpper(cfg.Backend))

	model := lipgloss.NewStyle().
		Foreground(styles.CurrentTheme.Accent).
		Render(TruncateRunes(ModelDisplayName(cfg.ModelName), 25))

	theme := lipgloss.NewStyle().
		Foreground(styles.CurrentTheme.TextMuted).
		Render("theme: " + themeLabel(cfg.Theme))

	saved := lipgloss.NewStyle().
		Foreground(styles.CurrentTheme.TextMuted).
		Render(fmt.Sprintf("saved: %d", len(m.Controller.Conversations())))

	help := lipgloss.NewStyle().
		Foreground(styles.CurrentTheme.TextMuted).
		Render("Help: ^S")

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, backend, "  ", model, "  ", theme)
	rightSide := lipgloss.JoinHorizontal(lipgloss.Center, saved, "  ", help)

	availableWidth := m.WindowWidth - lipgloss.Width(leftSide) - lipgloss.Width(rightSide) - 2
	if availableWidth < 0 {
		availableWidth = 0
	}
	spacer := strings.Repeat(" ", availableWidth)

	bar := lipgloss.JoinHorizontal(lipgloss.Center, leftSide, spacer, rightSide)

	return lipgloss.NewStyle().
		Width(m.WindowWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.CurrentTheme.Border).
		Padding(0, 1).
		Render(bar)
}

func GetWelcomeScreen(width, height int) string {
	title := styles.WelcomeArtStyle.Render("✦ Cortex AI ✦")
	subtitle := styles.WelcomeSubtitleStyle.Render("Your personal AI conversation companion")

	cards := []struct {
		icon  string
		title string
		items []string
	}{
		{"💡", "Examples", []string{
			"Explain quantum computing in simple terms",
			"Got any creative ideas for a 10 year old's birthday?",
			"How do I write a Javascript fetch request?",
		}},
		{"⚡", "Capabilities", []string{
			"Remembers what user said earlier in the conversation",
			"Allows user to provide follow-up corrections",
			"Trained to decline inappropriate requests",
		}},
		{"⚠️", "Limitations", []string{
			"May occasionally generate incorrect information",
			"May occasionally produce harmful instructions",
			"Limited knowledge of world and events after 2021",
		}},
	}

	colWidth := (width - 8) / 3
	if colWidth < 24 {
		colWidth = 24
	}

	columns := make([]string, 0, len(cards))
	for _, card := range cards {
		parts := []string{styles.CardTitleStyle.Render(card.icon + " " + card.title)}
		for _, item := range card.items {
			parts = append(parts, styles.CardItemStyle.Width(colWidth).Render(item))
		}
		columns = append(columns, lipgloss.JoinVertical(lipgloss.Left, parts...))
	}

	cardRow := lipgloss.JoinHorizontal(lipgloss.Top, columns[0], "  ", columns[1], "  ", columns[2])
	content := lipgloss.JoinVertical(lipgloss.Center, title, "", subtitle, "", cardRow)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) UpdateViewport() {
	if len(m.Messages) == 0 && !m.Loading {
		m.Viewport.SetContent(GetWelcomeScreen(m.Viewport.Width, m.Viewport.Height))
		return
	}

	content := strings.Join(m.Messages, "\n\n")
	if m.Loading {
		loadingMsg := fmt.Sprintf("%s\n%s Thinking...", styles.AiLabelStyle.Render("CORTEX"), m.Spinner.View())
		if len(m.Messages) > 0 {
			content = content + "\n\n" + loadingMsg
		} else {
			content = loadingMsg
		}
	}
	m.Viewport.SetContent(content)
	m.Viewport.GotoBottom()
}

func (m *Model) View() string {
	inputWidth := m.WindowWidth - 4
	inputBox := styles.InputBoxStyle.Width(inputWidth).Render(m.TextInput.View())

	chatContent := lipgloss.JoinVertical(lipgloss.Center,
		styles.TitleStyle.Render("CORTEX AI"),
		"",
		m.Viewport.View(),
		"",
		inputBox,
	)
	chatArea := lipgloss.PlaceHorizontal(m.WindowWidth, lipgloss.Center, chatContent)
	bottomBar := m.RenderBottomBar()

	content := lipgloss.JoinVertical(lipgloss.Left, chatArea, bottomBar)

	var modal string
	switch {
	case m.ConversationsOpen:
		modal = m.RenderConversationsModal()
	case m.SettingsOpen:
		modal = m.RenderSettingsModal()
	case m.ShortcutsOpen:
		modal = m.RenderShortcutsModal()
	default:
		return content
	}

	modal = styles.ModalStyle.Width(ModalWidth).Render(modal)
	return lipgloss.Place(
		m.WindowWidth,
		m.WindowHeight,
		lipgloss.Center,
		lipgloss.Center,
		modal,
	)
}
