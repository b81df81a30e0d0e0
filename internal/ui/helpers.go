package ui

import (
	"fmt"
	"strings"
	"time"

	"cortex/internal/models"
	"cortex/internal/settings"
	"cortex/internal/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

func FormatUserMessage(content string, width int, isFirst bool) string {
	label := styles.UserLabelStyle.Render("YOU")
	msg := styles.UserMsgStyle.Width(width - 4).Render(content)
	if isFirst {
		return fmt.Sprintf("\n%s\n%s", label, msg)
	}
	return fmt.Sprintf("%s\n%s", label, msg)
}

func FormatAssistantMessage(content string) string {
	label := styles.AiLabelStyle.Render("CORTEX")
	msg := styles.AiMsgStyle.Render(content)
	return fmt.Sprintf("%s\n%s", label, msg)
}

func (m *Model) renderMarkdown(content string) string {
	if m.Renderer == nil {
		return content
	}
	rendered, err := m.Renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(rendered)
}

// RebuildMessages re-renders the transcript from the controller state, used
// after selecting a conversation, a theme switch or a resize.
func (m *Model) RebuildMessages() {
	state := m.Controller.State()
	m.Messages = make([]string, 0, len(state.Messages))
	for _, msg := range state.Messages {
		switch msg.Role {
		case models.RoleUser:
			m.Messages = append(m.Messages, FormatUserMessage(msg.Content, m.Viewport.Width, len(m.Messages) == 0))
		case models.RoleAssistant:
			m.Messages = append(m.Messages, FormatAssistantMessage(m.renderMarkdown(msg.Content)))
		}
	}
}

// ConversationPreview builds the one-line label for a saved conversation.
func ConversationPreview(c models.Conversation) string {
	for _, msg := range c.Messages {
		if msg.Role == models.RoleUser && msg.Content != "" {
			return PromptPreview(msg.Content)
		}
	}
	return c.Name
}

func PromptPreview(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.Join(strings.Fields(s), " ")
	const maxRunes = 500
	r := []rune(s)
	if len(r) > maxRunes {
		return string(r[:maxRunes])
	}
	return s
}

func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

func RelativeTime(t time.Time) string {
	d := time.Since(t)
	if d < 0 {
		d = -d
	}
	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 min ago"
		}
		return fmt.Sprintf("%d mins ago", mins)
	}
	if d < 24*time.Hour {
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1 hr ago"
		}
		return fmt.Sprintf("%d hrs ago", hrs)
	}
	days := int(d.Hours() / 24)
	if days < 14 {
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
	weeks := days / 7
	if weeks == 1 {
		return "1 week ago"
	}
	return fmt.Sprintf("%d weeks ago", weeks)
}

func WrappedLineCount(value string, width int) int {
	if width <= 0 {
		return 1
	}
	lines := strings.Split(value, "\n")
	if len(lines) == 0 {
		return 1
	}
	count := 0
	for _, line := range lines {
		w := runewidth.StringWidth(line)
		if w == 0 {
			count++
			continue
		}
		count += (w-1)/width + 1
	}
	return count
}

func ModelDisplayName(id string) string {
	for _, opt := range AvailableModels {
		if opt.ID == id {
			return opt.Name
		}
	}
	return id
}

func glamourStyle() string {
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func themeLabel(theme string) string {
	if theme == settings.ThemeTransparent {
		return "Transparent"
	}
	return "Dark"
}
