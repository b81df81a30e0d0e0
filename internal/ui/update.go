package ui

import (
	"context"
	"fmt"
	"strings"

	"cortex/internal/models"
	"cortex/internal/settings"
	"cortex/internal/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case spinner.TickMsg:
		m.Spinner, spCmd = m.Spinner.Update(msg)
		if m.Loading {
			m.UpdateViewport()
		}
		return m, spCmd

	case tea.KeyMsg:
		// One transition at a time: while a completion is in flight only
		// quitting is allowed.
		if m.Loading {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}

		if m.ConversationsOpen {
			return m.updateConversationsModal(msg)
		}
		if m.SettingsOpen {
			return m.updateSettingsModal(msg)
		}
		if m.ShortcutsOpen {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc", "enter", "ctrl+s":
				m.ShortcutsOpen = false
				return m, nil
			}
			return m, nil
		}

		if isNewlineShortcut(msg) {
			m.TextInput.InsertString("\n")
			m.updateInputLayout()
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyCtrlN:
			if err := m.Controller.StartNewConversation(); err != nil {
				m.Messages = append(m.Messages, styles.ErrorStyle.Render(fmt.Sprintf("History error: %v", err)))
				m.UpdateViewport()
				return m, nil
			}
			m.ResetSession()
			return m, nil

		case tea.KeyCtrlH:
			m.ConversationsOpen = true
			m.SettingsOpen = false
			m.ShortcutsOpen = false
			m.RefreshConversations()
			return m, nil

		case tea.KeyCtrlB:
			m.openSettingsModal()
			return m, nil

		case tea.KeyCtrlS:
			m.ShortcutsOpen = true
			m.ConversationsOpen = false
			m.SettingsOpen = false
			return m, nil

		case tea.KeyEnter:
			input := strings.TrimSpace(m.TextInput.Value())
			if input == "" {
				return m, nil
			}

			m.Messages = append(m.Messages, FormatUserMessage(input, m.Viewport.Width, len(m.Messages) == 0))
			m.TextInput.Reset()
			m.updateInputLayout()
			m.Loading = true
			m.UpdateViewport()

			return m, tea.Batch(m.sendCmd(input), m.Spinner.Tick)
		}

	case ResponseMsg:
		m.Loading = false
		m.Messages = append(m.Messages, FormatAssistantMessage(m.renderMarkdown(msg.Reply.Content)))
		m.UpdateViewport()
		return m, nil

	case ErrMsg:
		m.Loading = false
		m.Messages = append(m.Messages, styles.ErrorStyle.Render(fmt.Sprintf("Error: %v", msg)))
		m.UpdateViewport()
		return m, nil

	case tea.WindowSizeMsg:
		m.WindowWidth = msg.Width
		m.WindowHeight = msg.Height

		chatWidth := msg.Width - 2
		m.Viewport.Width = chatWidth - 2

		m.updateInputLayout()
		m.Renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath(glamourStyle()),
			glamour.WithWordWrap(chatWidth-6),
		)
		m.RebuildMessages()
		m.UpdateViewport()
		return m, tea.Batch(tiCmd, vpCmd)
	}

	m.TextInput, tiCmd = m.TextInput.Update(msg)
	m.updateInputLayout()

	// Terminal background queries and cursor reports sometimes leak into
	// the textarea; drop them.
	val := m.TextInput.Value()
	if strings.Contains(val, "]11;rgb:") || strings.Contains(val, "1;rgb:") || strings.Contains(val, "[1;1R") {
		m.TextInput.Reset()
	}

	m.Viewport, vpCmd = m.Viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd)
}

func (m *Model) updateConversationsModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "ctrl+h":
		m.ConversationsOpen = false
		m.ConversationErr = nil
		return m, nil
	case "up", "k":
		if len(m.ConversationList) == 0 {
			return m, nil
		}
		m.ConversationIdx--
		if m.ConversationIdx < 0 {
			m.ConversationIdx = len(m.ConversationList) - 1
		}
		return m, nil
	case "down", "j":
		if len(m.ConversationList) == 0 {
			return m, nil
		}
		m.ConversationIdx++
		if m.ConversationIdx >= len(m.ConversationList) {
			m.ConversationIdx = 0
		}
		return m, nil
	case "enter":
		if len(m.ConversationList) == 0 {
			return m, nil
		}
		conv := m.ConversationList[m.ConversationIdx]
		if err := m.Controller.SelectConversation(conv.ID); err != nil {
			m.ConversationErr = err
			return m, nil
		}
		m.ConversationsOpen = false
		m.ConversationErr = nil
		m.RebuildMessages()
		m.UpdateViewport()
		return m, nil
	case "d", "x":
		if len(m.ConversationList) == 0 {
			return m, nil
		}
		conv := m.ConversationList[m.ConversationIdx]
		wasSelected := m.Controller.State().SelectedID == conv.ID
		if err := m.Controller.DeleteConversation(conv.ID); err != nil {
			m.ConversationErr = err
			return m, nil
		}
		m.RefreshConversations()
		if wasSelected {
			m.RebuildMessages()
			m.UpdateViewport()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateSettingsModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "ctrl+b":
		m.closeSettingsModal()
		return m, nil
	case "up", "shift+tab":
		m.moveSettingsRow(-1)
		return m, nil
	case "down", "tab":
		m.moveSettingsRow(1)
		return m, nil
	}

	switch m.SettingsRow {
	case settingsRowTheme:
		switch msg.String() {
		case "left", "right", "enter", " ":
			next := settings.ThemeTransparent
			if m.Controller.Settings().Theme == settings.ThemeTransparent {
				next = settings.ThemeDark
			}
			if err := m.Controller.SetTheme(next); err != nil {
				m.SettingsErr = err
				return m, nil
			}
			m.SettingsErr = nil
			styles.ApplyTheme(next)
			m.RebuildMessages()
			m.UpdateViewport()
		}
		return m, nil

	case settingsRowModel:
		switch msg.String() {
		case "left", "right", "enter", " ":
			current := m.Controller.Settings().ModelName
			idx := 0
			for i, opt := range AvailableModels {
				if opt.ID == current {
					idx = i
					break
				}
			}
			step := 1
			if msg.String() == "left" {
				step = len(AvailableModels) - 1
			}
			next := AvailableModels[(idx+step)%len(AvailableModels)]
			if err := m.Controller.SetModel(next.ID); err != nil {
				m.SettingsErr = err
				return m, nil
			}
			m.SettingsErr = nil
		}
		return m, nil

	case settingsRowClearAll:
		if msg.String() == "enter" {
			if err := m.Controller.ClearAllConversations(); err != nil {
				m.SettingsErr = err
				return m, nil
			}
			m.SettingsErr = nil
			m.RebuildMessages()
			m.UpdateViewport()
		}
		return m, nil
	}

	// A profile field is focused; route the keystroke to its input.
	if i, ok := profileInputIndex(m.SettingsRow); ok {
		var cmd tea.Cmd
		m.ProfileInputs[i], cmd = m.ProfileInputs[i].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) openSettingsModal() {
	m.SettingsOpen = true
	m.ConversationsOpen = false
	m.ShortcutsOpen = false
	m.SettingsRow = settingsRowTheme
	m.SettingsErr = nil

	profile := m.Controller.Settings().Profile
	values := [4]string{profile.Name, profile.Email, profile.Mobile, profile.Address}
	for i := range m.ProfileInputs {
		m.ProfileInputs[i].SetValue(values[i])
		m.ProfileInputs[i].Blur()
	}
}

func (m *Model) closeSettingsModal() {
	profile := models.Profile{
		Name:    strings.TrimSpace(m.ProfileInputs[0].Value()),
		Email:   strings.TrimSpace(m.ProfileInputs[1].Value()),
		Mobile:  strings.TrimSpace(m.ProfileInputs[2].Value()),
		Address: strings.TrimSpace(m.ProfileInputs[3].Value()),
	}
	if err := m.Controller.SetProfile(profile); err != nil {
		m.SettingsErr = err
		return
	}
	m.SettingsOpen = false
	m.SettingsErr = nil
}

func (m *Model) moveSettingsRow(delta int) {
	if i, ok := profileInputIndex(m.SettingsRow); ok {
		m.ProfileInputs[i].Blur()
	}
	m.SettingsRow = (m.SettingsRow + delta + settingsRowCount) % settingsRowCount
	if i, ok := profileInputIndex(m.SettingsRow); ok {
		m.ProfileInputs[i].Focus()
	}
}

func profileInputIndex(row int) (int, bool) {
	switch row {
	case settingsRowName:
		return 0, true
	case settingsRowEmail:
		return 1, true
	case settingsRowMobile:
		return 2, true
	case settingsRowAddress:
		return 3, true
	default:
		return 0, false
	}
}

// ResetSession clears the rendered transcript after a new-conversation
// transition; the controller has already cleared its state.
func (m *Model) ResetSession() {
	m.Messages = []string{}
	m.Viewport.SetContent(GetWelcomeScreen(m.Viewport.Width, m.Viewport.Height))
	m.Viewport.GotoTop()
	m.TextInput.Reset()
	m.updateInputLayout()
}

func (m *Model) RefreshConversations() {
	m.ConversationErr = nil
	m.ConversationIdx = 0
	m.ConversationList = m.Controller.Conversations()
	if len(m.ConversationList) > ConversationListLimit {
		m.ConversationList = m.ConversationList[:ConversationListLimit]
	}
}

func (m *Model) sendCmd(input string) tea.Cmd {
	return func() tea.Msg {
		reply, err := m.Controller.SendMessage(context.Background(), input)
		if err != nil {
			return ErrMsg(err)
		}
		return ResponseMsg{Reply: reply}
	}
}

func isNewlineShortcut(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "shift+enter", "shift+return", "ctrl+j", "ctrl+enter", "alt+enter":
		return true
	default:
		return false
	}
}

func (m *Model) updateInputLayout() {
	if m.WindowWidth == 0 || m.WindowHeight == 0 {
		return
	}

	inputWidth := m.WindowWidth - 6
	if inputWidth < 20 {
		inputWidth = 20
	}
	contentWidth := inputWidth - 2
	if contentWidth < 1 {
		contentWidth = 1
	}

	maxInputHeight := 6
	lineCount := WrappedLineCount(m.TextInput.Value(), contentWidth)
	if lineCount < 1 {
		lineCount = 1
	}
	if lineCount > maxInputHeight {
		lineCount = maxInputHeight
	}

	m.TextInput.MaxHeight = maxInputHeight
	m.TextInput.SetWidth(inputWidth)
	m.TextInput.SetHeight(lineCount)

	inputBoxHeight := m.TextInput.Height() + 2
	reserved := inputBoxHeight + 5
	viewportHeight := m.WindowHeight - reserved
	if viewportHeight < 5 {
		viewportHeight = 5
	}
	m.Viewport.Height = viewportHeight
}
