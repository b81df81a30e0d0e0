package ui

import (
	"cortex/internal/models"
	"cortex/internal/session"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
)

const (
	ModalWidth = 60

	ConversationListLimit = 10
)

// ModelOption is a selectable completion model.
type ModelOption struct {
	ID   string
	Name string
}

// AvailableModels lists the Hack Club proxy models.
var AvailableModels = []ModelOption{
	{ID: "hackclub/model1", Name: "Hack Club Model 1"},
	{ID: "hackclub/model2", Name: "Hack Club Model 2"},
}

// ResponseMsg carries the assistant reply produced by a send.
type ResponseMsg struct {
	Reply models.Message
}

// ErrMsg surfaces an action failure as a rendered error line.
type ErrMsg error

// Settings modal rows, in display order.
const (
	settingsRowTheme = iota
	settingsRowModel
	settingsRowName
	settingsRowEmail
	settingsRowMobile
	settingsRowAddress
	settingsRowClearAll
	settingsRowCount
)

type Model struct {
	Controller *session.Controller

	Viewport  viewport.Model
	Messages  []string // rendered chat lines, in order
	TextInput textarea.Model
	Spinner   spinner.Model
	Renderer  *glamour.TermRenderer

	Loading      bool
	WindowWidth  int
	WindowHeight int

	// Conversations modal
	ConversationsOpen bool
	ConversationList  []models.Conversation
	ConversationIdx   int
	ConversationErr   error

	// Settings modal
	SettingsOpen  bool
	SettingsRow   int
	SettingsErr   error
	ProfileInputs [4]textinput.Model // name, email, mobile, address

	ShortcutsOpen bool
}
