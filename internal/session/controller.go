// Package session drives the active conversation: it owns the in-memory
// message sequence and orchestrates every user action against the stores,
// the context builder and the completion adapter.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"cortex/internal/llm"
	"cortex/internal/models"
	"cortex/internal/prompt"
	"cortex/internal/settings"
)

// ErrEmptyMessage rejects a send before any state is touched.
var ErrEmptyMessage = errors.New("message text must not be empty")

// ErrNotFound reports a select of an id the store does not hold.
var ErrNotFound = errors.New("conversation not found")

// Diagnostic prefixes for completion failures surfaced as assistant turns.
// Distinct markers let the user tell "not configured" from a transient
// provider failure at a glance.
const (
	markerNotConfigured = "⚠️ Hack Club API key not configured. Set the " + llm.APIKeyEnv + " environment variable."
	markerUnavailable   = "⚠️ Completion backend unavailable: "
	markerGenericError  = "❌ Hack Club API error: "
)

// Completer is the minimal contract the controller needs from the
// completion adapter.
type Completer interface {
	Complete(ctx context.Context, model string, msgs []models.Message) (string, error)
}

// ConversationStore is the slice-in, slice-out persistence contract.
type ConversationStore interface {
	LoadAll() []models.Conversation
	SaveAll([]models.Conversation) error
}

// State is the in-memory session: the message sequence being edited and the
// id of the saved record it came from ("" while unsaved).
type State struct {
	Messages   []models.Message
	SelectedID string
}

// Controller serializes all transitions over the session state. The UI event
// loop and the in-flight completion command are the only callers; the mutex
// keeps them from interleaving.
type Controller struct {
	mu sync.Mutex

	state         State
	conversations []models.Conversation

	store     ConversationStore
	prefs     *settings.Store
	cfg       settings.Settings
	completer Completer
	window    int
	now       func() time.Time
}

func NewController(store ConversationStore, prefs *settings.Store, completer Completer) *Controller {
	return &Controller{
		state:         State{Messages: []models.Message{}},
		conversations: store.LoadAll(),
		store:         store,
		prefs:         prefs,
		cfg:           prefs.Load(),
		completer:     completer,
		window:        prompt.DefaultWindow,
		now:           time.Now,
	}
}

// SetContextWindow overrides the number of trailing messages submitted per
// turn. Values below 1 are ignored.
func (c *Controller) SetContextWindow(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n >= 1 {
		c.window = n
	}
}

// State returns a snapshot of the active session.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Messages:   models.CloneMessages(c.state.Messages),
		SelectedID: c.state.SelectedID,
	}
}

// Conversations returns the loaded saved-conversation list, newest first.
func (c *Controller) Conversations() []models.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Conversation, len(c.conversations))
	for i, conv := range c.conversations {
		out[i] = conv.Clone()
	}
	return out
}

// Settings returns the current preferences.
func (c *Controller) Settings() settings.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// StartNewConversation saves the current sequence as a record prepended to
// the store, then clears the session. An empty sequence just clears. A
// persist failure leaves both store and session untouched.
func (c *Controller) StartNewConversation() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.state.Messages) > 0 {
		now := c.now().UTC()
		entry := models.Conversation{
			ID:        models.NewConversationID(now),
			Name:      fmt.Sprintf("Chat %d", len(c.conversations)+1),
			CreatedAt: now,
			Model:     c.cfg.ModelName,
			Backend:   c.cfg.Backend,
			Messages:  models.CloneMessages(c.state.Messages),
		}
		next := append([]models.Conversation{entry}, c.conversations...)
		if err := c.store.SaveAll(next); err != nil {
			slog.Error("failed to persist conversation", "id", entry.ID, "error", err)
			return fmt.Errorf("save conversation: %w", err)
		}
		c.conversations = next
	}

	c.state = State{Messages: []models.Message{}}
	return nil
}

// SelectConversation replaces the session with a deep copy of the record's
// messages. The stored record itself is never aliased.
func (c *Controller) SelectConversation(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, conv := range c.conversations {
		if conv.ID == id {
			c.state = State{
				Messages:   models.CloneMessages(conv.Messages),
				SelectedID: id,
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// DeleteConversation removes the record and persists the shrunken
// collection. Deleting the selected conversation also clears the session;
// deleting any other leaves it alone.
func (c *Controller) DeleteConversation(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]models.Conversation, 0, len(c.conversations))
	for _, conv := range c.conversations {
		if conv.ID != id {
			next = append(next, conv)
		}
	}
	if err := c.store.SaveAll(next); err != nil {
		slog.Error("failed to persist deletion", "id", id, "error", err)
		return fmt.Errorf("delete conversation: %w", err)
	}
	c.conversations = next

	if c.state.SelectedID == id {
		c.state = State{Messages: []models.Message{}}
	}
	return nil
}

// ClearAllConversations empties the store and the session.
func (c *Controller) ClearAllConversations() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.SaveAll([]models.Conversation{}); err != nil {
		slog.Error("failed to clear conversations", "error", err)
		return fmt.Errorf("clear conversations: %w", err)
	}
	c.conversations = []models.Conversation{}
	c.state = State{Messages: []models.Message{}}
	return nil
}

// SendMessage appends the user's turn, submits the context window and
// appends exactly one assistant reply: the generated text on success, a
// prefixed diagnostic on any failure. The turn is never silently dropped.
func (c *Controller) SendMessage(ctx context.Context, text string) (models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return models.Message{}, ErrEmptyMessage
	}

	c.mu.Lock()
	c.state.Messages = append(c.state.Messages, models.Message{Role: models.RoleUser, Content: text})
	window := prompt.Build(c.cfg.Profile, c.state.Messages, c.window)
	model := c.cfg.ModelName
	c.mu.Unlock()

	content, err := c.completer.Complete(ctx, model, window)
	reply := models.Message{Role: models.RoleAssistant, Content: content}
	if err != nil {
		slog.Warn("completion failed", "model", model, "error", err)
		reply.Content = diagnostic(err)
	}

	c.mu.Lock()
	c.state.Messages = append(c.state.Messages, reply)
	c.mu.Unlock()
	return reply, nil
}

// SetTheme validates and persists a theme change.
func (c *Controller) SetTheme(theme string) error {
	if !settings.ValidTheme(theme) {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return c.updateSettings(func(cfg *settings.Settings) { cfg.Theme = theme })
}

// SetModel persists a model change.
func (c *Controller) SetModel(name string) error {
	if name == "" {
		return errors.New("model name must not be empty")
	}
	return c.updateSettings(func(cfg *settings.Settings) { cfg.ModelName = name })
}

// SetProfile persists new profile details.
func (c *Controller) SetProfile(p models.Profile) error {
	return c.updateSettings(func(cfg *settings.Settings) { cfg.Profile = p })
}

func (c *Controller) updateSettings(apply func(*settings.Settings)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.cfg
	apply(&next)
	if err := c.prefs.Save(next); err != nil {
		slog.Error("failed to persist settings", "error", err)
		return fmt.Errorf("save settings: %w", err)
	}
	c.cfg = next
	return nil
}

func diagnostic(err error) string {
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return markerNotConfigured
	case errors.Is(err, llm.ErrUnavailable):
		return markerUnavailable + err.Error()
	default:
		return markerGenericError + err.Error()
	}
}
