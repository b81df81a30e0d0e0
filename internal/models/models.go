package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of chat message roles.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// NormalizeRole maps a raw role string onto the closed enumeration.
// Unknown values are rejected rather than guessed at.
func NormalizeRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is a saved, named message history plus the model and backend
// that produced it. Records are replaced wholesale, never edited in place.
type Conversation struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Model     string    `json:"model"`
	Backend   string    `json:"backend"`
	Messages  []Message `json:"messages"`
}

// Clone returns a deep copy so the in-memory session can be edited without
// touching the stored record.
func (c Conversation) Clone() Conversation {
	out := c
	out.Messages = CloneMessages(c.Messages)
	return out
}

func CloneMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// NewConversationID derives a unique-enough id from the given instant,
// microsecond resolution, sortable as a string.
func NewConversationID(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s%06d", t.Format("20060102150405"), t.Nanosecond()/1000)
}

// Profile holds the optional user details injected into the system prompt.
type Profile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Mobile  string `json:"mobile"`
	Address string `json:"address"`
}

// Empty reports whether no profile field is populated.
func (p Profile) Empty() bool {
	return p.Name == "" && p.Email == "" && p.Mobile == "" && p.Address == ""
}
