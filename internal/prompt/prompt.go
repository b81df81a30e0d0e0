// Package prompt assembles the message window submitted to the completion
// endpoint for each turn.
package prompt

import (
	"fmt"
	"strings"

	"cortex/internal/models"
)

// DefaultWindow is the number of trailing messages submitted per turn. The
// window is count-based, not token-aware; a token budget was considered and
// rejected as overkill for a single-user client.
const DefaultWindow = 3

const profileInstruction = "Please use this information when relevant to provide personalized responses."

// ProfileSentence renders the populated profile fields as one sentence in a
// fixed order, followed by the instruction clause. Empty profile yields "".
func ProfileSentence(p models.Profile) string {
	if p.Empty() {
		return ""
	}

	var parts []string
	if p.Name != "" {
		parts = append(parts, fmt.Sprintf("My name is %s", p.Name))
	}
	if p.Email != "" {
		parts = append(parts, fmt.Sprintf("my email is %s", p.Email))
	}
	if p.Mobile != "" {
		parts = append(parts, fmt.Sprintf("my phone number is %s", p.Mobile))
	}
	if p.Address != "" {
		parts = append(parts, fmt.Sprintf("my address is %s", p.Address))
	}
	return strings.Join(parts, ", ") + ". " + profileInstruction
}

// Window returns the last n messages of msgs; shorter sequences come back
// whole. The returned slice is a copy.
func Window(msgs []models.Message, n int) []models.Message {
	if n < 0 {
		n = 0
	}
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	return models.CloneMessages(msgs)
}

// Build produces the exact message list for one completion request: the
// trailing window of the active sequence, preceded by a profile system
// message when any profile field is set.
func Build(p models.Profile, msgs []models.Message, n int) []models.Message {
	window := Window(msgs, n)
	sentence := ProfileSentence(p)
	if sentence == "" {
		return window
	}
	out := make([]models.Message, 0, len(window)+1)
	out = append(out, models.Message{Role: models.RoleSystem, Content: sentence})
	return append(out, window...)
}
