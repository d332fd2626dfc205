package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// MessageRole represents the sender of a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ApologyText is the content of the local message added when a send fails
const ApologyText = "Sorry, I ran into an error. Please try again."

// UnmarshalJSON maps the service's "ai" role onto RoleAssistant
func (r *MessageRole) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = ParseRole(s)
	return nil
}

// ParseRole normalizes a wire role. Anything that is not the user is treated
// as the assistant.
func ParseRole(s string) MessageRole {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return RoleUser
	default:
		return RoleAssistant
	}
}

// Message represents a chat message in a session
type Message struct {
	ID      ID          `json:"id,omitempty"`
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`

	// RawAttachment is the serialized outfit payload as received
	RawAttachment json.RawMessage `json:"outfit_data,omitempty"`

	// Outfit is the decoded attachment. Nil when absent or undecodable.
	Outfit *OutfitSuggestion `json:"-"`

	// Local marks messages that exist only on this client
	Local     bool      `json:"-"`
	CreatedAt Timestamp `json:"created_at"`
}

// NewUserMessage builds the optimistic local echo of a prompt
func NewUserMessage(prompt string) Message {
	return Message{
		Role:      RoleUser,
		Content:   prompt,
		Local:     true,
		CreatedAt: NewTimestamp(time.Now()),
	}
}

// NewApologyMessage builds the local assistant message shown after a failed send
func NewApologyMessage() Message {
	return Message{
		Role:      RoleAssistant,
		Content:   ApologyText,
		Local:     true,
		CreatedAt: NewTimestamp(time.Now()),
	}
}
