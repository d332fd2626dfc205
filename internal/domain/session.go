package domain

import "context"

// DefaultSessionTitle is the title the service gives a freshly created chat
const DefaultSessionTitle = "New Outfit Chat"

// ChatSession represents a conversation thread with the stylist
type ChatSession struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title"`
	CreatedAt Timestamp `json:"created_at"`
}

// ChatAPI defines the remote operations on chat sessions and their messages
type ChatAPI interface {
	ListSessions(ctx context.Context) ([]ChatSession, error)
	CreateSession(ctx context.Context) (*ChatSession, error)
	RenameSession(ctx context.Context, id ID, title string) (*ChatSession, error)
	DeleteSession(ctx context.Context, id ID) error
	ListMessages(ctx context.Context, sessionID ID) ([]Message, error)
	SendMessage(ctx context.Context, sessionID ID, prompt string) (*Message, error)
}
