package client

import (
	"context"
	"net/http"

	"github.com/Rrens/wardrobe-stylist/internal/domain"
)

// ListSessions returns every chat session in server order
func (c *Client) ListSessions(ctx context.Context) ([]domain.ChatSession, error) {
	var sessions []domain.ChatSession
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint("chats"), nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// CreateSession starts a new chat session
func (c *Client) CreateSession(ctx context.Context) (*domain.ChatSession, error) {
	var session domain.ChatSession
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("chats"), struct{}{}, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// RenameSession sets the title of a session
func (c *Client) RenameSession(ctx context.Context, id domain.ID, title string) (*domain.ChatSession, error) {
	input := struct {
		Title string `json:"title"`
	}{Title: title}

	var session domain.ChatSession
	if err := c.doJSON(ctx, http.MethodPut, c.endpoint("chats", id.String()), input, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession removes a session
func (c *Client) DeleteSession(ctx context.Context, id domain.ID) error {
	return c.doJSON(ctx, http.MethodDelete, c.endpoint("chats", id.String()), nil, nil)
}

// ListMessages returns the log of a session in arrival order. Attachments
// are left raw; decoding is up to the caller.
func (c *Client) ListMessages(ctx context.Context, sessionID domain.ID) ([]domain.Message, error) {
	var msgs []domain.Message
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint("chats", sessionID.String(), "messages"), nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SendMessage posts a prompt and returns the stylist's reply
func (c *Client) SendMessage(ctx context.Context, sessionID domain.ID, prompt string) (*domain.Message, error) {
	input := struct {
		Prompt string `json:"prompt"`
	}{Prompt: prompt}

	var reply domain.Message
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("chats", sessionID.String(), "messages"), input, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}
