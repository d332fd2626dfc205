package client

import (
	"context"
	"encoding/json"
	"net/http"
)

// GenerateOutfit asks for a one-shot suggestion. The raw payload is returned
// for the outfit codec.
func (c *Client) GenerateOutfit(ctx context.Context, prompt string) (json.RawMessage, error) {
	input := struct {
		Prompt string `json:"prompt"`
	}{Prompt: prompt}

	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("generate-outfit"), input, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
