// Package outfit decodes the structured attachment the stylist embeds in
// assistant messages and applies the slot label rule.
package outfit

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Rrens/wardrobe-stylist/internal/domain"
	"github.com/Rrens/wardrobe-stylist/internal/validation"
)

var validate = validation.New()

// Decode turns a raw attachment into an OutfitSuggestion. The payload may be
// an object or a JSON string holding an object, since the service stores it
// as text. An absent payload yields nil without error. Anything else that
// does not describe at least one complete item slot reports ErrDecode.
func Decode(raw json.RawMessage) (*domain.OutfitSuggestion, error) {
	raw = bytes.TrimSpace(raw)
	if isEmpty(raw) {
		return nil, nil
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
		}
		raw = bytes.TrimSpace([]byte(inner))
		if isEmpty(raw) {
			return nil, nil
		}
	}

	if raw[0] != '{' {
		return nil, fmt.Errorf("%w: attachment is not an object", domain.ErrDecode)
	}

	var s domain.OutfitSuggestion
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}

	if s.Top == nil && s.Bottom == nil && s.Outerwear == nil {
		return nil, fmt.Errorf("%w: no item slots", domain.ErrDecode)
	}

	for name, item := range map[string]*domain.ClothingItem{"top": s.Top, "bottom": s.Bottom, "outerwear": s.Outerwear} {
		if item == nil {
			continue
		}
		if err := validate.Struct(item); err != nil {
			// Reported as a decode failure only, not as invalid user input
			return nil, fmt.Errorf("%w: %s slot: %v", domain.ErrDecode, name, err)
		}
	}

	return &s, nil
}

// DecodeMessage decodes the attachment of an assistant message in place.
// A decode failure leaves Outfit nil so the message renders as text only.
func DecodeMessage(m *domain.Message) error {
	m.Outfit = nil
	if m.Role != domain.RoleAssistant {
		return nil
	}
	s, err := Decode(m.RawAttachment)
	if err != nil {
		return err
	}
	m.Outfit = s
	return nil
}

// Encode serializes a suggestion as the service would store it
func Encode(s *domain.OutfitSuggestion) (json.RawMessage, error) {
	if s == nil {
		return nil, nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode outfit: %w", err)
	}
	return data, nil
}

func isEmpty(raw []byte) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte(`""`))
}
