package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/wardrobe-stylist/internal/domain"
	"github.com/Rrens/wardrobe-stylist/internal/notify"
	"github.com/Rrens/wardrobe-stylist/internal/outfit"
)

// OutfitGenerator asks for one-shot outfit suggestions outside any chat
type OutfitGenerator struct {
	api      domain.OutfitAPI
	notifier notify.Notifier
}

// NewOutfitGenerator creates a new outfit generator
func NewOutfitGenerator(api domain.OutfitAPI, notifier notify.Notifier) *OutfitGenerator {
	if notifier == nil {
		notifier = notify.Discard
	}
	return &OutfitGenerator{api: api, notifier: notifier}
}

// Generate returns a decoded suggestion for prompt
func (g *OutfitGenerator) Generate(ctx context.Context, prompt string) (*domain.OutfitSuggestion, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", domain.ErrValidation)
	}

	raw, err := g.api.GenerateOutfit(ctx, prompt)
	if err != nil {
		notify.Error(g.notifier, "outfit.generate", "Could not generate an outfit", err)
		return nil, fmt.Errorf("failed to generate outfit: %w", err)
	}

	suggestion, err := outfit.Decode(raw)
	if err == nil && suggestion == nil {
		err = fmt.Errorf("%w: empty suggestion", domain.ErrDecode)
	}
	if err != nil {
		notify.Error(g.notifier, "outfit.generate", "The stylist sent an outfit that could not be read", err)
		return nil, err
	}

	log.Info().Int("slots", len(outfit.Slots(suggestion))).Msg("outfit generated")
	return suggestion, nil
}
