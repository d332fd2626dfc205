package domain

import (
	"context"
	"encoding/json"
)

// Slot labels
const (
	LabelTop       = "Top"
	LabelDress     = "Dress"
	LabelBottom    = "Bottom"
	LabelOuterwear = "Outerwear"
)

// DressCategory switches the first slot label from Top to Dress
const DressCategory = "Dress"

// OutfitSuggestion is an immutable snapshot produced by the recommendation
// engine. Item slots are copies taken at generation time, not references.
type OutfitSuggestion struct {
	Top          *ClothingItem `json:"top,omitempty"`
	Bottom       *ClothingItem `json:"bottom,omitempty"`
	Outerwear    *ClothingItem `json:"outerwear,omitempty"`
	WeatherInfo  string        `json:"weather_info,omitempty"`
	StylistNotes string        `json:"stylist_notes,omitempty"`
}

// Slot is a labeled, present item of an outfit
type Slot struct {
	Label string       `json:"label"`
	Item  ClothingItem `json:"item"`
}

// OutfitAPI asks the remote engine for a suggestion. The raw payload is
// returned so callers decode it through the outfit codec.
type OutfitAPI interface {
	GenerateOutfit(ctx context.Context, prompt string) (json.RawMessage, error)
}
