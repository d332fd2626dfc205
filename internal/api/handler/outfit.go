package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Rrens/wardrobe-stylist/internal/api/memory"
	"github.com/Rrens/wardrobe-stylist/internal/api/response"
)

// OutfitHandler serves the one-shot outfit route
type OutfitHandler struct {
	store *memory.Store
}

// NewOutfitHandler creates a new outfit handler
func NewOutfitHandler(store *memory.Store) *OutfitHandler {
	return &OutfitHandler{store: store}
}

// Generate builds a suggestion for a free-text prompt
func (h *OutfitHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Prompt == "" {
		response.BadRequest(w, "Prompt not provided")
		return
	}

	suggestion, err := h.store.Suggest(input.Prompt)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	response.Bare(w, http.StatusOK, suggestion)
}
