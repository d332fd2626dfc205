package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rrens/wardrobe-stylist/internal/api/memory"
	"github.com/Rrens/wardrobe-stylist/internal/api/response"
	"github.com/Rrens/wardrobe-stylist/internal/domain"
)

// ChatHandler serves chat session and message routes. Session routes
// answer in the standard envelope, message routes answer bare.
type ChatHandler struct {
	store *memory.Store
}

// NewChatHandler creates a new chat handler
func NewChatHandler(store *memory.Store) *ChatHandler {
	return &ChatHandler{store: store}
}

// List returns every session
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.store.Sessions())
}

// Create starts a new session
func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusCreated, h.store.CreateSession())
}

// Rename changes the title of a session
func (h *ChatHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Title == "" {
		response.BadRequest(w, "Title not provided")
		return
	}

	session, err := h.store.RenameSession(domain.ID(chi.URLParam(r, "chatID")), input.Title)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, session)
}

// Delete removes a session
func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteSession(domain.ID(chi.URLParam(r, "chatID"))); err != nil {
		writeStoreError(w, err)
		return
	}
	response.NoContent(w)
}

// Messages returns the log of a session
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.store.Messages(domain.ID(chi.URLParam(r, "chatID")))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	response.Bare(w, http.StatusOK, msgs)
}

// Send posts a prompt and returns the stylist's reply
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Prompt == "" {
		response.BadRequest(w, "Prompt not provided")
		return
	}

	reply, err := h.store.Send(domain.ID(chi.URLParam(r, "chatID")), input.Prompt)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	response.Bare(w, http.StatusCreated, reply)
}
