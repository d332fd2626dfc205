package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/Rrens/wardrobe-stylist/internal/api/memory"
	"github.com/Rrens/wardrobe-stylist/internal/api/response"
	"github.com/Rrens/wardrobe-stylist/internal/domain"
	"github.com/Rrens/wardrobe-stylist/internal/validation"
)

// maxUploadSize bounds multipart bodies
const maxUploadSize = 16 << 20

// ClothesHandler serves the wardrobe routes
type ClothesHandler struct {
	store *memory.Store
}

// NewClothesHandler creates a new clothes handler
func NewClothesHandler(store *memory.Store) *ClothesHandler {
	return &ClothesHandler{store: store}
}

// List returns every clothing item
func (h *ClothesHandler) List(w http.ResponseWriter, r *http.Request) {
	response.Bare(w, http.StatusOK, h.store.Items())
}

// Upload stores a new item from a multipart form
func (h *ClothesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.BadRequest(w, "No file uploaded")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Filename == "" || !validation.IsImageFile(header.Filename) {
		response.BadRequest(w, "Invalid file type")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		response.InternalError(w, "Failed to read upload")
		return
	}

	item := h.store.AddItem(filepath.Base(header.Filename), content, r.FormValue("category"), r.FormValue("color"))
	response.Bare(w, http.StatusCreated, item)
}

// Update applies a partial patch to an item
func (h *ClothesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	item, err := h.store.UpdateItem(domain.ID(chi.URLParam(r, "itemID")), patch)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	response.Bare(w, http.StatusOK, item)
}

// Delete removes an item
func (h *ClothesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteItem(domain.ID(chi.URLParam(r, "itemID"))); err != nil {
		writeStoreError(w, err)
		return
	}
	response.Bare(w, http.StatusOK, map[string]string{"message": "Item deleted"})
}

// Image serves a stored upload
func (h *ClothesHandler) Image(w http.ResponseWriter, r *http.Request) {
	data, ok := h.store.Upload(chi.URLParam(r, "filename"))
	if !ok {
		response.NotFound(w, "File not found")
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, memory.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, memory.ErrNoOutfit):
		response.NotFound(w, err.Error())
	default:
		response.InternalError(w, err.Error())
	}
}
