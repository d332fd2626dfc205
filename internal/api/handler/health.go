package handler

import (
	"net/http"

	"github.com/Rrens/wardrobe-stylist/internal/api/response"
)

// HealthCheck answers the service root
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.Bare(w, http.StatusOK, map[string]string{
		"message": "Fashion AI Backend is Running!",
	})
}
