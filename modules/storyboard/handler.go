package storyboard

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
)

// Handler - POST /api/storyboard
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GenerateStoryboard - 동기 생성 엔드포인트
func (h *Handler) GenerateStoryboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req StoryboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid storyboard request body: %v", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	generationID := uuid.New().String()

	storyboard, meta, err := h.service.Generate(r.Context(), &req, generationID)
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			writeError(w, http.StatusBadRequest, validationErr.Message)
			return
		}
		log.Printf("❌ Storyboard generation failed (%s): %v", generationID, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	json.NewEncoder(w).Encode(StoryboardResponse{
		Success:  true,
		Data:     storyboard,
		Metadata: meta,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(StoryboardResponse{
		Success: false,
		Error:   message,
	})
}
