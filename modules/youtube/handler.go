package youtube

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// Handler - YouTube 메타데이터 API 핸들러
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	if service == nil {
		return nil
	}
	return &Handler{service: service}
}

// RegisterRoutes - 라우트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/youtube/videos/{videoId}", h.GetVideo).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/youtube/videos/{videoId}/captions", h.GetCaptions).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/youtube/analyze", h.Analyze).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/youtube/search", h.Search).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/youtube/categories", h.GetCategories).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/youtube/styles", h.GetStyles).Methods("GET", "OPTIONS")
	log.Println("✅ YouTube routes registered: /api/youtube/*")
}

// GetVideo - GET /api/youtube/videos/{videoId}
func (h *Handler) GetVideo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	videoID := mux.Vars(r)["videoId"]
	meta, err := h.service.GetVideoMetadata(r.Context(), videoID)
	if err != nil {
		log.Printf("❌ Failed to fetch video %s: %v", videoID, err)
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": err.Error()})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "video": meta})
}

// GetCaptions - GET /api/youtube/videos/{videoId}/captions
func (h *Handler) GetCaptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	videoID := mux.Vars(r)["videoId"]
	tracks, err := h.service.ListCaptionTracks(r.Context(), videoID)
	if err != nil {
		log.Printf("❌ Failed to list captions for %s: %v", videoID, err)
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": err.Error()})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "captions": tracks})
}

// Analyze - POST /api/youtube/analyze {"videoId": "..."}
// 자막/메타데이터 기반 스크립트 분석과 스토리보드 씬 제안
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var body struct {
		VideoID string `json:"videoId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.VideoID == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "videoId is required"})
		return
	}

	analysis, err := h.service.AnalyzeVideo(r.Context(), body.VideoID)
	if err != nil {
		log.Printf("❌ Video analysis failed for %s: %v", body.VideoID, err)
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": err.Error()})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "analysis": analysis})
}

// Search - GET /api/youtube/search?style=&query=&limit=&sortBy=&categoryId=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	q := r.URL.Query()
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)

	videos, err := h.service.SearchByStyle(r.Context(), SearchOptions{
		Style:      q.Get("style"),
		Query:      q.Get("query"),
		Limit:      limit,
		SortBy:     q.Get("sortBy"),
		CategoryID: q.Get("categoryId"),
	})
	if err != nil {
		log.Printf("❌ YouTube search failed: %v", err)
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": err.Error()})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "videos": videos})
}

// GetCategories - GET /api/youtube/categories?regionCode=
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	categories, err := h.service.ListCategories(r.Context(), r.URL.Query().Get("regionCode"))
	if err != nil {
		log.Printf("❌ Failed to list categories: %v", err)
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": err.Error()})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "categories": categories})
}

// GetStyles - GET /api/youtube/styles
func (h *Handler) GetStyles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "styles": h.service.Styles()})
}
