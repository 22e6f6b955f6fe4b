package worker

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"brandframe-server/modules/common/database"
	"brandframe-server/modules/common/model"
	redisutil "brandframe-server/modules/common/redis"
)

// CancelHandler - Job 취소 API 핸들러
type CancelHandler struct {
	rdb *redis.Client
	db  *database.Client
}

// NewCancelHandler - 핸들러 생성
func NewCancelHandler(rdb *redis.Client, db *database.Client) *CancelHandler {
	if rdb == nil {
		log.Println("❌ [CancelHandler] Redis not available, cancel disabled")
		return nil
	}

	return &CancelHandler{
		rdb: rdb,
		db:  db,
	}
}

// RegisterRoutes - 라우트 등록
func (h *CancelHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/jobs/{jobId}/cancel", h.CancelJob).Methods("POST", "OPTIONS")
	log.Println("✅ [CancelHandler] Routes registered: POST /api/jobs/{jobId}/cancel")
}

// CancelJob - Job 취소 처리
func (h *CancelHandler) CancelJob(w http.ResponseWriter, r *http.Request) {
	// CORS preflight
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	vars := mux.Vars(r)
	jobID := vars["jobId"]

	if jobID == "" {
		http.Error(w, `{"error": "jobId is required"}`, http.StatusBadRequest)
		return
	}

	log.Printf("🛑 [CancelHandler] Cancel requested for job: %s", jobID)

	// 1. Redis에 취소 플래그 설정
	if err := redisutil.SetJobCancelled(h.rdb, jobID); err != nil {
		log.Printf("❌ [CancelHandler] Failed to set cancel flag: %v", err)
		http.Error(w, `{"error": "Failed to set cancel flag"}`, http.StatusInternalServerError)
		return
	}

	// 2. DB에서 현재 job 상태 조회
	job, err := h.db.FetchStoryboardJob(jobID)
	if err != nil {
		log.Printf("❌ [CancelHandler] Job not found: %s", jobID)
		http.Error(w, `{"error": "Job not found"}`, http.StatusNotFound)
		return
	}

	// 이미 완료/취소된 job은 취소 불가
	if job.JobStatus == model.StatusCompleted || job.JobStatus == model.StatusUserCancelled {
		log.Printf("⚠️ [CancelHandler] Job already %s: %s", job.JobStatus, jobID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":    false,
			"message":    "Job already " + job.JobStatus,
			"job_id":     jobID,
			"job_status": job.JobStatus,
		})
		return
	}

	log.Printf("✅ [CancelHandler] Cancel flag set for job: %s (current status: %s)", jobID, job.JobStatus)

	// 응답
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":        true,
		"message":        "Cancel request sent. Job will stop after current scene.",
		"job_id":         jobID,
		"current_status": job.JobStatus,
	})
}
