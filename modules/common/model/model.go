package model

import (
	"encoding/json"
	"time"
)

// StoryboardJob - storyboard_jobs 테이블 구조 (큐 작업)
type StoryboardJob struct {
	JobID        string          `json:"job_id"`
	GenerationID *string         `json:"generation_id"`
	JobStatus    string          `json:"job_status"`
	JobInputData json.RawMessage `json:"job_input_data"`
	ErrorMessage *string         `json:"error_message"`
	RetryCount   int             `json:"retry_count"`
	CreatedAt    time.Time       `json:"created_at"`
	StartedAt    *time.Time      `json:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Job 상태 (storyboard_jobs.job_status)
const (
	StatusPending       = "pending"
	StatusProcessing    = "processing"
	StatusCompleted     = "completed"
	StatusFailed        = "failed"
	StatusUserCancelled = "user_cancelled"
)

// 파이프라인 세션 상태 (generation_sessions.status)
const (
	StageStarted    = "started"
	StageStoryWorld = "story_world"
	StageScript     = "script"
	StageImages     = "images"
	StageCompleted  = "completed"
	StageFailed     = "failed"
)
