package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/supabase-community/supabase-go"

	"brandframe-server/modules/common/config"
	"brandframe-server/modules/common/model"
)

// Client - Supabase 감사 로그 / Job 저장소 클라이언트
// Supabase 미설정 시 nil 클라이언트로 동작 (모든 기록은 no-op)
type Client struct {
	supabase *supabase.Client
}

// NewClient - Database 클라이언트 생성
func NewClient() *Client {
	cfg := config.GetConfig()

	if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
		log.Println("⚠️  Supabase not configured, audit persistence disabled")
		return nil
	}

	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		log.Printf("❌ Failed to create Supabase client: %v", err)
		return nil
	}

	return &Client{
		supabase: supabaseClient,
	}
}

// enabled - 기록 가능 여부
func (c *Client) enabled() bool {
	return c != nil && c.supabase != nil
}

// InsertGenerationSession - 파이프라인 시작 시 세션 행 생성 (best-effort)
func (c *Client) InsertGenerationSession(ctx context.Context, fields map[string]interface{}) {
	if !c.enabled() {
		return
	}

	_, _, err := c.supabase.From("generation_sessions").
		Insert(fields, false, "", "", "").
		Execute()

	if err != nil {
		log.Printf("⚠️  Failed to insert generation session: %v", err)
	}
}

// UpdateGenerationSession - 세션 상태/타이밍 업데이트 (best-effort, 롤백 없음)
func (c *Client) UpdateGenerationSession(ctx context.Context, generationID string, fields map[string]interface{}) {
	if !c.enabled() {
		return
	}

	_, _, err := c.supabase.From("generation_sessions").
		Update(fields, "", "").
		Eq("id", generationID).
		Execute()

	if err != nil {
		log.Printf("⚠️  Failed to update generation session %s: %v", generationID, err)
	}
}

// LogAgentDecision - agent_decisions 테이블에 의사결정 기록 (best-effort)
func (c *Client) LogAgentDecision(ctx context.Context, generationID, agentType, decisionType string,
	inputData, outputData interface{}, reasoning string, confidenceScore float64, executionTimeMs int64) {
	if !c.enabled() {
		return
	}

	_, _, err := c.supabase.From("agent_decisions").
		Insert(map[string]interface{}{
			"generation_id":     generationID,
			"agent_type":        agentType,
			"decision_type":     decisionType,
			"input_data":        inputData,
			"output_data":       outputData,
			"reasoning":         reasoning,
			"confidence_score":  confidenceScore,
			"execution_time_ms": executionTimeMs,
		}, false, "", "", "").
		Execute()

	if err != nil {
		log.Printf("⚠️  Failed to log agent decision (%s/%s): %v", agentType, decisionType, err)
	}
}

// InsertConsistencyValidation - consistency_validations 테이블에 검증 결과 기록 (best-effort)
func (c *Client) InsertConsistencyValidation(ctx context.Context, fields map[string]interface{}) {
	if !c.enabled() {
		return
	}

	_, _, err := c.supabase.From("consistency_validations").
		Insert(fields, false, "", "", "").
		Execute()

	if err != nil {
		log.Printf("⚠️  Failed to insert consistency validation: %v", err)
	}
}

// FetchStoryboardJob - storyboard_jobs 테이블에서 Job 데이터 조회
func (c *Client) FetchStoryboardJob(jobID string) (*model.StoryboardJob, error) {
	if !c.enabled() {
		return nil, fmt.Errorf("supabase not configured")
	}

	log.Printf("🔍 Fetching job from Supabase: %s", jobID)

	var jobs []model.StoryboardJob

	data, _, err := c.supabase.From("storyboard_jobs").
		Select("*", "exact", false).
		Eq("job_id", jobID).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query Supabase: %w", err)
	}

	// JSON 파싱
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}

	job := &jobs[0]
	log.Printf("✅ Job fetched successfully: %s (status: %s)", job.JobID, job.JobStatus)

	return job, nil
}

// UpdateJobStatus - Job 상태 업데이트
func (c *Client) UpdateJobStatus(ctx context.Context, jobID string, status string) error {
	if !c.enabled() {
		return fmt.Errorf("supabase not configured")
	}

	log.Printf("📝 Updating job %s status to: %s", jobID, status)

	updateData := map[string]interface{}{
		"job_status": status,
		"updated_at": "now()",
	}

	if status == model.StatusProcessing {
		updateData["started_at"] = "now()"
	} else if status == model.StatusCompleted || status == model.StatusFailed || status == model.StatusUserCancelled {
		updateData["completed_at"] = "now()"
	}

	_, _, err := c.supabase.From("storyboard_jobs").
		Update(updateData, "", "").
		Eq("job_id", jobID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	return nil
}

// UpdateJobResult - Job 결과 기록 (generation_id, 에러 메시지)
func (c *Client) UpdateJobResult(ctx context.Context, jobID string, generationID string, errorMessage string) error {
	if !c.enabled() {
		return fmt.Errorf("supabase not configured")
	}

	updateData := map[string]interface{}{
		"generation_id": generationID,
		"updated_at":    "now()",
	}
	if errorMessage != "" {
		updateData["error_message"] = errorMessage
	}

	_, _, err := c.supabase.From("storyboard_jobs").
		Update(updateData, "", "").
		Eq("job_id", jobID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to update job result: %w", err)
	}

	return nil
}
