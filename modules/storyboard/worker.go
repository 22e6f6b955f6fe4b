package storyboard

import (
	"context"
	"encoding/json"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"brandframe-server/modules/common/database"
	"brandframe-server/modules/common/model"
	"brandframe-server/modules/common/redis"
)

// QueueKey - enqueue 핸들러가 LPUSH하는 큐
const QueueKey = "storyboard:queue"

// Worker - Redis 큐 기반 비동기 스토리보드 생성 워커
type Worker struct {
	rdb     *goredis.Client
	db      *database.Client
	service *Service
}

func NewWorker(rdb *goredis.Client, db *database.Client, service *Service) *Worker {
	return &Worker{rdb: rdb, db: db, service: service}
}

// Start - BRPOP 루프. 고루틴으로 호출
func (w *Worker) Start(ctx context.Context) {
	log.Printf("🔄 Storyboard worker started, listening on %s", QueueKey)

	for {
		select {
		case <-ctx.Done():
			log.Printf("🏁 Storyboard worker stopped")
			return
		default:
		}

		result, err := w.rdb.BRPop(ctx, 5*time.Second, QueueKey).Result()
		if err != nil {
			if err == goredis.Nil {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			log.Printf("❌ BRPOP error: %v", err)
			time.Sleep(3 * time.Second)
			continue
		}

		if len(result) < 2 {
			continue
		}
		jobID := result[1]

		log.Printf("📝 Processing storyboard job: %s", jobID)
		w.processJob(ctx, jobID)
	}
}

func (w *Worker) processJob(ctx context.Context, jobID string) {
	// 처리 시작 전 취소 확인
	if redis.IsJobCancelled(w.rdb, jobID) {
		log.Printf("⚠️ Job %s already cancelled, skipping", jobID)
		w.db.UpdateJobStatus(ctx, jobID, model.StatusUserCancelled)
		return
	}

	job, err := w.db.FetchStoryboardJob(jobID)
	if err != nil {
		log.Printf("❌ Failed to fetch job %s: %v", jobID, err)
		return
	}

	var req StoryboardRequest
	if err := json.Unmarshal(job.JobInputData, &req); err != nil {
		log.Printf("❌ Failed to parse job input data for %s: %v", jobID, err)
		w.db.UpdateJobResult(ctx, jobID, "", "invalid job input data: "+err.Error())
		w.db.UpdateJobStatus(ctx, jobID, model.StatusFailed)
		return
	}

	if err := w.db.UpdateJobStatus(ctx, jobID, model.StatusProcessing); err != nil {
		log.Printf("⚠️ Failed to mark job %s processing: %v", jobID, err)
	}

	// 취소 플래그 폴링 - 감지 시 파이프라인 컨텍스트 취소
	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	cancelled := make(chan struct{})
	go func() {
		ticker := time.NewTicker(3 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-jobCtx.Done():
				return
			case <-ticker.C:
				if redis.IsJobCancelled(w.rdb, jobID) {
					log.Printf("⚠️ Cancellation detected for job %s", jobID)
					close(cancelled)
					cancel()
					return
				}
			}
		}
	}()

	generationID := jobID
	if job.GenerationID != nil && *job.GenerationID != "" {
		generationID = *job.GenerationID
	}

	_, meta, err := w.service.Generate(jobCtx, &req, generationID)
	if err != nil {
		select {
		case <-cancelled:
			log.Printf("⚠️ Job %s cancelled by user", jobID)
			w.db.UpdateJobStatus(ctx, jobID, model.StatusUserCancelled)
		default:
			log.Printf("❌ Job %s failed: %v", jobID, err)
			w.db.UpdateJobResult(ctx, jobID, generationID, err.Error())
			w.db.UpdateJobStatus(ctx, jobID, model.StatusFailed)
		}
		return
	}

	if err := w.db.UpdateJobResult(ctx, jobID, meta.GenerationID, ""); err != nil {
		log.Printf("⚠️ Failed to record job %s result: %v", jobID, err)
	}
	if err := w.db.UpdateJobStatus(ctx, jobID, model.StatusCompleted); err != nil {
		log.Printf("⚠️ Failed to mark job %s completed: %v", jobID, err)
	}
	log.Printf("✅ Job %s completed: generation %s, %d regenerations", jobID, meta.GenerationID, meta.Regenerations)
}
