package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"brandframe-server/modules/common/config"
	"brandframe-server/modules/common/database"
	"brandframe-server/modules/common/gemini"
	redisutil "brandframe-server/modules/common/redis"
	"brandframe-server/modules/progress"
	"brandframe-server/modules/storyboard"
	"brandframe-server/modules/worker"
	"brandframe-server/modules/youtube"
)

func main() {
	// 환경변수 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Gemini 클라이언트
	geminiClient, err := gemini.NewClient(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to create Gemini client: %v", err)
	}

	// Supabase (미설정 시 감사 기록 비활성)
	db := database.NewClient()

	// 진행 상황 websocket 허브
	hub := progress.NewHub()

	// 파이프라인 서비스
	storyboardService := storyboard.NewService(geminiClient, db, hub)

	// Redis 연결 + 큐 워커 (Redis 미설정 시 동기 API만 동작)
	rdb := redisutil.Connect(cfg)
	if rdb != nil {
		sbWorker := storyboard.NewWorker(rdb, db, storyboardService)
		go sbWorker.Start(ctx)
	} else {
		log.Println("⚠️ Redis unavailable, queue worker disabled")
	}

	// 라우터 설정
	r := mux.NewRouter()

	// CORS 미들웨어 적용
	r.Use(enableCORS)

	// 기본 라우트
	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/metrics", getMetrics(hub)).Methods("GET")

	// 스토리보드 동기 생성
	storyboardHandler := storyboard.NewHandler(storyboardService)
	r.HandleFunc("/api/storyboard", storyboardHandler.GenerateStoryboard).Methods("POST", "OPTIONS")

	// 큐 enqueue / cancel
	if enqueueHandler := worker.NewEnqueueHandler(rdb); enqueueHandler != nil {
		enqueueHandler.RegisterRoutes(r)
	}
	if cancelHandler := worker.NewCancelHandler(rdb, db); cancelHandler != nil {
		cancelHandler.RegisterRoutes(r)
	}

	// 진행 상황 websocket
	progress.NewHandler(hub).RegisterRoutes(r)

	// YouTube 메타데이터 (API 키 미설정 시 비활성)
	if ytHandler := youtube.NewHandler(youtube.NewService(ctx, geminiClient)); ytHandler != nil {
		ytHandler.RegisterRoutes(r)
	}

	log.Printf("🚀 BrandFrame Storyboard Server starting on port %s", cfg.Port)
	log.Printf("🎨 Storyboard endpoint: http://localhost:%s/api/storyboard", cfg.Port)
	log.Printf("📡 Progress WebSocket: ws://localhost:%s/ws/progress/{generationId}", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)
	log.Printf("📊 Metrics: http://localhost:%s/metrics", cfg.Port)

	// 서버 시작
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// CORS 헤더 추가
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// 헬스 체크 엔드포인트
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "brandframe-storyboard",
	})
}

// 서버 메트릭 조회 엔드포인트
func getMetrics(hub *progress.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"server":   "brandframe-storyboard",
			"progress": hub.Snapshot(),
		})
	}
}
