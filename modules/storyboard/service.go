package storyboard

import (
	"context"
	"fmt"
	"log"
	"time"

	"brandframe-server/modules/common/config"
	"brandframe-server/modules/common/database"
	"brandframe-server/modules/common/gemini"
	"brandframe-server/modules/common/model"
)

// ValidationError - 400으로 매핑되는 입력 검증 오류
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ProgressNotifier - 단계 진행 상황을 구독자에게 알림 (websocket 허브 등)
type ProgressNotifier interface {
	NotifyStage(generationID, stage string, payload map[string]interface{})
}

// Service - 스토리보드 파이프라인 오케스트레이터
// started → story_world → script → images → completed 상태 머신을 순차 실행
type Service struct {
	gen      gemini.Generator
	db       *database.Client
	notifier ProgressNotifier
	analyzer *VisualAnalyzer
}

func NewService(gen gemini.Generator, db *database.Client, notifier ProgressNotifier) *Service {
	// 분석기는 서비스 수명과 같이 간다 - 요청을 넘어 동일 에셋 재분석을 캐시로 건너뛴다
	return &Service{
		gen:      gen,
		db:       db,
		notifier: notifier,
		analyzer: NewVisualAnalyzer(gen, config.GetConfig().GeminiVisionModel),
	}
}

// ValidateRequest - 필수 입력 검증. 위반은 즉시 실패, 재시도 없음
func (s *Service) ValidateRequest(req *StoryboardRequest) error {
	if req.Story == "" && !req.Continue {
		return &ValidationError{Message: "Story description is required for storyboard generation."}
	}
	if req.Continue && req.ExistingStoryboard == nil {
		return &ValidationError{Message: "Existing storyboard is required for continuation."}
	}
	return nil
}

// Generate - 파이프라인 전체 실행
func (s *Service) Generate(ctx context.Context, req *StoryboardRequest, generationID string) (*Storyboard, *ResponseMetadata, error) {
	startTime := time.Now()
	cfg := config.GetConfig()

	if err := s.ValidateRequest(req); err != nil {
		return nil, nil, err
	}

	if req.AspectRatio == "" {
		req.AspectRatio = "16:9"
	}
	if req.FrameCount == 0 {
		req.FrameCount = 4
	}

	mainCharacter := req.MainCharacter()
	sceneCount := SceneCountFor(req.FrameCount)

	threshold := cfg.ConsistencyThreshold
	if req.ConsistencyThreshold > 0 {
		threshold = req.ConsistencyThreshold
	}

	s.db.InsertGenerationSession(ctx, map[string]interface{}{
		"id":                          generationID,
		"user_id":                     "default-user",
		"story_description":           fallbackStr(req.Story, "Continuation"),
		"frame_count":                 req.FrameCount,
		"aspect_ratio":                req.AspectRatio,
		"has_logo":                    req.LogoAsset != nil,
		"has_character":               mainCharacter != nil,
		"has_background":              req.BackgroundAsset != nil,
		"has_art_style":               req.ArtStyleAsset != nil,
		"additional_characters_count": len(req.AdditionalCharacterAssets),
		"status":                      model.StageStarted,
	})

	log.Printf("🎨 Generating storyboard %s: scenes=%d, aspectRatio=%s, continue=%v, hasCharacter=%v, validation=%v",
		generationID, sceneCount, req.AspectRatio, req.Continue, mainCharacter != nil, req.ValidationEnabled())

	architect := NewStoryArchitect(s.gen, cfg.GeminiTextModel)

	// 연장 모드: 메타데이터만 반환. 이미지 합성은 호출자가 별도 요청으로 트리거
	if req.Continue {
		scenes, err := architect.ContinueStory(ctx, req.ExistingStoryboard, req.CustomInstruction)
		if err != nil {
			return nil, nil, err
		}
		storyboard := &Storyboard{Scenes: scenes}
		meta := &ResponseMetadata{
			GenerationID:  generationID,
			TotalDuration: time.Since(startTime).Milliseconds(),
		}
		return storyboard, meta, nil
	}

	// 1단계: 스토리월드
	s.notifyStage(generationID, model.StageStoryWorld, nil)
	s.db.UpdateGenerationSession(ctx, generationID, map[string]interface{}{"status": model.StageStoryWorld})

	storyWorldStart := time.Now()
	storyWorld, err := architect.CreateStoryWorld(ctx, req.Story)
	if err != nil {
		return nil, nil, err
	}
	storyWorldDuration := time.Since(storyWorldStart).Milliseconds()

	s.db.LogAgentDecision(ctx, generationID, "story_architect", "story_world_creation",
		map[string]interface{}{"story": req.Story}, storyWorld,
		"Generated comprehensive Story-World blueprint using professional screenplay architecture principles",
		95, storyWorldDuration)
	s.db.UpdateGenerationSession(ctx, generationID, map[string]interface{}{
		"status":                 model.StageScript,
		"story_world_duration_ms": storyWorldDuration,
	})

	// 2단계: 씬 스크립트
	s.notifyStage(generationID, model.StageScript, nil)

	scriptStart := time.Now()
	scenes, err := architect.CreateScenes(ctx, storyWorld, sceneCount)
	if err != nil {
		return nil, nil, err
	}
	scriptDuration := time.Since(scriptStart).Milliseconds()

	s.db.LogAgentDecision(ctx, generationID, "story_architect", "scene_generation",
		map[string]interface{}{"sceneCount": sceneCount},
		map[string]interface{}{"scenesGenerated": len(scenes)},
		fmt.Sprintf("Generated %d professional scenes with Level 9 broadcast quality specifications", len(scenes)),
		90, scriptDuration)
	s.db.UpdateGenerationSession(ctx, generationID, map[string]interface{}{
		"status":             model.StageImages,
		"script_duration_ms": scriptDuration,
	})

	// 3단계: 이미지 - 참조 분석은 요청당 한 번, 씬 루프는 순차
	s.notifyStage(generationID, model.StageImages, map[string]interface{}{"sceneCount": len(scenes)})

	imagesStart := time.Now()

	var characterAnalysis, backgroundAnalysis, artStyleAnalysis *VisualAnalysis
	if mainCharacter != nil {
		a := s.analyzer.Extract(ctx, *mainCharacter, ImageTypeCharacter)
		characterAnalysis = &a
	}
	if req.BackgroundAsset != nil {
		a := s.analyzer.Extract(ctx, *req.BackgroundAsset, ImageTypeBackground)
		backgroundAnalysis = &a
	}
	if req.ArtStyleAsset != nil {
		a := s.analyzer.Extract(ctx, *req.ArtStyleAsset, ImageTypeArtStyle)
		artStyleAnalysis = &a
	}
	mergedAnalysis := MergeAnalyses(characterAnalysis, backgroundAnalysis, artStyleAnalysis)

	validator := NewConsistencyValidator(s.gen, cfg.GeminiVisionModel, threshold, cfg.ConsistencyFailClosed, s.db)
	framegen := NewFrameGenerator(s.gen, cfg.GeminiImageModel, validator, cfg.StoreFrames)

	refs := ReferenceSet{
		Character:            mainCharacter,
		AdditionalCharacters: req.AdditionalCharacterAssets,
		ArtStyle:             req.ArtStyleAsset,
		Background:           req.BackgroundAsset,
		Logo:                 req.LogoAsset,
	}

	totalRegenerations := 0
	for i := range scenes {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("generation cancelled: %w", err)
		}

		position := FramePosition{
			IsFirst: i == 0,
			IsLast:  i == len(scenes)-1,
		}

		regens, err := framegen.GenerateScene(ctx, &scenes[i], mergedAnalysis, refs, req.AspectRatio,
			position, req.CustomInstruction, generationID, req.ValidationEnabled())
		if err != nil {
			return nil, nil, err
		}
		totalRegenerations += regens

		s.notifyStage(generationID, model.StageImages, map[string]interface{}{
			"completedScenes": i + 1,
			"sceneCount":      len(scenes),
		})
	}
	imagesDuration := time.Since(imagesStart).Milliseconds()

	// 4단계: 조립 및 완료 기록
	storyboard := &Storyboard{
		Title:       "Generated Storyboard",
		Scenes:      scenes,
		AspectRatio: req.AspectRatio,
		StoryWorld:  storyWorld,
	}

	totalDuration := time.Since(startTime).Milliseconds()
	s.db.UpdateGenerationSession(ctx, generationID, map[string]interface{}{
		"status":             model.StageCompleted,
		"images_duration_ms": imagesDuration,
		"total_duration_ms":  totalDuration,
		"regeneration_count": totalRegenerations,
		"final_storyboard":   storyboard,
		"completed_at":       time.Now().UTC().Format(time.RFC3339),
	})
	s.notifyStage(generationID, model.StageCompleted, map[string]interface{}{"regenerations": totalRegenerations})

	log.Printf("🏁 Storyboard %s complete: %d scenes, %d regenerations, %dms total",
		generationID, len(scenes), totalRegenerations, totalDuration)

	meta := &ResponseMetadata{
		GenerationID:  generationID,
		TotalDuration: totalDuration,
		Regenerations: totalRegenerations,
	}
	return storyboard, meta, nil
}

func (s *Service) notifyStage(generationID, stage string, payload map[string]interface{}) {
	if s.notifier != nil {
		s.notifier.NotifyStage(generationID, stage, payload)
	}
}
