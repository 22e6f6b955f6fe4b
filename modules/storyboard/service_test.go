package storyboard

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"brandframe-server/modules/common/config"
	"brandframe-server/modules/common/gemini"
)

// pipelineGenerator - 프롬프트 내용으로 호출 종류를 구분하는 파이프라인용 fake
// A/B 변형이 동시에 돌기 때문에 카운터는 atomic
type pipelineGenerator struct {
	analysisResponse   string
	validationResponse string
	validationErr      error
	imageErr           error

	analysisCalls   atomic.Int64
	validationCalls atomic.Int64
	imageCalls      atomic.Int64
}

func (p *pipelineGenerator) GenerateStructured(ctx context.Context, model string, parts []gemini.Part) (string, error) {
	text := promptText(parts)
	switch {
	case strings.Contains(text, "Generate ONE new scene continuing from"):
		return `{"scenes": [{"id": 4, "title": "Continued", "scriptLine": "And then...",
			"frames": [
				{"id": "4A", "variant": "A", "imageUrl": "placeholder", "metadata": {}},
				{"id": "4B", "variant": "B", "imageUrl": "placeholder", "metadata": {}}
			]}]}`, nil
	case strings.Contains(text, "MASTER SCREENPLAY ARCHITECT"):
		return storyWorldJSON, nil
	case strings.Contains(text, "LEVEL 9 BROADCAST"):
		return scenesJSON(4), nil
	case strings.Contains(text, "FORENSIC VISUAL ANALYST"):
		p.analysisCalls.Add(1)
		if p.analysisResponse != "" {
			return p.analysisResponse, nil
		}
		return validAnalysisJSON, nil
	case strings.Contains(text, "VISUAL CONSISTENCY VALIDATION AGENT"):
		p.validationCalls.Add(1)
		if p.validationErr != nil {
			return "", p.validationErr
		}
		if p.validationResponse != "" {
			return p.validationResponse, nil
		}
		return scoresJSON(95), nil
	}
	return "", errors.New("unexpected structured call")
}

func (p *pipelineGenerator) GenerateImage(ctx context.Context, model string, parts []gemini.Part, aspectRatio string) (*gemini.GeneratedImage, error) {
	p.imageCalls.Add(1)
	if p.imageErr != nil {
		return nil, p.imageErr
	}
	return &gemini.GeneratedImage{MIMEType: "image/png", Data: []byte("pixels")}, nil
}

func loadTestConfig(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "test-key")
	if _, err := config.LoadConfig(); err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}
}

// 시나리오 A: frameCount=4 → 2씬, 씬당 2프레임, 기본 16:9, 스토리월드 포함
func TestPipelineFullGeneration(t *testing.T) {
	loadTestConfig(t)
	gen := &pipelineGenerator{}
	svc := NewService(gen, nil, nil)

	req := &StoryboardRequest{
		Story:      "A detective chases a thief through a rainy city",
		FrameCount: 4,
	}

	sb, meta, err := svc.Generate(context.Background(), req, "gen-a")
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	if len(sb.Scenes) != 2 {
		t.Errorf("frameCount=4 should yield 2 scenes, got %d", len(sb.Scenes))
	}
	for _, scene := range sb.Scenes {
		if len(scene.Frames) != 2 {
			t.Errorf("scene %d has %d frames, want 2", scene.ID, len(scene.Frames))
		}
	}
	if sb.AspectRatio != "16:9" {
		t.Errorf("aspectRatio default = %q, want 16:9", sb.AspectRatio)
	}
	if sb.StoryWorld == nil || sb.StoryWorld.Premise == "" {
		t.Error("storyboard must embed a story world with non-empty premise")
	}
	if sb.Title != "Generated Storyboard" {
		t.Errorf("storyboard title = %q", sb.Title)
	}
	if meta.GenerationID != "gen-a" {
		t.Errorf("metadata generationId = %q", meta.GenerationID)
	}
	// 캐릭터 에셋 없음 → 분석/검증 호출 없음
	if gen.analysisCalls.Load() != 0 || gen.validationCalls.Load() != 0 {
		t.Error("no reference assets: analyzer and validator must not run")
	}
}

// 시나리오 B: 분석이 전부 빈 값 → 프롬프트 분기 2 (이미지 직접 참조)
func TestPipelineSparseAnalysisUsesImageReference(t *testing.T) {
	loadTestConfig(t)
	character := testAsset()
	gen := &pipelineGenerator{analysisResponse: sparseAnalysisJSON}
	svc := NewService(gen, nil, nil)

	req := &StoryboardRequest{
		Story:              "A lonely robot wakes up",
		FrameCount:         2,
		MainCharacterAsset: &character,
	}

	if _, _, err := svc.Generate(context.Background(), req, "gen-b"); err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	// 빈약한 분석은 재시도 후 fallback (1 + 2 재시도)
	if gen.analysisCalls.Load() != 3 {
		t.Errorf("sparse analysis should retry: got %d analysis calls, want 3", gen.analysisCalls.Load())
	}

	merged := MergeAnalyses(func() *VisualAnalysis { a := fallbackAnalysis(); return &a }(), nil, nil)
	prompt := BuildConsistencyPrompt(merged, "scene", "16:9", true, "")
	if !strings.Contains(prompt, "CHARACTER ANALYSIS DATA UNAVAILABLE") {
		t.Error("unusable analysis with character image must select the direct-reference branch")
	}
}

// 시나리오 B 계속: 분석은 요청당 한 번, 씬마다 반복하지 않음
func TestPipelineAnalyzesReferencesOncePerRequest(t *testing.T) {
	loadTestConfig(t)
	character := testAsset()
	gen := &pipelineGenerator{}
	svc := NewService(gen, nil, nil)

	req := &StoryboardRequest{
		Story:              "Four frames, one analysis",
		FrameCount:         8,
		MainCharacterAsset: &character,
	}

	if _, _, err := svc.Generate(context.Background(), req, "gen-once"); err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	if gen.analysisCalls.Load() != 1 {
		t.Errorf("character analysis should run once per request, got %d calls", gen.analysisCalls.Load())
	}
}

// 분석기는 서비스 스코프 - 같은 에셋으로 두 번 요청해도 분석은 캐시에서 내려온다
func TestPipelineCachesAnalysisAcrossRequests(t *testing.T) {
	loadTestConfig(t)
	character := testAsset()
	gen := &pipelineGenerator{}
	svc := NewService(gen, nil, nil)

	for _, id := range []string{"gen-first", "gen-second"} {
		req := &StoryboardRequest{
			Story:              "Same character, new story",
			FrameCount:         2,
			MainCharacterAsset: &character,
		}
		if _, _, err := svc.Generate(context.Background(), req, id); err != nil {
			t.Fatalf("pipeline failed for %s: %v", id, err)
		}
	}

	if gen.analysisCalls.Load() != 1 {
		t.Errorf("identical asset across requests should hit the analysis cache, got %d calls", gen.analysisCalls.Load())
	}
}

// 시나리오 C: 검증기 전멸 → fail-open으로 프레임 수용, 재생성 0회
func TestPipelineValidatorOutageFailsOpen(t *testing.T) {
	loadTestConfig(t)
	character := testAsset()
	gen := &pipelineGenerator{validationErr: errors.New("validator down")}
	svc := NewService(gen, nil, nil)

	req := &StoryboardRequest{
		Story:              "Validator outage run",
		FrameCount:         2,
		MainCharacterAsset: &character,
	}

	sb, meta, err := svc.Generate(context.Background(), req, "gen-c")
	if err != nil {
		t.Fatalf("fail-open must not fail the pipeline: %v", err)
	}

	if meta.Regenerations != 0 {
		t.Errorf("fail-open acceptance should record 0 regenerations, got %d", meta.Regenerations)
	}
	for _, f := range sb.Scenes[0].Frames {
		if f.ImageURL == "" {
			t.Error("imageUrl must never be empty")
		}
	}
	// 변형당 1회 시도만 필요
	if gen.imageCalls.Load() != 2 {
		t.Errorf("fail-open should accept first attempts, got %d image calls", gen.imageCalls.Load())
	}
}

// 검증 불합격이 재생성 예산을 소모하는 경로
func TestPipelineCountsValidationRegenerations(t *testing.T) {
	loadTestConfig(t)
	character := testAsset()
	gen := &pipelineGenerator{validationResponse: scoresJSON(10)}
	svc := NewService(gen, nil, nil)

	req := &StoryboardRequest{
		Story:              "Strict validation run",
		FrameCount:         2,
		MainCharacterAsset: &character,
	}

	_, meta, err := svc.Generate(context.Background(), req, "gen-regen")
	if err != nil {
		t.Fatal(err)
	}

	// 1씬 × 2변형 × (3시도 중 2회 재생성)
	if meta.Regenerations != 4 {
		t.Errorf("regenerations = %d, want 4", meta.Regenerations)
	}
}

// 시나리오 D: continue=true는 story 없이 허용, 메타데이터만 반환
func TestPipelineContinuation(t *testing.T) {
	loadTestConfig(t)
	gen := &pipelineGenerator{}
	svc := NewService(gen, nil, nil)

	existing := &Storyboard{
		Scenes: []Scene{
			{ID: 3, Title: "Last", ScriptLine: "The chase ends"},
		},
	}
	req := &StoryboardRequest{
		Continue:           true,
		ExistingStoryboard: existing,
	}

	sb, _, err := svc.Generate(context.Background(), req, "gen-d")
	if err != nil {
		t.Fatalf("continuation without story must be accepted: %v", err)
	}

	if len(sb.Scenes) != 1 {
		t.Fatalf("continuation should return exactly one scene, got %d", len(sb.Scenes))
	}
	if sb.Scenes[0].ID != 4 {
		t.Errorf("continuation scene id = %d, want 4", sb.Scenes[0].ID)
	}
	for _, f := range sb.Scenes[0].Frames {
		if f.ImageURL != "placeholder" {
			t.Error("continuation returns metadata only, frames stay placeholders")
		}
	}
	if gen.imageCalls.Load() != 0 {
		t.Error("continuation must not invoke image generation")
	}
}

func TestValidateRequest(t *testing.T) {
	loadTestConfig(t)
	svc := NewService(&pipelineGenerator{}, nil, nil)

	tests := []struct {
		name    string
		req     StoryboardRequest
		wantErr bool
	}{
		{"story present", StoryboardRequest{Story: "tale"}, false},
		{"missing story", StoryboardRequest{}, true},
		{"continue without existing", StoryboardRequest{Continue: true}, true},
		{"continue with existing", StoryboardRequest{Continue: true, ExistingStoryboard: &Storyboard{Scenes: []Scene{{ID: 1}}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateRequest(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Error("validation failures must be ValidationError for 400 mapping")
				}
			}
		})
	}
}
