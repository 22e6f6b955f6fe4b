package storyboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/patrickmn/go-cache"

	"brandframe-server/modules/common/gemini"
	"brandframe-server/modules/common/utils"
)

// VisualAnalyzer - 참조 이미지에서 구조화된 시각 정보를 추출
type VisualAnalyzer struct {
	gen         gemini.Generator
	visionModel string
	cache       *cache.Cache
	sleep       func(ctx context.Context, d time.Duration)
}

func NewVisualAnalyzer(gen gemini.Generator, visionModel string) *VisualAnalyzer {
	return &VisualAnalyzer{
		gen:         gen,
		visionModel: visionModel,
		cache:       cache.New(30*time.Minute, 10*time.Minute),
		sleep:       ctxSleep,
	}
}

func ctxSleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// Extract - 이미지 1장 분석. 실패/빈약한 결과는 최대 2회 재시도 후 fallback 반환
func (a *VisualAnalyzer) Extract(ctx context.Context, asset Base64Asset, imageType string) VisualAnalysis {
	imageData, err := utils.DecodeBase64Image(asset.Data)
	if err != nil {
		log.Printf("❌ Failed to decode %s reference image: %v", imageType, err)
		return fallbackAnalysis()
	}

	// 동일 에셋 재분석 방지
	cacheKey := fmt.Sprintf("%s:%s", imageType, utils.AssetFingerprint(imageData))
	if cached, found := a.cache.Get(cacheKey); found {
		log.Printf("🔍 Visual analysis cache hit for %s", imageType)
		return cached.(VisualAnalysis)
	}

	const maxRetries = 2
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			a.sleep(ctx, time.Duration(attempt)*time.Second)
		}

		analysis, err := a.extractOnce(ctx, imageData, asset.MimeType)
		if err != nil {
			log.Printf("⚠️ Visual analysis failed for %s (attempt %d/%d): %v", imageType, attempt+1, maxRetries+1, err)
			continue
		}

		normalizeAnalysis(&analysis)

		if !isValidAnalysis(analysis, imageType) {
			log.Printf("⚠️ Visual analysis too sparse for %s (attempt %d/%d), retrying...", imageType, attempt+1, maxRetries+1)
			continue
		}

		log.Printf("✅ Visual analysis complete for %s", imageType)
		a.cache.Set(cacheKey, analysis, cache.DefaultExpiration)
		return analysis
	}

	log.Printf("❌ All visual analysis attempts exhausted for %s, using fallback", imageType)
	return fallbackAnalysis()
}

func (a *VisualAnalyzer) extractOnce(ctx context.Context, imageData []byte, mimeType string) (VisualAnalysis, error) {
	parts := []gemini.Part{
		gemini.TextPart(visualAnalysisPrompt),
		gemini.ImagePart(mimeType, imageData),
	}

	text, err := a.gen.GenerateStructured(ctx, a.visionModel, parts)
	if err != nil {
		return VisualAnalysis{}, err
	}

	var analysis VisualAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return VisualAnalysis{}, fmt.Errorf("analysis JSON parse failed: %w", err)
	}
	return analysis, nil
}

// isValidAnalysis - 분석 결과가 사용할 만큼 채워졌는지 판정
// character: 4개 신호 중 최소 2개 / background,art_style: 배경 또는 조명 중 하나
func isValidAnalysis(analysis VisualAnalysis, imageType string) bool {
	if imageType == ImageTypeCharacter {
		validCount := 0
		if len(analysis.Character.Clothing) > 0 {
			validCount++
		}
		if known(analysis.Character.Hairstyle) {
			validCount++
		}
		if len(analysis.Character.FacialFeatures) > 0 {
			validCount++
		}
		if known(analysis.Character.BodyType) {
			validCount++
		}
		return validCount >= 2
	}

	return known(analysis.Environment.Background) || known(analysis.Environment.Lighting)
}

func known(s string) bool {
	return s != "" && s != "Unknown"
}

// normalizeAnalysis - 빈 문자열을 "Unknown" 센티넬로 통일
func normalizeAnalysis(a *VisualAnalysis) {
	for _, field := range []*string{
		&a.Character.Hairstyle, &a.Character.BodyType, &a.Character.Pose,
		&a.Environment.Background, &a.Environment.Lighting, &a.Environment.Atmosphere,
		&a.Technical.CameraAngle, &a.Technical.Composition, &a.Technical.Depth,
	} {
		if *field == "" {
			*field = "Unknown"
		}
	}
}

// fallbackAnalysis - 추출 불가 시 반환하는 전부-Unknown 분석
func fallbackAnalysis() VisualAnalysis {
	return VisualAnalysis{
		Character: CharacterAnalysis{
			Clothing:       []string{},
			Accessories:    []string{},
			Hairstyle:      "Unknown",
			FacialFeatures: []string{},
			BodyType:       "Unknown",
			Pose:           "Unknown",
		},
		Environment: EnvironmentAnalysis{
			Background:   "Unknown",
			Architecture: []string{},
			Lighting:     "Unknown",
			ColorPalette: []string{},
			Atmosphere:   "Unknown",
			Props:        []string{},
		},
		Technical: TechnicalAnalysis{
			CameraAngle: "Unknown",
			Composition: "Unknown",
			Depth:       "Unknown",
		},
	}
}

// MergeAnalyses - 캐릭터/배경/아트스타일 분석을 하나로 병합
// 캐릭터 섹션은 캐릭터 분석에서, 환경은 배경 분석 우선, 기술은 아트스타일 우선
func MergeAnalyses(character, background, artStyle *VisualAnalysis) VisualAnalysis {
	merged := fallbackAnalysis()

	if character != nil {
		merged.Character = character.Character
		merged.Technical = character.Technical
	}
	if background != nil {
		merged.Environment = background.Environment
	}
	if artStyle != nil {
		if !known(merged.Environment.Lighting) {
			merged.Environment.Lighting = artStyle.Environment.Lighting
		}
		if len(merged.Environment.ColorPalette) == 0 {
			merged.Environment.ColorPalette = artStyle.Environment.ColorPalette
		}
		if !known(merged.Technical.Composition) {
			merged.Technical = artStyle.Technical
		}
	}
	if character == nil && background == nil && artStyle != nil {
		merged.Environment = artStyle.Environment
	}

	return merged
}
