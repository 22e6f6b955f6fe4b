package storyboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"brandframe-server/modules/common/database"
	"brandframe-server/modules/common/gemini"
	"brandframe-server/modules/common/utils"
)

// ValidationContext - 감사 로그용 컨텍스트
type ValidationContext struct {
	GenerationID string
	SceneID      int
	FrameVariant string
}

// ConsistencyValidator - 생성 프레임과 참조 이미지의 시각 일관성 채점
type ConsistencyValidator struct {
	gen         gemini.Generator
	visionModel string
	threshold   int
	failClosed  bool
	db          *database.Client
}

func NewConsistencyValidator(gen gemini.Generator, visionModel string, threshold int, failClosed bool, db *database.Client) *ConsistencyValidator {
	return &ConsistencyValidator{
		gen:         gen,
		visionModel: visionModel,
		threshold:   threshold,
		failClosed:  failClosed,
		db:          db,
	}
}

func (v *ConsistencyValidator) Threshold() int {
	return v.threshold
}

// Validate - 5개 항목 채점 후 기준점과 비교
// 검증기 내부 오류는 기본적으로 fail-open (passed=true, 전 항목 50점)
func (v *ConsistencyValidator) Validate(ctx context.Context, generatedImage *gemini.GeneratedImage, reference Base64Asset, referenceType string, vctx ValidationContext) ConsistencyValidationResult {
	startTime := time.Now()

	result, err := v.score(ctx, generatedImage, reference, referenceType)
	if err != nil {
		log.Printf("❌ Consistency validation error for scene %d%s: %v", vctx.SceneID, vctx.FrameVariant, err)
		if v.failClosed {
			result = ConsistencyValidationResult{
				Passed:   false,
				Feedback: "Validation failed, rejecting frame (fail-closed policy)",
			}
		} else {
			result = ConsistencyValidationResult{
				Passed:                 true,
				OverallScore:           50,
				CharacterIdentityScore: 50,
				ArtStyleScore:          50,
				ColorPaletteScore:      50,
				LightingScore:          50,
				CompositionScore:       50,
				Feedback:               "Validation failed, defaulting to pass",
			}
		}
		return result
	}

	executionMs := time.Since(startTime).Milliseconds()

	// 감사 기록은 best-effort - 실패해도 파이프라인을 막지 않는다
	if v.db != nil {
		v.db.InsertConsistencyValidation(ctx, map[string]interface{}{
			"generation_id":            vctx.GenerationID,
			"scene_id":                 fmt.Sprintf("%d", vctx.SceneID),
			"frame_variant":            vctx.FrameVariant,
			"reference_type":           referenceType,
			"consistency_score":        result.OverallScore,
			"character_identity_score": result.CharacterIdentityScore,
			"art_style_score":          result.ArtStyleScore,
			"color_palette_score":      result.ColorPaletteScore,
			"lighting_score":           result.LightingScore,
			"composition_score":        result.CompositionScore,
			"validation_passed":        result.Passed,
			"threshold_used":           v.threshold,
			"validation_notes":         result.Feedback,
		})

		verdict := "FAILED"
		if result.Passed {
			verdict = "PASSED"
		}
		v.db.LogAgentDecision(ctx, vctx.GenerationID, "consistency_validator", "visual_consistency",
			map[string]interface{}{"referenceType": referenceType, "sceneId": vctx.SceneID, "frameVariant": vctx.FrameVariant},
			map[string]interface{}{"passed": result.Passed, "overallScore": result.OverallScore},
			fmt.Sprintf("Consistency validation %s with score %d/100", verdict, result.OverallScore),
			float64(result.OverallScore), executionMs)
	}

	return result
}

func (v *ConsistencyValidator) score(ctx context.Context, generated *gemini.GeneratedImage, reference Base64Asset, referenceType string) (ConsistencyValidationResult, error) {
	referenceData, err := utils.DecodeBase64Image(reference.Data)
	if err != nil {
		return ConsistencyValidationResult{}, fmt.Errorf("reference image decode failed: %w", err)
	}

	prompt := strings.ReplaceAll(consistencyValidationPrompt, "{REFERENCE_TYPE}", referenceType)

	parts := []gemini.Part{
		gemini.TextPart(prompt),
		gemini.TextPart("[GENERATED IMAGE]:"),
		gemini.ImagePart(generated.MIMEType, generated.Data),
		gemini.TextPart("[REFERENCE IMAGE]:"),
		gemini.ImagePart(reference.MimeType, referenceData),
	}

	text, err := v.gen.GenerateStructured(ctx, v.visionModel, parts)
	if err != nil {
		return ConsistencyValidationResult{}, err
	}

	var scores struct {
		CharacterIdentityScore int    `json:"characterIdentityScore"`
		ArtStyleScore          int    `json:"artStyleScore"`
		ColorPaletteScore      int    `json:"colorPaletteScore"`
		LightingScore          int    `json:"lightingScore"`
		CompositionScore       int    `json:"compositionScore"`
		OverallScore           int    `json:"overallScore"`
		Feedback               string `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(text), &scores); err != nil {
		return ConsistencyValidationResult{}, fmt.Errorf("validation JSON parse failed: %w", err)
	}

	feedback := scores.Feedback
	if feedback == "" {
		feedback = "No feedback provided"
	}

	return ConsistencyValidationResult{
		Passed:                 scores.OverallScore >= v.threshold,
		OverallScore:           scores.OverallScore,
		CharacterIdentityScore: scores.CharacterIdentityScore,
		ArtStyleScore:          scores.ArtStyleScore,
		ColorPaletteScore:      scores.ColorPaletteScore,
		LightingScore:          scores.LightingScore,
		CompositionScore:       scores.CompositionScore,
		Feedback:               feedback,
	}, nil
}
