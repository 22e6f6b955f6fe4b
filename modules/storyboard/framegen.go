package storyboard

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"brandframe-server/modules/common/gemini"
	"brandframe-server/modules/common/storage"
	"brandframe-server/modules/common/utils"
)

const frameMaxRetries = 3

// ReferenceSet - 한 요청에서 씬 전체가 공유하는 참조 이미지 묶음
type ReferenceSet struct {
	Character            *Base64Asset
	AdditionalCharacters []Base64Asset
	ArtStyle             *Base64Asset
	Background           *Base64Asset
	Logo                 *Base64Asset
}

// FramePosition - 첫/마지막 씬 여부 (프롬프트 서문용)
type FramePosition struct {
	IsFirst bool
	IsLast  bool
}

// FrameGenerator - 씬당 A/B 프레임 두 장을 생성하고 일관성 검증을 돌린다
type FrameGenerator struct {
	gen         gemini.Generator
	imageModel  string
	validator   *ConsistencyValidator
	storeFrames bool
}

func NewFrameGenerator(gen gemini.Generator, imageModel string, validator *ConsistencyValidator, storeFrames bool) *FrameGenerator {
	return &FrameGenerator{
		gen:         gen,
		imageModel:  imageModel,
		validator:   validator,
		storeFrames: storeFrames,
	}
}

// GenerateScene - scene.Frames를 채우고 검증 재생성 횟수를 반환
// A/B 변형은 동일 입력을 공유하는 독립 호출이라 동시에 실행한다
func (g *FrameGenerator) GenerateScene(
	ctx context.Context,
	scene *Scene,
	analysis VisualAnalysis,
	refs ReferenceSet,
	aspectRatio string,
	position FramePosition,
	customInstruction string,
	generationID string,
	validationEnabled bool,
) (int, error) {
	baseParts := g.buildReferenceParts(refs)

	sceneDescription := g.sceneDescription(scene, position)

	var regenerations atomic.Int64
	eg, egCtx := errgroup.WithContext(ctx)
	urls := [2]string{}

	for i, variant := range []string{"A", "B"} {
		i, variant := i, variant
		eg.Go(func() error {
			// 변형 태그를 씬 설명에 포함 - 프롬프트 말미의 A/B 안내문이 변형에 맞춰진다
			variantDescription := fmt.Sprintf("%s\n\n[VARIANT: Frame %s]", sceneDescription, variant)
			prompt := BuildConsistencyPrompt(analysis, variantDescription, aspectRatio, refs.Character != nil, customInstruction)

			parts := make([]gemini.Part, len(baseParts), len(baseParts)+1)
			copy(parts, baseParts)
			parts = append(parts, gemini.TextPart(prompt))

			url, regens := g.generateFrame(egCtx, scene.ID, variant, parts, aspectRatio, refs, generationID, validationEnabled)
			regenerations.Add(int64(regens))
			urls[i] = url
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return int(regenerations.Load()), err
	}

	scene.Frames = []Frame{
		g.buildFrame(scene, "A", urls[0]),
		g.buildFrame(scene, "B", urls[1]),
	}

	return int(regenerations.Load()), nil
}

// buildReferenceParts - 참조 이미지를 우선순위 순서로 배치
// 캐릭터를 맨 앞에 둔다: 멀티모달 모델은 앞쪽 컨텍스트에 더 큰 가중치를 준다
func (g *FrameGenerator) buildReferenceParts(refs ReferenceSet) []gemini.Part {
	var parts []gemini.Part

	appendImage := func(label string, asset *Base64Asset) {
		data, err := utils.DecodeBase64Image(asset.Data)
		if err != nil {
			log.Printf("⚠️ Failed to decode reference image, skipping: %v", err)
			return
		}
		parts = append(parts, gemini.TextPart(label), gemini.ImagePart(asset.MimeType, data))
	}

	if refs.Character != nil {
		appendImage("[MAIN CHARACTER REFERENCE] This character MUST appear EXACTLY as shown - preserve ALL identifying features:", refs.Character)
	}
	for idx := range refs.AdditionalCharacters {
		appendImage(fmt.Sprintf("[CHARACTER %d REFERENCE] Preserve character identity:", idx+2), &refs.AdditionalCharacters[idx])
	}
	if refs.ArtStyle != nil {
		appendImage("[ART STYLE REFERENCE] Match this art style EXACTLY:", refs.ArtStyle)
	}
	if refs.Background != nil {
		appendImage("[BACKGROUND REFERENCE] Use this environment PRECISELY:", refs.Background)
	}
	if refs.Logo != nil {
		appendImage("[LOGO] Incorporate subtly in composition:", refs.Logo)
	}

	return parts
}

func (g *FrameGenerator) sceneDescription(scene *Scene, position FramePosition) string {
	desc := scene.VeoPrompt
	if desc == "" {
		desc = scene.SceneContext
	}
	desc = fmt.Sprintf("\"%s\".\n\nSCENE SPECIFICATIONS:\n%s", scene.ScriptLine, desc)

	if position.IsFirst {
		desc = FirstFrameMarker + " " + desc
	} else if position.IsLast {
		desc = LastFrameMarker + " " + desc
	}
	return desc
}

// generateFrame - 최대 frameMaxRetries회 시도. 기술 실패와 검증 실패가 같은 예산을 공유한다
// 예산 소진 시 실패 대신 placeholder 이미지 반환 - 프레임 하나가 전체 스토리보드를 막지 않는다
func (g *FrameGenerator) generateFrame(
	ctx context.Context,
	sceneID int,
	variant string,
	parts []gemini.Part,
	aspectRatio string,
	refs ReferenceSet,
	generationID string,
	validationEnabled bool,
) (string, int) {
	regenerations := 0

	for attempt := 0; attempt < frameMaxRetries; attempt++ {
		generated, err := g.gen.GenerateImage(ctx, g.imageModel, parts, aspectRatio)
		if err != nil {
			log.Printf("❌ Frame generation error for scene %d%s (attempt %d/%d): %v", sceneID, variant, attempt+1, frameMaxRetries, err)
			if attempt == frameMaxRetries-1 {
				return utils.ErrorPlaceholderDataURI, regenerations
			}
			continue
		}

		if validationEnabled && refs.Character != nil && g.validator != nil {
			validation := g.validator.Validate(ctx, generated, *refs.Character, ImageTypeCharacter, ValidationContext{
				GenerationID: generationID,
				SceneID:      sceneID,
				FrameVariant: variant,
			})

			if !validation.Passed && attempt < frameMaxRetries-1 {
				log.Printf("🔄 Frame %d%s failed consistency (score: %d < %d), regenerating...",
					sceneID, variant, validation.OverallScore, g.validator.Threshold())
				regenerations++
				continue
			}

			log.Printf("✅ Frame %d%s consistency: %d/100", sceneID, variant, validation.OverallScore)
		}

		imageURL := utils.BuildDataURI(generated.MIMEType, generated.Data)

		// Storage 업로드는 부수 작업 - 실패해도 data URI가 응답에 남는다
		if g.storeFrames {
			go func(data []byte) {
				if _, err := storage.UploadFrameImage(generationID, sceneID, variant, data); err != nil {
					log.Printf("⚠️ Frame storage upload failed for %d%s: %v", sceneID, variant, err)
				}
			}(generated.Data)
		}

		return imageURL, regenerations
	}

	return utils.ErrorPlaceholderDataURI, regenerations
}

func (g *FrameGenerator) buildFrame(scene *Scene, variant, imageURL string) Frame {
	composition := scene.CameraComposition
	if composition == "" {
		emotion := scene.Emotion
		if emotion == "" {
			emotion = "cinematic"
		}
		composition = fmt.Sprintf("Professional %s composition", emotion)
	}
	lighting := scene.StyleAmbiance
	if lighting == "" {
		lighting = "Cinematic lighting"
	}
	camera := scene.CameraComposition
	if camera == "" {
		camera = "Professional cinematography"
	}

	return Frame{
		ID:       fmt.Sprintf("%d%s", scene.ID, variant),
		Variant:  variant,
		ImageURL: imageURL,
		Metadata: FrameMetadata{
			Composition: composition,
			Palette:     defaultPalette,
			Lighting:    lighting,
			Camera:      camera,
		},
	}
}
