package storyboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"brandframe-server/modules/common/gemini"
)

// StoryArchitect - 스토리월드/씬 생성 담당
type StoryArchitect struct {
	gen       gemini.Generator
	textModel string
}

func NewStoryArchitect(gen gemini.Generator, textModel string) *StoryArchitect {
	return &StoryArchitect{gen: gen, textModel: textModel}
}

// CreateStoryWorld - 자유 텍스트 전제에서 스토리월드 생성. 파싱 실패는 요청 전체 실패
func (a *StoryArchitect) CreateStoryWorld(ctx context.Context, story string) (*StoryWorld, error) {
	prompt := strings.ReplaceAll(storyArchitectPrompt, "{STORY}", story)

	text, err := a.gen.GenerateStructured(ctx, a.textModel, []gemini.Part{gemini.TextPart(prompt)})
	if err != nil {
		return nil, fmt.Errorf("story world generation failed: %w", err)
	}

	var world StoryWorld
	if err := json.Unmarshal([]byte(text), &world); err != nil {
		return nil, fmt.Errorf("story world JSON parse failed: %w", err)
	}
	if world.Premise == "" {
		return nil, fmt.Errorf("story world response missing premise")
	}

	log.Printf("✅ Story world created: %s", truncateForLog(world.Premise, 80))
	return &world, nil
}

type sceneListResponse struct {
	Scenes []Scene `json:"scenes"`
}

// CreateScenes - 스토리월드 기반으로 정확히 sceneCount개 씬 생성
// 모델이 더 많이 반환하면 잘라내고, 적게 반환하면 그대로 통과 (패딩 없음)
func (a *StoryArchitect) CreateScenes(ctx context.Context, world *StoryWorld, sceneCount int) ([]Scene, error) {
	worldJSON, err := json.Marshal(world)
	if err != nil {
		return nil, fmt.Errorf("story world marshal failed: %w", err)
	}

	prompt := strings.ReplaceAll(professionalScriptPrompt, "{STORY_WORLD}", string(worldJSON))
	prompt = strings.ReplaceAll(prompt, "{SCENE_COUNT}", strconv.Itoa(sceneCount))

	text, err := a.gen.GenerateStructured(ctx, a.textModel, []gemini.Part{gemini.TextPart(prompt)})
	if err != nil {
		return nil, fmt.Errorf("scene generation failed: %w", err)
	}

	var resp sceneListResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, fmt.Errorf("scene JSON parse failed: %w", err)
	}

	scenes := resp.Scenes
	if len(scenes) > sceneCount {
		log.Printf("⚠️ Model returned %d scenes, truncating to %d", len(scenes), sceneCount)
		scenes = scenes[:sceneCount]
	}

	// id를 생성 순서대로 1..n으로 재부여
	for i := range scenes {
		scenes[i].ID = i + 1
	}

	log.Printf("✅ Generated %d scenes", len(scenes))
	return scenes, nil
}

// ContinueStory - 기존 스토리보드를 한 씬 연장. 이미지 합성은 하지 않는다 -
// 반환 씬의 프레임은 placeholder이며 실제 생성은 호출자가 별도로 트리거한다
func (a *StoryArchitect) ContinueStory(ctx context.Context, existing *Storyboard, customInstruction string) ([]Scene, error) {
	if existing == nil || len(existing.Scenes) == 0 {
		return nil, fmt.Errorf("existing storyboard has no scenes to continue from")
	}

	lastScene := existing.Scenes[len(existing.Scenes)-1]
	nextID := lastScene.ID + 1

	// 스토리월드가 유실된 세션은 마지막 씬에서 의사-스토리월드를 합성
	if existing.StoryWorld == nil {
		existing.StoryWorld = pseudoStoryWorld(lastScene)
	}

	instructionBlock := ""
	if customInstruction != "" {
		instructionBlock = fmt.Sprintf("\n\nCUSTOM INSTRUCTION: \"%s\"", customInstruction)
	}

	prompt := fmt.Sprintf(`You are a MASTER SCREENPLAY ARCHITECT. Generate ONE new scene continuing from:

LAST SCENE: "%s" - %s%s

Generate exactly ONE scene with 2 frames (A and B variants) that continues this narrative. The scene should match the visual style and maintain character consistency.

Respond with JSON matching this structure:
{
  "scenes": [{
    "id": %d,
    "title": "Scene Title",
    "scriptLine": "Dialogue or narration",
    "emotion": "Emotional tone",
    "intent": "Character intent",
    "cinematographyFormat": "Camera and format details",
    "subjectIdentity": "Character description",
    "sceneContext": "Location description",
    "action": "Character actions",
    "cameraComposition": "Shot and camera details",
    "styleAmbiance": "Visual style",
    "audioDialogue": "Sound and dialogue",
    "technicalNegative": "Quality negatives",
    "veoPrompt": "Comprehensive prompt",
    "frames": [
      { "id": "%dA", "variant": "A", "imageUrl": "placeholder", "metadata": {} },
      { "id": "%dB", "variant": "B", "imageUrl": "placeholder", "metadata": {} }
    ]
  }]
}`, lastScene.Title, lastScene.ScriptLine, instructionBlock, nextID, nextID, nextID)

	text, err := a.gen.GenerateStructured(ctx, a.textModel, []gemini.Part{gemini.TextPart(prompt)})
	if err != nil {
		return nil, fmt.Errorf("continuation generation failed: %w", err)
	}

	var resp sceneListResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, fmt.Errorf("continuation JSON parse failed: %w", err)
	}
	if len(resp.Scenes) == 0 {
		return nil, fmt.Errorf("continuation response contained no scenes")
	}

	// 모델이 id를 틀려도 계약대로 last+1 강제
	scenes := resp.Scenes[:1]
	scenes[0].ID = nextID
	if len(scenes[0].Frames) == 0 {
		scenes[0].Frames = []Frame{
			{ID: fmt.Sprintf("%dA", nextID), Variant: "A", ImageURL: "placeholder"},
			{ID: fmt.Sprintf("%dB", nextID), Variant: "B", ImageURL: "placeholder"},
		}
	}

	log.Printf("✅ Continuation scene %d created", nextID)
	return scenes, nil
}

// pseudoStoryWorld - 마지막 씬의 필드로 최소한의 스토리월드 복원
func pseudoStoryWorld(lastScene Scene) *StoryWorld {
	world := &StoryWorld{
		Premise:            fallbackStr(lastScene.ScriptLine, "Continuing narrative"),
		Theme:              "Narrative continuation",
		CharacterBlueprint: fallbackStr(lastScene.SubjectIdentity, "Character from previous scene"),
	}
	world.Structure.Act1 = "Setup"
	world.Structure.Act2 = "Confrontation"
	world.Structure.Act3 = "Resolution"
	world.Structure.Attractors = []string{"Continuation"}
	world.CoreConflict.Internal = fallbackStr(lastScene.Emotion, "Emotional state")
	world.CoreConflict.External = fallbackStr(lastScene.Action, "Action")
	world.Boundaries.Spatial = fallbackStr(lastScene.SceneContext, "Same world")
	world.Boundaries.Temporal = "Continuing timeline"
	world.Boundaries.Historical = "Same period"
	world.Boundaries.Visual = "Consistent style"
	return world
}

func fallbackStr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func truncateForLog(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
