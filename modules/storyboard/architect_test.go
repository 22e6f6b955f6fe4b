package storyboard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"brandframe-server/modules/common/gemini"
)

func scenesJSON(n int) string {
	scenes := make([]map[string]interface{}, n)
	for i := range scenes {
		scenes[i] = map[string]interface{}{
			"id":         i + 1,
			"title":      fmt.Sprintf("Scene %d", i+1),
			"scriptLine": fmt.Sprintf("Line %d", i+1),
			"veoPrompt":  "cinematic shot",
		}
	}
	out, _ := json.Marshal(map[string]interface{}{"scenes": scenes})
	return string(out)
}

const storyWorldJSON = `{
  "premise": "A detective chases a thief through a rainy city.",
  "theme": "Justice versus survival",
  "structure": {"act1": "Setup", "act2": "Chase", "act3": "Capture", "attractors": ["II", "PP1", "MP", "PP2", "Climax", "Resolution"]},
  "characterBlueprint": "Mid-40s detective, trench coat, weary eyes",
  "coreConflict": {"internal": "Doubt", "external": "The thief"},
  "boundaries": {"spatial": "Neon city", "temporal": "One night", "historical": "Present day", "visual": "Noir"}
}`

func TestCreateStoryWorld(t *testing.T) {
	gen := &fakeGenerator{
		structured: func(model string, parts []gemini.Part) (string, error) {
			if !strings.Contains(promptText(parts), "A detective chases a thief") {
				t.Error("story text should be substituted into the prompt")
			}
			return storyWorldJSON, nil
		},
	}

	architect := NewStoryArchitect(gen, "text-model")
	world, err := architect.CreateStoryWorld(context.Background(), "A detective chases a thief through a rainy city")
	if err != nil {
		t.Fatalf("CreateStoryWorld failed: %v", err)
	}
	if world.Premise == "" {
		t.Error("premise should be populated")
	}
	if len(world.Structure.Attractors) != 6 {
		t.Errorf("expected 6 attractors, got %d", len(world.Structure.Attractors))
	}
}

func TestCreateStoryWorldParseFailureIsFatal(t *testing.T) {
	gen := &fakeGenerator{
		structured: func(model string, parts []gemini.Part) (string, error) {
			return "not json at all", nil
		},
	}

	architect := NewStoryArchitect(gen, "text-model")
	if _, err := architect.CreateStoryWorld(context.Background(), "story"); err == nil {
		t.Fatal("malformed story world response must fail the request")
	}
}

func TestCreateScenesTruncatesNeverPads(t *testing.T) {
	var world StoryWorld
	if err := json.Unmarshal([]byte(storyWorldJSON), &world); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		returned   int
		requested  int
		wantScenes int
	}{
		{"exact", 3, 3, 3},
		{"model returns extra", 5, 2, 2},
		{"model returns fewer", 1, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{
				structured: func(model string, parts []gemini.Part) (string, error) {
					return scenesJSON(tt.returned), nil
				},
			}

			architect := NewStoryArchitect(gen, "text-model")
			scenes, err := architect.CreateScenes(context.Background(), &world, tt.requested)
			if err != nil {
				t.Fatalf("CreateScenes failed: %v", err)
			}
			if len(scenes) != tt.wantScenes {
				t.Errorf("got %d scenes, want %d", len(scenes), tt.wantScenes)
			}
			for i, s := range scenes {
				if s.ID != i+1 {
					t.Errorf("scene %d has id %d, want dense 1-based ids", i, s.ID)
				}
			}
		})
	}
}

func TestContinueStoryAssignsNextID(t *testing.T) {
	existing := &Storyboard{
		Title:       "Generated Storyboard",
		AspectRatio: "16:9",
		Scenes: []Scene{
			{ID: 1, Title: "Opening", ScriptLine: "It begins"},
			{ID: 2, Title: "Chase", ScriptLine: "They run", SubjectIdentity: "Detective", Emotion: "tense", Action: "running", SceneContext: "alley"},
		},
	}

	gen := &fakeGenerator{
		structured: func(model string, parts []gemini.Part) (string, error) {
			text := promptText(parts)
			if !strings.Contains(text, "Chase") {
				t.Error("continuation prompt should reference the last scene")
			}
			return `{"scenes": [{"id": 99, "title": "Aftermath", "scriptLine": "Dust settles",
				"frames": [
					{"id": "3A", "variant": "A", "imageUrl": "placeholder", "metadata": {}},
					{"id": "3B", "variant": "B", "imageUrl": "placeholder", "metadata": {}}
				]}]}`, nil
		},
	}

	architect := NewStoryArchitect(gen, "text-model")
	scenes, err := architect.ContinueStory(context.Background(), existing, "")
	if err != nil {
		t.Fatalf("ContinueStory failed: %v", err)
	}
	if len(scenes) != 1 {
		t.Fatalf("continuation should produce exactly one scene, got %d", len(scenes))
	}
	if scenes[0].ID != 3 {
		t.Errorf("continuation scene id = %d, want lastScene.ID+1 = 3", scenes[0].ID)
	}
	for _, f := range scenes[0].Frames {
		if f.ImageURL != "placeholder" {
			t.Error("continuation frames must be placeholders, image synthesis is the caller's job")
		}
	}
}

func TestContinueStorySynthesizesPseudoStoryWorld(t *testing.T) {
	existing := &Storyboard{
		Scenes: []Scene{
			{ID: 5, Title: "Finale", ScriptLine: "The end nears", SubjectIdentity: "Hero", Emotion: "resolve", Action: "stands firm", SceneContext: "rooftop"},
		},
	}

	gen := &fakeGenerator{
		structured: func(model string, parts []gemini.Part) (string, error) {
			return `{"scenes": [{"id": 6, "title": "Epilogue", "scriptLine": "Peace"}]}`, nil
		},
	}

	architect := NewStoryArchitect(gen, "text-model")
	if _, err := architect.ContinueStory(context.Background(), existing, ""); err != nil {
		t.Fatalf("ContinueStory failed: %v", err)
	}

	world := existing.StoryWorld
	if world == nil {
		t.Fatal("pseudo story world should be synthesized when missing")
	}
	if world.Premise != "The end nears" {
		t.Errorf("pseudo premise = %q, want last scene's scriptLine", world.Premise)
	}
	if world.CharacterBlueprint != "Hero" {
		t.Errorf("pseudo blueprint = %q, want last scene's subjectIdentity", world.CharacterBlueprint)
	}
	if world.Boundaries.Spatial != "rooftop" {
		t.Errorf("pseudo spatial boundary = %q, want last scene's sceneContext", world.Boundaries.Spatial)
	}
}

func TestContinueStoryCustomInstruction(t *testing.T) {
	existing := &Storyboard{Scenes: []Scene{{ID: 1, Title: "One", ScriptLine: "Start"}}}

	var captured string
	gen := &fakeGenerator{
		structured: func(model string, parts []gemini.Part) (string, error) {
			captured = promptText(parts)
			return `{"scenes": [{"id": 2, "title": "Two", "scriptLine": "Next"}]}`, nil
		},
	}

	architect := NewStoryArchitect(gen, "text-model")
	if _, err := architect.ContinueStory(context.Background(), existing, "add a dragon"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(captured, "add a dragon") {
		t.Error("custom instruction should be injected into the continuation prompt")
	}
}
