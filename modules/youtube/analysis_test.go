package youtube

import (
	"context"
	"strings"
	"testing"

	"brandframe-server/modules/common/gemini"
)

// scriptedGenerator - 고정 응답을 돌려주는 텍스트 생성기
type scriptedGenerator struct {
	response string
	err      error
}

func (g *scriptedGenerator) GenerateStructured(ctx context.Context, model string, parts []gemini.Part) (string, error) {
	return g.response, g.err
}

func (g *scriptedGenerator) GenerateImage(ctx context.Context, model string, parts []gemini.Part, aspectRatio string) (*gemini.GeneratedImage, error) {
	return nil, nil
}

const sampleSRT = `1
00:00:01,000 --> 00:00:04,500
Welcome to the <b>channel</b>

2
00:00:10,500 --> 00:00:12,000
Today we build a storyboard

broken block

3
00:01:02,250 --> 00:01:05,000
<i>Thanks for watching</i>
`

func TestParseSRT(t *testing.T) {
	captions := parseSRT(sampleSRT)

	if len(captions) != 3 {
		t.Fatalf("parseSRT returned %d captions, want 3", len(captions))
	}
	if captions[0].Start != 1.0 || captions[0].End != 4.5 {
		t.Errorf("caption 0 timing = %v-%v, want 1-4.5", captions[0].Start, captions[0].End)
	}
	if captions[0].Text != "Welcome to the channel" {
		t.Errorf("caption 0 text = %q, HTML tags should be stripped", captions[0].Text)
	}
	if captions[1].Start != 10.5 {
		t.Errorf("caption 1 start = %v, want 10.5", captions[1].Start)
	}
	if captions[2].Start != 62.25 {
		t.Errorf("caption 2 start = %v, want 62.25", captions[2].Start)
	}
	if captions[2].Text != "Thanks for watching" {
		t.Errorf("caption 2 text = %q", captions[2].Text)
	}
}

func TestExtractScript(t *testing.T) {
	captions := parseSRT(sampleSRT)
	script := extractScript(captions)

	want := "Welcome to the channel Today we build a storyboard Thanks for watching"
	if script != want {
		t.Errorf("extractScript = %q, want %q", script, want)
	}
	if extractScript(nil) != "" {
		t.Error("extractScript(nil) should be empty")
	}
}

func TestExtractJSON(t *testing.T) {
	text := "Here is the analysis:\n```json\n{\"script\": \"hello\"}\n```\nDone."
	got := extractJSON(text)
	if got != `{"script": "hello"}` {
		t.Errorf("extractJSON = %q", got)
	}
	if extractJSON("no json here") != "no json here" {
		t.Error("extractJSON without braces should return input unchanged")
	}
}

func TestAnalyzeScriptParsesModelResponse(t *testing.T) {
	gen := &scriptedGenerator{response: `Analysis below.
{
  "script": "full script",
  "keyMoments": [{"timestamp": 5, "description": "opening shot", "thumbnail": ""}],
  "detectedCharacters": [{"description": "host", "appearance": "red jacket", "frequency": 12}],
  "detectedBackgrounds": [{"description": "studio", "style": "minimal", "frequency": 8}],
  "visualStyle": {"dominantColors": ["#FF0000"], "composition": "centered", "lighting": "soft"},
  "suggestedStoryboard": {"scenes": [
    {"title": "Intro", "scriptLine": "Welcome", "timestamp": 0, "thumbnail": "", "framePosition": ""},
    {"title": "Build", "scriptLine": "Today we build", "timestamp": 10, "thumbnail": "", "framePosition": ""},
    {"title": "Outro", "scriptLine": "Thanks", "timestamp": 62, "thumbnail": "", "framePosition": ""}
  ]}
}`}
	svc := &Service{gen: gen, textModel: "test-model"}

	captions := parseSRT(sampleSRT)
	analysis, err := svc.analyzeScript(context.Background(), "Title", "Description", extractScript(captions), captions, "https://thumb/hq.jpg")
	if err != nil {
		t.Fatalf("analyzeScript failed: %v", err)
	}

	if analysis.Script != "full script" {
		t.Errorf("script = %q", analysis.Script)
	}
	if len(analysis.DetectedCharacters) != 1 || analysis.DetectedCharacters[0].Appearance != "red jacket" {
		t.Errorf("detectedCharacters = %+v", analysis.DetectedCharacters)
	}
	if analysis.KeyMoments[0].Thumbnail != "https://thumb/hq.jpg" {
		t.Error("empty key moment thumbnail should be filled with the video thumbnail")
	}

	scenes := analysis.SuggestedStoryboard.Scenes
	if len(scenes) != 3 {
		t.Fatalf("got %d scenes, want 3", len(scenes))
	}
	wantPositions := []string{"first", "middle", "last"}
	for i, want := range wantPositions {
		if scenes[i].FramePosition != want {
			t.Errorf("scene %d framePosition = %q, want %q", i, scenes[i].FramePosition, want)
		}
		if scenes[i].Thumbnail != "https://thumb/hq.jpg" {
			t.Errorf("scene %d thumbnail should be filled", i)
		}
	}
}

func TestAnalyzeScriptFallsBackOnUnparseableResponse(t *testing.T) {
	gen := &scriptedGenerator{response: "I cannot produce JSON for this video."}
	svc := &Service{gen: gen, textModel: "test-model"}

	captions := parseSRT(sampleSRT)
	script := extractScript(captions)
	analysis, err := svc.analyzeScript(context.Background(), "Title", "Description", script, captions, "https://thumb/hq.jpg")
	if err != nil {
		t.Fatalf("analyzeScript should fall back, not fail: %v", err)
	}

	if analysis.Script != script {
		t.Errorf("fallback script = %q, want the caption script", analysis.Script)
	}
	if len(analysis.KeyMoments) != 3 {
		t.Errorf("fallback keyMoments = %d, want one per caption", len(analysis.KeyMoments))
	}
	if len(analysis.SuggestedStoryboard.Scenes) != 3 {
		t.Errorf("fallback scenes = %d, want one per caption", len(analysis.SuggestedStoryboard.Scenes))
	}
	if analysis.SuggestedStoryboard.Scenes[0].Title != "Scene 1" {
		t.Errorf("fallback scene title = %q", analysis.SuggestedStoryboard.Scenes[0].Title)
	}
	if len(analysis.VisualStyle.DominantColors) != 2 {
		t.Errorf("fallback visual style = %+v", analysis.VisualStyle)
	}
	if analysis.SuggestedStoryboard.Scenes[2].FramePosition != "last" {
		t.Error("fallback scenes should get positional framePosition values")
	}
}

func TestFallbackVideoAnalysisCapsLists(t *testing.T) {
	captions := make([]Caption, 20)
	for i := range captions {
		captions[i] = Caption{Start: float64(i), Text: strings.Repeat("x", 150)}
	}

	analysis := fallbackVideoAnalysis("script", "desc", captions, "thumb")
	if len(analysis.KeyMoments) != 8 {
		t.Errorf("keyMoments = %d, want capped at 8", len(analysis.KeyMoments))
	}
	if len(analysis.SuggestedStoryboard.Scenes) != 6 {
		t.Errorf("scenes = %d, want capped at 6", len(analysis.SuggestedStoryboard.Scenes))
	}
	if len(analysis.KeyMoments[0].Description) != 100 {
		t.Errorf("moment description length = %d, want truncated to 100", len(analysis.KeyMoments[0].Description))
	}
}
