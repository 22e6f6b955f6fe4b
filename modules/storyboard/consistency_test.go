package storyboard

import (
	"strings"
	"testing"
)

func TestPromptNeverEmitsRawFrameMarkers(t *testing.T) {
	analysis := fallbackAnalysis()

	for _, marker := range []string{FirstFrameMarker, LastFrameMarker} {
		desc := marker + " A detective stands in the rain."
		prompt := BuildConsistencyPrompt(analysis, desc, "16:9", false, "")

		if strings.Contains(prompt, marker) {
			t.Errorf("prompt must not contain raw marker %q", marker)
		}
		if !strings.Contains(prompt, "A detective stands in the rain.") {
			t.Error("scene description should survive marker stripping")
		}
	}
}

func TestPromptFramePositionPreamble(t *testing.T) {
	analysis := fallbackAnalysis()

	first := BuildConsistencyPrompt(analysis, FirstFrameMarker+" opening scene", "16:9", false, "")
	if !strings.Contains(first, "[FRAME POSITION: OPENING SHOT]") {
		t.Error("first-frame marker should render the opening preamble")
	}
	if !strings.Contains(first, "opening hook") {
		t.Error("opening preamble should carry the semantic guidance")
	}

	last := BuildConsistencyPrompt(analysis, LastFrameMarker+" closing scene", "16:9", false, "")
	if !strings.Contains(last, "[FRAME POSITION: CLOSING SHOT]") {
		t.Error("last-frame marker should render the closing preamble")
	}

	middle := BuildConsistencyPrompt(analysis, "middle scene", "16:9", false, "")
	if strings.Contains(middle, "[FRAME POSITION:") {
		t.Error("unmarked scenes should have no frame-position preamble")
	}
}

func TestPromptCharacterBranchSelection(t *testing.T) {
	// 분기 1: 분석 데이터가 있으면 항목별 제약
	rich := fallbackAnalysis()
	rich.Character.Clothing = []string{"red coat"}
	prompt := BuildConsistencyPrompt(rich, "scene", "16:9", true, "")
	if !strings.Contains(prompt, "red coat") {
		t.Error("branch 1 should itemize the analyzed clothing")
	}
	if strings.Contains(prompt, "CHARACTER ANALYSIS DATA UNAVAILABLE") {
		t.Error("branch 1 should not render the direct-reference fallback")
	}

	// 분기 2: 데이터 없음 + 캐릭터 이미지 있음 → 이미지 직접 참조
	prompt = BuildConsistencyPrompt(fallbackAnalysis(), "scene", "16:9", true, "")
	if !strings.Contains(prompt, "CHARACTER ANALYSIS DATA UNAVAILABLE") {
		t.Error("branch 2 should state that analysis data is unavailable")
	}
	if !strings.Contains(prompt, "character reference image") {
		t.Error("branch 2 should point the model at the character image")
	}

	// 분기 3: 데이터도 이미지도 없음 → 최소 지침
	prompt = BuildConsistencyPrompt(fallbackAnalysis(), "scene", "16:9", false, "")
	if !strings.Contains(prompt, "No character reference provided") {
		t.Error("branch 3 should render the minimal note")
	}
	if strings.Contains(prompt, "CHARACTER ANALYSIS DATA UNAVAILABLE") {
		t.Error("branch 3 should not render the direct-reference block")
	}
}

func TestPromptEnvironmentSectionAlwaysPresent(t *testing.T) {
	prompt := BuildConsistencyPrompt(fallbackAnalysis(), "scene", "16:9", false, "")

	for _, section := range []string{"BACKGROUND", "ARCHITECTURE", "LIGHTING", "COLOR PALETTE", "ATMOSPHERE", "PROPS"} {
		if !strings.Contains(prompt, section) {
			t.Errorf("environment section %q missing from prompt", section)
		}
	}
	// Unknown 값은 그대로 노출 - "제약 없음" 신호
	if !strings.Contains(prompt, "Unknown") {
		t.Error("unknown environment values should appear verbatim")
	}
}

func TestPromptCustomInstructionBlock(t *testing.T) {
	prompt := BuildConsistencyPrompt(fallbackAnalysis(), "scene", "16:9", false, "Make everything underwater")

	if !strings.Contains(prompt, "Make everything underwater") {
		t.Error("custom instruction text should appear in the prompt")
	}
	if !strings.Contains(prompt, "HIGHEST PRIORITY") {
		t.Error("custom instruction should be marked highest priority")
	}

	// 커스텀 블록이 일관성 요구사항 섹션보다 앞에 와야 함
	customIdx := strings.Index(prompt, "Make everything underwater")
	mandatoryIdx := strings.Index(prompt, "MANDATORY VISUAL CONSISTENCY REQUIREMENTS")
	if customIdx == -1 || mandatoryIdx == -1 || customIdx > mandatoryIdx {
		t.Error("custom instruction block should precede the mandatory consistency section")
	}

	without := BuildConsistencyPrompt(fallbackAnalysis(), "scene", "16:9", false, "")
	if strings.Contains(without, "CUSTOM INSTRUCTION") {
		t.Error("no custom block should render when customInstruction is empty")
	}
}

func TestPromptQualityTailAndVariantReminder(t *testing.T) {
	prompt := BuildConsistencyPrompt(fallbackAnalysis(), "scene for Frame B", "9:16", false, "")

	if !strings.Contains(prompt, "NO TEXT, NO SUBTITLES") {
		t.Error("quality/negative constraints missing")
	}
	if !strings.Contains(prompt, "9:16") {
		t.Error("aspect ratio should appear in the prompt")
	}
	if !strings.Contains(prompt, "This is frame B of the SAME scene") {
		t.Error("Frame B description should yield the variant-B reminder")
	}
	if !strings.Contains(prompt, "Only the character's ACTION/POSE changes between frames") {
		t.Error("A/B sameness reminder missing")
	}
}
