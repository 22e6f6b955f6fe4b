package storyboard

import "testing"

func TestSceneCountFor(t *testing.T) {
	tests := []struct {
		frameCount int
		want       int
	}{
		{2, 1},
		{4, 2},
		{6, 3},
		{8, 4},
		{0, 2},
		{1, 2},
		{3, 2},
		{5, 2},
		{10, 2},
		{-4, 2},
	}

	for _, tt := range tests {
		if got := SceneCountFor(tt.frameCount); got != tt.want {
			t.Errorf("SceneCountFor(%d) = %d, want %d", tt.frameCount, got, tt.want)
		}
	}
}

func TestMainCharacterPrecedence(t *testing.T) {
	main := testAsset()
	legacy := Base64Asset{MimeType: "image/jpeg", Data: "legacy"}

	req := &StoryboardRequest{MainCharacterAsset: &main, CharacterAsset: &legacy}
	if got := req.MainCharacter(); got != &main {
		t.Error("mainCharacterAsset should take precedence over characterAsset")
	}

	req = &StoryboardRequest{CharacterAsset: &legacy}
	if got := req.MainCharacter(); got != &legacy {
		t.Error("characterAsset should be used when mainCharacterAsset is absent")
	}

	req = &StoryboardRequest{}
	if got := req.MainCharacter(); got != nil {
		t.Error("MainCharacter should be nil when no character asset provided")
	}
}

func TestValidationEnabledDefault(t *testing.T) {
	req := &StoryboardRequest{}
	if !req.ValidationEnabled() {
		t.Error("validation should default to enabled")
	}

	disabled := false
	req.EnableConsistencyValidation = &disabled
	if req.ValidationEnabled() {
		t.Error("validation should be disabled when explicitly set to false")
	}
}
