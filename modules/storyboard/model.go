package storyboard

// Base64Asset - 클라이언트가 전달하는 참조 이미지 (base64)
type Base64Asset struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// StoryboardRequest - 스토리보드 생성 요청
type StoryboardRequest struct {
	LogoAsset                   *Base64Asset  `json:"logoAsset,omitempty"`
	MainCharacterAsset          *Base64Asset  `json:"mainCharacterAsset,omitempty"`
	CharacterAsset              *Base64Asset  `json:"characterAsset,omitempty"`
	AdditionalCharacterAssets   []Base64Asset `json:"additionalCharacterAssets,omitempty"`
	BackgroundAsset             *Base64Asset  `json:"backgroundAsset,omitempty"`
	ArtStyleAsset               *Base64Asset  `json:"artStyleAsset,omitempty"`
	Story                       string        `json:"story,omitempty"`
	AspectRatio                 string        `json:"aspectRatio,omitempty"`
	FrameCount                  int           `json:"frameCount,omitempty"`
	Continue                    bool          `json:"continue,omitempty"`
	ExistingStoryboard          *Storyboard   `json:"existingStoryboard,omitempty"`
	CustomInstruction           string        `json:"customInstruction,omitempty"`
	ConsistencyThreshold        int           `json:"consistencyThreshold,omitempty"`
	EnableConsistencyValidation *bool         `json:"enableConsistencyValidation,omitempty"`
}

// MainCharacter - mainCharacterAsset 우선, 없으면 characterAsset
func (r *StoryboardRequest) MainCharacter() *Base64Asset {
	if r.MainCharacterAsset != nil {
		return r.MainCharacterAsset
	}
	return r.CharacterAsset
}

// ValidationEnabled - 기본값 true
func (r *StoryboardRequest) ValidationEnabled() bool {
	if r.EnableConsistencyValidation == nil {
		return true
	}
	return *r.EnableConsistencyValidation
}

// SceneCountFor - frameCount를 씬 개수로 양자화 (2프레임 = 1씬)
func SceneCountFor(frameCount int) int {
	switch frameCount {
	case 2, 4, 6, 8:
		return frameCount / 2
	default:
		return 2
	}
}

// CharacterAnalysis - 캐릭터 외형 분석
type CharacterAnalysis struct {
	Clothing       []string `json:"clothing"`
	Accessories    []string `json:"accessories"`
	Hairstyle      string   `json:"hairstyle"`
	FacialFeatures []string `json:"facialFeatures"`
	BodyType       string   `json:"bodyType"`
	Pose           string   `json:"pose"`
}

// EnvironmentAnalysis - 배경/환경 분석
type EnvironmentAnalysis struct {
	Background   string   `json:"background"`
	Architecture []string `json:"architecture"`
	Lighting     string   `json:"lighting"`
	ColorPalette []string `json:"colorPalette"`
	Atmosphere   string   `json:"atmosphere"`
	Props        []string `json:"props"`
}

// TechnicalAnalysis - 카메라/구도 분석
type TechnicalAnalysis struct {
	CameraAngle string `json:"cameraAngle"`
	Composition string `json:"composition"`
	Depth       string `json:"depth"`
}

// VisualAnalysis - 참조 이미지 하나에 대한 전체 시각 분석
type VisualAnalysis struct {
	Character   CharacterAnalysis   `json:"character"`
	Environment EnvironmentAnalysis `json:"environment"`
	Technical   TechnicalAnalysis   `json:"technical"`
}

// StoryWorld - 스토리 전체의 서사 설계도
type StoryWorld struct {
	Premise            string `json:"premise"`
	Theme              string `json:"theme"`
	Structure          struct {
		Act1       string   `json:"act1"`
		Act2       string   `json:"act2"`
		Act3       string   `json:"act3"`
		Attractors []string `json:"attractors"`
	} `json:"structure"`
	CharacterBlueprint string `json:"characterBlueprint"`
	CoreConflict       struct {
		Internal string `json:"internal"`
		External string `json:"external"`
	} `json:"coreConflict"`
	Boundaries struct {
		Spatial    string `json:"spatial"`
		Temporal   string `json:"temporal"`
		Historical string `json:"historical"`
		Visual     string `json:"visual"`
	} `json:"boundaries"`
}

// FrameMetadata - 프레임 표시용 메타데이터
type FrameMetadata struct {
	Composition string   `json:"composition"`
	Palette     []string `json:"palette"`
	Lighting    string   `json:"lighting"`
	Camera      string   `json:"camera"`
}

// Frame - 씬당 A/B 두 개 생성
type Frame struct {
	ID       string        `json:"id"`
	Variant  string        `json:"variant"`
	ImageURL string        `json:"imageUrl"`
	Metadata FrameMetadata `json:"metadata"`
}

// Scene - 스토리보드의 한 씬
type Scene struct {
	ID                   int     `json:"id"`
	Title                string  `json:"title"`
	ScriptLine           string  `json:"scriptLine"`
	Emotion              string  `json:"emotion"`
	Intent               string  `json:"intent"`
	CinematographyFormat string  `json:"cinematographyFormat"`
	SubjectIdentity      string  `json:"subjectIdentity"`
	SceneContext         string  `json:"sceneContext"`
	Action               string  `json:"action"`
	CameraComposition    string  `json:"cameraComposition"`
	StyleAmbiance        string  `json:"styleAmbiance"`
	AudioDialogue        string  `json:"audioDialogue"`
	TechnicalNegative    string  `json:"technicalNegative"`
	VeoPrompt            string  `json:"veoPrompt"`
	Frames               []Frame `json:"frames"`
}

// Storyboard - 최종 산출물
type Storyboard struct {
	Title       string      `json:"title"`
	Scenes      []Scene     `json:"scenes"`
	AspectRatio string      `json:"aspectRatio"`
	StoryWorld  *StoryWorld `json:"storyWorld,omitempty"`
}

// ConsistencyValidationResult - 프레임 1회 검증 결과
type ConsistencyValidationResult struct {
	Passed                 bool   `json:"passed"`
	OverallScore           int    `json:"overallScore"`
	CharacterIdentityScore int    `json:"characterIdentityScore"`
	ArtStyleScore          int    `json:"artStyleScore"`
	ColorPaletteScore      int    `json:"colorPaletteScore"`
	LightingScore          int    `json:"lightingScore"`
	CompositionScore       int    `json:"compositionScore"`
	Feedback               string `json:"feedback"`
}

// ResponseMetadata - 파이프라인 실행 메타데이터
type ResponseMetadata struct {
	GenerationID  string `json:"generationId"`
	TotalDuration int64  `json:"totalDuration"`
	Regenerations int    `json:"regenerations"`
}

// StoryboardResponse - HTTP 응답 봉투
type StoryboardResponse struct {
	Success  bool              `json:"success"`
	Data     *Storyboard       `json:"data,omitempty"`
	Error    string            `json:"error,omitempty"`
	Metadata *ResponseMetadata `json:"metadata,omitempty"`
}

// 참조 이미지 종류
const (
	ImageTypeCharacter  = "character"
	ImageTypeBackground = "background"
	ImageTypeArtStyle   = "art_style"
)

// defaultPalette - 메타데이터 기본 팔레트
var defaultPalette = []string{"#1a1a1a", "#f5f5f5", "#4a90e2"}
