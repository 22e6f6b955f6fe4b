package storyboard

import (
	"fmt"
	"strings"
)

// 씬 설명에 끼워 넣는 프레임 위치 마커. 프롬프트 본문에는 그대로 내보내지 않는다.
const (
	FirstFrameMarker = "[FIRST FRAME - OPENING SHOT]"
	LastFrameMarker  = "[LAST FRAME - CLOSING SHOT]"
)

const sectionDivider = "═══════════════════════════════════════════════════════════"

// BuildConsistencyPrompt - 병합 분석 + 씬 설명으로 최종 이미지 생성 프롬프트 구성
// 순수 함수: 네트워크/저장소 접근 없음
func BuildConsistencyPrompt(
	analysis VisualAnalysis,
	sceneDescription string,
	aspectRatio string,
	hasCharacterImage bool,
	customInstruction string,
) string {
	hasValidCharacterData := len(analysis.Character.Clothing) > 0 ||
		known(analysis.Character.Hairstyle) ||
		len(analysis.Character.FacialFeatures) > 0 ||
		known(analysis.Character.BodyType)

	clothingList := strings.Join(analysis.Character.Clothing, ", ")
	accessoriesList := "none"
	if len(analysis.Character.Accessories) > 0 {
		accessoriesList = strings.Join(analysis.Character.Accessories, ", ")
	}
	propsList := "none"
	if len(analysis.Environment.Props) > 0 {
		propsList = strings.Join(analysis.Environment.Props, ", ")
	}
	architectureList := strings.Join(analysis.Environment.Architecture, ", ")
	colorPalette := strings.Join(analysis.Environment.ColorPalette, ", ")

	// 프레임 위치 마커는 구조 메타데이터 - 의미를 풀어쓴 서문으로 변환
	isFirstFrame := strings.Contains(sceneDescription, FirstFrameMarker)
	isLastFrame := strings.Contains(sceneDescription, LastFrameMarker)
	cleanDescription := strings.ReplaceAll(sceneDescription, FirstFrameMarker+" ", "")
	cleanDescription = strings.ReplaceAll(cleanDescription, LastFrameMarker+" ", "")
	cleanDescription = strings.ReplaceAll(cleanDescription, FirstFrameMarker, "")
	cleanDescription = strings.ReplaceAll(cleanDescription, LastFrameMarker, "")

	framePositionNote := ""
	if isFirstFrame {
		framePositionNote = "\n[FRAME POSITION: OPENING SHOT]\nThis is the opening frame. Establish visual tone, introduce main character/setting, create strong opening hook.\n"
	} else if isLastFrame {
		framePositionNote = "\n[FRAME POSITION: CLOSING SHOT]\nThis is the closing frame. Provide resolution, emotional closure, memorable final image.\n"
	}

	// 캐릭터 일관성 섹션: 분석 데이터 > 직접 이미지 참조 > 최소 지침 순서
	var characterSection string
	switch {
	case hasValidCharacterData:
		hairstyle := "See character reference image above"
		if known(analysis.Character.Hairstyle) {
			hairstyle = analysis.Character.Hairstyle
		}
		facialFeatures := "See character reference image above"
		if len(analysis.Character.FacialFeatures) > 0 {
			facialFeatures = strings.Join(analysis.Character.FacialFeatures, ", ")
		}
		bodyAndPose := "See character reference image above"
		if known(analysis.Character.BodyType) {
			bodyAndPose = fmt.Sprintf("%s - %s", analysis.Character.BodyType, analysis.Character.Pose)
		}
		clothing := clothingList
		if clothing == "" {
			clothing = "See character reference image above"
		}

		characterSection = fmt.Sprintf(`## CHARACTER CONSISTENCY (CRITICAL - MUST MATCH EXACTLY):
✓ CLOTHING (EXACT MATCH REQUIRED):
  %s
  [CRITICAL: Character MUST wear these EXACT items. NO substitutions allowed]

✓ ACCESSORIES (EXACT MATCH REQUIRED):
  %s
  [CRITICAL: Include ONLY these accessories. Nothing more, nothing less]

✓ HAIRSTYLE (EXACT MATCH REQUIRED):
  %s
  [CRITICAL: Hair must look IDENTICAL - same length, color, style]

✓ FACIAL FEATURES (EXACT MATCH REQUIRED):
  %s
  [CRITICAL: Face MUST be identical. Same person, same features]

✓ BODY TYPE & POSE:
  %s
  [CRITICAL: Same body proportions and general posture]`,
			clothing, accessoriesList, hairstyle, facialFeatures, bodyAndPose)

	case hasCharacterImage:
		characterSection = `## CHARACTER CONSISTENCY (CRITICAL - MUST MATCH EXACTLY):
⚠️ CHARACTER ANALYSIS DATA UNAVAILABLE - USING DIRECT IMAGE REFERENCE

[CRITICAL INSTRUCTION]: The character reference image provided above is your PRIMARY and ONLY source for character appearance.

YOU MUST MATCH THE CHARACTER IMAGE EXACTLY:
✓ CLOTHING: Match EXACTLY what the character is wearing in the reference image
✓ ACCESSORIES: Include ALL accessories visible in the reference image
✓ HAIRSTYLE: Match the EXACT hairstyle (length, color, style, texture) from the reference
✓ FACIAL FEATURES: The face MUST be the EXACT SAME PERSON - same eyes, nose, face shape, features
✓ BODY TYPE: Match the EXACT body proportions, build, and posture from the reference
✓ POSE: While pose may vary, all other features MUST remain identical

[CRITICAL]: Look at the character reference image carefully. Every detail matters. The generated character MUST be recognizable as the SAME PERSON with the SAME appearance.`

	default:
		characterSection = `## CHARACTER CONSISTENCY:
[Note: No character reference provided. Generate character based on scene description.]`
	}

	// 사용자 커스텀 지시는 최우선 블록으로 구분선과 함께 배치
	customInstructionSection := ""
	if customInstruction != "" {
		customInstructionSection = fmt.Sprintf(`

%s
🎯 USER'S CUSTOM INSTRUCTION (HIGHEST PRIORITY):
%s
"%s"
%s

[CRITICAL]: This custom instruction is the USER'S SPECIFIC CREATIVE DIRECTION.
It MUST take ABSOLUTE PRIORITY in image generation.
The generated image MUST reflect and incorporate this instruction.
Every visual element, composition, and narrative element must align with this instruction.
%s
`, sectionDivider, sectionDivider, customInstruction, sectionDivider, sectionDivider)
	}

	variant := "A"
	if strings.Contains(sceneDescription, "Frame B") {
		variant = "B"
	}

	return fmt.Sprintf(`Generate a professional cinematic %s image with ABSOLUTE CONSISTENCY to these specifications:
%s
%s
%s

%s
MANDATORY VISUAL CONSISTENCY REQUIREMENTS - DO NOT DEVIATE
%s

%s

## ENVIRONMENT CONSISTENCY (CRITICAL - MUST MATCH EXACTLY):
✓ BACKGROUND (EXACT MATCH REQUIRED):
  %s
  [CRITICAL: Background must be IDENTICAL or extremely similar]

✓ ARCHITECTURE (EXACT MATCH REQUIRED):
  %s
  [CRITICAL: Same architectural style, materials, and structures]

✓ LIGHTING (EXACT MATCH REQUIRED):
  %s
  [CRITICAL: Same light sources, direction, and quality]

✓ COLOR PALETTE (EXACT MATCH REQUIRED):
  %s
  [CRITICAL: Use these EXACT colors throughout the image]

✓ ATMOSPHERE (EXACT MATCH REQUIRED):
  %s
  [CRITICAL: Same mood, weather, time of day]

✓ PROPS (EXACT MATCH REQUIRED):
  %s
  [CRITICAL: Include relevant props from reference]

## TECHNICAL CONSISTENCY:
✓ Camera Angle: %s
✓ Composition: %s
✓ Depth: %s

%s
QUALITY REQUIREMENTS
%s
• NO TEXT, NO SUBTITLES, NO CAPTIONS, NO WORDS in ANY language
• Broadcast quality, professional grade
• Clean, cinematic visual storytelling
• Sharp focus on character
• Natural, realistic rendering

REMEMBER: This is frame %s of the SAME scene.
Character clothing, accessories, hair, and background MUST be IDENTICAL to Frame A.
Only the character's ACTION/POSE changes between frames - NOTHING ELSE.`,
		aspectRatio,
		framePositionNote,
		cleanDescription,
		customInstructionSection,
		sectionDivider, sectionDivider,
		characterSection,
		analysis.Environment.Background,
		architectureList,
		analysis.Environment.Lighting,
		colorPalette,
		analysis.Environment.Atmosphere,
		propsList,
		analysis.Technical.CameraAngle,
		analysis.Technical.Composition,
		analysis.Technical.Depth,
		sectionDivider, sectionDivider,
		variant)
}
