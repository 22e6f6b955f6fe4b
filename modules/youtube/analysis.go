package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/patrickmn/go-cache"

	"brandframe-server/modules/common/gemini"
)

// Caption - SRT 자막 한 블록 (초 단위 타이밍)
type Caption struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// KeyMoment - 비디오의 주요 순간
type KeyMoment struct {
	Timestamp   float64 `json:"timestamp"`
	Description string  `json:"description"`
	Thumbnail   string  `json:"thumbnail"`
}

// DetectedCharacter - 스크립트에서 식별된 캐릭터
type DetectedCharacter struct {
	Description string `json:"description"`
	Appearance  string `json:"appearance"`
	Frequency   int    `json:"frequency"`
}

// DetectedBackground - 스크립트에서 식별된 배경
type DetectedBackground struct {
	Description string `json:"description"`
	Style       string `json:"style"`
	Frequency   int    `json:"frequency"`
}

// VisualStyleSummary - 전체 비주얼 스타일 요약
type VisualStyleSummary struct {
	DominantColors []string `json:"dominantColors"`
	Composition    string   `json:"composition"`
	Lighting       string   `json:"lighting"`
}

// SuggestedScene - 분석이 제안하는 스토리보드 씬
type SuggestedScene struct {
	Title         string  `json:"title"`
	ScriptLine    string  `json:"scriptLine"`
	Timestamp     float64 `json:"timestamp"`
	Thumbnail     string  `json:"thumbnail"`
	FramePosition string  `json:"framePosition"`
}

// SuggestedStoryboard - 제안 씬 목록
type SuggestedStoryboard struct {
	Scenes []SuggestedScene `json:"scenes"`
}

// VideoAnalysis - 비디오 스크립트 분석 결과
type VideoAnalysis struct {
	Script              string               `json:"script"`
	KeyMoments          []KeyMoment          `json:"keyMoments"`
	DetectedCharacters  []DetectedCharacter  `json:"detectedCharacters"`
	DetectedBackgrounds []DetectedBackground `json:"detectedBackgrounds"`
	VisualStyle         VisualStyleSummary   `json:"visualStyle"`
	SuggestedStoryboard SuggestedStoryboard  `json:"suggestedStoryboard"`
}

var (
	srtTimecodePattern = regexp.MustCompile(`(\d{2}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2}),(\d{3})`)
	srtTagPattern      = regexp.MustCompile(`<[^>]+>`)
	srtBlockSplit      = regexp.MustCompile(`\n\s*\n`)
)

// parseSRT - SRT 자막 텍스트를 타이밍 블록으로 파싱. 깨진 블록은 건너뜀
func parseSRT(srtText string) []Caption {
	blocks := srtBlockSplit.Split(strings.TrimSpace(srtText), -1)
	captions := make([]Caption, 0, len(blocks))

	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 3 {
			continue
		}

		match := srtTimecodePattern.FindStringSubmatch(lines[1])
		if match == nil {
			continue
		}

		toSeconds := func(h, m, s, ms string) float64 {
			hi, _ := strconv.Atoi(h)
			mi, _ := strconv.Atoi(m)
			si, _ := strconv.Atoi(s)
			msi, _ := strconv.Atoi(ms)
			return float64(hi)*3600 + float64(mi)*60 + float64(si) + float64(msi)/1000
		}

		text := strings.TrimSpace(srtTagPattern.ReplaceAllString(strings.Join(lines[2:], " "), ""))
		if text == "" {
			continue
		}

		captions = append(captions, Caption{
			Start: toSeconds(match[1], match[2], match[3], match[4]),
			End:   toSeconds(match[5], match[6], match[7], match[8]),
			Text:  text,
		})
	}

	return captions
}

// extractScript - 자막 텍스트를 하나의 스크립트로 연결
func extractScript(captions []Caption) string {
	texts := make([]string, 0, len(captions))
	for _, c := range captions {
		texts = append(texts, c.Text)
	}
	return strings.Join(texts, " ")
}

// AnalyzeVideo - 메타데이터/자막을 모아 Gemini로 스크립트 분석
// 자막이 없으면 비디오 설명을 스크립트로 대체
func (s *Service) AnalyzeVideo(ctx context.Context, videoID string) (*VideoAnalysis, error) {
	cacheKey := "analysis:" + videoID
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.(*VideoAnalysis), nil
	}

	log.Printf("🔍 Analyzing video: %s", videoID)

	meta, err := s.GetVideoMetadata(ctx, videoID)
	if err != nil {
		return nil, err
	}

	captions := s.fetchCaptions(ctx, videoID)
	script := extractScript(captions)
	if script == "" && meta.Description != "" {
		script = truncate(meta.Description, 1000)
	}

	analysis, err := s.analyzeScript(ctx, meta.Title, meta.Description, script, captions, meta.Thumbnail)
	if err != nil {
		return nil, err
	}

	s.cache.Set(cacheKey, analysis, cache.DefaultExpiration)
	return analysis, nil
}

// fetchCaptions - 자막 트랙(영어 우선)을 SRT로 다운로드. 실패는 빈 자막으로 폴백
func (s *Service) fetchCaptions(ctx context.Context, videoID string) []Caption {
	resp, err := s.client.Captions.
		List([]string{"snippet"}, videoID).
		Context(ctx).
		Do()
	if err != nil || len(resp.Items) == 0 {
		return nil
	}

	track := resp.Items[0]
	for _, item := range resp.Items {
		if item.Snippet != nil && strings.HasPrefix(item.Snippet.Language, "en") {
			track = item
			break
		}
	}

	dl, err := s.client.Captions.Download(track.Id).Tfmt("srt").Context(ctx).Download()
	if err != nil {
		log.Printf("⚠️ Caption download failed for %s: %v", videoID, err)
		return nil
	}
	defer dl.Body.Close()

	srtText, err := io.ReadAll(dl.Body)
	if err != nil {
		return nil
	}
	return parseSRT(string(srtText))
}

// analyzeScript - Gemini 분석 호출 + 응답 정규화
// 모델 응답이 파싱 불가면 자막 기반 기본 분석으로 폴백
func (s *Service) analyzeScript(ctx context.Context, title, description, script string, captions []Caption, thumbnailURL string) (*VideoAnalysis, error) {
	prompt := strings.ReplaceAll(videoAnalysisPrompt, "{VIDEO_TITLE}", title)
	prompt = strings.ReplaceAll(prompt, "{VIDEO_DESCRIPTION}", truncate(description, 500))
	prompt = strings.ReplaceAll(prompt, "{SCRIPT}", truncate(script, 2000))

	text, err := s.gen.GenerateStructured(ctx, s.textModel, []gemini.Part{gemini.TextPart(prompt)})
	if err != nil {
		return nil, fmt.Errorf("video analysis failed: %w", err)
	}

	var analysis VideoAnalysis
	if err := json.Unmarshal([]byte(extractJSON(text)), &analysis); err != nil {
		log.Printf("⚠️ Failed to parse analysis JSON, using caption fallback: %v", err)
		analysis = fallbackVideoAnalysis(script, description, captions, thumbnailURL)
	}

	if analysis.Script == "" {
		analysis.Script = script
	}
	normalizeAnalysisAssets(&analysis, thumbnailURL)

	return &analysis, nil
}

// extractJSON - 모델이 JSON 앞뒤로 내뱉는 텍스트 제거
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return text
	}
	return text[start : end+1]
}

// fallbackVideoAnalysis - 자막 앞부분으로 합성한 기본 분석
func fallbackVideoAnalysis(script, description string, captions []Caption, thumbnailURL string) VideoAnalysis {
	if script == "" {
		script = truncate(description, 500)
	}

	keyMoments := make([]KeyMoment, 0, 8)
	for _, c := range captions {
		if len(keyMoments) == 8 {
			break
		}
		keyMoments = append(keyMoments, KeyMoment{
			Timestamp:   c.Start,
			Description: truncate(c.Text, 100),
			Thumbnail:   thumbnailURL,
		})
	}

	scenes := make([]SuggestedScene, 0, 6)
	for i, c := range captions {
		if len(scenes) == 6 {
			break
		}
		scenes = append(scenes, SuggestedScene{
			Title:      fmt.Sprintf("Scene %d", i+1),
			ScriptLine: truncate(c.Text, 100),
			Timestamp:  c.Start,
			Thumbnail:  thumbnailURL,
		})
	}

	return VideoAnalysis{
		Script:              script,
		KeyMoments:          keyMoments,
		DetectedCharacters:  []DetectedCharacter{},
		DetectedBackgrounds: []DetectedBackground{},
		VisualStyle: VisualStyleSummary{
			DominantColors: []string{"#000000", "#FFFFFF"},
			Composition:    "Standard video composition",
			Lighting:       "Natural lighting",
		},
		SuggestedStoryboard: SuggestedStoryboard{Scenes: scenes},
	}
}

// normalizeAnalysisAssets - 썸네일 공란 채우기 + framePosition 강제
// 첫 씬은 first, 마지막 씬은 last, 나머지는 middle
func normalizeAnalysisAssets(analysis *VideoAnalysis, thumbnailURL string) {
	for i := range analysis.KeyMoments {
		if analysis.KeyMoments[i].Thumbnail == "" {
			analysis.KeyMoments[i].Thumbnail = thumbnailURL
		}
	}

	scenes := analysis.SuggestedStoryboard.Scenes
	for i := range scenes {
		if scenes[i].Thumbnail == "" {
			scenes[i].Thumbnail = thumbnailURL
		}
		if scenes[i].FramePosition == "" {
			switch i {
			case 0:
				scenes[i].FramePosition = "first"
			case len(scenes) - 1:
				scenes[i].FramePosition = "last"
			default:
				scenes[i].FramePosition = "middle"
			}
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
