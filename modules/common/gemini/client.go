package gemini

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"brandframe-server/modules/common/config"
)

// Part - 멀티모달 요청의 한 조각 (텍스트 또는 인라인 이미지)
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

// TextPart - 텍스트 파트 생성
func TextPart(text string) Part {
	return Part{Text: text}
}

// ImagePart - 인라인 이미지 파트 생성
func ImagePart(mimeType string, data []byte) Part {
	return Part{MIMEType: mimeType, Data: data}
}

// GeneratedImage - 이미지 생성 결과
type GeneratedImage struct {
	MIMEType string
	Data     []byte
}

// Generator - 생성 모델 호출 인터페이스 (테스트용 mock 교체 지점)
type Generator interface {
	// GenerateStructured - JSON 텍스트 응답을 기대하는 호출
	GenerateStructured(ctx context.Context, model string, parts []Part) (string, error)
	// GenerateImage - 이미지 응답을 기대하는 호출
	GenerateImage(ctx context.Context, model string, parts []Part, aspectRatio string) (*GeneratedImage, error)
}

// Client - google.golang.org/genai 기반 Generator 구현
type Client struct {
	genaiClient *genai.Client
	limiter     *rate.Limiter
}

// NewClient - Genai 클라이언트 초기화
func NewClient(ctx context.Context) (*Client, error) {
	cfg := config.GetConfig()

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Genai client: %w", err)
	}

	rpm := cfg.GeminiRPM
	if rpm <= 0 {
		rpm = 60
	}

	log.Println("✅ Genai client initialized")
	return &Client{
		genaiClient: genaiClient,
		limiter:     rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
	}, nil
}

// toContents - Part 배열을 genai.Content로 변환
func toContents(parts []Part) []*genai.Content {
	genaiParts := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.Data != nil {
			genaiParts = append(genaiParts, &genai.Part{
				InlineData: &genai.Blob{
					MIMEType: p.MIMEType,
					Data:     p.Data,
				},
			})
			continue
		}
		genaiParts = append(genaiParts, genai.NewPartFromText(p.Text))
	}
	return []*genai.Content{{Parts: genaiParts}}
}

// GenerateStructured - JSON 응답을 기대하는 호출 (Story-World, 씬, 분석, 검증)
func (c *Client) GenerateStructured(ctx context.Context, model string, parts []Part) (string, error) {
	cfg := config.GetConfig()

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, cfg.GeminiCallTimeout)
	defer cancel()

	result, err := generateContentWithRetry(callCtx, c.genaiClient, model, toContents(parts), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("Gemini API call failed: %w", err)
	}

	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
	}

	return "", fmt.Errorf("no text data in response")
}

// GenerateImage - 이미지 응답을 기대하는 호출 (프레임 생성)
func (c *Client) GenerateImage(ctx context.Context, model string, parts []Part, aspectRatio string) (*GeneratedImage, error) {
	cfg := config.GetConfig()

	// aspect-ratio 기본값 처리
	if aspectRatio == "" {
		aspectRatio = "16:9"
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, cfg.GeminiCallTimeout)
	defer cancel()

	log.Printf("🎨 Calling Gemini API (model: %s) with %d parts, aspect-ratio: %s", model, len(parts), aspectRatio)

	result, err := generateContentWithRetry(callCtx, c.genaiClient, model, toContents(parts), &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
		ImageConfig: &genai.ImageConfig{
			AspectRatio: aspectRatio,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini API call failed: %w", err)
	}

	if len(result.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			// 이미지는 InlineData로 반환됨
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				log.Printf("✅ Received image from Gemini: %d bytes", len(part.InlineData.Data))
				mimeType := part.InlineData.MIMEType
				if mimeType == "" {
					mimeType = "image/png"
				}
				return &GeneratedImage{MIMEType: mimeType, Data: part.InlineData.Data}, nil
			}
		}
	}

	return nil, fmt.Errorf("no image data in response")
}
