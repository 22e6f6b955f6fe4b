package gemini

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"
)

const maxRetries429 = 3

// generateContentWithRetry - 429 에러 시 재시도하는 헬퍼 함수
// 429가 아닌 에러는 바로 반환, 429는 2초 대기 후 최대 3번 시도
func generateContentWithRetry(
	ctx context.Context,
	client *genai.Client,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {

	var lastErr error

	for attempt := 1; attempt <= maxRetries429; attempt++ {
		if attempt > 1 {
			log.Printf("   🔄 [Gemini Retry] attempt %d/%d for model %s", attempt, maxRetries429, model)
		}

		result, err := client.Models.GenerateContent(ctx, model, contents, cfg)
		if err == nil {
			return result, nil
		}

		lastErr = err

		// 429가 아닌 다른 에러면 바로 반환 (재시도 안 함)
		if !is429Error(err) {
			return nil, err
		}

		log.Printf("⚠️  [Gemini Retry] rate limit (429) on attempt %d/%d", attempt, maxRetries429)

		if attempt < maxRetries429 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(2 * time.Second):
			}
		}
	}

	return nil, fmt.Errorf("rate limit retries exhausted (%d attempts): %w", maxRetries429, lastErr)
}

// is429Error - 429 Rate Limit 에러인지 확인
func is429Error(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	// Gemini API 429 에러 패턴 체크
	return strings.Contains(errStr, "429") ||
		strings.Contains(strings.ToLower(errStr), "rate limit") ||
		strings.Contains(strings.ToLower(errStr), "quota")
}
