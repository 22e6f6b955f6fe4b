package storage

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"brandframe-server/modules/common/config"
	"brandframe-server/modules/common/utils"
)

const bucketName = "storyboard-frames"

// UploadFrameImage - 프레임 이미지를 WebP로 변환 후 Supabase Storage에 업로드
// 실패해도 파이프라인을 막지 않음 (data URI가 이미 응답에 포함됨)
func UploadFrameImage(generationID string, sceneID int, variant string, imageData []byte) (string, error) {
	cfg := config.GetConfig()
	if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
		return "", fmt.Errorf("supabase storage not configured")
	}

	// WebP 변환
	webpData, err := utils.ConvertToWebP(imageData)
	contentType := "image/webp"
	ext := "webp"
	if err != nil {
		log.Printf("⚠️ WebP conversion failed, uploading original: %v", err)
		webpData = imageData
		contentType = "image/png"
		ext = "png"
	}

	filename := fmt.Sprintf("%s/scene-%d-%s-%s.%s", generationID, sceneID, variant, uuid.New().String()[:8], ext)
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", cfg.SupabaseURL, bucketName, filename)

	req, err := http.NewRequest("POST", uploadURL, bytes.NewReader(webpData))
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.SupabaseServiceKey)
	req.Header.Set("Content-Type", contentType)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	// CDN 등 다른 공개 URL을 쓰는 경우 SUPABASE_STORAGE_BASE_URL로 덮어쓸 수 있음
	publicBase := cfg.SupabaseStorageBaseURL
	if publicBase == "" {
		publicBase = cfg.SupabaseURL + "/storage/v1/object/public"
	}
	publicURL := fmt.Sprintf("%s/%s/%s", publicBase, bucketName, filename)
	log.Printf("📤 Frame uploaded: %s", publicURL)
	return publicURL, nil
}
