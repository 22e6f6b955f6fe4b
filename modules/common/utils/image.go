package utils

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log"
	"strings"

	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
)

// ErrorPlaceholderDataURI - 생성 실패 시 반환하는 회색 에러 SVG
const ErrorPlaceholderDataURI = "data:image/svg+xml;base64,PHN2ZyB3aWR0aD0iODAwIiBoZWlnaHQ9IjYwMCIgeG1sbnM9Imh0dHA6Ly93d3cudzMub3JnLzIwMDAvc3ZnIj48cmVjdCB3aWR0aD0iODAwIiBoZWlnaHQ9IjYwMCIgZmlsbD0iIzMzMzMzMyIvPjx0ZXh0IHg9IjUwJSIgeT0iNTAlIiBmb250LXNpemU9IjI0IiBmaWxsPSJ3aGl0ZSIgdGV4dC1hbmNob3I9Im1pZGRsZSIgZG9taW5hbnQtYmFzZWxpbmU9Im1pZGRsZSI+RXJyb3I8L3RleHQ+PC9zdmc+"

// BuildDataURI - 바이너리 이미지를 data URI로 변환
func BuildDataURI(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// SplitDataURI - data URI에서 MIME 타입과 바이너리를 분리
func SplitDataURI(uri string) (string, []byte, error) {
	if !strings.HasPrefix(uri, "data:") {
		return "", nil, fmt.Errorf("not a data URI")
	}
	parts := strings.SplitN(uri[5:], ",", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("malformed data URI")
	}
	meta := parts[0]
	mimeType := strings.TrimSuffix(meta, ";base64")
	data, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", nil, fmt.Errorf("base64 decode failed: %w", err)
	}
	return mimeType, data, nil
}

// DecodeBase64Image - base64 문자열(옵션 data URI 접두사 포함)을 디코딩
func DecodeBase64Image(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		_, data, err := SplitDataURI(s)
		return data, err
	}
	return base64.StdEncoding.DecodeString(s)
}

// AssetFingerprint - 에셋 캐시 키용 해시
func AssetFingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum[:16])
}

// ConvertToWebP - PNG/JPEG 이미지를 WebP로 변환 (품질 90)
func ConvertToWebP(imageData []byte) ([]byte, error) {
	img, format, err := decodeImage(imageData)
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}
	log.Printf("🔄 Converting %s to WebP...", format)

	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, 90)
	if err != nil {
		return nil, fmt.Errorf("webp encoder options failed: %w", err)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, options); err != nil {
		return nil, fmt.Errorf("webp encode failed: %w", err)
	}

	log.Printf("✅ WebP conversion complete: %d bytes -> %d bytes", len(imageData), buf.Len())
	return buf.Bytes(), nil
}

func decodeImage(data []byte) (image.Image, string, error) {
	if img, err := png.Decode(bytes.NewReader(data)); err == nil {
		return img, "png", nil
	}
	if img, err := jpeg.Decode(bytes.NewReader(data)); err == nil {
		return img, "jpeg", nil
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	return img, format, err
}
