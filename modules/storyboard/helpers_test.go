package storyboard

import (
	"context"
	"encoding/base64"
	"time"

	"brandframe-server/modules/common/gemini"
)

// fakeGenerator - 네트워크 없이 파이프라인을 구동하는 Generator 구현
type fakeGenerator struct {
	structured func(model string, parts []gemini.Part) (string, error)
	image      func(model string, parts []gemini.Part, aspectRatio string) (*gemini.GeneratedImage, error)
}

func (f *fakeGenerator) GenerateStructured(ctx context.Context, model string, parts []gemini.Part) (string, error) {
	return f.structured(model, parts)
}

func (f *fakeGenerator) GenerateImage(ctx context.Context, model string, parts []gemini.Part, aspectRatio string) (*gemini.GeneratedImage, error) {
	return f.image(model, parts, aspectRatio)
}

func testAsset() Base64Asset {
	return Base64Asset{
		MimeType: "image/png",
		Data:     base64.StdEncoding.EncodeToString([]byte("fake-image-bytes")),
	}
}

func noSleep(ctx context.Context, d time.Duration) {}

// promptText - 텍스트 파트를 이어붙여 검사용 문자열로
func promptText(parts []gemini.Part) string {
	out := ""
	for _, p := range parts {
		out += p.Text
	}
	return out
}

const validAnalysisJSON = `{
  "character": {
    "clothing": ["black leather jacket", "dark blue jeans"],
    "accessories": ["silver watch"],
    "hairstyle": "short black hair",
    "facialFeatures": ["sharp jawline", "brown eyes"],
    "bodyType": "athletic build",
    "pose": "standing upright"
  },
  "environment": {
    "background": "rainy neon-lit street",
    "architecture": ["brick buildings"],
    "lighting": "low-key neon glow",
    "colorPalette": ["#0a0a1a", "#ff2d78"],
    "atmosphere": "noir, rainy night",
    "props": ["umbrella"]
  },
  "technical": {
    "cameraAngle": "low angle",
    "composition": "rule of thirds",
    "depth": "strong foreground separation"
  }
}`

const sparseAnalysisJSON = `{
  "character": {
    "clothing": [],
    "accessories": [],
    "hairstyle": "Unknown",
    "facialFeatures": [],
    "bodyType": "Unknown",
    "pose": "Unknown"
  },
  "environment": {
    "background": "Unknown",
    "architecture": [],
    "lighting": "Unknown",
    "colorPalette": [],
    "atmosphere": "Unknown",
    "props": []
  },
  "technical": {
    "cameraAngle": "Unknown",
    "composition": "Unknown",
    "depth": "Unknown"
  }
}`
