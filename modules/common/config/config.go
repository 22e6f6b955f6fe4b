package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 구조체 - 모든 환경변수를 담음
type Config struct {
	// Server
	Port string

	// Gemini API
	GeminiAPIKey      string
	GeminiTextModel   string        // Story-World / 씬 스크립트 생성용
	GeminiImageModel  string        // 프레임 이미지 생성용
	GeminiVisionModel string        // 비주얼 분석 / 일관성 검증용
	GeminiRPM         int
	GeminiCallTimeout time.Duration

	// Supabase
	SupabaseURL            string
	SupabaseServiceKey     string
	SupabaseStorageBaseURL string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	// YouTube Data API
	YouTubeAPIKey string

	// Consistency Validation
	ConsistencyThreshold  int
	ConsistencyFailClosed bool

	// Storage
	StoreFrames bool
}

var globalConfig *Config

// LoadConfig - 환경변수 로드
func LoadConfig() (*Config, error) {
	// .env 파일 로드 (있으면)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	// Redis UseTLS 파싱
	useTLS := true // 기본값
	if tlsStr := os.Getenv("REDIS_USE_TLS"); tlsStr != "" {
		if parsed, err := strconv.ParseBool(tlsStr); err == nil {
			useTLS = parsed
		}
	}

	globalConfig = &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Gemini API
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiTextModel:   getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-pro"),
		GeminiImageModel:  getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		GeminiVisionModel: getEnv("GEMINI_VISION_MODEL", "gemini-2.5-pro"),
		GeminiRPM:         getEnvInt("GEMINI_RPM", 60),
		GeminiCallTimeout: time.Duration(getEnvInt("GEMINI_CALL_TIMEOUT_SEC", 60)) * time.Second,

		// Supabase
		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:     getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBaseURL: getEnv("SUPABASE_STORAGE_BASE_URL", ""),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   useTLS,

		// YouTube
		YouTubeAPIKey: getEnv("YOUTUBE_API_KEY", ""),

		// Consistency Validation
		ConsistencyThreshold:  getEnvInt("CONSISTENCY_THRESHOLD", 85),
		ConsistencyFailClosed: getEnvBool("CONSISTENCY_FAIL_CLOSED", false),

		// Storage
		StoreFrames: getEnvBool("STORE_FRAMES", false),
	}

	// 필수 환경변수 검증
	if err := globalConfig.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Gemini: text=%s image=%s vision=%s (%d rpm)",
		globalConfig.GeminiTextModel, globalConfig.GeminiImageModel, globalConfig.GeminiVisionModel, globalConfig.GeminiRPM)
	log.Printf("   Supabase: %s", globalConfig.SupabaseURL)
	log.Printf("   Redis: %s:%s (TLS: %v)", globalConfig.RedisHost, globalConfig.RedisPort, globalConfig.RedisUseTLS)
	log.Printf("   Consistency: threshold=%d failClosed=%v", globalConfig.ConsistencyThreshold, globalConfig.ConsistencyFailClosed)

	if globalConfig.SupabaseURL == "" {
		log.Println("⚠️  SUPABASE_URL not set - audit logging disabled")
	}
	if globalConfig.YouTubeAPIKey == "" {
		log.Println("⚠️  YOUTUBE_API_KEY not set - youtube routes disabled")
	}

	return globalConfig, nil
}

// GetConfig - 로드된 설정 가져오기
func GetConfig() *Config {
	if globalConfig == nil {
		log.Fatal("❌ Config not loaded. Call LoadConfig() first.")
	}
	return globalConfig
}

// validate - 필수 환경변수 검증
func (c *Config) validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.ConsistencyThreshold < 0 || c.ConsistencyThreshold > 100 {
		return fmt.Errorf("CONSISTENCY_THRESHOLD must be 0-100, got %d", c.ConsistencyThreshold)
	}
	return nil
}

// getEnv - 환경변수 가져오기 (기본값 지원)
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt - 숫자 환경변수 파싱
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvBool - 불리언 환경변수 파싱
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetRedisAddr - Redis 연결 문자열 생성
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
