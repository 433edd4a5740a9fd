package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port     string
	LogLevel string
	DevMode  bool

	STTProvider     string
	ScoringProvider string

	OpenAIKey          string
	OpenAIBaseURL      string
	TranscriptionModel string
	ScoringModel       string
	ScoringTemperature float32

	FPTApiKey string
	FPTSTTURL string

	GoogleProjectID string
	GoogleKeyData   string
	GoogleLanguage  string

	ZhipuAPIKey  string
	ZhipuBaseURL string
	ZhipuModel   string

	TranscriptionTimeout time.Duration
	ScoringTimeout       time.Duration
	UpstreamMaxRetries   int

	ClientCacheSize int
	ClientCacheTTL  time.Duration

	MaxAudioBytes int64

	StaticDir     string
	QuestionsFile string

	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DevMode:  os.Getenv("GIN_MODE") == "debug",

		STTProvider:     strings.ToLower(getEnv("STT_PROVIDER", "openai")),
		ScoringProvider: strings.ToLower(getEnv("SCORING_PROVIDER", "openai")),

		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:      os.Getenv("OPENAI_BASE_URL"),
		TranscriptionModel: getEnv("TRANSCRIPTION_MODEL", "gpt-4o-transcribe"),
		ScoringModel:       getEnv("SCORING_MODEL", "gpt-4o-mini-2024-07-18"),

		FPTApiKey: os.Getenv("FPT_AI_API_KEY"),
		FPTSTTURL: getEnv("FPT_AI_STT_URL", "https://api.fpt.ai/hmi/asr/v1"),

		GoogleProjectID: os.Getenv("GOOGLE_STT_PROJECT_ID"),
		GoogleKeyData:   os.Getenv("GOOGLE_STT_KEY_FILE"),
		GoogleLanguage:  getEnv("GOOGLE_STT_LANGUAGE", "en-US"),

		ZhipuAPIKey:  os.Getenv("ZHIPU_API_KEY"),
		ZhipuBaseURL: os.Getenv("ZHIPU_BASE_URL"),
		ZhipuModel:   getEnv("ZHIPU_MODEL", "glm-4-flash"),

		StaticDir:      getEnv("STATIC_DIR", "static"),
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
	cfg.QuestionsFile = getEnv("QUESTIONS_FILE", cfg.StaticDir+"/InterviewQuestionList.json")

	var err error
	if cfg.ScoringTemperature, err = getEnvFloat32("SCORING_TEMPERATURE", 0); err != nil {
		return nil, err
	}
	if cfg.TranscriptionTimeout, err = getEnvDuration("TRANSCRIPTION_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.ScoringTimeout, err = getEnvDuration("SCORING_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.UpstreamMaxRetries, err = getEnvInt("UPSTREAM_MAX_RETRIES", 2); err != nil {
		return nil, err
	}
	if cfg.ClientCacheSize, err = getEnvInt("CLIENT_CACHE_SIZE", 128); err != nil {
		return nil, err
	}
	if cfg.ClientCacheTTL, err = getEnvDuration("CLIENT_CACHE_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	maxAudio, err := getEnvInt("MAX_AUDIO_BYTES", 25<<20)
	if err != nil {
		return nil, err
	}
	cfg.MaxAudioBytes = int64(maxAudio)
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if cfg.UpstreamMaxRetries < 0 || cfg.UpstreamMaxRetries > math.MaxInt32 {
		return nil, fmt.Errorf("UPSTREAM_MAX_RETRIES must be between 0 and %d, got %d", math.MaxInt32, cfg.UpstreamMaxRetries)
	}
	if cfg.ClientCacheSize <= 0 {
		return nil, fmt.Errorf("CLIENT_CACHE_SIZE must be positive, got %d", cfg.ClientCacheSize)
	}
	if cfg.MaxAudioBytes <= 0 {
		return nil, fmt.Errorf("MAX_AUDIO_BYTES must be positive, got %d", cfg.MaxAudioBytes)
	}

	// OpenAI key is optional: callers may send their own token per request.
	// Other providers need their server-side keys up front.
	switch cfg.STTProvider {
	case "fpt":
		if cfg.FPTApiKey == "" {
			return nil, fmt.Errorf("FPT_AI_API_KEY is required when STT_PROVIDER=fpt")
		}
	case "google":
		if cfg.GoogleKeyData == "" {
			return nil, fmt.Errorf("GOOGLE_STT_KEY_FILE is required when STT_PROVIDER=google")
		}
	}
	if cfg.ScoringProvider == "zhipu" && cfg.ZhipuAPIKey == "" {
		return nil, fmt.Errorf("ZHIPU_API_KEY is required when SCORING_PROVIDER=zhipu")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat32(key string, fallback float32) (float32, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return float32(f), nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return d, nil
}

// getEnvList splits a comma separated value, dropping blanks
func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var res []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}
	if len(res) == 0 {
		return fallback
	}
	return res
}
