package stt

import (
	"fmt"
	"strings"

	"interviewcoach/internal/config"

	"go.uber.org/zap"
)

// NewProvider creates the STT provider selected by STT_PROVIDER.
// credential is the caller's OpenAI token and only applies to the openai provider.
func NewProvider(cfg *config.Config, credential string, logger *zap.Logger) (Provider, error) {
	providerName := strings.ToLower(cfg.STTProvider)

	// Default to OpenAI if not specified
	if providerName == "" {
		providerName = "openai"
	}

	switch providerName {
	case "openai":
		return createOpenAIProvider(cfg, credential, logger)
	case "fpt":
		return createFPTProvider(cfg, logger)
	case "google":
		return createGoogleProvider(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported STT provider: %s. Supported: openai, fpt, google", providerName)
	}
}

func createOpenAIProvider(cfg *config.Config, credential string, logger *zap.Logger) (Provider, error) {
	apiKey := credential
	if apiKey == "" {
		apiKey = cfg.OpenAIKey
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return NewOpenAIProvider(apiKey, cfg.OpenAIBaseURL, cfg.TranscriptionModel, logger), nil
}

func createFPTProvider(cfg *config.Config, logger *zap.Logger) (Provider, error) {
	if cfg.FPTApiKey == "" {
		return nil, fmt.Errorf("FPT_AI_API_KEY is not set: %w", ErrNotConfigured)
	}
	url := cfg.FPTSTTURL
	if url == "" {
		url = "https://api.fpt.ai/hmi/asr/v1"
	}
	return NewFPTProvider(cfg.FPTApiKey, url, logger), nil
}

// createGoogleProvider creates a Google STT provider
// GOOGLE_STT_KEY_FILE can be either:
//   - An API key (39 characters, typically starts with "AIzaSy")
//   - A file path to a JSON key file (e.g., "./keys/google-service-account.json")
//   - A JSON string containing the service account credentials
func createGoogleProvider(cfg *config.Config, logger *zap.Logger) (Provider, error) {
	keyData := strings.TrimSpace(cfg.GoogleKeyData)
	if keyData == "" {
		return nil, fmt.Errorf("GOOGLE_STT_KEY_FILE is not set: %w", ErrNotConfigured)
	}
	if !isGoogleAPIKey(keyData) && cfg.GoogleProjectID == "" {
		return nil, fmt.Errorf("GOOGLE_STT_PROJECT_ID is required when using a service account")
	}
	p, err := NewGoogleProvider(cfg.GoogleProjectID, keyData, cfg.GoogleLanguage, logger)
	if err != nil {
		return nil, err
	}
	return p, nil
}
