package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"interviewcoach/internal/config"

	"go.uber.org/zap"
)

//go:generate mockgen -source=./scorer.go -destination=./mocks/scorer.mock.go -package=aimocks Scorer

var (
	ErrEmptyCompletion = errors.New("model returned no choices")
	ErrMissingAPIKey   = errors.New("scoring API key is not set")

	// ErrNotConfigured marks a server-side provider whose key is absent
	ErrNotConfigured = errors.New("scoring provider is not configured")
)

// Scorer sends a prompt to a text-generation model and returns its raw reply.
type Scorer interface {
	Complete(ctx context.Context, prompt string) (string, error)

	// Name returns the platform name (e.g., "openai", "zhipu")
	Name() string
}

// NewScorer creates the scorer selected by SCORING_PROVIDER.
// credential overrides the configured OpenAI key when set.
func NewScorer(cfg *config.Config, credential string, logger *zap.Logger) (Scorer, error) {
	name := strings.ToLower(cfg.ScoringProvider)
	if name == "" {
		name = "openai"
	}

	switch name {
	case "openai":
		apiKey := credential
		if apiKey == "" {
			apiKey = cfg.OpenAIKey
		}
		if apiKey == "" {
			return nil, ErrMissingAPIKey
		}
		return NewOpenAIScorer(apiKey, cfg.OpenAIBaseURL, cfg.ScoringModel, cfg.ScoringTemperature, logger), nil
	case "zhipu":
		if cfg.ZhipuAPIKey == "" {
			return nil, fmt.Errorf("ZHIPU_API_KEY is not set: %w", ErrNotConfigured)
		}
		scorer, err := NewZhipuScorer(cfg.ZhipuAPIKey, cfg.ZhipuBaseURL, cfg.ZhipuModel, cfg.ScoringTemperature, logger)
		if err != nil {
			return nil, err
		}
		return scorer, nil
	default:
		return nil, fmt.Errorf("unsupported scoring provider: %s. Supported: openai, zhipu", name)
	}
}
