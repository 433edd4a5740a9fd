package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIScorer grades answers with the OpenAI chat completion API
type OpenAIScorer struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewOpenAIScorer creates a scorer bound to one API key.
// baseURL may be empty to use the public endpoint.
func NewOpenAIScorer(apiKey, baseURL, model string, temperature float32, logger *zap.Logger) *OpenAIScorer {
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini20240718
	}
	return &OpenAIScorer{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: temperature,
		logger:      logger.Named("openai_scorer"),
	}
}

func (s *OpenAIScorer) Name() string {
	return "openai"
}

// Complete sends prompt as a single user message and returns the first choice
func (s *OpenAIScorer) Complete(ctx context.Context, prompt string) (string, error) {
	s.logger.Debug("calling chat completion",
		zap.String("model", s.model),
		zap.Int("prompt_length", len(prompt)))

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: s.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	s.logger.Info("chat completion received",
		zap.String("model", s.model),
		zap.Int("response_length", len(content)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Int("total_tokens", resp.Usage.TotalTokens))
	return content, nil
}
