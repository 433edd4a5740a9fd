package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/yankeguo/zhipu"
	"go.uber.org/zap"
)

// ZhipuScorer grades answers with a GLM chat model
type ZhipuScorer struct {
	client      *zhipu.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewZhipuScorer expects an "id.secret" API key. baseURL may be empty to
// use the public endpoint.
func NewZhipuScorer(apiKey, baseURL, model string, temperature float32, logger *zap.Logger) (*ZhipuScorer, error) {
	opts := []zhipu.ClientOption{zhipu.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, zhipu.WithBaseURL(baseURL))
	}
	client, err := zhipu.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create zhipu client: %w", err)
	}
	if model == "" {
		model = "glm-4-flash"
	}
	return &ZhipuScorer{
		client:      client,
		model:       model,
		temperature: temperature,
		logger:      logger.Named("zhipu_scorer"),
	}, nil
}

func (s *ZhipuScorer) Name() string {
	return "zhipu"
}

func (s *ZhipuScorer) Complete(ctx context.Context, prompt string) (string, error) {
	chatReq := s.client.ChatCompletion(s.model).AddMessage(zhipu.ChatCompletionMessage{
		Role:    zhipu.RoleUser,
		Content: prompt,
	})
	if s.temperature > 0 {
		chatReq = chatReq.SetTemperature(float64(s.temperature))
	}

	completion, err := chatReq.Do(ctx)
	if err != nil {
		return "", fmt.Errorf("zhipu API error: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	s.logger.Info("chat completion received",
		zap.String("model", s.model),
		zap.Int("response_length", len(content)),
		zap.Int64("total_tokens", completion.Usage.TotalTokens))
	return content, nil
}
