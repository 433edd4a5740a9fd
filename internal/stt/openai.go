package stt

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// uploadFilename is the name every upload is sent under. Browsers record
// webm whatever the form field calls it, and the API picks the decoder
// from the extension.
const uploadFilename = "recording.webm"

// OpenAIProvider implements STT using the OpenAI audio transcription API
type OpenAIProvider struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIProvider creates a provider bound to one API key.
// baseURL may be empty to use the public endpoint.
func NewOpenAIProvider(apiKey, baseURL, model string, logger *zap.Logger) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	if model == "" {
		model = "gpt-4o-transcribe"
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		logger: logger.Named("openai_stt"),
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Transcribe(ctx context.Context, audio Audio) (*Result, error) {
	startTime := time.Now()

	p.logger.Debug("processing audio",
		zap.String("filename", audio.Filename),
		zap.Int("size", len(audio.Data)),
		zap.String("model", p.model))

	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.model,
		FilePath: uploadFilename,
		Reader:   bytes.NewReader(audio.Data),
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI transcription error: %w", err)
	}

	transcript := strings.TrimSpace(resp.Text)
	if transcript == "" {
		return &Result{Provider: p.Name()}, ErrEmptyTranscript
	}

	p.logger.Info("transcription successful",
		zap.Int("length", len(transcript)),
		zap.Duration("duration", time.Since(startTime)))

	return &Result{
		Transcript: transcript,
		Provider:   p.Name(),
	}, nil
}
