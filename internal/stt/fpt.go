package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// minAudioBytes filters out recordings that are empty or truncated
const minAudioBytes = 1000

// FPTProvider implements STT using FPT.AI Speech-to-Text API
type FPTProvider struct {
	apiKey     string
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewFPTProvider creates a new FPT STT provider
func NewFPTProvider(apiKey, url string, logger *zap.Logger) *FPTProvider {
	return &FPTProvider{
		apiKey:     apiKey,
		url:        url,
		httpClient: &http.Client{Timeout: 90 * time.Second},
		logger:     logger.Named("fpt_stt"),
	}
}

// Name returns the provider name
func (p *FPTProvider) Name() string {
	return "fpt"
}

// FPTSTTResponse represents FPT.AI STT API response
type FPTSTTResponse struct {
	Hypotheses []struct {
		Utterance  string  `json:"utterance"`
		Confidence float64 `json:"confidence"`
	} `json:"hypotheses"`
	ErrorCode int    `json:"errorCode,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Transcribe sends audio to FPT.AI STT API and returns transcript
func (p *FPTProvider) Transcribe(ctx context.Context, audio Audio) (*Result, error) {
	startTime := time.Now()

	p.logger.Debug("processing audio",
		zap.String("filename", audio.Filename),
		zap.Int("size", len(audio.Data)),
		zap.String("extension", audio.Ext()))

	if len(audio.Data) < minAudioBytes {
		return nil, fmt.Errorf("audio file too small (%d bytes), may be empty or corrupted", len(audio.Data))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(audio.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("api-key", p.apiKey)
	req.Header.Set("Content-Type", "text/plain")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to FPT.AI: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	p.logger.Debug("response received", zap.String("preview", truncate(string(body), 500)))

	if resp.StatusCode != http.StatusOK {
		return &Result{
			Provider:    p.Name(),
			RawResponse: string(body),
		}, &HTTPError{Provider: "FPT.AI", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var sttResp FPTSTTResponse
	if err := json.Unmarshal(body, &sttResp); err != nil {
		return &Result{
			Provider:    p.Name(),
			RawResponse: string(body),
		}, fmt.Errorf("failed to parse FPT.AI response: %w", err)
	}

	if sttResp.ErrorCode != 0 {
		return &Result{
			Provider:    p.Name(),
			RawResponse: string(body),
		}, fmt.Errorf("FPT.AI API error %d: %s", sttResp.ErrorCode, sttResp.Message)
	}

	if len(sttResp.Hypotheses) == 0 {
		return &Result{
			Provider:    p.Name(),
			RawResponse: string(body),
		}, fmt.Errorf("no speech detected in audio: %w", ErrEmptyTranscript)
	}

	// Get the first (best) hypothesis
	hyp := sttResp.Hypotheses[0]
	transcript := strings.TrimSpace(hyp.Utterance)
	if transcript == "" {
		return &Result{
			Provider:    p.Name(),
			RawResponse: string(body),
		}, ErrEmptyTranscript
	}

	p.logger.Info("transcription successful",
		zap.Float64("confidence", hyp.Confidence),
		zap.Int("length", len(transcript)),
		zap.Duration("duration", time.Since(startTime)))

	return &Result{
		Transcript:  transcript,
		Confidence:  hyp.Confidence,
		Provider:    p.Name(),
		RawResponse: string(body),
	}, nil
}
