package evaluation

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"interviewcoach/internal/stt"

	"github.com/sashabaranov/go-openai"
)

var (
	ErrEmptyAudio        = errors.New("audio is empty")
	ErrInvalidRequest    = errors.New("question and reference answer are required")
	ErrMissingCredential = errors.New("no provider credential supplied and no server key configured")
)

// TranscriptionError means the audio could not be turned into usable text
type TranscriptionError struct {
	Provider string
	Err      error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription via %s failed: %v", e.Provider, e.Err)
}

func (e *TranscriptionError) Unwrap() error {
	return e.Err
}

// ScoringError means the scoring model could not be reached or gave no reply
type ScoringError struct {
	Provider string
	Err      error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring via %s failed: %v", e.Provider, e.Err)
}

func (e *ScoringError) Unwrap() error {
	return e.Err
}

// UpstreamStatus digs the HTTP status a provider answered with out of err.
// ok is false when err carries no upstream status.
func UpstreamStatus(err error) (status int, ok bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return reqErr.HTTPStatusCode, true
	}
	var httpErr *stt.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}
	return 0, false
}

// retryable reports whether another attempt could succeed
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	status, ok := UpstreamStatus(err)
	if !ok {
		return false
	}
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
