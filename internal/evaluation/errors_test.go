package evaluation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"interviewcoach/internal/stt"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
)

func TestUpstreamStatus(t *testing.T) {
	testCases := []struct {
		name          string
		err           error
		wantStatus    int
		wantOK        bool
		wantRetryable bool
	}{
		{
			name:          "openai api error",
			err:           &ScoringError{Provider: "openai", Err: fmt.Errorf("OpenAI API error: %w", &openai.APIError{HTTPStatusCode: 429})},
			wantStatus:    http.StatusTooManyRequests,
			wantOK:        true,
			wantRetryable: true,
		},
		{
			name:          "openai request error",
			err:           &openai.RequestError{HTTPStatusCode: 502, Err: errors.New("bad gateway")},
			wantStatus:    http.StatusBadGateway,
			wantOK:        true,
			wantRetryable: true,
		},
		{
			name:       "rest provider unauthorized",
			err:        &TranscriptionError{Provider: "fpt", Err: &stt.HTTPError{Provider: "FPT.AI", StatusCode: 401}},
			wantStatus: http.StatusUnauthorized,
			wantOK:     true,
		},
		{
			name: "plain error",
			err:  errors.New("dial tcp: connection refused"),
		},
		{
			name: "deadline",
			err:  fmt.Errorf("wrapped: %w", context.DeadlineExceeded),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, ok := UpstreamStatus(tc.err)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantRetryable, retryable(tc.err))
		})
	}
}
