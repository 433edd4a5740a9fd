package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"interviewcoach/internal/config"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenAIScorer_Complete(t *testing.T) {
	testCases := []struct {
		name       string
		status     int
		reply      string
		wantReply  string
		wantErr    error
		wantStatus int
	}{
		{
			name:      "first choice",
			status:    http.StatusOK,
			reply:     `{"choices":[{"index":0,"message":{"role":"assistant","content":"  Score: 4\nExplanation: solid  "}}],"usage":{"total_tokens":12}}`,
			wantReply: "Score: 4\nExplanation: solid",
		},
		{
			name:    "no choices",
			status:  http.StatusOK,
			reply:   `{"choices":[]}`,
			wantErr: ErrEmptyCompletion,
		},
		{
			name:       "rate limited",
			status:     http.StatusTooManyRequests,
			reply:      `{"error":{"message":"slow down","type":"rate_limit"}}`,
			wantStatus: http.StatusTooManyRequests,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got openai.ChatCompletionRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/chat/completions", r.URL.Path)
				assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.reply))
			}))
			defer srv.Close()

			scorer := NewOpenAIScorer("sk-test", srv.URL, "", 0, zap.NewNop())
			reply, err := scorer.Complete(context.Background(), "grade this")

			assert.Equal(t, openai.GPT4oMini20240718, got.Model)
			require.Len(t, got.Messages, 1)
			assert.Equal(t, openai.ChatMessageRoleUser, got.Messages[0].Role)
			assert.Equal(t, "grade this", got.Messages[0].Content)

			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.wantStatus != 0:
				var apiErr *openai.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, tc.wantStatus, apiErr.HTTPStatusCode)
			default:
				require.NoError(t, err)
				assert.Equal(t, tc.wantReply, reply)
			}
		})
	}
}

func TestNewScorer(t *testing.T) {
	testCases := []struct {
		name       string
		cfg        *config.Config
		credential string
		wantName   string
		wantErr    bool
	}{
		{name: "credential wins", cfg: &config.Config{ScoringProvider: "openai"}, credential: "sk-caller", wantName: "openai"},
		{name: "server key", cfg: &config.Config{OpenAIKey: "sk-server"}, wantName: "openai"},
		{name: "no key", cfg: &config.Config{ScoringProvider: "openai"}, wantErr: true},
		{name: "zhipu without key", cfg: &config.Config{ScoringProvider: "zhipu"}, wantErr: true},
		{name: "zhipu", cfg: &config.Config{ScoringProvider: "zhipu", ZhipuAPIKey: "key-id.key-secret"}, credential: "sk-caller", wantName: "zhipu"},
		{name: "unknown", cfg: &config.Config{ScoringProvider: "parrot", OpenAIKey: "sk"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			scorer, err := NewScorer(tc.cfg, tc.credential, zap.NewNop())
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantName, scorer.Name())
		})
	}
}
