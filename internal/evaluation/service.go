package evaluation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"interviewcoach/internal/ai"
	"interviewcoach/internal/config"
	"interviewcoach/internal/metrics"
	"interviewcoach/internal/stt"

	"github.com/ecodeclub/ekit/retry"
	"go.uber.org/zap"
)

//go:generate mockgen -source=./service.go -destination=./mocks/service.mock.go -package=evalmocks Service

const (
	stageTranscription = "transcription"
	stageScoring       = "scoring"
)

// Request is one spoken answer to evaluate
type Request struct {
	Audio           stt.Audio
	Question        string
	ReferenceAnswer string
	// Credential is the caller's provider token; empty means the server key
	Credential string
}

// Service scores a recorded answer against the reference answer
type Service interface {
	Evaluate(ctx context.Context, req Request) (ai.ScoreResult, error)
}

type Options struct {
	TranscriptionTimeout time.Duration
	ScoringTimeout       time.Duration
	// MaxRetries bounds extra attempts on 429 and 5xx replies; 0 disables retry
	MaxRetries           int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		TranscriptionTimeout: cfg.TranscriptionTimeout,
		ScoringTimeout:       cfg.ScoringTimeout,
		MaxRetries:           cfg.UpstreamMaxRetries,
		RetryInitialInterval: 200 * time.Millisecond,
		RetryMaxInterval:     5 * time.Second,
	}
}

type service struct {
	cache   *ClientCache
	opts    Options
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewService(cache *ClientCache, opts Options, m *metrics.Metrics, logger *zap.Logger) Service {
	return &service{
		cache:   cache,
		opts:    opts,
		metrics: m,
		logger:  logger.Named("evaluation"),
	}
}

func (s *service) Evaluate(ctx context.Context, req Request) (res ai.ScoreResult, err error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveEvaluation(outcome(res, err))
	}()

	if len(req.Audio.Data) == 0 {
		return ai.ScoreResult{}, ErrEmptyAudio
	}
	if strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.ReferenceAnswer) == "" {
		return ai.ScoreResult{}, ErrInvalidRequest
	}

	clients, err := s.cache.Get(req.Credential)
	if err != nil {
		return ai.ScoreResult{}, err
	}

	transcript, err := s.transcribe(ctx, clients.Transcriber, req.Audio)
	if err != nil {
		return ai.ScoreResult{}, err
	}

	prompt := ai.BuildScorePrompt(req.Question, req.ReferenceAnswer, transcript)
	reply, err := s.score(ctx, clients.Scorer, prompt)
	if err != nil {
		return ai.ScoreResult{}, err
	}

	res = ai.ParseScoreResponse(reply)
	if res.Unscorable() {
		s.logger.Warn("scoring reply had neither score nor explanation",
			zap.Int("reply_length", len(reply)))
	}
	s.logger.Info("evaluation finished",
		zap.Bool("has_score", res.Score != nil),
		zap.Bool("has_explanation", res.Explanation != nil),
		zap.Int("transcript_length", len(transcript)),
		zap.Duration("duration", time.Since(start)))
	return res, nil
}

func (s *service) transcribe(ctx context.Context, p stt.Provider, audio stt.Audio) (string, error) {
	ctx, cancel := withTimeout(ctx, s.opts.TranscriptionTimeout)
	defer cancel()

	var transcript string
	err := s.withRetry(ctx, stageTranscription, p.Name(), func(ctx context.Context) error {
		result, err := p.Transcribe(ctx, audio)
		if err != nil {
			return err
		}
		if result == nil || strings.TrimSpace(result.Transcript) == "" {
			return stt.ErrEmptyTranscript
		}
		transcript = strings.TrimSpace(result.Transcript)
		return nil
	})
	if err != nil {
		return "", &TranscriptionError{Provider: p.Name(), Err: err}
	}
	return transcript, nil
}

func (s *service) score(ctx context.Context, sc ai.Scorer, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, s.opts.ScoringTimeout)
	defer cancel()

	var reply string
	err := s.withRetry(ctx, stageScoring, sc.Name(), func(ctx context.Context) error {
		var err error
		reply, err = sc.Complete(ctx, prompt)
		return err
	})
	if err != nil {
		return "", &ScoringError{Provider: sc.Name(), Err: err}
	}
	return reply, nil
}

// withRetry runs call until it succeeds, fails for good, or the backoff
// strategy runs out. The last error is returned.
func (s *service) withRetry(ctx context.Context, stage, provider string, call func(ctx context.Context) error) error {
	var strategy *retry.ExponentialBackoffRetryStrategy
	if s.opts.MaxRetries > 0 {
		var err error
		strategy, err = retry.NewExponentialBackoffRetryStrategy(
			s.opts.RetryInitialInterval, s.opts.RetryMaxInterval, int32(s.opts.MaxRetries))
		if err != nil {
			return fmt.Errorf("invalid retry settings: %w", err)
		}
	}

	for attempt := 1; ; attempt++ {
		start := time.Now()
		err := call(ctx)
		s.metrics.ObserveUpstream(stage, provider, time.Since(start), err)
		if err == nil {
			return nil
		}
		if strategy == nil || !retryable(err) || ctx.Err() != nil {
			return err
		}
		wait, ok := strategy.Next()
		if !ok {
			return err
		}
		s.logger.Warn("upstream call failed, retrying",
			zap.String("stage", stage),
			zap.String("provider", provider),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func outcome(res ai.ScoreResult, err error) string {
	switch {
	case err == nil && res.Score != nil:
		return metrics.OutcomeScored
	case err == nil:
		return metrics.OutcomeUnscorable
	case errors.Is(err, ErrEmptyAudio), errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrMissingCredential):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeFailed
	}
}
