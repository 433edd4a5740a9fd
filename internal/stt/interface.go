package stt

import "context"

//go:generate mockgen -source=./interface.go -destination=./mocks/provider.mock.go -package=sttmocks Provider

// Provider defines the interface for speech-to-text providers
type Provider interface {
	// Transcribe transcribes the given audio and returns the result
	Transcribe(ctx context.Context, audio Audio) (*Result, error)

	// Name returns the name of the provider (e.g., "openai", "fpt", "google")
	Name() string
}
