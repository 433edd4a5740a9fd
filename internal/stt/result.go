package stt

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrEmptyTranscript = errors.New("empty transcript returned")
	ErrMissingAPIKey   = errors.New("transcription API key is not set")

	// ErrNotConfigured marks a server-side provider whose key is absent
	ErrNotConfigured = errors.New("transcription provider is not configured")
)

// Audio is an uploaded recording kept in memory
type Audio struct {
	Data        []byte
	Filename    string // original file name, used for format detection
	ContentType string
}

// Ext returns the lower-cased file extension, including the dot
func (a Audio) Ext() string {
	return strings.ToLower(filepath.Ext(a.Filename))
}

// Result represents the result of a speech-to-text transcription
type Result struct {
	Transcript  string  // The transcribed text
	Confidence  float64 // Confidence score (0.0-1.0), may be 0 if not provided
	Provider    string  // The provider used (e.g., "openai", "fpt", "google")
	RawResponse string  // Raw response from the provider (for debugging/logging)
}

// HTTPError is a non-2xx reply from a REST provider
type HTTPError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s API returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
