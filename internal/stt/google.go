package stt

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleScope   = "https://www.googleapis.com/auth/cloud-platform"
	googleBaseURL = "https://speech.googleapis.com"
)

// GoogleProvider implements STT using Google Cloud Speech-to-Text REST API
type GoogleProvider struct {
	projectID  string
	apiKey     string
	language   string
	baseURL    string
	httpClient *http.Client
	useAPIKey  bool // true if using API key, false if using service account
	logger     *zap.Logger
}

// isGoogleAPIKey reports whether keyData looks like an API key (39 chars, "AIzaSy" prefix)
func isGoogleAPIKey(keyData string) bool {
	return len(keyData) == 39 && strings.HasPrefix(keyData, "AIzaSy")
}

// NewGoogleProvider creates a new Google STT provider
// keyData can be either:
//   - An API key (39 characters, typically starts with "AIzaSy")
//   - A file path to a JSON key file (e.g., "./keys/google-service-account.json")
//   - A JSON string containing the service account credentials
func NewGoogleProvider(projectID, keyData, language string, logger *zap.Logger) (*GoogleProvider, error) {
	logger = logger.Named("google_stt")
	keyData = strings.TrimSpace(keyData)
	if language == "" {
		language = "en-US"
	}

	if isGoogleAPIKey(keyData) {
		logger.Info("using API key authentication")
		return &GoogleProvider{
			projectID:  projectID,
			apiKey:     keyData,
			language:   language,
			baseURL:    googleBaseURL,
			httpClient: &http.Client{Timeout: 90 * time.Second},
			useAPIKey:  true,
			logger:     logger,
		}, nil
	}

	// Otherwise, treat as service account (JSON file or JSON string)
	ctx := context.Background()
	var jsonData []byte
	if strings.HasPrefix(keyData, "{") {
		logger.Info("using service account JSON from environment variable")
		jsonData = []byte(keyData)
	} else {
		logger.Info("reading service account key file", zap.String("path", keyData))
		var err error
		jsonData, err = os.ReadFile(keyData)
		if err != nil {
			return nil, fmt.Errorf("failed to read key file '%s': %w", keyData, err)
		}
	}

	creds, err := google.CredentialsFromJSON(ctx, jsonData, googleScope)
	if err != nil {
		return nil, fmt.Errorf("failed to create credentials from JSON: %w", err)
	}

	client := oauth2.NewClient(ctx, creds.TokenSource)
	client.Timeout = 90 * time.Second
	return &GoogleProvider{
		projectID:  projectID,
		language:   language,
		baseURL:    googleBaseURL,
		httpClient: client,
		useAPIKey:  false,
		logger:     logger,
	}, nil
}

// Name returns the provider name
func (p *GoogleProvider) Name() string {
	return "google"
}

// GoogleSTTRequest represents Google Speech-to-Text API request
type GoogleSTTRequest struct {
	Config GoogleSTTConfig `json:"config"`
	Audio  GoogleSTTAudio  `json:"audio"`
}

// GoogleSTTConfig represents recognition config
type GoogleSTTConfig struct {
	Encoding                   string `json:"encoding"`
	SampleRateHertz            int    `json:"sampleRateHertz"`
	LanguageCode               string `json:"languageCode"`
	EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation"`
	Model                      string `json:"model,omitempty"`
}

// GoogleSTTAudio represents audio data
type GoogleSTTAudio struct {
	Content string `json:"content"` // Base64 encoded
}

// GoogleSTTResponse represents Google Speech-to-Text API response
type GoogleSTTResponse struct {
	Results []GoogleSTTResult `json:"results"`
	Error   *GoogleSTTError   `json:"error,omitempty"`
}

type GoogleSTTResult struct {
	Alternatives []GoogleSTTAlternative `json:"alternatives"`
}

type GoogleSTTAlternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

type GoogleSTTError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Transcribe transcribes audio using Google Cloud Speech-to-Text REST API.
// Results of consecutive segments are joined with a space.
func (p *GoogleProvider) Transcribe(ctx context.Context, audio Audio) (*Result, error) {
	startTime := time.Now()

	if len(audio.Data) < minAudioBytes {
		return nil, fmt.Errorf("audio file too small (%d bytes), may be empty or corrupted", len(audio.Data))
	}

	encoding, sampleRate := googleAudioConfig(audio.Ext())
	reqJSON, err := json.Marshal(GoogleSTTRequest{
		Config: GoogleSTTConfig{
			Encoding:                   encoding,
			SampleRateHertz:            sampleRate,
			LanguageCode:               p.language,
			EnableAutomaticPunctuation: true,
			Model:                      "latest_long",
		},
		Audio: GoogleSTTAudio{
			Content: base64.StdEncoding.EncodeToString(audio.Data),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var apiURL string
	if p.useAPIKey {
		apiURL = fmt.Sprintf("%s/v1/speech:recognize?key=%s", p.baseURL, p.apiKey)
	} else {
		apiURL = fmt.Sprintf("%s/v1/projects/%s:recognize", p.baseURL, p.projectID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(reqJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	p.logger.Debug("calling Google Speech-to-Text API",
		zap.String("encoding", encoding),
		zap.Int("size", len(audio.Data)))
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to Google Speech-to-Text: %w", err)
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
		}, &HTTPError{Provider: "Google Speech-to-Text", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var sttResp GoogleSTTResponse
	if err := json.Unmarshal(body, &sttResp); err != nil {
		return &Result{
			Provider:    p.Name(),
			RawResponse: string(body),
		}, fmt.Errorf("failed to parse Google Speech-to-Text response: %w", err)
	}

	if sttResp.Error != nil {
		return &Result{
			Provider:    p.Name(),
			RawResponse: string(body),
		}, fmt.Errorf("Google Speech-to-Text API error: %s", sttResp.Error.Message)
	}

	var (
		parts      []string
		confidence float64
	)
	for _, r := range sttResp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		alt := r.Alternatives[0]
		if t := strings.TrimSpace(alt.Transcript); t != "" {
			parts = append(parts, t)
			confidence += alt.Confidence
		}
	}

	if len(parts) == 0 {
		return &Result{
			Provider:    p.Name(),
			RawResponse: string(body),
		}, ErrEmptyTranscript
	}

	transcript := strings.Join(parts, " ")
	confidence /= float64(len(parts))
	p.logger.Info("transcription successful",
		zap.Float64("confidence", confidence),
		zap.Int("length", len(transcript)),
		zap.Duration("duration", time.Since(startTime)))

	return &Result{
		Transcript:  transcript,
		Confidence:  confidence,
		Provider:    p.Name(),
		RawResponse: string(body),
	}, nil
}

// googleAudioConfig determines encoding and sample rate based on file extension
func googleAudioConfig(ext string) (string, int) {
	switch ext {
	case ".wav":
		return "LINEAR16", 16000
	case ".mp3":
		return "MP3", 44100
	case ".ogg":
		return "OGG_OPUS", 48000
	case ".webm":
		return "WEBM_OPUS", 48000
	case ".flac":
		return "FLAC", 44100
	default:
		// Default to LINEAR16
		return "LINEAR16", 16000
	}
}
