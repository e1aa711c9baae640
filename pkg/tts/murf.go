package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"voiceagent/internal/httpc"
)

const (
	murfAPIURL   = "https://api.murf.ai/v1/speech/generate"
	providerMurf = "murf"
)

// Murf implements Synthesizer using the Murf speech-generation API.
// One POST renders the full clip and returns a hosted audio URL. The API
// has answered with both `audio_url` and `audioFile` as the URL field
// across versions, so both are checked.
type Murf struct {
	config *Config
	client *http.Client
	logger *slog.Logger
	apiURL string
}

// NewMurf creates a new Murf synthesis provider.
func NewMurf(opts ...Option) (*Murf, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = murfAPIURL
	}

	return &Murf{
		config: cfg,
		client: httpc.NewClient(cfg.Timeout),
		logger: cfg.Logger.With("component", "tts.murf"),
		apiURL: apiURL,
	}, nil
}

type murfResponse struct {
	AudioURL  string `json:"audio_url"`
	AudioFile string `json:"audioFile"`
}

// Synthesize renders text and returns the hosted audio URL.
func (m *Murf) Synthesize(ctx context.Context, text, voiceID string) (string, error) {
	if text == "" {
		return "", WrapError(providerMurf, ErrEmptyText)
	}
	if voiceID == "" {
		voiceID = m.config.Voice
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, m.config.Timeout)
	defer cancel()

	// Hard protocol limit upstream: submit at most MaxTextLen characters.
	submitted := Truncate(text)
	payload := map[string]string{
		"text":     submitted,
		"voice_id": voiceID,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", WrapError(providerMurf, fmt.Errorf("marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", m.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", WrapError(providerMurf, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", m.config.APIKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", WrapError(providerMurf, fmt.Errorf("synthesis request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", m.parseError(resp)
	}

	var result murfResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", WrapError(providerMurf, fmt.Errorf("decode response: %w", err))
	}

	audioURL := result.AudioURL
	if audioURL == "" {
		audioURL = result.AudioFile
	}
	if audioURL == "" {
		return "", WrapError(providerMurf, ErrNoAudioURL)
	}

	m.logger.Debug("synthesized audio",
		"chars", utf8.RuneCountInString(submitted),
		"voice", voiceID,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return audioURL, nil
}

// Health checks API connectivity and API key validity with a 1-char render.
func (m *Murf) Health(ctx context.Context) error {
	_, err := m.Synthesize(ctx, ".", "")
	return err
}

// Close releases resources held by the provider.
func (m *Murf) Close() error {
	m.client.CloseIdleConnections()
	return nil
}

// parseError reads and parses an error response.
func (m *Murf) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		ErrorMessage string `json:"errorMessage"`
		Message      string `json:"message"`
	}

	message := string(body)
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.ErrorMessage != "" {
			message = errResp.ErrorMessage
		} else if errResp.Message != "" {
			message = errResp.Message
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Provider:   providerMurf,
	}
}

// Verify Murf implements Synthesizer at compile time.
var _ Synthesizer = (*Murf)(nil)
