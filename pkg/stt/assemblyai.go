package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"voiceagent/internal/httpc"
)

const (
	assemblyAIBaseURL  = "https://api.assemblyai.com"
	providerAssemblyAI = "assemblyai"
)

// AssemblyAI implements Provider using the AssemblyAI REST API.
// A transcription is three calls on the wire: upload the audio, create a
// transcript job, then poll the job until it completes or fails. The whole
// sequence shares one timeout budget.
type AssemblyAI struct {
	config  *Config
	client  *http.Client
	logger  *slog.Logger
	baseURL string
}

// NewAssemblyAI creates a new AssemblyAI transcription provider.
func NewAssemblyAI(opts ...Option) (*AssemblyAI, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = assemblyAIBaseURL
	}

	return &AssemblyAI{
		config:  cfg,
		client:  httpc.NewClient(cfg.Timeout),
		logger:  cfg.Logger.With("component", "stt.assemblyai"),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

type transcriptResource struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// Transcribe uploads the audio and polls the transcript job to completion.
func (a *AssemblyAI) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", WrapError(providerAssemblyAI, ErrEmptyAudio)
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	uploadURL, err := a.upload(ctx, audio)
	if err != nil {
		return "", err
	}

	id, err := a.createTranscript(ctx, uploadURL)
	if err != nil {
		return "", err
	}

	tr, err := a.pollTranscript(ctx, id)
	if err != nil {
		return "", err
	}

	if tr.Error != "" {
		return "", WrapError(providerAssemblyAI, fmt.Errorf("transcription failed: %s", tr.Error))
	}

	text := strings.TrimSpace(tr.Text)
	if text == "" {
		return "", WrapError(providerAssemblyAI, ErrNoSpeech)
	}

	a.logger.Debug("transcribed audio",
		"bytes", len(audio),
		"chars", len(text),
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return text, nil
}

// Health checks API connectivity and API key validity.
func (a *AssemblyAI) Health(ctx context.Context) error {
	// Listing transcripts is the cheapest authenticated call.
	req, err := http.NewRequestWithContext(ctx, "GET", a.baseURL+"/v2/transcript?limit=1", nil)
	if err != nil {
		return WrapError(providerAssemblyAI, err)
	}
	req.Header.Set("authorization", a.config.APIKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return WrapError(providerAssemblyAI, fmt.Errorf("health check: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return a.parseError(resp)
	}
	return nil
}

// Close releases resources held by the provider.
func (a *AssemblyAI) Close() error {
	a.client.CloseIdleConnections()
	return nil
}

// upload sends the raw audio and returns the temporary upload URL.
func (a *AssemblyAI) upload(ctx context.Context, audio []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/v2/upload", bytes.NewReader(audio))
	if err != nil {
		return "", WrapError(providerAssemblyAI, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("authorization", a.config.APIKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", WrapError(providerAssemblyAI, fmt.Errorf("upload: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", a.parseError(resp)
	}

	var result struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", WrapError(providerAssemblyAI, fmt.Errorf("decode upload response: %w", err))
	}
	if result.UploadURL == "" {
		return "", WrapError(providerAssemblyAI, fmt.Errorf("upload response missing upload_url"))
	}
	return result.UploadURL, nil
}

// createTranscript starts a transcript job for the uploaded audio.
func (a *AssemblyAI) createTranscript(ctx context.Context, audioURL string) (string, error) {
	payload := map[string]interface{}{
		"audio_url": audioURL,
	}
	if a.config.Language != "" {
		payload["language_code"] = a.config.Language
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", WrapError(providerAssemblyAI, fmt.Errorf("marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/v2/transcript", bytes.NewReader(body))
	if err != nil {
		return "", WrapError(providerAssemblyAI, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("authorization", a.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", WrapError(providerAssemblyAI, fmt.Errorf("create transcript: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", a.parseError(resp)
	}

	var tr transcriptResource
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", WrapError(providerAssemblyAI, fmt.Errorf("decode transcript response: %w", err))
	}
	if tr.ID == "" {
		return "", WrapError(providerAssemblyAI, fmt.Errorf("transcript response missing id"))
	}
	return tr.ID, nil
}

// pollTranscript checks the job status until it is completed or errored.
func (a *AssemblyAI) pollTranscript(ctx context.Context, id string) (*transcriptResource, error) {
	url := fmt.Sprintf("%s/v2/transcript/%s", a.baseURL, id)

	for {
		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return nil, WrapError(providerAssemblyAI, fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("authorization", a.config.APIKey)

		resp, err := a.client.Do(req)
		if err != nil {
			return nil, WrapError(providerAssemblyAI, fmt.Errorf("poll transcript: %w", err))
		}

		if resp.StatusCode != http.StatusOK {
			err := a.parseError(resp)
			resp.Body.Close()
			return nil, err
		}

		var tr transcriptResource
		decodeErr := json.NewDecoder(resp.Body).Decode(&tr)
		resp.Body.Close()
		if decodeErr != nil {
			return nil, WrapError(providerAssemblyAI, fmt.Errorf("decode transcript: %w", decodeErr))
		}

		switch tr.Status {
		case "completed", "error":
			return &tr, nil
		}

		select {
		case <-ctx.Done():
			return nil, WrapError(providerAssemblyAI, ctx.Err())
		case <-time.After(a.config.PollInterval):
		}
	}
}

// parseError reads and parses an error response.
func (a *AssemblyAI) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error string `json:"error"`
	}

	message := string(body)
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		message = errResp.Error
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Provider:   providerAssemblyAI,
	}
}

// Verify AssemblyAI implements Provider at compile time.
var _ Provider = (*AssemblyAI)(nil)
