package llm

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
	geminiBaseURL  = "https://generativelanguage.googleapis.com/v1beta"
	providerGemini = "gemini"
)

// Gemini implements Provider for Google's generative-language API.
type Gemini struct {
	apiKey  string
	config  *Config
	client  *http.Client
	logger  *slog.Logger
	baseURL string
}

// NewGemini creates a Gemini reply-generation provider.
func NewGemini(opts ...Option) (*Gemini, error) {
	cfg := DefaultConfig()
	cfg.Model = "gemini-1.5-flash"
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = geminiBaseURL
	}

	return &Gemini{
		apiKey:  cfg.APIKey,
		config:  cfg,
		client:  httpc.NewClient(cfg.Timeout),
		logger:  cfg.Logger.With("component", "llm.gemini"),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateReply produces the next model reply for the given history.
func (g *Gemini) GenerateReply(ctx context.Context, history []Message) (string, error) {
	if len(history) == 0 {
		return "", WrapError(providerGemini, ErrEmptyHistory)
	}

	start := time.Now()

	// Gemini's contents format uses the same user/model roles as ours.
	contents := make([]map[string]interface{}, len(history))
	for i, msg := range history {
		contents[i] = map[string]interface{}{
			"role":  string(msg.Role),
			"parts": []map[string]string{{"text": msg.Content}},
		}
	}

	payload := map[string]interface{}{
		"contents": contents,
		"generationConfig": map[string]interface{}{
			"temperature":     g.config.Temperature,
			"maxOutputTokens": g.config.MaxTokens,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", WrapError(providerGemini, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.config.Model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", WrapError(providerGemini, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", WrapError(providerGemini, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", g.parseError(resp)
	}

	var result geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", WrapError(providerGemini, fmt.Errorf("decode response: %w", err))
	}

	if result.Error.Message != "" {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    result.Error.Message,
			Provider:   providerGemini,
		}
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", WrapError(providerGemini, ErrEmptyReply)
	}

	text := strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", WrapError(providerGemini, ErrEmptyReply)
	}

	g.logger.Debug("generated reply",
		"turns", len(history),
		"chars", len(text),
		"model", g.config.Model,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return text, nil
}

// Health checks API connectivity and API key validity.
func (g *Gemini) Health(ctx context.Context) error {
	url := fmt.Sprintf("%s/models?key=%s", g.baseURL, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return WrapError(providerGemini, err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return WrapError(providerGemini, fmt.Errorf("health check: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return g.parseError(resp)
	}
	return nil
}

// Close releases resources held by the provider.
func (g *Gemini) Close() error {
	g.client.CloseIdleConnections()
	return nil
}

// parseError reads and parses an error response.
func (g *Gemini) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	message := string(body)
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Provider:   providerGemini,
	}
}

// Verify Gemini implements Provider at compile time.
var _ Provider = (*Gemini)(nil)
