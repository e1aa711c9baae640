package llm

import (
	"context"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const providerOpenAI = "openai"

// OpenAI implements Provider using the OpenAI chat completions API.
// Also works against any OpenAI-compatible endpoint via WithBaseURL.
type OpenAI struct {
	config *Config
	client *openai.Client
	logger *slog.Logger
}

// NewOpenAI creates an OpenAI reply-generation provider.
func NewOpenAI(opts ...Option) (*OpenAI, error) {
	cfg := DefaultConfig()
	cfg.Model = openai.GPT4oMini
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAI{
		config: cfg,
		client: openai.NewClientWithConfig(clientCfg),
		logger: cfg.Logger.With("component", "llm.openai"),
	}, nil
}

// GenerateReply produces the next model reply for the given history.
func (o *OpenAI) GenerateReply(ctx context.Context, history []Message) (string, error) {
	if len(history) == 0 {
		return "", WrapError(providerOpenAI, ErrEmptyHistory)
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, len(history))
	for i, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.Role == RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages[i] = openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.config.Model,
		Messages:    messages,
		Temperature: float32(o.config.Temperature),
		MaxTokens:   o.config.MaxTokens,
	})
	if err != nil {
		return "", WrapError(providerOpenAI, err)
	}

	if len(resp.Choices) == 0 {
		return "", WrapError(providerOpenAI, ErrEmptyReply)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", WrapError(providerOpenAI, ErrEmptyReply)
	}

	o.logger.Debug("generated reply",
		"turns", len(history),
		"chars", len(text),
		"model", o.config.Model,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return text, nil
}

// Health checks API connectivity and API key validity.
func (o *OpenAI) Health(ctx context.Context) error {
	_, err := o.client.ListModels(ctx)
	if err != nil {
		return WrapError(providerOpenAI, err)
	}
	return nil
}

// Close releases resources held by the provider.
func (o *OpenAI) Close() error {
	return nil
}

// Verify OpenAI implements Provider at compile time.
var _ Provider = (*OpenAI)(nil)
