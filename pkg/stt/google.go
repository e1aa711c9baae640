package stt

import (
	"context"
	"log/slog"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const providerGoogle = "google"

// Google implements Provider using Google Cloud Speech-to-Text.
// Authentication uses Application Default Credentials, so no API key
// option is required; WithLanguage and WithLogger still apply.
type Google struct {
	config *Config
	client *speech.Client
	logger *slog.Logger
}

// NewGoogle creates a Google Cloud Speech transcription provider.
func NewGoogle(ctx context.Context, opts ...Option) (*Google, error) {
	cfg := DefaultConfig()
	cfg.Language = "en-US"
	cfg.Apply(opts...)

	var clientOpts []option.ClientOption
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.BaseURL))
	}
	client, err := speech.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, WrapError(providerGoogle, err)
	}

	return &Google{
		config: cfg,
		client: client,
		logger: cfg.Logger.With("component", "stt.google"),
	}, nil
}

// Transcribe runs a synchronous recognition request on the audio.
func (g *Google) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", WrapError(providerGoogle, ErrEmptyAudio)
	}

	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	resp, err := g.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			// Encoding left unspecified: the service reads it from the
			// container header for WAV/FLAC uploads.
			LanguageCode: g.config.Language,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", WrapError(providerGoogle, err)
	}

	var sb strings.Builder
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(result.Alternatives[0].Transcript)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", WrapError(providerGoogle, ErrNoSpeech)
	}

	g.logger.Debug("transcribed audio", "bytes", len(audio), "chars", len(text))
	return text, nil
}

// Health verifies the client can reach the service.
func (g *Google) Health(ctx context.Context) error {
	// Recognize with no audio fails fast with InvalidArgument when the
	// service and credentials are reachable; transport errors mean not.
	_, err := g.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{LanguageCode: g.config.Language},
		Audio:  &speechpb.RecognitionAudio{AudioSource: &speechpb.RecognitionAudio_Content{}},
	})
	return healthVerdict(err)
}

// healthVerdict classifies a Recognize probe error by gRPC status code.
// InvalidArgument means the probe reached the service, so the client is
// healthy; every other failure code is reported.
func healthVerdict(err error) error {
	switch status.Code(err) {
	case codes.OK, codes.InvalidArgument:
		return nil
	default:
		return WrapError(providerGoogle, err)
	}
}

// Close releases the underlying gRPC connection.
func (g *Google) Close() error {
	return g.client.Close()
}

// Verify Google implements Provider at compile time.
var _ Provider = (*Google)(nil)
