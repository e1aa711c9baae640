package stt_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"voiceagent/pkg/stt"
)

func TestMockProvider(t *testing.T) {
	mock := stt.NewMock("hello there")
	ctx := context.Background()

	t.Run("Transcribe returns fixed text", func(t *testing.T) {
		text, err := mock.Transcribe(ctx, []byte("audio"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != "hello there" {
			t.Errorf("expected fixed transcript, got %q", text)
		}
	})

	t.Run("Health returns nil", func(t *testing.T) {
		if err := mock.Health(ctx); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Calls are tracked", func(t *testing.T) {
		if mock.CallCount("Transcribe") != 1 {
			t.Errorf("expected 1 Transcribe call, got %d", mock.CallCount("Transcribe"))
		}
		calls := mock.Calls()
		if len(calls) != 2 {
			t.Errorf("expected 2 calls, got %d", len(calls))
		}
		if calls[0].AudioBytes != 5 {
			t.Errorf("expected 5 audio bytes recorded, got %d", calls[0].AudioBytes)
		}
	})
}

func TestMockWithError(t *testing.T) {
	testErr := errors.New("boom")
	mock := stt.WithError(testErr)

	_, err := mock.Transcribe(context.Background(), []byte("audio"))
	if !errors.Is(err, testErr) {
		t.Errorf("expected test error, got %v", err)
	}
	if err := mock.Health(context.Background()); !errors.Is(err, testErr) {
		t.Errorf("expected test error from Health, got %v", err)
	}
}

func TestFunctionalOptions(t *testing.T) {
	cfg := stt.DefaultConfig()
	cfg.Apply(
		stt.WithAPIKey("k"),
		stt.WithBaseURL("http://localhost:9"),
		stt.WithLanguage("de"),
		stt.WithTimeout(5*time.Second),
		stt.WithPollInterval(time.Second),
	)

	if cfg.APIKey != "k" || cfg.BaseURL != "http://localhost:9" || cfg.Language != "de" {
		t.Errorf("options not applied: %+v", cfg)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", cfg.Timeout)
	}
	if cfg.PollInterval != time.Second {
		t.Errorf("expected poll interval 1s, got %v", cfg.PollInterval)
	}
}

func TestConfigValidation(t *testing.T) {
	cfg := stt.DefaultConfig()
	if err := cfg.Validate(); !errors.Is(err, stt.ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}

	cfg.APIKey = "test-key"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
