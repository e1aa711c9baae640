package agent_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"voiceagent/pkg/agent"
	"voiceagent/pkg/conversation"
	"voiceagent/pkg/llm"
	"voiceagent/pkg/stt"
	"voiceagent/pkg/tts"
)

func newAgent(sttP stt.Provider, llmP llm.Provider, ttsP tts.Synthesizer) (*agent.Agent, *conversation.MemoryStore) {
	store := conversation.NewMemoryStore()
	return agent.New(sttP, llmP, ttsP, store, nil), store
}

func TestChat_Scenario(t *testing.T) {
	// First turn on session s1: transcribe "What's 2+2?", generate "4",
	// synthesize http://x/1.mp3; the second call must present the prior
	// two turns plus the new user turn to the generator.
	sttMock := stt.NewMock("What's 2+2?")
	llmMock := llm.NewMock("4")
	ttsMock := tts.NewMock("http://x/1.mp3")
	a, store := newAgent(sttMock, llmMock, ttsMock)

	result, err := a.Chat(context.Background(), "s1", []byte("audio-1"), "en-US-natalie")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AudioURL != "http://x/1.mp3" {
		t.Errorf("AudioURL = %q", result.AudioURL)
	}
	if result.UserText != "What's 2+2?" {
		t.Errorf("UserText = %q", result.UserText)
	}
	if result.AIText != "4" {
		t.Errorf("AIText = %q", result.AIText)
	}

	histories := llmMock.Histories()
	if len(histories) != 1 || len(histories[0]) != 1 {
		t.Fatalf("first call should present exactly the new user turn, got %+v", histories)
	}

	// Second call on the same session.
	sttMock.TranscribeFunc = func(ctx context.Context, audio []byte) (string, error) {
		return "double it", nil
	}
	llmMock.GenerateReplyFunc = func(ctx context.Context, history []llm.Message) (string, error) {
		return "8", nil
	}
	if _, err := a.Chat(context.Background(), "s1", []byte("audio-2"), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	histories = llmMock.Histories()
	if len(histories) != 2 {
		t.Fatalf("expected 2 generator calls, got %d", len(histories))
	}
	second := histories[1]
	if len(second) != 3 {
		t.Fatalf("second call should see prior user+model turns plus the new user turn, got %d messages", len(second))
	}
	if second[0].Role != llm.RoleUser || second[0].Content != "What's 2+2?" {
		t.Errorf("unexpected history[0]: %+v", second[0])
	}
	if second[1].Role != llm.RoleModel || second[1].Content != "4" {
		t.Errorf("unexpected history[1]: %+v", second[1])
	}
	if second[2].Role != llm.RoleUser || second[2].Content != "double it" {
		t.Errorf("unexpected history[2]: %+v", second[2])
	}

	if store.Len("s1") != 4 {
		t.Errorf("expected 4 stored turns after 2 chats, got %d", store.Len("s1"))
	}

	// The synthesizer received the reply text and the requested voice.
	calls := ttsMock.Calls()
	if calls[0].Text != "4" || calls[0].VoiceID != "en-US-natalie" {
		t.Errorf("unexpected first synthesis call: %+v", calls[0])
	}
}

func TestChat_TurnSequenceAfterNSuccessfulCalls(t *testing.T) {
	const n = 5
	counter := 0
	sttMock := &stt.Mock{
		TranscribeFunc: func(ctx context.Context, audio []byte) (string, error) {
			counter++
			return fmt.Sprintf("question %d", counter), nil
		},
	}
	a, store := newAgent(sttMock, llm.NewMock("answer"), tts.NewMock("http://x/a.mp3"))

	for i := 0; i < n; i++ {
		if _, err := a.Chat(context.Background(), "s1", []byte("audio"), ""); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}

	history := store.Get("s1")
	if len(history) != 2*n {
		t.Fatalf("expected %d turns, got %d", 2*n, len(history))
	}
	for i, turn := range history {
		want := conversation.RoleUser
		if i%2 == 1 {
			want = conversation.RoleModel
		}
		if turn.Role != want {
			t.Errorf("turn %d role = %q, want %q", i, turn.Role, want)
		}
	}
}

func TestChat_TranscriptionFailureMutatesNothing(t *testing.T) {
	a, store := newAgent(
		stt.WithError(stt.ErrNoSpeech),
		llm.NewMock("unused"),
		tts.NewMock("http://x/a.mp3"),
	)

	_, err := a.Chat(context.Background(), "s1", []byte("silence"), "")
	se := agent.AsStageError(err)
	if se == nil || se.Stage != agent.StageTranscribe {
		t.Fatalf("expected transcribe StageError, got %v", err)
	}
	if !errors.Is(err, stt.ErrNoSpeech) {
		t.Errorf("expected ErrNoSpeech in chain, got %v", err)
	}
	if store.Len("s1") != 0 {
		t.Errorf("failed transcription must not mutate the store, have %d turns", store.Len("s1"))
	}
}

// A failed generation keeps the already-appended user turn and records no
// model turn. That asymmetry matches the original behavior on purpose:
// the user turn is not rolled back.
func TestChat_GenerationFailureKeepsUserTurnWithoutReply(t *testing.T) {
	a, store := newAgent(
		stt.NewMock("hello?"),
		llm.WithError(llm.ErrEmptyReply),
		tts.NewMock("http://x/a.mp3"),
	)

	_, err := a.Chat(context.Background(), "s1", []byte("audio"), "")
	se := agent.AsStageError(err)
	if se == nil || se.Stage != agent.StageGenerate {
		t.Fatalf("expected generate StageError, got %v", err)
	}

	history := store.Get("s1")
	if len(history) != 1 {
		t.Fatalf("expected exactly the user turn, got %d turns", len(history))
	}
	if history[0].Role != conversation.RoleUser || history[0].Content != "hello?" {
		t.Errorf("unexpected surviving turn: %+v", history[0])
	}
}

func TestChat_SynthesisFailureKeepsCommittedExchange(t *testing.T) {
	a, store := newAgent(
		stt.NewMock("hello?"),
		llm.NewMock("hi there"),
		tts.WithError(&tts.APIError{StatusCode: 502, Message: "render farm down", Provider: "murf"}),
	)

	result, err := a.Chat(context.Background(), "s1", []byte("audio"), "")
	if result != nil {
		t.Error("no partial result on synthesis failure")
	}
	se := agent.AsStageError(err)
	if se == nil || se.Stage != agent.StageSynthesize {
		t.Fatalf("expected synthesize StageError, got %v", err)
	}

	// Text exchange is already committed and stays.
	history := store.Get("s1")
	if len(history) != 2 {
		t.Fatalf("expected committed user+model turns, got %d", len(history))
	}
	if history[1].Role != conversation.RoleModel || history[1].Content != "hi there" {
		t.Errorf("unexpected model turn: %+v", history[1])
	}
}

func TestChat_UnavailableWhenProviderMissing(t *testing.T) {
	cases := []struct {
		name string
		stt  stt.Provider
		llm  llm.Provider
		tts  tts.Synthesizer
	}{
		{"no stt", nil, llm.NewMock("x"), tts.NewMock("u")},
		{"no llm", stt.NewMock("x"), nil, tts.NewMock("u")},
		{"no tts", stt.NewMock("x"), llm.NewMock("x"), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sttMock, _ := tc.stt.(*stt.Mock)
			a, store := newAgent(tc.stt, tc.llm, tc.tts)

			_, err := a.Chat(context.Background(), "s1", []byte("audio"), "")
			if !errors.Is(err, agent.ErrUnavailable) {
				t.Fatalf("expected ErrUnavailable, got %v", err)
			}
			if store.Len("s1") != 0 {
				t.Error("unavailable pipeline must not touch the store")
			}
			if sttMock != nil && sttMock.CallCount("Transcribe") != 0 {
				t.Error("unavailable pipeline must not call any provider")
			}
		})
	}
}
