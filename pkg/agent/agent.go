// Package agent orchestrates the three-stage voice chat pipeline:
// transcribe the uploaded audio, generate a reply from the session
// history, synthesize the reply as speech. Stages run strictly
// sequentially; each stage's output feeds the next and each failure is
// reported with its stage attached.
package agent

import (
	"context"
	"log/slog"
	"time"

	"voiceagent/pkg/conversation"
	"voiceagent/pkg/llm"
	"voiceagent/pkg/stt"
	"voiceagent/pkg/tts"
)

// Result is the successful output of one chat call. Never partially
// populated: a missing audio URL means the whole call failed.
type Result struct {
	AudioURL string
	UserText string
	AIText   string
}

// Agent runs the chat pipeline against a set of providers and the
// conversation store. Any provider may be nil when its credentials are
// missing; Chat then fails with ErrUnavailable before doing any work.
type Agent struct {
	stt    stt.Provider
	llm    llm.Provider
	tts    tts.Synthesizer
	store  conversation.Store
	logger *slog.Logger
}

// New creates an Agent. Pass nil for providers that are not configured.
func New(sttProvider stt.Provider, llmProvider llm.Provider, synth tts.Synthesizer, store conversation.Store, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		stt:    sttProvider,
		llm:    llmProvider,
		tts:    synth,
		store:  store,
		logger: logger.With("component", "agent"),
	}
}

// Available reports whether all three downstream clients are configured.
func (a *Agent) Available() bool {
	return a.stt != nil && a.llm != nil && a.tts != nil
}

// Store exposes the conversation store for diagnostics.
func (a *Agent) Store() conversation.Store {
	return a.store
}

// Chat runs one full pipeline pass for a session.
//
// Store mutation ordering is deliberate and load-bearing:
//   - a failed transcription touches nothing;
//   - the user turn is appended before generation so the model sees it,
//     and it stays appended when generation fails, with no rollback;
//   - the model turn is appended only after a successful generation;
//   - a failed synthesis keeps the committed text exchange but the call
//     still fails: the endpoint promises audio or nothing.
func (a *Agent) Chat(ctx context.Context, sessionID string, audio []byte, voiceID string) (*Result, error) {
	if !a.Available() {
		return nil, ErrUnavailable
	}

	start := time.Now()
	log := a.logger.With("session", sessionID)
	log.Info("chat started", "audio_bytes", len(audio), "voice", voiceID)

	userText, err := a.stt.Transcribe(ctx, audio)
	if err != nil {
		log.Warn("transcription failed", "error", err)
		return nil, &StageError{Stage: StageTranscribe, Err: err}
	}

	a.store.Append(sessionID, conversation.RoleUser, userText)

	aiText, err := a.llm.GenerateReply(ctx, toMessages(a.store.Get(sessionID)))
	if err != nil {
		log.Warn("generation failed", "error", err)
		return nil, &StageError{Stage: StageGenerate, Err: err}
	}

	a.store.Append(sessionID, conversation.RoleModel, aiText)

	audioURL, err := a.tts.Synthesize(ctx, aiText, voiceID)
	if err != nil {
		log.Warn("synthesis failed", "error", err)
		return nil, &StageError{Stage: StageSynthesize, Err: err}
	}

	log.Info("chat completed",
		"turns", a.store.Len(sessionID),
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return &Result{
		AudioURL: audioURL,
		UserText: userText,
		AIText:   aiText,
	}, nil
}

// toMessages converts stored turns to the generator's message type.
func toMessages(history []conversation.Turn) []llm.Message {
	messages := make([]llm.Message, len(history))
	for i, turn := range history {
		messages[i] = llm.Message{
			Role:    llm.Role(turn.Role),
			Content: turn.Content,
		}
	}
	return messages
}
