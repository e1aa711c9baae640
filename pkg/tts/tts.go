// Package tts provides a unified interface for text-to-speech providers.
//
// Unlike byte-streaming TTS APIs, the providers here render speech
// server-side and hand back a URL to the hosted audio file, which is what
// the chat endpoint returns to the browser. Murf is the bundled provider.
//
// Example usage:
//
//	synth, _ := tts.NewMurf(
//	    tts.WithAPIKey(os.Getenv("MURF_API_KEY")),
//	)
//	defer synth.Close()
//
//	url, _ := synth.Synthesize(ctx, "Hello world", "")
package tts

import (
	"context"
	"unicode/utf8"
)

// MaxTextLen is the hard per-request character limit of the synthesis
// API. Longer text is truncated before submission, never rejected.
const MaxTextLen = 2999

// DefaultVoice is used when the caller does not pick a voice.
const DefaultVoice = "en-US-natalie"

// Synthesizer defines the text-to-speech provider interface.
type Synthesizer interface {
	// Synthesize renders text with the given voice preset and returns the
	// URL of the hosted audio file. An empty voiceID selects DefaultVoice.
	Synthesize(ctx context.Context, text, voiceID string) (string, error)

	// Health checks provider connectivity and API key validity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// Truncate clamps text to MaxTextLen characters. The limit counts
// characters, not bytes, so multibyte text is never cut mid-rune.
func Truncate(text string) string {
	if utf8.RuneCountInString(text) <= MaxTextLen {
		return text
	}
	return string([]rune(text)[:MaxTextLen])
}
