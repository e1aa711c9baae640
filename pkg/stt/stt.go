// Package stt provides a unified interface for speech-to-text providers.
//
// The package supports remote transcription backends behind a common
// Provider interface. AssemblyAI is the default; Google Cloud Speech is
// available as an alternate. All providers make a single attempt per call
// and surface upstream faults as typed errors.
//
// Example usage:
//
//	provider, _ := stt.NewAssemblyAI(
//	    stt.WithAPIKey(os.Getenv("ASSEMBLYAI_API_KEY")),
//	)
//	defer provider.Close()
//
//	text, _ := provider.Transcribe(ctx, audioBytes)
package stt

import "context"

// Provider defines the speech-to-text provider interface.
type Provider interface {
	// Transcribe converts raw audio bytes to trimmed text.
	// Returns ErrNoSpeech when the audio carries no detectable speech.
	Transcribe(ctx context.Context, audio []byte) (string, error)

	// Health checks provider connectivity and API key validity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}
