package agent

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned when one or more downstream services are not
// configured. The pipeline refuses to start any work in that case.
var ErrUnavailable = errors.New("agent: one or more services are unavailable")

// Stage identifies a pipeline step.
type Stage string

const (
	// StageTranscribe is the speech-to-text step.
	StageTranscribe Stage = "transcribe"

	// StageGenerate is the reply-generation step.
	StageGenerate Stage = "generate"

	// StageSynthesize is the text-to-speech step.
	StageSynthesize Stage = "synthesize"
)

// StageError reports which pipeline stage failed and why. Every stage
// failure is distinguishable by Stage; the underlying error keeps the
// provider detail.
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("agent: %s stage failed: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}

// AsStageError extracts a *StageError from err, or nil.
func AsStageError(err error) *StageError {
	var se *StageError
	if errors.As(err, &se) {
		return se
	}
	return nil
}
