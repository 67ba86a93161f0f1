package errors

import "errors"

// Pipeline error kinds. Each gateway or store failure wraps exactly one of
// these sentinels so callers can classify with errors.Is without inspecting
// provider-specific errors.
var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input caught
	// before any gateway call.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrTranscription wraps speech-to-text faults, including timeouts.
	ErrTranscription = errors.New("transcription failed")
	// ErrEmbedding wraps embedding faults, including empty or mis-sized vectors.
	ErrEmbedding = errors.New("embedding failed")
	// ErrSynthesis wraps answer-generation faults, including empty output.
	ErrSynthesis = errors.New("answer synthesis failed")
	// ErrPersistence wraps storage faults.
	ErrPersistence = errors.New("persistence failed")
)
