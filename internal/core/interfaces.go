// Package core defines the core business logic and interfaces for the narration service.
package core

import (
	"context"
	"io"
)

// SpeechRequest holds the parameters for a single synthesis call.
// Voice and OutputFormat are fixed per deployment and filled in from
// configuration, never taken from the caller.
type SpeechRequest struct {
	Text         string
	Voice        string
	OutputFormat string
}

// Synthesizer defines the interface for a speech synthesis provider.
// Synthesize returns the audio as a lazy byte stream; the caller owns the
// stream and must drain and close it. A nil stream with a nil error means
// the provider produced no audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, req SpeechRequest) (io.ReadCloser, error)
}

// ObjectStore defines the interface for interacting with a key-value blob store.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	PublicURL(key string) string
}
