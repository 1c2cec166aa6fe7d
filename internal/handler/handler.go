// Package handler implements the text-to-speech conversion and storage handler.
//
// The handler is the single piece of orchestration in the service: validate
// the request, synthesize speech, drain the audio stream into memory, store
// the result under a fresh key, and map the outcome to a structured response.
// It is strictly single-attempt; nothing here retries or compensates.
package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/book-expert/logger"
	"github.com/book-expert/narration-service/internal/core"
	"github.com/book-expert/narration-service/internal/text"
)

const contentTypeMPEG = "audio/mpeg"

// Response messages.
const (
	msgInvalidRequest   = "Invalid request"
	msgConversionFailed = "Failed to convert text to speech"
	msgFmtStored        = "The audio file has been stored as %s"
)

// Static errors.
var (
	// ErrInvalidInput indicates the request text was missing or empty.
	ErrInvalidInput = errors.New("text must be present and non-empty")
	// ErrNoAudio indicates the synthesis provider returned no audio stream.
	ErrNoAudio = errors.New("provider returned no audio")
)

// Request is the inbound payload for a conversion.
type Request struct {
	Text string `json:"text"`
}

// ResponseBody carries the human-readable outcome of a conversion.
type ResponseBody struct {
	Message string `json:"message"`
	FileURL string `json:"fileUrl,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Response is the structured result relayed back to the invocation layer.
// StatusCode uses HTTP status semantics regardless of transport. Key holds
// the generated storage key on success for downstream notifications; it is
// not part of the wire shape.
type Response struct {
	StatusCode int          `json:"statusCode"`
	Body       ResponseBody `json:"body"`
	Key        string       `json:"-"`
}

// ConversionHandler orchestrates one text-to-speech conversion per call.
// Provider clients are constructed once at startup and injected, so the
// handler itself holds no connection state and is safe for concurrent use.
type ConversionHandler struct {
	synthesizer  core.Synthesizer
	store        core.ObjectStore
	normalizer   *text.Normalizer
	voice        string
	outputFormat string
	log          *logger.Logger
}

// New creates a ConversionHandler with the given providers and the fixed
// per-deployment voice and output format.
func New(
	synthesizer core.Synthesizer,
	store core.ObjectStore,
	voice, outputFormat string,
	log *logger.Logger,
) *ConversionHandler {
	return &ConversionHandler{
		synthesizer:  synthesizer,
		store:        store,
		normalizer:   text.NewNormalizer(),
		voice:        voice,
		outputFormat: outputFormat,
		log:          log,
	}
}

// Handle runs the full conversion chain and always returns a response.
// Invalid input short-circuits before any provider call; every other failure
// is caught here, logged, and collapsed into a server-error response.
func (h *ConversionHandler) Handle(ctx context.Context, req Request) Response {
	normalized := h.normalizer.Normalize(req.Text)
	if normalized == "" {
		h.log.Error("Rejected conversion request: %v", ErrInvalidInput)

		return Response{
			StatusCode: http.StatusBadRequest,
			Body: ResponseBody{
				Message: msgInvalidRequest,
				FileURL: "",
				Error:   ErrInvalidInput.Error(),
			},
			Key: "",
		}
	}

	key, err := h.convertAndStore(ctx, normalized)
	if err != nil {
		h.log.Error("Failed to convert text to speech: %v", err)

		return Response{
			StatusCode: http.StatusInternalServerError,
			Body: ResponseBody{
				Message: msgConversionFailed,
				FileURL: "",
				Error:   err.Error(),
			},
			Key: "",
		}
	}

	return Response{
		StatusCode: http.StatusOK,
		Body: ResponseBody{
			Message: fmt.Sprintf(msgFmtStored, key),
			FileURL: h.store.PublicURL(key),
			Error:   "",
		},
		Key: key,
	}
}

// convertAndStore performs the synthesize -> drain -> upload chain and
// returns the storage key of the persisted audio.
func (h *ConversionHandler) convertAndStore(ctx context.Context, normalized string) (string, error) {
	stream, err := h.synthesizer.Synthesize(ctx, core.SpeechRequest{
		Text:         normalized,
		Voice:        h.voice,
		OutputFormat: h.outputFormat,
	})
	if err != nil {
		return "", fmt.Errorf("failed to synthesize speech: %w", err)
	}

	if stream == nil {
		return "", ErrNoAudio
	}

	audioData, err := drainStream(stream)
	if err != nil {
		return "", err
	}

	key := NewAudioKey()

	err = h.store.Upload(ctx, key, audioData, contentTypeMPEG)
	if err != nil {
		return "", fmt.Errorf("failed to upload audio data for key '%s': %w", key, err)
	}

	return key, nil
}

// drainStream fully consumes the audio stream into a contiguous buffer,
// preserving chunk order, and closes it before the upload call so the
// provider connection is not held open across the storage round trip.
func drainStream(stream io.ReadCloser) ([]byte, error) {
	var buffer bytes.Buffer

	_, readErr := io.Copy(&buffer, stream)
	closeErr := stream.Close()

	if readErr != nil {
		return nil, fmt.Errorf("failed to drain audio stream: %w", readErr)
	}

	if closeErr != nil {
		return nil, fmt.Errorf("failed to close audio stream: %w", closeErr)
	}

	return buffer.Bytes(), nil
}
