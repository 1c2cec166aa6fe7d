// Package worker provides a NATS worker that serves narration requests.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/book-expert/events"
	"github.com/book-expert/logger"
	"github.com/book-expert/narration-service/internal/handler"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const handleMessageTimeout = 120 * time.Second

// Every successful conversion counts as a single complete artifact.
const (
	singlePageNumber = 1
	singleTotalPages = 1
)

// NatsWorker listens for narration requests on a NATS subject, runs the
// conversion handler, and replies with the structured response. Successful
// conversions additionally publish an audio-stored notification event.
type NatsWorker struct {
	natsConnection     *nats.Conn
	subject            string
	audioStoredSubject string
	conversionHandler  *handler.ConversionHandler
	log                *logger.Logger
}

// NewNatsWorker creates a new instance of a NATS worker.
func NewNatsWorker(
	natsConnection *nats.Conn,
	subject string,
	audioStoredSubject string,
	conversionHandler *handler.ConversionHandler,
	log *logger.Logger,
) (*NatsWorker, error) {
	return &NatsWorker{
		natsConnection:     natsConnection,
		subject:            subject,
		audioStoredSubject: audioStoredSubject,
		conversionHandler:  conversionHandler,
		log:                log,
	}, nil
}

// Run starts the worker and begins listening for messages.
func (w *NatsWorker) Run(ctx context.Context) error {
	sub, err := w.natsConnection.Subscribe(w.subject, w.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.subject, err)
	}

	<-ctx.Done()

	drainErr := sub.Drain()
	if drainErr != nil {
		return fmt.Errorf("failed to drain subscription: %w", drainErr)
	}

	return nil
}

func (w *NatsWorker) handleMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleMessageTimeout)
	defer cancel()

	response := w.process(ctx, msg.Data)

	err := w.respond(msg, response)
	if err != nil {
		w.log.Error("Failed to reply to narration request: %v", err)

		return
	}

	if response.StatusCode == http.StatusOK {
		w.publishAudioStored(response.Key)
	}
}

// process decodes the request payload and runs the conversion handler.
// A payload that is not valid JSON never reaches the handler; it is mapped
// to the same client-error response as an empty text.
func (w *NatsWorker) process(ctx context.Context, payload []byte) handler.Response {
	var request handler.Request

	err := json.Unmarshal(payload, &request)
	if err != nil {
		w.log.Error("Failed to unmarshal narration request: %v", err)

		return handler.Response{
			StatusCode: http.StatusBadRequest,
			Body: handler.ResponseBody{
				Message: "Invalid request",
				FileURL: "",
				Error:   fmt.Sprintf("failed to unmarshal request: %v", err),
			},
			Key: "",
		}
	}

	return w.conversionHandler.Handle(ctx, request)
}

// respond marshals the handler response and replies on the request's inbox.
func (w *NatsWorker) respond(msg *nats.Msg, response handler.Response) error {
	replyData, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	err = msg.Respond(replyData)
	if err != nil {
		return fmt.Errorf("failed to publish response: %w", err)
	}

	return nil
}

// publishAudioStored emits a fire-and-forget notification naming the stored
// key. A publish failure is logged, never surfaced to the caller: the
// conversion itself already succeeded.
func (w *NatsWorker) publishAudioStored(audioKey string) {
	event := &events.AudioChunkCreatedEvent{
		Header: events.EventHeader{
			Timestamp:  time.Now(),
			WorkflowID: uuid.NewString(),
			EventID:    uuid.NewString(),
			UserID:     "",
			TenantID:   "",
		},
		AudioKey:   audioKey,
		PageNumber: singlePageNumber,
		TotalPages: singleTotalPages,
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		w.log.Error("Failed to marshal audio stored event for key '%s': %v", audioKey, err)

		return
	}

	err = w.natsConnection.Publish(w.audioStoredSubject, eventData)
	if err != nil {
		w.log.Error("Failed to publish audio stored event for key '%s': %v", audioKey, err)
	}
}
