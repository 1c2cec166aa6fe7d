// Package gateway exposes the conversion handler over HTTP.
//
// The gateway is a thin invocation-layer adapter: it decodes the request,
// delegates every decision to the conversion handler, and mirrors the
// handler's status code onto the HTTP response. Stored audio can be fetched
// back through the download route.
package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/book-expert/logger"
	"github.com/book-expert/narration-service/internal/core"
	"github.com/book-expert/narration-service/internal/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

const contentTypeMPEG = "audio/mpeg"

// Gateway routes HTTP requests to the conversion handler and object store.
type Gateway struct {
	conversionHandler *handler.ConversionHandler
	store             core.ObjectStore
	log               *logger.Logger
}

// New creates a Gateway backed by the given handler and store.
func New(
	conversionHandler *handler.ConversionHandler,
	store core.ObjectStore,
	log *logger.Logger,
) *Gateway {
	return &Gateway{
		conversionHandler: conversionHandler,
		store:             store,
		log:               log,
	}
}

// Router builds the chi router with all gateway routes attached.
func (g *Gateway) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(cors.AllowAll().Handler)

	g.Attach(router)

	return router
}

// Attach registers the gateway routes on an existing router.
func (g *Gateway) Attach(router chi.Router) {
	router.Post("/v1/speech", g.handleSpeech)
	router.Get("/v1/audio/{key}", g.handleAudioDownload)
	router.Get("/health", g.handleHealth)
}

func (g *Gateway) handleSpeech(responseWriter http.ResponseWriter, request *http.Request) {
	var conversionRequest handler.Request

	err := json.NewDecoder(request.Body).Decode(&conversionRequest)
	if err != nil {
		g.log.Error("Failed to decode speech request: %v", err)

		writeResponse(responseWriter, handler.Response{
			StatusCode: http.StatusBadRequest,
			Body: handler.ResponseBody{
				Message: "Invalid request",
				FileURL: "",
				Error:   "failed to decode request body: " + err.Error(),
			},
			Key: "",
		})

		return
	}

	response := g.conversionHandler.Handle(request.Context(), conversionRequest)

	writeResponse(responseWriter, response)
}

func (g *Gateway) handleAudioDownload(responseWriter http.ResponseWriter, request *http.Request) {
	key := chi.URLParam(request, "key")

	data, err := g.store.Download(request.Context(), key)
	if err != nil {
		g.log.Error("Failed to download audio for key '%s': %v", key, err)
		http.Error(responseWriter, "audio not found", http.StatusNotFound)

		return
	}

	responseWriter.Header().Set("Content-Type", contentTypeMPEG)

	_, err = responseWriter.Write(data)
	if err != nil {
		g.log.Error("Failed to write audio response for key '%s': %v", key, err)
	}
}

func (g *Gateway) handleHealth(responseWriter http.ResponseWriter, _ *http.Request) {
	responseWriter.Header().Set("Content-Type", "application/json")
	responseWriter.WriteHeader(http.StatusOK)

	_, _ = responseWriter.Write([]byte(`{"status":"ok"}`))
}

// writeResponse mirrors the handler's status code onto the HTTP layer and
// serializes the full response envelope.
func writeResponse(responseWriter http.ResponseWriter, response handler.Response) {
	responseWriter.Header().Set("Content-Type", "application/json")
	responseWriter.WriteHeader(response.StatusCode)

	encoder := json.NewEncoder(responseWriter)
	encoder.SetEscapeHTML(false)

	_ = encoder.Encode(response)
}
