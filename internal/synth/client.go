// Package synth provides the HTTP client for the speech synthesis provider.
//
// The provider exposes a small JSON-in, audio-out contract. The client
// returns the audio as an unread stream so the caller decides when and how
// to buffer it.
package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/book-expert/narration-service/internal/core"
)

// API endpoints and paths.
const (
	apiSynthesize = "/v1/synthesize"
	apiHealth     = "/health"
)

// HTTP headers.
const (
	headerContentType = "Content-Type"
	headerAccept      = "Accept"
	contentTypeJSON   = "application/json"

	// ContentTypeMPEG is the fixed content type of synthesized audio.
	ContentTypeMPEG = "audio/mpeg"
)

// Error messages.
const (
	errFmtUnexpectedContentType = "unexpected content type: expected %s, got %s"
	errFmtServiceErrorWithCode  = "synthesis service error (%s): %s (code: %s)"
	errFmtServiceNonOKStatus    = "synthesis service returned non-OK status: %s, body: %s"
)

// ErrTextEmpty is returned when a synthesis request carries no text.
var ErrTextEmpty = errors.New("text cannot be empty")

// Client is an HTTP client for the standalone speech synthesis service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// synthesizeRequest defines the JSON payload for synthesis requests.
type synthesizeRequest struct {
	// Text contains the input text to convert to speech. Must be non-empty.
	Text string `json:"text"`

	// Voice selects the provider voice, e.g. "Joanna".
	Voice string `json:"voice"`

	// OutputFormat selects the audio encoding, e.g. "mp3".
	OutputFormat string `json:"output_format"`
}

// errorResponse represents a structured error response from the service.
type errorResponse struct {
	// Detail contains a human-readable error description.
	Detail string `json:"detail"`

	// ErrorCode provides a machine-readable error classification.
	ErrorCode string `json:"error_code,omitempty"`
}

// New creates and configures an HTTP client for the synthesis service.
// The baseURL should include the protocol and port (e.g., "http://localhost:8000").
// The timeout applies to all HTTP requests made by this client.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Synthesize sends a synthesis request and returns the raw audio stream.
// The stream is the unread HTTP response body; callers must drain and close
// it. Non-success responses are fully consumed here and reported as errors.
func (c *Client) Synthesize(
	ctx context.Context,
	req core.SpeechRequest,
) (io.ReadCloser, error) {
	if req.Text == "" {
		return nil, ErrTextEmpty
	}

	requestBody, err := json.Marshal(synthesizeRequest{
		Text:         req.Text,
		Voice:        req.Voice,
		OutputFormat: req.OutputFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + apiSynthesize

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		url,
		bytes.NewBuffer(requestBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set(headerContentType, contentTypeJSON)
	httpReq.Header.Set(headerAccept, ContentTypeMPEG)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to send request to synthesis service at %s: %w",
			c.baseURL,
			err,
		)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()

		return nil, c.parseErrorResponse(resp)
	}

	contentType := resp.Header.Get(headerContentType)
	if contentType != ContentTypeMPEG {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("failed to close response body: %w", closeErr)
		}

		return nil, fmt.Errorf(
			errFmtUnexpectedContentType,
			ContentTypeMPEG,
			contentType,
		)
	}

	return resp.Body, nil
}

// HealthCheck verifies that the synthesis service is running and operational.
func (c *Client) HealthCheck(ctx context.Context) error {
	url := c.baseURL + apiHealth

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf(
			"health check failed for service at %s: %w",
			c.baseURL,
			err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %s", resp.Status)
	}

	return nil
}

// parseErrorResponse attempts to decode a structured JSON error from the service.
// If structured parsing fails, it falls back to returning the raw response body
// to ensure diagnostic information is preserved.
func (c *Client) parseErrorResponse(resp *http.Response) error {
	var errorResp errorResponse

	err := json.NewDecoder(resp.Body).Decode(&errorResp)
	if err == nil {
		return fmt.Errorf(errFmtServiceErrorWithCode,
			resp.Status, errorResp.Detail, errorResp.ErrorCode)
	}

	// Fallback to raw response for non-JSON errors
	body, _ := io.ReadAll(resp.Body)

	return fmt.Errorf(
		errFmtServiceNonOKStatus,
		resp.Status,
		string(body),
	)
}
