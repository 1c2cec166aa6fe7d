// Package handler_test tests the conversion handler.
package handler_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/book-expert/logger"
	"github.com/book-expert/narration-service/internal/core"
	"github.com/book-expert/narration-service/internal/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errMockSynthesize = errors.New("mock synthesize error")
	errMockUpload     = errors.New("mock upload error")
)

// chunkStream yields one configured chunk per Read call, imitating a lazy
// network stream that delivers audio in pieces.
type chunkStream struct {
	chunks [][]byte
	index  int
	closed bool
}

func (s *chunkStream) Read(p []byte) (int, error) {
	if s.index >= len(s.chunks) {
		return 0, io.EOF
	}

	n := copy(p, s.chunks[s.index])
	s.index++

	return n, nil
}

func (s *chunkStream) Close() error {
	s.closed = true

	return nil
}

// mockSynthesizer is a mock implementation of the Synthesizer interface.
type mockSynthesizer struct {
	synthesizeShouldFail bool
	returnNilStream      bool
	chunks               [][]byte
	calls                int
	lastRequest          core.SpeechRequest
	stream               *chunkStream
}

func (m *mockSynthesizer) Synthesize(
	_ context.Context,
	req core.SpeechRequest,
) (io.ReadCloser, error) {
	m.calls++
	m.lastRequest = req

	if m.synthesizeShouldFail {
		return nil, errMockSynthesize
	}

	if m.returnNilStream {
		return nil, nil
	}

	m.stream = &chunkStream{chunks: m.chunks, index: 0, closed: false}

	return m.stream, nil
}

// mockObjectStore is a mock implementation of the ObjectStore interface.
type mockObjectStore struct {
	uploadShouldFail    bool
	uploadCalls         int
	uploadedKey         string
	uploadedData        []byte
	uploadedContentType string
}

func (m *mockObjectStore) Upload(
	_ context.Context,
	key string,
	data []byte,
	contentType string,
) error {
	m.uploadCalls++

	if m.uploadShouldFail {
		return errMockUpload
	}

	m.uploadedKey = key
	m.uploadedData = data
	m.uploadedContentType = contentType

	return nil
}

func (m *mockObjectStore) Download(_ context.Context, _ string) ([]byte, error) {
	return nil, nil
}

func (m *mockObjectStore) PublicURL(key string) string {
	return "https://narration-audio.s3.us-east-1.amazonaws.com/" + key
}

func setupHandler(
	t *testing.T,
	synthesizer *mockSynthesizer,
	store *mockObjectStore,
) *handler.ConversionHandler {
	t.Helper()

	testLogger, err := logger.New(t.TempDir(), "handler-test.log")
	require.NoError(t, err)

	return handler.New(synthesizer, store, "Joanna", "mp3", testLogger)
}

func TestHandle_EmptyText(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "\n\t"} {
		synthesizer := &mockSynthesizer{}
		store := &mockObjectStore{}
		conversionHandler := setupHandler(t, synthesizer, store)

		resp := conversionHandler.Handle(context.Background(), handler.Request{Text: input})

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, handler.ErrInvalidInput.Error(), resp.Body.Error)
		assert.Empty(t, resp.Body.FileURL)
		assert.Zero(t, synthesizer.calls, "no synthesis call may happen for invalid input")
		assert.Zero(t, store.uploadCalls, "no upload call may happen for invalid input")
	}
}

func TestHandle_Success(t *testing.T) {
	t.Parallel()

	synthesizer := &mockSynthesizer{
		chunks: [][]byte{{0xFF, 0xFB}, {0x90, 0x00}, {0x01}},
	}
	store := &mockObjectStore{}
	conversionHandler := setupHandler(t, synthesizer, store)

	resp := conversionHandler.Handle(context.Background(), handler.Request{Text: "Hello world"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, synthesizer.calls, "exactly one synthesis call")
	assert.Equal(t, 1, store.uploadCalls, "exactly one upload call")
	assert.Equal(t, "Hello world", synthesizer.lastRequest.Text)
	assert.Equal(t, "Joanna", synthesizer.lastRequest.Voice)
	assert.Equal(t, "mp3", synthesizer.lastRequest.OutputFormat)

	assert.Equal(
		t,
		fmt.Sprintf("The audio file has been stored as %s", store.uploadedKey),
		resp.Body.Message,
	)
	assert.Equal(
		t,
		"https://narration-audio.s3.us-east-1.amazonaws.com/"+store.uploadedKey,
		resp.Body.FileURL,
	)
	assert.Empty(t, resp.Body.Error)
	assert.Equal(t, "audio/mpeg", store.uploadedContentType)
	assert.True(t, synthesizer.stream.closed, "audio stream must be closed after draining")
}

func TestHandle_PreservesChunkOrder(t *testing.T) {
	t.Parallel()

	synthesizer := &mockSynthesizer{
		chunks: [][]byte{[]byte("b1"), []byte("b2"), []byte("b3")},
	}
	store := &mockObjectStore{}
	conversionHandler := setupHandler(t, synthesizer, store)

	resp := conversionHandler.Handle(context.Background(), handler.Request{Text: "ordered"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []byte("b1b2b3"), store.uploadedData)
}

func TestHandle_NormalizesTextBeforeSynthesis(t *testing.T) {
	t.Parallel()

	synthesizer := &mockSynthesizer{chunks: [][]byte{{0x01}}}
	store := &mockObjectStore{}
	conversionHandler := setupHandler(t, synthesizer, store)

	resp := conversionHandler.Handle(
		context.Background(),
		handler.Request{Text: "  Hello\n\tworld  "},
	)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello world", synthesizer.lastRequest.Text)
}

func TestHandle_SynthesisTransportFailure(t *testing.T) {
	t.Parallel()

	synthesizer := &mockSynthesizer{synthesizeShouldFail: true}
	store := &mockObjectStore{}
	conversionHandler := setupHandler(t, synthesizer, store)

	resp := conversionHandler.Handle(context.Background(), handler.Request{Text: "Hello"})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, resp.Body.Error, errMockSynthesize.Error())
	assert.Zero(t, store.uploadCalls, "no upload may happen when synthesis fails")
}

func TestHandle_NoAudioStream(t *testing.T) {
	t.Parallel()

	synthesizer := &mockSynthesizer{returnNilStream: true}
	store := &mockObjectStore{}
	conversionHandler := setupHandler(t, synthesizer, store)

	resp := conversionHandler.Handle(context.Background(), handler.Request{Text: "Hello"})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, handler.ErrNoAudio.Error(), resp.Body.Error)
	assert.Zero(t, store.uploadCalls, "no upload may happen without audio")
}

func TestHandle_UploadFailure(t *testing.T) {
	t.Parallel()

	synthesizer := &mockSynthesizer{chunks: [][]byte{{0x01, 0x02}}}
	store := &mockObjectStore{uploadShouldFail: true}
	conversionHandler := setupHandler(t, synthesizer, store)

	resp := conversionHandler.Handle(context.Background(), handler.Request{Text: "Hello"})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, resp.Body.Error, errMockUpload.Error())
	assert.Equal(t, 1, synthesizer.calls)
	assert.Equal(t, 1, store.uploadCalls)
}

func TestHandle_DistinctKeysForIdenticalRequests(t *testing.T) {
	t.Parallel()

	store := &mockObjectStore{}

	firstSynthesizer := &mockSynthesizer{chunks: [][]byte{{0x01}}}
	conversionHandler := setupHandler(t, firstSynthesizer, store)

	first := conversionHandler.Handle(context.Background(), handler.Request{Text: "hello"})
	firstKey := store.uploadedKey

	second := conversionHandler.Handle(context.Background(), handler.Request{Text: "hello"})
	secondKey := store.uploadedKey

	require.Equal(t, http.StatusOK, first.StatusCode)
	require.Equal(t, http.StatusOK, second.StatusCode)
	assert.NotEqual(t, firstKey, secondKey, "identical requests must not collide on keys")
}
