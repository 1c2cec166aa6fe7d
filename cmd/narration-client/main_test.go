package main

import (
	"testing"

	"github.com/book-expert/narration-service/internal/handler"
	"github.com/stretchr/testify/assert"
)

func TestFormatResponse_Success(t *testing.T) {
	t.Parallel()

	response := &handler.Response{
		StatusCode: 200,
		Body: handler.ResponseBody{
			Message: "The audio file has been stored as audio-1700000000000-abc.mp3",
			FileURL: "https://narration-audio.s3.us-east-1.amazonaws.com/audio-1700000000000-abc.mp3",
			Error:   "",
		},
		Key: "audio-1700000000000-abc.mp3",
	}

	out := formatResponse(response)

	assert.Contains(t, out, "The audio file has been stored as audio-1700000000000-abc.mp3")
	assert.Contains(t, out, "https://narration-audio.s3.us-east-1.amazonaws.com/")
	assert.NotContains(t, out, "error:")
}

func TestFormatResponse_Failure(t *testing.T) {
	t.Parallel()

	response := &handler.Response{
		StatusCode: 500,
		Body: handler.ResponseBody{
			Message: "Failed to convert text to speech",
			FileURL: "",
			Error:   "failed to synthesize speech: connection refused",
		},
		Key: "",
	}

	out := formatResponse(response)

	assert.Contains(t, out, "Failed to convert text to speech")
	assert.Contains(t, out, "error: failed to synthesize speech: connection refused")
}
