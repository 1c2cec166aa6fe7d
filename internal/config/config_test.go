// Package config_test tests the configuration loading for the narration-service.
package config_test

import (
	"testing"

	"github.com/book-expert/narration-service/internal/config"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tomlData := `
[nats]
url = "nats://127.0.0.1:4222"
narration_subject = "narration.requested"
audio_stored_subject = "narration.audio.stored"
audio_object_store_bucket = "NARRATION_AUDIO"

[synthesis]
service_url = "http://localhost:8000"
voice = "Joanna"
output_format = "mp3"
timeout_seconds = 60

[storage]
public_host = "s3.us-east-1.amazonaws.com"

[http]
listen_address = ":8080"

[paths]
base_logs_dir = "/var/log/narration-service"
`

	var cfg config.Config

	err := toml.Unmarshal([]byte(tomlData), &cfg)
	require.NoError(t, err)

	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NATS.URL)
	assert.Equal(t, "narration.requested", cfg.NATS.NarrationSubject)
	assert.Equal(t, "narration.audio.stored", cfg.NATS.AudioStoredSubject)
	assert.Equal(t, "NARRATION_AUDIO", cfg.NATS.AudioObjectStoreBucket)
	assert.Equal(t, "http://localhost:8000", cfg.Synthesis.ServiceURL)
	assert.Equal(t, "Joanna", cfg.Synthesis.Voice)
	assert.Equal(t, "mp3", cfg.Synthesis.OutputFormat)
	assert.Equal(t, 60, cfg.Synthesis.TimeoutSeconds)
	assert.Equal(t, "s3.us-east-1.amazonaws.com", cfg.Storage.PublicHost)
	assert.Equal(t, ":8080", cfg.HTTP.ListenAddress)
	assert.Equal(t, "/var/log/narration-service", cfg.Paths.BaseLogsDir)
}
