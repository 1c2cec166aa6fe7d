package handler

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// audioKeyFormat yields keys like audio-1700000000000-<uuid>.mp3. The
// millisecond timestamp keeps keys roughly sortable by creation time; the
// UUID carries the uniqueness guarantee, since two requests can land within
// the same millisecond.
const audioKeyFormat = "audio-%d-%s.mp3"

// NewAudioKey generates a storage key that is unique across concurrent and
// sequential invocations. Keys are never reused.
func NewAudioKey() string {
	return fmt.Sprintf(audioKeyFormat, time.Now().UnixMilli(), uuid.NewString())
}
