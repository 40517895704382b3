package nats

import (
	"encoding/json"
	"testing"

	"prompt-library-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "prompts.PROMPT_VIEWED", Subject(events.PromptViewed))
}

func TestDecodeEnvelope(t *testing.T) {
	raw, err := json.Marshal(events.Envelope(events.New(events.PromptDeleted, map[string]interface{}{"id": 3})))
	require.NoError(t, err)

	e, err := Decode("prompts.PROMPT_DELETED", raw)
	require.NoError(t, err)
	assert.Equal(t, events.PromptDeleted, e.EventType())
	assert.Equal(t, float64(3), e.Payload()["id"])
}

func TestDecodeBarePayloadFallsBackToSubject(t *testing.T) {
	e, err := Decode("prompts.PROMPT_CREATED", []byte(`{"id": 9}`))
	require.NoError(t, err)
	assert.Equal(t, "prompts.PROMPT_CREATED", e.EventType())
	assert.Equal(t, float64(9), e.Payload()["id"])
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode("prompts.x", []byte("not json"))
	assert.Error(t, err)
}
