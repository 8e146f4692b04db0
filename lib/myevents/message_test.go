package myevents

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type exampleEvent struct {
	FacebookID string
}

func (e exampleEvent) GetEventTypeName() string {
	return "example.happened"
}

func (e exampleEvent) GetAggregateName() string {
	return e.FacebookID
}

func TestParseEventEnvelope(t *testing.T) {
	t.Run("Valid push request", func(t *testing.T) {
		req, err := CreatePushRequest("example", "123", exampleEvent{FacebookID: "fb1"})
		assert.NoError(t, err)

		envelope, err := ParseEventEnvelope(strings.NewReader(req))
		assert.NoError(t, err)
		assert.Equal(t, "123", envelope.UID)
		assert.Equal(t, "example", envelope.Topic)
		assert.Equal(t, "fb1", envelope.AggregateUID)
		assert.Equal(t, "example.happened", envelope.EventTypeName)
		assert.JSONEq(t, `{"FacebookID":"fb1"}`, envelope.EventPayload)
		assert.Equal(t, "example.example.happened.fb1", envelope.String())
	})

	t.Run("Invalid push request", func(t *testing.T) {
		_, err := ParseEventEnvelope(strings.NewReader("{"))
		assert.Error(t, err)
	})
}
