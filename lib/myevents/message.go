package myevents

import (
	"encoding/json"
	"fmt"
	"io"
)

// PushRequest is the body google pubsub posts to a push subscription.
type PushRequest struct {
	Message      PushMessage
	Subscription string
}

type PushMessage struct {
	Attributes map[string]string
	Data       []byte
	ID         string `json:"message_id"`
}

func ParseEventEnvelope(r io.Reader) (EventEnvelope, error) {
	msg := PushRequest{}
	err := json.NewDecoder(r).Decode(&msg)
	if err != nil {
		return EventEnvelope{}, fmt.Errorf("error parsing push-request: %s", err)
	}

	envlp := EventEnvelope{}
	err = json.Unmarshal(msg.Message.Data, &envlp)
	if err != nil {
		return EventEnvelope{}, fmt.Errorf("error parsing envelope: %s", err)
	}

	return envlp, nil
}

// CreatePushRequest wraps an event the way a push subscription would deliver it.
func CreatePushRequest(topic string, uid string, event Event) (string, error) {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return "", err
	}

	envelopeBytes, err := json.Marshal(EventEnvelope{
		UID:           uid,
		Topic:         topic,
		AggregateUID:  event.GetAggregateName(),
		EventTypeName: event.GetEventTypeName(),
		EventPayload:  string(eventBytes),
	})
	if err != nil {
		return "", err
	}

	reqBytes, err := json.Marshal(PushRequest{
		Message: PushMessage{
			Data: envelopeBytes,
		},
		Subscription: topic,
	})
	if err != nil {
		return "", err
	}

	return string(reqBytes), nil
}
