package fbevents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/MarcGrol/fbloginbackend/lib/myerrors"
	"github.com/MarcGrol/fbloginbackend/lib/myevents"
)

const (
	TopicName          = "facebooklogin"
	loginStartedName   = TopicName + ".login.started"
	loginCompletedName = TopicName + ".login.completed"
	userLinkedName     = TopicName + ".user.linked"
	tokenExtendedName  = TopicName + ".token.extended"
	tokenRevokedName   = TopicName + ".token.revoked"
)

type FacebookLoginEventService interface {
	Subscribe(c context.Context) error
	OnLoginStarted(c context.Context, topic string, event LoginStarted) error
	OnLoginCompleted(c context.Context, topic string, event LoginCompleted) error
	OnUserLinked(c context.Context, topic string, event UserLinked) error
	OnTokenExtended(c context.Context, topic string, event TokenExtended) error
	OnTokenRevoked(c context.Context, topic string, event TokenRevoked) error
}

func DispatchEvent(c context.Context, reader io.Reader, service FacebookLoginEventService) error {
	envelope, err := myevents.ParseEventEnvelope(reader)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	switch envelope.EventTypeName {
	case loginStartedName:
		event := LoginStarted{}
		err := json.Unmarshal([]byte(envelope.EventPayload), &event)
		if err != nil {
			return myerrors.NewInvalidInputError(err)
		}
		return service.OnLoginStarted(c, envelope.Topic, event)
	case loginCompletedName:
		event := LoginCompleted{}
		err := json.Unmarshal([]byte(envelope.EventPayload), &event)
		if err != nil {
			return myerrors.NewInvalidInputError(err)
		}
		return service.OnLoginCompleted(c, envelope.Topic, event)
	case userLinkedName:
		event := UserLinked{}
		err := json.Unmarshal([]byte(envelope.EventPayload), &event)
		if err != nil {
			return myerrors.NewInvalidInputError(err)
		}
		return service.OnUserLinked(c, envelope.Topic, event)
	case tokenExtendedName:
		event := TokenExtended{}
		err := json.Unmarshal([]byte(envelope.EventPayload), &event)
		if err != nil {
			return myerrors.NewInvalidInputError(err)
		}
		return service.OnTokenExtended(c, envelope.Topic, event)
	case tokenRevokedName:
		event := TokenRevoked{}
		err := json.Unmarshal([]byte(envelope.EventPayload), &event)
		if err != nil {
			return myerrors.NewInvalidInputError(err)
		}
		return service.OnTokenRevoked(c, envelope.Topic, event)
	default:
		return myerrors.NewNotImplementedError(fmt.Errorf("event %s not supported", envelope.EventTypeName))
	}
}

type LoginStarted struct {
	SessionUID string
	Scopes     string
	ReturnURL  string
}

func (e LoginStarted) GetEventTypeName() string {
	return loginStartedName
}

func (e LoginStarted) GetAggregateName() string {
	return e.SessionUID
}

type LoginCompleted struct {
	SessionUID string
	FacebookID string
	Email      string
	Outcome    string
}

func (e LoginCompleted) GetEventTypeName() string {
	return loginCompletedName
}

func (e LoginCompleted) GetAggregateName() string {
	return e.SessionUID
}

type UserLinked struct {
	Email string
}

func (e UserLinked) GetEventTypeName() string {
	return userLinkedName
}

func (e UserLinked) GetAggregateName() string {
	return e.Email
}

type TokenExtended struct {
	FacebookID string
	ExpiresAt  *time.Time
}

func (e TokenExtended) GetEventTypeName() string {
	return tokenExtendedName
}

func (e TokenExtended) GetAggregateName() string {
	return e.FacebookID
}

type TokenRevoked struct {
	FacebookID string
}

func (e TokenRevoked) GetEventTypeName() string {
	return tokenRevokedName
}

func (e TokenRevoked) GetAggregateName() string {
	return e.FacebookID
}
