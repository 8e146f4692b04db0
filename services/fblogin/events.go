package fblogin

import (
	"context"
	"fmt"

	"github.com/MarcGrol/fbloginbackend/lib/mylog"
	"github.com/MarcGrol/fbloginbackend/services/fblogin/fbevents"
)

func (s *service) Subscribe(c context.Context) error {
	err := s.subscriber.CreateTopic(c, fbevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", fbevents.TopicName, err)
	}

	err = s.subscriber.Subscribe(c, fbevents.TopicName, s.config.BaseURL+"/facebook/event")
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", fbevents.TopicName, err)
	}

	return nil
}

func (s *service) OnLoginStarted(c context.Context, topic string, event fbevents.LoginStarted) error {
	return nil
}

// OnLoginCompleted swaps the short-lived token of a fresh login for a long-lived one.
func (s *service) OnLoginCompleted(c context.Context, topic string, event fbevents.LoginCompleted) error {
	s.logger.Log(c, event.SessionUID, mylog.SeverityInfo, "Login %s completed with outcome %s", event.SessionUID, event.Outcome)

	_, err := s.extendToken(c, event.FacebookID)
	if err != nil {
		return err
	}

	return nil
}

func (s *service) OnUserLinked(c context.Context, topic string, event fbevents.UserLinked) error {
	return nil
}

func (s *service) OnTokenExtended(c context.Context, topic string, event fbevents.TokenExtended) error {
	return nil
}

func (s *service) OnTokenRevoked(c context.Context, topic string, event fbevents.TokenRevoked) error {
	return nil
}
