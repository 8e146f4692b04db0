package mypubsub

import "context"

// PubSub fans out serialized event envelopes. Subscribers receive them as push requests on their own endpoint.
//
//go:generate mockgen -source=pubsub_api.go -package mypubsub -destination pubsub_mock.go PubSub
type PubSub interface {
	CreateTopic(c context.Context, topic string) error
	Publish(c context.Context, topic string, data string) error
	Subscribe(c context.Context, topic string, urlToPostTo string) error
}

// New is set at init: google pubsub on Google Cloud, an in-memory fake otherwise.
var New func(c context.Context) (PubSub, func(), error)
