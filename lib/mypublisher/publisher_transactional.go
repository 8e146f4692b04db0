package mypublisher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/fbloginbackend/lib/mycontext"
	"github.com/MarcGrol/fbloginbackend/lib/myerrors"
	"github.com/MarcGrol/fbloginbackend/lib/myevents"
	"github.com/MarcGrol/fbloginbackend/lib/myhttp"
	"github.com/MarcGrol/fbloginbackend/lib/mylog"
	"github.com/MarcGrol/fbloginbackend/lib/mypubsub"
	"github.com/MarcGrol/fbloginbackend/lib/myqueue"
	"github.com/MarcGrol/fbloginbackend/lib/mystore"
	"github.com/MarcGrol/fbloginbackend/lib/mytime"
)

// TransactionalPublisher stores events in an outbox as part of the callers transaction.
// A queued task triggers the actual publication afterwards.
type TransactionalPublisher struct {
	outbox    mystore.Store[myevents.EventEnvelope]
	queue     myqueue.TaskQueuer
	enveloper enveloper
	pubsub    mypubsub.PubSub
	logger    mylog.Logger
}

func New(c context.Context, pubsub mypubsub.PubSub, queue myqueue.TaskQueuer, nower mytime.Nower) (*TransactionalPublisher, func(), error) {
	outbox, outboxCleanup, err := mystore.New[myevents.EventEnvelope](c)
	if err != nil {
		return nil, nil, err
	}

	return NewWithOutbox(outbox, pubsub, queue, nower), outboxCleanup, nil
}

func NewWithOutbox(outbox mystore.Store[myevents.EventEnvelope], pubsub mypubsub.PubSub, queue myqueue.TaskQueuer, nower mytime.Nower) *TransactionalPublisher {
	return &TransactionalPublisher{
		outbox:    outbox,
		queue:     queue,
		enveloper: newEnveloper(nower),
		pubsub:    pubsub,
		logger:    mylog.New("publisher"),
	}
}

func (p *TransactionalPublisher) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/pubsub/{topic}/{uid}", p.processTriggerPage()).Methods("PUT")
}

func (p *TransactionalPublisher) CreateTopic(c context.Context, topicName string) error {
	return p.pubsub.CreateTopic(c, topicName)
}

func (p *TransactionalPublisher) Publish(c context.Context, topic string, event myevents.Event) error {
	envelope, err := p.enveloper.wrap(topic, event)
	if err != nil {
		return fmt.Errorf("error creating envelope: %s", err)
	}

	err = p.outbox.Put(c, envelope.UID, envelope)
	if err != nil {
		return fmt.Errorf("error storing envelope %s: %s", envelope.UID, err)
	}

	err = p.queue.Enqueue(c, myqueue.Task{
		UID:            envelope.UID,
		WebhookURLPath: fmt.Sprintf("/pubsub/%s/%s", envelope.Topic, envelope.UID),
		Payload:        []byte{},
	})
	if err != nil {
		return fmt.Errorf("error queueing publication-trigger %s: %s", envelope.UID, err)
	}

	p.logger.Log(c, envelope.AggregateUID, mylog.SeverityInfo, "Stored event %s in outbox", envelope)

	return nil
}

func (p *TransactionalPublisher) processTriggerPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(p.logger)

		topicName := mux.Vars(r)["topic"]
		eventUID := mux.Vars(r)["uid"]

		published, err := p.Flush(c)
		if err != nil {
			dispatched, maxAttempts := p.queue.DispatchAttempts(c, eventUID)
			if maxAttempts > 0 && dispatched >= maxAttempts {
				p.logger.Log(c, eventUID, mylog.SeverityError, "Giving up on trigger %s/%s after %d attempts: %s", topicName, eventUID, dispatched, err)
			}
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: fmt.Sprintf("Processed trigger %s/%s: published %d events", topicName, eventUID, published),
		})
	}
}

// Flush publishes every envelope that is still in the outbox, oldest first.
func (p *TransactionalPublisher) Flush(c context.Context) (int, error) {
	published := 0
	err := p.outbox.RunInTransaction(c, func(c context.Context) error {
		envelopes, err := p.outbox.Query(c, []mystore.Filter{{Field: "Published", Compare: "=", Value: false}}, "CreatedAt")
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching envelopes: %s", err))
		}

		for _, envelope := range envelopes {
			jsonBytes, err := json.Marshal(envelope)
			if err != nil {
				return myerrors.NewInternalError(fmt.Errorf("error serializing envelope %s: %s", envelope.UID, err))
			}

			err = p.pubsub.Publish(c, envelope.Topic, string(jsonBytes))
			if err != nil {
				return myerrors.NewBadGatewayError(fmt.Errorf("error publishing envelope %s: %s", envelope.UID, err))
			}

			envelope.Published = true
			err = p.outbox.Put(c, envelope.UID, envelope)
			if err != nil {
				return myerrors.NewInternalError(fmt.Errorf("error storing envelope %s: %s", envelope.UID, err))
			}
			published++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	p.logger.Log(c, "", mylog.SeverityInfo, "Published %d events from outbox", published)

	return published, nil
}
