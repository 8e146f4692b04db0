package mypublisher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/fbloginbackend/lib/myevents"
	"github.com/MarcGrol/fbloginbackend/lib/mypubsub"
	"github.com/MarcGrol/fbloginbackend/lib/myqueue"
	"github.com/MarcGrol/fbloginbackend/lib/mystore"
	"github.com/MarcGrol/fbloginbackend/lib/mytime"
)

type loginEvent struct {
	SessionUID string
	Email      string
}

func (e loginEvent) GetEventTypeName() string {
	return "facebooklogin.login"
}

func (e loginEvent) GetAggregateName() string {
	return e.SessionUID
}

func setup(t *testing.T, ctrl *gomock.Controller) (*TransactionalPublisher, *mystore.InMemoryStore[myevents.EventEnvelope], *mypubsub.FakePubSub, *myqueue.MockTaskQueuer) {
	outbox, _, err := mystore.NewInMemoryStore[myevents.EventEnvelope](context.TODO())
	assert.NoError(t, err)

	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()

	pubsub := mypubsub.NewFakePubSub()
	queue := myqueue.NewMockTaskQueuer(ctrl)

	return NewWithOutbox(outbox, pubsub, queue, nower), outbox, pubsub, queue
}

func TestEnveloper(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()

	e := newEnveloper(nower)

	t.Run("Same event same uid", func(t *testing.T) {
		first, err := e.wrap("facebooklogin", loginEvent{SessionUID: "123", Email: "marc@example.com"})
		assert.NoError(t, err)
		second, err := e.wrap("facebooklogin", loginEvent{SessionUID: "123", Email: "marc@example.com"})
		assert.NoError(t, err)

		assert.Equal(t, first.UID, second.UID)
		assert.Equal(t, "facebooklogin", first.Topic)
		assert.Equal(t, "123", first.AggregateUID)
		assert.Equal(t, "facebooklogin.login", first.EventTypeName)
		assert.Equal(t, `{"SessionUID":"123","Email":"marc@example.com"}`, first.EventPayload)
		assert.Equal(t, mytime.ExampleTime, first.CreatedAt)
		assert.False(t, first.Published)
	})

	t.Run("Different event different uid", func(t *testing.T) {
		first, err := e.wrap("facebooklogin", loginEvent{SessionUID: "123"})
		assert.NoError(t, err)
		second, err := e.wrap("facebooklogin", loginEvent{SessionUID: "456"})
		assert.NoError(t, err)

		assert.NotEqual(t, first.UID, second.UID)
	})
}

func TestTransactionalPublisher(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := context.TODO()

	t.Run("Publish stores in outbox and queues trigger", func(t *testing.T) {
		publisher, outbox, pubsub, queue := setup(t, ctrl)

		queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).DoAndReturn(func(c context.Context, task myqueue.Task) error {
			assert.Equal(t, fmt.Sprintf("/pubsub/facebooklogin/%s", task.UID), task.WebhookURLPath)
			return nil
		})

		err := publisher.Publish(c, "facebooklogin", loginEvent{SessionUID: "123"})
		assert.NoError(t, err)

		envelopes, err := outbox.List(c)
		assert.NoError(t, err)
		assert.Len(t, envelopes, 1)
		assert.False(t, envelopes[0].Published)
		assert.Empty(t, pubsub.Topics["facebooklogin"])
	})

	t.Run("Queue failure", func(t *testing.T) {
		publisher, _, _, queue := setup(t, ctrl)

		queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(fmt.Errorf("queue down"))

		err := publisher.Publish(c, "facebooklogin", loginEvent{SessionUID: "123"})
		assert.Error(t, err)
	})

	t.Run("Trigger publishes outbox", func(t *testing.T) {
		publisher, outbox, pubsub, queue := setup(t, ctrl)

		queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		err := publisher.Publish(c, "facebooklogin", loginEvent{SessionUID: "123"})
		assert.NoError(t, err)
		err = publisher.Publish(c, "facebooklogin", loginEvent{SessionUID: "456"})
		assert.NoError(t, err)

		router := mux.NewRouter()
		publisher.RegisterEndpoints(c, router)

		request, err := http.NewRequest(http.MethodPut, "/pubsub/facebooklogin/123", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		assert.Equal(t, http.StatusOK, response.Code)
		assert.Len(t, pubsub.Topics["facebooklogin"], 2)

		envelope := myevents.EventEnvelope{}
		err = json.Unmarshal([]byte(pubsub.Topics["facebooklogin"][0]), &envelope)
		assert.NoError(t, err)
		assert.Equal(t, "facebooklogin.login", envelope.EventTypeName)

		envelopes, err := outbox.List(c)
		assert.NoError(t, err)
		for _, e := range envelopes {
			assert.True(t, e.Published)
		}

		// second trigger has nothing left to do
		published, err := publisher.Flush(c)
		assert.NoError(t, err)
		assert.Equal(t, 0, published)
	})

	t.Run("Failing trigger reports attempts", func(t *testing.T) {
		outbox, _, err := mystore.NewInMemoryStore[myevents.EventEnvelope](c)
		assert.NoError(t, err)
		nower := mytime.NewMockNower(ctrl)
		pubsub := mypubsub.NewMockPubSub(ctrl)
		queue := myqueue.NewMockTaskQueuer(ctrl)
		publisher := NewWithOutbox(outbox, pubsub, queue, nower)

		err = outbox.Put(c, "123", myevents.EventEnvelope{UID: "123", Topic: "facebooklogin", CreatedAt: mytime.ExampleTime})
		assert.NoError(t, err)
		pubsub.EXPECT().Publish(gomock.Any(), "facebooklogin", gomock.Any()).Return(fmt.Errorf("pubsub down"))
		queue.EXPECT().DispatchAttempts(gomock.Any(), "123").Return(int32(5), int32(5))

		router := mux.NewRouter()
		publisher.RegisterEndpoints(c, router)

		request, err := http.NewRequest(http.MethodPut, "/pubsub/facebooklogin/123", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		assert.Equal(t, http.StatusBadGateway, response.Code)

		envelope, found, err := outbox.Get(c, "123")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.False(t, envelope.Published)
	})
}
