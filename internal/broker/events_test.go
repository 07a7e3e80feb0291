package broker

import (
	"context"
	"errors"
	"testing"

	"cafe-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSink struct{}

func (failingSink) PublishEvent(context.Context, string, interface{}) error {
	return errors.New("broker unavailable")
}

func (failingSink) Close() error { return nil }

func TestPublishKeysEventsByView(t *testing.T) {
	sink := NewMemorySink()
	ep := NewEventPublisher(sink)
	ctx := context.Background()

	ep.PublishViewOpened(ctx, "v1")
	ep.PublishCartEvent(ctx, &models.CartEvent{
		BaseEvent: NewBaseEvent(models.EventTypeCartLineAdded, "v1"),
		ProductID: 3,
		Quantity:  2,
		CartLines: 1,
		CartTotal: 7,
	})

	events := sink.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "view-v1", events[0].Key)
	assert.Equal(t, "view-v1", events[1].Key)

	opened, ok := events[0].Event.(*models.BaseEvent)
	require.True(t, ok)
	assert.Equal(t, models.EventTypeViewOpened, opened.EventType)

	added, ok := events[1].Event.(*models.CartEvent)
	require.True(t, ok)
	assert.Equal(t, int64(3), added.ProductID)
}

func TestNewBaseEventStampsIDs(t *testing.T) {
	a := NewBaseEvent(models.EventTypeCartCleared, "v1")
	b := NewBaseEvent(models.EventTypeCartCleared, "v1")

	assert.NotEmpty(t, a.EventID)
	assert.NotEqual(t, a.EventID, b.EventID)
	assert.Equal(t, "v1", a.ViewID)
	assert.False(t, a.Timestamp.IsZero())
}

func TestPublishFailureIsSwallowed(t *testing.T) {
	ep := NewEventPublisher(failingSink{})

	assert.NotPanics(t, func() {
		ep.PublishOrderSubmitFailed(context.Background(), &models.OrderSubmitFailedEvent{
			BaseEvent: NewBaseEvent(models.EventTypeOrderSubmitFailed, "v1"),
			Reason:    "transport",
		})
	})
}

func TestNoopSink(t *testing.T) {
	var sink Sink = NoopSink{}
	assert.NoError(t, sink.PublishEvent(context.Background(), "k", struct{}{}))
	assert.NoError(t, sink.Close())
}
