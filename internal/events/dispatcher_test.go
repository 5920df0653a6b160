package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var seen []string
	dispatcher.Subscribe(EventTicketRedeemed, func(ctx context.Context, event Event) error {
		seen = append(seen, event.TicketID)
		return nil
	})
	dispatcher.Subscribe(EventTicketRedeemed, func(ctx context.Context, event Event) error {
		seen = append(seen, event.TicketID)
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventTicketRedeemed, TicketID: "t-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"t-1", "t-1"}, seen)
}

func TestDispatcherIgnoresUnsubscribedTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	called := false
	dispatcher.Subscribe(EventTicketIssued, func(ctx context.Context, event Event) error {
		called = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketDeleted, TicketID: "t-1"}))
	assert.False(t, called)
}

func TestDispatcherContinuesPastFailingHandler(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var reached bool
	dispatcher.Subscribe(EventTicketIssued, func(ctx context.Context, event Event) error {
		return errors.New("boom")
	})
	dispatcher.Subscribe(EventTicketIssued, func(ctx context.Context, event Event) error {
		reached = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketIssued}))
	assert.True(t, reached)
}
