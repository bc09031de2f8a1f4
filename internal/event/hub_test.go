package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) EventSender {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Shutdown)
	return hub
}

func waitForEvent(t *testing.T, client chan Event) Event {
	t.Helper()
	select {
	case ev := <-client:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func requireNoEvent(t *testing.T, client chan Event) {
	t.Helper()
	select {
	case ev := <-client:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubFanOut(t *testing.T) {
	hub := startHub(t)

	first := make(chan Event, ClientBufferSize)
	second := make(chan Event, ClientBufferSize)
	other := make(chan Event, ClientBufferSize)
	hub.Register("listing:1", first)
	hub.Register("listing:1", second)
	hub.Register("listing:2", other)

	hub.Broadcast(Event{Topic: "listing:1", Type: EventTypeNewBid, Data: map[string]any{"new_bid_set": "15.00"}})

	for _, client := range []chan Event{first, second} {
		ev := waitForEvent(t, client)
		require.Equal(t, EventTypeNewBid, ev.Type)
		require.Equal(t, "15.00", ev.Data["new_bid_set"])
	}

	// Subscribers of other topics never see the event.
	requireNoEvent(t, other)
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	hub := startHub(t)

	client := make(chan Event, ClientBufferSize)
	remaining := make(chan Event, ClientBufferSize)
	hub.Register("listing:1", client)
	hub.Register("listing:1", remaining)

	hub.Unregister("listing:1", client)

	// The channel is closed on unregister.
	_, open := <-client
	require.False(t, open)

	hub.Broadcast(Event{Topic: "listing:1", Type: EventTypeNewComment})
	ev := waitForEvent(t, remaining)
	require.Equal(t, EventTypeNewComment, ev.Type)

	// Unregistering again, or unregistering a client that was never
	// registered, must not panic.
	hub.Unregister("listing:1", client)
	hub.Unregister("listing:9", make(chan Event))
}

func TestHubSlowSubscriberDoesNotBlockOthers(t *testing.T) {
	hub := startHub(t)

	slow := make(chan Event) // nobody reads this one
	healthy := make(chan Event, ClientBufferSize)
	hub.Register("listing:1", slow)
	hub.Register("listing:1", healthy)

	for i := 0; i < 5; i++ {
		hub.Broadcast(Event{Topic: "listing:1", Type: EventTypeNewBid})
	}

	// The healthy subscriber receives every event even though the slow one
	// drops all of them.
	for i := 0; i < 5; i++ {
		waitForEvent(t, healthy)
	}
}

func TestHubBroadcastAfterShutdown(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Shutdown()

	done := make(chan struct{})
	go func() {
		hub.Broadcast(Event{Topic: "listing:1", Type: EventTypeNewBid})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked after shutdown")
	}
}

func TestTopicNames(t *testing.T) {
	require.Equal(t, "listing:7", ListingTopic(7))
	require.Equal(t, "inbox:42", InboxTopic(42))
}
