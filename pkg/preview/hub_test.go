package preview

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func receiveEvent(t *testing.T, sub *subscriber) (ReloadEvent, bool) {
	t.Helper()
	select {
	case ev, open := <-sub.events():
		return ev, open
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return ReloadEvent{}, false
	}
}

func TestHubBroadcast(t *testing.T) {
	t.Parallel()

	h := newHub()
	first := h.subscribe(context.Background())
	second := h.subscribe(context.Background())

	h.broadcast(ReloadEvent{BuildID: "b1", Languages: 3, Artifacts: 6})

	for _, sub := range []*subscriber{first, second} {
		ev, open := receiveEvent(t, sub)
		require.True(t, open)
		require.Equal(t, "b1", ev.BuildID)
		require.Equal(t, 3, ev.Languages)
		require.Equal(t, 6, ev.Artifacts)
	}
}

func TestHubSlowSubscriberDropped(t *testing.T) {
	t.Parallel()

	h := newHub()
	slow := h.subscribe(context.Background())

	for i := 0; i < subscriberBuffer+1; i++ {
		h.broadcast(ReloadEvent{BuildID: strconv.Itoa(i)})
	}

	// The buffered events drain first, then the channel closes because the
	// overflowing send dropped the subscriber.
	received := 0
	deadline := time.After(time.Second)
	for {
		select {
		case _, open := <-slow.events():
			if !open {
				require.Equal(t, subscriberBuffer, received)
				return
			}
			received++
		case <-deadline:
			t.Fatal("slow subscriber was not dropped")
		}
	}
}

func TestHubContextCancel(t *testing.T) {
	t.Parallel()

	h := newHub()
	ctx, cancel := context.WithCancel(context.Background())
	sub := h.subscribe(ctx)

	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, open := <-sub.events():
			return !open
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestHubCloseAll(t *testing.T) {
	t.Parallel()

	h := newHub()
	first := h.subscribe(context.Background())
	second := h.subscribe(context.Background())

	h.closeAll()

	_, open := receiveEvent(t, first)
	require.False(t, open)
	_, open = receiveEvent(t, second)
	require.False(t, open)

	// Broadcasting after close is a no-op.
	h.broadcast(ReloadEvent{BuildID: "late"})

	// New subscriptions come back pre-closed.
	late := h.subscribe(context.Background())
	_, open = receiveEvent(t, late)
	require.False(t, open)
}
