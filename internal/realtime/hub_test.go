package realtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(channelID uuid.UUID) *Client {
	return &Client{
		ID:        uuid.New().String(),
		ChannelID: channelID,
		UserID:    uuid.New(),
		send:      make(chan WSMessage, 4),
	}
}

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	channel := uuid.New()
	c1 := newTestClient(channel)
	c2 := newTestClient(channel)
	other := newTestClient(uuid.New())

	hub.Register(c1)
	hub.Register(c2)
	hub.Register(other)
	assert.Equal(t, 2, hub.MemberCount(channel))

	hub.BroadcastToChannel(channel, "ping", map[string]string{"k": "v"})

	for _, c := range []*Client{c1, c2} {
		select {
		case msg := <-c.send:
			assert.Equal(t, "ping", msg.Event)
		default:
			t.Fatalf("client %s did not receive broadcast", c.ID)
		}
	}
	select {
	case <-other.send:
		t.Fatal("client in another channel received broadcast")
	default:
	}

	hub.Unregister(c1)
	assert.Equal(t, 1, hub.MemberCount(channel))
	hub.Unregister(c2)
	assert.Equal(t, 0, hub.MemberCount(channel))
}

func TestHubPublishOnlyFallsBackWithoutRedis(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	channel := uuid.New()
	c := newTestClient(channel)
	hub.Register(c)

	hub.PublishToChannelOnly(channel, "message", map[string]string{"body": "hi"})

	select {
	case msg := <-c.send:
		assert.Equal(t, "message", msg.Event)
	default:
		t.Fatal("expected local fallback delivery")
	}
}

func TestHubPresenceCallback(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	channel := uuid.New()

	var counts []int
	hub.SetPresenceChangeHandler(func(id uuid.UUID, count int) {
		require.Equal(t, channel, id)
		counts = append(counts, count)
	})

	c1 := newTestClient(channel)
	c2 := newTestClient(channel)
	hub.Register(c1)
	hub.Register(c2)
	hub.Unregister(c1)
	hub.Unregister(c2)

	// The final zero tells watchers the channel emptied out.
	assert.Equal(t, []int{1, 2, 1, 0}, counts)

	// A client that was never registered must not produce a report.
	hub.Unregister(newTestClient(channel))
	assert.Equal(t, []int{1, 2, 1, 0}, counts)
}

func TestHubBroadcastDuringChurn(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	channel := uuid.New()
	hub.Register(newTestClient(channel))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			c := newTestClient(channel)
			hub.Register(c)
			hub.Unregister(c)
		}
	}()

	// Joins and leaves racing a broadcast must not corrupt the client map.
	for i := 0; i < 200; i++ {
		hub.BroadcastToChannel(channel, "ping", map[string]int{"i": i})
	}
	<-done
	assert.Equal(t, 1, hub.MemberCount(channel))
}
