package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait are used for heartbeat (seconds).
	PingInterval = 30
	PongWait     = 60
)

// PresenceChangeHandler is called when the connected-member count changes for a channel.
type PresenceChangeHandler func(channelID uuid.UUID, count int)

// Hub maintains channel_id -> set of connections and broadcasts messages.
// A channel is a group's live room (chat, RSVP updates, announcements).
// Uses Redis pub/sub for horizontal scaling: local broadcast + publish to Redis.
type Hub struct {
	// channelID -> map[clientID]*Client
	channels   map[uuid.UUID]map[string]*Client
	subs       map[uuid.UUID]func() // cancel Redis subscription per channel
	mu         sync.RWMutex
	logger     *zap.Logger
	redis      RedisPublisher
	redisSub   RedisSubscriber
	onPresence PresenceChangeHandler
}

// RedisPublisher is the interface for publishing to Redis (for cross-instance broadcast).
type RedisPublisher interface {
	PublishChannelEvent(channelID uuid.UUID, event string, payload []byte) error
}

// RedisSubscriber subscribes to channel topics and invokes handler for incoming events.
type RedisSubscriber interface {
	SubscribeChannel(channelID uuid.UUID, handler func(event string, payload []byte)) (cancel func(), err error)
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zap.Logger, redisPub RedisPublisher, redisSub RedisSubscriber) *Hub {
	return &Hub{
		channels: make(map[uuid.UUID]map[string]*Client),
		subs:     make(map[uuid.UUID]func()),
		logger:   logger,
		redis:    redisPub,
		redisSub: redisSub,
	}
}

// SetPresenceChangeHandler sets the callback for connected-member count changes.
func (h *Hub) SetPresenceChangeHandler(fn PresenceChangeHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onPresence = fn
}

// Register adds a client to a channel. Starts Redis subscription for the channel if first client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.channels[c.ChannelID] == nil {
		h.channels[c.ChannelID] = make(map[string]*Client)
		if h.redisSub != nil {
			cancel, err := h.redisSub.SubscribeChannel(c.ChannelID, func(event string, payload []byte) {
				h.BroadcastToChannel(c.ChannelID, event, json.RawMessage(payload))
			})
			if err == nil {
				h.subs[c.ChannelID] = cancel
			}
		}
	}
	h.channels[c.ChannelID][c.ID] = c
	count := len(h.channels[c.ChannelID])
	onPresence := h.onPresence
	h.mu.Unlock()
	if onPresence != nil {
		onPresence(c.ChannelID, count)
	}
	h.logger.Debug("client joined channel", zap.String("client_id", c.ID), zap.String("channel_id", c.ChannelID.String()))
}

// Unregister removes a client from a channel. Cancels Redis subscription when last client leaves.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	count := -1
	if m, ok := h.channels[c.ChannelID]; ok {
		delete(m, c.ID)
		count = len(m)
		if count == 0 {
			delete(h.channels, c.ChannelID)
			if cancel, ok := h.subs[c.ChannelID]; ok {
				cancel()
				delete(h.subs, c.ChannelID)
			}
		}
	}
	onPresence := h.onPresence
	h.mu.Unlock()
	// count stays -1 when the client was not in any channel; a zero is
	// reported so watchers see the channel empty out.
	if onPresence != nil && count >= 0 {
		onPresence(c.ChannelID, count)
	}
	h.logger.Debug("client left channel", zap.String("client_id", c.ID), zap.String("channel_id", c.ChannelID.String()))
}

// BroadcastToChannel sends a message to all clients in a channel (local only).
func (h *Hub) BroadcastToChannel(channelID uuid.UUID, event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		data, _ = json.Marshal(payload)
	}
	msg := WSMessage{Event: event, Data: data}

	// Sends are non-blocking, so the read lock is held for the whole
	// iteration: releasing it first would let Register/Unregister mutate
	// the map mid-range.
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.channels[channelID] {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// BroadcastToChannelAndPublish sends to local clients and publishes to Redis for other instances.
func (h *Hub) BroadcastToChannelAndPublish(channelID uuid.UUID, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.BroadcastToChannel(channelID, event, payload)
	if h.redis != nil {
		_ = h.redis.PublishChannelEvent(channelID, event, data)
	}
}

// PublishToChannelOnly publishes to Redis only (no local broadcast). Used for events like chat
// messages so that the Redis subscriber callback performs the broadcast once for all instances
// (including this one), avoiding duplicate delivery to local clients.
func (h *Hub) PublishToChannelOnly(channelID uuid.UUID, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if h.redis != nil {
		_ = h.redis.PublishChannelEvent(channelID, event, data)
		return
	}
	h.BroadcastToChannel(channelID, event, payload)
}

// MemberCount returns the number of connected clients in a channel.
func (h *Hub) MemberCount(channelID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channelID])
}
