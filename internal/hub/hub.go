// Package hub fans conversation messages out to live subscribers.
package hub

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Andrewp2/andrew-chat/internal/domain"
)

// Subscription is one subscriber's view of a topic. Frames arrive on C in
// publish order. C is closed when the subscription is released or the hub
// shuts down.
type Subscription struct {
	ID    uuid.UUID
	Topic int
	C     <-chan domain.IndexedMessage

	send chan domain.IndexedMessage
	hub  *Hub
	once sync.Once
}

// Close releases the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() { s.hub.unsubscribe(s) })
}

// Hooks receives hub events, typically wired to metrics.
type Hooks struct {
	// SubscribersChanged is called with +1 or -1.
	SubscribersChanged func(delta int)
	// Overflow is called each time a pending frame is discarded.
	Overflow func(topic int)
}

// Hub manages subscriptions per topic (conversation id). Publish never
// blocks: a subscriber whose buffer is full loses its oldest pending frame.
type Hub struct {
	// topics maps topic to subscriber id to subscription
	topics map[int]map[uuid.UUID]*Subscription
	hooks  Hooks
	closed bool
	logger zerolog.Logger

	mu sync.Mutex
}

// New creates a Hub.
func New(hooks Hooks) *Hub {
	return &Hub{
		topics: make(map[int]map[uuid.UUID]*Subscription),
		hooks:  hooks,
		logger: log.With().Str("component", "hub").Logger(),
	}
}

// Subscribe registers a subscriber on topic with a buffer of the given size.
// Subscribing to a closed hub returns an already-closed subscription.
func (h *Hub) Subscribe(topic, buffer int) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan domain.IndexedMessage, buffer)
	sub := &Subscription{
		ID:    uuid.New(),
		Topic: topic,
		C:     ch,
		send:  ch,
		hub:   h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(ch)
		return sub
	}

	if h.topics[topic] == nil {
		h.topics[topic] = make(map[uuid.UUID]*Subscription)
	}
	h.topics[topic][sub.ID] = sub
	if h.hooks.SubscribersChanged != nil {
		h.hooks.SubscribersChanged(1)
	}
	h.logger.Debug().Str("subscriber", sub.ID.String()).Int("topic", topic).Msg("subscriber registered")
	return sub
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.topics[sub.Topic]
	if !ok {
		return
	}
	if _, ok := subs[sub.ID]; !ok {
		return
	}
	delete(subs, sub.ID)
	if len(subs) == 0 {
		delete(h.topics, sub.Topic)
	}
	close(sub.send)
	if h.hooks.SubscribersChanged != nil {
		h.hooks.SubscribersChanged(-1)
	}
	h.logger.Debug().Str("subscriber", sub.ID.String()).Int("topic", sub.Topic).Msg("subscriber released")
}

// Publish delivers msg to every subscriber of topic and returns how many
// pending frames were discarded to make room.
func (h *Hub) Publish(topic int, msg domain.IndexedMessage) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	dropped := 0
	for id, sub := range h.topics[topic] {
		select {
		case sub.send <- msg:
			continue
		default:
		}

		// Buffer full, discard the oldest frame. Publishers are serialised
		// by mu, so the retry below always finds room.
		select {
		case <-sub.send:
			dropped++
			if h.hooks.Overflow != nil {
				h.hooks.Overflow(topic)
			}
			h.logger.Warn().Str("subscriber", id.String()).Int("topic", topic).Msg("subscriber buffer full, dropped oldest frame")
		default:
		}
		select {
		case sub.send <- msg:
		default:
		}
	}
	return dropped
}

// Subscribers returns the number of live subscribers on topic.
func (h *Hub) Subscribers(topic int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[topic])
}

// Close releases every subscription. Later subscriptions are closed on
// arrival.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for topic, subs := range h.topics {
		for _, sub := range subs {
			close(sub.send)
			if h.hooks.SubscribersChanged != nil {
				h.hooks.SubscribersChanged(-1)
			}
		}
		delete(h.topics, topic)
	}
	h.logger.Info().Msg("hub closed")
}
