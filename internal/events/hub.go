package events

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// AllTopics subscribes a client to every topic.
const AllTopics = "*"

// Client represents a single SSE connection.
// It's essentially a channel that the SSE handler will listen to.
type Client chan []byte

// Hub fans events out to in-process SSE subscribers by topic.
type Hub struct {
	topics map[string]map[Client]bool
	mu     sync.RWMutex
	log    *zap.SugaredLogger
}

// NewHub creates a new Hub.
func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		topics: make(map[string]map[Client]bool),
		log:    log.Named("hub"),
	}
}

// Subscribe adds a client to a topic.
func (h *Hub) Subscribe(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.topics[topic]; !ok {
		h.topics[topic] = make(map[Client]bool)
	}
	h.topics[topic][client] = true
}

// Unsubscribe removes a client from a topic and closes its channel.
func (h *Hub) Unsubscribe(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.topics[topic]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client) // signals the SSE handler to stop
			if len(clients) == 0 {
				delete(h.topics, topic)
			}
		}
	}
}

// Subscribers returns the number of clients on a topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Broadcast sends an event to the clients of its topic and of AllTopics.
func (h *Hub) Broadcast(event Event) {
	messageBytes, err := json.Marshal(event)
	if err != nil {
		h.log.Errorw("failed to encode event", "type", event.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, topic := range []string{event.Topic, AllTopics} {
		for client := range h.topics[topic] {
			// Non-blocking send so a slow client cannot stall publishers.
			select {
			case client <- messageBytes:
			default:
				h.log.Debugw("dropping event for slow client", "topic", topic, "type", event.Type)
			}
		}
	}
}

// Publish implements Publisher.
func (h *Hub) Publish(_ context.Context, event Event) error {
	h.Broadcast(event)
	return nil
}
