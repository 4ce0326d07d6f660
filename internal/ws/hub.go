package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tavola-pos/api/internal/notify"
)

var errHubStopped = errors.New("hub stopped")

// Topics a board client can subscribe to.
const (
	TopicAll    = "all"
	TopicOrders = "orders"
	TopicTables = "tables"
)

// Event is the message written to websocket clients.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type topicEvent struct {
	Topic string
	Event Event
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	// Registered clients by topic
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *topicEvent
	done       chan struct{}

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *topicEvent, 256),
		done:       make(chan struct{}),
	}
}

// Run is the hub's main loop. It returns when ctx is done, closing every
// client's send channel.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for topic, clients := range h.rooms {
				for client := range clients {
					close(client.send)
				}
				delete(h.rooms, topic)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.topic] == nil {
				h.rooms[client.topic] = make(map[*Client]bool)
			}
			h.rooms[client.topic][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event.Event)
			if err != nil {
				continue
			}

			h.mu.Lock()
			for _, topic := range []string{event.Topic, TopicAll} {
				for client := range h.rooms[topic] {
					select {
					case client.send <- message:
					default:
						// Send buffer full: drop the slow client
						h.removeLocked(client)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.rooms[client.topic]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.topic)
	}
}

// Broadcast queues an event for every client subscribed to topic or to
// TopicAll.
func (h *Hub) Broadcast(ctx context.Context, topic string, event Event) error {
	select {
	case h.broadcast <- &topicEvent{Topic: topic, Event: event}:
		return nil
	case <-h.done:
		return errHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Notify implements notify.Notifier so the hub can sit next to the AMQP
// publisher.
func (h *Hub) Notify(ctx context.Context, e notify.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", e.Type, err)
	}
	return h.Broadcast(ctx, topicFor(e.Type), Event{Type: e.Type, Payload: payload})
}

func topicFor(eventType string) string {
	if strings.HasPrefix(eventType, "table.") {
		return TopicTables
	}
	return TopicOrders
}

func validTopic(topic string) bool {
	switch topic {
	case TopicAll, TopicOrders, TopicTables:
		return true
	}
	return false
}
