package services

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"slam-scoring-system/models"

	"github.com/google/uuid"
)

// Publisher receives live events after a write commits. Delivery is best effort.
type Publisher interface {
	PublishEvent(evt models.LiveEvent)
}

// Relay forwards locally published messages to other server instances.
type Relay interface {
	Relay(msg []byte) error
}

// Listener is one connected live update client.
type Listener struct {
	id string
	ch chan []byte
}

func (l *Listener) ID() string { return l.id }

// Messages is closed when the listener is unsubscribed.
func (l *Listener) Messages() <-chan []byte { return l.ch }

// Hub fans text messages out to every connected listener. Sends never block:
// a listener whose buffer is full misses that message.
type Hub struct {
	mu        sync.RWMutex
	listeners map[string]*Listener
	buffer    int
	relay     Relay
	metrics   *Metrics
}

func NewHub(buffer int, metrics *Metrics) *Hub {
	if buffer <= 0 {
		buffer = 32
	}
	return &Hub{
		listeners: make(map[string]*Listener),
		buffer:    buffer,
		metrics:   metrics,
	}
}

// SetRelay installs r; messages published afterwards are also relayed.
func (h *Hub) SetRelay(r Relay) {
	h.mu.Lock()
	h.relay = r
	h.mu.Unlock()
}

func (h *Hub) Subscribe() *Listener {
	l := &Listener{id: uuid.NewString(), ch: make(chan []byte, h.buffer)}
	h.mu.Lock()
	h.listeners[l.id] = l
	h.mu.Unlock()
	h.metrics.listenerAdded()
	return l
}

func (h *Hub) Unsubscribe(l *Listener) {
	h.mu.Lock()
	_, ok := h.listeners[l.id]
	if ok {
		delete(h.listeners, l.id)
		close(l.ch)
	}
	h.mu.Unlock()
	if ok {
		h.metrics.listenerRemoved()
	}
}

// Len returns the number of connected listeners
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

// Broadcast delivers msg to every local listener except from (which may be
// nil) and hands it to the relay.
func (h *Hub) Broadcast(from *Listener, msg []byte) {
	h.deliver(from, msg)

	h.mu.RLock()
	relay := h.relay
	h.mu.RUnlock()
	if relay != nil {
		if err := relay.Relay(msg); err != nil {
			slog.Warn("live relay publish failed", "error", err)
		}
	}
}

// Deliver hands a message that arrived from the relay to local listeners only.
func (h *Hub) Deliver(msg []byte) {
	h.deliver(nil, msg)
}

func (h *Hub) deliver(from *Listener, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, l := range h.listeners {
		if from != nil && id == from.id {
			continue
		}
		select {
		case l.ch <- msg:
		default:
			h.metrics.liveMessageDropped()
		}
	}
}

// PublishEvent implements Publisher.
func (h *Hub) PublishEvent(evt models.LiveEvent) {
	if h == nil {
		return
	}
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	msg, err := json.Marshal(evt)
	if err != nil {
		slog.Error("failed to encode live event", "type", evt.Type, "error", err)
		return
	}
	h.Broadcast(nil, msg)
}
