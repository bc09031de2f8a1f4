package event

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// ClientBufferSize is the capacity of each subscriber channel. A subscriber
// that falls this far behind starts losing events instead of blocking the
// topic (clients resync from the REST surface on reconnect).
const ClientBufferSize = 32

type Hub struct {
	clients map[string]map[chan Event]bool
	events  chan Event
	done    chan struct{}
	mu      sync.Mutex
}

func NewHub() EventSender {
	return &Hub{
		clients: make(map[string]map[chan Event]bool),
		events:  make(chan Event, 256),
		done:    make(chan struct{}),
	}
}

// Register đăng ký client vào topic.
func (h *Hub) Register(topic string, client chan Event) {
	h.mu.Lock()
	if _, ok := h.clients[topic]; !ok {
		h.clients[topic] = make(map[chan Event]bool)
	}
	h.clients[topic][client] = true
	total := len(h.clients[topic])
	h.mu.Unlock()
	log.Info().Str("topic", topic).Int("total_clients", total).Msg("new client registered to topic")
}

// Unregister hủy đăng ký client khỏi topic. Safe to call for a client that
// was never registered, and safe to call more than once.
func (h *Hub) Unregister(topic string, client chan Event) {
	h.mu.Lock()
	clients, ok := h.clients[topic]
	if ok {
		if _, registered := clients[client]; registered {
			delete(clients, client)
			close(client)
		}
		if len(clients) == 0 {
			delete(h.clients, topic)
		}
	}
	remaining := len(clients)
	h.mu.Unlock()
	log.Info().Str("topic", topic).Int("remaining_clients", remaining).Msg("client unregistered from topic")
}

// Broadcast gửi sự kiện tới tất cả client của topic.
func (h *Hub) Broadcast(event Event) {
	select {
	case h.events <- event:
	case <-h.done:
	}
}

// Run xử lý luồng sự kiện cho đến khi Shutdown được gọi.
func (h *Hub) Run() {
	for {
		select {
		case event := <-h.events:
			h.deliver(event)
		case <-h.done:
			return
		}
	}
}

// deliver fans the event out to every subscriber of its topic. Delivery is
// non-blocking per client: a full subscriber buffer means that client drops
// the event, it never stalls or fails delivery to the others. The lock is
// held across the sends so Unregister cannot close a channel mid-delivery.
func (h *Hub) deliver(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients[event.Topic] {
		select {
		case client <- event:
		default:
			log.Warn().
				Str("topic", event.Topic).
				Str("type", event.Type).
				Msg("dropping event for slow subscriber")
		}
	}
}

// Shutdown stops the event loop. Subscribers are expected to be unregistered
// by their own sessions as connections close.
func (h *Hub) Shutdown() {
	close(h.done)
}
