package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/katatrina/auctsite-BE/internal/event"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// These error strings travel to the browser inside error-socket frames, so
// they keep the exact text clients have always displayed.
const (
	errNoTask        = "No tasks to do was given"
	errLoginRequired = "You must be logged in to make some actions."
)

// Session drives one websocket connection: it subscribes the connection to
// exactly one hub topic, pumps events out, and routes inbound frames through
// the handler installed by the concrete session kind. Errors caused by the
// connection's own frames go back to this connection only, never to the
// topic.
type Session struct {
	id     string
	conn   *websocket.Conn
	events event.EventSender
	topic  string

	client chan event.Event
	direct chan []byte
	done   chan struct{}
	once   sync.Once

	handle  func(raw []byte)
	observe func(ev event.Event)
}

func newSession(conn *websocket.Conn, events event.EventSender, topic string) *Session {
	return &Session{
		id:     uuid.NewString(),
		conn:   conn,
		events: events,
		topic:  topic,
		client: make(chan event.Event, event.ClientBufferSize),
		direct: make(chan []byte, 8),
		done:   make(chan struct{}),
	}
}

// ID returns the session id used as the origin marker on events this
// connection produces.
func (s *Session) ID() string {
	return s.id
}

// Run registers the session on its topic and blocks until the connection
// drops or Close is called.
func (s *Session) Run() {
	s.events.Register(s.topic, s.client)
	go s.writePump()
	s.readPump()
}

// Close tears the session down: it unregisters from the hub and closes the
// underlying connection. Safe to call more than once.
func (s *Session) Close() {
	s.once.Do(func() {
		s.events.Unregister(s.topic, s.client)
		close(s.done)
		s.conn.Close()
		log.Info().Str("session_id", s.id).Str("topic", s.topic).Msg("session closed")
	})
}

func (s *Session) readPump() {
	defer s.Close()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Str("session_id", s.id).Msg("websocket closed unexpectedly")
			}
			return
		}
		s.handle(raw)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case ev, ok := <-s.client:
			if !ok {
				return
			}
			if s.observe != nil {
				s.observe(ev)
			}
			payload, err := s.encode(ev)
			if err != nil {
				log.Error().Err(err).Str("type", ev.Type).Msg("failed to encode event")
				continue
			}
			if !s.write(websocket.TextMessage, payload) {
				return
			}
		case frame := <-s.direct:
			if !s.write(websocket.TextMessage, frame) {
				return
			}
		case <-ticker.C:
			if !s.write(websocket.PingMessage, nil) {
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *Session) write(messageType int, payload []byte) bool {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(messageType, payload); err != nil {
		return false
	}
	return true
}

// encode flattens a hub event into the wire payload. Chat messages carry a
// send_self flag so the sender's other tabs can render its own messages on
// the correct side; it is derived here, per connection, by comparing the
// event origin against the session id.
func (s *Session) encode(ev event.Event) ([]byte, error) {
	payload := make(map[string]any, len(ev.Data)+1)
	for key, value := range ev.Data {
		payload[key] = value
	}
	if ev.Type == event.EventTypeChatMessage {
		payload["send_self"] = ev.Origin != "" && ev.Origin == s.id
	}
	return json.Marshal(payload)
}

// sendError queues an error-socket frame for this connection only.
func (s *Session) sendError(message string) {
	frame, err := json.Marshal(map[string]string{"error-socket": message})
	if err != nil {
		return
	}
	select {
	case s.direct <- frame:
	case <-s.done:
	default:
		log.Warn().Str("session_id", s.id).Msg("dropping error frame for slow session")
	}
}
