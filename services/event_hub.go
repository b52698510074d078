package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"habitTrackerAPI/internal/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512
)

type EventType string

const (
	EventHabitsChanged     EventType = "habits.changed"
	EventCompletionToggled EventType = "completion.toggled"
	EventStatsChanged      EventType = "stats.changed"
	EventGoalsChanged      EventType = "goals.changed"
	EventLevelUp           EventType = "level.up"
)

type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
	At   time.Time `json:"at"`
}

// EventPublisher is what services depend on; *EventHub implements it.
type EventPublisher interface {
	Publish(clerkID string, ev Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, Event) {}

type userMessage struct {
	clerkID string
	payload []byte
}

// EventHub fans out change notifications to every live-sync socket a user
// has open, so other devices refetch after a mutation. Clients are added and
// removed through channels and only the Run loop touches the registry.
type EventHub struct {
	done       chan struct{}
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan userMessage
	count      chan chan int
}

func NewEventHub() *EventHub {
	return &EventHub{
		done:       make(chan struct{}),
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan userMessage, 256),
		count:      make(chan chan int),
	}
}

// Run owns the client registry until ctx is cancelled.
func (h *EventHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for _, set := range h.clients {
				for c := range set {
					close(c.Send)
				}
			}
			h.clients = make(map[string]map[*Client]bool)
			metrics.LiveClients.Set(0)
			return

		case c := <-h.register:
			set, ok := h.clients[c.ClerkID]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[c.ClerkID] = set
			}
			set[c] = true
			metrics.LiveClients.Inc()
			log.Printf("EventHub: client connected for %s (%d open)", c.ClerkID, len(set))

		case c := <-h.unregister:
			h.remove(c)

		case msg := <-h.broadcast:
			for c := range h.clients[msg.clerkID] {
				select {
				case c.Send <- msg.payload:
				default:
					// Slow consumer; drop it rather than block every other user.
					h.remove(c)
				}
			}

		case reply := <-h.count:
			n := 0
			for _, set := range h.clients {
				n += len(set)
			}
			reply <- n
		}
	}
}

func (h *EventHub) remove(c *Client) {
	set, ok := h.clients[c.ClerkID]
	if !ok || !set[c] {
		return
	}
	delete(set, c)
	close(c.Send)
	metrics.LiveClients.Dec()
	if len(set) == 0 {
		delete(h.clients, c.ClerkID)
	}
}

func (h *EventHub) Publish(clerkID string, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("EventHub: failed to marshal %s event: %v", ev.Type, err)
		return
	}

	select {
	case h.broadcast <- userMessage{clerkID: clerkID, payload: payload}:
	default:
		log.Printf("EventHub: broadcast queue full, dropping %s for %s", ev.Type, clerkID)
	}
}

func (h *EventHub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *EventHub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ClientCount reports open sockets across all users.
func (h *EventHub) ClientCount() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

// Client sits between one websocket connection and the hub.
type Client struct {
	Hub     *EventHub
	Conn    *websocket.Conn
	Send    chan []byte
	ClerkID string
}

func NewClient(hub *EventHub, conn *websocket.Conn, clerkID string) *Client {
	return &Client{
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan []byte, 64),
		ClerkID: clerkID,
	}
}

// ReadPump only services control frames; clients never send events.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("EventHub: read error for %s: %v", c.ClerkID, err)
			}
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
