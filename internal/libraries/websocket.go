package libraries

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"lexedit-backend/internal/lexedit/events"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// WebSocketMessageType is the type field of every websocket message.
type WebSocketMessageType string

const (
	WebSocketMessageTypePing  WebSocketMessageType = "ping"
	WebSocketMessageTypePong  WebSocketMessageType = "pong"
	WebSocketMessageTypeError WebSocketMessageType = "error"
)

type Client struct {
	ID        string
	SessionID string
	Conn      *websocket.Conn
	Send      chan []byte

	mu     sync.Mutex
	closed bool
}

// deliver queues msg without blocking. It reports false once the client is
// closed or its buffer is full.
func (c *Client) deliver(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// Envelope is a message for the clients of one session.
type Envelope struct {
	SessionID string
	Payload   []byte
}

// Hub fans editor events out to the websocket clients of each session.
type Hub struct {
	Clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan Envelope
}

type WebSocketMessage struct {
	Type WebSocketMessageType `json:"type"`
	Data interface{}          `json:"data,omitempty"`
}

type ErrorMessagePayload struct {
	Message string `json:"message"`
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan Envelope, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client.ID] = client
		case client := <-h.Unregister:
			if _, exists := h.Clients[client.ID]; exists {
				delete(h.Clients, client.ID)
				client.close()
			}
		case env := <-h.Broadcast:
			for _, client := range h.Clients {
				if client.SessionID != env.SessionID {
					continue
				}
				if !client.deliver(env.Payload) {
					log.Printf("dropping event for slow client %s", client.ID)
				}
			}
		}
	}
}

// SendMessage replies to a single client. Replies to a client the hub has
// already closed are dropped.
func (h *Hub) SendMessage(client *Client, message []byte) {
	if !client.deliver(message) {
		log.Printf("dropping reply for client %s", client.ID)
	}
}

// Publish sends an event to every client of a session.
func (h *Hub) Publish(sessionID string, event string, data any) {
	msg, err := json.Marshal(WebSocketMessage{Type: WebSocketMessageType(event), Data: data})
	if err != nil {
		log.Printf("failed to marshal %s event: %v", event, err)
		return
	}
	h.Broadcast <- Envelope{SessionID: sessionID, Payload: msg}
}

// Emitter returns an events.Emitter publishing to the clients of sessionID.
func (h *Hub) Emitter(sessionID string) events.Emitter {
	return sessionEmitter{hub: h, sessionID: sessionID}
}

type sessionEmitter struct {
	hub       *Hub
	sessionID string
}

func (e sessionEmitter) Emit(_ context.Context, event string, data any) {
	e.hub.Publish(e.sessionID, event, data)
}

// SendErrorMessage sends a standardized error message to a client
func SendErrorMessage(hub *Hub, client *Client, errorMsg string) {
	errorResp := WebSocketMessage{
		Type: WebSocketMessageTypeError,
		Data: &ErrorMessagePayload{Message: errorMsg},
	}
	errorBytes, err := json.Marshal(errorResp)
	if err != nil {
		log.Println("failed to marshal error response:", err)
		return
	}
	hub.SendMessage(client, errorBytes)
}

func sendPongMessage(hub *Hub, client *Client) {
	pongBytes, err := json.Marshal(WebSocketMessage{Type: WebSocketMessageTypePong})
	if err != nil {
		log.Println("failed to marshal pong response:", err)
		return
	}
	hub.SendMessage(client, pongBytes)
}

func parseWebSocketMessage(msg []byte) (*WebSocketMessage, error) {
	var message WebSocketMessage
	if err := json.Unmarshal(msg, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// SessionChecker reports whether an editing session exists.
type SessionChecker interface {
	Has(id uuid.UUID) bool
}

// WebSocketHandler streams the events of the session named by the
// "session" query parameter. Clients may only send pings.
func WebSocketHandler(hub *Hub, sessions SessionChecker) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		sessionID, err := uuid.Parse(conn.Query("session"))
		if err != nil || !sessions.Has(sessionID) {
			msg, _ := json.Marshal(WebSocketMessage{
				Type: WebSocketMessageTypeError,
				Data: &ErrorMessagePayload{Message: "Unknown session"},
			})
			_ = conn.WriteMessage(websocket.TextMessage, msg)
			conn.Close()
			return
		}

		client := &Client{
			ID:        uuid.NewString(),
			SessionID: sessionID.String(),
			Conn:      conn,
			Send:      make(chan []byte, 256),
		}

		hub.Register <- client

		// Write loop
		go func() {
			defer func() {
				hub.Unregister <- client
				conn.Close()
			}()
			for msg := range client.Send {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					log.Println("write error:", err)
					return
				}
			}
		}()

		// Read loop
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				log.Println("read error:", err)
				break
			}

			message, err := parseWebSocketMessage(msg)
			if err != nil {
				log.Println("failed to parse JSON:", err)
				SendErrorMessage(hub, client, "Invalid JSON format")
				continue
			}

			if message.Type == WebSocketMessageTypePing {
				sendPongMessage(hub, client)
			} else {
				SendErrorMessage(hub, client, "Type is invalid or not provided")
			}
		}

		hub.Unregister <- client
		conn.Close()
	})
}
