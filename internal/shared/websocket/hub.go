package websocket

import (
	"context"
	"time"

	"github.com/cristianortiz/auctionDetail/internal/shared/logger"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024

	// Outbound messages queued per client.
	sendBuffer = 16

	queueSize = 256
)

// Hub keeps the registry of connected clients, grouped by session. Only the
// Run goroutine touches the registry and closes Send channels.
type Hub struct {
	// Registered clients, grouped by session ID.
	clients map[string]map[*Client]bool
	// Register requests from the clients. Unbuffered: once RegisterClient
	// returns, the hub knows the client.
	register chan *Client
	// Unregister requests from clients.
	unregister chan *Client
	// Sessions whose clients must be disconnected.
	closeSession chan string
	// Replies to one client.
	reply chan *Message
	// Inbound messages, consumed by module specific handlers.
	InboundMessages chan *ClientMessage
	// closed when Run returns
	done chan struct{}
}

// Client represents a ws individual connection
type Client struct {
	Hub *Hub
	// The websocket connection.
	Conn *websocket.Conn
	// Buffered channel of outbound messages.
	Send chan []byte
	// The detail session this client acts on.
	SessionID string
	// Unique identifier for the client
	ID string
}

// Message is an outbound payload for one client.
type Message struct {
	Client *Client
	Data   []byte
}

// ClientMessage wraps a message received from a client with its sender.
type ClientMessage struct {
	Client *Client
	Data   []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:         make(map[string]map[*Client]bool),
		register:        make(chan *Client),
		unregister:      make(chan *Client, queueSize),
		closeSession:    make(chan string, queueSize),
		reply:           make(chan *Message, queueSize),
		InboundMessages: make(chan *ClientMessage, queueSize),
		done:            make(chan struct{}),
	}
}

// NewClient builds a client bound to sessionID.
func (h *Hub) NewClient(conn *websocket.Conn, sessionID, id string) *Client {
	return &Client{
		Hub:       h,
		Conn:      conn,
		Send:      make(chan []byte, sendBuffer),
		SessionID: sessionID,
		ID:        id,
	}
}

// Run serves the hub channels until ctx is cancelled; every client still
// connected is then disconnected.
func (h *Hub) Run(ctx context.Context) {
	log.Info("Websocket Hub started")
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			log.Info("WebSocket Hub shutting down", zap.Int("total_clients", h.count()))
			for sessionID := range h.clients {
				h.dropSession(sessionID)
			}
			return

		case client := <-h.register:
			if _, ok := h.clients[client.SessionID]; !ok {
				h.clients[client.SessionID] = make(map[*Client]bool)
			}
			h.clients[client.SessionID][client] = true
			log.Info("Client registered",
				zap.String("clientID", client.ID),
				zap.String("sessionID", client.SessionID),
				zap.Int("total_clients", h.count()),
			)

		case client := <-h.unregister:
			if h.remove(client) {
				log.Info("Client unregistered",
					zap.String("clientID", client.ID),
					zap.String("sessionID", client.SessionID),
					zap.Int("total_clients", h.count()),
				)
			}

		case sessionID := <-h.closeSession:
			if n := h.dropSession(sessionID); n > 0 {
				log.Info("Session clients disconnected",
					zap.String("sessionID", sessionID),
					zap.Int("clients", n),
				)
			}

		case msg := <-h.reply:
			client := msg.Client
			if !h.clients[client.SessionID][client] {
				log.Debug("Reply for unregistered client dropped", zap.String("clientID", client.ID))
				continue
			}
			select {
			case client.Send <- msg.Data:
			default:
				// the client is not reading, disconnect it
				h.remove(client)
				log.Warn("Failed to Send message to client, unregistering",
					zap.String("clientID", client.ID),
					zap.String("sessionID", client.SessionID),
				)
			}
		}
	}
}

func (h *Hub) remove(client *Client) bool {
	clients, ok := h.clients[client.SessionID]
	if !ok || !clients[client] {
		return false
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.SessionID)
	}
	return true
}

func (h *Hub) dropSession(sessionID string) int {
	clients := h.clients[sessionID]
	for client := range clients {
		close(client.Send)
	}
	delete(h.clients, sessionID)
	return len(clients)
}

func (h *Hub) count() int {
	count := 0
	for _, sessionClients := range h.clients {
		count += len(sessionClients)
	}
	return count
}

// RegisterClient register a new client in the hub
func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		log.Warn("Hub stopped, client registration failed",
			zap.String("clientID", client.ID),
			zap.String("sessionID", client.SessionID),
		)
		close(client.Send)
	}
}

// UnregisterClient delete a client from the hub
func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	default:
		log.Error("Unregister channel is full, client unregistration failed",
			zap.String("clientID", client.ID),
			zap.String("sessionID", client.SessionID),
		)
	}
}

// CloseSession disconnects every client of sessionID.
func (h *Hub) CloseSession(sessionID string) {
	select {
	case h.closeSession <- sessionID:
	default:
		log.Error("Close channel is full, session clients kept", zap.String("sessionID", sessionID))
	}
}

// Reply queues data for client alone. Replies to clients that already left
// are dropped by the hub.
func (h *Hub) Reply(client *Client, data []byte) {
	select {
	case h.reply <- &Message{Client: client, Data: data}:
	default:
		log.Error("Reply channel is full, message dropped",
			zap.String("clientID", client.ID),
			zap.String("sessionID", client.SessionID),
		)
	}
}

// ReadPump forwards the client messages to InboundMessages until the
// connection fails or ctx is cancelled. It runs in the connection goroutine.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
		log.Info("ReadPump stopped for client",
			zap.String("clientID", c.ID),
			zap.String("sessionID", c.SessionID),
		)
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("WebSocket read error",
					zap.String("clientID", c.ID),
					zap.String("sessionID", c.SessionID),
					zap.Error(err),
				)
			} else {
				log.Info("WebSocket connection closed by peer",
					zap.String("clientID", c.ID),
					zap.String("sessionID", c.SessionID),
					zap.Error(err),
				)
			}
			return
		}

		select {
		case c.Hub.InboundMessages <- &ClientMessage{Client: c, Data: message}:
		default:
			log.Error("Hub InboundMessages channel is full, dropping message",
				zap.String("clientID", c.ID),
				zap.String("sessionID", c.SessionID),
				zap.ByteString("message", message),
			)
		}
	}
}

// WritePump pumps messages from the hub to the websocket connection.
// A goroutine running WritePump is started for each connection. The
// application ensures that there is at most one writer to a connection by
// invoking WriteControl and WriteMessage from a single goroutine.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			err := c.Conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			if err != nil {
				log.Error("Failed to send close control message",
					zap.String("clientID", c.ID),
					zap.Error(err),
				)
			}
			return

		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The Hub closed the channel.
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// one JSON document per frame
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error("Failed to write message to client",
					zap.String("clientID", c.ID),
					zap.String("sessionID", c.SessionID),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Error("Failed to write ping message to client",
					zap.String("clientID", c.ID),
					zap.Error(err),
				)
				return
			}
		}
	}
}
