package websocket

import (
	"context"
	"encoding/json"

	"github.com/cristianortiz/auctionDetail/internal/auction/application"
	"github.com/cristianortiz/auctionDetail/internal/auction/domain"
	"github.com/cristianortiz/auctionDetail/internal/shared/logger"
	"github.com/cristianortiz/auctionDetail/internal/shared/websocket"
	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const sessionIDLocal = "sessionID"

// AuctionWSHandler handles the ws inbound msgs of the auction module. Every
// answer goes to the client that sent the message.
type AuctionWSHandler struct {
	service application.DetailService // application layer dependency
	hub     *websocket.Hub             // shared hub dependency to send msgs
}

// NewAuctionWSHandler creates a new instance of AuctionWSHandler
func NewAuctionWSHandler(service application.DetailService, hub *websocket.Hub) *AuctionWSHandler {
	return &AuctionWSHandler{
		service: service,
		hub:     hub,
	}
}

// Register mounts the websocket endpoint of a session. Connections live until
// the peer leaves, the session ends or ctx is cancelled.
func (h *AuctionWSHandler) Register(ctx context.Context, router fiber.Router) {
	router.Get("/ws/sessions/:sessionId", h.upgrade, fiberws.New(func(conn *fiberws.Conn) {
		sessionID, _ := conn.Locals(sessionIDLocal).(string)
		client := h.hub.NewClient(conn, sessionID, uuid.NewString())
		h.hub.RegisterClient(client)
		go client.WritePump(ctx)
		client.ReadPump(ctx)
	}))
}

// upgrade accepts websocket upgrades for live sessions only.
func (h *AuctionWSHandler) upgrade(c *fiber.Ctx) error {
	if !fiberws.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	id, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return fiber.ErrBadRequest
	}
	if _, err := h.service.Snapshot(id); err != nil {
		return fiber.ErrNotFound
	}
	// the hub closes sessions by their canonical id
	c.Locals(sessionIDLocal, id.String())
	return c.Next()
}

// ListenForMessages starts a go routine that listen the Hub inbound channel for messages and proccess every one of them
func (h *AuctionWSHandler) ListenForMessages(ctx context.Context) {
	log.Info("AuctionWSHandler started listening for inbound messages from hub")
	for {
		select {
		case <-ctx.Done():
			log.Info("AuctionWSHandler stopped listening for inbound messages from hub")
			return
		case msg := <-h.hub.InboundMessages:
			go h.processMessage(ctx, msg.Client, msg.Data)
		}
	}
}

// processMessage dispatch the message by its type
func (h *AuctionWSHandler) processMessage(ctx context.Context, client *websocket.Client, data []byte) {
	var baseMsg BaseMessage
	if err := json.Unmarshal(data, &baseMsg); err != nil {
		h.sendErrorToClient(client, application.CodeBadRequest, "invalid message format", nil)
		return
	}
	sessionID, err := uuid.Parse(client.SessionID)
	if err != nil {
		h.sendErrorToClient(client, application.CodeBadRequest, "invalid session id", nil)
		return
	}

	switch baseMsg.Type {
	case MessageTypeClientGetState:
		snap, err := h.service.Snapshot(sessionID)
		h.reply(client, snap, err)
	case MessageTypeClientToggleLike:
		snap, err := h.service.ToggleLike(ctx, sessionID)
		h.reply(client, snap, err)
	case MessageTypeClientPlaceBid:
		var bidMsg ClientBidMessage
		if err := json.Unmarshal(data, &bidMsg); err != nil || bidMsg.Payload.Price <= 0 {
			h.sendErrorToClient(client, application.CodeBadRequest, "invalid bid message format", nil)
			return
		}
		snap, err := h.service.SubmitBid(ctx, sessionID, bidMsg.Payload.Price)
		h.reply(client, snap, err)
	default:
		h.sendErrorToClient(client, application.CodeBadRequest, "unknown message type", nil)
	}
}

func (h *AuctionWSHandler) reply(client *websocket.Client, snap domain.AuctionSnapshot, err error) {
	if err != nil {
		f := application.DescribeFailure(err)
		var left *domain.AuctionSnapshot
		if snap.ID != "" {
			left = &snap
		}
		h.sendErrorToClient(client, f.Code, f.Message, left)
		return
	}

	msg := ServerSnapshotMessage{
		BaseMessage: BaseMessage{Type: MessageTypeServerSnapshot},
		Payload:     snap,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("failed to marshal ServerSnapshotMessage", zap.Error(err))
		return
	}
	h.hub.Reply(client, data)
}

// sendErrorToClient serializes and sends an error msg to a specific client
func (h *AuctionWSHandler) sendErrorToClient(client *websocket.Client, code, errorMessage string, snap *domain.AuctionSnapshot) {
	errMsg := ServerErrorMessage{
		BaseMessage: BaseMessage{MessageTypeServerError},
	}
	errMsg.Payload.Code = code
	errMsg.Payload.Error = errorMessage
	errMsg.Payload.Snapshot = snap
	data, err := json.Marshal(errMsg)
	if err != nil {
		log.Error("failed to marshal ServerErrorMessage", zap.Error(err))
		return
	}
	h.hub.Reply(client, data)
}
