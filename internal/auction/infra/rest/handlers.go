package rest

import (
	"context"
	"errors"
	"strings"

	"github.com/cristianortiz/auctionDetail/internal/auction/application"
	"github.com/cristianortiz/auctionDetail/internal/auction/domain"
	"github.com/cristianortiz/auctionDetail/internal/shared/logger"
	userdomain "github.com/cristianortiz/auctionDetail/internal/user/domain"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

var errInvalidSessionID = errors.New("invalid session id")

// AuctionHandler serves the detail sessions over HTTP.
type AuctionHandler struct {
	service  application.DetailService
	validate *validator.Validate
}

func NewAuctionHandler(service application.DetailService) *AuctionHandler {
	return &AuctionHandler{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Register mounts the routes on router.
func (h *AuctionHandler) Register(router fiber.Router) {
	router.Post("/auctions/:itemId/sessions", h.mount)
	router.Get("/sessions/:sessionId", h.snapshot)
	router.Post("/sessions/:sessionId/like", h.toggleLike)
	router.Post("/sessions/:sessionId/bids", h.placeBid)
	router.Delete("/sessions/:sessionId", h.unmount)
}

func (h *AuctionHandler) mount(c *fiber.Ctx) error {
	var req MountRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	user := userdomain.CurrentUser{Nickname: strings.TrimSpace(req.Nickname), AvatarURL: req.AvatarURL}
	// path and header values live in the request buffer, the session outlives it
	itemID := utils.CopyString(c.Params("itemId"))
	sessionID, snap, err := h.service.Mount(c.UserContext(), itemID, user, bearerToken(c))
	if err != nil {
		return fail(c, err, nil)
	}
	return c.Status(fiber.StatusCreated).JSON(Envelope{
		IsSuccess: true,
		Code:      application.CodeOK,
		Message:   "session opened",
		Result:    MountResult{SessionID: sessionID, Snapshot: snap},
	})
}

func (h *AuctionHandler) snapshot(c *fiber.Ctx) error {
	return h.withSession(c, func(ctx context.Context, id uuid.UUID) (domain.AuctionSnapshot, error) {
		return h.service.Snapshot(id)
	})
}

func (h *AuctionHandler) toggleLike(c *fiber.Ctx) error {
	return h.withSession(c, h.service.ToggleLike)
}

func (h *AuctionHandler) placeBid(c *fiber.Ctx) error {
	var req BidRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "price must be a positive amount")
	}
	return h.withSession(c, func(ctx context.Context, id uuid.UUID) (domain.AuctionSnapshot, error) {
		return h.service.SubmitBid(ctx, id, req.Price)
	})
}

func (h *AuctionHandler) unmount(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return fail(c, err, nil)
	}
	if err := h.service.Unmount(id); err != nil {
		return fail(c, err, nil)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// withSession runs action on the session named in the path and answers with
// the resulting snapshot. A failed action still carries the snapshot it left.
func (h *AuctionHandler) withSession(c *fiber.Ctx, action func(context.Context, uuid.UUID) (domain.AuctionSnapshot, error)) error {
	id, err := sessionID(c)
	if err != nil {
		return fail(c, err, nil)
	}
	snap, err := action(c.UserContext(), id)
	if err != nil {
		var result any
		if snap.ID != "" {
			result = snap
		}
		return fail(c, err, result)
	}
	return c.JSON(Envelope{IsSuccess: true, Code: application.CodeOK, Message: "ok", Result: snap})
}

func sessionID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return uuid.Nil, errInvalidSessionID
	}
	return id, nil
}

func bearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return utils.CopyString(strings.TrimSpace(auth[7:]))
	}
	return ""
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(Envelope{Code: application.CodeBadRequest, Message: message})
}

func fail(c *fiber.Ctx, err error, result any) error {
	if errors.Is(err, errInvalidSessionID) {
		return badRequest(c, err.Error())
	}
	f := application.DescribeFailure(err)
	if f.Status >= fiber.StatusInternalServerError {
		log.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
	} else {
		log.Debug("Request rejected", zap.String("path", c.Path()), zap.String("code", f.Code), zap.Error(err))
	}
	return c.Status(f.Status).JSON(Envelope{Code: f.Code, Message: f.Message, Result: result})
}
