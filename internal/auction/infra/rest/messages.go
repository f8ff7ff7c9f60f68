package rest

import (
	"github.com/cristianortiz/auctionDetail/internal/auction/domain"
	"github.com/google/uuid"
)

// Envelope is the shape of every answer, the same one the auction service uses.
type Envelope struct {
	IsSuccess bool   `json:"isSuccess"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Result    any    `json:"result,omitempty"`
}

// MountRequest is the optional identity of the user opening a session.
type MountRequest struct {
	Nickname  string `json:"nickname" validate:"omitempty,max=40"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url"`
}

type MountResult struct {
	SessionID uuid.UUID              `json:"sessionId"`
	Snapshot  domain.AuctionSnapshot `json:"snapshot"`
}

type BidRequest struct {
	Price int64 `json:"price" validate:"required,gt=0"`
}
