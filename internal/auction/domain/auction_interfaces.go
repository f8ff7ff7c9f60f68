package domain

import (
	"context"
)

// Response codes the server uses to say the requested like state is already in place.
const (
	CodeAlreadyLiked   = "ITEM4003"
	CodeAlreadyUnliked = "ITEM4004"
)

// FetchOptions tunes a detail fetch.
type FetchOptions struct {
	BidHistoryLimit int
}

// AuctionGateway is the remote auction service, the authority for prices,
// likes and bids. Implementations return *TransportError for network failures
// and non-2xx answers.
type AuctionGateway interface {
	FetchDetail(ctx context.Context, itemID string, opts FetchOptions) (*DetailResponse, error)
	SubmitBid(ctx context.Context, itemID string, bidPrice int64) (*BidResponse, error)
	Like(ctx context.Context, itemID string) (*ActionResponse, error)
	Unlike(ctx context.Context, itemID string) (*ActionResponse, error)
}
