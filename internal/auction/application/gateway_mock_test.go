package application

import (
	"context"

	"github.com/cristianortiz/auctionDetail/internal/auction/domain"
	"github.com/stretchr/testify/mock"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) FetchDetail(ctx context.Context, itemID string, opts domain.FetchOptions) (*domain.DetailResponse, error) {
	args := m.Called(ctx, itemID, opts)
	resp, _ := args.Get(0).(*domain.DetailResponse)
	return resp, args.Error(1)
}

func (m *mockGateway) SubmitBid(ctx context.Context, itemID string, bidPrice int64) (*domain.BidResponse, error) {
	args := m.Called(ctx, itemID, bidPrice)
	resp, _ := args.Get(0).(*domain.BidResponse)
	return resp, args.Error(1)
}

func (m *mockGateway) Like(ctx context.Context, itemID string) (*domain.ActionResponse, error) {
	args := m.Called(ctx, itemID)
	resp, _ := args.Get(0).(*domain.ActionResponse)
	return resp, args.Error(1)
}

func (m *mockGateway) Unlike(ctx context.Context, itemID string) (*domain.ActionResponse, error) {
	args := m.Called(ctx, itemID)
	resp, _ := args.Get(0).(*domain.ActionResponse)
	return resp, args.Error(1)
}

func okResponse() *domain.ActionResponse {
	return &domain.ActionResponse{IsSuccess: true, Code: "COMMON200", Message: "ok"}
}

func failed(code, message string) *domain.ActionResponse {
	return &domain.ActionResponse{IsSuccess: false, Code: code, Message: message}
}

func ptr[T any](v T) *T {
	return &v
}

// rawDetail is a complete detail payload for item 42.
func rawDetail() *domain.RawDetail {
	return &domain.RawDetail{
		ItemID:      "42",
		Title:       "Vintage camera",
		Name:        "Camera",
		Category:    "DIGITAL",
		Images:      []string{"a.png", "b.png"},
		Description: "works fine",
		CreatedAt:   "2025-03-01T10:00:00+09:00",
		SellerInfo:  &domain.RawSeller{MannerScore: 73, Nickname: "seller", ProfileImage: "s.png", TradesCount: 12},
		TradeInfo:   &domain.RawTradeInfo{TradeMethods: []string{"DIRECT", "OTHER"}, TradeDetails: "meet at the station"},
		AuctionInfo: &domain.RawAuctionInfo{
			StartPrice:   10000,
			CurrentPrice: 12000,
			BidIncrement: 1000,
			BidCount:     2,
			EndTime:      "2025-03-08T22:30:00+09:00",
		},
		UserInteraction: &domain.RawUserInteraction{IsLiked: false, LikeCount: 5, ViewCount: 99},
		BidHistory: []domain.RawBid{
			{BidID: "1", BidPrice: 11000, BidTime: "2025-03-02T09:00:00+09:00", Bidder: &domain.RawBidder{Nickname: "kim"}},
			{BidID: "2", BidPrice: 12000, BidTime: "2025-03-03T09:00:00+09:00", Bidder: &domain.RawBidder{Nickname: "lee"}},
		},
	}
}
