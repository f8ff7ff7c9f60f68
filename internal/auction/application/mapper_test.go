package application

import (
	"testing"
	"time"

	"github.com/cristianortiz/auctionDetail/internal/auction/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seoul = time.FixedZone("KST", 9*60*60)

func TestMapper_Map(t *testing.T) {
	snap, err := NewMapper(seoul).Map(rawDetail())
	require.NoError(t, err)

	assert.Equal(t, "42", snap.ID)
	assert.Equal(t, []string{"a.png", "b.png"}, snap.Images)
	assert.Equal(t, domain.Price{StartPrice: 10000, Current: 12000, UnitStep: 1000}, snap.Price)
	assert.Equal(t, domain.Metrics{Views: 99, Watchers: 5, UserLiked: false, Bids: 2}, snap.Metrics)

	assert.Equal(t, "2025-03-01", snap.Calendar.StartDate)
	assert.Equal(t, "10:00", snap.Calendar.StartTime)
	assert.Equal(t, "2025-03-08", snap.Calendar.EndDate)
	assert.Equal(t, "22:30", snap.Calendar.EndTime)

	assert.Equal(t, 3.5, snap.Seller.Rating)
	assert.Equal(t, []string{"직거래", "기타"}, snap.Trade.Methods)
	assert.Equal(t, "meet at the station", snap.Trade.Note)

	require.Len(t, snap.BidHistory, 2)
	assert.Equal(t, "2", snap.BidHistory[0].ID, "newest first")
	assert.Equal(t, domain.TagMax, snap.BidHistory[0].Tag)
	assert.Equal(t, domain.TagMin, snap.BidHistory[1].Tag)
}

func TestMapper_MapDefaults(t *testing.T) {
	snap, err := NewMapper(seoul).Map(&domain.RawDetail{ItemID: "7"})
	require.NoError(t, err)

	assert.Equal(t, domain.Metrics{}, snap.Metrics)
	assert.NotNil(t, snap.Images)
	assert.NotNil(t, snap.BidHistory)
	assert.Empty(t, snap.BidHistory)
	assert.NotNil(t, snap.Trade.Methods)
	assert.Empty(t, snap.Calendar.StartDate)
	assert.Empty(t, snap.Calendar.EndDate)
}

func TestMapper_MapTrade(t *testing.T) {
	raw := &domain.RawDetail{ItemID: "7", TradeInfo: &domain.RawTradeInfo{
		TradeMethods: []string{"DELIVERY", "PICKUP_LOCKER"},
		TradeDetails: "ignored without OTHER",
	}}
	snap, err := NewMapper(seoul).Map(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"택배", "PICKUP_LOCKER"}, snap.Trade.Methods)
	assert.Empty(t, snap.Trade.Note)
}

func TestMapper_MapClampsNegativeLikeCount(t *testing.T) {
	raw := &domain.RawDetail{ItemID: "7", UserInteraction: &domain.RawUserInteraction{LikeCount: -2}}
	snap, err := NewMapper(seoul).Map(raw)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Metrics.Watchers)
}

func TestMapper_MapErrors(t *testing.T) {
	tests := []struct {
		name  string
		raw   func() *domain.RawDetail
		field string
	}{
		{"missing result", func() *domain.RawDetail { return nil }, "result"},
		{"missing item id", func() *domain.RawDetail {
			r := rawDetail()
			r.ItemID = " "
			return r
		}, "itemId"},
		{"bad end time", func() *domain.RawDetail {
			r := rawDetail()
			r.AuctionInfo.EndTime = "next friday"
			return r
		}, "auctionInfo.endTime"},
		{"negative price", func() *domain.RawDetail {
			r := rawDetail()
			r.AuctionInfo.CurrentPrice = -1
			return r
		}, "auctionInfo"},
		{"bid without time", func() *domain.RawDetail {
			r := rawDetail()
			r.BidHistory[1].BidTime = ""
			return r
		}, "bidHistory[1].bidTime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMapper(seoul).Map(tt.raw())
			var parseErr *domain.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.field, parseErr.Field)
		})
	}
}

func TestStarRating(t *testing.T) {
	tests := []struct {
		score float64
		want  float64
	}{
		{0, 0},
		{73, 3.5},
		{75, 4},
		{85, 4.5},
		{100, 5},
		{130, 5},
		{-10, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StarRating(tt.score), "score %v", tt.score)
	}
}
