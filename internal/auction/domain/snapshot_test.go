package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrice_MinAllowedBid(t *testing.T) {
	tests := []struct {
		name  string
		price Price
		want  int64
	}{
		{"current above start", Price{StartPrice: 10000, Current: 12000, UnitStep: 1000}, 13000},
		{"start above current", Price{StartPrice: 10000, Current: 0, UnitStep: 500}, 10500},
		{"no increment", Price{StartPrice: 10000, Current: 12000}, 12000},
		{"negative increment ignored", Price{StartPrice: 10000, Current: 12000, UnitStep: -100}, 12000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.price.MinAllowedBid())
		})
	}
}

func TestLikeState(t *testing.T) {
	t.Run("toggle adjusts watchers", func(t *testing.T) {
		assert.Equal(t, LikeState{UserLiked: true, Watchers: 6}, LikeState{Watchers: 5}.Toggled())
		assert.Equal(t, LikeState{UserLiked: false, Watchers: 4}, LikeState{UserLiked: true, Watchers: 5}.Toggled())
	})

	t.Run("unlike never goes below zero", func(t *testing.T) {
		assert.Equal(t, LikeState{UserLiked: false, Watchers: 0}, LikeState{UserLiked: true, Watchers: 0}.Toggled())
	})

	t.Run("forcing the current state changes nothing", func(t *testing.T) {
		ls := LikeState{UserLiked: true, Watchers: 6}
		assert.Equal(t, ls, ls.Forced(true))
	})

	t.Run("forcing the other state flips once", func(t *testing.T) {
		assert.Equal(t, LikeState{UserLiked: true, Watchers: 6}, LikeState{Watchers: 5}.Forced(true))
		assert.Equal(t, LikeState{UserLiked: false, Watchers: 4}, LikeState{UserLiked: true, Watchers: 5}.Forced(false))
	})
}

func TestAuctionSnapshot_SetLikeStateClamps(t *testing.T) {
	var s AuctionSnapshot
	s.SetLikeState(LikeState{UserLiked: false, Watchers: -3})
	assert.Equal(t, 0, s.Metrics.Watchers)
}

func TestAuctionSnapshot_AddBid(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := AuctionSnapshot{BidHistory: RetagHistory([]BidRecord{
		record("b", 12000, base),
		record("a", 11000, base.Add(-time.Hour)),
	})}

	t.Run("newest goes first", func(t *testing.T) {
		s.AddBid(record("c", 13000, base.Add(time.Minute)))
		assert.Equal(t, "c", s.BidHistory[0].ID)
		assert.Equal(t, []Tag{TagMax, TagNone, TagMin}, tags(s.BidHistory))
	})

	t.Run("older record is placed by timestamp", func(t *testing.T) {
		s.AddBid(record("x", 11500, base.Add(-30*time.Minute)))
		ids := make([]string, len(s.BidHistory))
		for i, r := range s.BidHistory {
			ids[i] = r.ID
		}
		assert.Equal(t, []string{"c", "b", "x", "a"}, ids)
		assert.Equal(t, []Tag{TagMax, TagNone, TagNone, TagMin}, tags(s.BidHistory))
	})
}

func TestAuctionSnapshot_Clone(t *testing.T) {
	s := AuctionSnapshot{
		Images:     []string{"a.png"},
		BidHistory: []BidRecord{record("a", 100, time.Now())},
	}

	c := s.Clone()
	c.Images[0] = "changed.png"
	c.BidHistory[0].Price = 1

	assert.Equal(t, "a.png", s.Images[0])
	assert.Equal(t, int64(100), s.BidHistory[0].Price)
	assert.NotNil(t, c.Trade.Methods)
}
