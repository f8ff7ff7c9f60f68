package domain

import (
	"time"
)

// AuctionSnapshot is the view-model of one auction detail session.
// It is owned by a single DetailStore, which is the only place it is mutated.
type AuctionSnapshot struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Images      []string    `json:"images"`
	CreatedAt   time.Time   `json:"createdAt,omitzero"`
	Price       Price       `json:"price"`
	Metrics     Metrics     `json:"metrics"`
	BidHistory  []BidRecord `json:"bidHistory"`
	Calendar    Calendar    `json:"calendar"`
	Seller      Seller      `json:"seller"`
	Trade       Trade       `json:"trade"`
}

// Price holds the amounts needed to validate a bid locally.
type Price struct {
	StartPrice int64 `json:"startPrice"`
	Current    int64 `json:"current"`
	UnitStep   int64 `json:"unitStep"`
}

// MinAllowedBid mirrors the server acceptance rule: the higher of current and
// start price plus the increment (ignored when not positive).
func (p Price) MinAllowedBid() int64 {
	base := max(p.Current, p.StartPrice)
	if p.UnitStep > 0 {
		return base + p.UnitStep
	}
	return base
}

// Basis returns the price the minimum bid is computed from.
func (p Price) Basis() int64 {
	return max(p.Current, p.StartPrice)
}

type Metrics struct {
	Views     int  `json:"views"`
	Watchers  int  `json:"watchers"`
	UserLiked bool `json:"userLiked"`
	Bids      int  `json:"bids"`
}

type Seller struct {
	Nickname     string  `json:"nickname"`
	ProfileImage string  `json:"profileImage,omitempty"`
	MannerScore  float64 `json:"mannerScore"`
	Rating       float64 `json:"rating"` // 0-5 stars in 0.5 steps
	TradesCount  int     `json:"tradesCount"`
}

type Trade struct {
	Methods []string `json:"methods"`
	Note    string   `json:"note,omitempty"` // only set when OTHER is offered
}

// LikeState returns the like related part of the metrics.
func (s *AuctionSnapshot) LikeState() LikeState {
	return LikeState{UserLiked: s.Metrics.UserLiked, Watchers: s.Metrics.Watchers}
}

// SetLikeState writes a like state back, clamping watchers at zero.
func (s *AuctionSnapshot) SetLikeState(ls LikeState) {
	s.Metrics.UserLiked = ls.UserLiked
	s.Metrics.Watchers = clampWatchers(ls.Watchers)
}

// AddBid inserts a record keeping the history newest first and re-tags the list.
func (s *AuctionSnapshot) AddBid(rec BidRecord) {
	history := make([]BidRecord, 0, len(s.BidHistory)+1)
	inserted := false
	for _, existing := range s.BidHistory {
		if !inserted && !existing.Timestamp.After(rec.Timestamp) {
			history = append(history, rec)
			inserted = true
		}
		history = append(history, existing)
	}
	if !inserted {
		history = append(history, rec)
	}
	s.BidHistory = RetagHistory(history)
}

// Clone returns a deep copy that shares no slices with s.
func (s *AuctionSnapshot) Clone() AuctionSnapshot {
	out := *s
	out.Images = append([]string(nil), s.Images...)
	out.BidHistory = append([]BidRecord(nil), s.BidHistory...)
	out.Trade.Methods = append([]string(nil), s.Trade.Methods...)
	if out.Images == nil {
		out.Images = []string{}
	}
	if out.BidHistory == nil {
		out.BidHistory = []BidRecord{}
	}
	if out.Trade.Methods == nil {
		out.Trade.Methods = []string{}
	}
	return out
}
