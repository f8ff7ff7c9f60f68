package application

import (
	"strconv"
	"strings"
	"time"

	"github.com/cristianortiz/auctionDetail/internal/auction/domain"
	"github.com/shopspring/decimal"
)

// trade method enums and their display labels
const (
	TradeMethodDirect   = "DIRECT"
	TradeMethodDelivery = "DELIVERY"
	TradeMethodOther    = "OTHER"
)

var tradeMethodLabels = map[string]string{
	TradeMethodDirect:   "직거래",
	TradeMethodDelivery: "택배",
	TradeMethodOther:    "기타",
}

var (
	hundred = decimal.NewFromInt(100)
	ten     = decimal.NewFromInt(10)
	two     = decimal.NewFromInt(2)
)

// Mapper turns a raw detail payload into an AuctionSnapshot. It is the only
// place that knows the upstream detail shape.
type Mapper struct {
	loc *time.Location
}

// NewMapper creates a Mapper rendering dates in loc (UTC when nil).
func NewMapper(loc *time.Location) *Mapper {
	if loc == nil {
		loc = time.UTC
	}
	return &Mapper{loc: loc}
}

// Location is the display time zone of the mapper.
func (m *Mapper) Location() *time.Location {
	return m.loc
}

// Map builds a snapshot. Optional sections default to zero values; payloads
// that cannot describe an auction at all return a *domain.ParseError.
func (m *Mapper) Map(raw *domain.RawDetail) (domain.AuctionSnapshot, error) {
	if raw == nil {
		return domain.AuctionSnapshot{}, &domain.ParseError{Field: "result", Reason: "missing"}
	}
	id := strings.TrimSpace(string(raw.ItemID))
	if id == "" {
		return domain.AuctionSnapshot{}, &domain.ParseError{Field: "itemId", Reason: "missing"}
	}

	snap := domain.AuctionSnapshot{
		ID:          id,
		Title:       raw.Title,
		Name:        raw.Name,
		Category:    raw.Category,
		Description: raw.Description,
		Images:      nonNil(raw.Images),
		BidHistory:  []domain.BidRecord{},
		Trade:       domain.Trade{Methods: []string{}},
	}

	createdAt, err := m.optionalTime("createdAt", raw.CreatedAt)
	if err != nil {
		return domain.AuctionSnapshot{}, err
	}
	snap.CreatedAt = createdAt
	snap.Calendar.SetStart(createdAt)

	if info := raw.AuctionInfo; info != nil {
		if info.StartPrice < 0 || info.CurrentPrice < 0 || info.BidIncrement < 0 {
			return domain.AuctionSnapshot{}, &domain.ParseError{Field: "auctionInfo", Reason: "negative amount"}
		}
		if info.BidCount < 0 {
			return domain.AuctionSnapshot{}, &domain.ParseError{Field: "auctionInfo.bidCount", Reason: "negative count"}
		}
		snap.Price = domain.Price{
			StartPrice: info.StartPrice,
			Current:    info.CurrentPrice,
			UnitStep:   info.BidIncrement,
		}
		snap.Metrics.Bids = info.BidCount

		endsAt, err := m.optionalTime("auctionInfo.endTime", info.EndTime)
		if err != nil {
			return domain.AuctionSnapshot{}, err
		}
		if !endsAt.IsZero() {
			snap.Calendar.SetEnd(endsAt)
		}
	}

	if ui := raw.UserInteraction; ui != nil {
		snap.Metrics.Views = max(ui.ViewCount, 0)
		snap.SetLikeState(domain.LikeState{UserLiked: ui.IsLiked, Watchers: ui.LikeCount})
	}

	if s := raw.SellerInfo; s != nil {
		snap.Seller = domain.Seller{
			Nickname:     s.Nickname,
			ProfileImage: s.ProfileImage,
			MannerScore:  s.MannerScore,
			Rating:       StarRating(s.MannerScore),
			TradesCount:  s.TradesCount,
		}
	}

	if t := raw.TradeInfo; t != nil {
		snap.Trade = mapTrade(t)
	}

	history, err := m.mapHistory(raw.BidHistory)
	if err != nil {
		return domain.AuctionSnapshot{}, err
	}
	snap.BidHistory = history

	return snap, nil
}

func (m *Mapper) mapHistory(raw []domain.RawBid) ([]domain.BidRecord, error) {
	records := make([]domain.BidRecord, 0, len(raw))
	for i, b := range raw {
		if b.BidTime == "" {
			return nil, &domain.ParseError{Field: fieldAt("bidHistory", i, "bidTime"), Reason: "missing"}
		}
		ts, err := domain.ParseTimestamp(b.BidTime, m.loc)
		if err != nil {
			return nil, &domain.ParseError{Field: fieldAt("bidHistory", i, "bidTime"), Reason: "invalid timestamp", Err: err}
		}
		if b.BidPrice < 0 {
			return nil, &domain.ParseError{Field: fieldAt("bidHistory", i, "bidPrice"), Reason: "negative amount"}
		}
		var nickname, avatar string
		if b.Bidder != nil {
			nickname, avatar = b.Bidder.Nickname, b.Bidder.ProfileImage
		}
		records = append(records, domain.NewBidRecord(string(b.BidID), nickname, b.BidPrice, ts, avatar))
	}
	domain.SortNewestFirst(records)
	return domain.RetagHistory(records), nil
}

func (m *Mapper) optionalTime(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	t, err := domain.ParseTimestamp(value, m.loc)
	if err != nil {
		return time.Time{}, &domain.ParseError{Field: field, Reason: "invalid timestamp", Err: err}
	}
	return t, nil
}

// StarRating converts a 0-100 manner score to 0-5 stars in half steps:
// round(score/100*5*2)/2, rounding halves up.
func StarRating(score float64) float64 {
	score = min(max(score, 0), 100)
	stars := decimal.NewFromFloat(score).Div(hundred).Mul(ten).Round(0).Div(two)
	f, _ := stars.Float64()
	return f
}

func mapTrade(t *domain.RawTradeInfo) domain.Trade {
	trade := domain.Trade{Methods: make([]string, 0, len(t.TradeMethods))}
	hasOther := false
	for _, method := range t.TradeMethods {
		if method == TradeMethodOther {
			hasOther = true
		}
		if label, ok := tradeMethodLabels[method]; ok {
			trade.Methods = append(trade.Methods, label)
			continue
		}
		trade.Methods = append(trade.Methods, method)
	}
	if hasOther {
		trade.Note = t.TradeDetails
	}
	return trade
}

func nonNil(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func fieldAt(list string, i int, field string) string {
	return list + "[" + strconv.Itoa(i) + "]." + field
}
