package domain

import (
	"encoding/json"
	"fmt"
)

// FlexID accepts identifiers sent either as JSON strings or numbers.
type FlexID string

func (id *FlexID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = FlexID(n.String())
	return nil
}

// ActionResponse is the envelope shared by every auction service answer.
type ActionResponse struct {
	IsSuccess bool   `json:"isSuccess"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// Failed reports an isSuccess=false answer that carries a code or a message.
func (r ActionResponse) Failed() bool {
	return !r.IsSuccess && (r.Code != "" || r.Message != "")
}

type DetailResponse struct {
	ActionResponse
	Result *RawDetail `json:"result"`
}

type RawDetail struct {
	ItemID          FlexID              `json:"itemId"`
	Title           string              `json:"title"`
	Name            string              `json:"name"`
	Category        string              `json:"category"`
	Images          []string            `json:"images"`
	SellerInfo      *RawSeller          `json:"sellerInfo"`
	TradeInfo       *RawTradeInfo       `json:"tradeInfo"`
	AuctionInfo     *RawAuctionInfo     `json:"auctionInfo"`
	UserInteraction *RawUserInteraction `json:"userInteraction"`
	BidHistory      []RawBid            `json:"bidHistory"`
	CreatedAt       string              `json:"createdAt"`
	Description     string              `json:"description"`
}

type RawSeller struct {
	MannerScore  float64 `json:"mannerScore"`
	Nickname     string  `json:"nickname"`
	ProfileImage string  `json:"profileImage"`
	TradesCount  int     `json:"tradesCount"`
}

type RawTradeInfo struct {
	TradeMethods []string `json:"tradeMethods"`
	TradeDetails string   `json:"tradeDetails"`
}

type RawAuctionInfo struct {
	StartPrice   int64  `json:"startPrice"`
	CurrentPrice int64  `json:"currentPrice"`
	BidIncrement int64  `json:"bidIncrement"`
	BidCount     int    `json:"bidCount"`
	EndTime      string `json:"endTime"`
}

type RawUserInteraction struct {
	IsLiked   bool `json:"isLiked"`
	LikeCount int  `json:"likeCount"`
	ViewCount int  `json:"viewCount"`
}

type RawBidder struct {
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profileImage"`
}

type RawBid struct {
	BidID    FlexID     `json:"bidId"`
	BidPrice int64      `json:"bidPrice"`
	BidTime  string     `json:"bidTime"`
	Bidder   *RawBidder `json:"bidder"`
}

type BidResponse struct {
	ActionResponse
	Result *BidResult `json:"result"`
}

// BidResult carries the authoritative fields of a bid answer. Pointer fields
// are optional and nil when the server leaves them out.
type BidResult struct {
	TransactionID          FlexID     `json:"transactionId"`
	BidPrice               int64      `json:"bidPrice"`
	Bidder                 *RawBidder `json:"bidder"`
	BidTime                string     `json:"bidTime"`
	BidCount               *int       `json:"bidCount"`
	CurrentHighestPrice    *int64     `json:"currentHighestPrice"`
	RemainingTimeInSeconds *int64     `json:"remainingTimeInSeconds"`
	CurrentPrice           *int64     `json:"currentPrice"`
	MinimumBidPrice        *int64     `json:"minimumBidPrice"`
}
