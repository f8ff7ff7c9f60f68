package domain

import (
	"time"
)

// Tag is the display-only classification of a bid record. It is derived from
// the whole history and never sent by the server.
type Tag string

const (
	TagNone   Tag = "none"
	TagRecent Tag = "recent"
	TagMin    Tag = "min"
	TagMax    Tag = "max"
)

// FallbackNickname is shown for the user's own bid when neither the server nor
// the session knows a nickname.
const FallbackNickname = "나"

// BidRecord represents one entry of the bid history of an auction detail.
type BidRecord struct {
	ID             string    `json:"id"`
	BidderNickname string    `json:"bidderNickname"`
	Price          int64     `json:"price"`
	Timestamp      time.Time `json:"timestamp"`
	Tag            Tag       `json:"tag"`
	AvatarURL      string    `json:"avatarUrl,omitempty"`
}

// NewBidRecord creates an untagged BidRecord.
func NewBidRecord(id, nickname string, price int64, timestamp time.Time, avatarURL string) BidRecord {
	return BidRecord{
		ID:             id,
		BidderNickname: nickname,
		Price:          price,
		Timestamp:      timestamp,
		Tag:            TagNone,
		AvatarURL:      avatarURL,
	}
}
