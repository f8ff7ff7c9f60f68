package websocket

import (
	"github.com/cristianortiz/auctionDetail/internal/auction/domain"
)

// MessageType defines ws type message
type MessageType string

const (
	MessageTypeClientGetState   MessageType = "get_state"   // client asks for the current snapshot
	MessageTypeClientToggleLike MessageType = "toggle_like" // client toggles its like
	MessageTypeClientPlaceBid   MessageType = "place_bid"   // client places a bid
	MessageTypeServerSnapshot   MessageType = "snapshot"    // server reply with the session snapshot
	MessageTypeServerError      MessageType = "error"       // server reply for a failed action
)

// BaseMessage is base struct for all the WS messages, includes a Type field for identify the message type
type BaseMessage struct {
	Type MessageType `json:"type"`
}

// ClientBidMessage is the DTO of a place_bid message
type ClientBidMessage struct {
	BaseMessage
	Payload struct {
		Price int64 `json:"price"`
	} `json:"payload"`
}

type ServerSnapshotMessage struct {
	BaseMessage
	Payload domain.AuctionSnapshot `json:"payload"`
}

// ServerErrorMessage reports a failed action. Snapshot is the state the action
// left behind, when there is one.
type ServerErrorMessage struct {
	BaseMessage
	Payload struct {
		Code     string                  `json:"code"`
		Error    string                  `json:"error"`
		Snapshot *domain.AuctionSnapshot `json:"snapshot,omitempty"`
	} `json:"payload"`
}
