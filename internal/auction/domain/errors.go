package domain

import (
	"errors"
	"fmt"
)

var (
	ErrStoreClosed     = errors.New("detail store is closed")
	ErrSessionNotFound = errors.New("detail session not found")
)

const (
	GenericLikeFailureMessage = "could not update the like, please try again"
	GenericBidFailureMessage  = "the bid could not be submitted, please try again"
)

// UserFacing is implemented by errors that carry a message meant for the user.
type UserFacing interface {
	error
	UserMessage() string
}

// ValidationError is a bid rejected locally before any request is made.
type ValidationError struct {
	Candidate int64
	Minimum   int64
	Basis     int64 // max(current, start)
	Increment int64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("bid %d below minimum %d", e.Candidate, e.Minimum)
}

func (e *ValidationError) UserMessage() string {
	return fmt.Sprintf("the minimum bid is %s (current price %s + increment %s)",
		FormatAmount(e.Minimum), FormatAmount(e.Basis), FormatAmount(e.Increment))
}

// ServerRejection is an isSuccess=false answer with a code that is not an
// idempotency signal.
type ServerRejection struct {
	Code       string
	Message    string
	MinimumBid *int64
}

func (e *ServerRejection) Error() string {
	return fmt.Sprintf("server rejected request: %s: %s", e.Code, e.Message)
}

func (e *ServerRejection) UserMessage() string {
	msg := e.Message
	if msg == "" {
		msg = "the request was rejected"
	}
	if e.MinimumBid != nil {
		msg = fmt.Sprintf("%s (minimum bid: %s)", msg, FormatAmount(*e.MinimumBid))
	}
	return msg
}

// TransportError is a network failure or a non-2xx HTTP answer. Body keeps the
// raw payload so callers can look for an embedded authoritative response.
type TransportError struct {
	Op         string
	StatusCode int
	Body       []byte
	Err        error
	Fallback   string
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) UserMessage() string {
	if e.Fallback != "" {
		return e.Fallback
	}
	return "the auction service is unavailable, please try again"
}

// ParseError reports a detail payload that cannot be turned into a snapshot.
type ParseError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.Field, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) UserMessage() string {
	return "the auction details could not be read"
}
