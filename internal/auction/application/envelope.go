package application

import (
	"encoding/json"
	"errors"

	"github.com/cristianortiz/auctionDetail/internal/auction/domain"
)

// decodeEmbedded decodes the body of a transport error into v. Callers still
// have to check the decoded envelope with Failed.
func decodeEmbedded(err error, v any) bool {
	var te *domain.TransportError
	if !errors.As(err, &te) || len(te.Body) == 0 {
		return false
	}
	return json.Unmarshal(te.Body, v) == nil
}

// asTransportError returns a copy of err as a *domain.TransportError carrying
// the given user message.
func asTransportError(op string, err error, fallback string) *domain.TransportError {
	var te *domain.TransportError
	if errors.As(err, &te) {
		out := *te
		out.Fallback = fallback
		return &out
	}
	return &domain.TransportError{Op: op, Err: err, Fallback: fallback}
}
