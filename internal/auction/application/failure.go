package application

import (
	"errors"
	"net/http"

	"github.com/cristianortiz/auctionDetail/internal/auction/domain"
)

// response codes of this service; upstream codes are passed through for
// server rejections
const (
	CodeOK                = "COMMON200"
	CodeBadRequest        = "COMMON4000"
	CodeBidBelowMinimum   = "BID4000"
	CodeSessionNotFound   = "SESSION4040"
	CodeUpstreamFailure   = "COMMON5020"
	CodeUpstreamMalformed = "COMMON5021"
	CodeInternal          = "COMMON5000"
)

// Failure is how an error is presented to the front end.
type Failure struct {
	Status  int
	Code    string
	Message string
}

// DescribeFailure maps an error returned by the detail service to a status,
// a code and a user message.
func DescribeFailure(err error) Failure {
	var (
		validation *domain.ValidationError
		rejection  *domain.ServerRejection
		transport  *domain.TransportError
		parse      *domain.ParseError
	)
	switch {
	case errors.As(err, &validation):
		return Failure{Status: http.StatusBadRequest, Code: CodeBidBelowMinimum, Message: validation.UserMessage()}
	case errors.As(err, &rejection):
		code := rejection.Code
		if code == "" {
			code = CodeUpstreamFailure
		}
		return Failure{Status: http.StatusConflict, Code: code, Message: rejection.UserMessage()}
	case errors.As(err, &parse):
		return Failure{Status: http.StatusBadGateway, Code: CodeUpstreamMalformed, Message: parse.UserMessage()}
	case errors.As(err, &transport):
		return Failure{Status: http.StatusBadGateway, Code: CodeUpstreamFailure, Message: transport.UserMessage()}
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrStoreClosed):
		return Failure{Status: http.StatusNotFound, Code: CodeSessionNotFound, Message: "the detail session has ended, reload the page"}
	default:
		return Failure{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "unexpected error"}
	}
}
