package application

import (
	"context"
	"strings"
	"time"

	"github.com/cristianortiz/auctionDetail/internal/auction/domain"
	"github.com/cristianortiz/auctionDetail/internal/shared/logger"
	userdomain "github.com/cristianortiz/auctionDetail/internal/user/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// BidOutcome is what came back for one bid submission.
type BidOutcome struct {
	Response *domain.BidResponse
	Err      error
}

// BidSubmitter validates bids locally, sends them and folds the server's
// answer into a snapshot. Bids are applied only once the server accepts them.
type BidSubmitter struct {
	gateway domain.AuctionGateway
	user    userdomain.CurrentUser
	loc     *time.Location
	now     func() time.Time
}

// NewBidSubmitter creates a BidSubmitter for the given session user. Times are
// rendered in loc.
func NewBidSubmitter(gateway domain.AuctionGateway, user userdomain.CurrentUser, loc *time.Location) *BidSubmitter {
	if loc == nil {
		loc = time.UTC
	}
	return &BidSubmitter{
		gateway: gateway,
		user:    user,
		loc:     loc,
		now:     time.Now,
	}
}

// Validate rejects candidates below the minimum allowed bid.
func (s *BidSubmitter) Validate(candidate int64, price domain.Price) error {
	minimum := price.MinAllowedBid()
	if candidate >= minimum {
		return nil
	}
	log.Warn("Bid rejected locally: below minimum",
		zap.Int64("candidate", candidate),
		zap.Int64("minimum", minimum),
		zap.Int64("currentPrice", price.Current),
		zap.Int64("startPrice", price.StartPrice),
		zap.Int64("unitStep", price.UnitStep),
	)
	return &domain.ValidationError{
		Candidate: candidate,
		Minimum:   minimum,
		Basis:     price.Basis(),
		Increment: max(price.UnitStep, 0),
	}
}

// Send makes the single submit call for a validated candidate.
func (s *BidSubmitter) Send(ctx context.Context, itemID string, candidate int64) BidOutcome {
	resp, err := s.gateway.SubmitBid(ctx, itemID, candidate)
	return BidOutcome{Response: resp, Err: err}
}

// Submit runs the whole flow against snap: validation, one request and the
// reconciliation of the answer. The returned error is meant for the user.
func (s *BidSubmitter) Submit(ctx context.Context, candidate int64, snap *domain.AuctionSnapshot) error {
	if err := s.Validate(candidate, snap.Price); err != nil {
		return err
	}
	return s.Apply(snap, candidate, s.Send(ctx, snap.ID, candidate))
}

// Apply folds a bid outcome into snap.
//
// A rejection patches the authoritative current price when the server sent one.
// A transport error is inspected for the same rejection payload before falling
// back to a generic message. A success records the bid and every
// authoritative field of the result.
func (s *BidSubmitter) Apply(snap *domain.AuctionSnapshot, candidate int64, out BidOutcome) error {
	resp := out.Response
	if out.Err != nil {
		var embedded domain.BidResponse
		if !decodeEmbedded(out.Err, &embedded) || !embedded.Failed() {
			log.Error("Bid submission failed",
				zap.String("itemID", snap.ID),
				zap.Int64("candidate", candidate),
				zap.Error(out.Err),
			)
			return asTransportError("submit bid", out.Err, domain.GenericBidFailureMessage)
		}
		resp = &embedded
	}
	if resp == nil {
		log.Error("Bid submission returned no body",
			zap.String("itemID", snap.ID),
			zap.Int64("candidate", candidate),
		)
		return &domain.TransportError{Op: "submit bid", Fallback: domain.GenericBidFailureMessage}
	}
	if !resp.IsSuccess {
		return s.reject(snap, candidate, resp)
	}

	s.accept(snap, candidate, resp.Result)
	return nil
}

func (s *BidSubmitter) reject(snap *domain.AuctionSnapshot, candidate int64, resp *domain.BidResponse) error {
	rejection := &domain.ServerRejection{Code: resp.Code, Message: resp.Message}
	if rejection.Message == "" {
		rejection.Message = domain.GenericBidFailureMessage
	}
	if r := resp.Result; r != nil {
		if r.CurrentPrice != nil {
			snap.Price.Current = *r.CurrentPrice
		}
		rejection.MinimumBid = r.MinimumBidPrice
	}
	log.Warn("Bid rejected by server",
		zap.String("itemID", snap.ID),
		zap.Int64("candidate", candidate),
		zap.String("code", resp.Code),
		zap.String("message", resp.Message),
		zap.Int64("currentPrice", snap.Price.Current),
	)
	return rejection
}

func (s *BidSubmitter) accept(snap *domain.AuctionSnapshot, candidate int64, r *domain.BidResult) {
	now := s.now().In(s.loc)
	if r == nil {
		r = &domain.BidResult{}
	}

	id := string(r.TransactionID)
	if id == "" {
		id = uuid.NewString()
	}
	price := r.BidPrice
	if price <= 0 {
		price = candidate
	}
	bidTime := now
	if r.BidTime != "" {
		t, err := domain.ParseTimestamp(r.BidTime, s.loc)
		if err != nil {
			log.Warn("Bid time not parseable, using local time",
				zap.String("itemID", snap.ID),
				zap.String("bidTime", r.BidTime),
				zap.Error(err),
			)
		} else {
			bidTime = t
		}
	}

	snap.AddBid(domain.NewBidRecord(id, s.bidderNickname(r), price, bidTime, s.bidderAvatar(r)))

	if r.BidCount != nil {
		snap.Metrics.Bids = max(*r.BidCount, 0)
	} else {
		snap.Metrics.Bids++
	}
	if r.CurrentHighestPrice != nil {
		snap.Price.Current = *r.CurrentHighestPrice
	} else {
		snap.Price.Current = max(snap.Price.Current, candidate)
	}
	if r.RemainingTimeInSeconds != nil {
		remaining := time.Duration(max(*r.RemainingTimeInSeconds, 0)) * time.Second
		snap.Calendar.SetEnd(now.Add(remaining))
	}

	log.Info("Bid accepted",
		zap.String("itemID", snap.ID),
		zap.String("bidID", id),
		zap.Int64("price", price),
		zap.Int64("currentPrice", snap.Price.Current),
		zap.Int("bids", snap.Metrics.Bids),
		zap.Time("endsAt", snap.Calendar.EndsAt),
	)
}

// bidderNickname falls back from the server's bidder to the session user and
// finally to a fixed label.
func (s *BidSubmitter) bidderNickname(r *domain.BidResult) string {
	if r.Bidder != nil && strings.TrimSpace(r.Bidder.Nickname) != "" {
		return r.Bidder.Nickname
	}
	if !s.user.Anonymous() {
		return s.user.Nickname
	}
	return domain.FallbackNickname
}

func (s *BidSubmitter) bidderAvatar(r *domain.BidResult) string {
	if r.Bidder != nil && r.Bidder.ProfileImage != "" {
		return r.Bidder.ProfileImage
	}
	return s.user.AvatarURL
}
