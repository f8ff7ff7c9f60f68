package application

import (
	"context"

	"github.com/cristianortiz/auctionDetail/internal/auction/domain"
	"go.uber.org/zap"
)

// LikeRequest is the single call a toggle issues.
type LikeRequest struct {
	ItemID string
	Like   bool // false means unlike
}

func (r LikeRequest) op() string {
	if r.Like {
		return "like"
	}
	return "unlike"
}

// LikeOutcome is what came back for a LikeRequest.
type LikeOutcome struct {
	Response *domain.ActionResponse
	Err      error
}

// LikeReconciler implements the optimistic like toggle and its correction
// once the server has answered.
type LikeReconciler struct {
	gateway domain.AuctionGateway
}

// NewLikeReconciler creates a LikeReconciler talking to gateway.
func NewLikeReconciler(gateway domain.AuctionGateway) *LikeReconciler {
	return &LikeReconciler{gateway: gateway}
}

// Toggle returns the optimistic state and the request that must be sent.
func (r *LikeReconciler) Toggle(itemID string, current domain.LikeState) (domain.LikeState, LikeRequest) {
	next := current.Toggled()
	return next, LikeRequest{ItemID: itemID, Like: next.UserLiked}
}

// Send issues exactly one like or unlike call. It never retries.
func (r *LikeReconciler) Send(ctx context.Context, req LikeRequest) LikeOutcome {
	var (
		resp *domain.ActionResponse
		err  error
	)
	if req.Like {
		resp, err = r.gateway.Like(ctx, req.ItemID)
	} else {
		resp, err = r.gateway.Unlike(ctx, req.ItemID)
	}
	return LikeOutcome{Response: resp, Err: err}
}

// Reconcile computes the state to keep once the answer to req is known.
// current is the state at answer time, pre the state before this toggle.
//
// Idempotency codes force the state they imply onto current, without an
// error. Any other failure restores pre and returns the error to show.
func (r *LikeReconciler) Reconcile(current, pre domain.LikeState, req LikeRequest, out LikeOutcome) (domain.LikeState, error) {
	resp := out.Response
	if out.Err != nil {
		var embedded domain.ActionResponse
		if !decodeEmbedded(out.Err, &embedded) || !embedded.Failed() {
			log.Error("Like request failed, rolling back",
				zap.String("itemID", req.ItemID),
				zap.String("op", req.op()),
				zap.Error(out.Err),
			)
			return pre, asTransportError(req.op(), out.Err, domain.GenericLikeFailureMessage)
		}
		resp = &embedded
	}
	if resp == nil {
		log.Error("Like request returned no body, rolling back",
			zap.String("itemID", req.ItemID),
			zap.String("op", req.op()),
		)
		return pre, &domain.TransportError{Op: req.op(), Fallback: domain.GenericLikeFailureMessage}
	}
	if resp.IsSuccess {
		return current, nil
	}

	switch resp.Code {
	case domain.CodeAlreadyLiked:
		log.Info("Like already in place, forcing liked state",
			zap.String("itemID", req.ItemID),
			zap.String("op", req.op()),
		)
		return current.Forced(true), nil
	case domain.CodeAlreadyUnliked:
		log.Info("Like already removed, forcing unliked state",
			zap.String("itemID", req.ItemID),
			zap.String("op", req.op()),
		)
		return current.Forced(false), nil
	}

	log.Warn("Like rejected by server, rolling back",
		zap.String("itemID", req.ItemID),
		zap.String("op", req.op()),
		zap.String("code", resp.Code),
		zap.String("message", resp.Message),
	)
	msg := resp.Message
	if msg == "" {
		msg = domain.GenericLikeFailureMessage
	}
	return pre, &domain.ServerRejection{Code: resp.Code, Message: msg}
}
