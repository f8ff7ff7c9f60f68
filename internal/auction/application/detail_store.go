package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/cristianortiz/auctionDetail/internal/auction/domain"
	userdomain "github.com/cristianortiz/auctionDetail/internal/user/domain"
	"go.uber.org/zap"
)

// DetailStore owns the snapshot of one detail session. Every mutation runs on
// the store's own goroutine, so likes and bids never interleave inside a
// mutation. Requests to the auction service are made outside that goroutine,
// which keeps overlapping actions possible; their answers are applied in
// completion order.
type DetailStore struct {
	itemID string
	likes  *LikeReconciler
	bids   *BidSubmitter

	ops       chan func(*domain.AuctionSnapshot)
	done      chan struct{}
	closeOnce sync.Once
}

// MountDetailStore fetches the item once, maps it and starts the store.
func MountDetailStore(ctx context.Context, gateway domain.AuctionGateway, mapper *Mapper, itemID string, user userdomain.CurrentUser, opts domain.FetchOptions) (*DetailStore, error) {
	resp, err := gateway.FetchDetail(ctx, itemID, opts)
	if err != nil {
		log.Error("Failed to fetch auction detail",
			zap.String("itemID", itemID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("mount detail %s: %w", itemID, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("mount detail %s: %w", itemID, &domain.ParseError{Field: "body", Reason: "missing"})
	}
	if resp.Failed() && resp.Result == nil {
		log.Warn("Auction detail rejected by server",
			zap.String("itemID", itemID),
			zap.String("code", resp.Code),
			zap.String("message", resp.Message),
		)
		return nil, fmt.Errorf("mount detail %s: %w", itemID, &domain.ServerRejection{Code: resp.Code, Message: resp.Message})
	}

	snap, err := mapper.Map(resp.Result)
	if err != nil {
		log.Error("Failed to map auction detail",
			zap.String("itemID", itemID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("mount detail %s: %w", itemID, err)
	}

	st := &DetailStore{
		itemID: snap.ID,
		likes:  NewLikeReconciler(gateway),
		bids:   NewBidSubmitter(gateway, user, mapper.Location()),
		ops:    make(chan func(*domain.AuctionSnapshot)),
		done:   make(chan struct{}),
	}
	go st.run(snap)

	log.Info("Auction detail mounted",
		zap.String("itemID", snap.ID),
		zap.Int64("currentPrice", snap.Price.Current),
		zap.Int("bids", len(snap.BidHistory)),
	)
	return st, nil
}

func (st *DetailStore) run(snap domain.AuctionSnapshot) {
	for {
		select {
		case <-st.done:
			return
		case op := <-st.ops:
			op(&snap)
		}
	}
}

// do runs fn on the store goroutine and waits for it. Once the store is closed
// fn is not run and ErrStoreClosed is returned.
func (st *DetailStore) do(fn func(*domain.AuctionSnapshot)) error {
	select {
	case <-st.done:
		return domain.ErrStoreClosed
	default:
	}

	ran := make(chan bool, 1)
	op := func(s *domain.AuctionSnapshot) {
		select {
		case <-st.done:
			ran <- false
			return
		default:
		}
		fn(s)
		ran <- true
	}

	select {
	case st.ops <- op:
	case <-st.done:
		return domain.ErrStoreClosed
	}
	if !<-ran {
		return domain.ErrStoreClosed
	}
	return nil
}

// ItemID is the id of the mounted item.
func (st *DetailStore) ItemID() string {
	return st.itemID
}

// Snapshot returns a copy of the current snapshot.
func (st *DetailStore) Snapshot() (domain.AuctionSnapshot, error) {
	var out domain.AuctionSnapshot
	err := st.do(func(s *domain.AuctionSnapshot) {
		out = s.Clone()
	})
	return out, err
}

// ToggleLike flips the like immediately, sends one request and reconciles the
// answer. The error, if any, is the one to show the user; idempotency
// corrections return nil.
func (st *DetailStore) ToggleLike(ctx context.Context) (domain.AuctionSnapshot, error) {
	var (
		pre domain.LikeState
		req LikeRequest
	)
	if err := st.do(func(s *domain.AuctionSnapshot) {
		var next domain.LikeState
		pre = s.LikeState()
		next, req = st.likes.Toggle(st.itemID, pre)
		s.SetLikeState(next)
	}); err != nil {
		return domain.AuctionSnapshot{}, err
	}

	out := st.likes.Send(ctx, req)

	var (
		snap    domain.AuctionSnapshot
		userErr error
	)
	if err := st.do(func(s *domain.AuctionSnapshot) {
		var next domain.LikeState
		next, userErr = st.likes.Reconcile(s.LikeState(), pre, req, out)
		s.SetLikeState(next)
		snap = s.Clone()
	}); err != nil {
		log.Debug("Dropping like answer for closed store", zap.String("itemID", st.itemID))
		return domain.AuctionSnapshot{}, err
	}
	return snap, userErr
}

// SubmitBid validates price against the current snapshot and, when it passes,
// submits it and applies the answer.
func (st *DetailStore) SubmitBid(ctx context.Context, price int64) (domain.AuctionSnapshot, error) {
	var (
		snap       domain.AuctionSnapshot
		invalidErr error
	)
	if err := st.do(func(s *domain.AuctionSnapshot) {
		if invalidErr = st.bids.Validate(price, s.Price); invalidErr != nil {
			snap = s.Clone()
		}
	}); err != nil {
		return domain.AuctionSnapshot{}, err
	}
	if invalidErr != nil {
		return snap, invalidErr
	}

	out := st.bids.Send(ctx, st.itemID, price)

	var userErr error
	if err := st.do(func(s *domain.AuctionSnapshot) {
		userErr = st.bids.Apply(s, price, out)
		snap = s.Clone()
	}); err != nil {
		log.Debug("Dropping bid answer for closed store", zap.String("itemID", st.itemID))
		return domain.AuctionSnapshot{}, err
	}
	return snap, userErr
}

// Close detaches the store. Answers still in flight are dropped.
func (st *DetailStore) Close() {
	st.closeOnce.Do(func() {
		close(st.done)
		log.Info("Auction detail unmounted", zap.String("itemID", st.itemID))
	})
}
