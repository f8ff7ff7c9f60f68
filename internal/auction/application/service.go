package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cristianortiz/auctionDetail/internal/auction/domain"
	userdomain "github.com/cristianortiz/auctionDetail/internal/user/domain"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

// DetailService defines the application interface of the auction detail module,
// exposed to the delivery layers (http, websocket).
type DetailService interface {
	// Mount fetches the item and opens a detail session for it.
	Mount(ctx context.Context, itemID string, user userdomain.CurrentUser, token string) (uuid.UUID, domain.AuctionSnapshot, error)
	Snapshot(sessionID uuid.UUID) (domain.AuctionSnapshot, error)
	ToggleLike(ctx context.Context, sessionID uuid.UUID) (domain.AuctionSnapshot, error)
	SubmitBid(ctx context.Context, sessionID uuid.UUID, price int64) (domain.AuctionSnapshot, error)
	// Unmount closes a session; late answers for it are dropped.
	Unmount(sessionID uuid.UUID) error
	// OnUnmount registers fn to be called for every closed or evicted session.
	OnUnmount(fn func(sessionID uuid.UUID))
	// Shutdown closes every session.
	Shutdown()
}

// GatewayFactory returns the auction service client acting for a token.
type GatewayFactory func(token string) domain.AuctionGateway

type ServiceConfig struct {
	SessionCapacity int
	FetchOptions    domain.FetchOptions
}

// concrete implementation of DetailService
type detailService struct {
	gateways GatewayFactory
	mapper   *Mapper
	opts     domain.FetchOptions
	sessions *lru.Cache

	mu        sync.RWMutex
	listeners []func(uuid.UUID)
}

// NewDetailService creates a DetailService keeping at most cfg.SessionCapacity
// sessions; the least recently used one is closed when the limit is reached.
func NewDetailService(cfg ServiceConfig, gateways GatewayFactory, mapper *Mapper) (DetailService, error) {
	if gateways == nil {
		return nil, errors.New("detail service: gateway factory is required")
	}
	if mapper == nil {
		mapper = NewMapper(nil)
	}
	s := &detailService{
		gateways: gateways,
		mapper:   mapper,
		opts:     cfg.FetchOptions,
	}
	sessions, err := lru.NewWithEvict(cfg.SessionCapacity, s.evicted)
	if err != nil {
		return nil, fmt.Errorf("detail service: session cache: %w", err)
	}
	s.sessions = sessions
	return s, nil
}

func (s *detailService) evicted(key, value interface{}) {
	sessionID, _ := key.(uuid.UUID)
	if store, ok := value.(*DetailStore); ok {
		store.Close()
	}
	log.Info("Detail session closed", zap.String("sessionID", sessionID.String()))

	s.mu.RLock()
	listeners := append([]func(uuid.UUID){}, s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(sessionID)
	}
}

// Mount implements DetailService.
func (s *detailService) Mount(ctx context.Context, itemID string, user userdomain.CurrentUser, token string) (uuid.UUID, domain.AuctionSnapshot, error) {
	store, err := MountDetailStore(ctx, s.gateways(token), s.mapper, itemID, user, s.opts)
	if err != nil {
		return uuid.Nil, domain.AuctionSnapshot{}, err
	}
	snap, err := store.Snapshot()
	if err != nil {
		return uuid.Nil, domain.AuctionSnapshot{}, err
	}

	sessionID := uuid.New()
	s.sessions.Add(sessionID, store)
	log.Info("Detail session opened",
		zap.String("sessionID", sessionID.String()),
		zap.String("itemID", itemID),
		zap.Int("sessions", s.sessions.Len()),
	)
	return sessionID, snap, nil
}

// Snapshot implements DetailService.
func (s *detailService) Snapshot(sessionID uuid.UUID) (domain.AuctionSnapshot, error) {
	store, err := s.store(sessionID)
	if err != nil {
		return domain.AuctionSnapshot{}, err
	}
	return store.Snapshot()
}

// ToggleLike implements DetailService.
func (s *detailService) ToggleLike(ctx context.Context, sessionID uuid.UUID) (domain.AuctionSnapshot, error) {
	store, err := s.store(sessionID)
	if err != nil {
		return domain.AuctionSnapshot{}, err
	}
	return store.ToggleLike(ctx)
}

// SubmitBid implements DetailService.
func (s *detailService) SubmitBid(ctx context.Context, sessionID uuid.UUID, price int64) (domain.AuctionSnapshot, error) {
	store, err := s.store(sessionID)
	if err != nil {
		return domain.AuctionSnapshot{}, err
	}
	return store.SubmitBid(ctx, price)
}

// Unmount implements DetailService.
func (s *detailService) Unmount(sessionID uuid.UUID) error {
	if !s.sessions.Remove(sessionID) {
		return domain.ErrSessionNotFound
	}
	return nil
}

// OnUnmount implements DetailService.
func (s *detailService) OnUnmount(fn func(sessionID uuid.UUID)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Shutdown implements DetailService.
func (s *detailService) Shutdown() {
	s.sessions.Purge()
}

func (s *detailService) store(sessionID uuid.UUID) (*DetailStore, error) {
	value, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return value.(*DetailStore), nil
}
