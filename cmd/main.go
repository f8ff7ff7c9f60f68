package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cristianortiz/auctionDetail/internal/auction/application"
	"github.com/cristianortiz/auctionDetail/internal/auction/domain"
	"github.com/cristianortiz/auctionDetail/internal/auction/infra/remote"
	"github.com/cristianortiz/auctionDetail/internal/auction/infra/rest"
	auctionws "github.com/cristianortiz/auctionDetail/internal/auction/infra/websocket"
	"github.com/cristianortiz/auctionDetail/internal/shared/config"
	"github.com/cristianortiz/auctionDetail/internal/shared/httpserver"
	"github.com/cristianortiz/auctionDetail/internal/shared/logger"
	"github.com/cristianortiz/auctionDetail/internal/shared/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := logger.GetLogger()
	defer logger.Sync()

	if err := run(os.Args[1:]); err != nil {
		logger.Fatal("AuctionDetail server failed", zap.Error(err))
	}
}

func run(args []string) error {
	log := logger.GetLogger()

	cfg, err := config.Load(args)
	if err != nil {
		return err
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.Warn("Ignoring invalid log level", zap.String("level", cfg.LogLevel), zap.Error(err))
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	log.Info("Starting AuctionDetail server...",
		zap.String("api", cfg.APIBaseURL),
		zap.String("timezone", cfg.TimeZone),
		zap.Int("sessionCapacity", cfg.SessionCapacity),
	)

	client, err := remote.NewClient(remote.ClientConfig{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout})
	if err != nil {
		return err
	}
	service, err := application.NewDetailService(
		application.ServiceConfig{
			SessionCapacity: cfg.SessionCapacity,
			FetchOptions:    domain.FetchOptions{BidHistoryLimit: cfg.BidHistoryLimit},
		},
		func(token string) domain.AuctionGateway { return client.WithToken(token) },
		application.NewMapper(loc),
	)
	if err != nil {
		return err
	}
	defer service.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub()
	service.OnUnmount(func(sessionID uuid.UUID) { hub.CloseSession(sessionID.String()) })

	g, ctx := errgroup.WithContext(ctx)

	server := httpserver.NewServer()
	rest.NewAuctionHandler(service).Register(server.App())
	wsHandler := auctionws.NewAuctionWSHandler(service, hub)
	wsHandler.Register(ctx, server.App())

	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})
	g.Go(func() error {
		wsHandler.ListenForMessages(ctx)
		return nil
	})
	g.Go(func() error {
		return server.Start(ctx, cfg.HTTPAddr)
	})
	return g.Wait()
}
