package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Leopold1975/travel_catalog/internal/pkg/config"
	"github.com/Leopold1975/travel_catalog/internal/travels/api/server"
	"github.com/Leopold1975/travel_catalog/internal/travels/repository/travelcache/redis"
	tr "github.com/Leopold1975/travel_catalog/internal/travels/repository/travelrepo/postgres"
	ur "github.com/Leopold1975/travel_catalog/internal/travels/repository/userrepo/postgres"
	"github.com/Leopold1975/travel_catalog/internal/travels/services/authservice"
	"github.com/Leopold1975/travel_catalog/internal/travels/services/catalogservice"
	"github.com/Leopold1975/travel_catalog/pkg/logger"
)

type Server interface {
	Start(context.Context) error
	Shutdown(context.Context) error
}

type CatalogApp struct {
	s   Server
	lg  logger.Logger
	cfg config.Config
}

func New(ctx context.Context, cfg config.Config) (CatalogApp, error) {
	lg, err := logger.New(cfg.Logger)
	if err != nil {
		return CatalogApp{}, fmt.Errorf("can't get logger error: %w", err)
	}

	travelRepo, err := tr.New(ctx, cfg.PostgresDB)
	if err != nil {
		return CatalogApp{}, fmt.Errorf("postgres travel repo initializing error: %w", err)
	}

	tc, err := redis.New(ctx, cfg.RedisCache)
	if err != nil {
		return CatalogApp{}, fmt.Errorf("redis travel cache initializing error: %w", err)
	}

	catalogService := catalogservice.New(travelRepo, tc, lg, cfg.Pagination.Travels, cfg.Pagination.Tours)

	userRepo, err := ur.New(ctx, cfg.PostgresDB)
	if err != nil {
		return CatalogApp{}, fmt.Errorf("postgres user repo initializing error: %w", err)
	}

	authService := authservice.New(userRepo, cfg.Auth)

	s := server.New(cfg.Server, catalogService, authService, lg)

	return CatalogApp{
		s:   s,
		lg:  lg,
		cfg: cfg,
	}, nil
}

func (ca *CatalogApp) Run(ctx context.Context) {
	ca.lg.Infof("STARTED SERVER ON %s", ca.cfg.Server.Addr)

	go func() {
		if err := ca.s.Start(ctx); err != nil {
			ca.lg.Errorf("server start error: %s", err.Error())
			ctx.Done()

			return
		}
	}()

	<-ctx.Done()

	ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	if err := ca.Stop(ctxS); err != nil { //nolint:contextcheck
		ca.lg.Errorf("server shutdown error: %s", err.Error())
	}
}

func (ca *CatalogApp) Stop(ctx context.Context) error {
	if err := ca.s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	ca.lg.Info("Shutdowned successfully")

	return nil
}
