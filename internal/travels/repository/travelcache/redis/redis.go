package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/travel_catalog/internal/pkg/config"
	"github.com/Leopold1975/travel_catalog/internal/pkg/redistools"
	"github.com/Leopold1975/travel_catalog/internal/travels/domain/models"
	"github.com/Leopold1975/travel_catalog/internal/travels/repository/travelrepo"
	"github.com/redis/go-redis/v9"
)

// TravelCache holds travel records keyed by slug so the tours listing
// can resolve its parent travel without a store round trip. Listing
// results themselves are never cached.
type TravelCache struct {
	rdb     *redis.Client
	expTime time.Duration
}

func New(ctx context.Context, cfg config.RedisCache) (TravelCache, error) {
	rdb := redis.NewClient(&redis.Options{ //nolint:exhaustruct
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := redistools.Connect(ctx, rdb); err != nil {
		return TravelCache{}, fmt.Errorf("connect error: %w", err)
	}

	return TravelCache{
		rdb:     rdb,
		expTime: cfg.ExpTime,
	}, nil
}

func (tc TravelCache) SetTravel(ctx context.Context, travel models.Travel) error {
	travelJSON, err := json.Marshal(travel)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	_, err = tc.rdb.Set(ctx, "travel:slug:"+travel.Slug, travelJSON, tc.expTime).Result()
	if err != nil {
		return fmt.Errorf("set error: %w", err)
	}

	return nil
}

func (tc TravelCache) GetTravelBySlug(ctx context.Context, slug string) (models.Travel, error) {
	travelJSON, err := tc.rdb.Get(ctx, "travel:slug:"+slug).Result()
	if errors.Is(err, redis.Nil) {
		return models.Travel{}, travelrepo.ErrNotFound
	} else if err != nil {
		return models.Travel{}, fmt.Errorf("get error: %w", err)
	}

	var travel models.Travel

	if err := json.Unmarshal([]byte(travelJSON), &travel); err != nil {
		return models.Travel{}, fmt.Errorf("unmarshal error: %w", err)
	}

	return travel, nil
}
