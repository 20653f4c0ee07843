package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"

	"smartstylist/gateway"
	"smartstylist/models"
)

// The backend caches weather per city for 15 minutes; mirroring that TTL
// client-side keeps repeated lookups off the network entirely.
const weatherExpiration = 15 * time.Minute

type WeatherCacheServiceProvider interface {
	GetWeather(ctx context.Context, city string) (models.WeatherResponse, error)
}

// WeatherCacheService caches per-city weather lookups through a loadable
// ristretto cache, loading from the gateway on a miss.
type WeatherCacheService struct {
	cache *cache.LoadableCache[models.WeatherResponse]
}

func NewWeatherCacheService(provider gateway.Provider) (*WeatherCacheService, error) {
	ristrettoCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}
	ristrettoStore := ristretto_store.NewRistretto(ristrettoCache)

	loadFunction := func(ctx context.Context, key any) (models.WeatherResponse, []store.Option, error) {
		city, ok := key.(string)
		if !ok {
			return models.WeatherResponse{}, nil, fmt.Errorf("invalid key type provided to weather cache: expected string, got %T", key)
		}
		log.Printf("[Weather] cache miss for %s, fetching from gateway", city)
		resp, err := provider.Weather(ctx, city)
		if err != nil {
			return models.WeatherResponse{}, nil, err
		}
		return *resp, []store.Option{store.WithExpiration(weatherExpiration)}, nil
	}

	return &WeatherCacheService{
		cache: cache.NewLoadable[models.WeatherResponse](
			loadFunction,
			cache.New[models.WeatherResponse](ristrettoStore),
		),
	}, nil
}

func (s *WeatherCacheService) GetWeather(ctx context.Context, city string) (models.WeatherResponse, error) {
	city = strings.ToLower(strings.TrimSpace(city))
	if city == "" {
		return models.WeatherResponse{}, fmt.Errorf("city is required")
	}
	return s.cache.Get(ctx, city)
}
