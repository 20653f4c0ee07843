// Package app assembles the client core. One Context is constructed in
// main and passed by reference; there are no package-level singletons.
package app

import (
	"context"
	"log"

	"smartstylist/gateway"
	"smartstylist/outfits"
	"smartstylist/services"
	"smartstylist/surface"
	"smartstylist/uploads"
	"smartstylist/wardrobe"
)

type Config struct {
	GatewayURL string
	UserID     string
	Uploads    uploads.Config
}

func ConfigFromEnv() Config {
	return Config{
		GatewayURL: services.GetEnv("STYLIST_GATEWAY_URL", "http://localhost:8080"),
		UserID:     services.GetEnv("STYLIST_USER_ID", "anonymous"),
	}
}

// Context wires the components around a gateway provider and a surface.
type Context struct {
	Config    Config
	Gateway   gateway.Provider
	Wardrobe  *wardrobe.Cache
	Uploads   *uploads.Manager
	Generator *outfits.Generator
	Weather   services.WeatherCacheServiceProvider
}

func New(cfg Config, provider gateway.Provider, surf surface.Surface) (*Context, error) {
	if surf == nil {
		surf = surface.NopSurface{}
	}
	cache := wardrobe.NewCache(provider, cfg.UserID)
	weather, err := services.NewWeatherCacheService(provider)
	if err != nil {
		return nil, err
	}
	return &Context{
		Config:    cfg,
		Gateway:   provider,
		Wardrobe:  cache,
		Uploads:   uploads.NewManager(provider, cache, surf, cfg.UserID, cfg.Uploads),
		Generator: outfits.NewGenerator(provider, cache, weather, surf, cfg.UserID),
		Weather:   weather,
	}, nil
}

// Bootstrap probes the gateway once and loads the initial wardrobe
// snapshot. A connectivity failure is reported once and is not fatal;
// the app keeps running with an empty cache.
func (a *Context) Bootstrap(ctx context.Context, surf surface.Surface) {
	if surf == nil {
		surf = surface.NopSurface{}
	}
	if _, err := a.Gateway.Health(ctx); err != nil {
		log.Printf("[App] gateway health check failed: %v", err)
		surf.Notify(surface.LevelError, "Stylist service is unreachable — uploads and generation will fail until it is back")
		return
	}
	if err := a.Wardrobe.Reload(ctx); err == nil {
		surf.ShowWardrobe(a.Wardrobe.Current(), a.Wardrobe.Categories())
	}
}
