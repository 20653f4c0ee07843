package outfits

import (
	"context"
	"errors"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator"

	"smartstylist/gateway"
	"smartstylist/models"
	"smartstylist/services"
	"smartstylist/surface"
	"smartstylist/wardrobe"
)

// DefaultOccasion is substituted when the user leaves the field empty,
// matching the backend's own default.
const DefaultOccasion = "casual day"

const DefaultOutfitCount = 3

// GenerateRequest is the user's generation input before defaults.
type GenerateRequest struct {
	Occasion    string `validate:"omitempty,max=100"`
	City        string `validate:"required,max=100"`
	FocusItemID string
	OutfitCount int `validate:"omitempty,min=1,max=10"`
}

// Generator runs outfit-generation requests against the gateway and
// resolves the returned outfits against the wardrobe cache.
type Generator struct {
	gateway      gateway.Provider
	cache        *wardrobe.Cache
	weatherCache services.WeatherCacheServiceProvider
	surface      surface.Surface
	validate     *validator.Validate
	userID       string
}

func NewGenerator(provider gateway.Provider, cache *wardrobe.Cache, weatherCache services.WeatherCacheServiceProvider, surf surface.Surface, userID string) *Generator {
	if surf == nil {
		surf = surface.NopSurface{}
	}
	return &Generator{
		gateway:      provider,
		cache:        cache,
		weatherCache: weatherCache,
		surface:      surf,
		validate:     validator.New(),
		userID:       userID,
	}
}

// Generate checks the preconditions, dispatches the request, resolves the
// response and hands the outfit views to the surface. Precondition
// failures never reach the network; response failures are reported and
// scoped to this one request.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) ([]surface.OutfitView, error) {
	req.City = strings.TrimSpace(req.City)
	req.Occasion = strings.TrimSpace(req.Occasion)

	if req.City == "" {
		g.surface.Notify(surface.LevelError, "Please enter a city to get weather-aware outfits")
		g.surface.FocusField(surface.FieldCity)
		return nil, errors.New("city is required")
	}
	if err := g.validate.Struct(req); err != nil {
		g.surface.Notify(surface.LevelError, "Invalid generation request")
		return nil, err
	}

	snapshot := g.cache.Current()
	if len(snapshot) == 0 {
		g.surface.Notify(surface.LevelInfo, "Your wardrobe is empty — upload some clothing items first")
		return nil, errors.New("wardrobe is empty")
	}

	if req.Occasion == "" {
		req.Occasion = DefaultOccasion
	}
	if req.OutfitCount <= 0 {
		req.OutfitCount = DefaultOutfitCount
	}

	resp, err := g.gateway.Generate(ctx, models.GenerateRequestIn{
		Occasion:    req.Occasion,
		City:        req.City,
		FocusItemID: req.FocusItemID,
		OutfitCount: req.OutfitCount,
		UserID:      g.userID,
	})
	if err != nil {
		sentry.CaptureException(err)
		g.surface.Notify(surface.LevelError, generateMessage(err))
		return nil, err
	}

	weather := resp.Weather
	recommendations := resp.WeatherRecommendations
	if weather == nil && g.weatherCache != nil {
		// The backend omits the weather block when its own lookup failed;
		// the cached per-city lookup fills the gap without a second
		// network round-trip inside the TTL.
		if cached, err := g.weatherCache.GetWeather(ctx, req.City); err == nil {
			weather = &cached.Weather
			recommendations = cached.Recommendations
		}
	}

	views := make([]surface.OutfitView, len(resp.Outfits))
	for i, outfit := range resp.Outfits {
		views[i] = surface.OutfitView{
			Title:             outfit.Title,
			Details:           outfit.Details,
			Score:             outfit.Score,
			WeatherAdaptation: outfit.WeatherAdaptation,
			Items:             ResolveOutfit(outfit, snapshot),
			StylingTips:       outfit.StylingTips,
		}
	}
	g.surface.ShowOutfits(views, weather, recommendations)
	return views, nil
}

// generateMessage keeps the three failure classes distinguishable for
// the user: transport, unparseable body, application error.
func generateMessage(err error) string {
	var decodeErr *gateway.DecodeError
	if errors.As(err, &decodeErr) {
		return "Received an unexpected response from the stylist service"
	}
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var transportErr *gateway.TransportError
	if errors.As(err, &transportErr) {
		return "Stylist service is unreachable, please try again"
	}
	return "Could not generate outfits, please try again"
}
