// Package surface is the boundary to the presentation layer. The core
// hands view models to a Surface and never touches widgets directly;
// interaction (dropped files, generate submits) flows back in as plain
// method calls on the core.
package surface

import "smartstylist/models"

// NotificationLevel classifies a user-visible notification.
type NotificationLevel string

const (
	LevelInfo    NotificationLevel = "info"
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
)

// Field names a focusable input on the surface.
type Field string

const (
	FieldCity Field = "city"
)

// UploadRowView is the view model for one upload task row.
type UploadRowView struct {
	TaskID     string
	FileName   string
	State      string
	PreviewURL string
	Category   string
	Color      string
	StyleTags  []string
	Message    string
	FadeOut    bool
}

// OutfitView is the view model for one generated outfit after every item
// reference has been resolved against the wardrobe snapshot.
type OutfitView struct {
	Title             string
	Details           string
	Score             float64
	WeatherAdaptation *float64
	Items             []models.ResolvedOutfitItem
	StylingTips       []string
}

// Surface receives view models from the core. Implementations must be
// safe to call from any goroutine; the core calls them at completion
// points of uploads, reloads and generation requests.
type Surface interface {
	Notify(level NotificationLevel, message string)
	UpsertUploadRow(row UploadRowView)
	RemoveUploadRow(taskID string)
	ShowWardrobe(items []models.WardrobeItem, categories []string)
	ShowOutfits(outfits []OutfitView, weather *models.WeatherInfo, recommendations *models.WeatherRecommendations)
	FocusField(field Field)
}

// NopSurface discards everything. Useful as a default and in tests that
// do not care about presentation.
type NopSurface struct{}

func (NopSurface) Notify(NotificationLevel, string) {}
func (NopSurface) UpsertUploadRow(UploadRowView)    {}
func (NopSurface) RemoveUploadRow(string)           {}
func (NopSurface) ShowWardrobe([]models.WardrobeItem, []string) {
}
func (NopSurface) ShowOutfits([]OutfitView, *models.WeatherInfo, *models.WeatherRecommendations) {
}
func (NopSurface) FocusField(Field) {}
