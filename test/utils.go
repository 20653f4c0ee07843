// Package test holds shared fixtures: a scriptable gateway mock, a
// recording surface, and small image/pointer helpers.
package test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"

	"smartstylist/models"
	"smartstylist/surface"
)

// GatewayMock is a scriptable gateway.Provider. Unset functions answer
// with benign defaults so tests only script what they assert on.
type GatewayMock struct {
	HealthFn   func(ctx context.Context) (*models.HealthResponse, error)
	AnalyzeFn  func(ctx context.Context, image []byte, fileName, description, userID string) (*models.AnalyzeResponse, error)
	ListFn     func(ctx context.Context, userID string) (*models.WardrobeListResponse, error)
	GetItemFn  func(ctx context.Context, itemID string) (*models.WardrobeItemResponse, error)
	GenerateFn func(ctx context.Context, req models.GenerateRequestIn) (*models.GenerateResponse, error)
	WeatherFn  func(ctx context.Context, city string) (*models.WeatherResponse, error)

	mu            sync.Mutex
	AnalyzeCalls  []string // descriptions sent
	ListCalls     int
	GenerateCalls int
}

func (g *GatewayMock) Health(ctx context.Context) (*models.HealthResponse, error) {
	if g.HealthFn != nil {
		return g.HealthFn(ctx)
	}
	return &models.HealthResponse{Status: "ok", Service: "mock"}, nil
}

func (g *GatewayMock) Analyze(ctx context.Context, image []byte, fileName, description, userID string) (*models.AnalyzeResponse, error) {
	g.mu.Lock()
	g.AnalyzeCalls = append(g.AnalyzeCalls, description)
	g.mu.Unlock()
	if g.AnalyzeFn != nil {
		return g.AnalyzeFn(ctx, image, fileName, description, userID)
	}
	return &models.AnalyzeResponse{
		Status:   models.StatusSuccess,
		ItemID:   "item_1",
		Analysis: models.ItemAnalysis{Category: "top", Color: "blue", StyleTags: []string{"casual"}},
	}, nil
}

func (g *GatewayMock) ListWardrobe(ctx context.Context, userID string) (*models.WardrobeListResponse, error) {
	g.mu.Lock()
	g.ListCalls++
	g.mu.Unlock()
	if g.ListFn != nil {
		return g.ListFn(ctx, userID)
	}
	return &models.WardrobeListResponse{Status: models.StatusSuccess, Items: []models.WardrobeItem{}}, nil
}

func (g *GatewayMock) GetItem(ctx context.Context, itemID string) (*models.WardrobeItemResponse, error) {
	if g.GetItemFn != nil {
		return g.GetItemFn(ctx, itemID)
	}
	return &models.WardrobeItemResponse{Status: "error", Error: fmt.Sprintf("Item %s not found", itemID)}, nil
}

func (g *GatewayMock) Generate(ctx context.Context, req models.GenerateRequestIn) (*models.GenerateResponse, error) {
	g.mu.Lock()
	g.GenerateCalls++
	g.mu.Unlock()
	if g.GenerateFn != nil {
		return g.GenerateFn(ctx, req)
	}
	return &models.GenerateResponse{Status: models.StatusSuccess}, nil
}

func (g *GatewayMock) Weather(ctx context.Context, city string) (*models.WeatherResponse, error) {
	if g.WeatherFn != nil {
		return g.WeatherFn(ctx, city)
	}
	return &models.WeatherResponse{
		Status:  models.StatusSuccess,
		Weather: models.WeatherInfo{City: city, Condition: "clear", TempC: 20},
		City:    city,
	}, nil
}

func (g *GatewayMock) AnalyzeCallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.AnalyzeCalls)
}

func (g *GatewayMock) ListCallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ListCalls
}

func (g *GatewayMock) GenerateCallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.GenerateCalls
}

// RecordingSurface captures everything the core pushes at the surface.
type RecordingSurface struct {
	mu            sync.Mutex
	Notifications []string
	Levels        []surface.NotificationLevel
	Rows          map[string]surface.UploadRowView
	Removed       []string
	Focused       []surface.Field
	Outfits       [][]surface.OutfitView
	WeatherShown  []*models.WeatherInfo
	WardrobeShown int
}

func NewRecordingSurface() *RecordingSurface {
	return &RecordingSurface{Rows: map[string]surface.UploadRowView{}}
}

func (r *RecordingSurface) Notify(level surface.NotificationLevel, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Levels = append(r.Levels, level)
	r.Notifications = append(r.Notifications, message)
}

func (r *RecordingSurface) UpsertUploadRow(row surface.UploadRowView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Rows[row.TaskID] = row
}

func (r *RecordingSurface) RemoveUploadRow(taskID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Rows, taskID)
	r.Removed = append(r.Removed, taskID)
}

func (r *RecordingSurface) ShowWardrobe(items []models.WardrobeItem, categories []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.WardrobeShown++
}

func (r *RecordingSurface) ShowOutfits(outfits []surface.OutfitView, weather *models.WeatherInfo, recommendations *models.WeatherRecommendations) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Outfits = append(r.Outfits, outfits)
	r.WeatherShown = append(r.WeatherShown, weather)
}

func (r *RecordingSurface) FocusField(field surface.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Focused = append(r.Focused, field)
}

func (r *RecordingSurface) NotificationCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Notifications)
}

func (r *RecordingSurface) LastNotification() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Notifications) == 0 {
		return ""
	}
	return r.Notifications[len(r.Notifications)-1]
}

func (r *RecordingSurface) FocusedFields() []surface.Field {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]surface.Field(nil), r.Focused...)
}

func (r *RecordingSurface) LastWeather() *models.WeatherInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.WeatherShown) == 0 {
		return nil
	}
	return r.WeatherShown[len(r.WeatherShown)-1]
}

func (r *RecordingSurface) Row(taskID string) (surface.UploadRowView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.Rows[taskID]
	return row, ok
}

// TinyPNG renders a small valid PNG for upload tests.
func TinyPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func Float64Pointer(f float64) *float64 {
	return &f
}
