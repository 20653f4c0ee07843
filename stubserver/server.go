// Package stubserver is an in-memory rendition of the SmartStylist
// backend gateway. It exists for local development and as the fixture
// behind the gateway client tests; analysis is faked from the filename
// and generation follows the backend's safe template strategy.
package stubserver

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"smartstylist/models"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// Store holds the stub's wardrobe, keyed by user.
type Store struct {
	mu    sync.Mutex
	seq   int
	items map[string][]models.WardrobeItem
}

func NewStore() *Store {
	return &Store{items: map[string][]models.WardrobeItem{}}
}

func (s *Store) Add(userID string, item models.WardrobeItem) models.WardrobeItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	item.ID = fmt.Sprintf("item_%d", s.seq)
	s.items[userID] = append(s.items[userID], item)
	return item
}

func (s *Store) List(userID string) []models.WardrobeItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.WardrobeItem(nil), s.items[userID]...)
}

func (s *Store) Get(itemID string) *models.WardrobeItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, items := range s.items {
		for _, item := range items {
			if item.ID == itemID {
				found := item
				return &found
			}
		}
	}
	return nil
}

// SetupServer wires the stub gateway routes.
func SetupServer(store *Store) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	controller := &StubController{Store: store}
	e.GET("/health", controller.Health)
	e.POST("/analyze", controller.Analyze)
	e.GET("/wardrobe", controller.ListWardrobe)
	e.GET("/wardrobe/:id", controller.GetItem)
	e.POST("/generate", controller.Generate)
	e.GET("/weather/:city", controller.Weather)
	return e
}

type StubController struct {
	Store *Store
}

func (controller *StubController) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "ok",
		Service:   "SmartStylist stub gateway",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (controller *StubController) Analyze(c echo.Context) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"status": "error", "error": "No image file provided"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"status": "error", "error": "Could not read image"})
	}
	defer file.Close()
	if _, err := io.ReadAll(file); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"status": "error", "error": "Could not read image"})
	}

	description := strings.TrimSpace(c.FormValue("description"))
	if description == "" {
		description = fileHeader.Filename
	}
	userID := c.FormValue("user_id")
	if userID == "" {
		userID = "anonymous"
	}

	analysis := fakeAnalysis(description)
	item := controller.Store.Add(userID, models.WardrobeItem{
		Description: description,
		Category:    analysis.Category,
		Color:       analysis.Color,
		StyleTags:   analysis.StyleTags,
		Season:      analysis.Season,
		Formality:   analysis.Formality,
		ImagePath:   "uploads/" + fileHeader.Filename,
	})

	return c.JSON(http.StatusOK, models.AnalyzeResponse{
		Status:   models.StatusSuccess,
		Message:  "Item uploaded and analyzed successfully",
		ItemID:   item.ID,
		Filename: fileHeader.Filename,
		Analysis: analysis,
		Item:     &item,
	})
}

// fakeAnalysis guesses a category from keywords in the description, the
// way a demo fixture can afford to.
func fakeAnalysis(description string) models.ItemAnalysis {
	lower := strings.ToLower(description)
	analysis := models.ItemAnalysis{
		Category:  "top",
		Color:     "unknown",
		StyleTags: []string{"casual"},
		Season:    "all-season",
		Formality: "casual",
	}
	switch {
	case containsAny(lower, "jean", "pants", "trouser", "skirt", "short"):
		analysis.Category = "bottom"
	case containsAny(lower, "shoe", "sneaker", "boot", "heel", "sandal"):
		analysis.Category = "shoes"
	case containsAny(lower, "dress", "gown"):
		analysis.Category = "dress"
	case containsAny(lower, "jacket", "coat", "blazer", "hoodie"):
		analysis.Category = "outerwear"
	case containsAny(lower, "hat", "scarf", "belt", "bag", "watch", "necklace"):
		analysis.Category = "accessory"
	}
	for _, color := range []string{"black", "white", "red", "blue", "green", "beige", "brown", "grey", "navy"} {
		if strings.Contains(lower, color) {
			analysis.Color = color
			break
		}
	}
	return analysis
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func (controller *StubController) ListWardrobe(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		userID = "anonymous"
	}
	items := controller.Store.List(userID)
	return c.JSON(http.StatusOK, models.WardrobeListResponse{
		Status: models.StatusSuccess,
		Items:  items,
		Total:  len(items),
		Count:  len(items),
		UserID: userID,
		Pagination: models.Pagination{
			Limit: 100,
		},
	})
}

func (controller *StubController) GetItem(c echo.Context) error {
	item := controller.Store.Get(c.Param("id"))
	if item == nil {
		return c.JSON(http.StatusNotFound, models.WardrobeItemResponse{
			Status: "error",
			Error:  fmt.Sprintf("Item %s not found", c.Param("id")),
		})
	}
	return c.JSON(http.StatusOK, models.WardrobeItemResponse{
		Status: models.StatusSuccess,
		Item:   item,
	})
}

func (controller *StubController) Generate(c echo.Context) error {
	var req models.GenerateRequestIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"status": "error", "error": "Invalid request body"})
	}
	if strings.TrimSpace(req.City) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"status": "error", "error": "City is required"})
	}
	if req.Occasion == "" {
		req.Occasion = "casual day"
	}
	if req.OutfitCount <= 0 {
		req.OutfitCount = 3
	}
	userID := req.UserID
	if userID == "" {
		userID = "anonymous"
	}

	items := controller.Store.List(userID)
	if len(items) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"status": "error",
			"error":  "No wardrobe items found",
		})
	}

	weather := mockWeather(req.City)
	outfits := safeOutfits(items, req.Occasion, req.OutfitCount)
	return c.JSON(http.StatusOK, models.GenerateResponse{
		Status:        models.StatusSuccess,
		Message:       fmt.Sprintf("Generated %d outfits for %s in %s", len(outfits), req.Occasion, req.City),
		Outfits:       outfits,
		Weather:       &weather,
		Occasion:      req.Occasion,
		City:          req.City,
		WardrobeCount: len(items),
		Count:         len(outfits),
	})
}

// safeOutfits mirrors the backend's fallback generator: fixed templates,
// first unused item per required category, at least two items per outfit.
func safeOutfits(items []models.WardrobeItem, occasion string, count int) []models.GeneratedOutfit {
	byCategory := map[string][]models.WardrobeItem{}
	for _, item := range items {
		category := strings.ToLower(item.Category)
		byCategory[category] = append(byCategory[category], item)
	}

	templates := []struct {
		name     string
		required []string
		details  string
	}{
		{"Casual Day", []string{"top", "bottom", "shoes"}, "Perfect for everyday activities"},
		{"Layered Look", []string{"top", "bottom", "outerwear"}, "Versatile for changing weather"},
		{"Minimal Style", []string{"top", "bottom"}, "Simple and clean"},
		{"Complete Ensemble", []string{"top", "bottom", "shoes", "accessory"}, "Fully accessorized outfit"},
	}

	var outfits []models.GeneratedOutfit
	for _, template := range templates {
		if len(outfits) >= count {
			break
		}
		var refs []models.OutfitItemRef
		for _, category := range template.required {
			pool := byCategory[category]
			if len(pool) == 0 {
				continue
			}
			item := pool[0]
			byCategory[category] = pool[1:]
			refs = append(refs, models.OutfitItemRef{
				ItemID:      item.ID,
				Category:    item.Category,
				Description: item.Description,
				Color:       item.Color,
				StyleTags:   item.StyleTags,
			})
		}
		if len(refs) < 2 {
			continue
		}
		outfits = append(outfits, models.GeneratedOutfit{
			Title:   fmt.Sprintf("%s - %s", template.name, occasion),
			Details: template.details,
			Items:   refs,
			Score:   0.7 + float64(len(refs))*0.05,
		})
	}
	return outfits
}

func mockWeather(city string) models.WeatherInfo {
	return models.WeatherInfo{
		City:        city,
		Condition:   "clear",
		Description: "clear sky (stub)",
		TempC:       20.0,
		Temp:        20.0,
		Units:       "°C",
		Source:      "StubWeather",
	}
}

func (controller *StubController) Weather(c echo.Context) error {
	city := c.Param("city")
	weather := mockWeather(city)
	return c.JSON(http.StatusOK, models.WeatherResponse{
		Status:  models.StatusSuccess,
		Weather: weather,
		Recommendations: &models.WeatherRecommendations{
			Layers:    []string{"light layers"},
			Colors:    []string{"bright", "neutral"},
			Materials: []string{"cotton", "linen"},
		},
		City: city,
	})
}
