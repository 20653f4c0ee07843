package models

// Gateway response envelopes. Every endpoint carries a "status"
// discriminator ("success" or "error") plus an optional human readable
// "error" message.

const StatusSuccess = "success"

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

type AnalyzeResponse struct {
	Status   string        `json:"status"`
	Message  string        `json:"message"`
	ItemID   string        `json:"item_id"`
	Filename string        `json:"filename"`
	ImageURL string        `json:"image_url"`
	Analysis ItemAnalysis  `json:"analysis"`
	Item     *WardrobeItem `json:"item"`
	Error    string        `json:"error"`
}

type Pagination struct {
	Limit   int  `json:"limit"`
	Skip    int  `json:"skip"`
	HasMore bool `json:"has_more"`
}

type WardrobeListResponse struct {
	Status     string         `json:"status"`
	Items      []WardrobeItem `json:"items"`
	Total      int            `json:"total"`
	Count      int            `json:"count"`
	UserID     string         `json:"user_id"`
	Pagination Pagination     `json:"pagination"`
	Error      string         `json:"error"`
}

type WardrobeItemResponse struct {
	Status string        `json:"status"`
	Item   *WardrobeItem `json:"item"`
	Error  string        `json:"error"`
}

// WeatherInfo mirrors the backend weather contract. TempC is authoritative
// when present; Temp is an alias in the requested units.
type WeatherInfo struct {
	City        string  `json:"city"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	TempC       float64 `json:"temp_c"`
	Temp        float64 `json:"temp"`
	Units       string  `json:"units"`
	Source      string  `json:"source"`
}

type WeatherRecommendations struct {
	Layers    []string `json:"layers"`
	Colors    []string `json:"colors"`
	Materials []string `json:"materials"`
}

type WeatherResponse struct {
	Status          string                  `json:"status"`
	Weather         WeatherInfo             `json:"weather"`
	Recommendations *WeatherRecommendations `json:"recommendations"`
	City            string                  `json:"city"`
	Error           string                  `json:"error"`
}

type GenerateRequestIn struct {
	Occasion    string `json:"occasion"`
	City        string `json:"city" validate:"required"`
	FocusItemID string `json:"focus_item_id,omitempty"`
	OutfitCount int    `json:"outfitCount"`
	UserID      string `json:"user_id"`
}

type GenerateResponse struct {
	Status                 string                  `json:"status"`
	Message                string                  `json:"message"`
	Outfits                []GeneratedOutfit       `json:"outfits"`
	Weather                *WeatherInfo            `json:"weather,omitempty"`
	WeatherRecommendations *WeatherRecommendations `json:"weather_recommendations,omitempty"`
	Occasion               string                  `json:"occasion"`
	City                   string                  `json:"city"`
	WardrobeCount          int                     `json:"wardrobe_count"`
	Count                  int                     `json:"count"`
	Error                  string                  `json:"error"`
}
