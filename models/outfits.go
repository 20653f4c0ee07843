package models

// OutfitItemRef is the gateway's opaque reference to an item inside a
// generated outfit. None of the fields are guaranteed to point at an
// existing wardrobe item.
type OutfitItemRef struct {
	ItemID      string   `json:"id"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Color       string   `json:"color"`
	StyleTags   []string `json:"style_tags"`
	ImageBase64 string   `json:"image_base64,omitempty"`
}

// GeneratedOutfit is one server-proposed combination of items.
type GeneratedOutfit struct {
	Title             string          `json:"title"`
	Details           string          `json:"details"`
	Score             float64         `json:"score"` // 0..1
	WeatherAdaptation *float64        `json:"weather_adaptation,omitempty"`
	Items             []OutfitItemRef `json:"items"`
	StylingTips       []string        `json:"styling_tips,omitempty"`
}

// ResolutionTier records which tier of the resolution policy produced a
// ResolvedOutfitItem.
type ResolutionTier string

const (
	ResolvedByIdentity     ResolutionTier = "identity"
	ResolvedByCategory     ResolutionTier = "category_fallback"
	ResolvedByDescription  ResolutionTier = "description_only"
	ResolvedByCategoryName ResolutionTier = "category_only"
)

// ResolvedOutfitItem is the transient view model for one outfit item,
// recomputed on every render.
type ResolvedOutfitItem struct {
	DisplayName string
	Category    string
	StyleTags   []string
	ImageRef    string
	Tier        ResolutionTier
}
