package models

// WardrobeItem is one catalogued clothing item as returned by the gateway.
// Items are owned by the wardrobe cache and replaced wholesale on reload;
// code outside the cache must treat them as read-only.
type WardrobeItem struct {
	ID          string   `json:"_id"`
	Description string   `json:"description"`
	Category    string   `json:"category"` // e.g., top, bottom, shoes, accessory
	Color       string   `json:"color"`
	Formality   string   `json:"formality"`
	Season      string   `json:"season"`
	StyleTags   []string `json:"style_tags"`

	// Exactly one of these usually carries the image; inline base64 wins
	// for display, then the remote URL, then the server-side path.
	ImageBase64 string `json:"image_base64,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	ImagePath   string `json:"image_path,omitempty"`
}

// ImageRef returns the best displayable image reference for the item.
func (w WardrobeItem) ImageRef() string {
	if w.ImageBase64 != "" {
		return "data:image/jpeg;base64," + w.ImageBase64
	}
	if w.ImageURL != "" {
		return w.ImageURL
	}
	return w.ImagePath
}

// ItemAnalysis is the gateway's analysis block for an uploaded image.
type ItemAnalysis struct {
	Category  string   `json:"category"`
	Color     string   `json:"color"`
	StyleTags []string `json:"style_tags"`
	Season    string   `json:"season,omitempty"`
	Formality string   `json:"formality,omitempty"`
}
