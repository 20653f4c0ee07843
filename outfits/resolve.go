// Package outfits maps the gateway's opaque outfit descriptors onto the
// locally cached wardrobe and drives the generation request flow.
package outfits

import (
	"strings"

	"smartstylist/languageutil"
	"smartstylist/models"
)

// GenericItemLabel is shown when a reference carries nothing displayable.
const GenericItemLabel = "Clothing item"

// placeholder descriptions the backend emits when analysis had nothing
// better; they are never shown verbatim.
func isPlaceholderDescription(description string) bool {
	switch strings.ToLower(strings.TrimSpace(description)) {
	case "", "unknown", "unknown item", "none":
		return true
	}
	return false
}

// Resolve maps one outfit item reference to a display identity using the
// wardrobe snapshot. It is pure and deterministic: the same (ref,
// snapshot) pair always yields the same result, and it never fails —
// each tier degrades to the next.
//
// Tier order, first success wins:
//  1. identity: ref.ItemID matches a snapshot item;
//  2. category fallback: first snapshot item whose category matches
//     case-insensitively stands in (finer attributes such as color are
//     deliberately ignored);
//  3. description only: a non-placeholder ref description verbatim;
//  4. category only: the category name, or a generic label.
func Resolve(ref models.OutfitItemRef, snapshot []models.WardrobeItem) models.ResolvedOutfitItem {
	if ref.ItemID != "" {
		for _, item := range snapshot {
			if item.ID == ref.ItemID {
				return models.ResolvedOutfitItem{
					DisplayName: displayName(item.Description, item.Category),
					Category:    item.Category,
					StyleTags:   item.StyleTags,
					ImageRef:    item.ImageRef(),
					Tier:        models.ResolvedByIdentity,
				}
			}
		}
	}

	if ref.Category != "" {
		for _, item := range snapshot {
			if strings.EqualFold(item.Category, ref.Category) {
				return models.ResolvedOutfitItem{
					DisplayName: displayName(item.Description, item.Category),
					Category:    item.Category,
					StyleTags:   item.StyleTags,
					ImageRef:    item.ImageRef(),
					Tier:        models.ResolvedByCategory,
				}
			}
		}
	}

	if !isPlaceholderDescription(ref.Description) {
		return models.ResolvedOutfitItem{
			DisplayName: languageutil.UpperFirst(ref.Description),
			Category:    ref.Category,
			StyleTags:   ref.StyleTags,
			ImageRef:    refImage(ref),
			Tier:        models.ResolvedByDescription,
		}
	}

	name := GenericItemLabel
	if ref.Category != "" {
		name = languageutil.UpperFirst(ref.Category)
	}
	return models.ResolvedOutfitItem{
		DisplayName: name,
		Category:    ref.Category,
		ImageRef:    refImage(ref),
		Tier:        models.ResolvedByCategoryName,
	}
}

// ResolveOutfit resolves every item of a generated outfit against the
// snapshot, preserving order.
func ResolveOutfit(outfit models.GeneratedOutfit, snapshot []models.WardrobeItem) []models.ResolvedOutfitItem {
	resolved := make([]models.ResolvedOutfitItem, len(outfit.Items))
	for i, ref := range outfit.Items {
		resolved[i] = Resolve(ref, snapshot)
	}
	return resolved
}

func displayName(description, category string) string {
	if isPlaceholderDescription(description) {
		if category == "" {
			return GenericItemLabel
		}
		return languageutil.UpperFirst(category)
	}
	return languageutil.UpperFirst(description)
}

func refImage(ref models.OutfitItemRef) string {
	if ref.ImageBase64 != "" {
		return "data:image/jpeg;base64," + ref.ImageBase64
	}
	return ""
}
