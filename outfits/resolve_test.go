package outfits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartstylist/models"
)

func snapshotFixture() []models.WardrobeItem {
	return []models.WardrobeItem{
		{ID: "A1", Description: "blue denim shirt", Category: "top", StyleTags: []string{"casual", "denim"}},
		{ID: "B2", Description: "white linen shirt", Category: "top", StyleTags: []string{"summer"}},
		{ID: "C3", Description: "black jeans", Category: "bottom", StyleTags: []string{"casual"}},
	}
}

func TestResolveIdentityTier(t *testing.T) {
	resolved := Resolve(models.OutfitItemRef{ItemID: "C3"}, snapshotFixture())

	require.Equal(t, models.ResolvedByIdentity, resolved.Tier)
	assert.Equal(t, "Black jeans", resolved.DisplayName)
	assert.Equal(t, "bottom", resolved.Category)
	assert.Equal(t, []string{"casual"}, resolved.StyleTags)
}

func TestResolveIdentityBeatsCategory(t *testing.T) {
	// The ref claims category "bottom" but its id points at a top; the
	// identity tier must win.
	resolved := Resolve(models.OutfitItemRef{ItemID: "A1", Category: "bottom"}, snapshotFixture())

	require.Equal(t, models.ResolvedByIdentity, resolved.Tier)
	assert.Equal(t, "Blue denim shirt", resolved.DisplayName)
	assert.Equal(t, "top", resolved.Category)
}

func TestResolveCategoryFallbackFirstMatch(t *testing.T) {
	// Unknown id, known category: the first snapshot-order "top" stands
	// in, every time.
	ref := models.OutfitItemRef{ItemID: "missing", Category: "TOP"}
	for i := 0; i < 5; i++ {
		resolved := Resolve(ref, snapshotFixture())
		require.Equal(t, models.ResolvedByCategory, resolved.Tier)
		assert.Equal(t, "Blue denim shirt", resolved.DisplayName)
		assert.Equal(t, []string{"casual", "denim"}, resolved.StyleTags)
	}
}

func TestResolveCategoryFallbackIgnoresColor(t *testing.T) {
	ref := models.OutfitItemRef{Category: "top", Color: "white"}
	resolved := Resolve(ref, snapshotFixture())

	require.Equal(t, models.ResolvedByCategory, resolved.Tier)
	// Color never narrows the match; snapshot order decides.
	assert.Equal(t, "Blue denim shirt", resolved.DisplayName)
}

func TestResolveDescriptionOnly(t *testing.T) {
	ref := models.OutfitItemRef{
		Category:    "outerwear",
		Description: "red wool coat",
		StyleTags:   []string{"winter"},
	}
	resolved := Resolve(ref, snapshotFixture())

	require.Equal(t, models.ResolvedByDescription, resolved.Tier)
	assert.Equal(t, "Red wool coat", resolved.DisplayName)
	assert.Equal(t, "outerwear", resolved.Category)
	assert.Equal(t, []string{"winter"}, resolved.StyleTags)
}

func TestResolvePlaceholderDescriptionFallsThrough(t *testing.T) {
	for _, placeholder := range []string{"", "unknown", "Unknown Item", "  "} {
		resolved := Resolve(models.OutfitItemRef{Category: "scarf", Description: placeholder}, snapshotFixture())
		require.Equal(t, models.ResolvedByCategoryName, resolved.Tier, "description %q", placeholder)
		assert.Equal(t, "Scarf", resolved.DisplayName)
		assert.Empty(t, resolved.StyleTags)
	}
}

func TestResolveGenericLabelWhenNothingUsable(t *testing.T) {
	resolved := Resolve(models.OutfitItemRef{}, snapshotFixture())

	require.Equal(t, models.ResolvedByCategoryName, resolved.Tier)
	assert.Equal(t, GenericItemLabel, resolved.DisplayName)
}

func TestResolveDeterministic(t *testing.T) {
	snapshot := snapshotFixture()
	ref := models.OutfitItemRef{ItemID: "missing", Category: "top", Description: "whatever"}

	first := Resolve(ref, snapshot)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Resolve(ref, snapshot))
	}
}

func TestResolveEmptySnapshot(t *testing.T) {
	resolved := Resolve(models.OutfitItemRef{ItemID: "A1", Category: "top", Description: "blue shirt"}, nil)

	// No snapshot to match against: degrade to the description tier.
	require.Equal(t, models.ResolvedByDescription, resolved.Tier)
	assert.Equal(t, "Blue shirt", resolved.DisplayName)
}

func TestResolveOutfitPreservesOrder(t *testing.T) {
	outfit := models.GeneratedOutfit{
		Items: []models.OutfitItemRef{
			{ItemID: "C3"},
			{Category: "top"},
			{Description: "green scarf"},
		},
	}
	resolved := ResolveOutfit(outfit, snapshotFixture())

	require.Len(t, resolved, 3)
	assert.Equal(t, models.ResolvedByIdentity, resolved[0].Tier)
	assert.Equal(t, models.ResolvedByCategory, resolved[1].Tier)
	assert.Equal(t, models.ResolvedByDescription, resolved[2].Tier)
}
