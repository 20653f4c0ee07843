// Package wardrobe holds the client-side read cache of the user's
// catalogued clothing. The backend stays authoritative; the cache is a
// snapshot replaced wholesale on every successful reload.
package wardrobe

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"

	"smartstylist/gateway"
	"smartstylist/languageutil"
	"smartstylist/models"
)

// Cache is the latest fetched wardrobe snapshot plus a derived category
// index (unique categories, first-seen order). Reads always see a fully
// committed snapshot, never a partially applied one.
type Cache struct {
	gateway gateway.Provider
	userID  string

	mu         sync.Mutex
	snapshot   []models.WardrobeItem
	categories []string
	reloading  bool
}

func NewCache(provider gateway.Provider, userID string) *Cache {
	return &Cache{gateway: provider, userID: userID}
}

// Current returns the latest committed snapshot.
func (c *Cache) Current() []models.WardrobeItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Categories returns the unique item categories in first-seen snapshot
// order, lowercased.
func (c *Cache) Categories() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.categories
}

// Len reports the committed snapshot size.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.snapshot)
}

// Reload fetches the wardrobe listing and atomically replaces the
// snapshot. A failed or unparseable listing leaves the prior snapshot
// untouched. While one reload is outstanding, further Reload calls are
// dropped; overlapping completions are last-writer-wins since
// replacement is wholesale.
func (c *Cache) Reload(ctx context.Context) error {
	c.mu.Lock()
	if c.reloading {
		c.mu.Unlock()
		return nil
	}
	c.reloading = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.reloading = false
		c.mu.Unlock()
	}()

	resp, err := c.gateway.ListWardrobe(ctx, c.userID)
	if err != nil {
		log.Printf("[Wardrobe] reload failed for user %s: %v", c.userID, err)
		sentry.CaptureException(err)
		return err
	}

	items := resp.Items
	if items == nil {
		items = []models.WardrobeItem{}
	}
	categories := deriveCategories(items)

	c.mu.Lock()
	c.snapshot = items
	c.categories = categories
	c.mu.Unlock()
	return nil
}

// ScheduleReload arranges a reload after the given delay. The returned
// timer lets the owner cancel the follow-up if it is torn down before
// the delay elapses. Reload errors are already reported inside Reload;
// onDone (optional) observes the outcome.
func (c *Cache) ScheduleReload(ctx context.Context, delay time.Duration, onDone func(error)) *time.Timer {
	return time.AfterFunc(delay, func() {
		err := c.Reload(ctx)
		if onDone != nil {
			onDone(err)
		}
	})
}

// deriveCategories rebuilds the category index from scratch for a new
// snapshot: unique, first-seen order.
func deriveCategories(items []models.WardrobeItem) []string {
	seen := make(map[string]bool, len(items))
	var categories []string
	for _, item := range items {
		category := languageutil.LowerCaser.String(strings.TrimSpace(item.Category))
		if category == "" || seen[category] {
			continue
		}
		seen[category] = true
		categories = append(categories, category)
	}
	return categories
}
