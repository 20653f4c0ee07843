package wardrobe

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartstylist/gateway"
	"smartstylist/models"
	"smartstylist/test"
)

func TestReloadReplacesSnapshotWholesale(t *testing.T) {
	mock := &test.GatewayMock{}
	items := []models.WardrobeItem{
		{ID: "A1", Category: "Top"},
		{ID: "B2", Category: "bottom"},
		{ID: "C3", Category: "top"},
	}
	mock.ListFn = func(ctx context.Context, userID string) (*models.WardrobeListResponse, error) {
		return &models.WardrobeListResponse{Status: models.StatusSuccess, Items: items}, nil
	}
	cache := NewCache(mock, "user-1")

	require.NoError(t, cache.Reload(context.Background()))
	require.Len(t, cache.Current(), 3)
	// Unique categories, first-seen order, lowercased.
	assert.Equal(t, []string{"top", "bottom"}, cache.Categories())

	items = []models.WardrobeItem{{ID: "D4", Category: "shoes"}}
	require.NoError(t, cache.Reload(context.Background()))
	require.Len(t, cache.Current(), 1)
	assert.Equal(t, []string{"shoes"}, cache.Categories())
}

func TestReloadFailureKeepsPriorSnapshot(t *testing.T) {
	mock := &test.GatewayMock{}
	mock.ListFn = func(ctx context.Context, userID string) (*models.WardrobeListResponse, error) {
		return &models.WardrobeListResponse{Status: models.StatusSuccess, Items: []models.WardrobeItem{{ID: "A1", Category: "top"}}}, nil
	}
	cache := NewCache(mock, "user-1")
	require.NoError(t, cache.Reload(context.Background()))

	mock.ListFn = func(ctx context.Context, userID string) (*models.WardrobeListResponse, error) {
		return nil, &gateway.TransportError{Op: "wardrobe", Err: context.DeadlineExceeded}
	}
	require.Error(t, cache.Reload(context.Background()))
	assert.Len(t, cache.Current(), 1)
	assert.Equal(t, []string{"top"}, cache.Categories())

	// A parse-broken listing is equally non-destructive.
	mock.ListFn = func(ctx context.Context, userID string) (*models.WardrobeListResponse, error) {
		return nil, &gateway.DecodeError{Op: "wardrobe", Body: []byte("<html>")}
	}
	require.Error(t, cache.Reload(context.Background()))
	assert.Len(t, cache.Current(), 1)
}

func TestReloadSingleFlight(t *testing.T) {
	mock := &test.GatewayMock{}
	release := make(chan struct{})
	mock.ListFn = func(ctx context.Context, userID string) (*models.WardrobeListResponse, error) {
		<-release
		return &models.WardrobeListResponse{Status: models.StatusSuccess, Items: []models.WardrobeItem{{ID: "A1", Category: "top"}}}, nil
	}
	cache := NewCache(mock, "user-1")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = cache.Reload(context.Background())
	}()

	// Wait until the first reload is inside the gateway call, then pile
	// on more requests: they must all be dropped.
	require.Eventually(t, func() bool { return mock.ListCallCount() == 1 }, time.Second, time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, cache.Reload(context.Background()))
	}
	assert.Equal(t, 1, mock.ListCallCount())

	close(release)
	wg.Wait()
	assert.Len(t, cache.Current(), 1)
}

func TestScheduleReloadRunsAndReportsOutcome(t *testing.T) {
	mock := &test.GatewayMock{}
	mock.ListFn = func(ctx context.Context, userID string) (*models.WardrobeListResponse, error) {
		return &models.WardrobeListResponse{Status: models.StatusSuccess, Items: []models.WardrobeItem{{ID: "A1", Category: "top"}}}, nil
	}
	cache := NewCache(mock, "user-1")

	done := make(chan error, 1)
	cache.ScheduleReload(context.Background(), 5*time.Millisecond, func(err error) { done <- err })

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduled reload never ran")
	}
	assert.Len(t, cache.Current(), 1)
}

func TestScheduleReloadCancellable(t *testing.T) {
	mock := &test.GatewayMock{}
	cache := NewCache(mock, "user-1")

	timer := cache.ScheduleReload(context.Background(), 50*time.Millisecond, nil)
	require.True(t, timer.Stop())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, mock.ListCallCount())
}
