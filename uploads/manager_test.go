package uploads

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartstylist/gateway"
	"smartstylist/models"
	"smartstylist/test"
	"smartstylist/wardrobe"
)

// fastConfig keeps settled rows around long enough for assertions while
// making the scheduled reload near-immediate.
func fastConfig() Config {
	return Config{
		SuccessLinger: time.Minute,
		FailureLinger: time.Minute,
		ReloadDelay:   10 * time.Millisecond,
	}
}

func newManager(mock *test.GatewayMock, surf *test.RecordingSurface) *Manager {
	cache := wardrobe.NewCache(mock, "user-1")
	return NewManager(mock, cache, surf, "user-1", fastConfig())
}

func TestSubmitValidImageCreatesOneTask(t *testing.T) {
	mock := &test.GatewayMock{}
	surf := test.NewRecordingSurface()
	manager := newManager(mock, surf)

	ids := manager.Submit(context.Background(), []FileInput{
		{Name: "blue-shirt.png", MediaType: "image/png", Data: test.TinyPNG()},
	})

	require.Len(t, ids, 1)
	manager.Wait()

	state, ok := manager.TaskState(ids[0])
	require.True(t, ok)
	assert.Equal(t, StateSettledSuccess, state)
	assert.Equal(t, 1, mock.AnalyzeCallCount())

	row, ok := surf.Row(ids[0])
	require.True(t, ok)
	assert.Equal(t, "top", row.Category)
	assert.True(t, row.FadeOut)
}

func TestSubmitOversizeFileRejectedPreNetwork(t *testing.T) {
	mock := &test.GatewayMock{}
	surf := test.NewRecordingSurface()
	manager := newManager(mock, surf)

	// 12 MiB JPEG: over the 10 MiB bound, rejected before any request.
	big := make([]byte, 12*1024*1024)
	ids := manager.Submit(context.Background(), []FileInput{
		{Name: "huge.jpg", MediaType: "image/jpeg", Data: big},
	})
	manager.Wait()

	assert.Empty(t, ids)
	assert.Equal(t, 0, manager.Count())
	assert.Equal(t, 0, mock.AnalyzeCallCount())
	assert.Contains(t, surf.LastNotification(), "larger than 10 MB")
}

func TestSubmitNonImageRejected(t *testing.T) {
	mock := &test.GatewayMock{}
	surf := test.NewRecordingSurface()
	manager := newManager(mock, surf)

	ids := manager.Submit(context.Background(), []FileInput{
		{Name: "notes.pdf", MediaType: "application/pdf", Data: []byte("%PDF-")},
	})
	manager.Wait()

	assert.Empty(t, ids)
	assert.Equal(t, 0, mock.AnalyzeCallCount())
}

func TestSubmitMixedBatchPartiallySucceeds(t *testing.T) {
	mock := &test.GatewayMock{}
	surf := test.NewRecordingSurface()
	manager := newManager(mock, surf)

	ids := manager.Submit(context.Background(), []FileInput{
		{Name: "good.png", MediaType: "image/png", Data: test.TinyPNG()},
		{Name: "bad.txt", MediaType: "text/plain", Data: []byte("hello")},
		{Name: "also-good.png", MediaType: "image/png", Data: test.TinyPNG()},
	})
	manager.Wait()

	require.Len(t, ids, 2)
	assert.Equal(t, 2, mock.AnalyzeCallCount())
	for _, id := range ids {
		state, ok := manager.TaskState(id)
		require.True(t, ok)
		assert.Equal(t, StateSettledSuccess, state)
	}
}

func TestAnalyzeFailureSettlesFailed(t *testing.T) {
	mock := &test.GatewayMock{}
	mock.AnalyzeFn = func(ctx context.Context, image []byte, fileName, description, userID string) (*models.AnalyzeResponse, error) {
		return nil, &gateway.APIError{Op: "analyze", Status: 500, Message: "Failed to process image"}
	}
	surf := test.NewRecordingSurface()
	manager := newManager(mock, surf)

	ids := manager.Submit(context.Background(), []FileInput{
		{Name: "shirt.png", MediaType: "image/png", Data: test.TinyPNG()},
	})
	manager.Wait()

	require.Len(t, ids, 1)
	state, ok := manager.TaskState(ids[0])
	require.True(t, ok)
	assert.Equal(t, StateSettledFailure, state)
	assert.Contains(t, surf.LastNotification(), "Failed to process image")
	// Exactly one request, no retries.
	assert.Equal(t, 1, mock.AnalyzeCallCount())
	// Failures never schedule a wardrobe reload.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, mock.ListCallCount())
}

func TestUndecodableImageSettlesFailedWithoutNetwork(t *testing.T) {
	mock := &test.GatewayMock{}
	surf := test.NewRecordingSurface()
	manager := newManager(mock, surf)

	ids := manager.Submit(context.Background(), []FileInput{
		{Name: "corrupt.png", MediaType: "image/png", Data: []byte("not a png")},
	})
	manager.Wait()

	require.Len(t, ids, 1)
	state, ok := manager.TaskState(ids[0])
	require.True(t, ok)
	assert.Equal(t, StateSettledFailure, state)
	assert.Equal(t, 0, mock.AnalyzeCallCount())
}

func TestSuccessSchedulesCacheReload(t *testing.T) {
	mock := &test.GatewayMock{}
	surf := test.NewRecordingSurface()
	manager := newManager(mock, surf)

	manager.Submit(context.Background(), []FileInput{
		{Name: "shirt.png", MediaType: "image/png", Data: test.TinyPNG()},
	})
	manager.Wait()

	require.Eventually(t, func() bool { return mock.ListCallCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestSettledTasksExpire(t *testing.T) {
	mock := &test.GatewayMock{}
	surf := test.NewRecordingSurface()
	cache := wardrobe.NewCache(mock, "user-1")
	manager := NewManager(mock, cache, surf, "user-1", Config{
		SuccessLinger: 30 * time.Millisecond,
		FailureLinger: 10 * time.Millisecond,
		ReloadDelay:   5 * time.Millisecond,
	})

	ids := manager.Submit(context.Background(), []FileInput{
		{Name: "shirt.png", MediaType: "image/png", Data: test.TinyPNG()},
	})
	manager.Wait()
	require.Equal(t, 1, manager.Count())

	require.Eventually(t, func() bool { return manager.Count() == 0 }, time.Second, 5*time.Millisecond)
	_, ok := surf.Row(ids[0])
	assert.False(t, ok, "expired row should be removed from the surface")
}

func TestRemoveCancelsPendingReload(t *testing.T) {
	mock := &test.GatewayMock{}
	surf := test.NewRecordingSurface()
	cache := wardrobe.NewCache(mock, "user-1")
	manager := NewManager(mock, cache, surf, "user-1", Config{
		SuccessLinger: time.Minute,
		FailureLinger: time.Minute,
		ReloadDelay:   100 * time.Millisecond,
	})

	ids := manager.Submit(context.Background(), []FileInput{
		{Name: "shirt.png", MediaType: "image/png", Data: test.TinyPNG()},
	})
	manager.Wait()
	require.Len(t, ids, 1)

	// Tear the task down before the reload delay elapses.
	manager.Remove(ids[0])
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 0, mock.ListCallCount())
	assert.Equal(t, 0, manager.Count())
}

func TestDescriptionDerivedFromFileNameCapped(t *testing.T) {
	mock := &test.GatewayMock{}
	manager := newManager(mock, test.NewRecordingSurface())

	long := "this_is_a_very_long_clothing_file_name_that_keeps_going_and_going.png"
	manager.Submit(context.Background(), []FileInput{
		{Name: long, MediaType: "image/png", Data: test.TinyPNG()},
	})
	manager.Wait()

	require.Len(t, mock.AnalyzeCalls, 1)
	description := mock.AnalyzeCalls[0]
	assert.LessOrEqual(t, len([]rune(description)), gateway.DescriptionMaxLen)
	assert.NotContains(t, description, "_")
	assert.NotContains(t, description, ".png")
}

func TestTasksForFileMatchesDuplicatesTogether(t *testing.T) {
	mock := &test.GatewayMock{}
	manager := newManager(mock, test.NewRecordingSurface())

	ids := manager.Submit(context.Background(), []FileInput{
		{Name: "shirt.png", MediaType: "image/png", Data: test.TinyPNG()},
		{Name: "shirt.png", MediaType: "image/png", Data: test.TinyPNG()},
		{Name: "other.png", MediaType: "image/png", Data: test.TinyPNG()},
	})
	manager.Wait()

	require.Len(t, ids, 3)
	matched := manager.TasksForFile("shirt.png")
	assert.Equal(t, []string{ids[0], ids[1]}, matched)
	assert.NotEqual(t, ids[0], ids[1], "duplicate filenames still get distinct task ids")
}

func TestStateIsTerminal(t *testing.T) {
	assert.False(t, StateValidating.IsTerminal())
	assert.False(t, StateAnalyzing.IsTerminal())
	assert.True(t, StateSettledSuccess.IsTerminal())
	assert.True(t, StateSettledFailure.IsTerminal())
}
