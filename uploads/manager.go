// Package uploads drives the per-file upload lifecycle: validate the
// selected file, decode a local preview, send it to the gateway for
// analysis, then settle and expire. Every file gets its own task and
// tasks run independently; a bad file never blocks the rest of a batch.
package uploads

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"

	"smartstylist/gateway"
	"smartstylist/models"
	"smartstylist/services"
	"smartstylist/surface"
	"smartstylist/wardrobe"
)

// State is the lifecycle state of one upload task. Transitions only move
// forward: Validating -> PreviewReady -> Analyzing -> settled.
type State string

const (
	StateValidating     State = "validating"
	StatePreviewReady   State = "preview_ready"
	StateAnalyzing      State = "analyzing"
	StateSettledSuccess State = "settled_success"
	StateSettledFailure State = "settled_failure"
)

var stateRank = map[State]int{
	StateValidating:     0,
	StatePreviewReady:   1,
	StateAnalyzing:      2,
	StateSettledSuccess: 3,
	StateSettledFailure: 3,
}

// IsTerminal reports whether the task has settled.
func (s State) IsTerminal() bool {
	return s == StateSettledSuccess || s == StateSettledFailure
}

// MaxFileSize is the upload size bound.
const MaxFileSize = 10 * 1024 * 1024 // 10 MiB

// FileInput is one file handed over by the surface (drop or picker).
type FileInput struct {
	Name      string
	MediaType string
	Data      []byte
}

// Task is one in-flight submission. Tasks are keyed by a generated ID,
// never by the user-supplied filename. All fields are guarded by the
// owning manager's mutex.
type Task struct {
	ID        string
	FileName  string
	MediaType string
	Size      int64
	CreatedAt time.Time

	state    State
	preview  string
	analysis *models.ItemAnalysis
	message  string
	fadeOut  bool

	expireTimer *time.Timer
	reloadTimer *time.Timer
}

// Config tunes the manager's timing. Zero values fall back to the
// defaults: success rows linger 5 units, failure rows 1 unit, and a
// successful analysis schedules a wardrobe reload after 1 unit (one unit
// being a second).
type Config struct {
	SuccessLinger time.Duration
	FailureLinger time.Duration
	ReloadDelay   time.Duration
}

func (c Config) withDefaults() Config {
	if c.SuccessLinger <= 0 {
		c.SuccessLinger = 5 * time.Second
	}
	if c.FailureLinger <= 0 {
		c.FailureLinger = 1 * time.Second
	}
	if c.ReloadDelay <= 0 {
		c.ReloadDelay = 1 * time.Second
	}
	return c
}

// Manager owns the task collection and runs each accepted file through
// the lifecycle on its own goroutine.
type Manager struct {
	gateway gateway.Provider
	cache   *wardrobe.Cache
	surface surface.Surface
	userID  string
	cfg     Config

	mu    sync.Mutex
	tasks map[string]*Task
	order []string

	inflight sync.WaitGroup
}

func NewManager(provider gateway.Provider, cache *wardrobe.Cache, surf surface.Surface, userID string, cfg Config) *Manager {
	if surf == nil {
		surf = surface.NopSurface{}
	}
	return &Manager{
		gateway: provider,
		cache:   cache,
		surface: surf,
		userID:  userID,
		cfg:     cfg.withDefaults(),
		tasks:   map[string]*Task{},
	}
}

// Submit validates each file and starts a task per accepted one. Rejects
// are reported individually and create no task, so a mixed batch
// partially succeeds. Returns the IDs of the created tasks.
func (m *Manager) Submit(ctx context.Context, files []FileInput) []string {
	var ids []string
	for _, file := range files {
		if reason := validate(file); reason != "" {
			m.surface.Notify(surface.LevelError, fmt.Sprintf("%s: %s", file.Name, reason))
			continue
		}

		task := &Task{
			ID:        uuid.NewString(),
			FileName:  file.Name,
			MediaType: file.MediaType,
			Size:      int64(len(file.Data)),
			CreatedAt: time.Now(),
			state:     StateValidating,
		}
		m.mu.Lock()
		m.tasks[task.ID] = task
		m.order = append(m.order, task.ID)
		m.mu.Unlock()
		m.surface.UpsertUploadRow(m.rowView(task.ID))

		ids = append(ids, task.ID)
		m.inflight.Add(1)
		go func(data []byte, taskID string) {
			defer m.inflight.Done()
			m.run(ctx, taskID, data)
		}(file.Data, task.ID)
	}
	return ids
}

func validate(file FileInput) string {
	if !services.IsImageMediaType(file.MediaType, file.Name) {
		return "not an image file"
	}
	if int64(len(file.Data)) > MaxFileSize {
		return "file is larger than 10 MB"
	}
	return ""
}

// run drives one task from preview through settle.
func (m *Manager) run(ctx context.Context, taskID string, data []byte) {
	preview, err := services.PreviewDataURL(data)
	if err != nil {
		m.settleFailure(taskID, "could not read image")
		return
	}
	m.advance(taskID, StatePreviewReady, func(t *Task) { t.preview = preview })
	m.advance(taskID, StateAnalyzing, nil)

	fileName, description := m.analyzeInputs(taskID)
	// Exactly one request per task; failures settle the task, no retries.
	resp, err := m.gateway.Analyze(ctx, data, fileName, description, m.userID)
	if err != nil {
		sentry.CaptureException(err)
		m.settleFailure(taskID, userMessage(err))
		return
	}
	m.settleSuccess(ctx, taskID, resp)
}

func (m *Manager) analyzeInputs(taskID string) (string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[taskID]
	if !ok {
		return "", ""
	}
	return task.FileName, services.DescriptionFromFileName(task.FileName, gateway.DescriptionMaxLen)
}

func userMessage(err error) string {
	switch e := err.(type) {
	case *gateway.APIError:
		if e.Message != "" {
			return e.Message
		}
		return "analysis failed"
	case *gateway.DecodeError:
		return "unexpected response from the stylist service"
	default:
		return "stylist service is unreachable"
	}
}

// advance moves a task forward. Backward transitions are ignored, which
// keeps the lifecycle monotonic even if a stale goroutine reports late.
func (m *Manager) advance(taskID string, next State, mutate func(*Task)) {
	m.mu.Lock()
	task, ok := m.tasks[taskID]
	if !ok || stateRank[next] <= stateRank[task.state] {
		m.mu.Unlock()
		return
	}
	task.state = next
	if mutate != nil {
		mutate(task)
	}
	m.mu.Unlock()
	m.surface.UpsertUploadRow(m.rowView(taskID))
}

func (m *Manager) settleSuccess(ctx context.Context, taskID string, resp *models.AnalyzeResponse) {
	analysis := resp.Analysis
	m.advance(taskID, StateSettledSuccess, func(t *Task) {
		t.analysis = &analysis
		t.fadeOut = true
		t.message = "added to wardrobe"
		// The stored image replaces the local preview in place.
		if resp.ImageURL != "" {
			t.preview = resp.ImageURL
		} else if resp.Item != nil && resp.Item.ImageRef() != "" {
			t.preview = resp.Item.ImageRef()
		}
	})

	// Fire-and-forget, but tracked: tearing the task down early cancels
	// the pending reload. The reload may well outlive the task row.
	reloadTimer := m.cache.ScheduleReload(ctx, m.cfg.ReloadDelay, func(err error) {
		if err == nil {
			m.surface.ShowWardrobe(m.cache.Current(), m.cache.Categories())
		}
	})
	m.mu.Lock()
	if task, ok := m.tasks[taskID]; ok {
		task.reloadTimer = reloadTimer
		task.expireTimer = time.AfterFunc(m.cfg.SuccessLinger, func() { m.expire(taskID, false) })
	} else {
		reloadTimer.Stop()
	}
	m.mu.Unlock()
}

func (m *Manager) settleFailure(taskID string, message string) {
	m.advance(taskID, StateSettledFailure, func(t *Task) { t.message = message })
	m.surface.Notify(surface.LevelError, message)
	m.mu.Lock()
	if task, ok := m.tasks[taskID]; ok {
		task.expireTimer = time.AfterFunc(m.cfg.FailureLinger, func() { m.expire(taskID, false) })
	}
	m.mu.Unlock()
}

// expire removes a settled task once its linger elapsed. With
// cancelReload it doubles as early teardown.
func (m *Manager) expire(taskID string, cancelReload bool) {
	m.mu.Lock()
	task, ok := m.tasks[taskID]
	if !ok {
		m.mu.Unlock()
		return
	}
	if task.expireTimer != nil {
		task.expireTimer.Stop()
	}
	if cancelReload && task.reloadTimer != nil {
		task.reloadTimer.Stop()
	}
	delete(m.tasks, taskID)
	for i, id := range m.order {
		if id == taskID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.mu.Unlock()
	m.surface.RemoveUploadRow(taskID)
}

// Remove tears a task down immediately, cancelling any pending follow-up
// reload it still owns.
func (m *Manager) Remove(taskID string) {
	m.expire(taskID, true)
}

// Wait blocks until every submitted task has settled. Linger timers may
// still be pending afterwards.
func (m *Manager) Wait() {
	m.inflight.Wait()
}

// TaskState reports the current state of a task.
func (m *Manager) TaskState(taskID string) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[taskID]
	if !ok {
		return "", false
	}
	return task.state, true
}

// TasksForFile returns the IDs of every live task created for the given
// original filename, in creation order. Duplicate names in one batch all
// match; lifecycle operations themselves never key by filename.
func (m *Manager) TasksForFile(fileName string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, id := range m.order {
		if task, ok := m.tasks[id]; ok && task.FileName == fileName {
			ids = append(ids, id)
		}
	}
	return ids
}

// Count reports the number of live tasks.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Rows renders the current task collection as view models, in creation
// order.
func (m *Manager) Rows() []surface.UploadRowView {
	m.mu.Lock()
	ids := append([]string(nil), m.order...)
	m.mu.Unlock()
	rows := make([]surface.UploadRowView, 0, len(ids))
	for _, id := range ids {
		row := m.rowView(id)
		if row.TaskID != "" {
			rows = append(rows, row)
		}
	}
	return rows
}

func (m *Manager) rowView(taskID string) surface.UploadRowView {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[taskID]
	if !ok {
		return surface.UploadRowView{}
	}
	row := surface.UploadRowView{
		TaskID:     task.ID,
		FileName:   task.FileName,
		State:      string(task.state),
		PreviewURL: task.preview,
		Message:    task.message,
		FadeOut:    task.fadeOut,
	}
	if task.analysis != nil {
		row.Category = task.analysis.Category
		row.Color = task.analysis.Color
		row.StyleTags = task.analysis.StyleTags
	}
	return row
}
