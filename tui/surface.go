package tui

import (
	"smartstylist/models"
	"smartstylist/surface"

	tea "github.com/charmbracelet/bubbletea"
)

// Messages the core pushes into the Bubble Tea loop.
type notifyMsg struct {
	level   surface.NotificationLevel
	message string
}

type rowMsg struct{ row surface.UploadRowView }

type rowRemovedMsg struct{ taskID string }

type wardrobeMsg struct {
	items      []models.WardrobeItem
	categories []string
}

type outfitsMsg struct {
	outfits []surface.OutfitView
	weather *models.WeatherInfo
}

type focusMsg struct{ field surface.Field }

// Surface adapts the core's surface callbacks onto a running Bubble Tea
// program. Calls arriving before the program starts are dropped, which
// only affects bootstrap races at startup.
type Surface struct {
	program *tea.Program
}

func NewSurface() *Surface { return &Surface{} }

func (s *Surface) Attach(p *tea.Program) { s.program = p }

func (s *Surface) send(msg tea.Msg) {
	if s.program != nil {
		s.program.Send(msg)
	}
}

func (s *Surface) Notify(level surface.NotificationLevel, message string) {
	s.send(notifyMsg{level: level, message: message})
}

func (s *Surface) UpsertUploadRow(row surface.UploadRowView) {
	s.send(rowMsg{row: row})
}

func (s *Surface) RemoveUploadRow(taskID string) {
	s.send(rowRemovedMsg{taskID: taskID})
}

func (s *Surface) ShowWardrobe(items []models.WardrobeItem, categories []string) {
	s.send(wardrobeMsg{items: items, categories: categories})
}

func (s *Surface) ShowOutfits(outfits []surface.OutfitView, weather *models.WeatherInfo, recommendations *models.WeatherRecommendations) {
	s.send(outfitsMsg{outfits: outfits, weather: weather})
}

func (s *Surface) FocusField(field surface.Field) {
	s.send(focusMsg{field: field})
}
