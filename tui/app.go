// Package tui is the terminal rendering surface: it shows upload rows,
// the cached wardrobe and generated outfits, and feeds interaction
// events (file submits, generation requests) back into the core.
package tui

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"smartstylist/app"
	"smartstylist/languageutil"
	"smartstylist/models"
	"smartstylist/outfits"
	"smartstylist/surface"
	"smartstylist/uploads"
)

type focusTarget int

const (
	focusCity focusTarget = iota
	focusOccasion
	focusPath
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	fadeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Model is the root Bubble Tea state.
type Model struct {
	ctx context.Context
	app *app.Context

	cityInput     textinput.Model
	occasionInput textinput.Model
	pathInput     textinput.Model
	focused       focusTarget

	rows       []surface.UploadRowView
	categories []string
	itemCount  int
	outfits    []surface.OutfitView
	weather    *models.WeatherInfo

	notification string
	notifyLevel  surface.NotificationLevel
	width        int
}

func newModel(ctx context.Context, application *app.Context) Model {
	city := textinput.New()
	city.Placeholder = "City (required)"
	city.Focus()
	occasion := textinput.New()
	occasion.Placeholder = "Occasion (default: casual day)"
	path := textinput.New()
	path.Placeholder = "Path to a clothing image, enter to upload"

	return Model{
		ctx:           ctx,
		app:           application,
		cityInput:     city,
		occasionInput: occasion,
		pathInput:     path,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case notifyMsg:
		m.notification = msg.message
		m.notifyLevel = msg.level
		return m, nil

	case rowMsg:
		m.rows = upsertRow(m.rows, msg.row)
		return m, nil

	case rowRemovedMsg:
		m.rows = removeRow(m.rows, msg.taskID)
		return m, nil

	case wardrobeMsg:
		m.itemCount = len(msg.items)
		m.categories = msg.categories
		return m, nil

	case outfitsMsg:
		m.outfits = msg.outfits
		m.weather = msg.weather
		return m, nil

	case focusMsg:
		if msg.field == surface.FieldCity {
			m.setFocus(focusCity)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.setFocus((m.focused + 1) % 3)
			return m, nil
		case "ctrl+g":
			return m, m.generateCmd()
		case "enter":
			if m.focused == focusPath {
				return m, m.uploadCmd()
			}
			return m, m.generateCmd()
		}
	}

	var cmd tea.Cmd
	switch m.focused {
	case focusCity:
		m.cityInput, cmd = m.cityInput.Update(msg)
	case focusOccasion:
		m.occasionInput, cmd = m.occasionInput.Update(msg)
	case focusPath:
		m.pathInput, cmd = m.pathInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(target focusTarget) {
	m.focused = target
	m.cityInput.Blur()
	m.occasionInput.Blur()
	m.pathInput.Blur()
	switch target {
	case focusCity:
		m.cityInput.Focus()
	case focusOccasion:
		m.occasionInput.Focus()
	case focusPath:
		m.pathInput.Focus()
	}
}

func (m Model) uploadCmd() tea.Cmd {
	path := strings.TrimSpace(m.pathInput.Value())
	application := m.app
	ctx := m.ctx
	return func() tea.Msg {
		if path == "" {
			return notifyMsg{level: surface.LevelError, message: "Enter a file path to upload"}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return notifyMsg{level: surface.LevelError, message: fmt.Sprintf("Could not read %s", path)}
		}
		application.Uploads.Submit(ctx, []uploads.FileInput{{
			Name:      filepath.Base(path),
			MediaType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
			Data:      data,
		}})
		return nil
	}
}

func (m Model) generateCmd() tea.Cmd {
	application := m.app
	ctx := m.ctx
	city := m.cityInput.Value()
	occasion := m.occasionInput.Value()
	return func() tea.Msg {
		// Outcome arrives back through the surface callbacks.
		_, _ = application.Generator.Generate(ctx, outfits.GenerateRequest{City: city, Occasion: occasion})
		return nil
	}
}

func upsertRow(rows []surface.UploadRowView, row surface.UploadRowView) []surface.UploadRowView {
	for i := range rows {
		if rows[i].TaskID == row.TaskID {
			rows[i] = row
			return rows
		}
	}
	return append(rows, row)
}

func removeRow(rows []surface.UploadRowView, taskID string) []surface.UploadRowView {
	for i := range rows {
		if rows[i].TaskID == taskID {
			return append(rows[:i], rows[i+1:]...)
		}
	}
	return rows
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("SmartStylist") + "\n\n")

	b.WriteString(labelStyle.Render("City:     ") + m.cityInput.View() + "\n")
	b.WriteString(labelStyle.Render("Occasion: ") + m.occasionInput.View() + "\n")
	b.WriteString(labelStyle.Render("Upload:   ") + m.pathInput.View() + "\n\n")

	b.WriteString(labelStyle.Render(fmt.Sprintf("Wardrobe: %d items", m.itemCount)))
	if len(m.categories) > 0 {
		titled := make([]string, len(m.categories))
		for i, category := range m.categories {
			titled[i] = languageutil.TitleCaser.String(category)
		}
		b.WriteString(labelStyle.Render("  [" + strings.Join(titled, ", ") + "]"))
	}
	b.WriteString("\n")

	for _, row := range m.rows {
		b.WriteString(renderRow(row) + "\n")
	}

	if m.weather != nil {
		b.WriteString("\n" + infoStyle.Render(fmt.Sprintf("%s: %.0f°C, %s", m.weather.City, m.weather.TempC, m.weather.Condition)) + "\n")
	}
	for _, outfit := range m.outfits {
		b.WriteString(renderOutfit(outfit) + "\n")
	}

	if m.notification != "" {
		style := infoStyle
		switch m.notifyLevel {
		case surface.LevelError:
			style = errorStyle
		case surface.LevelSuccess:
			style = successStyle
		}
		b.WriteString("\n" + style.Render(m.notification) + "\n")
	}

	b.WriteString("\n" + fadeStyle.Render("tab: switch field · enter: submit · ctrl+g: generate · esc: quit"))
	return b.String()
}

func renderRow(row surface.UploadRowView) string {
	badge := row.State
	style := infoStyle
	switch uploads.State(row.State) {
	case uploads.StateSettledSuccess:
		style = successStyle
		badge = "added"
	case uploads.StateSettledFailure:
		style = errorStyle
		badge = "failed"
	case uploads.StateAnalyzing:
		badge = "analyzing…"
	case uploads.StatePreviewReady:
		badge = "ready"
	}
	line := fmt.Sprintf("  %s %s", row.FileName, style.Render("["+badge+"]"))
	if row.Category != "" {
		line += labelStyle.Render(fmt.Sprintf(" %s/%s", row.Category, row.Color))
	}
	if row.FadeOut {
		return fadeStyle.Render(line)
	}
	return line
}

func renderOutfit(outfit surface.OutfitView) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  (score %.2f)\n", titleStyle.Render(outfit.Title), outfit.Score))
	if outfit.Details != "" {
		b.WriteString(labelStyle.Render(outfit.Details) + "\n")
	}
	for _, item := range outfit.Items {
		tags := ""
		if len(item.StyleTags) > 0 {
			tags = "  " + fadeStyle.Render(strings.Join(item.StyleTags, ", "))
		}
		b.WriteString(fmt.Sprintf("  • %s (%s)%s\n", item.DisplayName, item.Category, tags))
	}
	for _, tip := range outfit.StylingTips {
		b.WriteString(infoStyle.Render("  tip: "+tip) + "\n")
	}
	return cardStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// Run starts the TUI and blocks until quit.
func Run(ctx context.Context, application *app.Context, surf *Surface) error {
	p := tea.NewProgram(newModel(ctx, application), tea.WithAltScreen(), tea.WithContext(ctx))
	surf.Attach(p)
	go application.Bootstrap(ctx, surf)
	_, err := p.Run()
	return err
}
