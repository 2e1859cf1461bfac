package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Keyboard Shortcuts")
	sections = append(sections, title)

	navSection := m.renderSection("Navigation", []keyHelp{
		{"1", "Plans list"},
		{"?", "Help (this screen)"},
		{"esc", "Back / close help"},
		{"q", "Quit"},
	})
	sections = append(sections, navSection)

	plansSection := m.renderSection("Plans List", []keyHelp{
		{"j / down", "Move cursor down"},
		{"k / up", "Move cursor up"},
		{"pgdn / pgup", "Next / previous page"},
		{"enter", "Open plan detail"},
		{"f", "Open fueling plan"},
		{"d", "Delete plan (y confirms)"},
		{"r", "Refresh list"},
	})
	sections = append(sections, plansSection)

	detailSection := m.renderSection("Plan Detail", []keyHelp{
		{"j/k or arrows", "Scroll"},
		{"f", "Fueling plan"},
		{"r", "Refresh"},
	})
	sections = append(sections, detailSection)

	fuelingSection := m.renderSection("Fueling", []keyHelp{
		{"enter", "Back to plan detail"},
		{"r", "Refresh"},
	})
	sections = append(sections, fuelingSection)

	metricsSection := m.renderMetricsHelp()
	sections = append(sections, metricsSection)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionStyle.Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderMetricsHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionStyle.Render("Metrics Explained"))
	lines = append(lines, "")

	metrics := []struct {
		name string
		desc string
	}{
		{"NP (Normalized Power)", "Fourth-power weighted average. What the ride feels like."},
		{"IF (Intensity Factor)", "NP over threshold power. 1.0 = a full-gas hour."},
		{"TSS", "Training stress - one hour at threshold scores 100."},
		{"VI (Variability Index)", "NP over average power. Near 1.0 = steady pacing."},
		{"W' Balance", "Anaerobic reserve in joules. Drains above CP, refills below."},
		{"Fatigue Index", "0-100 blend of W' spent, hours riding and intensity."},
	}

	for _, metric := range metrics {
		lines = append(lines, "  "+helpKeyStyle.Render(metric.name))
		lines = append(lines, "  "+mutedStyle.Render(metric.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
