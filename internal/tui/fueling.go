package tui

import (
	"fmt"

	"paceline/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FuelingModel is the fueling plan screen model
type FuelingModel struct {
	queryService *service.QueryService
	units        Units
	planID       int64
	detail       *service.PlanDetail
	loading      bool
	err          error
}

// NewFuelingModel creates a new fueling model
func NewFuelingModel(qs *service.QueryService, units Units, planID int64) FuelingModel {
	return FuelingModel{
		queryService: qs,
		units:        units,
		planID:       planID,
		loading:      true,
	}
}

// Init initializes the fueling screen
func (m FuelingModel) Init() tea.Cmd {
	return m.loadDetail
}

type fuelingLoadedMsg struct {
	detail *service.PlanDetail
	err    error
}

func (m FuelingModel) loadDetail() tea.Msg {
	detail, err := m.queryService.GetPlanDetail(m.planID)
	return fuelingLoadedMsg{detail: detail, err: err}
}

// Update handles messages
func (m FuelingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fuelingLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.detail = msg.detail

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadDetail
		case "enter":
			planID := m.planID
			return m, func() tea.Msg {
				return OpenPlanDetailMsg{PlanID: planID}
			}
		}
	}
	return m, nil
}

// View renders the fueling screen
func (m FuelingModel) View() string {
	if m.loading {
		return "\n  Loading fueling plan..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.detail == nil {
		return "\n  No data"
	}

	var sections []string

	title := cardTitleStyle.Render(fmt.Sprintf("Fueling - %s", m.detail.Plan.Name))
	sections = append(sections, title)
	sections = append(sections, m.renderNeeds())

	if len(m.detail.Fueling) == 0 {
		sections = append(sections, "\n  Ride is under 30 minutes - no fueling stops needed.")
	} else {
		sections = append(sections, m.renderTable())
	}

	help := statusStyle.Render("\n  esc: back to plans  enter: plan detail  r: refresh")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m FuelingModel) renderNeeds() string {
	n := m.detail.Needs

	carbsPerH := 0.0
	if n.DurationH > 0 {
		carbsPerH = n.CarbsG / n.DurationH
	}

	lines := []string{
		RenderMetric("Duration", m.units.FormatDuration(n.DurationH*3600)),
		RenderMetric("Carbohydrate", fmt.Sprintf("%.0f g (%.0f g/h)", n.CarbsG, carbsPerH)),
		RenderMetric("Fluid", fmt.Sprintf("%.1f L", n.FluidL)),
		RenderMetric("Sodium", fmt.Sprintf("%.0f mg", n.SodiumMg)),
		RenderMetric("Energy cost", m.units.FormatEnergy(n.Kcal)),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(44).Render(content)
}

func (m FuelingModel) renderTable() string {
	var rows []string

	header := tableHeaderStyle.Render(fmt.Sprintf("  %-8s  %9s  %-6s  %6s  %7s  %8s  %8s",
		"Time", "Dist", "Take", "Carbs", "Fluid", "W' left", "Fatigue"))
	rows = append(rows, header)

	for _, fp := range m.detail.Fueling {
		row := fmt.Sprintf("  %-8s  %9s  %-6s  %4.0f g  %4.0f ml  %7.0f%%  %8.0f",
			m.units.FormatClock(fp.TimeS),
			m.units.FormatDistance(fp.DistanceM),
			fp.Type,
			fp.CarbsG,
			fp.FluidML,
			fp.WBalPct*100,
			fp.FatigueIndex,
		)

		// Reminders landing on a tired rider stand out
		if fp.FatigueIndex > 70 {
			rows = append(rows, tableRowStyle.Foreground(warningColor).Render(row))
		} else {
			rows = append(rows, tableRowStyle.Render(row))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
