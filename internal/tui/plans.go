package tui

import (
	"fmt"

	"paceline/internal/service"
	"paceline/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PlansModel is the saved-plans list screen model
type PlansModel struct {
	queryService  *service.QueryService
	units         Units
	plans         []store.Plan
	cursor        int
	offset        int
	total         int
	pageSize      int
	loading       bool
	confirmDelete bool
	err           error
}

// NewPlansModel creates a new plans list model
func NewPlansModel(qs *service.QueryService, units Units) PlansModel {
	return PlansModel{
		queryService: qs,
		units:        units,
		pageSize:     15,
		loading:      true,
	}
}

// Init initializes the plans screen
func (m PlansModel) Init() tea.Cmd {
	return m.loadPage
}

type plansLoadedMsg struct {
	plans []store.Plan
	total int
	err   error
}

type planDeletedMsg struct {
	name string
	err  error
}

func (m PlansModel) loadPage() tea.Msg {
	plans, err := m.queryService.ListPlans(m.pageSize, m.offset)
	if err != nil {
		return plansLoadedMsg{err: err}
	}

	total, err := m.queryService.CountPlans()
	if err != nil {
		return plansLoadedMsg{err: err}
	}

	return plansLoadedMsg{plans: plans, total: total}
}

func (m PlansModel) deleteSelected() tea.Cmd {
	plan := m.plans[m.cursor]
	return func() tea.Msg {
		if err := m.queryService.DeletePlan(plan.ID); err != nil {
			return planDeletedMsg{err: err}
		}
		return planDeletedMsg{name: plan.Name}
	}
}

// Update handles messages
func (m PlansModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case plansLoadedMsg:
		m.loading = false
		m.confirmDelete = false
		m.err = msg.err
		m.plans = msg.plans
		m.total = msg.total
		// A delete can empty the last page; step back to the previous one
		if len(m.plans) == 0 && m.offset > 0 {
			m.offset -= m.pageSize
			if m.offset < 0 {
				m.offset = 0
			}
			m.cursor = 0
			m.loading = true
			return m, m.loadPage
		}
		if m.cursor >= len(m.plans) && len(m.plans) > 0 {
			m.cursor = len(m.plans) - 1
		}

	case planDeletedMsg:
		m.confirmDelete = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.loadPage, func() tea.Msg {
			return statusMsg(fmt.Sprintf("Deleted %q", msg.name))
		})

	case tea.KeyMsg:
		if m.confirmDelete {
			if msg.String() == "y" && len(m.plans) > 0 {
				return m, m.deleteSelected()
			}
			m.confirmDelete = false
			return m, nil
		}

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			} else if m.offset > 0 {
				// Go to previous page
				m.offset -= m.pageSize
				m.cursor = m.pageSize - 1
				m.loading = true
				return m, m.loadPage
			}
		case "down", "j":
			if m.cursor < len(m.plans)-1 {
				m.cursor++
			} else if m.offset+len(m.plans) < m.total {
				// Go to next page
				m.offset += m.pageSize
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "pgup":
			if m.offset > 0 {
				m.offset -= m.pageSize
				if m.offset < 0 {
					m.offset = 0
				}
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "pgdown":
			if m.offset+m.pageSize < m.total {
				m.offset += m.pageSize
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "r":
			m.loading = true
			return m, m.loadPage
		case "d":
			if len(m.plans) > 0 {
				m.confirmDelete = true
			}
		case "enter":
			if len(m.plans) > 0 && m.cursor < len(m.plans) {
				planID := m.plans[m.cursor].ID
				return m, func() tea.Msg {
					return OpenPlanDetailMsg{PlanID: planID}
				}
			}
		case "f":
			if len(m.plans) > 0 && m.cursor < len(m.plans) {
				planID := m.plans[m.cursor].ID
				return m, func() tea.Msg {
					return OpenFuelingMsg{PlanID: planID}
				}
			}
		}
	}
	return m, nil
}

// View renders the plans list
func (m PlansModel) View() string {
	if m.loading {
		return "\n  Loading plans..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if len(m.plans) == 0 {
		return "\n  No plans yet. Run 'paceline compute --route ride.gpx' to create one."
	}

	var sections []string

	// Title with pagination info
	startNum := m.offset + 1
	endNum := m.offset + len(m.plans)
	title := cardTitleStyle.Render(fmt.Sprintf("Saved Plans (%d-%d of %d)", startNum, endNum, m.total))
	sections = append(sections, title)

	// Header
	header := tableHeaderStyle.Render(fmt.Sprintf("   %-10s  %-24s  %9s  %8s  %8s  %6s  %9s",
		"Date", "Name", "Distance", "Ascent", "Time", "Avg W", "Energy"))
	sections = append(sections, header)

	// Rows
	for i, p := range m.plans {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		row := fmt.Sprintf("%s%-10s  %-24s  %9s  %8s  %8s  %6.0f  %9s",
			cursor,
			p.CreatedAt.Format("Jan 02"),
			truncateName(p.Name, 24),
			m.units.FormatDistance(p.DistanceM),
			m.units.FormatElevation(p.AscentM),
			m.units.FormatDuration(p.TotalTimeS),
			p.AvgPowerW,
			m.units.FormatEnergy(p.EnergyKcal),
		)

		if i == m.cursor {
			sections = append(sections, tableSelectedStyle.Render(row))
		} else {
			sections = append(sections, tableRowStyle.Render(row))
		}
	}

	if m.confirmDelete && m.cursor < len(m.plans) {
		prompt := fmt.Sprintf("\n  Delete %q? Press y to confirm, any other key to cancel.", m.plans[m.cursor].Name)
		sections = append(sections, warningStyle.Render(prompt))
	}

	// Help
	help := statusStyle.Render("\n  enter: plan detail  f: fueling  d: delete  j/k: navigate  pgup/pgdn: page  r: refresh")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func truncateName(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
