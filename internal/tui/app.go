package tui

import (
	"paceline/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenPlans Screen = iota
	ScreenDetail
	ScreenFueling
	ScreenHelp
)

// OpenPlanDetailMsg asks the app to open the detail screen for a plan
type OpenPlanDetailMsg struct {
	PlanID int64
}

// OpenFuelingMsg asks the app to open the fueling screen for a plan
type OpenFuelingMsg struct {
	PlanID int64
}

// statusMsg sets the one-line status shown in the footer
type statusMsg string

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	plans   PlansModel
	detail  PlanDetailModel
	fueling FuelingModel
	help    HelpModel

	queryService *service.QueryService
	units        Units

	// Window dimensions
	width  int
	height int

	// Status message
	status string
}

// NewApp creates the root model over the read-side service
func NewApp(queryService *service.QueryService, units Units) *App {
	return &App{
		screen:       ScreenPlans,
		queryService: queryService,
		units:        units,
		plans:        NewPlansModel(queryService, units),
		help:         NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.plans.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		a.status = ""

		switch msg.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "1":
			a.screen = ScreenPlans
			return a, a.plans.Init()
		case "?":
			if a.screen != ScreenHelp {
				a.prevScreen = a.screen
				a.screen = ScreenHelp
			}
			return a, nil
		case "esc":
			switch a.screen {
			case ScreenHelp:
				a.screen = a.prevScreen
				return a, nil
			case ScreenDetail, ScreenFueling:
				a.screen = ScreenPlans
				return a, nil
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case OpenPlanDetailMsg:
		a.screen = ScreenDetail
		a.detail = NewPlanDetailModel(a.queryService, a.units, msg.PlanID, a.width, a.height)
		return a, a.detail.Init()

	case OpenFuelingMsg:
		a.screen = ScreenFueling
		a.fueling = NewFuelingModel(a.queryService, a.units, msg.PlanID)
		return a, a.fueling.Init()

	case statusMsg:
		a.status = string(msg)
		return a, nil
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenPlans:
		var m tea.Model
		m, cmd = a.plans.Update(msg)
		a.plans = m.(PlansModel)
	case ScreenDetail:
		var m tea.Model
		m, cmd = a.detail.Update(msg)
		a.detail = m.(PlanDetailModel)
	case ScreenFueling:
		var m tea.Model
		m, cmd = a.fueling.Update(msg)
		a.fueling = m.(FuelingModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenPlans:
		content = a.plans.View()
	case ScreenDetail:
		content = a.detail.View()
	case ScreenFueling:
		content = a.fueling.View()
	case ScreenHelp:
		content = a.help.View()
	}

	footer := a.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content, footer)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("Paceline - Power-Based Pacing Plans")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Plans", ScreenPlans},
		{"enter", "Detail", ScreenDetail},
		{"f", "Fueling", ScreenFueling},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

func (a *App) renderFooter() string {
	if a.status != "" {
		return statusStyle.Render("  " + a.status)
	}
	return ""
}
