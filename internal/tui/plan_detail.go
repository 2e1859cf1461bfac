package tui

import (
	"fmt"
	"math"
	"strings"

	"paceline/internal/analysis"
	"paceline/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// PlanDetailModel is the plan detail screen model
type PlanDetailModel struct {
	queryService *service.QueryService
	units        Units
	planID       int64
	detail       *service.PlanDetail
	viewport     viewport.Model
	loading      bool
	err          error
	width        int
	height       int
	ready        bool
}

// NewPlanDetailModel creates a new plan detail model
func NewPlanDetailModel(qs *service.QueryService, units Units, planID int64, width, height int) PlanDetailModel {
	m := PlanDetailModel{
		queryService: qs,
		units:        units,
		planID:       planID,
		loading:      true,
		width:        width,
		height:       height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6) // Reserve space for header/footer
		m.ready = true
	}

	return m
}

// Init initializes the plan detail screen
func (m PlanDetailModel) Init() tea.Cmd {
	return m.loadDetail
}

type planDetailLoadedMsg struct {
	detail *service.PlanDetail
	err    error
}

func (m PlanDetailModel) loadDetail() tea.Msg {
	detail, err := m.queryService.GetPlanDetail(m.planID)
	return planDetailLoadedMsg{detail: detail, err: err}
}

// Update handles messages
func (m PlanDetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case planDetailLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.detail = msg.detail
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.detail != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadDetail
		case "f":
			planID := m.planID
			return m, func() tea.Msg {
				return OpenFuelingMsg{PlanID: planID}
			}
		}
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the plan detail screen
func (m PlanDetailModel) View() string {
	if m.loading {
		return "\n  Loading plan..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("  esc: back to plans  f: fueling  j/k or arrows: scroll  r: refresh")

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m PlanDetailModel) renderContent() string {
	if m.detail == nil {
		return "No data"
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderSummary())

	if s := m.renderElevationProfile(); s != "" {
		sections = append(sections, s)
	}
	if s := m.renderPowerProfile(); s != "" {
		sections = append(sections, s)
	}
	if s := m.renderWBalProfile(); s != "" {
		sections = append(sections, s)
	}
	if s := m.renderZones(); s != "" {
		sections = append(sections, s)
	}
	if s := m.renderClimbs(); s != "" {
		sections = append(sections, s)
	}
	if s := m.renderPeaks(); s != "" {
		sections = append(sections, s)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m PlanDetailModel) renderHeader() string {
	p := m.detail.Plan
	title := cardTitleStyle.Render(p.Name)

	date := p.CreatedAt.Format("Monday, January 2, 2006 at 15:04")
	subtitle := mutedStyle.Render(date)

	stats := fmt.Sprintf("%s  •  %s ascent  •  %s  •  %.0f W avg",
		m.units.FormatDistance(p.DistanceM),
		m.units.FormatElevation(p.AscentM),
		m.units.FormatDuration(p.TotalTimeS),
		p.AvgPowerW)
	statsLine := lipgloss.NewStyle().Foreground(textColor).Bold(true).Render(stats)

	return lipgloss.JoinVertical(lipgloss.Left, "", title, subtitle, statsLine, "")
}

func (m PlanDetailModel) renderSummary() string {
	var lines []string

	lines = append(lines, sectionStyle.Render("Summary"))

	met := m.detail.Metrics
	p := m.detail.Plan

	lines = append(lines, fmt.Sprintf("  Normalized Power:     %.0f W", met.NormalizedPowerW))
	lines = append(lines, fmt.Sprintf("  Intensity Factor:     %.2f", met.IntensityFactor))
	lines = append(lines, fmt.Sprintf("  Training Stress:      %.0f TSS", met.TSS))
	lines = append(lines, fmt.Sprintf("  Variability Index:    %.2f", met.VariabilityIndex))
	lines = append(lines, fmt.Sprintf("  Energy:               %s", m.units.FormatEnergy(p.EnergyKcal)))

	wp := met.WPrime
	lines = append(lines, fmt.Sprintf("  W' low point:         %.0f%% (%.1f kJ at %s)",
		wp.LowestPct, wp.MinJ/1000, m.units.FormatClock(wp.MinAtS)))
	lines = append(lines, fmt.Sprintf("  W' at finish:         %.1f kJ", wp.FinalJ/1000))
	if wp.Surges > 0 {
		lines = append(lines, fmt.Sprintf("  Hard surges:          %d", wp.Surges))
	}

	used := 1 - wp.LowestPct/100
	lines = append(lines, fmt.Sprintf("  W' usage:             %s %.0f%%", RenderProgressBar(used, 24), used*100))

	if p.ClampEvents > 0 {
		lines = append(lines, warningStyle.Render(fmt.Sprintf("  Power capped %d times to keep W' above empty", p.ClampEvents)))
	}
	if p.SolverFallbacks > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("  %d points used the fallback speed", p.SolverFallbacks)))
	}

	lines = append(lines, "")
	lines = append(lines, "  "+mutedStyle.Render(analysis.IntensityAssessment(met.IntensityFactor)))
	lines = append(lines, "  "+mutedStyle.Render(analysis.WPrimeAssessment(wp.LowestPct)))

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m PlanDetailModel) renderElevationProfile() string {
	data := make([]float64, len(m.detail.Points))
	for i, p := range m.detail.Points {
		v := p.ElevationM
		if m.units.IsMiles() {
			v *= feetPerMeter
		}
		data[i] = v
	}
	return m.renderChart(fmt.Sprintf("Elevation (%s)", m.units.ElevationLabel()), data)
}

func (m PlanDetailModel) renderPowerProfile() string {
	data := make([]float64, len(m.detail.Points))
	for i, p := range m.detail.Points {
		data[i] = p.PowerW
	}
	return m.renderChart("Target Power (W)", data)
}

func (m PlanDetailModel) renderWBalProfile() string {
	data := make([]float64, len(m.detail.Points))
	for i, p := range m.detail.Points {
		data[i] = p.WBalJ / 1000
	}
	return m.renderChart("W' Balance (kJ)", data)
}

func (m PlanDetailModel) renderChart(title string, data []float64) string {
	if len(data) > 60 {
		data = downsample(data, 60)
	}
	if len(data) < 3 {
		return ""
	}

	var lines []string
	lines = append(lines, sectionStyle.Render(title))
	lines = append(lines, asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(60),
	))
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m PlanDetailModel) renderZones() string {
	zones := []string{"recovery", "endurance", "tempo", "threshold", "vo2max", "anaerobic"}

	var total float64
	for _, z := range zones {
		total += m.detail.Metrics.ZoneTimeS[z]
	}
	if total <= 0 {
		return ""
	}

	var lines []string
	lines = append(lines, sectionStyle.Render("Time in Zone"))

	maxBarWidth := 30
	for _, z := range zones {
		secs := m.detail.Metrics.ZoneTimeS[z]
		pct := secs / total * 100
		barWidth := int(pct / 100 * float64(maxBarWidth))
		if barWidth < 1 && secs > 0 {
			barWidth = 1
		}

		bar := strings.Repeat("█", barWidth)
		label := fmt.Sprintf("  %-10s", z)
		line := label + lipgloss.NewStyle().Foreground(zoneColors[z]).Render(bar) +
			fmt.Sprintf(" %5.1f%% (%s)", pct, m.units.FormatDuration(secs))
		lines = append(lines, line)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m PlanDetailModel) renderClimbs() string {
	climbs := m.detail.Metrics.Climbs
	if len(climbs) == 0 {
		return ""
	}

	var lines []string
	lines = append(lines, sectionStyle.Render("Climbs"))

	header := fmt.Sprintf("  %-3s  %9s  %8s  %7s  %6s  %6s  %5s  %4s",
		"#", "Start", "Length", "Ascent", "Avg %", "Max %", "Avg W", "Cat")
	lines = append(lines, lipgloss.NewStyle().Foreground(primaryColor).Render(header))

	// Highlight the biggest climb of the ride
	biggest, biggestScore := -1, 0.0
	for i, c := range climbs {
		if score := c.LengthM * c.AvgGradePct; score > biggestScore {
			biggest, biggestScore = i, score
		}
	}

	for i, c := range climbs {
		cat := c.Category
		if cat == "" {
			cat = "-"
		}

		row := fmt.Sprintf("  %-3d  %9s  %8s  %7s  %5.1f%%  %5.1f%%  %5.0f  %4s",
			i+1,
			m.units.FormatDistance(c.StartM),
			m.units.FormatDistance(c.LengthM),
			m.units.FormatElevation(c.AscentM),
			c.AvgGradePct,
			c.MaxGradePct,
			c.AvgPowerW,
			cat)

		if i == biggest {
			lines = append(lines, lipgloss.NewStyle().Foreground(secondaryColor).Bold(true).Render(row))
		} else {
			lines = append(lines, row)
		}
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m PlanDetailModel) renderPeaks() string {
	peaks := m.detail.Metrics.Peaks
	if len(peaks) == 0 {
		return ""
	}

	var lines []string
	lines = append(lines, sectionStyle.Render("Peak Planned Efforts"))

	for _, pk := range peaks {
		lines = append(lines, fmt.Sprintf("  %-7s  %4.0f W   at %s",
			windowLabel(pk.WindowS), pk.AvgPowerW, m.units.FormatDistance(pk.StartM)))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func windowLabel(windowS float64) string {
	if windowS >= 60 && math.Mod(windowS, 60) == 0 {
		return fmt.Sprintf("%.0f min", windowS/60)
	}
	return fmt.Sprintf("%.0f s", windowS)
}

// downsample reduces a series to targetLen buckets by averaging. Plans keep
// every grid point, far more than a terminal chart can show.
func downsample(data []float64, targetLen int) []float64 {
	if len(data) <= targetLen {
		return data
	}

	result := make([]float64, targetLen)
	ratio := float64(len(data)) / float64(targetLen)

	for i := 0; i < targetLen; i++ {
		start := int(float64(i) * ratio)
		end := int(float64(i+1) * ratio)
		if end > len(data) {
			end = len(data)
		}

		sum := 0.0
		count := 0
		for j := start; j < end; j++ {
			sum += data[j]
			count++
		}
		if count > 0 {
			result[i] = sum / float64(count)
		}
	}

	return result
}
