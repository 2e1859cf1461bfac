package export

import (
	"encoding/json"
	"io"
	"time"

	"paceline/internal/store"
)

// Document is the JSON plan export
type Document struct {
	Name      string      `json:"name"`
	UUID      string      `json:"uuid"`
	CreatedAt time.Time   `json:"created_at"`
	Summary   Summary     `json:"summary"`
	Targets   []TargetRow `json:"targets"`
}

// Summary carries the plan's inputs and headline results
type Summary struct {
	DistanceM  float64 `json:"distance_m"`
	AscentM    float64 `json:"ascent_m"`
	TotalTimeS float64 `json:"total_time_s"`
	EnergyKcal float64 `json:"energy_kcal"`
	AvgPowerW  float64 `json:"avg_power_w"`
	FlatPowerW float64 `json:"flat_power_w"`
	CP         float64 `json:"cp"`
	WPrimeJ    float64 `json:"w_prime_j"`
	FinalWBalJ float64 `json:"final_wbal_j"`
	MinWBalJ   float64 `json:"min_wbal_j"`
}

// TargetRow is one plan point in the JSON export
type TargetRow struct {
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	DistanceM  float64 `json:"distance_m"`
	ElevationM float64 `json:"elevation_m"`
	SlopeTan   float64 `json:"slope"`
	PowerW     float64 `json:"power_w"`
	SpeedMS    float64 `json:"speed_ms"`
	DurationS  float64 `json:"duration_s"`
	CumTimeS   float64 `json:"cum_time_s"`
	WBalJ      float64 `json:"wbal_j"`
	Zone       string  `json:"zone"`
}

// WriteJSON writes the indented plan document
func WriteJSON(w io.Writer, plan *store.Plan, points []store.PlanPoint) error {
	doc := Document{
		Name:      plan.Name,
		UUID:      plan.UUID,
		CreatedAt: plan.CreatedAt,
		Summary: Summary{
			DistanceM:  plan.DistanceM,
			AscentM:    plan.AscentM,
			TotalTimeS: plan.TotalTimeS,
			EnergyKcal: plan.EnergyKcal,
			AvgPowerW:  plan.AvgPowerW,
			FlatPowerW: plan.FlatPowerW,
			CP:         plan.CP,
			WPrimeJ:    plan.WPrimeJ,
			FinalWBalJ: plan.FinalWBalJ,
			MinWBalJ:   plan.MinWBalJ,
		},
		Targets: make([]TargetRow, len(points)),
	}

	for i, p := range points {
		doc.Targets[i] = TargetRow{
			Lat:        p.Lat,
			Lon:        p.Lon,
			DistanceM:  p.DistanceM,
			ElevationM: p.ElevationM,
			SlopeTan:   p.SlopeTan,
			PowerW:     p.PowerW,
			SpeedMS:    p.SpeedMS,
			DurationS:  p.DurationS,
			CumTimeS:   p.CumTimeS,
			WBalJ:      p.WBalJ,
			Zone:       p.Zone,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
