package store

import "time"

// Auth represents OAuth tokens for Strava API access
type Auth struct {
	AthleteID    int64     `db:"athlete_id"`
	AthleteName  string    `db:"athlete_name"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
}

// Plan represents a stored pacing plan: the inputs it was computed from
// and the headline numbers of the result. The per-point detail lives in
// plan_points.
type Plan struct {
	ID        int64     `db:"id"`
	UUID      string    `db:"uuid"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`

	// Route summary
	DistanceM float64 `db:"distance_m"`
	AscentM   float64 `db:"ascent_m"`

	// Parameters the plan was computed with
	FlatPowerW  float64 `db:"flat_power_w"`
	CP          float64 `db:"cp"`
	WPrimeJ     float64 `db:"w_prime_j"`
	TotalMassKg float64 `db:"total_mass_kg"`
	CdA         float64 `db:"cda"`
	Crr         float64 `db:"crr"`
	AirDensity  float64 `db:"air_density"`
	WindU       float64 `db:"wind_u"` // m/s, east-positive
	WindV       float64 `db:"wind_v"` // m/s, north-positive

	// Result summary
	TotalTimeS      float64 `db:"total_time_s"`
	EnergyKcal      float64 `db:"energy_kcal"`
	AvgPowerW       float64 `db:"avg_power_w"`
	FinalWBalJ      float64 `db:"final_wbal_j"`
	MinWBalJ        float64 `db:"min_wbal_j"`
	ClampEvents     int     `db:"clamp_events"`
	SolverFallbacks int     `db:"solver_fallbacks"`
}

// PlanPoint represents one point of a stored plan
type PlanPoint struct {
	PlanID     int64   `db:"plan_id"`
	Seq        int     `db:"seq"`
	Lat        float64 `db:"lat"`
	Lon        float64 `db:"lon"`
	DistanceM  float64 `db:"distance_m"`  // cumulative meters
	ElevationM float64 `db:"elevation_m"` // meters
	SlopeTan   float64 `db:"slope"`       // rise/run
	BearingDeg float64 `db:"bearing"`     // compass degrees
	PowerW     float64 `db:"power_w"`
	SpeedMS    float64 `db:"speed_ms"`
	DurationS  float64 `db:"duration_s"`
	CumTimeS   float64 `db:"cum_time_s"`
	WBalJ      float64 `db:"wbal_j"`
	Zone       string  `db:"zone"`
}
