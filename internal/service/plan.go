// Package service orchestrates the domain packages: it turns route files
// into stored pacing plans, scans start times, answers TUI queries and
// drives the Strava import. Formatting stays out; that belongs to the TUI
// and the exporters.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"paceline/internal/bike"
	"paceline/internal/config"
	"paceline/internal/pacing"
	"paceline/internal/physics"
	"paceline/internal/route"
	"paceline/internal/store"
	"paceline/internal/weather"
)

// PlanService computes pacing plans and persists them
type PlanService struct {
	cfg     *config.Config
	store   *store.DB
	weather *weather.Client
}

// NewPlanService creates a plan service. Rider, bike and pacing parameters
// come from cfg; the CLI applies flag overrides to its copy before
// constructing the service.
func NewPlanService(cfg *config.Config, db *store.DB, wc *weather.Client) *PlanService {
	return &PlanService{cfg: cfg, store: db, weather: wc}
}

// PlanRequest describes one plan computation
type PlanRequest struct {
	GPXPath string // local GPX file
	GPXData []byte // raw GPX bytes, used when GPXPath is empty
	Name    string // plan name, defaults to the route name

	// Equipment overrides; values > 0 replace the bike library's numbers
	CdAOverride float64
	CrrOverride float64
	EffOverride float64

	// Environment. With AutoWeather a forecast for the route start drives
	// the conditions; otherwise AirDensity (0 = standard sea level) and the
	// wind fields apply to the whole ride.
	AirDensity  float64
	WindSpeedMS float64
	WindDirDeg  float64 // meteorological "from" direction
	AutoWeather bool
	StartTime   time.Time // ride start, used for the forecast hour
}

// PlanOutcome bundles a stored plan with the full computation result
type PlanOutcome struct {
	Plan    *store.Plan
	Points  []store.PlanPoint
	Result  *pacing.Result
	Route   route.Route
	EnvNote string // one-line description of the conditions used
}

// Compute runs the full pipeline: load and resample the route, resolve the
// rider+bike system, resolve conditions, run the pacing pass, persist.
func (s *PlanService) Compute(ctx context.Context, req PlanRequest) (*PlanOutcome, error) {
	rte, rb, pcfg, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	var (
		res     *pacing.Result
		envs    []physics.Environment
		envNote string
	)

	if req.AutoWeather {
		res, envs, envNote, err = s.planWithForecast(ctx, rte, rb, pcfg, req.StartTime)
	} else {
		env := fixedEnvironment(req)
		envs = []physics.Environment{env}
		envNote = fmt.Sprintf("fixed conditions: ρ %.3f kg/m³, wind %.1f m/s from %.0f°",
			env.AirDensity, req.WindSpeedMS, req.WindDirDeg)
		res, err = pacing.PlanSeries(rte.Points, rb, envs, pcfg)
	}
	if err != nil {
		return nil, err
	}

	name := req.Name
	if name == "" {
		name = rte.Name
	}
	if name == "" {
		name = "Unnamed ride"
	}

	plan := planRecord(name, rte, rb, envs[0], pcfg, res)
	points := planPoints(rte, res.Targets)

	if err := s.store.SavePlan(plan, points); err != nil {
		return nil, fmt.Errorf("saving plan: %w", err)
	}

	return &PlanOutcome{
		Plan:    plan,
		Points:  points,
		Result:  res,
		Route:   rte,
		EnvNote: envNote,
	}, nil
}

// prepare loads and resamples the route and assembles the rider+bike system
// and pacing configuration from config plus request overrides
func (s *PlanService) prepare(req PlanRequest) (route.Route, physics.RiderBike, pacing.Config, error) {
	var (
		rte route.Route
		err error
	)
	switch {
	case len(req.GPXData) > 0:
		rte, err = route.ParseGPX(req.GPXData)
	case req.GPXPath != "":
		rte, err = route.LoadGPX(req.GPXPath)
	default:
		err = fmt.Errorf("%w: no route given", pacing.ErrInvalidRoute)
	}
	if err != nil {
		return route.Route{}, physics.RiderBike{}, pacing.Config{}, fmt.Errorf("loading route: %w", err)
	}

	rte, err = route.Resample(rte, s.cfg.Pacing.GridM)
	if err != nil {
		return route.Route{}, physics.RiderBike{}, pacing.Config{}, fmt.Errorf("resampling route: %w", err)
	}

	setup, err := bike.Resolve(s.cfg.Bike.Bike, s.cfg.Bike.Position, s.cfg.Bike.Wheels,
		s.cfg.Rider.HeightM, s.cfg.Rider.MassKg)
	if err != nil {
		return route.Route{}, physics.RiderBike{}, pacing.Config{}, fmt.Errorf("resolving bike: %w", err)
	}
	if req.CdAOverride > 0 {
		setup.CdA = req.CdAOverride
	}
	if req.CrrOverride > 0 {
		setup.Crr = req.CrrOverride
	}
	if req.EffOverride > 0 {
		setup.Efficiency = req.EffOverride
	}

	rb := physics.RiderBike{
		RiderMass:  s.cfg.Rider.MassKg,
		BikeMass:   setup.BikeMassKg,
		CdA:        setup.CdA,
		Crr:        setup.Crr,
		Efficiency: setup.Efficiency,
		CP:         s.cfg.Rider.CP,
		WPrime:     s.cfg.Rider.WPrimeJ,
	}

	pcfg := pacingFromConfig(s.cfg.Pacing, s.cfg.Rider.FTP)
	pcfg.FlatPower = s.cfg.FlatPower()

	return rte, rb, pcfg, nil
}

// planWithForecast computes the plan under forecast conditions. A first
// pass under the start-hour conditions estimates when each point is
// reached; the second pass re-solves every segment at the forecast hour it
// actually starts in. One refinement is enough at hourly resolution.
func (s *PlanService) planWithForecast(ctx context.Context, rte route.Route, rb physics.RiderBike,
	pcfg pacing.Config, start time.Time) (*pacing.Result, []physics.Environment, string, error) {

	if start.IsZero() {
		start = time.Now()
	}

	head := rte.Points[0]
	fc, err := s.weather.Forecast(ctx, head.Lat, head.Lon)
	if err != nil {
		return nil, nil, "", fmt.Errorf("fetching forecast: %w", err)
	}

	cond, err := fc.At(start)
	if err != nil {
		return nil, nil, "", err
	}

	first, err := pacing.PlanSeries(rte.Points, rb, []physics.Environment{cond.Environment()}, pcfg)
	if err != nil {
		return nil, nil, "", err
	}

	envs := forecastEnvironments(fc, start, first.Targets, cond)
	res, err := pacing.PlanSeries(rte.Points, rb, envs, pcfg)
	if err != nil {
		return nil, nil, "", err
	}

	note := fmt.Sprintf("forecast %s: %.1f °C, %.0f hPa, wind %.1f m/s from %.0f°",
		start.Format("Mon 15:04"), cond.TempC, cond.PressureHPa, cond.WindSpeedMS, cond.WindDirDeg)

	return res, envs, note, nil
}

// forecastEnvironments assigns each point the conditions of the hour its
// segment begins. Points past the forecast horizon keep the last known hour.
func forecastEnvironments(fc *weather.Forecast, start time.Time, targets []pacing.Target,
	fallback weather.Conditions) []physics.Environment {

	envs := make([]physics.Environment, len(targets))
	last := fallback
	for i, t := range targets {
		reached := start.Add(time.Duration((t.CumTimeS - t.DurationS) * float64(time.Second)))
		if cond, err := fc.At(reached); err == nil {
			last = cond
		}
		envs[i] = last.Environment()
	}
	return envs
}

// fixedEnvironment builds the uniform environment for a manual request
func fixedEnvironment(req PlanRequest) physics.Environment {
	rho := req.AirDensity
	if rho <= 0 {
		rho = physics.StandardAirDensity
	}
	u, v := weather.Components(req.WindSpeedMS, req.WindDirDeg)
	return physics.Environment{AirDensity: rho, WindU: u, WindV: v}
}

// pacingFromConfig maps the config file's pacing section onto the optimizer
// configuration. FlatPower is filled by the caller.
func pacingFromConfig(p config.PacingConfig, ftp float64) pacing.Config {
	return pacing.Config{
		UpMult:          p.UpMult,
		DownMult:        p.DownMult,
		SlopeThreshold:  p.SlopeThreshold,
		MaxDelta:        p.MaxDeltaW,
		MinSpeed:        p.MinSpeedMS,
		GrossEfficiency: p.GrossEfficiency,
		FTP:             ftp,
		Recovery: pacing.Recovery{
			Tau1: p.RecoveryTau1,
			Tau2: p.RecoveryTau2,
			Tau3: p.RecoveryTau3,
		},
	}
}

// planRecord snapshots the inputs and headline results for persistence.
// With per-point conditions the stored environment is the start hour's.
func planRecord(name string, rte route.Route, rb physics.RiderBike, env physics.Environment,
	pcfg pacing.Config, res *pacing.Result) *store.Plan {

	return &store.Plan{
		UUID:      uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),

		DistanceM: res.Summary.DistanceM,
		AscentM:   rte.TotalAscent(),

		FlatPowerW:  pcfg.FlatPower,
		CP:          rb.CP,
		WPrimeJ:     rb.WPrime,
		TotalMassKg: rb.TotalMass(),
		CdA:         rb.CdA,
		Crr:         rb.Crr,
		AirDensity:  env.AirDensity,
		WindU:       env.WindU,
		WindV:       env.WindV,

		TotalTimeS:      res.Summary.TotalTimeS,
		EnergyKcal:      res.Summary.EnergyKcal,
		AvgPowerW:       res.Summary.AvgPowerW,
		FinalWBalJ:      res.Summary.FinalWBalJ,
		MinWBalJ:        res.Summary.MinWBalJ,
		ClampEvents:     res.Summary.WPrimeClampEvents,
		SolverFallbacks: res.Summary.SolverFallbacks,
	}
}

// planPoints joins route geometry with the computed targets, one row per
// grid point
func planPoints(rte route.Route, targets []pacing.Target) []store.PlanPoint {
	points := make([]store.PlanPoint, len(targets))
	for i, t := range targets {
		p := rte.Points[i]
		points[i] = store.PlanPoint{
			Seq:        i,
			Lat:        p.Lat,
			Lon:        p.Lon,
			DistanceM:  p.Distance,
			ElevationM: p.Elevation,
			SlopeTan:   p.SlopeTan,
			BearingDeg: p.Bearing,
			PowerW:     t.PowerW,
			SpeedMS:    t.SpeedMS,
			DurationS:  t.DurationS,
			CumTimeS:   t.CumTimeS,
			WBalJ:      t.WBalJ,
			Zone:       string(t.Zone),
		}
	}
	return points
}
