package service

import (
	"paceline/internal/analysis"
	"paceline/internal/nutrition"
	"paceline/internal/pacing"
	"paceline/internal/route"
	"paceline/internal/store"
)

// QueryService provides read-only queries for the TUI
type QueryService struct {
	store *store.DB
}

// NewQueryService creates a new query service
func NewQueryService(db *store.DB) *QueryService {
	return &QueryService{store: db}
}

// PlanDetail bundles everything the detail and fueling screens show
type PlanDetail struct {
	Plan    store.Plan
	Points  []store.PlanPoint
	Metrics analysis.PlanMetrics
	Needs   nutrition.Needs
	Fueling []nutrition.FuelingPoint
}

// ListPlans returns stored plans, newest first
func (q *QueryService) ListPlans(limit, offset int) ([]store.Plan, error) {
	return q.store.ListPlans(limit, offset)
}

// CountPlans returns the number of stored plans
func (q *QueryService) CountPlans() (int, error) {
	return q.store.CountPlans()
}

// DeletePlan removes a plan and its points
func (q *QueryService) DeletePlan(id int64) error {
	return q.store.DeletePlan(id)
}

// GetPlanDetail loads a plan with its points and derives the fueling view
func (q *QueryService) GetPlanDetail(id int64) (*PlanDetail, error) {
	plan, err := q.store.GetPlan(id)
	if err != nil {
		return nil, err
	}

	points, err := q.store.GetPlanPoints(id)
	if err != nil {
		return nil, err
	}

	targets, routePoints := rehydrate(points)

	return &PlanDetail{
		Plan:    *plan,
		Points:  points,
		Metrics: analysis.ComputePlanMetrics(plan, points, 0),
		Needs:   nutrition.Estimate(plan.TotalTimeS, plan.EnergyKcal),
		Fueling: nutrition.FuelingPoints(targets, routePoints, plan.WPrimeJ, plan.CP, nutrition.DefaultFuelingIntervalS),
	}, nil
}

// rehydrate rebuilds the pacing and route views of stored points so the
// nutrition helpers can run on persisted plans
func rehydrate(points []store.PlanPoint) ([]pacing.Target, []route.Point) {
	targets := make([]pacing.Target, len(points))
	routePoints := make([]route.Point, len(points))

	for i, p := range points {
		targets[i] = pacing.Target{
			PowerW:    p.PowerW,
			SpeedMS:   p.SpeedMS,
			DurationS: p.DurationS,
			CumTimeS:  p.CumTimeS,
			WBalJ:     p.WBalJ,
			Zone:      pacing.Zone(p.Zone),
		}
		routePoints[i] = route.Point{
			Lat:       p.Lat,
			Lon:       p.Lon,
			Distance:  p.DistanceM,
			Elevation: p.ElevationM,
			SlopeTan:  p.SlopeTan,
			Bearing:   p.BearingDeg,
		}
	}

	return targets, routePoints
}
