package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"paceline/internal/pacing"
	"paceline/internal/physics"
	"paceline/internal/route"
	"paceline/internal/weather"
)

// StartTimeService finds the fastest start hour for a route. Each candidate
// hour is one independent pacing pass under that hour's forecast; passes
// share nothing, so they run in parallel.
type StartTimeService struct {
	plans *PlanService
}

// NewStartTimeService creates a start-time scanner on top of a plan service
func NewStartTimeService(plans *PlanService) *StartTimeService {
	return &StartTimeService{plans: plans}
}

// ScanProgress reports progress during a scan
type ScanProgress struct {
	Hour      int // the hour that just finished
	Completed int
	Total     int
}

// StartOption is the outcome for one candidate start hour
type StartOption struct {
	StartTime   time.Time
	TempC       float64
	WindSpeedMS float64
	WindDirDeg  float64
	TotalTimeS  float64
	EnergyKcal  float64
	MinWBalJ    float64
	Err         error // per-hour failure; other hours still count
}

// StartScan holds every candidate's outcome, ordered by hour
type StartScan struct {
	Options []StartOption
	Best    int // index of the fastest option, -1 when every hour failed
}

// Scan evaluates start hours fromHour..toHour (inclusive) on the given day.
// A zero day means today.
func (s *StartTimeService) Scan(ctx context.Context, req PlanRequest, day time.Time,
	fromHour, toHour int, progress chan<- ScanProgress) (*StartScan, error) {

	if progress != nil {
		defer close(progress)
	}

	if fromHour < 0 || toHour > 23 || fromHour > toHour {
		return nil, fmt.Errorf("invalid hour range %d..%d", fromHour, toHour)
	}

	rte, rb, pcfg, err := s.plans.prepare(req)
	if err != nil {
		return nil, err
	}

	head := rte.Points[0]
	fc, err := s.plans.weather.Forecast(ctx, head.Lat, head.Lon)
	if err != nil {
		return nil, fmt.Errorf("fetching forecast: %w", err)
	}

	if day.IsZero() {
		day = time.Now()
	}
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	options := make([]StartOption, toHour-fromHour+1)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)

	for i := range options {
		start := midnight.Add(time.Duration(fromHour+i) * time.Hour)

		wg.Add(1)
		go func(i int, start time.Time) {
			defer wg.Done()

			options[i] = evaluateStart(ctx, rte, rb, pcfg, fc, start)

			if progress != nil {
				mu.Lock()
				done++
				progress <- ScanProgress{Hour: start.Hour(), Completed: done, Total: len(options)}
				mu.Unlock()
			}
		}(i, start)
	}
	wg.Wait()

	scan := &StartScan{Options: options, Best: -1}
	for i, opt := range options {
		if opt.Err != nil {
			continue
		}
		if scan.Best < 0 || opt.TotalTimeS < options[scan.Best].TotalTimeS {
			scan.Best = i
		}
	}

	return scan, nil
}

// evaluateStart runs one candidate hour: a first pass under the start-hour
// conditions, then the refinement pass with per-segment forecast hours
func evaluateStart(ctx context.Context, rte route.Route, rb physics.RiderBike,
	pcfg pacing.Config, fc *weather.Forecast, start time.Time) StartOption {

	opt := StartOption{StartTime: start}

	select {
	case <-ctx.Done():
		opt.Err = ctx.Err()
		return opt
	default:
	}

	cond, err := fc.At(start)
	if err != nil {
		opt.Err = err
		return opt
	}
	opt.TempC = cond.TempC
	opt.WindSpeedMS = cond.WindSpeedMS
	opt.WindDirDeg = cond.WindDirDeg

	first, err := pacing.PlanSeries(rte.Points, rb, []physics.Environment{cond.Environment()}, pcfg)
	if err != nil {
		opt.Err = err
		return opt
	}

	envs := forecastEnvironments(fc, start, first.Targets, cond)
	res, err := pacing.PlanSeries(rte.Points, rb, envs, pcfg)
	if err != nil {
		opt.Err = err
		return opt
	}

	opt.TotalTimeS = res.Summary.TotalTimeS
	opt.EnergyKcal = res.Summary.EnergyKcal
	opt.MinWBalJ = res.Summary.MinWBalJ
	return opt
}
