package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"

	"paceline/internal/analysis"
	"paceline/internal/config"
	"paceline/internal/export"
	"paceline/internal/nutrition"
	"paceline/internal/service"
	"paceline/internal/store"
	"paceline/internal/tui"
	"paceline/internal/weather"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating an example...")
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		dir, _ := config.GetConfigDir()
		fmt.Printf("\nEdit the config file at:\n  %s\n\n", filepath.Join(dir, "config.json"))
		fmt.Println("Set your FTP, CP and W' there, then run paceline again.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		dir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Edit the config file at:\n  %s\n", filepath.Join(dir, "config.json"))
		return nil
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if len(os.Args) < 2 {
		return runTUI(cfg, db)
	}

	switch cmd := os.Args[1]; cmd {
	case "compute":
		return runCompute(cfg, db, os.Args[2:])
	case "optimize-start":
		return runOptimizeStart(cfg, db, os.Args[2:])
	case "import":
		return runImport(cfg, db, os.Args[2:])
	case "plans":
		return runTUI(cfg, db)
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage() {
	fmt.Println(`paceline - power-based pacing plans for cycling routes

Usage:
  paceline                                 browse saved plans (TUI)
  paceline compute --route ride.gpx        compute and store a pacing plan
  paceline optimize-start --route ride.gpx find the fastest start hour
  paceline import --list | --route-id N    plan a route from Strava
  paceline plans                           browse saved plans (TUI)

Run 'paceline <command> --help' for the command's flags.`)
}

// computeFlags is the flag surface shared by compute and optimize-start
type computeFlags struct {
	route string
	name  string

	mass, height, ftp, cp, wprime float64

	bikeType, position, wheels string
	cda, crr, eff              float64

	powerFlat, upMult, downMult, maxDelta, stepM, grossEff float64

	rho, windSpeed, windDir float64
	autoWeather             bool
	hour                    int

	outputDir string
	exports   []string
}

func addComputeFlags(fs *flag.FlagSet) *computeFlags {
	f := &computeFlags{}

	fs.StringVar(&f.route, "route", "", "route GPX file (required)")
	fs.StringVar(&f.name, "name", "", "plan name, defaults to the GPX track name")

	fs.Float64Var(&f.mass, "mass", 0, "rider mass kg")
	fs.Float64Var(&f.height, "height", 0, "rider height m")
	fs.Float64Var(&f.ftp, "ftp", 0, "functional threshold power W")
	fs.Float64Var(&f.cp, "cp", 0, "critical power W")
	fs.Float64Var(&f.wprime, "wprime", 0, "anaerobic capacity W' J")

	fs.StringVar(&f.bikeType, "bike-type", "", "bike from the library (road_race, aero_road, tt, gravel, mountain)")
	fs.StringVar(&f.position, "position", "", "riding position (upright, drops, aero_hoods, tt, super_tuck)")
	fs.StringVar(&f.wheels, "wheels", "", "wheelset (shallow_alloy, shallow_carbon, mid_depth, deep_section, disc_rear)")
	fs.Float64Var(&f.cda, "cda", 0, "CdA m² override")
	fs.Float64Var(&f.crr, "crr", 0, "rolling resistance override")
	fs.Float64Var(&f.eff, "eff", 0, "drivetrain efficiency override")

	fs.Float64Var(&f.powerFlat, "power-flat", 0, "flat-ground target W, default 88% of FTP")
	fs.Float64Var(&f.upMult, "up-mult", 0, "climb power multiplier")
	fs.Float64Var(&f.downMult, "down-mult", 0, "descent power multiplier")
	fs.Float64Var(&f.maxDelta, "max-delta", 0, "largest step between consecutive targets W")
	fs.Float64Var(&f.stepM, "step-m", 0, "resampling grid m")
	fs.Float64Var(&f.grossEff, "gross-eff", 0, "gross metabolic efficiency")

	fs.Float64Var(&f.rho, "rho", 0, "air density kg/m³")
	fs.Float64Var(&f.windSpeed, "wind-speed", 0, "wind speed m/s")
	fs.Float64Var(&f.windDir, "wind-dir", 0, "wind direction deg, meteorological")
	fs.BoolVar(&f.autoWeather, "auto-weather", false, "fetch an Open-Meteo forecast for the route start")
	fs.IntVar(&f.hour, "hour", -1, "start hour with --auto-weather, default now")

	fs.StringVar(&f.outputDir, "output-dir", ".", "directory for exported files")
	fs.StringSliceVar(&f.exports, "export", nil, "formats to write: csv,json,gpx,fit")

	return f
}

// apply folds flag overrides into the loaded config
func (f *computeFlags) apply(cfg *config.Config) {
	if f.mass > 0 {
		cfg.Rider.MassKg = f.mass
	}
	if f.height > 0 {
		cfg.Rider.HeightM = f.height
	}
	if f.ftp > 0 {
		cfg.Rider.FTP = f.ftp
	}
	if f.cp > 0 {
		cfg.Rider.CP = f.cp
	}
	if f.wprime > 0 {
		cfg.Rider.WPrimeJ = f.wprime
	}

	if f.bikeType != "" {
		cfg.Bike.Bike = f.bikeType
	}
	if f.position != "" {
		cfg.Bike.Position = f.position
	}
	if f.wheels != "" {
		cfg.Bike.Wheels = f.wheels
	}

	if f.powerFlat > 0 {
		cfg.Pacing.FlatPowerW = f.powerFlat
	}
	if f.upMult > 0 {
		cfg.Pacing.UpMult = f.upMult
	}
	if f.downMult > 0 {
		cfg.Pacing.DownMult = f.downMult
	}
	if f.maxDelta > 0 {
		cfg.Pacing.MaxDeltaW = f.maxDelta
	}
	if f.stepM > 0 {
		cfg.Pacing.GridM = f.stepM
	}
	if f.grossEff > 0 {
		cfg.Pacing.GrossEfficiency = f.grossEff
	}
}

// request assembles the plan request for the parsed flags
func (f *computeFlags) request() service.PlanRequest {
	return service.PlanRequest{
		GPXPath:     f.route,
		Name:        f.name,
		CdAOverride: f.cda,
		CrrOverride: f.crr,
		EffOverride: f.eff,
		AirDensity:  f.rho,
		WindSpeedMS: f.windSpeed,
		WindDirDeg:  f.windDir,
		AutoWeather: f.autoWeather,
		StartTime:   startAt(f.hour),
	}
}

// startAt turns an --hour flag into today's start time; -1 means now
func startAt(hour int) time.Time {
	if hour < 0 {
		return time.Time{}
	}
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
}

func runCompute(cfg *config.Config, db *store.DB, args []string) error {
	fs := flag.NewFlagSet("compute", flag.ContinueOnError)
	f := addComputeFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if f.route == "" {
		return errors.New("compute: --route is required")
	}

	f.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	planSvc := service.NewPlanService(cfg, db, weather.NewClient())

	out, err := planSvc.Compute(context.Background(), f.request())
	if err != nil {
		return err
	}

	printOutcome(cfg, out)
	return writeExports(f.outputDir, out, f.exports)
}

func runOptimizeStart(cfg *config.Config, db *store.DB, args []string) error {
	fs := flag.NewFlagSet("optimize-start", flag.ContinueOnError)
	f := addComputeFlags(fs)
	fromHour := fs.Int("from-hour", service.DefaultScanFromHour, "first start hour to try")
	toHour := fs.Int("to-hour", service.DefaultScanToHour, "last start hour to try")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if f.route == "" {
		return errors.New("optimize-start: --route is required")
	}

	f.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	planSvc := service.NewPlanService(cfg, db, weather.NewClient())
	scanner := service.NewStartTimeService(planSvc)

	progress := make(chan service.ScanProgress, 32)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range progress {
			fmt.Printf("\r  scanning start hours... %d/%d", p.Completed, p.Total)
		}
		fmt.Println()
	}()

	scan, err := scanner.Scan(context.Background(), f.request(), time.Time{}, *fromHour, *toHour, progress)
	<-done
	if err != nil {
		return err
	}

	fmt.Printf("\n  %-6s  %7s  %15s  %9s  %11s  %8s\n",
		"Start", "Temp", "Wind", "Time", "Energy", "Min W'")
	for i, opt := range scan.Options {
		mark := "  "
		if i == scan.Best {
			mark = "* "
		}

		if opt.Err != nil {
			fmt.Printf("%s%-6s  failed: %v\n", mark, opt.StartTime.Format("15:04"), opt.Err)
			continue
		}

		fmt.Printf("%s%-6s  %5.1f°C  %5.1f m/s @ %3.0f°  %9s  %6s kcal  %5.1f kJ\n",
			mark,
			opt.StartTime.Format("15:04"),
			opt.TempC,
			opt.WindSpeedMS,
			opt.WindDirDeg,
			formatDuration(opt.TotalTimeS),
			humanize.Comma(int64(math.Round(opt.EnergyKcal))),
			opt.MinWBalJ/1000)
	}

	if scan.Best >= 0 {
		best := scan.Options[scan.Best]
		fmt.Printf("\n  Best start: %s (%s)\n", best.StartTime.Format("15:04"), formatDuration(best.TotalTimeS))
	}
	return nil
}

func runImport(cfg *config.Config, db *store.DB, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	routeID := fs.Int64("route-id", 0, "Strava route to plan")
	list := fs.Bool("list", false, "list the account's cycling routes and exit")
	name := fs.String("name", "", "plan name, defaults to the route name")
	autoWeather := fs.Bool("auto-weather", false, "fetch an Open-Meteo forecast for the route start")
	hour := fs.Int("hour", -1, "start hour with --auto-weather, default now")
	outputDir := fs.String("output-dir", ".", "directory for exported files")
	exports := fs.StringSlice("export", nil, "formats to write: csv,json,gpx,fit")
	forget := fs.Bool("forget", false, "drop stored Strava credentials and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	imp := service.NewImportService(cfg, db)

	if *forget {
		if err := imp.Forget(); err != nil {
			return err
		}
		fmt.Println("Stored Strava credentials removed.")
		return nil
	}

	ctx := context.Background()
	client, err := imp.Client(ctx)
	if err != nil {
		return err
	}

	if *list {
		routes, err := imp.ListRides(ctx, client, func(fetched int) {
			fmt.Printf("\r  fetching routes... %d", fetched)
		})
		if err != nil {
			return err
		}
		fmt.Print("\r")

		if len(routes) == 0 {
			fmt.Println("  No cycling routes on this account.")
			return nil
		}
		for _, r := range routes {
			fmt.Printf("  %12d  %-40s  %7.1f km  %6.0f m\n",
				r.ID, truncate(r.Name, 40), r.Distance/1000, r.ElevationGain)
		}
		return nil
	}

	if *routeID == 0 {
		return errors.New("import: --route-id or --list is required")
	}

	req, err := imp.FetchRoute(ctx, client, *routeID)
	if err != nil {
		return err
	}
	if *name != "" {
		req.Name = *name
	}
	req.AutoWeather = *autoWeather
	req.StartTime = startAt(*hour)

	planSvc := service.NewPlanService(cfg, db, weather.NewClient())
	out, err := planSvc.Compute(ctx, req)
	if err != nil {
		return err
	}

	printOutcome(cfg, out)
	return writeExports(*outputDir, out, *exports)
}

// runTUI opens the plan browser. Log output moves to a rotating file so
// nothing scribbles over the alternate screen.
func runTUI(cfg *config.Config, db *store.DB) error {
	if dir, err := config.GetConfigDir(); err == nil {
		log.SetOutput(&lumberjack.Logger{
			Filename:   filepath.Join(dir, "logs", "paceline.log"),
			MaxSize:    5, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}

	querySvc := service.NewQueryService(db)
	app := tui.NewApp(querySvc, tui.NewUnits(cfg.Display))

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// printOutcome reports a freshly computed plan on stdout
func printOutcome(cfg *config.Config, out *service.PlanOutcome) {
	s := out.Result.Summary
	metrics := analysis.ComputePlanMetrics(out.Plan, out.Points, cfg.Rider.FTP)
	needs := nutrition.Estimate(s.TotalTimeS, s.EnergyKcal)
	fueling := nutrition.FuelingPoints(out.Result.Targets, out.Route.Points,
		cfg.Rider.WPrimeJ, cfg.Rider.FTP, nutrition.DefaultFuelingIntervalS)

	fmt.Printf("\n%s\n", out.Plan.Name)
	fmt.Printf("  %s\n\n", out.EnvNote)

	fmt.Printf("  Distance:      %.1f km (%.0f m ascent)\n", s.DistanceM/1000, out.Plan.AscentM)
	fmt.Printf("  Time:          %s\n", formatDuration(s.TotalTimeS))
	fmt.Printf("  Avg power:     %.0f W (NP %.0f W, IF %.2f, VI %.2f)\n",
		s.AvgPowerW, metrics.NormalizedPowerW, metrics.IntensityFactor, metrics.VariabilityIndex)
	fmt.Printf("  Stress:        %.0f TSS\n", metrics.TSS)
	fmt.Printf("  Energy:        %s kcal\n", humanize.Comma(int64(math.Round(s.EnergyKcal))))
	fmt.Printf("  W' low point:  %.0f%% (%.1f kJ left)\n", metrics.WPrime.LowestPct, metrics.WPrime.MinJ/1000)
	fmt.Printf("  %s. %s\n",
		analysis.IntensityAssessment(metrics.IntensityFactor),
		analysis.WPrimeAssessment(metrics.WPrime.LowestPct))

	if len(metrics.Climbs) > 0 {
		fmt.Println("\n  Climbs:")
		for i, c := range metrics.Climbs {
			cat := c.Category
			if cat == "" {
				cat = "-"
			}
			fmt.Printf("    %d. km %.1f: %.1f km at %.1f%% (cat %s, %.0f W)\n",
				i+1, c.StartM/1000, c.LengthM/1000, c.AvgGradePct, cat, c.AvgPowerW)
		}
	}

	fmt.Printf("\n  Fueling: %.0f g carbs, %.1f L fluid, %.0f mg sodium\n",
		needs.CarbsG, needs.FluidL, needs.SodiumMg)
	for _, fp := range fueling {
		fmt.Printf("    %-8s  %6.1f km  %-5s  %2.0f g\n",
			formatClock(fp.TimeS), fp.DistanceM/1000, fp.Type, fp.CarbsG)
	}

	if s.WPrimeClampEvents > 0 {
		fmt.Printf("\n  Power was capped %d times to keep W' above empty.\n", s.WPrimeClampEvents)
	}
	for _, w := range out.Result.Warnings {
		log.Printf("warning: %s", w)
	}
	fmt.Println()
}

// writeExports writes the requested formats and prints the paths
func writeExports(dir string, out *service.PlanOutcome, formats []string) error {
	if len(formats) == 0 {
		return nil
	}

	files, err := export.Files(dir, out.Plan, out.Points, formats)
	if err != nil {
		return fmt.Errorf("writing exports: %w", err)
	}
	for _, path := range files {
		fmt.Printf("  wrote %s\n", path)
	}
	return nil
}

func formatDuration(seconds float64) string {
	s := int(math.Round(seconds))
	h := s / 3600
	m := (s % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	return fmt.Sprintf("%dm %02ds", m, s%60)
}

func formatClock(seconds float64) string {
	s := int(math.Round(seconds))
	h := s / 3600
	m := (s % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s%60)
	}
	return fmt.Sprintf("%d:%02d", m, s%60)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
