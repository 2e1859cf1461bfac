package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"paceline/internal/bike"
)

// Config represents the application configuration
type Config struct {
	Rider   RiderConfig   `json:"rider"`
	Bike    BikeConfig    `json:"bike"`
	Pacing  PacingConfig  `json:"pacing"`
	Display DisplayConfig `json:"display"`
	Strava  StravaConfig  `json:"strava"`
}

// RiderConfig holds the rider's physiology and dimensions
type RiderConfig struct {
	MassKg  float64 `json:"mass_kg"`
	HeightM float64 `json:"height_m"`
	FTP     float64 `json:"ftp"`
	CP      float64 `json:"cp"`
	WPrimeJ float64 `json:"w_prime_j"`
}

// BikeConfig selects the equipment from the built-in library
type BikeConfig struct {
	Bike     string `json:"bike"`
	Position string `json:"position"`
	Wheels   string `json:"wheels"`
}

// PacingConfig holds the planner's tuning knobs
type PacingConfig struct {
	FlatPowerW      float64 `json:"flat_power_w"` // 0 derives 88% of FTP
	UpMult          float64 `json:"up_mult"`
	DownMult        float64 `json:"down_mult"`
	SlopeThreshold  float64 `json:"slope_threshold"`
	MaxDeltaW       float64 `json:"max_delta_w"`
	MinSpeedMS      float64 `json:"min_speed_ms"`
	GrossEfficiency float64 `json:"gross_efficiency"`
	GridM           float64 `json:"grid_m"`
	RecoveryTau1    float64 `json:"recovery_tau1"`
	RecoveryTau2    float64 `json:"recovery_tau2"`
	RecoveryTau3    float64 `json:"recovery_tau3"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	DistanceUnit string `json:"distance_unit"`
	EnergyUnit   string `json:"energy_unit"`
}

// StravaConfig holds Strava API credentials for route import
type StravaConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Rider: RiderConfig{
			MassKg:  70,
			HeightM: 1.80,
			FTP:     250,
			CP:      250,
			WPrimeJ: 20000,
		},
		Bike: BikeConfig{
			Bike:     "road_race",
			Position: "drops",
			Wheels:   "shallow_alloy",
		},
		Pacing: PacingConfig{
			UpMult:          1.10,
			DownMult:        0.75,
			SlopeThreshold:  0.02,
			MaxDeltaW:       30,
			MinSpeedMS:      1.0,
			GrossEfficiency: 0.22,
			GridM:           20,
			RecoveryTau1:    546,
			RecoveryTau2:    0.01,
			RecoveryTau3:    316,
		},
		Display: DisplayConfig{
			DistanceUnit: "km",
			EnergyUnit:   "kcal",
		},
	}
}

// Load reads the configuration from ~/.paceline/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills missing values so a sparse config file still works.
// CP falls back to FTP when only one of the two is set.
func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Rider.MassKg == 0 {
		cfg.Rider.MassKg = defaults.Rider.MassKg
	}
	if cfg.Rider.HeightM == 0 {
		cfg.Rider.HeightM = defaults.Rider.HeightM
	}
	if cfg.Rider.FTP == 0 {
		cfg.Rider.FTP = defaults.Rider.FTP
	}
	if cfg.Rider.CP == 0 {
		cfg.Rider.CP = cfg.Rider.FTP
	}
	if cfg.Rider.WPrimeJ == 0 {
		cfg.Rider.WPrimeJ = defaults.Rider.WPrimeJ
	}

	if cfg.Bike.Bike == "" {
		cfg.Bike.Bike = defaults.Bike.Bike
	}
	if cfg.Bike.Position == "" {
		cfg.Bike.Position = defaults.Bike.Position
	}
	if cfg.Bike.Wheels == "" {
		cfg.Bike.Wheels = defaults.Bike.Wheels
	}

	if cfg.Pacing.UpMult == 0 {
		cfg.Pacing.UpMult = defaults.Pacing.UpMult
	}
	if cfg.Pacing.DownMult == 0 {
		cfg.Pacing.DownMult = defaults.Pacing.DownMult
	}
	if cfg.Pacing.SlopeThreshold == 0 {
		cfg.Pacing.SlopeThreshold = defaults.Pacing.SlopeThreshold
	}
	if cfg.Pacing.MaxDeltaW == 0 {
		cfg.Pacing.MaxDeltaW = defaults.Pacing.MaxDeltaW
	}
	if cfg.Pacing.MinSpeedMS == 0 {
		cfg.Pacing.MinSpeedMS = defaults.Pacing.MinSpeedMS
	}
	if cfg.Pacing.GrossEfficiency == 0 {
		cfg.Pacing.GrossEfficiency = defaults.Pacing.GrossEfficiency
	}
	if cfg.Pacing.GridM == 0 {
		cfg.Pacing.GridM = defaults.Pacing.GridM
	}
	if cfg.Pacing.RecoveryTau1 == 0 {
		cfg.Pacing.RecoveryTau1 = defaults.Pacing.RecoveryTau1
	}
	if cfg.Pacing.RecoveryTau2 == 0 {
		cfg.Pacing.RecoveryTau2 = defaults.Pacing.RecoveryTau2
	}
	if cfg.Pacing.RecoveryTau3 == 0 {
		cfg.Pacing.RecoveryTau3 = defaults.Pacing.RecoveryTau3
	}

	if cfg.Display.DistanceUnit == "" {
		cfg.Display.DistanceUnit = defaults.Display.DistanceUnit
	}
	if cfg.Display.EnergyUnit == "" {
		cfg.Display.EnergyUnit = defaults.Display.EnergyUnit
	}
}

// Save writes the configuration to ~/.paceline/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Pacing.FlatPowerW = 220
	example.Strava = StravaConfig{
		ClientID:     "YOUR_CLIENT_ID",
		ClientSecret: "YOUR_CLIENT_SECRET",
	}

	return Save(&example)
}

// Validate checks the fields every command needs. Strava credentials are
// only required for route import; see RequireStrava.
func (c *Config) Validate() error {
	if c.Rider.MassKg <= 0 {
		return fmt.Errorf("rider.mass_kg must be positive, got %v", c.Rider.MassKg)
	}
	if c.Rider.HeightM <= 0 {
		return fmt.Errorf("rider.height_m must be positive, got %v", c.Rider.HeightM)
	}
	if c.Rider.FTP <= 0 {
		return fmt.Errorf("rider.ftp must be positive, got %v", c.Rider.FTP)
	}
	if c.Rider.CP <= 0 {
		return fmt.Errorf("rider.cp must be positive, got %v", c.Rider.CP)
	}
	if c.Rider.WPrimeJ <= 0 {
		return fmt.Errorf("rider.w_prime_j must be positive, got %v", c.Rider.WPrimeJ)
	}

	// A full resolution catches unknown equipment keys and reports the
	// valid ones.
	if _, err := bike.Resolve(c.Bike.Bike, c.Bike.Position, c.Bike.Wheels, c.Rider.HeightM, c.Rider.MassKg); err != nil {
		return err
	}

	if c.Pacing.FlatPowerW < 0 {
		return fmt.Errorf("pacing.flat_power_w must not be negative, got %v", c.Pacing.FlatPowerW)
	}
	if c.Pacing.GrossEfficiency <= 0 || c.Pacing.GrossEfficiency > 1 {
		return fmt.Errorf("pacing.gross_efficiency must be in (0, 1], got %v", c.Pacing.GrossEfficiency)
	}
	if c.Pacing.GridM <= 0 {
		return fmt.Errorf("pacing.grid_m must be positive, got %v", c.Pacing.GridM)
	}

	if c.Display.DistanceUnit != "" && c.Display.DistanceUnit != "km" && c.Display.DistanceUnit != "mi" {
		return fmt.Errorf("display.distance_unit must be \"km\" or \"mi\", got %q", c.Display.DistanceUnit)
	}
	if c.Display.EnergyUnit != "" && c.Display.EnergyUnit != "kcal" && c.Display.EnergyUnit != "kj" {
		return fmt.Errorf("display.energy_unit must be \"kcal\" or \"kj\", got %q", c.Display.EnergyUnit)
	}

	return nil
}

// RequireStrava checks that API credentials are configured
func (c *Config) RequireStrava() error {
	if c.Strava.ClientID == "" || c.Strava.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("strava.client_id is required - get it from https://www.strava.com/settings/api")
	}
	if c.Strava.ClientSecret == "" || c.Strava.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("strava.client_secret is required - get it from https://www.strava.com/settings/api")
	}
	return nil
}

// FlatPower returns the configured flat-ground target, deriving 88% of FTP
// when none is set
func (c *Config) FlatPower() float64 {
	if c.Pacing.FlatPowerW > 0 {
		return c.Pacing.FlatPowerW
	}
	return 0.88 * c.Rider.FTP
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".paceline"), nil
}
