package config

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const (
	// Path-loss model
	PathLossExp    = 2.0  // Path loss exponent (N) for indoor environments
	DefaultTxPower = -59  // Advertised power at 1 meter (dBm), used when the payload has none
	MinDistance    = 0.3  // Clamp floor in meters (near-field saturation)
	MaxDistance    = 15.0 // Clamp ceiling in meters (deep fades)

	// Kalman filter defaults
	ProcessNoise     = 0.0001
	MeasurementNoise = 0.01

	// Solver
	SolveInterval  = time.Second     // Position solve cadence
	StalenessLimit = 5 * time.Second // Readings older than this don't count
	TrailLength    = 50              // Ring buffer size for the position trail

	// Display
	AspectRatio = 0.5 // Terminal char aspect correction (chars are ~2:1 tall)
	TargetFPS   = 30  // Target frames per second

	// App
	AppName    = "BLE-LOCATOR"
	AppVersion = "1.0"
)

// Duration lets YAML carry values like "5s"; yaml.v3 has no native
// time.Duration support.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Beacon is a stationary transmitter at a known room coordinate.
// Immutable after configuration load.
type Beacon struct {
	ID    int     `yaml:"id"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Label string  `yaml:"label"`
}

// Config is the full startup configuration. Default() fills in a working
// setup; a YAML file given with --config overrides individual fields.
type Config struct {
	RoomWidth  float64 `yaml:"room_width"`  // meters
	RoomHeight float64 `yaml:"room_height"` // meters

	Beacons      []Beacon `yaml:"beacons"`
	ReferenceIDs [3]int   `yaml:"reference_ids"` // the three beacons used for trilateration

	ProximityUUID string `yaml:"proximity_uuid"` // identity filter, hyphen/case insensitive

	TxPower          int     `yaml:"tx_power"` // dBm fallback when the payload carries none
	PathLossExponent float64 `yaml:"path_loss_exponent"`
	MinDistance      float64 `yaml:"min_distance"`
	MaxDistance      float64 `yaml:"max_distance"`

	ProcessNoise     float64 `yaml:"process_noise"`
	MeasurementNoise float64 `yaml:"measurement_noise"`

	StalenessLimit Duration `yaml:"staleness_limit"`
	PermissiveScan bool     `yaml:"permissive_scan"` // enable the byte-pattern decode fallback
}

// Default returns a working configuration: a 10x8 m room with three corner
// beacons, suitable for demo mode out of the box.
func Default() Config {
	return Config{
		RoomWidth:  10.0,
		RoomHeight: 8.0,
		Beacons: []Beacon{
			{ID: 1, X: 0.5, Y: 0.5, Label: "NW"},
			{ID: 2, X: 9.5, Y: 0.5, Label: "NE"},
			{ID: 3, X: 0.5, Y: 7.5, Label: "SW"},
		},
		ReferenceIDs:     [3]int{1, 2, 3},
		ProximityUUID:    "f7826da6-4fa2-4e98-8024-bc5b71e0893e",
		TxPower:          DefaultTxPower,
		PathLossExponent: PathLossExp,
		MinDistance:      MinDistance,
		MaxDistance:      MaxDistance,
		ProcessNoise:     ProcessNoise,
		MeasurementNoise: MeasurementNoise,
		StalenessLimit:   Duration(StalenessLimit),
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks internal consistency before the pipeline starts.
func (c *Config) Validate() error {
	if c.RoomWidth <= 0 || c.RoomHeight <= 0 {
		return fmt.Errorf("room dimensions must be positive, got %.1fx%.1f", c.RoomWidth, c.RoomHeight)
	}
	if _, err := uuid.Parse(c.ProximityUUID); err != nil {
		return fmt.Errorf("proximity_uuid %q: %w", c.ProximityUUID, err)
	}
	if c.MinDistance <= 0 || c.MaxDistance <= c.MinDistance {
		return fmt.Errorf("distance bounds must satisfy 0 < min < max, got [%.2f, %.2f]", c.MinDistance, c.MaxDistance)
	}
	seen := make(map[int]bool, len(c.Beacons))
	for _, b := range c.Beacons {
		if seen[b.ID] {
			return fmt.Errorf("duplicate beacon id %d", b.ID)
		}
		seen[b.ID] = true
	}
	for _, id := range c.ReferenceIDs {
		if !seen[id] {
			return fmt.Errorf("reference beacon %d is not configured", id)
		}
	}
	return nil
}

// BeaconByID returns the configured beacon with the given id.
func (c *Config) BeaconByID(id int) (Beacon, bool) {
	for _, b := range c.Beacons {
		if b.ID == id {
			return b, true
		}
	}
	return Beacon{}, false
}
