package config

import (
	_ "embed"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jezper/faver/internal/moments"
)

//go:embed presets.yaml
var presetsYAML []byte

// Clustering modes.
const (
	ModeFixed = "fixed"
	ModeSmart = "smart"
)

// Defaults applied when a setting is unset or names an unknown preset.
const (
	DefaultMode        = ModeSmart
	DefaultFixedPreset = "medium"
	DefaultSensitivity = "medium"
	DefaultMinSize     = 1
)

type Config struct {
	PhotoPrism PhotoPrismConfig
	Store      StoreConfig
	Clustering ClusteringConfig
	GeocodeURL string // Nominatim-compatible endpoint; empty disables place labels
	presets    presetsConfig
}

type PhotoPrismConfig struct {
	URL         string
	Username    string
	Password    string
	DatabaseURL string // MariaDB DSN for direct database reads (e.g., photoprism:photoprism@tcp(mariadb:3306)/photoprism)
}

type StoreConfig struct {
	Backend     string // "sqlite" (default) or "postgres"
	PostgresURL string
	SQLitePath  string // empty means ~/.faver/reviewed.db
}

// ClusteringConfig holds the user-tunable clustering settings. Preset names
// resolve against the embedded presets file; unknown names fall back to the
// documented defaults.
type ClusteringConfig struct {
	Mode        string // "fixed" or "smart"
	FixedPreset string // "short", "medium", "long"
	Sensitivity string // "low", "medium", "high"
	MinSize     int
}

type presetsConfig struct {
	Fixed map[string]fixedPreset `yaml:"fixed"`
	Smart map[string]smartPreset `yaml:"smart"`
}

type fixedPreset struct {
	Gap string `yaml:"gap"`
}

type smartPreset struct {
	DistanceMeters float64 `yaml:"distance_meters"`
	MinPause       string  `yaml:"min_pause"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

func envDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func Load() *Config {
	var presets presetsConfig
	if err := yaml.Unmarshal(presetsYAML, &presets); err != nil {
		// Embedded file, so this cannot happen in practice.
		panic("failed to unmarshal embedded presets.yaml: " + err.Error())
	}

	return &Config{
		PhotoPrism: PhotoPrismConfig{
			URL:         os.Getenv("PHOTOPRISM_URL"),
			Username:    os.Getenv("PHOTOPRISM_USERNAME"),
			Password:    os.Getenv("PHOTOPRISM_PASSWORD"),
			DatabaseURL: os.Getenv("PHOTOPRISM_DATABASE_URL"),
		},
		Store: StoreConfig{
			Backend:     envDefault("FAVER_STORE", "sqlite"),
			PostgresURL: os.Getenv("DATABASE_URL"),
			SQLitePath:  os.Getenv("FAVER_SQLITE_PATH"),
		},
		Clustering: ClusteringConfig{
			Mode:        envDefault("FAVER_MODE", DefaultMode),
			FixedPreset: envDefault("FAVER_FIXED_PRESET", DefaultFixedPreset),
			Sensitivity: envDefault("FAVER_SENSITIVITY", DefaultSensitivity),
			MinSize:     envInt("FAVER_MIN_SIZE", DefaultMinSize),
		},
		GeocodeURL: os.Getenv("FAVER_GEOCODE_URL"),
		presets: presets,
	}
}

// FixedGap resolves the configured fixed-gap preset to a duration.
func (c *Config) FixedGap() time.Duration {
	p, ok := c.presets.Fixed[c.Clustering.FixedPreset]
	if !ok {
		p = c.presets.Fixed[DefaultFixedPreset]
	}
	d, err := time.ParseDuration(p.Gap)
	if err != nil {
		return 2 * time.Hour
	}
	return d
}

// Sensitivity resolves the configured smart-sensitivity preset.
func (c *Config) Sensitivity() moments.Sensitivity {
	p, ok := c.presets.Smart[c.Clustering.Sensitivity]
	if !ok {
		p = c.presets.Smart[DefaultSensitivity]
	}
	pause, err := time.ParseDuration(p.MinPause)
	if err != nil {
		pause = 5 * time.Minute
	}
	return moments.Sensitivity{
		DistanceMeters: p.DistanceMeters,
		MinPause:       pause,
	}
}
