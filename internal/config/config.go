package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Grid    GridConfig    `yaml:"grid" mapstructure:"grid"`
	Census  CensusConfig  `yaml:"census" mapstructure:"census"`
	Health  HealthConfig  `yaml:"health" mapstructure:"health"`
	Munic   MunicConfig   `yaml:"munic" mapstructure:"munic"`
	Finance FinanceConfig `yaml:"finance" mapstructure:"finance"`
	Run     RunConfig     `yaml:"run" mapstructure:"run"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// PathsConfig locates the shared data directories.
type PathsConfig struct {
	ResultsDir     string `yaml:"results_dir" mapstructure:"results_dir"`
	ExternalDir    string `yaml:"external_dir" mapstructure:"external_dir"`
	DiagnosticsDir string `yaml:"diagnostics_dir" mapstructure:"diagnostics_dir"`
	// RegistryFile is an optional indicators.json; empty means the built-in
	// registry.
	RegistryFile string `yaml:"registry_file" mapstructure:"registry_file"`
}

// GridConfig configures the base-grid build.
type GridConfig struct {
	CrosswalkFile string `yaml:"crosswalk_file" mapstructure:"crosswalk_file"`
	ChunksDir     string `yaml:"chunks_dir" mapstructure:"chunks_dir"`
}

// CensusConfig configures the census aggregation stage.
type CensusConfig struct {
	InputDir string `yaml:"input_dir" mapstructure:"input_dir"`
}

// HealthConfig configures the healthcare-accessibility stage.
type HealthConfig struct {
	FacilityFile        string  `yaml:"facility_file" mapstructure:"facility_file"`
	Neighbors           int     `yaml:"neighbors" mapstructure:"neighbors"`
	DistanceFloorMeters float64 `yaml:"distance_floor_meters" mapstructure:"distance_floor_meters"`
}

// MunicConfig configures the municipal survey stage.
type MunicConfig struct {
	InputDir string `yaml:"input_dir" mapstructure:"input_dir"`
}

// FinanceConfig configures the SICONFI expense stage.
type FinanceConfig struct {
	InputDir  string `yaml:"input_dir" mapstructure:"input_dir"`
	FirstYear int    `yaml:"first_year" mapstructure:"first_year"`
	LastYear  int    `yaml:"last_year" mapstructure:"last_year"`
}

// Years expands the configured range into the snapshot list.
func (f FinanceConfig) Years() []int {
	if f.FirstYear <= 0 || f.LastYear < f.FirstYear {
		return nil
	}
	years := make([]int, 0, f.LastYear-f.FirstYear+1)
	for y := f.FirstYear; y <= f.LastYear; y++ {
		years = append(years, y)
	}
	return years
}

// RunConfig configures the run registry.
type RunConfig struct {
	DatabasePath string `yaml:"database_path" mapstructure:"database_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("IJC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("paths.results_dir", "data/results")
	v.SetDefault("paths.external_dir", "data/external")
	v.SetDefault("paths.diagnostics_dir", "data/diagnostics")
	v.SetDefault("grid.crosswalk_file", "data/clean/base_grid.parquet")
	v.SetDefault("grid.chunks_dir", "data/clean/household_chunks")
	v.SetDefault("census.input_dir", "data/raw/censo_2022")
	v.SetDefault("health.facility_file", "data/raw/cnes/cnes_estabelecimentos.csv")
	v.SetDefault("health.neighbors", 3)
	v.SetDefault("health.distance_floor_meters", 100)
	v.SetDefault("munic.input_dir", "data/raw/munic")
	v.SetDefault("finance.input_dir", "data/raw/siconfi")
	v.SetDefault("finance.first_year", 2015)
	v.SetDefault("finance.last_year", 2024)
	v.SetDefault("run.database_path", "data/runs.db")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks cross-field invariants before any stage runs.
func (c *Config) Validate() error {
	var problems []string
	if c.Paths.ResultsDir == "" {
		problems = append(problems, "paths.results_dir is required")
	}
	if c.Grid.CrosswalkFile == "" {
		problems = append(problems, "grid.crosswalk_file is required")
	}
	if c.Grid.ChunksDir == "" {
		problems = append(problems, "grid.chunks_dir is required")
	}
	if c.Health.Neighbors < 1 {
		problems = append(problems, "health.neighbors must be >= 1")
	}
	if c.Health.DistanceFloorMeters < 0 {
		problems = append(problems, "health.distance_floor_meters must be >= 0")
	}
	if len(c.Finance.Years()) == 0 {
		problems = append(problems, "finance.first_year/last_year must form a valid range")
	}
	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
