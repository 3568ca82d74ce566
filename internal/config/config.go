package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data    DataConfig    `yaml:"data" mapstructure:"data"`
	Filter  FilterConfig  `yaml:"filter" mapstructure:"filter"`
	Render  RenderConfig  `yaml:"render" mapstructure:"render"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the incident table and the district boundaries.
// Relative paths resolve against WorkDir, then Dir.
type DataConfig struct {
	WorkDir      string `yaml:"work_dir" mapstructure:"work_dir"`
	Dir          string `yaml:"dir" mapstructure:"dir"`
	CrimesCSV    string `yaml:"crimes_csv" mapstructure:"crimes_csv"`
	DistrictsSHP string `yaml:"districts_shp" mapstructure:"districts_shp"`
	Encoding     string `yaml:"encoding" mapstructure:"encoding"`
	Archive      string `yaml:"archive" mapstructure:"archive"`
	ArchiveURL   string `yaml:"archive_url" mapstructure:"archive_url"`
	// ArchiveEntries limits extraction to these archive members.
	ArchiveEntries []string `yaml:"archive_entries" mapstructure:"archive_entries"`
	// PlaceholderAsMissing treats the dataset's (-1, -1) coordinates as absent.
	PlaceholderAsMissing bool `yaml:"placeholder_as_missing" mapstructure:"placeholder_as_missing"`
}

// DataDir returns the dataset directory.
func (d DataConfig) DataDir() string {
	if filepath.IsAbs(d.Dir) {
		return d.Dir
	}
	return filepath.Join(d.WorkDir, d.Dir)
}

// Resolve returns name inside the dataset directory unless it is absolute.
func (d DataConfig) Resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.DataDir(), name)
}

// ArchivePath returns the dataset archive location.
func (d DataConfig) ArchivePath() string {
	if filepath.IsAbs(d.Archive) {
		return d.Archive
	}
	return filepath.Join(d.WorkDir, d.Archive)
}

// FilterConfig configures the record filter chain.
type FilterConfig struct {
	IncludeTiers       []string `yaml:"include_tiers" mapstructure:"include_tiers"`
	PromotedOffenses   []string `yaml:"promoted_offenses" mapstructure:"promoted_offenses"`
	ExpandTierOffenses bool     `yaml:"expand_tier_offenses" mapstructure:"expand_tier_offenses"`
	HourStart          int      `yaml:"hour_start" mapstructure:"hour_start"`
	HourEnd            int      `yaml:"hour_end" mapstructure:"hour_end"`
}

// RenderConfig configures the generated documents.
type RenderConfig struct {
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
	Zoom      int    `yaml:"zoom" mapstructure:"zoom"`
	Tiles     string `yaml:"tiles" mapstructure:"tiles"`
	XLSX      bool   `yaml:"xlsx" mapstructure:"xlsx"`
}

// MetricsConfig configures the run metrics textfile.
type MetricsConfig struct {
	Textfile string `yaml:"textfile" mapstructure:"textfile"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from an optional .env file, config.yaml and the
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CRIMEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.work_dir", ".")
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.crimes_csv", "crime.csv")
	v.SetDefault("data.districts_shp", "Police_Districts.shp")
	v.SetDefault("data.encoding", "latin-1")
	v.SetDefault("data.archive", "data.zip")
	v.SetDefault("data.archive_url", "")
	v.SetDefault("data.archive_entries", []string{})
	v.SetDefault("data.placeholder_as_missing", false)
	v.SetDefault("filter.include_tiers", []string{"Part One"})
	v.SetDefault("filter.promoted_offenses", []string{
		"Simple Assault", "Harassment", "Ballistics", "Arson",
		"HOME INVASION", "Criminal Harassment", "Manslaughter",
	})
	v.SetDefault("filter.expand_tier_offenses", true)
	v.SetDefault("filter.hour_start", 9)
	v.SetDefault("filter.hour_end", 18)
	v.SetDefault("render.output_dir", "output")
	v.SetDefault("render.zoom", 14)
	v.SetDefault("render.tiles", "openstreetmap")
	v.SetDefault("render.xlsx", false)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks the settings a command needs. Mode is one of "render",
// "summary", "districts" or "fetch".
func (c *Config) Validate(mode string) error {
	var problems []string
	require := func(val, key string) {
		if strings.TrimSpace(val) == "" {
			problems = append(problems, key+" is required")
		}
	}

	switch mode {
	case "render":
		require(c.Data.CrimesCSV, "data.crimes_csv")
		require(c.Data.DistrictsSHP, "data.districts_shp")
		require(c.Render.OutputDir, "render.output_dir")
		if c.Render.Zoom < 0 || c.Render.Zoom > 19 {
			problems = append(problems, "render.zoom must be between 0 and 19")
		}
		problems = append(problems, c.Filter.problems()...)
	case "summary":
		require(c.Data.CrimesCSV, "data.crimes_csv")
		problems = append(problems, c.Filter.problems()...)
	case "districts":
		require(c.Data.CrimesCSV, "data.crimes_csv")
		require(c.Data.DistrictsSHP, "data.districts_shp")
		problems = append(problems, c.Filter.problems()...)
	case "fetch":
		require(c.Data.Dir, "data.dir")
		require(c.Data.Archive, "data.archive")
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (f FilterConfig) problems() []string {
	var out []string
	if len(f.IncludeTiers) == 0 && len(f.PromotedOffenses) == 0 {
		out = append(out, "filter.include_tiers or filter.promoted_offenses is required")
	}
	if f.HourStart < 0 || f.HourStart > 23 || f.HourEnd < 0 || f.HourEnd > 23 {
		out = append(out, "filter.hour_start and filter.hour_end must be between 0 and 23")
	} else if f.HourStart > f.HourEnd {
		out = append(out, "filter.hour_start must not exceed filter.hour_end")
	}
	return out
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
