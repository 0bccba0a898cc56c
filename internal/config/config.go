package config

import (
	"os"
	"path/filepath"
	"strings"

	"goeda/internal/errors"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Plot     PlotConfig     `mapstructure:"plot" yaml:"plot"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Data     DataConfig     `mapstructure:"data" yaml:"data"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// AnalysisConfig holds the statistical knobs of a run
type AnalysisConfig struct {
	DatasetName    string  `mapstructure:"dataset_name" yaml:"dataset_name"`
	Alpha          float64 `mapstructure:"alpha" yaml:"alpha"`
	TopKCategories int     `mapstructure:"top_k_categories" yaml:"top_k_categories"`
	SampleCap      int     `mapstructure:"sample_cap" yaml:"sample_cap"`
	Seed           int64   `mapstructure:"seed" yaml:"seed"`
}

// OutputConfig holds file system destinations
type OutputConfig struct {
	SummaryPath string `mapstructure:"summary_path" yaml:"summary_path"`
	PlotsPath   string `mapstructure:"plots_path" yaml:"plots_path"`
}

// PlotConfig holds per-type figure limits
type PlotConfig struct {
	Enabled         bool `mapstructure:"enabled" yaml:"enabled"`
	MaxNumericPlots int  `mapstructure:"max_numeric_plots" yaml:"max_numeric_plots"`
	MaxQQPlots      int  `mapstructure:"max_qq_plots" yaml:"max_qq_plots"`
	MaxBoxPlots     int  `mapstructure:"max_box_plots" yaml:"max_box_plots"`
}

// ServerConfig holds the presentation server settings; empty Addr disables it
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// DataConfig holds the input source
type DataConfig struct {
	File             string `mapstructure:"file" yaml:"file"`
	Sheet            string `mapstructure:"sheet" yaml:"sheet"`
	Delimiter        string `mapstructure:"delimiter" yaml:"delimiter"` // empty means sniffed
	LenientNumbers   bool   `mapstructure:"lenient_numbers" yaml:"lenient_numbers"`
	DetectTimestamps bool   `mapstructure:"detect_timestamps" yaml:"detect_timestamps"`
	NormalizeStrings bool   `mapstructure:"normalize_strings" yaml:"normalize_strings"` // collapse inner whitespace in text cells
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Default returns the configuration used when nothing else is set
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			DatasetName:    "", // the input file name, or "dataset" for in-memory tables
			Alpha:          0.05,
			TopKCategories: 15,
			SampleCap:      5000,
			Seed:           42,
		},
		Output: OutputConfig{
			SummaryPath: "eda_resumo.txt",
			PlotsPath:   "eda_graficos.html",
		},
		Plot: PlotConfig{
			Enabled:         true,
			MaxNumericPlots: 12,
			MaxQQPlots:      6,
			MaxBoxPlots:     8,
		},
		Logging: LoggingConfig{Level: "INFO"},
	}
}

// Load reads configuration from defaults, an optional YAML file and EDA_* environment
// variables (precedence: env > file > defaults) and validates it
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("EDA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, Default())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "failed to read config file %s", cfgFile)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("eda")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal configuration")
	}

	// LOG_LEVEL is honoured for parity with the logger's own bootstrap
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" && os.Getenv("EDA_LOGGING_LEVEL") == "" {
		c.Logging.Level = lvl
	}

	if err := Validate(&c); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &c, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("analysis.dataset_name", d.Analysis.DatasetName)
	v.SetDefault("analysis.alpha", d.Analysis.Alpha)
	v.SetDefault("analysis.top_k_categories", d.Analysis.TopKCategories)
	v.SetDefault("analysis.sample_cap", d.Analysis.SampleCap)
	v.SetDefault("analysis.seed", d.Analysis.Seed)
	v.SetDefault("output.summary_path", d.Output.SummaryPath)
	v.SetDefault("output.plots_path", d.Output.PlotsPath)
	v.SetDefault("plot.enabled", d.Plot.Enabled)
	v.SetDefault("plot.max_numeric_plots", d.Plot.MaxNumericPlots)
	v.SetDefault("plot.max_qq_plots", d.Plot.MaxQQPlots)
	v.SetDefault("plot.max_box_plots", d.Plot.MaxBoxPlots)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("data.file", d.Data.File)
	v.SetDefault("data.sheet", d.Data.Sheet)
	v.SetDefault("data.delimiter", d.Data.Delimiter)
	v.SetDefault("data.lenient_numbers", d.Data.LenientNumbers)
	v.SetDefault("data.detect_timestamps", d.Data.DetectTimestamps)
	v.SetDefault("data.normalize_strings", d.Data.NormalizeStrings)
	v.SetDefault("logging.level", d.Logging.Level)
}

// Validate checks ranges of the analysis knobs
func Validate(c *Config) error {
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return errors.ConfigInvalid("alpha must be in (0, 1)")
	}
	if c.Analysis.TopKCategories < 1 {
		return errors.ConfigInvalid("top_k_categories must be positive")
	}
	if c.Analysis.SampleCap < 20 {
		return errors.ConfigInvalid("sample_cap must be at least 20")
	}
	if c.Plot.MaxNumericPlots < 0 || c.Plot.MaxQQPlots < 0 || c.Plot.MaxBoxPlots < 0 {
		return errors.ConfigInvalid("plot limits cannot be negative")
	}
	if len([]rune(c.Data.Delimiter)) > 1 {
		return errors.ConfigInvalid("delimiter must be a single character")
	}
	if c.Output.SummaryPath == "" {
		return errors.ConfigInvalid("summary path is required")
	}
	return nil
}

// Save writes the configuration as YAML, creating the parent directory if needed
func Save(c *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.IOError(dir, err)
		}
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal configuration")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errors.IOError(path, err)
	}
	return nil
}
