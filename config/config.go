package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"airbnb-analysis/models"
)

const envPrefix = "AIRBNB"

// Config holds all application configuration.
type Config struct {
	InputPath string `mapstructure:"input_path" yaml:"input_path"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`

	AggregatesFile string `mapstructure:"aggregates_file" yaml:"aggregates_file" validate:"required"`
	SeasonalFile   string `mapstructure:"seasonal_file" yaml:"seasonal_file" validate:"required"`
	MonthlyFile    string `mapstructure:"monthly_file" yaml:"monthly_file" validate:"required"`
	CleanedFile    string `mapstructure:"cleaned_file" yaml:"cleaned_file"`
	XLSXFile       string `mapstructure:"xlsx_file" yaml:"xlsx_file"`

	// RankingMethod is "raw" (mean of average price and listing count) or
	// "minmax" (both terms normalised across groups first).
	RankingMethod string `mapstructure:"ranking_method" yaml:"ranking_method" validate:"oneof=raw minmax"`

	Thresholds models.Thresholds    `mapstructure:"thresholds" yaml:"thresholds"`
	Filter     models.ListingFilter `mapstructure:"filter" yaml:"filter"`
	Charts     ChartConfig          `mapstructure:"charts" yaml:"charts"`
	Postgres   PostgresConfig       `mapstructure:"postgres" yaml:"postgres"`

	Debug bool `mapstructure:"debug" yaml:"debug"`
}

// ChartConfig controls chart rendering.
type ChartConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	PNG        bool   `mapstructure:"png" yaml:"png"`
	ChromeBin  string `mapstructure:"chrome_bin" yaml:"chrome_bin"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec" validate:"gte=0"`
	Width      int    `mapstructure:"width" yaml:"width" validate:"gte=200"`
	Height     int    `mapstructure:"height" yaml:"height" validate:"gte=150"`
}

// Timeout returns the rasterisation timeout.
func (c ChartConfig) Timeout() time.Duration {
	if c.TimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSec) * time.Second
}

// PostgresConfig describes the optional Postgres sink.
type PostgresConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	Host       string `mapstructure:"host" yaml:"host"`
	Port       int    `mapstructure:"port" yaml:"port" validate:"gt=0,lte=65535"`
	User       string `mapstructure:"user" yaml:"user"`
	Password   string `mapstructure:"password" yaml:"password"`
	DB         string `mapstructure:"db" yaml:"db"`
	SSLMode    string `mapstructure:"sslmode" yaml:"sslmode"`
	MaxRetries int    `mapstructure:"max_retries" yaml:"max_retries" validate:"gte=1"`
}

// DSN returns the PostgreSQL connection string.
func (c PostgresConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DB +
		" sslmode=" + c.SSLMode
}

// OutputPath joins name onto the output directory. Absolute names are kept.
func (c *Config) OutputPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.OutputDir, name)
}

func setDefaults(v *viper.Viper) {
	th := models.DefaultThresholds()
	f := models.DefaultListingFilter()

	v.SetDefault("input_path", "AB_NYC_2019.csv")
	v.SetDefault("output_dir", "output")
	v.SetDefault("aggregates_file", "aggregated_airbnb_data.csv")
	v.SetDefault("seasonal_file", "time_series_airbnb_data.csv")
	v.SetDefault("monthly_file", "monthly_trends.csv")
	v.SetDefault("cleaned_file", "")
	v.SetDefault("xlsx_file", "")
	v.SetDefault("ranking_method", "raw")

	v.SetDefault("thresholds.price_low", th.PriceLow)
	v.SetDefault("thresholds.price_high", th.PriceHigh)
	v.SetDefault("thresholds.short_term_max_nights", th.ShortTermMaxNights)
	v.SetDefault("thresholds.medium_term_max_nights", th.MediumTermMaxNights)
	v.SetDefault("thresholds.rarely_below", th.RarelyBelow)
	v.SetDefault("thresholds.highly_above", th.HighlyAbove)

	v.SetDefault("filter.groups", f.Groups)
	v.SetDefault("filter.min_price", f.MinPrice)
	v.SetDefault("filter.min_reviews", f.MinReviews)

	v.SetDefault("charts.enabled", true)
	v.SetDefault("charts.png", false)
	v.SetDefault("charts.chrome_bin", "")
	v.SetDefault("charts.timeout_sec", 30)
	v.SetDefault("charts.width", 1200)
	v.SetDefault("charts.height", 600)

	v.SetDefault("postgres.enabled", false)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "analyst")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db", "airbnb")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_retries", 3)

	v.SetDefault("debug", false)
}

// Load reads configuration from defaults, an optional YAML file, a .env file
// and the environment.
// Precedence: env (AIRBNB_*) > config file > defaults. The .env file only
// seeds the process environment and never overrides variables already set.
func Load(cfgFile, envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else if dir, err := DefaultDir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func loadEnvFile(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

var validate = validator.New()

// Validate checks value ranges and threshold ordering.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultDir is ~/.airbnb-analysis.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".airbnb-analysis"), nil
}

// Save writes the given configuration to path. If path is empty it writes to
// ~/.airbnb-analysis/config.yaml, creating the directory if necessary.
func Save(c *Config, path string) error {
	if path == "" {
		dir, err := DefaultDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
