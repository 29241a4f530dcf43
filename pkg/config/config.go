package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/yurifrl/rollup/pkg/analysis"
	"github.com/yurifrl/rollup/pkg/models"
)

const envPrefix = "ROLLUP"

type Config struct {
	LogLevel string       `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	Server   ServerConfig `mapstructure:"server"`
	Cache    CacheConfig  `mapstructure:"cache"`
	View     ViewConfig   `mapstructure:"view"`
	YNAB     YNABConfig   `mapstructure:"ynab"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
	// MaxUploadBytes caps a request body; zero uses the server default.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" validate:"min=0"`
}

// CacheConfig sizes the analysis memo. A zero size disables it.
type CacheConfig struct {
	Size int           `mapstructure:"size" validate:"min=0"`
	TTL  time.Duration `mapstructure:"ttl" validate:"min=0"`
}

type ViewConfig struct {
	Sort      string `mapstructure:"sort" validate:"required"`
	Direction string `mapstructure:"direction" validate:"oneof=asc desc"`
	Metric    string `mapstructure:"metric" validate:"oneof=netChange percentChange year1Net year2Net"`
	Top       int    `mapstructure:"top" validate:"min=0"`
	Chart     string `mapstructure:"chart" validate:"oneof=bar waterfall"`
}

// Resolve parses the configured view.
func (c ViewConfig) Resolve() (analysis.View, error) {
	sort, err := models.ParseField(c.Sort)
	if err != nil {
		return analysis.View{}, err
	}
	dir, err := models.ParseDirection(c.Direction)
	if err != nil {
		return analysis.View{}, err
	}
	metric, err := models.ParseMetric(c.Metric)
	if err != nil {
		return analysis.View{}, err
	}
	chart, err := models.ParseChartType(c.Chart)
	if err != nil {
		return analysis.View{}, err
	}
	return analysis.View{Sort: sort, Direction: dir, Metric: metric, Top: c.Top, Chart: chart}, nil
}

type YNABConfig struct {
	TokenEnv string `mapstructure:"token_env" validate:"required"`
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"log-level": "log_level",
	"addr":      "server.addr",
	"cache":     "cache.size",
	"cache-ttl": "cache.ttl",
	"sort":      "view.sort",
	"metric":    "view.metric",
	"top":       "view.top",
	"type":      "view.chart",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_bytes", 32<<20)
	v.SetDefault("cache.size", 64)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("view.sort", "group")
	v.SetDefault("view.direction", "asc")
	v.SetDefault("view.metric", "netChange")
	v.SetDefault("view.top", 10)
	v.SetDefault("view.chart", "bar")
	v.SetDefault("ynab.token_env", "YNAB_TOKEN")
}

// Build resolves the configuration from defaults, the config file, .env,
// ROLLUP_* environment variables and the given flags, in increasing precedence.
// An explicit cfgFile must exist; the default config.yaml is optional.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := loadEnvFile(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
		if f := flags.Lookup("desc"); f != nil && f.Changed && f.Value.String() == "true" {
			v.Set("view.direction", "desc")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile exports the variables of path without overriding the
// environment. A missing file is not an error.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := gotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
