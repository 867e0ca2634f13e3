package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Sources SourcesConfig `yaml:"sources" mapstructure:"sources"`
	Browser BrowserConfig `yaml:"browser" mapstructure:"browser"`
	GeoDB   GeoDBConfig   `yaml:"geodb" mapstructure:"geodb"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// SourcesConfig configures the data-source adapters.
type SourcesConfig struct {
	MapsPath          string `yaml:"maps_path" mapstructure:"maps_path"`
	YearsBack         int    `yaml:"years_back" mapstructure:"years_back"`
	AssessorDelayMS   int    `yaml:"assessor_delay_ms" mapstructure:"assessor_delay_ms"`
	DeedsDelayMS      int    `yaml:"deeds_delay_ms" mapstructure:"deeds_delay_ms"`
	MassGISDelayMS    int    `yaml:"massgis_delay_ms" mapstructure:"massgis_delay_ms"`
	SERPDelayMS       int    `yaml:"serp_delay_ms" mapstructure:"serp_delay_ms"`
	MassGISMaxParcels int    `yaml:"massgis_max_parcels" mapstructure:"massgis_max_parcels"`
}

// Delay helpers convert the millisecond settings to durations.
func (s SourcesConfig) AssessorDelay() time.Duration {
	return time.Duration(s.AssessorDelayMS) * time.Millisecond
}
func (s SourcesConfig) DeedsDelay() time.Duration {
	return time.Duration(s.DeedsDelayMS) * time.Millisecond
}
func (s SourcesConfig) MassGISDelay() time.Duration {
	return time.Duration(s.MassGISDelayMS) * time.Millisecond
}
func (s SourcesConfig) SERPDelay() time.Duration {
	return time.Duration(s.SERPDelayMS) * time.Millisecond
}

// BrowserConfig configures the headless browser driving the scraping sources.
type BrowserConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns the per-tab browser timeout.
func (b BrowserConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSecs) * time.Second
}

// GeoDBConfig configures the local parcel-database lookup.
type GeoDBConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
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
	v.SetEnvPrefix("COMPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("browser.timeout_secs", 120)
	v.SetDefault("sources.years_back", 3)
	v.SetDefault("sources.assessor_delay_ms", 2000)
	v.SetDefault("sources.deeds_delay_ms", 2000)
	v.SetDefault("sources.massgis_delay_ms", 1500)
	v.SetDefault("sources.serp_delay_ms", 3000)
	v.SetDefault("sources.massgis_max_parcels", 20)

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
