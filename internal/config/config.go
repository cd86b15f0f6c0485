// Package config loads afsk1200's runtime configuration from a YAML file,
// environment variables, and built-in defaults, the same viper-backed
// layering the rest of the example pack's services use.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"afsk1200/internal/modem"
)

// Config is the fully-resolved, validated runtime configuration.
type Config struct {
	Modem   ModemConfig   `mapstructure:"modem"`
	Audio   AudioConfig   `mapstructure:"audio"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ModemConfig configures the DSP/HDLC core.
type ModemConfig struct {
	Filter      string `mapstructure:"filter"`       // "butterworth" or "chebyshev"
	PreambleMS  int    `mapstructure:"preamble_ms"`
	TrailerMS   int    `mapstructure:"trailer_ms"`
	RXTimeoutMS int    `mapstructure:"rx_timeout_ms"` // 0 non-blocking, -1 infinite
	RXQueueSize int    `mapstructure:"rx_queue_size"`
	TXQueueSize int    `mapstructure:"tx_queue_size"`
}

// AudioConfig selects and configures the sample source.
type AudioConfig struct {
	Driver      string `mapstructure:"driver"`       // "soundcard" or "loopback"
	DebugStrobe string `mapstructure:"debug_strobe"` // GPIO pin name, empty disables
}

// LoggingConfig mirrors the logrus setup the rest of the pack uses.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

// MetricsConfig controls the Prometheus exporter.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

// Load reads configFile (or the default search path when empty), applies
// AFSK1200_-prefixed environment overrides, and validates the result.
func Load(configFile string) (*Config, error) {
	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("/etc/afsk1200")
	}

	viper.SetEnvPrefix("AFSK1200")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// no config file is fine, defaults and env vars still apply
		} else if os.IsNotExist(err) {
			// explicitly named file missing is also fine
		} else {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("modem.filter", "butterworth")
	viper.SetDefault("modem.preamble_ms", 100)
	viper.SetDefault("modem.trailer_ms", 50)
	viper.SetDefault("modem.rx_timeout_ms", 0)
	viper.SetDefault("modem.rx_queue_size", 256)
	viper.SetDefault("modem.tx_queue_size", 256)

	viper.SetDefault("audio.driver", "loopback")
	viper.SetDefault("audio.debug_strobe", "")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.addr", ":9100")
	viper.SetDefault("metrics.path", "/metrics")
}

func validate(cfg *Config) error {
	switch cfg.Modem.Filter {
	case "butterworth", "chebyshev":
	default:
		return fmt.Errorf("modem.filter: unknown value %q", cfg.Modem.Filter)
	}
	if cfg.Modem.PreambleMS < 0 {
		return fmt.Errorf("modem.preamble_ms: must be >= 0")
	}
	if cfg.Modem.TrailerMS < 0 {
		return fmt.Errorf("modem.trailer_ms: must be >= 0")
	}
	switch cfg.Audio.Driver {
	case "soundcard", "loopback":
	default:
		return fmt.Errorf("audio.driver: unknown value %q", cfg.Audio.Driver)
	}
	return nil
}

// FilterKind translates the validated string setting into modem.FilterKind.
func (m ModemConfig) FilterKind() modem.FilterKind {
	if m.Filter == "chebyshev" {
		return modem.FilterChebyshev
	}
	return modem.FilterButterworth
}
