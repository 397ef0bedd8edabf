package fundperf

import (
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

// Params are the tuning parameters of the engine.
type Params struct {
	ThresAmount       float64 `toml:"thres_amount"`        // minimum holding for a day to count as invested
	ThresIdleInterval int     `toml:"thres_idle_interval"` // idle days that close an investment period
	ReinvestRate      float64 `toml:"reinvest_rate"`       // MIRR rate for positive cash flows
	WACC              float64 `toml:"wacc"`                // MIRR financing rate for negative cash flows
	RoundingEpsilon   float64 `toml:"rounding_epsilon"`    // holdings below are snapped to zero
	GainTolerance     float64 `toml:"gain_tolerance"`      // relative gain divergence allowed
	GainRounding      int32   `toml:"gain_rounding"`       // decimals kept before comparing gains

	Logger *zerolog.Logger `toml:"-"`
}

// DefaultParams returns the default engine parameters.
func DefaultParams() Params {
	return Params{
		ThresAmount:       1,
		ThresIdleInterval: 10,
		ReinvestRate:      0.03,
		WACC:              0.03,
		RoundingEpsilon:   1,
		GainTolerance:     1e-4,
		GainRounding:      4,
	}
}

var nop = zerolog.Nop()

// log returns the configured logger, or a disabled one.
func (p Params) log() *zerolog.Logger {
	if p.Logger == nil {
		return &nop
	}
	return p.Logger
}

// WithLogger returns a copy of p logging to l.
func (p Params) WithLogger(l zerolog.Logger) Params {
	p.Logger = &l
	return p
}

// Config is the configuration file of the fp tool.
type Config struct {
	Currency    string         `toml:"currency"`
	Instruments []string       `toml:"instruments"` // default watch list for portfolio reports
	Analysis    Params         `toml:"analysis"`
	Calendar    CalendarConfig `toml:"calendar"`
	Storage     StorageConfig  `toml:"storage"`
	Feeds       FeedPaths      `toml:"feeds"`
	Logging     LoggingConfig  `toml:"logging"`
}

type CalendarConfig struct {
	CloseHour int      `toml:"close_hour"`
	Timezone  string   `toml:"timezone"`
	Holidays  []string `toml:"holidays"`
}

type StorageConfig struct {
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns a Config with the default values.
func DefaultConfig() *Config {
	return &Config{
		Currency: "CNY",
		Analysis: DefaultParams(),
		Calendar: CalendarConfig{CloseHour: 15, Timezone: "Asia/Shanghai"},
		Storage:  StorageConfig{Path: "fundperf.db"},
		Feeds:    DefaultFeedPaths(),
		Logging:  LoggingConfig{Level: "info"},
	}
}

// LoadConfig reads the TOML file at path over the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return config, nil
}

// Environment variables overriding the configuration file.
const (
	EnvConfig   = "FUNDPERF_CONFIG"
	EnvDB       = "FUNDPERF_DB"
	EnvLogLevel = "FUNDPERF_LOG_LEVEL"
	EnvCurrency = "FUNDPERF_CURRENCY"
)

// ApplyEnv overrides the configuration with the environment values returned by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvDB); ok && v != "" {
		c.Storage.Path = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvCurrency); ok && v != "" {
		c.Currency = strings.ToUpper(v)
	}
}

// Encode writes c as TOML.
func (c *Config) Encode() ([]byte, error) { return toml.Marshal(c) }
