package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/cortex"
	"github.com/aretw0/cortex/internal/logging"
	"github.com/aretw0/cortex/pkg/domain"
	"github.com/aretw0/cortex/pkg/regions"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CORTEX_"

// Duration is a time.Duration written as "100ms" in YAML and JSON.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.set(s)
}

// UnmarshalJSON parses a Go duration string.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return d.set(s)
}

// MarshalYAML writes the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) set(s string) error {
	v, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Config is the process configuration of a cortex deployment.
type Config struct {
	Log        LogConfig        `yaml:"log" json:"log"`
	Tick       TickConfig       `yaml:"tick" json:"tick"`
	Activation ActivationConfig `yaml:"activation" json:"activation"`
	Reinforce  ReinforceConfig  `yaml:"reinforce" json:"reinforce"`
	Signals    SignalsConfig    `yaml:"signals" json:"signals"`
	Placement  PlacementConfig  `yaml:"placement" json:"placement"`
	Regions    RegionsConfig    `yaml:"regions" json:"regions"`
	HTTP       HTTPConfig       `yaml:"http" json:"http"`
	Redis      RedisConfig      `yaml:"redis" json:"redis"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type TickConfig struct {
	Interval Duration `yaml:"interval" json:"interval"`
}

type ActivationConfig struct {
	DecayRate float64 `yaml:"decay_rate" json:"decay_rate"`
}

type ReinforceConfig struct {
	Node float64 `yaml:"node" json:"node"`
	Link float64 `yaml:"link" json:"link"`
}

type SignalsConfig struct {
	Speed  float64 `yaml:"speed" json:"speed"`
	OnLink bool    `yaml:"on_link" json:"on_link"`
}

type PlacementConfig struct {
	Jitter float64 `yaml:"jitter" json:"jitter"`
}

// RegionsConfig points at an optional region file. Empty means the reference regions.
type RegionsConfig struct {
	File string `yaml:"file" json:"file"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// RedisConfig enables the snapshot mirror when Addr is set.
type RedisConfig struct {
	Addr    string `yaml:"addr" json:"addr"`
	Channel string `yaml:"channel" json:"channel"`
	Key     string `yaml:"key" json:"key"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		Log:        LogConfig{Level: "info", Format: "text"},
		Tick:       TickConfig{Interval: Duration(100 * time.Millisecond)},
		Activation: ActivationConfig{DecayRate: domain.DecayRate},
		Reinforce:  ReinforceConfig{Node: domain.NodeReinforcement, Link: domain.LinkReinforcement},
		Signals:    SignalsConfig{Speed: domain.SignalSpeed},
		Placement:  PlacementConfig{Jitter: domain.PlacementJitter},
		HTTP:       HTTPConfig{Addr: ":8080"},
		Redis:      RedisConfig{Channel: "cortex:snapshots", Key: "cortex:snapshot"},
	}
}

// Load reads a configuration file (YAML or JSON, by extension) on top of the defaults,
// then applies environment overrides. An empty path yields defaults plus environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".json" {
			if err := json.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config json: %w", err)
			}
		} else {
			// Default to YAML
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config yaml: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the brain cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Tick.Interval <= 0:
		return fmt.Errorf("tick.interval must be positive")
	case c.Activation.DecayRate <= 0:
		return fmt.Errorf("activation.decay_rate must be positive")
	case c.Signals.Speed <= 0:
		return fmt.Errorf("signals.speed must be positive")
	case c.Reinforce.Node < 0 || c.Reinforce.Link < 0:
		return fmt.Errorf("reinforce increments must not be negative")
	case c.Placement.Jitter < 0:
		return fmt.Errorf("placement.jitter must not be negative")
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"LOG_LEVEL":     &c.Log.Level,
		"LOG_FORMAT":    &c.Log.Format,
		"REGIONS_FILE":  &c.Regions.File,
		"HTTP_ADDR":     &c.HTTP.Addr,
		"REDIS_ADDR":    &c.Redis.Addr,
		"REDIS_CHANNEL": &c.Redis.Channel,
		"REDIS_KEY":     &c.Redis.Key,
	}
	for name, dst := range str {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}

	if v, ok := lookup(EnvPrefix + "TICK_INTERVAL"); ok {
		if err := c.Tick.Interval.set(v); err != nil {
			return fmt.Errorf("%sTICK_INTERVAL: %w", EnvPrefix, err)
		}
	}
	if v, ok := lookup(EnvPrefix + "SIGNALS_ON_LINK"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sSIGNALS_ON_LINK: %w", EnvPrefix, err)
		}
		c.Signals.OnLink = b
	}
	return nil
}

// Logger builds the process logger from the log section.
func (c Config) Logger() *slog.Logger {
	return logging.New(logging.ParseLevel(c.Log.Level), c.Log.Format)
}

// Catalog loads the configured region file, or returns the reference regions.
func (c Config) Catalog() (*regions.Catalog, error) {
	if c.Regions.File == "" {
		return regions.Defaults(), nil
	}
	return regions.LoadFile(c.Regions.File)
}

// BrainOptions translates the configuration into brain options.
func (c Config) BrainOptions() ([]cortex.Option, error) {
	catalog, err := c.Catalog()
	if err != nil {
		return nil, err
	}
	return []cortex.Option{
		cortex.WithCatalog(catalog),
		cortex.WithDecayRate(c.Activation.DecayRate),
		cortex.WithReinforcement(c.Reinforce.Node, c.Reinforce.Link),
		cortex.WithSignalSpeed(c.Signals.Speed),
		cortex.WithJitter(c.Placement.Jitter),
		cortex.WithLinkSignals(c.Signals.OnLink),
	}, nil
}

// Interval returns the tick cadence.
func (c Config) Interval() time.Duration {
	return time.Duration(c.Tick.Interval)
}
