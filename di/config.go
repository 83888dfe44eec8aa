package di

import (
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/kbukum/scopedi/config"
	"github.com/kbukum/scopedi/logger"
	"github.com/kbukum/scopedi/validation"
)

// Config configures a Container built with NewFromConfig.
//
//	name: orders
//	max_depth: 32
//	strict_parameters: false
//	metrics: true
//	tracing: true
//	log:
//	  level: debug
//	  format: json
type Config struct {
	Name     string `yaml:"name" mapstructure:"name" validate:"required"`
	MaxDepth int    `yaml:"max_depth" mapstructure:"max_depth" validate:"gte=1,lte=4096"`
	// StrictParameters rejects unregistered constructor parameters instead of
	// default-constructing them.
	StrictParameters bool          `yaml:"strict_parameters" mapstructure:"strict_parameters"`
	Metrics          bool          `yaml:"metrics" mapstructure:"metrics"`
	Tracing          bool          `yaml:"tracing" mapstructure:"tracing"`
	Log              logger.Config `yaml:"log" mapstructure:"log"`
}

// ApplyDefaults fills zero values with defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "scopedi"
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	c.Log.ApplyDefaults()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	return c.Log.Validate()
}

// LoadConfig reads the container configuration for service from its config
// file and environment, then applies defaults and validates it.
func LoadConfig(service string, opts ...config.LoaderOption) (Config, error) {
	var cfg Config
	if err := config.LoadConfig(service, &cfg, opts...); err != nil {
		return Config{}, fmt.Errorf("loading container config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewFromConfig builds a container from cfg. Metrics and tracing use the
// global OpenTelemetry providers (see observability.Init). Options are applied
// after cfg and override it.
func NewFromConfig(cfg Config, opts ...Option) (*Container, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := []Option{
		WithLogger(logger.New(&cfg.Log, cfg.Name)),
		WithMaxDepth(cfg.MaxDepth),
	}
	if cfg.StrictParameters {
		base = append(base, WithoutDefaultConstruct())
	}
	if cfg.Metrics {
		base = append(base, WithMeterProvider(otel.GetMeterProvider()))
	}
	if cfg.Tracing {
		base = append(base, WithTracerProvider(otel.GetTracerProvider()))
	}
	return New(append(base, opts...)...), nil
}
