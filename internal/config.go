package internal

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/routekit/pkg/annotation"
	"github.com/dmitrymomot/routekit/pkg/authorize"
	"github.com/dmitrymomot/routekit/pkg/logger"
)

// ErrInvalidConfig is returned when a configuration value cannot be applied.
var ErrInvalidConfig = errors.New("routekit: invalid config")

// Config is the file and environment form of the engine options.
// Environment variables override values read from YAML.
type Config struct {
	// RootPath mounts every route below it. Default: "/".
	RootPath string `yaml:"root_path" env:"ROUTEKIT_ROOT_PATH"`

	// LiteralAbsolutePaths keeps absolute paths out of RootPath.
	LiteralAbsolutePaths bool `yaml:"literal_absolute_paths" env:"ROUTEKIT_LITERAL_ABSOLUTE_PATHS"`

	// ControllersDir enables directory discovery when set.
	ControllersDir string `yaml:"controllers_dir" env:"ROUTEKIT_CONTROLLERS_DIR"`

	// DefaultAuthorization is the rule of routes that declare none, written like an
	// `authorize` struct tag: "public", "roles=user|admin", "policy=owner".
	// Empty keeps the deny-all default.
	DefaultAuthorization string `yaml:"default_authorization" env:"ROUTEKIT_DEFAULT_AUTHORIZATION"`

	// LogLevel is one of debug, info, warn, error. Default: info.
	LogLevel string `yaml:"log_level" env:"ROUTEKIT_LOG_LEVEL"`

	// Binders are extra custom binder names, separated by ";" in the environment.
	Binders []string `yaml:"binders" env:"ROUTEKIT_BINDERS"`

	Sentry logger.SentryConfig `yaml:"sentry"`
}

// LoadConfig reads path as YAML, when given, and applies environment overrides.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("routekit: read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("routekit: parse config %s: %w", path, err)
		}
	}

	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("routekit: decode environment: %w", err)
	}

	if cfg.RootPath == "" {
		cfg.RootPath = "/"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, cfg.Validate()
}

// Validate reports every invalid value at once.
func (c Config) Validate() error {
	var errs []error
	if c.RootPath != "" && !strings.HasPrefix(c.RootPath, "/") {
		errs = append(errs, fmt.Errorf("%w: root_path %q must start with /", ErrInvalidConfig, c.RootPath))
	}
	if _, err := c.defaultRule(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel))
	}
	for _, b := range c.Binders {
		if strings.TrimSpace(b) == "" {
			errs = append(errs, fmt.Errorf("%w: empty binder name", ErrInvalidConfig))
		}
	}
	return errors.Join(errs...)
}

// Options converts the config into engine options.
func (c Config) Options() ([]Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	level := logger.ParseLevel(c.LogLevel)
	extractors := []logger.ContextExtractor{logger.PhaseExtractor()}
	log := logger.New(level, extractors...)
	if c.Sentry.DSN != "" {
		log = logger.NewWithSentry(c.Sentry, level, extractors...)
	}

	opts := []Option{
		WithCustomLogger(log.With("component", "routekit")),
		WithBinder(c.Binders...),
	}
	if c.RootPath != "" {
		opts = append(opts, WithRootPath(c.RootPath))
	}
	if c.LiteralAbsolutePaths {
		opts = append(opts, WithLiteralAbsolutePaths())
	}

	rule, err := c.defaultRule()
	if err != nil {
		return nil, err
	}
	if rule != nil {
		opts = append(opts, WithDefaultAuthorization(*rule))
	}
	return opts, nil
}

// Sources returns the route sources named by the config.
func (c Config) Sources() []Source {
	if c.ControllersDir == "" {
		return nil
	}
	return []Source{Directory(c.ControllersDir)}
}

func (c Config) defaultRule() (*authorize.Rule, error) {
	if c.DefaultAuthorization == "" {
		return nil, nil
	}
	entries, err := authorize.ParseTag(c.DefaultAuthorization)
	if err != nil {
		return nil, fmt.Errorf("%w: default_authorization: %w", ErrInvalidConfig, err)
	}
	for _, e := range entries {
		if !e.AllowedOn(annotation.KindMethod) {
			return nil, fmt.Errorf("%w: default_authorization: %q is not a route rule", ErrInvalidConfig, e.Namespace)
		}
	}
	rule := ruleFrom(entries)
	return &rule, nil
}
