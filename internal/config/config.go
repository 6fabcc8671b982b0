package config

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/jacoelho/gunner/internal/output"
	"github.com/jacoelho/gunner/internal/ratelimit"
	"github.com/jacoelho/gunner/internal/transport"
	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout is the default timeout for HTTP requests.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "gunner"
)

var (
	ErrNoQueryFile      = errors.New("no query file specified")
	ErrInvalidTimeout   = errors.New("timeout must be positive")
	ErrInvalidRateLimit = errors.New("rate limit cannot be negative")
	ErrInvalidLogLevel  = errors.New("invalid log level")
)

// Config represents the complete configuration for the gunner CLI.
// Fields are first loaded from GUNNER_* environment variables and then
// overridden by command line flags.
type Config struct {
	QueryFile string `env:"-"`

	// HTTP client configuration
	RequestTimeout time.Duration `env:"GUNNER_TIMEOUT" envDefault:"30s"`
	RateLimit      float64       `env:"GUNNER_RATE_LIMIT" envDefault:"0"` // Requests per second (0 = unlimited)
	Insecure       bool          `env:"GUNNER_INSECURE"`
	CACertFile     string        `env:"GUNNER_CACERT"`
	UserAgent      string        `env:"GUNNER_USER_AGENT" envDefault:"gunner"`

	// Logging
	LogLevel string `env:"GUNNER_LOG_LEVEL" envDefault:"warn"`
	LogFile  string `env:"GUNNER_LOG_FILE"`

	// Output
	Output   string `env:"GUNNER_OUTPUT" envDefault:"json"`
	Document string `env:"GUNNER_DOCUMENT"`
	Summary  bool   `env:"GUNNER_SUMMARY"`
}

// FromEnv loads a Config from the environment, applying defaults for unset variables.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.QueryFile == "" {
		return ErrNoQueryFile
	}

	if _, err := os.Stat(c.QueryFile); err != nil {
		return fmt.Errorf("query file %s not found: %w", c.QueryFile, err)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, c.RequestTimeout)
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("%w: %g", ErrInvalidRateLimit, c.RateLimit)
	}

	if c.CACertFile != "" {
		if _, err := os.Stat(c.CACertFile); err != nil {
			return fmt.Errorf("CA certificate file %s not found: %w", c.CACertFile, err)
		}
	}

	if c.Document != "" {
		if _, err := os.Stat(c.Document); err != nil {
			return fmt.Errorf("document file %s not found: %w", c.Document, err)
		}
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	if _, err := c.Format(); err != nil {
		return err
	}

	return nil
}

// Level returns the parsed log level. An empty level means warn.
func (c *Config) Level() (zerolog.Level, error) {
	name := strings.TrimSpace(c.LogLevel)
	if name == "" {
		return zerolog.WarnLevel, nil
	}

	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return level, nil
}

// Format returns the parsed output format.
func (c *Config) Format() (output.Format, error) {
	return output.ParseFormat(c.Output)
}

// TLSConfig returns a TLS configuration based on the config settings.
func (c *Config) TLSConfig() (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: c.Insecure,
	}

	if c.CACertFile != "" {
		caCertPool, err := x509.SystemCertPool()
		if err != nil {
			caCertPool = x509.NewCertPool()
		}

		caCert, err := os.ReadFile(c.CACertFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate file %s: %w", c.CACertFile, err)
		}

		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA certificate from %s", c.CACertFile)
		}

		tlsConfig.RootCAs = caCertPool
	}

	return tlsConfig, nil
}

// Transport creates an HTTP transport configured with the settings from this Config.
func (c *Config) Transport(logger *zerolog.Logger) (*transport.HTTP, error) {
	tlsConfig, err := c.TLSConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create TLS configuration: %w", err)
	}

	userAgent := c.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return transport.NewHTTP(transport.Options{
		TLSConfig: tlsConfig,
		Timeout:   c.RequestTimeout,
		UserAgent: userAgent,
		Limiter:   ratelimit.New(c.RateLimit),
		Logger:    logger,
	}), nil
}
