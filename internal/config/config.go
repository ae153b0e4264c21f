// Package config handles configuration loading for KSeF clients.
//
// Configuration is loaded from a YAML file with support for environment
// variable expansion (${VAR} or $VAR syntax). This allows sensitive values
// like the shared-secret token to be injected at runtime.
//
// # Configuration Sections
//
//   - environment: which KSeF instance to talk to (test, demo, prod),
//     or an explicit baseUrl override
//   - http: client timeouts and TLS material
//   - polling: status poll interval and overall wall-clock timeout
//   - auth: context identifier and credential locations
//
// # Example Configuration
//
//	environment: test
//
//	http:
//	  timeout: 30s
//	  tls:
//	    certFile: /etc/ksef/client.crt
//	    keyFile: /etc/ksef/client.key
//
//	polling:
//	  interval: 2s
//	  timeout: 2m
//
//	auth:
//	  contextType: Nip
//	  contextValue: "5265877635"
//	  token: ${KSEF_TOKEN}
//	  servicePublicKeyFile: /etc/ksef/service.pem
//
// See [Load] for loading configuration from a file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/openksef/go-ksef/pkg/polling"
)

// Config is the root configuration structure
type Config struct {
	// Environment selects a well-known KSeF instance: "test", "demo" or
	// "prod". Ignored when BaseURL is set.
	Environment string        `yaml:"environment"`
	BaseURL     string        `yaml:"baseUrl"`
	HTTP        HTTPConfig    `yaml:"http"`
	Polling     PollingConfig `yaml:"polling"`
	Auth        AuthConfig    `yaml:"auth"`
}

// HTTPConfig holds HTTP client settings
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	TLS     struct {
		CertFile string `yaml:"certFile"`
		KeyFile  string `yaml:"keyFile"`
		CAFile   string `yaml:"caFile"`
	} `yaml:"tls"`
}

// PollingConfig holds status polling settings. Timeout is the wall-clock
// budget across all attempts; the attempt count is derived from it.
type PollingConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Engine converts the declared interval and timeout into a polling
// configuration.
func (p PollingConfig) Engine() polling.Config {
	return polling.FromTimeout(p.Timeout, p.Interval)
}

// AuthConfig holds authentication settings
type AuthConfig struct {
	// ContextType and ContextValue identify the entity to authenticate
	// as: "Nip", "InternalId" or "VatUe" plus the identifier value.
	ContextType  string `yaml:"contextType"`
	ContextValue string `yaml:"contextValue"`

	// Token is the shared-secret KSeF token (can be an env var reference
	// like ${KSEF_TOKEN}). Empty when using certificate authentication.
	Token string `yaml:"token"`

	// ServicePublicKeyFile is the PEM file with the KSeF service public
	// key used to encrypt the token proof and the session symmetric key.
	ServicePublicKeyFile string `yaml:"servicePublicKeyFile"`

	// Certificate authentication material (XAdES signing).
	CertFile string `yaml:"certFile"`
	KeyFile  string `yaml:"keyFile"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults
	cfg.applyDefaults()

	// Validate
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Environment == "" && c.BaseURL == "" {
		c.Environment = "test"
	}
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = 30 * time.Second
	}
	if c.Polling.Interval == 0 {
		c.Polling.Interval = 2 * time.Second
	}
	if c.Polling.Timeout == 0 {
		c.Polling.Timeout = 2 * time.Minute
	}
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		switch c.Environment {
		case "test", "demo", "prod":
			// Valid environments
		default:
			return fmt.Errorf("environment must be 'test', 'demo' or 'prod', got '%s'", c.Environment)
		}
	}

	if c.Polling.Timeout < c.Polling.Interval {
		return fmt.Errorf("polling.timeout must be at least polling.interval")
	}

	if c.Auth.ContextValue != "" {
		switch c.Auth.ContextType {
		case "Nip", "InternalId", "VatUe":
			// Valid context types
		default:
			return fmt.Errorf("auth.contextType must be 'Nip', 'InternalId' or 'VatUe', got '%s'", c.Auth.ContextType)
		}
	}

	if (c.Auth.CertFile == "") != (c.Auth.KeyFile == "") {
		return fmt.Errorf("auth.certFile and auth.keyFile must be set together")
	}

	return nil
}
