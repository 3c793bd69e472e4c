package domain

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default endpoints for Bitbucket Cloud.
const (
	DefaultAPIBaseURL = "https://api.bitbucket.org/2.0"
	DefaultCloneHost  = "bitbucket.org"
)

// Config represents the server configuration. The config file is optional:
// credentials come from the settings file and environment (see
// ResolveCredentials), and an absent config file means stdio transport
// against the public Bitbucket Cloud API.
type Config struct {
	Transport TransportConfig `yaml:"transport"`
	Bitbucket BitbucketConfig `yaml:"bitbucket"`
}

// TransportConfig defines transport settings.
type TransportConfig struct {
	Type string     `yaml:"type"` // "stdio" or "http"
	HTTP HTTPConfig `yaml:"http,omitempty"`
}

// HTTPConfig defines HTTP transport settings.
// Only used when transport type is "http".
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// BitbucketConfig overrides the remote endpoints, mainly for tests and
// self-hosted mirrors.
type BitbucketConfig struct {
	APIBaseURL string `yaml:"api_base_url,omitempty"`
	CloneHost  string `yaml:"clone_host,omitempty"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Transport: TransportConfig{Type: "stdio"},
		Bitbucket: BitbucketConfig{
			APIBaseURL: DefaultAPIBaseURL,
			CloneHost:  DefaultCloneHost,
		},
	}
}

// LoadConfig reads and validates configuration from a YAML file. A missing
// file is not an error: defaults apply. Invalid syntax or failed validation
// is an error.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("invalid YAML syntax in configuration file: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// applyDefaults fills unset fields with their defaults.
func (c *Config) applyDefaults() {
	if c.Transport.Type == "" {
		c.Transport.Type = "stdio"
	}
	if c.Bitbucket.APIBaseURL == "" {
		c.Bitbucket.APIBaseURL = DefaultAPIBaseURL
	}
	if c.Bitbucket.CloneHost == "" {
		c.Bitbucket.CloneHost = DefaultCloneHost
	}
}

// Validate checks the configuration for completeness and correctness.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errors []string

	if c.Transport.Type != "stdio" && c.Transport.Type != "http" {
		errors = append(errors, fmt.Sprintf("invalid transport type '%s': must be 'stdio' or 'http'", c.Transport.Type))
	}

	if c.Transport.Type == "http" {
		if c.Transport.HTTP.Host == "" {
			errors = append(errors, "HTTP host is required when transport type is 'http'")
		}
		if c.Transport.HTTP.Port <= 0 || c.Transport.HTTP.Port > 65535 {
			errors = append(errors, fmt.Sprintf("invalid HTTP port %d: must be between 1 and 65535", c.Transport.HTTP.Port))
		}
	}

	parsedURL, err := url.Parse(c.Bitbucket.APIBaseURL)
	if err != nil {
		errors = append(errors, fmt.Sprintf("api_base_url is invalid: %v", err))
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		errors = append(errors, "api_base_url must use http or https scheme")
	} else if parsedURL.Host == "" {
		errors = append(errors, "api_base_url must include a host")
	}

	if strings.Contains(c.Bitbucket.CloneHost, "/") {
		errors = append(errors, fmt.Sprintf("clone_host '%s' must be a bare host name", c.Bitbucket.CloneHost))
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}
