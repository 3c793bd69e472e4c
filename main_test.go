package main

import (
	"os"
	"testing"

	"github.com/FernandoDevOps/bitbucket-mcp-server/internal/domain"
)

// TestConfigurationLoading tests that configuration can be loaded successfully
func TestConfigurationLoading(t *testing.T) {
	configContent := `
transport:
  type: stdio

bitbucket:
  api_base_url: https://api.bitbucket.example.com/2.0
  clone_host: bitbucket.example.com
`

	tmpFile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString(configContent); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	tmpFile.Close()

	config, err := domain.LoadConfig(tmpFile.Name())
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if config.Transport.Type != "stdio" {
		t.Errorf("Expected transport type 'stdio', got '%s'", config.Transport.Type)
	}
	if config.Bitbucket.APIBaseURL != "https://api.bitbucket.example.com/2.0" {
		t.Errorf("Unexpected API base URL: %s", config.Bitbucket.APIBaseURL)
	}
	if config.Bitbucket.CloneHost != "bitbucket.example.com" {
		t.Errorf("Unexpected clone host: %s", config.Bitbucket.CloneHost)
	}
}

// TestDefaultConfiguration tests that a missing config file yields the
// built-in defaults.
func TestDefaultConfiguration(t *testing.T) {
	config, err := domain.LoadConfig("/nonexistent/config.yaml")
	if err != nil {
		t.Fatalf("Expected defaults for a missing file, got: %v", err)
	}

	if config.Transport.Type != "stdio" {
		t.Errorf("Expected default transport 'stdio', got '%s'", config.Transport.Type)
	}
	if config.Bitbucket.APIBaseURL != domain.DefaultAPIBaseURL {
		t.Errorf("Expected default API base URL, got '%s'", config.Bitbucket.APIBaseURL)
	}
	if config.Bitbucket.CloneHost != domain.DefaultCloneHost {
		t.Errorf("Expected default clone host, got '%s'", config.Bitbucket.CloneHost)
	}
}
