package domain

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

// ServerName is the key this server is registered under in the
// mcpServers block of the settings file.
const ServerName = "bitbucket-mcp-server"

// settingsRelPath is the settings file location relative to the home directory.
const settingsRelPath = ".claude/settings.json"

// Credential field names. The same four names are used as keys in the
// settings file env block and as environment variable names.
const (
	EnvUsername    = "BITBUCKET_USERNAME"
	EnvWorkspace   = "BITBUCKET_WORKSPACE"
	EnvAPIToken    = "BITBUCKET_API_TOKEN"
	EnvAppPassword = "BITBUCKET_APP_PASSWORD"
)

// SecretKind identifies which of the two supported credential forms was
// resolved for use.
type SecretKind int

const (
	// SecretAPIToken is a long-lived Atlassian API token.
	SecretAPIToken SecretKind = iota
	// SecretAppPassword is a legacy Bitbucket app password.
	SecretAppPassword
)

// String returns the string representation of SecretKind.
func (k SecretKind) String() string {
	switch k {
	case SecretAPIToken:
		return "api_token"
	case SecretAppPassword:
		return "app_password"
	default:
		return "unknown"
	}
}

// ResolvedIdentity is the single credential identity for the process.
// It is created once at startup, passed into every handler constructor,
// and never mutated.
type ResolvedIdentity struct {
	Username   string
	Secret     string
	Workspace  string
	SecretKind SecretKind
}

// settingsFile mirrors the subset of ~/.claude/settings.json we read.
type settingsFile struct {
	MCPServers map[string]serverSettings `json:"mcpServers"`
}

type serverSettings struct {
	Env map[string]string `json:"env"`
}

// ResolveCredentials produces the process identity from the settings file
// and the environment. Settings file values win field by field; a missing
// or unparsable settings file is logged and treated as empty. The chosen
// secret kind is logged; the secret value never is.
func ResolveCredentials(logger *slog.Logger) (*ResolvedIdentity, error) {
	return resolveIdentity(loadSettingsEnv(logger), os.Getenv, logger)
}

// loadSettingsEnv reads the env block for this server from the settings
// file. Absence and parse failures are warnings, not errors: resolution
// continues against the process environment.
func loadSettingsEnv(logger *slog.Logger) map[string]string {
	home, err := os.UserHomeDir()
	if err != nil {
		logger.Warn("cannot determine home directory, using environment only", "error", err)
		return nil
	}

	path := filepath.Join(home, settingsRelPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("cannot read settings file, using environment only", "path", path, "error", err)
		}
		return nil
	}

	var settings settingsFile
	if err := json.Unmarshal(data, &settings); err != nil {
		logger.Warn("settings file is not valid JSON, using environment only", "path", path, "error", err)
		return nil
	}

	return settings.MCPServers[ServerName].Env
}

// resolveIdentity is the pure core of credential resolution, split out so
// tests can drive it with synthetic settings and environments.
func resolveIdentity(settings map[string]string, getenv func(string) string, logger *slog.Logger) (*ResolvedIdentity, error) {
	lookup := func(key string) string {
		if v := settings[key]; v != "" {
			return v
		}
		return getenv(key)
	}

	username := lookup(EnvUsername)
	if username == "" {
		return nil, missingFieldError(EnvUsername)
	}

	workspace := lookup(EnvWorkspace)
	if workspace == "" {
		return nil, missingFieldError(EnvWorkspace)
	}

	identity := &ResolvedIdentity{
		Username:  username,
		Workspace: workspace,
	}

	// An API token takes precedence over an app password when both are set.
	switch {
	case lookup(EnvAPIToken) != "":
		identity.Secret = lookup(EnvAPIToken)
		identity.SecretKind = SecretAPIToken
	case lookup(EnvAppPassword) != "":
		identity.Secret = lookup(EnvAppPassword)
		identity.SecretKind = SecretAppPassword
	default:
		return nil, NewConfigurationError(
			"no Bitbucket secret configured: set %s (preferred) or %s under mcpServers[%q].env in ~/%s, or export either as an environment variable",
			EnvAPIToken, EnvAppPassword, ServerName, settingsRelPath)
	}

	logger.Info("resolved Bitbucket credentials",
		"username", identity.Username,
		"workspace", identity.Workspace,
		"secret_kind", identity.SecretKind.String())

	return identity, nil
}

// missingFieldError names the missing field and both of its resolution paths.
func missingFieldError(field string) *ConfigurationError {
	return NewConfigurationError(
		"%s is not configured: set it under mcpServers[%q].env in ~/%s or export the %s environment variable",
		field, ServerName, settingsRelPath, field)
}
