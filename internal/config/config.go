// Package config resolves the server's home directory and options.
//
// Resolution order for the home directory: the --home flag, the
// MAGIC_NOTE_HOME environment variable, then ~/.magic-note. A default
// config.yaml is written on first run; a missing one is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// EnvHome overrides the default home directory.
	EnvHome = "MAGIC_NOTE_HOME"

	cfgKeyDataDir           = "data_dir"
	cfgKeyStrictTransitions = "strict_transitions"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# Magic Note configuration

# Where notes and workflows are stored (default: <home>/data)
# data_dir:

# Reject workflow status updates that skip the intended lifecycle
# (draft -> ready -> active -> paused/blocked -> completed/failed/cancelled).
# The stored data stays permissive either way.
strict_transitions: false
`

// Config holds the resolved server settings.
type Config struct {
	Home              string
	DataDir           string
	StrictTransitions bool
}

// ResolveHome determines the home directory from the flag value, the
// environment, or the per-user default.
func ResolveHome(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv(EnvHome); env != "" {
		return env, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving user home: %w", err)
	}
	return filepath.Join(userHome, ".magic-note"), nil
}

// Load reads config.yaml from the home directory, creating the directory
// and a default config on first run.
func Load(home string) (*Config, error) {
	if err := os.MkdirAll(home, 0o755); err != nil {
		return nil, fmt.Errorf("creating home directory: %w", err)
	}
	if err := ensureDefaultConfigFile(home); err != nil {
		return nil, fmt.Errorf("ensuring default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyDataDir, filepath.Join(home, "data"))
	v.SetDefault(cfgKeyStrictTransitions, false)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(home)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{
		Home:              home,
		DataDir:           v.GetString(cfgKeyDataDir),
		StrictTransitions: v.GetBool(cfgKeyStrictTransitions),
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(home, "data")
	}
	return cfg, nil
}

// ensureDefaultConfigFile creates a default config.yaml if none exists.
func ensureDefaultConfigFile(home string) error {
	path := filepath.Join(home, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
