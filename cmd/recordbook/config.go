// Config loading for the recordbook CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/helpachild/recordbook/internal/paths"
	"github.com/helpachild/recordbook/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyBackend   = "backend"
	cfgKeyDataDir   = "data_dir"
	cfgKeyExportDir = "export_dir"
	cfgKeyListen    = "listen"

	// defaultListen matches the original deployment address.
	defaultListen = "127.0.0.1:5000"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Recordbook configuration

# Backend selection: file or sqlite
backend: file

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Export directory for generated spreadsheets (default: <data_dir>/exports)
# export_dir:

# HTTP listen address
listen: 127.0.0.1:5000
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper, creating the directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendFile)
	v.SetDefault(cfgKeyListen, defaultListen)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// resolveStoreConfig assembles the store Config and listen address from
// flags, environment, and config.yaml following the paths precedence.
func resolveStoreConfig() (types.Config, string, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return types.Config{}, "", fmt.Errorf("resolve config dir: %w", err)
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return types.Config{}, "", err
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, "", fmt.Errorf("resolve data dir: %w", err)
	}

	exportDir := v.GetString(cfgKeyExportDir)
	if exportDir == "" {
		exportDir = filepath.Join(dataDir, "exports")
	}

	cfg := types.Config{
		Backend:   v.GetString(cfgKeyBackend),
		DataDir:   dataDir,
		ExportDir: exportDir,
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, "", err
	}
	return cfg, v.GetString(cfgKeyListen), nil
}
