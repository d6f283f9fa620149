// Config loading for the abacus CLI.
// Implements: prd008-configuration-directories (R4, R5);
//
//	rel01.1-uc003-configuration-loading (F3, F4).
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/abacus/internal/paths"
	"github.com/mesh-intelligence/abacus/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys matching prd008 R4.
	cfgKeyListenAddr = "listen_addr"
	cfgKeyDataDir    = "data_dir"
	cfgKeyLogDir     = "log_dir"
)

// defaultConfigYAML is the content written to config.yaml on first run
// per prd008 R5.
const defaultConfigYAML = `# Abacus service configuration
# See prd008-configuration-directories for details.

# Address the calculator API listens on
listen_addr: ":8496"

# Data directory for the relational and document tapes
# (optional; overridable by --data-dir)
# data_dir:

# Log directory (optional; overridable by --log-dir)
# log_dir:
`

// loadConfig reads config.yaml from the resolved config directory using Viper.
// It creates the config directory and a default config.yaml on first run.
// A missing config.yaml is not an error (prd008 R5.2).
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyListenAddr, types.DefaultListenAddr)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Missing config.yaml is not an error (prd008 R5.2).
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureConfigDir creates the config directory if it does not exist (prd008 R5.1).
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory (prd008 R5.1, R5.3).
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		// File already exists.
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// buildConfig assembles the service configuration following the precedence
// chain flag > config.yaml > environment > default for each directory, and
// flag > config.yaml > default for the listen address.
func buildConfig(listenFlag string) (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve config dir: %w", err)
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return types.Config{}, err
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}

	logDir, err := paths.ResolveLogDir(flags.logDir, v.GetString(cfgKeyLogDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve log dir: %w", err)
	}

	listenAddr := listenFlag
	if listenAddr == "" {
		listenAddr = v.GetString(cfgKeyListenAddr)
	}

	cfg := types.Config{
		ListenAddr: listenAddr,
		DataDir:    dataDir,
		LogDir:     logDir,
	}.WithDefaults()

	return cfg, cfg.Validate()
}
