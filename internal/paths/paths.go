// Package paths resolves configuration, data, and log directory locations.
// Implements: prd008-configuration-directories (R1-R4);
//
//	rel01.1-uc003-configuration-loading (F1-F5).
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative directory names per prd008 R2 and R3.
const (
	DefaultDataDirName = ".abacus-db"
	DefaultLogDirName  = "logs"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "ABACUS_CONFIG_DIR"
	EnvDataDir   = "ABACUS_DATA_DIR"
	EnvLogDir    = "ABACUS_LOG_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/abacus (fallback ~/.config/abacus)
// macOS:   ~/Library/Application Support/abacus
// Windows: %APPDATA%/abacus
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "abacus"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "abacus"), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "abacus"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > ABACUS_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > ABACUS_DATA_DIR env > $(CWD)/.abacus-db.
//
// The CWD-relative default keeps the store next to wherever the service was
// launched, which is the primary mode for local runs.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ResolveLogDir returns the log directory following the precedence chain:
// flag > configYAMLValue > ABACUS_LOG_DIR env > $(CWD)/logs.
func ResolveLogDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvLogDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultLogDirName), nil
}
