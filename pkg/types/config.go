package types

import "errors"

// Config holds the service settings assembled by the CLI from flags, the
// config file, and defaults.
type Config struct {
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`
	DataDir    string `json:"data_dir" yaml:"data_dir"`
	LogDir     string `json:"log_dir" yaml:"log_dir"`
}

// Default configuration values.
const (
	DefaultListenAddr = ":8496"
	DefaultDataDir    = ".abacus-db"
	DefaultLogDir     = "logs"
)

// Config validation errors.
var (
	ErrListenAddrEmpty = errors.New("listen_addr must not be empty")
	ErrDataDirEmpty    = errors.New("data_dir must not be empty")
	ErrLogDirEmpty     = errors.New("log_dir must not be empty")
)

// WithDefaults returns a copy of the Config with empty fields replaced by the
// package defaults.
func (c Config) WithDefaults() Config {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.LogDir == "" {
		c.LogDir = DefaultLogDir
	}
	return c
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return ErrListenAddrEmpty
	}
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.LogDir == "" {
		return ErrLogDirEmpty
	}
	return nil
}
