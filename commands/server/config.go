package server

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/crypto-guardian/custody/errors"
)

// ConfigFile is the name of the daemon configuration file in home.
const ConfigFile = "custodyd.toml"

// Config holds the daemon settings. Values are read from the TOML file and
// may be overridden with command line flags.
type Config struct {
	// Bind is the address the ABCI socket server listens on.
	Bind string `toml:"bind"`
	// Debug returns stack traces in failed tx logs.
	Debug bool `toml:"debug"`
	// MetricsAddr serves prometheus metrics when not empty.
	MetricsAddr string `toml:"metrics_addr"`
	// LogLevel is one of debug, info, error or none.
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns the settings used when no configuration file
// exists.
func DefaultConfig() Config {
	return Config{
		Bind:        "tcp://localhost:26658",
		MetricsAddr: "localhost:26680",
		LogLevel:    "info",
	}
}

// LoadConfig reads the configuration from given path. Keys missing from the
// file keep their default values and a missing file is not an error.
func LoadConfig(path string) (Config, error) {
	conf := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return conf, nil
	}

	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return conf, errors.Wrapf(errors.ErrInput, "load %s: %s", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return conf, errors.Wrapf(errors.ErrInput, "unknown key %q in %s", undecoded[0].String(), path)
	}

	if meta.IsDefined("bind") {
		conf.Bind = raw.Bind
	}
	if meta.IsDefined("debug") {
		conf.Debug = raw.Debug
	}
	if meta.IsDefined("metrics_addr") {
		conf.MetricsAddr = raw.MetricsAddr
	}
	if meta.IsDefined("log_level") {
		conf.LogLevel = raw.LogLevel
	}
	return conf, nil
}

// DefaultConfigPath returns the location of the configuration file in home.
func DefaultConfigPath(home string) string {
	return filepath.Join(home, ConfigFile)
}
