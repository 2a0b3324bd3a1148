package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/tendermint/tendermint/libs/log"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

const configFile = "config.toml"

// Config is the content of the config.toml file in the node home directory.
type Config struct {
	// DBDir is the directory of the state database, relative to the home
	// directory unless absolute.
	DBDir string `toml:"db_dir"`
	// LogLevel filters log entries, for example "info" or
	// "main:info,state:debug,*:error".
	LogLevel string `toml:"log_level"`
	// LogFile is where logs are written to. Logs go to stderr when empty.
	LogFile string `toml:"log_file"`
	// LogMaxSizeMB is the size of a log file before it is rotated.
	LogMaxSizeMB int `toml:"log_max_size_mb"`
	// LogMaxBackups is the number of rotated log files kept.
	LogMaxBackups int `toml:"log_max_backups"`
	// Debug includes internal error details in results.
	Debug bool `toml:"debug"`
}

// DefaultConfig returns the configuration written by init.
func DefaultConfig() Config {
	return Config{
		DBDir:         "data",
		LogLevel:      "info",
		LogMaxSizeMB:  100,
		LogMaxBackups: 3,
	}
}

// loadConfig reads the configuration from the home directory. Missing
// values are set to their defaults.
func loadConfig(home string) (*Config, error) {
	conf := DefaultConfig()
	path := filepath.Join(home, configFile)
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return nil, fmt.Errorf("cannot read %q: %s", path, err)
	}
	return &conf, nil
}

// writeConfig stores the configuration in the home directory unless a
// configuration file exists already.
func writeConfig(home string, conf Config) error {
	path := filepath.Join(home, configFile)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	fd, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("cannot create %q: %s", path, err)
	}
	defer fd.Close()
	if err := toml.NewEncoder(fd).Encode(conf); err != nil {
		return fmt.Errorf("cannot write %q: %s", path, err)
	}
	return fd.Close()
}

// dbDir returns the absolute database directory.
func (c *Config) dbDir(home string) string {
	if filepath.IsAbs(c.DBDir) {
		return c.DBDir
	}
	return filepath.Join(home, c.DBDir)
}

// logger returns a logger writing to the configured destination, filtered
// by the configured level.
func (c *Config) logger(home string) (log.Logger, io.Closer, error) {
	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if c.LogFile != "" {
		path := c.LogFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(home, path)
		}
		rotated := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    c.LogMaxSizeMB,
			MaxBackups: c.LogMaxBackups,
		}
		w, closer = rotated, rotated
	}
	logger := log.NewTMLogger(log.NewSyncWriter(w))

	level := c.LogLevel
	if level == "" {
		level = "info"
	}
	allow, err := log.AllowLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %s", level, err)
	}
	return log.NewFilter(logger, allow).With("module", "bazaar"), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
