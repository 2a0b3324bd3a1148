package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	home, cleanup := tempDir(t)
	defer cleanup()

	require.NoError(t, ioutil.WriteFile(filepath.Join(home, configFile), []byte(`
log_level = "debug"
log_file = "bazaar.log"
`), 0600))

	conf, err := loadConfig(home)
	require.NoError(t, err)
	assert.Equal(t, "debug", conf.LogLevel)
	assert.Equal(t, "bazaar.log", conf.LogFile)
	// not present in the file
	assert.Equal(t, "data", conf.DBDir)
	assert.Equal(t, filepath.Join(home, "data"), conf.dbDir(home))
	assert.Equal(t, 100, conf.LogMaxSizeMB)
}

func TestWriteConfigKeepsExisting(t *testing.T) {
	home, cleanup := tempDir(t)
	defer cleanup()

	custom := DefaultConfig()
	custom.LogLevel = "error"
	require.NoError(t, writeConfig(home, custom))
	require.NoError(t, writeConfig(home, DefaultConfig()))

	conf, err := loadConfig(home)
	require.NoError(t, err)
	assert.Equal(t, "error", conf.LogLevel)
}

func TestConfigMissingFile(t *testing.T) {
	home, cleanup := tempDir(t)
	defer cleanup()

	_, err := loadConfig(home)
	assert.Error(t, err)
}

func TestLoggerWritesToFile(t *testing.T) {
	home, cleanup := tempDir(t)
	defer cleanup()

	conf := DefaultConfig()
	conf.LogFile = "bazaar.log"
	conf.LogLevel = "info"
	logger, closer, err := conf.logger(home)
	require.NoError(t, err)

	logger.Debug("filtered out")
	logger.Info("escrow created", "salt", 1)
	require.NoError(t, closer.Close())

	raw, err := ioutil.ReadFile(filepath.Join(home, "bazaar.log"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "escrow created")
	assert.NotContains(t, string(raw), "filtered out")
}

func TestLoggerInvalidLevel(t *testing.T) {
	conf := DefaultConfig()
	conf.LogLevel = "loud"
	_, _, err := conf.logger(os.TempDir())
	assert.Error(t, err)
}
