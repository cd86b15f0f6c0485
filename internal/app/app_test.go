package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"afsk1200/internal/config"
)

func testConfig() *config.Config {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}
	cfg.Metrics.Enabled = false
	return cfg
}

func TestNewApplication(t *testing.T) {
	app, err := NewApplication(testConfig())
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.NotNil(t, app.logger)
	assert.NotNil(t, app.modem)
	assert.NotNil(t, app.source)
}

func TestNewApplication_InvalidLogLevel(t *testing.T) {
	cfg := testConfig()
	cfg.Logging.Level = "not-a-level"
	_, err := NewApplication(cfg)
	assert.Error(t, err)
}

func TestNewApplication_UnsupportedSoundCard(t *testing.T) {
	cfg := testConfig()
	cfg.Audio.Driver = "soundcard"
	_, err := NewApplication(cfg)
	assert.Error(t, err)
}

func TestShowVersion(t *testing.T) {
	assert.NotPanics(t, func() {
		ShowVersion()
	})
}

func TestApplication_SendFrame(t *testing.T) {
	app, err := NewApplication(testConfig())
	require.NoError(t, err)

	err = app.SendFrame([]byte{0x01, 0x02, 0x03})
	assert.NoError(t, err)
	assert.True(t, app.modem.Sending())
}
