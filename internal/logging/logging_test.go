package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/wardrobe-stylist/internal/config"
)

func restoreLogger(t *testing.T) {
	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})
}

func TestSetup_JSON(t *testing.T) {
	restoreLogger(t)
	var buf bytes.Buffer

	closer, err := setup(config.LoggingConfig{Level: "warn", Format: "json"}, false, &buf)
	require.NoError(t, err)
	defer closer.Close()

	log.Info().Msg("hidden")
	log.Warn().Str("operation", "load").Msg("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"operation":"load"`)
}

func TestSetup_InvalidLevel(t *testing.T) {
	restoreLogger(t)
	_, err := setup(config.LoggingConfig{Level: "loud"}, false, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestSetup_File(t *testing.T) {
	restoreLogger(t)
	path := filepath.Join(t.TempDir(), "stylist.log")

	closer, err := setup(config.LoggingConfig{
		Level:        "info",
		Format:       "json",
		File:         path,
		MaxAge:       24 * time.Hour,
		RotationTime: time.Hour,
	}, true, &bytes.Buffer{})
	require.NoError(t, err)

	log.Info().Msg("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
