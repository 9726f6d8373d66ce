package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONToFile(t *testing.T) {
	t.Setenv(EnvLevel, "")
	path := filepath.Join(t.TempDir(), "logs", "harmoniq.log")

	logger, closer, err := New(Config{Level: "debug", Format: "json", File: path})
	require.NoError(t, err)

	Component(logger, "synchronizer").WithField("group_id", 4).Debug("persisted")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &line))
	assert.Equal(t, "synchronizer", line["component"])
	assert.Equal(t, float64(4), line["group_id"])
	assert.Equal(t, "persisted", line["msg"])
}

func TestLevelFromEnvironment(t *testing.T) {
	t.Setenv(EnvLevel, "warn")

	logger, closer, err := New(Config{Level: "debug"})
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	t.Setenv(EnvLevel, "")

	logger, _, err := New(Config{Level: "chatty"})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
