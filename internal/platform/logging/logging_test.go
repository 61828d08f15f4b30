package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogurasousui/codex-employee-directory/internal/platform/config"
)

func TestSetupWithWriter_JSON(t *testing.T) {
	assert := assert.New(t)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	require.NoError(t, SetupWithWriter(config.LogConfig{Level: "warn", Format: "json"}, &buf))

	log.Info().Msg("dropped")
	log.Warn().Str("component", "test").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal("kept", entry["message"])
	assert.Equal("warn", entry["level"])
	assert.Equal("test", entry["component"])
}

func TestSetupWithWriter_Errors(t *testing.T) {
	assert := assert.New(t)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	assert.Error(SetupWithWriter(config.LogConfig{Level: "loud"}, &buf))
	assert.Error(SetupWithWriter(config.LogConfig{Level: "info", Format: "xml"}, &buf))
	assert.NoError(SetupWithWriter(config.LogConfig{Level: "INFO", Format: "console"}, &buf))
}
