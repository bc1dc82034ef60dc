package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestConfig(t *testing.T) {
	for _, format := range []string{"", "console", "JSON"} {
		apply, err := Config(format, zapcore.WarnLevel)
		require.NoError(t, err, format)

		cfg := zap.NewProductionConfig()
		apply(&cfg)
		assert.Equal(t, zapcore.WarnLevel, cfg.Level.Level())
		if format == "JSON" {
			assert.Equal(t, "json", cfg.Encoding)
		} else {
			assert.Equal(t, "console", cfg.Encoding)
		}
	}

	_, err := Config("xml", zapcore.InfoLevel)
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)

	lvl, err = ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)

	_, err = ParseLevel("loud")
	require.Error(t, err)
}
