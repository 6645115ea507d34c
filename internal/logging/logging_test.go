package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/indigo-web/oneshot/config"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		buff := new(bytes.Buffer)
		New(config.Log{Level: "info", Format: "text"}, buff).Info("served", "code", 200)
		require.Contains(t, buff.String(), "msg=served")
		require.Contains(t, buff.String(), "code=200")
	})

	t.Run("json", func(t *testing.T) {
		buff := new(bytes.Buffer)
		New(config.Log{Level: "info", Format: "json"}, buff).Info("served", "code", 200)

		var record map[string]any
		require.NoError(t, json.Unmarshal(buff.Bytes(), &record))
		require.Equal(t, "served", record["msg"])
		require.Equal(t, float64(200), record["code"])
	})

	t.Run("level filtering", func(t *testing.T) {
		buff := new(bytes.Buffer)
		logger := New(config.Log{Level: "warn", Format: "text"}, buff)
		logger.Info("hidden")
		require.Empty(t, buff.String())
		logger.Warn("shown")
		require.Contains(t, buff.String(), "shown")
	})
}

func TestLevelFromString(t *testing.T) {
	require.Equal(t, slog.LevelDebug, LevelFromString("DEBUG"))
	require.Equal(t, slog.LevelWarn, LevelFromString("warning"))
	require.Equal(t, slog.LevelError, LevelFromString("error"))
	require.Equal(t, slog.LevelInfo, LevelFromString("nonsense"))
}

func TestDiscard(t *testing.T) {
	require.False(t, Discard().Enabled(context.Background(), slog.LevelError))
}
