package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestInitWritesJSONToOutput(t *testing.T) {
	var buf bytes.Buffer
	closer, err := Init(Config{Level: "debug", Format: "json", Output: &buf})
	require.NoError(t, err)
	defer closer.Close()
	defer Init(Config{Output: &bytes.Buffer{}})

	logger := Component("scheduler")
	logger.Debug().Str("kind", "primary").Msg("fetched")

	line := buf.String()
	require.Contains(t, line, `"component":"scheduler"`)
	require.Contains(t, line, `"kind":"primary"`)
	require.Contains(t, line, `"message":"fetched"`)
}

func TestInitOpensLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "taskdeck.log")
	closer, err := Init(Config{Level: "info", Format: "json", File: path})
	require.NoError(t, err)

	Logger.Info().Msg("hello")
	require.NoError(t, closer.Close())
	defer Init(Config{Output: &bytes.Buffer{}})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "hello"))
}

func TestWithOpAddsField(t *testing.T) {
	var buf bytes.Buffer
	logger := WithOp(zerolog.New(&buf), "op-123")
	logger.Error().Msg("mutation failed")
	require.Contains(t, buf.String(), `"op_id":"op-123"`)
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, zerolog.WarnLevel, parseLevel("warning"))
	require.Equal(t, zerolog.InfoLevel, parseLevel("bogus"))
	require.True(t, ValidLevel("trace"))
	require.False(t, ValidLevel("loud"))
}
