package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/popframe/internal/logging"
)

func jsonContext(buf *bytes.Buffer) context.Context {
	logger := logging.New(logging.Config{Level: zerolog.DebugLevel, Format: "json", Output: buf})
	return logging.WithContext(context.Background(), logger)
}

func TestWithComponent_Nests(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.WithComponent(jsonContext(&buf), "preview")
	ctx = logging.WithComponent(ctx, "popup")
	assert.Equal(t, "preview.popup", logging.Component(ctx))

	logging.FromContext(ctx).Info().Msg("spawned")

	line := strings.TrimSpace(buf.String())
	assert.Equal(t, 1, strings.Count(line, `"component"`))

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "preview.popup", entry["component"])
	assert.Equal(t, "spawned", entry["message"])
}

func TestWithContext_ResetsComponent(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.WithComponent(jsonContext(&buf), "preview")

	var other bytes.Buffer
	ctx = logging.WithContext(ctx, logging.New(logging.Config{Level: zerolog.InfoLevel, Format: "json", Output: &other}))
	assert.Empty(t, logging.Component(ctx))

	logging.FromContext(logging.WithComponent(ctx, "config")).Info().Msg("reloaded")
	assert.Empty(t, buf.String())
	assert.Contains(t, other.String(), `"component":"config"`)
}

func TestFromContext_Disabled(t *testing.T) {
	ctx := logging.WithComponent(context.Background(), "simulate")
	assert.Equal(t, "simulate", logging.Component(ctx))
	assert.Equal(t, zerolog.Disabled, logging.FromContext(ctx).GetLevel())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, logging.ParseLevel(" TRACE "))
	assert.Equal(t, zerolog.WarnLevel, logging.ParseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, logging.ParseLevel("bogus"))
}
