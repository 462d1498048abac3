package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{" WARN ", zerolog.WarnLevel, false},
		{"trace", zerolog.TraceLevel, false},
		{"loud", zerolog.NoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestInitJSON(t *testing.T) {
	t.Cleanup(func() { _ = Init(DefaultConfig()) })

	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "info", Format: "json", Output: &buf}))

	Debug().Msg("hidden")
	Info().Str("customer", "ANA").Msg("scored")
	l := With("ingest")
	l.Warn().Msg("row dropped")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "scored", first["message"])
	assert.Equal(t, "ANA", first["customer"])
	assert.Equal(t, "info", first["level"])

	var second map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.Equal(t, "ingest", second["component"])
}

func TestInitInvalidLevelKeepsLogger(t *testing.T) {
	t.Cleanup(func() { _ = Init(DefaultConfig()) })

	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "warn", Format: "json", Output: &buf}))
	require.Error(t, Init(Config{Level: "loud", Output: &bytes.Buffer{}}))

	Error().Msg("still here")
	assert.Contains(t, buf.String(), "still here")
}

func TestCtx(t *testing.T) {
	t.Cleanup(func() { _ = Init(DefaultConfig()) })

	var global, scoped bytes.Buffer
	require.NoError(t, Init(Config{Level: "info", Format: "json", Output: &global}))

	Ctx(context.Background()).Info().Msg("to global")
	assert.Contains(t, global.String(), "to global")

	ctx := WithContext(context.Background(), zerolog.New(&scoped))
	Ctx(ctx).Info().Msg("to scoped")
	assert.Contains(t, scoped.String(), "to scoped")
	assert.NotContains(t, global.String(), "to scoped")
}
