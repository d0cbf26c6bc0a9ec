package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}
	for _, test := range tests {
		level, err := ParseLevel(test.in)
		require.NoError(t, err, test.in)
		assert.Equal(t, test.want, level, test.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestSetup(t *testing.T) {
	defer Setup(&bytes.Buffer{}, zerolog.InfoLevel)

	var buf bytes.Buffer
	Setup(&buf, zerolog.WarnLevel)
	Info().Msg("hidden")
	Warn().Str("file", "a.png").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "file=a.png")
	assert.NotContains(t, out, "\x1b[", "non-terminal output has no color codes")
}

func TestLogPanicValue(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	LogPanicValue(&logger, errors.New("bad row"), "recovered from panic")
	assert.Contains(t, buf.String(), `"error":"bad row"`)
	assert.Contains(t, buf.String(), `"stack":[`)
	assert.Contains(t, buf.String(), "recovered from panic")

	buf.Reset()
	LogPanicValue(&logger, "plain value", "recovered from panic")
	assert.Contains(t, buf.String(), `"recovered":"plain value"`)
	assert.Contains(t, buf.String(), `"stack":[`)
}
