package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestWithContextFallsBackToGlobal(t *testing.T) {
	assert.Same(t, Get(), WithContext(context.Background()))

	var buf bytes.Buffer
	l := zerolog.New(&buf)
	ctx := NewContext(context.Background(), &l)
	WithContext(ctx).Info().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
}
