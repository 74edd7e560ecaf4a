package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	lvl, ok := ParseLevel("debug")
	assert.True(t, ok)
	assert.Equal(t, zapcore.DebugLevel, lvl)

	lvl, ok = ParseLevel("")
	assert.True(t, ok)
	assert.Equal(t, zapcore.InfoLevel, lvl)

	lvl, ok = ParseLevel("verbose")
	assert.False(t, ok)
	assert.Equal(t, zapcore.InfoLevel, lvl)
}
