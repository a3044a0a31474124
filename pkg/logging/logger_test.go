package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewHonoursEnvLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	log := New("")
	assert.False(t, log.Desugar().Core().Enabled(zapcore.WarnLevel))
	assert.True(t, log.Desugar().Core().Enabled(zapcore.ErrorLevel))

	log = New("debug")
	assert.True(t, log.Desugar().Core().Enabled(zapcore.DebugLevel))
}
