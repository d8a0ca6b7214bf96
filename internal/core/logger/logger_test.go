package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"doggy-rescue/internal/core/config"
)

func TestToWriterTrimsNewlines(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	w := ToWriter(zap.New(core), zapcore.WarnLevel)

	n, err := w.Write([]byte("slow query\r\n"))
	assert.NoError(t, err)
	assert.Equal(t, len("slow query\r\n"), n)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "slow query", entries[0].Message)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	}
}

func TestToWriterRespectsLevel(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	w := ToWriter(zap.New(core), zapcore.DebugLevel)
	_, _ = w.Write([]byte("noise"))
	assert.Zero(t, logs.Len())
}

func TestFromConfigWithoutFile(t *testing.T) {
	l, cleanup := FromConfig(config.Log{Level: "bogus"})
	defer cleanup()
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}
