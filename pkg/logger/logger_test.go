package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestErrorErrAddsErrorField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{logger: zap.New(core).Sugar()}

	l.ErrorErr("course fetch failed", errors.New("timeout"), "course_id", "c1")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "timeout", ctx["error"])
		assert.Equal(t, "c1", ctx["course_id"])
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	}
}

func TestNewFallsBackToProductionConfig(t *testing.T) {
	for _, env := range []string{envLocal, envDev, envProd, "unknown"} {
		l := New(env)
		assert.NotNil(t, l)
		l.Debug("hello", "env", env)
	}
}

func TestWithAddsFieldsToChild(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{logger: zap.New(core).Sugar()}

	child := l.With("path", "/v1/progress", "status", 404)
	child.Debug("HTTP request error", "err", "lesson not found")
	l.Info("plain")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "/v1/progress", ctx["path"])
		assert.EqualValues(t, 404, ctx["status"])
		assert.Equal(t, "lesson not found", ctx["err"])
		assert.NotContains(t, entries[1].ContextMap(), "path")
	}
}
