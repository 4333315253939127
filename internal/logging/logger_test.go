package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingBeforeInitDoesNotPanic(t *testing.T) {
	SetLogger(nil)

	assert.NotPanics(t, func() {
		Info("clan created", "clan_id", "c1")
		Warn("cache miss")
	})
}

func TestWithRequestCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	SetLogger(zap.New(core).Sugar())
	t.Cleanup(func() { SetLogger(nil) })

	WithRequest("req-1", "u1", "/api/v1/clans").Infow("handled")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "req-1", ctx["request_id"])
		assert.Equal(t, "u1", ctx["user_id"])
		assert.Equal(t, "/api/v1/clans", ctx["endpoint"])
	}
}
