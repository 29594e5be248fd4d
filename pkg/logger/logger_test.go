package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextCarriesLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core)).WithComponent("batch")

	ctx := WithLogger(context.Background(), l)
	Warn(ctx, "invoice skipped", "invoice_id", "INV-1")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "invoice skipped", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "batch", fields["component"])
	assert.Equal(t, "INV-1", fields["invoice_id"])
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, Default(), FromContext(context.Background()))
}

func TestNewParsesLevel(t *testing.T) {
	l, err := New(Config{Level: "bogus", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	assert.True(t, l.Desugar().Core().Enabled(zap.InfoLevel))
	assert.False(t, l.Desugar().Core().Enabled(zap.DebugLevel))
}
