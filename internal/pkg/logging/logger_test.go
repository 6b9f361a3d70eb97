package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	logger, err := New(Config{Level: "debug", Encoding: "console"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = New(Config{Level: "nonsense"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))

	_, err = New(Config{Encoding: "xml"})
	assert.Error(t, err)
}

func TestFromContext(t *testing.T) {
	base := zap.NewExample()
	ctx := WithLogger(context.Background(), base)

	assert.Same(t, base, FromContext(ctx, nil))
	assert.NotNil(t, FromContext(context.Background(), nil))

	fallback := zap.NewNop()
	assert.Same(t, fallback, FromContext(context.Background(), fallback))
}

func TestPrintfAdapter(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	adapter := NewPrintfAdapter(zap.New(core), true)

	adapter.Printf("applied %d migrations\n", 3)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "applied 3 migrations", logs.All()[0].Message)
	assert.True(t, adapter.Verbose())
}
