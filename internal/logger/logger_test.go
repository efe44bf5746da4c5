package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/S0me0neR0man/homebox/internal/config"
)

func TestNew(t *testing.T) {
	l, err := New(config.Logging{Level: "warn"})
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(zapcore.InfoLevel))
	require.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = New(config.Logging{Level: "debug", Development: true})
	require.NoError(t, err)
	require.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = New(config.Logging{Level: "loud"})
	require.Error(t, err)
}
