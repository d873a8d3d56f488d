package logger

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetailedLoggerFromContext(t *testing.T) {
	t.Run("returns the logger stored by NewLogger", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
		ctx.Request = httptest.NewRequest("GET", "http://example.com/foo", nil)

		_, err := NewLogger(ctx)
		require.NoError(t, err)

		stored, ok := ctx.Value(CtxDetailedLoggerKey).(*DetailedLogger)
		require.True(t, ok)

		assert.Same(t, stored, DetailedLoggerFromContext(ctx))
	})

	t.Run("falls back to a fresh logger on a plain context", func(t *testing.T) {
		l := DetailedLoggerFromContext(context.Background())
		assert.NotNil(t, l)
	})
}

func TestDetailedLoggerLogsWithoutCloudSink(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest("GET", "http://example.com/foo", nil)

	_, err := NewLogger(ctx)
	require.NoError(t, err)

	l := DetailedLoggerFromContext(ctx)

	l.Info("hello world")
	l.Infof("testing... %d", 42)
	l.Warningln("warn")
}
