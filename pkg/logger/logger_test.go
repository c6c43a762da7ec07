package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/feedback-api/pkg/config"
)

func TestBuildConfigFallsBackToInfoOnBadLevel(t *testing.T) {
	cfg := &config.Config{Env: config.EnvProduction, Log: config.LogConfig{Level: "loud", Format: "console"}}

	zapCfg := buildConfig(cfg)

	assert.Equal(t, "console", zapCfg.Encoding)
	assert.Equal(t, zapcore.InfoLevel, zapCfg.Level.Level())
	assert.Equal(t, "timestamp", zapCfg.EncoderConfig.TimeKey)
}

func TestGinMiddlewareOmitsClientAddress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(GinMiddleware(zap.New(core)))
	r.POST("/feedback/submit", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodPost, "/feedback/submit", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	fields := entry.ContextMap()
	assert.Equal(t, "/feedback/submit", fields["path"])
	assert.EqualValues(t, http.StatusCreated, fields["status"])
	_, hasIP := fields["ip"]
	assert.False(t, hasIP)
}
