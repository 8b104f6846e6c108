package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/roast/domain"
	"github.com/fastygo/roast/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	app         string
	environment string
	started     time.Time
}

func NewHealthHandler(app, environment string, adapter *httpcontext.Adapter, serializers Serializers, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, serializers, logger),
		app:         app,
		environment: environment,
		started:     time.Now(),
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result := domain.NewResult()
	payload := map[string]interface{}{
		"app":            h.app,
		"environment":    h.environment,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"timestamp":      time.Now().UTC(),
	}
	if err := result.SetData(payload); err != nil {
		result.SetStatusError()
	}
	h.respondResult(stdCtx, ctx, http.StatusOK, result)
}
