package handler

import (
	"fmt"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/roast/domain"
	"github.com/fastygo/roast/pkg/httpcontext"
	appLogger "github.com/fastygo/roast/pkg/logger"
)

// FallbackHandler answers requests the router could not dispatch, still
// wrapped in an envelope.
type FallbackHandler struct {
	baseHandler
}

func NewFallbackHandler(adapter *httpcontext.Adapter, serializers Serializers, logger *zap.Logger) *FallbackHandler {
	return &FallbackHandler{baseHandler: newBaseHandler(adapter, serializers, logger)}
}

func (h *FallbackHandler) NotFound(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()
	h.respondError(stdCtx, ctx, domain.NewError(domain.ErrCodeNotFound, fmt.Sprintf("no route for %s %s", ctx.Method(), ctx.Path())))
}

func (h *FallbackHandler) MethodNotAllowed(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result := domain.NewResult().SetStatusFail()
	message, _ := domain.NewMessage(fmt.Sprintf("method %s not allowed", ctx.Method()), http.StatusMethodNotAllowed, "")
	result.AddMessage(message)
	appLogger.WithRequestID(stdCtx, h.logger).Debug("method not allowed", zap.ByteString("method", ctx.Method()), zap.ByteString("path", ctx.Path()))
	h.respondResult(stdCtx, ctx, http.StatusMethodNotAllowed, result)
}

// Panic turns a handler panic into an error envelope.
func (h *FallbackHandler) Panic(ctx *fasthttp.RequestCtx, recovered interface{}) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()
	h.respondError(stdCtx, ctx, domain.NewError(domain.ErrCodeInternal, fmt.Sprintf("internal error: %v", recovered)))
}
