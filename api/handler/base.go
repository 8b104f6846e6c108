package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/roast/api/transport"
	"github.com/fastygo/roast/domain"
	"github.com/fastygo/roast/pkg/httpcontext"
	appLogger "github.com/fastygo/roast/pkg/logger"
)

const (
	contentTypeJSON = "application/json"
	contentTypeYAML = "application/yaml"
)

// Serializers are the wire formats a handler can answer with.
type Serializers struct {
	JSON *transport.JSONSerializer
	YAML *transport.YAMLSerializer
}

type baseHandler struct {
	adapter     *httpcontext.Adapter
	serializers Serializers
	logger      *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, serializers Serializers, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if adapter == nil {
		adapter = httpcontext.NewAdapter(0)
	}
	if serializers.JSON == nil {
		serializers.JSON, _ = transport.NewJSONSerializer(0, transport.WithJSONLogger(logger))
	}
	if serializers.YAML == nil {
		serializers.YAML, _ = transport.NewYAMLSerializer(transport.DefaultYAMLIndent, transport.WithYAMLLogger(logger))
	}
	return baseHandler{adapter: adapter, serializers: serializers, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	return h.adapter.Attach(ctx)
}

// negotiate picks YAML when the client asks for it and JSON otherwise. The
// serializer logs its fallbacks with the request id.
func (h baseHandler) negotiate(ctx context.Context) (domain.Serializer, string) {
	logger := appLogger.WithRequestID(ctx, h.logger)
	if httpcontext.WantsYAML(ctx) {
		return h.serializers.YAML.WithLogger(logger), contentTypeYAML
	}
	return h.serializers.JSON.WithLogger(logger), contentTypeJSON
}

func (h baseHandler) respondResult(ctx context.Context, reqCtx *fasthttp.RequestCtx, status int, result *domain.Result) {
	serializer, contentType := h.negotiate(ctx)
	reqCtx.Response.Header.SetContentType(contentType)
	reqCtx.SetStatusCode(status)
	reqCtx.SetBodyString(result.SerializeWith(serializer))
}

// respondOutcome answers with the HTTP status matching the result status.
func (h baseHandler) respondOutcome(ctx context.Context, reqCtx *fasthttp.RequestCtx, result *domain.Result) {
	h.respondResult(ctx, reqCtx, statusFor(result), result)
}

func (h baseHandler) respondError(ctx context.Context, reqCtx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	appLogger.WithRequestID(ctx, h.logger).Warn("request failed",
		zap.Int("status", status),
		zap.String("code", string(code)),
		zap.Error(err),
	)

	result := domain.NewResult()
	if status >= http.StatusInternalServerError {
		result.SetStatusError()
	} else {
		result.SetStatusFail()
	}
	message, _ := domain.NewMessage(err.Error(), string(code), "")
	result.AddMessage(message)
	h.respondResult(ctx, reqCtx, status, result)
}

func statusFor(result *domain.Result) int {
	switch {
	case result.IsFailure():
		return http.StatusUnprocessableEntity
	case result.IsError():
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

func mapError(err error) (int, domain.ErrorCode) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeInvalid),
		domain.IsDomainError(err, domain.ErrCodeInvalidArgument):
		return http.StatusBadRequest, domain.ErrCodeInvalid
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, domain.ErrCodeNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, domain.ErrCodeInternal
	default:
		return http.StatusInternalServerError, domain.ErrCodeInternal
	}
}
