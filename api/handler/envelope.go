package handler

import (
	"bytes"
	"encoding/json"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/roast/api/transport"
	"github.com/fastygo/roast/domain"
	"github.com/fastygo/roast/pkg/httpcontext"
	envelopeUC "github.com/fastygo/roast/usecase/envelope"
)

type EnvelopeHandler struct {
	baseHandler
	uc *envelopeUC.UseCase
}

func NewEnvelopeHandler(uc *envelopeUC.UseCase, adapter *httpcontext.Adapter, serializers Serializers, logger *zap.Logger) *EnvelopeHandler {
	return &EnvelopeHandler{
		baseHandler: newBaseHandler(adapter, serializers, logger),
		uc:          uc,
	}
}

// @Summary Build and serialize an envelope
// @Tags envelopes
// @Router /api/v1/envelopes [post]
func (h *EnvelopeHandler) Create(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	draft, err := parseDraft(ctx.PostBody())
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	result, err := h.uc.Build(stdCtx, draft)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondOutcome(stdCtx, ctx, result)
}

func parseDraft(body []byte) (envelopeUC.Draft, error) {
	var req transport.EnvelopeRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return envelopeUC.Draft{}, domain.WrapError(domain.ErrCodeInvalid, "invalid payload", err)
	}

	draft := envelopeUC.Draft{Status: req.Status}
	if len(req.Data) > 0 {
		data := json.NewDecoder(bytes.NewReader(req.Data))
		data.UseNumber()
		if err := data.Decode(&draft.Data); err != nil {
			return envelopeUC.Draft{}, domain.WrapError(domain.ErrCodeInvalid, "invalid data", err)
		}
	}
	for _, m := range req.Messages {
		draft.Messages = append(draft.Messages, envelopeUC.MessageDraft{
			Text:  m.Message,
			Code:  m.Code,
			Field: m.Field,
		})
	}
	return draft, nil
}
