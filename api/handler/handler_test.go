package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"github.com/fastygo/roast/api/transport"
	"github.com/fastygo/roast/domain"
	"github.com/fastygo/roast/pkg/httpcontext"
	envelopeUC "github.com/fastygo/roast/usecase/envelope"
)

func newEnvelopeHandler() *EnvelopeHandler {
	return NewEnvelopeHandler(envelopeUC.New(nil), httpcontext.NewAdapter(time.Second), Serializers{}, nil)
}

func post(h *EnvelopeHandler, body, accept string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetRequestURI("/api/v1/envelopes")
	if accept != "" {
		ctx.Request.Header.Set("Accept", accept)
	}
	ctx.Request.SetBodyString(body)
	h.Create(&ctx)
	return &ctx
}

func TestCreateEnvelope(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{
			name:   "success",
			body:   `{"data":{"lorem":"ipsum"},"messages":[{"message":"Dolor sit amet"}]}`,
			status: http.StatusOK,
			want:   `{"status":"success","data":{"lorem":"ipsum"}}`,
		},
		{
			name:   "fail",
			body:   `{"status":"fail","data":{"lorem":"ipsum"},"messages":[{"message":"Dolor sit amet"}]}`,
			status: http.StatusUnprocessableEntity,
			want:   `{"status":"fail","data":[{"message":"Dolor sit amet"}]}`,
		},
		{
			name:   "error with codes",
			body:   `{"status":"error","messages":[{"message":"Dolor sit amet","code":12,"field":"lorem"},{"message":"Adipiscing","code":"E2"}]}`,
			status: http.StatusInternalServerError,
			want:   `{"status":"error","data":[{"message":"Dolor sit amet","code":12,"field":"lorem"},{"message":"Adipiscing","code":"E2"}]}`,
		},
		{
			name:   "numbers keep precision",
			body:   `{"data":[1.50,12345678901234567890]}`,
			status: http.StatusOK,
			want:   `{"status":"success","data":[1.50,12345678901234567890]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := post(newEnvelopeHandler(), tt.body, "")
			if ctx.Response.StatusCode() != tt.status {
				t.Errorf("status = %d, want %d", ctx.Response.StatusCode(), tt.status)
			}
			if got := string(ctx.Response.Header.ContentType()); got != contentTypeJSON {
				t.Errorf("content type = %q", got)
			}
			if got := string(ctx.Response.Body()); got != tt.want {
				t.Fatalf("body = %s, want %s", got, tt.want)
			}
			if len(ctx.Response.Header.Peek(httpcontext.HeaderRequestID)) == 0 {
				t.Errorf("response has no request id")
			}
		})
	}
}

func TestCreateEnvelopeRejectsMalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"unknown status", `{"status":"maybe"}`},
		{"bool code", `{"messages":[{"message":"x","code":true}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := post(newEnvelopeHandler(), tt.body, "")
			if ctx.Response.StatusCode() != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", ctx.Response.StatusCode())
			}
			var out struct {
				Status string `json:"status"`
				Data   []struct {
					Message string `json:"message"`
					Code    string `json:"code"`
				} `json:"data"`
			}
			if err := json.Unmarshal(ctx.Response.Body(), &out); err != nil {
				t.Fatalf("Unmarshal(%s): %v", ctx.Response.Body(), err)
			}
			if out.Status != "fail" || len(out.Data) != 1 || out.Data[0].Code != "INVALID" {
				t.Fatalf("body = %s", ctx.Response.Body())
			}
		})
	}
}

func TestCreateEnvelopeYAML(t *testing.T) {
	ctx := post(newEnvelopeHandler(), `{"status":"fail","messages":[{"message":"Dolor sit amet"}]}`, "application/yaml")
	if got := string(ctx.Response.Header.ContentType()); got != contentTypeYAML {
		t.Fatalf("content type = %q", got)
	}

	var out map[string]any
	if err := yaml.Unmarshal(ctx.Response.Body(), &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out["status"] != "fail" {
		t.Fatalf("body = %s", ctx.Response.Body())
	}
}

func TestSerializerFallbackLogsRequestID(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	failing, err := transport.NewJSONSerializer(0, transport.WithJSONEncoder(func(v any, flags transport.Flags) ([]byte, error) {
		if export, ok := v.(domain.Export); ok && export.Status == domain.StatusSuccess {
			return nil, &transport.EncodeError{Message: "Lorem ipsum", Number: 1}
		}
		return transport.EncodeJSON(v, flags)
	}))
	if err != nil {
		t.Fatalf("NewJSONSerializer: %v", err)
	}
	h := NewEnvelopeHandler(envelopeUC.New(nil), httpcontext.NewAdapter(time.Second), Serializers{JSON: failing}, zap.New(core))

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.Header.Set(httpcontext.HeaderRequestID, "req-7")
	ctx.Request.SetBodyString(`{"data":"ok"}`)
	h.Create(&ctx)

	if !strings.HasPrefix(string(ctx.Response.Body()), `{"status":"error"`) {
		t.Fatalf("body = %s", ctx.Response.Body())
	}
	entries := logs.FilterMessage("envelope serialization failed").All()
	if len(entries) != 1 {
		t.Fatalf("logged %d fallback entries", len(entries))
	}
	if got := entries[0].ContextMap()["request_id"]; got != "req-7" {
		t.Fatalf("request_id = %v", got)
	}
}

func TestHealthCheck(t *testing.T) {
	h := NewHealthHandler("roast", "test", nil, Serializers{}, nil)
	var ctx fasthttp.RequestCtx
	h.Check(&ctx)

	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d", ctx.Response.StatusCode())
	}
	var out struct {
		Status string         `json:"status"`
		Data   map[string]any `json:"data"`
	}
	if err := json.Unmarshal(ctx.Response.Body(), &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Status != "success" || out.Data["app"] != "roast" || out.Data["environment"] != "test" {
		t.Fatalf("body = %s", ctx.Response.Body())
	}
}

func TestFallbackHandler(t *testing.T) {
	h := NewFallbackHandler(nil, Serializers{}, nil)

	var notFound fasthttp.RequestCtx
	notFound.Request.SetRequestURI("/missing")
	h.NotFound(&notFound)
	if notFound.Response.StatusCode() != http.StatusNotFound {
		t.Errorf("NotFound status = %d", notFound.Response.StatusCode())
	}
	if !strings.Contains(string(notFound.Response.Body()), `"code":"NOT_FOUND"`) {
		t.Errorf("NotFound body = %s", notFound.Response.Body())
	}

	var panicked fasthttp.RequestCtx
	h.Panic(&panicked, "boom")
	if panicked.Response.StatusCode() != http.StatusInternalServerError {
		t.Errorf("Panic status = %d", panicked.Response.StatusCode())
	}
	if !strings.HasPrefix(string(panicked.Response.Body()), `{"status":"error","data":[{"message":"internal error: boom","code":"INTERNAL"}]}`) {
		t.Errorf("Panic body = %s", panicked.Response.Body())
	}
}
