package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/fastygo/roast/api/handler"
)

type Handlers struct {
	Health   *apiHandler.HealthHandler
	Envelope *apiHandler.EnvelopeHandler
	Fallback *apiHandler.FallbackHandler
}

func New(handlers Handlers) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	r.POST("/api/v1/envelopes", handlers.Envelope.Create)

	if handlers.Fallback != nil {
		r.NotFound = handlers.Fallback.NotFound
		r.MethodNotAllowed = handlers.Fallback.MethodNotAllowed
		r.PanicHandler = handlers.Fallback.Panic
	}

	return r
}
