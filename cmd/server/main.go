package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/roast/api/handler"
	"github.com/fastygo/roast/api/transport"
	"github.com/fastygo/roast/internal/config"
	"github.com/fastygo/roast/internal/router"
	"github.com/fastygo/roast/internal/services/lifecycle"
	"github.com/fastygo/roast/pkg/httpcontext"
	"github.com/fastygo/roast/pkg/logger"
	envelopeUC "github.com/fastygo/roast/usecase/envelope"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		App:      cfg.AppName,
		Env:      cfg.Environment,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	jsonSerializer, err := transport.NewJSONSerializer(cfg.Envelope.JSONFlags(), transport.WithJSONLogger(zapLogger))
	if err != nil {
		zapLogger.Fatal("json serializer", zap.Error(err))
	}
	yamlSerializer, err := transport.NewYAMLSerializer(cfg.Envelope.YAMLIndent, transport.WithYAMLLogger(zapLogger))
	if err != nil {
		zapLogger.Fatal("yaml serializer", zap.Error(err))
	}
	serializers := apiHandler.Serializers{JSON: jsonSerializer, YAML: yamlSerializer}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Health:   apiHandler.NewHealthHandler(cfg.AppName, cfg.Environment, ctxAdapter, serializers, zapLogger),
		Envelope: apiHandler.NewEnvelopeHandler(envelopeUC.New(zapLogger), ctxAdapter, serializers, zapLogger),
		Fallback: apiHandler.NewFallbackHandler(ctxAdapter, serializers, zapLogger),
	}
	r := router.New(handlers)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
	zapLogger.Info("shutdown report", zap.String("envelope", manager.Report().SerializeWith(jsonSerializer)))
}
