package tracing

import (
	"llmtracer/backend/internal/infrastructure/config"
	"llmtracer/backend/internal/infrastructure/logger"
	"llmtracer/backend/internal/infrastructure/storage"
	"llmtracer/backend/internal/infrastructure/telemetry/tracer"
	"llmtracer/backend/internal/infrastructure/validator"
	"llmtracer/backend/internal/modules/tracing/delivery/http"
	"llmtracer/backend/internal/modules/tracing/repository/dynamo"
	"llmtracer/backend/internal/modules/tracing/usecase"

	"github.com/gofiber/fiber/v2"
)

type HttpModuleConfig struct {
	Config *config.Config
	Server *fiber.App
	DB     storage.Database
	Log    logger.Logger
	Val    validator.Validator
	Tracer tracer.Tracer
}

func RegisterHttpModule(cfg HttpModuleConfig) {
	ucLogger := cfg.Log.WithField("component", "usecase")
	hdlrLogger := cfg.Log.WithField("component", "handler")

	spanRepo := dynamo.NewSpanRepository(cfg.DB)
	traceRepo := dynamo.NewTraceRepository(cfg.DB, spanRepo)

	h := http.NewHandler(
		cfg.Config,
		hdlrLogger,
		cfg.Val,
		http.HandlerUseCases{
			CreateTrace:   usecase.NewCreateTraceUseCase(ucLogger, cfg.Tracer, traceRepo),
			CreateSpan:    usecase.NewCreateSpanUseCase(ucLogger, cfg.Tracer, spanRepo, traceRepo),
			CompleteSpan:  usecase.NewCompleteSpanUseCase(ucLogger, cfg.Tracer, spanRepo, traceRepo),
			CompleteTrace: usecase.NewCompleteTraceUseCase(ucLogger, cfg.Tracer, traceRepo),
			ListTraces:    usecase.NewListTracesUseCase(ucLogger, cfg.Tracer, traceRepo),
			GetTrace:      usecase.NewGetTraceUseCase(ucLogger, cfg.Tracer, traceRepo, spanRepo),
			GetStats:      usecase.NewGetStatsUseCase(ucLogger, cfg.Tracer, traceRepo),
		},
	)

	routeConfig := http.RouteConfig{
		Server:  cfg.Server,
		Config:  cfg.Config,
		Handler: h,
	}
	routeConfig.Setup()
}
