package app

import (
	"context"
	"fmt"
	"time"

	"llmtracer/backend/internal/infrastructure/config"
	"llmtracer/backend/internal/infrastructure/logger"
	"llmtracer/backend/internal/infrastructure/middleware"
	"llmtracer/backend/internal/infrastructure/storage"
	"llmtracer/backend/internal/infrastructure/telemetry/metrics"
	"llmtracer/backend/internal/infrastructure/telemetry/tracer"
	"llmtracer/backend/internal/infrastructure/validator"
	"llmtracer/backend/internal/modules/tracing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

var domains = [1]string{
	"tracing",
}

type BootstrapApiConfig struct {
	App     *fiber.App
	Val     validator.Validator
	Log     logger.Logger
	Tracer  tracer.Tracer
	Metrics metrics.Metrics

	configs map[string]*config.Config
	loggers map[string]logger.Logger
	dbs     map[string]storage.Database
}

func (b *BootstrapApiConfig) Run() {
	b.setupMiddleware()
	b.setupHealthRoute()
	b.setupInfrastructureModules()
	b.setupModules()
}

func (b *BootstrapApiConfig) Stop() {
	for _, domain := range domains {
		log, okLog := b.loggers[domain]
		db, okDb := b.dbs[domain]

		if !okLog || log == nil {
			log = b.Log
		}

		if !okDb || db == nil {
			log.WithFields(map[string]any{
				"domain":    domain,
				"component": "storage",
			}).Warn("storage client not found during shutdown")
			continue
		}

		if err := db.Close(); err != nil {
			log.WithFields(map[string]any{
				"domain":       domain,
				"component":    "storage",
				"error_detail": err.Error(),
			}).Error("failed to close storage client")
		} else {
			log.WithFields(map[string]any{
				"domain":    domain,
				"component": "storage",
			}).Info("storage client closed gracefully")
		}
	}
}

func (b *BootstrapApiConfig) setupMiddleware() {
	t := middleware.NewTelemetrist(b.Log, b.Tracer, b.Metrics)

	b.App.Use(middleware.RequestID())
	b.App.Use(t.HandleMetrics())
	b.App.Use(t.HandleTrace())
	b.App.Use(t.HandleLog())
}

func (b *BootstrapApiConfig) setupInfrastructureModules() {
	domainCount := len(domains)
	b.configs = make(map[string]*config.Config, domainCount)
	b.loggers = make(map[string]logger.Logger, domainCount)
	b.dbs = make(map[string]storage.Database, domainCount)

	for _, domain := range domains {
		path := fmt.Sprintf("config/%s/config.yaml", domain)
		domainCfg := config.LoadDomainConfig(path)

		domainLogger := logger.
			New(domainCfg, b.Tracer).
			WithFields(map[string]any{
				"service": domainCfg.App.Name,
				"version": domainCfg.App.Version,
				"env":     domainCfg.App.Env,
				"port":    domainCfg.Http.Port,
				"domain":  domain,
			})

		db, err := storage.NewDynamoDatabase(context.Background(), &domainCfg.Storage, domainLogger, b.Tracer)
		if err != nil {
			domainLogger.Error(fmt.Sprintf("failed to connect to storage: %v", err))
			panic(err)
		}

		b.App.Use(cors.New(cors.Config{AllowOrigins: domainCfg.Cors.Origins}))
		b.App.Use(middleware.NewRateLimiter(domainCfg.RateLimit).Handle())
		b.App.Use(middleware.NewAuthenticator(domainCfg.Auth).Handle())

		b.configs[domain] = domainCfg
		b.loggers[domain] = domainLogger
		b.dbs[domain] = db
	}
}

func (b *BootstrapApiConfig) setupModules() {
	m := "tracing"
	if cfg, ok := b.configs[m]; ok {
		tracing.RegisterHttpModule(tracing.HttpModuleConfig{
			Config: cfg,
			Server: b.App,
			DB:     b.dbs[m],
			Log:    b.loggers[m],
			Val:    b.Val,
			Tracer: b.Tracer,
		})
	}
}

// storageHealth pings DynamoDB via DescribeTable on the traces table so a
// broken endpoint or missing table surfaces in /health instead of on the
// first real request.
func (b *BootstrapApiConfig) storageHealth(ctx context.Context) string {
	for _, domain := range domains {
		db, ok := b.dbs[domain]
		if !ok || db == nil {
			continue
		}
		_, err := db.Client().DescribeTable(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String(db.TracesTable()),
		})
		if err != nil {
			return "unavailable"
		}
		return "ok"
	}
	return "unknown"
}

func (b *BootstrapApiConfig) setupHealthRoute() {
	h := func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "healthy",
			"storage":   b.storageHealth(c.UserContext()),
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}

	b.App.Get("/", h)
	b.App.Get("/health", h)
}
