package http

import (
	"llmtracer/backend/internal/infrastructure/config"

	"github.com/gofiber/fiber/v2"
)

type RouteConfig struct {
	Config  *config.Config
	Server  *fiber.App
	Handler *Handler
}

const routeGroup = "/api"

func (r *RouteConfig) Setup() {
	api := r.Server.Group(routeGroup)

	api.Post("/traces", r.Handler.CreateTrace)
	api.Get("/traces", r.Handler.ListTraces)
	api.Get("/traces/:trace_id", r.Handler.GetTrace)
	api.Patch("/traces/:trace_id/complete", r.Handler.CompleteTrace)

	api.Post("/traces/:trace_id/spans", r.Handler.CreateSpan)
	api.Patch("/spans/:span_id/complete", r.Handler.CompleteSpan)

	api.Get("/stats", r.Handler.GetStats)
}
