/*
|------------------------------------------------------------------------------------
| HTTP HANDLER ARCHITECTURAL STANDARDS & OBSERVABILITY MANIFESTO
|------------------------------------------------------------------------------------
|
| The Handler layer serves as the system's "Front Gate". It is responsible for
| request orchestration, DTO enforcement, and response normalization.
|
| [1. THE SINGLE LOG RULE]
| - Every handler execution MUST emit exactly ONE "Anchor Log" (request received).
|
| [2. ZERO POST-ENTRY LOGGING]
| - Once the request is handed to the UseCase, the Handler MUST NOT emit any
|   further logs. Observability downstream is carried by TraceID correlation.
|
| [3. LEAN ORCHESTRATION]
| - Validation happens here; business logic never does.
|
|------------------------------------------------------------------------------------
*/
package http

import (
	"strings"

	"llmtracer/backend/internal/infrastructure/config"
	"llmtracer/backend/internal/infrastructure/logger"
	"llmtracer/backend/internal/infrastructure/middleware"
	"llmtracer/backend/internal/infrastructure/validator"
	"llmtracer/backend/internal/modules/tracing/usecase"
	"llmtracer/backend/internal/pkg/apperror"
	"llmtracer/backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const handlerName = "http:handler.tracing"

type HandlerUseCases struct {
	CreateTrace   usecase.CreateTraceUseCase
	CreateSpan    usecase.CreateSpanUseCase
	CompleteSpan  usecase.CompleteSpanUseCase
	CompleteTrace usecase.CompleteTraceUseCase
	ListTraces    usecase.ListTracesUseCase
	GetTrace      usecase.GetTraceUseCase
	GetStats      usecase.GetStatsUseCase
}

type Handler struct {
	Cfg *config.Config
	Log logger.Logger
	Val validator.Validator
	Uc  HandlerUseCases
}

func NewHandler(cfg *config.Config, log logger.Logger, val validator.Validator, useCases HandlerUseCases) *Handler {
	return &Handler{Cfg: cfg, Log: log, Val: val, Uc: useCases}
}

func projectIDFromCtx(c *fiber.Ctx) string {
	if v, ok := c.Locals(middleware.ProjectIDLocalsKey).(string); ok {
		return v
	}
	return ""
}

func (h *Handler) CreateTrace(c *fiber.Ctx) error {
	ctx := c.UserContext()
	log := h.Log.WithContext(ctx).WithField("method", "CreateTrace")

	request := new(usecase.CreateTraceRequest)
	if err := c.BodyParser(request); err != nil {
		return apperror.ErrCodeMalformedRequest.WithError(err)
	}
	request.CallerProjectID = projectIDFromCtx(c)

	if err := h.Val.Validate(request); err != nil {
		return apperror.ErrCodeInvalidRequest.WithError(err).AddValidationErrors(h.Val.ToDetails(err))
	}

	log.WithFields(map[string]any{
		"business_key": map[string]any{"name": request.Name, "project_id": request.ProjectID},
	}).Info("request received")

	trace, err := h.Uc.CreateTrace.Execute(ctx, request)
	if err != nil {
		return err
	}

	return response.NewHttp(c).Created(response.Http{
		Message: "trace created",
		Data:    trace,
	})
}

func (h *Handler) CreateSpan(c *fiber.Ctx) error {
	ctx := c.UserContext()
	log := h.Log.WithContext(ctx).WithField("method", "CreateSpan")

	request := new(usecase.CreateSpanRequest)
	if err := c.BodyParser(request); err != nil {
		return apperror.ErrCodeMalformedRequest.WithError(err)
	}
	request.TraceID = c.Params("trace_id")
	request.CallerProjectID = projectIDFromCtx(c)

	if err := h.Val.Validate(request); err != nil {
		return apperror.ErrCodeInvalidRequest.WithError(err).AddValidationErrors(h.Val.ToDetails(err))
	}

	log.WithFields(map[string]any{
		"business_key": map[string]any{"trace_id": request.TraceID, "span_type": request.SpanType},
	}).Info("request received")

	span, err := h.Uc.CreateSpan.Execute(ctx, request)
	if err != nil {
		return err
	}

	return response.NewHttp(c).Created(response.Http{
		Message: "span created",
		Data:    span,
	})
}

func (h *Handler) CompleteSpan(c *fiber.Ctx) error {
	ctx := c.UserContext()
	log := h.Log.WithContext(ctx).WithField("method", "CompleteSpan")

	request := new(usecase.CompleteSpanRequest)
	if err := c.BodyParser(request); err != nil {
		return apperror.ErrCodeMalformedRequest.WithError(err)
	}
	request.SpanID = c.Params("span_id")
	request.CallerProjectID = projectIDFromCtx(c)

	if err := h.Val.Validate(request); err != nil {
		return apperror.ErrCodeInvalidRequest.WithError(err).AddValidationErrors(h.Val.ToDetails(err))
	}

	log.WithFields(map[string]any{
		"business_key": map[string]any{"span_id": request.SpanID},
	}).Info("request received")

	span, err := h.Uc.CompleteSpan.Execute(ctx, request)
	if err != nil {
		return err
	}

	return response.NewHttp(c).OK(response.Http{
		Message: "span completed",
		Data:    span,
	})
}

func (h *Handler) CompleteTrace(c *fiber.Ctx) error {
	ctx := c.UserContext()
	log := h.Log.WithContext(ctx).WithField("method", "CompleteTrace")

	request := new(usecase.CompleteTraceRequest)
	if err := c.BodyParser(request); err != nil {
		return apperror.ErrCodeMalformedRequest.WithError(err)
	}
	request.TraceID = c.Params("trace_id")
	request.ProjectID = projectIDFromCtx(c)

	if err := h.Val.Validate(request); err != nil {
		return apperror.ErrCodeInvalidRequest.WithError(err).AddValidationErrors(h.Val.ToDetails(err))
	}

	log.WithFields(map[string]any{
		"business_key": map[string]any{"trace_id": request.TraceID},
	}).Info("request received")

	trace, err := h.Uc.CompleteTrace.Execute(ctx, request)
	if err != nil {
		return err
	}

	return response.NewHttp(c).OK(response.Http{
		Message: "trace completed",
		Data:    trace,
	})
}

func (h *Handler) ListTraces(c *fiber.Ctx) error {
	ctx := c.UserContext()
	log := h.Log.WithContext(ctx).WithField("method", "ListTraces")

	request := &usecase.ListTracesRequest{
		ProjectID: projectIDFromCtx(c),
		Limit:     c.QueryInt("limit", 20),
		Cursor:    c.Query("cursor"),
	}
	if userID := c.Query("user_id"); userID != "" {
		request.UserID = &userID
	}
	if sessionID := c.Query("session_id"); sessionID != "" {
		request.SessionID = &sessionID
	}
	if tags := c.Query("tags"); tags != "" {
		request.Tags = splitQueryTags(tags)
	}

	log.WithFields(map[string]any{
		"business_key": map[string]any{"project_id": request.ProjectID},
	}).Info("request received")

	result, err := h.Uc.ListTraces.Execute(ctx, request)
	if err != nil {
		return err
	}

	return response.NewHttp(c).OK(response.Http{
		Message: "traces retrieved",
		Data:    result,
	})
}

func (h *Handler) GetTrace(c *fiber.Ctx) error {
	ctx := c.UserContext()
	log := h.Log.WithContext(ctx).WithField("method", "GetTrace")

	request := &usecase.GetTraceRequest{
		TraceID:   c.Params("trace_id"),
		ProjectID: projectIDFromCtx(c),
	}

	log.WithFields(map[string]any{
		"business_key": map[string]any{"trace_id": request.TraceID},
	}).Info("request received")

	result, err := h.Uc.GetTrace.Execute(ctx, request)
	if err != nil {
		return err
	}

	return response.NewHttp(c).OK(response.Http{
		Message: "trace retrieved",
		Data:    result,
	})
}

func (h *Handler) GetStats(c *fiber.Ctx) error {
	ctx := c.UserContext()
	log := h.Log.WithContext(ctx).WithField("method", "GetStats")

	request := &usecase.GetStatsRequest{ProjectID: projectIDFromCtx(c)}

	log.Info("request received")

	result, err := h.Uc.GetStats.Execute(ctx, request)
	if err != nil {
		return err
	}

	return response.NewHttp(c).OK(response.Http{
		Message: "stats retrieved",
		Data:    result,
	})
}

func splitQueryTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
