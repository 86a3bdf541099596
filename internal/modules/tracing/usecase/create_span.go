package usecase

import (
	"context"
	"time"

	"llmtracer/backend/internal/infrastructure/logger"
	"llmtracer/backend/internal/infrastructure/telemetry/tracer"
	"llmtracer/backend/internal/modules/tracing/entity"
	"llmtracer/backend/internal/modules/tracing/repository"
	"llmtracer/backend/internal/pkg/uid"
	"llmtracer/backend/internal/pkg/utils"
)

const createSpanUseCaseName = "usecase:tracing.create_span"

type createSpanUseCase struct {
	Log       logger.Logger
	Tracer    tracer.Tracer
	Repo      repository.SpanRepository
	TraceRepo repository.TraceRepository
}

var _ CreateSpanUseCase = (*createSpanUseCase)(nil)

func NewCreateSpanUseCase(log logger.Logger, trc tracer.Tracer, repo repository.SpanRepository, traceRepo repository.TraceRepository) CreateSpanUseCase {
	return &createSpanUseCase{
		Log:       log.WithField("action", createSpanUseCaseName),
		Tracer:    trc,
		Repo:      repo,
		TraceRepo: traceRepo,
	}
}

func (uc *createSpanUseCase) Execute(ctx context.Context, req *CreateSpanRequest) (*SpanResponse, error) {
	span, ctx := uc.Tracer.StartSpan(ctx, createSpanUseCaseName)
	defer span.Finish()

	log := uc.Log.WithContext(ctx).WithField("method", "Exec")

	startTime := req.StartTime
	if startTime == "" {
		startTime = time.Now().UTC().Format(time.RFC3339Nano)
	}

	log.WithFields(map[string]any{
		"business_key": map[string]any{"trace_id": req.TraceID, "span_type": req.SpanType},
	}).Info("usecase started")

	if _, err := uc.TraceRepo.GetTrace(ctx, req.TraceID, req.CallerProjectID); err != nil {
		utils.RecordSpanError(span, err)
		return nil, err
	}

	e := entity.Span{
		SpanID:       uid.NewUUID(),
		TraceID:      req.TraceID,
		ParentSpanID: req.ParentSpanID,
		Name:         req.Name,
		SpanType:     entity.SpanType(req.SpanType),
		StartTime:    startTime,
		Model:        req.Model,
	}
	if len(req.InputData) > 0 {
		e.InputData = sanitizeInputOutput(req.InputData)
	}
	if len(req.Metadata) > 0 {
		e.Metadata = sanitizeMetadata(req.Metadata)
	}

	if err := uc.Repo.SaveSpan(ctx, &e); err != nil {
		utils.RecordSpanError(span, err)
		return nil, err
	}

	log.Info("usecase completed")

	resp := spanToResponse(&e)
	return &resp, nil
}
