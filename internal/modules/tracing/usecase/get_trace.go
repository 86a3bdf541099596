package usecase

import (
	"context"

	"llmtracer/backend/internal/infrastructure/logger"
	"llmtracer/backend/internal/infrastructure/telemetry/tracer"
	"llmtracer/backend/internal/modules/tracing/entity"
	"llmtracer/backend/internal/modules/tracing/repository"
	"llmtracer/backend/internal/pkg/utils"
)

const getTraceUseCaseName = "usecase:tracing.get_trace"

type getTraceUseCase struct {
	Log      logger.Logger
	Tracer   tracer.Tracer
	TraceRepo repository.TraceRepository
	SpanRepo  repository.SpanRepository
}

var _ GetTraceUseCase = (*getTraceUseCase)(nil)

func NewGetTraceUseCase(log logger.Logger, trc tracer.Tracer, traceRepo repository.TraceRepository, spanRepo repository.SpanRepository) GetTraceUseCase {
	return &getTraceUseCase{
		Log:       log.WithField("action", getTraceUseCaseName),
		Tracer:    trc,
		TraceRepo: traceRepo,
		SpanRepo:  spanRepo,
	}
}

func (uc *getTraceUseCase) Execute(ctx context.Context, req *GetTraceRequest) (*GetTraceResponse, error) {
	span, ctx := uc.Tracer.StartSpan(ctx, getTraceUseCaseName)
	defer span.Finish()

	log := uc.Log.WithContext(ctx).WithField("method", "Exec")
	log.WithFields(map[string]any{
		"business_key": map[string]any{"trace_id": req.TraceID},
	}).Info("usecase started")

	trace, err := uc.TraceRepo.GetTrace(ctx, req.TraceID, req.ProjectID)
	if err != nil {
		utils.RecordSpanError(span, err)
		return nil, err
	}

	spans, err := uc.SpanRepo.ListSpansByTrace(ctx, req.TraceID)
	if err != nil {
		utils.RecordSpanError(span, err)
		return nil, err
	}

	spanResponses := make([]SpanResponse, 0, len(spans))
	for i := range spans {
		spanResponses = append(spanResponses, spanToResponse(&spans[i]))
	}

	log.Info("usecase completed")

	traceResp := traceToResponse(trace)

	return &GetTraceResponse{
		Trace:     traceResp,
		Spans:     spanResponses,
		SpanCount: len(spans),
		Tree:      entity.BuildSpanTree(spans),
	}, nil
}
