package usecase

import (
	"context"

	"llmtracer/backend/internal/infrastructure/logger"
	"llmtracer/backend/internal/infrastructure/telemetry/tracer"
	"llmtracer/backend/internal/modules/tracing/repository"
	"llmtracer/backend/internal/pkg/utils"
)

const listTracesUseCaseName = "usecase:tracing.list_traces"

type listTracesUseCase struct {
	Log    logger.Logger
	Tracer tracer.Tracer
	Repo   repository.TraceRepository
}

var _ ListTracesUseCase = (*listTracesUseCase)(nil)

func NewListTracesUseCase(log logger.Logger, trc tracer.Tracer, repo repository.TraceRepository) ListTracesUseCase {
	return &listTracesUseCase{
		Log:    log.WithField("action", listTracesUseCaseName),
		Tracer: trc,
		Repo:   repo,
	}
}

func (uc *listTracesUseCase) Execute(ctx context.Context, req *ListTracesRequest) (*ListTracesResponse, error) {
	span, ctx := uc.Tracer.StartSpan(ctx, listTracesUseCaseName)
	defer span.Finish()

	log := uc.Log.WithContext(ctx).WithField("method", "Exec")
	log.Info("usecase started")

	result, err := uc.Repo.ListTraces(ctx, repository.ListTracesFilter{
		ProjectID: req.ProjectID,
		UserID:    req.UserID,
		SessionID: req.SessionID,
		Tags:      req.Tags,
		Limit:     req.Limit,
		Cursor:    req.Cursor,
	})
	if err != nil {
		utils.RecordSpanError(span, err)
		return nil, err
	}

	traces := make([]TraceResponse, 0, len(result.Traces))
	for i := range result.Traces {
		traces = append(traces, traceToResponse(&result.Traces[i]))
	}

	log.Info("usecase completed")

	return &ListTracesResponse{
		Traces:     traces,
		NextCursor: result.NextCursor,
		Count:      len(traces),
		HasMore:    result.NextCursor != "",
	}, nil
}
