package usecase

import (
	"context"
	"errors"
	"time"

	"llmtracer/backend/internal/infrastructure/logger"
	"llmtracer/backend/internal/infrastructure/telemetry/tracer"
	"llmtracer/backend/internal/modules/tracing/entity"
	"llmtracer/backend/internal/modules/tracing/repository"
	"llmtracer/backend/internal/pkg/utils"
)

const completeTraceUseCaseName = "usecase:tracing.complete_trace"

type completeTraceUseCase struct {
	Log    logger.Logger
	Tracer tracer.Tracer
	Repo   repository.TraceRepository
}

var _ CompleteTraceUseCase = (*completeTraceUseCase)(nil)

func NewCompleteTraceUseCase(log logger.Logger, trc tracer.Tracer, repo repository.TraceRepository) CompleteTraceUseCase {
	return &completeTraceUseCase{
		Log:    log.WithField("action", completeTraceUseCaseName),
		Tracer: trc,
		Repo:   repo,
	}
}

func (uc *completeTraceUseCase) Execute(ctx context.Context, req *CompleteTraceRequest) (*TraceResponse, error) {
	span, ctx := uc.Tracer.StartSpan(ctx, completeTraceUseCaseName)
	defer span.Finish()

	log := uc.Log.WithContext(ctx).WithField("method", "Exec")

	log.WithFields(map[string]any{
		"business_key": map[string]any{"trace_id": req.TraceID},
	}).Info("usecase started")

	endTime := req.EndTime
	if endTime == "" {
		endTime = time.Now().UTC().Format(time.RFC3339Nano)
	}

	updated, err := uc.Repo.CompleteTrace(ctx, req.TraceID, req.ProjectID, repository.TraceCompletion{
		EndTime: endTime,
		Output:  req.Output,
	})
	if err != nil {
		// A project mismatch is a UseCase-visible business rule, not a
		// storage-layer surprise, so it gets logged rather than only traced.
		if errors.Is(err, entity.ErrTraceProjectMismatch) {
			logAndTraceError(span, log, err, "trace ownership check failed", false)
			return nil, err
		}
		utils.RecordSpanError(span, err)
		return nil, err
	}

	log.Info("usecase completed")

	resp := traceToResponse(updated)
	return &resp, nil
}
