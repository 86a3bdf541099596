package usecase

import (
	"context"
	"time"

	"llmtracer/backend/internal/infrastructure/logger"
	"llmtracer/backend/internal/infrastructure/telemetry/tracer"
	"llmtracer/backend/internal/modules/tracing/entity"
	"llmtracer/backend/internal/modules/tracing/repository"
	"llmtracer/backend/internal/pkg/utils"
)

const completeSpanUseCaseName = "usecase:tracing.complete_span"

type completeSpanUseCase struct {
	Log       logger.Logger
	Tracer    tracer.Tracer
	Repo      repository.SpanRepository
	TraceRepo repository.TraceRepository
}

var _ CompleteSpanUseCase = (*completeSpanUseCase)(nil)

func NewCompleteSpanUseCase(log logger.Logger, trc tracer.Tracer, repo repository.SpanRepository, traceRepo repository.TraceRepository) CompleteSpanUseCase {
	return &completeSpanUseCase{
		Log:       log.WithField("action", completeSpanUseCaseName),
		Tracer:    trc,
		Repo:      repo,
		TraceRepo: traceRepo,
	}
}

func (uc *completeSpanUseCase) Execute(ctx context.Context, req *CompleteSpanRequest) (*SpanResponse, error) {
	span, ctx := uc.Tracer.StartSpan(ctx, completeSpanUseCaseName)
	defer span.Finish()

	log := uc.Log.WithContext(ctx).WithField("method", "Exec")

	log.WithFields(map[string]any{
		"business_key": map[string]any{"span_id": req.SpanID},
	}).Info("usecase started")

	existing, err := uc.Repo.GetSpan(ctx, req.SpanID)
	if err != nil {
		utils.RecordSpanError(span, err)
		return nil, err
	}

	if _, err := uc.TraceRepo.GetTrace(ctx, existing.TraceID, req.CallerProjectID); err != nil {
		notFound := entity.ErrSpanTraceMismatch
		utils.RecordSpanError(span, notFound)
		return nil, notFound
	}

	endTime := req.EndTime
	if endTime == "" {
		endTime = time.Now().UTC().Format(time.RFC3339Nano)
	}

	completion := repository.SpanCompletion{
		EndTime:      endTime,
		TokensInput:  req.TokensInput,
		TokensOutput: req.TokensOutput,
		CostUSD:      req.CostUSD,
		Error:        req.Error,
	}
	if len(req.OutputData) > 0 {
		completion.OutputData = sanitizeInputOutput(req.OutputData)
	}

	updated, err := uc.Repo.CompleteSpan(ctx, req.SpanID, completion)
	if err != nil {
		utils.RecordSpanError(span, err)
		return nil, err
	}

	log.Info("usecase completed")

	resp := spanToResponse(updated)
	return &resp, nil
}
