package usecase

import (
	"context"

	"llmtracer/backend/internal/infrastructure/logger"
	"llmtracer/backend/internal/infrastructure/telemetry/tracer"
	"llmtracer/backend/internal/modules/tracing/repository"
	"llmtracer/backend/internal/pkg/utils"
)

const getStatsUseCaseName = "usecase:tracing.get_stats"

type getStatsUseCase struct {
	Log    logger.Logger
	Tracer tracer.Tracer
	Repo   repository.TraceRepository
}

var _ GetStatsUseCase = (*getStatsUseCase)(nil)

func NewGetStatsUseCase(log logger.Logger, trc tracer.Tracer, repo repository.TraceRepository) GetStatsUseCase {
	return &getStatsUseCase{
		Log:    log.WithField("action", getStatsUseCaseName),
		Tracer: trc,
		Repo:   repo,
	}
}

// Execute returns a bounded estimate, not an exact aggregate: total_traces
// comes from a COUNT query, everything else is summed over at most the 50
// most recently started traces. See the stats aggregator design notes for
// why exact aggregation was rejected.
func (uc *getStatsUseCase) Execute(ctx context.Context, req *GetStatsRequest) (*GetStatsResponse, error) {
	span, ctx := uc.Tracer.StartSpan(ctx, getStatsUseCaseName)
	defer span.Finish()

	log := uc.Log.WithContext(ctx).WithField("method", "Exec")
	log.Info("usecase started")

	stats, err := uc.Repo.GetStats(ctx, req.ProjectID)
	if err != nil {
		utils.RecordSpanError(span, err)
		return nil, err
	}

	log.Info("usecase completed")

	return &GetStatsResponse{
		TotalTraces:  stats.TotalTraces,
		TotalSpans:   stats.TotalSpans,
		TotalTokens:  stats.TotalTokens,
		TotalCostUSD: stats.TotalCostUSD,
	}, nil
}
