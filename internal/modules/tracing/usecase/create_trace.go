package usecase

import (
	"context"
	"regexp"
	"time"

	"llmtracer/backend/internal/infrastructure/logger"
	"llmtracer/backend/internal/infrastructure/telemetry/tracer"
	"llmtracer/backend/internal/modules/tracing/entity"
	"llmtracer/backend/internal/modules/tracing/repository"
	"llmtracer/backend/internal/pkg/apperror"
	"llmtracer/backend/internal/pkg/uid"
	"llmtracer/backend/internal/pkg/utils"
)

const createTraceUseCaseName = "usecase:tracing.create_trace"

// projectIDPattern is the character set accepted for a trace's project_id.
var projectIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type createTraceUseCase struct {
	Log  logger.Logger
	Tracer tracer.Tracer
	Repo repository.TraceRepository
}

var _ CreateTraceUseCase = (*createTraceUseCase)(nil)

func NewCreateTraceUseCase(log logger.Logger, trc tracer.Tracer, repo repository.TraceRepository) CreateTraceUseCase {
	return &createTraceUseCase{
		Log:    log.WithField("action", createTraceUseCaseName),
		Tracer: trc,
		Repo:   repo,
	}
}

func (uc *createTraceUseCase) Execute(ctx context.Context, req *CreateTraceRequest) (*TraceResponse, error) {
	span, ctx := uc.Tracer.StartSpan(ctx, createTraceUseCaseName)
	defer span.Finish()

	log := uc.Log.WithContext(ctx).WithField("method", "Exec")

	startTime := req.StartTime
	if startTime == "" {
		startTime = time.Now().UTC().Format(time.RFC3339Nano)
	}

	log.WithFields(map[string]any{
		"business_key": map[string]any{"name": req.Name, "project_id": req.ProjectID},
	}).Info("usecase started")

	if !projectIDPattern.MatchString(req.ProjectID) {
		err := apperror.NewPersistance(apperror.CodeValidation, "project_id may only contain letters, digits, '_' and '-'")
		utils.RecordSpanError(span, err)
		return nil, err
	}

	if req.ProjectID != req.CallerProjectID {
		err := apperror.ErrCodeForbidden.WithDetail("reason", "project_id does not match the authenticated project")
		utils.RecordSpanError(span, err)
		return nil, err
	}

	e := entity.Trace{
		TraceID:   uid.NewUUID(),
		ProjectID: req.ProjectID,
		Name:      req.Name,
		StartTime: startTime,
		UserID:    req.UserID,
		SessionID: req.SessionID,
		Tags:      normalizeTags(req.Tags),
	}
	if len(req.Metadata) > 0 {
		e.Metadata = sanitizeMetadata(req.Metadata)
	}

	if err := uc.Repo.SaveTrace(ctx, &e); err != nil {
		// BUBBLE UP: persistence errors are traced, not re-logged here.
		utils.RecordSpanError(span, err)
		return nil, err
	}

	log.Info("usecase completed")

	resp := traceToResponse(&e)
	return &resp, nil
}
