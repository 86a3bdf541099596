// Package repository declares the storage-facing contracts the tracing
// usecases depend on. Concrete implementations live under ./dynamo and talk
// to DynamoDB through internal/infrastructure/storage.
package repository

import (
	"context"

	"llmtracer/backend/internal/modules/tracing/entity"
)

// ListTracesFilter scopes a trace listing. Tags/UserID/SessionID are
// applied after the project-time-index query returns a page, matching the
// source's page-local (not globally exhaustive) filtering semantics.
type ListTracesFilter struct {
	ProjectID string
	UserID    *string
	SessionID *string
	Tags      []string
	Limit     int
	Cursor    string
}

// ListTracesResult carries one page of traces plus an opaque cursor for the
// next page. NextCursor is empty when there is no further page.
type ListTracesResult struct {
	Traces     []entity.Trace
	NextCursor string
}

// SpanCompletion carries the fields PATCH /api/spans/{span_id}/complete may
// set. Nil fields are left untouched by the repository's update expression.
type SpanCompletion struct {
	EndTime      string
	OutputData   map[string]any
	TokensInput  *int64
	TokensOutput *int64
	CostUSD      *float64
	Error        *string
}

// TraceCompletion carries the fields PATCH /api/traces/{trace_id}/complete
// may set.
type TraceCompletion struct {
	EndTime string
	Output  *string
}

// Stats is the bounded estimate returned by GET /api/stats: total_traces is
// exact (a COUNT query), the rest is computed over a bounded recent sample
// rather than the full history.
type Stats struct {
	TotalTraces  int64
	TotalSpans   int64
	TotalTokens  int64
	TotalCostUSD float64
}

// TraceRepository persists and queries Trace items.
type TraceRepository interface {
	SaveTrace(ctx context.Context, trace *entity.Trace) error
	GetTrace(ctx context.Context, traceID, projectID string) (*entity.Trace, error)
	ListTraces(ctx context.Context, filter ListTracesFilter) (*ListTracesResult, error)
	CompleteTrace(ctx context.Context, traceID, projectID string, completion TraceCompletion) (*entity.Trace, error)
	GetStats(ctx context.Context, projectID string) (*Stats, error)
}

// SpanRepository persists and queries Span items.
type SpanRepository interface {
	SaveSpan(ctx context.Context, span *entity.Span) error
	GetSpan(ctx context.Context, spanID string) (*entity.Span, error)
	ListSpansByTrace(ctx context.Context, traceID string) ([]entity.Span, error)
	CompleteSpan(ctx context.Context, spanID string, completion SpanCompletion) (*entity.Span, error)
}
