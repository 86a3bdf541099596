package usecase

import (
	"context"

	"llmtracer/backend/internal/modules/tracing/entity"
)

// -------- DTOs: CreateTrace --------

// ProjectID binds the body-declared project_id; CallerProjectID is set by
// the handler from the authenticated key and never trusts the body. The
// usecase compares the two and rejects a mismatch before creating anything.
type CreateTraceRequest struct {
	ProjectID       string         `json:"project_id" validate:"required,max=100" label:"Project ID"`
	CallerProjectID string         `json:"-"`
	Name            string         `json:"name" validate:"required,min=1,max=255" label:"Name"`
	StartTime       string         `json:"start_time" validate:"omitempty" label:"Start time"`
	UserID          *string        `json:"user_id" validate:"omitempty,max=255" label:"User ID"`
	SessionID       *string        `json:"session_id" validate:"omitempty,max=255" label:"Session ID"`
	Metadata        map[string]any `json:"metadata" label:"Metadata"`
	Tags            []string       `json:"tags" validate:"omitempty,max=50" label:"Tags"`
}

type TraceResponse struct {
	TraceID    string            `json:"trace_id"`
	ProjectID  string            `json:"project_id"`
	Name       string            `json:"name"`
	StartTime  string            `json:"start_time"`
	EndTime    *string           `json:"end_time,omitempty"`
	DurationMs *int64            `json:"duration_ms,omitempty"`
	UserID     *string           `json:"user_id,omitempty"`
	SessionID  *string           `json:"session_id,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	Output     *string           `json:"output,omitempty"`
}

// -------- DTOs: CreateSpan --------

// CallerProjectID is set by the handler from the authenticated key and used
// to verify the target trace belongs to the caller before a span is saved.
type CreateSpanRequest struct {
	TraceID         string         `json:"-"`
	CallerProjectID string         `json:"-"`
	ParentSpanID    *string        `json:"parent_span_id" validate:"omitempty,uuid" label:"Parent span ID"`
	Name            string         `json:"name" validate:"required,min=1,max=200" label:"Name"`
	SpanType        string         `json:"span_type" validate:"required,oneof=llm tool agent function retrieval embedding chain other" label:"Span type"`
	StartTime       string         `json:"start_time" validate:"omitempty" label:"Start time"`
	InputData       map[string]any `json:"input_data" label:"Input data"`
	Metadata        map[string]any `json:"metadata" label:"Metadata"`
	Model           *string        `json:"model" validate:"omitempty,max=255" label:"Model"`
}

type SpanResponse struct {
	SpanID       string            `json:"span_id"`
	TraceID      string            `json:"trace_id"`
	ParentSpanID *string           `json:"parent_span_id,omitempty"`
	Name         string            `json:"name"`
	SpanType     string            `json:"span_type"`
	StartTime    string            `json:"start_time"`
	EndTime      *string           `json:"end_time,omitempty"`
	DurationMs   *int64            `json:"duration_ms,omitempty"`
	InputData    map[string]any    `json:"input_data,omitempty"`
	OutputData   map[string]any    `json:"output_data,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Model        *string           `json:"model,omitempty"`
	TokensInput  *int64            `json:"tokens_input,omitempty"`
	TokensOutput *int64            `json:"tokens_output,omitempty"`
	CostUSD      *float64          `json:"cost_usd,omitempty"`
	Error        *string           `json:"error,omitempty"`
}

// -------- DTOs: CompleteSpan --------

// CallerProjectID is set by the handler from the authenticated key; the
// usecase resolves the span's trace and authorizes against it before
// applying the completion, so a caller cannot complete another project's
// span just by knowing its span_id.
type CompleteSpanRequest struct {
	SpanID          string         `json:"-"`
	CallerProjectID string         `json:"-"`
	EndTime         string         `json:"end_time" validate:"omitempty" label:"End time"`
	OutputData      map[string]any `json:"output_data" label:"Output data"`
	TokensInput     *int64         `json:"tokens_input" validate:"omitempty,gte=0" label:"Tokens input"`
	TokensOutput    *int64         `json:"tokens_output" validate:"omitempty,gte=0" label:"Tokens output"`
	CostUSD         *float64       `json:"cost_usd" validate:"omitempty,gte=0" label:"Cost USD"`
	Error           *string        `json:"error" validate:"omitempty,max=2000" label:"Error"`
}

// -------- DTOs: CompleteTrace --------

type CompleteTraceRequest struct {
	TraceID   string  `json:"-"`
	ProjectID string  `json:"-"`
	EndTime   string  `json:"end_time" validate:"omitempty" label:"End time"`
	Output    *string `json:"output" label:"Output"`
}

// -------- DTOs: ListTraces --------

type ListTracesRequest struct {
	ProjectID string
	UserID    *string
	SessionID *string
	Tags      []string
	Limit     int
	Cursor    string
}

type ListTracesResponse struct {
	Traces     []TraceResponse `json:"traces"`
	NextCursor string          `json:"next_cursor,omitempty"`
	Count      int             `json:"count"`
	HasMore    bool            `json:"has_more"`
}

// -------- DTOs: GetTrace --------

type GetTraceRequest struct {
	TraceID   string
	ProjectID string
}

type GetTraceResponse struct {
	Trace     TraceResponse    `json:"trace"`
	Spans     []SpanResponse   `json:"spans"`
	SpanCount int              `json:"span_count"`
	Tree      []*entity.SpanNode `json:"tree"`
}

// -------- DTOs: GetStats --------

type GetStatsRequest struct {
	ProjectID string
}

type GetStatsResponse struct {
	TotalTraces  int64   `json:"total_traces"`
	TotalSpans   int64   `json:"total_spans"`
	TotalTokens  int64   `json:"total_tokens"`
	TotalCostUSD float64 `json:"total_cost"`
}

// -------- Usecase Interfaces --------

type CreateTraceUseCase interface {
	Execute(ctx context.Context, req *CreateTraceRequest) (*TraceResponse, error)
}

type CreateSpanUseCase interface {
	Execute(ctx context.Context, req *CreateSpanRequest) (*SpanResponse, error)
}

type CompleteSpanUseCase interface {
	Execute(ctx context.Context, req *CompleteSpanRequest) (*SpanResponse, error)
}

type CompleteTraceUseCase interface {
	Execute(ctx context.Context, req *CompleteTraceRequest) (*TraceResponse, error)
}

type ListTracesUseCase interface {
	Execute(ctx context.Context, req *ListTracesRequest) (*ListTracesResponse, error)
}

type GetTraceUseCase interface {
	Execute(ctx context.Context, req *GetTraceRequest) (*GetTraceResponse, error)
}

type GetStatsUseCase interface {
	Execute(ctx context.Context, req *GetStatsRequest) (*GetStatsResponse, error)
}
