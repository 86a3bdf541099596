package entity

import (
	"time"

	"llmtracer/backend/internal/pkg/apperror"
)

// [ENTITY STANDARD: DOMAIN SPECIFIC ERROR]
//
// A span whose trace is missing or owned by another project is treated as
// not found for that caller, so both cases resolve to apperror.CodeNotFound.
const CodeSpanInvalidType = "SPAN_INVALID_TYPE"

var (
	ErrSpanNotFound = apperror.NewPersistance(
		apperror.CodeNotFound,
		"span not found",
	)

	ErrSpanTraceMismatch = apperror.NewPersistance(
		apperror.CodeNotFound,
		"span not found",
	)
)

// SpanType enumerates the kinds of work a span can represent. Unknown
// values are rejected at the DTO validation layer, not here.
type SpanType string

const (
	SpanTypeLLM       SpanType = "llm"
	SpanTypeTool      SpanType = "tool"
	SpanTypeAgent     SpanType = "agent"
	SpanTypeFunction  SpanType = "function"
	SpanTypeRetrieval SpanType = "retrieval"
	SpanTypeEmbedding SpanType = "embedding"
	SpanTypeChain     SpanType = "chain"
	SpanTypeOther     SpanType = "other"
)

// Span is one unit of work inside a trace: an LLM call, a tool invocation, a
// retrieval step. Spans nest via ParentSpanID and are persisted as
// individual DynamoDB items queried back out through a trace-index GSI.
type Span struct {
	SpanID       string  `dynamodbav:"span_id"`
	TraceID      string  `dynamodbav:"trace_id"`
	ParentSpanID *string `dynamodbav:"parent_span_id,omitempty"`
	Name         string  `dynamodbav:"name"`
	SpanType     SpanType `dynamodbav:"span_type"`

	StartTime  string  `dynamodbav:"start_time"`
	EndTime    *string `dynamodbav:"end_time,omitempty"`
	DurationMs *int64  `dynamodbav:"duration_ms,omitempty"`

	InputData  map[string]any `dynamodbav:"input_data,omitempty"`
	OutputData map[string]any `dynamodbav:"output_data,omitempty"`
	Metadata   map[string]string `dynamodbav:"metadata,omitempty"`

	Model        *string  `dynamodbav:"model,omitempty"`
	TokensInput  *int64   `dynamodbav:"tokens_input,omitempty"`
	TokensOutput *int64   `dynamodbav:"tokens_output,omitempty"`
	CostUSD      *float64 `dynamodbav:"cost_usd,omitempty"`
	Error        *string  `dynamodbav:"error,omitempty"`

	TTL int64 `dynamodbav:"ttl,omitempty"`
}

// ParsedStartTime attempts to parse StartTime the same way Trace does.
func (s *Span) ParsedStartTime() (ts time.Time, ok bool) {
	return parseTimestamp(s.StartTime)
}

// ParsedEndTime is the EndTime analogue of ParsedStartTime.
func (s *Span) ParsedEndTime() (ts time.Time, ok bool) {
	if s.EndTime == nil {
		return time.Time{}, false
	}
	return parseTimestamp(*s.EndTime)
}
