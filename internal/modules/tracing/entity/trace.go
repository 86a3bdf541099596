package entity

import (
	"time"

	"llmtracer/backend/internal/pkg/apperror"
)

// [ENTITY STANDARD: DOMAIN SPECIFIC ERROR]
//
// Both not-found and cross-project lookups use apperror.CodeNotFound (404):
// per the authorization policy, a trace owned by another project must read
// as not-found to the calling project, not as a distinguishable 403 — that
// would disclose the trace's existence to a caller who shouldn't see it.
const CodeTraceAlreadyDone = "TRACE_ALREADY_COMPLETED"

var (
	ErrTraceNotFound = apperror.NewPersistance(
		apperror.CodeNotFound,
		"trace not found",
	)

	ErrTraceProjectMismatch = apperror.NewPersistance(
		apperror.CodeNotFound,
		"trace not found",
	)
)

// Trace is a top-level operation (a user request, an agent loop) containing
// a tree of spans. It is persisted as a single DynamoDB item keyed by
// TraceID, with a project-time-index secondary index on (ProjectID, StartTime).
type Trace struct {
	TraceID   string `dynamodbav:"trace_id"`
	Name      string `dynamodbav:"name"`
	ProjectID string `dynamodbav:"project_id"`

	// StartTime/EndTime are kept as raw strings rather than time.Time: the
	// source tolerates unparseable timestamp strings (stored verbatim,
	// duration math silently skipped) instead of rejecting the request.
	StartTime string  `dynamodbav:"start_time"`
	EndTime   *string `dynamodbav:"end_time,omitempty"`
	DurationMs *int64 `dynamodbav:"duration_ms,omitempty"`

	Metadata  map[string]string `dynamodbav:"metadata,omitempty"`
	Tags      []string          `dynamodbav:"tags,omitempty"`
	UserID    *string           `dynamodbav:"user_id,omitempty"`
	SessionID *string           `dynamodbav:"session_id,omitempty"`
	Output    *string           `dynamodbav:"output,omitempty"`

	// Denormalized fields reserved for per-trace rollups. Nothing updates
	// them after the trace is written (SpanCount stays 0, TotalCost unset),
	// and neither the API responses nor the stats endpoint read them.
	SpanCount int      `dynamodbav:"span_count"`
	TotalCost *float64 `dynamodbav:"total_cost,omitempty"`

	// TTL is an epoch-seconds attribute DynamoDB uses for auto-expiry. It is
	// never surfaced in API responses; repositories strip it on read.
	TTL int64 `dynamodbav:"ttl,omitempty"`
}

// ParsedStartTime attempts to parse StartTime as RFC3339, tolerating a
// trailing "Z". ok is false when the stored value never parsed.
func (t *Trace) ParsedStartTime() (ts time.Time, ok bool) {
	return parseTimestamp(t.StartTime)
}

// ParsedEndTime is the EndTime analogue of ParsedStartTime.
func (t *Trace) ParsedEndTime() (ts time.Time, ok bool) {
	if t.EndTime == nil {
		return time.Time{}, false
	}
	return parseTimestamp(*t.EndTime)
}

func parseTimestamp(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return ts, true
	}
	if ts, err := time.Parse(time.RFC3339, v); err == nil {
		return ts, true
	}
	return time.Time{}, false
}
