package usecase

import (
	"errors"
	"fmt"
	"strings"

	"llmtracer/backend/internal/infrastructure/logger"
	"llmtracer/backend/internal/infrastructure/telemetry/tracer"
	"llmtracer/backend/internal/modules/tracing/entity"
	"llmtracer/backend/internal/pkg/apperror"
	"llmtracer/backend/internal/pkg/sizeguard"
	"llmtracer/backend/internal/pkg/utils"
)

// maxTagLength is the per-tag truncation length; the list-length cap of 50
// is enforced by the Tags validator tag on CreateTraceRequest.
const maxTagLength = 100

// normalizeTags drops empty/whitespace-only tags and truncates every
// survivor to maxTagLength runes, truncating the original (untrimmed)
// string rather than the trimmed one.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		r := []rune(tag)
		if len(r) > maxTagLength {
			r = r[:maxTagLength]
		}
		out = append(out, string(r))
	}
	return out
}

// logAndTraceError records the error on the span and logs it at Warn (or
// Error when isCritical). Use it for errors that originate in this usecase;
// errors bubbled up from a repository that already logged are passed
// straight to the caller instead.
func logAndTraceError(span tracer.Span, log logger.Logger, err error, msg string, isCritical bool) {
	if err == nil {
		return
	}

	utils.RecordSpanError(span, err)

	var appErr *apperror.AppError
	logFields := map[string]any{"error": err.Error()}
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			logFields["internal_detail"] = appErr.Err.Error()
		}
		logFields["retryable"] = appErr.IsRetryable()
	}
	l := log.WithFields(logFields)
	if isCritical {
		l.Error(msg)
	} else {
		l.Warn(msg)
	}
}

func traceToResponse(t *entity.Trace) TraceResponse {
	return TraceResponse{
		TraceID:    t.TraceID,
		ProjectID:  t.ProjectID,
		Name:       t.Name,
		StartTime:  t.StartTime,
		EndTime:    t.EndTime,
		DurationMs: t.DurationMs,
		UserID:     t.UserID,
		SessionID:  t.SessionID,
		Metadata:   t.Metadata,
		Tags:       t.Tags,
		Output:     t.Output,
	}
}

func spanToResponse(s *entity.Span) SpanResponse {
	return SpanResponse{
		SpanID:       s.SpanID,
		TraceID:      s.TraceID,
		ParentSpanID: s.ParentSpanID,
		Name:         s.Name,
		SpanType:     string(s.SpanType),
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		DurationMs:   s.DurationMs,
		InputData:    s.InputData,
		OutputData:   s.OutputData,
		Metadata:     s.Metadata,
		Model:        s.Model,
		TokensInput:  s.TokensInput,
		TokensOutput: s.TokensOutput,
		CostUSD:      s.CostUSD,
		Error:        s.Error,
	}
}

// sanitizeMetadata runs the full size-guard pipeline over a caller-supplied
// metadata map: stringify every value first so the size guard measures what
// actually gets stored, then truncate oversized entries. The size guard's
// _truncated and _original_size markers are kept, rendered as strings.
func sanitizeMetadata(data map[string]any) map[string]string {
	stringified := sizeguard.StringifyMetadata(data)
	truncated := sizeguard.TruncateDict(stringified, sizeguard.MaxMetadataSize)

	out := make(map[string]string, len(truncated))
	for k, v := range truncated {
		if s, ok := v.(string); ok {
			out[k] = s
		} else {
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}

// sanitizeInputOutput runs the size-guard pipeline over span input/output
// payloads, which stay JSON-shaped (unlike metadata) so no stringify pass
// runs here.
func sanitizeInputOutput(data map[string]any) map[string]any {
	return sizeguard.TruncateDict(data, sizeguard.MaxInputOutputSize)
}
