// Package dynamo implements the tracing repository contracts against
// DynamoDB, grounded on the reference service's table layout: traces keyed
// by trace_id with a project-time-index GSI (project_id, start_time), spans
// keyed by span_id with a trace-index GSI (trace_id).
package dynamo

import (
	"context"
	"time"

	"llmtracer/backend/internal/infrastructure/storage"
	"llmtracer/backend/internal/modules/tracing/entity"
	"llmtracer/backend/internal/modules/tracing/repository"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	projectTimeIndex = "project-time-index"
	traceIndex       = "trace-index"

	// statsMaxRecentTraces bounds GetStats to a sample of the most recent
	// traces rather than scanning a project's full history.
	statsMaxRecentTraces = 50
)

type traceRepository struct {
	db   storage.Database
	span repository.SpanRepository
}

var _ repository.TraceRepository = (*traceRepository)(nil)

// NewTraceRepository builds a TraceRepository. spanRepo is used by GetStats
// to pull each sampled trace's spans; passing the same SpanRepository the
// module wires up elsewhere keeps that one bounded query path shared.
func NewTraceRepository(db storage.Database, spanRepo repository.SpanRepository) repository.TraceRepository {
	return &traceRepository{db: db, span: spanRepo}
}

func (r *traceRepository) SaveTrace(ctx context.Context, trace *entity.Trace) error {
	trace.TTL = storage.ExpiryEpoch(0, time.Now())

	item, err := attributevalue.MarshalMap(trace)
	if err != nil {
		return storage.MapDBError(err)
	}

	_, err = r.db.Client().PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &[]string{r.db.TracesTable()}[0],
		Item:      item,
	})
	if err != nil {
		return storage.MapDBError(err)
	}
	return nil
}

func (r *traceRepository) GetTrace(ctx context.Context, traceID, projectID string) (*entity.Trace, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"trace_id": traceID})
	if err != nil {
		return nil, storage.MapDBError(err)
	}

	out, err := r.db.Client().GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &[]string{r.db.TracesTable()}[0],
		Key:       key,
	})
	if err != nil {
		return nil, storage.MapDBError(err)
	}
	if len(out.Item) == 0 {
		return nil, entity.ErrTraceNotFound
	}

	var trace entity.Trace
	if err := attributevalue.UnmarshalMap(out.Item, &trace); err != nil {
		return nil, storage.MapDBError(err)
	}

	if trace.ProjectID != projectID {
		return nil, entity.ErrTraceProjectMismatch
	}

	trace.TTL = 0
	return &trace, nil
}

func (r *traceRepository) ListTraces(ctx context.Context, filter repository.ListTracesFilter) (*repository.ListTracesResult, error) {
	limit := int32(filter.Limit)
	if limit <= 0 {
		limit = 20
	}

	keyCond := expression.Key("project_id").Equal(expression.Value(filter.ProjectID))
	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	expr, err := builder.Build()
	if err != nil {
		return nil, storage.MapDBError(err)
	}

	out, err := r.db.Client().Query(ctx, &dynamodb.QueryInput{
		TableName:                 &[]string{r.db.TracesTable()}[0],
		IndexName:                 &[]string{projectTimeIndex}[0],
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          &[]bool{false}[0],
		Limit:                     &limit,
		ExclusiveStartKey:         storage.DecodeCursor(filter.Cursor),
	})
	if err != nil {
		return nil, storage.MapDBError(err)
	}

	var traces []entity.Trace
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &traces); err != nil {
		return nil, storage.MapDBError(err)
	}

	// Page-local filtering: applies only to the page DynamoDB already
	// returned, not the project's full history, matching the reference
	// service's behavior.
	filtered := make([]entity.Trace, 0, len(traces))
	for _, trace := range traces {
		trace.TTL = 0
		if filter.UserID != nil && (trace.UserID == nil || *trace.UserID != *filter.UserID) {
			continue
		}
		if filter.SessionID != nil && (trace.SessionID == nil || *trace.SessionID != *filter.SessionID) {
			continue
		}
		if len(filter.Tags) > 0 && !hasAnyTag(trace.Tags, filter.Tags) {
			continue
		}
		filtered = append(filtered, trace)
	}

	nextCursor, err := storage.EncodeCursor(out.LastEvaluatedKey)
	if err != nil {
		return nil, storage.MapDBError(err)
	}

	return &repository.ListTracesResult{Traces: filtered, NextCursor: nextCursor}, nil
}

func hasAnyTag(have, want []string) bool {
	set := make(map[string]bool, len(have))
	for _, t := range have {
		set[t] = true
	}
	for _, t := range want {
		if set[t] {
			return true
		}
	}
	return false
}

func (r *traceRepository) CompleteTrace(ctx context.Context, traceID, projectID string, completion repository.TraceCompletion) (*entity.Trace, error) {
	existing, err := r.GetTrace(ctx, traceID, projectID)
	if err != nil {
		return nil, err
	}

	update := expression.Set(expression.Name("end_time"), expression.Value(completion.EndTime))

	if startTS, ok := existing.ParsedStartTime(); ok {
		if endTS, ok2 := parseRFC3339(completion.EndTime); ok2 {
			durationMs := endTS.Sub(startTS).Milliseconds()
			update = update.Set(expression.Name("duration_ms"), expression.Value(durationMs))
		}
	}
	if completion.Output != nil {
		update = update.Set(expression.Name("output"), expression.Value(*completion.Output))
	}

	cond := expression.Name("project_id").Equal(expression.Value(projectID))

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return nil, storage.MapDBError(err)
	}

	key, err := attributevalue.MarshalMap(map[string]string{"trace_id": traceID})
	if err != nil {
		return nil, storage.MapDBError(err)
	}

	out, err := r.db.Client().UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &[]string{r.db.TracesTable()}[0],
		Key:                       key,
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, storage.MapDBError(err)
	}

	var trace entity.Trace
	if err := attributevalue.UnmarshalMap(out.Attributes, &trace); err != nil {
		return nil, storage.MapDBError(err)
	}
	trace.TTL = 0
	return &trace, nil
}

func (r *traceRepository) GetStats(ctx context.Context, projectID string) (*repository.Stats, error) {
	keyCond := expression.Key("project_id").Equal(expression.Value(projectID))
	countExpr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, storage.MapDBError(err)
	}

	countOut, err := r.db.Client().Query(ctx, &dynamodb.QueryInput{
		TableName:                 &[]string{r.db.TracesTable()}[0],
		IndexName:                 &[]string{projectTimeIndex}[0],
		KeyConditionExpression:    countExpr.KeyCondition(),
		ExpressionAttributeNames:  countExpr.Names(),
		ExpressionAttributeValues: countExpr.Values(),
		Select:                    types.SelectCount,
	})
	if err != nil {
		return nil, storage.MapDBError(err)
	}

	stats := &repository.Stats{TotalTraces: int64(countOut.Count)}

	sampleLimit := int32(statsMaxRecentTraces)
	sampleOut, err := r.db.Client().Query(ctx, &dynamodb.QueryInput{
		TableName:                 &[]string{r.db.TracesTable()}[0],
		IndexName:                 &[]string{projectTimeIndex}[0],
		KeyConditionExpression:    countExpr.KeyCondition(),
		ExpressionAttributeNames:  countExpr.Names(),
		ExpressionAttributeValues: countExpr.Values(),
		ScanIndexForward:          &[]bool{false}[0],
		Limit:                     &sampleLimit,
	})
	if err != nil {
		return nil, storage.MapDBError(err)
	}

	var sampled []entity.Trace
	if err := attributevalue.UnmarshalListOfMaps(sampleOut.Items, &sampled); err != nil {
		return nil, storage.MapDBError(err)
	}

	for _, trace := range sampled {
		spans, err := r.span.ListSpansByTrace(ctx, trace.TraceID)
		if err != nil {
			continue
		}
		stats.TotalSpans += int64(len(spans))
		for _, span := range spans {
			if span.TokensInput != nil {
				stats.TotalTokens += *span.TokensInput
			}
			if span.TokensOutput != nil {
				stats.TotalTokens += *span.TokensOutput
			}
			if span.CostUSD != nil {
				stats.TotalCostUSD += *span.CostUSD
			}
		}
	}
	stats.TotalCostUSD = roundTo4Decimals(stats.TotalCostUSD)

	return stats, nil
}

func parseRFC3339(v string) (time.Time, bool) {
	if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return ts, true
	}
	if ts, err := time.Parse(time.RFC3339, v); err == nil {
		return ts, true
	}
	return time.Time{}, false
}

func roundTo4Decimals(v float64) float64 {
	return float64(int64(v*10000+0.5)) / 10000
}
