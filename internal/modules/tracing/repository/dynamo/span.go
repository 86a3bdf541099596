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

type spanRepository struct {
	db storage.Database
}

var _ repository.SpanRepository = (*spanRepository)(nil)

func NewSpanRepository(db storage.Database) repository.SpanRepository {
	return &spanRepository{db: db}
}

func (r *spanRepository) SaveSpan(ctx context.Context, span *entity.Span) error {
	span.TTL = storage.ExpiryEpoch(0, time.Now())

	item, err := attributevalue.MarshalMap(span)
	if err != nil {
		return storage.MapDBError(err)
	}

	_, err = r.db.Client().PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &[]string{r.db.SpansTable()}[0],
		Item:      item,
	})
	if err != nil {
		return storage.MapDBError(err)
	}
	return nil
}

func (r *spanRepository) GetSpan(ctx context.Context, spanID string) (*entity.Span, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"span_id": spanID})
	if err != nil {
		return nil, storage.MapDBError(err)
	}

	out, err := r.db.Client().GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &[]string{r.db.SpansTable()}[0],
		Key:       key,
	})
	if err != nil {
		return nil, storage.MapDBError(err)
	}
	if len(out.Item) == 0 {
		return nil, entity.ErrSpanNotFound
	}

	var span entity.Span
	if err := attributevalue.UnmarshalMap(out.Item, &span); err != nil {
		return nil, storage.MapDBError(err)
	}
	span.TTL = 0
	return &span, nil
}

func (r *spanRepository) ListSpansByTrace(ctx context.Context, traceID string) ([]entity.Span, error) {
	keyCond := expression.Key("trace_id").Equal(expression.Value(traceID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, storage.MapDBError(err)
	}

	out, err := r.db.Client().Query(ctx, &dynamodb.QueryInput{
		TableName:                 &[]string{r.db.SpansTable()}[0],
		IndexName:                 &[]string{traceIndex}[0],
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, storage.MapDBError(err)
	}

	var spans []entity.Span
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &spans); err != nil {
		return nil, storage.MapDBError(err)
	}
	for i := range spans {
		spans[i].TTL = 0
	}
	return spans, nil
}

// CompleteSpan builds a dynamic UpdateExpression from whichever completion
// fields are set. "error" is a DynamoDB reserved word, so it is always
// referenced through an ExpressionAttributeNames alias.
func (r *spanRepository) CompleteSpan(ctx context.Context, spanID string, completion repository.SpanCompletion) (*entity.Span, error) {
	existing, err := r.GetSpan(ctx, spanID)
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
	if completion.OutputData != nil {
		update = update.Set(expression.Name("output_data"), expression.Value(completion.OutputData))
	}
	if completion.TokensInput != nil {
		update = update.Set(expression.Name("tokens_input"), expression.Value(*completion.TokensInput))
	}
	if completion.TokensOutput != nil {
		update = update.Set(expression.Name("tokens_output"), expression.Value(*completion.TokensOutput))
	}
	if completion.CostUSD != nil {
		update = update.Set(expression.Name("cost_usd"), expression.Value(*completion.CostUSD))
	}
	if completion.Error != nil {
		// "error" is a DynamoDB reserved word; the expression builder
		// automatically substitutes a placeholder name for it.
		update = update.Set(expression.Name("error"), expression.Value(*completion.Error))
	}

	builder := expression.NewBuilder().WithUpdate(update)
	expr, err := builder.Build()
	if err != nil {
		return nil, storage.MapDBError(err)
	}

	key, err := attributevalue.MarshalMap(map[string]string{"span_id": spanID})
	if err != nil {
		return nil, storage.MapDBError(err)
	}

	out, err := r.db.Client().UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &[]string{r.db.SpansTable()}[0],
		Key:                       key,
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, storage.MapDBError(err)
	}

	var span entity.Span
	if err := attributevalue.UnmarshalMap(out.Attributes, &span); err != nil {
		return nil, storage.MapDBError(err)
	}
	span.TTL = 0
	return &span, nil
}
