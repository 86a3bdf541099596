package storage

import (
	"context"
	"errors"

	"llmtracer/backend/internal/pkg/apperror"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MapDBError translates a DynamoDB/smithy error into an AppError the way
// the Postgres-era MapDBError translated pgconn error codes: connection and
// throughput problems are transient (safe to retry), conditional-check and
// not-found problems are persistence-layer facts about the data.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return apperror.NewPersistance("STORAGE_TABLE_NOT_FOUND", "table not found").WithError(err)
	}

	var condFailed *types.ConditionalCheckFailedException
	if errors.As(err, &condFailed) {
		return apperror.NewPersistance("STORAGE_CONDITION_FAILED", "conditional write failed").WithError(err)
	}

	var throughput *types.ProvisionedThroughputExceededException
	if errors.As(err, &throughput) {
		return apperror.NewTransient("STORAGE_THROUGHPUT_EXCEEDED", "provisioned throughput exceeded").WithError(err)
	}

	var throttling *types.RequestLimitExceeded
	if errors.As(err, &throttling) {
		return apperror.NewTransient("STORAGE_THROTTLED", "request rate too high").WithError(err)
	}

	var internalServer *types.InternalServerError
	if errors.As(err, &internalServer) {
		return apperror.NewTransient("STORAGE_INTERNAL_ERROR", "storage backend internal error").WithError(err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.NewTransient("STORAGE_TIMEOUT", "storage call timed out").WithError(err)
	}

	return apperror.NewInternal("STORAGE_UNKNOWN_ERROR", "unexpected storage error").WithError(err)
}
