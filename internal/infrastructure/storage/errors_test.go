package storage_test

import (
	"context"
	"errors"
	"testing"

	"llmtracer/backend/internal/infrastructure/storage"
	"llmtracer/backend/internal/pkg/apperror"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDBError_Nil(t *testing.T) {
	assert.Nil(t, storage.MapDBError(nil))
}

func TestMapDBError_ResourceNotFound(t *testing.T) {
	err := storage.MapDBError(&types.ResourceNotFoundException{})

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "STORAGE_TABLE_NOT_FOUND", appErr.Code)
	assert.False(t, appErr.IsRetryable())
}

func TestMapDBError_ConditionalCheckFailed(t *testing.T) {
	err := storage.MapDBError(&types.ConditionalCheckFailedException{})

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "STORAGE_CONDITION_FAILED", appErr.Code)
	assert.False(t, appErr.IsRetryable())
}

func TestMapDBError_ThroughputAndThrottling_AreRetryable(t *testing.T) {
	for _, src := range []error{
		&types.ProvisionedThroughputExceededException{},
		&types.RequestLimitExceeded{},
		&types.InternalServerError{},
	} {
		err := storage.MapDBError(src)

		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.True(t, appErr.IsRetryable())
	}
}

func TestMapDBError_DeadlineExceeded(t *testing.T) {
	err := storage.MapDBError(context.DeadlineExceeded)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "STORAGE_TIMEOUT", appErr.Code)
	assert.True(t, appErr.IsRetryable())
}

func TestMapDBError_UnknownFallsBackToInternal(t *testing.T) {
	err := storage.MapDBError(errors.New("boom"))

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "STORAGE_UNKNOWN_ERROR", appErr.Code)
}
