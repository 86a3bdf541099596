package storage_test

import (
	"testing"

	"llmtracer/backend/internal/infrastructure/storage"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCursor_RoundTrip(t *testing.T) {
	key, err := attributevalue.MarshalMap(map[string]any{
		"project_id": "project-public",
		"trace_id":   "trace-123",
	})
	require.NoError(t, err)

	cursor, err := storage.EncodeCursor(key)
	require.NoError(t, err)
	assert.NotEmpty(t, cursor)

	decoded := storage.DecodeCursor(cursor)
	assert.Equal(t, key, decoded)
}

func TestEncodeCursor_EmptyKeyYieldsEmptyCursor(t *testing.T) {
	cursor, err := storage.EncodeCursor(nil)
	require.NoError(t, err)
	assert.Empty(t, cursor)
}

func TestDecodeCursor_EmptyStringYieldsNilKey(t *testing.T) {
	assert.Nil(t, storage.DecodeCursor(""))
}

func TestDecodeCursor_MalformedCursorIsSilentlyIgnored(t *testing.T) {
	assert.Nil(t, storage.DecodeCursor("not-valid-base64!!"))
	assert.Nil(t, storage.DecodeCursor("aGVsbG8=")) // valid base64, invalid JSON
}

func TestDecodeCursor_NonMapJSONIsSilentlyIgnored(t *testing.T) {
	// base64 of `["not","a","map"]`
	assert.Nil(t, storage.DecodeCursor("WyJub3QiLCJhIiwibWFwIl0="))
}

