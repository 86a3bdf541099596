package storage

import (
	"encoding/base64"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// EncodeCursor base64-encodes a query's LastEvaluatedKey as opaque pagination
// state for the caller. An empty/nil key yields an empty cursor.
func EncodeCursor(key map[string]types.AttributeValue) (string, error) {
	if len(key) == 0 {
		return "", nil
	}

	plain := make(map[string]any, len(key))
	if err := attributevalue.UnmarshalMap(key, &plain); err != nil {
		return "", err
	}

	raw, err := json.Marshal(plain)
	if err != nil {
		return "", err
	}

	return base64.URLEncoding.EncodeToString(raw), nil
}

// DecodeCursor reverses EncodeCursor. A malformed cursor is treated as "no
// cursor" rather than an error, matching the source's silent-ignore
// behavior for a client that sends back a corrupted page token.
func DecodeCursor(cursor string) map[string]types.AttributeValue {
	if cursor == "" {
		return nil
	}

	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return nil
	}

	var plain map[string]any
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil
	}

	key, err := attributevalue.MarshalMap(plain)
	if err != nil {
		return nil
	}

	return key
}
