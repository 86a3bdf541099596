package sizeguard_test

import (
	"strings"
	"testing"

	"llmtracer/backend/internal/pkg/sizeguard"

	"github.com/stretchr/testify/assert"
)

func TestTruncateDict_PassThrough(t *testing.T) {
	data := map[string]any{"a": "short"}
	got := sizeguard.TruncateDict(data, sizeguard.MaxMetadataSize)
	assert.Equal(t, data, got)
	_, hasFlag := got["_truncated"]
	assert.False(t, hasFlag)
}

func TestTruncateDict_Empty(t *testing.T) {
	assert.Nil(t, sizeguard.TruncateDict(nil, sizeguard.MaxMetadataSize))
	assert.Equal(t, map[string]any{}, sizeguard.TruncateDict(map[string]any{}, sizeguard.MaxMetadataSize))
}

func TestTruncateDict_InnerStringTruncation(t *testing.T) {
	long := strings.Repeat("x", 5000)
	data := map[string]any{"output": long}

	got := sizeguard.TruncateDict(data, 2000)

	assert.Equal(t, true, got["_truncated"])
	out, ok := got["output"].(string)
	assert.True(t, ok)
	assert.Contains(t, out, "truncated, was 5000 chars")
	assert.Less(t, len(out), len(long))
}

func TestTruncateDict_DropsLargestKeysWhenStillOversized(t *testing.T) {
	data := map[string]any{
		"small": "a",
		"huge":  strings.Repeat("y", 100_000),
	}

	got := sizeguard.TruncateDict(data, 500)

	assert.Equal(t, true, got["_truncated"])
	assert.Contains(t, got, "_original_size")
	huge, ok := got["huge"].(string)
	assert.True(t, ok)
	assert.Contains(t, huge, "[dropped:")
	assert.Equal(t, "a", got["small"])
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "", sizeguard.TruncateString("", 10))
	assert.Equal(t, "short", sizeguard.TruncateString("short", 10))

	long := strings.Repeat("z", 200)
	got := sizeguard.TruncateString(long, 100)
	assert.LessOrEqual(t, len(got), 100-50+40)
	assert.Contains(t, got, "truncated, was 200 chars")
}

func TestStringifyMetadata(t *testing.T) {
	got := sizeguard.StringifyMetadata(map[string]any{
		"count":  float64(3),
		"active": true,
		"label":  "ok",
		"empty":  nil,
	})

	assert.Equal(t, "3", got["count"])
	assert.Equal(t, "True", got["active"])
	assert.Equal(t, "ok", got["label"])
	assert.Equal(t, "None", got["empty"])
}
