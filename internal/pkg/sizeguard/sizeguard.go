// Package sizeguard implements the deterministic truncation pipeline that
// keeps trace/span payloads under the DynamoDB item ceiling. It operates on
// decoded JSON (map[string]any / []any / string / float64 / bool / nil)
// rather than a specific domain type, so the same pipeline serves metadata,
// input_data, and output_data alike.
package sizeguard

import (
	"encoding/json"
	"fmt"
)

// Ceilings mirror the original service's conservative margins below
// DynamoDB's 400KB item limit.
const (
	MaxMetadataSize    = 10_000  // bytes
	MaxInputOutputSize = 50_000  // bytes
	MaxStringLength    = 10_000  // chars
	MaxItemSize        = 350_000 // bytes, safety margin for the full item

	defaultMaxStringValueLen = 1000 // per-string cap used by the inner-truncation pass
)

// TruncateDict shrinks data to fit within maxSize serialized bytes using
// three strategies in order: pass-through, inner-string truncation (marked
// with "_truncated"), then key-dropping (marked with "_truncated" and
// "_original_size"). A nil or empty map is returned unchanged.
func TruncateDict(data map[string]any, maxSize int) map[string]any {
	if len(data) == 0 {
		return data
	}

	serialized := mustMarshal(data)
	if len(serialized) <= maxSize {
		return data
	}

	truncated := truncateStringValues(copyMap(data), maxSize, defaultMaxStringValueLen)
	if len(mustMarshal(truncated)) <= maxSize {
		truncated["_truncated"] = true
		return truncated
	}

	dropped := dropLargeKeys(copyMap(data), maxSize)
	dropped["_truncated"] = true
	dropped["_original_size"] = len(serialized)
	return dropped
}

// TruncateString keeps the first maxLength-50 bytes of value, appending a
// sentinel describing the original size. Values already within the limit,
// or empty, are returned unchanged.
func TruncateString(value string, maxLength int) string {
	if value == "" || len(value) <= maxLength {
		return value
	}
	cut := maxLength - 50
	if cut < 0 {
		cut = 0
	}
	return value[:cut] + fmt.Sprintf("\n... [truncated, was %d chars]", len(value))
}

// StringifyMetadata converts every value to its string representation, since
// DynamoDB attribute maps used for metadata are defined as string-to-string.
func StringifyMetadata(data map[string]any) map[string]any {
	if len(data) == 0 {
		return data
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = stringifyValue(v)
	}
	return out
}

func stringifyValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return "None"
	case bool:
		if t {
			return "True"
		}
		return "False"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}

func truncateStringValues(data map[string]any, maxSize, maxStrLen int) map[string]any {
	result := make(map[string]any, len(data))
	for key, value := range data {
		switch v := value.(type) {
		case string:
			if len(v) > maxStrLen {
				result[key] = v[:maxStrLen] + fmt.Sprintf("... [truncated, was %d chars]", len(v))
			} else {
				result[key] = v
			}
		case map[string]any:
			result[key] = truncateStringValues(v, maxSize, maxStrLen)
		case []any:
			result[key] = truncateStringList(v, maxStrLen)
		default:
			result[key] = value
		}
	}
	return result
}

func truncateStringList(list []any, maxStrLen int) []any {
	out := make([]any, len(list))
	for i, v := range list {
		switch item := v.(type) {
		case map[string]any:
			out[i] = truncateStringValues(item, 0, maxStrLen)
		case string:
			if len(item) > maxStrLen {
				out[i] = item[:maxStrLen] + "..."
			} else {
				out[i] = item
			}
		default:
			out[i] = v
		}
	}
	return out
}

// dropLargeKeys repeatedly removes the value of the largest remaining key
// (by serialized size) until the dict fits, or every key has been dropped
// once (guards against an infinite loop on pathological inputs).
func dropLargeKeys(data map[string]any, maxSize int) map[string]any {
	result := copyMap(data)
	dropped := make(map[string]bool, len(result))

	for len(mustMarshal(result)) > maxSize && len(result) > 0 {
		var largestKey string
		var largestSize int
		found := false
		for k := range result {
			if dropped[k] {
				continue
			}
			size := len(mustMarshal(result[k]))
			if !found || size > largestSize {
				largestKey = k
				largestSize = size
				found = true
			}
		}
		if !found {
			break
		}
		result[largestKey] = fmt.Sprintf("[dropped: %d bytes]", largestSize)
		dropped[largestKey] = true
	}

	return result
}

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return b
}
