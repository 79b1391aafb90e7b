package jsonutil

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FlexibleStringValue converts a json.RawMessage to a string, handling cases where
// an upstream service returns numbers or booleans instead of strings.
// Returns empty string for null/empty.
func FlexibleStringValue(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	// Try string first
	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		return strVal
	}

	// Try number
	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		if numVal == float64(int64(numVal)) {
			return fmt.Sprintf("%d", int64(numVal))
		}
		return fmt.Sprintf("%g", numVal)
	}

	// Try boolean
	var boolVal bool
	if err := json.Unmarshal(raw, &boolVal); err == nil {
		return fmt.Sprintf("%t", boolVal)
	}

	// Fallback: return raw string representation
	return string(raw)
}

// ReferenceID extracts an identifier that may be sent either as a bare string
// or as an object carrying it under "uuid" (or "id").
// Returns "" for null/empty input and for objects without an identifier,
// an error for any other shape.
func ReferenceID(raw json.RawMessage) (string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("invalid reference string: %w", err)
		}
		return strings.TrimSpace(s), nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return "", fmt.Errorf("invalid reference object: %w", err)
		}
		for _, key := range []string{"uuid", "id"} {
			if v, ok := obj[key]; ok {
				return strings.TrimSpace(FlexibleStringValue(v)), nil
			}
		}
		return "", nil
	default:
		return "", fmt.Errorf("unsupported reference shape: %s", TruncateRaw(raw, 40))
	}
}

// TruncateRaw renders raw JSON for error messages, cut to at most n bytes.
func TruncateRaw(raw json.RawMessage, n int) string {
	if len(raw) <= n {
		return string(raw)
	}
	return string(raw[:n]) + "..."
}
