package llm

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"triage_server/pkg/apperr"
)

// ExtractJSONObject fishes a JSON object out of a completion that may be
// wrapped in prose or markdown fences: everything from the first '{' to the
// last '}' inclusive. Returns an unparseable error when no braces exist.
func ExtractJSONObject(raw string) (string, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "```json")
	raw = strings.TrimSuffix(raw, "```")

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return "", apperr.OracleUnparseable("no JSON object in completion")
	}
	return raw[start : end+1], nil
}

// ParseJSONObject extracts and unmarshals a completion into a loose map so
// field coercion can tolerate wrong value types.
func ParseJSONObject(raw string) (map[string]any, error) {
	extracted, err := ExtractJSONObject(raw)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(extracted), &fields); err != nil {
		return nil, apperr.OracleUnparseable("malformed JSON object").WithDetail("cause", err.Error())
	}
	return fields, nil
}

// ClampScore forces a confidence into [0, 1].
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ScoreField reads a numeric field tolerantly: floats, ints, and numeric
// strings all count; anything else yields 0.5. The result is clamped.
func ScoreField(fields map[string]any, key string) float64 {
	v, ok := fields[key]
	if !ok {
		return 0.5
	}
	f, ok := asFloat(v)
	if !ok {
		return 0.5
	}
	return ClampScore(f)
}

// StringField reads a string field, empty when absent or mistyped.
func StringField(fields map[string]any, key string) string {
	if s, ok := fields[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// BoolField reads a bool field tolerantly, accepting "true"/"false" strings.
func BoolField(fields map[string]any, key string) bool {
	switch v := fields[key].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(v)))
		return err == nil && b
	default:
		return false
	}
}

// StringSliceField reads a string-array field, skipping non-string elements.
func StringSliceField(fields map[string]any, key string) []string {
	items, ok := fields[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
