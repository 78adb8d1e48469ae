package models

// ChainPayload is an opaque provider option-chain response. Shapes differ per
// provider and drift over time, so access is defensive: a missing or mistyped
// nested field reads as empty rather than failing.
type ChainPayload map[string]any

// MapField returns a nested object field, or nil when absent or not an object.
func MapField(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}

	v, _ := m[key].(map[string]any)
	return v
}

// ListField returns a nested list field, or nil when absent or not a list.
func ListField(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}

	v, _ := m[key].([]any)
	return v
}
