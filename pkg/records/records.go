// Package records defines the generic record type produced by parsers and
// consumed by the transform layer, plus small typed accessors for pulling
// values out of decoded JSON.
//
// Parsers decode with json.Decoder.UseNumber, so numeric values arrive as
// json.Number; the accessors here hide that detail from callers.
package records

import "encoding/json"

// Record is a single parsed input record: one JSON object from a song
// catalog or activity log file.
type Record map[string]any

// String returns the value for key rendered as a string. Plain strings are
// returned as-is and json.Number values as their literal text (activity logs
// carry user ids as strings, but some exports emit them as bare numbers).
// Missing, null, or other-typed values yield "".
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// Float returns the value for key as a float64 and whether a usable numeric
// value was present.
func (r Record) Float(key string) (float64, bool) {
	switch v := r[key].(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// Int64 returns the value for key as an int64 and whether a usable integer
// value was present. Fractional numbers are rejected rather than truncated.
func (r Record) Int64(key string) (int64, bool) {
	switch v := r[key].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

// FloatPtr returns a pointer to the value for key, or nil when the value is
// missing or null. Nullable numeric columns (artist latitude/longitude) use
// this to flow NULL through to the store unchanged.
func (r Record) FloatPtr(key string) *float64 {
	if f, ok := r.Float(key); ok {
		return &f
	}
	return nil
}

// Has reports whether key is present with a non-null value.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}
