package jsonval

import "encoding/json"

// Serialize renders a value back to stored-field text: pretty-printed JSON
// with two-space indentation for containers, the plain JSON form for bare
// scalars (so an edited string scalar round-trips with its quotes). A nil
// value serializes to the empty string.
func Serialize(v Value) string {
	if v == nil {
		return ""
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		// Value trees marshal from in-memory state only; this is unreachable
		// for any tree produced by Parse or ApplyEdit.
		return ""
	}
	return string(b)
}

// Compact renders a value as single-line JSON, used for the bounded-depth
// preview fallback.
func Compact(v Value) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
