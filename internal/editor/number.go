package editor

import (
	"encoding/json"
	"strings"
)

// numberText reports whether a draft reads as a JSON number, returning its
// canonical source text.
func numberText(s string) (json.Number, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", false
	}
	var n json.Number
	if err := json.Unmarshal([]byte(trimmed), &n); err != nil {
		return "", false
	}
	return n, true
}
