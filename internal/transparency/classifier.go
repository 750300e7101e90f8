package transparency

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Classify looks up the event type in the registry and evaluates every
// registration against the event payload. The categories are independent
// axes (a trace always carries a confidence, and may also be heavy or
// slow), so all matches are collected and the most severe weight wins.
// Registry order breaks ties between equally severe matches.
//
// Returns ok=false if no registration matches the event type.
func Classify(evt TraceEvent) (result Classification, ok bool) {
	registrations := LookupRegistrations(evt.EventType)
	if len(registrations) == 0 {
		return Classification{}, false
	}

	// Parse payload once for condition matching.
	var payload map[string]interface{}
	if len(evt.Payload) > 0 {
		_ = json.Unmarshal(evt.Payload, &payload)
	}

	var best *Registration
	var fallback *Registration
	for i := range registrations {
		reg := &registrations[i]
		if reg.Condition == "" {
			if fallback == nil {
				fallback = reg
			}
			continue
		}
		if !matchCondition(reg.Condition, payload) {
			continue
		}
		if best == nil || WeightSeverity(reg.Weight) < WeightSeverity(best.Weight) {
			best = reg
		}
	}
	if best != nil {
		return classification(best), true
	}
	if fallback != nil {
		return classification(fallback), true
	}
	return Classification{}, false
}

func classification(reg *Registration) Classification {
	return Classification{
		Category:    reg.Category,
		Weight:      reg.Weight,
		Polarity:    reg.Polarity,
		Description: reg.Description,
	}
}

// matchCondition performs simple condition matching against payload fields.
// Supports: "field == value", "field > N", "field < N", "field <= N", "field >= N"
func matchCondition(condition string, payload map[string]interface{}) bool {
	if payload == nil {
		return false
	}

	// Order matters: check two-char operators before single-char.
	for _, op := range []string{"<=", ">=", "==", "<", ">"} {
		parts := strings.SplitN(condition, op, 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		expected := strings.TrimSpace(parts[1])
		actual, exists := payload[key]
		if !exists {
			return false
		}
		switch op {
		case "==":
			return valueEquals(actual, expected)
		case "<=":
			return valueCompare(actual, expected) <= 0
		case ">=":
			return valueCompare(actual, expected) >= 0
		case "<":
			return valueCompare(actual, expected) < 0
		case ">":
			return valueCompare(actual, expected) > 0
		}
	}

	return false
}

// valueEquals checks if a payload value matches the expected string.
func valueEquals(actual interface{}, expected string) bool {
	switch v := actual.(type) {
	case string:
		return v == expected
	case float64:
		ev, err := strconv.ParseFloat(expected, 64)
		if err != nil {
			return strconv.FormatFloat(v, 'f', -1, 64) == expected
		}
		return v == ev
	case bool:
		return (v && expected == "true") || (!v && expected == "false")
	default:
		return false
	}
}

// valueCompare returns -1, 0, or 1 comparing actual to threshold numerically.
func valueCompare(actual interface{}, threshold string) int {
	av, ok := actual.(float64)
	if !ok {
		return 0
	}
	tv, err := strconv.ParseFloat(threshold, 64)
	if err != nil {
		return 0
	}
	if av < tv {
		return -1
	}
	if av > tv {
		return 1
	}
	return 0
}
