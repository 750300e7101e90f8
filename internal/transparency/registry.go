package transparency

// WeightOrder maps signal weights to numeric severity (lower = more severe).
var WeightOrder = map[string]int{
	"critical": 1,
	"strong":   2,
	"moderate": 3,
	"info":     4,
}

// WeightSeverity returns the numeric severity for a weight name. Unknown
// weights rank least severe.
func WeightSeverity(weight string) int {
	if s, ok := WeightOrder[weight]; ok {
		return s
	}
	return len(WeightOrder) + 1
}

// IsAtLeastWeight reports whether weight is at least as severe as min.
func IsAtLeastWeight(weight, min string) bool {
	return WeightSeverity(weight) <= WeightSeverity(min)
}

// EscalationRule describes a count-based pattern worth surfacing on the
// dashboard above individual trace classifications.
type EscalationRule struct {
	ID                   string
	Description          string
	Category             string
	Polarity             string
	Count                int
	EscalatedWeight      string
	EscalatedDescription string
	RecommendedAction    string
}

// Registration maps a trace-event condition to its dashboard classification.
type Registration struct {
	ID          string
	EventType   string
	Condition   string // "" matches unconditionally
	Category    string // "confidence", "cost", "performance", "reliability"
	Weight      string
	Polarity    string
	Description string

	EscalationRules []EscalationRule
}

// Registry contains all trace signal registrations. The classifier
// evaluates every condition and keeps the most severe match; registry
// order only breaks severity ties.
var Registry = []Registration{
	// === Reliability ===
	{
		ID:          "trace_failed",
		EventType:   "trace_recorded",
		Condition:   "success == false",
		Category:    "reliability",
		Weight:      "critical",
		Polarity:    "negative",
		Description: "Query generation failed",
		EscalationRules: []EscalationRule{
			{
				ID:                   "rel_failure_burst",
				Description:          "Repeated generation failures within the window",
				Category:             "reliability",
				Polarity:             "negative",
				Count:                2,
				EscalatedWeight:      "critical",
				EscalatedDescription: "2+ failed generations. Check provider status and prompt templates.",
				RecommendedAction:    "Inspect recent failed traces for a shared prompt step or schema change.",
			},
		},
	},

	// === Confidence ===
	{
		ID:          "trace_low_confidence",
		EventType:   "trace_recorded",
		Condition:   "confidence < 0.5",
		Category:    "confidence",
		Weight:      "strong",
		Polarity:    "negative",
		Description: "Low-confidence generation",
		EscalationRules: []EscalationRule{
			{
				ID:                   "conf_low_pattern",
				Description:          "A run of low-confidence generations suggests stale business metadata",
				Category:             "confidence",
				Polarity:             "negative",
				Count:                3,
				EscalatedWeight:      "strong",
				EscalatedDescription: "3+ low-confidence generations. The model is guessing at table semantics.",
				RecommendedAction:    "Review business metadata for the tables referenced by these traces.",
			},
		},
	},
	{
		ID:          "trace_fair_confidence",
		EventType:   "trace_recorded",
		Condition:   "confidence < 0.8",
		Category:    "confidence",
		Weight:      "moderate",
		Polarity:    "neutral",
		Description: "Fair-confidence generation",
	},
	{
		ID:          "trace_high_confidence",
		EventType:   "trace_recorded",
		Condition:   "confidence >= 0.8",
		Category:    "confidence",
		Weight:      "info",
		Polarity:    "positive",
		Description: "High-confidence generation",
	},

	// === Cost ===
	{
		ID:          "trace_heavy_tokens",
		EventType:   "trace_recorded",
		Condition:   "total_tokens > 8000",
		Category:    "cost",
		Weight:      "moderate",
		Polarity:    "negative",
		Description: "Heavy token usage",
	},

	// === Performance ===
	{
		ID:          "trace_slow",
		EventType:   "trace_recorded",
		Condition:   "duration_ms > 30000",
		Category:    "performance",
		Weight:      "strong",
		Polarity:    "negative",
		Description: "Slow generation",
	},
}

// registryByEventType is the lookup map built at Init time.
var registryByEventType map[string][]Registration

// Init builds the event-type lookup. Safe to call more than once.
func Init() {
	registryByEventType = make(map[string][]Registration)
	for _, reg := range Registry {
		registryByEventType[reg.EventType] = append(registryByEventType[reg.EventType], reg)
	}
}

// LookupRegistrations returns all registrations for an event type.
func LookupRegistrations(eventType string) []Registration {
	if registryByEventType == nil {
		Init()
	}
	return registryByEventType[eventType]
}
