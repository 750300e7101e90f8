package transparency

import (
	"sort"
	"time"
)

// ModelUsage summarizes token spend and outcomes for one model.
type ModelUsage struct {
	Model            string  `json:"model"`
	Traces           int     `json:"traces"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	AvgConfidence    float64 `json:"avg_confidence"`
	AvgDurationMs    float64 `json:"avg_duration_ms"`
	Failures         int     `json:"failures"`
}

// CategorySummary rolls up one signal category within the window.
type CategorySummary struct {
	Category         string         `json:"category"`
	TraceCount       int            `json:"trace_count"`
	ByWeight         map[string]int `json:"by_weight"`
	ByPolarity       map[string]int `json:"by_polarity"`
	DominantPolarity string         `json:"dominant_polarity"`
	Trend            string         `json:"trend"` // "improving", "declining", "stable"
}

// ConfidenceBucket is one bar of the confidence distribution chart.
type ConfidenceBucket struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Escalation is a triggered escalation rule.
type Escalation struct {
	RuleID            string `json:"rule_id"`
	Weight            string `json:"weight"`
	Description       string `json:"description"`
	RecommendedAction string `json:"recommended_action,omitempty"`
	MatchCount        int    `json:"match_count"`
}

// DashboardSummary is the aggregate payload behind the transparency
// dashboards.
type DashboardSummary struct {
	Since         time.Time                  `json:"since"`
	Until         time.Time                  `json:"until"`
	TraceCount    int                        `json:"trace_count"`
	SuccessRate   float64                    `json:"success_rate"`
	AvgConfidence float64                    `json:"avg_confidence"`
	TotalTokens   int                        `json:"total_tokens"`
	Models        []ModelUsage               `json:"models"`
	Confidence    []ConfidenceBucket         `json:"confidence"`
	Categories    map[string]CategorySummary `json:"categories"`
	Escalations   []Escalation               `json:"escalations"`
}

// TokenReport is the token-spend view behind the usage dashboard: overall
// totals plus the per-model breakdown.
type TokenReport struct {
	Since            time.Time    `json:"since"`
	Until            time.Time    `json:"until"`
	TraceCount       int          `json:"trace_count"`
	PromptTokens     int          `json:"prompt_tokens"`
	CompletionTokens int          `json:"completion_tokens"`
	TotalTokens      int          `json:"total_tokens"`
	Models           []ModelUsage `json:"models"`
}

// confidenceBuckets returns the fixed chart buckets.
func confidenceBuckets() []ConfidenceBucket {
	return []ConfidenceBucket{
		{Label: "low", Min: 0, Max: 0.5},
		{Label: "fair", Min: 0.5, Max: 0.7},
		{Label: "good", Min: 0.7, Max: 0.85},
		{Label: "high", Min: 0.85, Max: 1.0000001}, // inclusive upper edge
	}
}

// Aggregate produces a DashboardSummary from trace entries within a time
// window.
func Aggregate(entries []TraceEntry, since, until time.Time) DashboardSummary {
	summary := DashboardSummary{
		Since:      since,
		Until:      until,
		TraceCount: len(entries),
		Confidence: confidenceBuckets(),
		Categories: make(map[string]CategorySummary),
	}
	if len(entries) == 0 {
		return summary
	}

	categories := make(map[string]*CategorySummary)
	var confidenceSum float64
	var successes int

	for _, e := range entries {
		confidenceSum += e.Confidence
		summary.TotalTokens += e.TotalTokens
		if e.Success {
			successes++
		}

		for i := range summary.Confidence {
			b := &summary.Confidence[i]
			if e.Confidence >= b.Min && e.Confidence < b.Max {
				b.Count++
				break
			}
		}

		cs, ok := categories[e.Category]
		if !ok {
			cs = &CategorySummary{
				Category:   e.Category,
				ByWeight:   make(map[string]int),
				ByPolarity: make(map[string]int),
			}
			categories[e.Category] = cs
		}
		cs.TraceCount++
		cs.ByWeight[e.Weight]++
		cs.ByPolarity[e.Polarity]++
	}

	summary.AvgConfidence = confidenceSum / float64(len(entries))
	summary.SuccessRate = float64(successes) / float64(len(entries))
	summary.Models = modelRollup(entries)

	for cat, cs := range categories {
		cs.DominantPolarity = dominantPolarity(cs.ByPolarity)
		cs.Trend = computeTrend(entries, cat, since, until)
		summary.Categories[cat] = *cs
	}

	summary.Escalations = EvaluateEscalations(entries)
	return summary
}

// AggregateTokens produces the token-spend report for a window.
func AggregateTokens(entries []TraceEntry, since, until time.Time) TokenReport {
	report := TokenReport{
		Since:      since,
		Until:      until,
		TraceCount: len(entries),
		Models:     []ModelUsage{},
	}
	for _, e := range entries {
		report.PromptTokens += e.PromptTokens
		report.CompletionTokens += e.CompletionTokens
		report.TotalTokens += e.TotalTokens
	}
	if len(entries) > 0 {
		report.Models = modelRollup(entries)
	}
	return report
}

// modelRollup aggregates per-model usage, most tokens first.
func modelRollup(entries []TraceEntry) []ModelUsage {
	models := make(map[string]*ModelUsage)
	for _, e := range entries {
		mu, ok := models[e.Model]
		if !ok {
			mu = &ModelUsage{Model: e.Model}
			models[e.Model] = mu
		}
		mu.Traces++
		mu.PromptTokens += e.PromptTokens
		mu.CompletionTokens += e.CompletionTokens
		mu.TotalTokens += e.TotalTokens
		mu.AvgConfidence += e.Confidence
		mu.AvgDurationMs += float64(e.DurationMs)
		if !e.Success {
			mu.Failures++
		}
	}

	rollup := make([]ModelUsage, 0, len(models))
	for _, mu := range models {
		mu.AvgConfidence /= float64(mu.Traces)
		mu.AvgDurationMs /= float64(mu.Traces)
		rollup = append(rollup, *mu)
	}
	sort.Slice(rollup, func(i, j int) bool {
		return rollup[i].TotalTokens > rollup[j].TotalTokens
	})
	return rollup
}

// EvaluateEscalations checks all count-based escalation rules against the
// provided trace entries.
func EvaluateEscalations(entries []TraceEntry) []Escalation {
	var escalated []Escalation
	for _, reg := range Registry {
		for _, rule := range reg.EscalationRules {
			matches := 0
			for _, e := range entries {
				if e.Category == rule.Category && e.Polarity == rule.Polarity {
					matches++
				}
			}
			if matches >= rule.Count {
				escalated = append(escalated, Escalation{
					RuleID:            rule.ID,
					Weight:            rule.EscalatedWeight,
					Description:       rule.EscalatedDescription,
					RecommendedAction: rule.RecommendedAction,
					MatchCount:        matches,
				})
			}
		}
	}
	return escalated
}

// dominantPolarity returns the polarity with the highest count.
func dominantPolarity(byPolarity map[string]int) string {
	best := ""
	bestCount := 0
	for p, c := range byPolarity {
		if c > bestCount {
			best = p
			bestCount = c
		}
	}
	return best
}

// computeTrend compares negative-signal volume in the first vs second half
// of the time window.
func computeTrend(entries []TraceEntry, category string, since, until time.Time) string {
	mid := since.Add(until.Sub(since) / 2)
	var firstHalf, secondHalf int
	for _, e := range entries {
		if e.Category != category || e.Polarity != "negative" {
			continue
		}
		if e.OccurredAt.Before(mid) {
			firstHalf++
		} else {
			secondHalf++
		}
	}
	if secondHalf > firstHalf+1 {
		return "declining"
	}
	if firstHalf > secondHalf+1 {
		return "improving"
	}
	return "stable"
}
