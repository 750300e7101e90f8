package transparency

import (
	"encoding/json"
	"testing"
)

func init() {
	Init()
}

func TestClassify_FailedTrace(t *testing.T) {
	evt := TraceEvent{
		EventID:   "evt-1",
		EventType: "trace_recorded",
		Payload:   json.RawMessage(`{"success": false, "confidence": 0.9}`),
	}
	result, ok := Classify(evt)
	if !ok {
		t.Fatal("expected classification for failed trace")
	}
	if result.Category != "reliability" {
		t.Errorf("category = %q, want reliability", result.Category)
	}
	if result.Weight != "critical" {
		t.Errorf("weight = %q, want critical", result.Weight)
	}
	if result.Polarity != "negative" {
		t.Errorf("polarity = %q, want negative", result.Polarity)
	}
}

func TestClassify_LowConfidence(t *testing.T) {
	evt := TraceEvent{
		EventID:   "evt-2",
		EventType: "trace_recorded",
		Payload:   json.RawMessage(`{"success": true, "confidence": 0.3}`),
	}
	result, ok := Classify(evt)
	if !ok {
		t.Fatal("expected classification for low-confidence trace")
	}
	if result.Category != "confidence" {
		t.Errorf("category = %q, want confidence", result.Category)
	}
	if result.Weight != "strong" {
		t.Errorf("weight = %q, want strong", result.Weight)
	}
}

func TestClassify_FairConfidence(t *testing.T) {
	evt := TraceEvent{
		EventID:   "evt-3",
		EventType: "trace_recorded",
		Payload:   json.RawMessage(`{"success": true, "confidence": 0.65}`),
	}
	result, ok := Classify(evt)
	if !ok {
		t.Fatal("expected classification for fair-confidence trace")
	}
	if result.Weight != "moderate" {
		t.Errorf("weight = %q, want moderate", result.Weight)
	}
	if result.Polarity != "neutral" {
		t.Errorf("polarity = %q, want neutral", result.Polarity)
	}
}

func TestClassify_HighConfidence(t *testing.T) {
	evt := TraceEvent{
		EventID:   "evt-4",
		EventType: "trace_recorded",
		Payload:   json.RawMessage(`{"success": true, "confidence": 0.92}`),
	}
	result, ok := Classify(evt)
	if !ok {
		t.Fatal("expected classification for high-confidence trace")
	}
	if result.Polarity != "positive" {
		t.Errorf("polarity = %q, want positive", result.Polarity)
	}
	if result.Weight != "info" {
		t.Errorf("weight = %q, want info", result.Weight)
	}
}

func TestClassify_FailureBeatsConfidence(t *testing.T) {
	// A failed trace with high confidence still classifies as a reliability
	// failure: critical outranks every other weight.
	evt := TraceEvent{
		EventID:   "evt-5",
		EventType: "trace_recorded",
		Payload:   json.RawMessage(`{"success": false, "confidence": 0.95}`),
	}
	result, ok := Classify(evt)
	if !ok {
		t.Fatal("expected classification")
	}
	if result.Category != "reliability" {
		t.Errorf("category = %q, want reliability", result.Category)
	}
}

func TestClassify_HeavyTokens(t *testing.T) {
	// The confidence tiers always match, but heavy token usage is more
	// severe than an info-weight high-confidence signal.
	evt := TraceEvent{
		EventID:   "evt-8",
		EventType: "trace_recorded",
		Payload:   json.RawMessage(`{"success": true, "confidence": 0.9, "total_tokens": 20000}`),
	}
	result, ok := Classify(evt)
	if !ok {
		t.Fatal("expected classification for heavy-token trace")
	}
	if result.Category != "cost" {
		t.Errorf("category = %q, want cost", result.Category)
	}
	if result.Weight != "moderate" {
		t.Errorf("weight = %q, want moderate", result.Weight)
	}
	if result.Polarity != "negative" {
		t.Errorf("polarity = %q, want negative", result.Polarity)
	}
}

func TestClassify_SlowGeneration(t *testing.T) {
	evt := TraceEvent{
		EventID:   "evt-9",
		EventType: "trace_recorded",
		Payload:   json.RawMessage(`{"success": true, "confidence": 0.9, "duration_ms": 60000}`),
	}
	result, ok := Classify(evt)
	if !ok {
		t.Fatal("expected classification for slow trace")
	}
	if result.Category != "performance" {
		t.Errorf("category = %q, want performance", result.Category)
	}
	if result.Weight != "strong" {
		t.Errorf("weight = %q, want strong", result.Weight)
	}
}

func TestClassify_SlowBeatsHeavyTokens(t *testing.T) {
	// When a trace is both heavy and slow, the stronger performance signal
	// wins over the moderate cost signal.
	evt := TraceEvent{
		EventID:   "evt-10",
		EventType: "trace_recorded",
		Payload:   json.RawMessage(`{"success": true, "confidence": 0.9, "total_tokens": 20000, "duration_ms": 60000}`),
	}
	result, ok := Classify(evt)
	if !ok {
		t.Fatal("expected classification")
	}
	if result.Category != "performance" {
		t.Errorf("category = %q, want performance", result.Category)
	}
}

func TestClassify_LowConfidenceBeatsHeavyTokens(t *testing.T) {
	// strong (confidence < 0.5) outranks moderate (cost).
	evt := TraceEvent{
		EventID:   "evt-11",
		EventType: "trace_recorded",
		Payload:   json.RawMessage(`{"success": true, "confidence": 0.3, "total_tokens": 20000}`),
	}
	result, ok := Classify(evt)
	if !ok {
		t.Fatal("expected classification")
	}
	if result.Category != "confidence" {
		t.Errorf("category = %q, want confidence", result.Category)
	}
	if result.Weight != "strong" {
		t.Errorf("weight = %q, want strong", result.Weight)
	}
}

func TestClassify_UnknownEventType(t *testing.T) {
	evt := TraceEvent{
		EventID:   "evt-6",
		EventType: "totally_made_up",
	}
	_, ok := Classify(evt)
	if ok {
		t.Error("expected no classification for unknown event type")
	}
}

func TestClassify_NoPayload(t *testing.T) {
	// Every trace_recorded registration carries a condition, so an empty
	// payload matches nothing.
	evt := TraceEvent{
		EventID:   "evt-7",
		EventType: "trace_recorded",
	}
	_, ok := Classify(evt)
	if ok {
		t.Error("expected no classification without payload")
	}
}

func TestWeightSeverityOrdering(t *testing.T) {
	if !IsAtLeastWeight("critical", "strong") {
		t.Error("critical should be at least strong")
	}
	if IsAtLeastWeight("info", "moderate") {
		t.Error("info should not be at least moderate")
	}
	if !IsAtLeastWeight("moderate", "moderate") {
		t.Error("moderate should be at least moderate")
	}
	if IsAtLeastWeight("unknown", "info") {
		t.Error("unknown weights rank least severe")
	}
}
