package protocol

import (
	"encoding/json"
	"strings"
)

// Outcome is the classification of a raw model response.
type Outcome struct {
	// Answer holds the verbatim text to show the user when the response is
	// not a structured action.
	Answer string
	// Action is set when the response parsed as a known action kind.
	Action *ActionRequest
	// UnknownAction is set when the response was a well-formed action object
	// whose kind is outside the grammar. The raw JSON must not be shown.
	UnknownAction Kind
}

// Classify decides whether rawText is a structured action or a plain answer.
// A single JSON object with a recognized "action" field is an action; valid
// JSON with an unrecognized action value is flagged, never surfaced verbatim;
// everything else is an answer shown as-is.
func Classify(rawText string) Outcome {
	candidate := strings.TrimSpace(rawText)
	candidate = strings.TrimPrefix(candidate, "```json")
	candidate = strings.TrimPrefix(candidate, "```")
	candidate = strings.TrimSuffix(candidate, "```")
	candidate = strings.TrimSpace(candidate)

	if !strings.HasPrefix(candidate, "{") {
		return Outcome{Answer: rawText}
	}

	var probe struct {
		Action Kind `json:"action"`
	}
	if err := json.Unmarshal([]byte(candidate), &probe); err != nil || probe.Action == "" {
		return Outcome{Answer: rawText}
	}
	if !Known(probe.Action) {
		return Outcome{UnknownAction: probe.Action}
	}

	var req ActionRequest
	if err := json.Unmarshal([]byte(candidate), &req); err != nil {
		return Outcome{Answer: rawText}
	}
	return Outcome{Action: &req}
}
