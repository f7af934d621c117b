// Package normalize converts free-form vision model output into the fixed
// risk schema. Extraction is deliberately isolated here: model text often
// wraps the JSON object in prose or code fences, and the carve-out plus
// repair fallback keeps that fragility in one place.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/safetylens/safetylens/internal/domain/analysis"
)

// ExtractJSON returns the first-{-to-last-} substring of the model text.
// If the text holds no such span it is returned unchanged and the parse
// step decides its fate.
func ExtractJSON(raw string) string {
	first := strings.IndexByte(raw, '{')
	last := strings.LastIndexByte(raw, '}')
	if first >= 0 && last > first {
		return raw[first : last+1]
	}
	return raw
}

// Normalize parses the model's text output and validates it into a Result.
// Entries failing per-risk validation are dropped silently; the caller gets
// an error only when no risks array can be recovered at all.
func Normalize(raw string) (*analysis.Result, error) {
	payload := ExtractJSON(raw)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		// Truncated or slightly malformed JSON is common with token-capped
		// completions; try repairing before giving up.
		repaired, repairErr := jsonrepair.JSONRepair(payload)
		if repairErr != nil {
			return nil, analysis.ErrUnparsableResponse
		}
		if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
			return nil, analysis.ErrUnparsableResponse
		}
	}

	rawRisks, ok := parsed["risks"].([]any)
	if !ok {
		return nil, analysis.ErrBadResponseShape
	}

	risks := make([]analysis.Risk, 0, len(rawRisks))
	for _, entry := range rawRisks {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		level, ok := obj["level"].(string)
		if !ok || !analysis.Severity(level).IsValid() {
			continue
		}
		title := strings.TrimSpace(asString(obj["title"]))
		rec := strings.TrimSpace(asString(obj["recommendation"]))
		if title == "" || rec == "" {
			continue
		}
		risks = append(risks, analysis.Risk{
			Title:          title,
			Level:          analysis.Severity(level),
			Recommendation: rec,
		})
	}

	return &analysis.Result{Risks: risks}, nil
}

// asString coerces scalar JSON values the way the original pipeline did.
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}
