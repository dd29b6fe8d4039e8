package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/jcowell/sift/internal/model"
)

// maxSuggestions bounds how many suggestions a single response may yield.
const maxSuggestions = 3

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// parseSuggestions extracts suggestions from free-form model output. The
// text may be wrapped in a fenced code block or interleaved with prose, so
// extraction is two-stage: a direct parse of the candidate text, then a
// parse of the substring between the first '{' and the last '}'. Absence of
// a parsable payload is a normal outcome; the result is an empty list,
// never an error.
func parseSuggestions(content string) []model.Suggestion {
	candidate := strings.TrimSpace(content)
	if m := fencedBlockRe.FindStringSubmatch(candidate); m != nil {
		candidate = strings.TrimSpace(m[1])
	}

	payload, ok := decodePayload(candidate)
	if !ok {
		start := strings.Index(candidate, "{")
		end := strings.LastIndex(candidate, "}")
		if start < 0 || end <= start {
			return nil
		}
		if payload, ok = decodePayload(candidate[start : end+1]); !ok {
			return nil
		}
	}

	suggestions := make([]model.Suggestion, 0, maxSuggestions)
	for _, raw := range payload.Suggestions {
		name := strings.TrimSpace(asString(raw.Name))
		if name == "" {
			continue
		}
		suggestions = append(suggestions, model.Suggestion{
			Name:          name,
			Justification: strings.TrimSpace(asString(raw.Justification)),
			Confidence:    asNumber(raw.Confidence),
		})
		if len(suggestions) == maxSuggestions {
			break
		}
	}

	return suggestions
}

type rawPayload struct {
	Suggestions []rawSuggestion `json:"suggestions"`
}

// rawSuggestion keeps every field loosely typed: models return strings where
// numbers belong and vice versa, and one bad field must not sink the entry.
type rawSuggestion struct {
	Name          any `json:"name"`
	Justification any `json:"justification"`
	Confidence    any `json:"confidence"`
}

func decodePayload(s string) (rawPayload, bool) {
	var p rawPayload
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return rawPayload{}, false
	}
	return p, true
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// asNumber returns the value as a confidence number, or nil for anything
// non-numeric.
func asNumber(v any) *float64 {
	if f, ok := v.(float64); ok {
		return &f
	}
	return nil
}
