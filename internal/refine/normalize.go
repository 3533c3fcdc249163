package refine

import (
	"encoding/json"
	"strconv"

	"github.com/promptlens/promptlens/models"
	"github.com/promptlens/promptlens/utils"
)

const (
	maxSuggestions = 3
	minClarity     = 1
	maxClarity     = 10
	// defaultClarity is used both for an absent score and for the
	// synthesized fallback suggestion.
	defaultClarity = 5

	defaultExplanation  = "Rephrased for clarity."
	fallbackExplanation = "The model reply could not be parsed, so the original prompt was reworded to ask for more specific details."
)

// ParseContent interprets an upstream completion as a JSON object with
// a "suggestions" array. ok is false when the text is not valid JSON or
// does not carry a suggestions array at all; callers route that case to
// Fallback. A present-but-empty array parses fine and yields an empty
// suggestion list.
func ParseContent(content string) ([]map[string]any, bool) {
	cleaned := utils.CleanJSONResponse(content)

	var parsed struct {
		Suggestions []map[string]any `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, false
	}
	if parsed.Suggestions == nil {
		return nil, false
	}
	return parsed.Suggestions, true
}

// Normalize converts raw upstream suggestion objects into the response
// shape. The list is truncated to at most three entries in upstream
// order, and every field gets a defined non-empty value when the
// upstream one is missing or of the wrong type. It is total and
// side-effect-free: any input yields a valid suggestion list.
func Normalize(raw []map[string]any, originalPrompt string) []models.Suggestion {
	if len(raw) > maxSuggestions {
		raw = raw[:maxSuggestions]
	}

	out := make([]models.Suggestion, 0, len(raw))
	for i, entry := range raw {
		out = append(out, models.Suggestion{
			ID:          idString(entry["id"], i),
			Refined:     textOr(entry["refined"], originalPrompt),
			Clarity:     ClampClarity(numberOf(entry["clarity"])),
			Explanation: textOr(entry["explanation"], defaultExplanation),
		})
	}
	return out
}

// ClampClarity bounds a nonzero score to [1,10]. A zero (or absent, or
// non-numeric) score maps to the midpoint 5, not the range floor: the
// source system treats zero as "not provided" rather than as a literal
// score. Idempotent over its own output.
func ClampClarity(clarity float64) int {
	if clarity == 0 {
		return defaultClarity
	}
	if clarity < minClarity {
		return minClarity
	}
	if clarity > maxClarity {
		return maxClarity
	}
	return int(clarity)
}

// Fallback synthesizes the single suggestion returned when the upstream
// reply could not be interpreted. The request still succeeds with it.
func Fallback(originalPrompt string) []models.Suggestion {
	return []models.Suggestion{
		{
			ID:          "1",
			Refined:     "Please provide more specific details about: " + originalPrompt,
			Clarity:     defaultClarity,
			Explanation: fallbackExplanation,
		},
	}
}

// idString substitutes a 1-based positional id when the upstream one is
// missing; models occasionally emit numeric ids, which are kept.
func idString(v any, index int) string {
	switch s := v.(type) {
	case string:
		if s != "" {
			return s
		}
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return strconv.Itoa(index + 1)
}

func textOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func numberOf(v any) float64 {
	if n, ok := v.(float64); ok {
		return n
	}
	return 0
}
