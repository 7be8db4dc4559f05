package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var compiledSchema = jsonschema.MustCompileString("schedule.json", outputSchema)

// parsePayload parses JSON from model output, with lightweight recovery for
// markdown code fences and surrounding prose, then validates it against the
// output schema.
func parsePayload(content string) (json.RawMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: пустой ответ от модели", ErrExtractionFailure)
	}

	candidates := []string{content}
	if stripped := stripCodeFences(content); stripped != "" && stripped != content {
		candidates = append(candidates, stripped)
	}
	if extracted := extractJSONCandidate(content); extracted != "" && extracted != content {
		candidates = append(candidates, extracted)
	}

	var doc any
	parsed := false
	for _, candidate := range candidates {
		if err := json.Unmarshal([]byte(candidate), &doc); err == nil {
			parsed = true
			break
		}
	}
	if !parsed {
		return nil, fmt.Errorf("%w: модель вернула некорректный JSON", ErrExtractionFailure)
	}

	if err := compiledSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: ответ не соответствует схеме: %v", ErrExtractionFailure, err)
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailure, err)
	}
	return normalized, nil
}

// stripCodeFences removes a leading ``` fence line and a trailing ``` line.
func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return ""
	}

	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// extractJSONCandidate slices the outermost {...} from content that wraps
// the JSON in prose.
func extractJSONCandidate(content string) string {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	if start < 0 {
		return ""
	}
	end := strings.LastIndex(trimmed, "}")
	if end < start {
		return ""
	}
	return strings.TrimSpace(trimmed[start : end+1])
}
