package ai

import "strings"

// ExtractJSON strips markdown code fences from a model response and returns
// the outermost {...} object. Models frequently wrap JSON in fences or add
// prose around it despite being told not to.
func ExtractJSON(content string) string {
	cleaned := strings.ReplaceAll(content, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	first := strings.Index(cleaned, "{")
	last := strings.LastIndex(cleaned, "}")
	if first >= 0 && last > first {
		return cleaned[first : last+1]
	}
	return cleaned
}
