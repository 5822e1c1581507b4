package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	codeBlockRe  = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	jsonArrayRe  = regexp.MustCompile(`(?s)\[.*?\]`)
	jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)
)

// cleanJSONBlock removes markdown code block wrappers from JSON
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// ExtractJSONArray extracts the first JSON array of strings from a model
// response. Models often wrap JSON in code fences or add commentary around
// it, so several strategies are tried in order.
func ExtractJSONArray(response string) ([]string, error) {
	candidates := []string{cleanJSONBlock(response)}
	if m := codeBlockRe.FindStringSubmatch(response); m != nil {
		candidates = append(candidates, m[1])
	}
	if m := jsonArrayRe.FindString(response); m != "" {
		candidates = append(candidates, m)
	}

	for _, candidate := range candidates {
		var out []string
		if err := json.Unmarshal([]byte(candidate), &out); err == nil {
			return out, nil
		}
	}
	return nil, fmt.Errorf("no JSON array found in response: %s", truncate(response, 200))
}

// ExtractJSONObject extracts and unmarshals the first JSON object from a
// model response into dest.
func ExtractJSONObject(response string, dest any) error {
	candidates := []string{cleanJSONBlock(response)}
	if m := codeBlockRe.FindStringSubmatch(response); m != nil {
		candidates = append(candidates, m[1])
	}
	if m := jsonObjectRe.FindString(response); m != "" {
		candidates = append(candidates, m)
	}

	for _, candidate := range candidates {
		if err := json.Unmarshal([]byte(candidate), dest); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no JSON object found in response: %s", truncate(response, 200))
}

// truncate shortens a string for log and error messages
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
