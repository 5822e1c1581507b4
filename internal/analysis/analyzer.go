// Package analysis extracts structured fields from raw job descriptions
// using the LLM.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jmartell/cherrypick/internal/llm"
	"github.com/jmartell/cherrypick/internal/types"
)

const (
	// maxResponsibilities caps how many responsibilities the analyzer keeps
	maxResponsibilities = 10
	// maxHardSkills caps how many hard skills the analyzer keeps
	maxHardSkills = 15
)

// Analyzer extracts responsibilities and hard skills from job descriptions
type Analyzer struct {
	client llm.Client
	logger *zap.Logger
}

// NewAnalyzer creates an analyzer backed by the given LLM client
func NewAnalyzer(client llm.Client, logger *zap.Logger) *Analyzer {
	return &Analyzer{client: client, logger: logger}
}

const analyzePromptTemplate = `Analyze the following job description and extract:
1. The 5 to 10 most important responsibilities of the role, phrased as short action statements.
2. The concrete hard skills it requires (languages, frameworks, tools, platforms). No soft skills.

Job description:
%s

Respond with ONLY a JSON object in this exact shape:
{"top_responsibilities": ["..."], "hard_skills": ["..."]}`

// Analyze runs the extraction and returns the cleaned, capped result
func (a *Analyzer) Analyze(ctx context.Context, rawDescription string) (*types.ParsedJob, error) {
	if strings.TrimSpace(rawDescription) == "" {
		return nil, fmt.Errorf("job description is empty")
	}

	prompt := fmt.Sprintf(analyzePromptTemplate, rawDescription)
	response, err := a.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("job analysis request failed: %w", err)
	}

	var parsed types.ParsedJob
	if err := llm.ExtractJSONObject(response, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse job analysis: %w", err)
	}

	parsed.TopResponsibilities = cleanList(parsed.TopResponsibilities, maxResponsibilities)
	parsed.HardSkills = cleanList(parsed.HardSkills, maxHardSkills)
	if len(parsed.TopResponsibilities) == 0 {
		return nil, fmt.Errorf("analysis returned no responsibilities")
	}

	a.logger.Info("job analyzed",
		zap.Int("responsibilities", len(parsed.TopResponsibilities)),
		zap.Int("hard_skills", len(parsed.HardSkills)))
	return &parsed, nil
}

// cleanList trims entries, drops empties and case-insensitive duplicates,
// and caps the result
func cleanList(items []string, limit int) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out
}
