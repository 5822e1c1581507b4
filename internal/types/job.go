package types

// ParsedJob holds the structured fields extracted from a raw job description
// by the analyzer. Responsibilities drive bullet matching; hard skills drive
// skill matching.
type ParsedJob struct {
	TopResponsibilities []string `json:"top_responsibilities"`
	HardSkills          []string `json:"hard_skills"`
}
