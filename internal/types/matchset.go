package types

import (
	"time"

	"github.com/google/uuid"
)

// BulletMatch is one bullet returned by the similarity oracle for a job.
type BulletMatch struct {
	BulletID        uuid.UUID  `json:"bullet_id"`
	SimilarityScore float64    `json:"similarity_score"`
	Content         string     `json:"content"`
	SourceType      SourceType `json:"source_type"`
	SourceID        uuid.UUID  `json:"source_id"`
}

// SkillMatch is one skill matched against the job's hard skills. Exact
// (case-insensitive) matches score 1.0 and rank ahead of all semantic
// matches, including semantic matches whose vectors also score 1.0.
type SkillMatch struct {
	SkillID         uuid.UUID `json:"skill_id"`
	SimilarityScore float64   `json:"similarity_score"`
	ExactMatch      bool      `json:"exact_match"`
}

// MatchSet is the similarity oracle's output for one job: the top bullets
// ranked by descending score plus the top skills.
type MatchSet struct {
	JobID          uuid.UUID     `json:"job_id"`
	MatchedBullets []BulletMatch `json:"matched_bullets"`
	MatchedSkills  []SkillMatch  `json:"matched_skills"`
	GeneratedAt    time.Time     `json:"generated_at"`
}

// BulletsBySource groups the matched bullets per owning source, preserving
// the oracle's descending-score order within each group.
func (m *MatchSet) BulletsBySource() map[uuid.UUID][]BulletMatch {
	grouped := make(map[uuid.UUID][]BulletMatch)
	for _, b := range m.MatchedBullets {
		grouped[b.SourceID] = append(grouped[b.SourceID], b)
	}
	return grouped
}
