package types

import (
	"time"

	"github.com/google/uuid"
)

// TailoredBullet is one selected bullet in the final resume body. The
// similarity score is preserved for debugging; Content always traces back to
// a stored bullet point, never synthesized text.
type TailoredBullet struct {
	ID              uuid.UUID `json:"id"`
	Content         string    `json:"content"`
	SimilarityScore float64   `json:"similarity_score"`
}

// TailoredExperience is a work experience entry with its selected bullets.
type TailoredExperience struct {
	ID           uuid.UUID        `json:"id"`
	CompanyName  string           `json:"company_name"`
	RoleTitle    string           `json:"role_title"`
	Location     string           `json:"location"`
	StartDate    time.Time        `json:"start_date"`
	EndDate      *time.Time       `json:"end_date,omitempty"`
	IsCurrent    bool             `json:"is_current"`
	Outcome      Outcome          `json:"outcome"`
	BulletPoints []TailoredBullet `json:"bullet_points"`
}

// TailoredProject is a project entry with its selected bullets.
type TailoredProject struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Technologies []string         `json:"technologies"`
	Link         string           `json:"link,omitempty"`
	Outcome      Outcome          `json:"outcome"`
	BulletPoints []TailoredBullet `json:"bullet_points"`
}

// TailoredSkill is one matched skill in the final resume, ordered by
// descending similarity in the skills section.
type TailoredSkill struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	SimilarityScore float64   `json:"similarity_score"`
}

// TailoredEducation is an education entry. Education is never filtered: every
// stored entry is included as-is.
type TailoredEducation struct {
	ID           uuid.UUID  `json:"id"`
	Institution  string     `json:"institution"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"field_of_study"`
	Location     string     `json:"location,omitempty"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	GPA          *float64   `json:"gpa,omitempty"`
}

// TailoredResume is the immutable output of one tailoring run, ready for
// Typst rendering. Experiences and projects with a skipped selection outcome
// are excluded before this struct is built, so every listed source has
// between 3 and 5 bullets.
type TailoredResume struct {
	JobID                uuid.UUID            `json:"job_id"`
	JobTitle             string               `json:"job_title"`
	CompanyName          string               `json:"company_name"`
	Experiences          []TailoredExperience `json:"experiences"`
	Projects             []TailoredProject    `json:"projects"`
	Skills               []TailoredSkill      `json:"skills"`
	Education            []TailoredEducation  `json:"education"`
	GeneratedAt          time.Time            `json:"generated_at"`
	TotalBulletsSelected int                  `json:"total_bullets_selected"`
	TotalSkillsSelected  int                  `json:"total_skills_selected"`
	SkippedSources       []uuid.UUID          `json:"skipped_sources,omitempty"`
}
