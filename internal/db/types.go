package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jmartell/cherrypick/internal/types"
)

// Experience represents a work experience row
type Experience struct {
	ID          uuid.UUID  `json:"id"`
	CompanyName string     `json:"company_name"`
	RoleTitle   string     `json:"role_title"`
	Location    string     `json:"location"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	IsCurrent   bool       `json:"is_current"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ExperiencePatch carries the optional fields of a partial experience
// update; empty/nil fields leave the stored value unchanged
type ExperiencePatch struct {
	CompanyName string     `json:"company_name"`
	RoleTitle   string     `json:"role_title"`
	Location    string     `json:"location"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	IsCurrent   *bool      `json:"is_current"`
}

// Project represents a project row
type Project struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Technologies []string  `json:"technologies"`
	Link         string    `json:"link,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BulletPoint represents one bullet point row, owned by either an experience
// or a project
type BulletPoint struct {
	ID         uuid.UUID        `json:"id"`
	SourceID   uuid.UUID        `json:"source_id"`
	SourceType types.SourceType `json:"source_type"`
	Content    string           `json:"content"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Skill represents a skill row
type Skill struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// Education represents an education row
type Education struct {
	ID           uuid.UUID  `json:"id"`
	Institution  string     `json:"institution"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"field_of_study"`
	Location     string     `json:"location,omitempty"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	GPA          *float64   `json:"gpa,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Job represents a job posting row
type Job struct {
	ID                  uuid.UUID  `json:"id"`
	JobTitle            string     `json:"job_title"`
	CompanyName         string     `json:"company_name"`
	RawDescription      string     `json:"raw_description"`
	SourceURL           string     `json:"source_url,omitempty"`
	TopResponsibilities []string   `json:"top_responsibilities,omitempty"`
	HardSkills          []string   `json:"hard_skills,omitempty"`
	IsAnalyzed          bool       `json:"is_analyzed"`
	AnalyzedAt          *time.Time `json:"analyzed_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Tailoring run status values
const (
	// TailorStatusPending means the run was requested but not started
	TailorStatusPending = "pending"
	// TailorStatusProcessing means the run is executing
	TailorStatusProcessing = "processing"
	// TailorStatusCompleted means the result JSON is available
	TailorStatusCompleted = "completed"
	// TailorStatusFailed means the run errored; see ErrorMessage
	TailorStatusFailed = "failed"
)

// TailoredResumeRecord tracks one tailoring run per job, including the
// pollable progress fields and the final result JSON.
type TailoredResumeRecord struct {
	ID             uuid.UUID  `json:"id"`
	JobID          uuid.UUID  `json:"job_id"`
	Status         string     `json:"status"`
	CurrentStep    string     `json:"current_step,omitempty"`
	CompletedSteps int        `json:"completed_steps"`
	TotalSteps     int        `json:"total_steps"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	Result         []byte     `json:"result,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// EmbeddedBullet joins a stored bullet with its embedding vector for
// in-process similarity ranking
type EmbeddedBullet struct {
	BulletID   uuid.UUID
	SourceID   uuid.UUID
	SourceType types.SourceType
	Content    string
	Vector     []float32
}

// EmbeddedSkill joins a stored skill with its embedding vector
type EmbeddedSkill struct {
	SkillID uuid.UUID
	Name    string
	Vector  []float32
}
