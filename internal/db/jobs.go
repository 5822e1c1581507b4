package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateJob inserts a new job posting and returns the stored row
func (db *DB) CreateJob(ctx context.Context, job *Job) (*Job, error) {
	var created Job
	err := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (job_title, company_name, raw_description, source_url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, job_title, company_name, raw_description, source_url,
		           top_responsibilities, hard_skills, is_analyzed, analyzed_at, created_at, updated_at`,
		job.JobTitle, job.CompanyName, job.RawDescription, job.SourceURL,
	).Scan(&created.ID, &created.JobTitle, &created.CompanyName, &created.RawDescription, &created.SourceURL,
		&created.TopResponsibilities, &created.HardSkills, &created.IsAnalyzed, &created.AnalyzedAt,
		&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return &created, nil
}

// GetJob retrieves a job by ID. Returns nil when not found.
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*Job, error) {
	var job Job
	err := db.pool.QueryRow(ctx,
		`SELECT id, job_title, company_name, raw_description, source_url,
		        top_responsibilities, hard_skills, is_analyzed, analyzed_at, created_at, updated_at
		 FROM jobs WHERE id = $1`,
		id,
	).Scan(&job.ID, &job.JobTitle, &job.CompanyName, &job.RawDescription, &job.SourceURL,
		&job.TopResponsibilities, &job.HardSkills, &job.IsAnalyzed, &job.AnalyzedAt,
		&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// ListJobs retrieves recent jobs
func (db *DB) ListJobs(ctx context.Context, limit, offset int) ([]Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_title, company_name, raw_description, source_url,
		        top_responsibilities, hard_skills, is_analyzed, analyzed_at, created_at, updated_at
		 FROM jobs ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var job Job
		if err := rows.Scan(&job.ID, &job.JobTitle, &job.CompanyName, &job.RawDescription, &job.SourceURL,
			&job.TopResponsibilities, &job.HardSkills, &job.IsAnalyzed, &job.AnalyzedAt,
			&job.CreatedAt, &job.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// SaveJobAnalysis stores the analyzer's output and marks the job analyzed
func (db *DB) SaveJobAnalysis(ctx context.Context, id uuid.UUID, responsibilities, hardSkills []string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE jobs SET top_responsibilities = $2, hard_skills = $3,
		        is_analyzed = TRUE, analyzed_at = NOW(), updated_at = NOW()
		 WHERE id = $1`,
		id, responsibilities, hardSkills,
	)
	if err != nil {
		return fmt.Errorf("failed to save job analysis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s not found", id)
	}
	return nil
}

// DeleteJob removes a job and its tailoring record. Returns false when the
// job does not exist.
func (db *DB) DeleteJob(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, err := db.pool.Exec(ctx, `DELETE FROM tailored_resumes WHERE job_id = $1`, id); err != nil {
		return false, fmt.Errorf("failed to delete tailoring record: %w", err)
	}
	tag, err := db.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete job: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
