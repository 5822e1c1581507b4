package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EnsureTailoredResume creates (or resets to pending) the tailoring record
// for a job and returns it. A completed record is reset so the job can be
// re-tailored after content changes.
func (db *DB) EnsureTailoredResume(ctx context.Context, jobID uuid.UUID) (*TailoredResumeRecord, error) {
	var rec TailoredResumeRecord
	err := db.pool.QueryRow(ctx,
		`INSERT INTO tailored_resumes (job_id, status)
		 VALUES ($1, 'pending')
		 ON CONFLICT (job_id) DO UPDATE SET
			status = 'pending', current_step = '', completed_steps = 0, total_steps = 0,
			error_message = '', result = NULL, started_at = NULL, completed_at = NULL, updated_at = NOW()
		 RETURNING id, job_id, status, current_step, completed_steps, total_steps,
		           error_message, result, started_at, completed_at, created_at, updated_at`,
		jobID,
	).Scan(&rec.ID, &rec.JobID, &rec.Status, &rec.CurrentStep, &rec.CompletedSteps, &rec.TotalSteps,
		&rec.ErrorMessage, &rec.Result, &rec.StartedAt, &rec.CompletedAt, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure tailoring record: %w", err)
	}
	return &rec, nil
}

// GetTailoredResumeByJob retrieves the tailoring record for a job. Returns
// nil when no run was ever requested.
func (db *DB) GetTailoredResumeByJob(ctx context.Context, jobID uuid.UUID) (*TailoredResumeRecord, error) {
	var rec TailoredResumeRecord
	err := db.pool.QueryRow(ctx,
		`SELECT id, job_id, status, current_step, completed_steps, total_steps,
		        error_message, result, started_at, completed_at, created_at, updated_at
		 FROM tailored_resumes WHERE job_id = $1`,
		jobID,
	).Scan(&rec.ID, &rec.JobID, &rec.Status, &rec.CurrentStep, &rec.CompletedSteps, &rec.TotalSteps,
		&rec.ErrorMessage, &rec.Result, &rec.StartedAt, &rec.CompletedAt, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tailoring record: %w", err)
	}
	return &rec, nil
}

// StartTailoredResume moves the record to processing and sets the step count
func (db *DB) StartTailoredResume(ctx context.Context, jobID uuid.UUID, totalSteps int, firstStep string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE tailored_resumes SET status = 'processing', started_at = NOW(),
		        total_steps = $2, completed_steps = 0, current_step = $3, updated_at = NOW()
		 WHERE job_id = $1`,
		jobID, totalSteps, firstStep,
	)
	if err != nil {
		return fmt.Errorf("failed to start tailoring record: %w", err)
	}
	return nil
}

// UpdateTailoredProgress records a completed step and the label of the next one
func (db *DB) UpdateTailoredProgress(ctx context.Context, jobID uuid.UUID, completedSteps int, currentStep string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE tailored_resumes SET completed_steps = $2, current_step = $3, updated_at = NOW()
		 WHERE job_id = $1`,
		jobID, completedSteps, currentStep,
	)
	if err != nil {
		return fmt.Errorf("failed to update tailoring progress: %w", err)
	}
	return nil
}

// CompleteTailoredResume stores the final result JSON and marks the run done
func (db *DB) CompleteTailoredResume(ctx context.Context, jobID uuid.UUID, result []byte) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE tailored_resumes SET status = 'completed', result = $2,
		        completed_steps = total_steps, current_step = '', completed_at = NOW(), updated_at = NOW()
		 WHERE job_id = $1`,
		jobID, result,
	)
	if err != nil {
		return fmt.Errorf("failed to complete tailoring record: %w", err)
	}
	return nil
}

// FailTailoredResume marks the run failed with an operator-visible message
func (db *DB) FailTailoredResume(ctx context.Context, jobID uuid.UUID, message string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE tailored_resumes SET status = 'failed', error_message = $2,
		        completed_at = NOW(), updated_at = NOW()
		 WHERE job_id = $1`,
		jobID, message,
	)
	if err != nil {
		return fmt.Errorf("failed to mark tailoring record failed: %w", err)
	}
	return nil
}
