package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateExperience inserts a new experience and returns the stored row
func (db *DB) CreateExperience(ctx context.Context, exp *Experience) (*Experience, error) {
	var created Experience
	err := db.pool.QueryRow(ctx,
		`INSERT INTO experiences (company_name, role_title, location, start_date, end_date, is_current)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, company_name, role_title, location, start_date, end_date, is_current, created_at, updated_at`,
		exp.CompanyName, exp.RoleTitle, exp.Location, exp.StartDate, exp.EndDate, exp.IsCurrent,
	).Scan(&created.ID, &created.CompanyName, &created.RoleTitle, &created.Location,
		&created.StartDate, &created.EndDate, &created.IsCurrent, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create experience: %w", err)
	}
	return &created, nil
}

// GetExperience retrieves an experience by ID. Returns nil when not found.
func (db *DB) GetExperience(ctx context.Context, id uuid.UUID) (*Experience, error) {
	var exp Experience
	err := db.pool.QueryRow(ctx,
		`SELECT id, company_name, role_title, location, start_date, end_date, is_current, created_at, updated_at
		 FROM experiences WHERE id = $1`,
		id,
	).Scan(&exp.ID, &exp.CompanyName, &exp.RoleTitle, &exp.Location,
		&exp.StartDate, &exp.EndDate, &exp.IsCurrent, &exp.CreatedAt, &exp.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get experience: %w", err)
	}
	return &exp, nil
}

// ListExperiences retrieves all experiences, most recent first
func (db *DB) ListExperiences(ctx context.Context) ([]Experience, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, company_name, role_title, location, start_date, end_date, is_current, created_at, updated_at
		 FROM experiences ORDER BY start_date DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	defer rows.Close()

	return scanExperiences(rows)
}

// GetExperiencesByIDs retrieves the given experiences ordered chronologically
// (most recent first)
func (db *DB) GetExperiencesByIDs(ctx context.Context, ids []uuid.UUID) ([]Experience, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, company_name, role_title, location, start_date, end_date, is_current, created_at, updated_at
		 FROM experiences WHERE id = ANY($1) ORDER BY start_date DESC`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get experiences: %w", err)
	}
	defer rows.Close()

	return scanExperiences(rows)
}

// UpdateExperience applies non-zero fields from patch and returns the updated
// row. Returns nil when the experience does not exist.
func (db *DB) UpdateExperience(ctx context.Context, id uuid.UUID, patch *ExperiencePatch) (*Experience, error) {
	var updated Experience
	err := db.pool.QueryRow(ctx,
		`UPDATE experiences SET
			company_name = COALESCE(NULLIF($2, ''), company_name),
			role_title   = COALESCE(NULLIF($3, ''), role_title),
			location     = COALESCE(NULLIF($4, ''), location),
			start_date   = COALESCE($5, start_date),
			end_date     = COALESCE($6, end_date),
			is_current   = COALESCE($7, is_current),
			updated_at   = NOW()
		 WHERE id = $1
		 RETURNING id, company_name, role_title, location, start_date, end_date, is_current, created_at, updated_at`,
		id, patch.CompanyName, patch.RoleTitle, patch.Location,
		nullableTime(patch.StartDate), patch.EndDate, patch.IsCurrent,
	).Scan(&updated.ID, &updated.CompanyName, &updated.RoleTitle, &updated.Location,
		&updated.StartDate, &updated.EndDate, &updated.IsCurrent, &updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update experience: %w", err)
	}
	return &updated, nil
}

// DeleteExperience removes an experience and (via cascade) its bullet points.
// Returns false when the experience does not exist.
func (db *DB) DeleteExperience(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM experiences WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete experience: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanExperiences(rows pgx.Rows) ([]Experience, error) {
	var experiences []Experience
	for rows.Next() {
		var exp Experience
		if err := rows.Scan(&exp.ID, &exp.CompanyName, &exp.RoleTitle, &exp.Location,
			&exp.StartDate, &exp.EndDate, &exp.IsCurrent, &exp.CreatedAt, &exp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		experiences = append(experiences, exp)
	}
	return experiences, rows.Err()
}
