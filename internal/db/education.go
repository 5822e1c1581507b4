package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateEducation inserts a new education entry and returns the stored row
func (db *DB) CreateEducation(ctx context.Context, edu *Education) (*Education, error) {
	var created Education
	err := db.pool.QueryRow(ctx,
		`INSERT INTO education (institution, degree, field_of_study, location, start_date, end_date, gpa)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, institution, degree, field_of_study, location, start_date, end_date, gpa, created_at`,
		edu.Institution, edu.Degree, edu.FieldOfStudy, edu.Location, edu.StartDate, edu.EndDate, edu.GPA,
	).Scan(&created.ID, &created.Institution, &created.Degree, &created.FieldOfStudy,
		&created.Location, &created.StartDate, &created.EndDate, &created.GPA, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create education entry: %w", err)
	}
	return &created, nil
}

// ListEducation retrieves all education entries, most recent first
func (db *DB) ListEducation(ctx context.Context) ([]Education, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, institution, degree, field_of_study, location, start_date, end_date, gpa, created_at
		 FROM education ORDER BY start_date DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list education: %w", err)
	}
	defer rows.Close()

	var entries []Education
	for rows.Next() {
		var edu Education
		if err := rows.Scan(&edu.ID, &edu.Institution, &edu.Degree, &edu.FieldOfStudy,
			&edu.Location, &edu.StartDate, &edu.EndDate, &edu.GPA, &edu.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan education entry: %w", err)
		}
		entries = append(entries, edu)
	}
	return entries, rows.Err()
}

// GetEducation retrieves an education entry by ID. Returns nil when not found.
func (db *DB) GetEducation(ctx context.Context, id uuid.UUID) (*Education, error) {
	var edu Education
	err := db.pool.QueryRow(ctx,
		`SELECT id, institution, degree, field_of_study, location, start_date, end_date, gpa, created_at
		 FROM education WHERE id = $1`,
		id,
	).Scan(&edu.ID, &edu.Institution, &edu.Degree, &edu.FieldOfStudy,
		&edu.Location, &edu.StartDate, &edu.EndDate, &edu.GPA, &edu.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get education entry: %w", err)
	}
	return &edu, nil
}

// DeleteEducation removes an education entry. Returns false when it does not
// exist.
func (db *DB) DeleteEducation(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM education WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete education entry: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
