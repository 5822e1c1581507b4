package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateProject inserts a new project and returns the stored row
func (db *DB) CreateProject(ctx context.Context, proj *Project) (*Project, error) {
	var created Project
	err := db.pool.QueryRow(ctx,
		`INSERT INTO projects (name, description, technologies, link)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, description, technologies, link, created_at, updated_at`,
		proj.Name, proj.Description, proj.Technologies, proj.Link,
	).Scan(&created.ID, &created.Name, &created.Description, &created.Technologies,
		&created.Link, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &created, nil
}

// GetProject retrieves a project by ID. Returns nil when not found.
func (db *DB) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	var proj Project
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, description, technologies, link, created_at, updated_at
		 FROM projects WHERE id = $1`,
		id,
	).Scan(&proj.ID, &proj.Name, &proj.Description, &proj.Technologies,
		&proj.Link, &proj.CreatedAt, &proj.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &proj, nil
}

// ListProjects retrieves all projects, most recently created first
func (db *DB) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, description, technologies, link, created_at, updated_at
		 FROM projects ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

// GetProjectsByIDs retrieves the given projects, most recently created first
func (db *DB) GetProjectsByIDs(ctx context.Context, ids []uuid.UUID) ([]Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, description, technologies, link, created_at, updated_at
		 FROM projects WHERE id = ANY($1) ORDER BY created_at DESC`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get projects: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

// UpdateProject applies non-zero fields from patch and returns the updated
// row. Returns nil when the project does not exist.
func (db *DB) UpdateProject(ctx context.Context, id uuid.UUID, patch *Project) (*Project, error) {
	var updated Project
	err := db.pool.QueryRow(ctx,
		`UPDATE projects SET
			name         = COALESCE(NULLIF($2, ''), name),
			description  = COALESCE(NULLIF($3, ''), description),
			technologies = COALESCE($4, technologies),
			link         = COALESCE(NULLIF($5, ''), link),
			updated_at   = NOW()
		 WHERE id = $1
		 RETURNING id, name, description, technologies, link, created_at, updated_at`,
		id, patch.Name, patch.Description, patch.Technologies, patch.Link,
	).Scan(&updated.ID, &updated.Name, &updated.Description, &updated.Technologies,
		&updated.Link, &updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return &updated, nil
}

// DeleteProject removes a project and (via cascade) its bullet points.
// Returns false when the project does not exist.
func (db *DB) DeleteProject(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete project: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanProjects(rows pgx.Rows) ([]Project, error) {
	var projects []Project
	for rows.Next() {
		var proj Project
		if err := rows.Scan(&proj.ID, &proj.Name, &proj.Description, &proj.Technologies,
			&proj.Link, &proj.CreatedAt, &proj.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, proj)
	}
	return projects, rows.Err()
}
