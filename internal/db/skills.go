package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BatchCreateSkills inserts the given skills, skipping names that already
// exist (case-insensitive), and returns the stored rows for all requested
// names.
func (db *DB) BatchCreateSkills(ctx context.Context, skills []Skill) ([]Skill, error) {
	var created []Skill
	for _, skill := range skills {
		var row Skill
		err := db.pool.QueryRow(ctx,
			`INSERT INTO skills (name, category) VALUES ($1, $2)
			 ON CONFLICT (lower(name)) DO UPDATE SET category = EXCLUDED.category
			 RETURNING id, name, category, created_at`,
			skill.Name, skill.Category,
		).Scan(&row.ID, &row.Name, &row.Category, &row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to create skill %q: %w", skill.Name, err)
		}
		created = append(created, row)
	}
	return created, nil
}

// GetSkill retrieves a skill by ID. Returns nil when not found.
func (db *DB) GetSkill(ctx context.Context, id uuid.UUID) (*Skill, error) {
	var skill Skill
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, category, created_at FROM skills WHERE id = $1`,
		id,
	).Scan(&skill.ID, &skill.Name, &skill.Category, &skill.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get skill: %w", err)
	}
	return &skill, nil
}

// ListSkills retrieves all skills ordered by category then name
func (db *DB) ListSkills(ctx context.Context) ([]Skill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, category, created_at FROM skills ORDER BY category, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	return scanSkills(rows)
}

// GetSkillsByIDs retrieves skills by ID; result order is unspecified
func (db *DB) GetSkillsByIDs(ctx context.Context, ids []uuid.UUID) ([]Skill, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, category, created_at FROM skills WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get skills: %w", err)
	}
	defer rows.Close()

	return scanSkills(rows)
}

// FindSkillIDsByNames returns the IDs of skills whose names match the given
// names case-insensitively
func (db *DB) FindSkillIDsByNames(ctx context.Context, names []string) ([]uuid.UUID, error) {
	if len(names) == 0 {
		return nil, nil
	}
	lowered := make([]string, 0, len(names))
	for _, name := range names {
		lowered = append(lowered, strings.ToLower(name))
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id FROM skills WHERE lower(name) = ANY($1)`,
		lowered,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find skills by name: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan skill id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteSkill removes a skill and its embedding. Returns false when the skill
// does not exist.
func (db *DB) DeleteSkill(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, err := db.pool.Exec(ctx, `DELETE FROM skill_embeddings WHERE skill_id = $1`, id); err != nil {
		return false, fmt.Errorf("failed to delete skill embedding: %w", err)
	}
	tag, err := db.pool.Exec(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete skill: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanSkills(rows pgx.Rows) ([]Skill, error) {
	var skills []Skill
	for rows.Next() {
		var skill Skill
		if err := rows.Scan(&skill.ID, &skill.Name, &skill.Category, &skill.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, skill)
	}
	return skills, rows.Err()
}
