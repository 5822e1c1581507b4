package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jmartell/cherrypick/internal/types"
)

// UpsertBulletEmbedding stores (or replaces) the embedding vector for a bullet
func (db *DB) UpsertBulletEmbedding(ctx context.Context, bulletID, sourceID uuid.UUID, sourceType types.SourceType, vector []float32) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO bullet_embeddings (bullet_id, source_id, source_type, vector)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (bullet_id) DO UPDATE SET source_id = $2, source_type = $3, vector = $4, updated_at = NOW()`,
		bulletID, sourceID, string(sourceType), vector,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert bullet embedding: %w", err)
	}
	return nil
}

// ListEmbeddedBullets retrieves every bullet that has a stored embedding,
// joined with its current content
func (db *DB) ListEmbeddedBullets(ctx context.Context) ([]EmbeddedBullet, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT e.bullet_id, e.source_id, e.source_type, b.content, e.vector
		 FROM bullet_embeddings e JOIN bullet_points b ON b.id = e.bullet_id
		 WHERE e.source_type = 'experience'
		 UNION ALL
		 SELECT e.bullet_id, e.source_id, e.source_type, p.content, e.vector
		 FROM bullet_embeddings e JOIN project_bullet_points p ON p.id = e.bullet_id
		 WHERE e.source_type = 'project'`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list embedded bullets: %w", err)
	}
	defer rows.Close()

	var bullets []EmbeddedBullet
	for rows.Next() {
		var b EmbeddedBullet
		var sourceType string
		if err := rows.Scan(&b.BulletID, &b.SourceID, &sourceType, &b.Content, &b.Vector); err != nil {
			return nil, fmt.Errorf("failed to scan embedded bullet: %w", err)
		}
		b.SourceType = types.SourceType(sourceType)
		bullets = append(bullets, b)
	}
	return bullets, rows.Err()
}

// UpsertSkillEmbedding stores (or replaces) the embedding vector for a skill
func (db *DB) UpsertSkillEmbedding(ctx context.Context, skillID uuid.UUID, vector []float32) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO skill_embeddings (skill_id, vector)
		 VALUES ($1, $2)
		 ON CONFLICT (skill_id) DO UPDATE SET vector = $2, updated_at = NOW()`,
		skillID, vector,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert skill embedding: %w", err)
	}
	return nil
}

// ListEmbeddedSkills retrieves every skill that has a stored embedding
func (db *DB) ListEmbeddedSkills(ctx context.Context) ([]EmbeddedSkill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT e.skill_id, s.name, e.vector
		 FROM skill_embeddings e JOIN skills s ON s.id = e.skill_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list embedded skills: %w", err)
	}
	defer rows.Close()

	var skills []EmbeddedSkill
	for rows.Next() {
		var s EmbeddedSkill
		if err := rows.Scan(&s.SkillID, &s.Name, &s.Vector); err != nil {
			return nil, fmt.Errorf("failed to scan embedded skill: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// ListUnembeddedSkills retrieves every skill missing a stored embedding
func (db *DB) ListUnembeddedSkills(ctx context.Context) ([]Skill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT s.id, s.name, s.category, s.created_at
		 FROM skills s LEFT JOIN skill_embeddings e ON e.skill_id = s.id
		 WHERE e.skill_id IS NULL`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list unembedded skills: %w", err)
	}
	defer rows.Close()

	return scanSkills(rows)
}
