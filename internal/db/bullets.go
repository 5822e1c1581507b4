package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jmartell/cherrypick/internal/types"
)

// Experience and project bullets live in separate tables with identical
// shapes; bulletTable maps a source type to its table and owner column.
func bulletTable(sourceType types.SourceType) (table, ownerCol string, err error) {
	switch sourceType {
	case types.SourceExperience:
		return "bullet_points", "experience_id", nil
	case types.SourceProject:
		return "project_bullet_points", "project_id", nil
	default:
		return "", "", fmt.Errorf("unknown source type: %s", sourceType)
	}
}

// CreateBulletPoint inserts a bullet under the given source
func (db *DB) CreateBulletPoint(ctx context.Context, sourceType types.SourceType, sourceID uuid.UUID, content string) (*BulletPoint, error) {
	table, ownerCol, err := bulletTable(sourceType)
	if err != nil {
		return nil, err
	}

	bullet := BulletPoint{SourceType: sourceType}
	err = db.pool.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO %s (%s, content) VALUES ($1, $2)
			 RETURNING id, %s, content, created_at, updated_at`, table, ownerCol, ownerCol),
		sourceID, content,
	).Scan(&bullet.ID, &bullet.SourceID, &bullet.Content, &bullet.CreatedAt, &bullet.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create bullet point: %w", err)
	}
	return &bullet, nil
}

// GetBulletPoint retrieves a bullet by ID, checking both bullet tables.
// Returns nil when not found.
func (db *DB) GetBulletPoint(ctx context.Context, id uuid.UUID) (*BulletPoint, error) {
	for _, sourceType := range []types.SourceType{types.SourceExperience, types.SourceProject} {
		table, ownerCol, err := bulletTable(sourceType)
		if err != nil {
			return nil, err
		}

		bullet := BulletPoint{SourceType: sourceType}
		err = db.pool.QueryRow(ctx,
			fmt.Sprintf(`SELECT id, %s, content, created_at, updated_at FROM %s WHERE id = $1`, ownerCol, table),
			id,
		).Scan(&bullet.ID, &bullet.SourceID, &bullet.Content, &bullet.CreatedAt, &bullet.UpdatedAt)
		if err == nil {
			return &bullet, nil
		}
		if err != pgx.ErrNoRows {
			return nil, fmt.Errorf("failed to get bullet point: %w", err)
		}
	}
	return nil, nil
}

// UpdateBulletPointContent replaces a bullet's content. Returns nil when the
// bullet does not exist. The caller is responsible for re-embedding.
func (db *DB) UpdateBulletPointContent(ctx context.Context, id uuid.UUID, content string) (*BulletPoint, error) {
	existing, err := db.GetBulletPoint(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}

	table, ownerCol, err := bulletTable(existing.SourceType)
	if err != nil {
		return nil, err
	}

	bullet := BulletPoint{SourceType: existing.SourceType}
	err = db.pool.QueryRow(ctx,
		fmt.Sprintf(`UPDATE %s SET content = $2, updated_at = NOW() WHERE id = $1
			 RETURNING id, %s, content, created_at, updated_at`, table, ownerCol),
		id, content,
	).Scan(&bullet.ID, &bullet.SourceID, &bullet.Content, &bullet.CreatedAt, &bullet.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update bullet point: %w", err)
	}
	return &bullet, nil
}

// DeleteBulletPoint removes a bullet and its stored embedding. Returns false
// when the bullet does not exist.
func (db *DB) DeleteBulletPoint(ctx context.Context, id uuid.UUID) (bool, error) {
	existing, err := db.GetBulletPoint(ctx, id)
	if err != nil || existing == nil {
		return false, err
	}

	table, _, err := bulletTable(existing.SourceType)
	if err != nil {
		return false, err
	}

	if _, err := db.pool.Exec(ctx, `DELETE FROM bullet_embeddings WHERE bullet_id = $1`, id); err != nil {
		return false, fmt.Errorf("failed to delete bullet embedding: %w", err)
	}
	tag, err := db.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete bullet point: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListBulletPoints retrieves all bullets for one source in insertion order
func (db *DB) ListBulletPoints(ctx context.Context, sourceType types.SourceType, sourceID uuid.UUID) ([]BulletPoint, error) {
	table, ownerCol, err := bulletTable(sourceType)
	if err != nil {
		return nil, err
	}

	rows, err := db.pool.Query(ctx,
		fmt.Sprintf(`SELECT id, %s, content, created_at, updated_at FROM %s
			 WHERE %s = $1 ORDER BY created_at`, ownerCol, table, ownerCol),
		sourceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bullet points: %w", err)
	}
	defer rows.Close()

	return scanBullets(rows, sourceType)
}

// GetBulletPointsByIDs retrieves bullets of one source type by ID. The result
// order is unspecified; callers preserve selection order themselves.
func (db *DB) GetBulletPointsByIDs(ctx context.Context, sourceType types.SourceType, ids []uuid.UUID) ([]BulletPoint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	table, ownerCol, err := bulletTable(sourceType)
	if err != nil {
		return nil, err
	}

	rows, err := db.pool.Query(ctx,
		fmt.Sprintf(`SELECT id, %s, content, created_at, updated_at FROM %s WHERE id = ANY($1)`, ownerCol, table),
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get bullet points: %w", err)
	}
	defer rows.Close()

	return scanBullets(rows, sourceType)
}

// ListUnembeddedBullets retrieves every bullet missing a stored embedding,
// across both bullet tables
func (db *DB) ListUnembeddedBullets(ctx context.Context) ([]BulletPoint, error) {
	var all []BulletPoint
	for _, sourceType := range []types.SourceType{types.SourceExperience, types.SourceProject} {
		table, ownerCol, err := bulletTable(sourceType)
		if err != nil {
			return nil, err
		}

		rows, err := db.pool.Query(ctx,
			fmt.Sprintf(`SELECT b.id, b.%s, b.content, b.created_at, b.updated_at
				 FROM %s b LEFT JOIN bullet_embeddings e ON e.bullet_id = b.id
				 WHERE e.bullet_id IS NULL`, ownerCol, table),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to list unembedded bullets: %w", err)
		}
		bullets, err := scanBullets(rows, sourceType)
		rows.Close()
		if err != nil {
			return nil, err
		}
		all = append(all, bullets...)
	}
	return all, nil
}

func scanBullets(rows pgx.Rows, sourceType types.SourceType) ([]BulletPoint, error) {
	var bullets []BulletPoint
	for rows.Next() {
		bullet := BulletPoint{SourceType: sourceType}
		if err := rows.Scan(&bullet.ID, &bullet.SourceID, &bullet.Content, &bullet.CreatedAt, &bullet.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bullet point: %w", err)
		}
		bullets = append(bullets, bullet)
	}
	return bullets, rows.Err()
}
