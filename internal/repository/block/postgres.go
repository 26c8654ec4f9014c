package block

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"product-spotlight/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Block, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	const q = `
SELECT id::text, page_key, position, created_at
FROM blocks
WHERE id = $1
`
	var b domain.Block
	err := r.pool.QueryRow(ctx, q, id).Scan(&b.ID, &b.PageKey, &b.Position, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("block repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("block repo: get id=%s error=%v", id, err)
		return nil, err
	}
	rows, err := r.rows(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	b.Rows = rows
	r.logger.Printf("block repo: get id=%s rows=%d", id, len(rows))
	return &b, nil
}

func (r *postgresRepo) ListByPage(ctx context.Context, pageKey string) ([]domain.Block, error) {
	const q = `
SELECT id::text, page_key, position, created_at
FROM blocks
WHERE page_key = $1
ORDER BY position, created_at
`
	rows, err := r.pool.Query(ctx, q, pageKey)
	if err != nil {
		r.logger.Printf("block repo: list page=%s error=%v", pageKey, err)
		return nil, err
	}
	var result []domain.Block
	for rows.Next() {
		var b domain.Block
		if err := rows.Scan(&b.ID, &b.PageKey, &b.Position, &b.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		result = append(result, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		r.logger.Printf("block repo: list rows page=%s error=%v", pageKey, err)
		return nil, err
	}

	for i := range result {
		cfgRows, err := r.rows(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Rows = cfgRows
	}
	r.logger.Printf("block repo: list page=%s count=%d", pageKey, len(result))
	return result, nil
}

func (r *postgresRepo) rows(ctx context.Context, blockID string) ([]domain.ConfigRow, error) {
	const q = `
SELECT key, value
FROM block_rows
WHERE block_id = $1
ORDER BY position
`
	rows, err := r.pool.Query(ctx, q, blockID)
	if err != nil {
		r.logger.Printf("block repo: rows id=%s error=%v", blockID, err)
		return nil, err
	}
	defer rows.Close()

	var out []domain.ConfigRow
	for rows.Next() {
		var row domain.ConfigRow
		if err := rows.Scan(&row.Key, &row.Value); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Upsert stores the block and replaces its rows in one transaction.
func (r *postgresRepo) Upsert(ctx context.Context, block domain.Block) (*domain.Block, error) {
	const upsertBlock = `
INSERT INTO blocks (id, page_key, position)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3)
ON CONFLICT (id) DO UPDATE SET
    page_key = EXCLUDED.page_key,
    position = EXCLUDED.position
RETURNING id::text, created_at
`
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	res := block
	if err := tx.QueryRow(ctx, upsertBlock, block.ID, block.PageKey, block.Position).Scan(&res.ID, &res.CreatedAt); err != nil {
		r.logger.Printf("block repo: upsert page=%s error=%v", block.PageKey, err)
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM block_rows WHERE block_id = $1`, res.ID); err != nil {
		return nil, fmt.Errorf("block repo: clear rows id=%s: %w", res.ID, err)
	}

	batch := &pgx.Batch{}
	for i, row := range block.Rows {
		batch.Queue(`INSERT INTO block_rows (block_id, position, key, value) VALUES ($1, $2, $3, $4)`, res.ID, i, row.Key, row.Value)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return nil, fmt.Errorf("block repo: insert rows id=%s: %w", res.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("block repo: upserted id=%s page=%s rows=%d", res.ID, res.PageKey, len(res.Rows))
	return &res, nil
}
