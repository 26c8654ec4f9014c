package wishlist

import (
	"context"
	"errors"

	"product-spotlight/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Contains(ctx context.Context, shopperID, sku string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM wishlist_items WHERE shopper_id = $1 AND sku = $2)`
	var ok bool
	if err := r.pool.QueryRow(ctx, q, shopperID, sku).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *postgresRepo) Toggle(ctx context.Context, shopperID string, item domain.WishlistItem) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var removed string
	err = tx.QueryRow(ctx, `DELETE FROM wishlist_items WHERE shopper_id = $1 AND sku = $2 RETURNING sku`, shopperID, item.SKU).Scan(&removed)
	switch {
	case err == nil:
		return false, tx.Commit(ctx)
	case !errors.Is(err, pgx.ErrNoRows):
		return false, err
	}

	// pgx encodes the struct as JSON for the jsonb column.
	const insert = `
INSERT INTO wishlist_items (shopper_id, sku, snapshot)
VALUES ($1, $2, $3)
ON CONFLICT (shopper_id, sku) DO NOTHING
`
	if _, err := tx.Exec(ctx, insert, shopperID, item.SKU, item); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

func (r *postgresRepo) List(ctx context.Context, shopperID string) ([]domain.WishlistItem, error) {
	const q = `
SELECT snapshot
FROM wishlist_items
WHERE shopper_id = $1
ORDER BY created_at
`
	rows, err := r.pool.Query(ctx, q, shopperID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.WishlistItem
	for rows.Next() {
		var item domain.WishlistItem
		if err := rows.Scan(&item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
