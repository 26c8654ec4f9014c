package label

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListByLocale(ctx context.Context, locale string) (map[string]string, error) {
	const q = `
SELECT key, text
FROM labels
WHERE locale = $1
`
	rows, err := r.pool.Query(ctx, q, locale)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, text string
		if err := rows.Scan(&key, &text); err != nil {
			return nil, err
		}
		out[key] = text
	}
	return out, rows.Err()
}

func (r *postgresRepo) Upsert(ctx context.Context, locale, key, text string) error {
	const q = `
INSERT INTO labels (locale, key, text)
VALUES ($1, $2, $3)
ON CONFLICT (locale, key) DO UPDATE SET text = EXCLUDED.text, updated_at = now()
`
	_, err := r.pool.Exec(ctx, q, locale, key, text)
	return err
}
