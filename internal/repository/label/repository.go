package label

import "context"

type Repository interface {
	ListByLocale(ctx context.Context, locale string) (map[string]string, error)
	Upsert(ctx context.Context, locale, key, text string) error
}
