package block

import (
	"context"

	"product-spotlight/internal/domain"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Block, error)
	ListByPage(ctx context.Context, pageKey string) ([]domain.Block, error)
	Upsert(ctx context.Context, block domain.Block) (*domain.Block, error)
}
