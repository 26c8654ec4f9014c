package wishlist

import (
	"context"

	"product-spotlight/internal/domain"
)

type Repository interface {
	Contains(ctx context.Context, shopperID, sku string) (bool, error)
	// Toggle adds the item when absent and removes it otherwise. It reports
	// whether the item is wishlisted afterwards.
	Toggle(ctx context.Context, shopperID string, item domain.WishlistItem) (bool, error)
	List(ctx context.Context, shopperID string) ([]domain.WishlistItem, error)
}
