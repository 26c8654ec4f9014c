package seed

import (
	"context"
	"fmt"

	"product-spotlight/internal/domain"
	"product-spotlight/internal/importer"
	"product-spotlight/internal/labels"
)

type blockWriter interface {
	Upsert(ctx context.Context, block domain.Block) (*domain.Block, error)
}

type labelWriter interface {
	Upsert(ctx context.Context, locale, key, text string) error
}

type blockSeed struct {
	Name string
	Rows []domain.ConfigRow
}

// Apply inserts demo blocks and labels for manual testing. It is idempotent:
// block ids are derived from page and name, labels upsert on (locale, key).
func Apply(ctx context.Context, blocks blockWriter, lbls labelWriter, locale string) error {
	const page = "demo"
	seeds := []blockSeed{
		{
			Name: "duffle",
			Rows: []domain.ConfigRow{
				{Key: "sku", Value: "24-MB01"},
				{Key: "title", Value: "Deal of the Day"},
			},
		},
		{
			Name: "mug",
			Rows: []domain.ConfigRow{
				{Key: "sku", Value: "24-UG06"},
				{Key: "theme", Value: "dark"},
			},
		},
		{
			Name: "broken",
			Rows: []domain.ConfigRow{{Key: "title", Value: "Missing SKU"}},
		},
	}

	for i, s := range seeds {
		_, err := blocks.Upsert(ctx, domain.Block{
			ID:       importer.BlockID(page, s.Name),
			PageKey:  page,
			Position: i,
			Rows:     s.Rows,
		})
		if err != nil {
			return fmt.Errorf("upsert block %s: %w", s.Name, err)
		}
	}

	for key, text := range labels.Defaults() {
		if err := lbls.Upsert(ctx, locale, key, text); err != nil {
			return fmt.Errorf("upsert label %s: %w", key, err)
		}
	}
	return nil
}
