package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"product-spotlight/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBlockRepo struct {
	items []domain.Block
	err   error
}

func (s *stubBlockRepo) Upsert(_ context.Context, b domain.Block) (*domain.Block, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.items = append(s.items, b)
	return &b, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `page,block,key,value
home,hero,sku,24-MB01
home,hero,theme,dark
home,second,sku,24-WB04
home,hero,title,Deal of the Day
,sidebar,sku,24-UG06
home,,sku,ignored
`
	repo := &stubBlockRepo{}

	count, err := NewCSVImporter(strings.NewReader(csvData), repo, "landing").Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, count)

	hero := repo.items[0]
	assert.Equal(t, "home", hero.PageKey)
	assert.Equal(t, 0, hero.Position)
	require.Len(t, hero.Rows, 3)
	assert.Equal(t, domain.ConfigRow{Key: "title", Value: "Deal of the Day"}, hero.Rows[2], "rows keep file order")
	assert.Equal(t, BlockID("home", "hero"), hero.ID)

	assert.Equal(t, 1, repo.items[1].Position)

	sidebar := repo.items[2]
	assert.Equal(t, "landing", sidebar.PageKey)
	assert.Equal(t, 0, sidebar.Position)
}

func TestCSVImporter_RejectsMissingSKU(t *testing.T) {
	csvData := `block,key,value
hero,title,No sku here
`
	_, err := NewCSVImporter(strings.NewReader(csvData), &stubBlockRepo{}, "").Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrMissingSKU)
}

func TestCSVImporter_RejectsUnknownTheme(t *testing.T) {
	csvData := `block,key,value
hero,sku,24-MB01
hero,theme,neon
`
	_, err := NewCSVImporter(strings.NewReader(csvData), &stubBlockRepo{}, "").Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidTheme)
}

func TestCSVImporter_MissingColumn(t *testing.T) {
	_, err := NewCSVImporter(strings.NewReader("block,key\nhero,sku\n"), &stubBlockRepo{}, "").Run(context.Background())
	assert.ErrorContains(t, err, `"value"`)
}

func TestCSVImporter_WriteError(t *testing.T) {
	repo := &stubBlockRepo{err: errors.New("db down")}
	count, err := NewCSVImporter(strings.NewReader("block,key,value\nhero,sku,24-MB01\n"), repo, "").Run(context.Background())
	assert.ErrorContains(t, err, "db down")
	assert.Zero(t, count)
}

func TestBlockIDIsStable(t *testing.T) {
	assert.Equal(t, BlockID("home", "hero"), BlockID("home", "hero"))
	assert.NotEqual(t, BlockID("home", "hero"), BlockID("other", "hero"))
}
