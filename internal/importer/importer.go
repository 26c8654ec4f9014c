package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"product-spotlight/internal/blockconfig"
	"product-spotlight/internal/domain"

	"github.com/google/uuid"
)

const defaultPage = "default"

// blockNamespace scopes deterministic block ids so re-importing a file
// updates the same blocks.
var blockNamespace = uuid.MustParse("6f1c1c52-45b4-4c39-9d0b-3f1c8a2b5e77")

type BlockWriter interface {
	Upsert(ctx context.Context, block domain.Block) (*domain.Block, error)
}

// CSVImporter reads content tables exported as CSV and stores them as blocks.
//
// Columns: page (optional), block, key, value. Rows of one block are kept
// in file order; blocks are positioned per page in order of first appearance.
type CSVImporter struct {
	reader    *csv.Reader
	blockRepo BlockWriter
	pageKey   string
}

// NewCSVImporter builds an importer. pageKey is used for rows without a page
// column value.
func NewCSVImporter(r io.Reader, repo BlockWriter, pageKey string) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	if pageKey == "" {
		pageKey = defaultPage
	}
	return &CSVImporter{
		reader:    csvr,
		blockRepo: repo,
		pageKey:   pageKey,
	}
}

type pendingBlock struct {
	page string
	name string
	rows []domain.ConfigRow
}

// Run parses every row and upserts blocks once the whole file is read.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range []string{"block", "key", "value"} {
		if _, ok := index[col]; !ok {
			return 0, fmt.Errorf("missing column %q", col)
		}
	}

	var (
		order  []*pendingBlock
		byName = map[string]*pendingBlock{}
	)
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read row: %w", err)
		}

		name := pick(record, index, "block")
		key := pick(record, index, "key")
		if name == "" || key == "" {
			continue
		}
		page := pick(record, index, "page")
		if page == "" {
			page = i.pageKey
		}
		id := page + "/" + name
		pb, ok := byName[id]
		if !ok {
			pb = &pendingBlock{page: page, name: name}
			byName[id] = pb
			order = append(order, pb)
		}
		pb.rows = append(pb.rows, domain.ConfigRow{Key: key, Value: pick(record, index, "value")})
	}

	positions := map[string]int{}
	imported := 0
	for _, pb := range order {
		if err := validate(pb); err != nil {
			return imported, err
		}
		block := domain.Block{
			ID:       BlockID(pb.page, pb.name),
			PageKey:  pb.page,
			Position: positions[pb.page],
			Rows:     pb.rows,
		}
		positions[pb.page]++
		if _, err := i.blockRepo.Upsert(ctx, block); err != nil {
			return imported, fmt.Errorf("upsert block %q: %w", pb.name, err)
		}
		imported++
	}
	return imported, nil
}

// validate rejects tables that could never render a product.
func validate(pb *pendingBlock) error {
	cfg := blockconfig.FromRows(pb.rows)
	if strings.TrimSpace(cfg.SKU()) == "" {
		return fmt.Errorf("block %q on page %q: %w", pb.name, pb.page, domain.ErrMissingSKU)
	}
	if _, err := blockconfig.ParseTheme(cfg[domain.KeyTheme]); err != nil {
		return fmt.Errorf("block %q on page %q: %w", pb.name, pb.page, err)
	}
	return nil
}

// BlockID derives the stable id of a named block on a page.
func BlockID(page, name string) string {
	return uuid.NewSHA1(blockNamespace, []byte(page+"/"+name)).String()
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
