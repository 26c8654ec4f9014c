// Package blockconfig turns content-table rows into a validated block
// configuration.
package blockconfig

import (
	"fmt"
	"regexp"
	"strings"

	"product-spotlight/internal/domain"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeKey lower-cases a content-table key and collapses anything that is
// not a letter or digit into a single hyphen.
func NormalizeKey(key string) string {
	k := nonAlnum.ReplaceAllString(strings.ToLower(strings.TrimSpace(key)), "-")
	return strings.Trim(k, "-")
}

// FromRows builds the flat mapping. Rows with an empty key are skipped and a
// later row overrides an earlier one with the same key.
func FromRows(rows []domain.ConfigRow) domain.BlockConfig {
	cfg := make(domain.BlockConfig, len(rows))
	for _, row := range rows {
		key := NormalizeKey(row.Key)
		if key == "" {
			continue
		}
		cfg[key] = strings.TrimSpace(row.Value)
	}
	return cfg
}

// Validated is a configuration that passed Validate.
type Validated struct {
	SKU   string
	Title string
	Theme domain.Theme
	// ThemeFallback is set when the configured theme was replaced by the default.
	ThemeFallback bool
}

// Validate checks the required sku and resolves the theme. Unknown themes are
// replaced with domain.ThemeDefault rather than rejected.
func Validate(cfg domain.BlockConfig) (Validated, error) {
	sku := strings.TrimSpace(cfg.SKU())
	if sku == "" {
		return Validated{}, domain.ErrMissingSKU
	}
	out := Validated{
		SKU:   sku,
		Title: cfg.Title(),
		Theme: domain.Theme(strings.ToLower(string(cfg.Theme()))),
	}
	if !out.Theme.Valid() {
		out.Theme = domain.ThemeDefault
		out.ThemeFallback = true
	}
	return out, nil
}

// ParseTheme is the strict variant used where an invalid theme must be
// reported to the caller.
func ParseTheme(raw string) (domain.Theme, error) {
	if raw == "" {
		return domain.ThemeDefault, nil
	}
	t := domain.Theme(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidTheme, raw)
	}
	return t, nil
}
