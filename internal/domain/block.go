package domain

import "time"

const (
	KeySKU   = "sku"
	KeyTitle = "title"
	KeyTheme = "theme"

	// DefaultTitle is never rendered as a heading.
	DefaultTitle = "Featured Product"
)

type Theme string

const (
	ThemeDefault Theme = "default"
	ThemeMinimal Theme = "minimal"
	ThemeDark    Theme = "dark"
)

// Valid reports whether t is one of the supported themes.
func (t Theme) Valid() bool {
	switch t {
	case ThemeDefault, ThemeMinimal, ThemeDark:
		return true
	}
	return false
}

// ClassName is the CSS class applied to the block element.
func (t Theme) ClassName() string {
	return "spotlight--" + string(t)
}

// ConfigRow is a single key/value row of a block's content table.
type ConfigRow struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// BlockConfig is the flat mapping read from a content table.
type BlockConfig map[string]string

func (c BlockConfig) SKU() string {
	return c[KeySKU]
}

// Title returns the configured title or DefaultTitle.
func (c BlockConfig) Title() string {
	if v := c[KeyTitle]; v != "" {
		return v
	}
	return DefaultTitle
}

// Theme returns the raw configured theme or ThemeDefault.
func (c BlockConfig) Theme() Theme {
	if v := c[KeyTheme]; v != "" {
		return Theme(v)
	}
	return ThemeDefault
}

// Block is a stored content table placed on a page.
type Block struct {
	ID        string      `json:"id"`
	PageKey   string      `json:"pageKey"`
	Position  int         `json:"position"`
	Rows      []ConfigRow `json:"rows"`
	CreatedAt time.Time   `json:"createdAt"`
}
