package domain

type Money struct {
	Currency string  `json:"currency,omitempty"`
	Value    float64 `json:"value"`
}

type ProductPrice struct {
	FinalPrice   Money `json:"finalPrice"`
	RegularPrice Money `json:"regularPrice"`
}

// Discounted reports whether the final price is below the regular price.
func (p ProductPrice) Discounted() bool {
	return p.FinalPrice.Value < p.RegularPrice.Value
}

type PriceRange struct {
	MinimumPrice *ProductPrice `json:"minimumPrice,omitempty"`
}

type Image struct {
	URL   string `json:"url"`
	Label string `json:"label,omitempty"`
}

// Product is the normalized view of one catalog entry. It is built once per
// decoration and not modified afterwards.
type Product struct {
	SKU                  string     `json:"sku"`
	Name                 string     `json:"name"`
	URLKey               string     `json:"urlKey,omitempty"`
	Images               []Image    `json:"images"`
	ShortDescriptionHTML string     `json:"shortDescriptionHtml,omitempty"`
	PriceRange           PriceRange `json:"priceRange"`
}

// FirstImage returns the first image with a URL, if any.
func (p Product) FirstImage() (Image, bool) {
	if len(p.Images) == 0 || p.Images[0].URL == "" {
		return Image{}, false
	}
	return p.Images[0], true
}

// FinalPrice returns the minimum final price, or nil when pricing is absent.
func (p Product) FinalPrice() *float64 {
	if p.PriceRange.MinimumPrice == nil {
		return nil
	}
	v := p.PriceRange.MinimumPrice.FinalPrice.Value
	return &v
}
