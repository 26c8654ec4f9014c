package commerce

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"product-spotlight/internal/domain"
)

const productQuery = `query ProductSpotlight($sku: String!) {
  products(skus: [$sku]) {
    sku
    name
    url_key
    images(roles: []) {
      url
      label
    }
    short_description {
      html
    }
    price_range {
      minimum_price {
        final_price {
          currency
          value
        }
        regular_price {
          value
        }
      }
    }
  }
}`

// Status tags the outcome of a product fetch.
type Status int

const (
	StatusFound Status = iota + 1
	StatusNotFound
	StatusTransportError
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not-found"
	case StatusTransportError:
		return "transport-error"
	}
	return "unknown"
}

// FetchResult is Found(product), NotFound or TransportError(err).
type FetchResult struct {
	Status  Status
	product *domain.Product
	Err     error
}

func Found(p domain.Product) FetchResult {
	return FetchResult{Status: StatusFound, product: &p}
}

func NotFound() FetchResult {
	return FetchResult{Status: StatusNotFound}
}

func TransportError(err error) FetchResult {
	return FetchResult{Status: StatusTransportError, Err: err}
}

// Product returns the product for a Found result and nil otherwise.
func (r FetchResult) Product() *domain.Product {
	if r.Status != StatusFound {
		return nil
	}
	return r.product
}

var errMalformed = errors.New("malformed product payload")

type moneyPayload struct {
	Currency string   `json:"currency"`
	Value    *float64 `json:"value"`
}

type productPayload struct {
	SKU    string `json:"sku"`
	Name   string `json:"name"`
	URLKey string `json:"url_key"`
	Images []struct {
		URL   string `json:"url"`
		Label string `json:"label"`
	} `json:"images"`
	ShortDescription *struct {
		HTML string `json:"html"`
	} `json:"short_description"`
	PriceRange *struct {
		MinimumPrice *struct {
			FinalPrice   *moneyPayload `json:"final_price"`
			RegularPrice *moneyPayload `json:"regular_price"`
		} `json:"minimum_price"`
	} `json:"price_range"`
}

type productsData struct {
	Products []productPayload `json:"products"`
}

// ProductFetcher retrieves one product per call. It never retries or caches.
type ProductFetcher struct {
	client *Client
	logger *log.Logger
}

func NewProductFetcher(client *Client, logger *log.Logger) *ProductFetcher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &ProductFetcher{client: client, logger: logger}
}

// Fetch never returns a Go error; failures are folded into the result.
func (f *ProductFetcher) Fetch(ctx context.Context, sku string) FetchResult {
	var data productsData
	if err := f.client.Do(ctx, productQuery, map[string]any{"sku": sku}, &data); err != nil {
		f.logger.Printf("product fetcher: sku=%s error=%v", sku, err)
		return TransportError(err)
	}
	if len(data.Products) == 0 {
		f.logger.Printf("product fetcher: sku=%s not found", sku)
		return NotFound()
	}
	p, err := normalize(data.Products[0])
	if err != nil {
		f.logger.Printf("product fetcher: sku=%s error=%v", sku, err)
		return TransportError(err)
	}
	return Found(p)
}

func normalize(raw productPayload) (domain.Product, error) {
	if raw.SKU == "" || raw.Name == "" {
		return domain.Product{}, fmt.Errorf("%w: sku and name are required", errMalformed)
	}
	p := domain.Product{
		SKU:    raw.SKU,
		Name:   raw.Name,
		URLKey: raw.URLKey,
		Images: make([]domain.Image, 0, len(raw.Images)),
	}
	for _, img := range raw.Images {
		p.Images = append(p.Images, domain.Image{URL: img.URL, Label: img.Label})
	}
	if raw.ShortDescription != nil {
		p.ShortDescriptionHTML = raw.ShortDescription.HTML
	}
	if raw.PriceRange != nil && raw.PriceRange.MinimumPrice != nil {
		mp := raw.PriceRange.MinimumPrice
		if mp.FinalPrice != nil && mp.FinalPrice.Value != nil {
			price := domain.ProductPrice{
				FinalPrice: domain.Money{Currency: mp.FinalPrice.Currency, Value: *mp.FinalPrice.Value},
			}
			// Without a regular price there is nothing to compare against.
			price.RegularPrice = domain.Money{Currency: mp.FinalPrice.Currency, Value: *mp.FinalPrice.Value}
			if mp.RegularPrice != nil && mp.RegularPrice.Value != nil {
				price.RegularPrice.Value = *mp.RegularPrice.Value
				if mp.RegularPrice.Currency != "" {
					price.RegularPrice.Currency = mp.RegularPrice.Currency
				}
			}
			p.PriceRange.MinimumPrice = &price
		}
	}
	return p, nil
}
