package labels

import (
	"context"
	"fmt"
)

// Logical label keys used by the spotlight block.
const (
	AddToCart          = "addToCart"
	ViewDetails        = "viewDetails"
	AddedToCart        = "addedToCart"
	AddToCartFailed    = "addToCartFailed"
	AddToWishlist      = "addToWishlist"
	RemoveFromWishlist = "removeFromWishlist"
	NoImage            = "noImage"
	Loading            = "loading"
	NotFound           = "productNotFound"
	LoadError          = "productLoadError"
	MissingSKU         = "missingSku"
	OriginalPrice      = "originalPrice"
)

// Map resolves a logical key to display text.
type Map map[string]string

// Get returns the text for key, or the key itself when unknown.
func (m Map) Get(key string) string {
	if v, ok := m[key]; ok && v != "" {
		return v
	}
	if v, ok := defaults[key]; ok {
		return v
	}
	return key
}

var defaults = Map{
	AddToCart:          "Add to Cart",
	ViewDetails:        "View Details",
	AddedToCart:        "Added to cart!",
	AddToCartFailed:    "Could not add to cart",
	AddToWishlist:      "Add to Wishlist",
	RemoveFromWishlist: "Remove from Wishlist",
	NoImage:            "No Image Available",
	Loading:            "Loading product...",
	NotFound:           "Product not found",
	LoadError:          "Error loading product",
	MissingSKU:         "Product SKU is required",
	OriginalPrice:      "Original price",
}

// Defaults returns a copy of the built-in labels.
func Defaults() Map {
	out := make(Map, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	return out
}

// Provider supplies localized labels.
type Provider interface {
	Labels(ctx context.Context, locale string) (Map, error)
}

type labelRepo interface {
	ListByLocale(ctx context.Context, locale string) (map[string]string, error)
}

type Service struct {
	repo          labelRepo
	defaultLocale string
}

func New(repo labelRepo, defaultLocale string) *Service {
	return &Service{repo: repo, defaultLocale: defaultLocale}
}

// Labels overlays stored labels for locale on the built-in defaults. An empty
// locale uses the service default.
func (s *Service) Labels(ctx context.Context, locale string) (Map, error) {
	if locale == "" {
		locale = s.defaultLocale
	}
	out := Defaults()
	if s.repo == nil {
		return out, nil
	}
	stored, err := s.repo.ListByLocale(ctx, locale)
	if err != nil {
		return out, fmt.Errorf("list labels locale=%s: %w", locale, err)
	}
	for k, v := range stored {
		out[k] = v
	}
	return out, nil
}

// Static serves a fixed map, mostly for tests and for running without a
// database.
type Static Map

func (s Static) Labels(context.Context, string) (Map, error) {
	out := Defaults()
	for k, v := range s {
		out[k] = v
	}
	return out, nil
}
