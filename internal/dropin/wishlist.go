package dropin

import (
	"context"
	"fmt"
	"io"
	"log"

	"product-spotlight/internal/dom"
	"product-spotlight/internal/domain"

	"github.com/goccy/go-json"
	"golang.org/x/net/html"
)

type wishlistStore interface {
	Contains(ctx context.Context, shopperID, sku string) (bool, error)
	Toggle(ctx context.Context, shopperID string, item domain.WishlistItem) (bool, error)
}

// WishlistToggle is the wishlist capability backed by a store keyed by
// shopper.
type WishlistToggle struct {
	store  wishlistStore
	logger *log.Logger
}

func NewWishlistToggle(store wishlistStore, logger *log.Logger) *WishlistToggle {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &WishlistToggle{store: store, logger: logger}
}

// Render looks up the wishlisted state. Anonymous shoppers and store errors
// render the toggle as not wishlisted.
func (w *WishlistToggle) Render(ctx context.Context, props WishlistProps) (Mount, error) {
	active := false
	if props.ShopperID != "" && w.store != nil {
		ok, err := w.store.Contains(ctx, props.ShopperID, props.Item.SKU)
		if err != nil {
			w.logger.Printf("wishlist: contains shopper=%s sku=%s error=%v", props.ShopperID, props.Item.SKU, err)
		}
		active = ok
	}
	descriptor, err := json.Marshal(props.Item)
	if err != nil {
		return nil, fmt.Errorf("encode wishlist item: %w", err)
	}

	label := props.AddLabel
	pressed := "false"
	if active {
		label = props.RemoveLabel
		pressed = "true"
	}
	return func(container *html.Node) error {
		btn := dom.Element("button",
			dom.Attr("type", "button"),
			dom.Class("dropin-wishlist-toggle"),
			dom.Attr("aria-pressed", pressed),
			dom.Attr("aria-label", label),
			dom.Attr("data-action", "toggle-wishlist"),
			dom.Attr("data-endpoint", props.Endpoint),
			dom.Attr("data-product", string(descriptor)),
		)
		dom.Append(btn, dom.Element("span", dom.Class("dropin-icon", "dropin-icon--heart"), dom.Attr("aria-hidden", "true")))
		dom.Append(container, btn)
		return nil
	}, nil
}

func (w *WishlistToggle) Toggle(ctx context.Context, shopperID string, item domain.WishlistItem) (bool, error) {
	if w.store == nil {
		return false, fmt.Errorf("wishlist store unavailable")
	}
	on, err := w.store.Toggle(ctx, shopperID, item)
	if err != nil {
		return false, fmt.Errorf("toggle wishlist shopper=%s sku=%s: %w", shopperID, item.SKU, err)
	}
	w.logger.Printf("wishlist: shopper=%s sku=%s wishlisted=%t", shopperID, item.SKU, on)
	return on, nil
}
