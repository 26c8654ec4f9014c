// Package dropin holds the UI capabilities the spotlight delegates to. Each
// capability takes props and returns a Mount that attaches its markup to a
// container.
package dropin

import (
	"context"

	"product-spotlight/internal/domain"

	"golang.org/x/net/html"
)

// Mount attaches rendered markup to container.
type Mount func(container *html.Node) error

type ButtonProps struct {
	Label   string
	Variant string
	Icon    string
	// Attrs are copied onto the button element in order.
	Attrs []html.Attribute
}

type LinkProps struct {
	Label   string
	Href    string
	Variant string
}

// Components renders generic UI elements.
type Components interface {
	Button(props ButtonProps) Mount
	Link(props LinkProps) Mount
}

type WishlistProps struct {
	Item        domain.WishlistItem
	ShopperID   string
	Endpoint    string
	AddLabel    string
	RemoveLabel string
}

// Wishlist renders the wishlist toggle. It owns the wishlisted state.
type Wishlist interface {
	Render(ctx context.Context, props WishlistProps) (Mount, error)
	Toggle(ctx context.Context, shopperID string, item domain.WishlistItem) (bool, error)
}
