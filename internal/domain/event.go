package domain

import "time"

// EventProductLoaded is emitted once per successful render.
const EventProductLoaded = "product-spotlight/loaded"

type LoadedPayload struct {
	SKU   string   `json:"sku"`
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

type Event struct {
	Name       string        `json:"name"`
	Payload    LoadedPayload `json:"payload"`
	OccurredAt time.Time     `json:"occurredAt"`
}

// CartItem is one line of an add-to-cart request.
type CartItem struct {
	SKU      string  `json:"sku"`
	Quantity float64 `json:"quantity"`
}

// WishlistItem is the minimal descriptor handed to the wishlist drop-in.
type WishlistItem struct {
	SKU   string   `json:"sku"`
	Name  string   `json:"name"`
	Price *float64 `json:"price,omitempty"`
	Image *Image   `json:"image,omitempty"`
}
