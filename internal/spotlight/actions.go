package spotlight

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"product-spotlight/internal/commerce"
	"product-spotlight/internal/dom"
	"product-spotlight/internal/domain"
	"product-spotlight/internal/dropin"
	"product-spotlight/internal/labels"
	"product-spotlight/internal/view"

	"golang.org/x/net/html"
)

// FeedbackDelay is how long add-to-cart feedback stays visible.
const FeedbackDelay = 3 * time.Second

var (
	ErrInvalidItem = errors.New("invalid item")
	// ErrUnknownProduct is returned when the catalog has no product for a sku.
	ErrUnknownProduct = errors.New("unknown product")
)

type CartService interface {
	CreateEmptyCart(ctx context.Context) (string, error)
	AddProductsToCart(ctx context.Context, cartID string, items []domain.CartItem) error
}

// Actions serves the interactive parts of a rendered spotlight.
type Actions struct {
	cart             CartService
	fetcher          Fetcher
	wishlist         dropin.Wishlist
	labels           labels.Provider
	wishlistEndpoint string
	logger           *log.Logger
}

func NewActions(cart CartService, fetcher Fetcher, wishlist dropin.Wishlist, lp labels.Provider, wishlistEndpoint string, logger *log.Logger) *Actions {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Actions{
		cart:             cart,
		fetcher:          fetcher,
		wishlist:         wishlist,
		labels:           lp,
		wishlistEndpoint: wishlistEndpoint,
		logger:           logger,
	}
}

type AddToCartResult struct {
	// CartID is the cart used, newly created when none was passed in.
	CartID string
	OK     bool
	// Feedback is the transient message appended to the add-to-cart element.
	Feedback *html.Node
}

// AddToCart adds one unit of sku and waits for the outcome so the feedback
// reflects it. When ctx ends first the error is the ctx error and the result
// still carries any cart id created on the way.
func (a *Actions) AddToCart(ctx context.Context, cartID, sku, locale string) (AddToCartResult, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return AddToCartResult{}, fmt.Errorf("%w: %w", ErrInvalidItem, domain.ErrMissingSKU)
	}
	lbl := a.labelsFor(ctx, locale)

	res := AddToCartResult{CartID: cartID}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	err := a.addToCart(ctx, &res, sku)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return AddToCartResult{CartID: res.CartID}, ctxErr
	}
	if err != nil {
		a.logger.Printf("spotlight actions: add to cart cart=%s sku=%s error=%v", res.CartID, sku, err)
		res.Feedback = feedback("error", lbl.Get(labels.AddToCartFailed))
		return res, nil
	}
	a.logger.Printf("spotlight actions: added cart=%s sku=%s", res.CartID, sku)
	res.OK = true
	res.Feedback = feedback("success", lbl.Get(labels.AddedToCart))
	return res, nil
}

func (a *Actions) addToCart(ctx context.Context, res *AddToCartResult, sku string) error {
	if res.CartID == "" {
		id, err := a.cart.CreateEmptyCart(ctx)
		if err != nil {
			return err
		}
		res.CartID = id
	}
	return a.cart.AddProductsToCart(ctx, res.CartID, []domain.CartItem{{SKU: sku, Quantity: 1}})
}

func feedback(kind, text string) *html.Node {
	n := dom.Element("div",
		dom.Class(view.ClassMessage, view.ClassMessage+"--"+kind),
		dom.Attr("role", "status"),
		dom.Attr("data-dismiss-after", strconv.FormatInt(FeedbackDelay.Milliseconds(), 10)),
	)
	dom.Append(n, dom.Text(text))
	return n
}

// ToggleWishlist flips sku for shopperID and returns the re-rendered toggle
// wrapped in its wishlist container. The stored descriptor comes from the
// catalog, never from the caller.
func (a *Actions) ToggleWishlist(ctx context.Context, shopperID, sku, locale string) (bool, *html.Node, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return false, nil, fmt.Errorf("%w: %w", ErrInvalidItem, domain.ErrMissingSKU)
	}
	item, err := a.wishlistItem(ctx, sku)
	if err != nil {
		return false, nil, err
	}
	on, err := a.wishlist.Toggle(ctx, shopperID, item)
	if err != nil {
		return false, nil, err
	}
	lbl := a.labelsFor(ctx, locale)
	mount, err := a.wishlist.Render(ctx, dropin.WishlistProps{
		Item:        item,
		ShopperID:   shopperID,
		Endpoint:    a.wishlistEndpoint,
		AddLabel:    lbl.Get(labels.AddToWishlist),
		RemoveLabel: lbl.Get(labels.RemoveFromWishlist),
	})
	if err != nil {
		return false, nil, err
	}
	container := dom.Element("div", dom.Class(view.ClassWishlist))
	if err := mount(container); err != nil {
		return false, nil, fmt.Errorf("mount wishlist: %w", err)
	}
	return on, container, nil
}

func (a *Actions) wishlistItem(ctx context.Context, sku string) (domain.WishlistItem, error) {
	res := a.fetcher.Fetch(ctx, sku)
	switch res.Status {
	case commerce.StatusFound:
		return view.WishlistItem(*res.Product()), nil
	case commerce.StatusNotFound:
		return domain.WishlistItem{}, fmt.Errorf("%w: %s", ErrUnknownProduct, sku)
	default:
		return domain.WishlistItem{}, fmt.Errorf("fetch %s: %w", sku, res.Err)
	}
}

func (a *Actions) labelsFor(ctx context.Context, locale string) labels.Map {
	lbl, err := a.labels.Labels(ctx, locale)
	if err != nil {
		a.logger.Printf("spotlight actions: labels locale=%s error=%v", locale, err)
	}
	if lbl == nil {
		return labels.Defaults()
	}
	return lbl
}
