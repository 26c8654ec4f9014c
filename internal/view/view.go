// Package view builds the spotlight element tree for one product.
package view

import (
	"context"
	"fmt"
	"strings"

	"product-spotlight/internal/dom"
	"product-spotlight/internal/domain"
	"product-spotlight/internal/dropin"
	"product-spotlight/internal/labels"

	"golang.org/x/net/html"
)

// CSS class hooks. External styling depends on these names.
const (
	ClassBlock            = "product-spotlight"
	ClassTitle            = "product-spotlight__title"
	ClassContent          = "product-spotlight__content"
	ClassImage            = "product-spotlight__image"
	ClassImagePlaceholder = "product-spotlight__image-placeholder"
	ClassInfo             = "product-spotlight__info"
	ClassProductName      = "product-spotlight__name"
	ClassPrice            = "product-spotlight__price"
	ClassOriginalPrice    = "product-spotlight__price--original"
	ClassFinalPrice       = "product-spotlight__price--final"
	ClassDescription      = "product-spotlight__description"
	ClassActions          = "product-spotlight__actions"
	ClassAddToCart        = "product-spotlight__add-to-cart"
	ClassViewProduct      = "product-spotlight__view-product"
	ClassWishlist         = "product-spotlight__wishlist"
	ClassMessage          = "product-spotlight__message"
	ClassLoading          = "product-spotlight__loading"
	ClassError            = "product-spotlight__error"
)

type Options struct {
	// RootPath prefixes product detail links.
	RootPath         string
	CartEndpoint     string
	WishlistEndpoint string
}

type Builder struct {
	components dropin.Components
	wishlist   dropin.Wishlist
	opts       Options
}

func New(components dropin.Components, wishlist dropin.Wishlist, opts Options) *Builder {
	return &Builder{components: components, wishlist: wishlist, opts: opts}
}

// Input is everything Build needs for one product.
type Input struct {
	Product   domain.Product
	Labels    labels.Map
	Theme     domain.Theme
	ShopperID string
}

// Build returns the content grid: image region, then info region with the
// actions. The same input always yields the same markup.
func (b *Builder) Build(ctx context.Context, in Input) (*html.Node, error) {
	content := dom.Element("div", dom.Class(ClassContent))
	dom.Append(content, b.image(in.Product, in.Labels))

	info := dom.Element("div", dom.Class(ClassInfo))
	name := dom.Element("h3", dom.Class(ClassProductName))
	dom.Append(name, dom.Text(in.Product.Name))
	dom.Append(info, name, b.price(in.Product, in.Labels))

	if desc := in.Product.ShortDescriptionHTML; strings.TrimSpace(desc) != "" {
		node := dom.Element("div", dom.Class(ClassDescription))
		nodes, err := dom.ParseFragment(desc, "div")
		if err != nil {
			return nil, fmt.Errorf("description for sku=%s: %w", in.Product.SKU, err)
		}
		dom.Append(node, nodes...)
		dom.Append(info, node)
	}

	actions, err := b.actions(ctx, in)
	if err != nil {
		return nil, err
	}
	dom.Append(info, actions)
	dom.Append(content, info)
	return content, nil
}

func (b *Builder) image(p domain.Product, lbl labels.Map) *html.Node {
	region := dom.Element("div", dom.Class(ClassImage))
	img, ok := p.FirstImage()
	if !ok {
		placeholder := dom.Element("div", dom.Class(ClassImagePlaceholder))
		dom.Append(placeholder, dom.Text(lbl.Get(labels.NoImage)))
		return dom.Append(region, placeholder)
	}
	alt := img.Label
	if alt == "" {
		alt = p.Name
	}
	return dom.Append(region, dom.Element("img",
		dom.Attr("src", img.URL),
		dom.Attr("alt", alt),
		dom.Attr("loading", "lazy"),
	))
}

// price is always emitted; it stays empty when the product has no pricing.
func (b *Builder) price(p domain.Product, lbl labels.Map) *html.Node {
	region := dom.Element("div", dom.Class(ClassPrice))
	mp := p.PriceRange.MinimumPrice
	if mp == nil {
		return region
	}
	currency := mp.FinalPrice.Currency
	if mp.Discounted() {
		original := dom.Element("s", dom.Class(ClassOriginalPrice), dom.Attr("aria-label", lbl.Get(labels.OriginalPrice)))
		dom.Append(original, dom.Text(FormatPrice(currency, mp.RegularPrice.Value)))
		dom.Append(region, original)
	}
	final := dom.Element("span", dom.Class(ClassFinalPrice))
	dom.Append(final, dom.Text(FormatPrice(currency, mp.FinalPrice.Value)))
	return dom.Append(region, final)
}

func (b *Builder) actions(ctx context.Context, in Input) (*html.Node, error) {
	p := in.Product
	region := dom.Element("div", dom.Class(ClassActions))

	cart := dom.Element("div", dom.Class(ClassAddToCart))
	err := b.components.Button(dropin.ButtonProps{
		Label:   in.Labels.Get(labels.AddToCart),
		Variant: buttonVariant(in.Theme),
		Icon:    "cart",
		Attrs: []html.Attribute{
			dom.Attr("data-action", "add-to-cart"),
			dom.Attr("data-endpoint", b.opts.CartEndpoint),
			dom.Attr("data-sku", p.SKU),
		},
	})(cart)
	if err != nil {
		return nil, fmt.Errorf("mount add-to-cart: %w", err)
	}

	details := dom.Element("div", dom.Class(ClassViewProduct))
	err = b.components.Link(dropin.LinkProps{
		Label:   in.Labels.Get(labels.ViewDetails),
		Href:    ProductURL(b.opts.RootPath, p.URLKey, p.SKU),
		Variant: "secondary",
	})(details)
	if err != nil {
		return nil, fmt.Errorf("mount view-details: %w", err)
	}

	wishlist := dom.Element("div", dom.Class(ClassWishlist))
	mount, err := b.wishlist.Render(ctx, dropin.WishlistProps{
		Item:        WishlistItem(p),
		ShopperID:   in.ShopperID,
		Endpoint:    b.opts.WishlistEndpoint,
		AddLabel:    in.Labels.Get(labels.AddToWishlist),
		RemoveLabel: in.Labels.Get(labels.RemoveFromWishlist),
	})
	if err != nil {
		return nil, fmt.Errorf("render wishlist: %w", err)
	}
	if err := mount(wishlist); err != nil {
		return nil, fmt.Errorf("mount wishlist: %w", err)
	}

	return dom.Append(region, cart, details, wishlist), nil
}

func buttonVariant(theme domain.Theme) string {
	if theme == domain.ThemeMinimal {
		return "tertiary"
	}
	return "primary"
}

// FormatPrice renders "<CURRENCY> <value>" with two decimals.
func FormatPrice(currency string, value float64) string {
	return strings.TrimSpace(fmt.Sprintf("%s %.2f", currency, value))
}

// ProductURL is <root>/products/<urlKey>/<sku>. An empty urlKey leaves an
// empty path segment.
func ProductURL(rootPath, urlKey, sku string) string {
	return strings.TrimRight(rootPath, "/") + "/products/" + urlKey + "/" + sku
}

// WishlistItem is the minimal descriptor handed to the wishlist drop-in.
func WishlistItem(p domain.Product) domain.WishlistItem {
	item := domain.WishlistItem{SKU: p.SKU, Name: p.Name, Price: p.FinalPrice()}
	if img, ok := p.FirstImage(); ok {
		item.Image = &img
	}
	return item
}
