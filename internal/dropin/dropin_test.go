package dropin

import (
	"context"
	"errors"
	"testing"

	"product-spotlight/internal/dom"
	"product-spotlight/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	items map[string]bool
	err   error
}

func (m *memoryStore) Contains(_ context.Context, shopperID, sku string) (bool, error) {
	return m.items[shopperID+"/"+sku], m.err
}

func (m *memoryStore) Toggle(_ context.Context, shopperID string, item domain.WishlistItem) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	key := shopperID + "/" + item.SKU
	m.items[key] = !m.items[key]
	return m.items[key], nil
}

func TestStandardButton(t *testing.T) {
	container := dom.Element("div")
	err := Standard{}.Button(ButtonProps{Label: "Add to Cart", Icon: "cart", Attrs: nil})(container)
	require.NoError(t, err)

	out, err := dom.Render(container)
	require.NoError(t, err)
	assert.Equal(t, `<div><button type="button" class="dropin-button dropin-button--primary"><span class="dropin-icon dropin-icon--cart" aria-hidden="true"></span>Add to Cart</button></div>`, out)
}

func TestStandardLink(t *testing.T) {
	container := dom.Element("div")
	require.NoError(t, Standard{}.Link(LinkProps{Label: "View Details", Href: "/products/bag/24-MB01"})(container))

	links := dom.ByTag(container, "a")
	require.Len(t, links, 1)
	href, _ := dom.GetAttr(links[0], "href")
	assert.Equal(t, "/products/bag/24-MB01", href)
	assert.True(t, dom.HasClass(links[0], "dropin-button--secondary"))
}

func TestWishlistToggle_RenderReflectsStore(t *testing.T) {
	store := &memoryStore{items: map[string]bool{"s1/24-MB01": true}}
	w := NewWishlistToggle(store, nil)
	props := WishlistProps{Item: domain.WishlistItem{SKU: "24-MB01", Name: "Mug"}, ShopperID: "s1", AddLabel: "Add", RemoveLabel: "Remove"}

	mount, err := w.Render(context.Background(), props)
	require.NoError(t, err)
	container := dom.Element("div")
	require.NoError(t, mount(container))

	btn := dom.ByTag(container, "button")[0]
	pressed, _ := dom.GetAttr(btn, "aria-pressed")
	label, _ := dom.GetAttr(btn, "aria-label")
	product, _ := dom.GetAttr(btn, "data-product")
	assert.Equal(t, "true", pressed)
	assert.Equal(t, "Remove", label)
	assert.JSONEq(t, `{"sku":"24-MB01","name":"Mug"}`, product)
}

func TestWishlistToggle_StoreErrorRendersInactive(t *testing.T) {
	w := NewWishlistToggle(&memoryStore{err: errors.New("db down")}, nil)
	mount, err := w.Render(context.Background(), WishlistProps{Item: domain.WishlistItem{SKU: "x"}, ShopperID: "s1", AddLabel: "Add"})
	require.NoError(t, err)

	container := dom.Element("div")
	require.NoError(t, mount(container))
	pressed, _ := dom.GetAttr(dom.ByTag(container, "button")[0], "aria-pressed")
	assert.Equal(t, "false", pressed)
}

func TestWishlistToggle_Toggle(t *testing.T) {
	w := NewWishlistToggle(&memoryStore{items: map[string]bool{}}, nil)
	item := domain.WishlistItem{SKU: "24-MB01"}

	on, err := w.Toggle(context.Background(), "s1", item)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = w.Toggle(context.Background(), "s1", item)
	require.NoError(t, err)
	assert.False(t, on)
}
