package commerce

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"product-spotlight/internal/domain"
)

const createCartMutation = `mutation CreateCart {
  createEmptyCart
}`

const addProductsMutation = `mutation AddProductsToCart($cartId: String!, $cartItems: [CartItemInput!]!) {
  addProductsToCart(cartId: $cartId, cartItems: $cartItems) {
    cart {
      id
      total_quantity
    }
    user_errors {
      code
      message
    }
  }
}`

// ErrCartRejected is returned when the backend reports user errors.
var ErrCartRejected = errors.New("cart rejected items")

// CartClient implements the cart service over GraphQL.
type CartClient struct {
	client *Client
}

func NewCartClient(client *Client) *CartClient {
	return &CartClient{client: client}
}

func (c *CartClient) CreateEmptyCart(ctx context.Context) (string, error) {
	var data struct {
		CartID string `json:"createEmptyCart"`
	}
	if err := c.client.Do(ctx, createCartMutation, map[string]any{}, &data); err != nil {
		return "", fmt.Errorf("create cart: %w", err)
	}
	if data.CartID == "" {
		return "", fmt.Errorf("create cart: empty cart id")
	}
	return data.CartID, nil
}

func (c *CartClient) AddProductsToCart(ctx context.Context, cartID string, items []domain.CartItem) error {
	var data struct {
		AddProductsToCart struct {
			UserErrors []struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"user_errors"`
		} `json:"addProductsToCart"`
	}
	vars := map[string]any{"cartId": cartID, "cartItems": items}
	if err := c.client.Do(ctx, addProductsMutation, vars, &data); err != nil {
		return fmt.Errorf("add products to cart %s: %w", cartID, err)
	}
	if errs := data.AddProductsToCart.UserErrors; len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Code+": "+e.Message)
		}
		return fmt.Errorf("%w: %s", ErrCartRejected, strings.Join(msgs, "; "))
	}
	return nil
}
