package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"product-spotlight/internal/commerce"
	"product-spotlight/internal/domain"
	"product-spotlight/internal/dropin"
	"product-spotlight/internal/events"
	"product-spotlight/internal/labels"
	"product-spotlight/internal/spotlight"
	"product-spotlight/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

type stubFetcher struct {
	products map[string]domain.Product
}

func (s stubFetcher) Fetch(_ context.Context, sku string) commerce.FetchResult {
	p, ok := s.products[sku]
	if !ok {
		return commerce.NotFound()
	}
	return commerce.Found(p)
}

type stubBlocks struct {
	byID map[string]domain.Block
	err  error
}

func (s *stubBlocks) GetByID(_ context.Context, id string) (*domain.Block, error) {
	if s.err != nil {
		return nil, s.err
	}
	b, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (s *stubBlocks) ListByPage(_ context.Context, pageKey string) ([]domain.Block, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.Block
	for _, id := range []string{"b-1", "b-2"} {
		if b, ok := s.byID[id]; ok && b.PageKey == pageKey {
			out = append(out, b)
		}
	}
	return out, nil
}

type stubCart struct {
	err error
}

func (s *stubCart) CreateEmptyCart(context.Context) (string, error) {
	return "cart-1", nil
}

func (s *stubCart) AddProductsToCart(context.Context, string, []domain.CartItem) error {
	return s.err
}

type memoryStore struct {
	items     map[string]bool
	snapshots map[string]domain.WishlistItem
	listErr   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{items: map[string]bool{}, snapshots: map[string]domain.WishlistItem{}}
}

func (m *memoryStore) Contains(_ context.Context, shopperID, sku string) (bool, error) {
	return m.items[shopperID+"/"+sku], nil
}

func (m *memoryStore) Toggle(_ context.Context, shopperID string, item domain.WishlistItem) (bool, error) {
	key := shopperID + "/" + item.SKU
	m.items[key] = !m.items[key]
	if m.items[key] {
		m.snapshots[key] = item
	} else {
		delete(m.snapshots, key)
	}
	return m.items[key], nil
}

func (m *memoryStore) List(_ context.Context, shopperID string) ([]domain.WishlistItem, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.WishlistItem
	for key, item := range m.snapshots {
		if strings.HasPrefix(key, shopperID+"/") {
			out = append(out, item)
		}
	}
	return out, nil
}

type testEnv struct {
	router *gin.Engine
	store  *memoryStore
}

func newTestEnv(t *testing.T, cart *stubCart, corsOrigins []string) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	products := stubFetcher{products: map[string]domain.Product{
		"24-MB01": {
			SKU:    "24-MB01",
			Name:   "Test Mug",
			URLKey: "test-mug",
			PriceRange: domain.PriceRange{MinimumPrice: &domain.ProductPrice{
				FinalPrice:   domain.Money{Currency: "USD", Value: 19.99},
				RegularPrice: domain.Money{Currency: "USD", Value: 24.99},
			}},
		},
	}}
	blocks := &stubBlocks{byID: map[string]domain.Block{
		"b-1": {ID: "b-1", PageKey: "home", Rows: []domain.ConfigRow{{Key: "sku", Value: "24-MB01"}}},
		"b-2": {ID: "b-2", PageKey: "home", Position: 1, Rows: []domain.ConfigRow{{Key: "sku", Value: "missing"}}},
	}}

	store := newMemoryStore()
	wishlist := dropin.NewWishlistToggle(store, nil)
	builder := view.New(dropin.Standard{}, wishlist, view.Options{
		RootPath:         "/",
		CartEndpoint:     "/spotlight/cart",
		WishlistEndpoint: "/spotlight/wishlist",
	})
	lp := labels.Static{}
	dec := spotlight.NewDecorator(lp, products, builder, events.NewLogPublisher(nil), nil)
	acts := spotlight.NewActions(cart, products, wishlist, lp, "/spotlight/wishlist", nil)

	router, err := buildRouter(nil, nil, Deps{
		Decorator:     dec,
		Actions:       acts,
		Blocks:        blocks,
		Wishlist:      store,
		DefaultLocale: "en",
	}, corsOrigins)
	require.NoError(t, err)
	return testEnv{router: router, store: store}
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, &stubCart{}, nil)
	rec := serve(env.router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz_NoDB(t *testing.T) {
	env := newTestEnv(t, &stubCart{}, nil)
	rec := serve(env.router, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "db not configured")
}

func TestReadyz_SpotlightNotWired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(nil, nil, Deps{}, nil)
	require.NoError(t, err)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "spotlight not configured")
}

func TestDecorateQuery_Rendered(t *testing.T) {
	env := newTestEnv(t, &stubCart{}, nil)
	rec := serve(env.router, httptest.NewRequest(http.MethodGet, "/spotlight?sku=24-MB01&theme=dark", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rendered", rec.Header().Get(stateHeader))
	body := rec.Body.String()
	for _, want := range []string{"spotlight--dark", "Test Mug", "USD 19.99", "/products/test-mug/24-MB01"} {
		assert.Contains(t, body, want)
	}
	assert.Contains(t, rec.Header().Get("Set-Cookie"), shopperCookie+"=")
}

func TestDecorateQuery_MissingSKU(t *testing.T) {
	env := newTestEnv(t, &stubCart{}, nil)
	rec := serve(env.router, httptest.NewRequest(http.MethodGet, "/spotlight?title=Hello", nil))

	assert.Equal(t, "config-error", rec.Header().Get(stateHeader))
	assert.Contains(t, rec.Body.String(), "Product SKU is required")
}

func TestDecorateRows(t *testing.T) {
	env := newTestEnv(t, &stubCart{}, nil)
	body := `{"blockId":"hero","rows":[{"key":"SKU","value":"24-MB01"},{"key":"Title","value":"Deal of the Day"}]}`
	rec := serve(env.router, jsonRequest(http.MethodPost, "/spotlight", body))

	assert.Equal(t, "rendered", rec.Header().Get(stateHeader))
	assert.Contains(t, rec.Body.String(), "Deal of the Day")
	assert.Contains(t, rec.Body.String(), `data-block-id="hero"`)
}

func TestDecorateRows_InvalidBody(t *testing.T) {
	env := newTestEnv(t, &stubCart{}, nil)
	rec := serve(env.router, jsonRequest(http.MethodPost, "/spotlight", "{"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecorateStored(t *testing.T) {
	env := newTestEnv(t, &stubCart{}, nil)

	rec := serve(env.router, httptest.NewRequest(http.MethodGet, "/blocks/b-2", nil))
	assert.Equal(t, "not-found", rec.Header().Get(stateHeader))

	rec = serve(env.router, httptest.NewRequest(http.MethodGet, "/blocks/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDecoratePage_KeepsOrder(t *testing.T) {
	env := newTestEnv(t, &stubCart{}, nil)
	rec := serve(env.router, httptest.NewRequest(http.MethodGet, "/pages/home", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	first := strings.Index(body, `data-block-id="b-1"`)
	second := strings.Index(body, `data-block-id="b-2"`)
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)

	rec = serve(env.router, httptest.NewRequest(http.MethodGet, "/pages/empty", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStorageError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(nil, nil, Deps{Blocks: &stubBlocks{err: errors.New("db down")}}, nil)
	require.NoError(t, err)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/blocks/b-1", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAddToCart(t *testing.T) {
	env := newTestEnv(t, &stubCart{}, nil)
	rec := serve(env.router, jsonRequest(http.MethodPost, "/spotlight/cart", `{"sku":"24-MB01"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), cartCookie+"=cart-1")
	assert.Contains(t, rec.Body.String(), "--success")
	assert.Contains(t, rec.Body.String(), `data-dismiss-after="3000"`)
}

func TestAddToCart_FailureFeedback(t *testing.T) {
	env := newTestEnv(t, &stubCart{err: errors.New("rejected")}, nil)
	req := jsonRequest(http.MethodPost, "/spotlight/cart", `{"sku":"24-MB01"}`)
	req.AddCookie(&http.Cookie{Name: cartCookie, Value: "cart-9"})
	rec := serve(env.router, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "--error")
	assert.Empty(t, rec.Header().Get("Set-Cookie"), "existing cart cookie is kept")
}

func TestAddToCart_MissingSKU(t *testing.T) {
	env := newTestEnv(t, &stubCart{}, nil)
	rec := serve(env.router, jsonRequest(http.MethodPost, "/spotlight/cart", `{"sku":" "}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type cancelledActions struct{}

func (cancelledActions) AddToCart(context.Context, string, string, string) (spotlight.AddToCartResult, error) {
	return spotlight.AddToCartResult{CartID: "cart-new"}, context.Canceled
}

func (cancelledActions) ToggleWishlist(context.Context, string, string, string) (bool, *html.Node, error) {
	return false, nil, context.Canceled
}

func TestAddToCart_CancelledStillStoresNewCart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(nil, nil, Deps{Actions: cancelledActions{}}, nil)
	require.NoError(t, err)

	rec := serve(router, jsonRequest(http.MethodPost, "/spotlight/cart", `{"sku":"24-MB01"}`))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), cartCookie+"=cart-new")
}

func TestToggleWishlist(t *testing.T) {
	env := newTestEnv(t, &stubCart{}, nil)

	for _, want := range []string{"true", "false"} {
		req := jsonRequest(http.MethodPost, "/spotlight/wishlist", `{"sku":"24-MB01"}`)
		req.AddCookie(&http.Cookie{Name: shopperCookie, Value: "shopper-1"})
		rec := serve(env.router, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, want, rec.Header().Get(wishlistHeader))
		assert.Contains(t, rec.Body.String(), `aria-pressed="`+want+`"`)
	}
}

func TestToggleWishlist_SnapshotComesFromCatalog(t *testing.T) {
	env := newTestEnv(t, &stubCart{}, nil)
	body := `{"sku":"24-MB01","name":"<script>alert(1)</script>","price":0.01}`
	req := jsonRequest(http.MethodPost, "/spotlight/wishlist", body)
	req.AddCookie(&http.Cookie{Name: shopperCookie, Value: "shopper-1"})
	rec := serve(env.router, req)
	require.Equal(t, http.StatusOK, rec.Code)

	snapshot := env.store.snapshots["shopper-1/24-MB01"]
	assert.Equal(t, "Test Mug", snapshot.Name)
	require.NotNil(t, snapshot.Price)
	assert.Equal(t, 19.99, *snapshot.Price)
}

func TestToggleWishlist_UnknownProduct(t *testing.T) {
	env := newTestEnv(t, &stubCart{}, nil)
	rec := serve(env.router, jsonRequest(http.MethodPost, "/spotlight/wishlist", `{"sku":"nope"}`))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, env.store.items)
}

func TestListWishlist(t *testing.T) {
	env := newTestEnv(t, &stubCart{}, nil)

	rec := serve(env.router, httptest.NewRequest(http.MethodGet, "/spotlight/wishlist", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())

	toggle := jsonRequest(http.MethodPost, "/spotlight/wishlist", `{"sku":"24-MB01"}`)
	toggle.AddCookie(&http.Cookie{Name: shopperCookie, Value: "shopper-1"})
	require.Equal(t, http.StatusOK, serve(env.router, toggle).Code)

	req := httptest.NewRequest(http.MethodGet, "/spotlight/wishlist", nil)
	req.AddCookie(&http.Cookie{Name: shopperCookie, Value: "shopper-1"})
	rec = serve(env.router, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Items []domain.WishlistItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Items, 1)
	assert.Equal(t, "24-MB01", got.Items[0].SKU)
	assert.Equal(t, "Test Mug", got.Items[0].Name)
}

func TestListWishlist_StoreError(t *testing.T) {
	env := newTestEnv(t, &stubCart{}, nil)
	env.store.listErr = errors.New("db down")

	req := httptest.NewRequest(http.MethodGet, "/spotlight/wishlist", nil)
	req.AddCookie(&http.Cookie{Name: shopperCookie, Value: "shopper-1"})
	rec := serve(env.router, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t, &stubCart{}, []string{"https://shop.example.com"})
	req := httptest.NewRequest(http.MethodOptions, "/spotlight", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := serve(env.router, req)

	assert.Equal(t, "https://shop.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
