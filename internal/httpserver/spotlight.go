package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"product-spotlight/internal/blockconfig"
	"product-spotlight/internal/dom"
	"product-spotlight/internal/domain"
	"product-spotlight/internal/spotlight"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/net/html"
)

const (
	cartCookie    = "spotlight_cart"
	shopperCookie = "spotlight_shopper"
	cookieMaxAge  = 30 * 24 * 60 * 60

	stateHeader    = "X-Spotlight-State"
	wishlistHeader = "X-Wishlist-Active"

	htmlContentType = "text/html; charset=utf-8"
)

type Decorator interface {
	Decorate(ctx context.Context, block *spotlight.Block, req spotlight.Request) error
	DecoratePage(ctx context.Context, reqs []spotlight.Request) ([]*spotlight.Block, error)
}

type Actions interface {
	AddToCart(ctx context.Context, cartID, sku, locale string) (spotlight.AddToCartResult, error)
	ToggleWishlist(ctx context.Context, shopperID, sku, locale string) (bool, *html.Node, error)
}

type WishlistLister interface {
	List(ctx context.Context, shopperID string) ([]domain.WishlistItem, error)
}

type BlockReader interface {
	GetByID(ctx context.Context, id string) (*domain.Block, error)
	ListByPage(ctx context.Context, pageKey string) ([]domain.Block, error)
}

// Deps groups what the spotlight routes need.
type Deps struct {
	Decorator     Decorator
	Actions       Actions
	Blocks        BlockReader
	Wishlist      WishlistLister
	DefaultLocale string
}

type spotlightHandler struct {
	deps   Deps
	logger *log.Logger
}

type decorateRequest struct {
	BlockID string             `json:"blockId"`
	Rows    []domain.ConfigRow `json:"rows"`
}

type itemRequest struct {
	SKU string `json:"sku" form:"sku"`
}

func (h *spotlightHandler) decorateQuery(c *gin.Context) {
	var rows []domain.ConfigRow
	for _, key := range []string{domain.KeySKU, domain.KeyTitle, domain.KeyTheme} {
		if v, ok := c.GetQuery(key); ok {
			rows = append(rows, domain.ConfigRow{Key: key, Value: v})
		}
	}
	h.decorate(c, c.Query("block"), rows)
}

func (h *spotlightHandler) decorateRows(c *gin.Context) {
	var req decorateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	h.decorate(c, req.BlockID, req.Rows)
}

func (h *spotlightHandler) decorateStored(c *gin.Context) {
	stored, err := h.deps.Blocks.GetByID(c.Request.Context(), c.Param("blockID"))
	if err != nil {
		h.storageError(c, err)
		return
	}
	h.decorate(c, stored.ID, stored.Rows)
}

func (h *spotlightHandler) decoratePage(c *gin.Context) {
	pageKey := c.Param("pageKey")
	stored, err := h.deps.Blocks.ListByPage(c.Request.Context(), pageKey)
	if err != nil {
		h.storageError(c, err)
		return
	}
	if len(stored) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
		return
	}

	locale := h.locale(c)
	shopperID := h.shopper(c)
	reqs := make([]spotlight.Request, len(stored))
	for i, b := range stored {
		reqs[i] = spotlight.Request{
			BlockID:   b.ID,
			Config:    blockconfig.FromRows(b.Rows),
			Locale:    locale,
			ShopperID: shopperID,
		}
	}
	blocks, err := h.deps.Decorator.DecoratePage(c.Request.Context(), reqs)
	if err != nil {
		h.cancelled(c, err)
		return
	}

	var sb strings.Builder
	for _, b := range blocks {
		out, err := b.HTML()
		if err != nil {
			h.logger.Printf("httpserver: render page=%s block=%s error=%v", pageKey, b.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
			return
		}
		sb.WriteString(out)
	}
	c.Data(http.StatusOK, htmlContentType, []byte(sb.String()))
}

func (h *spotlightHandler) decorate(c *gin.Context, blockID string, rows []domain.ConfigRow) {
	block := spotlight.NewBlock(blockID)
	err := h.deps.Decorator.Decorate(c.Request.Context(), block, spotlight.Request{
		BlockID:   blockID,
		Config:    blockconfig.FromRows(rows),
		Locale:    h.locale(c),
		ShopperID: h.shopper(c),
	})
	if err != nil {
		h.cancelled(c, err)
		return
	}
	h.writeNode(c, http.StatusOK, block.Node, block.State.String())
}

func (h *spotlightHandler) addToCart(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	cartID, _ := c.Cookie(cartCookie)

	res, err := h.deps.Actions.AddToCart(c.Request.Context(), cartID, req.SKU, h.locale(c))
	if err != nil {
		if errors.Is(err, spotlight.ErrInvalidItem) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.rememberCart(c, cartID, res.CartID)
		h.cancelled(c, err)
		return
	}
	h.rememberCart(c, cartID, res.CartID)
	status := http.StatusOK
	if !res.OK {
		status = http.StatusBadGateway
	}
	h.writeNode(c, status, res.Feedback, "")
}

func (h *spotlightHandler) toggleWishlist(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	on, node, err := h.deps.Actions.ToggleWishlist(c.Request.Context(), h.shopper(c), req.SKU, h.locale(c))
	if err != nil {
		switch {
		case errors.Is(err, spotlight.ErrInvalidItem):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, spotlight.ErrUnknownProduct):
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		default:
			h.logger.Printf("httpserver: wishlist toggle sku=%s error=%v", req.SKU, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "wishlist unavailable"})
		}
		return
	}
	c.Header(wishlistHeader, strconv.FormatBool(on))
	h.writeNode(c, http.StatusOK, node, "")
}

func (h *spotlightHandler) listWishlist(c *gin.Context) {
	shopperID, err := c.Cookie(shopperCookie)
	if err != nil || shopperID == "" {
		c.JSON(http.StatusOK, gin.H{"items": []domain.WishlistItem{}})
		return
	}
	items, err := h.deps.Wishlist.List(c.Request.Context(), shopperID)
	if err != nil {
		h.storageError(c, err)
		return
	}
	if items == nil {
		items = []domain.WishlistItem{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *spotlightHandler) writeNode(c *gin.Context, status int, n *html.Node, state string) {
	out, err := dom.Render(n)
	if err != nil {
		h.logger.Printf("httpserver: render error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	if state != "" {
		c.Header(stateHeader, state)
	}
	c.Data(status, htmlContentType, []byte(out))
}

func (h *spotlightHandler) storageError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.logger.Printf("httpserver: storage error=%v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
}

// cancelled answers requests whose context ended before decoration finished.
func (h *spotlightHandler) cancelled(c *gin.Context, err error) {
	h.logger.Printf("httpserver: %s %s aborted: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "request aborted"})
}

func (h *spotlightHandler) locale(c *gin.Context) string {
	if l := strings.TrimSpace(c.Query("locale")); l != "" {
		return l
	}
	return h.deps.DefaultLocale
}

// rememberCart stores a cart id the client does not know about yet.
func (h *spotlightHandler) rememberCart(c *gin.Context, known, current string) {
	if current != "" && current != known {
		c.SetCookie(cartCookie, current, cookieMaxAge, "/", "", false, true)
	}
}

// shopper returns the shopper id cookie, issuing a new one when absent.
func (h *spotlightHandler) shopper(c *gin.Context) string {
	if id, err := c.Cookie(shopperCookie); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetCookie(shopperCookie, id, cookieMaxAge, "/", "", false, true)
	return id
}
