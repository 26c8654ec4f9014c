package httpserver

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	if len(corsOrigins) > 0 {
		corsCfg := cors.Config{
			AllowOrigins:     corsOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{stateHeader, wishlistHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}
		if err := corsCfg.Validate(); err != nil {
			return nil, fmt.Errorf("cors config: %w", err)
		}
		router.Use(cors.New(corsCfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db, deps))

	h := &spotlightHandler{deps: deps, logger: logger}
	router.GET("/spotlight", h.decorateQuery)
	router.POST("/spotlight", h.decorateRows)
	router.POST("/spotlight/cart", h.addToCart)
	router.GET("/spotlight/wishlist", h.listWishlist)
	router.POST("/spotlight/wishlist", h.toggleWishlist)
	router.GET("/blocks/:blockID", h.decorateStored)
	router.GET("/pages/:pageKey", h.decoratePage)

	return router, nil
}
