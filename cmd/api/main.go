package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"product-spotlight/internal/commerce"
	"product-spotlight/internal/config"
	"product-spotlight/internal/db"
	"product-spotlight/internal/dropin"
	"product-spotlight/internal/events"
	"product-spotlight/internal/httpserver"
	"product-spotlight/internal/labels"
	blockrepo "product-spotlight/internal/repository/block"
	labelrepo "product-spotlight/internal/repository/label"
	wishlistrepo "product-spotlight/internal/repository/wishlist"
	"product-spotlight/internal/spotlight"
	"product-spotlight/internal/view"
)

const (
	cartEndpoint     = "/spotlight/cart"
	wishlistEndpoint = "/spotlight/wishlist"
)

func main() {
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	blockRepo := blockrepo.NewPostgres(dbpool, logger)
	labelService := labels.New(labelrepo.NewPostgres(dbpool), cfg.DefaultLocale)
	wishlistRepo := wishlistrepo.NewPostgres(dbpool)
	wishlist := dropin.NewWishlistToggle(wishlistRepo, logger)

	client := commerce.NewClient(cfg.CommerceEndpoint, cfg.CommerceHeaders, cfg.CommerceTimeout, logger)
	fetcher := commerce.NewProductFetcher(client, logger)
	cart := commerce.NewCartClient(client)

	var publisher spotlight.Publisher = events.NewLogPublisher(logger)
	if cfg.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AnalyticsQueue, logger)
		if err != nil {
			logger.Fatalf("connect to amqp: %v", err)
		}
		defer amqpPub.Close()
		publisher = amqpPub
	}

	builder := view.New(dropin.Standard{}, wishlist, view.Options{
		RootPath:         cfg.StoreRootPath,
		CartEndpoint:     cartEndpoint,
		WishlistEndpoint: wishlistEndpoint,
	})
	decorator := spotlight.NewDecorator(labelService, fetcher, builder, publisher, logger)
	actions := spotlight.NewActions(cart, fetcher, wishlist, labelService, wishlistEndpoint, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Decorator:     decorator,
		Actions:       actions,
		Blocks:        blockRepo,
		Wishlist:      wishlistRepo,
		DefaultLocale: cfg.DefaultLocale,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
