package main

import (
	"context"
	"log"
	"os"

	"product-spotlight/internal/config"
	"product-spotlight/internal/db"
	blockrepo "product-spotlight/internal/repository/block"
	labelrepo "product-spotlight/internal/repository/label"
	"product-spotlight/internal/seed"
)

func main() {
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	blocks := blockrepo.NewPostgres(pool, logger)
	if err := seed.Apply(ctx, blocks, labelrepo.NewPostgres(pool), cfg.DefaultLocale); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Println("seed applied")
}
