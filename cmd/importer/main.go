package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"product-spotlight/internal/config"
	"product-spotlight/internal/db"
	"product-spotlight/internal/importer"
	blockrepo "product-spotlight/internal/repository/block"

	flag "github.com/spf13/pflag"
)

func main() {
	var (
		filePath string
		pageKey  string
	)
	flag.StringVarP(&filePath, "file", "f", "", "Path to a content-table CSV (page,block,key,value)")
	flag.StringVarP(&pageKey, "page", "p", "", "Page key for rows without a page column")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, blockrepo.NewPostgres(pool, nil), pageKey)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d blocks in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
