// Command schematool manages the warehouse star schema. The default action
// drops and recreates all five tables, which is the supported way to make an
// ingestion run idempotent: reset, then re-run the etl binary.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"sparkify/internal/config"
	"sparkify/internal/storage"

	_ "sparkify/internal/storage/all"
)

func main() {
	var (
		cfgPath    string
		dropOnly   bool
		createOnly bool
	)

	flag.StringVar(&cfgPath, "config", "configs/sparkify.json", "pipeline config JSON path")
	flag.BoolVar(&dropOnly, "drop", false, "only drop the tables")
	flag.BoolVar(&createOnly, "create", false, "only create the tables")
	flag.Parse()

	if dropOnly && createOnly {
		fatalf("-drop and -create are mutually exclusive; omit both for a full reset")
	}

	f, err := os.Open(cfgPath)
	if err != nil {
		fatalf("open config: %v", err)
	}

	var p config.Pipeline
	err = json.NewDecoder(f).Decode(&p)
	f.Close()
	if err != nil {
		fatalf("decode config: %v", err)
	}

	ctx := context.Background()
	repo, err := storage.New(ctx, storage.Config{Kind: p.Storage.Kind, DSN: p.Storage.DB.DSN})
	if err != nil {
		fatalf("open storage: %v", err)
	}
	defer repo.Close()

	if !createOnly {
		if err := storage.DropSchema(ctx, p.Storage.Kind, repo); err != nil {
			fatalf("%v", err)
		}
		log.Printf("dropped warehouse tables (%s)", p.Storage.Kind)
	}
	if !dropOnly {
		if err := storage.EnsureSchema(ctx, p.Storage.Kind, repo); err != nil {
			fatalf("%v", err)
		}
		log.Printf("created warehouse tables (%s)", p.Storage.Kind)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
