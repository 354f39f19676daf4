// Package main provides a CLI tool for seeding the store with reference data.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"talentboard/internal/bootstrap"
	"talentboard/internal/config"
	"talentboard/pkg/logger"
)

func main() {
	configDir := flag.String("config", "", "directory containing config.yaml")
	demo := flag.Bool("demo", os.Getenv("SEED_DEMO_DATA") == "true", "also create demo applicants")
	flag.Parse()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}

	ctx := logger.WithLogger(context.Background(), log)

	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Fatalw("failed to initialize application", "error", err)
	}
	defer app.Close()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@talentboard.local"
	}

	report, err := bootstrap.Seed(ctx, app, bootstrap.SeedOptions{
		AdminEmail: adminEmail,
		AdminName:  "System Admin",
		Demo:       *demo,
	})
	if err != nil {
		log.Fatalw("seeding failed", "error", err)
	}

	log.Infow("seeding completed successfully", "created", map[string]int(report))
}
