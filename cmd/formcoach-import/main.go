package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/formcoach/internal/config"
	"github.com/claude/formcoach/internal/importer"
	"github.com/claude/formcoach/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	legacyPath := flag.String("path", "", "path to legacy app SQLite database (required)")
	dryRun := flag.Bool("dry-run", false, "report counts without inserting into database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *legacyPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: formcoach-import -config config.yaml -path /path/to/legacy.db [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if _, err := os.Stat(*legacyPath); err != nil {
		log.Error("legacy database not found", "path", *legacyPath)
		os.Exit(1)
	}

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode — no data will be written to the database")
		imp := importer.New(nil, log, true)
		stats, err := imp.Import(ctx, *legacyPath)
		if err != nil {
			log.Error("import failed", "error", err)
			printStats(log, stats)
			os.Exit(1)
		}
		printStats(log, stats)
		log.Info("dry run complete")
		return
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()

	// Run migrations
	if err := storage.RunMigrations(dsn, cfg.Database.MigrationsPath); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	// Connect database
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	// Run import
	imp := importer.New(db, log, false)
	stats, err := imp.Import(ctx, *legacyPath)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"users_imported", stats.UsersImported,
		"profiles_imported", stats.ProfilesImported,
		"extended_profiles_imported", stats.ExtendedProfilesImported,
		"plans_imported", stats.PlansImported,
		"sessions_imported", stats.SessionsImported,
		"rows_skipped", stats.RowsSkipped,
		"rows_errored", stats.RowsErrored,
	)
}
