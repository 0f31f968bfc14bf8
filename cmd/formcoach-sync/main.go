package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/claude/formcoach/internal/sync"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "FormCoach server URL (e.g. https://formcoach.tail1234.ts.net)")
	apiKey := flag.String("api-key", "", "API key for write endpoints")
	watchDir := flag.String("path", "", "directory of offline-recorded session JSON files")
	dryRun := flag.Bool("dry-run", false, "validate files but don't send to server")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("formcoach-sync", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *watchDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: formcoach-sync -server <URL> -api-key <key> -path <session dir> [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if (*serverURL == "" || *apiKey == "") && !*dryRun {
		fmt.Fprintf(os.Stderr, "Error: -server and -api-key are required (or use -dry-run)\n")
		os.Exit(1)
	}

	*serverURL = strings.TrimRight(*serverURL, "/")

	info, err := os.Stat(*watchDir)
	if err != nil || !info.IsDir() {
		log.Error("session directory not found", "path", *watchDir)
		os.Exit(1)
	}

	// Open state database
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	stateDir := filepath.Join(homeDir, ".formcoach-sync")

	state, err := sync.OpenStateDB(stateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	// Client is nil-safe in dry-run mode
	var client *sync.Client
	if !*dryRun {
		client = sync.NewClient(*serverURL, *apiKey)
	}

	if *dryRun {
		log.Info("DRY RUN mode — files will be validated but not sent")
	}

	syncer := sync.New(client, state, *watchDir, *dryRun, log)
	stats, err := syncer.Run()
	if err != nil {
		log.Error("sync failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("sync complete")
}

func printStats(log *slog.Logger, stats *sync.Stats) {
	log.Info("sync stats",
		"files_total", stats.FilesTotal,
		"files_synced", stats.FilesSynced,
		"files_skipped", stats.FilesSkipped,
		"files_errored", stats.FilesErrored,
	)
}
