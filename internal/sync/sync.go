package sync

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// Stats tracks sync progress.
type Stats struct {
	FilesTotal   int
	FilesSynced  int
	FilesSkipped int
	FilesErrored int
}

// Syncer walks a watch directory of offline-recorded session JSON files and
// POSTs each new one to the FormCoach server.
type Syncer struct {
	client *Client
	state  *StateDB
	dir    string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Syncer.
func New(client *Client, state *StateDB, watchDir string, dryRun bool, log *slog.Logger) *Syncer {
	return &Syncer{client: client, state: state, dir: watchDir, dryRun: dryRun, log: log}
}

// Run uploads every unsynced *.json file in the watch directory. Files whose
// name ends in ".eval.json" are sent as evaluation sessions.
func (s *Syncer) Run() (*Stats, error) {
	files, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return &s.stats, fmt.Errorf("listing %s: %w", s.dir, err)
	}
	sort.Strings(files)

	for _, f := range files {
		s.stats.FilesTotal++

		relPath, _ := filepath.Rel(s.dir, f)
		info, err := os.Stat(f)
		if err != nil {
			s.log.Warn("stat failed", "file", f, "error", err)
			s.stats.FilesErrored++
			continue
		}

		hash, err := FileSHA256(f)
		if err != nil {
			s.log.Warn("hash failed", "file", f, "error", err)
			s.stats.FilesErrored++
			continue
		}

		synced, err := s.state.IsSynced(relPath, info.Size(), hash)
		if err != nil {
			return &s.stats, fmt.Errorf("checking state for %s: %w", relPath, err)
		}
		if synced {
			s.stats.FilesSkipped++
			continue
		}

		data, err := os.ReadFile(f)
		if err != nil {
			s.log.Warn("read failed", "file", f, "error", err)
			s.stats.FilesErrored++
			continue
		}
		if !json.Valid(data) {
			s.log.Warn("not valid JSON", "file", f)
			s.stats.FilesErrored++
			continue
		}

		if s.dryRun {
			s.log.Info("would sync", "file", relPath, "bytes", len(data))
			s.stats.FilesSynced++
			continue
		}

		evaluation := filepath.Ext(relPath[:len(relPath)-len(".json")]) == ".eval"
		if err := s.client.SendSession(data, evaluation); err != nil {
			s.log.Warn("upload failed", "file", relPath, "error", err)
			s.stats.FilesErrored++
			continue
		}

		if err := s.state.MarkSynced(relPath, info.Size(), hash); err != nil {
			return &s.stats, fmt.Errorf("marking %s synced: %w", relPath, err)
		}
		s.stats.FilesSynced++
		s.log.Info("synced", "file", relPath, "evaluation", evaluation)
	}

	return &s.stats, nil
}
