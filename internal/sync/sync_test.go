package sync

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// TestStateDBRoundTrip verifies sync state is persisted and matched on
// path+size+hash.
func TestStateDBRoundTrip(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStateDB: %v", err)
	}
	defer state.Close()

	synced, err := state.IsSynced("a.json", 10, "abc")
	if err != nil {
		t.Fatalf("IsSynced: %v", err)
	}
	if synced {
		t.Error("fresh state reports file as synced")
	}

	if err := state.MarkSynced("a.json", 10, "abc"); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}

	synced, err = state.IsSynced("a.json", 10, "abc")
	if err != nil {
		t.Fatalf("IsSynced: %v", err)
	}
	if !synced {
		t.Error("marked file not reported as synced")
	}

	// A changed hash means the file must be re-sent.
	synced, err = state.IsSynced("a.json", 10, "other")
	if err != nil {
		t.Fatalf("IsSynced: %v", err)
	}
	if synced {
		t.Error("file with different hash reported as synced")
	}
}

// TestSyncerRun runs a full sync pass against a stub server and verifies
// new files are sent once, already-synced files are skipped, and invalid
// files are counted as errors.
func TestSyncerRun(t *testing.T) {
	watchDir := t.TempDir()
	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(watchDir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("s1.json", `{"workoutDay":"monday","postureScore":80}`)
	write("s2.eval.json", `{"postureScore":75,"evaluation":true}`)
	write("broken.json", `{not json`)

	var sessionPosts, evalPosts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/api/v1/sessions":
			sessionPosts++
		case "/api/v1/sessions/evaluation":
			evalPosts++
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStateDB: %v", err)
	}
	defer state.Close()

	syncer := New(NewClient(srv.URL, "secret"), state, watchDir, false, slog.Default())
	stats, err := syncer.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if stats.FilesTotal != 3 {
		t.Errorf("FilesTotal = %d, want 3", stats.FilesTotal)
	}
	if stats.FilesSynced != 2 {
		t.Errorf("FilesSynced = %d, want 2", stats.FilesSynced)
	}
	if stats.FilesErrored != 1 {
		t.Errorf("FilesErrored = %d, want 1", stats.FilesErrored)
	}
	if sessionPosts != 1 || evalPosts != 1 {
		t.Errorf("posts = %d sessions, %d evals, want 1 and 1", sessionPosts, evalPosts)
	}

	// Second pass: everything valid is already synced.
	syncer2 := New(NewClient(srv.URL, "secret"), state, watchDir, false, slog.Default())
	stats, err = syncer2.Run()
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if stats.FilesSkipped != 2 {
		t.Errorf("FilesSkipped = %d, want 2", stats.FilesSkipped)
	}
	if sessionPosts != 1 || evalPosts != 1 {
		t.Errorf("re-sent already-synced files: %d sessions, %d evals", sessionPosts, evalPosts)
	}
}
