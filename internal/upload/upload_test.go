package upload

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// templateDir writes a template tree with one program and two workouts.
func templateDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for rel, doc := range map[string]string{
		"programs/base-block.json": `{"name":"Base Block","slug":"base-block"}`,
		"workouts/day-a.json":      `{"name":"Day A","archetype":"PR1ME"}`,
		"workouts/day-b.json":      `{"name":"Day B","archetype":"FORGE"}`,
		"workouts/notes.txt":       "not a template",
	} {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func testState(t *testing.T) *StateDB {
	t.Helper()
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("open state db: %v", err)
	}
	t.Cleanup(func() { state.Close() })
	return state
}

// TestImporterRun verifies the walk: JSON documents are sent to the right
// endpoints, non-JSON files are ignored, and a second run skips everything.
func TestImporterRun(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-Key"); got != "secret" {
			t.Errorf("X-API-Key = %q, want %q", got, "secret")
		}
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	root := templateDir(t)
	state := testState(t)
	im := New(NewClient(srv.URL, "secret"), state, root, false, testLogger())

	stats, err := im.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.FilesTotal != 3 {
		t.Errorf("files total = %d, want 3 (txt ignored)", stats.FilesTotal)
	}
	if stats.ProgramsSent != 1 || stats.WorkoutsSent != 2 {
		t.Errorf("sent = %d programs / %d workouts, want 1 / 2", stats.ProgramsSent, stats.WorkoutsSent)
	}

	wantPrograms, wantWorkouts := 0, 0
	for _, p := range paths {
		switch p {
		case "/api/v1/templates/programs":
			wantPrograms++
		case "/api/v1/templates/workouts":
			wantWorkouts++
		default:
			t.Errorf("unexpected POST path %q", p)
		}
	}
	if wantPrograms != 1 || wantWorkouts != 2 {
		t.Errorf("POSTs = %d programs / %d workouts, want 1 / 2", wantPrograms, wantWorkouts)
	}

	// Second run over the same tree skips all files.
	im2 := New(NewClient(srv.URL, "secret"), state, root, false, testLogger())
	stats, err = im2.Run()
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if stats.FilesSkipped != 3 || stats.ProgramsSent != 0 || stats.WorkoutsSent != 0 {
		t.Errorf("second run stats = %+v, want 3 skipped, nothing sent", stats)
	}
}

// TestImporterRejectedDocument verifies a 400 from the server counts the file
// as rejected without recording it as sent.
func TestImporterRejectedDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"structural validation failed"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	root := templateDir(t)
	state := testState(t)
	im := New(NewClient(srv.URL, "secret"), state, root, false, testLogger())

	stats, err := im.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.FilesRejected != 3 {
		t.Errorf("rejected = %d, want 3", stats.FilesRejected)
	}

	// Rejected files are retried on the next run, not skipped.
	im2 := New(NewClient(srv.URL, "secret"), state, root, false, testLogger())
	stats, _ = im2.Run()
	if stats.FilesSkipped != 0 {
		t.Errorf("skipped = %d, want 0 after rejection", stats.FilesSkipped)
	}
}

// TestImporterDryRun verifies nothing reaches the server or the state DB.
func TestImporterDryRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server hit during dry run")
	}))
	defer srv.Close()

	root := templateDir(t)
	state := testState(t)
	im := New(NewClient(srv.URL, "secret"), state, root, true, testLogger())

	stats, err := im.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.FilesTotal != 3 || stats.ProgramsSent != 0 || stats.WorkoutsSent != 0 {
		t.Errorf("dry run stats = %+v, want 3 seen, nothing sent", stats)
	}
}

func TestStateDBRoundTrip(t *testing.T) {
	state := testState(t)

	sent, err := state.IsUploaded("programs/x.json", 10, "abc")
	if err != nil {
		t.Fatalf("IsUploaded: %v", err)
	}
	if sent {
		t.Error("fresh state reports file as uploaded")
	}

	if err := state.MarkUploaded("programs/x.json", 10, "abc"); err != nil {
		t.Fatalf("MarkUploaded: %v", err)
	}
	sent, err = state.IsUploaded("programs/x.json", 10, "abc")
	if err != nil {
		t.Fatalf("IsUploaded: %v", err)
	}
	if !sent {
		t.Error("uploaded file not found in state")
	}

	// A changed hash means the file must be re-sent.
	sent, _ = state.IsUploaded("programs/x.json", 10, "different")
	if sent {
		t.Error("changed file still reported as uploaded")
	}
}
