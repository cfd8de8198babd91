package upload

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Stats tracks import progress.
type Stats struct {
	FilesTotal    int
	ProgramsSent  int
	WorkoutsSent  int
	FilesSkipped  int
	FilesRejected int
}

// Importer walks a template directory and POSTs each JSON document to the
// ForgePlan server. Documents under programs/ are program templates, documents
// under workouts/ are standalone workout templates. Files that were already
// sent (same path, size, and hash) are skipped via the local state DB.
type Importer struct {
	client  *Client
	state   *StateDB
	rootDir string
	dryRun  bool
	log     *slog.Logger
	stats   Stats
}

// New creates a new Importer.
func New(client *Client, state *StateDB, rootDir string, dryRun bool, log *slog.Logger) *Importer {
	return &Importer{
		client:  client,
		state:   state,
		rootDir: rootDir,
		dryRun:  dryRun,
		log:     log,
	}
}

// Run walks programs/ then workouts/ and sends every new document.
func (im *Importer) Run() (*Stats, error) {
	if err := im.walk("programs", im.client.SendProgram); err != nil {
		return &im.stats, err
	}
	if err := im.walk("workouts", im.client.SendWorkout); err != nil {
		return &im.stats, err
	}
	return &im.stats, nil
}

func (im *Importer) walk(subdir string, send func(json.RawMessage) error) error {
	dir := filepath.Join(im.rootDir, subdir)
	if _, err := os.Stat(dir); err != nil {
		// Missing subdirectory is fine; the other kind may still be present.
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		im.stats.FilesTotal++

		path := filepath.Join(dir, entry.Name())
		relPath := filepath.Join(subdir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		hash, err := HashFile(path)
		if err != nil {
			return fmt.Errorf("hashing %s: %w", path, err)
		}

		sent, err := im.state.IsUploaded(relPath, info.Size(), hash)
		if err != nil {
			return fmt.Errorf("checking state for %s: %w", relPath, err)
		}
		if sent {
			im.stats.FilesSkipped++
			continue
		}

		doc, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		if im.dryRun {
			im.log.Info("would send", "file", relPath)
			continue
		}

		if err := send(doc); err != nil {
			im.stats.FilesRejected++
			im.log.Warn("document rejected", "file", relPath, "error", err)
			continue
		}

		if err := im.state.MarkUploaded(relPath, info.Size(), hash); err != nil {
			return fmt.Errorf("recording state for %s: %w", relPath, err)
		}
		if subdir == "programs" {
			im.stats.ProgramsSent++
		} else {
			im.stats.WorkoutsSent++
		}
		im.log.Info("sent", "file", relPath)
	}
	return nil
}
