package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/meltforce/forgeplan/internal/upload"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "ForgePlan server URL")
	apiKey := flag.String("api-key", os.Getenv("FORGEPLAN_AUTH_API_KEY"), "ingest API key")
	templateDir := flag.String("path", "", "path to template directory with programs/ and workouts/ (required)")
	stateDir := flag.String("state-dir", defaultStateDir(), "directory for the local upload-state database")
	dryRun := flag.Bool("dry-run", false, "report what would be sent without uploading")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *templateDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: forgeplan-import -path /path/to/templates [-server URL] [-api-key KEY] [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *apiKey == "" && !*dryRun {
		log.Error("api key is required (flag -api-key or FORGEPLAN_AUTH_API_KEY)")
		os.Exit(1)
	}

	info, err := os.Stat(*templateDir)
	if err != nil || !info.IsDir() {
		log.Error("template path does not exist or is not a directory", "path", *templateDir)
		os.Exit(1)
	}

	state, err := upload.OpenStateDB(*stateDir)
	if err != nil {
		log.Error("failed to open state db", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	client := upload.NewClient(*serverURL, *apiKey)
	imp := upload.New(client, state, *templateDir, *dryRun, log)

	stats, err := imp.Run()
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *upload.Stats) {
	log.Info("import stats",
		"files", stats.FilesTotal,
		"programs_sent", stats.ProgramsSent,
		"workouts_sent", stats.WorkoutsSent,
		"skipped", stats.FilesSkipped,
		"rejected", stats.FilesRejected,
	)
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".forgeplan"
	}
	return home + "/.forgeplan"
}
