// Command forgeplan-mcp exposes the ForgePlan scheduler as an MCP server
// over stdio. It can run against a remote ForgePlan server's REST API
// (default) or directly against the database with -db.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/forgeplan/internal/mcp"
	"github.com/meltforce/forgeplan/internal/schedule"
	"github.com/meltforce/forgeplan/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", os.Getenv("FORGEPLAN_SERVER"), "ForgePlan server base URL (e.g. http://forgeplan:8080)")
	dsn := flag.String("db", "", "Postgres DSN for direct database mode (bypasses the REST API)")
	flag.Parse()

	// stdout carries the MCP protocol, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var ds mcp.DataSource
	switch {
	case *dsn != "":
		db, err := storage.New(context.Background(), *dsn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "connect database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = mcp.NewLocal(schedule.New(db, log), db)
	case *serverURL != "":
		ds = mcp.NewHTTPClient(*serverURL)
	default:
		fmt.Fprintln(os.Stderr, "either -server or -db is required")
		os.Exit(1)
	}

	s := mcp.New(ds, Version, log)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "mcp server: %v\n", err)
		os.Exit(1)
	}
}
