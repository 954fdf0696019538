package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/meltforce/gymtrack/internal/config"
	"github.com/meltforce/gymtrack/internal/export"
	"github.com/meltforce/gymtrack/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	format := flag.String("format", "json", "export format: json (full backup) or csv (flattened set log)")
	out := flag.String("out", "", "output file (required)")
	exerciseID := flag.String("exercise", "", "csv only: filter by exercise id")
	from := flag.String("from", "", "csv only: inclusive ISO-8601 lower bound on session date")
	to := flag.String("to", "", "csv only: inclusive ISO-8601 upper bound on session date")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *out == "" {
		fmt.Fprintf(os.Stderr, "Usage: gymtrack-export -config config.yaml -format json|csv -out backup.json\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *format != "json" && *format != "csv" {
		log.Error("unknown format", "format", *format)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg.Database.Path, log)
	if err != nil {
		log.Error("failed to open store", "path", cfg.Database.Path, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	f, err := os.Create(*out)
	if err != nil {
		log.Error("failed to create output file", "path", *out, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	switch *format {
	case "json":
		snap, err := store.DumpAll(ctx)
		if err != nil {
			log.Error("dump failed", "error", err)
			os.Exit(1)
		}
		if err := export.WriteJSON(f, snap); err != nil {
			log.Error("export failed", "error", err)
			os.Exit(1)
		}
		log.Info("backup written", "path", *out,
			"exercises", len(snap.Exercises),
			"templates", len(snap.Templates),
			"sessions", len(snap.Sessions),
			"sets", len(snap.Sets),
			"settings", len(snap.Settings),
		)
	case "csv":
		filter := export.Filter{ExerciseID: *exerciseID, From: *from, To: *to}
		if err := export.WriteCSV(ctx, store, f, filter); err != nil {
			log.Error("export failed", "error", err)
			os.Exit(1)
		}
		log.Info("csv written", "path", *out)
	}
}
