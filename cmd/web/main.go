package main

import (
	"embed"
	"io/fs"
	"log/slog"
	"os"

	"b3dash/internal/app"
)

// Embedded dashboard page
//go:embed all:static/*
var staticFiles embed.FS

func main() {
	var staticFS fs.FS
	if sub, err := fs.Sub(staticFiles, "static"); err == nil {
		staticFS = sub
	} else {
		slog.Warn("Static page embedding failed", slog.String("error", err.Error()))
		staticFS = nil
	}

	application, err := app.NewApplication(staticFS)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
