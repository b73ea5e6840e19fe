package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"viajeia/cmd"
	"viajeia/internal/db"
	"viajeia/internal/favorites"
	"viajeia/internal/infopanel"
	"viajeia/internal/itinerary"
	"viajeia/internal/logger"
	"viajeia/internal/photos"
	"viajeia/internal/planner"
	"viajeia/internal/ui"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	// Parse CLI flags
	config, err := cmd.ParseFlags(version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if config.ShowVersion {
		return
	}

	log, err := logger.New(config.LogLevel, config.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting viajeia",
		zap.String("version", version),
		zap.String("api_url", config.APIURL),
		zap.String("db", config.DBPath),
		zap.String("export_dir", config.ExportDir),
	)

	// Detect terminal capabilities
	termCaps := ui.DetectTerminalCapabilities()
	if !config.PhotoPreviews {
		termCaps.Images = false
	}

	// Open database
	database, err := db.Open(config.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	store := favorites.NewStore(db.NewSlot(database, favorites.SlotName), log)
	if err := store.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load favorites: %v\n", err)
		os.Exit(1)
	}

	fetcher := photos.NewFetcher(log)

	app := ui.New(ui.Deps{
		Favorites: store,
		Planner:   planner.NewClient(config.APIURL, log),
		Panel:     infopanel.NewClient(config.APIURL, log),
		Photos:    fetcher,
		Itinerary: itinerary.NewRenderer(fetcher, log),
		ExportDir: config.ExportDir,
		ConfigDir: config.ConfigDir,
		Log:       log,
		Caps:      termCaps,
	})

	// Create and run Bubble Tea app
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error("app exited with error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}
