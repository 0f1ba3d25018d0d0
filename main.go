package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"pdfgrip/internal/annotations"
	"pdfgrip/internal/config"
	"pdfgrip/internal/eventbus"
	"pdfgrip/internal/scan"
	"pdfgrip/internal/ui"
)

func main() {
	var userID string
	var configPath string
	flag.StringVar(&userID, "user", "", "User ID for annotation storage (default: config value)")
	flag.StringVar(&configPath, "config", "", "Path to config file (default: user config dir)")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: pdfgrip [flags] <file.pdf>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	docPath, err := filepath.Abs(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving path: %v\n", err)
		os.Exit(1)
	}
	if _, err := os.Stat(docPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Set up logging
	logFile, err := os.OpenFile("pdfgrip.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create event bus
	bus := eventbus.New()

	// Load configuration
	configSvc := config.NewConfigService()
	cfg := loadConfig(configSvc, configPath)
	if userID != "" {
		cfg.UserID = userID
	}

	// Initialize services
	store := annotations.NewFileStore(cfg.DataDir)
	annSvc := annotations.NewService(bus, store, cfg.UserID)
	decoder := scan.NewQRDecoder(cfg.Scan.MaxImageEdge)
	scanner := scan.NewScanner(bus, decoder, scan.Options{
		PageTimeout:  cfg.Scan.PageTimeout(),
		RasterScale:  cfg.Scan.RasterScale,
		MaxImageEdge: cfg.Scan.MaxImageEdge,
	})

	// Create UI model
	uiModel := ui.NewModel(bus, cfg, docPath, annSvc, scanner)

	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithMouseCellMotion())
	uiModel.SetProgram(p)

	// Forward domain events to the UI
	forward := func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	}
	for _, et := range []eventbus.EventType{
		eventbus.EventAnnotationsLoaded,
		eventbus.EventAnnotationAdded,
		eventbus.EventAnnotationUpdated,
		eventbus.EventAnnotationRemoved,
		eventbus.EventScanStarted,
		eventbus.EventScanPageDone,
		eventbus.EventScanHit,
		eventbus.EventScanCompleted,
		eventbus.EventError,
	} {
		bus.Subscribe(et, forward)
	}

	// Quit when the shutdown context fires
	go func() {
		<-ctx.Done()
		p.Send(tea.QuitMsg{})
	}()

	log.Printf("Starting pdfgrip for %s", docPath)
	if os.Getenv("PDFGRIP_E2E_TEST") == "1" {
		fmt.Println("__READY__")
	}
	if _, err := p.Run(); err != nil {
		log.Printf("Error running program: %v", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	log.Printf("pdfgrip exited normally")
}

// loadConfig loads the user config, falling back to defaults on any error
func loadConfig(svc config.ConfigService, path string) *config.Config {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = svc.LoadFromPath(path)
	} else {
		cfg, err = svc.Load()
	}
	if err != nil {
		log.Printf("Using default config: %v", err)
		return config.DefaultConfig()
	}
	return cfg
}
