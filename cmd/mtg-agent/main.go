package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nwchinn/mtg-agent/internal/agent"
	"github.com/nwchinn/mtg-agent/internal/collection"
	"github.com/nwchinn/mtg-agent/internal/config"
	"github.com/nwchinn/mtg-agent/internal/pricing"
	"github.com/nwchinn/mtg-agent/internal/scryfall"
)

var (
	// Application mode flags
	debugMode      = flag.Bool("debug-mode", false, "Enable verbose debug logging")
	debugModeShort = flag.Bool("d", false, "Enable debug logging (shorthand for -debug-mode)")

	// Collection configuration flags
	collectionPath = flag.String("collection", "", "Path to the ManaBox collection CSV export")
	watch          = flag.Bool("watch", false, "Keep running and reload the collection on file changes")

	// Query flags
	summaryTop = flag.Int("top", 5, "Number of top valuable cards in the summary")
	cardName   = flag.String("card", "", "Search the collection for a card by name")
	showValue  = flag.Bool("value", false, "Print the collection's purchase value per currency")
	showMarket = flag.Bool("market", false, "Print the collection's current market value per currency")
	deckFile   = flag.String("deck-file", "", "Check ownership for the deck list in this file")
	deckName   = flag.String("deck-name", "", "Deck name used in the ownership report")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *collectionPath != "" {
		cfg.Collection.FilePath = *collectionPath
	}
	if *debugMode || *debugModeShort {
		cfg.App.DebugMode = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.App.DebugMode)
	slog.SetDefault(logger)

	if cfg.Collection.FilePath == "" {
		fmt.Fprintln(os.Stderr, "No collection file configured. Use -collection or set collection.file_path in config.")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	watcher, err := collection.NewWatcher(cfg.Collection.FilePath, logger)
	if err != nil {
		return fmt.Errorf("loading collection: %w", err)
	}
	if interval, err := cfg.GetPollInterval(); err == nil {
		watcher.SetPollInterval(interval)
	}

	var client *scryfall.Client
	if cfg.Scryfall.BaseURL != "" {
		client = scryfall.NewClientWithBaseURL(cfg.Scryfall.BaseURL)
	} else {
		client = scryfall.NewClient()
	}

	opts := pricing.DefaultOptions()
	opts.MaxConcurrent = cfg.Pricing.MaxConcurrent
	if timeout, err := cfg.GetLookupTimeout(); err == nil {
		opts.LookupTimeout = timeout
	}
	resolver := pricing.NewResolver(pricing.NewScryfallSource(client), opts, logger)

	svc := agent.NewCollectionService(watcher, client, resolver, logger)

	switch {
	case *cardName != "":
		return printJSON(svc.SearchByName(*cardName))
	case *showValue:
		return printJSON(svc.PurchaseValue())
	case *showMarket:
		return printJSON(svc.MarketValue(ctx))
	case *deckFile != "":
		return checkDeck(ctx, svc)
	case *watch:
		logger.Info("watching collection", "path", cfg.Collection.FilePath)
		return watcher.Watch(ctx)
	default:
		return printJSON(svc.Summary(*summaryTop))
	}
}

func checkDeck(ctx context.Context, svc *agent.CollectionService) error {
	text, err := os.ReadFile(*deckFile)
	if err != nil {
		return fmt.Errorf("reading deck file: %w", err)
	}

	name := *deckName
	if name == "" {
		name = *deckFile
	}

	report, err := svc.CheckDeckText(ctx, name, string(text))
	if err != nil {
		return err
	}
	return printJSON(report)
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
