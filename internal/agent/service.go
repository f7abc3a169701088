package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/nwchinn/mtg-agent/internal/collection"
	"github.com/nwchinn/mtg-agent/internal/deck"
	"github.com/nwchinn/mtg-agent/internal/decklist"
	"github.com/nwchinn/mtg-agent/internal/pricing"
	"github.com/nwchinn/mtg-agent/internal/scryfall"
)

// SnapshotProvider yields the current collection snapshot. The watcher
// satisfies this; tests supply fixed snapshots.
type SnapshotProvider interface {
	Snapshot() *collection.Collection
}

// CardCatalog is the card metadata source: batch lookups to enrich deck
// lists and full-text search for cards not in the collection.
// *scryfall.Client satisfies it.
type CardCatalog interface {
	GetCardsByNames(ctx context.Context, names []string) ([]scryfall.Card, []string, error)
	SearchCards(ctx context.Context, query string) (*scryfall.SearchResult, error)
}

// CollectionService answers collection queries: summaries, card search,
// valuation, and deck ownership checks. All reads work against the snapshot
// current at call time.
type CollectionService struct {
	snapshots SnapshotProvider
	catalog   CardCatalog
	resolver  *pricing.Resolver
	logger    *slog.Logger
}

// NewCollectionService wires the collection service.
func NewCollectionService(snapshots SnapshotProvider, catalog CardCatalog, resolver *pricing.Resolver, logger *slog.Logger) *CollectionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CollectionService{
		snapshots: snapshots,
		catalog:   catalog,
		resolver:  resolver,
		logger:    logger,
	}
}

// CatalogHit is one catalog search result annotated with owned quantity.
type CatalogHit struct {
	Card          scryfall.Card `json:"card"`
	QuantityOwned int           `json:"quantity_owned"`
}

// Summary summarizes the current snapshot with its topN most valuable cards
// by purchase price.
func (s *CollectionService) Summary(topN int) collection.Summary {
	return s.snapshots.Snapshot().Summarize(topN)
}

// SearchByName returns all owned printings matching the name,
// case-insensitively.
func (s *CollectionService) SearchByName(name string) []collection.CardEntry {
	return s.snapshots.Snapshot().FindByName(name)
}

// SearchCatalog runs a full-text card search against the catalog, for
// queries about cards whether or not they are owned. The returned cards are
// annotated with how many copies the collection holds.
func (s *CollectionService) SearchCatalog(ctx context.Context, query string) ([]CatalogHit, error) {
	result, err := s.catalog.SearchCards(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("searching catalog: %w", err)
	}

	col := s.snapshots.Snapshot()
	hits := make([]CatalogHit, 0, len(result.Data))
	for i := range result.Data {
		hits = append(hits, CatalogHit{
			Card:          result.Data[i],
			QuantityOwned: col.QuantityOwned(result.Data[i].Name),
		})
	}
	return hits, nil
}

// UniqueNames lists the distinct card names owned, sorted.
func (s *CollectionService) UniqueNames() []string {
	return s.snapshots.Snapshot().UniqueNames()
}

// PurchaseValue totals what was paid for the collection, per currency.
func (s *CollectionService) PurchaseValue() collection.PurchaseTotal {
	return s.snapshots.Snapshot().TotalValue()
}

// MarketValue totals the collection's current market value per currency.
// Cards whose prices cannot be resolved contribute nothing.
func (s *CollectionService) MarketValue(ctx context.Context) pricing.MarketTotal {
	return s.resolver.CollectionMarketValue(ctx, s.snapshots.Snapshot().Entries())
}

// MostValuable returns the top owned cards by resolved market price.
func (s *CollectionService) MostValuable(ctx context.Context, limit int) []pricing.ValuedCard {
	return s.resolver.MostValuable(ctx, s.snapshots.Snapshot().Entries(), limit)
}

// DeckOwnership reconciles a card-name to quantity mapping against the
// collection. Results are ordered by card name.
func (s *CollectionService) DeckOwnership(cards map[string]int) ([]deck.OwnershipResult, float64) {
	requested := make([]deck.RequestedCard, 0, len(cards))
	for name, qty := range cards {
		requested = append(requested, deck.RequestedCard{Name: name, Quantity: qty})
	}
	sort.Slice(requested, func(i, j int) bool { return requested[i].Name < requested[j].Name })

	return deck.Reconcile(requested, s.snapshots.Snapshot())
}

// CheckDeckText parses a pasted deck list, enriches it with catalog
// metadata and live prices, and reports ownership against the collection.
// A list with a single commander entry is treated as a commander deck and
// validated as one.
func (s *CollectionService) CheckDeckText(ctx context.Context, name, text string) (*deck.Report, error) {
	parsed, err := decklist.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing deck list: %w", err)
	}
	for _, w := range parsed.Warnings {
		s.logger.Warn("deck list line skipped", "detail", w)
	}

	meta, err := s.fetchMetadata(ctx, parsed)
	if err != nil {
		return nil, err
	}
	prices := s.resolvePrices(ctx, meta)

	toInputs := func(entries []decklist.Entry) []deck.CardInput {
		inputs := make([]deck.CardInput, 0, len(entries))
		for _, e := range entries {
			inputs = append(inputs, deck.CardInput{
				Name:     e.Name,
				Quantity: e.Quantity,
				Meta:     meta[strings.ToLower(e.Name)],
			})
		}
		return inputs
	}

	col := s.snapshots.Snapshot()
	if len(parsed.Commander) == 1 {
		d := deck.BuildCommanderDeck(name,
			toInputs(parsed.Commander)[0],
			append(toInputs(parsed.Mainboard), toInputs(parsed.Sideboard)...),
			prices, col)
		return deck.BuildReport(d)
	}

	mainboard := append(toInputs(parsed.Commander), toInputs(parsed.Mainboard)...)
	d := deck.BuildStandardDeck(name, mainboard, toInputs(parsed.Sideboard), prices, col)
	return deck.BuildStandardReport(d)
}

// fetchMetadata batch-fetches catalog cards for every distinct name in the
// list. Names the catalog does not know stay absent; the deck still builds.
func (s *CollectionService) fetchMetadata(ctx context.Context, parsed *decklist.Decklist) (map[string]*scryfall.Card, error) {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, section := range [][]decklist.Entry{parsed.Commander, parsed.Mainboard, parsed.Sideboard} {
		for _, e := range section {
			key := strings.ToLower(e.Name)
			if !seen[key] {
				seen[key] = true
				names = append(names, e.Name)
			}
		}
	}

	cards, notFound, err := s.catalog.GetCardsByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("fetching card metadata: %w", err)
	}
	if len(notFound) > 0 {
		s.logger.Warn("cards not found in catalog", "count", len(notFound), "names", notFound)
	}

	meta := make(map[string]*scryfall.Card, len(cards))
	for i := range cards {
		meta[strings.ToLower(cards[i].Name)] = &cards[i]
	}
	return meta, nil
}

func (s *CollectionService) resolvePrices(ctx context.Context, meta map[string]*scryfall.Card) pricing.PriceMap {
	lookups := make([]pricing.Lookup, 0, len(meta))
	for _, card := range meta {
		lookups = append(lookups, pricing.Lookup{
			Identity:  pricing.NewIdentity(card.Name, card.SetCode, card.CollectorNumber, false),
			CatalogID: card.ID,
		})
	}
	return s.resolver.ResolveBatch(ctx, lookups)
}

// Context renders the snapshot summary as prompt context for the router and
// specialists.
func (s *CollectionService) Context(topN int) string {
	summary := s.Summary(topN)

	var b strings.Builder
	fmt.Fprintf(&b, "COLLECTION CONTEXT:\n")
	fmt.Fprintf(&b, "- Total cards: %d\n", summary.TotalCards)
	fmt.Fprintf(&b, "- Unique cards: %d\n", summary.UniqueCards)

	currencies := make([]string, 0, len(summary.TotalValue))
	for currency := range summary.TotalValue {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)
	parts := make([]string, 0, len(currencies))
	for _, currency := range currencies {
		parts = append(parts, summary.TotalValue[currency].StringFixed(2)+" "+currency)
	}
	fmt.Fprintf(&b, "- Total value: %s\n", strings.Join(parts, ", "))

	if len(summary.TopValuableCards) > 0 {
		fmt.Fprintf(&b, "Top valuable cards:\n")
		for _, card := range summary.TopValuableCards {
			fmt.Fprintf(&b, "- %s (%s) %s %s\n", card.Name, card.SetName, card.PurchasePrice.StringFixed(2), card.Currency)
		}
	}
	return b.String()
}
