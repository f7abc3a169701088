package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// CardRecord is the slice of a metadata-source card record this component
// reads. Every price field is independently optional; nil means "unknown",
// never "zero".
type CardRecord struct {
	Name            string
	SetCode         string
	CollectorNumber string
	URL             string
	Prices          PriceBlock
}

// PriceBlock holds the optional per-currency, per-finish prices of a record.
type PriceBlock struct {
	USD     *decimal.Decimal
	USDFoil *decimal.Decimal
	EUR     *decimal.Decimal
	Tix     *decimal.Decimal
}

// Empty reports whether no price field is populated.
func (b PriceBlock) Empty() bool {
	return b.USD == nil && b.USDFoil == nil && b.EUR == nil && b.Tix == nil
}

// MetadataSource is the external card metadata / pricing collaborator,
// queried by the three lookup shapes the resolver falls back through.
type MetadataSource interface {
	// CardByID looks up a card by its opaque catalog identifier.
	CardByID(ctx context.Context, id string) (*CardRecord, error)

	// CardBySetNumber looks up a card by set code and collector number.
	CardBySetNumber(ctx context.Context, setCode, collectorNumber string) (*CardRecord, error)

	// CardByName looks up a card by exact name, optionally scoped by set code.
	CardByName(ctx context.Context, name, setCode string) (*CardRecord, error)
}

// MarketPrice is the resolved live price for a card identity.
type MarketPrice struct {
	USD        *decimal.Decimal
	USDFoil    *decimal.Decimal
	EUR        *decimal.Decimal
	Tix        *decimal.Decimal
	SourceURL  string
	ResolvedAt time.Time
}

// tixMultiplier is the fixed nominal USD conversion applied to the
// secondary-market ticket price when no USD price exists.
var tixMultiplier = decimal.NewFromInt(1)

// Select returns the USD-basis price for the given finish: the foil price
// when the card is foil and one exists, otherwise the non-foil USD price,
// otherwise the ticket price under a fixed nominal conversion. The second
// return is false when no applicable price is populated.
func (p *MarketPrice) Select(foil bool) (decimal.Decimal, bool) {
	if foil && p.USDFoil != nil {
		return *p.USDFoil, true
	}
	if p.USD != nil {
		return *p.USD, true
	}
	if p.Tix != nil {
		return p.Tix.Mul(tixMultiplier), true
	}
	return decimal.Decimal{}, false
}

// PriceMap maps identity keys to resolved market prices. An absent key means
// the identity could not be resolved or carried no populated price; that is
// an expected gap, not an error.
type PriceMap map[Identity]*MarketPrice

// Price returns the resolved price for an identity, if any.
func (m PriceMap) Price(id Identity) (*MarketPrice, bool) {
	p, ok := m[id]
	return p, ok
}

// Options configures a Resolver.
type Options struct {
	// MaxConcurrent bounds the number of in-flight external lookups per
	// batch. Default: 8.
	MaxConcurrent int

	// LookupTimeout is the per-lookup timeout. A lookup that exceeds it
	// resolves to a gap. Default: 10s.
	LookupTimeout time.Duration
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		MaxConcurrent: 8,
		LookupTimeout: 10 * time.Second,
	}
}

// Resolver resolves current market prices for batches of card identities
// against a MetadataSource. Individual lookup failures never abort a batch.
type Resolver struct {
	source        MetadataSource
	maxConcurrent int
	timeout       time.Duration
	logger        *slog.Logger
}

// NewResolver creates a Resolver over the given metadata source.
func NewResolver(source MetadataSource, opts Options, logger *slog.Logger) *Resolver {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultOptions().MaxConcurrent
	}
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = DefaultOptions().LookupTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		source:        source,
		maxConcurrent: opts.MaxConcurrent,
		timeout:       opts.LookupTimeout,
		logger:        logger,
	}
}

// ResolveBatch resolves market prices for the given lookups. Lookups that
// normalize to the same identity key are deduplicated to exactly one
// external call. All deduplicated lookups run concurrently, bounded by
// MaxConcurrent, each under its own timeout, and the batch waits for every
// lookup to settle. Failures of any kind produce a gap for that identity;
// the returned map is always valid.
func (r *Resolver) ResolveBatch(ctx context.Context, lookups []Lookup) PriceMap {
	deduped := make(map[Identity]Lookup, len(lookups))
	for _, l := range lookups {
		if _, ok := deduped[l.Identity]; !ok {
			deduped[l.Identity] = l
		}
	}

	results := make(PriceMap, len(deduped))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrent)

	for _, l := range deduped {
		l := l
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()

			price := r.resolveOne(callCtx, l)
			if price == nil {
				return nil
			}

			mu.Lock()
			results[l.Identity] = price
			mu.Unlock()
			return nil
		})
	}

	// Goroutines absorb their own failures, so Wait only synchronizes.
	_ = g.Wait()

	return results
}

// resolveOne attempts resolution in fallback order: catalog identifier, then
// set plus collector number, then name (scoped by set when known). The first
// successful response wins. Returns nil when every strategy fails or the
// resolved record carries no populated price.
func (r *Resolver) resolveOne(ctx context.Context, l Lookup) *MarketPrice {
	record, err := r.fetch(ctx, l)
	if err != nil {
		r.logger.Debug("price resolution failed", "card", l.Identity.Name, "error", err)
		return nil
	}
	if record.Prices.Empty() {
		return nil
	}

	return &MarketPrice{
		USD:        record.Prices.USD,
		USDFoil:    record.Prices.USDFoil,
		EUR:        record.Prices.EUR,
		Tix:        record.Prices.Tix,
		SourceURL:  record.URL,
		ResolvedAt: time.Now(),
	}
}

func (r *Resolver) fetch(ctx context.Context, l Lookup) (*CardRecord, error) {
	var lastErr error

	if l.CatalogID != "" {
		record, err := r.source.CardByID(ctx, l.CatalogID)
		if err == nil {
			return record, nil
		}
		lastErr = err
	}

	if l.Identity.SetCode != "" && l.Identity.CollectorNumber != "" {
		record, err := r.source.CardBySetNumber(ctx, l.Identity.SetCode, l.Identity.CollectorNumber)
		if err == nil {
			return record, nil
		}
		lastErr = err
	}

	if l.Identity.Name != "" {
		record, err := r.source.CardByName(ctx, l.Identity.Name, l.Identity.SetCode)
		if err == nil {
			return record, nil
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("lookup has no usable identifier")
	}
	return nil, lastErr
}
