package pricing

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/nwchinn/mtg-agent/internal/collection"
)

// MarketTotal maps a currency code to a live market value total. It is a
// deliberately distinct type from collection.PurchaseTotal: the two bases
// are reported side by side but never combined.
type MarketTotal map[string]decimal.Decimal

// LookupForEntry builds a price lookup for an owned card entry, carrying its
// opaque catalog identifier for a precise lookup.
func LookupForEntry(e collection.CardEntry) Lookup {
	return Lookup{
		Identity:  NewIdentity(e.Name, e.SetCode, e.CollectorNumber, e.Foil),
		CatalogID: e.ScryfallID,
	}
}

// CollectionMarketValue computes the live market value of the given entries
// per currency. USD uses the finish-aware selected price, EUR the European
// market price. Entries without a resolved price contribute nothing;
// currencies with a zero total are omitted.
func (r *Resolver) CollectionMarketValue(ctx context.Context, entries []collection.CardEntry) MarketTotal {
	lookups := make([]Lookup, 0, len(entries))
	for _, e := range entries {
		lookups = append(lookups, LookupForEntry(e))
	}
	prices := r.ResolveBatch(ctx, lookups)

	totals := MarketTotal{}
	usd := decimal.Zero
	eur := decimal.Zero

	for _, e := range entries {
		price, ok := prices.Price(NewIdentity(e.Name, e.SetCode, e.CollectorNumber, e.Foil))
		if !ok {
			continue
		}
		qty := decimal.NewFromInt(int64(e.Quantity))
		if selected, ok := price.Select(e.Foil); ok {
			usd = usd.Add(selected.Mul(qty))
		}
		if price.EUR != nil {
			eur = eur.Add(price.EUR.Mul(qty))
		}
	}

	if usd.IsPositive() {
		totals["USD"] = usd
	}
	if eur.IsPositive() {
		totals["EUR"] = eur
	}
	return totals
}

// ValuedCard pairs an owned card with both of its price bases: what was paid
// for it and what it currently trades for. The two are labeled independently
// and never summed.
type ValuedCard struct {
	Name             string          `json:"name"`
	SetName          string          `json:"set"`
	SetCode          string          `json:"set_code"`
	CollectorNumber  string          `json:"collector_number"`
	Foil             bool            `json:"foil"`
	PurchasePrice    decimal.Decimal `json:"purchase_price"`
	PurchaseCurrency string          `json:"purchase_currency"`
	MarketPrice      decimal.Decimal `json:"market_price"`
	MarketCurrency   string          `json:"market_price_currency"`
	SourceURL        string          `json:"price_url,omitempty"`
}

// MostValuable returns up to limit owned cards ranked by current market
// price, descending. Cards whose price cannot be resolved are skipped.
func (r *Resolver) MostValuable(ctx context.Context, entries []collection.CardEntry, limit int) []ValuedCard {
	lookups := make([]Lookup, 0, len(entries))
	for _, e := range entries {
		lookups = append(lookups, LookupForEntry(e))
	}
	prices := r.ResolveBatch(ctx, lookups)

	valued := make([]ValuedCard, 0, len(entries))
	for _, e := range entries {
		price, ok := prices.Price(NewIdentity(e.Name, e.SetCode, e.CollectorNumber, e.Foil))
		if !ok {
			continue
		}
		selected, ok := price.Select(e.Foil)
		if !ok {
			continue
		}
		valued = append(valued, ValuedCard{
			Name:             e.Name,
			SetName:          e.SetName,
			SetCode:          e.SetCode,
			CollectorNumber:  e.CollectorNumber,
			Foil:             e.Foil,
			PurchasePrice:    e.PurchasePrice,
			PurchaseCurrency: e.PurchaseCurrency,
			MarketPrice:      selected,
			MarketCurrency:   "USD",
			SourceURL:        price.SourceURL,
		})
	}

	sort.SliceStable(valued, func(i, j int) bool {
		return valued[i].MarketPrice.GreaterThan(valued[j].MarketPrice)
	})

	if limit > 0 && limit < len(valued) {
		valued = valued[:limit]
	}
	return valued
}
