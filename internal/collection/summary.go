package collection

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ValuableCard is one entry in the top-valuable list of a Summary, ranked by
// purchase price.
type ValuableCard struct {
	Name            string          `json:"name"`
	SetName         string          `json:"set"`
	SetCode         string          `json:"set_code"`
	CollectorNumber string          `json:"collector_number"`
	Foil            bool            `json:"foil"`
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
	Currency        string          `json:"currency"`
	ScryfallID      string          `json:"scryfall_id"`
}

// Summary is an aggregate view of a collection, suitable as context for a
// conversational assistant.
type Summary struct {
	TotalCards       int            `json:"total_cards"`
	UniqueCards      int            `json:"unique_cards"`
	TotalValue       PurchaseTotal  `json:"total_value"`
	RarityBreakdown  map[Rarity]int `json:"rarity_breakdown"`
	TopValuableCards []ValuableCard `json:"top_valuable_cards"`
}

// Summarize computes a Summary with the topN most valuable entries by
// purchase price.
func (c *Collection) Summarize(topN int) Summary {
	ranked := make([]*CardEntry, len(c.entries))
	for i := range c.entries {
		ranked[i] = &c.entries[i]
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PurchasePrice.GreaterThan(ranked[j].PurchasePrice)
	})

	if topN > len(ranked) {
		topN = len(ranked)
	}
	top := make([]ValuableCard, 0, topN)
	for _, e := range ranked[:topN] {
		top = append(top, ValuableCard{
			Name:            e.Name,
			SetName:         e.SetName,
			SetCode:         e.SetCode,
			CollectorNumber: e.CollectorNumber,
			Foil:            e.Foil,
			PurchasePrice:   e.PurchasePrice,
			Currency:        e.PurchaseCurrency,
			ScryfallID:      e.ScryfallID,
		})
	}

	return Summary{
		TotalCards:       c.TotalCards(),
		UniqueCards:      c.UniqueCards(),
		TotalValue:       c.TotalValue(),
		RarityBreakdown:  c.RarityBreakdown(),
		TopValuableCards: top,
	}
}
