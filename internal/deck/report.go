package deck

import (
	"github.com/shopspring/decimal"
)

// ReportRow is one card row in a deck report.
type ReportRow struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Owned    bool   `json:"owned"`
	Price    string `json:"price"`
}

// ReportSection groups report rows by category.
type ReportSection struct {
	Category CardCategory `json:"category"`
	Rows     []ReportRow  `json:"rows"`
}

// Report is the presentation form of a reconciled deck. Sections follow the
// category declaration order and empty categories are omitted. Two-zone
// decks carry their secondary zone in Sideboard, grouped the same way;
// single-zone decks leave it empty.
type Report struct {
	Name                string          `json:"name"`
	Description         string          `json:"description,omitempty"`
	Sections            []ReportSection `json:"sections"`
	Sideboard           []ReportSection `json:"sideboard,omitempty"`
	TotalCards          int             `json:"total_cards"`
	OwnedCards          int             `json:"owned_cards"`
	OwnershipPercentage float64         `json:"ownership_percentage"`
	TotalPrice          string          `json:"total_price"`
	Source              string          `json:"source,omitempty"`
	SourceURL           string          `json:"source_url,omitempty"`
}

const missingPrice = "N/A"

// formatPrice renders a card price for display. Unknown prices render as
// N/A, never as zero.
func formatPrice(price *decimal.Decimal, currency string) string {
	if price == nil {
		return missingPrice
	}
	if currency == "" {
		currency = "USD"
	}
	return price.StringFixed(2) + " " + currency
}

func rowFromCard(c Card) ReportRow {
	return ReportRow{
		Name:     c.Name,
		Quantity: c.Quantity,
		Owned:    c.Owned,
		Price:    formatPrice(c.Price, c.PriceCurrency),
	}
}

func sectionize(cards []Card) []ReportSection {
	byCategory := make(map[CardCategory][]ReportRow)
	for i := range cards {
		cat := cards[i].Category
		byCategory[cat] = append(byCategory[cat], rowFromCard(cards[i]))
	}

	sections := make([]ReportSection, 0, len(byCategory))
	for _, cat := range Categories {
		rows, ok := byCategory[cat]
		if !ok {
			continue
		}
		sections = append(sections, ReportSection{Category: cat, Rows: rows})
	}
	return sections
}

// totalPrice sums known card prices weighted by quantity. Cards with no
// resolved price contribute nothing.
func totalPrice(cards []Card) (decimal.Decimal, string) {
	total := decimal.Zero
	currency := ""
	for i := range cards {
		if cards[i].Price == nil {
			continue
		}
		total = total.Add(cards[i].Price.Mul(decimal.NewFromInt(int64(cards[i].Quantity))))
		if currency == "" {
			currency = cards[i].PriceCurrency
		}
	}
	if currency == "" {
		currency = "USD"
	}
	return total, currency
}

func ownedCount(cards []Card) int {
	owned := 0
	for i := range cards {
		if cards[i].Owned {
			owned += cards[i].Quantity
		}
	}
	return owned
}

// BuildReport projects a commander deck into its report form. The deck is
// validated first; an invalid deck yields an error and no report.
func BuildReport(d *CommanderDeck) (*Report, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	all := make([]Card, 0, len(d.Cards)+1)
	commander := d.Commander
	commander.Category = CategoryCommander
	all = append(all, commander)
	all = append(all, d.Cards...)

	total, currency := totalPrice(all)
	return &Report{
		Name:                d.Name,
		Description:         d.Description,
		Sections:            sectionize(all),
		TotalCards:          d.TotalCards(),
		OwnedCards:          ownedCount(all),
		OwnershipPercentage: d.OwnershipPercentage,
		TotalPrice:          total.StringFixed(2) + " " + currency,
		Source:              d.Source,
		SourceURL:           d.SourceURL,
	}, nil
}

// BuildStandardReport projects a standard deck into its report form. The
// mainboard and sideboard are grouped into separate section sets so the
// zone a card sits in survives projection; pricing and ownership totals
// cover both zones.
func BuildStandardReport(d *StandardDeck) (*Report, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	all := make([]Card, 0, len(d.Mainboard)+len(d.Sideboard))
	all = append(all, d.Mainboard...)
	all = append(all, d.Sideboard...)

	mainboard, sideboard := d.TotalCards()
	total, currency := totalPrice(all)
	return &Report{
		Name:                d.Name,
		Description:         d.Description,
		Sections:            sectionize(d.Mainboard),
		Sideboard:           sectionize(d.Sideboard),
		TotalCards:          mainboard + sideboard,
		OwnedCards:          ownedCount(all),
		OwnershipPercentage: d.OwnershipPercentage,
		TotalPrice:          total.StringFixed(2) + " " + currency,
		Source:              d.Source,
		SourceURL:           d.SourceURL,
	}, nil
}
