package deck

import (
	"github.com/nwchinn/mtg-agent/internal/collection"
	"github.com/nwchinn/mtg-agent/internal/pricing"
	"github.com/nwchinn/mtg-agent/internal/scryfall"
)

// CardInput is one requested card together with its catalog metadata. Meta
// is nil when the metadata lookup failed; such cards still appear in the
// deck, categorized as other and unpriced. Foil asks for the foil price,
// honored only when the printing actually comes in a foil finish.
type CardInput struct {
	Name     string
	Quantity int
	Foil     bool
	Meta     *scryfall.Card
}

func buildCard(in CardInput, prices pricing.PriceMap) Card {
	c := Card{
		Name:     in.Name,
		Category: CategoryOther,
		Quantity: in.Quantity,
	}
	if in.Meta == nil {
		return c
	}

	foil := in.Foil && in.Meta.HasFinish("foil")

	c.Name = in.Meta.Name
	c.Category = CategoryFromTypeLine(in.Meta.TypeLine)
	c.SetCode = in.Meta.SetCode
	c.CollectorNumber = in.Meta.CollectorNumber
	c.ScryfallID = in.Meta.ID
	c.Foil = foil

	id := pricing.NewIdentity(in.Meta.Name, in.Meta.SetCode, in.Meta.CollectorNumber, foil)
	if price, ok := prices.Price(id); ok {
		if amount, ok := price.Select(foil); ok {
			c.Price = &amount
			c.PriceCurrency = "USD"
		}
	}
	return c
}

// BuildCommanderDeck assembles a commander deck from requested cards,
// resolved prices, and the owned collection. Ownership flags and the
// aggregate percentage come from reconciling the request against the
// collection, with the commander counted as a singleton.
func BuildCommanderDeck(name string, commander CardInput, cards []CardInput, prices pricing.PriceMap, col *collection.Collection) *CommanderDeck {
	commander.Quantity = 1
	commanderCard := buildCard(commander, prices)
	commanderCard.Category = CategoryCommander

	built := make([]Card, 0, len(cards))
	requested := make([]RequestedCard, 0, len(cards))
	for _, in := range cards {
		built = append(built, buildCard(in, prices))
		requested = append(requested, RequestedCard{Name: in.Name, Quantity: in.Quantity})
	}

	commanderResult, results, pct := ReconcileCommander(
		RequestedCard{Name: commander.Name, Quantity: 1}, requested, col)
	commanderCard.Owned = commanderResult.FullyOwned
	for i := range built {
		built[i].Owned = results[i].FullyOwned
	}

	d := &CommanderDeck{
		Name:                name,
		Commander:           commanderCard,
		Cards:               built,
		OwnershipPercentage: pct,
	}
	all := append([]Card{commanderCard}, built...)
	total, currency := totalPrice(all)
	d.TotalPrice = &total
	d.PriceCurrency = currency
	return d
}

// BuildStandardDeck assembles a two-section deck the same way. The sideboard
// participates in ownership and pricing alongside the mainboard.
func BuildStandardDeck(name string, mainboard, sideboard []CardInput, prices pricing.PriceMap, col *collection.Collection) *StandardDeck {
	buildSection := func(inputs []CardInput) ([]Card, []RequestedCard) {
		cards := make([]Card, 0, len(inputs))
		requested := make([]RequestedCard, 0, len(inputs))
		for _, in := range inputs {
			cards = append(cards, buildCard(in, prices))
			requested = append(requested, RequestedCard{Name: in.Name, Quantity: in.Quantity})
		}
		return cards, requested
	}

	main, mainReq := buildSection(mainboard)
	side, sideReq := buildSection(sideboard)

	results, pct := Reconcile(append(mainReq, sideReq...), col)
	for i := range main {
		main[i].Owned = results[i].FullyOwned
	}
	for i := range side {
		side[i].Owned = results[len(main)+i].FullyOwned
	}

	d := &StandardDeck{
		Name:                name,
		Mainboard:           main,
		Sideboard:           side,
		OwnershipPercentage: pct,
	}
	total, currency := totalPrice(append(append([]Card{}, main...), side...))
	d.TotalPrice = &total
	d.PriceCurrency = currency
	return d
}
