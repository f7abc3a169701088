package deck

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CardCategory is a card's slot category within a deck. The declared order
// here is the presentation order of report tables.
type CardCategory string

const (
	CategoryCommander    CardCategory = "commander"
	CategoryCreature     CardCategory = "creature"
	CategoryArtifact     CardCategory = "artifact"
	CategoryEnchantment  CardCategory = "enchantment"
	CategoryPlaneswalker CardCategory = "planeswalker"
	CategoryInstant      CardCategory = "instant"
	CategorySorcery      CardCategory = "sorcery"
	CategoryLand         CardCategory = "land"
	CategoryOther        CardCategory = "other"
)

// Categories lists all categories in presentation order.
var Categories = []CardCategory{
	CategoryCommander,
	CategoryCreature,
	CategoryArtifact,
	CategoryEnchantment,
	CategoryPlaneswalker,
	CategoryInstant,
	CategorySorcery,
	CategoryLand,
	CategoryOther,
}

// CategoryFromTypeLine derives a card's category from its metadata type
// line. Creature wins over other types on multi-typed cards, matching how
// deck tables are conventionally grouped.
func CategoryFromTypeLine(typeLine string) CardCategory {
	tl := strings.ToLower(typeLine)
	switch {
	case strings.Contains(tl, "creature"):
		return CategoryCreature
	case strings.Contains(tl, "artifact"):
		return CategoryArtifact
	case strings.Contains(tl, "enchantment"):
		return CategoryEnchantment
	case strings.Contains(tl, "planeswalker"):
		return CategoryPlaneswalker
	case strings.Contains(tl, "instant"):
		return CategoryInstant
	case strings.Contains(tl, "sorcery"):
		return CategorySorcery
	case strings.Contains(tl, "land"):
		return CategoryLand
	}
	return CategoryOther
}

// Card is one card in a deck, carrying its reconciled ownership flag and an
// optional resolved market price. A nil Price means the price is unknown,
// never zero.
type Card struct {
	Name            string
	Category        CardCategory
	Quantity        int
	Owned           bool
	Price           *decimal.Decimal
	PriceCurrency   string
	SetCode         string
	CollectorNumber string
	ScryfallID      string
	Foil            bool
}

// commanderDeckSize is the number of cards alongside the commander.
const commanderDeckSize = 99

// CommanderDeck is a singleton-commander deck: one mandatory commander slot
// plus cards whose quantities sum to exactly 99.
type CommanderDeck struct {
	Name                string
	Description         string
	Commander           Card
	Cards               []Card
	OwnershipPercentage float64
	TotalPrice          *decimal.Decimal
	PriceCurrency       string
	Source              string
	SourceURL           string
}

// TotalCards returns the total number of cards including the commander.
func (d *CommanderDeck) TotalCards() int {
	total := 1
	for i := range d.Cards {
		total += d.Cards[i].Quantity
	}
	return total
}

// Validate checks the fixed deck shape: a named commander with quantity 1
// and remaining quantities summing to exactly 99.
func (d *CommanderDeck) Validate() error {
	if d.Commander.Name == "" {
		return &ValidationError{Deck: d.Name, Reason: "missing commander"}
	}
	if d.Commander.Quantity != 1 {
		return &ValidationError{
			Deck:   d.Name,
			Reason: fmt.Sprintf("commander quantity must be 1, got %d", d.Commander.Quantity),
		}
	}

	sum := 0
	for i := range d.Cards {
		if d.Cards[i].Quantity < 1 {
			return &ValidationError{
				Deck:   d.Name,
				Reason: fmt.Sprintf("card %q has quantity %d", d.Cards[i].Name, d.Cards[i].Quantity),
			}
		}
		sum += d.Cards[i].Quantity
	}
	if sum != commanderDeckSize {
		return &ValidationError{
			Deck:   d.Name,
			Reason: fmt.Sprintf("deck quantities must sum to %d, got %d", commanderDeckSize, sum),
		}
	}
	return nil
}

// StandardDeck is a two-section deck: a mainboard and an optional sideboard,
// with no fixed total.
type StandardDeck struct {
	Name                string
	Description         string
	Format              string
	Mainboard           []Card
	Sideboard           []Card
	OwnershipPercentage float64
	TotalPrice          *decimal.Decimal
	PriceCurrency       string
	Source              string
	SourceURL           string
	Author              string
}

// TotalCards returns card counts per section.
func (d *StandardDeck) TotalCards() (mainboard, sideboard int) {
	for i := range d.Mainboard {
		mainboard += d.Mainboard[i].Quantity
	}
	for i := range d.Sideboard {
		sideboard += d.Sideboard[i].Quantity
	}
	return mainboard, sideboard
}

// Validate checks section quantities are positive and the mainboard is not
// empty.
func (d *StandardDeck) Validate() error {
	if len(d.Mainboard) == 0 {
		return &ValidationError{Deck: d.Name, Reason: "empty mainboard"}
	}
	for _, section := range [][]Card{d.Mainboard, d.Sideboard} {
		for i := range section {
			if section[i].Quantity < 1 {
				return &ValidationError{
					Deck:   d.Name,
					Reason: fmt.Sprintf("card %q has quantity %d", section[i].Name, section[i].Quantity),
				}
			}
		}
	}
	return nil
}

// ValidationError indicates a structurally invalid deck. It aborts the
// request it occurred in; no partial report is produced.
type ValidationError struct {
	Deck   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Deck != "" {
		return fmt.Sprintf("invalid deck %q: %s", e.Deck, e.Reason)
	}
	return "invalid deck: " + e.Reason
}
