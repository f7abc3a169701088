package collection

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Rarity is a card rarity as reported by the collection export.
type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
	RarityMythic   Rarity = "mythic"
	RaritySpecial  Rarity = "special"
	RarityBonus    Rarity = "bonus"
)

// Rarities lists all rarities in ascending order.
var Rarities = []Rarity{
	RarityCommon,
	RarityUncommon,
	RarityRare,
	RarityMythic,
	RaritySpecial,
	RarityBonus,
}

// ParseRarity parses a rarity string case-insensitively.
func ParseRarity(s string) (Rarity, error) {
	r := Rarity(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RarityCommon, RarityUncommon, RarityRare, RarityMythic, RaritySpecial, RarityBonus:
		return r, nil
	}
	return "", fmt.Errorf("unknown rarity %q", s)
}

// Condition is a card condition, ordered from damaged to mint.
type Condition string

const (
	ConditionDamaged          Condition = "damaged"
	ConditionHeavilyPlayed    Condition = "heavily_played"
	ConditionModeratelyPlayed Condition = "moderately_played"
	ConditionLightlyPlayed    Condition = "lightly_played"
	ConditionGood             Condition = "good"
	ConditionExcellent        Condition = "excellent"
	ConditionNearMint         Condition = "near_mint"
	ConditionMint             Condition = "mint"
)

// ParseCondition parses a condition string, accepting both snake_case and
// space-separated forms ("Near Mint", "near_mint").
func ParseCondition(s string) (Condition, error) {
	c := Condition(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_"))
	switch c {
	case ConditionDamaged, ConditionHeavilyPlayed, ConditionModeratelyPlayed,
		ConditionLightlyPlayed, ConditionGood, ConditionExcellent,
		ConditionNearMint, ConditionMint:
		return c, nil
	}
	return "", fmt.Errorf("unknown condition %q", s)
}

// CardEntry is one physical grouping of identical owned cards, as produced by
// the collection export. Entries are immutable after load.
type CardEntry struct {
	BinderName       string
	BinderType       string
	Name             string
	SetCode          string
	SetName          string
	CollectorNumber  string
	Foil             bool
	Rarity           Rarity
	Quantity         int
	ManaBoxID        int64
	ScryfallID       string
	PurchasePrice    decimal.Decimal
	Misprint         bool
	Altered          bool
	Condition        Condition
	Language         string
	PurchaseCurrency string
}

// Validate checks the entry invariants: quantity at least 1, non-negative
// purchase price, and a purchase currency.
func (e *CardEntry) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("card entry has no name")
	}
	if e.Quantity < 1 {
		return fmt.Errorf("card %q: quantity must be at least 1, got %d", e.Name, e.Quantity)
	}
	if e.PurchasePrice.IsNegative() {
		return fmt.Errorf("card %q: purchase price cannot be negative, got %s", e.Name, e.PurchasePrice)
	}
	if e.PurchaseCurrency == "" {
		return fmt.Errorf("card %q: missing purchase currency", e.Name)
	}
	return nil
}
