package collection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// PurchaseTotal maps a currency code to the exact decimal sum of purchase
// prices in that currency. Amounts in different currencies are never summed
// together, and a PurchaseTotal is never combined with live market values.
type PurchaseTotal map[string]decimal.Decimal

// LoadError indicates the collection source was missing, unreadable, or
// contained an entry violating an invariant. It is fatal to the load call.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("load collection %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("load collection: %v", e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Collection is an immutable snapshot of the user's owned cards. All derived
// views are pure computations over the snapshot; it is safe to share across
// goroutines. A reload produces a new Collection, never mutates an old one.
type Collection struct {
	entries []CardEntry
	byName  map[string][]int // lowercased name -> entry indices
}

// New builds a Collection from loader output. It fails with a LoadError if
// the sequence is empty or any entry violates an invariant.
func New(entries []CardEntry) (*Collection, error) {
	if len(entries) == 0 {
		return nil, &LoadError{Err: fmt.Errorf("no card entries")}
	}

	byName := make(map[string][]int, len(entries))
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return nil, &LoadError{Err: fmt.Errorf("entry %d: %w", i+1, err)}
		}
		key := strings.ToLower(entries[i].Name)
		byName[key] = append(byName[key], i)
	}

	return &Collection{entries: entries, byName: byName}, nil
}

// Entries returns the entries in load order. Callers must not modify the
// returned slice.
func (c *Collection) Entries() []CardEntry {
	return c.entries
}

// TotalCards returns the total number of physical cards.
func (c *Collection) TotalCards() int {
	total := 0
	for i := range c.entries {
		total += c.entries[i].Quantity
	}
	return total
}

// UniqueCards returns the number of distinct entries.
func (c *Collection) UniqueCards() int {
	return len(c.entries)
}

// TotalValue returns the purchase value of the collection per currency.
func (c *Collection) TotalValue() PurchaseTotal {
	values := make(PurchaseTotal)
	for i := range c.entries {
		e := &c.entries[i]
		qty := decimal.NewFromInt(int64(e.Quantity))
		values[e.PurchaseCurrency] = values[e.PurchaseCurrency].Add(e.PurchasePrice.Mul(qty))
	}
	return values
}

// FindByName returns all entries whose name matches case-insensitively.
func (c *Collection) FindByName(name string) []CardEntry {
	indices := c.byName[strings.ToLower(name)]
	if len(indices) == 0 {
		return nil
	}
	matches := make([]CardEntry, 0, len(indices))
	for _, i := range indices {
		matches = append(matches, c.entries[i])
	}
	return matches
}

// QuantityOwned returns the total owned quantity across all printings of the
// named card, matched case-insensitively.
func (c *Collection) QuantityOwned(name string) int {
	total := 0
	for _, i := range c.byName[strings.ToLower(name)] {
		total += c.entries[i].Quantity
	}
	return total
}

// UniqueNames returns all distinct card names, sorted.
func (c *Collection) UniqueNames() []string {
	seen := make(map[string]struct{}, len(c.entries))
	names := make([]string, 0, len(c.entries))
	for i := range c.entries {
		if _, ok := seen[c.entries[i].Name]; ok {
			continue
		}
		seen[c.entries[i].Name] = struct{}{}
		names = append(names, c.entries[i].Name)
	}
	sort.Strings(names)
	return names
}

// CardsBySet returns all entries from the given set, matched
// case-insensitively on set code.
func (c *Collection) CardsBySet(setCode string) []CardEntry {
	var matches []CardEntry
	for i := range c.entries {
		if strings.EqualFold(c.entries[i].SetCode, setCode) {
			matches = append(matches, c.entries[i])
		}
	}
	return matches
}

// CardsByRarity returns all entries of the given rarity.
func (c *Collection) CardsByRarity(r Rarity) []CardEntry {
	var matches []CardEntry
	for i := range c.entries {
		if c.entries[i].Rarity == r {
			matches = append(matches, c.entries[i])
		}
	}
	return matches
}

// FoilCards returns all foil entries.
func (c *Collection) FoilCards() []CardEntry {
	var matches []CardEntry
	for i := range c.entries {
		if c.entries[i].Foil {
			matches = append(matches, c.entries[i])
		}
	}
	return matches
}

// RarityBreakdown returns the physical card count per rarity.
func (c *Collection) RarityBreakdown() map[Rarity]int {
	counts := make(map[Rarity]int)
	for i := range c.entries {
		counts[c.entries[i].Rarity] += c.entries[i].Quantity
	}
	return counts
}
