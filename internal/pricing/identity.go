package pricing

import "strings"

// Identity is the caching and dedup key for a card printing: name, set code,
// collector number, and foil flag. Name and set code are normalized to lower
// case so lookups that differ only in casing share one external call.
type Identity struct {
	Name            string
	SetCode         string
	CollectorNumber string
	Foil            bool
}

// NewIdentity builds a normalized Identity.
func NewIdentity(name, setCode, collectorNumber string, foil bool) Identity {
	return Identity{
		Name:            strings.ToLower(strings.TrimSpace(name)),
		SetCode:         strings.ToLower(strings.TrimSpace(setCode)),
		CollectorNumber: strings.TrimSpace(collectorNumber),
		Foil:            foil,
	}
}

// Lookup is one price-resolution request: the identity key plus an optional
// opaque catalog identifier usable for a precise lookup.
type Lookup struct {
	Identity  Identity
	CatalogID string
}
