package collection

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Column headers of a ManaBox collection export. Header matching is
// case-insensitive.
const (
	colBinderName       = "binder name"
	colBinderType       = "binder type"
	colName             = "name"
	colSetCode          = "set code"
	colSetName          = "set name"
	colCollectorNumber  = "collector number"
	colFoil             = "foil"
	colRarity           = "rarity"
	colQuantity         = "quantity"
	colManaBoxID        = "manabox id"
	colScryfallID       = "scryfall id"
	colPurchasePrice    = "purchase price"
	colMisprint         = "misprint"
	colAltered          = "altered"
	colCondition        = "condition"
	colLanguage         = "language"
	colPurchaseCurrency = "purchase price currency"
)

// LoadCSV loads a collection from a ManaBox CSV export. A missing or
// unreadable file is a fatal LoadError. A malformed or empty purchase price
// defaults to zero rather than failing the whole load.
func LoadCSV(path string) (*Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	entries, err := readEntries(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	col, err := New(entries)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path
		}
		return nil, err
	}
	return col, nil
}

// ReadEntries parses collection entries from CSV data. The first record must
// be the header row.
func ReadEntries(r io.Reader) ([]CardEntry, error) {
	return readEntries(r)
}

func readEntries(r io.Reader) ([]CardEntry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colName, colQuantity, colPurchaseCurrency} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	field := func(record []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var entries []CardEntry
	line := 1
	for {
		line++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		quantity, err := strconv.Atoi(field(record, colQuantity))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid quantity %q", line, field(record, colQuantity))
		}

		// Rarity may be absent in older export versions; an empty field
		// defaults to common, but an unrecognized value is still an error.
		rarity := RarityCommon
		if raw := field(record, colRarity); raw != "" {
			rarity, err = ParseRarity(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		}

		// Conditions vary by export version; default unknown values to
		// near mint instead of rejecting the row.
		condition, err := ParseCondition(field(record, colCondition))
		if err != nil {
			condition = ConditionNearMint
		}

		// ManaBox IDs are absent in some export versions.
		manaboxID, _ := strconv.ParseInt(field(record, colManaBoxID), 10, 64)

		entries = append(entries, CardEntry{
			BinderName:       field(record, colBinderName),
			BinderType:       field(record, colBinderType),
			Name:             field(record, colName),
			SetCode:          field(record, colSetCode),
			SetName:          field(record, colSetName),
			CollectorNumber:  field(record, colCollectorNumber),
			Foil:             truthy(field(record, colFoil)),
			Rarity:           rarity,
			Quantity:         quantity,
			ManaBoxID:        manaboxID,
			ScryfallID:       field(record, colScryfallID),
			PurchasePrice:    parsePrice(field(record, colPurchasePrice)),
			Misprint:         truthy(field(record, colMisprint)),
			Altered:          truthy(field(record, colAltered)),
			Condition:        condition,
			Language:         field(record, colLanguage),
			PurchaseCurrency: field(record, colPurchaseCurrency),
		})
	}

	return entries, nil
}

// truthy reports whether a boolean column value is a truthy marker. ManaBox
// writes "foil" or "etched" in the foil column and "true" elsewhere.
func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "foil", "etched", "true", "yes", "1":
		return true
	}
	return false
}

// parsePrice parses a purchase price, defaulting malformed or empty values
// to zero so a single bad row cannot fail the whole load.
func parsePrice(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
