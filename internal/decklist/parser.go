// Package decklist parses deck lists from the text formats players paste
// into chat: the Arena export format and plain numbered card lists.
package decklist

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Entry is one parsed card line.
type Entry struct {
	Name            string
	Quantity        int
	SetCode         string
	CollectorNumber string
}

// Decklist is the result of parsing a deck list text. Commander holds the
// cards under a Commander section header; lists without one have an empty
// Commander slice. Warnings record lines that could not be parsed without
// failing the whole list.
type Decklist struct {
	Name      string
	Commander []Entry
	Mainboard []Entry
	Sideboard []Entry
	Warnings  []string
}

// TotalCards returns the combined quantity across all sections.
func (d *Decklist) TotalCards() int {
	total := 0
	for _, section := range [][]Entry{d.Commander, d.Mainboard, d.Sideboard} {
		for _, e := range section {
			total += e.Quantity
		}
	}
	return total
}

// Arena export line: "4 Lightning Bolt (M21) 123" with set and collector
// number optional.
var arenaLine = regexp.MustCompile(`^(\d+)\s+([^(]+?)(?:\s+\(([A-Za-z0-9]+)\)(?:\s+([0-9a-z]+))?)?$`)

// Plain text lines: "4 Card Name", "4x Card Name", "Card Name x4".
var (
	plainPrefix = regexp.MustCompile(`^(\d+)x?\s+(.+)$`)
	plainSuffix = regexp.MustCompile(`^(.+?)\s+x(\d+)$`)
)

type section int

const (
	sectionMain section = iota
	sectionCommander
	sectionSideboard
)

// Parse parses deck list text. It tries the Arena export format first and
// falls back to plain text. Empty input is an error; individual unparseable
// lines become warnings.
func Parse(input string) (*Decklist, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty deck list")
	}

	if d, err := ParseArena(input); err == nil {
		return d, nil
	}
	return ParsePlainText(input)
}

// ParseArena parses the Arena export format:
//
//	Commander
//	1 Atraxa, Praetors' Voice (2XM) 190
//
//	Deck
//	1 Sol Ring (CMR) 350
//
//	Sideboard
//	2 Duress (M21) 95
//
// Section headers are optional; a blank line after mainboard cards also
// switches to the sideboard, matching Arena's own export.
func ParseArena(input string) (*Decklist, error) {
	d := &Decklist{}
	cur := sectionMain
	sawMainCards := false

	for i, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)

		switch strings.ToLower(line) {
		case "":
			if cur == sectionMain && sawMainCards {
				cur = sectionSideboard
			}
			continue
		case "commander":
			cur = sectionCommander
			continue
		case "deck", "mainboard", "main":
			cur = sectionMain
			continue
		case "sideboard":
			cur = sectionSideboard
			continue
		}

		matches := arenaLine.FindStringSubmatch(line)
		if matches == nil {
			d.Warnings = append(d.Warnings, fmt.Sprintf("line %d: could not parse %q", i+1, line))
			continue
		}
		qty, err := strconv.Atoi(matches[1])
		if err != nil || qty < 1 {
			d.Warnings = append(d.Warnings, fmt.Sprintf("line %d: invalid quantity %q", i+1, matches[1]))
			continue
		}

		e := Entry{
			Name:            strings.TrimSpace(matches[2]),
			Quantity:        qty,
			SetCode:         strings.ToLower(matches[3]),
			CollectorNumber: matches[4],
		}
		switch cur {
		case sectionCommander:
			d.Commander = append(d.Commander, e)
		case sectionSideboard:
			d.Sideboard = append(d.Sideboard, e)
		default:
			d.Mainboard = append(d.Mainboard, e)
			sawMainCards = true
		}
	}

	if len(d.Commander) == 0 && len(d.Mainboard) == 0 && len(d.Sideboard) == 0 {
		return nil, fmt.Errorf("no cards found in deck list")
	}
	return d, nil
}

// ParsePlainText parses simple card lists: "4 Lightning Bolt",
// "4x Lightning Bolt", or "Lightning Bolt x4", with optional "Commander"
// and "Sideboard" section markers.
func ParsePlainText(input string) (*Decklist, error) {
	d := &Decklist{}
	cur := sectionMain

	for i, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		if lower == "commander" || lower == "commander:" {
			cur = sectionCommander
			continue
		}
		if strings.HasPrefix(lower, "sideboard") {
			cur = sectionSideboard
			continue
		}

		var e Entry
		if matches := plainPrefix.FindStringSubmatch(line); matches != nil {
			qty, err := strconv.Atoi(matches[1])
			if err == nil && qty >= 1 {
				e = Entry{Name: strings.TrimSpace(matches[2]), Quantity: qty}
			}
		}
		if e.Name == "" {
			if matches := plainSuffix.FindStringSubmatch(line); matches != nil {
				qty, err := strconv.Atoi(matches[2])
				if err == nil && qty >= 1 {
					e = Entry{Name: strings.TrimSpace(matches[1]), Quantity: qty}
				}
			}
		}
		if e.Name == "" {
			d.Warnings = append(d.Warnings, fmt.Sprintf("line %d: could not parse %q", i+1, line))
			continue
		}

		switch cur {
		case sectionCommander:
			d.Commander = append(d.Commander, e)
		case sectionSideboard:
			d.Sideboard = append(d.Sideboard, e)
		default:
			d.Mainboard = append(d.Mainboard, e)
		}
	}

	if len(d.Commander) == 0 && len(d.Mainboard) == 0 && len(d.Sideboard) == 0 {
		return nil, fmt.Errorf("no cards found in deck list")
	}
	return d, nil
}
