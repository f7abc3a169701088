package pricing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nwchinn/mtg-agent/internal/scryfall"
)

// ScryfallSource adapts the Scryfall client to the MetadataSource interface.
type ScryfallSource struct {
	client *scryfall.Client
}

// NewScryfallSource wraps a Scryfall client as a metadata source.
func NewScryfallSource(client *scryfall.Client) *ScryfallSource {
	return &ScryfallSource{client: client}
}

// CardByID implements MetadataSource.
func (s *ScryfallSource) CardByID(ctx context.Context, id string) (*CardRecord, error) {
	card, err := s.client.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}
	return recordFromCard(card), nil
}

// CardBySetNumber implements MetadataSource.
func (s *ScryfallSource) CardBySetNumber(ctx context.Context, setCode, collectorNumber string) (*CardRecord, error) {
	card, err := s.client.GetCardBySetNumber(ctx, setCode, collectorNumber)
	if err != nil {
		return nil, err
	}
	return recordFromCard(card), nil
}

// CardByName implements MetadataSource.
func (s *ScryfallSource) CardByName(ctx context.Context, name, setCode string) (*CardRecord, error) {
	card, err := s.client.GetCardByName(ctx, name, setCode)
	if err != nil {
		return nil, err
	}
	return recordFromCard(card), nil
}

func recordFromCard(card *scryfall.Card) *CardRecord {
	return &CardRecord{
		Name:            card.Name,
		SetCode:         card.SetCode,
		CollectorNumber: card.CollectorNumber,
		URL:             card.ScryfallURI,
		Prices: PriceBlock{
			USD:     parseOptionalPrice(card.Prices.USD),
			USDFoil: parseOptionalPrice(card.Prices.USDFoil),
			EUR:     parseOptionalPrice(card.Prices.EUR),
			Tix:     parseOptionalPrice(card.Prices.TIX),
		},
	}
}

// parseOptionalPrice converts an optional decimal string into an optional
// decimal. A malformed value is treated as absent.
func parseOptionalPrice(s *string) *decimal.Decimal {
	if s == nil || *s == "" {
		return nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil
	}
	return &d
}
