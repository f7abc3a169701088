package scryfall

import (
	"errors"
	"fmt"
)

// Card represents a Magic card printing as returned by Scryfall. Optional
// fields are pointers or omitted strings; absence means "unknown", never
// "zero".
type Card struct {
	// Core fields
	ID       string `json:"id"`
	OracleID string `json:"oracle_id"`

	// Card details
	Name        string     `json:"name"`
	Lang        string     `json:"lang"`
	ReleasedAt  string     `json:"released_at"`
	URI         string     `json:"uri"`
	ScryfallURI string     `json:"scryfall_uri"`
	Layout      string     `json:"layout"`
	ImageURIs   *ImageURIs `json:"image_uris,omitempty"`
	ManaCost    string     `json:"mana_cost,omitempty"`
	CMC         float64    `json:"cmc"`
	TypeLine    string     `json:"type_line"`
	OracleText  string     `json:"oracle_text,omitempty"`
	Colors      []string   `json:"colors,omitempty"`
	Keywords    []string   `json:"keywords,omitempty"`

	// Print details
	SetCode         string   `json:"set"`
	SetName         string   `json:"set_name"`
	CollectorNumber string   `json:"collector_number"`
	Rarity          string   `json:"rarity"`
	Finishes        []string `json:"finishes,omitempty"`
	Digital         bool     `json:"digital"`

	// Card faces (for DFCs, MDFCs, split cards)
	CardFaces []CardFace `json:"card_faces,omitempty"`

	// Prices
	Prices Prices `json:"prices"`

	// Related
	RelatedURIs  map[string]string `json:"related_uris,omitempty"`
	PurchaseURIs map[string]string `json:"purchase_uris,omitempty"`
}

// HasFinish reports whether the printing is available in the given finish
// ("foil", "nonfoil", "etched").
func (c *Card) HasFinish(finish string) bool {
	for _, f := range c.Finishes {
		if f == finish {
			return true
		}
	}
	return false
}

// CardFace represents one face of a multi-faced card.
type CardFace struct {
	Name       string     `json:"name"`
	ManaCost   string     `json:"mana_cost,omitempty"`
	TypeLine   string     `json:"type_line"`
	OracleText string     `json:"oracle_text,omitempty"`
	Colors     []string   `json:"colors,omitempty"`
	ImageURIs  *ImageURIs `json:"image_uris,omitempty"`
}

// ImageURIs contains URLs for card images in various sizes.
type ImageURIs struct {
	Small      string `json:"small"`
	Normal     string `json:"normal"`
	Large      string `json:"large"`
	PNG        string `json:"png"`
	ArtCrop    string `json:"art_crop"`
	BorderCrop string `json:"border_crop"`
}

// Prices represents the prices of a card in various currency and finish
// combinations. Each field is independently optional; Scryfall ships them as
// decimal strings.
type Prices struct {
	USD       *string `json:"usd,omitempty"`
	USDFoil   *string `json:"usd_foil,omitempty"`
	USDEtched *string `json:"usd_etched,omitempty"`
	EUR       *string `json:"eur,omitempty"`
	EURFoil   *string `json:"eur_foil,omitempty"`
	TIX       *string `json:"tix,omitempty"`
}

// SearchResult represents search results from Scryfall.
type SearchResult struct {
	Object     string `json:"object"`
	TotalCards int    `json:"total_cards"`
	HasMore    bool   `json:"has_more"`
	NextPage   string `json:"next_page,omitempty"`
	Data       []Card `json:"data"`
}

// APIError represents an error response from the Scryfall API.
type APIError struct {
	Object   string   `json:"object"`
	Code     string   `json:"code"`
	Status   int      `json:"status"`
	Details  string   `json:"details"`
	Type     string   `json:"type,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Details)
	}
	return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Code)
}

// NotFoundError represents a 404 error from the API.
type NotFoundError struct {
	URL string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
