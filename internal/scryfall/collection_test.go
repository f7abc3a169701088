package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_GetCardsByNames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cards/collection" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("Unexpected method: %s", r.Method)
		}

		var req CollectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if len(req.Identifiers) != 2 {
			t.Errorf("Expected 2 identifiers, got %d", len(req.Identifiers))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"object": "list",
			"not_found": [{"name": "Not A Real Card"}],
			"data": [{"id":"sol","name":"Sol Ring","prices":{"usd":"1.50"}}]
		}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)

	cards, notFound, err := client.GetCardsByNames(context.Background(), []string{"Sol Ring", "Not A Real Card"})
	if err != nil {
		t.Fatalf("GetCardsByNames failed: %v", err)
	}

	if len(cards) != 1 || cards[0].Name != "Sol Ring" {
		t.Errorf("Unexpected cards: %+v", cards)
	}

	if len(notFound) != 1 || notFound[0] != "Not A Real Card" {
		t.Errorf("Unexpected notFound: %v", notFound)
	}
}

func TestClient_GetCardsByNames_Empty(t *testing.T) {
	client := NewClient()

	cards, notFound, err := client.GetCardsByNames(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected no error for empty input, got %v", err)
	}
	if len(cards) != 0 || len(notFound) != 0 {
		t.Errorf("Expected empty results, got %v / %v", cards, notFound)
	}
}

func TestClient_GetCardsByIdentifiers_Batching(t *testing.T) {
	var batchSizes []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req CollectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		batchSizes = append(batchSizes, len(req.Identifiers))

		resp := CollectionResponse{Object: "list"}
		for _, id := range req.Identifiers {
			resp.Data = append(resp.Data, Card{ID: id.ID, Name: "Card " + id.ID})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)

	// 100 identifiers should split into batches of 75 and 25.
	identifiers := make([]CardIdentifier, 100)
	for i := range identifiers {
		identifiers[i] = CardIdentifier{ID: fmt.Sprintf("id-%d", i)}
	}

	cards, notFound, err := client.GetCardsByIdentifiers(context.Background(), identifiers)
	if err != nil {
		t.Fatalf("GetCardsByIdentifiers failed: %v", err)
	}

	if len(cards) != 100 {
		t.Errorf("Expected 100 cards, got %d", len(cards))
	}
	if len(notFound) != 0 {
		t.Errorf("Expected no not-found entries, got %d", len(notFound))
	}
	if len(batchSizes) != 2 || batchSizes[0] != 75 || batchSizes[1] != 25 {
		t.Errorf("Expected batches [75 25], got %v", batchSizes)
	}
}

func TestClient_GetCardsByIdentifiers_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)

	_, _, err := client.GetCardsByIdentifiers(context.Background(), []CardIdentifier{{Name: "Sol Ring"}})
	if err == nil {
		t.Fatal("Expected error for 500 response")
	}
}
