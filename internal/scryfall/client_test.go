package scryfall

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	client := NewClient()

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}

	if client.httpClient == nil {
		t.Error("httpClient is nil")
	}

	if client.rateLimiter == nil {
		t.Error("rateLimiter is nil")
	}

	if client.userAgent == "" {
		t.Error("userAgent is empty")
	}

	if client.baseURL != defaultBaseURL {
		t.Errorf("baseURL = %q, want %q", client.baseURL, defaultBaseURL)
	}
}

func TestClient_RateLimiting(t *testing.T) {
	// Create a test server that counts requests
	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"test","name":"Test Card"}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	ctx := context.Background()

	// Make 3 requests and measure time
	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := client.GetCard(ctx, "test"); err != nil {
			t.Fatalf("Request %d failed: %v", i+1, err)
		}
	}
	elapsed := time.Since(start)

	// Should have made 3 requests
	if requestCount != 3 {
		t.Errorf("Expected 3 requests, got %d", requestCount)
	}

	// Should take at least 200ms (2 delays of 100ms each between 3 requests)
	minWait := 200 * time.Millisecond
	if elapsed < minWait {
		t.Errorf("Rate limiting not working: completed 3 requests in %v (expected >= %v)", elapsed, minWait)
	}
}

func TestClient_GetCard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cards/test-id" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"id": "test-id",
			"name": "Lightning Bolt",
			"mana_cost": "{R}",
			"cmc": 1.0,
			"type_line": "Instant",
			"oracle_text": "Deal 3 damage to any target.",
			"prices": {"usd": "0.25", "usd_foil": "1.10"}
		}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)

	card, err := client.GetCard(context.Background(), "test-id")
	if err != nil {
		t.Fatalf("GetCard failed: %v", err)
	}

	if card.Name != "Lightning Bolt" {
		t.Errorf("Expected card name 'Lightning Bolt', got '%s'", card.Name)
	}

	if card.Prices.USD == nil || *card.Prices.USD != "0.25" {
		t.Errorf("Expected usd price '0.25', got %v", card.Prices.USD)
	}

	if card.Prices.EUR != nil {
		t.Errorf("Expected absent eur price, got %v", *card.Prices.EUR)
	}
}

func TestClient_GetCardBySetNumber(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cards/m21/123" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"abc","name":"Shock","set":"m21","collector_number":"123","prices":{}}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)

	card, err := client.GetCardBySetNumber(context.Background(), "m21", "123")
	if err != nil {
		t.Fatalf("GetCardBySetNumber failed: %v", err)
	}

	if card.SetCode != "m21" || card.CollectorNumber != "123" {
		t.Errorf("Unexpected card printing: %s/%s", card.SetCode, card.CollectorNumber)
	}
}

func TestClient_GetCardByName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cards/named" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("exact"); got != "Sol Ring" {
			t.Errorf("Unexpected exact param: %q", got)
		}
		if got := r.URL.Query().Get("set"); got != "c21" {
			t.Errorf("Unexpected set param: %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"sol","name":"Sol Ring","prices":{"usd":"1.50"}}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)

	card, err := client.GetCardByName(context.Background(), "Sol Ring", "c21")
	if err != nil {
		t.Fatalf("GetCardByName failed: %v", err)
	}

	if card.Name != "Sol Ring" {
		t.Errorf("Expected 'Sol Ring', got '%s'", card.Name)
	}
}

func TestClient_SearchCards(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cards/search" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "t:artifact cmc=0" {
			t.Errorf("Unexpected q param: %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"object": "list",
			"total_cards": 2,
			"has_more": false,
			"data": [
				{"id":"sol","name":"Sol Ring","prices":{"usd":"1.50"}},
				{"id":"crypt","name":"Mana Crypt","prices":{"usd":"180.00"}}
			]
		}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)

	result, err := client.SearchCards(context.Background(), "t:artifact cmc=0")
	if err != nil {
		t.Fatalf("SearchCards failed: %v", err)
	}

	if result.TotalCards != 2 {
		t.Errorf("Expected 2 total cards, got %d", result.TotalCards)
	}

	if len(result.Data) != 2 || result.Data[0].Name != "Sol Ring" {
		t.Errorf("Unexpected search data: %+v", result.Data)
	}

	if result.HasMore {
		t.Error("Expected has_more to be false")
	}
}

func TestClient_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)

	_, err := client.GetCard(context.Background(), "missing")
	if err == nil {
		t.Fatal("Expected error for 404 response")
	}

	if !IsNotFound(err) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"object":"error","code":"bad_request","status":400,"details":"Invalid set code."}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)

	_, err := client.GetCardBySetNumber(context.Background(), "bad set", "1")
	if err == nil {
		t.Fatal("Expected error for 400 response")
	}

	if IsNotFound(err) {
		t.Error("400 response should not be a NotFoundError")
	}
}
