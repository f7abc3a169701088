package pricing

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// fakeSource is a scriptable MetadataSource that records every call.
type fakeSource struct {
	mu     sync.Mutex
	calls  []string
	byID   map[string]*CardRecord
	bySet  map[string]*CardRecord // "set/number"
	byName map[string]*CardRecord
	delay  time.Duration // artificial per-call delay
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		byID:   make(map[string]*CardRecord),
		bySet:  make(map[string]*CardRecord),
		byName: make(map[string]*CardRecord),
	}
}

func (f *fakeSource) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSource) wait(ctx context.Context) error {
	if f.delay == 0 {
		return nil
	}
	select {
	case <-time.After(f.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeSource) CardByID(ctx context.Context, id string) (*CardRecord, error) {
	f.record("id:" + id)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("not found: %s", id)
}

func (f *fakeSource) CardBySetNumber(ctx context.Context, setCode, number string) (*CardRecord, error) {
	f.record("set:" + setCode + "/" + number)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if r, ok := f.bySet[setCode+"/"+number]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("not found: %s/%s", setCode, number)
}

func (f *fakeSource) CardByName(ctx context.Context, name, setCode string) (*CardRecord, error) {
	f.record("name:" + name)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if r, ok := f.byName[name]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("not found: %s", name)
}

func newTestResolver(source MetadataSource) *Resolver {
	return NewResolver(source, Options{MaxConcurrent: 4, LookupTimeout: time.Second}, nil)
}

func TestResolveBatch_DedupesIdentities(t *testing.T) {
	source := newFakeSource()
	source.byName["sol ring"] = &CardRecord{Name: "Sol Ring", Prices: PriceBlock{USD: price("1.50")}}

	r := newTestResolver(source)

	// Two lookups that normalize to the same identity key.
	lookups := []Lookup{
		{Identity: NewIdentity("Sol Ring", "", "", false)},
		{Identity: NewIdentity("SOL RING", "", "", false)},
	}

	prices := r.ResolveBatch(context.Background(), lookups)

	assert.Equal(t, 1, source.callCount(), "identical identities must issue exactly one external call")
	require.Len(t, prices, 1)

	p, ok := prices.Price(NewIdentity("sol ring", "", "", false))
	require.True(t, ok)
	selected, ok := p.Select(false)
	require.True(t, ok)
	assert.True(t, selected.Equal(decimal.RequireFromString("1.50")))
}

func TestResolveBatch_FallbackOrder(t *testing.T) {
	source := newFakeSource()
	source.byName["lightning bolt"] = &CardRecord{Name: "Lightning Bolt", Prices: PriceBlock{USD: price("0.25")}}

	r := newTestResolver(source)

	// Catalog ID and set/number both fail, name succeeds.
	lookups := []Lookup{{
		Identity:  NewIdentity("Lightning Bolt", "m21", "123", false),
		CatalogID: "dead-id",
	}}

	prices := r.ResolveBatch(context.Background(), lookups)

	require.Len(t, prices, 1)
	assert.Equal(t, []string{"id:dead-id", "set:m21/123", "name:lightning bolt"}, source.calls)
}

func TestResolveBatch_CatalogIDWins(t *testing.T) {
	source := newFakeSource()
	source.byID["abc-123"] = &CardRecord{Name: "Sol Ring", Prices: PriceBlock{USD: price("1.50")}}

	r := newTestResolver(source)

	lookups := []Lookup{{
		Identity:  NewIdentity("Sol Ring", "c21", "125", false),
		CatalogID: "abc-123",
	}}

	prices := r.ResolveBatch(context.Background(), lookups)

	require.Len(t, prices, 1)
	assert.Equal(t, []string{"id:abc-123"}, source.calls, "no further strategies after a successful response")
}

func TestResolveBatch_FailureYieldsGapNotError(t *testing.T) {
	source := newFakeSource()
	source.byName["sol ring"] = &CardRecord{Name: "Sol Ring", Prices: PriceBlock{USD: price("1.50")}}

	r := newTestResolver(source)

	lookups := []Lookup{
		{Identity: NewIdentity("Sol Ring", "", "", false)},
		{Identity: NewIdentity("Mana Crypt", "", "", false)}, // unknown to source
	}

	prices := r.ResolveBatch(context.Background(), lookups)

	require.Len(t, prices, 1, "failed lookup must not abort the batch")
	_, ok := prices.Price(NewIdentity("mana crypt", "", "", false))
	assert.False(t, ok)
}

func TestResolveBatch_EmptyPriceBlockIsGap(t *testing.T) {
	source := newFakeSource()
	source.byName["plains"] = &CardRecord{Name: "Plains"}

	r := newTestResolver(source)

	prices := r.ResolveBatch(context.Background(), []Lookup{
		{Identity: NewIdentity("Plains", "", "", false)},
	})

	assert.Empty(t, prices, "a record with no populated price resolves to no market price")
}

func TestResolveBatch_TimeoutYieldsGap(t *testing.T) {
	source := newFakeSource()
	source.byName["slow card"] = &CardRecord{Name: "Slow Card", Prices: PriceBlock{USD: price("9.99")}}
	source.delay = 200 * time.Millisecond

	r := NewResolver(source, Options{MaxConcurrent: 2, LookupTimeout: 20 * time.Millisecond}, nil)

	start := time.Now()
	prices := r.ResolveBatch(context.Background(), []Lookup{
		{Identity: NewIdentity("Slow Card", "", "", false)},
	})

	assert.Empty(t, prices)
	assert.Less(t, time.Since(start), 150*time.Millisecond, "batch must not block past the per-call timeout")
}

func TestResolveBatch_Empty(t *testing.T) {
	r := newTestResolver(newFakeSource())
	prices := r.ResolveBatch(context.Background(), nil)
	assert.Empty(t, prices)
}

func TestMarketPrice_Select(t *testing.T) {
	tests := []struct {
		name   string
		price  MarketPrice
		foil   bool
		want   string
		wantOK bool
	}{
		{"foil with foil price", MarketPrice{USD: price("1.00"), USDFoil: price("12.50")}, true, "12.50", true},
		{"foil without foil price", MarketPrice{USD: price("1.00")}, true, "1.00", true},
		{"foil only price, foil card", MarketPrice{USDFoil: price("12.50")}, true, "12.50", true},
		{"foil only price, nonfoil card", MarketPrice{USDFoil: price("12.50")}, false, "", false},
		{"nonfoil", MarketPrice{USD: price("1.00"), USDFoil: price("12.50")}, false, "1.00", true},
		{"tix fallback", MarketPrice{Tix: price("0.75")}, false, "0.75", true},
		{"eur only is not a usd basis", MarketPrice{EUR: price("2.00")}, false, "", false},
		{"nothing", MarketPrice{}, true, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.price.Select(tt.foil)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
			}
		})
	}
}
