package dataprovider

import (
	"testing"
)

func TestStaticProviderLookup(t *testing.T) {
	p := NewStaticProvider(BuiltinMarkets())

	m, err := p.Market("Cleveland")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.State != "OH" {
		t.Errorf("expected OH, got %s", m.State)
	}

	if _, err := p.Market("Atlantis"); err == nil {
		t.Error("unknown market should error")
	}

	all := p.Markets()
	if len(all) != len(BuiltinMarkets()) {
		t.Errorf("expected %d markets, got %d", len(BuiltinMarkets()), len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Name > all[i].Name {
			t.Error("markets not in stable name order")
		}
	}
}

func TestBuiltinMarketsComplete(t *testing.T) {
	for _, m := range BuiltinMarkets() {
		if m.MedianHomePrice == nil || m.MedianRent == nil {
			t.Errorf("market %s missing price or rent", m.Name)
		}
	}
}

func TestGeneratorDeterministicWithSeed(t *testing.T) {
	provider := NewStaticProvider(BuiltinMarkets())

	a, err := NewMockListingGenerator(42, provider).Listings("Memphis", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := NewMockListingGenerator(42, provider).Listings("Memphis", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(a) != 10 || len(b) != 10 {
		t.Fatalf("expected 10 listings each, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Price != b[i].Price || a[i].EstimatedRent != b[i].EstimatedRent || a[i].Address != b[i].Address {
			t.Errorf("listing %d differs between identically seeded runs", i)
		}
	}
}

func TestGeneratedListingsPlausible(t *testing.T) {
	provider := NewStaticProvider(BuiltinMarkets())
	listings, err := NewMockListingGenerator(7, provider).Listings("Cleveland", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	market, _ := provider.Market("Cleveland")
	median := *market.MedianHomePrice
	for _, p := range listings {
		if p.Price < median*0.5 || p.Price > median*1.6 {
			t.Errorf("price %.0f implausible for median %.0f", p.Price, median)
		}
		if p.EstimatedRent <= 0 {
			t.Errorf("listing %s has non-positive rent", p.ID)
		}
		if p.MarketName != "Cleveland" {
			t.Errorf("listing assigned to wrong market %s", p.MarketName)
		}
		if p.ID == "" {
			t.Error("listing missing ID")
		}
	}
}

func TestGeneratorUnknownMarket(t *testing.T) {
	g := NewMockListingGenerator(1, NewStaticProvider(nil))
	if _, err := g.Listings("Nowhere", 5); err == nil {
		t.Error("expected error for unknown market")
	}
}
