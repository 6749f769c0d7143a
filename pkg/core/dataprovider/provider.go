package dataprovider

import (
	"fmt"
	"sort"

	"rei_analyzer/pkg/models"
)

// MarketDataProvider supplies market statistics to the orchestration layer.
// The scoring and ranking core never embeds market data itself; it is always
// injected through this interface.
type MarketDataProvider interface {
	Market(name string) (*models.Market, error)
	Markets() []*models.Market
}

// ListingProvider supplies property listings for a market.
type ListingProvider interface {
	Listings(marketName string, count int) ([]*models.Property, error)
}

// StaticProvider serves a fixed market table, typically the built-in sample
// set or a table loaded from configuration.
type StaticProvider struct {
	markets map[string]*models.Market
}

// NewStaticProvider indexes the given markets by name.
func NewStaticProvider(markets []*models.Market) *StaticProvider {
	idx := make(map[string]*models.Market, len(markets))
	for _, m := range markets {
		idx[m.Name] = m
	}
	return &StaticProvider{markets: idx}
}

// Market returns the named market or an error listing what is available.
func (p *StaticProvider) Market(name string) (*models.Market, error) {
	if m, ok := p.markets[name]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("unknown market %q (have %d markets)", name, len(p.markets))
}

// Markets returns all markets in stable name order.
func (p *StaticProvider) Markets() []*models.Market {
	out := make([]*models.Market, 0, len(p.markets))
	for _, m := range p.markets {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
