package agents

import (
	"context"
	"fmt"
	"time"

	"rei_analyzer/pkg/core/dataprovider"
	"rei_analyzer/pkg/core/market"
	"rei_analyzer/pkg/models"
)

// MarketResearchAgent resolves a market from the injected provider and
// scores it. Low data completeness is flagged but never blocks the score.
type MarketResearchAgent struct {
	markets dataprovider.MarketDataProvider
	weights market.Weights
}

// NewMarketResearchAgent wires the agent with the given scoring weights.
func NewMarketResearchAgent(markets dataprovider.MarketDataProvider, weights market.Weights) *MarketResearchAgent {
	return &MarketResearchAgent{markets: markets, weights: weights}
}

func (a *MarketResearchAgent) Name() string { return "market_research" }

// Run scores the named market, or every known market when none is named
// (returning the best-scoring one in MarketMetrics).
func (a *MarketResearchAgent) Run(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()
	res := &Result{AgentName: a.Name()}
	if a.markets == nil {
		return nil, fmt.Errorf("market research requires a data provider")
	}

	candidates := a.markets.Markets()
	if in.MarketName != "" {
		m, err := a.markets.Market(in.MarketName)
		if err != nil {
			return nil, err
		}
		candidates = []*models.Market{m}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no markets available to research")
	}

	var best *market.Metrics
	for _, m := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		metrics := market.FromMarketWeighted(m, a.weights)
		if metrics.DataCompleteness < 0.5 {
			res.Errors = append(res.Errors, fmt.Sprintf("market %s scored on %.0f%% complete data", m.Name, metrics.DataCompleteness*100))
		}
		if best == nil || metrics.OverallScore > best.OverallScore {
			best = metrics
		}
		fmt.Printf("[RESEARCH] %s: overall %.1f (cash flow %.1f, growth %.1f, completeness %.0f%%)\n",
			m.Name, metrics.OverallScore, metrics.CashFlowScore, metrics.GrowthScore, metrics.DataCompleteness*100)
	}

	res.MarketMetrics = best
	res.Success = true
	res.Summary = map[string]int{"markets_scored": len(candidates)}
	res.Duration = time.Since(start)
	return res, nil
}
