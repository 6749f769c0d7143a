package agents

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rei_analyzer/pkg/core/dataprovider"
	"rei_analyzer/pkg/core/deal"
	"rei_analyzer/pkg/core/market"
	"rei_analyzer/pkg/core/ranking"
	"rei_analyzer/pkg/core/sensitivity"
)

// DealAnalyzerAgent runs the full per-property analysis chain: financial
// calculation, sensitivity stress test, then batch ranking. Properties are
// analyzed concurrently with bounded fan-out; each analysis owns its inputs,
// so no coordination beyond result collection is needed.
type DealAnalyzerAgent struct {
	markets     dataprovider.MarketDataProvider
	ranker      *ranking.Engine
	sens        *sensitivity.Analyzer
	concurrency int
}

// NewDealAnalyzerAgent wires the agent. markets may be nil when no market
// context is available; concurrency below 1 is normalized to 4.
func NewDealAnalyzerAgent(markets dataprovider.MarketDataProvider, ranker *ranking.Engine, concurrency int) *DealAnalyzerAgent {
	if concurrency < 1 {
		concurrency = 4
	}
	return &DealAnalyzerAgent{
		markets:     markets,
		ranker:      ranker,
		sens:        sensitivity.NewAnalyzer(),
		concurrency: concurrency,
	}
}

func (a *DealAnalyzerAgent) Name() string { return "deal_analyzer" }

// Run analyzes every property (or pre-built deal) in the input. A failure on
// one item is recorded and the rest proceed; the run succeeds if at least
// one item was analyzed. Survivors come back ranked.
func (a *DealAnalyzerAgent) Run(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()
	res := &Result{AgentName: a.Name()}

	work := in.Deals
	for _, p := range in.Properties {
		d := deal.FromProperty(p, in.Loan, in.Expenses)
		a.attachMarket(d)
		work = append(work, d)
	}
	if len(work) == 0 {
		return nil, fmt.Errorf("deal analyzer received no properties or deals")
	}

	var mu sync.Mutex
	var analyzed []*deal.Deal
	sem := make(chan struct{}, a.concurrency)
	var wg sync.WaitGroup

	for _, d := range work {
		if err := ctx.Err(); err != nil {
			mu.Lock()
			res.Errors = append(res.Errors, fmt.Sprintf("batch canceled: %v", err))
			mu.Unlock()
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(d *deal.Deal) {
			defer wg.Done()
			defer func() { <-sem }()

			err := a.analyzeOne(d)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Errors = append(res.Errors, err.Error())
				return
			}
			analyzed = append(analyzed, d)
		}(d)
	}
	wg.Wait()

	// Ranking is single-threaded over the collected survivors. Restore input
	// order first: goroutine completion order is not deterministic and the
	// stable tie-break contract is defined against the input sequence.
	analyzed = reorder(work, analyzed)

	var mm *market.Metrics
	if in.MarketName != "" && a.markets != nil {
		if m, err := a.markets.Market(in.MarketName); err == nil {
			mm = market.FromMarket(m)
		}
	}
	if in.Strategy != "" {
		res.Deals = a.ranker.RankDealsByStrategy(analyzed, in.Strategy, mm, in.ApplyFilters)
	} else {
		res.Deals = a.ranker.RankDeals(analyzed, mm, in.ApplyFilters)
	}
	res.MarketMetrics = mm
	res.Success = len(analyzed) > 0
	res.Summary = map[string]int{
		"submitted": len(work),
		"analyzed":  len(analyzed),
		"ranked":    len(res.Deals),
		"failed":    len(res.Errors),
	}
	res.Duration = time.Since(start)

	fmt.Printf("[ANALYZER] Batch done: %d analyzed, %d ranked, %d failed in %s\n",
		len(analyzed), len(res.Deals), len(res.Errors), res.Duration.Round(time.Millisecond))
	return res, nil
}

// analyzeOne runs calculation plus stress test for a single deal.
func (a *DealAnalyzerAgent) analyzeOne(d *deal.Deal) error {
	if err := d.Analyze(); err != nil {
		return fmt.Errorf("deal %s: %w", d.ID, err)
	}
	sens, err := a.sens.Analyze(d)
	if err != nil {
		return fmt.Errorf("deal %s sensitivity: %w", d.ID, err)
	}
	d.Analysis.RiskRating = sens.RiskRating
	return nil
}

// attachMarket resolves the property's market when the provider knows it.
func (a *DealAnalyzerAgent) attachMarket(d *deal.Deal) {
	if a.markets == nil || d.Property == nil || d.Property.MarketName == "" {
		return
	}
	if m, err := a.markets.Market(d.Property.MarketName); err == nil {
		d.Market = m
	}
}

// reorder filters the original sequence down to the surviving set.
func reorder(original, kept []*deal.Deal) []*deal.Deal {
	keep := make(map[*deal.Deal]bool, len(kept))
	for _, d := range kept {
		keep[d] = true
	}
	out := make([]*deal.Deal, 0, len(kept))
	for _, d := range original {
		if keep[d] {
			out = append(out, d)
		}
	}
	return out
}
