package ranking

import (
	"fmt"
	"sort"

	"rei_analyzer/pkg/core/deal"
	"rei_analyzer/pkg/core/market"
	"rei_analyzer/pkg/core/sensitivity"
)

// Neutral contribution for sub-inputs the deal could not supply (absent CoC,
// absent DSCR, no market data). Unknown never scores as zero.
const neutralScore = 50.0

// Engine scores, filters, and ranks collections of analyzed deals.
type Engine struct {
	config Config
}

// NewEngine builds a ranking engine. An invalid config falls back to the
// defaults with a warning rather than producing skewed scores.
func NewEngine(cfg Config) *Engine {
	if err := cfg.Validate(); err != nil {
		fmt.Printf("[RANKING] Invalid config (%v), using defaults\n", err)
		cfg = DefaultConfig()
	}
	return &Engine{config: cfg}
}

// Config returns the active configuration.
func (e *Engine) Config() Config {
	return e.config
}

// RankDeals scores every analyzed deal, optionally applies the hard filter
// gates, and returns the survivors ordered by descending overall score with
// 1-based contiguous ranks. Deals with equal scores keep their input order
// (stable sort). Unanalyzed deals are skipped. mm supplies market scores for
// deals whose own Market is absent; it may be nil.
func (e *Engine) RankDeals(deals []*deal.Deal, mm *market.Metrics, applyFilters bool) []*deal.Deal {
	return e.rank(deals, mm, applyFilters, "")
}

// RankDealsByStrategy orders by the named strategy's score instead of the
// overall score. Unknown strategies fall back to the overall weighting.
func (e *Engine) RankDealsByStrategy(deals []*deal.Deal, strategy string, mm *market.Metrics, applyFilters bool) []*deal.Deal {
	return e.rank(deals, mm, applyFilters, strategy)
}

func (e *Engine) rank(deals []*deal.Deal, mm *market.Metrics, applyFilters bool, strategy string) []*deal.Deal {
	scored := make([]*deal.Deal, 0, len(deals))
	for _, d := range deals {
		if d == nil || d.Financials == nil || !d.Financials.Calculated() {
			continue
		}
		// Score before filtering so excluded deals still carry a score for
		// diagnostics.
		d.Analysis.Score = e.Score(d, mm)
		if applyFilters && !e.passesFilters(d) {
			continue
		}
		scored = append(scored, d)
	}

	sortKey := func(d *deal.Deal) float64 {
		if strategy == "" {
			return d.Analysis.Score.Overall
		}
		if s, ok := d.Analysis.Score.StrategyScores[strategy]; ok {
			return s
		}
		return d.Analysis.Score.Overall
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return sortKey(scored[i]) > sortKey(scored[j])
	})

	n := len(scored)
	for i, d := range scored {
		rank := i + 1
		pct := 100 * float64(n-i) / float64(n)
		d.Analysis.Score.Rank = &rank
		d.Analysis.Score.Percentile = &pct
	}
	return scored
}

// Score computes the full DealScore for a single deal without ranking it.
func (e *Engine) Score(d *deal.Deal, mm *market.Metrics) *deal.DealScore {
	financial := e.financialScore(d)
	marketScore := e.marketScore(d, mm)
	risk := e.riskScore(d)
	liquidity := e.liquidityScore(d, mm)

	combine := func(w StrategyWeights) float64 {
		return financial*w.Financial + marketScore*w.Market + risk*w.Risk + liquidity*w.Liquidity
	}

	score := &deal.DealScore{
		Financial:      financial,
		Market:         marketScore,
		Risk:           risk,
		Liquidity:      liquidity,
		Overall:        combine(e.config.Weights),
		StrategyScores: make(map[string]float64, len(e.config.Strategies)),
	}
	for name, w := range e.config.Strategies {
		score.StrategyScores[name] = combine(w)
	}
	return score
}

// Breakdown decomposes a score into weighted contributions for auditability.
type Breakdown struct {
	DealID     string               `json:"deal_id"`
	Overall    float64              `json:"overall"`
	Components []BreakdownComponent `json:"components"`
}

type BreakdownComponent struct {
	Name         string  `json:"name"`
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// ExplainScore returns the decomposition of a deal's overall score. The deal
// is scored on demand if the ranking engine has not touched it yet.
func (e *Engine) ExplainScore(d *deal.Deal) (*Breakdown, error) {
	if d == nil || d.Financials == nil || !d.Financials.Calculated() {
		return nil, fmt.Errorf("cannot explain an unanalyzed deal")
	}
	score := d.Analysis.Score
	if score == nil {
		score = e.Score(d, nil)
	}
	w := e.config.Weights
	return &Breakdown{
		DealID:  d.ID,
		Overall: score.Overall,
		Components: []BreakdownComponent{
			{Name: "financial", Score: score.Financial, Weight: w.Financial, Contribution: score.Financial * w.Financial},
			{Name: "market", Score: score.Market, Weight: w.Market, Contribution: score.Market * w.Market},
			{Name: "risk", Score: score.Risk, Weight: w.Risk, Contribution: score.Risk * w.Risk},
			{Name: "liquidity", Score: score.Liquidity, Weight: w.Liquidity, Contribution: score.Liquidity * w.Liquidity},
		},
	}, nil
}

// passesFilters applies the hard gates. A deal with a known CoC or cap rate
// below the configured minimum is excluded outright; absent values are
// unknown, not failing. Terminal pipeline statuses are also excluded.
func (e *Engine) passesFilters(d *deal.Deal) bool {
	if d.Analysis.Status == deal.StatusRejected || d.Analysis.Status == deal.StatusClosed {
		return false
	}
	m := d.Financials.Metrics
	if m.CashOnCashReturn != nil && *m.CashOnCashReturn < e.config.MinCashOnCash {
		return false
	}
	if m.CapRate != nil && *m.CapRate < e.config.MinCapRate {
		return false
	}
	return true
}

// financialScore maps the deal's return profile into [0,100]: cash-on-cash
// (35%), cap rate (25%), monthly cash flow (25%), DSCR (15%). CoC of 10%+
// lands in the high-score region per typical investor targets.
func (e *Engine) financialScore(d *deal.Deal) float64 {
	m := d.Financials.Metrics

	coc := neutralScore
	if m.CashOnCashReturn != nil {
		coc = scaleUp(*m.CashOnCashReturn, -0.05, 0.15)
	}
	capRate := neutralScore
	if m.CapRate != nil {
		capRate = scaleUp(*m.CapRate, 0.02, 0.10)
	}
	cashFlow := scaleUp(m.MonthlyCashFlow, -300, 500)
	dscr := neutralScore
	if m.DSCR != nil {
		dscr = scaleUp(*m.DSCR, 0.9, 1.6)
	}

	return coc*0.35 + capRate*0.25 + cashFlow*0.25 + dscr*0.15
}

// marketScore prefers the deal's own market, then the batch-level metrics,
// then the neutral default. Missing market data never fails the scoring.
func (e *Engine) marketScore(d *deal.Deal, mm *market.Metrics) float64 {
	if d.Market != nil {
		return market.FromMarket(d.Market).OverallScore
	}
	if mm != nil {
		return mm.OverallScore
	}
	return neutralScore
}

// riskScore lowers monotonically as break-even occupancy rises, DSCR margin
// shrinks, and the sensitivity rating worsens.
func (e *Engine) riskScore(d *deal.Deal) float64 {
	m := d.Financials.Metrics

	var parts []float64
	if m.BreakEvenOccupancy != nil {
		parts = append(parts, scaleDown(*m.BreakEvenOccupancy, 0.60, 1.10))
	}
	if m.DSCR != nil {
		parts = append(parts, scaleUp(*m.DSCR, 1.0, 1.5))
	}
	switch d.Analysis.RiskRating {
	case sensitivity.RiskLow:
		parts = append(parts, 85)
	case sensitivity.RiskMedium:
		parts = append(parts, 50)
	case sensitivity.RiskHigh:
		parts = append(parts, 15)
	}
	if len(parts) == 0 {
		return neutralScore
	}
	var sum float64
	for _, p := range parts {
		sum += p
	}
	return sum / float64(len(parts))
}

// liquidityScore uses listing days-on-market and the market's liquidity
// sub-score when available.
func (e *Engine) liquidityScore(d *deal.Deal, mm *market.Metrics) float64 {
	var parts []float64
	if d.Property != nil && d.Property.DaysOnMarket != nil {
		parts = append(parts, scaleDown(float64(*d.Property.DaysOnMarket), 7, 120))
	}
	if d.Market != nil {
		parts = append(parts, market.FromMarket(d.Market).LiquidityScore)
	} else if mm != nil {
		parts = append(parts, mm.LiquidityScore)
	}
	if len(parts) == 0 {
		return neutralScore
	}
	var sum float64
	for _, p := range parts {
		sum += p
	}
	return sum / float64(len(parts))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func scaleUp(v, lo, hi float64) float64 {
	return clamp((v-lo)/(hi-lo)*100, 0, 100)
}

func scaleDown(v, lo, hi float64) float64 {
	return 100 - scaleUp(v, lo, hi)
}
