package ranking

import (
	"math"
	"testing"

	"rei_analyzer/pkg/core/deal"
	"rei_analyzer/pkg/core/market"
	"rei_analyzer/pkg/core/sensitivity"
	"rei_analyzer/pkg/models"
)

func analyzedDeal(t *testing.T, id string, price, rent float64) *deal.Deal {
	t.Helper()
	p := &models.Property{ID: id, Price: price, EstimatedRent: rent}
	d := deal.FromProperty(p, nil, nil)
	if err := d.Analyze(); err != nil {
		t.Fatalf("analyze %s: %v", id, err)
	}
	return d
}

func fptr(v float64) *float64 { return &v }
func bptr(v bool) *bool       { return &v }

func sampleBatch(t *testing.T) []*deal.Deal {
	t.Helper()
	return []*deal.Deal{
		analyzedDeal(t, "great", 110000, 1500),  // ~1.36% rent-to-price
		analyzedDeal(t, "good", 150000, 1600),   // ~1.07%
		analyzedDeal(t, "middling", 220000, 1900),
		analyzedDeal(t, "weak", 400000, 2200),   // 0.55%, negative cash flow
	}
}

func TestRankingDeterminism(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	first := engine.RankDeals(sampleBatch(t), nil, false)
	second := engine.RankDeals(sampleBatch(t), nil, false)

	if len(first) != len(second) {
		t.Fatalf("run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("position %d differs: %s vs %s", i, first[i].ID, second[i].ID)
		}
		if first[i].Analysis.Score.Overall != second[i].Analysis.Score.Overall {
			t.Errorf("%s scored differently across runs", first[i].ID)
		}
	}
}

func TestRanksAreContiguousAndDescending(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	ranked := engine.RankDeals(sampleBatch(t), nil, false)

	if len(ranked) != 4 {
		t.Fatalf("expected 4 ranked deals, got %d", len(ranked))
	}
	for i, d := range ranked {
		if d.Analysis.Score.Rank == nil || *d.Analysis.Score.Rank != i+1 {
			t.Errorf("position %d has rank %v, want %d", i, d.Analysis.Score.Rank, i+1)
		}
		if i > 0 && ranked[i-1].Analysis.Score.Overall < d.Analysis.Score.Overall {
			t.Errorf("scores not descending at position %d", i)
		}
		if d.Analysis.Score.Percentile == nil || *d.Analysis.Score.Percentile <= 0 || *d.Analysis.Score.Percentile > 100 {
			t.Errorf("%s percentile out of range", d.ID)
		}
	}
	if ranked[0].ID != "great" {
		t.Errorf("strongest cash-flow deal should rank first, got %s", ranked[0].ID)
	}
}

func TestStableTieBreak(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	// Identical inputs produce identical scores; input order must survive.
	a := analyzedDeal(t, "twin-a", 150000, 1600)
	b := analyzedDeal(t, "twin-b", 150000, 1600)
	c := analyzedDeal(t, "twin-c", 150000, 1600)

	ranked := engine.RankDeals([]*deal.Deal{a, b, c}, nil, false)
	order := []string{ranked[0].ID, ranked[1].ID, ranked[2].ID}
	want := []string{"twin-a", "twin-b", "twin-c"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("tie order not stable: got %v", order)
		}
	}
}

func TestHardFilterGate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinCashOnCash = 0.08
	engine := NewEngine(cfg)

	batch := sampleBatch(t)
	ranked := engine.RankDeals(batch, nil, true)

	for _, d := range ranked {
		coc := d.Financials.Metrics.CashOnCashReturn
		if coc != nil && *coc < 0.08 {
			t.Errorf("deal %s with CoC %.3f passed the 8%% gate", d.ID, *coc)
		}
	}
	// The weak deal is excluded but still scored for diagnostics.
	for _, d := range batch {
		if d.ID == "weak" {
			if d.Analysis.Score == nil {
				t.Error("filtered deal should still carry a diagnostic score")
			}
		}
	}
}

func TestFilterExcludesTerminalStatuses(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	d := analyzedDeal(t, "rejected", 110000, 1500)
	if err := d.Transition(deal.StatusRejected); err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	ranked := engine.RankDeals([]*deal.Deal{d}, nil, true)
	if len(ranked) != 0 {
		t.Error("rejected deal should not appear in filtered rankings")
	}
	// Without filters the status is ignored.
	ranked = engine.RankDeals([]*deal.Deal{d}, nil, false)
	if len(ranked) != 1 {
		t.Error("unfiltered ranking should include rejected deals")
	}
}

func TestUnanalyzedDealsSkipped(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	raw := deal.FromProperty(&models.Property{ID: "raw", Price: 100000, EstimatedRent: 1200}, nil, nil)
	ranked := engine.RankDeals([]*deal.Deal{raw, analyzedDeal(t, "ok", 110000, 1500)}, nil, false)
	if len(ranked) != 1 || ranked[0].ID != "ok" {
		t.Errorf("expected only the analyzed deal, got %d deals", len(ranked))
	}
}

func TestMarketScoreFallbacks(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// No market anywhere: neutral.
	d := analyzedDeal(t, "no-market", 150000, 1600)
	score := engine.Score(d, nil)
	if score.Market != 50 {
		t.Errorf("expected neutral market score 50, got %.1f", score.Market)
	}

	// Batch metrics supplied: used as fallback.
	strongMarket := &models.Market{
		Name:            "Cleveland",
		MedianHomePrice: fptr(140000),
		MedianRent:      fptr(1300),
		JobGrowthRate:   fptr(0.025),
	}
	mm := market.FromMarket(strongMarket)
	score = engine.Score(d, mm)
	if score.Market != mm.OverallScore {
		t.Errorf("expected fallback to batch metrics %.1f, got %.1f", mm.OverallScore, score.Market)
	}

	// Deal-level market wins over batch metrics.
	d.Market = strongMarket
	score = engine.Score(d, &market.Metrics{OverallScore: 10})
	if score.Market != mm.OverallScore {
		t.Errorf("deal market should take precedence, got %.1f", score.Market)
	}
}

func TestRiskRatingLowersRiskScore(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	safe := analyzedDeal(t, "safe", 110000, 1500)
	safe.Analysis.RiskRating = sensitivity.RiskLow
	risky := analyzedDeal(t, "risky", 110000, 1500)
	risky.Analysis.RiskRating = sensitivity.RiskHigh

	if engine.Score(risky, nil).Risk >= engine.Score(safe, nil).Risk {
		t.Error("a high sensitivity rating should lower the risk sub-score")
	}
}

func TestStrategyReweighting(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	d := analyzedDeal(t, "strategies", 110000, 1500)
	score := engine.Score(d, nil)

	for _, name := range []string{StrategyCashFlow, StrategyAppreciation, StrategyValueAdd, StrategyBalanced} {
		if _, ok := score.StrategyScores[name]; !ok {
			t.Errorf("missing strategy score %s", name)
		}
	}
	if math.Abs(score.StrategyScores[StrategyBalanced]-score.Overall) > 1e-9 {
		t.Error("balanced strategy should equal the overall weighting")
	}

	// A financially excellent deal in a weak market should favor the
	// cash-flow strategy over appreciation.
	weakMarket := &models.Market{Name: "flat", MedianHomePrice: fptr(110000), MedianRent: fptr(1500), JobGrowthRate: fptr(-0.01), PriceGrowth1Yr: fptr(-0.04)}
	d.Market = weakMarket
	score = engine.Score(d, nil)
	if score.StrategyScores[StrategyCashFlow] <= score.StrategyScores[StrategyAppreciation] {
		t.Errorf("cash-flow strategy should outrank appreciation here: %.1f vs %.1f",
			score.StrategyScores[StrategyCashFlow], score.StrategyScores[StrategyAppreciation])
	}
}

func TestRankByStrategy(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	batch := sampleBatch(t)
	ranked := engine.RankDealsByStrategy(batch, StrategyCashFlow, nil, false)

	for i := 1; i < len(ranked); i++ {
		prev := ranked[i-1].Analysis.Score.StrategyScores[StrategyCashFlow]
		cur := ranked[i].Analysis.Score.StrategyScores[StrategyCashFlow]
		if prev < cur {
			t.Errorf("strategy ranking not descending at position %d", i)
		}
	}
}

func TestExplainScore(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	d := analyzedDeal(t, "explain", 150000, 1600)
	engine.RankDeals([]*deal.Deal{d}, nil, false)

	bd, err := engine.ExplainScore(d)
	if err != nil {
		t.Fatalf("explain failed: %v", err)
	}
	if len(bd.Components) != 4 {
		t.Fatalf("expected 4 components, got %d", len(bd.Components))
	}
	var total float64
	for _, c := range bd.Components {
		if math.Abs(c.Contribution-c.Score*c.Weight) > 1e-9 {
			t.Errorf("%s contribution inconsistent", c.Name)
		}
		total += c.Contribution
	}
	if math.Abs(total-bd.Overall) > 1e-9 {
		t.Errorf("contributions sum to %.4f, overall is %.4f", total, bd.Overall)
	}

	if _, err := engine.ExplainScore(deal.FromProperty(&models.Property{ID: "raw", Price: 1, EstimatedRent: 1}, nil, nil)); err == nil {
		t.Error("explaining an unanalyzed deal should fail")
	}
}

func TestInvalidConfigFallsBack(t *testing.T) {
	bad := Config{Weights: StrategyWeights{Financial: 0.9, Market: 0.9, Risk: 0.9, Liquidity: 0.9}}
	engine := NewEngine(bad)
	if engine.Config().Weights != DefaultConfig().Weights {
		t.Error("invalid config should fall back to defaults")
	}
}

func TestAbsentRatiosScoreNeutral(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// Cash purchase: no CoC denominator issue, but DSCR is absent. Scoring
	// must not panic and must treat absent sub-inputs as neutral.
	p := &models.Property{ID: "cash", Price: 120000, EstimatedRent: 1400}
	d := deal.FromProperty(p, nil, nil)
	d.Financials.Loan.DownPaymentPct = 1.0
	if err := d.Analyze(); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if d.Financials.Metrics.DSCR != nil {
		t.Fatal("fixture should have absent DSCR")
	}
	score := engine.Score(d, nil)
	if score.Overall <= 0 || score.Overall > 100 {
		t.Errorf("score out of range with absent ratios: %.1f", score.Overall)
	}
}

func TestScoresBounded(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	for i, d := range sampleBatch(t) {
		s := engine.Score(d, nil)
		for name, v := range map[string]float64{
			"financial": s.Financial, "market": s.Market, "risk": s.Risk,
			"liquidity": s.Liquidity, "overall": s.Overall,
		} {
			if v < 0 || v > 100 || math.IsNaN(v) {
				t.Errorf("deal %d: %s score %.2f out of [0,100]", i, name, v)
			}
		}
	}
}
