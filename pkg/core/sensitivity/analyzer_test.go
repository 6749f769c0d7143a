package sensitivity

import (
	"math"
	"testing"

	"rei_analyzer/pkg/core/deal"
	"rei_analyzer/pkg/core/finance"
	"rei_analyzer/pkg/models"
)

// strongDeal has wide positive cash flow: 1.3% rent-to-price.
func strongDeal(t *testing.T) *deal.Deal {
	t.Helper()
	p := &models.Property{ID: "strong", Price: 120000, EstimatedRent: 1550, MarketName: "Cleveland"}
	d := deal.FromProperty(p, nil, nil)
	if err := d.Analyze(); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	return d
}

// thinDeal sits just above break-even.
func thinDeal(t *testing.T) *deal.Deal {
	t.Helper()
	p := &models.Property{ID: "thin", Price: 300000, EstimatedRent: 3000, MarketName: "Tampa"}
	d := deal.FromProperty(p, nil, nil)
	if err := d.Analyze(); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	return d
}

// losingDeal is cash-flow negative at base case.
func losingDeal(t *testing.T) *deal.Deal {
	t.Helper()
	p := &models.Property{ID: "losing", Price: 450000, EstimatedRent: 2100, MarketName: "Austin"}
	d := deal.FromProperty(p, nil, nil)
	if err := d.Analyze(); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if d.Financials.Metrics.MonthlyCashFlow >= 0 {
		t.Fatalf("fixture should be cash-flow negative, got %.2f", d.Financials.Metrics.MonthlyCashFlow)
	}
	return d
}

func TestAnalyzeDoesNotMutateDeal(t *testing.T) {
	d := strongDeal(t)
	baseRate := d.Financials.Loan.InterestRate
	baseVacancy := d.Financials.Expenses.VacancyRate
	baseRent := d.Financials.MonthlyRent
	baseCF := d.Financials.Metrics.MonthlyCashFlow

	if _, err := NewAnalyzer().Analyze(d); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if d.Financials.Loan.InterestRate != baseRate {
		t.Error("interest rate mutated by sensitivity analysis")
	}
	if d.Financials.Expenses.VacancyRate != baseVacancy {
		t.Error("vacancy rate mutated by sensitivity analysis")
	}
	if d.Financials.MonthlyRent != baseRent {
		t.Error("rent mutated by sensitivity analysis")
	}
	if d.Financials.Metrics.MonthlyCashFlow != baseCF {
		t.Error("cached metrics mutated by sensitivity analysis")
	}
}

func TestScenarioMonotonicity(t *testing.T) {
	res, err := NewAnalyzer().Analyze(strongDeal(t))
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	base := res.BaseMonthlyCashFlow
	rate1 := res.Scenarios[ScenarioRatePlus1].MonthlyCashFlow
	rate2 := res.Scenarios[ScenarioRatePlus2].MonthlyCashFlow
	if !(rate2 <= rate1 && rate1 <= base) {
		t.Errorf("rate stress not monotone: base %.2f, +1%% %.2f, +2%% %.2f", base, rate1, rate2)
	}

	vac10 := res.Scenarios[ScenarioVacancy10].MonthlyCashFlow
	vac15 := res.Scenarios[ScenarioVacancy15].MonthlyCashFlow
	if !(vac15 <= vac10 && vac10 <= base) {
		t.Errorf("vacancy stress not monotone: base %.2f, 10%% %.2f, 15%% %.2f", base, vac10, vac15)
	}

	rent5 := res.Scenarios[ScenarioRentMinus5].MonthlyCashFlow
	rent10 := res.Scenarios[ScenarioRentMinus10].MonthlyCashFlow
	if !(rent10 <= rent5 && rent5 <= base) {
		t.Errorf("rent stress not monotone: base %.2f, -5%% %.2f, -10%% %.2f", base, rent5, rent10)
	}
}

func TestRiskRatingDecisionTable(t *testing.T) {
	cases := []struct {
		moderate, severe bool
		expected         string
	}{
		{true, true, RiskLow},
		{true, false, RiskMedium},
		{false, false, RiskHigh},
		{false, true, RiskHigh}, // Moderate failure dominates regardless of severe
	}
	for _, tc := range cases {
		if got := rateRisk(tc.moderate, tc.severe); got != tc.expected {
			t.Errorf("rateRisk(%v, %v) = %s, want %s", tc.moderate, tc.severe, got, tc.expected)
		}
	}
}

func TestRiskRatingConsistency(t *testing.T) {
	for _, d := range []*deal.Deal{strongDeal(t), thinDeal(t), losingDeal(t)} {
		res, err := NewAnalyzer().Analyze(d)
		if err != nil {
			t.Fatalf("analyze failed for %s: %v", d.ID, err)
		}
		if (res.RiskRating == RiskHigh) != !res.SurvivesModerateStress {
			t.Errorf("%s: high rating must coincide with moderate-stress failure", d.ID)
		}
		if (res.RiskRating == RiskLow) != (res.SurvivesModerateStress && res.SurvivesSevereStress) {
			t.Errorf("%s: low rating must coincide with surviving both composites", d.ID)
		}
	}
}

func TestBreakEvenAbsentWhenAlreadyNegative(t *testing.T) {
	res, err := NewAnalyzer().Analyze(losingDeal(t))
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if res.BreakEvenRate != nil || res.BreakEvenVacancy != nil || res.BreakEvenRent != nil {
		t.Error("break-even thresholds should be absent for a deal already underwater")
	}
	if res.RiskRating != RiskHigh {
		t.Errorf("underwater deal should rate high risk, got %s", res.RiskRating)
	}
}

func TestBreakEvenThresholdsCrossZero(t *testing.T) {
	a := NewAnalyzer()
	d := thinDeal(t)
	res, err := a.Analyze(d)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if res.BreakEvenVacancy == nil {
		t.Fatal("expected a vacancy break-even for a thin deal")
	}
	if *res.BreakEvenVacancy <= d.Financials.Expenses.VacancyRate || *res.BreakEvenVacancy > 1 {
		t.Errorf("vacancy break-even %.4f out of plausible range", *res.BreakEvenVacancy)
	}

	if res.BreakEvenRent == nil {
		t.Fatal("expected a rent break-even for a thin deal")
	}
	if *res.BreakEvenRent >= d.Financials.MonthlyRent || *res.BreakEvenRent < 0 {
		t.Errorf("rent break-even %.2f out of plausible range", *res.BreakEvenRent)
	}

	// Verify each threshold actually sits at ~zero cash flow.
	shadow := d.Financials.Shadow()
	shadow.Expenses.VacancyRate = *res.BreakEvenVacancy
	if err := shadow.Calculate(); err != nil {
		t.Fatalf("verification calc failed: %v", err)
	}
	if math.Abs(shadow.Metrics.MonthlyCashFlow) > 5 {
		t.Errorf("cash flow at vacancy break-even should be near zero, got %.2f", shadow.Metrics.MonthlyCashFlow)
	}
}

func TestBreakEvenRateAbsentWhenNeverCrossing(t *testing.T) {
	// A cash purchase has no rate exposure: cash flow never crosses zero in
	// the rate dimension.
	loan := finance.DefaultLoanTerms()
	loan.DownPaymentPct = 1.0
	loan.InterestRate = 0.07
	p := &models.Property{ID: "cash", Price: 120000, EstimatedRent: 1550}
	d := deal.New(p, finance.NewFinancials(p.Price, p.EstimatedRent, loan, finance.DefaultOperatingExpenses()))
	if err := d.Analyze(); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	res, err := NewAnalyzer().Analyze(d)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if res.BreakEvenRate != nil {
		t.Errorf("cash purchase should have no rate break-even, got %.4f", *res.BreakEvenRate)
	}
}

func TestAnalyzeRequiresCalculatedDeal(t *testing.T) {
	p := &models.Property{ID: "raw", Price: 100000, EstimatedRent: 1000}
	d := deal.FromProperty(p, nil, nil)
	if _, err := NewAnalyzer().Analyze(d); err == nil {
		t.Error("expected error for unanalyzed deal")
	}
}
