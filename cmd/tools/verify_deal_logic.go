package main

import (
	"fmt"
	"math"
	"os"

	"rei_analyzer/pkg/core/deal"
	"rei_analyzer/pkg/core/finance"
	"rei_analyzer/pkg/core/ranking"
	"rei_analyzer/pkg/core/sensitivity"
	"rei_analyzer/pkg/models"
)

// Standalone sanity check of the underwriting math against hand-computed
// figures. Run when touching the calculator or scoring constants.
func main() {
	failures := 0
	check := func(name string, got, want, tol float64) {
		status := "OK"
		if math.Abs(got-want) > tol {
			status = "FAIL"
			failures++
		}
		fmt.Printf("  [%s] %-38s got %12.4f want %12.4f\n", status, name, got, want)
	}

	fmt.Println("--- Mortgage payment ---")
	// $200,000 at 7% over 30 years: the textbook case.
	check("200k/7%/30y", finance.MonthlyPayment(200000, 0.07, 30), 1330.60, 1.0)
	check("zero rate straight-line", finance.MonthlyPayment(120000, 0, 30), 333.33, 0.01)
	check("cash purchase", finance.MonthlyPayment(0, 0.07, 30), 0, 0)

	fmt.Println("--- Full underwriting: $250k, $1800/mo, defaults ---")
	metrics, bd, err := finance.ComputeMetrics(250000, 1800, finance.DefaultLoanTerms(), finance.DefaultOperatingExpenses())
	if err != nil {
		fmt.Printf("  [FAIL] ComputeMetrics: %v\n", err)
		os.Exit(1)
	}
	check("down payment", metrics.DownPayment, 62500, 0.01)
	check("loan amount", metrics.LoanAmount, 187500, 0.01)
	check("mortgage", bd.Mortgage, 1247.44, 2.0)
	check("effective rent", bd.EffectiveRent, 1710, 0.01)
	check("rent-to-price", metrics.RentToPriceRatio, 0.0072, 0.00001)

	fmt.Println("--- End-to-end deal ---")
	d := deal.FromProperty(&models.Property{
		ID: "verify", Address: "1 Verification Way", City: "Cleveland", State: "OH",
		Price: 130000, EstimatedRent: 1450,
	}, nil, nil)
	if err := d.Analyze(); err != nil {
		fmt.Printf("  [FAIL] Analyze: %v\n", err)
		os.Exit(1)
	}
	if d.Financials.Metrics.MonthlyCashFlow <= 0 {
		fmt.Println("  [FAIL] strong deal should cash flow positive")
		failures++
	} else {
		fmt.Printf("  [OK]   cash flow $%.2f/mo\n", d.Financials.Metrics.MonthlyCashFlow)
	}

	stress, err := sensitivity.NewAnalyzer().Analyze(d)
	if err != nil {
		fmt.Printf("  [FAIL] Sensitivity: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  [OK]   stress risk: %s (moderate=%v severe=%v)\n",
		stress.RiskRating, stress.SurvivesModerateStress, stress.SurvivesSevereStress)
	if stress.BreakEvenRent != nil {
		fmt.Printf("  [OK]   break-even rent $%.0f/mo\n", *stress.BreakEvenRent)
	}

	engine := ranking.NewEngine(ranking.DefaultConfig())
	score := engine.Score(d, nil)
	if score.Overall < 0 || score.Overall > 100 {
		fmt.Printf("  [FAIL] score %.1f out of bounds\n", score.Overall)
		failures++
	} else {
		fmt.Printf("  [OK]   overall score %.1f (fin %.1f, mkt %.1f, risk %.1f, liq %.1f)\n",
			score.Overall, score.Financial, score.Market, score.Risk, score.Liquidity)
	}

	if failures > 0 {
		fmt.Printf("\n%d check(s) failed\n", failures)
		os.Exit(1)
	}
	fmt.Println("\nAll checks passed")
}
