package sensitivity

import (
	"fmt"

	"rei_analyzer/pkg/core/deal"
	"rei_analyzer/pkg/core/finance"
)

// Scenario names. Identity, not position, determines what a scenario means;
// results are keyed by name so they stay order-independent.
const (
	ScenarioRatePlus1   = "rate_plus_1"
	ScenarioRatePlus2   = "rate_plus_2"
	ScenarioVacancy10   = "vacancy_10"
	ScenarioVacancy15   = "vacancy_15"
	ScenarioRentMinus5  = "rent_minus_5"
	ScenarioRentMinus10 = "rent_minus_10"
	ScenarioModerate    = "moderate_stress"
	ScenarioSevere      = "severe_stress"
)

// Risk ratings form a strict decision table over the composite scenarios.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// ScenarioResult records one stressed recomputation.
type ScenarioResult struct {
	Name            string  `json:"name"`
	MonthlyCashFlow float64 `json:"monthly_cash_flow"`
	Survives        bool    `json:"survives"` // Cash flow >= 0 under stress
}

// Result is the full stress-test output for a deal.
type Result struct {
	BaseMonthlyCashFlow float64  `json:"base_monthly_cash_flow"`
	BaseCashOnCash      *float64 `json:"base_cash_on_cash,omitempty"`
	BaseCapRate         *float64 `json:"base_cap_rate,omitempty"`

	Scenarios map[string]ScenarioResult `json:"scenarios"`

	SurvivesModerateStress bool `json:"survives_moderate_stress"`
	SurvivesSevereStress   bool `json:"survives_severe_stress"`

	// Break-even thresholds: the input value at which cash flow crosses zero
	// holding everything else at base case. Absent when base cash flow is
	// already negative or no crossing exists within the search bound.
	BreakEvenRate    *float64 `json:"break_even_rate,omitempty"`
	BreakEvenVacancy *float64 `json:"break_even_vacancy,omitempty"`
	BreakEvenRent    *float64 `json:"break_even_rent,omitempty"`

	RiskRating string `json:"risk_rating"`
}

// SearchConfig bounds the break-even scans. The scan steps a single input
// until cash flow goes negative, then linearly interpolates the crossing.
type SearchConfig struct {
	RateStep    float64 // Default 0.0005
	RateSpan    float64 // Searched range above base rate, default 0.10
	VacancyStep float64 // Default 0.005, searched over [base, 1]
	RentStep    float64 // Dollar step downward, default 10
}

// DefaultSearchConfig returns the documented scan constants.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		RateStep:    0.0005,
		RateSpan:    0.10,
		VacancyStep: 0.005,
		RentStep:    10,
	}
}

// Analyzer runs stress scenarios against a deal's financials. It never
// mutates the deal: every scenario operates on a shadow copy.
type Analyzer struct {
	Search SearchConfig
}

// NewAnalyzer returns an analyzer with default search bounds.
func NewAnalyzer() *Analyzer {
	return &Analyzer{Search: DefaultSearchConfig()}
}

// Analyze stress-tests an analyzed deal. The deal must have calculated
// financials; the primary Financials are left untouched.
func (a *Analyzer) Analyze(d *deal.Deal) (*Result, error) {
	if d == nil || d.Financials == nil {
		return nil, fmt.Errorf("sensitivity analysis requires a deal with financials")
	}
	base := d.Financials
	if !base.Calculated() {
		return nil, fmt.Errorf("deal %s has not been analyzed yet", d.ID)
	}

	res := &Result{
		BaseMonthlyCashFlow: base.Metrics.MonthlyCashFlow,
		BaseCashOnCash:      base.Metrics.CashOnCashReturn,
		BaseCapRate:         base.Metrics.CapRate,
		Scenarios:           make(map[string]ScenarioResult),
	}

	scenarios := map[string]func(*finance.Financials){
		ScenarioRatePlus1: func(f *finance.Financials) { f.Loan.InterestRate += 0.01 },
		ScenarioRatePlus2: func(f *finance.Financials) { f.Loan.InterestRate += 0.02 },
		// Vacancy scenarios are absolute overrides, not additive bumps.
		ScenarioVacancy10:   func(f *finance.Financials) { f.Expenses.VacancyRate = 0.10 },
		ScenarioVacancy15:   func(f *finance.Financials) { f.Expenses.VacancyRate = 0.15 },
		ScenarioRentMinus5:  func(f *finance.Financials) { f.MonthlyRent *= 0.95 },
		ScenarioRentMinus10: func(f *finance.Financials) { f.MonthlyRent *= 0.90 },
		ScenarioModerate: func(f *finance.Financials) {
			f.Loan.InterestRate += 0.01
			f.Expenses.VacancyRate = 0.10
			f.MonthlyRent *= 0.97
		},
		ScenarioSevere: func(f *finance.Financials) {
			f.Loan.InterestRate += 0.02
			f.Expenses.VacancyRate = 0.15
			f.MonthlyRent *= 0.93
		},
	}

	for name, perturb := range scenarios {
		cf, err := a.stressedCashFlow(base, perturb)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", name, err)
		}
		res.Scenarios[name] = ScenarioResult{
			Name:            name,
			MonthlyCashFlow: cf,
			Survives:        cf >= 0,
		}
	}

	res.SurvivesModerateStress = res.Scenarios[ScenarioModerate].Survives
	res.SurvivesSevereStress = res.Scenarios[ScenarioSevere].Survives
	res.RiskRating = rateRisk(res.SurvivesModerateStress, res.SurvivesSevereStress)

	// Break-even searches only make sense from a surviving base case.
	if res.BaseMonthlyCashFlow >= 0 {
		res.BreakEvenRate = a.searchBreakEvenRate(base)
		res.BreakEvenVacancy = a.searchBreakEvenVacancy(base)
		res.BreakEvenRent = a.searchBreakEvenRent(base)
	}

	return res, nil
}

// stressedCashFlow recomputes cash flow on a shadow copy with one
// perturbation applied. Perturbations may push inputs past validation limits
// (e.g. base rate 0.24 + 0.02); those are clamped into range rather than
// treated as caller errors.
func (a *Analyzer) stressedCashFlow(base *finance.Financials, perturb func(*finance.Financials)) (float64, error) {
	shadow := base.Shadow()
	perturb(shadow)
	if shadow.Loan.InterestRate > 0.25 {
		shadow.Loan.InterestRate = 0.25
	}
	if shadow.Expenses.VacancyRate > 1 {
		shadow.Expenses.VacancyRate = 1
	}
	if err := shadow.Calculate(); err != nil {
		return 0, err
	}
	return shadow.Metrics.MonthlyCashFlow, nil
}

// rateRisk implements the decision table: high iff moderate stress fails,
// low iff both composites survive, medium otherwise.
func rateRisk(moderate, severe bool) string {
	switch {
	case !moderate:
		return RiskHigh
	case severe:
		return RiskLow
	default:
		return RiskMedium
	}
}

// interpolate locates the zero crossing between the last surviving step
// (prevX, prevCF >= 0) and the first failing step (x, cf < 0).
func interpolate(prevX, prevCF, x, cf float64) float64 {
	if prevCF == cf {
		return x
	}
	return prevX + (x-prevX)*(prevCF/(prevCF-cf))
}

func (a *Analyzer) searchBreakEvenRate(base *finance.Financials) *float64 {
	prevX := base.Loan.InterestRate
	prevCF := base.Metrics.MonthlyCashFlow
	limit := base.Loan.InterestRate + a.Search.RateSpan
	for x := prevX + a.Search.RateStep; x <= limit; x += a.Search.RateStep {
		cf, err := a.stressedCashFlow(base, func(f *finance.Financials) { f.Loan.InterestRate = x })
		if err != nil {
			return nil
		}
		if cf < 0 {
			be := interpolate(prevX, prevCF, x, cf)
			return &be
		}
		prevX, prevCF = x, cf
	}
	return nil
}

func (a *Analyzer) searchBreakEvenVacancy(base *finance.Financials) *float64 {
	prevX := base.Expenses.VacancyRate
	prevCF := base.Metrics.MonthlyCashFlow
	for x := prevX + a.Search.VacancyStep; x <= 1.0; x += a.Search.VacancyStep {
		cf, err := a.stressedCashFlow(base, func(f *finance.Financials) { f.Expenses.VacancyRate = x })
		if err != nil {
			return nil
		}
		if cf < 0 {
			be := interpolate(prevX, prevCF, x, cf)
			return &be
		}
		prevX, prevCF = x, cf
	}
	return nil
}

func (a *Analyzer) searchBreakEvenRent(base *finance.Financials) *float64 {
	prevX := base.MonthlyRent
	prevCF := base.Metrics.MonthlyCashFlow
	for x := prevX - a.Search.RentStep; x >= 0; x -= a.Search.RentStep {
		cf, err := a.stressedCashFlow(base, func(f *finance.Financials) { f.MonthlyRent = x })
		if err != nil {
			return nil
		}
		if cf < 0 {
			be := interpolate(prevX, prevCF, x, cf)
			return &be
		}
		prevX, prevCF = x, cf
	}
	return nil
}
