package finance

import (
	"fmt"
)

// LoanTerms captures the financing assumptions for a purchase.
// All fields are immutable inputs to the calculator.
type LoanTerms struct {
	DownPaymentPct float64 `json:"down_payment_pct" yaml:"down_payment_pct"` // Fraction of price [0,1]
	InterestRate   float64 `json:"interest_rate" yaml:"interest_rate"`       // Annual rate [0,0.25]
	TermYears      int     `json:"term_years" yaml:"term_years"`
	ClosingCostPct float64 `json:"closing_cost_pct" yaml:"closing_cost_pct"` // Fraction of price
	Points         float64 `json:"points" yaml:"points"`                     // Discount points (1 point = 1% of loan)
}

// OperatingExpenses captures recurring expense assumptions. Rates are annual
// fractions of purchase price unless noted; monthly figures divide by 12.
type OperatingExpenses struct {
	PropertyTaxRate float64 `json:"property_tax_rate" yaml:"property_tax_rate"`
	InsuranceRate   float64 `json:"insurance_rate" yaml:"insurance_rate"`
	VacancyRate     float64 `json:"vacancy_rate" yaml:"vacancy_rate"` // Fraction of scheduled rent
	MaintenanceRate float64 `json:"maintenance_rate" yaml:"maintenance_rate"`
	CapExRate       float64 `json:"capex_rate" yaml:"capex_rate"`
	ManagementRate  float64 `json:"management_rate" yaml:"management_rate"` // Fraction of collected rent
	MonthlyHOA      float64 `json:"monthly_hoa" yaml:"monthly_hoa"`         // Fixed dollars
}

// DefaultLoanTerms returns conventional investor financing: 25% down,
// 30-year fixed at 7%, 3% closing costs, no points.
func DefaultLoanTerms() LoanTerms {
	return LoanTerms{
		DownPaymentPct: 0.25,
		InterestRate:   0.07,
		TermYears:      30,
		ClosingCostPct: 0.03,
		Points:         0,
	}
}

// DefaultOperatingExpenses returns typical single-family assumptions.
func DefaultOperatingExpenses() OperatingExpenses {
	return OperatingExpenses{
		PropertyTaxRate: 0.012,
		InsuranceRate:   0.005,
		VacancyRate:     0.05,
		MaintenanceRate: 0.01,
		CapExRate:       0.01,
		ManagementRate:  0.08,
		MonthlyHOA:      0,
	}
}

// Validate rejects structurally invalid loan terms.
func (l LoanTerms) Validate() error {
	if l.DownPaymentPct < 0 || l.DownPaymentPct > 1 {
		return fmt.Errorf("down payment fraction %.4f out of range [0,1]", l.DownPaymentPct)
	}
	if l.InterestRate < 0 || l.InterestRate > 0.25 {
		return fmt.Errorf("interest rate %.4f out of range [0,0.25]", l.InterestRate)
	}
	if l.TermYears < 0 {
		return fmt.Errorf("loan term %d years is negative", l.TermYears)
	}
	if l.ClosingCostPct < 0 {
		return fmt.Errorf("closing cost fraction %.4f is negative", l.ClosingCostPct)
	}
	if l.Points < 0 {
		return fmt.Errorf("discount points %.2f is negative", l.Points)
	}
	return nil
}

// Validate rejects structurally invalid expense assumptions.
func (o OperatingExpenses) Validate() error {
	if o.VacancyRate < 0 || o.VacancyRate > 1 {
		return fmt.Errorf("vacancy rate %.4f out of range [0,1]", o.VacancyRate)
	}
	for name, rate := range map[string]float64{
		"property tax rate": o.PropertyTaxRate,
		"insurance rate":    o.InsuranceRate,
		"maintenance rate":  o.MaintenanceRate,
		"capex rate":        o.CapExRate,
		"management rate":   o.ManagementRate,
	} {
		if rate < 0 {
			return fmt.Errorf("%s %.4f is negative", name, rate)
		}
	}
	if o.MonthlyHOA < 0 {
		return fmt.Errorf("monthly HOA %.2f is negative", o.MonthlyHOA)
	}
	return nil
}
