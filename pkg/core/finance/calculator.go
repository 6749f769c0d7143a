package finance

import (
	"fmt"
	"math"
)

// MonthlyBreakdown is the intermediate dollar breakdown behind the metrics.
type MonthlyBreakdown struct {
	Mortgage       float64 `json:"mortgage"`
	Taxes          float64 `json:"taxes"`
	Insurance      float64 `json:"insurance"`
	HOA            float64 `json:"hoa"`
	Maintenance    float64 `json:"maintenance"`
	CapEx          float64 `json:"capex"`
	VacancyReserve float64 `json:"vacancy_reserve"`
	Management     float64 `json:"management"`
	TotalExpenses  float64 `json:"total_expenses"`
	EffectiveRent  float64 `json:"effective_rent"` // Scheduled rent net of vacancy
}

// FinancialMetrics is the read-only output of the calculator. Ratios that are
// undefined for the given inputs (zero cash invested, zero debt service, zero
// rent) are nil rather than NaN or zero, and downstream consumers treat nil
// as "unknown".
type FinancialMetrics struct {
	LoanAmount        float64 `json:"loan_amount"`
	DownPayment       float64 `json:"down_payment"`
	ClosingCosts      float64 `json:"closing_costs"`
	PointsCost        float64 `json:"points_cost"`
	TotalCashInvested float64 `json:"total_cash_invested"`

	MonthlyCashFlow float64 `json:"monthly_cash_flow"`
	AnnualCashFlow  float64 `json:"annual_cash_flow"`
	NOI             float64 `json:"noi"` // Annual net operating income

	CashOnCashReturn    *float64 `json:"cash_on_cash_return,omitempty"`
	CapRate             *float64 `json:"cap_rate,omitempty"`
	GrossRentMultiplier *float64 `json:"gross_rent_multiplier,omitempty"`
	RentToPriceRatio    float64  `json:"rent_to_price_ratio"` // Raw fraction, e.g. 0.0072
	BreakEvenOccupancy  *float64 `json:"break_even_occupancy,omitempty"`
	DSCR                *float64 `json:"dscr,omitempty"`
}

// MonthlyPayment computes the standard amortizing principal+interest payment.
// Zero principal or zero term is a defined zero-payment case (cash purchase),
// not an error; zero rate falls back to straight-line principal repayment.
func MonthlyPayment(principal float64, annualRate float64, termYears int) float64 {
	n := float64(termYears * 12)
	if principal == 0 || n == 0 {
		return 0
	}
	r := annualRate / 12
	if r == 0 {
		return principal / n
	}
	factor := math.Pow(1+r, n)
	return principal * r * factor / (factor - 1)
}

// ComputeMetrics produces a complete FinancialMetrics snapshot plus the
// monthly dollar breakdown for a property purchase. It is a deterministic
// pure function: identical inputs yield bit-identical outputs.
func ComputeMetrics(price float64, monthlyRent float64, loan LoanTerms, expenses OperatingExpenses) (*FinancialMetrics, *MonthlyBreakdown, error) {
	if price <= 0 {
		return nil, nil, fmt.Errorf("purchase price %.2f must be positive", price)
	}
	if monthlyRent < 0 {
		return nil, nil, fmt.Errorf("monthly rent %.2f must be non-negative", monthlyRent)
	}
	if err := loan.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid loan terms: %w", err)
	}
	if err := expenses.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid operating expenses: %w", err)
	}

	loanAmount := price * (1 - loan.DownPaymentPct)
	downPayment := price * loan.DownPaymentPct
	closingCosts := price * loan.ClosingCostPct
	pointsCost := loanAmount * (loan.Points / 100)
	totalCashInvested := downPayment + closingCosts + pointsCost

	effectiveRent := monthlyRent * (1 - expenses.VacancyRate)

	bd := &MonthlyBreakdown{
		Mortgage:       MonthlyPayment(loanAmount, loan.InterestRate, loan.TermYears),
		Taxes:          price * expenses.PropertyTaxRate / 12,
		Insurance:      price * expenses.InsuranceRate / 12,
		HOA:            expenses.MonthlyHOA,
		Maintenance:    price * expenses.MaintenanceRate / 12,
		CapEx:          price * expenses.CapExRate / 12,
		VacancyReserve: monthlyRent * expenses.VacancyRate,
		Management:     effectiveRent * expenses.ManagementRate,
		EffectiveRent:  effectiveRent,
	}
	bd.TotalExpenses = bd.Mortgage + bd.Taxes + bd.Insurance + bd.HOA +
		bd.Maintenance + bd.CapEx + bd.VacancyReserve + bd.Management

	// NOI excludes debt service and the vacancy reserve line: effective rent
	// already nets out vacancy, so counting the reserve again would double it.
	monthlyOperating := bd.Taxes + bd.Insurance + bd.HOA + bd.Maintenance + bd.CapEx + bd.Management
	noi := (effectiveRent - monthlyOperating) * 12

	monthlyCashFlow := effectiveRent - bd.TotalExpenses
	annualDebtService := bd.Mortgage * 12

	m := &FinancialMetrics{
		LoanAmount:        loanAmount,
		DownPayment:       downPayment,
		ClosingCosts:      closingCosts,
		PointsCost:        pointsCost,
		TotalCashInvested: totalCashInvested,
		MonthlyCashFlow:   monthlyCashFlow,
		AnnualCashFlow:    monthlyCashFlow * 12,
		NOI:               noi,
		RentToPriceRatio:  monthlyRent / price,
	}

	if totalCashInvested > 0 {
		coc := m.AnnualCashFlow / totalCashInvested
		m.CashOnCashReturn = &coc
	}
	capRate := noi / price
	m.CapRate = &capRate
	if monthlyRent > 0 {
		grm := price / (monthlyRent * 12)
		m.GrossRentMultiplier = &grm
		beo := bd.TotalExpenses / monthlyRent
		m.BreakEvenOccupancy = &beo
	}
	if annualDebtService > 0 {
		dscr := noi / annualDebtService
		m.DSCR = &dscr
	}

	return m, bd, nil
}
