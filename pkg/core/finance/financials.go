package finance

// Financials binds a purchase price and rent to one set of loan terms and
// expense assumptions. Derived fields are computed once by Calculate and
// cached until inputs change; they are nil before the first Calculate call.
type Financials struct {
	PurchasePrice float64           `json:"purchase_price"`
	MonthlyRent   float64           `json:"monthly_rent"`
	Loan          LoanTerms         `json:"loan"`
	Expenses      OperatingExpenses `json:"expenses"`

	Metrics   *FinancialMetrics `json:"metrics,omitempty"`
	Breakdown *MonthlyBreakdown `json:"breakdown,omitempty"`
}

// NewFinancials constructs an uncalculated Financials aggregate.
func NewFinancials(price float64, rent float64, loan LoanTerms, expenses OperatingExpenses) *Financials {
	return &Financials{
		PurchasePrice: price,
		MonthlyRent:   rent,
		Loan:          loan,
		Expenses:      expenses,
	}
}

// Calculate recomputes and caches the derived metrics. It is idempotent:
// calling it twice with unchanged inputs yields identical results, and it
// fully overwrites the cache rather than accumulating prior state.
func (f *Financials) Calculate() error {
	metrics, breakdown, err := ComputeMetrics(f.PurchasePrice, f.MonthlyRent, f.Loan, f.Expenses)
	if err != nil {
		return err
	}
	f.Metrics = metrics
	f.Breakdown = breakdown
	return nil
}

// Calculated reports whether derived fields are populated.
func (f *Financials) Calculated() bool {
	return f.Metrics != nil && f.Breakdown != nil
}

// LoanAmount returns price x (1 - down payment fraction). Available without
// running Calculate since it depends only on inputs.
func (f *Financials) LoanAmount() float64 {
	return f.PurchasePrice * (1 - f.Loan.DownPaymentPct)
}

// Shadow returns a copy of the inputs with no cached results, for scenario
// analysis that must not disturb the primary Financials.
func (f *Financials) Shadow() *Financials {
	return &Financials{
		PurchasePrice: f.PurchasePrice,
		MonthlyRent:   f.MonthlyRent,
		Loan:          f.Loan,
		Expenses:      f.Expenses,
	}
}
