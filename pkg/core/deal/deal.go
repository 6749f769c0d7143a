package deal

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"rei_analyzer/pkg/core/finance"
	"rei_analyzer/pkg/models"
)

// Deal aggregates one property, its financing assumptions, and (optionally)
// the market it sits in, together with the mutable state accumulated while
// the deal moves through the pipeline.
type Deal struct {
	ID         string              `json:"id"`
	Property   *models.Property    `json:"property"`
	Financials *finance.Financials `json:"financials"`
	Market     *models.Market      `json:"market,omitempty"`
	Analysis   AnalysisState       `json:"analysis"`
}

// AnalysisState is rebuilt in full on every Analyze call; the qualitative
// lists are cleared and regenerated, never appended across calls.
type AnalysisState struct {
	Status       Status     `json:"status"`
	Score        *DealScore `json:"score,omitempty"`
	Pros         []string   `json:"pros,omitempty"`
	Cons         []string   `json:"cons,omitempty"`
	RedFlags     []string   `json:"red_flags,omitempty"`
	Notes        []string   `json:"notes,omitempty"`
	RiskRating   string     `json:"risk_rating,omitempty"` // Set when sensitivity has been run
	FirstSeen    time.Time  `json:"first_seen"`
	LastAnalyzed *time.Time `json:"last_analyzed,omitempty"`
}

// New creates a deal in NEW status from a property and financing assumptions.
func New(p *models.Property, fin *finance.Financials) *Deal {
	id := p.ID
	if id == "" {
		id = uuid.New().String()
	}
	return &Deal{
		ID:         id,
		Property:   p,
		Financials: fin,
		Analysis: AnalysisState{
			Status:    StatusNew,
			FirstSeen: time.Now(),
		},
	}
}

// FromProperty builds a deal using the listing price and estimated rent with
// the supplied assumptions (defaults when nil).
func FromProperty(p *models.Property, loan *finance.LoanTerms, expenses *finance.OperatingExpenses) *Deal {
	l := finance.DefaultLoanTerms()
	if loan != nil {
		l = *loan
	}
	e := finance.DefaultOperatingExpenses()
	if expenses != nil {
		e = *expenses
	}
	return New(p, finance.NewFinancials(p.Price, p.EstimatedRent, l, e))
}

// Analyze recomputes the financial metrics and rebuilds the qualitative
// assessment. It is idempotent: repeated calls with unchanged inputs produce
// the same state (modulo the LastAnalyzed timestamp), and derived lists are
// fully overwritten each time.
func (d *Deal) Analyze() error {
	if d.Financials == nil {
		return fmt.Errorf("deal %s has no financials attached", d.ID)
	}
	if err := d.Financials.Calculate(); err != nil {
		return fmt.Errorf("deal %s: %w", d.ID, err)
	}

	// Overwrite, never append.
	d.Analysis.Pros = nil
	d.Analysis.Cons = nil
	d.Analysis.RedFlags = nil
	d.Analysis.Notes = nil
	d.buildAssessment()

	now := time.Now()
	d.Analysis.LastAnalyzed = &now
	if d.Analysis.Status == StatusNew || d.Analysis.Status == StatusScreened {
		d.Analysis.Status = StatusAnalyzed
	}
	return nil
}

// buildAssessment derives the pros/cons/red-flags lists from the current
// metrics. Thresholds use raw fractions throughout (1% rule = 0.01).
func (d *Deal) buildAssessment() {
	m := d.Financials.Metrics
	a := &d.Analysis

	if m.MonthlyCashFlow > 0 {
		a.Pros = append(a.Pros, fmt.Sprintf("Positive monthly cash flow of $%.0f", m.MonthlyCashFlow))
	} else {
		a.RedFlags = append(a.RedFlags, fmt.Sprintf("Negative monthly cash flow of $%.0f", m.MonthlyCashFlow))
	}

	if m.RentToPriceRatio >= 0.01 {
		a.Pros = append(a.Pros, fmt.Sprintf("Meets the 1%% rule (rent-to-price %.2f%%)", m.RentToPriceRatio*100))
	} else if m.RentToPriceRatio < 0.006 {
		a.Cons = append(a.Cons, fmt.Sprintf("Weak rent-to-price ratio (%.2f%%)", m.RentToPriceRatio*100))
	}

	if m.CashOnCashReturn != nil {
		if *m.CashOnCashReturn >= 0.10 {
			a.Pros = append(a.Pros, fmt.Sprintf("Cash-on-cash return of %.1f%%", *m.CashOnCashReturn*100))
		} else if *m.CashOnCashReturn < 0.04 {
			a.Cons = append(a.Cons, fmt.Sprintf("Cash-on-cash return of only %.1f%%", *m.CashOnCashReturn*100))
		}
	}

	if m.DSCR != nil && *m.DSCR < 1.2 {
		a.Cons = append(a.Cons, fmt.Sprintf("DSCR %.2f below typical lender threshold of 1.2", *m.DSCR))
	}

	if m.BreakEvenOccupancy != nil && *m.BreakEvenOccupancy > 0.95 {
		a.RedFlags = append(a.RedFlags, fmt.Sprintf("Break-even occupancy of %.0f%% leaves no margin for vacancy", *m.BreakEvenOccupancy*100))
	}

	if d.Property != nil {
		if d.Property.YearBuilt > 0 && d.Property.YearBuilt < 1950 {
			a.Cons = append(a.Cons, fmt.Sprintf("Older construction (built %d), expect elevated maintenance", d.Property.YearBuilt))
		}
		if d.Property.DaysOnMarket != nil && *d.Property.DaysOnMarket > 90 {
			a.Notes = append(a.Notes, fmt.Sprintf("On market %d days; seller may be negotiable", *d.Property.DaysOnMarket))
		}
	}
}

// Transition moves the deal to the next pipeline status, enforcing the
// state machine.
func (d *Deal) Transition(next Status) error {
	if !d.Analysis.Status.CanTransition(next) {
		return fmt.Errorf("illegal status transition %s -> %s for deal %s", d.Analysis.Status, next, d.ID)
	}
	d.Analysis.Status = next
	return nil
}
