package report

import (
	"fmt"
	"strings"

	"rei_analyzer/pkg/core/deal"
	"rei_analyzer/pkg/core/ranking"
	"rei_analyzer/pkg/core/sensitivity"
	"rei_analyzer/pkg/core/utils"
)

// Memo renders an analyzed deal into a markdown investment memo. This is a
// deterministic template over computed figures, not generated prose: two
// identical deal states render to identical memos.

// MemoInput carries the optional extras beyond the deal itself. Nil sections
// are simply omitted from the memo.
type MemoInput struct {
	Deal        *deal.Deal
	Breakdown   *ranking.Breakdown
	Sensitivity *sensitivity.Result
}

// RenderMemo produces the markdown memo.
func RenderMemo(in MemoInput) (string, error) {
	d := in.Deal
	if d == nil || d.Property == nil {
		return "", fmt.Errorf("memo requires a deal with a property")
	}
	if d.Financials == nil || !d.Financials.Calculated() {
		return "", fmt.Errorf("deal %s must be analyzed before rendering a memo", d.ID)
	}
	m := d.Financials.Metrics
	bd := d.Financials.Breakdown

	var b strings.Builder
	fmt.Fprintf(&b, "# Investment Memo: %s\n\n", propertyTitle(d))
	fmt.Fprintf(&b, "Status: **%s**", d.Analysis.Status)
	if d.Analysis.Score != nil {
		fmt.Fprintf(&b, " | Overall score: **%.1f**", d.Analysis.Score.Overall)
		if d.Analysis.Score.Rank != nil {
			fmt.Fprintf(&b, " (rank %d", *d.Analysis.Score.Rank)
			if d.Analysis.Score.Percentile != nil {
				fmt.Fprintf(&b, ", %.0fth percentile", *d.Analysis.Score.Percentile)
			}
			b.WriteString(")")
		}
	}
	if d.Analysis.RiskRating != "" {
		fmt.Fprintf(&b, " | Stress risk: **%s**", d.Analysis.RiskRating)
	}
	b.WriteString("\n\n")

	b.WriteString("## Purchase\n\n")
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Price | $%.0f |\n", d.Property.Price)
	fmt.Fprintf(&b, "| Estimated rent | $%.0f/mo |\n", d.Property.EstimatedRent)
	fmt.Fprintf(&b, "| Down payment | $%.0f |\n", m.DownPayment)
	fmt.Fprintf(&b, "| Loan amount | $%.0f |\n", m.LoanAmount)
	fmt.Fprintf(&b, "| Total cash invested | $%.0f |\n", m.TotalCashInvested)

	b.WriteString("\n## Monthly Operations\n\n")
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Effective rent | $%.2f |\n", bd.EffectiveRent)
	fmt.Fprintf(&b, "| Mortgage (P&I) | $%.2f |\n", bd.Mortgage)
	fmt.Fprintf(&b, "| Taxes + insurance | $%.2f |\n", bd.Taxes+bd.Insurance)
	fmt.Fprintf(&b, "| Reserves (maint/capex/vacancy) | $%.2f |\n", bd.Maintenance+bd.CapEx+bd.VacancyReserve)
	fmt.Fprintf(&b, "| Management | $%.2f |\n", bd.Management)
	fmt.Fprintf(&b, "| **Cash flow** | **$%.2f** |\n", m.MonthlyCashFlow)

	b.WriteString("\n## Return Metrics\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| NOI | $%.0f/yr |\n", m.NOI)
	fmt.Fprintf(&b, "| Rent-to-price | %.2f%% |\n", m.RentToPriceRatio*100)
	writeMetricRow(&b, "Cash-on-cash", m.CashOnCashReturn, "%.1f%%", 100)
	writeMetricRow(&b, "Cap rate", m.CapRate, "%.1f%%", 100)
	writeMetricRow(&b, "DSCR", m.DSCR, "%.2f", 1)
	writeMetricRow(&b, "Gross rent multiplier", m.GrossRentMultiplier, "%.1f", 1)
	writeMetricRow(&b, "Break-even occupancy", m.BreakEvenOccupancy, "%.0f%%", 100)

	if in.Sensitivity != nil {
		writeSensitivity(&b, in.Sensitivity)
	}
	if in.Breakdown != nil {
		writeBreakdown(&b, in.Breakdown)
	}
	writeAssessment(&b, d)

	memo := b.String()
	if !utils.ValidateMarkdown(memo) {
		return "", fmt.Errorf("rendered memo failed markdown validation")
	}
	return memo, nil
}

// RenderMemoHTML renders the memo and converts it to HTML for the API layer.
func RenderMemoHTML(in MemoInput) (string, error) {
	memo, err := RenderMemo(in)
	if err != nil {
		return "", err
	}
	return utils.RenderMarkdownHTML(memo)
}

func propertyTitle(d *deal.Deal) string {
	p := d.Property
	if p.Address != "" {
		return fmt.Sprintf("%s, %s %s", p.Address, p.City, p.State)
	}
	return d.ID
}

func writeMetricRow(b *strings.Builder, label string, v *float64, format string, scale float64) {
	if v == nil {
		fmt.Fprintf(b, "| %s | n/a |\n", label)
		return
	}
	fmt.Fprintf(b, "| %s | "+format+" |\n", label, *v*scale)
}

func writeSensitivity(b *strings.Builder, s *sensitivity.Result) {
	b.WriteString("\n## Stress Test\n\n")
	fmt.Fprintf(b, "Base cash flow $%.2f/mo. Survives moderate stress: %s. Survives severe stress: %s.\n\n",
		s.BaseMonthlyCashFlow, yesNo(s.SurvivesModerateStress), yesNo(s.SurvivesSevereStress))

	b.WriteString("| Threshold | Value |\n|---|---|\n")
	writeMetricRow(b, "Break-even interest rate", s.BreakEvenRate, "%.2f%%", 100)
	writeMetricRow(b, "Break-even vacancy", s.BreakEvenVacancy, "%.1f%%", 100)
	writeMetricRow(b, "Break-even rent", s.BreakEvenRent, "$%.0f/mo", 1)
}

func writeBreakdown(b *strings.Builder, bd *ranking.Breakdown) {
	b.WriteString("\n## Score Breakdown\n\n")
	b.WriteString("| Component | Score | Weight | Contribution |\n|---|---|---|---|\n")
	for _, c := range bd.Components {
		fmt.Fprintf(b, "| %s | %.1f | %.2f | %.1f |\n", c.Name, c.Score, c.Weight, c.Contribution)
	}
	fmt.Fprintf(b, "\nOverall: **%.1f**\n", bd.Overall)
}

func writeAssessment(b *strings.Builder, d *deal.Deal) {
	writeList(b, "Pros", d.Analysis.Pros)
	writeList(b, "Cons", d.Analysis.Cons)
	writeList(b, "Red Flags", d.Analysis.RedFlags)
	writeList(b, "Notes", d.Analysis.Notes)
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n", heading)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
