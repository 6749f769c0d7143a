package research

import (
	"context"
	"fmt"
	"strings"

	"rei_analyzer/pkg/core/deal"
	"rei_analyzer/pkg/core/utils"
)

// DueDiligenceReport is the structured output the model is asked to produce.
// Fields the model omits stay zero-valued; the parse layer never invents data.
type DueDiligenceReport struct {
	Summary          string   `json:"summary"`
	Strengths        []string `json:"strengths"`
	Concerns         []string `json:"concerns"`
	InspectionItems  []string `json:"inspection_items"`
	EstimatedRepairs *float64 `json:"estimated_repairs,omitempty"`
	Recommendation   string   `json:"recommendation"` // proceed | proceed_with_caution | pass
	Confidence       float64  `json:"confidence"`     // 0..1
}

const diligenceSystemPrompt = `You are a residential real-estate due-diligence analyst.
You receive the quantitative profile of a single rental deal and respond with a JSON object:
{"summary": string, "strengths": [string], "concerns": [string], "inspection_items": [string],
 "estimated_repairs": number or null, "recommendation": "proceed"|"proceed_with_caution"|"pass",
 "confidence": number between 0 and 1}
Respond with the JSON object only. Base every statement on the figures provided; do not invent listing details.`

// BuildDiligencePrompt renders an analyzed deal into the prompt body. It is
// deterministic for a given deal state so prompt construction can be tested
// without a provider.
func BuildDiligencePrompt(d *deal.Deal) (string, error) {
	if d == nil || d.Property == nil {
		return "", fmt.Errorf("diligence prompt requires a deal with a property")
	}
	if d.Financials == nil || !d.Financials.Calculated() {
		return "", fmt.Errorf("deal %s must be analyzed before research", d.ID)
	}
	m := d.Financials.Metrics

	var b strings.Builder
	fmt.Fprintf(&b, "Property: %s, %s %s (%s)\n", d.Property.Address, d.Property.City, d.Property.State, d.Property.PropertyType)
	fmt.Fprintf(&b, "Asking price: $%.0f, estimated rent: $%.0f/mo\n", d.Property.Price, d.Property.EstimatedRent)
	if d.Property.YearBuilt > 0 {
		fmt.Fprintf(&b, "Year built: %d\n", d.Property.YearBuilt)
	}
	if d.Property.DaysOnMarket != nil {
		fmt.Fprintf(&b, "Days on market: %d\n", *d.Property.DaysOnMarket)
	}

	fmt.Fprintf(&b, "\nUnderwriting:\n")
	fmt.Fprintf(&b, "- Monthly cash flow: $%.0f\n", m.MonthlyCashFlow)
	fmt.Fprintf(&b, "- NOI: $%.0f/yr\n", m.NOI)
	fmt.Fprintf(&b, "- Rent-to-price ratio: %.4f\n", m.RentToPriceRatio)
	writeRatio(&b, "Cash-on-cash return", m.CashOnCashReturn, "%.1f%%", 100)
	writeRatio(&b, "Cap rate", m.CapRate, "%.1f%%", 100)
	writeRatio(&b, "DSCR", m.DSCR, "%.2f", 1)
	writeRatio(&b, "Break-even occupancy", m.BreakEvenOccupancy, "%.0f%%", 100)
	if d.Analysis.RiskRating != "" {
		fmt.Fprintf(&b, "- Stress-test risk rating: %s\n", d.Analysis.RiskRating)
	}

	if len(d.Analysis.RedFlags) > 0 {
		fmt.Fprintf(&b, "\nScreening red flags:\n")
		for _, f := range d.Analysis.RedFlags {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	if d.Market != nil {
		fmt.Fprintf(&b, "\nMarket: %s, %s\n", d.Market.Name, d.Market.State)
	}
	return b.String(), nil
}

func writeRatio(b *strings.Builder, label string, v *float64, format string, scale float64) {
	if v == nil {
		fmt.Fprintf(b, "- %s: not defined for this deal\n", label)
		return
	}
	fmt.Fprintf(b, "- %s: "+format+"\n", label, *v*scale)
}

// ParseDiligenceReport recovers a report from raw model output, tolerating
// code fences and malformed JSON.
func ParseDiligenceReport(raw string) (*DueDiligenceReport, error) {
	var report DueDiligenceReport
	if _, err := utils.SmartParse(raw, &report); err != nil {
		return nil, fmt.Errorf("unparseable diligence response: %w", err)
	}
	if report.Summary == "" && report.Recommendation == "" {
		return nil, fmt.Errorf("diligence response parsed but carries no content")
	}
	switch report.Recommendation {
	case "", "proceed", "proceed_with_caution", "pass":
	default:
		// Keep the report but normalize an off-menu recommendation.
		report.Concerns = append(report.Concerns, fmt.Sprintf("model returned unknown recommendation %q", report.Recommendation))
		report.Recommendation = "proceed_with_caution"
	}
	if report.Confidence < 0 {
		report.Confidence = 0
	}
	if report.Confidence > 1 {
		report.Confidence = 1
	}
	return &report, nil
}

// RunDiligence builds the prompt, queries the provider, and parses the result.
func RunDiligence(ctx context.Context, p Provider, d *deal.Deal) (*DueDiligenceReport, error) {
	if p == nil {
		return nil, fmt.Errorf("diligence requires a provider")
	}
	prompt, err := BuildDiligencePrompt(d)
	if err != nil {
		return nil, err
	}
	raw, err := p.Generate(ctx, prompt, diligenceSystemPrompt)
	if err != nil {
		return nil, fmt.Errorf("diligence generation for deal %s: %w", d.ID, err)
	}
	return ParseDiligenceReport(raw)
}
