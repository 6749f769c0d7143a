package market

import (
	"rei_analyzer/pkg/models"
)

// NeutralScore is the sub-score used when the underlying raw fields are
// missing: the market is neither rewarded nor penalized for unknown data.
const NeutralScore = 50.0

// Weights controls how sub-scores combine into the overall market score.
// Values must sum to 1; cash flow and growth dominate by default, matching
// the product's investment orientation.
type Weights struct {
	CashFlow      float64 `yaml:"cash_flow" json:"cash_flow"`
	Growth        float64 `yaml:"growth" json:"growth"`
	Affordability float64 `yaml:"affordability" json:"affordability"`
	Stability     float64 `yaml:"stability" json:"stability"`
	Liquidity     float64 `yaml:"liquidity" json:"liquidity"`
	OperatingCost float64 `yaml:"operating_cost" json:"operating_cost"`
	Regulatory    float64 `yaml:"regulatory" json:"regulatory"`
}

// DefaultWeights returns the documented weighting constants.
func DefaultWeights() Weights {
	return Weights{
		CashFlow:      0.25,
		Growth:        0.20,
		Affordability: 0.15,
		Stability:     0.15,
		Liquidity:     0.10,
		OperatingCost: 0.10,
		Regulatory:    0.05,
	}
}

// Metrics holds the derived 0-100 sub-scores for a market. Always computed
// fresh from a Market snapshot via FromMarket; never persisted independently
// of its source, to avoid serving stale scores.
type Metrics struct {
	MarketName string `json:"market_name"`

	CashFlowScore      float64 `json:"cash_flow_score"`
	GrowthScore        float64 `json:"growth_score"`
	AffordabilityScore float64 `json:"affordability_score"`
	StabilityScore     float64 `json:"stability_score"`
	LiquidityScore     float64 `json:"liquidity_score"`
	OperatingCostScore float64 `json:"operating_cost_score"`
	RegulatoryScore    float64 `json:"regulatory_score"`

	OverallScore     float64 `json:"overall_score"`
	DataCompleteness float64 `json:"data_completeness"` // Fraction of expected fields present
}

// FromMarket scores a market with default weights.
func FromMarket(m *models.Market) *Metrics {
	return FromMarketWeighted(m, DefaultWeights())
}

// FromMarketWeighted is the pure Market -> Metrics transformation. Every
// sub-score is a clamped piecewise-linear map of raw fields, monotone in the
// documented direction and bounded to [0,100] for arbitrary inputs.
func FromMarketWeighted(m *models.Market, w Weights) *Metrics {
	metrics := &Metrics{MarketName: m.Name}

	metrics.CashFlowScore = cashFlowScore(m)
	metrics.GrowthScore = growthScore(m)
	metrics.AffordabilityScore = affordabilityScore(m)
	metrics.StabilityScore = stabilityScore(m)
	metrics.LiquidityScore = liquidityScore(m)
	metrics.OperatingCostScore = operatingCostScore(m)
	metrics.RegulatoryScore = regulatoryScore(m)

	metrics.OverallScore = clamp(
		metrics.CashFlowScore*w.CashFlow+
			metrics.GrowthScore*w.Growth+
			metrics.AffordabilityScore*w.Affordability+
			metrics.StabilityScore*w.Stability+
			metrics.LiquidityScore*w.Liquidity+
			metrics.OperatingCostScore*w.OperatingCost+
			metrics.RegulatoryScore*w.Regulatory,
		0, 100)

	metrics.DataCompleteness = completeness(m)
	return metrics
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// scaleUp maps v linearly from [lo,hi] onto [0,100]; values below lo score 0,
// above hi score 100. Monotone increasing.
func scaleUp(v, lo, hi float64) float64 {
	return clamp((v-lo)/(hi-lo)*100, 0, 100)
}

// scaleDown is the monotone decreasing counterpart.
func scaleDown(v, lo, hi float64) float64 {
	return 100 - scaleUp(v, lo, hi)
}

// average of the present components; neutral when none are present.
func average(parts ...*float64) float64 {
	var sum float64
	var n int
	for _, p := range parts {
		if p != nil {
			sum += *p
			n++
		}
	}
	if n == 0 {
		return NeutralScore
	}
	return sum / float64(n)
}

func ptr(v float64) *float64 { return &v }

// cashFlowScore: higher rent-to-price ratio scores higher. 0.4% monthly is
// a poor cash-flow market, 1.0% an excellent one. Ratio is a raw fraction.
func cashFlowScore(m *models.Market) float64 {
	ratio := m.RentToPriceRatio()
	if ratio == nil {
		return NeutralScore
	}
	return scaleUp(*ratio, 0.004, 0.010)
}

// growthScore: population growth, job growth, and recent price/rent trends,
// each monotone increasing.
func growthScore(m *models.Market) float64 {
	var parts []*float64
	if m.PopulationGrowthRate != nil {
		parts = append(parts, ptr(scaleUp(*m.PopulationGrowthRate, -0.01, 0.03)))
	}
	if m.JobGrowthRate != nil {
		parts = append(parts, ptr(scaleUp(*m.JobGrowthRate, -0.01, 0.04)))
	}
	if m.PriceGrowth1Yr != nil {
		parts = append(parts, ptr(scaleUp(*m.PriceGrowth1Yr, -0.05, 0.10)))
	}
	if m.RentGrowth1Yr != nil {
		parts = append(parts, ptr(scaleUp(*m.RentGrowth1Yr, -0.02, 0.08)))
	}
	return average(parts...)
}

// affordabilityScore: lower price-to-income multiple scores higher. A 3x
// multiple is very affordable, 8x is stretched.
func affordabilityScore(m *models.Market) float64 {
	if m.MedianHomePrice == nil || m.MedianHouseholdIncome == nil || *m.MedianHouseholdIncome <= 0 {
		return NeutralScore
	}
	multiple := *m.MedianHomePrice / *m.MedianHouseholdIncome
	return scaleDown(multiple, 3, 8)
}

// stabilityScore: lower unemployment and lower price volatility score higher.
func stabilityScore(m *models.Market) float64 {
	var parts []*float64
	if m.UnemploymentRate != nil {
		parts = append(parts, ptr(scaleDown(*m.UnemploymentRate, 0.03, 0.10)))
	}
	if m.PriceVolatility != nil {
		parts = append(parts, ptr(scaleDown(*m.PriceVolatility, 0.02, 0.12)))
	}
	return average(parts...)
}

// liquidityScore: fewer days on market and fewer months of inventory score
// higher.
func liquidityScore(m *models.Market) float64 {
	var parts []*float64
	if m.DaysOnMarket != nil {
		parts = append(parts, ptr(scaleDown(*m.DaysOnMarket, 10, 90)))
	}
	if m.MonthsOfInventory != nil {
		parts = append(parts, ptr(scaleDown(*m.MonthsOfInventory, 1, 9)))
	}
	return average(parts...)
}

// operatingCostScore: lower tax and insurance burden scores higher.
func operatingCostScore(m *models.Market) float64 {
	var parts []*float64
	if m.PropertyTaxRate != nil {
		parts = append(parts, ptr(scaleDown(*m.PropertyTaxRate, 0.005, 0.025)))
	}
	if m.InsuranceRate != nil {
		parts = append(parts, ptr(scaleDown(*m.InsuranceRate, 0.002, 0.015)))
	}
	return average(parts...)
}

// regulatoryScore: landlord-friendly statutes and the absence of a state
// income tax both raise the score.
func regulatoryScore(m *models.Market) float64 {
	if m.LandlordFriendly == nil && m.StateIncomeTax == nil {
		return NeutralScore
	}
	score := 20.0
	if m.LandlordFriendly != nil && *m.LandlordFriendly {
		score += 50
	}
	if m.StateIncomeTax != nil && !*m.StateIncomeTax {
		score += 30
	}
	return clamp(score, 0, 100)
}

// completeness counts the expected raw fields a provider actually supplied.
func completeness(m *models.Market) float64 {
	present := 0
	total := 15
	for _, p := range []*float64{
		m.Population, m.PopulationGrowthRate, m.JobGrowthRate, m.UnemploymentRate,
		m.MedianHouseholdIncome, m.MedianHomePrice, m.MedianRent,
		m.PriceGrowth1Yr, m.RentGrowth1Yr, m.PriceVolatility,
		m.DaysOnMarket, m.MonthsOfInventory, m.PropertyTaxRate, m.InsuranceRate,
	} {
		if p != nil {
			present++
		}
	}
	// Regulatory flags count as one combined field.
	if m.LandlordFriendly != nil || m.StateIncomeTax != nil {
		present++
	}
	return float64(present) / float64(total)
}
