package deal

// DealScore is the ranking engine's verdict on a deal. Instances are
// populated exclusively by pkg/core/ranking; other packages read them.
type DealScore struct {
	Overall   float64 `json:"overall"`
	Financial float64 `json:"financial"`
	Market    float64 `json:"market"`
	Risk      float64 `json:"risk"`
	Liquidity float64 `json:"liquidity"`

	// Rank and Percentile are set only when the deal was scored as part of a
	// batch; a deal scored in isolation has neither.
	Rank       *int     `json:"rank,omitempty"`
	Percentile *float64 `json:"percentile,omitempty"`

	// StrategyScores re-weights the same sub-scores per investment strategy
	// (cash_flow, appreciation, value_add, balanced).
	StrategyScores map[string]float64 `json:"strategy_scores,omitempty"`
}
