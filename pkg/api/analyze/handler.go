package analyze

import (
	"encoding/json"
	"fmt"
	"net/http"

	"rei_analyzer/pkg/core/agents"
	"rei_analyzer/pkg/core/dataprovider"
	"rei_analyzer/pkg/core/deal"
	"rei_analyzer/pkg/core/finance"
	"rei_analyzer/pkg/core/ranking"
	"rei_analyzer/pkg/core/sensitivity"
	"rei_analyzer/pkg/models"
)

var (
	markets dataprovider.MarketDataProvider
	engine  *ranking.Engine
	sens    *sensitivity.Analyzer
)

// InitHandler wires the analysis endpoints. The provider may be nil when no
// market data is configured; analysis then runs without market context.
func InitHandler(provider dataprovider.MarketDataProvider, ranker *ranking.Engine) {
	markets = provider
	engine = ranker
	sens = sensitivity.NewAnalyzer()
}

// AnalyzeRequest carries one property plus optional assumption overrides.
type AnalyzeRequest struct {
	Property *models.Property           `json:"property"`
	Loan     *finance.LoanTerms         `json:"loan,omitempty"`
	Expenses *finance.OperatingExpenses `json:"expenses,omitempty"`
}

// AnalyzeResponse is the full single-deal analysis.
type AnalyzeResponse struct {
	Deal        *deal.Deal          `json:"deal"`
	Sensitivity *sensitivity.Result `json:"sensitivity"`
	Breakdown   *ranking.Breakdown  `json:"breakdown"`
}

// BatchRequest analyzes and ranks a set of properties in one call.
type BatchRequest struct {
	Properties   []*models.Property         `json:"properties"`
	Loan         *finance.LoanTerms         `json:"loan,omitempty"`
	Expenses     *finance.OperatingExpenses `json:"expenses,omitempty"`
	MarketName   string                     `json:"market_name,omitempty"`
	Strategy     string                     `json:"strategy,omitempty"`
	ApplyFilters bool                       `json:"apply_filters,omitempty"`
}

func cors(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

// HandleAnalyzeProperty runs the full analysis chain for a single property.
func HandleAnalyzeProperty(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Property == nil {
		http.Error(w, "property is required", http.StatusBadRequest)
		return
	}

	d := deal.FromProperty(req.Property, req.Loan, req.Expenses)
	if markets != nil && req.Property.MarketName != "" {
		if m, err := markets.Market(req.Property.MarketName); err == nil {
			d.Market = m
		}
	}
	if err := d.Analyze(); err != nil {
		http.Error(w, fmt.Sprintf("Analysis failed: %v", err), http.StatusUnprocessableEntity)
		return
	}

	stress, err := sens.Analyze(d)
	if err != nil {
		http.Error(w, fmt.Sprintf("Sensitivity failed: %v", err), http.StatusInternalServerError)
		return
	}
	d.Analysis.RiskRating = stress.RiskRating

	d.Analysis.Score = engine.Score(d, nil)
	breakdown, err := engine.ExplainScore(d)
	if err != nil {
		http.Error(w, fmt.Sprintf("Scoring failed: %v", err), http.StatusInternalServerError)
		return
	}

	fmt.Printf("[API] Analyzed %s: cash flow $%.0f/mo, score %.1f, risk %s\n",
		d.ID, d.Financials.Metrics.MonthlyCashFlow, d.Analysis.Score.Overall, d.Analysis.RiskRating)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AnalyzeResponse{Deal: d, Sensitivity: stress, Breakdown: breakdown})
}

// HandleAnalyzeBatch analyzes and ranks a batch through the analyzer agent.
func HandleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Properties) == 0 {
		http.Error(w, "properties is required", http.StatusBadRequest)
		return
	}

	agent := agents.NewDealAnalyzerAgent(markets, engine, 0)
	res, err := agent.Run(r.Context(), agents.Input{
		Properties:   req.Properties,
		Loan:         req.Loan,
		Expenses:     req.Expenses,
		MarketName:   req.MarketName,
		Strategy:     req.Strategy,
		ApplyFilters: req.ApplyFilters,
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("Batch analysis failed: %v", err), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
