package deals

import (
	"encoding/json"
	"fmt"
	"net/http"

	"rei_analyzer/pkg/core/deal"
	"rei_analyzer/pkg/core/ranking"
	"rei_analyzer/pkg/core/report"
	"rei_analyzer/pkg/core/sensitivity"
	"rei_analyzer/pkg/core/store"
)

var (
	engine   *ranking.Engine
	dealRepo *store.DealRepo
)

// InitHandler wires the deal endpoints. repo may be nil when no database is
// configured; the persistence-backed endpoints then return 503.
func InitHandler(ranker *ranking.Engine, repo *store.DealRepo) {
	engine = ranker
	dealRepo = repo
}

func cors(w http.ResponseWriter, r *http.Request, methods string) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods+", OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

// RankRequest re-ranks previously analyzed deals.
type RankRequest struct {
	Deals        []*deal.Deal `json:"deals"`
	Strategy     string       `json:"strategy,omitempty"`
	ApplyFilters bool         `json:"apply_filters,omitempty"`
}

// HandleRankDeals scores and ranks the submitted deals.
func HandleRankDeals(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Deals) == 0 {
		http.Error(w, "deals is required", http.StatusBadRequest)
		return
	}

	var ranked []*deal.Deal
	if req.Strategy != "" {
		ranked = engine.RankDealsByStrategy(req.Deals, req.Strategy, nil, req.ApplyFilters)
	} else {
		ranked = engine.RankDeals(req.Deals, nil, req.ApplyFilters)
	}
	fmt.Printf("[API] Ranked %d of %d deals (strategy=%q)\n", len(ranked), len(req.Deals), req.Strategy)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ranked)
}

// HandleExplainDeal decomposes a submitted deal's score.
func HandleExplainDeal(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var d deal.Deal
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	breakdown, err := engine.ExplainScore(&d)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(breakdown)
}

// HandleDealMemo renders an investment memo for a submitted deal.
// ?format=html converts the markdown through goldmark.
func HandleDealMemo(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var d deal.Deal
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	in := report.MemoInput{Deal: &d}
	if bd, err := engine.ExplainScore(&d); err == nil {
		in.Breakdown = bd
	}
	if stress, err := sensitivity.NewAnalyzer().Analyze(&d); err == nil {
		in.Sensitivity = stress
	}

	if r.URL.Query().Get("format") == "html" {
		html, err := report.RenderMemoHTML(in)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, html)
		return
	}

	memo, err := report.RenderMemo(in)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	fmt.Fprint(w, memo)
}

// HandleSaveDeal persists a deal to the configured database.
func HandleSaveDeal(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if dealRepo == nil {
		http.Error(w, "Persistence not configured", http.StatusServiceUnavailable)
		return
	}

	var d deal.Deal
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := dealRepo.Save(r.Context(), &d); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"id": d.ID, "status": "saved"})
}

// HandleListDeals lists stored deals by pipeline status.
func HandleListDeals(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "GET") {
		return
	}
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if dealRepo == nil {
		http.Error(w, "Persistence not configured", http.StatusServiceUnavailable)
		return
	}

	status := deal.Status(r.URL.Query().Get("status"))
	if status == "" {
		status = deal.StatusShortlisted
	}
	out, err := dealRepo.ListByStatus(r.Context(), status, 50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
