package markets

import (
	"encoding/json"
	"fmt"
	"net/http"

	"rei_analyzer/pkg/core/dataprovider"
	"rei_analyzer/pkg/core/market"
)

var provider dataprovider.MarketDataProvider

// InitHandler wires the market endpoints to a data provider.
func InitHandler(p dataprovider.MarketDataProvider) {
	provider = p
}

func cors(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

// HandleListMarkets returns every known market scored with default weights.
func HandleListMarkets(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if provider == nil {
		http.Error(w, "No market data configured", http.StatusServiceUnavailable)
		return
	}

	all := provider.Markets()
	out := make([]*market.Metrics, 0, len(all))
	for _, m := range all {
		out = append(out, market.FromMarket(m))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// HandleMarketMetrics scores one market by name (?name=Cleveland).
func HandleMarketMetrics(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if provider == nil {
		http.Error(w, "No market data configured", http.StatusServiceUnavailable)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "name query parameter is required", http.StatusBadRequest)
		return
	}
	m, err := provider.Market(name)
	if err != nil {
		http.Error(w, fmt.Sprintf("Market not found: %s", name), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(market.FromMarket(m))
}
