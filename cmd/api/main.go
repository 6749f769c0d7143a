package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"rei_analyzer/pkg/api/analyze"
	"rei_analyzer/pkg/api/deals"
	"rei_analyzer/pkg/api/markets"
	"rei_analyzer/pkg/core/dataprovider"
	"rei_analyzer/pkg/core/ranking"
	"rei_analyzer/pkg/core/store"
)

func main() {
	godotenv.Load()

	// Ranking config: fall back to defaults when the file is absent.
	cfg, err := ranking.LoadConfig("config/scoring.yaml")
	if err != nil {
		fmt.Printf("[CONFIG] %v, using defaults\n", err)
		cfg = ranking.DefaultConfig()
	}
	engine := ranking.NewEngine(cfg)
	provider := dataprovider.NewStaticProvider(dataprovider.BuiltinMarkets())

	// Persistence is optional: without DATABASE_URL the store-backed
	// endpoints return 503 and everything else works in-memory.
	var dealRepo *store.DealRepo
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(context.Background()); err != nil {
			fmt.Printf("[DB] Init failed: %v\n", err)
		} else {
			dealRepo = store.NewDealRepo(store.GetPool())
			defer store.Close()
			fmt.Println("[DB] Connected")
		}
	}

	analyze.InitHandler(provider, engine)
	deals.InitHandler(engine, dealRepo)
	markets.InitHandler(provider)

	http.HandleFunc("/api/analyze", analyze.HandleAnalyzeProperty)
	http.HandleFunc("/api/analyze/batch", analyze.HandleAnalyzeBatch)
	http.HandleFunc("/api/deals/rank", deals.HandleRankDeals)
	http.HandleFunc("/api/deals/explain", deals.HandleExplainDeal)
	http.HandleFunc("/api/deals/memo", deals.HandleDealMemo)
	http.HandleFunc("/api/deals/save", deals.HandleSaveDeal)
	http.HandleFunc("/api/deals", deals.HandleListDeals)
	http.HandleFunc("/api/markets", markets.HandleListMarkets)
	http.HandleFunc("/api/markets/metrics", markets.HandleMarketMetrics)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("API server starting on :%s...\n", port)
	fmt.Println("  - POST /api/analyze")
	fmt.Println("  - POST /api/analyze/batch")
	fmt.Println("  - POST /api/deals/rank")
	fmt.Println("  - POST /api/deals/explain")
	fmt.Println("  - POST /api/deals/memo  (?format=html)")
	fmt.Println("  - POST /api/deals/save")
	fmt.Println("  - GET  /api/deals?status=SHORTLISTED")
	fmt.Println("  - GET  /api/markets")
	fmt.Println("  - GET  /api/markets/metrics?name=Cleveland")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
