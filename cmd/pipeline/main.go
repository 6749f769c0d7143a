package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"rei_analyzer/pkg/core/agents"
	"rei_analyzer/pkg/core/dataprovider"
	"rei_analyzer/pkg/core/deal"
	"rei_analyzer/pkg/core/market"
	"rei_analyzer/pkg/core/ranking"
	"rei_analyzer/pkg/core/report"
	"rei_analyzer/pkg/core/research"
	"rei_analyzer/pkg/core/sensitivity"
	"rei_analyzer/pkg/core/store"
)

// Batch pipeline over sample listings: research markets, generate listings,
// analyze and rank them, triage through the acquisition pipeline, and print a
// memo for the top deal. With DATABASE_URL set, survivors are persisted.
func main() {
	godotenv.Load()

	marketName := flag.String("market", "", "analyze a single market (default: best-scoring)")
	count := flag.Int("count", 20, "listings to generate per market")
	strategy := flag.String("strategy", "", "ranking strategy: cash_flow, appreciation, value_add, balanced")
	seed := flag.Int64("seed", 42, "listing generator seed")
	diligence := flag.Bool("diligence", false, "run LLM due diligence on the top deal (needs GEMINI_API_KEY)")
	flag.Parse()

	ctx := context.Background()

	agentCfg, err := agents.LoadAgentConfig("config/agents.yaml")
	if err != nil {
		fmt.Printf("[CONFIG] %v, using defaults\n", err)
		agentCfg = agents.DefaultAgentConfig()
	}
	rankCfg, err := ranking.LoadConfig("config/scoring.yaml")
	if err != nil {
		fmt.Printf("[CONFIG] %v, using defaults\n", err)
		rankCfg = ranking.DefaultConfig()
	}
	if *strategy == "" {
		*strategy = agentCfg.Strategy
	}

	provider := dataprovider.NewStaticProvider(dataprovider.BuiltinMarkets())

	// Step 1: pick the market.
	scout := agents.NewMarketResearchAgent(provider, market.DefaultWeights())
	resResult, err := scout.Run(ctx, agents.Input{MarketName: *marketName})
	if err != nil {
		fmt.Printf("[FATAL] Market research failed: %v\n", err)
		os.Exit(1)
	}
	target := resResult.MarketMetrics.MarketName
	fmt.Printf("\nTarget market: %s (score %.1f)\n\n", target, resResult.MarketMetrics.OverallScore)

	// Step 2: pull listings.
	gen := dataprovider.NewMockListingGenerator(*seed, provider)
	listings, err := gen.Listings(target, *count)
	if err != nil {
		fmt.Printf("[FATAL] Listing generation failed: %v\n", err)
		os.Exit(1)
	}

	// Step 3: analyze + rank.
	analyzer := agents.NewDealAnalyzerAgent(provider, ranking.NewEngine(rankCfg), agentCfg.Concurrency)
	analysis, err := analyzer.Run(ctx, agents.Input{
		Properties:   listings,
		MarketName:   target,
		Strategy:     *strategy,
		ApplyFilters: agentCfg.ApplyFilters,
	})
	if err != nil {
		fmt.Printf("[FATAL] Analysis failed: %v\n", err)
		os.Exit(1)
	}

	// Step 4: triage.
	pipeline := agents.NewPipelineAgent()
	pipeline.ShortlistScore = agentCfg.ShortlistScore
	pipeline.RejectScore = agentCfg.RejectScore
	triaged, err := pipeline.Run(ctx, agents.Input{Deals: analysis.Deals})
	if err != nil {
		fmt.Printf("[FATAL] Triage failed: %v\n", err)
		os.Exit(1)
	}

	printTable(triaged.Deals)

	// Step 5: persist survivors when a database is configured.
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(ctx); err != nil {
			fmt.Printf("[DB] Init failed: %v\n", err)
		} else {
			defer store.Close()
			repo := store.NewDealRepo(store.GetPool())
			if errs := repo.SaveBatch(ctx, triaged.Deals); len(errs) > 0 {
				fmt.Printf("[DB] %d deals failed to save\n", len(errs))
			} else {
				fmt.Printf("[DB] Saved %d deals\n", len(triaged.Deals))
			}
		}
	}

	if len(triaged.Deals) == 0 {
		return
	}
	top := triaged.Deals[0]

	// Step 6: memo for the top deal.
	engine := ranking.NewEngine(rankCfg)
	memoIn := report.MemoInput{Deal: top}
	if bd, err := engine.ExplainScore(top); err == nil {
		memoIn.Breakdown = bd
	}
	if stress, err := sensitivity.NewAnalyzer().Analyze(top); err == nil {
		memoIn.Sensitivity = stress
	}
	memo, err := report.RenderMemo(memoIn)
	if err != nil {
		fmt.Printf("[MEMO] Render failed: %v\n", err)
		return
	}
	fmt.Println("\n" + memo)

	// Step 7: optional LLM due diligence.
	if *diligence {
		runDiligence(ctx, top)
	}
}

func runDiligence(ctx context.Context, d *deal.Deal) {
	fmt.Println("\nRunning due diligence...")
	rep, err := research.RunDiligence(ctx, &research.GeminiProvider{}, d)
	if err != nil {
		fmt.Printf("[DILIGENCE] Failed: %v\n", err)
		return
	}
	fmt.Printf("[DILIGENCE] %s (confidence %.0f%%)\n", rep.Recommendation, rep.Confidence*100)
	fmt.Printf("  %s\n", rep.Summary)
	for _, c := range rep.Concerns {
		fmt.Printf("  - concern: %s\n", c)
	}
	for _, it := range rep.InspectionItems {
		fmt.Printf("  - inspect: %s\n", it)
	}
}

func printTable(deals []*deal.Deal) {
	fmt.Printf("\n%-4s %-26s %10s %9s %8s %7s %-12s\n", "#", "Address", "Price", "Rent", "CF/mo", "Score", "Status")
	for i, d := range deals {
		score := 0.0
		if d.Analysis.Score != nil {
			score = d.Analysis.Score.Overall
		}
		cf := 0.0
		if d.Financials != nil && d.Financials.Metrics != nil {
			cf = d.Financials.Metrics.MonthlyCashFlow
		}
		fmt.Printf("%-4d %-26s %10.0f %9.0f %8.0f %7.1f %-12s\n",
			i+1, d.Property.Address, d.Property.Price, d.Property.EstimatedRent, cf, score, d.Analysis.Status)
	}
	fmt.Println()
}
