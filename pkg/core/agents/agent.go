package agents

import (
	"context"
	"time"

	"rei_analyzer/pkg/core/deal"
	"rei_analyzer/pkg/core/finance"
	"rei_analyzer/pkg/core/market"
	"rei_analyzer/pkg/models"
)

// Agent is the capability contract implemented by every orchestration agent.
// Agents sequence the core components over collections of inputs; they hold
// their own dependencies and share no mutable base state.
type Agent interface {
	Name() string
	Run(ctx context.Context, in Input) (*Result, error)
}

// Input is the union of parameters agents consume; each agent reads the
// fields relevant to it and ignores the rest.
type Input struct {
	Properties []*models.Property
	Deals      []*deal.Deal
	MarketName string

	// Optional overrides; defaults apply when nil.
	Loan     *finance.LoanTerms
	Expenses *finance.OperatingExpenses

	ApplyFilters bool
	Strategy     string // Rank by strategy score when set
}

// Result aggregates an agent run. Success is true when at least one item
// succeeded; per-item failures are collected in Errors and never abort the
// remaining items.
type Result struct {
	AgentName     string             `json:"agent_name"`
	Success       bool               `json:"success"`
	Deals         []*deal.Deal       `json:"deals,omitempty"`
	MarketMetrics *market.Metrics    `json:"market_metrics,omitempty"`
	Summary       map[string]int     `json:"summary,omitempty"`
	Errors        []string           `json:"errors,omitempty"`
	Duration      time.Duration      `json:"duration"`
}
